package material

import (
	"github.com/earthshine/rpv/pkg/core"
)

// LobeType tags the scattering lobe a sample was drawn from
type LobeType uint32

const (
	LobeGlossyReflection LobeType = 1 << iota
	LobeDiffuseReflection
	LobeDiffuseTransmission

	// LobeAll enables every lobe
	LobeAll = LobeGlossyReflection | LobeDiffuseReflection | LobeDiffuseTransmission
)

// ScatterContext restricts which lobes a query may touch and carries the
// shading point used to evaluate spatially varying parameters.
// The zero value enables all lobes at the frame origin.
type ScatterContext struct {
	Point   core.Vec3
	Enabled LobeType // zero means all lobes enabled
}

// IsEnabled reports whether the given lobe may be sampled or evaluated
func (c ScatterContext) IsEnabled(lobe LobeType) bool {
	return c.Enabled == 0 || c.Enabled&lobe != 0
}

// SampleResult is the outcome of drawing an outgoing direction from a BSDF
type SampleResult struct {
	Wo          core.Vec3 // sampled outgoing direction, local frame
	PDF         float64   // density of Wo under the sampling strategy used
	Lobe        LobeType  // lobe that produced the sample
	RelativeIOR float64   // always 1: these models do not refract
	Weight      float64   // Eval(wi, Wo), reflectance with foreshortening
}

// BSDF is the evaluation and sampling contract shared by all reflectance
// models in this package.
//
// Directions are unit vectors in a local orthonormal frame whose +z axis is
// the shading normal. Both wi and wo point away from the surface: wi toward
// the viewer or light illuminating it, wo along the scattered ray. Eval
// includes the |cos θo| foreshortening factor.
//
// All three methods are pure, never allocate after construction, and are
// safe to call from any number of goroutines.
type BSDF interface {
	// Sample draws an outgoing direction using two uniforms in [0, 1).
	// It reports false when no sample can be produced, e.g. the relevant
	// lobes are disabled or the model cannot scatter this incidence.
	Sample(ctx ScatterContext, wi core.Vec3, sample core.Vec2) (SampleResult, bool)

	// Eval returns the reflectance for the direction pair, including the
	// cosine foreshortening factor, or 0 outside the model's domain
	Eval(ctx ScatterContext, wi, wo core.Vec3) float64

	// PDF returns the density Sample would have reported had it produced
	// exactly wo for this wi
	PDF(ctx ScatterContext, wi, wo core.Vec3) float64
}
