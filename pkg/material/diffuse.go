package material

import (
	"math"

	"github.com/earthshine/rpv/pkg/core"
)

// Diffuse is a one-sided Lambertian reflectance model. It is the reference
// collaborator for the RPV model, which degenerates to it for k = 1, g = 0
// and ρc = 1.
type Diffuse struct {
	Reflectance ParamSource
}

var _ BSDF = (*Diffuse)(nil)

// NewDiffuse creates a diffuse model; a nil source defaults to 0.5
func NewDiffuse(reflectance ParamSource) *Diffuse {
	if reflectance == nil {
		reflectance = Constant(0.5)
	}
	return &Diffuse{Reflectance: reflectance}
}

// Sample draws a cosine-weighted direction in the upper hemisphere
func (d *Diffuse) Sample(ctx ScatterContext, wi core.Vec3, sample core.Vec2) (SampleResult, bool) {
	if !ctx.IsEnabled(LobeDiffuseReflection) || core.CosTheta(wi) <= 0 {
		return SampleResult{}, false
	}

	sample = core.NewVec2(core.ClampUnit(sample.X), core.ClampUnit(sample.Y))
	wo := core.SampleCosineHemisphere(sample)
	pdf := core.CosineHemispherePDF(wo)
	if pdf <= 0 {
		return SampleResult{}, false
	}
	return SampleResult{
		Wo:          wo,
		PDF:         pdf,
		Lobe:        LobeDiffuseReflection,
		RelativeIOR: 1,
		Weight:      d.Eval(ctx, wi, wo),
	}, true
}

// Eval returns reflectance/π times the outgoing cosine
func (d *Diffuse) Eval(ctx ScatterContext, wi, wo core.Vec3) float64 {
	if !ctx.IsEnabled(LobeDiffuseReflection) {
		return 0
	}
	cosThetaO := core.CosTheta(wo)
	if core.CosTheta(wi) <= 0 || cosThetaO <= 0 {
		return 0
	}
	return d.Reflectance.Evaluate(ctx.Point) / math.Pi * cosThetaO
}

// PDF returns the cosine-hemisphere density for wo
func (d *Diffuse) PDF(ctx ScatterContext, wi, wo core.Vec3) float64 {
	if !ctx.IsEnabled(LobeDiffuseReflection) || core.CosTheta(wi) <= 0 {
		return 0
	}
	return core.CosineHemispherePDF(wo)
}
