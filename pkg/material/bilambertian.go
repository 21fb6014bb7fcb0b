package material

import (
	"math"

	"github.com/earthshine/rpv/pkg/core"
)

// BiLambertian scatters light diffusely into the entire sphere: the
// reflectance is the fraction scattered back into the incident hemisphere
// and the transmittance the fraction scattered through the surface. The
// material is two-sided.
type BiLambertian struct {
	Reflectance   ParamSource
	Transmittance ParamSource
}

var _ BSDF = (*BiLambertian)(nil)

// NewBiLambertian creates a bi-Lambertian model; nil sources default to 0.5
func NewBiLambertian(reflectance, transmittance ParamSource) *BiLambertian {
	if reflectance == nil {
		reflectance = Constant(0.5)
	}
	if transmittance == nil {
		transmittance = Constant(0.5)
	}
	return &BiLambertian{Reflectance: reflectance, Transmittance: transmittance}
}

// lobeWeights returns the probabilities of sampling the reflection and
// transmission lobes. Disabled lobes get zero weight; the weights sum to 1
// unless both lobes are disabled or both parameters are zero.
func (b *BiLambertian) lobeWeights(ctx ScatterContext) (wr, wt float64) {
	hasR := ctx.IsEnabled(LobeDiffuseReflection)
	hasT := ctx.IsEnabled(LobeDiffuseTransmission)
	if !hasR && !hasT {
		return 0, 0
	}

	r := b.Reflectance.Evaluate(ctx.Point)
	t := b.Transmittance.Evaluate(ctx.Point)
	switch {
	case !hasT:
		if r > 0 {
			wr = 1
		}
	case !hasR:
		if t > 0 {
			wt = 1
		}
	case r+t > 0:
		wr = r / (r + t)
		wt = 1 - wr
	}
	return wr, wt
}

// Sample selects a lobe in proportion to the reflectance/transmittance
// split, reusing and renormalizing the first uniform, then draws a
// cosine-weighted direction on the matching side of the surface.
func (b *BiLambertian) Sample(ctx ScatterContext, wi core.Vec3, sample core.Vec2) (SampleResult, bool) {
	cosThetaI := core.CosTheta(wi)
	if cosThetaI == 0 {
		return SampleResult{}, false
	}

	wr, wt := b.lobeWeights(ctx)
	if wr+wt <= 0 {
		return SampleResult{}, false
	}

	u := core.ClampUnit(sample.X)
	reflect := u < wr
	if reflect {
		u /= wr
	} else {
		u = (u - wr) / wt
	}

	wo := core.SampleCosineHemisphere(core.NewVec2(core.ClampUnit(u), core.ClampUnit(sample.Y)))
	pdf := core.CosineHemispherePDF(wo)

	// Move the sample to the incident side, then flip it through the
	// surface when transmission was selected.
	if cosThetaI < 0 {
		wo.Z = -wo.Z
	}
	lobe := LobeDiffuseReflection
	if reflect {
		pdf *= wr
	} else {
		wo.Z = -wo.Z
		pdf *= wt
		lobe = LobeDiffuseTransmission
	}
	if pdf <= 0 {
		return SampleResult{}, false
	}

	return SampleResult{
		Wo:          wo,
		PDF:         pdf,
		Lobe:        lobe,
		RelativeIOR: 1,
		Weight:      b.Eval(ctx, wi, wo),
	}, true
}

// Eval returns reflectance/π·|cos θo| for same-side pairs and
// transmittance/π·|cos θo| for opposite-side pairs
func (b *BiLambertian) Eval(ctx ScatterContext, wi, wo core.Vec3) float64 {
	cosThetaI := core.CosTheta(wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI == 0 || cosThetaO == 0 {
		return 0
	}

	sameSide := (cosThetaI > 0) == (cosThetaO > 0)
	var value float64
	switch {
	case sameSide && ctx.IsEnabled(LobeDiffuseReflection):
		value = b.Reflectance.Evaluate(ctx.Point)
	case !sameSide && ctx.IsEnabled(LobeDiffuseTransmission):
		value = b.Transmittance.Evaluate(ctx.Point)
	default:
		return 0
	}
	return value / math.Pi * math.Abs(cosThetaO)
}

// PDF returns the cosine density on wo's hemisphere weighted by the
// probability of selecting the lobe that reaches it
func (b *BiLambertian) PDF(ctx ScatterContext, wi, wo core.Vec3) float64 {
	cosThetaI := core.CosTheta(wi)
	cosThetaO := core.CosTheta(wo)
	if cosThetaI == 0 || cosThetaO == 0 {
		return 0
	}

	wr, wt := b.lobeWeights(ctx)
	p := core.CosineHemispherePDF(core.NewVec3(wo.X, wo.Y, math.Abs(cosThetaO)))
	if (cosThetaI > 0) == (cosThetaO > 0) {
		return p * wr
	}
	return p * wt
}
