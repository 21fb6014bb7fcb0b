package material

import (
	"math"

	"github.com/earthshine/rpv/pkg/core"
)

// Default resolution of the precomputed sampling table, matching the
// historical 32³ grids used with this model family
const (
	defaultGridThetaI = 32
	defaultGridThetaO = 32
	defaultGridPhi    = 32
)

// quantEps nudges angle quantization upward so a direction reconstructed on
// a cell's lower edge still lands in that cell after an acos or atan2
// round trip
const quantEps = 1e-9

// RPVParams holds the four parameters of the Rahman-Pinty-Verstraete
// reflectance model. Nil sources take the customary defaults:
// ρ0 = 0.1, k = 0.1, g = 0 and ρc equal to ρ0.
type RPVParams struct {
	Rho0 ParamSource // amplitude, ≥ 0
	K    ParamSource // Minnaert bowl-shape exponent
	G    ParamSource // Henyey-Greenstein asymmetry, in [-1, 1]
	RhoC ParamSource // hot-spot parameter
}

// RPVOptions configures sampling-table construction
type RPVOptions struct {
	// Grid resolution along incident zenith, outgoing zenith and relative
	// azimuth. Zero values use the 32³ default.
	NThetaI, NThetaO, NPhi int

	// Logger, when set, receives construction diagnostics
	Logger core.Logger
}

// RPV is the Rahman-Pinty-Verstraete anisotropic reflectance model.
//
// The model has no closed-form inverse CDF, so construction tabulates the
// reflectance over a regular (incident zenith, outgoing zenith, relative
// azimuth) grid and derives nested marginal/conditional cumulative tables
// from it, one (θo, φ) table per incident-zenith bin. Sample walks those
// tables by binary search; PDF re-derives the same grid cell by the same
// quantization rule, so the two always agree. Zenith axes cover [0, π/2),
// the azimuth axis covers [0, 2π) measured relative to the incident
// azimuth.
//
// The tables are immutable once NewRPV returns and all methods are safe
// for concurrent use. The material is one-sided: incidence at or below the
// horizon yields zero everywhere.
type RPV struct {
	params RPVParams

	// Reference-point parameter values baked into the table
	rho0, k, g, rhoC float64

	nThetaI, nThetaO, nPhi int
	slices                 []core.NestedCDF // one (θo, φ) CDF pair per θi bin
	uniform                bool             // zero-mass table, cosine-hemisphere fallback
}

var _ BSDF = (*RPV)(nil)

// NewRPV builds the model with the default 32³ sampling table
func NewRPV(params RPVParams) *RPV {
	return NewRPVWithOptions(params, RPVOptions{})
}

// NewRPVWithOptions builds the model with explicit table options
func NewRPVWithOptions(params RPVParams, opts RPVOptions) *RPV {
	if params.Rho0 == nil {
		params.Rho0 = Constant(0.1)
	}
	if params.K == nil {
		params.K = Constant(0.1)
	}
	if params.G == nil {
		params.G = Constant(0)
	}
	if params.RhoC == nil {
		params.RhoC = params.Rho0
	}

	m := &RPV{
		params:  params,
		nThetaI: gridSize(opts.NThetaI, defaultGridThetaI),
		nThetaO: gridSize(opts.NThetaO, defaultGridThetaO),
		nPhi:    gridSize(opts.NPhi, defaultGridPhi),
	}

	// The table is direction-only, so spatially varying parameters are
	// pinned at a single reference point for its construction.
	ref := core.Vec3{}
	m.rho0 = params.Rho0.Evaluate(ref)
	m.k = params.K.Evaluate(ref)
	m.g = params.G.Evaluate(ref)
	m.rhoC = params.RhoC.Evaluate(ref)

	m.buildTable()
	if m.uniform && opts.Logger != nil {
		opts.Logger.Printf("rpv: density table has zero mass, falling back to cosine-hemisphere sampling")
	}
	return m
}

func gridSize(n, def int) int {
	if n == 0 {
		return def
	}
	if n < 0 {
		panic("material: RPV grid resolution must be positive")
	}
	return n
}

// buildTable evaluates the reflectance kernel over the full grid and
// derives the per-incidence cumulative tables. Cell (i, j, k) holds the
// reflectance for θi = π/2·i/NθI, θo = π/2·j/NθO, φ = 2π·k/Nφ with the
// incident direction fixed in the φ=0 plane.
func (m *RPV) buildTable() {
	nI, nO, nP := m.nThetaI, m.nThetaO, m.nPhi
	density := make([]float64, nI*nO*nP)

	dThetaI := (math.Pi / 2) / float64(nI)
	dThetaO := (math.Pi / 2) / float64(nO)
	dPhi := (2 * math.Pi) / float64(nP)

	idx := 0
	total := 0.0
	for i := 0; i < nI; i++ {
		wi := core.SphericalDirection(float64(i)*dThetaI, 0)
		for j := 0; j < nO; j++ {
			thetaO := float64(j) * dThetaO
			for k := 0; k < nP; k++ {
				wo := core.SphericalDirection(thetaO, float64(k)*dPhi)
				v := EvalRPV(wi, wo, m.rho0, m.k, m.g, m.rhoC)
				// Nothing non-finite or negative may enter the
				// cumulative tables.
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
					v = 0
				}
				density[idx] = v
				total += v
				idx++
			}
		}
	}

	if !(total > 0) || math.IsInf(total, 0) {
		m.uniform = true
		return
	}

	m.slices = make([]core.NestedCDF, nI)
	for i := 0; i < nI; i++ {
		m.slices[i] = core.NewNestedCDF(density[i*nO*nP:(i+1)*nO*nP], nO, nP)
	}
}

// EvalRPV evaluates the Rahman-Pinty-Verstraete reflectance for unit
// directions wi and wo in the local frame. The returned value excludes the
// cosine foreshortening factor and is zero whenever either direction lies
// at or below the horizon.
//
// EvalRPV is a pure function and safe to call concurrently.
func EvalRPV(wi, wo core.Vec3, rho0, k, g, rhoC float64) float64 {
	cosThetaI := core.CosTheta(wi)
	cosThetaO := core.CosTheta(wo)

	// Minnaert base. A non-positive base raised to a fractional power
	// would produce NaN (or Inf when k < 1), so grazing and below-horizon
	// pairs are black.
	base := cosThetaI * cosThetaO * (cosThetaI + cosThetaO)
	if base <= 0 {
		return 0
	}
	minnaert := math.Pow(base, k-1)

	sinPhiI, cosPhiI := core.SinCosPhi(wi)
	sinPhiO, cosPhiO := core.SinCosPhi(wo)
	cosDeltaPhi := cosPhiI*cosPhiO + sinPhiI*sinPhiO

	sinThetaI := core.SinTheta(wi)
	sinThetaO := core.SinTheta(wo)
	tanThetaI := sinThetaI / cosThetaI
	tanThetaO := sinThetaO / cosThetaO

	// Henyey-Greenstein-like phase term over the scattering angle. The
	// denominator vanishes only at |g| = 1, where the phase collapses to a
	// delta the tabulation cannot represent.
	cosBig := cosThetaI*cosThetaO + sinThetaI*sinThetaO*cosDeltaPhi
	denom := 1 + g*g + 2*g*cosBig
	if denom <= 0 {
		return 0
	}
	phase := (1 - g*g) / math.Pow(denom, 1.5)

	// Hot-spot correction
	geom := core.SafeSqrt(tanThetaI*tanThetaI + tanThetaO*tanThetaO -
		2*tanThetaI*tanThetaO*cosDeltaPhi)
	hotspot := 1 + (1-rhoC)/(1+geom)

	return rho0 * minnaert * phase * hotspot / math.Pi
}

// Sample draws an outgoing direction by multi-stage inverse-transform
// sampling of the precomputed tables: the incident-zenith bin is fixed by
// wi, the outgoing-zenith bin by a binary search of that bin's marginal
// CDF, and the relative-azimuth bin by a binary search of the conditional
// CDF. Angles are reconstructed at the selected cell's lower edge and the
// sampled azimuth is offset by the incident azimuth. The reported PDF is
// the discrete probability mass of the selected cell.
func (m *RPV) Sample(ctx ScatterContext, wi core.Vec3, sample core.Vec2) (SampleResult, bool) {
	if !ctx.IsEnabled(LobeGlossyReflection) {
		return SampleResult{}, false
	}
	if core.CosTheta(wi) <= 0 {
		return SampleResult{}, false
	}

	wo, pdf := m.sampleDirection(wi, sample)
	if pdf <= 0 {
		return SampleResult{}, false
	}
	return SampleResult{
		Wo:          wo,
		PDF:         pdf,
		Lobe:        LobeGlossyReflection,
		RelativeIOR: 1,
		Weight:      m.Eval(ctx, wi, wo),
	}, true
}

func (m *RPV) sampleDirection(wi core.Vec3, sample core.Vec2) (core.Vec3, float64) {
	if m.uniform {
		return m.sampleCosine(sample)
	}

	i := m.thetaIndex(core.CosTheta(wi), m.nThetaI)
	sl := m.slices[i]
	if sl.Total() <= 0 {
		return m.sampleCosine(sample)
	}

	j, k, pm := sl.Sample(sample.X, sample.Y)

	thetaO := float64(j) * (math.Pi / 2) / float64(m.nThetaO)
	phiO := float64(k)*(2*math.Pi)/float64(m.nPhi) + core.Phi(wi)
	return core.SphericalDirection(thetaO, phiO), pm
}

func (m *RPV) sampleCosine(sample core.Vec2) (core.Vec3, float64) {
	sample = core.NewVec2(core.ClampUnit(sample.X), core.ClampUnit(sample.Y))
	wo := core.SampleCosineHemisphere(sample)
	return wo, core.CosineHemispherePDF(wo)
}

// Eval returns the RPV reflectance times the outgoing cosine, evaluating
// the material parameters at the context point. Zero when either direction
// is at or below the horizon.
func (m *RPV) Eval(ctx ScatterContext, wi, wo core.Vec3) float64 {
	if !ctx.IsEnabled(LobeGlossyReflection) {
		return 0
	}
	cosThetaO := core.CosTheta(wo)
	if core.CosTheta(wi) <= 0 || cosThetaO <= 0 {
		return 0
	}

	rho0 := m.params.Rho0.Evaluate(ctx.Point)
	k := m.params.K.Evaluate(ctx.Point)
	g := m.params.G.Evaluate(ctx.Point)
	rhoC := m.params.RhoC.Evaluate(ctx.Point)

	return EvalRPV(wi, wo, rho0, k, g, rhoC) * cosThetaO
}

// PDF returns the density Sample reports for wo: the probability mass of
// the grid cell wo falls in. The cell is re-derived from the directions by
// the same quantization rule Sample uses, with the relative azimuth
// explicitly wrapped into [0, 2π).
func (m *RPV) PDF(ctx ScatterContext, wi, wo core.Vec3) float64 {
	if !ctx.IsEnabled(LobeGlossyReflection) {
		return 0
	}
	if core.CosTheta(wi) <= 0 || core.CosTheta(wo) <= 0 {
		return 0
	}
	if m.uniform {
		return core.CosineHemispherePDF(wo)
	}

	i := m.thetaIndex(core.CosTheta(wi), m.nThetaI)
	sl := m.slices[i]
	if sl.Total() <= 0 {
		return core.CosineHemispherePDF(wo)
	}

	j := m.thetaIndex(core.CosTheta(wo), m.nThetaO)
	rel := core.WrapTwoPi(core.Phi(wo) - core.Phi(wi))
	k := quantizePhi(rel, m.nPhi)

	return sl.ProbMass(j, k)
}

// thetaIndex quantizes a zenith angle (given by its cosine) onto an n-cell
// grid over [0, π/2), clamping boundary round-off into the grid
func (m *RPV) thetaIndex(cosTheta float64, n int) int {
	if cosTheta > 1 {
		cosTheta = 1
	}
	theta := math.Acos(cosTheta)
	idx := int(theta/(math.Pi/2)*float64(n) + quantEps)
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// quantizePhi maps a relative azimuth in [0, 2π) to its cell on an n-cell
// grid. The 2π boundary wraps back to cell zero rather than clamping, so
// an azimuth difference that rounds a hair below a full turn still matches
// the cell it was sampled from.
func quantizePhi(phi float64, n int) int {
	idx := int(phi/(2*math.Pi)*float64(n) + quantEps)
	if idx >= n {
		idx -= n
	}
	if idx < 0 {
		return 0
	}
	return idx
}
