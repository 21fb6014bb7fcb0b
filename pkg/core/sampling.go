package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for sampling algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// SampleCosineHemisphere generates a cosine-weighted direction in the upper
// hemisphere of the local frame (+z up)
func SampleCosineHemisphere(sample Vec2) Vec3 {
	phi := 2 * math.Pi * sample.X
	r := math.Sqrt(sample.Y)

	sinPhi, cosPhi := math.Sincos(phi)
	z := math.Sqrt(math.Max(0, 1-sample.Y))

	return Vec3{X: r * cosPhi, Y: r * sinPhi, Z: z}
}

// CosineHemispherePDF returns the density of SampleCosineHemisphere at wo:
// cos(θ) / π above the horizon, 0 below
func CosineHemispherePDF(wo Vec3) float64 {
	if wo.Z <= 0 {
		return 0
	}
	return wo.Z / math.Pi
}
