package core

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestNestedCDF_CumulativeTables(t *testing.T) {
	assert := assert.New(t)

	density := []float64{
		1, 2, 3,
		0, 4, 0,
	}
	d := NewNestedCDF(density, 2, 3)

	assert.Equal(2, d.Rows())
	assert.Equal(3, d.Cols())
	assert.InDelta(10, d.Total(), 1e-12)

	assert.InDeltaSlice([]float64{1, 3, 6}, d.CumulativeRow(0), 1e-12)
	assert.InDeltaSlice([]float64{0, 4, 4}, d.CumulativeRow(1), 1e-12)

	// Conditional CDFs are non-decreasing along the summation axis
	for r := 0; r < d.Rows(); r++ {
		row := d.CumulativeRow(r)
		for c := 1; c < len(row); c++ {
			assert.GreaterOrEqual(row[c], row[c-1])
		}
	}
}

func TestNestedCDF_ProbMass(t *testing.T) {
	assert := assert.New(t)

	density := []float64{
		1, 2, 3,
		0, 4, 0,
	}
	d := NewNestedCDF(density, 2, 3)

	for i, want := range []float64{0.1, 0.2, 0.3, 0, 0.4, 0} {
		assert.InDelta(want, d.ProbMass(i/3, i%3), 1e-12, "cell %d", i)
	}

	// Out-of-range indices clamp instead of reading out of bounds
	assert.InDelta(0.1, d.ProbMass(-1, -5), 1e-12)
	assert.InDelta(0, d.ProbMass(7, 9), 1e-12)

	// Masses form a distribution
	sum := 0.0
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			sum += d.ProbMass(r, c)
		}
	}
	assert.InDelta(1, sum, 1e-12)
}

func TestNestedCDF_SampleMatchesProbMass(t *testing.T) {
	assert := assert.New(t)
	random := rand.New(rand.NewSource(42))

	density := make([]float64, 8*16)
	for i := range density {
		density[i] = random.Float64() * float64(i%5)
	}
	d := NewNestedCDF(density, 8, 16)

	for i := 0; i < 1000; i++ {
		row, col, pm := d.Sample(random.Float64(), random.Float64())
		assert.GreaterOrEqual(row, 0)
		assert.Less(row, 8)
		assert.GreaterOrEqual(col, 0)
		assert.Less(col, 16)
		assert.Greater(pm, 0.0)
		assert.Equal(d.ProbMass(row, col), pm)
	}
}

func TestNestedCDF_NeverSelectsZeroMassCells(t *testing.T) {
	assert := assert.New(t)
	random := rand.New(rand.NewSource(7))

	// Middle row and middle column of the remaining rows are empty
	density := []float64{
		1, 0, 2,
		0, 0, 0,
		3, 0, 4,
	}
	d := NewNestedCDF(density, 3, 3)

	for i := 0; i < 1000; i++ {
		row, col, pm := d.Sample(random.Float64(), random.Float64())
		assert.NotEqual(1, row)
		assert.NotEqual(1, col)
		assert.Greater(pm, 0.0)
	}
}

func TestNestedCDF_BoundarySamples(t *testing.T) {
	assert := assert.New(t)

	density := []float64{1, 2, 3, 4}
	d := NewNestedCDF(density, 2, 2)

	for _, u := range [][2]float64{{0, 0}, {1, 1}, {0, 1}, {1, 0}} {
		row, col, pm := d.Sample(u[0], u[1])
		assert.GreaterOrEqual(row, 0)
		assert.Less(row, 2)
		assert.GreaterOrEqual(col, 0)
		assert.Less(col, 2)
		assert.False(math.IsNaN(pm))
		assert.Greater(pm, 0.0)
	}
}

func TestNestedCDF_SampleFrequencies(t *testing.T) {
	assert := assert.New(t)
	random := rand.New(rand.NewSource(3))

	density := []float64{1, 3, 2, 4}
	d := NewNestedCDF(density, 2, 2)

	const n = 200000
	counts := make([]float64, 4)
	for i := 0; i < n; i++ {
		row, col, _ := d.Sample(random.Float64(), random.Float64())
		counts[row*2+col]++
	}
	floats.Scale(1.0/n, counts)

	for i, want := range []float64{0.1, 0.3, 0.2, 0.4} {
		assert.InDelta(want, counts[i], 0.01, "cell %d", i)
	}
}

func TestNestedCDF_ShapeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { NewNestedCDF([]float64{1, 2, 3}, 2, 2) })
}

func TestClampUnit(t *testing.T) {
	assert := assert.New(t)
	assert.Greater(ClampUnit(0), 0.0)
	assert.Less(ClampUnit(1), 1.0)
	assert.Equal(0.5, ClampUnit(0.5))
}
