package core

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// unitEps bounds uniform samples strictly inside (0, 1) so a scaled sample
// can never land exactly on a CDF breakpoint.
const unitEps = 1e-9

// ClampUnit clamps a uniform sample away from exactly 0 and 1
func ClampUnit(u float64) float64 {
	if u < unitEps {
		return unitEps
	}
	if u > 1-unitEps {
		return 1 - unitEps
	}
	return u
}

// NestedCDF is a marginal/conditional cumulative-distribution pair over a
// dense rows×cols grid of non-negative densities. It supports two-stage
// inverse-transform sampling of a discrete grid cell and exact lookup of a
// cell's probability mass, so sampling and density queries always agree.
//
// The tables are built once and never mutated; a NestedCDF is safe to share
// across any number of concurrent readers.
type NestedCDF struct {
	rows, cols  int
	conditional []float64 // prefix sums of density along each row
	marginal    []float64 // cumulative row masses
}

// NewNestedCDF builds the cumulative tables from a flattened row-major
// density grid. The density slice is read once and not retained.
func NewNestedCDF(density []float64, rows, cols int) NestedCDF {
	if rows <= 0 || cols <= 0 || len(density) != rows*cols {
		panic("core: nested CDF shape does not match density length")
	}
	d := NestedCDF{
		rows:        rows,
		cols:        cols,
		conditional: make([]float64, rows*cols),
		marginal:    make([]float64, rows),
	}
	for r := 0; r < rows; r++ {
		row := d.conditional[r*cols : (r+1)*cols]
		floats.CumSum(row, density[r*cols:(r+1)*cols])
		d.marginal[r] = row[cols-1]
	}
	floats.CumSum(d.marginal, d.marginal)
	return d
}

// Rows returns the primary-axis resolution
func (d NestedCDF) Rows() int { return d.rows }

// Cols returns the secondary-axis resolution
func (d NestedCDF) Cols() int { return d.cols }

// Total returns the summed mass of the whole grid
func (d NestedCDF) Total() float64 {
	return d.marginal[d.rows-1]
}

// CumulativeRow returns a copy of the conditional CDF of one row, for
// inspection only
func (d NestedCDF) CumulativeRow(row int) []float64 {
	row = clampIndex(row, d.rows)
	out := make([]float64, d.cols)
	copy(out, d.conditional[row*d.cols:(row+1)*d.cols])
	return out
}

// Sample draws a (row, col) cell from the discrete distribution using two
// uniforms in [0, 1), clamped internally away from the domain boundary.
// Each stage selects the smallest index whose cumulative value exceeds the
// scaled sample, so zero-mass rows and columns are never selected. The
// returned pm is the cell's probability mass, identical to what ProbMass
// reports for the same cell.
func (d NestedCDF) Sample(u1, u2 float64) (row, col int, pm float64) {
	u1 = ClampUnit(u1)
	u2 = ClampUnit(u2)

	row = searchCDF(d.marginal, u1*d.Total())

	crow := d.conditional[row*d.cols : (row+1)*d.cols]
	col = searchCDF(crow, u2*crow[d.cols-1])

	return row, col, d.ProbMass(row, col)
}

// ProbMass returns the probability of Sample selecting (row, col): the
// cell's density over the total mass. Out-of-range indices clamp to the
// nearest valid cell; a zero-mass grid yields 0.
func (d NestedCDF) ProbMass(row, col int) float64 {
	total := d.Total()
	if total <= 0 {
		return 0
	}
	row = clampIndex(row, d.rows)
	col = clampIndex(col, d.cols)

	crow := d.conditional[row*d.cols : (row+1)*d.cols]
	mass := crow[col]
	if col > 0 {
		mass -= crow[col-1]
	}
	return mass / total
}

// searchCDF returns the smallest index whose cumulative value exceeds x,
// clamped to the last entry
func searchCDF(cdf []float64, x float64) int {
	idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > x })
	if idx >= len(cdf) {
		idx = len(cdf) - 1
	}
	return idx
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
