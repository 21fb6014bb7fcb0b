package material

import (
	lin "github.com/sgreben/piecewiselinear"

	"github.com/earthshine/rpv/pkg/core"
)

// ParamSource supplies a scalar material parameter that may vary over the
// surface
type ParamSource interface {
	// Evaluate returns the parameter value at a surface point
	Evaluate(p core.Vec3) float64
}

// ConstantParam is a spatially uniform parameter
type ConstantParam struct {
	Value float64
}

// Constant wraps a plain scalar as a ParamSource
func Constant(v float64) ConstantParam {
	return ConstantParam{Value: v}
}

// Evaluate returns the constant regardless of position
func (c ConstantParam) Evaluate(core.Vec3) float64 {
	return c.Value
}

// Axis selects one coordinate of a surface point
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// RampParam varies a parameter along one axis through a piecewise-linear
// map from coordinate to value
type RampParam struct {
	Along Axis
	Curve lin.Function
}

// NewRampParam builds a ramp from ascending coordinates and their values
func NewRampParam(along Axis, xs, ys []float64) RampParam {
	return RampParam{Along: along, Curve: lin.Function{X: xs, Y: ys}}
}

// Evaluate interpolates the curve at the point's coordinate along the
// ramp axis
func (r RampParam) Evaluate(p core.Vec3) float64 {
	switch r.Along {
	case AxisY:
		return r.Curve.At(p.Y)
	case AxisZ:
		return r.Curve.At(p.Z)
	default:
		return r.Curve.At(p.X)
	}
}
