package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/earthshine/rpv/pkg/core"
)

func TestDiffuse_SamplePDFConsistency(t *testing.T) {
	assert := assert.New(t)
	d := NewDiffuse(Constant(0.8))
	ctx := ScatterContext{}
	random := rand.New(rand.NewSource(42))

	wi := core.SphericalDirection(0.4, 1.0)
	for i := 0; i < 500; i++ {
		res, ok := d.Sample(ctx, wi, core.NewVec2(random.Float64(), random.Float64()))
		assert.True(ok)
		assert.Greater(res.Wo.Z, 0.0)
		assert.InDelta(res.Wo.Z/math.Pi, res.PDF, 1e-12)
		assert.Equal(res.PDF, d.PDF(ctx, wi, res.Wo))
	}
}

func TestDiffuse_OneSided(t *testing.T) {
	assert := assert.New(t)
	d := NewDiffuse(nil)
	ctx := ScatterContext{}

	below := core.NewVec3(0, 0, -1)
	_, ok := d.Sample(ctx, below, core.NewVec2(0.5, 0.5))
	assert.False(ok)
	assert.Equal(0.0, d.Eval(ctx, below, core.NewVec3(0, 0, 1)))
	assert.Equal(0.0, d.PDF(ctx, below, core.NewVec3(0, 0, 1)))
}

func TestDiffuse_MatchesDegenerateRPV(t *testing.T) {
	assert := assert.New(t)
	random := rand.New(rand.NewSource(7))
	ctx := ScatterContext{}

	// RPV with k=1, g=0, ρc=1 is exactly Lambertian
	const rho0 = 0.25
	d := NewDiffuse(Constant(rho0))
	m := NewRPV(RPVParams{
		Rho0: Constant(rho0),
		K:    Constant(1),
		G:    Constant(0),
		RhoC: Constant(1),
	})

	for i := 0; i < 200; i++ {
		wi := randomUpperDirection(random)
		wo := randomUpperDirection(random)
		assert.InDelta(d.Eval(ctx, wi, wo), m.Eval(ctx, wi, wo), 1e-12)
	}
}

func TestDiffuse_EvalIncludesForeshortening(t *testing.T) {
	assert := assert.New(t)
	d := NewDiffuse(Constant(0.6))
	ctx := ScatterContext{}

	wi := core.NewVec3(0, 0, 1)
	wo := core.SphericalDirection(0.9, 0.2)
	assert.InDelta(0.6/math.Pi*math.Cos(0.9), d.Eval(ctx, wi, wo), 1e-12)
}
