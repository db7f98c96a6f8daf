package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/orbiter/internal/spatial"
)

func TestLinearCalculateInterpolatesStartToEnd(t *testing.T) {
	m := NewLinear()
	params := Params{
		"startPosition": Pos(spatial.Position{X: 0}),
		"endPosition":   Pos(spatial.Position{X: 10}),
		"ease":          Enum("linear"),
	}
	assert.Equal(t, spatial.Position{X: 0}, m.Calculate(params, 0, 10, CalculationContext{}))
	assert.Equal(t, spatial.Position{X: 5}, m.Calculate(params, 5, 10, CalculationContext{}))
	assert.Equal(t, spatial.Position{X: 10}, m.Calculate(params, 10, 10, CalculationContext{}))
}

func TestLinearCalculateZeroDurationReturnsStart(t *testing.T) {
	m := NewLinear()
	params := Params{"startPosition": Pos(spatial.Position{X: 3}), "endPosition": Pos(spatial.Position{X: 9})}
	got := m.Calculate(params, 5, 0, CalculationContext{})
	assert.Equal(t, spatial.Position{X: 3}, got)
}

func TestLinearUnknownEaseFallsBackToLinear(t *testing.T) {
	m := NewLinear()
	params := Params{
		"startPosition": Pos(spatial.Position{X: 0}),
		"endPosition":   Pos(spatial.Position{X: 10}),
		"ease":          Enum("not-a-real-ease"),
	}
	got := m.Calculate(params, 5, 10, CalculationContext{})
	assert.Equal(t, spatial.Position{X: 5}, got)
}

func TestLinearVisualizationExposesEndpoints(t *testing.T) {
	m := NewLinear()
	params := m.GetDefaultParameters(nil)
	cps := m.Visualization().ControlPoints(params)
	assert.Len(t, cps, 2)
	assert.Equal(t, RoleStart, cps[0].Role)
	assert.Equal(t, RoleEnd, cps[1].Role)
}
