package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/orbiter/internal/spatial"
)

func TestCircularStaysOnRadiusFromCenter(t *testing.T) {
	m := NewCircular()
	params := Params{
		"center": Pos(spatial.Position{X: 1, Y: 1}),
		"radiusX": Scalar(2), "radiusY": Scalar(2),
		"speed": Scalar(0.25), "direction": Scalar(1),
	}
	center := spatial.Position{X: 1, Y: 1}
	for _, at := range []float64{0, 1, 2, 3} {
		pos := m.Calculate(params, at, 4, CalculationContext{Duration: 4})
		assert.InDelta(t, 2, pos.Distance(center), 1e-6, "time=%v", at)
	}
}

func TestCircularDirectionReversesAngleSign(t *testing.T) {
	m := NewCircular()
	fwd := Params{"center": Pos(spatial.Zero), "radiusX": Scalar(1), "radiusY": Scalar(1), "speed": Scalar(0.25), "direction": Scalar(1)}
	rev := Params{"center": Pos(spatial.Zero), "radiusX": Scalar(1), "radiusY": Scalar(1), "speed": Scalar(0.25), "direction": Scalar(-1)}

	a := m.Calculate(fwd, 0.5, 4, CalculationContext{Duration: 4})
	b := m.Calculate(rev, 0.5, 4, CalculationContext{Duration: 4})
	assert.InDelta(t, a.X, b.X, 1e-9)
	assert.InDelta(t, -a.Y, b.Y, 1e-9)
}

func TestCircularRotationAngleVisualizationMatchesAngle(t *testing.T) {
	m := NewCircular()
	params := m.GetDefaultParameters(nil)
	angle, plane, ok := m.Visualization().RotationAngle(1, 4, params)
	require.True(t, ok)
	assert.Equal(t, PlaneXY, plane)
	assert.InDelta(t, ellipseAngle(params, 1), angle, 1e-9)
}

func TestEllipticalAllowsUnequalRadii(t *testing.T) {
	m := NewElliptical()
	params := Params{"center": Pos(spatial.Zero), "radiusX": Scalar(3), "radiusY": Scalar(1), "speed": Scalar(0.25), "direction": Scalar(1)}
	pos := m.Calculate(params, 0, 4, CalculationContext{Duration: 4})
	assert.InDelta(t, 3, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)
}
