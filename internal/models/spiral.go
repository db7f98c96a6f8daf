package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewSpiral returns the Spiral model: radius interpolates between
// startRadius and endRadius while angle accumulates at a constant rate;
// planar, with the same 3D rotation knob as Circular.
func NewSpiral() Model {
	return spiralModel{BaseModel{
		Meta: Metadata{
			Type: "spiral", DisplayName: "Spiral", Version: "1.0.0",
			Category: "periodic", Tags: []string{"spiral", "rotation"},
			Description: "Expanding or contracting spiral motion about a centre.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "startRadius", Kind: KindScalar, Default: Scalar(0), Min: f(0), Max: f(1e6)},
			{Name: "endRadius", Kind: KindScalar, Default: Scalar(2), Min: f(0), Max: f(1e6)},
			{Name: "revolutions", Kind: KindScalar, Default: Scalar(3), Min: f(0), Max: f(1e4)},
			{Name: "direction", Kind: KindScalar, Default: Scalar(1)},
			{Name: "rotationX", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
			{Name: "rotationY", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
			{Name: "rotationZ", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
		},
	}}
}

type spiralModel struct{ BaseModel }

func (m spiralModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "startRadius": Scalar(0), "endRadius": Scalar(2),
		"revolutions": Scalar(3), "direction": Scalar(1),
		"rotationX": Scalar(0), "rotationY": Scalar(0), "rotationZ": Scalar(0),
	}
}

func spiralAngle(params Params, t, duration float64) float64 {
	dir := 1.0
	if params.Float("direction", 1) < 0 {
		dir = -1
	}
	revs := params.Float("revolutions", 3)
	progress := 0.0
	if duration > 0 {
		progress = clamp01(t / duration)
	}
	return dir * 2 * math.Pi * revs * progress
}

func (m spiralModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	r0 := params.Float("startRadius", 0)
	r1 := params.Float("endRadius", 2)
	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}
	radius := r0 + (r1-r0)*progress
	angle := spiralAngle(params, time, duration)

	local := spatial.Position{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	local = spatial.RotateDegreesXYZ(local,
		params.Float("rotationX", 0), params.Float("rotationY", 0), params.Float("rotationZ", 0))
	return center.Add(local)
}

func (m spiralModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m spiralModel) Visualization() Visualization {
	return Visualization{
		RotationAngle: func(time, duration float64, params Params) (float64, Plane, bool) {
			return spiralAngle(params, time, duration), PlaneXY, true
		},
	}
}
