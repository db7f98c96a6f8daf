package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewEpicycloid returns the Epicycloid model: a point on a circle of radius
// r rolling without slipping around the outside of a fixed circle of radius
// R, traced in the XY plane and rotatable into 3D.
func NewEpicycloid() Model {
	return epicycloidModel{BaseModel{
		Meta: Metadata{
			Type: "epicycloid", DisplayName: "Epicycloid", Version: "1.0.0",
			Category: "geometric", Tags: []string{"rolling", "cycloid"},
			Description: "Curve traced by a point on a circle rolling around a fixed circle.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "fixedRadius", Kind: KindScalar, Default: Scalar(2), Min: f(0.01)},
			{Name: "rollingRadius", Kind: KindScalar, Default: Scalar(0.6), Min: f(0.01)},
			{Name: "speed", Kind: KindScalar, Default: Scalar(1)},
			{Name: "rotationX", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "rotationY", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
		},
	}}
}

type epicycloidModel struct{ BaseModel }

func (m epicycloidModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "fixedRadius": Scalar(2), "rollingRadius": Scalar(0.6),
		"speed": Scalar(1), "rotationX": Scalar(0), "rotationY": Scalar(0),
	}
}

func (m epicycloidModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	bigR := params.Float("fixedRadius", 2)
	smallR := params.Float("rollingRadius", 0.6)
	if smallR <= 0 {
		smallR = 0.01
	}
	speed := params.Float("speed", 1)
	rx := params.Float("rotationX", 0)
	ry := params.Float("rotationY", 0)

	t := time * speed
	sum := bigR + smallR
	ratio := sum / smallR
	x := sum*math.Cos(t) - smallR*math.Cos(ratio*t)
	y := sum*math.Sin(t) - smallR*math.Sin(ratio*t)
	local := spatial.Position{X: x, Y: y}
	return center.Add(spatial.RotateDegreesXYZ(local, rx, ry, 0))
}

func (m epicycloidModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
