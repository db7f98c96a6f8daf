package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewRoseCurve returns the Rose Curve model: the classic r = cos(k*theta)
// polar rose, traced at constant angular speed and optionally rotated out
// of the XY plane.
func NewRoseCurve() Model {
	return roseModel{BaseModel{
		Meta: Metadata{
			Type: "rosecurve", DisplayName: "Rose Curve", Version: "1.0.0",
			Category: "geometric", Tags: []string{"polar", "rose"},
			Description: "Polar rose curve r = radius*cos(k*theta).",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "radius", Kind: KindScalar, Default: Scalar(1), Min: f(0)},
			{Name: "petals", Kind: KindScalar, Default: Scalar(5), Min: f(1), Max: f(64)},
			{Name: "speed", Kind: KindScalar, Default: Scalar(1)},
			{Name: "rotationX", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "rotationY", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "rotationZ", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
		},
	}}
}

type roseModel struct{ BaseModel }

func (m roseModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "radius": Scalar(1), "petals": Scalar(5), "speed": Scalar(1),
		"rotationX": Scalar(0), "rotationY": Scalar(0), "rotationZ": Scalar(0),
	}
}

func (m roseModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	radius := params.Float("radius", 1)
	k := params.Float("petals", 5)
	speed := params.Float("speed", 1)
	rx := params.Float("rotationX", 0)
	ry := params.Float("rotationY", 0)
	rz := params.Float("rotationZ", 0)

	theta := time * speed * 2 * math.Pi
	r := radius * math.Cos(k*theta)
	local := spatial.Position{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	return center.Add(spatial.RotateDegreesXYZ(local, rx, ry, rz))
}

func (m roseModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
