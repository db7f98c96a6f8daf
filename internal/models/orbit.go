package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewOrbit returns the Orbit model: constant-speed circular travel around a
// center point in an arbitrary plane, expressed via an inclination and
// ascending-node rotation of the base XY circle.
func NewOrbit() Model {
	return orbitModel{BaseModel{
		Meta: Metadata{
			Type: "orbit", DisplayName: "Orbit", Version: "1.0.0",
			Category: "geometric", Tags: []string{"circular", "inclined"},
			Description: "Circular orbit around a center point, tiltable out of the XY plane.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "radius", Kind: KindScalar, Default: Scalar(1), Min: f(0)},
			{Name: "inclination", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "ascendingNode", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "speed", Kind: KindScalar, Default: Scalar(1)},
			{Name: "direction", Kind: KindEnum, Default: Enum("cw"), EnumValues: []string{"cw", "ccw"}},
		},
	}}
}

type orbitModel struct{ BaseModel }

func (m orbitModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "radius": Scalar(1), "inclination": Scalar(0),
		"ascendingNode": Scalar(0), "speed": Scalar(1), "direction": Enum("cw"),
	}
}

func (m orbitModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	radius := params.Float("radius", 1)
	incl := params.Float("inclination", 0)
	node := params.Float("ascendingNode", 0)
	speed := params.Float("speed", 1)
	dir := 1.0
	if params.Str("direction", "cw") == "ccw" {
		dir = -1
	}

	angle := dir * speed * time * 2 * math.Pi
	local := spatial.Position{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	tilted := spatial.RotateDegreesXYZ(local, incl, 0, node)
	return center.Add(tilted)
}

func (m orbitModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
