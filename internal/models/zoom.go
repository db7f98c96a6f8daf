package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewZoom returns the Zoom model: radial motion straight towards or away
// from a center point, oscillating between startRadius and endRadius along
// a fixed bearing.
func NewZoom() Model {
	return zoomModel{BaseModel{
		Meta: Metadata{
			Type: "zoom", DisplayName: "Zoom", Version: "1.0.0",
			Category: "basic", Tags: []string{"radial"},
			Description: "Radial motion towards/away from a center along a fixed bearing.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "bearing", Kind: KindScalar, Default: Scalar(0), UIHint: "degrees"},
			{Name: "startRadius", Kind: KindScalar, Default: Scalar(0.2), Min: f(0)},
			{Name: "endRadius", Kind: KindScalar, Default: Scalar(3), Min: f(0)},
			{Name: "easing", Kind: KindEnum, Default: Enum("sine"), EnumValues: easeNames()},
			{Name: "pingPong", Kind: KindBool, Default: Bool(true)},
			{Name: "speed", Kind: KindScalar, Default: Scalar(1)},
		},
	}}
}

type zoomModel struct{ BaseModel }

func (m zoomModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "bearing": Scalar(0), "startRadius": Scalar(0.2),
		"endRadius": Scalar(3), "easing": Enum("sine"), "pingPong": Bool(true), "speed": Scalar(1),
	}
}

func (m zoomModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	bearingDeg := params.Float("bearing", 0)
	startR := params.Float("startRadius", 0.2)
	endR := params.Float("endRadius", 3)
	speed := params.Float("speed", 1)
	pingPong := params.Flag("pingPong", true)
	ease := spatial.EaseNames[params.Str("easing", "sine")]

	phase := time * speed
	var progress float64
	if pingPong {
		cycle := phase - floorf(phase/2)*2
		progress = cycle
		if progress > 1 {
			progress = 2 - progress
		}
	} else {
		progress = phase - floorf(phase)
	}
	eased := spatial.Apply(ease, progress)
	radius := startR + (endR-startR)*eased

	bearing := bearingDeg * math.Pi / 180
	local := spatial.Position{X: radius * math.Cos(bearing), Y: radius * math.Sin(bearing)}
	return center.Add(local)
}

func (m zoomModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
