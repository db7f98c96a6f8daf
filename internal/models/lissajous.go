package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewLissajous returns the Lissajous model:
// p = centre + (Ax sin(wx t + phix), Ay sin(wy t), Az sin(wz t)).
func NewLissajous() Model {
	return lissajousModel{BaseModel{
		Meta: Metadata{
			Type: "lissajous", DisplayName: "Lissajous", Version: "1.0.0",
			Category: "periodic", Tags: []string{"curve", "periodic"},
			Description: "Lissajous figure traced by independent sinusoids per axis.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "amplitudeX", Kind: KindScalar, Default: Scalar(1)},
			{Name: "amplitudeY", Kind: KindScalar, Default: Scalar(1)},
			{Name: "amplitudeZ", Kind: KindScalar, Default: Scalar(0)},
			{Name: "omegaX", Kind: KindScalar, Default: Scalar(1)},
			{Name: "omegaY", Kind: KindScalar, Default: Scalar(2)},
			{Name: "omegaZ", Kind: KindScalar, Default: Scalar(1)},
			{Name: "phaseX", Kind: KindScalar, Default: Scalar(math.Pi / 2), UIHint: "radians"},
		},
	}}
}

type lissajousModel struct{ BaseModel }

func (m lissajousModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "amplitudeX": Scalar(1), "amplitudeY": Scalar(1), "amplitudeZ": Scalar(0),
		"omegaX": Scalar(1), "omegaY": Scalar(2), "omegaZ": Scalar(1), "phaseX": Scalar(math.Pi / 2),
	}
}

func (m lissajousModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	ax, ay, az := params.Float("amplitudeX", 1), params.Float("amplitudeY", 1), params.Float("amplitudeZ", 0)
	wx, wy, wz := params.Float("omegaX", 1), params.Float("omegaY", 2), params.Float("omegaZ", 1)
	phix := params.Float("phaseX", math.Pi/2)

	return center.Add(spatial.Position{
		X: ax * math.Sin(wx*time+phix),
		Y: ay * math.Sin(wy * time),
		Z: az * math.Sin(wz * time),
	})
}

func (m lissajousModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
