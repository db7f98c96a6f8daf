package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewWave returns the Wave model: centre plus an amplitude vector times a
// waveform (sine/square/triangle/sawtooth) evaluated at a frequency, then
// combined onto the centre by the chosen combine mode.
func NewWave() Model {
	return waveModel{BaseModel{
		Meta: Metadata{
			Type: "wave", DisplayName: "Wave", Version: "1.0.0",
			Category: "periodic", Tags: []string{"wave", "oscillator"},
			Description: "Centre plus an amplitude vector driven by a periodic waveform.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "amplitude", Kind: KindPosition, Default: Pos(spatial.Position{Y: 1})},
			{Name: "frequency", Kind: KindScalar, Default: Scalar(1), UIHint: "Hz"},
			{Name: "waveform", Kind: KindEnum, Default: Enum("sine"), EnumValues: []string{"sine", "square", "triangle", "sawtooth"}},
			{Name: "combineMode", Kind: KindEnum, Default: Enum("add"), EnumValues: []string{"add", "multiply"}},
		},
	}}
}

type waveModel struct{ BaseModel }

func (m waveModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "amplitude": Pos(spatial.Position{Y: 1}),
		"frequency": Scalar(1), "waveform": Enum("sine"), "combineMode": Enum("add"),
	}
}

func waveform(kind string, phase float64) float64 {
	// phase is in cycles (not radians); wrap into [0, 1).
	phase -= math.Floor(phase)
	switch kind {
	case "square":
		if phase < 0.5 {
			return 1
		}
		return -1
	case "triangle":
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case "sawtooth":
		return 2*phase - 1
	default: // sine
		return math.Sin(2 * math.Pi * phase)
	}
}

func (m waveModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	amp := params.Position("amplitude", spatial.Position{Y: 1})
	freq := params.Float("frequency", 1)
	shape := params.Str("waveform", "sine")
	v := waveform(shape, freq*time)

	offset := amp.Scale(v)
	if params.Str("combineMode", "add") == "multiply" {
		return spatial.Position{X: center.X * (1 + offset.X), Y: center.Y * (1 + offset.Y), Z: center.Z * (1 + offset.Z)}
	}
	return center.Add(offset)
}

func (m waveModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
