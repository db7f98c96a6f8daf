package models

import "github.com/schollz/orbiter/internal/spatial"

// NewDoppler returns the Doppler model: straight-line pass-by motion at
// constant velocity from startPosition to endPosition over the animation's
// duration, named for the classic moving-source listening scenario
// rather than any audio pitch-shift (pitch shifting is left to the
// renderer; this model only emits the position).
func NewDoppler() Model {
	return dopplerModel{BaseModel{
		Meta: Metadata{
			Type: "doppler", DisplayName: "Doppler Pass-by", Version: "1.0.0",
			Category: "basic", Tags: []string{"linear", "passby"},
			Description: "Constant-velocity straight-line pass-by motion.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "startPosition", Kind: KindPosition, Default: Pos(spatial.Position{X: -5, Z: 2})},
			{Name: "endPosition", Kind: KindPosition, Default: Pos(spatial.Position{X: 5, Z: 2})},
		},
	}}
}

type dopplerModel struct{ BaseModel }

func (m dopplerModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Position{X: -5, Z: 2}
	end := spatial.Position{X: 5, Z: 2}
	if trackPosition != nil {
		start = start.Add(*trackPosition)
		end = end.Add(*trackPosition)
	}
	return Params{"startPosition": Pos(start), "endPosition": Pos(end)}
}

func (m dopplerModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	start := params.Position("startPosition", spatial.Position{X: -5, Z: 2})
	end := params.Position("endPosition", spatial.Position{X: 5, Z: 2})
	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}
	return start.Lerp(end, progress)
}

func (m dopplerModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m dopplerModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			return []ControlPoint{
				{ID: "start", Position: params.Position("startPosition", spatial.Position{X: -5, Z: 2}), Role: RoleStart},
				{ID: "end", Position: params.Position("endPosition", spatial.Position{X: 5, Z: 2}), Role: RoleEnd},
			}
		},
	}
}
