package models

import "github.com/schollz/orbiter/internal/spatial"

// NewFormation returns the Formation model: every track holds a fixed
// position relative to the group, and the interesting behaviour (rigid
// rotation, scaling, golden-angle spherical distribution) is produced by
// the multi-track strategy rather than by this model's own Calculate,
// which only emits the per-track offset unchanged. Formation exists as a
// concrete, selectable model type so it shows up in the registry and
// carries its own parameter schema even though its motion is delegated.
func NewFormation() Model {
	return formationModel{BaseModel{
		Meta: Metadata{
			Type: "formation", DisplayName: "Formation", Version: "1.0.0",
			Category: "ensemble", Tags: []string{"formation", "multitrack"},
			Description: "Static per-track offset; shape and motion come from the multi-track strategy.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "offset", Kind: KindPosition, Default: Pos(spatial.Zero)},
		},
	}}
}

type formationModel struct{ BaseModel }

func (m formationModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	offset := spatial.Zero
	if trackPosition != nil {
		offset = *trackPosition
	}
	return Params{"offset": Pos(offset)}
}

func (m formationModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	return params.Position("offset", spatial.Zero)
}

func (m formationModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	p := m.Calculate(params, 0, duration, CalculationContext{Duration: duration})
	out := make([]spatial.Position, resolution)
	for i := range out {
		out[i] = p
	}
	return out
}
