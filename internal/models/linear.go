package models

import "github.com/schollz/orbiter/internal/spatial"

// NewLinear returns the Linear model: easing-interpolated segment from
// startPosition to endPosition.
func NewLinear() Model {
	return linearModel{BaseModel{
		Meta: Metadata{
			Type: "linear", DisplayName: "Linear", Version: "1.0.0",
			Category: "basic", Tags: []string{"segment", "line"},
			Description: "Constant easing-interpolated motion along a straight segment.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "startPosition", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "endPosition", Kind: KindPosition, Default: Pos(spatial.Position{X: 1})},
			{Name: "ease", Kind: KindEnum, Default: Enum("linear"), EnumValues: easeNames()},
		},
	}}
}

func easeNames() []string {
	return []string{
		"linear", "quadraticIn", "quadraticOut", "quadratic",
		"cubicIn", "cubicOut", "cubic", "sineIn", "sineOut", "sine",
		"exponentialIn", "exponentialOut", "exponential",
	}
}

type linearModel struct{ BaseModel }

func (m linearModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	if trackPosition != nil {
		start = *trackPosition
	}
	end := start.Add(spatial.Position{X: 1})
	return Params{
		"startPosition": Pos(start),
		"endPosition":   Pos(end),
		"ease":          Enum("linear"),
	}
}

func (m linearModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	start := params.Position("startPosition", spatial.Zero)
	end := params.Position("endPosition", start)
	if duration <= 0 {
		return start
	}
	ease, ok := spatial.EaseNames[params.Str("ease", "linear")]
	if !ok {
		ease = spatial.EaseLinear
	}
	t := clamp01(time / duration)
	return spatial.Lerp(ease, start, end, t)
}

func (m linearModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m linearModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			start := params.Position("startPosition", spatial.Zero)
			end := params.Position("endPosition", start)
			return []ControlPoint{
				{ID: "start", Position: start, Role: RoleStart, Transforms: []TransformMode{TransformTranslate}},
				{ID: "end", Position: end, Role: RoleEnd, Transforms: []TransformMode{TransformTranslate}},
			}
		},
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
