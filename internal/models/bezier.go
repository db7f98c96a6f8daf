package models

import "github.com/schollz/orbiter/internal/spatial"

// NewBezier returns the cubic Bezier model: De Casteljau evaluation over
// bezierStart/bezierControl1/bezierControl2/bezierEnd at progress =
// time/duration.
func NewBezier() Model {
	return bezierModel{BaseModel{
		Meta: Metadata{
			Type: "bezier", DisplayName: "Bezier Curve", Version: "1.0.0",
			Category: "spline", Tags: []string{"curve", "spline"},
			Description: "Cubic Bezier curve through two control points.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "bezierStart", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "bezierControl1", Kind: KindPosition, Default: Pos(spatial.Position{X: 0.33, Y: 1})},
			{Name: "bezierControl2", Kind: KindPosition, Default: Pos(spatial.Position{X: 0.66, Y: -1})},
			{Name: "bezierEnd", Kind: KindPosition, Default: Pos(spatial.Position{X: 1})},
		},
	}}
}

type bezierModel struct{ BaseModel }

func (m bezierModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	if trackPosition != nil {
		start = *trackPosition
	}
	return Params{
		"bezierStart":    Pos(start),
		"bezierControl1": Pos(start.Add(spatial.Position{X: 0.33, Y: 1})),
		"bezierControl2": Pos(start.Add(spatial.Position{X: 0.66, Y: -1})),
		"bezierEnd":      Pos(start.Add(spatial.Position{X: 1})),
	}
}

// cubicBezier evaluates De Casteljau's algorithm at t in [0,1].
func cubicBezier(p0, p1, p2, p3 spatial.Position, t float64) spatial.Position {
	a := p0.Lerp(p1, t)
	b := p1.Lerp(p2, t)
	c := p2.Lerp(p3, t)
	ab := a.Lerp(b, t)
	bc := b.Lerp(c, t)
	return ab.Lerp(bc, t)
}

func (m bezierModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	p0 := params.Position("bezierStart", spatial.Zero)
	p1 := params.Position("bezierControl1", p0)
	p2 := params.Position("bezierControl2", p0)
	p3 := params.Position("bezierEnd", p0)
	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}
	return cubicBezier(p0, p1, p2, p3, progress)
}

func (m bezierModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m bezierModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			p0 := params.Position("bezierStart", spatial.Zero)
			p1 := params.Position("bezierControl1", p0)
			p2 := params.Position("bezierControl2", p0)
			p3 := params.Position("bezierEnd", p0)
			return []ControlPoint{
				{ID: "start", Position: p0, Role: RoleStart, Transforms: []TransformMode{TransformTranslate}},
				{ID: "control1", Position: p1, Role: RoleControl, Transforms: []TransformMode{TransformTranslate}},
				{ID: "control2", Position: p2, Role: RoleControl, Transforms: []TransformMode{TransformTranslate}},
				{ID: "end", Position: p3, Role: RoleEnd, Transforms: []TransformMode{TransformTranslate}},
			}
		},
	}
}
