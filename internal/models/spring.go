package models

import (
	"github.com/charmbracelet/harmonica"

	"github.com/schollz/orbiter/internal/spatial"
)

// springState is the persistent per-track scratchpad: current position and
// velocity per axis, since harmonica.Spring integrates one scalar at a time.
type springState struct {
	pos, vel spatial.Position
	init     bool
}

// NewSpring returns the stateful Spring model: a critically-damped (or
// under/over-damped, per parameters) mass-spring-damper pulling a track
// from restPosition towards targetPosition. Integration is delegated to
// harmonica.Spring, one integrator per axis.
func NewSpring() Model {
	return springModel{BaseModel{
		Meta: Metadata{
			Type: "spring", DisplayName: "Spring", Version: "1.0.0",
			Category: "physics", Tags: []string{"physics", "stateful", "spring"},
			Description: "Mass-spring-damper motion towards a target position.",
			Complexity:  ComplexityConstant, IsStateful: true,
		},
		Schema: []ParameterDefinition{
			{Name: "restPosition", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "targetPosition", Kind: KindPosition, Default: Pos(spatial.Position{X: 1})},
			{Name: "frequency", Kind: KindScalar, Default: Scalar(6), Min: f(0.1), Max: f(60), UIHint: "angular frequency"},
			{Name: "damping", Kind: KindScalar, Default: Scalar(0.6), Min: f(0), Max: f(5)},
		},
	}}
}

type springModel struct{ BaseModel }

func (m springModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	rest := spatial.Zero
	if trackPosition != nil {
		rest = *trackPosition
	}
	return Params{
		"restPosition": Pos(rest), "targetPosition": Pos(rest.Add(spatial.Position{X: 1})),
		"frequency": Scalar(6), "damping": Scalar(0.6),
	}
}

func springStateFor(ctx CalculationContext, rest spatial.Position) *springState {
	if ctx.State == nil {
		return &springState{pos: rest, init: true}
	}
	key := "spring:" + ctx.TrackID
	if v, ok := ctx.State[key]; ok {
		if st, ok := v.(*springState); ok {
			return st
		}
	}
	st := &springState{pos: rest, init: true}
	ctx.State[key] = st
	return st
}

func (m springModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	rest := params.Position("restPosition", spatial.Zero)
	target := params.Position("targetPosition", rest)
	freq := params.Float("frequency", 6)
	damping := params.Float("damping", 0.6)

	st := springStateFor(ctx, rest)

	dt := ctx.DeltaTime
	if dt > 0 {
		spring := harmonica.NewSpring(dt, freq, damping)
		st.pos.X, st.vel.X = spring.Update(st.pos.X, st.vel.X, target.X)
		st.pos.Y, st.vel.Y = spring.Update(st.pos.Y, st.vel.Y, target.Y)
		st.pos.Z, st.vel.Z = spring.Update(st.pos.Z, st.vel.Z, target.Z)
	}
	return st.pos
}

func (m springModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	if resolution < 2 {
		resolution = 2
	}
	scratch := map[string]any{}
	dt := duration / float64(resolution-1)
	out := make([]spatial.Position, resolution)
	for i := 0; i < resolution; i++ {
		t := float64(i) * dt
		out[i] = m.Calculate(params, t, duration, CalculationContext{Duration: duration, DeltaTime: dt, State: scratch})
	}
	return out
}
