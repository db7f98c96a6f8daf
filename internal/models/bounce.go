package models

import "github.com/schollz/orbiter/internal/spatial"

// bounceState is the persistent per-track scratchpad for vertical position
// and velocity.
type bounceState struct {
	height float64
	vel    float64
	init   bool
}

// NewBounce returns the stateful Bounce model: vertical motion under
// gravity, rebounding off groundLevel with a coefficient of restitution.
func NewBounce() Model {
	return bounceModel{BaseModel{
		Meta: Metadata{
			Type: "bounce", DisplayName: "Bounce", Version: "1.0.0",
			Category: "physics", Tags: []string{"physics", "stateful", "gravity"},
			Description: "Vertical gravity motion rebounding off a ground plane.",
			Complexity:  ComplexityConstant, IsStateful: true,
		},
		Schema: []ParameterDefinition{
			{Name: "origin", Kind: KindPosition, Default: Pos(spatial.Position{Y: 5})},
			{Name: "groundLevel", Kind: KindScalar, Default: Scalar(0)},
			{Name: "gravity", Kind: KindScalar, Default: Scalar(9.81), Min: f(0.01)},
			{Name: "restitution", Kind: KindScalar, Default: Scalar(0.7), Min: f(0), Max: f(1)},
		},
	}}
}

type bounceModel struct{ BaseModel }

func (m bounceModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	origin := spatial.Position{Y: 5}
	if trackPosition != nil {
		origin = *trackPosition
	}
	return Params{
		"origin": Pos(origin), "groundLevel": Scalar(0), "gravity": Scalar(9.81), "restitution": Scalar(0.7),
	}
}

func bounceStateFor(ctx CalculationContext, origin spatial.Position, ground float64) *bounceState {
	if ctx.State == nil {
		return &bounceState{height: origin.Y - ground, init: true}
	}
	key := "bounce:" + ctx.TrackID
	if v, ok := ctx.State[key]; ok {
		if st, ok := v.(*bounceState); ok {
			return st
		}
	}
	st := &bounceState{height: origin.Y - ground, init: true}
	ctx.State[key] = st
	return st
}

func (m bounceModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	origin := params.Position("origin", spatial.Position{Y: 5})
	ground := params.Float("groundLevel", 0)
	gravity := params.Float("gravity", 9.81)
	restitution := params.Float("restitution", 0.7)
	if restitution < 0 {
		restitution = 0
	} else if restitution > 1 {
		restitution = 1
	}

	st := bounceStateFor(ctx, origin, ground)
	dt := ctx.DeltaTime
	if dt > 0 {
		st.vel -= gravity * dt
		st.height += st.vel * dt
		if st.height < 0 {
			st.height = -st.height * restitution
			st.vel = -st.vel * restitution
		}
	}
	return spatial.Position{X: origin.X, Y: ground + st.height, Z: origin.Z}
}

func (m bounceModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
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
