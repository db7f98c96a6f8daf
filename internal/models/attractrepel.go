package models

import "github.com/schollz/orbiter/internal/spatial"

// attractRepelState is the persistent per-track scratchpad: the integrated
// position and velocity, with position seeded from origin on first use.
type attractRepelState struct {
	pos  spatial.Position
	vel  spatial.Position
	init bool
}

// NewAttractRepel returns the stateful Attract-Repel model: steering
// towards targetPosition with an attraction strength, repelled within
// repelRadius, capped at maxSpeed.
func NewAttractRepel() Model {
	return attractRepelModel{BaseModel{
		Meta: Metadata{
			Type: "attractrepel", DisplayName: "Attract / Repel", Version: "1.0.0",
			Category: "physics", Tags: []string{"physics", "stateful", "steering"},
			Description: "Steering behaviour attracted to a target and repelled within a radius.",
			Complexity:  ComplexityConstant, IsStateful: true,
		},
		Schema: []ParameterDefinition{
			{Name: "origin", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "targetPosition", Kind: KindPosition, Default: Pos(spatial.Position{X: 3})},
			{Name: "attraction", Kind: KindScalar, Default: Scalar(2), Min: f(0)},
			{Name: "repelRadius", Kind: KindScalar, Default: Scalar(0.5), Min: f(0)},
			{Name: "repelStrength", Kind: KindScalar, Default: Scalar(5), Min: f(0)},
			{Name: "maxSpeed", Kind: KindScalar, Default: Scalar(4), Min: f(0.01)},
		},
	}}
}

type attractRepelModel struct{ BaseModel }

func (m attractRepelModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	origin := spatial.Zero
	if trackPosition != nil {
		origin = *trackPosition
	}
	return Params{
		"origin": Pos(origin), "targetPosition": Pos(origin.Add(spatial.Position{X: 3})),
		"attraction": Scalar(2), "repelRadius": Scalar(0.5), "repelStrength": Scalar(5), "maxSpeed": Scalar(4),
	}
}

func attractRepelStateFor(ctx CalculationContext, origin spatial.Position) *attractRepelState {
	if ctx.State == nil {
		return &attractRepelState{pos: origin, init: true}
	}
	key := "attractrepel:" + ctx.TrackID
	if v, ok := ctx.State[key]; ok {
		if st, ok := v.(*attractRepelState); ok {
			return st
		}
	}
	st := &attractRepelState{pos: origin, init: true}
	ctx.State[key] = st
	return st
}

func (m attractRepelModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	origin := params.Position("origin", spatial.Zero)
	target := params.Position("targetPosition", origin)
	attraction := params.Float("attraction", 2)
	repelRadius := params.Float("repelRadius", 0.5)
	repelStrength := params.Float("repelStrength", 5)
	maxSpeed := params.Float("maxSpeed", 4)
	if maxSpeed <= 0 {
		maxSpeed = 0.01
	}

	st := attractRepelStateFor(ctx, origin)
	dt := ctx.DeltaTime
	if dt > 0 {
		toTarget := target.Sub(st.pos)
		dist := toTarget.Length()
		accel := spatial.Zero
		if dist > 1e-9 {
			accel = toTarget.Scale(attraction / dist)
		}
		if repelRadius > 0 && dist < repelRadius && dist > 1e-9 {
			accel = accel.Add(toTarget.Scale(-repelStrength / dist))
		}
		st.vel = st.vel.Add(accel.Scale(dt))
		if speed := st.vel.Length(); speed > maxSpeed {
			st.vel = st.vel.Scale(maxSpeed / speed)
		}
		st.pos = st.pos.Add(st.vel.Scale(dt))
	}
	return st.pos
}

func (m attractRepelModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
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
