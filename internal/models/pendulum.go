package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// pendulumState is the persistent per-(animation,track) scratchpad for the
// Pendulum model, stored in CalculationContext.State keyed by trackId.
type pendulumState struct {
	theta    float64 // angle from vertical, radians
	thetaDot float64 // angular velocity
	init     bool
}

// NewPendulum returns the stateful Pendulum model: a damped gravity
// pendulum integrated step by step using context.deltaTime.
func NewPendulum() Model {
	return pendulumModel{BaseModel{
		Meta: Metadata{
			Type: "pendulum", DisplayName: "Pendulum", Version: "1.0.0",
			Category: "physics", Tags: []string{"physics", "stateful"},
			Description: "Damped gravity pendulum anchored at a fixed point.",
			Complexity:  ComplexityConstant, IsStateful: true,
		},
		Schema: []ParameterDefinition{
			{Name: "anchorPoint", Kind: KindPosition, Default: Pos(spatial.Position{Y: 2})},
			{Name: "length", Kind: KindScalar, Default: Scalar(2), Min: f(0.01), Max: f(100)},
			{Name: "gravity", Kind: KindScalar, Default: Scalar(9.81)},
			{Name: "damping", Kind: KindScalar, Default: Scalar(0.05), Min: f(0), Max: f(10)},
			{Name: "mass", Kind: KindScalar, Default: Scalar(1), Min: f(0.01), Max: f(1000)},
			{Name: "initialAngle", Kind: KindScalar, Default: Scalar(math.Pi / 4), UIHint: "radians"},
		},
	}}
}

type pendulumModel struct{ BaseModel }

func (m pendulumModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	anchor := spatial.Position{Y: 2}
	if trackPosition != nil {
		anchor = trackPosition.Add(spatial.Position{Y: 2})
	}
	return Params{
		"anchorPoint": Pos(anchor), "length": Scalar(2), "gravity": Scalar(9.81),
		"damping": Scalar(0.05), "mass": Scalar(1), "initialAngle": Scalar(math.Pi / 4),
	}
}

func pendulumStateFor(ctx CalculationContext, params Params) *pendulumState {
	if ctx.State == nil {
		st := &pendulumState{}
		initPendulum(st, params)
		return st
	}
	key := "pendulum:" + ctx.TrackID
	if v, ok := ctx.State[key]; ok {
		if st, ok := v.(*pendulumState); ok {
			return st
		}
	}
	st := &pendulumState{}
	initPendulum(st, params)
	ctx.State[key] = st
	return st
}

func initPendulum(st *pendulumState, params Params) {
	st.theta = params.Float("initialAngle", math.Pi/4)
	st.thetaDot = 0
	st.init = true
}

func (m pendulumModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	anchor := params.Position("anchorPoint", spatial.Position{Y: 2})
	length := params.Float("length", 2)
	if length <= 0 {
		length = 0.01
	}
	gravity := params.Float("gravity", 9.81)
	damping := params.Float("damping", 0.05)

	st := pendulumStateFor(ctx, params)
	dt := ctx.DeltaTime
	if dt > 0 {
		// Semi-implicit (symplectic) Euler step: stable for oscillators.
		angularAccel := -(gravity / length) * math.Sin(st.theta)
		angularAccel -= damping * st.thetaDot
		st.thetaDot += angularAccel * dt
		st.theta += st.thetaDot * dt
	}

	offset := spatial.Position{
		X: length * math.Sin(st.theta),
		Y: -length * math.Cos(st.theta),
	}
	return anchor.Add(offset)
}

func (m pendulumModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
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
