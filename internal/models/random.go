package models

import (
	"math"
	"math/rand"

	"github.com/schollz/orbiter/internal/spatial"
)

// randomState holds the per-track deterministic random walk: a private
// rand.Rand seeded once from the track id (via seedFromID) and the seed
// parameter. It is kept across loops, so a loop continues the same stream
// instead of reseeding; it is not rewound, so later loops do not retrace
// the first.
type randomState struct {
	rng     *rand.Rand
	current spatial.Position
	target  spatial.Position
	elapsed float64
	holdFor float64
	init    bool
}

// NewRandom returns the stateful Random model: the track moves towards
// randomly chosen waypoints within a bounding radius of center, taking a
// random interval to reach each one before choosing the next. The sequence is
// deterministic per track id and per seed parameter, so every run from a
// fresh state reproduces it.
func NewRandom() Model {
	return randomModel{BaseModel{
		Meta: Metadata{
			Type: "random", DisplayName: "Random Walk", Version: "1.0.0",
			Category: "organic", Tags: []string{"stateful", "random", "deterministic"},
			Description: "Deterministic random walk between waypoints around a center.",
			Complexity:  ComplexityConstant, IsStateful: true,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "radius", Kind: KindScalar, Default: Scalar(2), Min: f(0)},
			{Name: "minHold", Kind: KindScalar, Default: Scalar(0.5), Min: f(0.01)},
			{Name: "maxHold", Kind: KindScalar, Default: Scalar(2), Min: f(0.01)},
			{Name: "seed", Kind: KindScalar, Default: Scalar(0)},
		},
	}}
}

type randomModel struct{ BaseModel }

func (m randomModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "radius": Scalar(2), "minHold": Scalar(0.5), "maxHold": Scalar(2), "seed": Scalar(0),
	}
}

func randomStateFor(ctx CalculationContext, center spatial.Position, seed float64) *randomState {
	mk := func() *randomState {
		combined := seedFromID(ctx.TrackID) ^ int64(seed*1000)
		rng := rand.New(rand.NewSource(combined))
		return &randomState{rng: rng, current: center, target: center, init: true}
	}
	if ctx.State == nil {
		return mk()
	}
	key := "random:" + ctx.TrackID
	if v, ok := ctx.State[key]; ok {
		if st, ok := v.(*randomState); ok {
			return st
		}
	}
	st := mk()
	ctx.State[key] = st
	return st
}

func (m randomModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	radius := params.Float("radius", 2)
	minHold := params.Float("minHold", 0.5)
	maxHold := params.Float("maxHold", 2)
	seed := params.Float("seed", 0)
	if maxHold < minHold {
		maxHold = minHold
	}

	st := randomStateFor(ctx, center, seed)
	dt := ctx.DeltaTime
	if st.holdFor == 0 {
		st.holdFor = minHold + st.rng.Float64()*(maxHold-minHold)
		st.target = randomPointInSphere(st.rng, center, radius)
	}
	if dt > 0 {
		st.elapsed += dt
		progress := clamp01(st.elapsed / st.holdFor)
		st.current = st.current.Lerp(st.target, progress)
		if progress >= 1 {
			st.elapsed = 0
			st.holdFor = minHold + st.rng.Float64()*(maxHold-minHold)
			st.current = st.target
			st.target = randomPointInSphere(st.rng, center, radius)
		}
	}
	return st.current
}

func randomPointInSphere(rng *rand.Rand, center spatial.Position, radius float64) spatial.Position {
	u := rng.Float64()*2 - 1
	theta := rng.Float64() * 2 * math.Pi
	r := radius * math.Cbrt(rng.Float64())
	sinPhi := math.Sqrt(1 - u*u)
	return center.Add(spatial.Position{
		X: r * sinPhi * math.Cos(theta),
		Y: r * sinPhi * math.Sin(theta),
		Z: r * u,
	})
}

func (m randomModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	if resolution < 2 {
		resolution = 2
	}
	scratch := map[string]any{}
	dt := duration / float64(resolution-1)
	out := make([]spatial.Position, resolution)
	for i := 0; i < resolution; i++ {
		t := float64(i) * dt
		out[i] = m.Calculate(params, t, duration, CalculationContext{TrackID: "preview", Duration: duration, DeltaTime: dt, State: scratch})
	}
	return out
}
