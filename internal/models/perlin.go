package models

import "github.com/schollz/orbiter/internal/spatial"

// NewPerlinNoise returns the Perlin Noise model: smooth pseudo-random
// wandering around a center point, driven by a deterministic value-noise
// function seeded per track so playback is reproducible across loops.
func NewPerlinNoise() Model {
	return perlinModel{BaseModel{
		Meta: Metadata{
			Type: "perlinnoise", DisplayName: "Perlin Noise", Version: "1.0.0",
			Category: "organic", Tags: []string{"noise", "wander"},
			Description: "Smooth deterministic noise wander around a center point.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "amplitude", Kind: KindScalar, Default: Scalar(1), Min: f(0)},
			{Name: "frequency", Kind: KindScalar, Default: Scalar(0.5), Min: f(0.001)},
			{Name: "seed", Kind: KindScalar, Default: Scalar(0)},
		},
	}}
}

type perlinModel struct{ BaseModel }

func (m perlinModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{"center": Pos(center), "amplitude": Scalar(1), "frequency": Scalar(0.5), "seed": Scalar(0)}
}

func (m perlinModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	amp := params.Float("amplitude", 1)
	freq := params.Float("frequency", 0.5)
	seed := params.Float("seed", 0)

	trackSeed := float64(seedFromID(ctx.TrackID)%1000) * 0.001
	t := time*freq + seed + trackSeed

	offset := spatial.Position{
		X: amp * valueNoise1D(t),
		Y: amp * valueNoise1D(t+37.219),
		Z: amp * valueNoise1D(t+101.733),
	}
	return center.Add(offset)
}

// valueNoise1D is a smooth deterministic 1D value-noise function: lattice
// points are hashed, then interpolated with a smootherstep curve so the
// result (and its derivative) is continuous.
func valueNoise1D(x float64) float64 {
	i0 := floorf(x)
	f0 := x - i0
	v0 := latticeHash(int64(i0))
	v1 := latticeHash(int64(i0) + 1)
	u := smootherstep(f0)
	return v0 + (v1-v0)*u
}

func floorf(x float64) float64 {
	i := int64(x)
	if x < 0 && float64(i) != x {
		i--
	}
	return float64(i)
}

func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// latticeHash maps an integer lattice coordinate to a deterministic value in
// [-1, 1] using a cheap integer hash (no math/rand, so results never drift
// between runs or re-seed on loop).
func latticeHash(n int64) float64 {
	h := uint64(n)
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return float64(h%2000)/1000 - 1
}

func (m perlinModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
