package models

import "github.com/schollz/orbiter/internal/spatial"

// NewZigzag returns the Zigzag model: piecewise-linear motion between
// zigzagStart and zigzagEnd across N segments, offset perpendicular to the
// main axis by `amplitude` on alternating segments.
func NewZigzag() Model {
	return zigzagModel{BaseModel{
		Meta: Metadata{
			Type: "zigzag", DisplayName: "Zigzag", Version: "1.0.0",
			Category: "basic", Tags: []string{"segment", "piecewise"},
			Description: "Piecewise-linear zigzag between two endpoints.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "zigzagStart", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "zigzagEnd", Kind: KindPosition, Default: Pos(spatial.Position{X: 1})},
			{Name: "segments", Kind: KindScalar, Default: Scalar(4), Min: f(1), Max: f(256)},
			{Name: "amplitude", Kind: KindScalar, Default: Scalar(0.25)},
		},
	}}
}

type zigzagModel struct{ BaseModel }

func (m zigzagModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	if trackPosition != nil {
		start = *trackPosition
	}
	return Params{
		"zigzagStart": Pos(start), "zigzagEnd": Pos(start.Add(spatial.Position{X: 1})),
		"segments": Scalar(4), "amplitude": Scalar(0.25),
	}
}

func (m zigzagModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	start := params.Position("zigzagStart", spatial.Zero)
	end := params.Position("zigzagEnd", start)
	n := params.Int("segments", 4)
	if n < 1 {
		n = 1
	}
	amp := params.Float("amplitude", 0.25)

	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}

	along := start.Lerp(end, progress)

	axis := end.Sub(start)
	perp := perpendicular(axis)

	// Position within the current segment, in [0,1), alternating sign.
	scaled := progress * float64(n)
	seg := int(scaled)
	if seg >= n {
		seg = n - 1
	}
	segT := scaled - float64(seg)
	sign := 1.0
	if seg%2 == 1 {
		sign = -1
	}
	// Triangle wave across the segment so it returns to the axis at each
	// segment boundary.
	tri := 1 - absf(2*segT-1)
	return along.Add(perp.Scale(sign * amp * tri))
}

func perpendicular(axis spatial.Position) spatial.Position {
	length := axis.Length()
	if length == 0 {
		return spatial.Position{Y: 1}
	}
	dir := axis.Scale(1 / length)
	// Rotate dir by 90 degrees in the XY plane; if the axis is purely
	// along Z, fall back to the X axis.
	if dir.X == 0 && dir.Y == 0 {
		return spatial.Position{X: 1}
	}
	return spatial.Position{X: -dir.Y, Y: dir.X}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (m zigzagModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
