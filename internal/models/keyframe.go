package models

import "github.com/schollz/orbiter/internal/spatial"

// Keyframe is one waypoint of the Custom/Keyframe model: a position reached
// at a given fraction of the animation's duration, with the easing curve
// that governs the segment leading up to it.
type Keyframe struct {
	Time     float64 // in [0,1], fraction of duration
	Position spatial.Position
	Easing   string
}

// NewKeyframe returns the Custom/Keyframe model: motion along an ordered
// list of keyframes, each segment eased independently. Keyframes are
// supplied as an opaque []Keyframe value since neither the scalar nor the
// position-sequence parameter kinds carry per-point timing and easing.
func NewKeyframe() Model {
	return keyframeModel{BaseModel{
		Meta: Metadata{
			Type: "keyframe", DisplayName: "Custom Keyframes", Version: "1.0.0",
			Category: "custom", Tags: []string{"keyframe", "custom"},
			Description: "Motion along an ordered list of keyframes, each segment independently eased.",
			Complexity:  ComplexityLinear,
		},
		Schema: []ParameterDefinition{
			{Name: "keyframes", Kind: KindOpaque, Default: Opaque([]Keyframe{
				{Time: 0, Position: spatial.Zero, Easing: "linear"},
				{Time: 1, Position: spatial.Position{X: 1}, Easing: "linear"},
			})},
		},
	}}
}

type keyframeModel struct{ BaseModel }

func (m keyframeModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	end := spatial.Position{X: 1}
	if trackPosition != nil {
		start = *trackPosition
		end = start.Add(spatial.Position{X: 1})
	}
	return Params{"keyframes": Opaque([]Keyframe{
		{Time: 0, Position: start, Easing: "linear"},
		{Time: 1, Position: end, Easing: "linear"},
	})}
}

func keyframesOf(params Params) []Keyframe {
	v, ok := params["keyframes"]
	if !ok || v.Kind != KindOpaque {
		return []Keyframe{{Time: 0, Position: spatial.Zero}, {Time: 1, Position: spatial.Position{X: 1}}}
	}
	kfs, ok := v.Opaque.([]Keyframe)
	if !ok || len(kfs) == 0 {
		return []Keyframe{{Time: 0, Position: spatial.Zero}, {Time: 1, Position: spatial.Position{X: 1}}}
	}
	return kfs
}

func (m keyframeModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	kfs := keyframesOf(params)
	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}
	if len(kfs) == 1 {
		return kfs[0].Position
	}
	if progress <= kfs[0].Time {
		return kfs[0].Position
	}
	last := kfs[len(kfs)-1]
	if progress >= last.Time {
		return last.Position
	}
	for i := 0; i < len(kfs)-1; i++ {
		a, b := kfs[i], kfs[i+1]
		if progress >= a.Time && progress <= b.Time {
			span := b.Time - a.Time
			local := 0.0
			if span > 0 {
				local = (progress - a.Time) / span
			}
			ease := spatial.EaseNames[b.Easing]
			return spatial.Lerp(ease, a.Position, b.Position, local)
		}
	}
	return last.Position
}

func (m keyframeModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m keyframeModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			kfs := keyframesOf(params)
			out := make([]ControlPoint, len(kfs))
			for i, kf := range kfs {
				role := RoleControl
				if i == 0 {
					role = RoleStart
				} else if i == len(kfs)-1 {
					role = RoleEnd
				}
				idx := i
				out[i] = ControlPoint{ID: intID("keyframe", i), Position: kf.Position, Role: role, Index: &idx}
			}
			return out
		},
	}
}
