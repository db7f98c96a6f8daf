package models

import (
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/spatial"
)

// ControlPointRole names the editing role of a ControlPoint.
type ControlPointRole int

const (
	RoleStart ControlPointRole = iota
	RoleEnd
	RoleControl
)

// TransformMode is an editor transform a ControlPoint may allow.
type TransformMode int

const (
	TransformTranslate TransformMode = iota
	TransformRotate
	TransformScale
)

// ControlPoint is a typed point exposed by a model for interactive editing.
// The core exposes these but never edits them itself.
type ControlPoint struct {
	ID         string
	Position   spatial.Position
	Role       ControlPointRole
	Index      *int
	TrackID    *string
	Transforms []TransformMode
}

// CalculationContext carries everything calculate() needs beyond the
// parameter map: the current and total time, a delta for stateful
// integration, a frame counter for cadence-sensitive models, and the
// per-animation scratchpad for stateful models.
type CalculationContext struct {
	TrackID    string
	Time       float64
	Duration   float64
	DeltaTime  float64
	FrameCount uint64
	State      map[string]any
}

// Visualization groups the optional, purely-advisory hooks a model may
// expose for editor visualization and for the transform pipeline's
// rotation step.
type Visualization struct {
	// ControlPoints returns editor control points for the given parameters.
	ControlPoints func(params Params) []ControlPoint

	// RotationAngle returns the angle (radians) and plane a rotational
	// model (circular, spiral, helix, ...) has swept at the given time, for
	// the transform pipeline to apply to a barycentric trackOffset. ok is
	// false for non-rotational models.
	RotationAngle func(time, duration float64, params Params) (angle float64, plane Plane, ok bool)
}

// Plane names the rotation plane used by RotationAngle and by models whose
// motion is confined to a plane.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// Metadata describes a model without referencing its behaviour.
type Metadata struct {
	Type        string
	DisplayName string
	Version     string
	Category    string
	Tags        []string
	Description string
	Author      string
	Complexity  Complexity
	IsStateful  bool
	// CacheKey, if set, derives a stable string key from params for
	// memoizing generatePath output; optional.
	CacheKey func(params Params) string
}

// Model is the pair {metadata, contract} behind an animation type. A Model
// implementation is expected to be stateless itself: any per-animation
// mutable state is threaded through CalculationContext.State, never stored
// on the Model value.
type Model interface {
	Metadata() Metadata
	ParameterSchema() []ParameterDefinition

	// GetDefaultParameters returns schema defaults. When trackPosition is
	// non-nil, position-valued defaults (centre, start, end, ...) are
	// anchored at that position instead of the origin.
	GetDefaultParameters(trackPosition *spatial.Position) Params

	// Calculate must never panic or return a non-finite Position; on an
	// internally inconsistent parameter set it returns its best fallback
	// control point, or the origin.
	Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position

	// GeneratePath returns a polyline approximation with `resolution`
	// samples, for visualization only.
	GeneratePath(params Params, duration float64, resolution int) []spatial.Position

	SupportedMultiTrackModes() []multitrack.ModeVariant

	Visualization() Visualization
}

// BaseModel implements the parts of Model that are identical for most
// concrete models: reporting metadata/schema and defaulting
// SupportedMultiTrackModes to "all". Concrete models embed it and override
// Calculate/GeneratePath/GetDefaultParameters/Visualization.
type BaseModel struct {
	Meta   Metadata
	Schema []ParameterDefinition
	Modes  []multitrack.ModeVariant // nil means "all"
}

func (b BaseModel) Metadata() Metadata                     { return b.Meta }
func (b BaseModel) ParameterSchema() []ParameterDefinition { return b.Schema }

func (b BaseModel) SupportedMultiTrackModes() []multitrack.ModeVariant {
	if b.Modes == nil {
		return multitrack.AllModeVariants
	}
	return b.Modes
}

func (b BaseModel) Visualization() Visualization { return Visualization{} }

// samplePath is the shared generatePath implementation used by every
// deterministic, stateless model: it simply resamples Calculate at evenly
// spaced times so that generatePath coincides with calculate at the sample
// points. Stateful models must not use this
// directly against a shared CalculationContext.State, since doing so would
// mutate real playback state; they implement their own GeneratePath with a
// scratch state map instead.
func samplePath(calc func(t float64) spatial.Position, duration float64, resolution int) []spatial.Position {
	if resolution < 2 {
		resolution = 2
	}
	out := make([]spatial.Position, resolution)
	for i := 0; i < resolution; i++ {
		t := duration * float64(i) / float64(resolution-1)
		out[i] = calc(t)
	}
	return out
}
