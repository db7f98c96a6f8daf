// Package store defines the data model the transport operates on: Track,
// Animation, PlayingAnimation, and the external collaborator interfaces the
// transport depends on but does not implement — those are owned by the
// project layer and the OSC integration, both outside this engine's scope.
package store

import (
	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/orbiterr"
	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/timing"
)

// Track is an entity with stable identity, a current position, and the
// bookkeeping the core reads and writes during playback. Mute/solo and the
// external OSC index are read-only inputs from the project layer's
// perspective; the core never assigns them.
type Track struct {
	ID              string
	Position        spatial.Position
	InitialPosition *spatial.Position
	ExternalIndex   *int
	Muted           bool
	Soloed          bool

	// Animation is the per-track parameter override consulted only in
	// relative multi-track mode.
	Animation *models.Params
}

// CoordinateSystem selects the OSC wire format an animation's positions
// are tagged with; conversion itself happens in the batch sink.
type CoordinateSystem int

const (
	CoordinateXYZ CoordinateSystem = iota
	CoordinatePolar
)

// FadeSpec describes a fade-in or fade-out sub-animation.
type FadeSpec struct {
	Enabled     bool
	AutoTrigger bool
	DurationMs  int64
	Easing      spatial.Easing
	ToPosition  *spatial.Position // not read by the transport: fade-out always targets each track's InitialPosition
}

// CustomCenter carries the barycentric custom/centered centre position and
// the optional distribution radius.
type CustomCenter struct {
	Position spatial.Position
	Radius   *float64
}

// Animation is a named, typed motion configuration. Duration
// must be strictly positive and PingPong requires Loop; both invariants
// are enforced by Validate rather than by the zero value, since an
// Animation is normally constructed by the external project layer.
type Animation struct {
	ID            string
	DisplayName   string
	ModelType     string
	Parameters    models.Params
	Duration      float64
	PlaybackSpeed float64 // multiplier; <= 0 is treated as 1 by the timing engine
	Loop          bool
	PingPong      bool
	Coordinate    CoordinateSystem
	Mode          multitrack.Mode
	Variant       multitrack.Variant
	PhaseOffset   float64
	CustomCenter  CustomCenter
	PerTrack      map[string]models.Params
	LockedTracks  []string // nil means "not locked"; non-nil is fixed for the lifetime of the play

	FadeIn  FadeSpec
	FadeOut FadeSpec
}

// Validate checks the structural invariants of an Animation.
func (a Animation) Validate() error {
	if a.Duration <= 0 {
		return &orbiterr.ValidationError{Path: "duration", Kind: "must_be_positive"}
	}
	if a.PingPong && !a.Loop {
		return &orbiterr.ValidationError{Path: "pingPong", Kind: "requires_loop"}
	}
	return nil
}

// PlayingAnimation is a record per concurrently playing animation: which
// animation, which tracks, and its TimingState.
type PlayingAnimation struct {
	AnimationID string
	TrackIDs    []string
	Timing      timing.State
	IsPlaying   bool

	// FormationOffsets holds the barycentric/isobarycentric trackOffset for
	// each track, computed once at play start from the tracks' positions at
	// that moment so the formation stays rigid. Empty for every other
	// mode/variant, since those recompute trackOffset from live state each
	// tick.
	FormationOffsets map[string]spatial.Position

	// LastTickMs is the wall-clock millisecond timestamp of this
	// PlayingAnimation's last UI tick (zero before the first tick), used to
	// derive CalculationContext.DeltaTime for stateful models.
	LastTickMs int64

	// UIFrameCount counts the UI ticks this PlayingAnimation has been
	// advanced through, fed to CalculationContext.FrameCount for
	// cadence-sensitive models.
	UIFrameCount uint64
}

// ProjectStore is the project/track store collaborator the transport
// consumes. Positions must be written through UpdateTrack
// so the external layer observes every change; the transport never mutates
// a Track value it was handed directly.
type ProjectStore interface {
	FindTrack(id string) (Track, bool)
	FindAnimation(id string) (Animation, bool)
	UpdateTrack(id string, partial TrackPatch)
	UpdateAnimation(id string, partial AnimationPatch)
	AllTracks() []Track
}

// TrackPatch carries only the fields the core is allowed to write on a
// Track: position and the playback-derived bookkeeping fields.
type TrackPatch struct {
	Position        *spatial.Position
	InitialPosition *spatial.Position
	IsPlaying       *bool
	CurrentTime     *float64
}

// AnimationPatch carries external-layer-visible animation state changes
// (currently none originate from the core beyond what ProjectStore already
// owns; reserved for forward compatibility with editor-driven mutation).
type AnimationPatch struct {
	LockedTracks []string
}

// OSCSink is the OSC send callback collaborator: registered once at
// startup, invoked once per flush. The core does not assume delivery.
type OSCSink interface {
	Send(batch Batch)
}

// OSCInputFilter is the collaborator notified when all playback stops, so
// it can clear whatever "currently animating" bookkeeping it keeps for
// distinguishing OSC input from OSC output.
type OSCInputFilter interface {
	ClearAnimatingTracks()
}

// Message is one OSC output for one track in one flush.
type Message struct {
	TrackExternalIndex int
	Position           spatial.Position
	Coordinate         CoordinateSystem
}

// Batch is an ordered sequence of Messages produced by one flush.
type Batch struct {
	Messages []Message
}
