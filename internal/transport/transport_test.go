package transport

import (
	"bytes"
	"log"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/orbiter/internal/memstore"
	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
)

// nanAfterModel is a misbehaving test double: it returns a good position
// until animationTime crosses a threshold, then returns a non-finite one
// forever, for exercising the transport's ComputationAnomaly fallback.
type nanAfterModel struct {
	models.BaseModel
	goodX     float64
	threshold float64
}

func (m nanAfterModel) GetDefaultParameters(trackPosition *spatial.Position) models.Params {
	return models.Params{}
}

func (m nanAfterModel) Calculate(params models.Params, time, duration float64, ctx models.CalculationContext) spatial.Position {
	if time > m.threshold {
		return spatial.Position{X: math.NaN()}
	}
	return spatial.Position{X: m.goodX}
}

func (m nanAfterModel) GeneratePath(params models.Params, duration float64, resolution int) []spatial.Position {
	return nil
}

func newNaNAfterModel() models.Model {
	return nanAfterModel{
		BaseModel: models.BaseModel{Meta: models.Metadata{Type: "test-nan-after", DisplayName: "Test NaN After"}},
		goodX:     5, threshold: 0.05,
	}
}

// fakeSink records every batch sent to it, for assertions that the OSC tick
// keeps flushing independent of the UI tick.
type fakeSink struct {
	mu      sync.Mutex
	batches []store.Batch
}

func (f *fakeSink) Send(b store.Batch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, b)
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func newLinearProject() (*memstore.Store, string) {
	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "t1", Position: spatial.Position{X: 0}, ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-linear", ModelType: "linear", Duration: 0.2,
		Parameters: models.Params{
			"startPosition": models.Pos(spatial.Position{X: 0}),
			"endPosition":   models.Pos(spatial.Position{X: 10}),
		},
	})
	return project, "anim-linear"
}

func TestPlayUnknownAnimationReturnsTransportError(t *testing.T) {
	project := memstore.New()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	err := tport.Play("missing", nil)
	assert.Error(t, err)
}

func TestPlayRejectsUnsupportedMultiTrackMode(t *testing.T) {
	registry := models.NewRegistry()
	relativeOnly := nanAfterModel{
		BaseModel: models.BaseModel{
			Meta:  models.Metadata{Type: "relative-only"},
			Modes: []multitrack.ModeVariant{{Mode: multitrack.Relative, Variant: multitrack.VariantNone}},
		},
	}
	require.NoError(t, registry.Register(relativeOnly))

	project := memstore.New()
	project.AddTrack(store.Track{ID: "t1"})
	project.AddAnimation(store.Animation{
		ID: "anim-bary", ModelType: "relative-only", Duration: 1,
		Mode: multitrack.Barycentric, Variant: multitrack.Shared,
	})

	tport := New(registry, project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	err := tport.Play("anim-bary", []string{"t1"})
	assert.Error(t, err, "playing a barycentric animation on a relative-only model must fail fast")
	assert.Equal(t, 0, tport.Stats().PlayingCount)
}

func TestPlayIsIdempotentWhileAlreadyPlaying(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	require.NoError(t, tport.Play(animID, []string{"t1"}))
	assert.Equal(t, 1, tport.Stats().PlayingCount)
}

func TestLinearNoLoopAdvancesAndStops(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if tport.Stats().PlayingCount == 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	track, ok := project.FindTrack("t1")
	require.True(t, ok)
	assert.InDelta(t, 10, track.Position.X, 0.5, "non-looping linear animation should settle at endPosition")
	assert.Equal(t, 0, tport.Stats().PlayingCount)
}

func TestPauseFreezesPosition(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	time.Sleep(80 * time.Millisecond)
	tport.Pause(animID)

	frozen, _ := project.FindTrack("t1")
	time.Sleep(120 * time.Millisecond)
	after, _ := project.FindTrack("t1")
	assert.Equal(t, frozen.Position, after.Position, "paused animation must not advance")
}

func TestStopNotifiesOSCInputFilter(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	time.Sleep(30 * time.Millisecond)
	tport.StopAll()

	assert.Equal(t, 1, project.ClearCount())
	assert.Equal(t, 0, tport.Stats().PlayingCount)
}

func TestOSCTickFlushesIndependentlyOfUITick(t *testing.T) {
	project, animID := newLinearProject()
	sink := &fakeSink{}
	tport := New(models.NewBuiltinRegistry(), project, sink, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	time.Sleep(150 * time.Millisecond)

	assert.Greater(t, sink.count(), 0, "OSC tick should have flushed at least one batch")
}

// TestIsobarycentricFormationStaysRigid is the regression test for the
// formation-locking fix: the distance between every pair of tracks driven
// by a barycentric/isobarycentric animation must stay constant over time,
// since the offsets are locked once at play start rather than recomputed
// from the live (already-animated) centroid every tick.
func TestIsobarycentricFormationStaysRigid(t *testing.T) {
	project := memstore.New()
	idx0, idx1, idx2 := 0, 1, 2
	project.AddTrack(store.Track{ID: "a", Position: spatial.Position{X: 2}, ExternalIndex: &idx0})
	project.AddTrack(store.Track{ID: "b", Position: spatial.Position{X: -2}, ExternalIndex: &idx1})
	project.AddTrack(store.Track{ID: "c", Position: spatial.Position{Y: 2}, ExternalIndex: &idx2})
	project.AddAnimation(store.Animation{
		ID: "anim-formation", ModelType: "circular", Duration: 1, Loop: true,
		Mode: multitrack.Barycentric, Variant: multitrack.Isobarycentric,
		Parameters: models.Params{
			"radiusX": models.Scalar(3), "radiusY": models.Scalar(3), "speed": models.Scalar(1),
		},
	})

	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-formation", []string{"a", "b", "c"}))

	distanceAB := func() float64 {
		ta, _ := project.FindTrack("a")
		tb, _ := project.FindTrack("b")
		return ta.Position.Distance(tb.Position)
	}

	time.Sleep(40 * time.Millisecond)
	early := distanceAB()
	time.Sleep(600 * time.Millisecond)
	later := distanceAB()

	assert.InDelta(t, early, later, 0.2, "formation spacing between tracks must stay rigid across many ticks")
}

// TestPlayWithFadeInCapturesInitialAndStartsAnimation covers the
// auto-triggered fade-in path: initialPosition is captured up front, the
// PlayingAnimation is only created once the fade completes, and the fade
// itself runs even though the engine was idle when Play was called.
func TestPlayWithFadeInCapturesInitialAndStartsAnimation(t *testing.T) {
	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "f1", Position: spatial.Position{X: 5, Y: 5, Z: 5}, ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-fade", ModelType: "linear", Duration: 5, Loop: true,
		Parameters: models.Params{
			"startPosition": models.Pos(spatial.Zero),
			"endPosition":   models.Pos(spatial.Position{X: 1}),
		},
		FadeIn: store.FadeSpec{Enabled: true, AutoTrigger: true, DurationMs: 60, Easing: spatial.EaseCubicOut},
	})

	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-fade", []string{"f1"}))

	track, _ := project.FindTrack("f1")
	require.NotNil(t, track.InitialPosition)
	assert.Equal(t, spatial.Position{X: 5, Y: 5, Z: 5}, *track.InitialPosition)
	assert.Equal(t, 0, tport.Stats().PlayingCount, "animation must not start until the fade-in completes")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && tport.Stats().PlayingCount == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, tport.Stats().PlayingCount, "fade-in completion must begin the playing animation")
}

// TestStopWithFadeOutReturnsTracksToInitialPosition: at the end of an
// auto-triggered fade-out, every involved track must sit at the
// initialPosition captured at play start, with the animation no longer
// overwriting the fade's eased positions.
func TestStopWithFadeOutReturnsTracksToInitialPosition(t *testing.T) {
	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "o1", ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-out", ModelType: "linear", Duration: 10, Loop: true,
		Parameters: models.Params{
			"startPosition": models.Pos(spatial.Zero),
			"endPosition":   models.Pos(spatial.Position{X: 10}),
		},
		FadeOut: store.FadeSpec{Enabled: true, AutoTrigger: true, DurationMs: 60, Easing: spatial.EaseCubicOut},
	})

	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-out", []string{"o1"}))
	time.Sleep(120 * time.Millisecond) // let the animation drift off the initial position
	tport.Stop("anim-out")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && tport.Stats().PlayingCount > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(40 * time.Millisecond)

	track, _ := project.FindTrack("o1")
	require.NotNil(t, track.InitialPosition)
	assert.InDelta(t, track.InitialPosition.X, track.Position.X, 0.05,
		"fade-out must land the track back on its captured initial position")
}

func TestGoToStartReturnsTracksToInitialPosition(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	time.Sleep(60 * time.Millisecond)

	tport.GoToStart(30, []string{"t1"})
	time.Sleep(50 * time.Millisecond)

	track, _ := project.FindTrack("t1")
	assert.InDelta(t, 0, track.Position.X, 2, "goToStart should ease the track back near its captured initial position shortly after the fade completes")
}

func TestReturnAllToInitialStopsAndEasesEveryTrack(t *testing.T) {
	project, animID := newLinearProject()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play(animID, []string{"t1"}))
	time.Sleep(60 * time.Millisecond)

	tport.ReturnAllToInitial(30)
	time.Sleep(250 * time.Millisecond)

	assert.Equal(t, 0, tport.Stats().PlayingCount)
	track, _ := project.FindTrack("t1")
	assert.InDelta(t, 0, track.Position.X, 0.5)
}

func TestSeekAndGlobalTimeRoundTrip(t *testing.T) {
	project := memstore.New()
	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	tport.Seek(42.5)
	assert.Equal(t, 42.5, tport.GlobalTime())
}

// TestPendulumAdvancesOverRealPlaybackTicks is the regression test for
// threading a real per-tick deltaTime into CalculationContext: a stateful
// model must actually integrate across real Transport.Play ticks instead of
// staying frozen at its initial state forever.
func TestPendulumAdvancesOverRealPlaybackTicks(t *testing.T) {
	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "p1", ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-pendulum", ModelType: "pendulum", Duration: 10, Loop: true,
		Parameters: models.Params{
			"anchorPoint":  models.Pos(spatial.Position{Y: 2}),
			"length":       models.Scalar(2),
			"gravity":      models.Scalar(9.81),
			"damping":      models.Scalar(0.05),
			"initialAngle": models.Scalar(math.Pi / 4),
		},
	})

	tport := New(models.NewBuiltinRegistry(), project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-pendulum", []string{"p1"}))
	time.Sleep(10 * time.Millisecond)
	initial, _ := project.FindTrack("p1")

	time.Sleep(300 * time.Millisecond)
	later, _ := project.FindTrack("p1")

	assert.Greater(t, initial.Position.Distance(later.Position), 1e-3,
		"a real Transport.Play tick must thread a nonzero deltaTime into the pendulum so it actually swings instead of staying frozen")
}

// TestNonFinitePositionFallsBackToLastKnownGood is the regression test for
// the transform pipeline no longer silently zeroing non-finite coordinates:
// once a model starts returning a non-finite position, the track must keep
// holding its last known-good position rather than jumping to the origin.
func TestNonFinitePositionFallsBackToLastKnownGood(t *testing.T) {
	registry := models.NewRegistry()
	require.NoError(t, registry.Register(newNaNAfterModel()))

	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "n1", ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-nan", ModelType: "test-nan-after", Duration: 10, Loop: true,
	})

	tport := New(registry, project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-nan", []string{"n1"}))
	time.Sleep(150 * time.Millisecond)

	track, _ := project.FindTrack("n1")
	require.True(t, track.Position.IsFinite(), "a non-finite model output must never be written to the track store")
	assert.Equal(t, 5.0, track.Position.X, "track should hold the last known-good position once the model starts misbehaving")
}

// TestNonFiniteAnomalyIsLoggedOncePerAnimationTrackPair: a model that
// keeps returning a non-finite position every tick must log once per
// (animationID, trackID) pair, not spam the log.
func TestNonFiniteAnomalyIsLoggedOncePerAnimationTrackPair(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	registry := models.NewRegistry()
	require.NoError(t, registry.Register(newNaNAfterModel()))

	project := memstore.New()
	idx0 := 0
	project.AddTrack(store.Track{ID: "n1", ExternalIndex: &idx0})
	project.AddAnimation(store.Animation{
		ID: "anim-nan-log", ModelType: "test-nan-after", Duration: 10, Loop: true,
	})

	tport := New(registry, project, nil, project, spatial.Envelope{})
	defer tport.StopEngine()

	require.NoError(t, tport.Play("anim-nan-log", []string{"n1"}))
	time.Sleep(200 * time.Millisecond)

	count := strings.Count(buf.String(), "non-finite position")
	assert.Equal(t, 1, count, "a sustained anomaly on the same (animation, track) pair must log exactly once")
}
