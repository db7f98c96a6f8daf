// Package transport implements the playback engine: it owns
// PlayingAnimations, drives the dual UI/OSC tick loop, and is the only
// thing in the system that calls time.Now.
package transport

import (
	"log"
	"sync"
	"time"

	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/orbiterr"
	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
	"github.com/schollz/orbiter/internal/timing"
	"github.com/schollz/orbiter/internal/transform"
)

// UITickRate and OSCTickRate are the two fixed-rate tasks: a ~60 Hz
// UI-paced tick and an independent, fixed 30 Hz OSC tick that must keep
// emitting even if the UI tick is starved by render load.
const (
	UITickRate  = 60
	OSCTickRate = 30
)

// Stats is the observability surface: running frame count, an EMA of tick
// duration, the current PlayingAnimation count, and the global isPlaying
// aggregate.
type Stats struct {
	UIFrameCount  uint64
	OSCFrameCount uint64
	UITickEMAMs   float64
	OSCTickEMAMs  float64
	PlayingCount  int
	IsPlaying     bool
}

// Transport is the single logical owner of playing, stateStore and
// oscBatch. A single mutex is the whole locking discipline; the UI tick
// and OSC tick both acquire it for the duration of their tick, and model
// Calculate invocations never block on I/O while holding it.
type Transport struct {
	mu sync.Mutex

	registry *models.Registry
	project  store.ProjectStore
	sink     store.OSCSink
	filter   store.OSCInputFilter
	envelope spatial.Envelope

	playing    map[string]*store.PlayingAnimation
	stateStore map[string]map[string]any
	batch      store.Batch

	fades              map[string]*activeFade // keyed by trackID; last writer wins
	pendingCompletions []func()

	// loggedAnomalies dedupes ComputationAnomaly logging per
	// (animationId, trackId) pair, keyed by animationID+"\x00"+trackID.
	loggedAnomalies map[string]bool

	globalTime float64

	uiFrames, oscFrames uint64
	uiEMA, oscEMA       float64

	stopCh  chan struct{}
	running bool
	wg      sync.WaitGroup
}

// New constructs a Transport against the given model registry and
// external collaborators.
func New(registry *models.Registry, project store.ProjectStore, sink store.OSCSink, filter store.OSCInputFilter, envelope spatial.Envelope) *Transport {
	return &Transport{
		registry:        registry,
		project:         project,
		sink:            sink,
		filter:          filter,
		envelope:        envelope,
		playing:         make(map[string]*store.PlayingAnimation),
		stateStore:      make(map[string]map[string]any),
		fades:           make(map[string]*activeFade),
		loggedAnomalies: make(map[string]bool),
	}
}

func nowMs() int64 { return time.Now().UnixMilli() }

// logAnomalyOnceLocked records a ComputationAnomaly the
// first time a given (animationID, trackID) pair produces a non-finite
// position, and is a no-op on every subsequent occurrence of that same
// pair.
func (t *Transport) logAnomalyOnceLocked(animationID, trackID, modelType string) {
	key := animationID + "\x00" + trackID
	if t.loggedAnomalies[key] {
		return
	}
	t.loggedAnomalies[key] = true
	err := &orbiterr.ComputationAnomaly{AnimationID: animationID, TrackID: trackID, ModelType: modelType}
	log.Printf("%v; substituting last known position", err)
}

// StartEngine starts the two independent tick goroutines. Safe to call
// more than once; subsequent calls are no-ops while already running.
func (t *Transport) StartEngine() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startEngineLocked()
}

// startEngineLocked is StartEngine's body, callable from code that already
// holds t.mu (ensureRunningLocked) without the unlock/relock a re-entrant
// sync.Mutex would otherwise require.
func (t *Transport) startEngineLocked() {
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	stopCh := t.stopCh

	t.wg.Add(2)
	go t.runTickLoop(stopCh, time.Second/UITickRate, &t.wg, t.uiTick, &t.uiFrames, &t.uiEMA)
	go t.runTickLoop(stopCh, time.Second/OSCTickRate, &t.wg, t.oscTick, &t.oscFrames, &t.oscEMA)
}

// StopEngine stops both tick goroutines and blocks until they exit.
func (t *Transport) StopEngine() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Transport) runTickLoop(stopCh chan struct{}, period time.Duration, wg *sync.WaitGroup, tick func(), frames *uint64, ema *float64) {
	defer wg.Done()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			start := time.Now()
			tick()
			elapsed := float64(time.Since(start).Microseconds()) / 1000
			t.mu.Lock()
			*frames++
			if *ema == 0 {
				*ema = elapsed
			} else {
				*ema = 0.9**ema + 0.1*elapsed
			}
			t.mu.Unlock()
		}
	}
}

// Stats returns a snapshot of the observability surface.
func (t *Transport) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	playing := false
	for _, pa := range t.playing {
		if pa.IsPlaying && !pa.Timing.IsPaused {
			playing = true
			break
		}
	}
	return Stats{
		UIFrameCount: t.uiFrames, OSCFrameCount: t.oscFrames,
		UITickEMAMs: t.uiEMA, OSCTickEMAMs: t.oscEMA,
		PlayingCount: len(t.playing), IsPlaying: playing,
	}
}

// Seek sets the public globalTime marker used by the UI; it never rewinds
// any TimingState.
func (t *Transport) Seek(timeSeconds float64) {
	t.mu.Lock()
	t.globalTime = timeSeconds
	t.mu.Unlock()
}

// GlobalTime returns the last value passed to Seek.
func (t *Transport) GlobalTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalTime
}

// Play starts or resumes an animation across trackIDs.
func (t *Transport) Play(animationID string, trackIDs []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	anim, ok := t.project.FindAnimation(animationID)
	if !ok {
		return &orbiterr.TransportError{Op: "play", ID: animationID}
	}
	if model, ok := t.registry.Lookup(anim.ModelType); ok {
		if !multitrack.Supports(model.SupportedMultiTrackModes(), anim.Mode, anim.Variant) {
			return &orbiterr.StateError{
				Reason: "model " + anim.ModelType + " does not support multi-track mode " + anim.Mode.String() + "/" + anim.Variant.String(),
			}
		}
	}

	if pa, ok := t.playing[animationID]; ok {
		if pa.Timing.IsPaused {
			now := nowMs()
			pa.Timing = timing.Resume(pa.Timing, now)
			pa.IsPlaying = true
			pa.LastTickMs = now // don't charge the pause interval as deltaTime to stateful models
			t.ensureRunningLocked()
			return nil
		}
		return nil // already playing and not paused: no-op
	}

	t.captureInitialPositionsLocked(trackIDs)
	formationOffsets := t.computeFormationOffsetsLocked(anim, trackIDs)

	if anim.FadeIn.Enabled && anim.FadeIn.AutoTrigger {
		targets := t.computeZeroTimeTargetsLocked(anim, trackIDs, formationOffsets)
		t.startFadeLocked(targets, anim.FadeIn.DurationMs, anim.FadeIn.Easing, func() {
			t.mu.Lock()
			t.beginPlayingLocked(animationID, trackIDs, formationOffsets)
			t.mu.Unlock()
		})
		return nil
	}

	t.beginPlayingLocked(animationID, trackIDs, formationOffsets)
	return nil
}

func (t *Transport) beginPlayingLocked(animationID string, trackIDs []string, formationOffsets map[string]spatial.Position) {
	now := nowMs()
	t.playing[animationID] = &store.PlayingAnimation{
		AnimationID: animationID, TrackIDs: trackIDs,
		Timing: timing.Create(now), IsPlaying: true,
		FormationOffsets: formationOffsets,
		LastTickMs:       now,
	}
	t.stateStore[animationID] = map[string]any{}
	t.ensureRunningLocked()
}

// computeFormationOffsetsLocked computes the locked barycentric/
// isobarycentric trackOffset for every track in trackIDs, from each
// track's InitialPosition when it has one (Play captures it from the
// current position first when it is missing), else its current position.
// Every other mode/variant returns an empty map, since
// AssignTrack recomputes their offsets from live state each tick.
func (t *Transport) computeFormationOffsetsLocked(anim store.Animation, trackIDs []string) map[string]spatial.Position {
	offsets := make(map[string]spatial.Position)
	if anim.Mode != multitrack.Barycentric || anim.Variant != multitrack.Isobarycentric {
		return offsets
	}
	basis := make(map[string]spatial.Position, len(trackIDs))
	positions := make([]spatial.Position, 0, len(trackIDs))
	for _, id := range trackIDs {
		track, ok := t.project.FindTrack(id)
		if !ok {
			continue
		}
		pos := track.Position
		if track.InitialPosition != nil {
			pos = *track.InitialPosition
		}
		basis[id] = pos
		positions = append(positions, pos)
	}
	center := spatial.Centroid(positions)
	for id, pos := range basis {
		offsets[id] = pos.Sub(center)
	}
	return offsets
}

func (t *Transport) ensureRunningLocked() {
	t.startEngineLocked()
}

func (t *Transport) captureInitialPositionsLocked(trackIDs []string) {
	for _, id := range trackIDs {
		track, ok := t.project.FindTrack(id)
		if !ok || track.InitialPosition != nil {
			continue
		}
		pos := track.Position
		t.project.UpdateTrack(id, store.TrackPatch{InitialPosition: &pos})
	}
}

// Pause pauses one animation, or every playing animation when id is "".
func (t *Transport) Pause(animationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := nowMs()
	if animationID != "" {
		if pa, ok := t.playing[animationID]; ok {
			pa.Timing = timing.Pause(pa.Timing, now)
			pa.IsPlaying = false
		}
		return
	}
	for _, pa := range t.playing {
		pa.Timing = timing.Pause(pa.Timing, now)
		pa.IsPlaying = false
	}
}

// Stop removes one animation (or all, when id is "") honouring fadeOut.
func (t *Transport) Stop(animationID string) {
	t.mu.Lock()
	if animationID != "" {
		t.stopOneLocked(animationID)
		t.mu.Unlock()
		return
	}
	ids := make([]string, 0, len(t.playing))
	for id := range t.playing {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		t.mu.Lock()
		t.stopOneLocked(id)
		t.mu.Unlock()
	}
	t.mu.Lock()
	t.batch = store.Batch{}
	t.mu.Unlock()
	if t.filter != nil {
		t.filter.ClearAnimatingTracks()
	}
}

// StopAll is an alias for Stop("").
func (t *Transport) StopAll() { t.Stop("") }

func (t *Transport) stopOneLocked(animationID string) {
	pa, ok := t.playing[animationID]
	if !ok {
		return
	}
	anim, hasAnim := t.project.FindAnimation(animationID)
	if hasAnim && anim.FadeOut.Enabled && anim.FadeOut.AutoTrigger {
		// Pause so the animation stops writing positions while the fade
		// eases the tracks home; otherwise each tick's animation write
		// would overwrite the fade's.
		pa.Timing = timing.Pause(pa.Timing, nowMs())
		pa.IsPlaying = false
		targets := map[string]spatial.Position{}
		for _, trackID := range pa.TrackIDs {
			track, ok := t.project.FindTrack(trackID)
			if !ok || track.InitialPosition == nil {
				continue
			}
			if track.Position.Distance(*track.InitialPosition) < 1e-9 {
				continue
			}
			targets[trackID] = *track.InitialPosition
		}
		removeID := animationID
		t.startFadeLocked(targets, anim.FadeOut.DurationMs, anim.FadeOut.Easing, func() {
			t.mu.Lock()
			t.removeAnimationLocked(removeID)
			t.mu.Unlock()
		})
		return
	}
	t.removeAnimationLocked(animationID)
}

func (t *Transport) removeAnimationLocked(animationID string) {
	pa, ok := t.playing[animationID]
	delete(t.playing, animationID)
	delete(t.stateStore, animationID)
	if ok {
		prefix := animationID + "\x00"
		stopped := false
		for _, trackID := range pa.TrackIDs {
			delete(t.loggedAnomalies, prefix+trackID)
			t.project.UpdateTrack(trackID, store.TrackPatch{IsPlaying: &stopped})
		}
	}
}

// GoToStart pauses the affected animations, eases their tracks back to
// initialPosition, then resumes and resets their TimingState to zero.
func (t *Transport) GoToStart(durationMs int64, trackIDs []string) {
	t.mu.Lock()
	affected := t.animationsForTracksLocked(trackIDs)
	now := nowMs()
	for _, id := range affected {
		pa := t.playing[id]
		pa.Timing = timing.Pause(pa.Timing, now)
	}
	targets := map[string]spatial.Position{}
	tracks := trackIDs
	if len(tracks) == 0 {
		tracks = t.allAffectedTrackIDsLocked(affected)
	}
	for _, trackID := range tracks {
		track, ok := t.project.FindTrack(trackID)
		if !ok || track.InitialPosition == nil {
			continue
		}
		targets[trackID] = *track.InitialPosition
	}
	t.startFadeLocked(targets, durationMs, spatial.EaseCubicOut, func() {
		t.mu.Lock()
		resumeNow := nowMs()
		for _, id := range affected {
			pa, ok := t.playing[id]
			if !ok {
				continue
			}
			pa.Timing = timing.Resume(pa.Timing, resumeNow)
			pa.Timing = timing.Reset(pa.Timing, resumeNow)
			pa.LastTickMs = resumeNow
		}
		t.mu.Unlock()
	})
	t.mu.Unlock()
}

// ReturnAllToInitial is the safety button: stop everything without
// fade-out, then ease every track with a stored initialPosition back to it.
func (t *Transport) ReturnAllToInitial(durationMs int64) {
	t.mu.Lock()
	ids := make([]string, 0, len(t.playing))
	for id := range t.playing {
		ids = append(ids, id)
	}
	for _, id := range ids {
		t.removeAnimationLocked(id)
	}
	t.batch = store.Batch{}
	t.mu.Unlock()
	if t.filter != nil {
		t.filter.ClearAnimatingTracks()
	}

	t.mu.Lock()
	targets := map[string]spatial.Position{}
	for _, track := range t.project.AllTracks() {
		if track.InitialPosition != nil {
			targets[track.ID] = *track.InitialPosition
		}
	}
	t.startFadeLocked(targets, durationMs, spatial.EaseCubicOut, nil)
	t.mu.Unlock()
}

func (t *Transport) animationsForTracksLocked(trackIDs []string) []string {
	want := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		want[id] = true
	}
	var out []string
	for id, pa := range t.playing {
		if len(trackIDs) == 0 {
			out = append(out, id)
			continue
		}
		for _, tid := range pa.TrackIDs {
			if want[tid] {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func (t *Transport) allAffectedTrackIDsLocked(animationIDs []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range animationIDs {
		pa, ok := t.playing[id]
		if !ok {
			continue
		}
		for _, tid := range pa.TrackIDs {
			if !seen[tid] {
				seen[tid] = true
				out = append(out, tid)
			}
		}
	}
	return out
}

// computeZeroTimeTargetsLocked evaluates the model+strategy+transform chain
// at t=0 for each track, for fade-in's target position.
func (t *Transport) computeZeroTimeTargetsLocked(anim store.Animation, trackIDs []string, formationOffsets map[string]spatial.Position) map[string]spatial.Position {
	targets := map[string]spatial.Position{}
	model, ok := t.registry.Lookup(anim.ModelType)
	if !ok {
		return targets
	}
	animTracks := t.animationTrackSnapshotLocked(trackIDs)
	for i, trackID := range trackIDs {
		pos := t.computeTrackPositionLocked(model, anim, animTracks, trackID, i, 0, map[string]any{}, formationOffsets, 0, 0)
		targets[trackID] = pos
	}
	return targets
}

// animationTrackSnapshotLocked snapshots the tracks one animation drives,
// in trackIDs order, so index i in the strategy layer always refers to the
// i-th track of this animation rather than the i-th track of the whole
// project. The track count the strategy sees (for centroid and golden-angle
// distribution) is the animation's, not the project's.
func (t *Transport) animationTrackSnapshotLocked(trackIDs []string) []multitrack.Track {
	out := make([]multitrack.Track, len(trackIDs))
	for i, id := range trackIDs {
		out[i] = multitrack.Track{ID: id}
		if tr, ok := t.project.FindTrack(id); ok {
			out[i].Position = tr.Position
		}
	}
	return out
}

// computeTrackPositionLocked is the only call site for the model+strategy+
// transform chain. Effective parameters and the phase offset come entirely
// from multitrack.AssignTrack, including the relative-mode-only per-track
// override. deltaTime/frameCount feed CalculationContext for the stateful
// models that integrate step-by-step.
func (t *Transport) computeTrackPositionLocked(model models.Model, anim store.Animation, allTracks []multitrack.Track, trackID string, index int, animTime float64, scratch map[string]any, formationOffsets map[string]spatial.Position, deltaTime float64, frameCount uint64) spatial.Position {
	plan := multitrack.Plan{
		Mode: anim.Mode, Variant: anim.Variant,
		GlobalPhaseOffset: anim.PhaseOffset,
		CustomCenter:      multitrack.CustomCenterSpec{Center: anim.CustomCenter.Position, Radius: anim.CustomCenter.Radius},
		LockedOffsets:     formationOffsets,
		SharedParams:      anim.Parameters,
		PerTrackParams:    perTrackParamsToAny(anim.PerTrack),
	}
	assignment := multitrack.AssignTrack(plan, allTracks, index)
	trackTime := transform.GetTrackTime(animTime, assignment.PhaseOffset, anim.Duration, anim.Loop)

	params, _ := assignment.Params.(models.Params)

	ctx := models.CalculationContext{
		TrackID: trackID, Time: trackTime, Duration: anim.Duration,
		DeltaTime: deltaTime, FrameCount: frameCount, State: scratch,
	}
	base := model.Calculate(params, trackTime, anim.Duration, ctx)

	var rotation transform.RotationLookup
	if vis := model.Visualization(); vis.RotationAngle != nil {
		rotation = func() (float64, models.Plane, bool) {
			return vis.RotationAngle(trackTime, anim.Duration, params)
		}
	}
	return transform.Apply(base, assignment.Transform, rotation, t.envelope)
}

// perTrackParamsToAny wraps an animation's per-track parameter overrides as
// `any` for multitrack.Plan.PerTrackParams, which stays untyped to avoid an
// import cycle between multitrack and models.
func perTrackParamsToAny(m map[string]models.Params) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for trackID, params := range m {
		out[trackID] = params
	}
	return out
}
