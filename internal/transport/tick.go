package transport

import (
	"log"

	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
	"github.com/schollz/orbiter/internal/timing"
)

// uiTick is the UI-paced task: advance every
// PlayingAnimation's timing, compute and write each track's position, and
// drain any completed fades. It does not touch the OSC batch directly
// beyond what fades enqueue; OSC emission for playing animations is the
// OSC tick's job, kept independent so render-thread stalls never starve
// wire output.
func (t *Transport) uiTick() {
	t.mu.Lock()
	now := nowMs()
	t.stepFadesLocked(now)

	for animID, pa := range t.playing {
		if pa.Timing.IsPaused {
			continue
		}
		anim, ok := t.project.FindAnimation(animID)
		if !ok {
			continue
		}
		result := advanceTiming(now, anim, pa.Timing)
		pa.Timing = result.NewState
		if result.ShouldStop {
			t.stopOneLocked(animID)
			continue
		}
		// deltaTime is this PlayingAnimation's real wall-clock step since its
		// last UI tick, in seconds; the stateful models integrate
		// step-by-step using it. LastTickMs is seeded at play/resume time so
		// the first tick after either never sees a spurious multi-second
		// delta.
		deltaSeconds := float64(now-pa.LastTickMs) / 1000
		if deltaSeconds < 0 {
			deltaSeconds = 0
		}
		pa.LastTickMs = now
		pa.UIFrameCount++
		t.writeTrackPositionsLocked(animID, anim, result.AnimationTime, pa.TrackIDs, pa.FormationOffsets, deltaSeconds, pa.UIFrameCount)
	}
	completions := t.drainCompletionsLocked()
	// Fades flush their OSC every frame rather than waiting for the next
	// OSC tick. The batch only ever holds fade messages here: oscTick
	// enqueues and drains its own messages inside a single lock hold.
	batch := t.batch
	t.batch = store.Batch{}
	t.mu.Unlock()

	if len(batch.Messages) > 0 {
		t.flush(batch)
	}
	runCompletions(completions)
}

// oscTick recomputes the same positions purely for OSC emission — the
// duplicate compute between the two ticks is deliberate, decoupling wire
// output latency from visual update latency — and flushes the batch
// through the send callback, regardless of whether the UI tick kept up.
func (t *Transport) oscTick() {
	t.mu.Lock()
	for animID, pa := range t.playing {
		if pa.Timing.IsPaused {
			continue
		}
		anim, ok := t.project.FindAnimation(animID)
		if !ok {
			continue
		}
		animTime := currentAnimationTimeLocked(anim, pa.Timing)
		// deltaTime is 0 here: the OSC tick's recompute is read-only and
		// must never advance a stateful model's integration a second time
		// for the same wall-clock step the UI tick already applied.
		t.enqueueAnimationOSCLocked(animID, anim, animTime, pa.TrackIDs, pa.FormationOffsets, pa.UIFrameCount)
	}
	batch := t.batch
	t.batch = store.Batch{}
	t.mu.Unlock()

	t.flush(batch)
}

func (t *Transport) flush(batch store.Batch) {
	if t.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("osc sink panic: %v", r)
		}
	}()
	t.sink.Send(batch)
}

func (t *Transport) drainCompletionsLocked() []func() {
	completions := t.pendingCompletions
	t.pendingCompletions = nil
	return completions
}

func runCompletions(completions []func()) {
	for _, fn := range completions {
		fn()
	}
}

// writeTrackPositionsLocked computes and writes each track's position for
// one PlayingAnimation at the UI tick's resolved animation time, honouring
// mute/solo: a muted track is skipped, and if any track is soloed, only
// soloed tracks are active. deltaTime/frameCount are this tick's real
// per-animation step, threaded into CalculationContext for the stateful
// models that integrate using them.
func (t *Transport) writeTrackPositionsLocked(animID string, anim store.Animation, animTime float64, trackIDs []string, formationOffsets map[string]spatial.Position, deltaTime float64, frameCount uint64) {
	model, ok := t.registry.Lookup(anim.ModelType)
	if !ok {
		return
	}
	scratch := t.stateStore[animID]
	soloed := t.anySoloedLocked(trackIDs)
	animTracks := t.animationTrackSnapshotLocked(trackIDs)

	for i, trackID := range trackIDs {
		track, ok := t.project.FindTrack(trackID)
		if !ok || track.Muted || (soloed && !track.Soloed) {
			continue
		}
		pos := t.computeTrackPositionLocked(model, anim, animTracks, trackID, i, animTime, scratch, formationOffsets, deltaTime, frameCount)
		if !pos.IsFinite() {
			t.logAnomalyOnceLocked(animID, trackID, anim.ModelType)
			pos = track.Position
		}
		playing := true
		current := animTime
		t.project.UpdateTrack(trackID, store.TrackPatch{Position: &pos, IsPlaying: &playing, CurrentTime: &current})
	}
}

// enqueueAnimationOSCLocked is the OSC tick's read-only duplicate of the
// same compute; frameCount is passed through for reporting but deltaTime is
// always 0 so a stateful model never advances its integration a second time
// for a step the UI tick already applied.
func (t *Transport) enqueueAnimationOSCLocked(animID string, anim store.Animation, animTime float64, trackIDs []string, formationOffsets map[string]spatial.Position, frameCount uint64) {
	model, ok := t.registry.Lookup(anim.ModelType)
	if !ok {
		return
	}
	scratch := t.stateStore[animID]
	soloed := t.anySoloedLocked(trackIDs)
	animTracks := t.animationTrackSnapshotLocked(trackIDs)

	for i, trackID := range trackIDs {
		track, ok := t.project.FindTrack(trackID)
		if !ok || track.Muted || (soloed && !track.Soloed) {
			continue
		}
		pos := t.computeTrackPositionLocked(model, anim, animTracks, trackID, i, animTime, scratch, formationOffsets, 0, frameCount)
		if !pos.IsFinite() {
			t.logAnomalyOnceLocked(animID, trackID, anim.ModelType)
			pos = track.Position
		}
		t.enqueueOSCLocked(trackID, pos, anim.Coordinate)
	}
}

func (t *Transport) anySoloedLocked(trackIDs []string) bool {
	for _, id := range trackIDs {
		if track, ok := t.project.FindTrack(id); ok && track.Soloed {
			return true
		}
	}
	return false
}

func animationParamsOf(anim store.Animation) timing.AnimationParams {
	return timing.AnimationParams{Duration: anim.Duration, PlaybackSpeed: anim.PlaybackSpeed, Loop: anim.Loop, PingPong: anim.PingPong}
}

func advanceTiming(now int64, anim store.Animation, state timing.State) timing.Result {
	return timing.CalculateAnimationTime(now, animationParamsOf(anim), state)
}

// currentAnimationTimeLocked resolves the current animation time without
// mutating TimingState, for the OSC tick's duplicate-but-read-only compute.
func currentAnimationTimeLocked(anim store.Animation, state timing.State) float64 {
	return timing.CalculateAnimationTime(nowMs(), animationParamsOf(anim), state).AnimationTime
}
