package transport

import (
	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
)

// fadeGroup is the shared completion state for one startFadeLocked call:
// every track in the group must finish (or be cancelled out from under it)
// before onComplete runs exactly once.
type fadeGroup struct {
	remaining  int
	onComplete func()
}

// activeFade is the per-track fade state: a pure function of
// (from, to, durationMs, easing). A fade may be cancelled by a
// subsequent fade over the same track; last caller wins, which here means
// simply overwriting the map entry — the superseded fadeGroup's remaining
// count is decremented so it can still complete without the cancelled
// track.
type activeFade struct {
	group      *fadeGroup
	from, to   spatial.Position
	startMs    int64
	durationMs int64
	easing     spatial.Easing
}

// startFadeLocked begins easing every (trackID -> target) pair in targets
// from its current position, over durationMs, using easing. onComplete,
// if non-nil, runs once
// every track in this call has finished or been superseded by a later
// fade. Must be called with t.mu held. onComplete is never run with t.mu
// held: it is queued on t.pendingCompletions and the tick loop invokes it
// after unlocking, so it may acquire t.mu itself.
func (t *Transport) startFadeLocked(targets map[string]spatial.Position, durationMs int64, easing spatial.Easing, onComplete func()) {
	if len(targets) == 0 {
		if onComplete != nil {
			t.pendingCompletions = append(t.pendingCompletions, onComplete)
			t.ensureRunningLocked()
		}
		return
	}
	if durationMs <= 0 {
		durationMs = 1
	}
	// Fades advance on the UI tick, so an idle engine would stall them (and
	// strand any onComplete, e.g. a fade-in's deferred play).
	t.ensureRunningLocked()
	group := &fadeGroup{remaining: len(targets), onComplete: onComplete}
	start := nowMs()
	for trackID, target := range targets {
		track, ok := t.project.FindTrack(trackID)
		from := target
		if ok {
			from = track.Position
		}
		if old, exists := t.fades[trackID]; exists {
			old.group.remaining--
			if old.group.remaining == 0 && old.group.onComplete != nil {
				t.pendingCompletions = append(t.pendingCompletions, old.group.onComplete)
			}
		}
		t.fades[trackID] = &activeFade{
			group: group, from: from, to: target,
			startMs: start, durationMs: durationMs, easing: easing,
		}
	}
}

// stepFadesLocked advances every active fade by one tick, writing
// positions and enqueueing OSC messages for each. Completed fades are
// removed and their group's completion queued via t.pendingCompletions
// rather than invoked immediately, so callers can run them after
// unlocking.
func (t *Transport) stepFadesLocked(now int64) {
	for trackID, fade := range t.fades {
		elapsed := now - fade.startMs
		progress := float64(elapsed) / float64(fade.durationMs)
		done := progress >= 1
		if done {
			progress = 1
		}
		eased := spatial.Apply(fade.easing, progress)
		pos := spatial.Clamp(fade.from.Lerp(fade.to, eased), t.envelope)

		t.project.UpdateTrack(trackID, store.TrackPatch{Position: &pos})
		t.enqueueOSCLocked(trackID, pos, store.CoordinateXYZ)

		if done {
			delete(t.fades, trackID)
			fade.group.remaining--
			if fade.group.remaining == 0 && fade.group.onComplete != nil {
				t.pendingCompletions = append(t.pendingCompletions, fade.group.onComplete)
			}
		}
	}
}

func (t *Transport) enqueueOSCLocked(trackID string, pos spatial.Position, coord store.CoordinateSystem) {
	track, ok := t.project.FindTrack(trackID)
	if !ok || track.ExternalIndex == nil {
		return
	}
	t.batch.Messages = append(t.batch.Messages, store.Message{
		TrackExternalIndex: *track.ExternalIndex,
		Position:           pos,
		Coordinate:         coord,
	})
}
