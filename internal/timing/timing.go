// Package timing implements the per-animation timing state machine as pure
// functions over State, with no wall clock access and no I/O, so the
// transport's tick loop is the only thing that ever calls time.Now.
package timing

import "math"

// State is the only mutable timing datum per PlayingAnimation.
type State struct {
	StartEpoch                int64 // milliseconds
	AccumulatedPausedDuration int64 // milliseconds
	IsPaused                  bool
	PausedEpoch               int64 // milliseconds; meaningful only while IsPaused
	IsReversed                bool
	LoopCount                 int
}

// Create returns the initial TimingState for an animation starting now (in
// epoch milliseconds): not paused, not reversed, loopCount zero.
func Create(nowMs int64) State {
	return State{StartEpoch: nowMs}
}

// Pause records pausedEpoch = now. Idempotent: pausing an already-paused
// state leaves it unchanged.
func Pause(s State, nowMs int64) State {
	if s.IsPaused {
		return s
	}
	s.IsPaused = true
	s.PausedEpoch = nowMs
	return s
}

// Resume accumulates now-pausedEpoch into accumulatedPausedDuration and
// clears pausedEpoch. A no-op when not currently paused.
func Resume(s State, nowMs int64) State {
	if !s.IsPaused {
		return s
	}
	s.AccumulatedPausedDuration += nowMs - s.PausedEpoch
	s.IsPaused = false
	s.PausedEpoch = 0
	return s
}

// Reset returns a fresh timing state anchored at now, like Create, but
// preserves isPaused/pausedEpoch from s.
func Reset(s State, nowMs int64) State {
	fresh := Create(nowMs)
	fresh.IsPaused = s.IsPaused
	fresh.PausedEpoch = s.PausedEpoch
	return fresh
}

// AnimationParams is the subset of an Animation's configuration the timing
// calculation needs.
type AnimationParams struct {
	Duration      float64 // seconds
	PlaybackSpeed float64 // multiplier; <= 0 is treated as 1
	Loop          bool
	PingPong      bool
}

// Result is the output of CalculateAnimationTime.
type Result struct {
	AnimationTime float64
	NewState      State
	IsReversed    bool
	LoopCount     int
	ShouldLoop    bool
	ShouldStop    bool
}

// CalculateAnimationTime advances an animation clock: it maps wall time
// onto the animation's local time, detecting loop boundaries, flipping
// direction for ping-pong, and reporting when a non-looping animation
// should stop. now is in epoch milliseconds; the returned AnimationTime is
// in seconds.
func CalculateAnimationTime(nowMs int64, anim AnimationParams, s State) Result {
	if s.IsPaused {
		// Caller skips processing; animationTime is recomputed as of the
		// pause epoch so it stays stable while paused.
		frozen := CalculateAnimationTime(s.PausedEpoch, anim, State{
			StartEpoch:                s.StartEpoch,
			AccumulatedPausedDuration: s.AccumulatedPausedDuration,
			IsReversed:                s.IsReversed,
			LoopCount:                 s.LoopCount,
		})
		frozen.NewState = s
		frozen.ShouldStop = false
		frozen.ShouldLoop = false
		return frozen
	}

	speed := anim.PlaybackSpeed
	if speed <= 0 {
		speed = 1
	}
	duration := anim.Duration

	elapsedMs := nowMs - s.StartEpoch - s.AccumulatedPausedDuration
	raw := (float64(elapsedMs) / 1000) * speed

	if duration <= 0 {
		return Result{AnimationTime: 0, NewState: s, IsReversed: s.IsReversed, LoopCount: s.LoopCount, ShouldStop: true}
	}

	if raw < duration {
		rawInLoop := raw
		animTime := rawInLoop
		if s.IsReversed {
			animTime = duration - rawInLoop
		}
		return Result{AnimationTime: animTime, NewState: s, IsReversed: s.IsReversed, LoopCount: s.LoopCount}
	}

	if !anim.Loop {
		animTime := duration
		if s.IsReversed {
			animTime = 0
		}
		return Result{AnimationTime: animTime, NewState: s, IsReversed: s.IsReversed, LoopCount: s.LoopCount, ShouldStop: true}
	}

	if !anim.PingPong {
		rawInLoop := mod(raw, duration)
		newState := s
		newState.LoopCount++
		return Result{
			AnimationTime: rawInLoop, NewState: newState,
			IsReversed: s.IsReversed, LoopCount: newState.LoopCount, ShouldLoop: true,
		}
	}

	// Ping-pong direction is an absolute function of total cycles elapsed
	// since startEpoch (an odd cycle count means reversed), not of the
	// previous tick's stored direction, so this stays correct no matter how
	// often or how unevenly it's polled.
	cyclesElapsed := int(raw/duration + 1e-9)
	reversed := cyclesElapsed%2 == 1
	rawInLoop := mod(raw, duration)
	animTime := rawInLoop
	if reversed {
		animTime = duration - rawInLoop
	}
	newState := s
	crossedBoundary := reversed != s.IsReversed
	newState.IsReversed = reversed
	newState.LoopCount = cyclesElapsed
	return Result{
		AnimationTime: animTime, NewState: newState,
		IsReversed: newState.IsReversed, LoopCount: newState.LoopCount, ShouldLoop: crossedBoundary,
	}
}

func mod(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
