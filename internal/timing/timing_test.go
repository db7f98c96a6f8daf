package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIsFreshAndUnpaused(t *testing.T) {
	s := Create(1000)
	assert.Equal(t, int64(1000), s.StartEpoch)
	assert.False(t, s.IsPaused)
	assert.Equal(t, 0, s.LoopCount)
}

func TestPauseIsIdempotent(t *testing.T) {
	s := Create(0)
	once := Pause(s, 500)
	twice := Pause(once, 999)
	assert.Equal(t, once, twice)
}

func TestResumeAccumulatesPausedDuration(t *testing.T) {
	s := Create(0)
	s = Pause(s, 1000)
	s = Resume(s, 1500)
	assert.False(t, s.IsPaused)
	assert.Equal(t, int64(500), s.AccumulatedPausedDuration)
}

func TestResumeWhileNotPausedIsNoop(t *testing.T) {
	s := Create(0)
	assert.Equal(t, s, Resume(s, 5000))
}

func TestResetPreservesPauseButMovesEpoch(t *testing.T) {
	s := Create(0)
	s = Pause(s, 100)
	r := Reset(s, 9000)
	assert.Equal(t, int64(9000), r.StartEpoch)
	assert.True(t, r.IsPaused)
	assert.Equal(t, int64(100), r.PausedEpoch)
	assert.Equal(t, int64(0), r.AccumulatedPausedDuration)
}

func TestCalculateAnimationTimeMidSegment(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 10, PlaybackSpeed: 1}
	res := CalculateAnimationTime(5000, anim, s)
	assert.InDelta(t, 5, res.AnimationTime, 1e-9)
	assert.False(t, res.ShouldLoop)
	assert.False(t, res.ShouldStop)
}

func TestCalculateAnimationTimeNoLoopClampsAtEnd(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 10, PlaybackSpeed: 1}
	res := CalculateAnimationTime(20000, anim, s)
	assert.InDelta(t, 10, res.AnimationTime, 1e-9)
	assert.True(t, res.ShouldStop)
}

func TestCalculateAnimationTimeLoopsWithoutPingPong(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 10, PlaybackSpeed: 1, Loop: true}
	res := CalculateAnimationTime(25000, anim, s)
	assert.InDelta(t, 5, res.AnimationTime, 1e-9)
	assert.True(t, res.ShouldLoop)
	assert.Equal(t, 1, res.LoopCount)
}

func TestCalculateAnimationTimePingPongFlipsTwicePerTwoCycles(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 10, PlaybackSpeed: 1, Loop: true, PingPong: true}

	// First cycle: forward.
	forward := CalculateAnimationTime(5000, anim, s)
	assert.False(t, forward.IsReversed)

	// Second cycle [10,20): reversed.
	reversed := CalculateAnimationTime(15000, anim, s)
	assert.True(t, reversed.IsReversed)
	assert.InDelta(t, 5, reversed.AnimationTime, 1e-9)
	assert.Equal(t, 1, reversed.LoopCount)

	// Third cycle [20,30): forward again.
	forwardAgain := CalculateAnimationTime(25000, anim, s)
	assert.False(t, forwardAgain.IsReversed)
	assert.Equal(t, 2, forwardAgain.LoopCount)
}

func TestCalculateAnimationTimeWhilePausedFreezesTime(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 10, PlaybackSpeed: 1, Loop: true}
	s = Pause(s, 3000)

	first := CalculateAnimationTime(3000, anim, s)
	later := CalculateAnimationTime(9000, anim, s)
	require.Equal(t, first.AnimationTime, later.AnimationTime)
	assert.False(t, later.ShouldLoop)
	assert.False(t, later.ShouldStop)
	assert.Equal(t, s, later.NewState)
}

func TestCalculateAnimationTimeZeroDurationStops(t *testing.T) {
	s := Create(0)
	anim := AnimationParams{Duration: 0}
	res := CalculateAnimationTime(1000, anim, s)
	assert.Equal(t, 0.0, res.AnimationTime)
	assert.True(t, res.ShouldStop)
}

func TestCalculateAnimationTimeNonPositiveSpeedTreatedAsOne(t *testing.T) {
	s := Create(0)
	withZero := CalculateAnimationTime(5000, AnimationParams{Duration: 10, PlaybackSpeed: 0}, s)
	withOne := CalculateAnimationTime(5000, AnimationParams{Duration: 10, PlaybackSpeed: 1}, s)
	assert.Equal(t, withOne.AnimationTime, withZero.AnimationTime)
}
