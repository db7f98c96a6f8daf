package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/spatial"
)

func TestApplyAddsTrackOffsetWhenNoRotation(t *testing.T) {
	offset := spatial.Position{X: 1, Y: 2}
	tc := multitrack.TransformContext{Mode: multitrack.Relative, TrackOffset: &offset}
	got := Apply(spatial.Position{X: 10}, tc, nil, spatial.Envelope{})
	assert.Equal(t, spatial.Position{X: 11, Y: 2}, got)
}

func TestApplyNoOffsetReturnsBaseClamped(t *testing.T) {
	got := Apply(spatial.Position{X: 5}, multitrack.TransformContext{}, nil, spatial.Envelope{})
	assert.Equal(t, spatial.Position{X: 5}, got)
}

func TestApplyRotatesOffsetForBarycentricRotationalModel(t *testing.T) {
	offset := spatial.Position{X: 1}
	tc := multitrack.TransformContext{Mode: multitrack.Barycentric, TrackOffset: &offset}
	rotation := func() (float64, models.Plane, bool) { return 3.14159265358979 / 2, models.PlaneXY, true }
	got := Apply(spatial.Position{}, tc, rotation, spatial.Envelope{})
	assert.InDelta(t, 0, got.X, 1e-6)
	assert.InDelta(t, 1, got.Y, 1e-6)
}

func TestApplyFallsBackToPlainOffsetWhenRotationNotOK(t *testing.T) {
	offset := spatial.Position{X: 1}
	tc := multitrack.TransformContext{Mode: multitrack.Barycentric, TrackOffset: &offset}
	rotation := func() (float64, models.Plane, bool) { return 0, models.PlaneXY, false }
	got := Apply(spatial.Position{}, tc, rotation, spatial.Envelope{})
	assert.Equal(t, offset, got)
}

func TestApplyClampsToEnvelope(t *testing.T) {
	env := spatial.Envelope{Enabled: true, Min: spatial.Position{X: -1}, Max: spatial.Position{X: 1}}
	got := Apply(spatial.Position{X: 50}, multitrack.TransformContext{}, nil, env)
	assert.Equal(t, 1.0, got.X)
}

func TestGetTrackTimeLoopWraps(t *testing.T) {
	got := GetTrackTime(9, 2, 10, true)
	assert.InDelta(t, 1, got, 1e-9)
}

func TestGetTrackTimeLoopWrapsNegative(t *testing.T) {
	got := GetTrackTime(0, -3, 10, true)
	assert.InDelta(t, 7, got, 1e-9)
}

func TestGetTrackTimeNoLoopClamps(t *testing.T) {
	assert.InDelta(t, 10, GetTrackTime(9, 5, 10, false), 1e-9)
	assert.InDelta(t, 0, GetTrackTime(0, -5, 10, false), 1e-9)
}

func TestGetTrackTimeZeroDurationPassesThrough(t *testing.T) {
	assert.InDelta(t, 4, GetTrackTime(1, 3, 0, true), 1e-9)
}
