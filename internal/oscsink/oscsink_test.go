package oscsink

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
)

func TestToPolarOrigin(t *testing.T) {
	az, el, dist := ToPolar(spatial.Zero)
	assert.Zero(t, az)
	assert.Zero(t, el)
	assert.Zero(t, dist)
}

func TestToPolarAxes(t *testing.T) {
	// straight ahead on +Y is azimuth 0
	az, el, dist := ToPolar(spatial.Position{Y: 2})
	assert.InDelta(t, 0, az, 1e-9)
	assert.InDelta(t, 0, el, 1e-9)
	assert.InDelta(t, 2, dist, 1e-9)

	// +X is azimuth 90 degrees
	az, _, _ = ToPolar(spatial.Position{X: 1})
	assert.InDelta(t, 90, az, 1e-9)

	// straight up on +Z is elevation 90 degrees
	_, el, _ = ToPolar(spatial.Position{Z: 3})
	assert.InDelta(t, 90, el, 1e-9)
}

func TestDefaultAddress(t *testing.T) {
	assert.Equal(t, "/track/3/xyz", defaultAddress(3, store.CoordinateXYZ))
	assert.Equal(t, "/track/3/aed", defaultAddress(3, store.CoordinatePolar))
	assert.Equal(t, "/track/0/xyz", defaultAddress(0, store.CoordinateXYZ))
}

func TestSendNilClientIsNoop(t *testing.T) {
	s := &Sink{}
	assert.NotPanics(t, func() {
		s.Send(store.Batch{Messages: []store.Message{{TrackExternalIndex: 1}}})
	})
}

func TestSendEmptyBatchIsIdempotent(t *testing.T) {
	s := New("127.0.0.1", 1)
	assert.NotPanics(t, func() {
		s.Send(store.Batch{})
		s.Send(store.Batch{})
	})
}

func TestSendUsesCustomAddressFunc(t *testing.T) {
	var got []string
	s := New("127.0.0.1", 1, WithAddressFunc(func(idx int, coord store.CoordinateSystem) string {
		got = append(got, "custom")
		return "/custom"
	}))
	s.Send(store.Batch{Messages: []store.Message{{TrackExternalIndex: 0, Position: spatial.Position{X: 1}}}})
	assert.Equal(t, []string{"custom"}, got)
}

func TestToPolarIsFiniteForFiniteInput(t *testing.T) {
	az, el, dist := ToPolar(spatial.Position{X: 10, Y: -4, Z: 2})
	assert.False(t, math.IsNaN(az) || math.IsInf(az, 0))
	assert.False(t, math.IsNaN(el) || math.IsInf(el, 0))
	assert.False(t, math.IsNaN(dist) || math.IsInf(dist, 0))
}
