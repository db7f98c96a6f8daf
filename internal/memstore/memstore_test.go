package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
)

func TestAddAndFindTrack(t *testing.T) {
	s := New()
	s.AddTrack(store.Track{ID: "t1", Position: spatial.Position{X: 1}})

	tr, ok := s.FindTrack("t1")
	require.True(t, ok)
	assert.Equal(t, 1.0, tr.Position.X)

	_, ok = s.FindTrack("missing")
	assert.False(t, ok)
}

func TestUpdateTrackPosition(t *testing.T) {
	s := New()
	s.AddTrack(store.Track{ID: "t1"})
	pos := spatial.Position{X: 5, Y: 6, Z: 7}
	s.UpdateTrack("t1", store.TrackPatch{Position: &pos})

	tr, _ := s.FindTrack("t1")
	assert.Equal(t, pos, tr.Position)
}

func TestUpdateTrackUnknownIDIsNoop(t *testing.T) {
	s := New()
	pos := spatial.Position{X: 1}
	assert.NotPanics(t, func() {
		s.UpdateTrack("missing", store.TrackPatch{Position: &pos})
	})
}

func TestAllTracksPreservesInsertionOrder(t *testing.T) {
	s := New()
	s.AddTrack(store.Track{ID: "b"})
	s.AddTrack(store.Track{ID: "a"})
	s.AddTrack(store.Track{ID: "b"}) // re-adding doesn't reorder

	ids := make([]string, 0, 2)
	for _, tr := range s.AllTracks() {
		ids = append(ids, tr.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestClearAnimatingTracksCounts(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.ClearCount())
	s.ClearAnimatingTracks()
	s.ClearAnimatingTracks()
	assert.Equal(t, 2, s.ClearCount())
}

func TestFindAnimation(t *testing.T) {
	s := New()
	s.AddAnimation(store.Animation{ID: "a1", ModelType: "linear", Duration: 2})
	a, ok := s.FindAnimation("a1")
	require.True(t, ok)
	assert.Equal(t, "linear", a.ModelType)
}
