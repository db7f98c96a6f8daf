// Package memstore is a minimal in-memory implementation of
// store.ProjectStore, used by cmd/orbiter to exercise the transport without
// the real project layer, which lives outside this engine's scope. It is
// deliberately small: no persistence, no undo, just enough bookkeeping to
// drive Play/Pause/Stop end to end.
package memstore

import (
	"sync"

	"github.com/schollz/orbiter/internal/store"
)

// Store is a thread-safe in-memory ProjectStore + OSCInputFilter.
type Store struct {
	mu         sync.Mutex
	tracks     map[string]store.Track
	animations map[string]store.Animation
	trackOrder []string
	clears     int
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		tracks:     make(map[string]store.Track),
		animations: make(map[string]store.Animation),
	}
}

// AddTrack registers a track, preserving insertion order for AllTracks.
func (s *Store) AddTrack(t store.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tracks[t.ID]; !exists {
		s.trackOrder = append(s.trackOrder, t.ID)
	}
	s.tracks[t.ID] = t
}

// AddAnimation registers an animation definition.
func (s *Store) AddAnimation(a store.Animation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animations[a.ID] = a
}

func (s *Store) FindTrack(id string) (store.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	return t, ok
}

func (s *Store) FindAnimation(id string) (store.Animation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.animations[id]
	return a, ok
}

func (s *Store) UpdateTrack(id string, patch store.TrackPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[id]
	if !ok {
		return
	}
	if patch.Position != nil {
		t.Position = *patch.Position
	}
	if patch.InitialPosition != nil {
		t.InitialPosition = patch.InitialPosition
	}
	s.tracks[id] = t
}

func (s *Store) UpdateAnimation(id string, patch store.AnimationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.animations[id]
	if !ok {
		return
	}
	if patch.LockedTracks != nil {
		a.LockedTracks = patch.LockedTracks
	}
	s.animations[id] = a
}

func (s *Store) AllTracks() []store.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Track, 0, len(s.trackOrder))
	for _, id := range s.trackOrder {
		out = append(out, s.tracks[id])
	}
	return out
}

// ClearAnimatingTracks implements store.OSCInputFilter.
func (s *Store) ClearAnimatingTracks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
}

// ClearCount reports how many times ClearAnimatingTracks has been called,
// for tests that assert stop() notified the OSC input filter.
func (s *Store) ClearCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
