package multitrack

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// Track is the minimal view of a track the strategy needs: its stable id,
// its static position (used as both the relative-mode centre and the
// anchor for barycentric trackOffset computation).
type Track struct {
	ID       string
	Position spatial.Position
}

// TransformContext records how one track's effective position was derived,
// passed on to the transform pipeline, which is the only place offsets and
// rotations are actually applied.
type TransformContext struct {
	TrackID       string
	TrackIndex    int
	TotalTracks   int
	TrackOffset   *spatial.Position
	Isobarycenter *spatial.Position
	CustomCenter  *spatial.Position
	Mode          Mode
	Variant       Variant
}

// Assignment is everything the strategy produces for one track: the
// parameter map the model should see, the phase offset to add to the
// animation clock, and the transform context for the pipeline.
type Assignment struct {
	Params      any // the caller's models.Params, kept untyped here to avoid an import cycle with models
	PhaseOffset float64
	Transform   TransformContext
}

// CustomCenterSpec carries the optional radius for barycentric/custom;
// an absent radius defaults to DefaultCustomRadius.
type CustomCenterSpec struct {
	Center spatial.Position
	Radius *float64
}

// Plan computes the per-track strategy outputs for every track in
// allTracks, given the animation's mode/variant, its shared parameters, its
// optional per-track parameter overrides, its global phase offset, and (for
// barycentric/centered and barycentric/custom) the custom center. The
// LockedOffsets map is used to cache barycentric/isobarycentric offsets
// across calls within a single play session — the formation is locked once
// at play start, not recomputed from the live centroid on every tick
// (which would let drifting tracks warp the radius).
type Plan struct {
	Mode    Mode
	Variant Variant

	// SharedParams and PerTrackParams carry the caller's models.Params as
	// `any` to avoid an import cycle between this package and models.
	// PerTrackParams is only ever consulted in Relative mode; in barycentric
	// mode a single set of parameters drives one motion, so per-track
	// overrides never apply there.
	SharedParams      any
	PerTrackParams    map[string]any
	GlobalPhaseOffset float64
	CustomCenter      CustomCenterSpec

	// LockedOffsets holds the isobarycentric trackOffset computed once at
	// play start, keyed by track id. Pass an empty, non-nil map on the
	// first call and reuse the same map on subsequent calls so the
	// formation stays rigid for the lifetime of the PlayingAnimation.
	LockedOffsets map[string]spatial.Position
}

// DefaultCustomRadius is used when a barycentric/custom animation's
// customCenter carries no explicit radius.
const DefaultCustomRadius = 5.0

// AssignTrack computes the Assignment for one track within allTracks. index
// is track's position within allTracks (used for both trackIndex reporting
// and the golden-angle distribution and phase-offset multiplication).
func AssignTrack(p Plan, allTracks []Track, index int) Assignment {
	track := allTracks[index]
	n := len(allTracks)

	tc := TransformContext{
		TrackID: track.ID, TrackIndex: index, TotalTracks: n,
		Mode: p.Mode, Variant: p.Variant,
	}

	if p.Mode == Relative {
		params := p.SharedParams
		if override, ok := p.PerTrackParams[track.ID]; ok {
			params = override
		}
		offset := track.Position
		tc.TrackOffset = &offset
		return Assignment{
			Params:      params,
			PhaseOffset: float64(index) * p.GlobalPhaseOffset,
			Transform:   tc,
		}
	}

	// Barycentric: a single set of parameters drives one motion, so
	// PerTrackParams is never consulted below, for any variant.
	switch p.Variant {
	case Shared:
		center := p.CustomCenter.Center
		tc.CustomCenter = &center
		// trackOffset = (0,0,0); all tracks share parameters and motion.
		return Assignment{
			Params:      p.SharedParams,
			PhaseOffset: float64(index) * p.GlobalPhaseOffset,
			Transform:   tc,
		}

	case Isobarycentric:
		center := centroid(allTracks)
		tc.Isobarycenter = &center
		offset, ok := p.LockedOffsets[track.ID]
		if !ok {
			offset = track.Position.Sub(center)
			if p.LockedOffsets != nil {
				p.LockedOffsets[track.ID] = offset
			}
		}
		tc.TrackOffset = &offset
		// Rigid isobarycentric formations MUST carry zero phase offset, or
		// the formation breaks apart as tracks drift out of sync.
		return Assignment{Params: p.SharedParams, PhaseOffset: 0, Transform: tc}

	case Centered:
		center := p.CustomCenter.Center
		tc.CustomCenter = &center
		offset := track.Position.Sub(center)
		tc.TrackOffset = &offset
		return Assignment{
			Params:      p.SharedParams,
			PhaseOffset: float64(index) * p.GlobalPhaseOffset,
			Transform:   tc,
		}

	case Custom:
		center := p.CustomCenter.Center
		tc.CustomCenter = &center
		radius := DefaultCustomRadius
		if p.CustomCenter.Radius != nil {
			radius = *p.CustomCenter.Radius
		}
		if radius == 0 {
			return Assignment{
				Params:      p.SharedParams,
				PhaseOffset: float64(index) * p.GlobalPhaseOffset,
				Transform:   tc,
			}
		}
		offset := GoldenAngleOffset(index, n, radius)
		tc.TrackOffset = &offset
		return Assignment{
			Params:      p.SharedParams,
			PhaseOffset: float64(index) * p.GlobalPhaseOffset,
			Transform:   tc,
		}
	}

	// Unreachable for any (Mode, Variant) pair returned by MigrateMode or
	// AllModeVariants; fall back to relative semantics defensively.
	offset := track.Position
	tc.TrackOffset = &offset
	return Assignment{Params: p.SharedParams, PhaseOffset: float64(index) * p.GlobalPhaseOffset, Transform: tc}
}

// centroid is the arithmetic mean position across tracks.
func centroid(tracks []Track) spatial.Position {
	positions := make([]spatial.Position, len(tracks))
	for i, t := range tracks {
		positions[i] = t.Position
	}
	return spatial.Centroid(positions)
}

// GoldenAngleOffset distributes N points on a sphere of the given radius
// using the golden-angle arrangement. The mapping from (N, i) to offset is
// stable: the same index must always land on the same point on the sphere
// across ticks.
func GoldenAngleOffset(i, n int, radius float64) spatial.Position {
	if n <= 1 {
		return spatial.Position{Y: radius}
	}
	theta := float64(i) * (3 - math.Sqrt(5)) * math.Pi
	cosArg := 1 - 2*float64(i)/float64(n-1)
	if cosArg > 1 {
		cosArg = 1
	} else if cosArg < -1 {
		cosArg = -1
	}
	phi := math.Acos(cosArg)
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
	return spatial.Position{
		X: radius * sinPhi * cosTheta,
		Y: radius * cosPhi,
		Z: radius * sinPhi * sinTheta,
	}
}
