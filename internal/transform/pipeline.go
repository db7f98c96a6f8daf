// Package transform implements the transform pipeline: the single point in
// the engine that turns a model's base position into the position actually
// written to a track and emitted over OSC.
package transform

import (
	"github.com/schollz/orbiter/internal/models"
	"github.com/schollz/orbiter/internal/multitrack"
	"github.com/schollz/orbiter/internal/spatial"
)

// RotationLookup reports whether a model is rotational (has a non-nil
// Visualization.RotationAngle) and, if so, the angle (radians) and plane
// for the current (time, duration, params). Callers pass a closure bound
// to the model+params already resolved by the caller.
type RotationLookup func() (angle float64, plane models.Plane, ok bool)

// Apply is the only place offsets and rotations are applied after a model
// returns: given the model's base position P and the track's
// TransformContext, it rotates or adds trackOffset as appropriate, then
// clamps to the world envelope.
//
//  1. Barycentric + rotational model: rotate the precomputed trackOffset by
//     the model's reported angle in its reported plane, then add to P.
//  2. Otherwise, if trackOffset is present, add it to P.
//  3. Clamp every coordinate to the world envelope. A non-finite coordinate
//     survives this step untouched; the transport, not this pipeline,
//     substitutes the last known good position and logs the anomaly.
func Apply(base spatial.Position, tc multitrack.TransformContext, rotation RotationLookup, envelope spatial.Envelope) spatial.Position {
	out := base

	switch {
	case tc.Mode == multitrack.Barycentric && tc.TrackOffset != nil && rotation != nil:
		if angle, plane, ok := rotation(); ok {
			rotated := rotateInPlane(*tc.TrackOffset, angle, plane)
			out = out.Add(rotated)
			break
		}
		out = out.Add(*tc.TrackOffset)
	case tc.TrackOffset != nil:
		out = out.Add(*tc.TrackOffset)
	}

	return spatial.Clamp(out, envelope)
}

func rotateInPlane(p spatial.Position, angleRadians float64, plane models.Plane) spatial.Position {
	switch plane {
	case models.PlaneXZ:
		return spatial.RotateXZ(p, angleRadians)
	case models.PlaneYZ:
		return spatial.RotateYZ(p, angleRadians)
	default:
		return spatial.RotateXY(p, angleRadians)
	}
}

// GetTrackTime is the single application point for per-track phase offset:
// animationTime plus the strategy-computed phase
// offset, wrapped into [0, duration) when the animation loops so a track
// whose offset pushes it past the end still samples a valid point on a
// looping model; non-looping animations clamp to [0, duration] instead.
func GetTrackTime(animationTime, phaseOffset, duration float64, loop bool) float64 {
	t := animationTime + phaseOffset
	if duration <= 0 {
		return t
	}
	if loop {
		t = wrap(t, duration)
		return t
	}
	if t < 0 {
		return 0
	}
	if t > duration {
		return duration
	}
	return t
}

func wrap(t, duration float64) float64 {
	if duration <= 0 {
		return t
	}
	m := t - duration*floorDiv(t, duration)
	if m < 0 {
		m += duration
	}
	return m
}

func floorDiv(a, b float64) float64 {
	q := a / b
	i := float64(int64(q))
	if q < 0 && i != q {
		i--
	}
	return i
}
