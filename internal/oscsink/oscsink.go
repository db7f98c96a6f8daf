// Package oscsink is the reference implementation of the OSC batch sink
// collaborator. The core only produces an ordered Batch and attaches a
// coordinate-system tag to each message; this package is the thing that
// actually talks go-osc to an external spatial-audio renderer, owning the
// one *osc.Client and building one osc.Message per outgoing event.
package oscsink

import (
	"log"
	"math"

	"github.com/hypebeast/go-osc/osc"

	"github.com/schollz/orbiter/internal/spatial"
	"github.com/schollz/orbiter/internal/store"
)

// Sink sends a flushed Batch to an external renderer over OSC, converting
// each message's position to the wire format its CoordinateSystem tag
// names. A nil *osc.Client (e.g. in tests) makes every Send a silent
// no-op.
type Sink struct {
	client  *osc.Client
	address func(trackExternalIndex int, coord store.CoordinateSystem) string
}

// Option configures a Sink beyond its client.
type Option func(*Sink)

// WithAddressFunc overrides the default per-track OSC address scheme
// (/track/<index>/xyz or /track/<index>/aed).
func WithAddressFunc(fn func(trackExternalIndex int, coord store.CoordinateSystem) string) Option {
	return func(s *Sink) { s.address = fn }
}

// New returns a Sink that sends to host:port over UDP.
func New(host string, port int, opts ...Option) *Sink {
	s := &Sink{client: osc.NewClient(host, port)}
	for _, opt := range opts {
		opt(s)
	}
	if s.address == nil {
		s.address = defaultAddress
	}
	return s
}

func defaultAddress(trackExternalIndex int, coord store.CoordinateSystem) string {
	if coord == store.CoordinatePolar {
		return "/track/" + itoa(trackExternalIndex) + "/aed"
	}
	return "/track/" + itoa(trackExternalIndex) + "/xyz"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Send implements store.OSCSink. It is idempotent under repeated flushes
// of an empty batch and never returns an error: a failed UDP write is
// logged, since the core treats delivery as best-effort.
func (s *Sink) Send(batch store.Batch) {
	if s.client == nil || len(batch.Messages) == 0 {
		return
	}
	for _, m := range batch.Messages {
		msg := osc.NewMessage(s.address(m.TrackExternalIndex, m.Coordinate))
		appendPosition(msg, m.Position, m.Coordinate)
		if err := s.client.Send(msg); err != nil {
			log.Printf("oscsink: error sending position for track %d: %v", m.TrackExternalIndex, err)
		}
	}
}

func appendPosition(msg *osc.Message, pos spatial.Position, coord store.CoordinateSystem) {
	if coord == store.CoordinatePolar {
		azimuth, elevation, distance := ToPolar(pos)
		msg.Append(float32(azimuth))
		msg.Append(float32(elevation))
		msg.Append(float32(distance))
		return
	}
	msg.Append(float32(pos.X))
	msg.Append(float32(pos.Y))
	msg.Append(float32(pos.Z))
}

// ToPolar converts a Cartesian position to (azimuth, elevation, distance):
// azimuth and elevation in degrees, distance in metres. Coordinate
// conversion belongs to the sink; the core only attaches the tag.
func ToPolar(p spatial.Position) (azimuthDeg, elevationDeg, distance float64) {
	distance = math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if distance == 0 {
		return 0, 0, 0
	}
	azimuthDeg = math.Atan2(p.X, p.Y) * 180 / math.Pi
	elevationDeg = math.Asin(clamp(p.Z/distance, -1, 1)) * 180 / math.Pi
	return azimuthDeg, elevationDeg, distance
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
