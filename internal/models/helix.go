package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewHelix returns the Helix model: circular motion whose axis runs from
// axisStart to axisEnd, with configurable pitch (distance travelled along
// the axis per revolution).
func NewHelix() Model {
	return helixModel{BaseModel{
		Meta: Metadata{
			Type: "helix", DisplayName: "Helix", Version: "1.0.0",
			Category: "periodic", Tags: []string{"helix", "spiral", "axis"},
			Description: "Circular motion travelling along an arbitrary 3D axis.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "axisStart", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "axisEnd", Kind: KindPosition, Default: Pos(spatial.Position{Z: 2})},
			{Name: "radius", Kind: KindScalar, Default: Scalar(1), Min: f(0), Max: f(1e6)},
			{Name: "pitch", Kind: KindScalar, Default: Scalar(0.5), UIHint: "axis travel per revolution"},
			{Name: "speed", Kind: KindScalar, Default: Scalar(0.25), UIHint: "revolutions/sec"},
			{Name: "direction", Kind: KindScalar, Default: Scalar(1)},
		},
	}}
}

type helixModel struct{ BaseModel }

func (m helixModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	if trackPosition != nil {
		start = *trackPosition
	}
	return Params{
		"axisStart": Pos(start), "axisEnd": Pos(start.Add(spatial.Position{Z: 2})),
		"radius": Scalar(1), "pitch": Scalar(0.5), "speed": Scalar(0.25), "direction": Scalar(1),
	}
}

// axisFrame builds an orthonormal basis (u, v) perpendicular to the axis
// direction so the helix's circular component can be expressed in the
// axis-local plane regardless of the axis's orientation in world space.
func axisFrame(axis spatial.Position) (u, v spatial.Position) {
	length := axis.Length()
	if length == 0 {
		return spatial.Position{X: 1}, spatial.Position{Y: 1}
	}
	dir := axis.Scale(1 / length)

	ref := spatial.Position{X: 1}
	if math.Abs(dir.X) > 0.9 {
		ref = spatial.Position{Y: 1}
	}
	// u = dir x ref, v = dir x u
	u = cross(dir, ref)
	ul := u.Length()
	if ul == 0 {
		u = spatial.Position{Y: 1}
	} else {
		u = u.Scale(1 / ul)
	}
	v = cross(dir, u)
	return u, v
}

func cross(a, b spatial.Position) spatial.Position {
	return spatial.Position{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (m helixModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	start := params.Position("axisStart", spatial.Zero)
	end := params.Position("axisEnd", start.Add(spatial.Position{Z: 2}))
	axis := end.Sub(start)
	radius := params.Float("radius", 1)
	pitch := params.Float("pitch", 0.5)
	speed := params.Float("speed", 0.25)
	dir := 1.0
	if params.Float("direction", 1) < 0 {
		dir = -1
	}

	revs := dir * speed * time
	angle := 2 * math.Pi * revs

	u, v := axisFrame(axis)
	dirNorm := axis
	if l := axis.Length(); l > 0 {
		dirNorm = axis.Scale(1 / l)
	}

	circular := u.Scale(radius * math.Cos(angle)).Add(v.Scale(radius * math.Sin(angle)))
	along := dirNorm.Scale(pitch * revs)
	return start.Add(circular).Add(along)
}

func (m helixModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}
