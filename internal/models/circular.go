package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewCircular and NewElliptical share calculation: constant-angular-rate
// motion in a plane, optionally rotated in 3D about the centre. Both expose
// radiusX and radiusY with equal defaults and the same schema; they differ
// only in type identifier and display name. radiusY falls back to radiusX
// when it is absent from the parameters.

func NewCircular() Model   { return ellipseModel{circularBase("circular", "Circular")} }
func NewElliptical() Model { return ellipseModel{circularBase("elliptical", "Elliptical")} }

func circularBase(typ, name string) BaseModel {
	return BaseModel{
		Meta: Metadata{
			Type: typ, DisplayName: name, Version: "1.0.0",
			Category: "periodic", Tags: []string{"orbit", "rotation"},
			Description: "Constant angular-rate motion around a centre, optionally tilted in 3D.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "radiusX", Kind: KindScalar, Default: Scalar(1), Min: f(0), Max: f(1e6)},
			{Name: "radiusY", Kind: KindScalar, Default: Scalar(1), Min: f(0), Max: f(1e6)},
			{Name: "speed", Kind: KindScalar, Default: Scalar(0.25), Min: f(-1e3), Max: f(1e3), UIHint: "revolutions/sec"},
			{Name: "direction", Kind: KindScalar, Default: Scalar(1)}, // +1 ccw, -1 cw
			{Name: "rotationX", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
			{Name: "rotationY", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
			{Name: "rotationZ", Kind: KindScalar, Default: Scalar(0), Min: f(-360), Max: f(360)},
		},
	}
}

type ellipseModel struct{ BaseModel }

func (m ellipseModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center":    Pos(center),
		"radiusX":   Scalar(1),
		"radiusY":   Scalar(1),
		"speed":     Scalar(0.25),
		"direction": Scalar(1),
		"rotationX": Scalar(0),
		"rotationY": Scalar(0),
		"rotationZ": Scalar(0),
	}
}

// ellipseAngle returns the angle swept at time t, direction-adjusted.
func ellipseAngle(params Params, t float64) float64 {
	speed := params.Float("speed", 0.25)
	dir := params.Float("direction", 1)
	if dir < 0 {
		dir = -1
	} else {
		dir = 1
	}
	return dir * 2 * math.Pi * speed * t
}

func (m ellipseModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	rx := params.Float("radiusX", 1)
	ry := params.Float("radiusY", rx)
	angle := ellipseAngle(params, time)

	local := spatial.Position{X: rx * math.Cos(angle), Y: ry * math.Sin(angle)}
	local = spatial.RotateDegreesXYZ(local,
		params.Float("rotationX", 0), params.Float("rotationY", 0), params.Float("rotationZ", 0))
	return center.Add(local)
}

func (m ellipseModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m ellipseModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			center := params.Position("center", spatial.Zero)
			return []ControlPoint{{ID: "center", Position: center, Role: RoleControl, Transforms: []TransformMode{TransformTranslate}}}
		},
		RotationAngle: func(time, duration float64, params Params) (float64, Plane, bool) {
			return ellipseAngle(params, time), PlaneXY, true
		},
	}
}
