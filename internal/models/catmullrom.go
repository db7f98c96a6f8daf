package models

import "github.com/schollz/orbiter/internal/spatial"

// NewCatmullRom returns the Catmull-Rom model: a uniform spline through an
// ordered list of control points, with endpoints handled by reflecting a
// virtual point past each end.
func NewCatmullRom() Model {
	return catmullRomModel{BaseModel{
		Meta: Metadata{
			Type: "catmullrom", DisplayName: "Catmull-Rom Spline", Version: "1.0.0",
			Category: "spline", Tags: []string{"curve", "spline"},
			Description: "Uniform Catmull-Rom spline through an ordered list of points.",
			Complexity:  ComplexityLinear,
		},
		Schema: []ParameterDefinition{
			{Name: "controlPoints", Kind: KindPositionSeq, Default: PosSeq([]spatial.Position{
				{X: 0}, {X: 1, Y: 1}, {X: 2, Y: -1}, {X: 3},
			})},
		},
	}}
}

type catmullRomModel struct{ BaseModel }

func (m catmullRomModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	start := spatial.Zero
	if trackPosition != nil {
		start = *trackPosition
	}
	pts := []spatial.Position{
		start, start.Add(spatial.Position{X: 1, Y: 1}), start.Add(spatial.Position{X: 2, Y: -1}), start.Add(spatial.Position{X: 3}),
	}
	return Params{"controlPoints": PosSeq(pts)}
}

// catmullRomPoint evaluates the spline at global parameter u, which ranges
// over [0, len(pts)-1]. Endpoints are extended with reflected virtual
// points so the first/last real segment still has four control points.
func catmullRomPoint(pts []spatial.Position, u float64) spatial.Position {
	n := len(pts)
	if n == 0 {
		return spatial.Zero
	}
	if n == 1 {
		return pts[0]
	}
	if u < 0 {
		u = 0
	}
	maxU := float64(n - 1)
	if u > maxU {
		u = maxU
	}

	seg := int(u)
	if seg >= n-1 {
		seg = n - 2
	}
	t := u - float64(seg)

	get := func(i int) spatial.Position {
		if i < 0 {
			return pts[0].Scale(2).Sub(pts[1])
		}
		if i >= n {
			return pts[n-1].Scale(2).Sub(pts[n-2])
		}
		return pts[i]
	}

	p0, p1, p2, p3 := get(seg-1), get(seg), get(seg+1), get(seg+2)
	t2 := t * t
	t3 := t2 * t

	blend := func(a, b, c, d float64) float64 {
		return 0.5 * ((2 * b) +
			(-a+c)*t +
			(2*a-5*b+4*c-d)*t2 +
			(-a+3*b-3*c+d)*t3)
	}
	return spatial.Position{
		X: blend(p0.X, p1.X, p2.X, p3.X),
		Y: blend(p0.Y, p1.Y, p2.Y, p3.Y),
		Z: blend(p0.Z, p1.Z, p2.Z, p3.Z),
	}
}

func (m catmullRomModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	pts := params.PositionSeq("controlPoints")
	if len(pts) == 0 {
		return spatial.Zero
	}
	progress := 0.0
	if duration > 0 {
		progress = clamp01(time / duration)
	}
	return catmullRomPoint(pts, progress*float64(len(pts)-1))
}

func (m catmullRomModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m catmullRomModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			pts := params.PositionSeq("controlPoints")
			out := make([]ControlPoint, len(pts))
			for i, p := range pts {
				idx := i
				role := RoleControl
				if i == 0 {
					role = RoleStart
				} else if i == len(pts)-1 {
					role = RoleEnd
				}
				out[i] = ControlPoint{ID: intID("point", i), Position: p, Role: role, Index: &idx, Transforms: []TransformMode{TransformTranslate}}
			}
			return out
		},
	}
}
