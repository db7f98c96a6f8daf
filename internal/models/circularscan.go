package models

import (
	"math"

	"github.com/schollz/orbiter/internal/spatial"
)

// NewCircularScan returns the Circular-Scan model: a radar-style sweep that
// oscillates between startAngle and endAngle at a fixed radius instead of
// completing a full revolution like Circular.
func NewCircularScan() Model {
	return circularScanModel{BaseModel{
		Meta: Metadata{
			Type: "circularscan", DisplayName: "Circular Scan", Version: "1.0.0",
			Category: "geometric", Tags: []string{"sweep", "radar"},
			Description: "Angular sweep back and forth between two bearings at a fixed radius.",
			Complexity:  ComplexityConstant,
		},
		Schema: []ParameterDefinition{
			{Name: "center", Kind: KindPosition, Default: Pos(spatial.Zero)},
			{Name: "radius", Kind: KindScalar, Default: Scalar(1), Min: f(0)},
			{Name: "startAngle", Kind: KindScalar, Default: Scalar(-45), UIHint: "degrees"},
			{Name: "endAngle", Kind: KindScalar, Default: Scalar(45), UIHint: "degrees"},
			{Name: "speed", Kind: KindScalar, Default: Scalar(1)},
		},
	}}
}

type circularScanModel struct{ BaseModel }

func (m circularScanModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	center := spatial.Zero
	if trackPosition != nil {
		center = *trackPosition
	}
	return Params{
		"center": Pos(center), "radius": Scalar(1), "startAngle": Scalar(-45),
		"endAngle": Scalar(45), "speed": Scalar(1),
	}
}

func (m circularScanModel) scanAngle(params Params, t float64) float64 {
	startDeg := params.Float("startAngle", -45)
	endDeg := params.Float("endAngle", 45)
	speed := params.Float("speed", 1)

	// Triangle wave in [0,1] that ping-pongs, then maps onto [startDeg, endDeg].
	phase := t * speed
	cycle := phase - floorf(phase/2)*2
	tri := cycle
	if tri > 1 {
		tri = 2 - tri
	}
	return startDeg + (endDeg-startDeg)*tri
}

func (m circularScanModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	center := params.Position("center", spatial.Zero)
	radius := params.Float("radius", 1)
	angleDeg := m.scanAngle(params, time)
	angle := angleDeg * math.Pi / 180
	local := spatial.Position{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)}
	return center.Add(local)
}

func (m circularScanModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

func (m circularScanModel) Visualization() Visualization {
	return Visualization{
		ControlPoints: func(params Params) []ControlPoint {
			return []ControlPoint{{ID: "center", Position: params.Position("center", spatial.Zero)}}
		},
		RotationAngle: func(time, duration float64, params Params) (float64, Plane, bool) {
			return m.scanAngle(params, time) * math.Pi / 180, PlaneXY, true
		},
	}
}
