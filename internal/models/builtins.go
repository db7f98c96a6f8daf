package models

// Builtins returns a constructor for every model shipped with the
// animation engine, in registration order. NewBuiltinRegistry registers
// them all into a fresh Registry; callers that need to add dynamically
// defined models (see dynamic.go) can continue registering into the same
// Registry afterwards.
func Builtins() []func() Model {
	return []func() Model{
		NewLinear,
		NewCircular,
		NewElliptical,
		NewSpiral,
		NewHelix,
		NewLissajous,
		NewWave,
		NewBezier,
		NewCatmullRom,
		NewZigzag,
		NewOrbit,
		NewPerlinNoise,
		NewRoseCurve,
		NewEpicycloid,
		NewDoppler,
		NewCircularScan,
		NewZoom,
		NewPendulum,
		NewSpring,
		NewBounce,
		NewAttractRepel,
		NewRandom,
		NewFormation,
		NewKeyframe,
	}
}

// NewBuiltinRegistry constructs a Registry pre-populated with every builtin
// model. It panics on registration failure: a schema error in a builtin
// model is a programming bug, not a runtime condition callers should
// recover from.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, ctor := range Builtins() {
		if err := r.Register(ctor()); err != nil {
			panic("models: builtin registration failed: " + err.Error())
		}
	}
	return r
}
