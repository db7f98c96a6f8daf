package models

import "github.com/schollz/orbiter/internal/spatial"

// ValueKind tags the kind of value an animation parameter holds: scalar,
// boolean, discrete enumerant, Position, ordered sequence of Position, or
// an opaque pass-through for internal book-keeping fields.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindBool
	KindEnum
	KindPosition
	KindPositionSeq
	KindOpaque
)

// Value is the tagged union of possible parameter values. Only the field
// matching Kind is meaningful; the others are zero.
type Value struct {
	Kind        ValueKind
	Scalar      float64
	Bool        bool
	Enum        string
	Position    spatial.Position
	PositionSeq []spatial.Position
	Opaque      any
}

func Scalar(v float64) Value         { return Value{Kind: KindScalar, Scalar: v} }
func Bool(v bool) Value              { return Value{Kind: KindBool, Bool: v} }
func Enum(v string) Value            { return Value{Kind: KindEnum, Enum: v} }
func Pos(v spatial.Position) Value   { return Value{Kind: KindPosition, Position: v} }
func PosSeq(v []spatial.Position) Value {
	return Value{Kind: KindPositionSeq, PositionSeq: v}
}
func Opaque(v any) Value { return Value{Kind: KindOpaque, Opaque: v} }

// Params is a keyed mapping from parameter name to value.
// Unknown keys are never rejected by validation; they are preserved
// verbatim by every operation in this package.
type Params map[string]Value

// Clone returns a shallow copy of p, sufficient for handing a private
// parameter map to a model invocation.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Float reads a scalar parameter, falling back to def if absent or of the
// wrong kind. Models use this pervasively since calculate() must never fail.
func (p Params) Float(name string, def float64) float64 {
	if v, ok := p[name]; ok && v.Kind == KindScalar {
		return v.Scalar
	}
	return def
}

func (p Params) Int(name string, def int) int {
	if v, ok := p[name]; ok && v.Kind == KindScalar {
		return int(v.Scalar)
	}
	return def
}

func (p Params) Flag(name string, def bool) bool {
	if v, ok := p[name]; ok && v.Kind == KindBool {
		return v.Bool
	}
	return def
}

func (p Params) Str(name string, def string) string {
	if v, ok := p[name]; ok && v.Kind == KindEnum {
		return v.Enum
	}
	return def
}

func (p Params) Position(name string, def spatial.Position) spatial.Position {
	if v, ok := p[name]; ok && v.Kind == KindPosition {
		return v.Position
	}
	return def
}

func (p Params) PositionSeq(name string) []spatial.Position {
	if v, ok := p[name]; ok && v.Kind == KindPositionSeq {
		return v.PositionSeq
	}
	return nil
}

// Complexity is a declared performance hint; it documents cost, it does not
// enforce it.
type Complexity int

const (
	ComplexityConstant Complexity = iota
	ComplexityLinear
	ComplexityQuadratic
)

// ParameterDefinition describes one entry in a model's parameter schema.
type ParameterDefinition struct {
	Name        string
	Kind        ValueKind
	Default     Value
	Min, Max    *float64
	Step        *float64
	EnumValues  []string
	DependsOn   func(Params) bool // visibility predicate; nil means always visible
	UIHint      string
}

func f(v float64) *float64 { return &v }
