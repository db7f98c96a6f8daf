package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/orbiter/internal/orbiterr"
	"github.com/schollz/orbiter/internal/spatial"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DynamicSpec is the wire format for a JSON-defined model: registration
// payloads (loaded from a file, or posted over an admin endpoint) decode
// directly into this struct. Position components are small arithmetic
// expressions over t (time/duration, in [0,1]) and named parameters,
// evaluated by a sandboxed expression interpreter rather than Go's eval
// (there is none) or any embedded scripting runtime.
type DynamicSpec struct {
	Type        string                `json:"type"`
	DisplayName string                `json:"displayName"`
	Category    string                `json:"category"`
	Description string                `json:"description"`
	Parameters  []DynamicParam        `json:"parameters"`
	Expressions DynamicExpressionTrio `json:"expressions"`
}

// DynamicParam mirrors ParameterDefinition in a JSON-friendly shape (plain
// float64s instead of *float64, string kind names instead of ValueKind).
type DynamicParam struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"` // "scalar", "bool", "enum", "position"
	Default float64  `json:"default"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Enum    []string `json:"enumValues,omitempty"`
}

// DynamicExpressionTrio holds the x, y, z expression strings evaluated
// once per Calculate call.
type DynamicExpressionTrio struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// ParseDynamicSpec decodes and validates a JSON model definition. It
// compiles (but does not execute) each expression so malformed definitions
// fail at load time rather than mid-playback.
func ParseDynamicSpec(raw []byte) (DynamicSpec, error) {
	var spec DynamicSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return DynamicSpec{}, &orbiterr.ValidationError{Path: "dynamicSpec", Kind: "invalid_json", Message: err.Error()}
	}
	if spec.Type == "" {
		return DynamicSpec{}, &orbiterr.ValidationError{Path: "type", Kind: "required"}
	}
	for _, expr := range []string{spec.Expressions.X, spec.Expressions.Y, spec.Expressions.Z} {
		if expr == "" {
			continue
		}
		if _, err := compileExpr(expr); err != nil {
			return DynamicSpec{}, &orbiterr.ValidationError{Path: "expressions", Kind: "invalid_expression", Message: err.Error()}
		}
	}
	return spec, nil
}

// NewDynamicModel builds a Model from a parsed DynamicSpec. Calculate
// evaluates the compiled x/y/z expressions against an environment of t
// (normalized time) plus every declared parameter; GeneratePath resamples
// Calculate since dynamic models declare IsStateful: false (the expression
// language has no mutable state to carry across frames).
func NewDynamicModel(spec DynamicSpec) (Model, error) {
	schema := make([]ParameterDefinition, 0, len(spec.Parameters))
	for _, p := range spec.Parameters {
		pd := ParameterDefinition{Name: p.Name, Min: p.Min, Max: p.Max, EnumValues: p.Enum}
		switch p.Kind {
		case "bool":
			pd.Kind = KindBool
			pd.Default = Bool(p.Default != 0)
		case "enum":
			pd.Kind = KindEnum
			name := ""
			if len(p.Enum) > 0 {
				name = p.Enum[0]
			}
			pd.Default = Enum(name)
		case "position":
			pd.Kind = KindPosition
			pd.Default = Pos(spatial.Zero)
		default:
			pd.Kind = KindScalar
			pd.Default = Scalar(p.Default)
		}
		schema = append(schema, pd)
	}

	exprX, err := compileExpr(orDefault(spec.Expressions.X, "0"))
	if err != nil {
		return nil, err
	}
	exprY, err := compileExpr(orDefault(spec.Expressions.Y, "0"))
	if err != nil {
		return nil, err
	}
	exprZ, err := compileExpr(orDefault(spec.Expressions.Z, "0"))
	if err != nil {
		return nil, err
	}

	return dynamicModel{
		BaseModel: BaseModel{
			Meta: Metadata{
				Type: spec.Type, DisplayName: orDefault(spec.DisplayName, spec.Type),
				Category: orDefault(spec.Category, "custom"), Description: spec.Description,
				Complexity: ComplexityConstant, Tags: []string{"dynamic"},
			},
			Schema: schema,
		},
		exprX: exprX, exprY: exprY, exprZ: exprZ,
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

type dynamicModel struct {
	BaseModel
	exprX, exprY, exprZ exprNode
}

func (m dynamicModel) GetDefaultParameters(trackPosition *spatial.Position) Params {
	out := make(Params, len(m.Schema))
	for _, pd := range m.Schema {
		out[pd.Name] = pd.Default
	}
	if trackPosition != nil {
		if _, ok := out["center"]; !ok {
			out["center"] = Pos(*trackPosition)
		}
	}
	return out
}

func (m dynamicModel) Calculate(params Params, time, duration float64, ctx CalculationContext) spatial.Position {
	t := 0.0
	if duration > 0 {
		t = clamp01(time / duration)
	}
	env := dynamicEnv{t: t, params: params}
	return spatial.Position{
		X: m.exprX.eval(env),
		Y: m.exprY.eval(env),
		Z: m.exprZ.eval(env),
	}
}

func (m dynamicModel) GeneratePath(params Params, duration float64, resolution int) []spatial.Position {
	return samplePath(func(t float64) spatial.Position {
		return m.Calculate(params, t, duration, CalculationContext{Duration: duration})
	}, duration, resolution)
}

// --- sandboxed expression evaluator ---
//
// A tiny recursive-descent parser and evaluator for arithmetic expressions
// over +, -, *, /, unary -, parentheses, numeric literals, the variable t,
// named scalar parameters, and a fixed whitelist of math functions (sin,
// cos, tan, sqrt, abs, min, max, pow). There is no function-call escape
// hatch beyond that whitelist and no way to reach outside the expression's
// own environment, unlike Go's (nonexistent) eval or an embedded general
// scripting language.

type dynamicEnv struct {
	t      float64
	params Params
}

func (e dynamicEnv) lookup(name string) float64 {
	if name == "t" {
		return e.t
	}
	return e.params.Float(name, 0)
}

type exprNode interface {
	eval(env dynamicEnv) float64
}

type numNode float64

func (n numNode) eval(dynamicEnv) float64 { return float64(n) }

type varNode string

func (v varNode) eval(env dynamicEnv) float64 { return env.lookup(string(v)) }

type binNode struct {
	op   byte
	l, r exprNode
}

func (b binNode) eval(env dynamicEnv) float64 {
	l, r := b.l.eval(env), b.r.eval(env)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		if r == 0 {
			return 0
		}
		return l / r
	}
	return 0
}

type negNode struct{ n exprNode }

func (neg negNode) eval(env dynamicEnv) float64 { return -neg.n.eval(env) }

type callNode struct {
	fn   string
	args []exprNode
}

var dynamicFuncs = map[string]func(args []float64) float64{
	"sin":  func(a []float64) float64 { return math.Sin(arg(a, 0)) },
	"cos":  func(a []float64) float64 { return math.Cos(arg(a, 0)) },
	"tan":  func(a []float64) float64 { return math.Tan(arg(a, 0)) },
	"sqrt": func(a []float64) float64 { return math.Sqrt(arg(a, 0)) },
	"abs":  func(a []float64) float64 { return math.Abs(arg(a, 0)) },
	"pow":  func(a []float64) float64 { return math.Pow(arg(a, 0), arg(a, 1)) },
	"min":  func(a []float64) float64 { return math.Min(arg(a, 0), arg(a, 1)) },
	"max":  func(a []float64) float64 { return math.Max(arg(a, 0), arg(a, 1)) },
}

func arg(a []float64, i int) float64 {
	if i < len(a) {
		return a[i]
	}
	return 0
}

func (c callNode) eval(env dynamicEnv) float64 {
	fn, ok := dynamicFuncs[c.fn]
	if !ok {
		return 0
	}
	args := make([]float64, len(c.args))
	for i, a := range c.args {
		args[i] = a.eval(env)
	}
	return fn(args)
}

// compileExpr parses expr into an exprNode tree, rejecting anything outside
// the grammar (in particular, any identifier that is not a recognized
// function name is treated as a variable reference, never as code).
func compileExpr(expr string) (exprNode, error) {
	p := &exprParser{input: expr}
	p.skipSpace()
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input at %d in %q", p.pos, expr)
	}
	return node, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// parseExpr handles + and - at the lowest precedence.
func (p *exprParser) parseExpr() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peek()
		if c != '+' && c != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: c, l: left, r: right}
	}
}

// parseTerm handles * and /.
func (p *exprParser) parseTerm() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		c := p.peek()
		if c != '*' && c != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: c, l: left, r: right}
	}
}

func (p *exprParser) parseUnary() (exprNode, error) {
	p.skipSpace()
	if p.peek() == '-' {
		p.pos++
		n, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{n: n}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("expected ')' at %d", p.pos)
		}
		p.pos++
		return n, nil
	case isDigit(c) || c == '.':
		return p.parseNumber()
	case isAlpha(c):
		return p.parseIdent()
	default:
		return nil, fmt.Errorf("unexpected character %q at %d", c, p.pos)
	}
}

func (p *exprParser) parseNumber() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number at %d: %w", start, err)
	}
	return numNode(v), nil
}

func (p *exprParser) parseIdent() (exprNode, error) {
	start := p.pos
	for p.pos < len(p.input) && (isAlpha(p.input[p.pos]) || isDigit(p.input[p.pos])) {
		p.pos++
	}
	name := p.input[start:p.pos]
	p.skipSpace()
	if p.peek() == '(' {
		p.pos++
		var args []exprNode
		p.skipSpace()
		if p.peek() != ')' {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				p.skipSpace()
				if p.peek() == ',' {
					p.pos++
					continue
				}
				break
			}
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, fmt.Errorf("expected ')' after arguments to %s", name)
		}
		p.pos++
		if _, ok := dynamicFuncs[strings.ToLower(name)]; !ok {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		return callNode{fn: strings.ToLower(name), args: args}, nil
	}
	return varNode(name), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
