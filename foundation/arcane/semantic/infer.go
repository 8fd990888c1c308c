// File: infer.go
// Title: ArcaneQuest Type Inference
// Description: Expression typing and quest (function) return type
//              inference. A quest is typed once at its definition with
//              unknown parameters; each call site with concrete argument
//              types re-walks the body quietly in the definition's scope
//              chain to obtain a precise result type.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial inference implementation

package semantic

import (
	"strings"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
)

// infer returns the type of e and tags it. NoType means inference failed
// and the cause has been reported.
func (a *Analyzer) infer(e ast.Expr) ast.Type {
	switch e := e.(type) {
	case nil:
		return ast.NoType

	case *ast.Number:
		if strings.Contains(e.Text, ".") {
			return a.tag(e, ast.FloatType)
		}
		return a.tag(e, ast.IntType)

	case *ast.String:
		return a.tag(e, ast.StringType)

	case *ast.Bool:
		return a.tag(e, ast.BoolType)

	case *ast.Identifier:
		return a.identifier(e)

	case *ast.UnaryOp:
		return a.unary(e)

	case *ast.BinaryOp:
		left := a.infer(e.Left)
		right := a.infer(e.Right)
		if left == ast.NoType || right == ast.NoType {
			return ast.NoType
		}
		t, ok := Combine(left, right, e.Op, a.opts.Division)
		if !ok {
			a.errorf(e.Line(), "Type mismatch: cannot apply '%s' to %s and %s", e.Op, left, right)
			return ast.NoType
		}
		return a.tag(e, t)

	case *ast.Call:
		return a.call(e)

	case *ast.Attribute:
		// attributes are not tracked
		if a.infer(e.X) == ast.NoType {
			return ast.NoType
		}
		return a.tag(e, ast.UnknownType)

	case *ast.Input:
		a.infer(e.Prompt)
		return a.tag(e, ast.StringType)
	}

	// Empty placeholders were reported by the parser
	return ast.NoType
}

func (a *Analyzer) identifier(e *ast.Identifier) ast.Type {
	if t, ok := ast.TypeOfDatatype(e.Name); ok {
		return a.tag(e, t)
	}
	sym, ok := a.symbols.Lookup(e.Name)
	if !ok {
		a.errorf(e.Line(), "Undeclared variable '%s'", e.Name)
		a.tag(e, ast.UnknownType)
		return ast.NoType
	}
	return a.tag(e, sym.Type)
}

func (a *Analyzer) unary(e *ast.UnaryOp) ast.Type {
	t := a.infer(e.X)
	if t == ast.NoType {
		return ast.NoType
	}
	if t == ast.UnknownType {
		return a.tag(e, ast.UnknownType)
	}

	if e.Op == "not" {
		if t != ast.BoolType {
			a.errorf(e.Line(), "'not' operator requires boolean, got %s", t)
			return ast.NoType
		}
		return a.tag(e, ast.BoolType)
	}
	if !t.IsNumeric() {
		a.errorf(e.Line(), "Unary '%s' requires numeric type, got %s", e.Op, t)
		return ast.NoType
	}
	return a.tag(e, t)
}

func (a *Analyzer) call(e *ast.Call) ast.Type {
	id, ok := e.Callee.(*ast.Identifier)
	if !ok {
		// method calls and calls of call results
		callee := a.infer(e.Callee)
		a.arguments(e.Args)
		if callee == ast.NoType {
			return ast.NoType
		}
		return a.tag(e, ast.UnknownType)
	}

	if t, ok := ast.TypeOfDatatype(id.Name); ok {
		a.tag(id, t)
		a.arguments(e.Args)
		return a.tag(e, t)
	}

	sym, ok := a.symbols.Lookup(id.Name)
	if !ok {
		a.errorf(id.Line(), "Undeclared variable '%s'", id.Name)
		a.tag(id, ast.UnknownType)
		a.arguments(e.Args)
		return ast.NoType
	}
	a.tag(id, sym.Type)
	args := a.arguments(e.Args)

	switch {
	case sym.Def != nil:
		return a.tag(e, a.callQuest(sym, e, args))
	case sym.Type == ast.FunctionType:
		if sym.Result == ast.NoType {
			return a.tag(e, ast.UnknownType)
		}
		return a.tag(e, sym.Result)
	case sym.Type == ast.UnknownType, sym.Type == ast.ModuleType:
		return a.tag(e, ast.UnknownType)
	}
	a.errorf(e.Line(), "'%s' is not callable (%s)", id.Name, sym.Type)
	return ast.NoType
}

func (a *Analyzer) arguments(args []ast.Expr) []ast.Type {
	types := make([]ast.Type, len(args))
	for i, arg := range args {
		types[i] = a.infer(arg)
	}
	return types
}

// function is the inference state of one quest definition
type function struct {
	def  *ast.FunctionDef
	env  []scope // scope chain at the definition
	seed ast.Type

	memo   map[string]ast.Type
	active map[string]bool
}

// result is the seeded return type, unknown when the body has no typed
// reward
func (f *function) result() ast.Type {
	if f.seed == ast.NoType {
		return ast.UnknownType
	}
	return f.seed
}

func signature(args []ast.Type) string {
	parts := make([]string, len(args))
	for i, t := range args {
		parts[i] = t.String()
	}
	return strings.Join(parts, ",")
}

// defineFunction declares the quest and seeds its return type by walking
// the body with unknown parameters
func (a *Analyzer) defineFunction(s *ast.FunctionDef) {
	if s.Name != "" {
		sym := a.symbols.Declare(s.Name, ast.FunctionType, s.Line())
		sym.Def = s
		a.tag(s, ast.FunctionType)
	}
	if _, seen := a.funcs[s]; seen && a.quiet > 0 {
		return
	}

	fn := &function{
		def:    s,
		env:    a.symbols.snapshot(),
		memo:   make(map[string]ast.Type),
		active: make(map[string]bool),
	}
	a.funcs[s] = fn

	params := make([]ast.Type, len(s.Params))
	for i := range params {
		params[i] = ast.UnknownType
	}
	fn.seed = a.walkBody(s, params)
}

// callQuest types a call of a user-defined quest
func (a *Analyzer) callQuest(sym *Symbol, e *ast.Call, args []ast.Type) ast.Type {
	fn := a.funcs[sym.Def]
	if fn == nil {
		return ast.UnknownType
	}
	if want := len(fn.def.Params); want != len(args) {
		a.errorf(e.Line(), "Quest '%s' expects %d argument(s), got %d", sym.Name, want, len(args))
		return fn.result()
	}
	for _, t := range args {
		if !t.IsPrimitive() {
			return fn.result()
		}
	}
	return a.reinfer(fn, args)
}

// reinfer walks the quest body quietly with concrete parameter types.
// Results are memoised per signature; recursion falls back to the seed.
func (a *Analyzer) reinfer(fn *function, args []ast.Type) ast.Type {
	key := signature(args)
	if t, ok := fn.memo[key]; ok {
		return t
	}
	if fn.active[key] {
		return fn.result()
	}
	fn.active[key] = true
	defer delete(fn.active, key)

	saved := a.symbols.swap(fn.env)
	defer a.symbols.restore(saved)

	a.quiet++
	defer func() { a.quiet-- }()

	t := a.walkBody(fn.def, args)
	if t == ast.NoType {
		t = ast.UnknownType
	}
	fn.memo[key] = t
	return t
}

// walkBody analyzes a quest body in a fresh parameter scope and returns
// the type of its first typed reward, or NoType
func (a *Analyzer) walkBody(def *ast.FunctionDef, params []ast.Type) ast.Type {
	a.symbols.Push()
	defer a.symbols.Pop()

	for i, p := range def.Params {
		a.symbols.Declare(p.Name, params[i], p.Line())
		a.tag(p, params[i])
	}

	loopDepth := a.loopDepth
	a.loopDepth = 0
	a.funcDepth++
	frame := &returnFrame{}
	a.returns = append(a.returns, frame)
	defer func() {
		a.returns = a.returns[:len(a.returns)-1]
		a.funcDepth--
		a.loopDepth = loopDepth
	}()

	if def.Body != nil {
		a.statements(def.Body.Stmts)
	}
	return frame.typ
}
