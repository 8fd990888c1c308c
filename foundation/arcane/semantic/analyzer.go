// File: analyzer.go
// Title: ArcaneQuest Semantic Analyzer
// Description: Walks a finished syntax tree, resolves names through the
//              symbol table, infers value types and tags the nodes in
//              place. Problems are accumulated as semantic diagnostics;
//              analysis never stops early.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial analyzer implementation

package semantic

import (
	"fmt"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// Options configures the analyzer
type Options struct {
	Division DivisionRule
	Logger   *logging.Logger
}

// builtins are predeclared in the global scope with their call results
var builtins = map[string]ast.Type{
	"len":   ast.IntType,
	"range": ast.UnknownType,
}

// Analyzer holds the state of one analysis run. An Analyzer may be reused
// sequentially but not concurrently.
type Analyzer struct {
	opts   Options
	logger *logging.Logger

	symbols *SymbolTable
	diags   diag.List
	funcs   map[*ast.FunctionDef]*function

	// quiet > 0 during call-site re-inference: no diagnostics, no tagging
	quiet     int
	returns   []*returnFrame
	loopDepth int
	funcDepth int
}

// returnFrame collects the first typed reward of one quest body
type returnFrame struct {
	typ   ast.Type
	found bool
}

// New creates an analyzer with the given options
func New(opts Options) *Analyzer {
	return &Analyzer{
		opts:   opts,
		logger: opts.Logger.WithField("component", "arcane-semantic"),
	}
}

// Analyze runs a default analyzer over prog
func Analyze(prog *ast.Program) diag.List {
	return New(Options{}).Analyze(prog)
}

// Analyze checks prog and tags its nodes with inferred types. It returns
// the semantic diagnostics in emission order.
func (a *Analyzer) Analyze(prog *ast.Program) (diags diag.List) {
	a.reset()
	if prog == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Analyzer failure recovered", "panic", fmt.Sprint(r))
			a.diags.Addf(diag.Internal, prog.Line(), "Internal analyzer error: %v", r)
			diags = a.diags
		}
	}()

	a.statements(prog.Stmts)

	a.logger.Debug("Semantic analysis completed",
		"statements", len(prog.Stmts),
		"quests", len(a.funcs),
		"diagnostics", len(a.diags))

	return a.diags
}

func (a *Analyzer) reset() {
	a.symbols = NewSymbolTable()
	a.diags = nil
	a.funcs = make(map[*ast.FunctionDef]*function)
	a.quiet = 0
	a.returns = nil
	a.loopDepth = 0
	a.funcDepth = 0

	for name, result := range builtins {
		sym := a.symbols.Declare(name, ast.FunctionType, 0)
		sym.Result = result
	}
}

func (a *Analyzer) statements(stmts []ast.Stmt) {
	for _, s := range stmts {
		a.statement(s)
	}
}

func (a *Analyzer) statement(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Comment:

	case *ast.Import:
		for _, m := range s.Modules {
			a.symbols.Declare(m.Name, ast.ModuleType, m.Line())
			a.tag(m, ast.ModuleType)
		}

	case *ast.Assignment:
		t := a.infer(s.Expr)
		if t == ast.NoType {
			if _, placeholder := s.Expr.(*ast.Empty); !placeholder {
				a.errorf(s.Line(), "Cannot determine type for assignment to '%s'", s.Target)
			}
			t = ast.UnknownType
		} else {
			a.tag(s, t)
		}
		src := a.callable(s.Expr)
		sym := a.symbols.Declare(s.Target, t, s.Line())
		if src != nil && t == ast.FunctionType {
			sym.Def = src.Def
			sym.Result = src.Result
		}

	case *ast.ExprStmt:
		a.infer(s.X)

	case *ast.Output:
		for _, arg := range s.Args {
			a.infer(arg)
		}

	case *ast.Input:
		a.infer(s)

	case *ast.If:
		a.condition(s.Cond, s.Line(), "Condition must be boolean, got %s")
		a.block(s.Then)
		for _, e := range s.Elifs {
			a.condition(e.Cond, e.Line(), "Elif condition must be boolean, got %s")
			a.block(e.Body)
		}
		a.block(s.Else)

	case *ast.While:
		a.condition(s.Cond, s.Line(), "While condition must be boolean, got %s")
		a.loopDepth++
		a.block(s.Body)
		a.loopDepth--

	case *ast.For:
		a.forLoop(s)

	case *ast.FunctionDef:
		a.defineFunction(s)

	case *ast.ClassDef:
		if s.Name != "" {
			sym := a.symbols.Declare(s.Name, ast.FunctionType, s.Line())
			sym.Result = ast.UnknownType
			a.tag(s, ast.FunctionType)
		}
		a.block(s.Body)

	case *ast.Return:
		a.ret(s)

	case *ast.Try:
		a.block(s.Body)
		for _, h := range s.Handlers {
			a.block(h.Body)
		}
		a.block(s.Finally)

	case *ast.Match:
		a.match(s)

	case *ast.Continue:
		if a.loopDepth == 0 {
			a.errorf(s.Line(), "'skipEncounter' outside of a loop")
		}

	case *ast.Break:
		if a.loopDepth == 0 {
			a.errorf(s.Line(), "'escapeDungeon' outside of a loop")
		}
	}
}

// block analyzes b in its own scope
func (a *Analyzer) block(b *ast.Block) {
	if b == nil {
		return
	}
	a.symbols.Push()
	defer a.symbols.Pop()
	a.statements(b.Stmts)
}

// condition checks that cond is a fate. Unknown conditions are accepted
// and failed inference has already been reported.
func (a *Analyzer) condition(cond ast.Expr, line int, format string) {
	t := a.infer(cond)
	if t == ast.NoType || t == ast.UnknownType || t == ast.BoolType {
		return
	}
	a.errorf(line, format, t)
}

func (a *Analyzer) forLoop(s *ast.For) {
	iter := a.infer(s.Iter)

	a.symbols.Push()
	defer a.symbols.Pop()

	if s.Var != "" {
		a.symbols.Declare(s.Var, loopVarType(s.Iter, iter), s.Line())
	}
	a.loopDepth++
	defer func() { a.loopDepth-- }()
	if s.Body != nil {
		a.statements(s.Body.Stmts)
	}
}

// loopVarType types the loop variable: characters of a scroll are scrolls
// and range yields potions
func loopVarType(iter ast.Expr, t ast.Type) ast.Type {
	if t == ast.StringType {
		return ast.StringType
	}
	if call, ok := iter.(*ast.Call); ok {
		if id, ok := call.Callee.(*ast.Identifier); ok && id.Name == "range" {
			return ast.IntType
		}
	}
	return ast.UnknownType
}

func (a *Analyzer) ret(s *ast.Return) {
	if a.funcDepth == 0 {
		a.errorf(s.Line(), "'reward' outside of a quest")
	}
	if s.Result == nil {
		return
	}
	t := a.infer(s.Result)
	if t == ast.NoType {
		return
	}
	a.tag(s, t)
	if n := len(a.returns); n > 0 {
		if f := a.returns[n-1]; !f.found {
			f.typ, f.found = t, true
		}
	}
}

func (a *Analyzer) match(s *ast.Match) {
	subject := a.infer(s.Subject)
	for _, c := range s.Cases {
		pattern := a.infer(c.Pattern)
		if subject.IsPrimitive() && pattern.IsPrimitive() && subject != pattern {
			a.errorf(c.Line(), "Match pattern type %s does not match subject type %s", pattern, subject)
		}
		a.block(c.Body)
	}
	a.block(s.Default)
}

// callable returns the quest or built-in a plain name refers to
func (a *Analyzer) callable(expr ast.Expr) *Symbol {
	id, ok := expr.(*ast.Identifier)
	if !ok {
		return nil
	}
	if sym, ok := a.symbols.Lookup(id.Name); ok && sym.Type == ast.FunctionType {
		return sym
	}
	return nil
}

// tag records t on n unless re-inference is running or t is NoType
func (a *Analyzer) tag(n ast.Node, t ast.Type) ast.Type {
	if a.quiet == 0 && t != ast.NoType {
		n.SetType(t)
	}
	return t
}

func (a *Analyzer) errorf(line int, format string, args ...interface{}) {
	if a.quiet > 0 {
		return
	}
	a.diags.Addf(diag.Semantic, line, format, args...)
}
