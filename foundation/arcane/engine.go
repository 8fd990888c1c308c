// File: engine.go
// Title: ArcaneQuest Pipeline Engine
// Description: Runs scanner, parser and semantic analyzer with one set of
//              options and collects the outcome of a run into a Result
//              carrying tokens, tree, diagnostics, counts and timing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial engine implementation

package arcane

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/parser"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/foundation/arcane/semantic"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// Engine runs the ArcaneQuest pipeline. An Engine holds no per-run state
// and is safe for concurrent use.
type Engine struct {
	options Options
	logger  *logging.Logger
}

// Result is the outcome of one pipeline run
type Result struct {
	// RunID uniquely identifies the run
	RunID string

	// Name is the caller supplied source name, usually a file path
	Name string

	Tokens      []scanner.Token
	Program     *ast.Program
	Diagnostics diag.List

	// Counts holds the number of diagnostics per origin
	Counts map[diag.Origin]int

	// Statements is the number of statements including nested ones
	Statements int

	Started  time.Time
	Duration time.Duration
}

// NewEngine creates an engine with the given options
func NewEngine(opts Options) *Engine {
	logger := opts.Logger.WithField("component", "arcane-engine")
	opts.Parser.Logger = opts.Logger
	opts.Semantic.Logger = opts.Logger

	return &Engine{
		options: opts,
		logger:  logger,
	}
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.options
}

// Tokenize converts source into tokens
func (e *Engine) Tokenize(source string) []scanner.Token {
	return scanner.New(e.options.Scanner).Tokenize(source)
}

// Parse builds the syntax tree for tokens and runs the semantic pass over
// it. Parse diagnostics precede semantic diagnostics.
func (e *Engine) Parse(tokens []scanner.Token) (*ast.Program, diag.List) {
	prog, diags := parser.New(e.options.Parser).Parse(tokens)
	diags = append(diags, semantic.New(e.options.Semantic).Analyze(prog)...)
	return prog, diags
}

// Analyze runs the complete pipeline over source
func (e *Engine) Analyze(name, source string) (result *Result) {
	result = &Result{
		RunID:   uuid.New().String(),
		Name:    name,
		Started: time.Now(),
	}

	e.logger.Debug("Analysis started", "run", result.RunID, "name", name, "bytes", len(source))

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Pipeline failure recovered", "run", result.RunID, "panic", fmt.Sprint(r))
			result.Diagnostics.Addf(diag.Internal, 0, "Internal error: %v", r)
		}
		if result.Program == nil {
			result.Program = &ast.Program{Base: ast.At(1)}
		}
		result.Counts = result.Diagnostics.Count()
		result.Duration = time.Since(result.Started)

		e.logger.Debug("Analysis completed",
			"run", result.RunID,
			"tokens", len(result.Tokens),
			"statements", result.Statements,
			"diagnostics", len(result.Diagnostics),
			"duration", result.Duration)
	}()

	result.Tokens = e.Tokenize(source)
	result.Program, result.Diagnostics = e.Parse(result.Tokens)
	result.Statements = ast.CountStatements(result.Program)
	return result
}

// Valid reports whether the run produced no diagnostics
func (r *Result) Valid() bool {
	return !r.Diagnostics.HasErrors()
}

// Err converts the diagnostics into a structured error. It returns nil for
// a valid program. The code follows the most severe origin present.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}

	code := mdwerror.CodeSemantic
	switch {
	case r.Counts[diag.Internal] > 0:
		code = mdwerror.CodeInternal
	case r.Counts[diag.Lexical] > 0:
		code = mdwerror.CodeLexical
	case r.Counts[diag.Syntax] > 0:
		code = mdwerror.CodeSyntax
	}

	first := r.Diagnostics[0]
	return mdwerror.Newf("%s: %d problem(s), first at line %d: %s",
		r.Name, len(r.Diagnostics), first.Line, first.Message).
		WithCode(code).
		WithOperation("arcane.analyze").
		WithRequestID(r.RunID).
		WithDetail("lexical", r.Counts[diag.Lexical]).
		WithDetail("syntax", r.Counts[diag.Syntax]).
		WithDetail("semantic", r.Counts[diag.Semantic]).
		WithDetail("internal", r.Counts[diag.Internal])
}
