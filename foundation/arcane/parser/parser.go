// File: parser.go
// Title: ArcaneQuest Recursive Descent Parser
// Description: Parser state, token access primitives and the public entry
//              point. Builds a syntax tree from a token stream, accumulating
//              diagnostics instead of failing, and recovers from syntax
//              errors in panic mode so one malformed statement does not
//              hide the rest of the program.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strings"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// ExprStrategy selects the expression parsing algorithm
type ExprStrategy int

const (
	// ExprCascade uses one function per precedence level
	ExprCascade ExprStrategy = iota
	// ExprClimbing uses a single precedence-climbing loop
	ExprClimbing
)

// String returns the configuration name of the strategy
func (s ExprStrategy) String() string {
	if s == ExprClimbing {
		return "climbing"
	}
	return "cascade"
}

// ParseExprStrategy converts a configuration value into an ExprStrategy
func ParseExprStrategy(s string) (ExprStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cascade":
		return ExprCascade, nil
	case "climbing", "precedence-climbing":
		return ExprClimbing, nil
	}
	return ExprCascade, fmt.Errorf("unknown expression parser %q", s)
}

// Options configures parser behavior
type Options struct {
	Expression   ExprStrategy
	SyncKeywords []string // nil selects DefaultSyncKeywords
	Logger       *logging.Logger
}

// DefaultSyncKeywords are the statement-starting keywords at which panic
// mode stops discarding tokens
var DefaultSyncKeywords = []string{
	"summon", "spot", "replay", "farm", "quest", "guild", "attack",
	"scout", "embark", "reward", "encounter", "skipEncounter", "escapeDungeon",
}

// Parser holds the state of one parse. A Parser may be reused
// sequentially but not concurrently.
type Parser struct {
	opts   Options
	logger *logging.Logger
	sync   map[string]bool

	tokens    []scanner.Token
	pos       int
	panicking bool
	diags     diag.List
}

// New creates a parser with the given options
func New(opts Options) *Parser {
	keywords := opts.SyncKeywords
	if keywords == nil {
		keywords = DefaultSyncKeywords
	}
	sync := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		sync[k] = true
	}

	return &Parser{
		opts:   opts,
		logger: opts.Logger.WithField("component", "arcane-parser"),
		sync:   sync,
	}
}

// Parse parses tokens with the default options
func Parse(tokens []scanner.Token) (*ast.Program, diag.List) {
	return New(Options{}).Parse(tokens)
}

// Parse builds the syntax tree for tokens. The returned program is never
// nil; an empty diagnostic list means the input is syntactically valid.
// UNKNOWN tokens are reported as lexical diagnostics and skipped.
func (p *Parser) Parse(tokens []scanner.Token) (prog *ast.Program, diags diag.List) {
	p.reset(tokens)
	prog = &ast.Program{Base: ast.At(1)}

	defer func() {
		if r := recover(); r != nil {
			line := p.peek().Line
			p.logger.Error("Parser failure recovered", "panic", fmt.Sprint(r), "line", line)
			p.diags.Addf(diag.Internal, line, "Internal parser error: %v", r)
			diags = p.diags
		}
	}()

	for {
		p.parseStatements(&prog.Stmts)
		if p.match(scanner.EOF) {
			break
		}
		p.skip() // unmatched DEDENT at top level
	}

	p.logger.Debug("Parsing completed",
		"tokens", len(p.tokens),
		"statements", len(prog.Stmts),
		"diagnostics", len(p.diags))

	return prog, p.diags
}

func (p *Parser) reset(tokens []scanner.Token) {
	p.tokens = make([]scanner.Token, 0, len(tokens))
	p.pos = 0
	p.panicking = false
	p.diags = nil

	for _, t := range tokens {
		if t.Kind == scanner.UNKNOWN {
			p.diags.Add(diag.Lexical, t.Line, t.Lexeme)
			continue
		}
		p.tokens = append(p.tokens, t)
	}
}

// peek returns the current token; past the end an EOF is synthesized
func (p *Parser) peek() scanner.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) scanner.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	line := 1
	if len(p.tokens) > 0 {
		line = p.tokens[len(p.tokens)-1].Line
	}
	return scanner.Token{Kind: scanner.EOF, Line: line}
}

// advance consumes the current token and leaves panic mode
func (p *Parser) advance() scanner.Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	p.panicking = false
	return t
}

// skip consumes the current token on an error path; panic mode is kept
func (p *Parser) skip() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *Parser) match(kind scanner.Kind, lexemes ...string) bool {
	return p.peek().Is(kind, lexemes...)
}

func (p *Parser) matchPunct(lexemes ...string) bool {
	return p.match(scanner.PUNCT, lexemes...)
}

func (p *Parser) matchKeyword(lexemes ...string) bool {
	return p.match(scanner.KEYWORD, lexemes...)
}

// expect consumes a token of kind (and lexeme, when not empty) or records
// msg and enters panic mode without consuming
func (p *Parser) expect(kind scanner.Kind, lexeme, msg string) (scanner.Token, bool) {
	if lexeme == "" && p.match(kind) || lexeme != "" && p.match(kind, lexeme) {
		return p.advance(), true
	}
	p.errorf(p.peek().Line, "%s", msg)
	return p.peek(), false
}

func (p *Parser) expectPunct(lexeme, msg string) bool {
	_, ok := p.expect(scanner.PUNCT, lexeme, msg)
	return ok
}

// errorf records a syntax diagnostic and enters panic mode. While already
// in panic mode further diagnostics are suppressed.
func (p *Parser) errorf(line int, format string, args ...interface{}) {
	if p.panicking {
		return
	}
	p.diags.Addf(diag.Syntax, line, format, args...)
	p.panicking = true
}

func describe(t scanner.Token) string {
	return t.String()
}
