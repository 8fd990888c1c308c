// File: arcane_test.go
// Title: ArcaneQuest Front-End Tests
// Description: End-to-end tests of the pipeline through the package
//              functions and the Engine.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial pipeline tests

package arcane

import (
	"strings"
	"testing"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/parser"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/foundation/arcane/semantic"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

const treasure = `--> count the loot
coins = 3
bonus = 1.5
quest double(n):
    reward n * 2
total = double(coins) + bonus
spot (total > 4):
    attack("rich", total)
dodge:
    attack("poor")
farm c in "gold":
    attack(c)
`

func TestTokenize(t *testing.T) {
	tokens := Tokenize("x = 1\n")
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != scanner.EOF {
		t.Fatalf("token stream must end with EOF: %v", tokens)
	}
	if tokens[0].Kind != scanner.IDENTIFIER || tokens[0].Lexeme != "x" {
		t.Errorf("first token = %v", tokens[0])
	}
}

func TestParse_ValidProgram(t *testing.T) {
	prog, diags := Parse(Tokenize(treasure))
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags.Messages())
	}
	if prog == nil || len(prog.Stmts) != 7 {
		t.Fatalf("got %d top-level statements, want 7", len(prog.Stmts))
	}

	for _, n := range ast.Collect(prog, ast.KindAssignment) {
		a := n.(*ast.Assignment)
		if a.Target == "total" && a.Type() != ast.FloatType {
			t.Errorf("total type = %s, want elixir", a.Type())
		}
	}
}

func TestParse_SemanticOnly(t *testing.T) {
	_, diags := Parse(Tokenize(`attack("text" - 5)` + "\n"))

	counts := diags.Count()
	if counts[diag.Syntax] != 0 || counts[diag.Lexical] != 0 {
		t.Errorf("unexpected parse diagnostics: %v", diags)
	}
	if counts[diag.Semantic] != 1 {
		t.Fatalf("semantic diagnostics = %v, want exactly one", diags.ByOrigin(diag.Semantic))
	}
	if !strings.Contains(diags[0].Message, "Type mismatch") {
		t.Errorf("message = %q", diags[0].Message)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	prog, diags := Parse(Tokenize(""))
	if prog == nil || len(prog.Stmts) != 0 || len(diags) != 0 {
		t.Errorf("empty source: program %v, diagnostics %v", prog, diags)
	}
}

func TestEngine_Analyze(t *testing.T) {
	engine := NewEngine(DefaultOptions())

	r := engine.Analyze("treasure.aq", treasure)
	if !r.Valid() || r.Err() != nil {
		t.Fatalf("treasure should be valid: %v", r.Diagnostics)
	}
	if r.RunID == "" || r.Name != "treasure.aq" {
		t.Errorf("run metadata = %q %q", r.RunID, r.Name)
	}
	if r.Statements < 8 {
		t.Errorf("Statements = %d, want at least 8", r.Statements)
	}
	if len(r.Tokens) == 0 || r.Program == nil {
		t.Error("tokens and program must be set")
	}
	if r.Duration < 0 || r.Started.IsZero() {
		t.Errorf("timing = %v %v", r.Started, r.Duration)
	}

	again := engine.Analyze("treasure.aq", treasure)
	if again.RunID == r.RunID {
		t.Error("run IDs must be unique")
	}
}

func TestResult_Err(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   mdwerror.Code
	}{
		{"lexical", "x = 5 $\n", mdwerror.CodeLexical},
		{"syntax", "x = 1\n  y = 2\n", mdwerror.CodeSyntax},
		{"semantic", "attack(ghost)\n", mdwerror.CodeSemantic},
	}

	engine := NewEngine(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := engine.Analyze("case.aq", tt.source)
			err := r.Err()
			if err == nil {
				t.Fatal("Err() = nil, want an error")
			}
			if got := mdwerror.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, r.Diagnostics)
			}
			if !strings.HasPrefix(err.Error(), "case.aq: ") {
				t.Errorf("message = %q", err.Error())
			}
		})
	}
}

func TestEngine_Options(t *testing.T) {
	src := "x = 7 / 2\n"

	opts := DefaultOptions()
	opts.Semantic.Division = semantic.DivisionPromote
	opts.Parser.Expression = parser.ExprClimbing

	prog, diags := NewEngine(opts).Parse(Tokenize(src))
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v", diags)
	}
	if got := prog.Stmts[0].(*ast.Assignment).Type(); got != ast.IntType {
		t.Errorf("promote division type = %s, want potion", got)
	}

	prog, _ = Parse(Tokenize(src))
	if got := prog.Stmts[0].(*ast.Assignment).Type(); got != ast.FloatType {
		t.Errorf("default division type = %s, want elixir", got)
	}
}

func TestEngine_IndentOptions(t *testing.T) {
	src := "spot (true):\n\tattack(1)\n"

	opts := DefaultOptions()
	opts.Scanner.TabWidth = 8
	r := NewEngine(opts).Analyze("tabs.aq", src)
	if !r.Valid() {
		t.Errorf("diagnostics = %v", r.Diagnostics)
	}
	for _, tok := range r.Tokens {
		if tok.Kind == scanner.INDENT {
			if tok.Column != 8 {
				t.Errorf("INDENT column = %d, want 8", tok.Column)
			}
			return
		}
	}
	t.Error("no INDENT token")
}
