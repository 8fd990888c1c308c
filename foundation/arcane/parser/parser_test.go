// File: parser_test.go
// Title: Unit Tests for ArcaneQuest Parser
// Description: Tests statement grammar, diagnostics, panic-mode recovery
//              and indentation handling of the recursive descent parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial parser tests

package parser

import (
	"strings"
	"testing"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
)

func parseSource(src string, opts Options) (*ast.Program, diag.List) {
	return New(opts).Parse(scanner.Tokenize(src))
}

func TestParser_Statements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "import",
			src:  "summon math, random\n",
			want: "(Program (Import (Module math) (Module random)))",
		},
		{
			name: "compound assignment",
			src:  "x += 1\n",
			want: "(Program (Assignment x (BinaryOp + (Identifier x) (Number 1))))",
		},
		{
			name: "output",
			src:  "attack(\"hi\", x)\n",
			want: `(Program (Output (String "hi") (Identifier x)))`,
		},
		{
			name: "input expression",
			src:  "name = scout(\"Name? \")\n",
			want: `(Program (Assignment name (Input (String "Name? "))))`,
		},
		{
			name: "input statement",
			src:  "scout(\"go\")\n",
			want: `(Program (Input (String "go")))`,
		},
		{
			name: "if elif else",
			src: "spot (x > 1):\n" +
				"    attack(x)\n" +
				"counter (x < 0):\n" +
				"    attack(0)\n" +
				"dodge:\n" +
				"    attack(1)\n",
			want: "(Program (If (BinaryOp > (Identifier x) (Number 1)) " +
				"(Block Then (Output (Identifier x))) " +
				"(Elif (BinaryOp < (Identifier x) (Number 0)) (Block Body (Output (Number 0)))) " +
				"(Block Else (Output (Number 1)))))",
		},
		{
			name: "while",
			src:  "replay (i < 3):\n    i += 1\n",
			want: "(Program (While (BinaryOp < (Identifier i) (Number 3)) " +
				"(Block Body (Assignment i (BinaryOp + (Identifier i) (Number 1))))))",
		},
		{
			name: "for",
			src:  "farm i in range(3):\n    attack(i)\n",
			want: "(Program (For i (Call (Identifier range) (Number 3)) (Block Body (Output (Identifier i)))))",
		},
		{
			name: "function",
			src:  "quest add(a, b):\n    reward a + b\n",
			want: "(Program (FunctionDef add (Param a) (Param b) " +
				"(Block Body (Return (BinaryOp + (Identifier a) (Identifier b))))))",
		},
		{
			name: "bare reward",
			src:  "quest f():\n    reward\n",
			want: "(Program (FunctionDef f (Block Body (Return))))",
		},
		{
			name: "negative reward",
			src:  "quest f():\n    reward -1\n",
			want: "(Program (FunctionDef f (Block Body (Return (UnaryOp - (Number 1))))))",
		},
		{
			name: "class",
			src:  "guild Hero:\n    hp = 10\n",
			want: "(Program (ClassDef Hero (Block Body (Assignment hp (Number 10)))))",
		},
		{
			name: "try",
			src: "embark:\n" +
				"    x = 1\n" +
				"gameOver ValueError:\n" +
				"    x = 2\n" +
				"savePoint:\n" +
				"    x = 3\n",
			want: "(Program (Try (Block TryBlock (Assignment x (Number 1))) " +
				"(Except ValueError (Block Body (Assignment x (Number 2)))) " +
				"(Block Finally (Assignment x (Number 3)))))",
		},
		{
			name: "match",
			src: "encounter (x):\n" +
				"    path (1):\n" +
				"        attack(\"one\")\n" +
				"    dodge:\n" +
				"        attack(\"other\")\n",
			want: `(Program (Match (Identifier x) ` +
				`(Case (Number 1) (Block Body (Output (String "one")))) ` +
				`(Block Default (Output (String "other")))))`,
		},
		{
			name: "loop control",
			src:  "replay (true):\n    skipEncounter\n    escapeDungeon\n",
			want: "(Program (While (Bool true) (Block Body (Continue) (Break))))",
		},
		{
			name: "comments",
			src:  "--> intro\nx = 1 --> trailing\n",
			want: "(Program (Comment intro) (Assignment x (Number 1)) (Comment trailing))",
		},
		{
			name: "call statement",
			src:  "greet(\"bob\")\n",
			want: `(Program (ExprStmt (Call (Identifier greet) (String "bob"))))`,
		},
		{
			name: "method call statement",
			src:  "hero.heal(5)\n",
			want: "(Program (ExprStmt (Call (Attribute heal (Identifier hero)) (Number 5))))",
		},
		{
			name: "cast statement",
			src:  "potion(\"5\")\n",
			want: `(Program (ExprStmt (Call (Identifier potion) (String "5"))))`,
		},
		{
			name: "nested blocks",
			src: "quest f(n):\n" +
				"    spot (n > 0):\n" +
				"        reward n\n" +
				"    reward 0\n",
			want: "(Program (FunctionDef f (Param n) (Block Body " +
				"(If (BinaryOp > (Identifier n) (Number 0)) (Block Then (Return (Identifier n)))) " +
				"(Return (Number 0)))))",
		},
		{
			name: "empty source",
			src:  "",
			want: "(Program)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, diags := parseSource(tt.src, Options{})
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags.Messages())
			}
			if got := ast.Shape(prog); got != tt.want {
				t.Errorf("Shape() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestParser_Lines(t *testing.T) {
	src := "x = 1\n\nspot (x > 0):\n    attack(x)\n"
	prog, diags := parseSource(src, Options{})
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Messages())
	}
	if len(prog.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Stmts))
	}
	if line := prog.Stmts[1].Line(); line != 3 {
		t.Errorf("if line = %d, want 3", line)
	}
	out := ast.Collect(prog, ast.KindOutput)
	if len(out) != 1 || out[0].Line() != 4 {
		t.Errorf("output nodes = %v, want one on line 4", out)
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		origin diag.Origin
		line   int
		msg    string
	}{
		{"dangling operator", "x = 5 +\n", diag.Syntax, 1, "Unexpected expression token: NEWLINE"},
		{"missing open paren", "spot x > 1:\n    attack(x)\n", diag.Syntax, 1, "Expected '(' before condition"},
		{"missing colon", "spot (x > 1)\n    attack(x)\n", diag.Syntax, 1, "Expected ':' after if header"},
		{"output without parens", "attack \"hi\"\n", diag.Syntax, 1, "Expected '(' after 'attack'"},
		{"function without name", "quest (a):\n    reward a\n", diag.Syntax, 1, "Expected function name"},
		{"unclosed paren", "x = (1 + 2\n", diag.Syntax, 1, "Expected ')' after parenthesized expression"},
		{"number at statement start", "5 = x\n", diag.Syntax, 1, "Unexpected token: NUMBER (5)"},
		{"try without handler", "embark:\n    x = 1\ny = 2\n", diag.Syntax, 1, "Expected 'gameOver' or 'savePoint' after embark block"},
		{"unexpected indent", "x = 1\n  y = 2\n", diag.Syntax, 2, "Unexpected indent"},
		{"bare datatype", "potion\n", diag.Syntax, 1, "Invalid statement: datatype 'potion' cannot stand alone"},
		{"bare identifier", "x\n", diag.Syntax, 1, "Invalid statement: bare identifier 'x' cannot stand alone"},
		{"import without module", "summon\n", diag.Syntax, 1, "Expected module name after 'summon'"},
		{"for without in", "farm i range(3):\n    attack(i)\n", diag.Syntax, 1, "Expected 'in' in for loop"},
		{"stray keyword", "counter (x):\n", diag.Syntax, 1, "Unexpected keyword 'counter'"},
		{"encounter without path", "encounter (x):\n    attack(x)\n", diag.Syntax, 2, "Expected 'path' or 'dodge' in encounter, got KEYWORD (attack)"},
		{"missing block", "spot (x > 1):\nattack(x)\n", diag.Syntax, 2, "Expected INDENT to start block"},
		{"lexical error", "x = 5 $\n", diag.Lexical, 1, "unrecognized character '$'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parseSource(tt.src, Options{})
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics %v, want 1", len(diags), diags.Messages())
			}
			d := diags[0]
			if d.Origin != tt.origin || d.Line != tt.line || d.Message != tt.msg {
				t.Errorf("diagnostic = %v, want line %d: [%s] %s", d, tt.line, tt.origin, tt.msg)
			}
		})
	}
}

func TestParser_PanicRecovery(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		statements int
		errors     []int // lines of the expected syntax diagnostics
	}{
		{
			name: "broken expression then valid lines",
			src: "x = 5 +\n" +
				"y = 1\n" +
				"attack(y)\n" +
				"quest f():\n" +
				"    reward 2\n",
			statements: 4,
			errors:     []int{1},
		},
		{
			name: "broken condition keeps the block",
			src: "spot (x > :\n" +
				"    attack(1)\n" +
				"y = 2\n",
			statements: 2,
			errors:     []int{1},
		},
		{
			name:       "one diagnostic per broken line",
			src:        "x = +\ny = *\nz = 1\n",
			statements: 3,
			errors:     []int{1, 2},
		},
		{
			name: "error inside a block",
			src: "quest f():\n" +
				"    a = (1 +\n" +
				"    reward a\n" +
				"attack(f())\n",
			statements: 2,
			errors:     []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, diags := parseSource(tt.src, Options{})
			syntax := diags.ByOrigin(diag.Syntax)
			if len(syntax) != len(tt.errors) {
				t.Fatalf("got %d syntax diagnostics %v, want %d", len(syntax), diags.Messages(), len(tt.errors))
			}
			for i, line := range tt.errors {
				if syntax[i].Line != line {
					t.Errorf("diagnostic %d on line %d, want %d", i, syntax[i].Line, line)
				}
			}
			if len(prog.Stmts) != tt.statements {
				t.Errorf("got %d statements, want %d\n%s", len(prog.Stmts), tt.statements, ast.Sprint(prog))
			}
		})
	}
}

func TestParser_SyncKeywords(t *testing.T) {
	src := "x = 5 + attack(1)\n"

	prog, diags := parseSource(src, Options{})
	if len(diags) != 1 {
		t.Fatalf("default: got %d diagnostics, want 1", len(diags))
	}
	if got := ast.Shape(prog); !strings.Contains(got, "(Output (Number 1))") {
		t.Errorf("default sync should resume at 'attack', got %s", got)
	}

	prog, diags = parseSource(src, Options{SyncKeywords: []string{}})
	if len(diags) != 1 {
		t.Fatalf("no keywords: got %d diagnostics, want 1", len(diags))
	}
	if len(prog.Stmts) != 1 {
		t.Errorf("without sync keywords the rest of the line is discarded, got %s", ast.Shape(prog))
	}
}

func TestParser_Indentation(t *testing.T) {
	body := []string{
		"quest f(n):",
		"|spot (n > 0):",
		"||reward n",
		"|dodge:",
		"||reward 0",
		"attack(f(1))",
	}
	render := func(unit string) string {
		var sb strings.Builder
		for _, line := range body {
			depth := strings.Count(line, "|")
			sb.WriteString(strings.Repeat(unit, depth))
			sb.WriteString(strings.TrimLeft(line, "|"))
			sb.WriteByte('\n')
		}
		return sb.String()
	}

	var shapes []string
	for _, unit := range []string{"  ", "    ", "\t"} {
		prog, diags := parseSource(render(unit), Options{})
		if len(diags) != 0 {
			t.Fatalf("unit %q: unexpected diagnostics %v", unit, diags.Messages())
		}
		shapes = append(shapes, ast.Shape(prog))
	}
	for i := 1; i < len(shapes); i++ {
		if shapes[i] != shapes[0] {
			t.Errorf("shape %d differs:\n  %s\n  %s", i, shapes[i], shapes[0])
		}
	}
}

func TestParser_Reuse(t *testing.T) {
	p := New(Options{})
	if _, diags := p.Parse(scanner.Tokenize("x = \n")); len(diags) != 1 {
		t.Fatalf("first parse: got %d diagnostics, want 1", len(diags))
	}
	prog, diags := p.Parse(scanner.Tokenize("x = 1\n"))
	if len(diags) != 0 {
		t.Errorf("second parse kept diagnostics: %v", diags.Messages())
	}
	if len(prog.Stmts) != 1 {
		t.Errorf("got %d statements, want 1", len(prog.Stmts))
	}
}

func TestParseExprStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    ExprStrategy
		wantErr bool
	}{
		{"", ExprCascade, false},
		{"cascade", ExprCascade, false},
		{"Climbing", ExprClimbing, false},
		{"precedence-climbing", ExprClimbing, false},
		{"pratt", ExprCascade, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseExprStrategy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExprStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseExprStrategy(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
