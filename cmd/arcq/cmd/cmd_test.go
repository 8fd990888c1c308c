package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msto63/arcanequest/foundation/arcane"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
	"github.com/msto63/arcanequest/internal/chomsky/service"
	"github.com/msto63/arcanequest/internal/chomsky/store"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name  string
		token scanner.Token
		want  string
	}{
		{"lparen", scanner.Token{Kind: scanner.PUNCT, Lexeme: "("}, "lparen"},
		{"assign", scanner.Token{Kind: scanner.PUNCT, Lexeme: "="}, "assign"},
		{"power", scanner.Token{Kind: scanner.OPERATOR, Lexeme: "**"}, "power"},
		{"word operator", scanner.Token{Kind: scanner.OPERATOR, Lexeme: "and"}, "operator"},
		{"unary minus", scanner.Token{Kind: scanner.PUNCT, Lexeme: "-", Unary: true}, "unary_minus"},
		{"keyword", scanner.Token{Kind: scanner.KEYWORD, Lexeme: "quest"}, "keyword"},
		{"identifier", scanner.Token{Kind: scanner.IDENTIFIER, Lexeme: "hero"}, "identifier"},
		{"unknown", scanner.Token{Kind: scanner.UNKNOWN, Lexeme: "bad"}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.token); got != tt.want {
				t.Errorf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenLines(t *testing.T) {
	tokens := scanner.New(scanner.DefaultOptions()).Tokenize("x = 1\n")
	lines := tokenLines(tokens)

	want := []tokenLine{
		{Value: "x", Desc: "identifier", Line: 1},
		{Value: "=", Desc: "assign", Line: 1},
		{Value: "1", Desc: "number", Line: 1},
	}
	if len(lines) != len(want) {
		t.Fatalf("tokenLines() = %+v, want %+v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestReadSource(t *testing.T) {
	name, src, err := readSource(strings.NewReader("x = 1"), "-")
	if err != nil || name != "<stdin>" || src != "x = 1" {
		t.Errorf("readSource(-) = %q, %q, %v", name, src, err)
	}

	path := filepath.Join(t.TempDir(), "demo.aq")
	if err := os.WriteFile(path, []byte("attack(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	name, src, err = readSource(nil, path)
	if err != nil || name != path || src != "attack(1)" {
		t.Errorf("readSource(file) = %q, %q, %v", name, src, err)
	}

	_, _, err = readSource(nil, filepath.Join(t.TempDir(), "missing.aq"))
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("readSource(missing) error = %v, want %s", err, mdwerror.CodeNotFound)
	}
}

func TestWriteStructured(t *testing.T) {
	v := map[string]int{"tokens": 3}

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"json", `"tokens": 3`, false},
		{"yaml", "tokens: 3", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeStructured(&buf, tt.format, v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("writeStructured() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

// runArcq executes the root command with a throwaway configuration
func runArcq(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "arcq.toml")
	content := "[general]\nname = \"arcq-test\"\nlog_level = \"error\"\n\n[history]\npath = \"" +
		filepath.ToSlash(filepath.Join(dir, "history.db")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARCQ_CONFIG", cfgPath)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.aq")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckCommand(t *testing.T) {
	good := writeProgram(t, "x = 5\nattack(x)\n")
	bad := writeProgram(t, "attack(ghost)\n")

	out, err := runArcq(t, "check", "-o", "text", good)
	if err != nil {
		t.Fatalf("check(good) error = %v", err)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("check(good) output = %q", out)
	}

	out, err = runArcq(t, "check", "-o", "text", good, bad)
	if !errors.Is(err, errFindings) {
		t.Fatalf("check(bad) error = %v, want errFindings", err)
	}
	if !strings.Contains(out, "Undeclared variable 'ghost'") || !strings.Contains(out, "2 file(s) checked") {
		t.Errorf("check(bad) output = %q", out)
	}
}

func TestCheckCommand_JSON(t *testing.T) {
	bad := writeProgram(t, "x = 5 $\n")

	out, err := runArcq(t, "check", "-o", "json", bad)
	if !errors.Is(err, errFindings) {
		t.Fatalf("check error = %v, want errFindings", err)
	}

	var reports []service.AnalyzeResponse
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(reports) != 1 || reports[0].Valid || reports[0].Counts["lexical"] == 0 {
		t.Errorf("reports = %+v", reports)
	}
}

func TestTokensCommand_JSON(t *testing.T) {
	prog := writeProgram(t, "summon hero\n")

	out, err := runArcq(t, "tokens", "-o", "json", prog)
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	var tokens []service.TokenView
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(tokens) == 0 || tokens[0].Kind != "KEYWORD" || tokens[0].Lexeme != "summon" {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestRootCommand_BadOutput(t *testing.T) {
	prog := writeProgram(t, "x = 1\n")

	_, err := runArcq(t, "check", "-o", "xml", prog)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, mdwerror.CodeInvalidInput)
	}
}

// brokenStore accepts no writes
type brokenStore struct {
	*store.MemoryRunStore
}

func (brokenStore) Record(ctx context.Context, run *store.Run) error {
	return mdwerror.New("disk full").WithCode(mdwerror.CodeStorage)
}

func TestLocalAnalyzer_History(t *testing.T) {
	ctx := context.Background()
	engine := arcane.NewEngine(arcane.DefaultOptions())

	runs := store.NewMemoryRunStore()
	report, err := localAnalyzer(engine, runs)(ctx, "ok.aq", "x = 1\n")
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	recorded, err := runs.Query(ctx, store.RunFilter{})
	if err != nil || len(recorded) != 1 || recorded[0].ID != report.RunID {
		t.Errorf("recorded runs = %v, %v", recorded, err)
	}

	report, err = localAnalyzer(engine, brokenStore{store.NewMemoryRunStore()})(ctx, "bad.aq", "attack(ghost)\n")
	if err != nil {
		t.Fatalf("failed history write aborted the check: %v", err)
	}
	if report.Valid || report.Counts["semantic"] != 1 {
		t.Errorf("report = %+v", report)
	}
}
