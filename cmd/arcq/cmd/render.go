package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

// readSource returns the display name and text of path. "-" reads stdin.
func readSource(in io.Reader, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", "", mdwerror.Wrap(err, "failed to read stdin").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("arcq.read")
		}
		return "<stdin>", string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", "", mdwerror.Wrap(err, "failed to read source").
			WithCode(code).
			WithOperation("arcq.read").
			WithDetail("path", path)
	}
	return path, string(data), nil
}

// writeStructured encodes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return mdwerror.Newf("unsupported output format %q", format).
		WithCode(mdwerror.CodeInvalidInput)
}

var punctNames = map[string]string{
	",": "comma", ":": "colon", "=": "assign", ".": "dot",
	"(": "lparen", ")": "rparen", "{": "lbrace", "}": "rbrace",
	"[": "lbracket", "]": "rbracket",
	"+": "plus", "-": "minus", "*": "star", "/": "slash", "%": "mod",
	"<": "lt", ">": "gt",
	"!": "not", "~": "bitwise_not",
}

var operatorNames = map[string]string{
	"+": "plus", "-": "minus",
	"<=": "lte", ">=": "gte", "==": "eq", "!=": "neq",
	"+=": "plus_assign", "-=": "minus_assign",
	"*=": "mult_assign", "/=": "div_assign", "%=": "mod_assign",
	"**": "power", "//": "floor_div",
	"**=": "power_assign", "//=": "floor_div_assign",
}

var unaryNames = map[string]string{
	"+": "unary_plus", "-": "unary_minus",
	"!": "unary_not", "~": "unary_bitwise_not",
}

// tokenLine is one row of the token table
type tokenLine struct {
	Value string
	Desc  string
	Line  int
}

// describe names a token for the token table
func describe(t scanner.Token) string {
	if t.Unary {
		if name, ok := unaryNames[t.Lexeme]; ok {
			return name
		}
	}
	switch t.Kind {
	case scanner.PUNCT:
		if name, ok := punctNames[t.Lexeme]; ok {
			return name
		}
		return "punct"
	case scanner.OPERATOR:
		if name, ok := operatorNames[t.Lexeme]; ok {
			return name
		}
		return "operator"
	}
	return strings.ToLower(t.Kind.String())
}

// tokenLines lays out the token table. NEWLINE and EOF are layout only.
func tokenLines(tokens []scanner.Token) []tokenLine {
	var lines []tokenLine
	for _, t := range tokens {
		switch t.Kind {
		case scanner.NEWLINE, scanner.EOF:
			continue
		case scanner.INDENT, scanner.DEDENT:
			value := t.Lexeme
			if value == "" {
				value = t.Kind.String()
			}
			lines = append(lines, tokenLine{Value: value, Desc: t.Kind.String(), Line: t.Line})
			continue
		}
		lines = append(lines, tokenLine{Value: t.Lexeme, Desc: describe(t), Line: t.Line})
	}
	return lines
}

func renderTokens(w io.Writer, tokens []scanner.Token) {
	lines := tokenLines(tokens)
	width := 0
	for _, l := range lines {
		if n := len(l.Value); n > width {
			width = n
		}
	}
	for _, l := range lines {
		fmt.Fprintf(w, "%s    → %s    %s\n",
			lexemeStyle.Render(l.Value+strings.Repeat(" ", width-len(l.Value))),
			descStyle.Render(l.Desc),
			mutedStyle.Render(fmt.Sprintf("(line %d)", l.Line)))
	}
}

func renderDiagnostics(w io.Writer, diags diag.List) {
	for _, d := range diags {
		origin := d.Origin.String()
		fmt.Fprintf(w, "  %s %s %s\n",
			mutedStyle.Render(fmt.Sprintf("line %d:", d.Line)),
			originStyle(origin).Render("["+origin+"]"),
			d.Message)
	}
}

// renderVerdict prints the one-line outcome of a run
func renderVerdict(w io.Writer, name string, counts map[string]int) {
	total := 0
	origins := make([]string, 0, len(counts))
	for origin, n := range counts {
		total += n
		if n > 0 {
			origins = append(origins, origin)
		}
	}
	if total == 0 {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("ok"), name)
		return
	}
	sort.Strings(origins)
	parts := make([]string, len(origins))
	for i, origin := range origins {
		parts[i] = originStyle(origin).Render(fmt.Sprintf("%d %s", counts[origin], origin))
	}
	fmt.Fprintf(w, "%s %s (%s)\n", errorStyle.Render("FAIL"), name, strings.Join(parts, ", "))
}
