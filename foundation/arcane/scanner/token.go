// File: token.go
// Title: ArcaneQuest Token Definitions
// Description: Defines token kinds, the Token value type and the static
//              lexical tables (keywords, datatypes, operators, punctuation)
//              shared by the scanner and the parser.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial token definitions

package scanner

import "fmt"

// Kind is the lexical category of a token
type Kind int

const (
	EOF Kind = iota
	NEWLINE
	INDENT
	DEDENT
	COMMENT
	KEYWORD
	DATATYPE
	LITERAL // true, false
	IDENTIFIER
	NUMBER
	STRING
	OPERATOR
	PUNCT
	UNKNOWN
)

// String returns the upper-case name of the kind
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case COMMENT:
		return "COMMENT"
	case KEYWORD:
		return "KEYWORD"
	case DATATYPE:
		return "DATATYPE"
	case LITERAL:
		return "LITERAL"
	case IDENTIFIER:
		return "IDENTIFIER"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case OPERATOR:
		return "OPERATOR"
	case PUNCT:
		return "PUNCT"
	case UNKNOWN:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is an immutable lexical unit.
// For UNKNOWN tokens the lexeme is a diagnostic message.
type Token struct {
	Kind   Kind   // Lexical category
	Lexeme string // Source text or diagnostic message
	Line   int    // Line number (1-based)
	Column int    // Column number (0-based)
	Unary  bool   // Set for + - ! ~ in prefix position
}

// String returns a compact representation used in diagnostics
func (t Token) String() string {
	if t.Lexeme == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s (%s)", t.Kind, t.Lexeme)
}

// Is reports whether the token has the given kind and, when lexemes are
// given, one of those lexemes.
func (t Token) Is(kind Kind, lexemes ...string) bool {
	if t.Kind != kind {
		return false
	}
	if len(lexemes) == 0 {
		return true
	}
	for _, l := range lexemes {
		if t.Lexeme == l {
			return true
		}
	}
	return false
}

// Keywords maps each reserved word to its role
var Keywords = map[string]string{
	"summon":        "import",
	"quest":         "def",
	"reward":        "return",
	"attack":        "print",
	"scout":         "input",
	"spot":          "if",
	"counter":       "elif",
	"dodge":         "else",
	"replay":        "while",
	"farm":          "for",
	"guild":         "class",
	"embark":        "try",
	"gameOver":      "except",
	"savePoint":     "finally",
	"skipEncounter": "continue",
	"escapeDungeon": "break",
	"encounter":     "match",
	"path":          "case",
}

// Datatypes maps each type name to the primitive it denotes
var Datatypes = map[string]string{
	"potion": "int",
	"elixir": "float",
	"fate":   "bool",
	"scroll": "string",
}

// Literals are the boolean literal words
var Literals = map[string]bool{
	"true":  true,
	"false": false,
}

// WordOperators are the logical operators spelled as words
var WordOperators = map[string]bool{
	"and": true,
	"or":  true,
	"not": true,
}

// multiCharOps is ordered longest first
var multiCharOps = []string{
	"**=", "//=",
	"**", "//", "<=", ">=", "==", "!=", "+=", "-=", "*=", "/=", "%=",
}

const singleCharPunct = "(){}[]:,.+-*/%<>=!~"

// unaryCandidates are the characters whose role depends on the previous token
const unaryCandidates = "+-!~"

// unaryAfter lists the lexemes after which a candidate is unary
var unaryAfter = map[string]bool{
	"(": true, "[": true, "{": true, ",": true, ":": true, "=": true,
}

// CommentMarker starts a comment running to the end of the line
const CommentMarker = "-->"

// IsKeyword reports whether word is a reserved keyword
func IsKeyword(word string) bool {
	_, ok := Keywords[word]
	return ok
}

// IsDatatype reports whether word names a primitive type
func IsDatatype(word string) bool {
	_, ok := Datatypes[word]
	return ok
}
