// File: arcane.go
// Title: ArcaneQuest Front-End Interface
// Description: Package-level entry points for the ArcaneQuest pipeline:
//              tokenizing source and turning tokens into a validated,
//              type-annotated syntax tree.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial front-end interface

package arcane

import (
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/diag"
	"github.com/msto63/arcanequest/foundation/arcane/parser"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/foundation/arcane/semantic"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

// Options configures every stage of the pipeline
type Options struct {
	// Scanner controls tab width and indentation validation
	Scanner scanner.Options

	// Parser selects the expression strategy and synchronization keywords.
	// Parser.Logger is ignored; Logger is used instead.
	Parser parser.Options

	// Semantic selects the division rule. Semantic.Logger is ignored.
	Semantic semantic.Options

	// Logger for pipeline diagnostics (optional, nil discards)
	Logger *logging.Logger
}

// DefaultOptions returns the default pipeline configuration
func DefaultOptions() Options {
	return Options{
		Scanner:  scanner.DefaultOptions(),
		Parser:   parser.Options{Expression: parser.ExprCascade},
		Semantic: semantic.Options{Division: semantic.DivisionAlwaysFloat},
	}
}

// Tokenize converts source into tokens with the default options. It never
// fails; malformed input yields UNKNOWN tokens.
func Tokenize(source string) []scanner.Token {
	return NewEngine(DefaultOptions()).Tokenize(source)
}

// Parse parses tokens and runs the semantic pass with the default options.
// The program is never nil; an empty list means the program is valid.
func Parse(tokens []scanner.Token) (*ast.Program, diag.List) {
	return NewEngine(DefaultOptions()).Parse(tokens)
}
