// File: types.go
// Title: ArcaneQuest Operator Typing Rules
// Description: Result types of binary operators over the value types,
//              including string concatenation and repetition, numeric
//              promotion and the configurable typing of true division.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial typing rules

package semantic

import (
	"fmt"
	"strings"

	"github.com/msto63/arcanequest/foundation/arcane/ast"
)

// DivisionRule selects the result type of the '/' operator on numerics
type DivisionRule int

const (
	// DivisionAlwaysFloat types every true division as elixir
	DivisionAlwaysFloat DivisionRule = iota
	// DivisionPromote types '/' like the other arithmetic operators
	DivisionPromote
)

// String returns the configuration name of the rule
func (r DivisionRule) String() string {
	if r == DivisionPromote {
		return "promote"
	}
	return "always-float"
}

// ParseDivisionRule converts a configuration value into a DivisionRule
func ParseDivisionRule(s string) (DivisionRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always-float", "float":
		return DivisionAlwaysFloat, nil
	case "promote":
		return DivisionPromote, nil
	}
	return DivisionAlwaysFloat, fmt.Errorf("unknown division rule %q", s)
}

var (
	arithmeticOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "//": true, "%": true, "**": true}
	orderingOps   = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
	equalityOps   = map[string]bool{"==": true, "!=": true}
	logicalOps    = map[string]bool{"and": true, "or": true}
)

// Combine returns the result type of left op right. ok is false when the
// operand types are incompatible with the operator.
func Combine(left, right ast.Type, op string, rule DivisionRule) (ast.Type, bool) {
	known := arithmeticOps[op] || orderingOps[op] || equalityOps[op] || logicalOps[op]
	if !known {
		return ast.NoType, false
	}
	if left == ast.UnknownType || right == ast.UnknownType {
		return ast.UnknownType, true
	}

	switch {
	case arithmeticOps[op]:
		if op == "+" && left == ast.StringType && right == ast.StringType {
			return ast.StringType, true
		}
		if op == "*" && (left == ast.StringType && right == ast.IntType || left == ast.IntType && right == ast.StringType) {
			return ast.StringType, true
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			break
		}
		if op == "/" && rule == DivisionAlwaysFloat {
			return ast.FloatType, true
		}
		if left == ast.FloatType || right == ast.FloatType {
			return ast.FloatType, true
		}
		return ast.IntType, true

	case orderingOps[op]:
		if left.IsNumeric() && right.IsNumeric() {
			return ast.BoolType, true
		}

	case equalityOps[op]:
		if left == right {
			return ast.BoolType, true
		}

	case logicalOps[op]:
		if left == ast.BoolType && right == ast.BoolType {
			return ast.BoolType, true
		}
	}
	return ast.NoType, false
}
