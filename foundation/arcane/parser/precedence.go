// File: precedence.go
// Title: ArcaneQuest Precedence-Climbing Expression Parser
// Description: Table-driven alternative to the expression cascade. A single
//              loop consults a static precedence table; the resulting trees
//              are identical to the cascade's.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial precedence-climbing parser

package parser

import (
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
)

type precedence struct {
	level      int
	rightAssoc bool
}

// binaryPrecedence is ordered from loosest (1) to tightest binding
var binaryPrecedence = map[string]precedence{
	"or":  {level: 1},
	"and": {level: 2},
	"==":  {level: 3},
	"!=":  {level: 3},
	"<":   {level: 3},
	">":   {level: 3},
	"<=":  {level: 3},
	">=":  {level: 3},
	"+":   {level: 4},
	"-":   {level: 4},
	"*":   {level: 5},
	"/":   {level: 5},
	"//":  {level: 5},
	"%":   {level: 5},
	"**":  {level: 6, rightAssoc: true},
}

// Precedence returns the binding level of a binary operator, or 0
func Precedence(op string) int {
	return binaryPrecedence[op].level
}

func (p *Parser) parseClimbing(minLevel int) ast.Expr {
	left := p.parseUnaryClimbing()

	for !p.panicking {
		t := p.peek()
		if t.Kind != scanner.OPERATOR && t.Kind != scanner.PUNCT {
			return left
		}
		prec, ok := binaryPrecedence[t.Lexeme]
		if !ok || prec.level < minLevel {
			return left
		}
		op := p.advance()

		next := prec.level + 1
		if prec.rightAssoc {
			next = prec.level
		}
		left = binary(op, left, p.parseClimbing(next))
	}
	return left
}

func (p *Parser) parseUnaryClimbing() ast.Expr {
	if p.matchPrefix() {
		op := p.advance()
		return &ast.UnaryOp{Base: ast.At(op.Line), Op: op.Lexeme, X: p.parseUnaryClimbing()}
	}
	return p.parsePrimary()
}
