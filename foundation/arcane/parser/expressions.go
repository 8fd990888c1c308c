// File: expressions.go
// Title: ArcaneQuest Expression Grammar
// Description: Expression parsing as a cascade of precedence levels:
//              or, and, comparison, additive, multiplicative, exponent
//              (right associative), unary and primary with postfix
//              attribute access and calls.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial expression grammar

package parser

import (
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
)

// parseExpression parses a full expression with the configured strategy
func (p *Parser) parseExpression() ast.Expr {
	if p.opts.Expression == ExprClimbing {
		return p.parseClimbing(1)
	}
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.matchOp("or") {
		op := p.advance()
		left = binary(op, left, p.parseAnd())
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseComparison()
	for p.matchOp("and") {
		op := p.advance()
		left = binary(op, left, p.parseComparison())
	}
	return left
}

// comparison chains associate to the left: a < b < c is (a < b) < c
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	for p.matchOp("==", "!=", "<", ">", "<=", ">=") {
		op := p.advance()
		left = binary(op, left, p.parseAdditive())
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.matchOp("+", "-") {
		op := p.advance()
		left = binary(op, left, p.parseMultiplicative())
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseExponent()
	for p.matchOp("*", "/", "//", "%") {
		op := p.advance()
		left = binary(op, left, p.parseExponent())
	}
	return left
}

// 2 ** 3 ** 2 is 2 ** (3 ** 2)
func (p *Parser) parseExponent() ast.Expr {
	left := p.parseUnary()
	if p.matchOp("**") {
		op := p.advance()
		return binary(op, left, p.parseExponent())
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.matchPrefix() {
		op := p.advance()
		return &ast.UnaryOp{Base: ast.At(op.Line), Op: op.Lexeme, X: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.peek()

	switch t.Kind {
	case scanner.NUMBER:
		p.advance()
		return &ast.Number{Base: ast.At(t.Line), Text: t.Lexeme}

	case scanner.STRING:
		p.advance()
		return &ast.String{Base: ast.At(t.Line), Text: t.Lexeme}

	case scanner.LITERAL:
		p.advance()
		return &ast.Bool{Base: ast.At(t.Line), Val: t.Lexeme == "true"}

	case scanner.IDENTIFIER, scanner.DATATYPE:
		p.advance()
		return p.parsePostfix(&ast.Identifier{Base: ast.At(t.Line), Name: t.Lexeme})

	case scanner.KEYWORD:
		if t.Lexeme == "scout" {
			return p.parseInput()
		}

	case scanner.PUNCT:
		if t.Lexeme == "(" {
			p.advance()
			inner := p.parseExpression()
			p.expectPunct(")", "Expected ')' after parenthesized expression")
			return inner
		}
	}

	// The token is left for synchronization
	p.errorf(t.Line, "Unexpected expression token: %s", describe(t))
	return &ast.Empty{Base: ast.At(t.Line)}
}

// parsePostfix applies .name and (args) suffixes
func (p *Parser) parsePostfix(expr ast.Expr) ast.Expr {
	for {
		switch {
		case p.matchPunct("."):
			dot := p.advance()
			name, ok := p.expect(scanner.IDENTIFIER, "", "Expected identifier after '.'")
			if !ok {
				return expr
			}
			expr = &ast.Attribute{Base: ast.At(dot.Line), X: expr, Name: name.Lexeme}

		case p.matchPunct("("):
			lp := p.advance()
			call := &ast.Call{Base: ast.At(lp.Line), Callee: expr}
			if !p.matchPunct(")") {
				call.Args = p.parseArguments()
			}
			p.expectPunct(")", "Expected ')' after call arguments")
			expr = call

		default:
			return expr
		}
	}
}

// matchOp reports whether the current token is a binary operator with one
// of the given spellings. Operators are OPERATOR or PUNCT tokens depending
// on their spelling and position. No operator matches in panic mode so a
// broken operand ends the expression.
func (p *Parser) matchOp(lexemes ...string) bool {
	if p.panicking {
		return false
	}
	t := p.peek()
	if t.Kind != scanner.OPERATOR && t.Kind != scanner.PUNCT {
		return false
	}
	for _, l := range lexemes {
		if t.Lexeme == l {
			return true
		}
	}
	return false
}

// matchPrefix reports whether the current token starts a unary expression
func (p *Parser) matchPrefix() bool {
	return p.match(scanner.OPERATOR, "not", "+", "-")
}

func binary(op scanner.Token, left, right ast.Expr) ast.Expr {
	return &ast.BinaryOp{Base: ast.At(op.Line), Op: op.Lexeme, Left: left, Right: right}
}
