// File: recovery.go
// Title: ArcaneQuest Statement Lists and Panic-Mode Recovery
// Description: Parses statement lists and indented blocks and implements
//              synchronization after syntax errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial recovery implementation

package parser

import (
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
)

// parseStatements appends statements to dst until EOF or DEDENT. dst is
// written as it grows so a recovered panic still leaves a partial tree.
func (p *Parser) parseStatements(dst *[]ast.Stmt) {
	stray := 0
	p.skipNewlines()

	for !p.match(scanner.EOF) {
		switch {
		case p.match(scanner.INDENT):
			// Statements under an unexpected indent stay in this list
			p.errorf(p.peek().Line, "Unexpected indent")
			p.advance()
			stray++
			continue
		case p.match(scanner.DEDENT):
			if stray == 0 {
				return
			}
			stray--
			p.advance()
			p.skipNewlines()
			continue
		}
		start := p.pos

		if stmt := p.parseStatement(); stmt != nil {
			*dst = append(*dst, stmt)
		}
		if p.panicking {
			p.synchronize()
		}
		// A statement that consumed nothing would loop forever
		if p.pos == start && !p.match(scanner.EOF) && !p.match(scanner.DEDENT) {
			p.skip()
		}

		p.skipNewlines()
	}
}

// synchronize discards tokens until a statement boundary: a NEWLINE
// (consumed), a synchronization keyword, a DEDENT or EOF (left in place).
func (p *Parser) synchronize() {
	for !p.match(scanner.EOF) {
		t := p.peek()
		switch {
		case t.Kind == scanner.NEWLINE:
			p.advance()
			return
		case t.Kind == scanner.KEYWORD && p.sync[t.Lexeme]:
			p.panicking = false
			return
		case t.Kind == scanner.DEDENT:
			p.panicking = false
			return
		}
		p.skip()
	}
	p.panicking = false
}

func (p *Parser) skipNewlines() {
	for p.match(scanner.NEWLINE) {
		p.advance()
	}
}

// parseBlock parses NEWLINE INDENT statements DEDENT. Comments between the
// header and the first indented statement become part of the block. A
// broken header line is discarded up to its NEWLINE; a missing INDENT
// yields an empty block and leaves the following lines to the caller.
func (p *Parser) parseBlock(label string, line int) *ast.Block {
	block := &ast.Block{Base: ast.At(line), Label: label}

	p.collectComments(&block.Stmts)
	if p.match(scanner.NEWLINE) {
		p.advance()
	} else {
		p.errorf(p.peek().Line, "Expected NEWLINE before block")
		p.skipRestOfLine()
	}
	for p.match(scanner.NEWLINE) || p.match(scanner.COMMENT) {
		if p.match(scanner.NEWLINE) {
			p.skip()
			continue
		}
		p.collectComments(&block.Stmts)
	}

	if !p.match(scanner.INDENT) {
		p.errorf(p.peek().Line, "Expected INDENT to start block")
		// already at a line boundary, nothing left to synchronize
		p.panicking = false
		return block
	}
	p.advance()

	p.parseStatements(&block.Stmts)

	if !p.match(scanner.DEDENT) {
		p.errorf(p.peek().Line, "Expected DEDENT after block")
	} else {
		p.advance()
	}
	return block
}

// skipRestOfLine discards tokens through the next NEWLINE without leaving
// panic mode. INDENT, DEDENT and EOF are left in place.
func (p *Parser) skipRestOfLine() {
	for {
		switch p.peek().Kind {
		case scanner.NEWLINE:
			p.skip()
			return
		case scanner.INDENT, scanner.DEDENT, scanner.EOF:
			return
		}
		p.skip()
	}
}

func (p *Parser) collectComments(dst *[]ast.Stmt) {
	for p.match(scanner.COMMENT) {
		t := p.peek()
		p.skip()
		*dst = append(*dst, &ast.Comment{Base: ast.At(t.Line), Text: t.Lexeme})
	}
}
