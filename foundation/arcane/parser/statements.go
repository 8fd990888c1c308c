// File: statements.go
// Title: ArcaneQuest Statement Grammar
// Description: Statement dispatch and the sub-grammars for every statement
//              form: assignments, imports, output and input, conditionals,
//              loops, quests (functions), guilds (classes), try blocks,
//              encounters (match) and loop control.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial statement grammar

package parser

import (
	"github.com/msto63/arcanequest/foundation/arcane/ast"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
)

// compoundOps maps a compound assignment operator to its binary operator
var compoundOps = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"%=":  "%",
	"**=": "**",
	"//=": "//",
}

// parseStatement parses one statement. It returns nil for empty
// statements and after reporting an error.
func (p *Parser) parseStatement() ast.Stmt {
	t := p.peek()

	switch t.Kind {
	case scanner.COMMENT:
		p.advance()
		return &ast.Comment{Base: ast.At(t.Line), Text: t.Lexeme}

	case scanner.KEYWORD:
		return p.parseKeywordStatement(t)

	case scanner.DATATYPE:
		if p.peekAt(1).Is(scanner.PUNCT, "(") {
			if call, ok := p.parseExpression().(*ast.Call); ok {
				return &ast.ExprStmt{Base: ast.At(t.Line), X: call}
			}
			p.errorf(t.Line, "Invalid statement: datatype '%s' cannot stand alone", t.Lexeme)
			return nil
		}
		p.errorf(t.Line, "Invalid statement: datatype '%s' cannot stand alone", t.Lexeme)
		p.skip()
		return nil

	case scanner.IDENTIFIER:
		next := p.peekAt(1)
		switch {
		case next.Is(scanner.PUNCT, "="):
			return p.parseAssignment()
		case next.Kind == scanner.OPERATOR && compoundOps[next.Lexeme] != "":
			return p.parseCompoundAssignment()
		case next.Is(scanner.PUNCT, "(", "."):
			if call, ok := p.parseExpression().(*ast.Call); ok {
				return &ast.ExprStmt{Base: ast.At(t.Line), X: call}
			}
			p.errorf(t.Line, "Invalid statement: '%s' expression has no effect", t.Lexeme)
			return nil
		}
		p.errorf(t.Line, "Invalid statement: bare identifier '%s' cannot stand alone", t.Lexeme)
		p.skip()
		return nil

	case scanner.NEWLINE, scanner.EOF, scanner.DEDENT:
		return nil
	}

	p.errorf(t.Line, "Unexpected token: %s", describe(t))
	p.skip()
	return nil
}

func (p *Parser) parseKeywordStatement(t scanner.Token) ast.Stmt {
	switch t.Lexeme {
	case "summon":
		return p.parseImport()
	case "spot":
		return p.parseIf()
	case "replay":
		return p.parseWhile()
	case "farm":
		return p.parseFor()
	case "quest":
		return p.parseFunctionDef()
	case "guild":
		return p.parseClassDef()
	case "attack":
		return p.parseOutput()
	case "scout":
		return p.parseInput()
	case "embark":
		return p.parseTry()
	case "reward":
		return p.parseReturn()
	case "encounter":
		return p.parseMatch()
	case "skipEncounter":
		p.advance()
		return &ast.Continue{Base: ast.At(t.Line)}
	case "escapeDungeon":
		p.advance()
		return &ast.Break{Base: ast.At(t.Line)}
	}

	p.errorf(t.Line, "Unexpected keyword '%s'", t.Lexeme)
	p.skip()
	return nil
}

// summon a, b
func (p *Parser) parseImport() ast.Stmt {
	t := p.advance()
	node := &ast.Import{Base: ast.At(t.Line)}

	if !p.match(scanner.IDENTIFIER) {
		p.errorf(p.peek().Line, "Expected module name after 'summon'")
		return node
	}
	for {
		m := p.advance()
		node.Modules = append(node.Modules, &ast.Module{Base: ast.At(m.Line), Name: m.Lexeme})
		if !p.matchPunct(",") {
			return node
		}
		p.advance()
		if !p.match(scanner.IDENTIFIER) {
			p.errorf(p.peek().Line, "Expected module name after ',' in import")
			return node
		}
	}
}

// name = expr
func (p *Parser) parseAssignment() ast.Stmt {
	name := p.advance()
	p.advance() // '='
	return &ast.Assignment{
		Base:   ast.At(name.Line),
		Target: name.Lexeme,
		Expr:   p.parseExpression(),
	}
}

// name op= expr, desugared to name = name op expr
func (p *Parser) parseCompoundAssignment() ast.Stmt {
	name := p.advance()
	op := p.advance()
	rhs := p.parseExpression()

	return &ast.Assignment{
		Base:   ast.At(name.Line),
		Target: name.Lexeme,
		Expr: &ast.BinaryOp{
			Base:  ast.At(op.Line),
			Op:    compoundOps[op.Lexeme],
			Left:  &ast.Identifier{Base: ast.At(name.Line), Name: name.Lexeme},
			Right: rhs,
		},
	}
}

// attack(args)
func (p *Parser) parseOutput() ast.Stmt {
	t := p.advance()
	node := &ast.Output{Base: ast.At(t.Line)}

	if !p.expectPunct("(", "Expected '(' after 'attack'") {
		return node
	}
	if !p.matchPunct(")") {
		node.Args = p.parseArguments()
	}
	p.expectPunct(")", "Expected ')' after attack arguments")
	return node
}

// scout(prompt); also used as a primary expression
func (p *Parser) parseInput() *ast.Input {
	t := p.advance()
	node := &ast.Input{Base: ast.At(t.Line)}

	if !p.expectPunct("(", "Expected '(' after 'scout'") {
		return node
	}
	if !p.matchPunct(")") {
		node.Prompt = p.parseExpression()
	}
	p.expectPunct(")", "Expected ')' after 'scout' argument")
	return node
}

// parseCondition parses ( expr ). Without the opening parenthesis the
// closing one is optional so a single diagnostic is reported.
func (p *Parser) parseCondition() ast.Expr {
	opened := p.expectPunct("(", "Expected '(' before condition")
	cond := p.parseExpression()
	if opened {
		p.expectPunct(")", "Expected ')' after condition")
	} else if p.matchPunct(")") {
		p.advance()
	}
	return cond
}

// spot (cond): block [counter (cond): block]* [dodge: block]
func (p *Parser) parseIf() ast.Stmt {
	t := p.advance()
	node := &ast.If{Base: ast.At(t.Line)}

	node.Cond = p.parseCondition()
	p.expectPunct(":", "Expected ':' after if header")
	node.Then = p.parseBlock("Then", t.Line)

	for p.matchKeyword("counter") {
		c := p.advance()
		elif := &ast.Elif{Base: ast.At(c.Line)}
		elif.Cond = p.parseCondition()
		p.expectPunct(":", "Expected ':' after counter header")
		elif.Body = p.parseBlock("Body", c.Line)
		node.Elifs = append(node.Elifs, elif)
	}

	if p.matchKeyword("dodge") {
		d := p.advance()
		p.expectPunct(":", "Expected ':' after 'dodge'")
		node.Else = p.parseBlock("Else", d.Line)
	}
	return node
}

// replay (cond): block
func (p *Parser) parseWhile() ast.Stmt {
	t := p.advance()
	node := &ast.While{Base: ast.At(t.Line)}

	node.Cond = p.parseCondition()
	p.expectPunct(":", "Expected ':' after while header")
	node.Body = p.parseBlock("Body", t.Line)
	return node
}

// farm var in iter: block
func (p *Parser) parseFor() ast.Stmt {
	t := p.advance()
	node := &ast.For{Base: ast.At(t.Line)}

	if v, ok := p.expect(scanner.IDENTIFIER, "", "Expected loop variable"); ok {
		node.Var = v.Lexeme
	}
	if p.match(scanner.IDENTIFIER, "in") {
		p.advance()
	} else {
		p.errorf(p.peek().Line, "Expected 'in' in for loop")
	}
	node.Iter = p.parseExpression()
	p.expectPunct(":", "Expected ':' after for header")
	node.Body = p.parseBlock("Body", t.Line)
	return node
}

// quest name(params): block
func (p *Parser) parseFunctionDef() ast.Stmt {
	t := p.advance()
	node := &ast.FunctionDef{Base: ast.At(t.Line)}

	if name, ok := p.expect(scanner.IDENTIFIER, "", "Expected function name"); ok {
		node.Name = name.Lexeme
	}

	if p.expectPunct("(", "Expected '(' in function def") {
		if !p.matchPunct(")") {
			for {
				param, ok := p.expect(scanner.IDENTIFIER, "", "Expected parameter name")
				if !ok {
					break
				}
				node.Params = append(node.Params, &ast.Param{Base: ast.At(param.Line), Name: param.Lexeme})
				if !p.matchPunct(",") {
					break
				}
				p.advance()
			}
		}
		p.expectPunct(")", "Expected ')' after parameters")
	}

	p.expectPunct(":", "Expected ':' after function header")
	node.Body = p.parseBlock("Body", t.Line)
	return node
}

// guild Name: block
func (p *Parser) parseClassDef() ast.Stmt {
	t := p.advance()
	node := &ast.ClassDef{Base: ast.At(t.Line)}

	if name, ok := p.expect(scanner.IDENTIFIER, "", "Expected guild name"); ok {
		node.Name = name.Lexeme
	}
	p.expectPunct(":", "Expected ':' after guild header")
	node.Body = p.parseBlock("Body", t.Line)
	return node
}

// reward [expr]
func (p *Parser) parseReturn() ast.Stmt {
	t := p.advance()
	node := &ast.Return{Base: ast.At(t.Line)}

	switch p.peek().Kind {
	case scanner.NEWLINE, scanner.EOF, scanner.DEDENT, scanner.COMMENT:
		return node
	}
	node.Result = p.parseExpression()
	return node
}

// embark: block [gameOver [Name]: block]* [savePoint: block]
func (p *Parser) parseTry() ast.Stmt {
	t := p.advance()
	node := &ast.Try{Base: ast.At(t.Line)}

	p.expectPunct(":", "Expected ':' after embark")
	node.Body = p.parseBlock("TryBlock", t.Line)

	for p.matchKeyword("gameOver") {
		g := p.advance()
		handler := &ast.Except{Base: ast.At(g.Line)}
		if p.match(scanner.IDENTIFIER) {
			handler.Exception = p.advance().Lexeme
		}
		p.expectPunct(":", "Expected ':' after exception type")
		handler.Body = p.parseBlock("Body", g.Line)
		node.Handlers = append(node.Handlers, handler)
	}

	if p.matchKeyword("savePoint") {
		s := p.advance()
		p.expectPunct(":", "Expected ':' after savePoint")
		node.Finally = p.parseBlock("Finally", s.Line)
	}

	if len(node.Handlers) == 0 && node.Finally == nil {
		p.errorf(t.Line, "Expected 'gameOver' or 'savePoint' after embark block")
		// the block is complete, the next line is a fresh statement
		p.panicking = false
	}
	return node
}

// encounter (subject):
//
//	path (pattern): block
//	dodge: block
func (p *Parser) parseMatch() ast.Stmt {
	t := p.advance()
	node := &ast.Match{Base: ast.At(t.Line)}

	node.Subject = p.parseCondition()
	p.expectPunct(":", "Expected ':' after encounter header")

	if p.match(scanner.NEWLINE) {
		p.advance()
	} else {
		p.errorf(p.peek().Line, "Expected NEWLINE before block")
		p.skipRestOfLine()
	}
	p.skipTrivia()
	if !p.match(scanner.INDENT) {
		p.errorf(p.peek().Line, "Expected INDENT to start block")
		p.panicking = false
		return node
	}
	p.advance()

	for {
		p.skipTrivia()
		switch {
		case p.matchKeyword("path"):
			c := p.advance()
			arm := &ast.Case{Base: ast.At(c.Line)}
			arm.Pattern = p.parseCondition()
			p.expectPunct(":", "Expected ':' after path pattern")
			arm.Body = p.parseBlock("Body", c.Line)
			node.Cases = append(node.Cases, arm)
			continue

		case p.matchKeyword("dodge"):
			d := p.advance()
			p.expectPunct(":", "Expected ':' after 'dodge'")
			node.Default = p.parseBlock("Default", d.Line)
			continue

		case p.match(scanner.DEDENT), p.match(scanner.EOF):
		default:
			p.errorf(p.peek().Line, "Expected 'path' or 'dodge' in encounter, got %s", describe(p.peek()))
			p.skipToArm()
			continue
		}
		break
	}

	if len(node.Cases) == 0 {
		p.errorf(p.peek().Line, "Expected at least one 'path' arm in encounter")
	}
	if !p.match(scanner.DEDENT) {
		p.errorf(p.peek().Line, "Expected DEDENT after block")
	} else {
		p.advance()
	}
	return node
}

// skipTrivia skips blank lines and comments between match arms
func (p *Parser) skipTrivia() {
	for p.match(scanner.NEWLINE) || p.match(scanner.COMMENT) {
		p.skip()
	}
}

// skipToArm discards tokens up to the next arm keyword or the DEDENT that
// closes the arm list, stepping over nested blocks
func (p *Parser) skipToArm() {
	depth := 0
	for !p.match(scanner.EOF) {
		t := p.peek()
		switch {
		case t.Kind == scanner.INDENT:
			depth++
		case t.Kind == scanner.DEDENT:
			if depth == 0 {
				return
			}
			depth--
		case depth == 0 && t.Is(scanner.KEYWORD, "path", "dodge"):
			return
		}
		p.skip()
	}
}

func (p *Parser) parseArguments() []ast.Expr {
	var args []ast.Expr
	for {
		args = append(args, p.parseExpression())
		if !p.matchPunct(",") {
			return args
		}
		p.advance()
	}
}
