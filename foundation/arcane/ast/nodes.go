// File: nodes.go
// Title: ArcaneQuest Syntax Tree Nodes
// Description: Defines the closed set of syntax tree node types produced by
//              the parser. Every node records its source line and carries a
//              type tag that the semantic pass fills in. Statement and
//              expression nodes are distinguished by marker methods so that
//              type switches over them stay exhaustive.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial node definitions

package ast

import "fmt"

// NodeKind identifies the concrete node type
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindComment
	KindImport
	KindModule
	KindAssignment
	KindExprStmt
	KindOutput
	KindInput
	KindIf
	KindElif
	KindWhile
	KindFor
	KindFunctionDef
	KindParam
	KindClassDef
	KindReturn
	KindTry
	KindExcept
	KindMatch
	KindCase
	KindContinue
	KindBreak
	KindBlock
	KindBinaryOp
	KindUnaryOp
	KindIdentifier
	KindNumber
	KindString
	KindBool
	KindCall
	KindAttribute
	KindEmpty
)

var kindNames = [...]string{
	KindProgram:     "Program",
	KindComment:     "Comment",
	KindImport:      "Import",
	KindModule:      "Module",
	KindAssignment:  "Assignment",
	KindExprStmt:    "ExprStmt",
	KindOutput:      "Output",
	KindInput:       "Input",
	KindIf:          "If",
	KindElif:        "Elif",
	KindWhile:       "While",
	KindFor:         "For",
	KindFunctionDef: "FunctionDef",
	KindParam:       "Param",
	KindClassDef:    "ClassDef",
	KindReturn:      "Return",
	KindTry:         "Try",
	KindExcept:      "Except",
	KindMatch:       "Match",
	KindCase:        "Case",
	KindContinue:    "Continue",
	KindBreak:       "Break",
	KindBlock:       "Block",
	KindBinaryOp:    "BinaryOp",
	KindUnaryOp:     "UnaryOp",
	KindIdentifier:  "Identifier",
	KindNumber:      "Number",
	KindString:      "String",
	KindBool:        "Bool",
	KindCall:        "Call",
	KindAttribute:   "Attribute",
	KindEmpty:       "Empty",
}

// String returns the node kind name
func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by every syntax tree node
type Node interface {
	Kind() NodeKind
	Line() int
	Type() Type
	SetType(Type)
	// Value returns the node's scalar payload (operator, name, literal text)
	Value() string
	// Children returns the child nodes in semantic order
	Children() []Node
	node()
}

// Stmt is a node that may appear in a statement list
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value
type Expr interface {
	Node
	exprNode()
}

// Base carries the fields shared by every node
type Base struct {
	LineNo   int
	Inferred Type
}

// At returns a Base positioned at line
func At(line int) Base {
	return Base{LineNo: line}
}

func (b *Base) Line() int      { return b.LineNo }
func (b *Base) Type() Type     { return b.Inferred }
func (b *Base) SetType(t Type) { b.Inferred = t }
func (b *Base) node()          {}

// Program is the root of every tree
type Program struct {
	Base
	Stmts []Stmt
}

// Block is an indented statement list
type Block struct {
	Base
	Label string // Then, Body, Else, TryBlock, Finally, Default
	Stmts []Stmt
}

// Statements

type (
	// Comment is a source comment kept in the tree
	Comment struct {
		Base
		Text string
	}

	// Import is `summon a, b`
	Import struct {
		Base
		Modules []*Module
	}

	// Module is one imported name
	Module struct {
		Base
		Name string
	}

	// Assignment is `name = expr`; compound assignments are desugared
	Assignment struct {
		Base
		Target string
		Expr   Expr
	}

	// ExprStmt is a call evaluated for its effect
	ExprStmt struct {
		Base
		X Expr
	}

	// Output is `attack(args)`
	Output struct {
		Base
		Args []Expr
	}

	// If is `spot` with optional `counter` and `dodge` arms
	If struct {
		Base
		Cond  Expr
		Then  *Block
		Elifs []*Elif
		Else  *Block
	}

	// Elif is one `counter` arm
	Elif struct {
		Base
		Cond Expr
		Body *Block
	}

	// While is `replay (cond): block`
	While struct {
		Base
		Cond Expr
		Body *Block
	}

	// For is `farm var in iter: block`
	For struct {
		Base
		Var  string
		Iter Expr
		Body *Block
	}

	// FunctionDef is `quest name(params): block`
	FunctionDef struct {
		Base
		Name   string
		Params []*Param
		Body   *Block
	}

	// Param is a function parameter
	Param struct {
		Base
		Name string
	}

	// ClassDef is `guild Name: block`
	ClassDef struct {
		Base
		Name string
		Body *Block
	}

	// Return is `reward [expr]`
	Return struct {
		Base
		Result Expr // nil for a bare reward
	}

	// Try is `embark` with handlers and an optional `savePoint`
	Try struct {
		Base
		Body     *Block
		Handlers []*Except
		Finally  *Block
	}

	// Except is one `gameOver [Name]` handler
	Except struct {
		Base
		Exception string
		Body      *Block
	}

	// Match is `encounter (subject)` with `path` arms
	Match struct {
		Base
		Subject Expr
		Cases   []*Case
		Default *Block
	}

	// Case is one `path (pattern)` arm
	Case struct {
		Base
		Pattern Expr
		Body    *Block
	}

	// Continue is `skipEncounter`
	Continue struct{ Base }

	// Break is `escapeDungeon`
	Break struct{ Base }
)

// Expressions

type (
	// BinaryOp is `left op right`
	BinaryOp struct {
		Base
		Op          string
		Left, Right Expr
	}

	// UnaryOp is `op x` for not, + and -
	UnaryOp struct {
		Base
		Op string
		X  Expr
	}

	// Identifier is a name reference, including bare datatype names
	Identifier struct {
		Base
		Name string
	}

	// Number is a numeric literal
	Number struct {
		Base
		Text string
	}

	// String is a string literal including its quotes
	String struct {
		Base
		Text string
	}

	// Bool is true or false
	Bool struct {
		Base
		Val bool
	}

	// Call is `callee(args)`
	Call struct {
		Base
		Callee Expr
		Args   []Expr
	}

	// Attribute is `x.name`
	Attribute struct {
		Base
		X    Expr
		Name string
	}

	// Input is `scout(prompt)`; valid as statement and expression
	Input struct {
		Base
		Prompt Expr // may be nil
	}

	// Empty stands in for an expression that failed to parse
	Empty struct{ Base }
)

// Kind implementations

func (*Program) Kind() NodeKind     { return KindProgram }
func (*Block) Kind() NodeKind       { return KindBlock }
func (*Comment) Kind() NodeKind     { return KindComment }
func (*Import) Kind() NodeKind      { return KindImport }
func (*Module) Kind() NodeKind      { return KindModule }
func (*Assignment) Kind() NodeKind  { return KindAssignment }
func (*ExprStmt) Kind() NodeKind    { return KindExprStmt }
func (*Output) Kind() NodeKind      { return KindOutput }
func (*If) Kind() NodeKind          { return KindIf }
func (*Elif) Kind() NodeKind        { return KindElif }
func (*While) Kind() NodeKind       { return KindWhile }
func (*For) Kind() NodeKind         { return KindFor }
func (*FunctionDef) Kind() NodeKind { return KindFunctionDef }
func (*Param) Kind() NodeKind       { return KindParam }
func (*ClassDef) Kind() NodeKind    { return KindClassDef }
func (*Return) Kind() NodeKind      { return KindReturn }
func (*Try) Kind() NodeKind         { return KindTry }
func (*Except) Kind() NodeKind      { return KindExcept }
func (*Match) Kind() NodeKind       { return KindMatch }
func (*Case) Kind() NodeKind        { return KindCase }
func (*Continue) Kind() NodeKind    { return KindContinue }
func (*Break) Kind() NodeKind       { return KindBreak }
func (*BinaryOp) Kind() NodeKind    { return KindBinaryOp }
func (*UnaryOp) Kind() NodeKind     { return KindUnaryOp }
func (*Identifier) Kind() NodeKind  { return KindIdentifier }
func (*Number) Kind() NodeKind      { return KindNumber }
func (*String) Kind() NodeKind      { return KindString }
func (*Bool) Kind() NodeKind        { return KindBool }
func (*Call) Kind() NodeKind        { return KindCall }
func (*Attribute) Kind() NodeKind   { return KindAttribute }
func (*Input) Kind() NodeKind       { return KindInput }
func (*Empty) Kind() NodeKind       { return KindEmpty }

// Value implementations

func (*Program) Value() string       { return "" }
func (b *Block) Value() string       { return b.Label }
func (c *Comment) Value() string     { return c.Text }
func (*Import) Value() string        { return "" }
func (m *Module) Value() string      { return m.Name }
func (a *Assignment) Value() string  { return a.Target }
func (*ExprStmt) Value() string      { return "" }
func (*Output) Value() string        { return "" }
func (*If) Value() string            { return "" }
func (*Elif) Value() string          { return "" }
func (*While) Value() string         { return "" }
func (f *For) Value() string         { return f.Var }
func (f *FunctionDef) Value() string { return f.Name }
func (p *Param) Value() string       { return p.Name }
func (c *ClassDef) Value() string    { return c.Name }
func (*Return) Value() string        { return "" }
func (*Try) Value() string           { return "" }
func (e *Except) Value() string      { return e.Exception }
func (*Match) Value() string         { return "" }
func (*Case) Value() string          { return "" }
func (*Continue) Value() string      { return "" }
func (*Break) Value() string         { return "" }
func (b *BinaryOp) Value() string    { return b.Op }
func (u *UnaryOp) Value() string     { return u.Op }
func (i *Identifier) Value() string  { return i.Name }
func (n *Number) Value() string      { return n.Text }
func (s *String) Value() string      { return s.Text }
func (b *Bool) Value() string {
	if b.Val {
		return "true"
	}
	return "false"
}
func (*Call) Value() string        { return "" }
func (a *Attribute) Value() string { return a.Name }
func (*Input) Value() string       { return "" }
func (*Empty) Value() string       { return "" }

// Children implementations

func (p *Program) Children() []Node { return stmtNodes(p.Stmts) }
func (b *Block) Children() []Node   { return stmtNodes(b.Stmts) }
func (*Comment) Children() []Node   { return nil }
func (i *Import) Children() []Node {
	out := make([]Node, 0, len(i.Modules))
	for _, m := range i.Modules {
		out = append(out, m)
	}
	return out
}
func (*Module) Children() []Node       { return nil }
func (a *Assignment) Children() []Node { return nodes(a.Expr) }
func (e *ExprStmt) Children() []Node   { return nodes(e.X) }
func (o *Output) Children() []Node     { return exprNodes(o.Args) }
func (i *If) Children() []Node {
	out := nodes(i.Cond, i.Then)
	for _, e := range i.Elifs {
		out = append(out, e)
	}
	return append(out, nodes(i.Else)...)
}
func (e *Elif) Children() []Node  { return nodes(e.Cond, e.Body) }
func (w *While) Children() []Node { return nodes(w.Cond, w.Body) }
func (f *For) Children() []Node   { return nodes(f.Iter, f.Body) }
func (f *FunctionDef) Children() []Node {
	out := make([]Node, 0, len(f.Params)+1)
	for _, p := range f.Params {
		out = append(out, p)
	}
	return append(out, nodes(f.Body)...)
}
func (*Param) Children() []Node      { return nil }
func (c *ClassDef) Children() []Node { return nodes(c.Body) }
func (r *Return) Children() []Node   { return nodes(r.Result) }
func (t *Try) Children() []Node {
	out := nodes(t.Body)
	for _, h := range t.Handlers {
		out = append(out, h)
	}
	return append(out, nodes(t.Finally)...)
}
func (e *Except) Children() []Node { return nodes(e.Body) }
func (m *Match) Children() []Node {
	out := nodes(m.Subject)
	for _, c := range m.Cases {
		out = append(out, c)
	}
	return append(out, nodes(m.Default)...)
}
func (c *Case) Children() []Node       { return nodes(c.Pattern, c.Body) }
func (*Continue) Children() []Node     { return nil }
func (*Break) Children() []Node        { return nil }
func (b *BinaryOp) Children() []Node   { return nodes(b.Left, b.Right) }
func (u *UnaryOp) Children() []Node    { return nodes(u.X) }
func (*Identifier) Children() []Node   { return nil }
func (*Number) Children() []Node       { return nil }
func (*String) Children() []Node       { return nil }
func (*Bool) Children() []Node         { return nil }
func (c *Call) Children() []Node       { return append(nodes(c.Callee), exprNodes(c.Args)...) }
func (a *Attribute) Children() []Node  { return nodes(a.X) }
func (i *Input) Children() []Node      { return nodes(i.Prompt) }
func (*Empty) Children() []Node        { return nil }

// Marker methods

func (*Comment) stmtNode()     {}
func (*Import) stmtNode()      {}
func (*Assignment) stmtNode()  {}
func (*ExprStmt) stmtNode()    {}
func (*Output) stmtNode()      {}
func (*Input) stmtNode()       {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*Return) stmtNode()      {}
func (*Try) stmtNode()         {}
func (*Match) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Break) stmtNode()       {}

func (*BinaryOp) exprNode()   {}
func (*UnaryOp) exprNode()    {}
func (*Identifier) exprNode() {}
func (*Number) exprNode()     {}
func (*String) exprNode()     {}
func (*Bool) exprNode()       {}
func (*Call) exprNode()       {}
func (*Attribute) exprNode()  {}
func (*Input) exprNode()      {}
func (*Empty) exprNode()      {}

// nodes collects the non-nil arguments. Typed nil pointers stored in an
// interface are filtered as well.
func nodes(in ...Node) []Node {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		if !isNil(n) {
			out = append(out, n)
		}
	}
	return out
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Block:
		return v == nil
	}
	return false
}

func stmtNodes(in []Stmt) []Node {
	out := make([]Node, 0, len(in))
	for _, s := range in {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func exprNodes(in []Expr) []Node {
	out := make([]Node, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}
