// File: visitor.go
// Title: ArcaneQuest Tree Traversal
// Description: Depth-first traversal helpers for syntax trees: a Visitor
//              interface in the style of go/ast, a function-based Inspect
//              and small collectors used by the analyzer and the tools.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial traversal helpers

package ast

// Visitor is called for each node by Walk. If the returned visitor is nil
// the children of the node are skipped.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses the tree rooted at node in depth-first order
func Walk(v Visitor, node Node) {
	if node == nil || isNil(node) {
		return
	}
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children() {
		Walk(v, child)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for each node; returning false prunes the subtree
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Collect returns every node of the given kind in source order
func Collect(root Node, kind NodeKind) []Node {
	var out []Node
	Inspect(root, func(n Node) bool {
		if n.Kind() == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// CountStatements returns the number of statements in the tree, including
// nested ones.
func CountStatements(root Node) int {
	count := 0
	Inspect(root, func(n Node) bool {
		if _, ok := n.(Stmt); ok {
			count++
		}
		return true
	})
	return count
}
