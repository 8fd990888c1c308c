// File: print.go
// Title: ArcaneQuest Tree Rendering
// Description: Renders syntax trees as indented dumps, compact shape
//              strings for structural comparison, and generic maps for
//              JSON, YAML and protobuf Struct encoding.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial tree rendering

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree, one node per line:
//
//	Kind: value (line N) [type]
func Fprint(w io.Writer, node Node) error {
	var sb strings.Builder
	writeNode(&sb, node, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint returns the dump produced by Fprint
func Sprint(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node, depth int) {
	if node == nil || isNil(node) {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(Label(node))
	sb.WriteByte('\n')
	for _, child := range node.Children() {
		writeNode(sb, child, depth+1)
	}
}

// Label renders a single node without its children
func Label(node Node) string {
	var sb strings.Builder
	sb.WriteString(node.Kind().String())
	if v := node.Value(); v != "" {
		sb.WriteString(": ")
		sb.WriteString(v)
	}
	fmt.Fprintf(&sb, " (line %d)", node.Line())
	if t := node.Type(); t != NoType {
		fmt.Fprintf(&sb, " [%s]", t)
	}
	return sb.String()
}

// Shape renders the tree structure as an s-expression without lines or
// types, e.g. (BinaryOp + (Number 2) (Number 3)).
func Shape(node Node) string {
	var sb strings.Builder
	writeShape(&sb, node)
	return sb.String()
}

func writeShape(sb *strings.Builder, node Node) {
	if node == nil || isNil(node) {
		return
	}
	sb.WriteByte('(')
	sb.WriteString(node.Kind().String())
	if v := node.Value(); v != "" {
		sb.WriteByte(' ')
		sb.WriteString(v)
	}
	for _, child := range node.Children() {
		sb.WriteByte(' ')
		writeShape(sb, child)
	}
	sb.WriteByte(')')
}

// ToMap converts the tree into nested maps of plain values
func ToMap(node Node) map[string]interface{} {
	if node == nil || isNil(node) {
		return nil
	}
	m := map[string]interface{}{
		"kind": node.Kind().String(),
		"line": node.Line(),
	}
	if v := node.Value(); v != "" {
		m["value"] = v
	}
	if t := node.Type(); t != NoType {
		m["type"] = t.String()
	}
	if children := node.Children(); len(children) > 0 {
		list := make([]interface{}, 0, len(children))
		for _, c := range children {
			list = append(list, ToMap(c))
		}
		m["children"] = list
	}
	return m
}
