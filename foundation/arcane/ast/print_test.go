// File: print_test.go
// Title: Unit Tests for ArcaneQuest Tree Rendering
// Description: Tests the indented dump, shape strings, map conversion and
//              traversal helpers on hand-built trees.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial rendering tests

package ast

import (
	"strings"
	"testing"
)

func sampleTree() *Program {
	sum := &BinaryOp{Base: At(2), Op: "+", Left: &Identifier{Base: At(2), Name: "a"}, Right: &Number{Base: At(2), Text: "1"}}
	sum.SetType(IntType)
	return &Program{
		Base: At(1),
		Stmts: []Stmt{
			&Assignment{Base: At(1), Target: "a", Expr: &Number{Base: At(1), Text: "2"}},
			&If{
				Base: At(2),
				Cond: &Bool{Base: At(2), Val: true},
				Then: &Block{Base: At(2), Label: "Then", Stmts: []Stmt{&Output{Base: At(3), Args: []Expr{sum}}}},
			},
		},
	}
}

func TestSprint(t *testing.T) {
	want := strings.Join([]string{
		"Program (line 1)",
		"  Assignment: a (line 1)",
		"    Number: 2 (line 1)",
		"  If (line 2)",
		"    Bool: true (line 2)",
		"    Block: Then (line 2)",
		"      Output (line 3)",
		"        BinaryOp: + (line 2) [potion]",
		"          Identifier: a (line 2)",
		"          Number: 1 (line 2)",
		"",
	}, "\n")
	if got := Sprint(sampleTree()); got != want {
		t.Errorf("Sprint() =\n%s\nwant\n%s", got, want)
	}
}

func TestShape(t *testing.T) {
	want := "(Program (Assignment a (Number 2)) (If (Bool true) (Block Then (Output (BinaryOp + (Identifier a) (Number 1))))))"
	if got := Shape(sampleTree()); got != want {
		t.Errorf("Shape() = %s\nwant %s", got, want)
	}
}

func TestToMap(t *testing.T) {
	m := ToMap(sampleTree())
	if m["kind"] != "Program" {
		t.Fatalf("kind = %v", m["kind"])
	}
	children, ok := m["children"].([]interface{})
	if !ok || len(children) != 2 {
		t.Fatalf("children = %v", m["children"])
	}
	assign := children[0].(map[string]interface{})
	if assign["value"] != "a" || assign["line"] != 1 {
		t.Errorf("assignment = %v", assign)
	}
	if ToMap(nil) != nil {
		t.Error("ToMap(nil) should be nil")
	}
}

func TestCollectAndCount(t *testing.T) {
	prog := sampleTree()
	if got := len(Collect(prog, KindNumber)); got != 2 {
		t.Errorf("Collect(Number) = %d nodes, want 2", got)
	}
	// Assignment, If, Output
	if got := CountStatements(prog); got != 3 {
		t.Errorf("CountStatements() = %d, want 3", got)
	}

	var kinds []string
	Inspect(prog, func(n Node) bool {
		kinds = append(kinds, n.Kind().String())
		return n.Kind() != KindIf
	})
	if strings.Join(kinds, ",") != "Program,Assignment,Number,If" {
		t.Errorf("Inspect pruning visited %v", kinds)
	}
}

func TestType(t *testing.T) {
	tests := []struct {
		name    string
		want    Type
		numeric bool
	}{
		{"potion", IntType, true},
		{"elixir", FloatType, true},
		{"scroll", StringType, false},
		{"fate", BoolType, false},
	}
	for _, tt := range tests {
		got, ok := TypeOfDatatype(tt.name)
		if !ok || got != tt.want || got.String() != tt.name || got.IsNumeric() != tt.numeric || !got.IsPrimitive() {
			t.Errorf("TypeOfDatatype(%q) = %v, %v", tt.name, got, ok)
		}
	}
	if _, ok := TypeOfDatatype("gold"); ok {
		t.Error("TypeOfDatatype accepted an unknown name")
	}
	if UnknownType.IsPrimitive() || FunctionType.IsNumeric() {
		t.Error("meta types must not be primitive")
	}
}
