// File: diag_test.go
// Title: Unit Tests for ArcaneQuest Diagnostics
// Description: Tests diagnostic formatting, filtering and origin encoding.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial diagnostics tests

package diag

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestList_Add(t *testing.T) {
	var l List
	l.Add(Syntax, 3, "Expected ':' after if header")
	l.Addf(Semantic, 5, "Undeclared variable '%s'", "gold")
	l.Add(Lexical, 1, "100% broken")

	if !l.HasErrors() || len(l) != 3 {
		t.Fatalf("got %d diagnostics, want 3", len(l))
	}
	want := []string{"Expected ':' after if header", "Undeclared variable 'gold'", "100% broken"}
	for i, msg := range l.Messages() {
		if msg != want[i] {
			t.Errorf("message %d = %q, want %q", i, msg, want[i])
		}
	}
	if got := l[1].String(); got != "line 5: [semantic] Undeclared variable 'gold'" {
		t.Errorf("String() = %q", got)
	}
}

func TestList_ByOriginAndCount(t *testing.T) {
	var l List
	l.Add(Syntax, 1, "a")
	l.Add(Semantic, 2, "b")
	l.Add(Syntax, 3, "c")

	if got := l.ByOrigin(Syntax); len(got) != 2 || got[1].Line != 3 {
		t.Errorf("ByOrigin(Syntax) = %v", got)
	}
	if got := l.ByOrigin(Internal); got != nil {
		t.Errorf("ByOrigin(Internal) = %v, want nil", got)
	}
	counts := l.Count()
	if counts[Syntax] != 2 || counts[Semantic] != 1 || counts[Lexical] != 0 {
		t.Errorf("Count() = %v", counts)
	}
	if (List{}).HasErrors() {
		t.Error("empty list reports errors")
	}
}

func TestOrigin_Encoding(t *testing.T) {
	for _, o := range []Origin{Lexical, Syntax, Semantic, Internal} {
		got, ok := ParseOrigin(o.String())
		if !ok || got != o {
			t.Errorf("ParseOrigin(%q) = %v, %v", o.String(), got, ok)
		}
	}
	if _, ok := ParseOrigin("fatal"); ok {
		t.Error("ParseOrigin accepted an unknown name")
	}

	d := Diagnostic{Line: 7, Message: "Unexpected indent", Origin: Syntax}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"line":7,"message":"Unexpected indent","origin":"syntax"}` {
		t.Errorf("json = %s", data)
	}

	var back Diagnostic
	if err := yaml.Unmarshal([]byte("line: 2\nmessage: x\norigin: semantic\n"), &back); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if back.Origin != Semantic || back.Line != 2 {
		t.Errorf("yaml decoded %+v", back)
	}
	if err := back.Origin.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText accepted an unknown origin")
	}
}
