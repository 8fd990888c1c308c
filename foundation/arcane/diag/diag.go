// File: diag.go
// Title: ArcaneQuest Diagnostics
// Description: Defines the diagnostic record shared by all front-end
//              stages. Diagnostics are accumulated, never thrown, and keep
//              the stage that produced them so callers can tell lexical,
//              syntax, semantic and internal problems apart.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial diagnostics implementation

package diag

import (
	"fmt"
	"strings"
)

// Origin identifies the stage that produced a diagnostic
type Origin int

const (
	Lexical Origin = iota
	Syntax
	Semantic
	Internal
)

// String returns the lower-case origin name
func (o Origin) String() string {
	switch o {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// ParseOrigin converts a name produced by Origin.String back into an Origin
func ParseOrigin(s string) (Origin, bool) {
	switch s {
	case "lexical":
		return Lexical, true
	case "syntax":
		return Syntax, true
	case "semantic":
		return Semantic, true
	case "internal":
		return Internal, true
	}
	return Internal, false
}

// MarshalText implements encoding.TextMarshaler
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Origin) UnmarshalText(b []byte) error {
	v, ok := ParseOrigin(string(b))
	if !ok {
		return fmt.Errorf("unknown diagnostic origin %q", string(b))
	}
	*o = v
	return nil
}

// Diagnostic is a single reported problem
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
	Origin  Origin `json:"origin" yaml:"origin"`
}

// String renders the diagnostic as "line N: [origin] message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: [%s] %s", d.Line, d.Origin, d.Message)
}

// List is an ordered collection of diagnostics. Order is emission order.
type List []Diagnostic

// Add appends a diagnostic with a literal message
func (l *List) Add(origin Origin, line int, msg string) {
	*l = append(*l, Diagnostic{Line: line, Message: msg, Origin: origin})
}

// Addf appends a diagnostic with a formatted message
func (l *List) Addf(origin Origin, line int, format string, args ...interface{}) {
	l.Add(origin, line, fmt.Sprintf(format, args...))
}

// HasErrors reports whether the list holds any diagnostic
func (l List) HasErrors() bool {
	return len(l) > 0
}

// ByOrigin returns the diagnostics produced by one stage
func (l List) ByOrigin(origin Origin) List {
	var out List
	for _, d := range l {
		if d.Origin == origin {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics per origin
func (l List) Count() map[Origin]int {
	counts := make(map[Origin]int, 4)
	for _, d := range l {
		counts[d.Origin]++
	}
	return counts
}

// Messages returns the bare messages in order
func (l List) Messages() []string {
	out := make([]string, len(l))
	for i, d := range l {
		out[i] = d.Message
	}
	return out
}

// String renders one diagnostic per line
func (l List) String() string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
