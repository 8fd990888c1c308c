// File: types.go
// Title: ArcaneQuest Value Type Tags
// Description: Defines the static type tags attached to syntax tree nodes
//              by semantic analysis, including the meta tags for functions,
//              modules and values whose type cannot be resolved.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial type tags

package ast

// Type is a static value type. The zero value NoType means inference has
// not run or failed.
type Type int

const (
	NoType Type = iota
	IntType
	FloatType
	StringType
	BoolType
	FunctionType
	ModuleType
	UnknownType
)

// String returns the language name of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "potion"
	case FloatType:
		return "elixir"
	case StringType:
		return "scroll"
	case BoolType:
		return "fate"
	case FunctionType:
		return "function"
	case ModuleType:
		return "module"
	case UnknownType:
		return "unknown"
	default:
		return ""
	}
}

// IsNumeric reports whether t is potion or elixir
func (t Type) IsNumeric() bool {
	return t == IntType || t == FloatType
}

// IsPrimitive reports whether t is one of the four value types
func (t Type) IsPrimitive() bool {
	return t >= IntType && t <= BoolType
}

// TypeOfDatatype maps a datatype keyword to its type
func TypeOfDatatype(name string) (Type, bool) {
	switch name {
	case "potion":
		return IntType, true
	case "elixir":
		return FloatType, true
	case "scroll":
		return StringType, true
	case "fate":
		return BoolType, true
	}
	return NoType, false
}
