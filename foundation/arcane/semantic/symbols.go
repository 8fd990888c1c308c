// File: symbols.go
// Title: ArcaneQuest Symbol Table
// Description: Lexically scoped symbol table. Scopes form a stack; lookups
//              walk from the innermost scope outwards and declarations
//              always write to the innermost scope.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial symbol table

package semantic

import "github.com/msto63/arcanequest/foundation/arcane/ast"

// Symbol is a declared name
type Symbol struct {
	Name string
	Type ast.Type
	Line int
	// Def is the definition of a quest; nil for every other symbol
	Def *ast.FunctionDef
	// Result is the call result of callables without a definition
	// (built-ins and guild constructors)
	Result ast.Type
}

type scope map[string]*Symbol

// SymbolTable is a stack of scopes with a global scope at the bottom that
// is never popped
type SymbolTable struct {
	scopes []scope
}

// NewSymbolTable creates a table holding only the global scope
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{scopes: []scope{{}}}
}

// Push enters a new innermost scope
func (st *SymbolTable) Push() {
	st.scopes = append(st.scopes, scope{})
}

// Pop leaves the innermost scope
func (st *SymbolTable) Pop() {
	if len(st.scopes) > 1 {
		st.scopes = st.scopes[:len(st.scopes)-1]
	}
}

// Depth returns the number of open scopes, including the global one
func (st *SymbolTable) Depth() int {
	return len(st.scopes)
}

// Declare binds name in the innermost scope, replacing an earlier binding
// in that scope
func (st *SymbolTable) Declare(name string, t ast.Type, line int) *Symbol {
	sym := &Symbol{Name: name, Type: t, Line: line}
	st.scopes[len(st.scopes)-1][name] = sym
	return sym
}

// Lookup resolves name from the innermost scope outwards
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if sym, ok := st.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal resolves name in the innermost scope only
func (st *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := st.scopes[len(st.scopes)-1][name]
	return sym, ok
}

// snapshot captures the current scope chain. The scopes themselves are
// shared, so later declarations in them stay visible.
func (st *SymbolTable) snapshot() []scope {
	return append([]scope(nil), st.scopes...)
}

// swap installs env as the scope chain and returns the previous chain for
// restore
func (st *SymbolTable) swap(env []scope) []scope {
	saved := st.scopes
	st.scopes = append([]scope(nil), env...)
	return saved
}

func (st *SymbolTable) restore(saved []scope) {
	st.scopes = saved
}
