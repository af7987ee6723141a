// Package ssa rewrites variable references so each variable has exactly one
// static definition point per control-flow path. Conditional branches get
// their own rename tables chained to the enclosing table; on leaving a
// conditional a merge point is recorded per written variable for the
// flattener to resolve with a selection expression.
package ssa

// RenameTable maps a variable's original name to the name of its most
// recent versioned definition within one scope. Names not redefined locally
// resolve through the parent back-reference.
type RenameTable struct {
	parent   *RenameTable
	names    map[string]string
	declared map[string]bool // names introduced by let/const in this scope
	written  []string        // first-write order of externally visible names
}

// NewRenameTable creates a root rename table.
func NewRenameTable() *RenameTable {
	return newRenameTable(nil)
}

func newRenameTable(parent *RenameTable) *RenameTable {
	return &RenameTable{
		parent:   parent,
		names:    make(map[string]string),
		declared: make(map[string]bool),
	}
}

// Child creates a table for a nested branch scope.
func (t *RenameTable) Child() *RenameTable {
	return newRenameTable(t)
}

// Parent returns the enclosing table, nil at the root.
func (t *RenameTable) Parent() *RenameTable {
	return t.parent
}

// Declare records a variable introduced in this scope and its first
// versioned name. Declared names never produce merge points in this scope.
func (t *RenameTable) Declare(original, versioned string) {
	t.declared[original] = true
	t.names[original] = versioned
}

// Define records a new versioned definition of a variable. If the variable
// was declared in an enclosing scope the write is externally visible and
// participates in merging.
func (t *RenameTable) Define(original, versioned string) {
	if !t.declared[original] && !t.alreadyWritten(original) {
		t.written = append(t.written, original)
	}
	t.names[original] = versioned
}

func (t *RenameTable) alreadyWritten(original string) bool {
	for _, name := range t.written {
		if name == original {
			return true
		}
	}
	return false
}

// Lookup resolves the current versioned name for original, walking the
// parent chain. The boolean result is false when no scope renamed it.
func (t *RenameTable) Lookup(original string) (string, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if v, ok := cur.names[original]; ok {
			return v, true
		}
	}
	return "", false
}

// DeclaredHere reports whether the name was introduced in this scope.
func (t *RenameTable) DeclaredHere(original string) bool {
	return t.declared[original]
}

// Written returns the original names of externally declared variables
// written in this scope, in first-write order.
func (t *RenameTable) Written() []string {
	return t.written
}
