// Package ast defines the Vela syntax tree consumed by the semantic passes.
//
// Statement and expression kinds are closed sets of tagged variants; every
// pass switches exhaustively over them with a default error arm, so a new
// kind fails loudly in each pass instead of being silently skipped. The tree
// is single-owner and acyclic: cross-references (a call naming a function, a
// struct literal naming a struct) resolve by name through the symbol table,
// never by node pointers.
package ast

import (
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// Node is implemented by every syntax tree node.
type Node interface {
	NodeSpan() source.Span
}

// TypeInfo holds the resolved type attached to an expression after
// type checking. Expressions embed it by pointer-receiver methods.
type TypeInfo struct {
	typ   types.Type
	known bool
}

// SetType records the resolved type.
func (t *TypeInfo) SetType(typ types.Type) {
	t.typ = typ
	t.known = true
}

// ResolvedType returns the attached type, or the error sentinel if the
// expression has not been checked.
func (t *TypeInfo) ResolvedType() types.Type {
	if !t.known {
		return types.Err
	}
	return t.typ
}

// Typed reports whether a type has been attached.
func (t *TypeInfo) Typed() bool {
	return t.known
}

// Program is one compilation unit: a named program with its top-level
// struct, mapping and function declarations.
type Program struct {
	Name      string
	Structs   []*Struct
	Mappings  []*Mapping
	Functions []*Function
	Span      source.Span
}

func (p *Program) NodeSpan() source.Span { return p.Span }

// FunctionKind distinguishes the three function forms.
type FunctionKind int

const (
	// Transition is a publicly callable entry point proven in zero knowledge.
	Transition FunctionKind = iota
	// Standard is a plain helper function.
	Standard
	// Finalize is the on-chain counterpart of a transition with the same name.
	Finalize
)

func (k FunctionKind) String() string {
	switch k {
	case Transition:
		return "transition"
	case Standard:
		return "function"
	case Finalize:
		return "finalize"
	default:
		return "?"
	}
}

// Param is one function parameter.
type Param struct {
	Name string
	Type types.Type
	Span source.Span
}

func (p *Param) NodeSpan() source.Span { return p.Span }

// Function is a transition, standard, or finalize function declaration.
type Function struct {
	Kind       FunctionKind
	Name       string
	Params     []*Param
	ReturnType types.Type // types.Unit when the function returns nothing
	Body       *Block
	Span       source.Span
}

func (f *Function) NodeSpan() source.Span { return f.Span }

// Field is one struct or record field declaration.
type Field struct {
	Name string
	Type types.Type
	Span source.Span
}

func (f *Field) NodeSpan() source.Span { return f.Span }

// Struct declares a struct or record type.
type Struct struct {
	Name     string
	IsRecord bool
	Fields   []*Field
	Span     source.Span
}

func (s *Struct) NodeSpan() source.Span { return s.Span }

// Mapping declares a persistent key/value mapping.
type Mapping struct {
	Name  string
	Key   types.Type
	Value types.Type
	Span  source.Span
}

func (m *Mapping) NodeSpan() source.Span { return m.Span }
