// Package symbols implements the hierarchical symbol table used by the
// semantic passes.
package symbols

import (
	"fmt"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// Kind identifies what a symbol names.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindStruct
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindStruct:
		return "struct"
	case KindMapping:
		return "mapping"
	default:
		return "?"
	}
}

// Symbol is implemented by every symbol kind.
type Symbol interface {
	SymbolName() string
	SymbolKind() Kind
	SymbolSpan() source.Span
}

// FunctionSymbol records a declared function.
type FunctionSymbol struct {
	Name        string
	Kind        ast.FunctionKind
	Params      []*ast.Param
	Return      types.Type
	HasFinalize bool // transition with a paired finalize function
	IsAsync     bool // body contains an async finalize call
	Span        source.Span
}

func (s *FunctionSymbol) SymbolName() string      { return s.Name }
func (s *FunctionSymbol) SymbolKind() Kind        { return KindFunction }
func (s *FunctionSymbol) SymbolSpan() source.Span { return s.Span }

// DeclKind distinguishes how a variable was introduced.
type DeclKind int

const (
	DeclParameter DeclKind = iota
	DeclLocal
	DeclIteration
)

func (k DeclKind) String() string {
	switch k {
	case DeclParameter:
		return "parameter"
	case DeclLocal:
		return "local"
	case DeclIteration:
		return "iteration variable"
	default:
		return "?"
	}
}

// VariableSymbol records a declared variable.
type VariableSymbol struct {
	Name  string
	Type  types.Type
	Const bool
	Decl  DeclKind
	Span  source.Span
	used  bool
}

func (s *VariableSymbol) SymbolName() string      { return s.Name }
func (s *VariableSymbol) SymbolKind() Kind        { return KindVariable }
func (s *VariableSymbol) SymbolSpan() source.Span { return s.Span }

// MarkUsed records that the variable was read.
func (s *VariableSymbol) MarkUsed() { s.used = true }

// Used reports whether the variable was ever read.
func (s *VariableSymbol) Used() bool { return s.used }

// StructSymbol records a declared struct or record type.
type StructSymbol struct {
	Name     string
	IsRecord bool
	Fields   []*ast.Field // declaration order
	Span     source.Span
}

func (s *StructSymbol) SymbolName() string      { return s.Name }
func (s *StructSymbol) SymbolKind() Kind        { return KindStruct }
func (s *StructSymbol) SymbolSpan() source.Span { return s.Span }

// FieldType returns the declared type of the named field.
func (s *StructSymbol) FieldType(name string) (types.Type, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return types.Err, false
}

// MappingSymbol records a declared mapping.
type MappingSymbol struct {
	Name  string
	Key   types.Type
	Value types.Type
	Span  source.Span
}

func (s *MappingSymbol) SymbolName() string      { return s.Name }
func (s *MappingSymbol) SymbolKind() Kind        { return KindMapping }
func (s *MappingSymbol) SymbolSpan() source.Span { return s.Span }

// DuplicateError reports a name already bound in the same scope.
type DuplicateError struct {
	Name string
	Kind Kind
	Span source.Span // offending declaration
	Prev source.Span // prior declaration
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate declaration of %s %q", e.Kind, e.Name)
}
