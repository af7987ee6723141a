// Package typecheck resolves expression types, validates statements and
// populates the symbol table in a single forward pass per function body.
//
// Errors accumulate in the diagnostics bag instead of aborting the unit:
// ill-typed subexpressions resolve to the error sentinel, which compares
// equal to nothing, so one mistake does not cascade into unrelated reports.
package typecheck

import (
	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/diag"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/symbols"
	"github.com/vela-lang/go-vela/types"
)

// Diagnostic codes emitted by this pass. Codes are stable identifiers used
// in golden output; messages may change, codes may not.
const (
	CodeDuplicateDeclaration = "symbol-table: duplicate-declaration"
	CodeUndefinedIdentifier  = "type-checker: undefined-identifier"
	CodeUndefinedFunction    = "type-checker: undefined-function"
	CodeUndefinedStruct      = "type-checker: undefined-struct"
	CodeUndefinedMapping     = "type-checker: undefined-mapping"
	CodeMismatchedTypes      = "type-checker: mismatched-types"
	CodeInvalidOperand       = "type-checker: invalid-operand"
	CodeArityMismatch        = "type-checker: arity-mismatch"
	CodeUnknownField         = "type-checker: unknown-field"
	CodeMissingField         = "type-checker: missing-field"
	CodeDuplicateField       = "type-checker: duplicate-field"
	CodeAssignToConst        = "type-checker: assign-to-const"
	CodeInvalidLiteral       = "type-checker: invalid-literal"
	CodeMisplacedFinalize    = "type-checker: misplaced-finalize"
	CodeUnpairedFinalize     = "type-checker: unpaired-finalize"
	CodeInvalidFinalizeCall  = "type-checker: invalid-finalize-call"
	CodeInvalidMappingOp     = "type-checker: invalid-mapping-op"
	CodeMissingReturn        = "type-checker: missing-return"
	CodeUnusedVariable       = "type-checker: unused-variable"
)

// Checker holds the state of one compilation unit's type check.
type Checker struct {
	table *symbols.Table
	bag   *diag.Bag

	fn           *ast.Function // function body being checked
	finalizeSeen bool
	nesting      int // conditional/iteration depth, for finalize placement
}

// Check validates the program, attaching a resolved type to every
// expression and recording all declarations in the table. Diagnostics
// accumulate in the bag; the tree itself is returned unchanged.
func Check(program *ast.Program, table *symbols.Table, bag *diag.Bag) *ast.Program {
	c := &Checker{table: table, bag: bag}
	c.collectDeclarations(program)
	for _, fn := range program.Functions {
		c.checkFunction(fn)
	}
	return program
}

// collectDeclarations populates the program scope before any body is
// checked, so bodies may reference declarations in any order.
func (c *Checker) collectDeclarations(program *ast.Program) {
	for _, s := range program.Structs {
		seen := make(map[string]source.Span)
		for _, f := range s.Fields {
			if prev, ok := seen[f.Name]; ok {
				c.bag.Errorf(CodeDuplicateField, f.Span,
					"field %q declared more than once in %s %q", f.Name, structKind(s), s.Name).
					WithSecondary(prev)
				continue
			}
			seen[f.Name] = f.Span
		}
		c.declare(s.Name, &symbols.StructSymbol{
			Name:     s.Name,
			IsRecord: s.IsRecord,
			Fields:   s.Fields,
			Span:     s.Span,
		})
	}

	for _, m := range program.Mappings {
		c.declare(m.Name, &symbols.MappingSymbol{
			Name:  m.Name,
			Key:   m.Key,
			Value: m.Value,
			Span:  m.Span,
		})
	}

	for _, fn := range program.Functions {
		sym := &symbols.FunctionSymbol{
			Name:   fn.Name,
			Kind:   fn.Kind,
			Params: fn.Params,
			Return: fn.ReturnType,
			Span:   fn.Span,
		}
		if fn.Kind == ast.Finalize {
			if err := c.table.DeclareFinalize(fn.Name, sym); err != nil {
				c.reportDeclare(err)
			}
			continue
		}
		c.declare(fn.Name, sym)
	}

	// Pair finalize functions with their transitions.
	for _, fn := range program.Functions {
		if fn.Kind != ast.Finalize {
			continue
		}
		owner, ok := c.table.LookupFunction(fn.Name)
		if !ok || owner.Kind != ast.Transition {
			c.bag.Errorf(CodeUnpairedFinalize, fn.Span,
				"finalize %q has no transition of the same name", fn.Name)
			continue
		}
		owner.HasFinalize = true
	}
}

func (c *Checker) declare(name string, sym symbols.Symbol) {
	if err := c.table.Declare(name, sym); err != nil {
		c.reportDeclare(err)
	}
}

func (c *Checker) reportDeclare(err error) {
	if dup, ok := err.(*symbols.DuplicateError); ok {
		c.bag.Errorf(CodeDuplicateDeclaration, dup.Span, "%s", dup.Error()).
			WithSecondary(dup.Prev).
			WithHint("rename one of the declarations")
		return
	}
	c.bag.Errorf(CodeDuplicateDeclaration, source.Span{}, "%s", err.Error())
}

func structKind(s *ast.Struct) string {
	if s.IsRecord {
		return "record"
	}
	return "struct"
}

// checkFunction checks one function body in its own scope.
func (c *Checker) checkFunction(fn *ast.Function) {
	c.fn = fn
	c.finalizeSeen = false
	c.nesting = 0

	exit := c.table.EnterScope()
	defer func() {
		c.warnUnused(exit())
	}()

	for _, p := range fn.Params {
		c.declare(p.Name, &symbols.VariableSymbol{
			Name: p.Name,
			Type: p.Type,
			Decl: symbols.DeclParameter,
			Span: p.Span,
		})
	}

	for _, stmt := range fn.Body.Statements {
		c.checkStatement(stmt)
	}

	if fn.ReturnType.Kind != types.KindUnit && !returnsOnAllPaths(fn.Body) {
		c.bag.Errorf(CodeMissingReturn, fn.Span,
			"%s %q must return a value of type %s on every path", fn.Kind, fn.Name, fn.ReturnType)
	}
}

// returnsOnAllPaths reports whether every execution path through the block
// reaches a return statement. A conditional counts only when both branches
// return; a loop never counts, since its trip count may be zero.
func returnsOnAllPaths(block *ast.Block) bool {
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.Return:
			return true
		case *ast.Block:
			if returnsOnAllPaths(s) {
				return true
			}
		case *ast.Conditional:
			if s.Otherwise != nil && returnsOnAllPaths(s.Then) && returnsOnAllPaths(s.Otherwise) {
				return true
			}
		}
	}
	return false
}

// warnUnused reports let locals of a just-closed scope that were never read.
func (c *Checker) warnUnused(scope *symbols.Scope) {
	if scope == nil {
		return
	}
	for _, v := range scope.UnusedLets() {
		c.bag.Warnf(CodeUnusedVariable, v.Span, "variable %q is never read", v.Name).
			WithHint("remove the declaration or use the value")
	}
}
