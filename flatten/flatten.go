// Package flatten eliminates conditional statements from SSA-renamed trees.
//
// The target execution model is an arithmetic circuit with no conditional
// jumps, so every branch must execute. Branch-local writes become selection
// expressions over the merge points recorded by the renamer; assertions
// inside a branch become guard implications; constructs with no branch-free
// form are hard errors that stop the unit before code generation.
package flatten

import (
	"fmt"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/diag"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/ssa"
	"github.com/vela-lang/go-vela/types"
)

// Diagnostic codes emitted by this pass.
const (
	CodeBranchReturn  = "flattener: branch-dependent-return"
	CodeLoopInBranch  = "flattener: loop-in-conditional"
	CodeGuardedUpdate = "flattener: unguardable-mapping-update"
	CodeUnsupported   = "flattener: unsupported-statement"
)

// Flattener removes conditionals from one renamed compilation unit.
type Flattener struct {
	merges map[*ast.Conditional][]ssa.Merge
	bag    *diag.Bag
	failed bool
}

// Flatten produces a branch-free copy of the renamed program. Unlike type
// checking, flattening does not recover: a construct that cannot be made
// branch-free leaves nothing safe to hand to code generation, so any
// flattening diagnostic makes the returned error non-nil.
func Flatten(renamed *ssa.Result, bag *diag.Bag) (*ast.Program, error) {
	f := &Flattener{merges: renamed.Merges, bag: bag}

	in := renamed.Program
	out := &ast.Program{
		Name:     in.Name,
		Structs:  in.Structs,
		Mappings: in.Mappings,
		Span:     in.Span,
	}
	for _, fn := range in.Functions {
		out.Functions = append(out.Functions, &ast.Function{
			Kind:       fn.Kind,
			Name:       fn.Name,
			Params:     fn.Params,
			ReturnType: fn.ReturnType,
			Body:       f.flattenBlock(fn.Body),
			Span:       fn.Span,
		})
	}

	if f.failed {
		return nil, fmt.Errorf("program %q cannot be flattened", in.Name)
	}
	return out, nil
}

func (f *Flattener) errorf(code string, span source.Span, format string, args ...any) *diag.Diagnostic {
	f.failed = true
	return f.bag.Errorf(code, span, format, args...)
}

// flattenBlock flattens every statement of a block, splicing the straight-
// line replacement of each conditional into the enclosing sequence.
func (f *Flattener) flattenBlock(block *ast.Block) *ast.Block {
	out := &ast.Block{Span: block.Span}
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.Conditional:
			out.Statements = append(out.Statements, f.flattenConditional(s)...)
		case *ast.Block:
			out.Statements = append(out.Statements, f.flattenBlock(s))
		case *ast.Iteration:
			out.Statements = append(out.Statements, &ast.Iteration{
				Variable: s.Variable,
				Type:     s.Type,
				Start:    s.Start,
				Stop:     s.Stop,
				Body:     f.flattenBlock(s.Body),
				Span:     s.Span,
			})
		default:
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out
}

// flattenConditional replaces one conditional with a straight-line
// sequence: both branches' statements (nested conditionals already
// resolved), then one selection assignment per merge point, then a merged
// return when both branches end in one. Synthesized nodes carry the span
// of the conditional that triggered them.
func (f *Flattener) flattenConditional(cond *ast.Conditional) []ast.Statement {
	guard := cond.Condition

	thenStmts, thenRet := f.flattenBranch(cond.Then, guard, false)
	var elseStmts []ast.Statement
	var elseRet *ast.Return
	if cond.Otherwise != nil {
		elseStmts, elseRet = f.flattenBranch(cond.Otherwise, guard, true)
	}

	out := make([]ast.Statement, 0, len(thenStmts)+len(elseStmts)+1)
	out = append(out, thenStmts...)
	out = append(out, elseStmts...)

	for _, merge := range f.merges[cond] {
		sel := f.selection(guard, merge, cond.Span)
		out = append(out, &ast.Assign{
			Name:     merge.Merged,
			NameSpan: cond.Span,
			Value:    sel,
			Span:     cond.Span,
		})
	}

	switch {
	case thenRet != nil && elseRet != nil:
		out = append(out, f.mergeReturns(guard, thenRet, elseRet, cond.Span))
	case thenRet != nil || elseRet != nil:
		ret := thenRet
		if ret == nil {
			ret = elseRet
		}
		f.errorf(CodeBranchReturn, ret.Span,
			"return must appear in the matching position of both branches").
			WithSecondary(cond.Span)
	}

	return out
}

// selection builds `guard ? then : else` for one merge point, reading the
// branch's final definition or the pre-conditional value when a branch
// does not write the variable.
func (f *Flattener) selection(guard ast.Expression, merge ssa.Merge, span source.Span) ast.Expression {
	thenOperand := &ast.Identifier{Name: merge.Then, Span: span}
	elseOperand := &ast.Identifier{Name: merge.Else, Span: span}
	thenOperand.SetType(merge.Type)
	elseOperand.SetType(merge.Type)

	sel := &ast.Ternary{
		Condition: ast.CloneExpression(guard),
		Then:      thenOperand,
		Otherwise: elseOperand,
		Span:      span,
	}
	sel.SetType(merge.Type)
	return sel
}

// mergeReturns merges matched tail returns of both branches into a single
// selected return.
func (f *Flattener) mergeReturns(guard ast.Expression, thenRet, elseRet *ast.Return, span source.Span) ast.Statement {
	if thenRet.Value == nil && elseRet.Value == nil {
		return &ast.Return{Span: span}
	}
	if thenRet.Value == nil || elseRet.Value == nil {
		f.errorf(CodeBranchReturn, span,
			"branches return mismatched values")
		return &ast.Return{Span: span}
	}
	sel := &ast.Ternary{
		Condition: ast.CloneExpression(guard),
		Then:      thenRet.Value,
		Otherwise: elseRet.Value,
		Span:      span,
	}
	if thenRet.Value.Typed() {
		sel.SetType(thenRet.Value.ResolvedType())
	}
	return &ast.Return{Value: sel, Span: span}
}

// flattenBranch flattens one branch bottom-up, then rewrites its side
// effects under the branch guard. A tail return is detached and returned
// separately for merging; any other return cannot be made branch-free.
func (f *Flattener) flattenBranch(block *ast.Block, guard ast.Expression, negate bool) ([]ast.Statement, *ast.Return) {
	inner := f.flattenBlock(block)

	stmts := inner.Statements
	var tail *ast.Return
	if n := len(stmts); n > 0 {
		if ret, ok := stmts[n-1].(*ast.Return); ok {
			tail = ret
			stmts = stmts[:n-1]
		}
	}

	out := make([]ast.Statement, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, f.guardStatement(stmt, guard, negate))
	}
	return out, tail
}

// guardStatement rewrites one branch statement so it is safe to execute
// unconditionally.
func (f *Flattener) guardStatement(stmt ast.Statement, guard ast.Expression, negate bool) ast.Statement {
	switch s := stmt.(type) {
	case *ast.Definition, *ast.Assign:
		// Pure writes: the selection assignments decide visibility.
		return stmt

	case *ast.AssertStatement:
		// assert(p) under guard g becomes the implication assert(!g || p).
		return &ast.AssertStatement{
			Predicate: f.implication(guard, negate, s.Predicate, s.Span),
			Span:      s.Span,
		}

	case *ast.Increment:
		return &ast.Increment{
			Mapping:     s.Mapping,
			MappingSpan: s.MappingSpan,
			Key:         s.Key,
			Amount:      f.guardedAmount(guard, negate, s.Amount, s.Span),
			Span:        s.Span,
		}

	case *ast.Decrement:
		return &ast.Decrement{
			Mapping:     s.Mapping,
			MappingSpan: s.MappingSpan,
			Key:         s.Key,
			Amount:      f.guardedAmount(guard, negate, s.Amount, s.Span),
			Span:        s.Span,
		}

	case *ast.Block:
		out := &ast.Block{Span: s.Span}
		for _, nested := range s.Statements {
			out.Statements = append(out.Statements, f.guardStatement(nested, guard, negate))
		}
		return out

	case *ast.Return:
		f.errorf(CodeBranchReturn, s.Span,
			"return inside a conditional must be the branch's final statement")
		return stmt

	case *ast.Iteration:
		f.errorf(CodeLoopInBranch, s.Span,
			"loops inside conditionals cannot be made branch-free")
		return stmt

	case *ast.FinalizeStatement:
		// Rejected during type checking; reaching here means the caller
		// skipped that pass.
		f.errorf(CodeUnsupported, s.Span,
			"async finalize inside a conditional cannot be made branch-free")
		return stmt

	default:
		f.errorf(CodeUnsupported, stmt.NodeSpan(),
			"statement kind %T cannot be made branch-free", stmt)
		return stmt
	}
}

// implication builds `!guard || predicate` (or `guard || predicate` for the
// else branch, where the guard is already negated once).
func (f *Flattener) implication(guard ast.Expression, negate bool, predicate ast.Expression, span source.Span) ast.Expression {
	antecedent := f.branchGuard(guard, !negate, span)
	// For the then branch the antecedent is !guard; for the else branch
	// the double negation cancels and the antecedent is guard itself.
	impl := &ast.Binary{
		Op:    ast.OpOr,
		Left:  antecedent,
		Right: predicate,
		Span:  span,
	}
	impl.SetType(types.Boolean)
	return impl
}

// guardedAmount rewrites a mapping update amount to select zero when the
// branch is not taken, keeping the update itself unconditional.
func (f *Flattener) guardedAmount(guard ast.Expression, negate bool, amount ast.Expression, span source.Span) ast.Expression {
	zero := zeroOf(amount.ResolvedType(), span)
	if zero == nil {
		f.errorf(CodeGuardedUpdate, span,
			"mapping update of type %s cannot be guarded", amount.ResolvedType())
		return amount
	}
	sel := &ast.Ternary{
		Condition: ast.CloneExpression(guard),
		Then:      amount,
		Otherwise: zero,
		Span:      span,
	}
	if negate {
		// Else branch: the amount applies when the guard is false.
		sel.Then, sel.Otherwise = zero, amount
	}
	sel.SetType(amount.ResolvedType())
	return sel
}

// branchGuard clones the guard, negated when requested.
func (f *Flattener) branchGuard(guard ast.Expression, negate bool, span source.Span) ast.Expression {
	g := ast.CloneExpression(guard)
	if !negate {
		return g
	}
	not := &ast.Unary{Op: ast.OpNot, Operand: g, Span: span}
	not.SetType(types.Boolean)
	return not
}

// zeroOf returns the additive identity literal for a guarded mapping
// update, or nil when the type has none.
func zeroOf(t types.Type, span source.Span) ast.Expression {
	var lit *ast.Literal
	switch t.Kind {
	case types.KindInteger:
		lit = &ast.Literal{Kind: ast.LitInteger, Text: "0", Width: t.Width, Span: span}
	case types.KindField:
		lit = &ast.Literal{Kind: ast.LitField, Text: "0", Span: span}
	case types.KindGroup:
		lit = &ast.Literal{Kind: ast.LitGroup, Text: "0", Span: span}
	case types.KindScalar:
		lit = &ast.Literal{Kind: ast.LitScalar, Text: "0", Span: span}
	default:
		return nil
	}
	lit.SetType(t)
	return lit
}
