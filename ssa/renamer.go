package ssa

import (
	"fmt"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/diag"
	"github.com/vela-lang/go-vela/types"
)

// Diagnostic codes emitted by this pass.
const (
	CodeLoopCarried = "ssa: loop-carried-assignment"
	CodeUnsupported = "ssa: unsupported-statement"
)

// versionSeparator joins an original name and its version number.
const versionSeparator = "$"

// Merge records one variable requiring selection after a conditional.
// Then precedes Else: the then-branch's final definition becomes the first
// selection operand, the else-branch's the second, and the pre-conditional
// name substitutes for a branch that does not write.
type Merge struct {
	Name   string     // original source name
	Merged string     // fresh version holding the selected value
	Then   string     // final definition reaching the end of the then branch
	Else   string     // final definition reaching the end of the else branch
	Prior  string     // definition reaching the conditional itself
	Type   types.Type // the variable's resolved type
}

// BranchTables holds the per-branch rename tables of one conditional.
type BranchTables struct {
	Then *RenameTable
	Else *RenameTable
}

// Result is the output of renaming: a fresh tree plus the rename tables and
// merge points the flattener consumes.
type Result struct {
	Program *ast.Program
	Roots   map[string]*RenameTable          // function name -> body table
	Tables  map[*ast.Conditional]*BranchTables
	Merges  map[*ast.Conditional][]Merge
}

// Renamer rewrites one compilation unit into SSA form.
type Renamer struct {
	bag      *diag.Bag
	counter  map[string]int
	roots    map[string]*RenameTable
	tables   map[*ast.Conditional]*BranchTables
	merges   map[*ast.Conditional][]Merge
	varTypes map[string]types.Type // versioned name -> resolved type
}

// Rename produces an SSA-renamed copy of a type-checked program. The input
// tree is not modified.
func Rename(program *ast.Program, bag *diag.Bag) *Result {
	r := &Renamer{
		bag:      bag,
		counter:  make(map[string]int),
		roots:    make(map[string]*RenameTable),
		tables:   make(map[*ast.Conditional]*BranchTables),
		merges:   make(map[*ast.Conditional][]Merge),
		varTypes: make(map[string]types.Type),
	}

	out := &ast.Program{
		Name:     program.Name,
		Structs:  program.Structs,
		Mappings: program.Mappings,
		Span:     program.Span,
	}
	for _, fn := range program.Functions {
		out.Functions = append(out.Functions, r.renameFunction(fn))
	}

	return &Result{
		Program: out,
		Roots:   r.roots,
		Tables:  r.tables,
		Merges:  r.merges,
	}
}

func (r *Renamer) fresh(name string) string {
	r.counter[name]++
	return fmt.Sprintf("%s%s%d", name, versionSeparator, r.counter[name])
}

func (r *Renamer) renameFunction(fn *ast.Function) *ast.Function {
	table := NewRenameTable()
	for _, p := range fn.Params {
		// Parameters keep their source name as version zero.
		table.Declare(p.Name, p.Name)
		r.varTypes[p.Name] = p.Type
	}
	r.roots[fn.Kind.String()+":"+fn.Name] = table

	return &ast.Function{
		Kind:       fn.Kind,
		Name:       fn.Name,
		Params:     fn.Params,
		ReturnType: fn.ReturnType,
		Body:       r.renameBlockInto(fn.Body, table),
		Span:       fn.Span,
	}
}

// renameBlockInto renames a block's statements directly in the given table.
func (r *Renamer) renameBlockInto(block *ast.Block, table *RenameTable) *ast.Block {
	out := &ast.Block{Span: block.Span}
	for _, stmt := range block.Statements {
		out.Statements = append(out.Statements, r.renameStatement(stmt, table))
	}
	return out
}

func (r *Renamer) renameStatement(stmt ast.Statement, table *RenameTable) ast.Statement {
	switch s := stmt.(type) {
	case *ast.Block:
		// A bare block executes unconditionally, so its writes to
		// enclosing variables are the definitions reaching the statements
		// after it. Re-defining them in the enclosing table keeps reads
		// after the block on the current version and lets branch and loop
		// tables see writes hidden inside nested blocks.
		child := table.Child()
		out := r.renameBlockInto(s, child)
		for _, name := range child.Written() {
			if v, ok := child.Lookup(name); ok {
				table.Define(name, v)
			}
		}
		return out

	case *ast.Definition:
		valueExpr := r.renameExpression(s.Value, table)
		versioned := r.fresh(s.Name)
		table.Declare(s.Name, versioned)
		r.varTypes[versioned] = s.Type
		return &ast.Definition{
			Const: s.Const,
			Name:  versioned,
			Type:  s.Type,
			Value: valueExpr,
			Span:  s.Span,
		}

	case *ast.Assign:
		valueExpr := r.renameExpression(s.Value, table)
		versioned := r.fresh(s.Name)
		table.Define(s.Name, versioned)
		r.varTypes[versioned] = valueExpr.ResolvedType()
		return &ast.Assign{
			Name:     versioned,
			NameSpan: s.NameSpan,
			Value:    valueExpr,
			Span:     s.Span,
		}

	case *ast.Conditional:
		return r.renameConditional(s, table)

	case *ast.Iteration:
		return r.renameIteration(s, table)

	case *ast.Return:
		var valueExpr ast.Expression
		if s.Value != nil {
			valueExpr = r.renameExpression(s.Value, table)
		}
		return &ast.Return{Value: valueExpr, Span: s.Span}

	case *ast.AssertStatement:
		return &ast.AssertStatement{
			Predicate: r.renameExpression(s.Predicate, table),
			Span:      s.Span,
		}

	case *ast.FinalizeStatement:
		out := &ast.FinalizeStatement{Span: s.Span}
		for _, arg := range s.Arguments {
			out.Arguments = append(out.Arguments, r.renameExpression(arg, table))
		}
		return out

	case *ast.Increment:
		return &ast.Increment{
			Mapping:     s.Mapping,
			MappingSpan: s.MappingSpan,
			Key:         r.renameExpression(s.Key, table),
			Amount:      r.renameExpression(s.Amount, table),
			Span:        s.Span,
		}

	case *ast.Decrement:
		return &ast.Decrement{
			Mapping:     s.Mapping,
			MappingSpan: s.MappingSpan,
			Key:         r.renameExpression(s.Key, table),
			Amount:      r.renameExpression(s.Amount, table),
			Span:        s.Span,
		}

	default:
		r.bag.Errorf(CodeUnsupported, stmt.NodeSpan(),
			"unsupported statement kind %T", stmt)
		return stmt
	}
}

// renameConditional renames both branches in child tables and records a
// merge point for every outer variable written in at least one branch.
func (r *Renamer) renameConditional(cond *ast.Conditional, table *RenameTable) ast.Statement {
	condExpr := r.renameExpression(cond.Condition, table)

	thenTable := table.Child()
	thenBlock := r.renameBlockInto(cond.Then, thenTable)

	elseTable := table.Child()
	var elseBlock *ast.Block
	if cond.Otherwise != nil {
		elseBlock = r.renameBlockInto(cond.Otherwise, elseTable)
	}

	// Union of written variables; then-branch order first, per declaration
	// order of branch evaluation.
	names := append([]string{}, thenTable.Written()...)
	for _, name := range elseTable.Written() {
		if !contains(names, name) {
			names = append(names, name)
		}
	}

	out := &ast.Conditional{
		Condition: condExpr,
		Then:      thenBlock,
		Otherwise: elseBlock,
		Span:      cond.Span,
	}

	var merges []Merge
	for _, name := range names {
		prior, ok := table.Lookup(name)
		if !ok {
			prior = name
		}
		merged := r.fresh(name)
		varType := r.varTypes[prior]
		if t, ok := r.varTypes[finalName(thenTable, name, prior)]; ok {
			varType = t
		}
		r.varTypes[merged] = varType
		merges = append(merges, Merge{
			Name:   name,
			Merged: merged,
			Then:   finalName(thenTable, name, prior),
			Else:   finalName(elseTable, name, prior),
			Prior:  prior,
			Type:   varType,
		})
		table.Define(name, merged)
	}

	r.tables[out] = &BranchTables{Then: thenTable, Else: elseTable}
	r.merges[out] = merges
	return out
}

// finalName resolves the definition of name reaching the end of a branch.
// A branch that never writes the variable falls through to prior.
func finalName(branch *RenameTable, name, prior string) string {
	if v, ok := branch.Lookup(name); ok {
		return v
	}
	return prior
}

// renameIteration renames a bounded loop. Loop bodies may not assign to
// variables declared outside the loop: with a variable trip count there is
// no static definition point for such a write, so it is rejected here
// rather than failing downstream.
func (r *Renamer) renameIteration(iter *ast.Iteration, table *RenameTable) ast.Statement {
	start := r.renameExpression(iter.Start, table)
	stop := r.renameExpression(iter.Stop, table)

	bodyTable := table.Child()
	loopVar := r.fresh(iter.Variable)
	bodyTable.Declare(iter.Variable, loopVar)
	r.varTypes[loopVar] = iter.Type
	body := r.renameBlockInto(iter.Body, bodyTable)

	for _, name := range bodyTable.Written() {
		r.bag.Errorf(CodeLoopCarried, iter.Span,
			"cannot assign to %q inside a loop body: the variable is declared outside the loop", name).
			WithHint("accumulate into a variable declared inside the loop or restructure the loop")
	}

	return &ast.Iteration{
		Variable: loopVar,
		Type:     iter.Type,
		Start:    start,
		Stop:     stop,
		Body:     body,
		Span:     iter.Span,
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
