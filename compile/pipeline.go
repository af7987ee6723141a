// Package compile orchestrates the semantic analysis pipeline:
// type check -> SSA rename -> flatten.
//
// Each Unit owns its symbol table and diagnostics buffer and shares nothing
// with other units, so independent units can run on separate goroutines.
package compile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/diag"
	"github.com/vela-lang/go-vela/flatten"
	"github.com/vela-lang/go-vela/ssa"
	"github.com/vela-lang/go-vela/symbols"
	"github.com/vela-lang/go-vela/typecheck"
)

// Unit is one compilation unit flowing through the pipeline.
type Unit struct {
	ID      string
	Program *ast.Program

	table *symbols.Table
	bag   *diag.Bag
}

// NewUnit creates a pipeline instance for one program.
func NewUnit(program *ast.Program) *Unit {
	return &Unit{
		ID:      uuid.New().String(),
		Program: program,
		table:   symbols.NewTable(),
		bag:     diag.NewBag(),
	}
}

// Stats summarizes one pipeline run.
type Stats struct {
	Functions    int
	Conditionals int // conditionals eliminated by flattening
	Selections   int // selection expressions synthesized
	Errors       int
	Warnings     int
}

func (s *Stats) String() string {
	return fmt.Sprintf("functions=%d conditionals=%d selections=%d errors=%d warnings=%d",
		s.Functions, s.Conditionals, s.Selections, s.Errors, s.Warnings)
}

// Result holds the output of a successful or failed pipeline run.
type Result struct {
	UnitID      string
	Program     *ast.Program // flattened tree; nil when errors were reported
	Diagnostics []*diag.Diagnostic
	Stats       *Stats
}

// Ok reports whether the unit may proceed to code generation. Warnings do
// not block; any error does.
func (r *Result) Ok() bool {
	return r.Program != nil
}

// Run executes the pipeline. The returned error is non-nil only for
// flattening failures, which abandon the unit; type errors are reported
// through the result's diagnostics instead.
func (u *Unit) Run() (*Result, error) {
	stats := &Stats{Functions: len(u.Program.Functions)}
	result := &Result{UnitID: u.ID, Stats: stats}

	typecheck.Check(u.Program, u.table, u.bag)
	if u.bag.HasErrors() {
		return u.finish(result, nil), nil
	}

	renamed := ssa.Rename(u.Program, u.bag)
	if u.bag.HasErrors() {
		return u.finish(result, nil), nil
	}
	for _, merges := range renamed.Merges {
		stats.Conditionals++
		stats.Selections += len(merges)
	}

	flat, err := flatten.Flatten(renamed, u.bag)
	if err != nil {
		u.finish(result, nil)
		return result, err
	}

	return u.finish(result, flat), nil
}

func (u *Unit) finish(result *Result, flat *ast.Program) *Result {
	result.Program = flat
	result.Diagnostics = u.bag.All()
	result.Stats.Errors = len(u.bag.Errors())
	result.Stats.Warnings = len(u.bag.Warnings())
	return result
}
