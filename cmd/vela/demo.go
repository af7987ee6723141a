package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/compile"
	"github.com/vela-lang/go-vela/report"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// demo runs the bundled sample programs through the full pipeline and prints
// diagnostics and per-unit statistics. The parser front half ships
// separately; the samples are built directly as trees.
func demo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	dbPath := fs.String("db", "", "Append a report per unit to this SQLite database")
	verbose := fs.Bool("v", false, "Print every diagnostic, not just counts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vela demo [options]

Run the bundled sample programs through type checking, SSA renaming and
conditional flattening.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var store report.Store
	if *dbPath != "" {
		s, err := report.NewSQLiteStore(*dbPath)
		if err != nil {
			return fmt.Errorf("open report store: %w", err)
		}
		defer s.Close()
		store = s
	}

	for _, program := range samplePrograms() {
		unit := compile.NewUnit(program)
		result, err := unit.Run()
		if err != nil {
			fmt.Printf("%-12s FAILED: %v\n", program.Name, err)
		} else if result.Ok() {
			fmt.Printf("%-12s ok (%s)\n", program.Name, result.Stats)
		} else {
			fmt.Printf("%-12s %d error(s)\n", program.Name, result.Stats.Errors)
		}
		if *verbose {
			for _, d := range result.Diagnostics {
				fmt.Printf("  %s\n", d)
			}
		}
		if store != nil {
			if err := store.Append(context.Background(), report.FromResult(program.Name, result)); err != nil {
				return fmt.Errorf("record report: %w", err)
			}
		}
	}
	return nil
}

// samplePrograms returns small programs covering the pipeline's surface:
// a clean conditional transition, a mapping-backed token flow, and a
// program with a deliberate type error.
func samplePrograms() []*ast.Program {
	return []*ast.Program{
		clampProgram(),
		creditsProgram(),
		brokenProgram(),
	}
}

// clampProgram: a transition whose conditional write flattens into a
// selection.
func clampProgram() *ast.Program {
	sp := func(line int) source.Span { return source.Pos(line, 1, 8) }
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("clamp")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "clamp",
			[]*ast.Param{ast.P("v", u64, sp(1)), ast.P("limit", u64, sp(1))}, u64,
			ast.NewBlock(sp(1),
				ast.Let("out", u64, ast.Ident("v", sp(2)), sp(2)),
				ast.If(ast.Bin(ast.OpGt, ast.Ident("v", sp(3)), ast.Ident("limit", sp(3)), sp(3)),
					ast.NewBlock(sp(3),
						ast.Set("out", ast.Ident("limit", sp(4)), sp(4)),
					), sp(3)),
				ast.Ret(ast.Ident("out", sp(6)), sp(6)),
			), sp(1)),
	)
	return p
}

// creditsProgram: a transition/finalize pair with a guarded mapping update.
func creditsProgram() *ast.Program {
	sp := func(line int) source.Span { return source.Pos(line, 1, 8) }
	u128 := types.Integer(types.U128)
	p := ast.NewProgram("credits")
	p.Mappings = append(p.Mappings, &ast.Mapping{
		Name: "balances", Key: types.Address, Value: u128, Span: sp(1),
	})
	params := []*ast.Param{
		ast.P("refund", types.Boolean, sp(2)),
		ast.P("who", types.Address, sp(2)),
		ast.P("amount", u128, sp(2)),
	}
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "settle", params, types.Unit,
			ast.NewBlock(sp(2),
				ast.AsyncFinalize(sp(3),
					ast.Ident("refund", sp(3)), ast.Ident("who", sp(3)), ast.Ident("amount", sp(3))),
			), sp(2)),
		ast.NewFunction(ast.Finalize, "settle", params, types.Unit,
			ast.NewBlock(sp(5),
				ast.IfElse(ast.Ident("refund", sp(6)),
					ast.NewBlock(sp(6),
						ast.Inc("balances", ast.Ident("who", sp(7)), ast.Ident("amount", sp(7)), sp(7))),
					ast.NewBlock(sp(8),
						ast.Dec("balances", ast.Ident("who", sp(9)), ast.Ident("amount", sp(9)), sp(9))),
					sp(6)),
			), sp(5)),
	)
	return p
}

// brokenProgram: returns an undefined identifier, demonstrating diagnostics.
func brokenProgram() *ast.Program {
	sp := func(line int) source.Span { return source.Pos(line, 1, 8) }
	p := ast.NewProgram("broken")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "oops", nil, types.Integer(types.U64),
			ast.NewBlock(sp(1),
				ast.Ret(ast.Ident("missing", sp(2)), sp(2)),
			), sp(1)),
	)
	return p
}
