package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vela-lang/go-vela/report"
)

// reports lists the recorded pipeline reports for one program.
func reports(args []string) error {
	fs := flag.NewFlagSet("reports", flag.ExitOnError)
	dbPath := fs.String("db", "vela.db", "SQLite database holding the reports")
	program := fs.String("program", "", "Program name to list reports for")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vela reports -program <name> [options]

List recorded pipeline reports for a program, oldest first.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *program == "" {
		fs.Usage()
		return fmt.Errorf("missing -program")
	}

	store, err := report.NewSQLiteStore(*dbPath)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	defer store.Close()

	list, err := store.List(context.Background(), *program)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	if len(list) == 0 {
		fmt.Printf("no reports for %q\n", *program)
		return nil
	}

	for _, r := range list {
		status := "ok"
		if !r.Ok {
			status = "failed"
		}
		fmt.Printf("%s  %s  %-6s  errors=%d warnings=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.UnitID, status, r.Errors, r.Warnings)
	}
	return nil
}
