// Package report persists compilation reports for tooling. The pipeline
// itself performs no I/O; callers append a report per unit after a run.
package report

import (
	"context"
	"time"

	"github.com/vela-lang/go-vela/compile"
	"github.com/vela-lang/go-vela/diag"
)

// Report is one recorded pipeline run.
type Report struct {
	UnitID      string             `json:"unit_id"`
	Program     string             `json:"program"`
	CreatedAt   time.Time          `json:"created_at"`
	Ok          bool               `json:"ok"`
	Errors      int                `json:"errors"`
	Warnings    int                `json:"warnings"`
	Diagnostics []*diag.Diagnostic `json:"diagnostics,omitempty"`
}

// FromResult builds a report from a pipeline result.
func FromResult(program string, result *compile.Result) *Report {
	return &Report{
		UnitID:      result.UnitID,
		Program:     program,
		CreatedAt:   time.Now().UTC(),
		Ok:          result.Ok(),
		Errors:      result.Stats.Errors,
		Warnings:    result.Stats.Warnings,
		Diagnostics: result.Diagnostics,
	}
}

// Store records compilation reports.
type Store interface {
	// Append stores one report.
	Append(ctx context.Context, report *Report) error
	// List returns the reports for a program name, oldest first.
	List(ctx context.Context, program string) ([]*Report, error)
	// Close releases the store's resources.
	Close() error
}
