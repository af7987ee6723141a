// Package diag collects and formats compiler diagnostics.
//
// A Bag is owned by exactly one compilation unit; passes append to it and
// never share it across units, so concurrent compilation of independent
// units needs no locking.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vela-lang/go-vela/source"
)

// Severity distinguishes errors from warnings.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "?"
	}
}

// Diagnostic is one reported problem with source context.
type Diagnostic struct {
	Code      string // stable namespaced code, e.g. "type-checker: mismatched-types"
	Severity  Severity
	Message   string
	Span      source.Span
	Secondary []source.Span
	Hint      string
}

func (d *Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s]: %s (%s)", d.Severity, d.Code, d.Message, d.Span)
	if d.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", d.Hint)
	}
	return b.String()
}

// Bag is an append-only diagnostics buffer.
type Bag struct {
	diagnostics []*Diagnostic
}

// NewBag creates an empty diagnostics buffer.
func NewBag() *Bag {
	return &Bag{diagnostics: make([]*Diagnostic, 0)}
}

// Errorf appends an error diagnostic.
func (b *Bag) Errorf(code string, span source.Span, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
	b.diagnostics = append(b.diagnostics, d)
	return d
}

// Warnf appends a warning diagnostic.
func (b *Bag) Warnf(code string, span source.Span, format string, args ...any) *Diagnostic {
	d := &Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
	b.diagnostics = append(b.diagnostics, d)
	return d
}

// WithHint attaches a remediation hint and returns the diagnostic.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

// WithSecondary attaches a secondary span and returns the diagnostic.
func (d *Diagnostic) WithSecondary(span source.Span) *Diagnostic {
	d.Secondary = append(d.Secondary, span)
	return d
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	for _, d := range b.diagnostics {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of recorded diagnostics.
func (b *Bag) Len() int {
	return len(b.diagnostics)
}

// Errors returns only error-severity diagnostics, in source order.
func (b *Bag) Errors() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range b.All() {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only warning-severity diagnostics, in source order.
func (b *Bag) Warnings() []*Diagnostic {
	var out []*Diagnostic
	for _, d := range b.All() {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

// All returns every diagnostic sorted by primary span in source order.
// The sort is stable so diagnostics at the same span keep emission order,
// which keeps golden output reproducible.
func (b *Bag) All() []*Diagnostic {
	out := make([]*Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Before(out[j].Span)
	})
	return out
}
