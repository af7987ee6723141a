// Package source provides positions and spans for diagnostics.
package source

import "fmt"

// Position is a location in a source file.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // byte offset, 0-based
}

// Span covers a contiguous region of source text.
type Span struct {
	Start Position
	End   Position
}

// NewSpan creates a span from start and end positions.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// Pos creates a single-line span from line, column and width.
func Pos(line, column, width int) Span {
	return Span{
		Start: Position{Line: line, Column: column},
		End:   Position{Line: line, Column: column + width},
	}
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s == Span{}
}

// Before reports whether s starts strictly before other in source order.
func (s Span) Before(other Span) bool {
	if s.Start.Line != other.Start.Line {
		return s.Start.Line < other.Start.Line
	}
	return s.Start.Column < other.Start.Column
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%d:%d-%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}
