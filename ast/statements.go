package ast

import (
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// Statement is implemented by every statement variant.
type Statement interface {
	Node
	stmtNode()
}

// Block is a brace-delimited statement sequence opening a lexical scope.
type Block struct {
	Statements []Statement
	Span       source.Span
}

func (b *Block) NodeSpan() source.Span { return b.Span }
func (b *Block) stmtNode()             {}

// Conditional is an if/else statement. Otherwise is nil when there is no
// else branch.
type Conditional struct {
	Condition Expression
	Then      *Block
	Otherwise *Block
	Span      source.Span
}

func (c *Conditional) NodeSpan() source.Span { return c.Span }
func (c *Conditional) stmtNode()             {}

// Definition declares a new variable with `let` or `const`.
type Definition struct {
	Const bool
	Name  string
	Type  types.Type
	Value Expression
	Span  source.Span
}

func (d *Definition) NodeSpan() source.Span { return d.Span }
func (d *Definition) stmtNode()             {}

// Assign writes a new value to an existing variable.
type Assign struct {
	Name     string
	NameSpan source.Span
	Value    Expression
	Span     source.Span
}

func (a *Assign) NodeSpan() source.Span { return a.Span }
func (a *Assign) stmtNode()             {}

// Iteration is a bounded `for variable: type in start..stop` loop.
type Iteration struct {
	Variable string
	Type     types.Type
	Start    Expression
	Stop     Expression
	Body     *Block
	Span     source.Span
}

func (i *Iteration) NodeSpan() source.Span { return i.Span }
func (i *Iteration) stmtNode()             {}

// Return exits the enclosing function. Value is nil for unit returns.
type Return struct {
	Value Expression
	Span  source.Span
}

func (r *Return) NodeSpan() source.Span { return r.Span }
func (r *Return) stmtNode()             {}

// AssertStatement is a console assertion over a boolean predicate.
type AssertStatement struct {
	Predicate Expression
	Span      source.Span
}

func (a *AssertStatement) NodeSpan() source.Span { return a.Span }
func (a *AssertStatement) stmtNode()             {}

// FinalizeStatement is an `async finalize(args...)` call inside a
// transition body, dispatching to the finalize function of the same name.
type FinalizeStatement struct {
	Arguments []Expression
	Span      source.Span
}

func (f *FinalizeStatement) NodeSpan() source.Span { return f.Span }
func (f *FinalizeStatement) stmtNode()             {}

// Increment adds Amount to Mapping[Key]. Legal only in finalize bodies.
type Increment struct {
	Mapping     string
	MappingSpan source.Span
	Key         Expression
	Amount      Expression
	Span        source.Span
}

func (i *Increment) NodeSpan() source.Span { return i.Span }
func (i *Increment) stmtNode()             {}

// Decrement subtracts Amount from Mapping[Key]. Legal only in finalize bodies.
type Decrement struct {
	Mapping     string
	MappingSpan source.Span
	Key         Expression
	Amount      Expression
	Span        source.Span
}

func (d *Decrement) NodeSpan() source.Span { return d.Span }
func (d *Decrement) stmtNode()             {}
