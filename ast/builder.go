package ast

// Constructor helpers for building trees in tests and in passes that
// synthesize nodes. Spans default to zero; callers that need diagnostics
// anchored to real source attach spans on the returned node.

import (
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// NewProgram creates an empty program.
func NewProgram(name string) *Program {
	return &Program{
		Name:      name,
		Structs:   make([]*Struct, 0),
		Mappings:  make([]*Mapping, 0),
		Functions: make([]*Function, 0),
	}
}

// Ident creates an identifier expression.
func Ident(name string, span source.Span) *Identifier {
	return &Identifier{Name: name, Span: span}
}

// Bool creates a boolean literal.
func Bool(value bool, span source.Span) *Literal {
	text := "false"
	if value {
		text = "true"
	}
	return &Literal{Kind: LitBoolean, Text: text, Span: span}
}

// Int creates an integer literal with the given width suffix.
func Int(text string, width types.IntegerWidth, span source.Span) *Literal {
	return &Literal{Kind: LitInteger, Text: text, Width: width, Span: span}
}

// FieldLit creates a field element literal.
func FieldLit(text string, span source.Span) *Literal {
	return &Literal{Kind: LitField, Text: text, Span: span}
}

// AddressLit creates an address literal.
func AddressLit(text string, span source.Span) *Literal {
	return &Literal{Kind: LitAddress, Text: text, Span: span}
}

// Bin creates a binary expression.
func Bin(op BinaryOp, left, right Expression, span source.Span) *Binary {
	return &Binary{Op: op, Left: left, Right: right, Span: span}
}

// Un creates a unary expression.
func Un(op UnaryOp, operand Expression, span source.Span) *Unary {
	return &Unary{Op: op, Operand: operand, Span: span}
}

// Select creates a ternary selection expression.
func Select(cond, then, otherwise Expression, span source.Span) *Ternary {
	return &Ternary{Condition: cond, Then: then, Otherwise: otherwise, Span: span}
}

// Member creates a member access expression.
func Member(receiver Expression, member string, span source.Span) *MemberAccess {
	return &MemberAccess{Receiver: receiver, Member: member, MemberSpan: span, Span: span}
}

// SelfCaller creates the `self.caller` expression.
func SelfCaller(span source.Span) *MemberAccess {
	return Member(Ident("self", span), "caller", span)
}

// Init creates a struct initializer field with an explicit value.
func Init(name string, value Expression, span source.Span) *StructInitField {
	return &StructInitField{Name: name, Value: value, Span: span}
}

// InitShorthand creates a shorthand struct initializer field `Foo { x }`.
func InitShorthand(name string, span source.Span) *StructInitField {
	return &StructInitField{Name: name, Span: span}
}

// Let creates a `let` definition statement.
func Let(name string, typ types.Type, value Expression, span source.Span) *Definition {
	return &Definition{Name: name, Type: typ, Value: value, Span: span}
}

// Const creates a `const` definition statement.
func Const(name string, typ types.Type, value Expression, span source.Span) *Definition {
	return &Definition{Const: true, Name: name, Type: typ, Value: value, Span: span}
}

// Set creates an assignment statement.
func Set(name string, value Expression, span source.Span) *Assign {
	return &Assign{Name: name, NameSpan: span, Value: value, Span: span}
}

// NewBlock creates a block from the given statements.
func NewBlock(span source.Span, stmts ...Statement) *Block {
	return &Block{Statements: stmts, Span: span}
}

// If creates a conditional statement without an else branch.
func If(cond Expression, then *Block, span source.Span) *Conditional {
	return &Conditional{Condition: cond, Then: then, Span: span}
}

// IfElse creates a conditional statement with both branches.
func IfElse(cond Expression, then, otherwise *Block, span source.Span) *Conditional {
	return &Conditional{Condition: cond, Then: then, Otherwise: otherwise, Span: span}
}

// Assert creates a console assertion statement.
func Assert(predicate Expression, span source.Span) *AssertStatement {
	return &AssertStatement{Predicate: predicate, Span: span}
}

// AsyncFinalize creates an `async finalize(args...)` statement.
func AsyncFinalize(span source.Span, args ...Expression) *FinalizeStatement {
	return &FinalizeStatement{Arguments: args, Span: span}
}

// Ret creates a return statement.
func Ret(value Expression, span source.Span) *Return {
	return &Return{Value: value, Span: span}
}

// Inc creates a mapping increment statement.
func Inc(mapping string, key, amount Expression, span source.Span) *Increment {
	return &Increment{Mapping: mapping, MappingSpan: span, Key: key, Amount: amount, Span: span}
}

// Dec creates a mapping decrement statement.
func Dec(mapping string, key, amount Expression, span source.Span) *Decrement {
	return &Decrement{Mapping: mapping, MappingSpan: span, Key: key, Amount: amount, Span: span}
}

// NewFunction creates a function declaration.
func NewFunction(kind FunctionKind, name string, params []*Param, ret types.Type, body *Block, span source.Span) *Function {
	if ret.Kind == types.KindErr {
		ret = types.Unit
	}
	return &Function{Kind: kind, Name: name, Params: params, ReturnType: ret, Body: body, Span: span}
}

// P creates a function parameter.
func P(name string, typ types.Type, span source.Span) *Param {
	return &Param{Name: name, Type: typ, Span: span}
}
