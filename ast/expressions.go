package ast

import (
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

// Expression is implemented by every expression variant. Every expression
// carries a resolved type after type checking.
type Expression interface {
	Node
	exprNode()
	SetType(types.Type)
	ResolvedType() types.Type
	Typed() bool
}

// LiteralKind identifies the lexical class of a literal.
type LiteralKind int

const (
	LitBoolean LiteralKind = iota
	LitInteger
	LitField
	LitGroup
	LitScalar
	LitAddress
	LitString
)

func (k LiteralKind) String() string {
	switch k {
	case LitBoolean:
		return "boolean"
	case LitInteger:
		return "integer"
	case LitField:
		return "field"
	case LitGroup:
		return "group"
	case LitScalar:
		return "scalar"
	case LitAddress:
		return "address"
	case LitString:
		return "string"
	default:
		return "?"
	}
}

// Literal is a constant. Integer literals keep their digits in Text and
// their width suffix in Width; field/group/scalar literals keep digits in
// Text. Boolean literals use Text "true"/"false".
type Literal struct {
	TypeInfo
	Kind  LiteralKind
	Text  string
	Width types.IntegerWidth // for LitInteger
	Span  source.Span
}

func (l *Literal) NodeSpan() source.Span { return l.Span }
func (l *Literal) exprNode()             {}

// Identifier is a variable reference.
type Identifier struct {
	TypeInfo
	Name string
	Span source.Span
}

func (i *Identifier) NodeSpan() source.Span { return i.Span }
func (i *Identifier) exprNode()             {}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Comparison reports whether the operator compares its operands and
// produces a boolean.
func (op BinaryOp) Comparison() bool {
	switch op {
	case OpEq, OpNeq, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// Logical reports whether the operator requires boolean operands.
func (op BinaryOp) Logical() bool {
	return op == OpAnd || op == OpOr
}

// Binary applies a binary operator to two operands.
type Binary struct {
	TypeInfo
	Op    BinaryOp
	Left  Expression
	Right Expression
	Span  source.Span
}

func (b *Binary) NodeSpan() source.Span { return b.Span }
func (b *Binary) exprNode()             {}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	case OpNeg:
		return "-"
	default:
		return "?"
	}
}

// Unary applies a unary operator to one operand.
type Unary struct {
	TypeInfo
	Op      UnaryOp
	Operand Expression
	Span    source.Span
}

func (u *Unary) NodeSpan() source.Span { return u.Span }
func (u *Unary) exprNode()             {}

// Ternary is a selection expression `condition ? then : otherwise`.
// The flattener synthesizes these to replace conditional statements.
type Ternary struct {
	TypeInfo
	Condition Expression
	Then      Expression
	Otherwise Expression
	Span      source.Span
}

func (t *Ternary) NodeSpan() source.Span { return t.Span }
func (t *Ternary) exprNode()             {}

// Call invokes a standard function by name.
type Call struct {
	TypeInfo
	Function  string
	Arguments []Expression
	Span      source.Span
}

func (c *Call) NodeSpan() source.Span { return c.Span }
func (c *Call) exprNode()             {}

// MemberAccess reads a field of a struct or record value, or one of the
// `self` members (self.caller, self.signer).
type MemberAccess struct {
	TypeInfo
	Receiver   Expression
	Member     string
	MemberSpan source.Span
	Span       source.Span
}

func (m *MemberAccess) NodeSpan() source.Span { return m.Span }
func (m *MemberAccess) exprNode()             {}

// TupleAccess reads one element of a tuple value by constant index.
type TupleAccess struct {
	TypeInfo
	Receiver Expression
	Index    int
	Span     source.Span
}

func (t *TupleAccess) NodeSpan() source.Span { return t.Span }
func (t *TupleAccess) exprNode()             {}

// StructInitField is one field initializer. Value nil is the shorthand
// form `Foo { x }`, equivalent to `Foo { x: x }`.
type StructInitField struct {
	Name  string
	Value Expression
	Span  source.Span
}

func (f *StructInitField) NodeSpan() source.Span { return f.Span }

// StructInit constructs a struct or record value by name.
type StructInit struct {
	TypeInfo
	Name   string
	Fields []*StructInitField
	Span   source.Span
}

func (s *StructInit) NodeSpan() source.Span { return s.Span }
func (s *StructInit) exprNode()             {}
