// Package types defines the Vela type system used by the semantic passes.
package types

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a type.
type Kind int

const (
	KindErr Kind = iota // sentinel for ill-typed expressions
	KindUnit
	KindBoolean
	KindAddress
	KindField
	KindGroup
	KindScalar
	KindString
	KindInteger
	KindTuple
	KindNamed // struct or record, resolved by name through the symbol table
	KindMapping
)

// IntegerWidth identifies an integer type's width and signedness.
type IntegerWidth int

const (
	U8 IntegerWidth = iota
	U16
	U32
	U64
	U128
	I8
	I16
	I32
	I64
	I128
)

func (w IntegerWidth) String() string {
	switch w {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case I128:
		return "i128"
	default:
		return "?"
	}
}

// Signed reports whether the width is a signed integer width.
func (w IntegerWidth) Signed() bool {
	return w >= I8
}

// Bits returns the bit width.
func (w IntegerWidth) Bits() uint {
	switch w {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	case U128, I128:
		return 128
	default:
		return 0
	}
}

// Type is an immutable type descriptor. Compare with Equal, not ==,
// since tuple types hold slices.
type Type struct {
	Kind    Kind
	Width   IntegerWidth // for KindInteger
	Name    string       // for KindNamed
	Elems   []Type       // for KindTuple
	Key     *Type        // for KindMapping
	Value   *Type        // for KindMapping
	aRecord bool         // for KindNamed: declared with `record`
}

var (
	Err     = Type{Kind: KindErr}
	Unit    = Type{Kind: KindUnit}
	Boolean = Type{Kind: KindBoolean}
	Address = Type{Kind: KindAddress}
	Field   = Type{Kind: KindField}
	Group   = Type{Kind: KindGroup}
	Scalar  = Type{Kind: KindScalar}
	String  = Type{Kind: KindString}
)

// Integer returns the integer type of the given width.
func Integer(w IntegerWidth) Type {
	return Type{Kind: KindInteger, Width: w}
}

// Named returns a struct or record type reference.
func Named(name string, record bool) Type {
	return Type{Kind: KindNamed, Name: name, aRecord: record}
}

// Tuple returns a tuple type over the given element types.
func Tuple(elems ...Type) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

// Mapping returns a mapping type from key to value.
func Mapping(key, value Type) Type {
	return Type{Kind: KindMapping, Key: &key, Value: &value}
}

// IsErr reports whether t is the error sentinel.
func (t Type) IsErr() bool {
	return t.Kind == KindErr
}

// IsInteger reports whether t is an integer type.
func (t Type) IsInteger() bool {
	return t.Kind == KindInteger
}

// IsRecord reports whether t names a record type.
func (t Type) IsRecord() bool {
	return t.Kind == KindNamed && t.aRecord
}

// IsArithmetic reports whether arithmetic operators apply to t.
func (t Type) IsArithmetic() bool {
	switch t.Kind {
	case KindInteger, KindField, KindGroup, KindScalar:
		return true
	default:
		return false
	}
}

// Equal reports structural equality. The error sentinel equals nothing,
// including itself, so recovery placeholders never satisfy a check.
func (t Type) Equal(other Type) bool {
	if t.Kind == KindErr || other.Kind == KindErr {
		return false
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInteger:
		return t.Width == other.Width
	case KindNamed:
		return t.Name == other.Name
	case KindTuple:
		if len(t.Elems) != len(other.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(other.Elems[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return t.Key.Equal(*other.Key) && t.Value.Equal(*other.Value)
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case KindErr:
		return "<error>"
	case KindUnit:
		return "()"
	case KindBoolean:
		return "bool"
	case KindAddress:
		return "address"
	case KindField:
		return "field"
	case KindGroup:
		return "group"
	case KindScalar:
		return "scalar"
	case KindString:
		return "string"
	case KindInteger:
		return t.Width.String()
	case KindNamed:
		return t.Name
	case KindTuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindMapping:
		return fmt.Sprintf("mapping %s => %s", t.Key, t.Value)
	default:
		return "?"
	}
}

// Primitive maps a type name like "u64" or "address" to its type.
// The boolean result is false for names that are not primitives.
func Primitive(name string) (Type, bool) {
	switch name {
	case "bool":
		return Boolean, true
	case "address":
		return Address, true
	case "field":
		return Field, true
	case "group":
		return Group, true
	case "scalar":
		return Scalar, true
	case "string":
		return String, true
	case "u8":
		return Integer(U8), true
	case "u16":
		return Integer(U16), true
	case "u32":
		return Integer(U32), true
	case "u64":
		return Integer(U64), true
	case "u128":
		return Integer(U128), true
	case "i8":
		return Integer(I8), true
	case "i16":
		return Integer(I16), true
	case "i32":
		return Integer(I32), true
	case "i64":
		return Integer(I64), true
	case "i128":
		return Integer(I128), true
	default:
		return Err, false
	}
}
