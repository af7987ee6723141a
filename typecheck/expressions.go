package typecheck

import (
	"strings"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
	"github.com/vela-lang/go-vela/value"
)

// expect reports a mismatch between an actual and an expected type. The
// error sentinel on either side suppresses the report so recovered errors
// do not cascade.
func (c *Checker) expect(actual types.Type, expected *types.Type, span source.Span) {
	if expected == nil || actual.IsErr() || expected.IsErr() {
		return
	}
	if !actual.Equal(*expected) {
		c.bag.Errorf(CodeMismatchedTypes, span,
			"expected type %s, got %s", *expected, actual)
	}
}

// checkExpression resolves the expression's type, attaches it to the node
// and validates it against the caller's expectation when one is given.
func (c *Checker) checkExpression(expr ast.Expression, expected *types.Type) types.Type {
	var typ types.Type
	switch e := expr.(type) {
	case *ast.Literal:
		typ = c.checkLiteral(e)
	case *ast.Identifier:
		typ = c.checkIdentifier(e)
	case *ast.Binary:
		typ = c.checkBinary(e, expected)
	case *ast.Unary:
		typ = c.checkUnary(e, expected)
	case *ast.Ternary:
		typ = c.checkTernary(e, expected)
	case *ast.Call:
		typ = c.checkCall(e)
	case *ast.MemberAccess:
		typ = c.checkMemberAccess(e)
	case *ast.TupleAccess:
		typ = c.checkTupleAccess(e)
	case *ast.StructInit:
		typ = c.checkStructInit(e)
	default:
		c.bag.Errorf(CodeInvalidOperand, expr.NodeSpan(),
			"unsupported expression kind %T", expr)
		typ = types.Err
	}
	expr.SetType(typ)
	c.expect(typ, expected, expr.NodeSpan())
	return typ
}

func (c *Checker) checkLiteral(lit *ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitBoolean:
		return types.Boolean
	case ast.LitInteger:
		if err := value.CheckInteger(lit.Text, lit.Width); err != nil {
			c.bag.Errorf(CodeInvalidLiteral, lit.Span, "%s", err.Error())
		}
		return types.Integer(lit.Width)
	case ast.LitField:
		if err := value.CheckFieldElement(lit.Text); err != nil {
			c.bag.Errorf(CodeInvalidLiteral, lit.Span, "%s", err.Error())
		}
		return types.Field
	case ast.LitGroup:
		if err := value.CheckFieldElement(lit.Text); err != nil {
			c.bag.Errorf(CodeInvalidLiteral, lit.Span, "%s", err.Error())
		}
		return types.Group
	case ast.LitScalar:
		if err := value.CheckFieldElement(lit.Text); err != nil {
			c.bag.Errorf(CodeInvalidLiteral, lit.Span, "%s", err.Error())
		}
		return types.Scalar
	case ast.LitAddress:
		if err := value.CheckAddress(lit.Text); err != nil {
			c.bag.Errorf(CodeInvalidLiteral, lit.Span, "%s", err.Error())
		}
		return types.Address
	case ast.LitString:
		return types.String
	default:
		c.bag.Errorf(CodeInvalidLiteral, lit.Span, "unknown literal kind")
		return types.Err
	}
}

func (c *Checker) checkIdentifier(ident *ast.Identifier) types.Type {
	if ident.Name == "self" {
		c.bag.Errorf(CodeInvalidOperand, ident.Span,
			"`self` is only valid as a member access receiver")
		return types.Err
	}
	v, ok := c.table.LookupVariable(ident.Name)
	if !ok {
		c.bag.Errorf(CodeUndefinedIdentifier, ident.Span,
			"undefined identifier %q", ident.Name)
		return types.Err
	}
	v.MarkUsed()
	return v.Type
}

func (c *Checker) checkBinary(bin *ast.Binary, expected *types.Type) types.Type {
	switch {
	case bin.Op.Logical():
		c.checkExpression(bin.Left, &types.Boolean)
		c.checkExpression(bin.Right, &types.Boolean)
		return types.Boolean

	case bin.Op.Comparison():
		left := c.checkExpression(bin.Left, nil)
		if left.IsErr() {
			c.checkExpression(bin.Right, nil)
			return types.Boolean
		}
		ordering := bin.Op != ast.OpEq && bin.Op != ast.OpNeq
		if ordering && !left.IsInteger() && left.Kind != types.KindField && left.Kind != types.KindScalar {
			c.bag.Errorf(CodeInvalidOperand, bin.Left.NodeSpan(),
				"operator %s is not defined on type %s", bin.Op, left)
		}
		c.checkExpression(bin.Right, &left)
		return types.Boolean

	default: // arithmetic
		left := c.checkExpression(bin.Left, expected)
		if !left.IsErr() {
			if !left.IsArithmetic() {
				c.bag.Errorf(CodeInvalidOperand, bin.Left.NodeSpan(),
					"operator %s is not defined on type %s", bin.Op, left)
			} else if bin.Op == ast.OpRem && !left.IsInteger() {
				c.bag.Errorf(CodeInvalidOperand, bin.Span,
					"operator %% requires integer operands, got %s", left)
			}
			c.checkExpression(bin.Right, &left)
			return left
		}
		right := c.checkExpression(bin.Right, expected)
		return right
	}
}

func (c *Checker) checkUnary(un *ast.Unary, expected *types.Type) types.Type {
	switch un.Op {
	case ast.OpNot:
		c.checkExpression(un.Operand, &types.Boolean)
		return types.Boolean
	case ast.OpNeg:
		t := c.checkExpression(un.Operand, expected)
		if t.IsErr() {
			return types.Err
		}
		signed := t.IsInteger() && t.Width.Signed()
		if !signed && t.Kind != types.KindField && t.Kind != types.KindGroup {
			c.bag.Errorf(CodeInvalidOperand, un.Span,
				"operator - is not defined on type %s", t)
		}
		return t
	default:
		c.bag.Errorf(CodeInvalidOperand, un.Span, "unknown unary operator")
		return types.Err
	}
}

func (c *Checker) checkTernary(t *ast.Ternary, expected *types.Type) types.Type {
	c.checkExpression(t.Condition, &types.Boolean)
	then := c.checkExpression(t.Then, expected)
	if then.IsErr() {
		return c.checkExpression(t.Otherwise, expected)
	}
	c.checkExpression(t.Otherwise, &then)
	return then
}

func (c *Checker) checkCall(call *ast.Call) types.Type {
	fn, ok := c.table.LookupFunction(call.Function)
	if !ok {
		if _, isFinalize := c.table.LookupFinalize(call.Function); isFinalize {
			if c.fn.Kind == ast.Finalize {
				c.bag.Errorf(CodeInvalidFinalizeCall, call.Span,
					"finalize %q cannot call finalize function %q", c.fn.Name, call.Function)
			} else {
				c.bag.Errorf(CodeInvalidFinalizeCall, call.Span,
					"finalize functions can only be invoked through async finalize")
			}
		} else {
			c.bag.Errorf(CodeUndefinedFunction, call.Span,
				"undefined function %q", call.Function)
		}
		for _, arg := range call.Arguments {
			c.checkExpression(arg, nil)
		}
		return types.Err
	}

	if fn.Kind == ast.Transition {
		c.bag.Errorf(CodeInvalidOperand, call.Span,
			"transition %q cannot be called as a function", call.Function)
	}

	if len(call.Arguments) != len(fn.Params) {
		c.bag.Errorf(CodeArityMismatch, call.Span,
			"function %q expects %d arguments, got %d",
			call.Function, len(fn.Params), len(call.Arguments))
	}
	for i, arg := range call.Arguments {
		if i < len(fn.Params) {
			c.checkExpression(arg, &fn.Params[i].Type)
		} else {
			c.checkExpression(arg, nil)
		}
	}
	return fn.Return
}

func (c *Checker) checkMemberAccess(m *ast.MemberAccess) types.Type {
	// self.caller / self.signer are address-typed program inputs.
	if recv, ok := m.Receiver.(*ast.Identifier); ok && recv.Name == "self" {
		switch m.Member {
		case "caller", "signer":
			return types.Address
		default:
			c.bag.Errorf(CodeInvalidOperand, m.MemberSpan,
				"unknown member %q of self", m.Member)
			return types.Err
		}
	}

	recvType := c.checkExpression(m.Receiver, nil)
	if recvType.IsErr() {
		// The receiver already produced its own diagnostic (e.g. an
		// undefined identifier); do not pile a member error on top.
		return types.Err
	}
	if recvType.Kind != types.KindNamed {
		c.bag.Errorf(CodeInvalidOperand, m.MemberSpan,
			"type %s has no field %q", recvType, m.Member)
		return types.Err
	}
	sym, ok := c.table.LookupStruct(recvType.Name)
	if !ok {
		c.bag.Errorf(CodeUndefinedStruct, m.Receiver.NodeSpan(),
			"undefined struct %q", recvType.Name)
		return types.Err
	}
	fieldType, ok := sym.FieldType(m.Member)
	if !ok {
		c.bag.Errorf(CodeUnknownField, m.MemberSpan,
			"%s %q has no field %q", symKind(sym.IsRecord), sym.Name, m.Member).
			WithSecondary(sym.Span)
		return types.Err
	}
	return fieldType
}

func (c *Checker) checkTupleAccess(t *ast.TupleAccess) types.Type {
	recvType := c.checkExpression(t.Receiver, nil)
	if recvType.IsErr() {
		return types.Err
	}
	if recvType.Kind != types.KindTuple {
		c.bag.Errorf(CodeInvalidOperand, t.Span,
			"type %s is not a tuple", recvType)
		return types.Err
	}
	if t.Index < 0 || t.Index >= len(recvType.Elems) {
		c.bag.Errorf(CodeInvalidOperand, t.Span,
			"tuple index %d out of range for %s", t.Index, recvType)
		return types.Err
	}
	return recvType.Elems[t.Index]
}

// checkStructInit validates a struct literal. Every declared field must be
// supplied exactly once by name with a matching type; shorthand `Foo { x }`
// reads the variable x from scope. Field-level mistakes are reported on the
// field's span and checking continues so one bad field does not hide the
// others.
func (c *Checker) checkStructInit(init *ast.StructInit) types.Type {
	sym, ok := c.table.LookupStruct(init.Name)
	if !ok {
		c.bag.Errorf(CodeUndefinedStruct, init.Span,
			"undefined struct %q", init.Name)
		for _, f := range init.Fields {
			if f.Value != nil {
				c.checkExpression(f.Value, nil)
			}
		}
		return types.Err
	}

	seen := make(map[string]source.Span)
	for _, f := range init.Fields {
		fieldType, declared := sym.FieldType(f.Name)
		if !declared {
			c.bag.Errorf(CodeUnknownField, f.Span,
				"%s %q has no field %q", symKind(sym.IsRecord), sym.Name, f.Name).
				WithSecondary(sym.Span)
			if f.Value != nil {
				c.checkExpression(f.Value, nil)
			}
			continue
		}
		if prev, dup := seen[f.Name]; dup {
			c.bag.Errorf(CodeDuplicateField, f.Span,
				"field %q supplied more than once", f.Name).
				WithSecondary(prev)
			continue
		}
		seen[f.Name] = f.Span

		if f.Value == nil {
			// Shorthand: `Foo { x }` reads variable x.
			v, inScope := c.table.LookupVariable(f.Name)
			if !inScope {
				c.bag.Errorf(CodeUndefinedIdentifier, f.Span,
					"undefined identifier %q", f.Name)
				continue
			}
			v.MarkUsed()
			c.expect(v.Type, &fieldType, f.Span)
			continue
		}
		c.checkExpression(f.Value, &fieldType)
	}

	var missing []string
	for _, field := range sym.Fields {
		if _, supplied := seen[field.Name]; !supplied {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		c.bag.Errorf(CodeMissingField, init.Span,
			"%s %q is missing field(s) %s", symKind(sym.IsRecord), sym.Name,
			strings.Join(missing, ", ")).
			WithSecondary(sym.Span)
	}

	return types.Named(sym.Name, sym.IsRecord)
}

func symKind(record bool) string {
	if record {
		return "record"
	}
	return "struct"
}
