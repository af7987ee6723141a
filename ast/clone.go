package ast

// CloneExpression deep-copies an expression, preserving spans and resolved
// types. The tree is single-owner, so passes that reuse an expression in
// more than one place (e.g. a guard appearing in several selections) must
// clone it rather than share the node.
func CloneExpression(expr Expression) Expression {
	if expr == nil {
		return nil
	}
	var out Expression
	switch e := expr.(type) {
	case *Literal:
		out = &Literal{Kind: e.Kind, Text: e.Text, Width: e.Width, Span: e.Span}
	case *Identifier:
		out = &Identifier{Name: e.Name, Span: e.Span}
	case *Binary:
		out = &Binary{
			Op:    e.Op,
			Left:  CloneExpression(e.Left),
			Right: CloneExpression(e.Right),
			Span:  e.Span,
		}
	case *Unary:
		out = &Unary{Op: e.Op, Operand: CloneExpression(e.Operand), Span: e.Span}
	case *Ternary:
		out = &Ternary{
			Condition: CloneExpression(e.Condition),
			Then:      CloneExpression(e.Then),
			Otherwise: CloneExpression(e.Otherwise),
			Span:      e.Span,
		}
	case *Call:
		c := &Call{Function: e.Function, Span: e.Span}
		for _, arg := range e.Arguments {
			c.Arguments = append(c.Arguments, CloneExpression(arg))
		}
		out = c
	case *MemberAccess:
		out = &MemberAccess{
			Receiver:   CloneExpression(e.Receiver),
			Member:     e.Member,
			MemberSpan: e.MemberSpan,
			Span:       e.Span,
		}
	case *TupleAccess:
		out = &TupleAccess{Receiver: CloneExpression(e.Receiver), Index: e.Index, Span: e.Span}
	case *StructInit:
		s := &StructInit{Name: e.Name, Span: e.Span}
		for _, f := range e.Fields {
			s.Fields = append(s.Fields, &StructInitField{
				Name:  f.Name,
				Value: CloneExpression(f.Value),
				Span:  f.Span,
			})
		}
		out = s
	default:
		return expr
	}
	if expr.Typed() {
		out.SetType(expr.ResolvedType())
	}
	return out
}
