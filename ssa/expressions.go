package ssa

import (
	"github.com/vela-lang/go-vela/ast"
)

// renameExpression produces a copy of the expression with every identifier
// replaced by its current versioned name. Resolved types carry over so the
// renamed tree stays fully type-annotated.
func (r *Renamer) renameExpression(expr ast.Expression, table *RenameTable) ast.Expression {
	switch e := expr.(type) {
	case *ast.Literal:
		out := &ast.Literal{Kind: e.Kind, Text: e.Text, Width: e.Width, Span: e.Span}
		retype(out, e)
		return out

	case *ast.Identifier:
		name := e.Name
		if v, ok := table.Lookup(e.Name); ok {
			name = v
		}
		out := &ast.Identifier{Name: name, Span: e.Span}
		retype(out, e)
		return out

	case *ast.Binary:
		out := &ast.Binary{
			Op:    e.Op,
			Left:  r.renameExpression(e.Left, table),
			Right: r.renameExpression(e.Right, table),
			Span:  e.Span,
		}
		retype(out, e)
		return out

	case *ast.Unary:
		out := &ast.Unary{
			Op:      e.Op,
			Operand: r.renameExpression(e.Operand, table),
			Span:    e.Span,
		}
		retype(out, e)
		return out

	case *ast.Ternary:
		out := &ast.Ternary{
			Condition: r.renameExpression(e.Condition, table),
			Then:      r.renameExpression(e.Then, table),
			Otherwise: r.renameExpression(e.Otherwise, table),
			Span:      e.Span,
		}
		retype(out, e)
		return out

	case *ast.Call:
		out := &ast.Call{Function: e.Function, Span: e.Span}
		for _, arg := range e.Arguments {
			out.Arguments = append(out.Arguments, r.renameExpression(arg, table))
		}
		retype(out, e)
		return out

	case *ast.MemberAccess:
		// The `self` receiver is never a renamed variable; Lookup misses
		// it and the identifier passes through unchanged.
		out := &ast.MemberAccess{
			Receiver:   r.renameExpression(e.Receiver, table),
			Member:     e.Member,
			MemberSpan: e.MemberSpan,
			Span:       e.Span,
		}
		retype(out, e)
		return out

	case *ast.TupleAccess:
		out := &ast.TupleAccess{
			Receiver: r.renameExpression(e.Receiver, table),
			Index:    e.Index,
			Span:     e.Span,
		}
		retype(out, e)
		return out

	case *ast.StructInit:
		out := &ast.StructInit{Name: e.Name, Span: e.Span}
		for _, f := range e.Fields {
			// Shorthand fields read a variable, so renaming forces the
			// explicit form: `Foo { x }` becomes `Foo { x: x$2 }`.
			valueExpr := f.Value
			if valueExpr == nil {
				valueExpr = &ast.Identifier{Name: f.Name, Span: f.Span}
			}
			out.Fields = append(out.Fields, &ast.StructInitField{
				Name:  f.Name,
				Value: r.renameExpression(valueExpr, table),
				Span:  f.Span,
			})
		}
		retype(out, e)
		return out

	default:
		r.bag.Errorf(CodeUnsupported, expr.NodeSpan(),
			"unsupported expression kind %T", expr)
		return expr
	}
}

// retype copies the resolved type from src to dst when src was checked.
func retype(dst, src ast.Expression) {
	if src.Typed() {
		dst.SetType(src.ResolvedType())
	}
}
