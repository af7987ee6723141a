package typecheck

import (
	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/symbols"
	"github.com/vela-lang/go-vela/types"
)

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.checkBlock(s)
	case *ast.Definition:
		c.checkDefinition(s)
	case *ast.Assign:
		c.checkAssign(s)
	case *ast.Conditional:
		c.checkConditional(s)
	case *ast.Iteration:
		c.checkIteration(s)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.AssertStatement:
		c.checkExpression(s.Predicate, &types.Boolean)
	case *ast.FinalizeStatement:
		c.checkFinalizeStatement(s)
	case *ast.Increment:
		c.checkMappingWrite(s.Mapping, s.Key, s.Amount, s)
	case *ast.Decrement:
		c.checkMappingWrite(s.Mapping, s.Key, s.Amount, s)
	default:
		c.bag.Errorf(CodeInvalidOperand, stmt.NodeSpan(),
			"unsupported statement kind %T", stmt)
	}
}

func (c *Checker) checkBlock(block *ast.Block) {
	exit := c.table.EnterScope()
	defer func() {
		c.warnUnused(exit())
	}()
	for _, stmt := range block.Statements {
		c.checkStatement(stmt)
	}
}

func (c *Checker) checkDefinition(def *ast.Definition) {
	c.checkExpression(def.Value, &def.Type)
	c.declare(def.Name, &symbols.VariableSymbol{
		Name:  def.Name,
		Type:  def.Type,
		Const: def.Const,
		Decl:  symbols.DeclLocal,
		Span:  def.Span,
	})
}

func (c *Checker) checkAssign(assign *ast.Assign) {
	v, ok := c.table.LookupVariable(assign.Name)
	if !ok {
		c.bag.Errorf(CodeUndefinedIdentifier, assign.NameSpan,
			"undefined variable %q", assign.Name)
		c.checkExpression(assign.Value, nil)
		return
	}
	if v.Const {
		c.bag.Errorf(CodeAssignToConst, assign.NameSpan,
			"cannot assign to const variable %q", assign.Name).
			WithSecondary(v.Span)
	} else if v.Decl == symbols.DeclIteration {
		c.bag.Errorf(CodeAssignToConst, assign.NameSpan,
			"cannot assign to iteration variable %q", assign.Name).
			WithSecondary(v.Span)
	}
	c.checkExpression(assign.Value, &v.Type)
}

func (c *Checker) checkConditional(cond *ast.Conditional) {
	c.checkExpression(cond.Condition, &types.Boolean)

	c.nesting++
	c.checkBlock(cond.Then)
	if cond.Otherwise != nil {
		c.checkBlock(cond.Otherwise)
	}
	c.nesting--
}

func (c *Checker) checkIteration(iter *ast.Iteration) {
	if !iter.Type.IsInteger() {
		c.bag.Errorf(CodeInvalidOperand, iter.Span,
			"iteration variable must have an integer type, got %s", iter.Type)
	}
	c.checkExpression(iter.Start, &iter.Type)
	c.checkExpression(iter.Stop, &iter.Type)

	exit := c.table.EnterScope()
	defer func() {
		c.warnUnused(exit())
	}()
	c.declare(iter.Variable, &symbols.VariableSymbol{
		Name: iter.Variable,
		Type: iter.Type,
		Decl: symbols.DeclIteration,
		Span: iter.Span,
	})

	c.nesting++
	for _, stmt := range iter.Body.Statements {
		c.checkStatement(stmt)
	}
	c.nesting--
}

func (c *Checker) checkReturn(ret *ast.Return) {
	expected := c.fn.ReturnType
	if ret.Value == nil {
		if expected.Kind != types.KindUnit {
			c.bag.Errorf(CodeMismatchedTypes, ret.Span,
				"expected a return value of type %s", expected)
		}
		return
	}
	if expected.Kind == types.KindUnit {
		c.bag.Errorf(CodeMismatchedTypes, ret.Span,
			"%s %q does not return a value", c.fn.Kind, c.fn.Name)
		c.checkExpression(ret.Value, nil)
		return
	}
	c.checkExpression(ret.Value, &expected)
}

// checkFinalizeStatement validates placement and pairing of an
// `async finalize(args...)` statement. Placement violations are structural
// errors: an async call nested in a conditional or loop cannot guarantee
// exactly-once finalize semantics, so flattening would be ill-defined.
func (c *Checker) checkFinalizeStatement(fin *ast.FinalizeStatement) {
	switch {
	case c.fn.Kind == ast.Finalize:
		c.bag.Errorf(CodeInvalidFinalizeCall, fin.Span,
			"finalize %q cannot invoke another finalize", c.fn.Name)
	case c.fn.Kind != ast.Transition:
		c.bag.Errorf(CodeMisplacedFinalize, fin.Span,
			"async finalize is only allowed inside a transition body")
	case c.nesting > 0:
		c.bag.Errorf(CodeMisplacedFinalize, fin.Span,
			"async finalize must be a top-level statement of the transition").
			WithHint("hoist the call out of the conditional or loop")
	case c.finalizeSeen:
		c.bag.Errorf(CodeMisplacedFinalize, fin.Span,
			"transition %q calls async finalize more than once", c.fn.Name)
	}
	c.finalizeSeen = true

	target, ok := c.table.LookupFinalize(c.fn.Name)
	if !ok {
		c.bag.Errorf(CodeUnpairedFinalize, fin.Span,
			"no finalize function named %q is declared", c.fn.Name).
			WithHint("declare `finalize " + c.fn.Name + "` at the program's top level")
		for _, arg := range fin.Arguments {
			c.checkExpression(arg, nil)
		}
		return
	}

	if len(fin.Arguments) != len(target.Params) {
		c.bag.Errorf(CodeArityMismatch, fin.Span,
			"finalize %q expects %d arguments, got %d",
			c.fn.Name, len(target.Params), len(fin.Arguments))
	}
	for i, arg := range fin.Arguments {
		if i < len(target.Params) {
			c.checkExpression(arg, &target.Params[i].Type)
		} else {
			c.checkExpression(arg, nil)
		}
	}

	if sym, ok := c.table.LookupFunction(c.fn.Name); ok {
		sym.IsAsync = true
	}
}

// checkMappingWrite validates an increment or decrement statement.
func (c *Checker) checkMappingWrite(name string, key, amount ast.Expression, stmt ast.Statement) {
	if c.fn.Kind != ast.Finalize {
		c.bag.Errorf(CodeInvalidMappingOp, stmt.NodeSpan(),
			"mapping operations are only allowed inside finalize functions")
	}
	m, ok := c.table.LookupMapping(name)
	if !ok {
		c.bag.Errorf(CodeUndefinedMapping, stmt.NodeSpan(),
			"undefined mapping %q", name)
		c.checkExpression(key, nil)
		c.checkExpression(amount, nil)
		return
	}
	c.checkExpression(key, &m.Key)
	c.checkExpression(amount, &m.Value)
}
