package typecheck

import (
	"testing"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/diag"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/symbols"
	"github.com/vela-lang/go-vela/types"
)

func sp(line int) source.Span {
	return source.Pos(line, 1, 8)
}

func check(t *testing.T, program *ast.Program) *diag.Bag {
	t.Helper()
	bag := diag.NewBag()
	Check(program, symbols.NewTable(), bag)
	return bag
}

func wantCodes(t *testing.T, bag *diag.Bag, codes ...string) {
	t.Helper()
	all := bag.All()
	if len(all) != len(codes) {
		for _, d := range all {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatalf("expected %d diagnostics, got %d", len(codes), len(all))
	}
	for i, d := range all {
		if d.Code != codes[i] {
			t.Errorf("diagnostic %d: expected code %q, got %q (%s)", i, codes[i], d.Code, d.Message)
		}
	}
}

// decreaseSelfProgram builds:
//
//	mapping amounts: address => u128;
//	transition decrease_self(amount: u128) { async finalize(self.caller, amount); }
//	finalize decrease_self(addr: address, amount: u128) { decrement(amounts, addr, amount); }
func decreaseSelfProgram() *ast.Program {
	u128 := types.Integer(types.U128)
	p := ast.NewProgram("credits")
	p.Mappings = append(p.Mappings, &ast.Mapping{
		Name: "amounts", Key: types.Address, Value: u128, Span: sp(1),
	})
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "decrease_self",
			[]*ast.Param{ast.P("amount", u128, sp(2))}, types.Unit,
			ast.NewBlock(sp(2),
				ast.AsyncFinalize(sp(3), ast.SelfCaller(sp(3)), ast.Ident("amount", sp(3))),
			), sp(2)),
		ast.NewFunction(ast.Finalize, "decrease_self",
			[]*ast.Param{ast.P("addr", types.Address, sp(5)), ast.P("amount", u128, sp(5))}, types.Unit,
			ast.NewBlock(sp(5),
				ast.Dec("amounts", ast.Ident("addr", sp(6)), ast.Ident("amount", sp(6)), sp(6)),
			), sp(5)),
	)
	return p
}

func TestCheck_DecreaseSelfScenario(t *testing.T) {
	bag := check(t, decreaseSelfProgram())
	if bag.Len() != 0 {
		for _, d := range bag.All() {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatalf("expected zero diagnostics, got %d", bag.Len())
	}
}

func TestCheck_UnpairedFinalizeIsResolutionError(t *testing.T) {
	p := ast.NewProgram("credits")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "burn",
			[]*ast.Param{ast.P("a", types.Integer(types.U64), sp(1)), ast.P("b", types.Integer(types.U64), sp(1))},
			types.Unit,
			ast.NewBlock(sp(1),
				ast.AsyncFinalize(sp(2), ast.Ident("a", sp(2)), ast.Ident("b", sp(2))),
			), sp(1)),
	)
	wantCodes(t, check(t, p), CodeUnpairedFinalize)
}

func TestCheck_FinalizeInConditionalIsStructuralError(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("credits")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "burn",
			[]*ast.Param{ast.P("flag", types.Boolean, sp(1)), ast.P("a", u64, sp(1))}, types.Unit,
			ast.NewBlock(sp(1),
				ast.If(ast.Ident("flag", sp(2)),
					ast.NewBlock(sp(2),
						ast.AsyncFinalize(sp(3), ast.Ident("a", sp(3))),
					), sp(2)),
			), sp(1)),
		ast.NewFunction(ast.Finalize, "burn",
			[]*ast.Param{ast.P("a", u64, sp(6))}, types.Unit,
			ast.NewBlock(sp(6)), sp(6)),
	)
	wantCodes(t, check(t, p), CodeMisplacedFinalize)
}

func TestCheck_SecondFinalizeCallRejected(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("credits")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "burn",
			[]*ast.Param{ast.P("a", u64, sp(1))}, types.Unit,
			ast.NewBlock(sp(1),
				ast.AsyncFinalize(sp(2), ast.Ident("a", sp(2))),
				ast.AsyncFinalize(sp(3), ast.Ident("a", sp(3))),
			), sp(1)),
		ast.NewFunction(ast.Finalize, "burn",
			[]*ast.Param{ast.P("a", u64, sp(5))}, types.Unit,
			ast.NewBlock(sp(5)), sp(5)),
	)
	wantCodes(t, check(t, p), CodeMisplacedFinalize)
}

func TestCheck_FinalizeCallingFinalizeRejected(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("credits")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "burn",
			[]*ast.Param{ast.P("a", u64, sp(1))}, types.Unit,
			ast.NewBlock(sp(1),
				ast.AsyncFinalize(sp(2), ast.Ident("a", sp(2))),
			), sp(1)),
		ast.NewFunction(ast.Finalize, "burn",
			[]*ast.Param{ast.P("a", u64, sp(4))}, types.Unit,
			ast.NewBlock(sp(4),
				ast.AsyncFinalize(sp(5), ast.Ident("a", sp(5))),
			), sp(4)),
	)
	wantCodes(t, check(t, p), CodeInvalidFinalizeCall)
}

func TestCheck_FinalizeArityAndTypes(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("credits")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "burn",
			[]*ast.Param{ast.P("a", u64, sp(1))}, types.Unit,
			ast.NewBlock(sp(1),
				ast.AsyncFinalize(sp(2), ast.Ident("a", sp(2)), ast.Ident("a", sp(2))),
			), sp(1)),
		ast.NewFunction(ast.Finalize, "burn",
			[]*ast.Param{ast.P("a", types.Address, sp(4))}, types.Unit,
			ast.NewBlock(sp(4)), sp(4)),
	)
	// Arity mismatch plus a type mismatch on the first argument.
	wantCodes(t, check(t, p), CodeArityMismatch, CodeMismatchedTypes)
}

func structProgram(fields ...*ast.StructInitField) *ast.Program {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Structs = append(p.Structs, &ast.Struct{
		Name: "Pair",
		Fields: []*ast.Field{
			{Name: "x", Type: u64, Span: sp(1)},
			{Name: "y", Type: types.Boolean, Span: sp(1)},
		},
		Span: sp(1),
	})
	init := &ast.StructInit{Name: "Pair", Fields: fields, Span: sp(4)}
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "make",
			[]*ast.Param{ast.P("x", u64, sp(3)), ast.P("y", types.Boolean, sp(3))},
			types.Named("Pair", false),
			ast.NewBlock(sp(3), ast.Ret(init, sp(4))), sp(3)),
	)
	return p
}

func TestCheck_StructShorthandEquivalence(t *testing.T) {
	shorthand := structProgram(
		ast.InitShorthand("x", sp(4)),
		ast.InitShorthand("y", sp(4)),
	)
	explicit := structProgram(
		ast.Init("x", ast.Ident("x", sp(4)), sp(4)),
		ast.Init("y", ast.Ident("y", sp(4)), sp(4)),
	)
	if bag := check(t, shorthand); bag.Len() != 0 {
		t.Fatalf("shorthand form: expected zero diagnostics, got %d", bag.Len())
	}
	if bag := check(t, explicit); bag.Len() != 0 {
		t.Fatalf("explicit form: expected zero diagnostics, got %d", bag.Len())
	}
}

func TestCheck_StructFieldErrorsUseFieldSpan(t *testing.T) {
	fieldSpan := source.Pos(4, 12, 1)
	p := structProgram(
		ast.Init("x", ast.Bool(true, fieldSpan), fieldSpan), // u64 field given a bool
		ast.InitShorthand("y", sp(4)),
	)
	bag := check(t, p)
	wantCodes(t, bag, CodeMismatchedTypes)
	if got := bag.All()[0].Span; got != fieldSpan {
		t.Errorf("expected error on field span %s, got %s", fieldSpan, got)
	}
}

func TestCheck_StructMissingUnknownDuplicateFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []*ast.StructInitField
		codes  []string
	}{
		{
			name:   "missing",
			fields: []*ast.StructInitField{ast.InitShorthand("x", sp(4))},
			codes:  []string{CodeMissingField},
		},
		{
			name: "unknown",
			fields: []*ast.StructInitField{
				ast.InitShorthand("x", sp(4)),
				ast.InitShorthand("y", sp(4)),
				ast.Init("z", ast.Bool(true, sp(4)), sp(4)),
			},
			codes: []string{CodeUnknownField},
		},
		{
			name: "duplicate",
			fields: []*ast.StructInitField{
				ast.InitShorthand("x", sp(4)),
				ast.InitShorthand("y", sp(4)),
				ast.InitShorthand("x", sp(4)),
			},
			codes: []string{CodeDuplicateField},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCodes(t, check(t, structProgram(tt.fields...)), tt.codes...)
		})
	}
}

func TestCheck_MemberAccessOnUndefinedIdentifier(t *testing.T) {
	identSpan := source.Pos(2, 16, 3)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "probe", nil, types.Integer(types.U64),
			ast.NewBlock(sp(2),
				ast.Ret(ast.Member(ast.Ident("ghost", identSpan), "x", sp(2)), sp(2)),
			), sp(2)),
	)
	bag := check(t, p)
	// Exactly one error, centered on the identifier, with no member-access
	// error piled on top.
	wantCodes(t, bag, CodeUndefinedIdentifier)
	if got := bag.All()[0].Span; got != identSpan {
		t.Errorf("expected error on identifier span %s, got %s", identSpan, got)
	}
}

func TestCheck_BinaryOperandWidthsMustMatch(t *testing.T) {
	u32 := types.Integer(types.U32)
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "add",
			[]*ast.Param{ast.P("a", u32, sp(1)), ast.P("b", u64, sp(1))}, u32,
			ast.NewBlock(sp(1),
				ast.Ret(ast.Bin(ast.OpAdd, ast.Ident("a", sp(2)), ast.Ident("b", sp(2)), sp(2)), sp(2)),
			), sp(1)),
	)
	wantCodes(t, check(t, p), CodeMismatchedTypes)
}

func TestCheck_AssignToConstAndUndefined(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "mutate", nil, types.Unit,
			ast.NewBlock(sp(1),
				ast.Const("c", u64, ast.Int("1", types.U64, sp(2)), sp(2)),
				ast.Set("c", ast.Int("2", types.U64, sp(3)), sp(3)),
				ast.Set("ghost", ast.Int("3", types.U64, sp(4)), sp(4)),
			), sp(1)),
	)
	wantCodes(t, check(t, p), CodeAssignToConst, CodeUndefinedIdentifier)
}

func TestCheck_CallsResolveStandardFunctions(t *testing.T) {
	u64 := types.Integer(types.U64)
	double := ast.NewFunction(ast.Standard, "double",
		[]*ast.Param{ast.P("n", u64, sp(1))}, u64,
		ast.NewBlock(sp(1),
			ast.Ret(ast.Bin(ast.OpMul, ast.Ident("n", sp(2)), ast.Int("2", types.U64, sp(2)), sp(2)), sp(2)),
		), sp(1))

	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions, double,
		ast.NewFunction(ast.Transition, "quad",
			[]*ast.Param{ast.P("n", u64, sp(4))}, u64,
			ast.NewBlock(sp(4),
				ast.Ret(&ast.Call{
					Function:  "double",
					Arguments: []ast.Expression{&ast.Call{Function: "double", Arguments: []ast.Expression{ast.Ident("n", sp(5))}, Span: sp(5)}},
					Span:      sp(5),
				}, sp(5)),
			), sp(4)),
	)
	if bag := check(t, p); bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", bag.All())
	}
}

func TestCheck_CallErrors(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Standard, "helper",
			[]*ast.Param{ast.P("n", u64, sp(1))}, u64,
			ast.NewBlock(sp(1), ast.Ret(ast.Ident("n", sp(1)), sp(1))), sp(1)),
		ast.NewFunction(ast.Transition, "run", nil, types.Unit,
			ast.NewBlock(sp(3),
				ast.Let("a", u64, &ast.Call{Function: "ghost", Span: sp(4)}, sp(4)),
				ast.Let("b", u64, &ast.Call{Function: "helper", Span: sp(5)}, sp(5)),
				ast.Assert(ast.Bin(ast.OpEq, ast.Ident("a", sp(6)), ast.Ident("b", sp(6)), sp(6)), sp(6)),
			), sp(3)),
	)
	wantCodes(t, check(t, p), CodeUndefinedFunction, CodeArityMismatch)
}

func TestCheck_TransitionsCannotBeCalled(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "mint",
			[]*ast.Param{ast.P("n", u64, sp(1))}, u64,
			ast.NewBlock(sp(1), ast.Ret(ast.Ident("n", sp(1)), sp(1))), sp(1)),
		ast.NewFunction(ast.Transition, "wrap",
			[]*ast.Param{ast.P("n", u64, sp(3))}, u64,
			ast.NewBlock(sp(3),
				ast.Ret(&ast.Call{
					Function:  "mint",
					Arguments: []ast.Expression{ast.Ident("n", sp(4))},
					Span:      sp(4),
				}, sp(4)),
			), sp(3)),
	)
	wantCodes(t, check(t, p), CodeInvalidOperand)
}

func TestCheck_MappingNameCollidesWithStruct(t *testing.T) {
	p := ast.NewProgram("tokens")
	p.Structs = append(p.Structs, &ast.Struct{
		Name:   "amounts",
		Fields: []*ast.Field{{Name: "x", Type: types.Boolean, Span: sp(1)}},
		Span:   sp(1),
	})
	p.Mappings = append(p.Mappings, &ast.Mapping{
		Name: "amounts", Key: types.Address, Value: types.Field, Span: sp(2),
	})
	wantCodes(t, check(t, p), CodeDuplicateDeclaration)
}

func TestCheck_MappingOpOutsideFinalize(t *testing.T) {
	u128 := types.Integer(types.U128)
	p := ast.NewProgram("tokens")
	p.Mappings = append(p.Mappings, &ast.Mapping{
		Name: "amounts", Key: types.Address, Value: u128, Span: sp(1),
	})
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "bump",
			[]*ast.Param{ast.P("who", types.Address, sp(2)), ast.P("amt", u128, sp(2))}, types.Unit,
			ast.NewBlock(sp(2),
				ast.Inc("amounts", ast.Ident("who", sp(3)), ast.Ident("amt", sp(3)), sp(3)),
			), sp(2)),
	)
	wantCodes(t, check(t, p), CodeInvalidMappingOp)
}

func TestCheck_UnusedLetWarnsButDoesNotBlock(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "noop", nil, types.Unit,
			ast.NewBlock(sp(1),
				ast.Let("dead", u64, ast.Int("1", types.U64, sp(2)), sp(2)),
			), sp(1)),
	)
	bag := check(t, p)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Errors())
	}
	warnings := bag.Warnings()
	if len(warnings) != 1 || warnings[0].Code != CodeUnusedVariable {
		t.Fatalf("expected one unused-variable warning, got %v", warnings)
	}
}

func TestCheck_ErrorRecoveryDoesNotCascade(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "chain", nil, u64,
			ast.NewBlock(sp(1),
				// ghost is undefined; the additions over the error-typed
				// placeholder must not add further reports.
				ast.Ret(
					ast.Bin(ast.OpAdd,
						ast.Bin(ast.OpAdd, ast.Ident("ghost", sp(2)), ast.Int("1", types.U64, sp(2)), sp(2)),
						ast.Int("2", types.U64, sp(2)), sp(2)),
					sp(2)),
			), sp(1)),
	)
	wantCodes(t, check(t, p), CodeUndefinedIdentifier)
}

func TestCheck_ReturnInSingleBranchIsMissingReturn(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "half",
			[]*ast.Param{ast.P("c", types.Boolean, sp(1))}, u64,
			ast.NewBlock(sp(1),
				ast.If(ast.Ident("c", sp(2)),
					ast.NewBlock(sp(2), ast.Ret(ast.Int("1", types.U64, sp(3)), sp(3))),
					sp(2)),
			), sp(1)),
	)
	wantCodes(t, check(t, p), CodeMissingReturn)
}

func TestCheck_MatchedBranchReturnsSatisfyReturnCheck(t *testing.T) {
	u64 := types.Integer(types.U64)
	p := ast.NewProgram("tokens")
	p.Functions = append(p.Functions,
		ast.NewFunction(ast.Transition, "pick",
			[]*ast.Param{ast.P("c", types.Boolean, sp(1))}, u64,
			ast.NewBlock(sp(1),
				ast.IfElse(ast.Ident("c", sp(2)),
					ast.NewBlock(sp(2), ast.Ret(ast.Int("1", types.U64, sp(3)), sp(3))),
					ast.NewBlock(sp(4), ast.Ret(ast.Int("2", types.U64, sp(5)), sp(5))),
					sp(2)),
			), sp(1)),
	)
	if bag := check(t, p); bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", bag.All())
	}
}

// collectTypes snapshots the resolved type of every expression reachable
// from the program's function bodies.
func collectTypes(p *ast.Program) []types.Type {
	var out []types.Type
	var visitExpr func(e ast.Expression)
	visitExpr = func(e ast.Expression) {
		if e == nil {
			return
		}
		out = append(out, e.ResolvedType())
		switch n := e.(type) {
		case *ast.Binary:
			visitExpr(n.Left)
			visitExpr(n.Right)
		case *ast.Unary:
			visitExpr(n.Operand)
		case *ast.Ternary:
			visitExpr(n.Condition)
			visitExpr(n.Then)
			visitExpr(n.Otherwise)
		case *ast.Call:
			for _, a := range n.Arguments {
				visitExpr(a)
			}
		case *ast.MemberAccess:
			visitExpr(n.Receiver)
		case *ast.TupleAccess:
			visitExpr(n.Receiver)
		case *ast.StructInit:
			for _, f := range n.Fields {
				visitExpr(f.Value)
			}
		}
	}
	var visitStmt func(s ast.Statement)
	visitStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.Block:
			for _, inner := range n.Statements {
				visitStmt(inner)
			}
		case *ast.Conditional:
			visitExpr(n.Condition)
			visitStmt(n.Then)
			if n.Otherwise != nil {
				visitStmt(n.Otherwise)
			}
		case *ast.Definition:
			visitExpr(n.Value)
		case *ast.Assign:
			visitExpr(n.Value)
		case *ast.Iteration:
			visitExpr(n.Start)
			visitExpr(n.Stop)
			visitStmt(n.Body)
		case *ast.Return:
			visitExpr(n.Value)
		case *ast.AssertStatement:
			visitExpr(n.Predicate)
		case *ast.FinalizeStatement:
			for _, a := range n.Arguments {
				visitExpr(a)
			}
		case *ast.Increment:
			visitExpr(n.Key)
			visitExpr(n.Amount)
		case *ast.Decrement:
			visitExpr(n.Key)
			visitExpr(n.Amount)
		}
	}
	for _, fn := range p.Functions {
		visitStmt(fn.Body)
	}
	return out
}

func TestCheck_Idempotence(t *testing.T) {
	p := decreaseSelfProgram()
	check(t, p)
	first := collectTypes(p)

	bag := check(t, p)
	if bag.Len() != 0 {
		t.Fatalf("re-check produced diagnostics: %v", bag.All())
	}
	second := collectTypes(p)

	if len(first) != len(second) {
		t.Fatalf("type counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) && !(first[i].IsErr() && second[i].IsErr()) {
			t.Errorf("type %d changed between runs: %s vs %s", i, first[i], second[i])
		}
	}
}
