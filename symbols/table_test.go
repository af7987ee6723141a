package symbols

import (
	"testing"

	"github.com/vela-lang/go-vela/ast"
	"github.com/vela-lang/go-vela/source"
	"github.com/vela-lang/go-vela/types"
)

func variable(name string, line int) *VariableSymbol {
	return &VariableSymbol{
		Name: name,
		Type: types.Integer(types.U64),
		Decl: DeclLocal,
		Span: source.Pos(line, 1, len(name)),
	}
}

func TestTable_DeclareAndLookup(t *testing.T) {
	table := NewTable()
	if err := table.Declare("x", variable("x", 1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	v, ok := table.LookupVariable("x")
	if !ok || v.Name != "x" {
		t.Fatalf("lookup failed: %v/%v", v, ok)
	}
	if _, ok := table.LookupVariable("y"); ok {
		t.Error("undeclared name resolved")
	}
}

func TestTable_DuplicateInSameScope(t *testing.T) {
	table := NewTable()
	if err := table.Declare("x", variable("x", 1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	err := table.Declare("x", variable("x", 3))
	dup, ok := err.(*DuplicateError)
	if !ok {
		t.Fatalf("expected *DuplicateError, got %v", err)
	}
	if dup.Name != "x" || dup.Prev != source.Pos(1, 1, 1) {
		t.Errorf("duplicate error mismatch: %+v", dup)
	}
}

func TestTable_ShadowingAcrossScopes(t *testing.T) {
	table := NewTable()
	if err := table.Declare("x", variable("x", 1)); err != nil {
		t.Fatalf("declare failed: %v", err)
	}

	exit := table.EnterScope()
	if err := table.Declare("x", variable("x", 5)); err != nil {
		t.Fatalf("shadowing must be permitted: %v", err)
	}
	v, _ := table.LookupVariable("x")
	if v.Span != source.Pos(5, 1, 1) {
		t.Errorf("inner declaration not found first: %v", v.Span)
	}

	exit()
	v, _ = table.LookupVariable("x")
	if v.Span != source.Pos(1, 1, 1) {
		t.Errorf("outer declaration not restored: %v", v.Span)
	}
}

func TestTable_ExitNeverPopsProgramScope(t *testing.T) {
	table := NewTable()
	exit := table.EnterScope()
	exit()
	if scope := table.exitScope(); scope != nil {
		t.Error("program scope was popped")
	}
	if table.Depth() != 1 {
		t.Errorf("depth = %d, expected 1", table.Depth())
	}
}

func TestTable_FinalizeNamespace(t *testing.T) {
	table := NewTable()
	transition := &FunctionSymbol{Name: "burn", Kind: ast.Transition, Span: source.Pos(1, 1, 4)}
	finalize := &FunctionSymbol{Name: "burn", Kind: ast.Finalize, Span: source.Pos(5, 1, 4)}

	if err := table.Declare("burn", transition); err != nil {
		t.Fatalf("declare transition: %v", err)
	}
	// The same source name must be allowed for the finalize counterpart.
	if err := table.DeclareFinalize("burn", finalize); err != nil {
		t.Fatalf("declare finalize: %v", err)
	}

	fn, ok := table.LookupFunction("burn")
	if !ok || fn.Kind != ast.Transition {
		t.Errorf("LookupFunction resolved %v/%v", fn, ok)
	}
	fin, ok := table.LookupFinalize("burn")
	if !ok || fin.Kind != ast.Finalize {
		t.Errorf("LookupFinalize resolved %v/%v", fin, ok)
	}

	if err := table.DeclareFinalize("burn", finalize); err == nil {
		t.Error("second finalize with the same name must be rejected")
	}
}

func TestTable_ProgramScopeLookupsIgnoreLocals(t *testing.T) {
	table := NewTable()
	if err := table.Declare("Token", &StructSymbol{
		Name:   "Token",
		Fields: []*ast.Field{{Name: "owner", Type: types.Address}},
		Span:   source.Pos(1, 1, 5),
	}); err != nil {
		t.Fatalf("declare struct: %v", err)
	}

	table.EnterScope()
	if err := table.Declare("Token", variable("Token", 4)); err != nil {
		t.Fatalf("shadow declare: %v", err)
	}
	// Struct resolution only consults the program scope.
	s, ok := table.LookupStruct("Token")
	if !ok || s.Name != "Token" {
		t.Errorf("LookupStruct resolved %v/%v", s, ok)
	}
}

func TestStructSymbol_FieldType(t *testing.T) {
	s := &StructSymbol{
		Name: "Token",
		Fields: []*ast.Field{
			{Name: "owner", Type: types.Address},
			{Name: "amount", Type: types.Integer(types.U64)},
		},
	}
	typ, ok := s.FieldType("amount")
	if !ok || !typ.Equal(types.Integer(types.U64)) {
		t.Errorf("FieldType resolved %s/%v", typ, ok)
	}
	if _, ok := s.FieldType("ghost"); ok {
		t.Error("unknown field resolved")
	}
}

func TestScope_UnusedLets(t *testing.T) {
	table := NewTable()
	exit := table.EnterScope()

	read := variable("read", 1)
	dead := variable("dead", 2)
	constant := variable("pi", 3)
	constant.Const = true
	param := variable("arg", 4)
	param.Decl = DeclParameter

	for _, v := range []*VariableSymbol{read, dead, constant, param} {
		if err := table.Declare(v.Name, v); err != nil {
			t.Fatalf("declare %s: %v", v.Name, err)
		}
	}
	read.MarkUsed()

	unused := exit().UnusedLets()
	if len(unused) != 1 || unused[0].Name != "dead" {
		t.Errorf("unused lets: %v", unused)
	}
}
