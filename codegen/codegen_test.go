package codegen

import (
	"testing"

	"github.com/llir/llvm/ir/types"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/lexer"
	"github.com/solar-lang/solarc/parser"
)

func compile(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New([]byte(src)))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestLLVMTypeLowering(t *testing.T) {
	cases := []struct {
		in   ast.TypeInfo
		want types.Type
	}{
		{ast.TypeInfo{Kind: ast.BOOL, Size: 1}, types.I1},
		{ast.TypeInfo{Kind: ast.INTEGER, IsSigned: true, Size: 32}, types.I32},
		{ast.TypeInfo{Kind: ast.INTEGER, IsSigned: true, Size: 64}, types.I64},
		{ast.TypeInfo{Kind: ast.FLOAT, Size: 32}, types.Float},
		{ast.TypeInfo{Kind: ast.FLOAT, Size: 64}, types.Double},
		{ast.TypeInfo{Kind: ast.VOID}, types.Void},
	}
	for _, c := range cases {
		if got := llvmType(c.in); !got.Equal(c.want) {
			t.Errorf("llvmType(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCompileAddTwo(t *testing.T) {
	prog := compile(t, "func add_two(n: i32) -> i32 { return n + 2 }")

	module, err := Compile("add_two.solar", prog, false)
	if err != nil {
		t.Fatalf("Compile returned an error: %v", err)
	}

	if len(module.Funcs) != 2 { // printf + add_two
		t.Fatalf("expected 2 declared functions, got %d", len(module.Funcs))
	}

	found := false
	for _, f := range module.Funcs {
		if f.Name() == "add_two" {
			found = true
			if !f.Sig.RetType.Equal(types.I32) {
				t.Errorf("add_two return type = %v, want i32", f.Sig.RetType)
			}
		}
	}
	if !found {
		t.Fatal("add_two was not declared in the module")
	}
}

func TestCompileRejectsNonFunctionTopLevel(t *testing.T) {
	prog := compile(t, "1")

	if _, err := Compile("bad.solar", prog, false); err == nil {
		t.Fatal("expected an error for a non-function top-level statement")
	}
}

func TestCompileUndefinedFunctionCall(t *testing.T) {
	prog := compile(t, "func f() { does_not_exist() }")

	if _, err := Compile("bad.solar", prog, true); err == nil {
		t.Fatal("expected an error calling an undefined function")
	}
}

func TestCompileConditionalRequiresElseInValuePosition(t *testing.T) {
	prog := compile(t, "func f() -> i64 { return if 1<2 {3} }")

	if _, err := Compile("bad.solar", prog, true); err == nil {
		t.Fatal("expected an error: else-less conditional used as a value (spec.md §9)")
	}
}

func TestCompileUnknownTypeName(t *testing.T) {
	prog := compile(t, "func f(n: frobnicate) { }")

	if _, err := Compile("bad.solar", prog, true); err == nil {
		t.Fatal("expected an error for an unresolved type name")
	}
}

func TestCompileArityMismatch(t *testing.T) {
	prog := compile(t, "func f(a: i32) -> i32 { return a }\nfunc g() -> i32 { return f() }")

	if _, err := Compile("bad.solar", prog, true); err == nil {
		t.Fatal("expected an arity mismatch error")
	}
}
