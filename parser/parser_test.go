package parser

import (
	"strings"
	"testing"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/lexer"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New([]byte(src)))
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.Errors())
	}
	return prog
}

func describeAll(prog *ast.Program) []string {
	var out []string
	for _, stmt := range prog.Statements {
		if es, ok := stmt.(ast.ExpressionStatement); ok {
			out = append(out, es.Expr.Describe())
		}
	}
	return out
}

func TestSingleLiteral(t *testing.T) {
	prog := parse(t, "1")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	got := describeAll(prog)
	if want := "(i64<1>)"; got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestPrecedenceAdditionOverDivision(t *testing.T) {
	prog := parse(t, "1+2/3")
	got := describeAll(prog)
	want := "(+ (i64<1>) (/ (i64<2>) (i64<3>)))"
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	prog := parse(t, "(1+2)/3")
	got := describeAll(prog)
	want := "(/ (+ (i64<1>) (i64<2>)) (i64<3>))"
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestConditionalExpression(t *testing.T) {
	prog := parse(t, "if 1<3 {3} else {0}")
	got := describeAll(prog)
	want := "(if (< (i64<1>) (i64<3>)) then (i64<3>) otherwise (i64<0>))"
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestLeftAssociativeEqualPrecedence(t *testing.T) {
	prog := parse(t, "1-2-3")
	got := describeAll(prog)
	want := "(- (- (i64<1>) (i64<2>)) (i64<3>))"
	if got[0] != want {
		t.Errorf("got %q, want %q", got[0], want)
	}
}

func TestFunctionDeclaration(t *testing.T) {
	prog := parse(t, "func add_two(n: i32) -> i32 { return n + 2 }")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fn, ok := prog.Statements[0].(ast.Function)
	if !ok {
		t.Fatalf("expected ast.Function, got %T", prog.Statements[0])
	}
	if fn.Prototype.Name.Lexeme != "add_two" {
		t.Errorf("got name %q", fn.Prototype.Name.Lexeme)
	}
	if len(fn.Prototype.Parameters) != 1 || fn.Prototype.Parameters[0].Type.Kind != ast.INTEGER {
		t.Errorf("unexpected parameter list: %#v", fn.Prototype.Parameters)
	}
	if fn.Prototype.ReturnType.Kind != ast.INTEGER || fn.Prototype.ReturnType.Size != 32 {
		t.Errorf("unexpected return type: %#v", fn.Prototype.ReturnType)
	}
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body.Statements))
	}
	if _, ok := fn.Body.Statements[0].(ast.Return); !ok {
		t.Fatalf("expected ast.Return, got %T", fn.Body.Statements[0])
	}
}

func TestVariableDeclarationWithInitializer(t *testing.T) {
	prog := parse(t, "func f() { var a: bool = 1<2\nreturn a }")
	fn := prog.Statements[0].(ast.Function)
	decl, ok := fn.Body.Statements[0].(ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected ast.VariableDeclaration, got %T", fn.Body.Statements[0])
	}
	if decl.Type.Kind != ast.BOOL {
		t.Errorf("unexpected declared type: %#v", decl.Type)
	}
}

func TestCallArguments(t *testing.T) {
	prog := parse(t, "printf(\"x\", 1, 2)")
	call, ok := prog.Statements[0].(ast.ExpressionStatement).Expr.(ast.Call)
	if !ok {
		t.Fatalf("expected ast.Call, got %T", prog.Statements[0])
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(call.Arguments))
	}
}

func TestStringEscapes(t *testing.T) {
	prog := parse(t, `"a\tb\nc\r\0d"`)
	lit := prog.Statements[0].(ast.ExpressionStatement).Expr.(ast.StringLiteral)
	want := "a\tb\nc\r\x00d"
	if lit.Value != want {
		t.Errorf("got %q, want %q", lit.Value, want)
	}
}

func TestUnknownEscapeRecordsError(t *testing.T) {
	p := New(lexer.New([]byte(`"\q"`)))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error for unknown escape sequence")
	}
}

func TestNoPrefixRuleRecordsError(t *testing.T) {
	p := New(lexer.New([]byte("!x")))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error: NEGATE has no prefix rule (spec.md §9)")
	}
}

func TestMissingTokenRecordsFormattedError(t *testing.T) {
	p := New(lexer.New([]byte("(1")))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error for unclosed grouping")
	}
	if !strings.HasPrefix(p.Errors()[0], "[line 1] Error at") {
		t.Errorf("unexpected error format: %q", p.Errors()[0])
	}
}
