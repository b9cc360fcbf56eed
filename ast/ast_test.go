package ast

import (
	"testing"

	"github.com/solar-lang/solarc/token"
)

func i64(v int64) Expression {
	return LiteralValue{Type: TypeInfo{Kind: INTEGER, IsSigned: true, Size: 64}, Value: Value{I64: v}}
}

func TestDescribeLiteral(t *testing.T) {
	if got, want := i64(1).Describe(), "(i64<1>)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribeBinopPrecedenceShape(t *testing.T) {
	// 1+2/3 parses as (+ 1 (/ 2 3)); this only asserts Describe() renders
	// whatever tree it's handed correctly, precedence is the parser's job.
	expr := Binop{
		Op:   ADD,
		Left: i64(1),
		Right: Binop{
			Op:    DIV,
			Left:  i64(2),
			Right: i64(3),
		},
	}
	want := "(+ (i64<1>) (/ (i64<2>) (i64<3>)))"
	if got := expr.Describe(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribeConditionWithElse(t *testing.T) {
	cond := Condition{
		Cond:      Binop{Op: LT, Left: i64(1), Right: i64(3)},
		Then:      i64(3),
		Otherwise: i64(0),
	}
	want := "(if (< (i64<1>) (i64<3>)) then (i64<3>) otherwise (i64<0>))"
	if got := cond.Describe(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDescribeConditionWithoutElse(t *testing.T) {
	cond := Condition{
		Cond: i64(1),
		Then: i64(2),
	}
	want := "(if (i64<1>) then (i64<2>))"
	if got := cond.Describe(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestVariableSatisfiesExpression(t *testing.T) {
	var e Expression = Variable{Name: token.Token{Kind: token.IDENTIFIER, Lexeme: "x"}}
	if e.Describe() != "x" {
		t.Errorf("got %q, want %q", e.Describe(), "x")
	}
}
