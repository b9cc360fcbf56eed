// Package ast defines Solar's typed Abstract Syntax Tree: a closed
// taxonomy of Expression and Statement variants, each carrying the
// token.Position it was parsed from so that codegen can attach debug
// locations.
//
// The sum-type marker methods (isExpression/isStatement) that make
// Expression and Statement closed interfaces live in kinds_gen.go,
// generated by cmd/solar-astgen from nodes.decl — see doc.go.
package ast

import (
	"fmt"
	"strings"

	"github.com/solar-lang/solarc/token"
)

// TypeKind tags the coarse category of a TypeInfo.
type TypeKind int

const (
	VOID TypeKind = iota
	BOOL
	INTEGER
	FLOAT
	// UNKNOWN tags a type annotation the parser couldn't resolve against
	// the primitive table (spec.md §9's Open Question 4: any IDENTIFIER
	// is accepted syntactically as a type name). Name carries the
	// offending identifier so codegen can name it in the uerror it
	// raises when lowering actually needs the type.
	UNKNOWN
)

// TypeInfo is Solar's compact primitive-type descriptor: kind,
// signedness, and bit width. Equality is structural (plain ==).
//
// Invariants (spec.md §3): BOOL implies Size == 1; FLOAT implies Size is
// 32 or 64 and IsSigned is meaningless; INTEGER implies Size is 32 or 64;
// VOID's Size is meaningless; UNKNOWN carries the unresolved type name in
// Name and every other field is meaningless.
type TypeInfo struct {
	Kind     TypeKind
	IsSigned bool
	Size     uint8
	Name     string
}

func (t TypeInfo) String() string {
	switch t.Kind {
	case VOID:
		return "void"
	case BOOL:
		return "bool"
	case INTEGER:
		if t.IsSigned {
			return fmt.Sprintf("i%d", t.Size)
		}
		return fmt.Sprintf("u%d", t.Size)
	case FLOAT:
		return fmt.Sprintf("f%d", t.Size)
	case UNKNOWN:
		return t.Name
	default:
		return "invalid"
	}
}

// Value is a polymorphic literal payload. Interpretation is controlled by
// the TypeInfo carried alongside it (see LiteralValue).
type Value struct {
	Bool bool
	I32  int32
	U32  uint32
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
}

// Expression is the closed set of expression-shaped AST nodes.
type Expression interface {
	isExpression()
	Position() token.Position
	Describe() string
}

// Statement is the closed set of statement-shaped AST nodes.
type Statement interface {
	isStatement()
	Position() token.Position
}

// Variable is a reference to a previously declared name.
type Variable struct {
	Name token.Token
}

func (v Variable) Position() token.Position { return v.Name.Position }
func (v Variable) Describe() string         { return v.Name.Lexeme }

// LiteralValue is a numeric or boolean literal, typed by its suffix. The
// parser produces only numeric literals; BOOL-typed values are handled
// by Describe and codegen but are not produced from source.
type LiteralValue struct {
	Type  TypeInfo
	Value Value
	Pos   token.Position
}

func (l LiteralValue) Position() token.Position { return l.Pos }

func (l LiteralValue) Describe() string {
	var inner string
	switch l.Type.Kind {
	case BOOL:
		inner = fmt.Sprintf("bool<%t>", l.Value.Bool)
	case INTEGER:
		if l.Type.IsSigned {
			if l.Type.Size == 32 {
				inner = fmt.Sprintf("i32<%d>", l.Value.I32)
			} else {
				inner = fmt.Sprintf("i64<%d>", l.Value.I64)
			}
		} else {
			if l.Type.Size == 32 {
				inner = fmt.Sprintf("u32<%d>", l.Value.U32)
			} else {
				inner = fmt.Sprintf("u64<%d>", l.Value.U64)
			}
		}
	case FLOAT:
		if l.Type.Size == 32 {
			inner = fmt.Sprintf("f32<%g>", l.Value.F32)
		} else {
			inner = fmt.Sprintf("f64<%g>", l.Value.F64)
		}
	default:
		inner = "invalid"
	}
	return fmt.Sprintf("(%s)", inner)
}

// StringLiteral is a decoded string constant (escapes already resolved by
// the parser).
type StringLiteral struct {
	Value string
	Pos   token.Position
}

func (s StringLiteral) Position() token.Position { return s.Pos }
func (s StringLiteral) Describe() string         { return fmt.Sprintf("(string<%q>)", s.Value) }

// BinOp names a binary operator.
type BinOp int

const (
	ADD BinOp = iota
	SUB
	MUL
	DIV
	EQ
	NE
	LT
	LE
	GT
	GE
)

var binOpSymbols = map[BinOp]string{
	ADD: "+",
	SUB: "-",
	MUL: "*",
	DIV: "/",
	EQ:  "==",
	NE:  "!=",
	LT:  "<",
	LE:  "<=",
	GT:  ">",
	GE:  ">=",
}

func (o BinOp) String() string { return binOpSymbols[o] }

// Binop is a binary operator application.
type Binop struct {
	Op    BinOp
	Left  Expression
	Right Expression
	Pos   token.Position
}

func (b Binop) Position() token.Position { return b.Pos }

func (b Binop) Describe() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.Left.Describe(), b.Right.Describe())
}

// Condition is an expression-valued if. Otherwise is nil when no else
// branch was written; codegen rejects such a Condition wherever it lowers
// one, whether its value is used or discarded as a statement (see
// spec.md §9).
type Condition struct {
	Cond      Expression
	Then      Expression
	Otherwise Expression
	Pos       token.Position
}

func (c Condition) Position() token.Position { return c.Pos }

func (c Condition) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "(if %s then %s", c.Cond.Describe(), c.Then.Describe())
	if c.Otherwise != nil {
		fmt.Fprintf(&b, " otherwise %s", c.Otherwise.Describe())
	}
	b.WriteString(")")
	return b.String()
}

// Call is a function call by name.
type Call struct {
	Name      token.Token
	Arguments []Expression
	Pos       token.Position
}

func (c Call) Position() token.Position { return c.Pos }

func (c Call) Describe() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.Describe()
	}
	return fmt.Sprintf("(call %s (%s))", c.Name.Lexeme, strings.Join(args, " "))
}

// ExpressionStatement wraps an expression evaluated for its side effects
// (or discarded value — see spec.md §9's implicit-return ambiguity).
type ExpressionStatement struct {
	Expr Expression
	Pos  token.Position
}

func (e ExpressionStatement) Position() token.Position { return e.Pos }
func (e ExpressionStatement) Describe() string          { return e.Expr.Describe() }

// VariableDeclaration binds a name to the value of a mandatory
// initializer expression.
type VariableDeclaration struct {
	Name        token.Token
	Type        TypeInfo
	Initializer Expression
	Pos         token.Position
}

func (v VariableDeclaration) Position() token.Position { return v.Pos }

// Block is an ordered sequence of statements.
type Block struct {
	Statements []Statement
	Pos        token.Position
}

func (b Block) Position() token.Position { return b.Pos }

// Return yields a value from the enclosing function.
type Return struct {
	Value Expression
	Pos   token.Position
}

func (r Return) Position() token.Position { return r.Pos }

// Parameter is one entry in a function's parameter list.
type Parameter struct {
	Name     token.Token
	Type     TypeInfo
	Position token.Position
}

// Prototype is a function's name, parameter list, and return type.
type Prototype struct {
	Name       token.Token
	Parameters []Parameter
	ReturnType TypeInfo
}

// Function declares a named function with a body block.
type Function struct {
	Prototype Prototype
	Body      *Block
	Pos       token.Position
}

func (f Function) Position() token.Position { return f.Pos }

// Program owns an ordered sequence of top-level statements. It exclusively
// owns its statements, which exclusively own their children; the whole
// tree is released as a unit once codegen has consumed it.
type Program struct {
	Statements []Statement
}
