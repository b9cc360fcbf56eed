// Package parser implements Solar's Pratt (precedence-climbing) parser:
// tokens pulled from a lexer.Lexer are turned into a typed ast.Program.
//
// The shape is grounded on tawago/parser.go's advance/current/previous
// state machine, generalized to a data-driven rule table the way
// original_source/src/parser.cpp keys prefix/infix handlers and a
// precedence off token.Kind.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solar-lang/solarc/ast"
	"github.com/solar-lang/solarc/lexer"
	"github.com/solar-lang/solarc/token"
)

// Precedence is the Pratt parser's binding-power ladder, low to high, per
// spec.md §4.2.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecEquals
	PrecInequality
	PrecTerm
	PrecFactor
	PrecCall
)

type prefixRule func(p *Parser) ast.Expression
type infixRule func(p *Parser, left ast.Expression) ast.Expression

type rule struct {
	prefix     prefixRule
	infix      infixRule
	precedence Precedence
}

// rules is the static, data-driven dispatch table keyed by token kind.
// Deliberately package-level: it never changes per-Parser, so every
// Parser shares one table instead of rebuilding closures per instance.
var rules map[token.Kind]rule

func init() {
	rules = map[token.Kind]rule{
		token.NUMBER:        {prefix: parseNumber, precedence: PrecNone},
		token.STRING:        {prefix: parseString, precedence: PrecNone},
		token.IDENTIFIER:    {prefix: parseVariable, precedence: PrecNone},
		token.LPAREN:        {prefix: parseGrouping, infix: parseCall, precedence: PrecCall},
		token.IF:            {prefix: parseConditional, precedence: PrecNone},
		token.RETURN:        {prefix: parseReturn, precedence: PrecNone},
		token.PLUS:          {infix: parseBinary, precedence: PrecTerm},
		token.MINUS:         {infix: parseBinary, precedence: PrecTerm},
		token.STAR:          {infix: parseBinary, precedence: PrecFactor},
		token.SLASH:         {infix: parseBinary, precedence: PrecFactor},
		token.LESS:          {infix: parseBinary, precedence: PrecInequality},
		token.LESS_EQUAL:    {infix: parseBinary, precedence: PrecInequality},
		token.GREATER:       {infix: parseBinary, precedence: PrecInequality},
		token.GREATER_EQUAL: {infix: parseBinary, precedence: PrecInequality},
		token.EQUAL:         {infix: parseBinary, precedence: PrecEquals},
		token.NOT_EQUAL:     {infix: parseBinary, precedence: PrecEquals},
	}
}

func ruleFor(kind token.Kind) rule {
	return rules[kind]
}

// primitiveTypes maps a type-annotation identifier to a TypeInfo. Any
// other identifier is accepted syntactically (spec.md §9's stated
// ambiguity) and resolved — or rejected — by codegen.
var primitiveTypes = map[string]ast.TypeInfo{
	"bool": {Kind: ast.BOOL, Size: 1},
	"i32":  {Kind: ast.INTEGER, IsSigned: true, Size: 32},
	"u32":  {Kind: ast.INTEGER, IsSigned: false, Size: 32},
	"i64":  {Kind: ast.INTEGER, IsSigned: true, Size: 64},
	"u64":  {Kind: ast.INTEGER, IsSigned: false, Size: 64},
	"f32":  {Kind: ast.FLOAT, Size: 32},
	"f64":  {Kind: ast.FLOAT, Size: 64},
}

// Parser is a stateful token consumer: it holds the current and previous
// tokens and accumulates human-readable error strings rather than
// stopping on the first mistake.
type Parser struct {
	lex     *lexer.Lexer
	current token.Token
	prev    token.Token
	errors  []string
}

// New constructs a Parser pulling tokens from lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// Errors returns the accumulated parse error messages, formatted
// `[line N] Error at LEXEME: MSG` per spec.md §7.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) advance() {
	p.prev = p.current
	p.current = p.lex.Next()
}

func (p *Parser) check(kind token.Kind) bool {
	return p.current.Kind == kind
}

// consume requires current to have the given kind, advancing past it; on
// mismatch it records an error and does NOT advance (no panic-mode
// recovery, per spec.md §4.2).
func (p *Parser) consume(kind token.Kind, msg string) {
	if p.check(kind) {
		p.advance()
		return
	}
	p.errorAt(p.current, fmt.Sprintf("%s (got %s)", msg, p.current.Kind))
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.errors = append(p.errors, fmt.Sprintf("[line %d] Error at %s: %s", tok.Position.Line, tok.Lexeme, msg))
}

func (p *Parser) error(msg string) {
	p.errorAt(p.current, msg)
}

// sentinel is returned in place of a real node once an error has been
// recorded, so that traversal of a malformed statement can keep going
// syntactically without producing a usable AST for that statement.
// ast.Expression's marker method is unexported, so a type outside package
// ast satisfies it only through an embedded (nil) ast.Expression; the
// marker is never called.
type sentinelExpr struct {
	ast.Expression
	pos token.Position
}

func (s sentinelExpr) Position() token.Position { return s.pos }
func (sentinelExpr) Describe() string          { return "(invalid)" }

// ParseProgram consumes every token from the lexer and returns the parsed
// Program. Callers must check Errors() before trusting the result.
func (p *Parser) ParseProgram() *ast.Program {
	p.advance() // prime current

	var statements []ast.Statement
	for !p.check(token.END) {
		statements = append(statements, p.parseStatement())
	}

	return &ast.Program{Statements: statements}
}

// expression implements the Pratt loop from spec.md §4.2.
func (p *Parser) expression(min Precedence) ast.Expression {
	p.advance()
	pr := ruleFor(p.prev.Kind)
	if pr.prefix == nil {
		p.errorAt(p.prev, "expected an expression")
		return sentinelExpr{pos: p.prev.Position}
	}

	left := pr.prefix(p)

	for min <= ruleFor(p.current.Kind).precedence {
		p.advance()
		ir := ruleFor(p.prev.Kind).infix
		if ir == nil {
			return left
		}
		left = ir(p, left)
	}

	return left
}

func parseNumber(p *Parser) ast.Expression {
	tok := p.prev
	body, suffix := lexer.TrimSuffix(tok.Lexeme)

	if strings.Contains(tok.Lexeme, ".") {
		if suffix == "f32" {
			v, _ := strconv.ParseFloat(body, 32)
			return ast.LiteralValue{
				Type:  ast.TypeInfo{Kind: ast.FLOAT, Size: 32},
				Value: ast.Value{F32: float32(v)},
				Pos:   tok.Position,
			}
		}
		v, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return ast.LiteralValue{
			Type:  ast.TypeInfo{Kind: ast.FLOAT, Size: 64},
			Value: ast.Value{F64: v},
			Pos:   tok.Position,
		}
	}

	switch suffix {
	case "i32":
		v, _ := strconv.ParseInt(body, 10, 32)
		return ast.LiteralValue{
			Type:  ast.TypeInfo{Kind: ast.INTEGER, IsSigned: true, Size: 32},
			Value: ast.Value{I32: int32(v)},
			Pos:   tok.Position,
		}
	case "u32":
		v, _ := strconv.ParseUint(body, 10, 32)
		return ast.LiteralValue{
			Type:  ast.TypeInfo{Kind: ast.INTEGER, IsSigned: false, Size: 32},
			Value: ast.Value{U32: uint32(v)},
			Pos:   tok.Position,
		}
	case "u64":
		v, _ := strconv.ParseUint(body, 10, 64)
		return ast.LiteralValue{
			Type:  ast.TypeInfo{Kind: ast.INTEGER, IsSigned: false, Size: 64},
			Value: ast.Value{U64: v},
			Pos:   tok.Position,
		}
	default:
		v, _ := strconv.ParseInt(body, 10, 64)
		return ast.LiteralValue{
			Type:  ast.TypeInfo{Kind: ast.INTEGER, IsSigned: true, Size: 64},
			Value: ast.Value{I64: v},
			Pos:   tok.Position,
		}
	}
}

func parseVariable(p *Parser) ast.Expression {
	return ast.Variable{Name: p.prev}
}

// parseString decodes the escapes documented in spec.md §4.2 (\0 \t \n
// \r); any other backslash combination records an error. The lexeme
// includes the delimiting quotes, stripped here.
func parseString(p *Parser) ast.Expression {
	tok := p.prev
	body := tok.Lexeme
	if len(body) >= 2 {
		body = body[1 : len(body)-1]
	}

	var out strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		if i+1 >= len(body) {
			p.errorAt(tok, "incomplete character escape sequence in string")
			break
		}
		i++
		switch body[i] {
		case '0':
			out.WriteByte(0x00)
		case 't':
			out.WriteByte(0x09)
		case 'n':
			out.WriteByte(0x0A)
		case 'r':
			out.WriteByte(0x0D)
		default:
			p.errorAt(tok, fmt.Sprintf("unknown character escape sequence in string (\\%c)", body[i]))
		}
	}

	return ast.StringLiteral{Value: out.String(), Pos: tok.Position}
}

func parseGrouping(p *Parser) ast.Expression {
	pos := p.prev.Position
	expr := p.expression(PrecAssignment)
	p.consume(token.RPAREN, "expected ')' after expression")
	_ = pos
	return expr
}

func parseConditional(p *Parser) ast.Expression {
	pos := p.prev.Position
	cond := p.expression(PrecAssignment)
	p.consume(token.LBRACE, "'{' expected after if condition")
	then := p.expression(PrecAssignment)
	p.consume(token.RBRACE, "'}' expected after if body")

	var otherwise ast.Expression
	if p.check(token.ELSE) {
		p.advance()
		p.consume(token.LBRACE, "'{' expected after else")
		otherwise = p.expression(PrecAssignment)
		p.consume(token.RBRACE, "'}' expected after else body")
	}

	return ast.Condition{Cond: cond, Then: then, Otherwise: otherwise, Pos: pos}
}

func binOpFor(kind token.Kind) (ast.BinOp, bool) {
	switch kind {
	case token.PLUS:
		return ast.ADD, true
	case token.MINUS:
		return ast.SUB, true
	case token.STAR:
		return ast.MUL, true
	case token.SLASH:
		return ast.DIV, true
	case token.LESS:
		return ast.LT, true
	case token.LESS_EQUAL:
		return ast.LE, true
	case token.GREATER:
		return ast.GT, true
	case token.GREATER_EQUAL:
		return ast.GE, true
	case token.EQUAL:
		return ast.EQ, true
	case token.NOT_EQUAL:
		return ast.NE, true
	default:
		return 0, false
	}
}

func parseBinary(p *Parser, left ast.Expression) ast.Expression {
	opTok := p.prev
	op, ok := binOpFor(opTok.Kind)
	if !ok {
		p.errorAt(opTok, fmt.Sprintf("unsupported binary operation: %s", opTok.Kind))
		return sentinelExpr{pos: opTok.Position}
	}

	precedence := ruleFor(opTok.Kind).precedence
	right := p.expression(precedence + 1)

	return ast.Binop{Op: op, Left: left, Right: right, Pos: opTok.Position}
}

func parseCall(p *Parser, left ast.Expression) ast.Expression {
	callee, ok := left.(ast.Variable)
	if !ok {
		p.errorAt(p.prev, "expected a function name before '('")
		return sentinelExpr{pos: p.prev.Position}
	}

	pos := p.prev.Position

	var args []ast.Expression
	if !p.check(token.RPAREN) {
		args = append(args, p.expression(PrecAssignment))
		for p.check(token.COMMA) {
			p.advance()
			args = append(args, p.expression(PrecAssignment))
		}
	}
	p.consume(token.RPAREN, "expected ')' at the end of an argument list")

	return ast.Call{Name: callee.Name, Arguments: args, Pos: pos}
}

func parseReturn(p *Parser) ast.Expression {
	pos := p.prev.Position
	value := p.expression(PrecAssignment)
	return retExpr{value: value, pos: pos}
}

// retExpr is an internal-only Expression used purely so that `return` can
// be a prefix rule like every other statement-starting keyword; the
// statement parser unwraps it into a real ast.Return. Like sentinelExpr,
// it satisfies ast.Expression through an embedded (nil) ast.Expression.
type retExpr struct {
	ast.Expression
	value ast.Expression
	pos   token.Position
}

func (r retExpr) Position() token.Position { return r.pos }
func (r retExpr) Describe() string         { return fmt.Sprintf("(return %s)", r.value.Describe()) }

func (p *Parser) parseType() ast.TypeInfo {
	tok := p.current
	p.consume(token.IDENTIFIER, "expected a type name")
	if t, ok := primitiveTypes[tok.Lexeme]; ok {
		return t
	}
	// Unknown type names are accepted syntactically and rejected later by
	// codegen, per spec.md §9.
	return ast.TypeInfo{Kind: ast.UNKNOWN, Name: tok.Lexeme}
}

func (p *Parser) parseFunction() ast.Statement {
	pos := p.current.Position
	p.consume(token.FUNC, "expected a func keyword")

	name := p.current
	p.consume(token.IDENTIFIER, "expected a function name")

	p.consume(token.LPAREN, "expected '('")

	var params []ast.Parameter
	if !p.check(token.RPAREN) {
		for {
			pname := p.current
			p.consume(token.IDENTIFIER, "expected a parameter name")
			p.consume(token.COLON, "expected ':' after parameter name")
			ptype := p.parseType()
			params = append(params, ast.Parameter{Name: pname, Type: ptype, Position: pname.Position})

			if !p.check(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RPAREN, "expected ')'")

	returnType := ast.TypeInfo{Kind: ast.VOID}
	if p.check(token.ARROW) {
		p.advance()
		returnType = p.parseType()
	}

	body := p.parseBlock()

	return ast.Function{
		Prototype: ast.Prototype{Name: name, Parameters: params, ReturnType: returnType},
		Body:      body,
		Pos:       pos,
	}
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.current.Position
	p.consume(token.LBRACE, "expected a '{'")

	var statements []ast.Statement
	for !p.check(token.RBRACE) && !p.check(token.END) {
		statements = append(statements, p.parseStatement())
	}
	p.consume(token.RBRACE, "expected a '}'")

	return &ast.Block{Statements: statements, Pos: pos}
}

func (p *Parser) parseVariableDeclaration() ast.Statement {
	pos := p.current.Position
	p.consume(token.VAR, "expected var for variable declaration")

	name := p.current
	p.consume(token.IDENTIFIER, "expected a variable name")
	p.consume(token.COLON, "expected a colon between variable name and type")
	typ := p.parseType()
	p.consume(token.ASSIGN, "expected an initializer")
	init := p.expression(PrecAssignment)

	return ast.VariableDeclaration{Name: name, Type: typ, Initializer: init, Pos: pos}
}

// parseStatement dispatches on the current token per spec.md §4.2's
// statement grammar. FUNC and VAR are handled directly (they aren't
// expressions); RETURN goes through the expression rule table via
// retExpr and is unwrapped here into a real ast.Return.
func (p *Parser) parseStatement() ast.Statement {
	switch p.current.Kind {
	case token.FUNC:
		return p.parseFunction()
	case token.VAR:
		return p.parseVariableDeclaration()
	case token.RETURN:
		pos := p.current.Position
		expr := p.expression(PrecAssignment)
		if r, ok := expr.(retExpr); ok {
			return ast.Return{Value: r.value, Pos: r.pos}
		}
		return ast.Return{Value: expr, Pos: pos}
	default:
		pos := p.current.Position
		expr := p.expression(PrecAssignment)
		return ast.ExpressionStatement{Expr: expr, Pos: pos}
	}
}
