package lexer

import (
	"testing"

	"github.com/solar-lang/solarc/token"
)

func lexAll(src string) []token.Token {
	l := New([]byte(src))
	var out []token.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.END {
			return out
		}
	}
}

func TestEmptyInputYieldsOneEnd(t *testing.T) {
	tokens := lexAll("")
	if len(tokens) != 1 || tokens[0].Kind != token.END {
		t.Fatalf("expected exactly one END token, got %#v", tokens)
	}
}

func TestEndIsSticky(t *testing.T) {
	l := New([]byte(""))
	first := l.Next()
	second := l.Next()
	if first.Kind != token.END || second.Kind != token.END {
		t.Fatalf("expected repeated END tokens, got %#v then %#v", first, second)
	}
	if first.Position != second.Position {
		t.Fatalf("expected END position to stay put, got %v then %v", first.Position, second.Position)
	}
}

func TestPunctuatorsAndOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"->", token.ARROW},
		{"*", token.STAR},
		{"/", token.SLASH},
		{"(", token.LPAREN},
		{")", token.RPAREN},
		{"{", token.LBRACE},
		{"}", token.RBRACE},
		{"[", token.LBRACKET},
		{"]", token.RBRACKET},
		{",", token.COMMA},
		{":", token.COLON},
		{"=", token.ASSIGN},
		{"==", token.EQUAL},
		{"<", token.LESS},
		{"<=", token.LESS_EQUAL},
		{">", token.GREATER},
		{">=", token.GREATER_EQUAL},
		{"!", token.NEGATE},
		{"!=", token.NOT_EQUAL},
		{"@", token.INVALID},
	}

	for _, tt := range tests {
		tokens := lexAll(tt.src)
		if len(tokens) != 2 {
			t.Fatalf("%q: expected token then END, got %#v", tt.src, tokens)
		}
		if tokens[0].Kind != tt.kind {
			t.Errorf("%q: expected kind %v, got %v", tt.src, tt.kind, tokens[0].Kind)
		}
		if tokens[0].Lexeme != tt.src {
			t.Errorf("%q: expected lexeme %q, got %q", tt.src, tt.src, tokens[0].Lexeme)
		}
	}
}

func TestReservedWords(t *testing.T) {
	tests := map[string]token.Kind{
		"if":     token.IF,
		"else":   token.ELSE,
		"func":   token.FUNC,
		"return": token.RETURN,
		"var":    token.VAR,
	}

	for word, kind := range tests {
		tokens := lexAll(word)
		if tokens[0].Kind != kind {
			t.Errorf("%q: expected reserved kind %v, got %v", word, kind, tokens[0].Kind)
		}
	}
}

func TestIdentifier(t *testing.T) {
	tokens := lexAll("add_two2")
	if tokens[0].Kind != token.IDENTIFIER || tokens[0].Lexeme != "add_two2" {
		t.Fatalf("unexpected token: %#v", tokens[0])
	}
}

func TestNumberSuffixes(t *testing.T) {
	tests := []string{"1", "1i32", "1u32", "1u64", "1.5", "1.5f32"}
	for _, src := range tests {
		tokens := lexAll(src)
		if tokens[0].Kind != token.NUMBER || tokens[0].Lexeme != src {
			t.Errorf("%q: expected verbatim NUMBER lexeme, got %#v", src, tokens[0])
		}
	}
}

func TestStringLexemeIncludesQuotes(t *testing.T) {
	tokens := lexAll(`"hi\n"`)
	if tokens[0].Kind != token.STRING || tokens[0].Lexeme != `"hi\n"` {
		t.Fatalf("unexpected token: %#v", tokens[0])
	}
}

func TestLexemeMatchesSourceSlice(t *testing.T) {
	src := "func add(n : i32) -> i32 { return n }"
	l := New([]byte(src))
	for {
		tok := l.Next()
		if tok.Kind == token.END {
			break
		}
		if tok.Lexeme != "" && !containsAt(src, tok.Lexeme, int(tok.Position.Column)-1) {
			t.Errorf("lexeme %q for token %v does not match the source at column %d", tok.Lexeme, tok.Kind, tok.Position.Column)
		}
	}
}

// containsAt reports whether needle occurs in src starting at byte offset at.
func containsAt(src, needle string, at int) bool {
	return at >= 0 && at+len(needle) <= len(src) && src[at:at+len(needle)] == needle
}

func TestNewlinesAdvanceLine(t *testing.T) {
	l := New([]byte("a\nb\nc"))
	tok := l.Next()
	if tok.Position.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Position.Line)
	}
	tok = l.Next()
	if tok.Position.Line != 2 {
		t.Fatalf("expected line 2, got %d", tok.Position.Line)
	}
	tok = l.Next()
	if tok.Position.Line != 3 {
		t.Fatalf("expected line 3, got %d", tok.Position.Line)
	}
}
