package lexer

import (
	"testing"

	"github.com/flamelang/flame/internal/diag"
	"github.com/flamelang/flame/pkg/token"
)

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := `fn myFunc x1 _private let class`

	tests := []struct {
		literal string
		kind    token.Kind
	}{
		{"fn", token.FN},
		{"myFunc", token.IDENT},
		{"x1", token.IDENT},
		{"_private", token.IDENT},
		{"let", token.LET},
		{"class", token.CLASS},
		{"", token.EOF},
	}

	l := New(input, diag.New())
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d]: kind wrong, expected=%s got=%s", i, tt.kind, tok.Kind)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("tests[%d]: literal wrong, expected=%q got=%q", i, tt.literal, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % << >> < <= > >= == != ! && || = , ; : :: -> ( ) [ ] { } .`

	expected := []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.SHL, token.SHR, token.LT, token.LE, token.GT, token.GE,
		token.EQ, token.NE, token.NOT, token.AND, token.OR, token.ASSIGN,
		token.COMMA, token.SEMI, token.COLON, token.DCOLON, token.ARROW,
		token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
		token.LBRACE, token.RBRACE, token.DOT, token.EOF,
	}

	l := New(input, diag.New())
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tests[%d]: expected=%s got=%s (%q)", i, want, tok.Kind, tok.Literal)
		}
	}
}

func TestNumbersStringsChars(t *testing.T) {
	input := `42 3.14 "hello" 'x'`

	l := New(input, diag.New())

	tok := l.NextToken()
	if tok.Kind != token.INT || tok.Literal != "42" {
		t.Fatalf("int wrong: %+v", tok)
	}

	tok = l.NextToken()
	if tok.Kind != token.FLOAT || tok.Literal != "3.14" {
		t.Fatalf("float wrong: %+v", tok)
	}

	tok = l.NextToken()
	if tok.Kind != token.STRING || tok.Literal != "hello" {
		t.Fatalf("string wrong: %+v", tok)
	}

	tok = l.NextToken()
	if tok.Kind != token.CHAR || tok.Literal != "x" {
		t.Fatalf("char wrong: %+v", tok)
	}
}

func TestLineComments(t *testing.T) {
	input := "let x = 1; // trailing comment\nlet y = 2;"

	var kinds []token.Kind
	l := New(input, diag.New())
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}

	want := []token.Kind{
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.LET, token.IDENT, token.ASSIGN, token.INT, token.SEMI,
		token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("tests[%d]: expected=%s got=%s", i, want[i], kinds[i])
		}
	}
}
