package lexer

import (
	"testing"

	"github.com/tang-lang/tang/token"
)

func TestNextToken(t *testing.T) {
	input := `
global x = 5;
use math;
if (x <= 10 && x >= 1) {
	print("hi\n");
} else if (x != 0.5) {
	break;
}
a.b[0] = 3 % 2;
? &&
`
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.GLOBAL, "global"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.USE, "use"},
		{token.IDENT, "math"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.LTE, "<="},
		{token.INT, "10"},
		{token.AND, "&&"},
		{token.IDENT, "x"},
		{token.GTE, ">="},
		{token.INT, "1"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.PRINT, "print"},
		{token.LPAREN, "("},
		{token.STRING, "hi\n"},
		{token.RPAREN, ")"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.NOT_EQ, "!="},
		{token.FLOAT, "0.5"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.BREAK, "break"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.IDENT, "a"},
		{token.DOT, "."},
		{token.IDENT, "b"},
		{token.LBRACKET, "["},
		{token.INT, "0"},
		{token.RBRACKET, "]"},
		{token.ASSIGN, "="},
		{token.INT, "3"},
		{token.PERCENT, "%"},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.QUESTION, "?"},
		{token.AND, "&&"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestFloatAndCommentLexing(t *testing.T) {
	input := `1.5e10 // a comment
3.0 2 0.25e-3`
	l := New(input)
	want := []struct {
		typ token.Type
		lit string
	}{
		{token.FLOAT, "1.5e10"},
		{token.FLOAT, "3.0"},
		{token.INT, "2"},
		{token.FLOAT, "0.25e-3"},
		{token.EOF, ""},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ || tok.Literal != w.lit {
			t.Fatalf("case %d: got %q %q, want %q %q", i, tok.Type, tok.Literal, w.typ, w.lit)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", tok.Type)
	}
}
