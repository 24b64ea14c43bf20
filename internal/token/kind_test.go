package token_test

import (
	"testing"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.CharLit}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Punct, token.LParen, token.EOF}
	for _, k := range non {
		if tok(k, "").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunct(t *testing.T) {
	if !tok(token.Punct, "#").IsPunct('#') {
		t.Fatalf("# should match")
	}
	if tok(token.Punct, "*").IsPunct('#') {
		t.Fatalf("* must not match #")
	}
	if tok(token.Ident, "#").IsPunct('#') {
		t.Fatalf("ident text must not count as punct")
	}
}

func TestDelimiterPairs(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBracket: token.RBracket,
		token.LBrace:   token.RBrace,
	}
	for open, closer := range pairs {
		if !open.IsOpen() || open.IsClose() {
			t.Fatalf("%v should be an opener", open)
		}
		if !closer.IsClose() || closer.IsOpen() {
			t.Fatalf("%v should be a closer", closer)
		}
		if open.Closer() != closer {
			t.Fatalf("%v.Closer() = %v, want %v", open, open.Closer(), closer)
		}
	}
	if token.Ident.Closer() != token.Invalid {
		t.Fatalf("non-delimiters have no closer")
	}
}

func TestTriviaText(t *testing.T) {
	items := []token.Trivia{
		{Kind: token.TriviaSpace, Text: "  "},
		{Kind: token.TriviaLineComment, Text: "// hi"},
		{Kind: token.TriviaNewline, Text: "\n"},
	}
	if got := token.TriviaText(items); got != "  // hi\n" {
		t.Fatalf("TriviaText = %q", got)
	}
	if token.TriviaText(nil) != "" {
		t.Fatalf("empty trivia must render empty")
	}
}
