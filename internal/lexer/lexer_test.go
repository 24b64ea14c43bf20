package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/token"
)

// makeTestLexer creates a lexer over input and a bag collecting its diagnostics.
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.seq", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(0)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type kt struct {
	kind token.Kind
	text string
}

func expectTokens(t *testing.T, input string, expected []kt) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1] // EOF

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %s\ndiags: %v",
			len(expected), len(tokens), input, tokensToString(tokens), bag.Items())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i].kind || tok.Text != expected[i].text {
			t.Errorf("token %d: expected %v(%q), got %v(%q)",
				i, expected[i].kind, expected[i].text, tok.Kind, tok.Text)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"foo", "foo"},
		{"_bar", "_bar"},
		{"_", "_"},
		{"x123", "x123"},
		{"in", "in"},
		{"seq", "seq"},
		{"имя", "имя"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, []kt{{token.Ident, tt.text}})
		})
	}
}

func TestIdentifierNFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to a single rune
	lx, _ := makeTestLexer("cafe\u0301")
	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if tok.Text != "caf\u00e9" {
		t.Errorf("expected NFC text, got %q", tok.Text)
	}
	if tok.Span.Len() != uint32(len("cafe\u0301")) {
		t.Errorf("span must cover the source bytes, got %d", tok.Span.Len())
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0x1F", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o17", token.IntLit},
		{"10u8", token.IntLit},
		{"1.5", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.5E+10", token.FloatLit},
		{"1.0f32", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, []kt{{tt.kind, tt.input}})
		})
	}
}

func TestRangeIsNotAFloat(t *testing.T) {
	expectTokens(t, "0..3", []kt{
		{token.IntLit, "0"},
		{token.Punct, "."},
		{token.Punct, "."},
		{token.IntLit, "3"},
	})
	expectTokens(t, "0..=3", []kt{
		{token.IntLit, "0"},
		{token.Punct, "."},
		{token.Punct, "."},
		{token.Punct, "="},
		{token.IntLit, "3"},
	})
}

func TestBadNumber(t *testing.T) {
	lx, bag := makeTestLexer("0x")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
		t.Fatalf("expected LexBadNumber, got %v", bag.Items())
	}
}

func TestStringsAndChars(t *testing.T) {
	expectTokens(t, `"a\"b" 'x' '\n' 'a`, []kt{
		{token.StringLit, `"a\"b"`},
		{token.CharLit, `'x'`},
		{token.CharLit, `'\n'`},
		{token.Punct, "'"},
		{token.Ident, "a"},
	})
}

func TestUnterminatedString(t *testing.T) {
	lx, bag := makeTestLexer(`"abc`)
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", tok.Kind)
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %v", bag.Items())
	}
}

func TestPunctAndDelimiters(t *testing.T) {
	expectTokens(t, "#(x)* [y]{}", []kt{
		{token.Punct, "#"},
		{token.LParen, "("},
		{token.Ident, "x"},
		{token.RParen, ")"},
		{token.Punct, "*"},
		{token.LBracket, "["},
		{token.Ident, "y"},
		{token.RBracket, "]"},
		{token.LBrace, "{"},
		{token.RBrace, "}"},
	})
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("a § b")
	tokens := collectAllTokens(lx)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %s", tokensToString(tokens))
	}
	if tokens[1].Kind != token.Invalid {
		t.Errorf("expected Invalid, got %v", tokens[1].Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar, got %v", bag.Items())
	}
}

func TestLeadingTrivia(t *testing.T) {
	lx, _ := makeTestLexer("  // note\n\n/* a /* b */ c */x")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("expected ident x, got %v(%q)", tok.Kind, tok.Text)
	}
	kinds := make([]token.TriviaKind, 0, len(tok.Leading))
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("expected trivia %v, got %v", want, kinds)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("/* open")
	tok := lx.Next()
	if tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected LexUnterminatedBlockComment, got %v", bag.Items())
	}
	if len(tok.Leading) != 1 {
		t.Errorf("EOF should carry the comment as trailing trivia")
	}
}

func TestRoundTripText(t *testing.T) {
	inputs := []string{
		"N in 0..3 {\n    #(\n        Variant#N,\n    )*\n}\n",
		"fn f#N () {} // tail\n",
		"  a+=b;\t'c' \"s\"  ",
	}
	for _, input := range inputs {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("rt.seq", []byte(input)))
		var sb strings.Builder
		for _, tok := range lexer.Tokenize(file, lexer.Options{}) {
			sb.WriteString(token.TriviaText(tok.Leading))
			sb.WriteString(tok.Text)
		}
		if sb.String() != input {
			t.Errorf("round trip mismatch:\nwant %q\ngot  %q", input, sb.String())
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	p := lx.Peek()
	n := lx.Next()
	if p.Text != n.Text || p.Span != n.Span {
		t.Errorf("peek %v != next %v", p, n)
	}
	if lx.Next().Text != "b" {
		t.Errorf("expected b after a")
	}
}
