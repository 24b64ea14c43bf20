package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanString reads "..." with backslash escapes. Escapes are not validated here;
// the text is copied verbatim into the output. Newlines are allowed inside.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanCharOrQuote reads 'x' or '\n'. Anything else leaves the quote as a Punct
// so that lifetimes and labels ('a) pass through untouched.
func (lx *Lexer) scanCharOrQuote() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		lx.bumpRune()
		for !lx.cursor.EOF() {
			b := lx.cursor.Peek()
			if b == '\'' {
				lx.cursor.Bump()
				return lx.emit(token.CharLit, start)
			}
			if b == '\n' {
				break
			}
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
		return tok
	}

	after := lx.cursor.Mark()
	if _, sz := lx.peekRune(); sz > 0 && lx.cursor.Peek() != '\n' && lx.cursor.Peek() != '\'' {
		lx.bumpRune()
		if lx.cursor.Eat('\'') {
			return lx.emit(token.CharLit, start)
		}
	}
	lx.cursor.Reset(after)
	return lx.emit(token.Punct, start)
}
