package lexer

import (
	"fmt"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanPunct reads one delimiter or one punctuation byte. Operators such as ".."
// are never merged here; the tree builder records jointness instead.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	switch ch {
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	}
	if isPunctByte(ch) {
		return lx.emit(token.Punct, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", ch))
	return tok
}
