package lexer

import (
	"golang.org/x/text/unicode/norm"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanIdent reads an identifier. Token.Text is the NFC form of the source slice
// so that fused names compare equal however the template spelled them.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.cursor.SpanFrom(start)}
	}
	if r < utf8RuneSelf {
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			lx.bumpRune()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteRune(r))
			return tok
		}
		lx.bumpRune()
	}

	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if !norm.NFC.IsNormalString(tok.Text) {
		tok.Text = norm.NFC.String(tok.Text)
	}
	return tok
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
