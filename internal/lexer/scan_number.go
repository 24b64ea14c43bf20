package lexer

import (
	"seqgen/internal/diag"
	"seqgen/internal/token"
)

// scanNumber reads 0, 1_000, 0b.., 0o.., 0x.., 1.5, 1e-3 and 2.5e+10, each with an
// optional type suffix made of identifier characters (10u8, 1.0f32).
// A '.' is only part of the number when a digit follows, so "0..3" is 0 '.' '.' 3.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			n := 0
			for b := lx.cursor.Peek(); digit(b) || b == '_'; b = lx.cursor.Peek() {
				if b != '_' {
					n++
				}
				lx.cursor.Bump()
			}
			if n == 0 {
				tok := lx.emit(token.Invalid, start)
				lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix")
				return tok
			}
			lx.scanSuffix()
			return lx.emit(kind, start)
		}
	}

	lx.scanDecDigits()

	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.scanDecDigits()
	}

	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		sign := lx.cursor.PeekAt(1)
		switch {
		case isDec(sign):
			kind = token.FloatLit
			lx.cursor.Bump()
			lx.scanDecDigits()
		case (sign == '+' || sign == '-') && isDec(lx.cursor.PeekAt(2)):
			kind = token.FloatLit
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.scanDecDigits()
		case sign == '+' || sign == '-':
			lx.cursor.Bump()
			lx.cursor.Bump()
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digit after exponent")
			return tok
		}
	}

	lx.scanSuffix()
	return lx.emit(kind, start)
}

func (lx *Lexer) scanDecDigits() {
	for b := lx.cursor.Peek(); isDec(b) || b == '_'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanSuffix() {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
