package seq

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// Invocation is a parsed `N in low..high { body }`.
type Invocation struct {
	Binder *tree.Ident
	// Low is inclusive, High exclusive; "..=" is normalised into High.
	Low, High int
	Inclusive bool
	Reversed  bool
	RangeSpan source.Span
	Body      tree.Stream
	BodyGroup *tree.Group
	Span      source.Span
}

// Len returns the number of range values, 0 for empty or reversed ranges.
func (inv *Invocation) Len() int {
	if inv.High <= inv.Low {
		return 0
	}
	return inv.High - inv.Low
}

// RangeText renders the range the way it was written.
func (inv *Invocation) RangeText() string {
	if inv.Inclusive {
		return fmt.Sprintf("%d..=%d", inv.Low, inv.High-1)
	}
	return fmt.Sprintf("%d..%d", inv.Low, inv.High)
}

// ParseInvocation parses s, the content of a call group or a whole bare file.
// sp is used for errors about missing trailing pieces.
func ParseInvocation(s tree.Stream, sp source.Span) (*Invocation, error) {
	p := invParser{s: s, end: sp.ZeroideToEnd()}
	inv := &Invocation{Span: sp}

	binder, ok := p.peek().(*tree.Ident)
	if !ok {
		return nil, p.errHere(diag.SynExpectBinder, "expected binder identifier")
	}
	p.pos++
	inv.Binder = binder

	if !tree.IsIdent(p.peek(), "in") {
		return nil, p.errHere(diag.SynExpectIn, "expected 'in' after binder '%s'", binder.Name)
	}
	p.pos++

	low, lowSpan, err := p.bound("lower")
	if err != nil {
		return nil, err
	}
	inv.Low = low
	inv.RangeSpan = lowSpan

	if err := p.rangeOp(inv); err != nil {
		return nil, err
	}

	high, highSpan, err := p.bound("upper")
	if err != nil {
		return nil, err
	}
	inv.Reversed = high < low
	if inv.Inclusive {
		if high == maxBound {
			return nil, syntaxErr(diag.SynBadRangeBound, highSpan, "upper bound %d is too large for an inclusive range", high)
		}
		high++
	}
	inv.High = high
	inv.RangeSpan = inv.RangeSpan.Cover(highSpan)

	g, ok := p.peek().(*tree.Group)
	if !ok || g.Delim != tree.Brace {
		return nil, p.errHere(diag.SynExpectBraces, "expected '{' body after range")
	}
	p.pos++
	inv.BodyGroup = g
	inv.Body = g.Content

	if n := p.peek(); n != nil {
		return nil, syntaxErr(diag.SynTrailingTokens, tree.SpanOf(n).Cover(tree.SpanOf(s[len(s)-1])), "unexpected tokens after template body")
	}
	return inv, nil
}

// Bounds are 32-bit signed integers.
const (
	maxBound = 1<<31 - 1
	minBound = -1 << 31
)

type invParser struct {
	s   tree.Stream
	pos int
	end source.Span
}

func (p *invParser) peek() tree.Node {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return nil
}

func (p *invParser) prevSpan() source.Span {
	if p.pos > 0 {
		return tree.SpanOf(p.s[p.pos-1])
	}
	return p.end
}

// errHere reports at the current node, or right after the last one when input ran out.
func (p *invParser) errHere(code diag.Code, format string, args ...any) *SyntaxError {
	if n := p.peek(); n != nil {
		return syntaxErr(code, tree.SpanOf(n), format, args...)
	}
	if len(p.s) > 0 {
		return syntaxErr(code, p.prevSpan().ZeroideToEnd(), format, args...)
	}
	return syntaxErr(code, p.end, format, args...)
}

// bound reads an integer literal, optionally negated by a '-' written right
// before it.
func (p *invParser) bound(which string) (int, source.Span, error) {
	var minus *tree.Punct
	if m, ok := p.peek().(*tree.Punct); ok && m.Char == '-' && p.pos+1 < len(p.s) {
		if lit, ok := p.s[p.pos+1].(*tree.Literal); ok && len(lit.Leading) == 0 {
			minus = m
			p.pos++
		}
	}
	lit, ok := p.peek().(*tree.Literal)
	if !ok || lit.Kind != token.IntLit {
		return 0, source.Span{}, p.errHere(diag.SynBadRangeBound, "expected integer %s bound", which)
	}
	sp := lit.Span
	if minus != nil {
		sp = minus.Span.Cover(lit.Span)
	}
	v, ok := parseBound(lit.Text, minus != nil)
	if !ok {
		return 0, sp, syntaxErr(diag.SynBadRangeBound, sp, "%s bound %q is not a 32-bit base-10 integer", which, boundText(minus, lit))
	}
	p.pos++
	return v, sp, nil
}

func boundText(minus *tree.Punct, lit *tree.Literal) string {
	if minus != nil {
		return "-" + lit.Text
	}
	return lit.Text
}

// rangeOp consumes ".." or "..=" written jointly.
func (p *invParser) rangeOp(inv *Invocation) error {
	first, ok := p.peek().(*tree.Punct)
	if !ok || first.Char != '.' || !first.Joint || p.pos+1 >= len(p.s) || !tree.IsPunct(p.s[p.pos+1], '.') {
		return p.errHere(diag.SynExpectRange, "expected '..' between range bounds")
	}
	second := p.s[p.pos+1].(*tree.Punct)
	p.pos += 2
	if second.Joint && tree.IsPunct(p.peek(), '=') {
		inv.Inclusive = true
		p.pos++
	}
	return nil
}

// parseBound accepts decimal digits with '_' separators only.
func parseBound(text string, negative bool) (int, bool) {
	if text == "" || text[0] == '_' {
		return 0, false
	}
	for i := 0; i < len(text); i++ {
		if c := text[i]; !(c >= '0' && c <= '9') && c != '_' {
			return 0, false
		}
	}
	u, err := strconv.ParseUint(strings.ReplaceAll(text, "_", ""), 10, 32)
	if err != nil {
		return 0, false
	}
	v, err := safecast.Conv[int](u)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	if v < minBound || v > maxBound {
		return 0, false
	}
	return v, true
}
