package tree

import (
	"fmt"

	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/token"
)

// Root is a whole file turned into a tree.
type Root struct {
	File  source.FileID
	Nodes Stream
	// Trailing is the trivia after the last token.
	Trailing []token.Trivia
}

type frame struct {
	group *Group
	kind  token.Kind // opening kind
}

// Build pairs delimiters and returns the token tree. Delimiter problems are reported
// and recovered from so that the tree still prints the source text:
//   - a closer without an opener is kept as an Invalid literal;
//   - a closer matching an outer opener closes every inner group as unclosed;
//   - groups still open at EOF are marked Unclosed.
//
// Build reports whether the input was balanced.
func Build(tokens []token.Token, r diag.Reporter) (*Root, bool) {
	root := &Root{}
	if len(tokens) > 0 {
		root.File = tokens[0].Span.File
	}
	ok := true
	var stack []frame
	top := func() *Stream {
		if len(stack) == 0 {
			return &root.Nodes
		}
		return &stack[len(stack)-1].group.Content
	}

	for i, tok := range tokens {
		switch {
		case tok.Kind == token.EOF:
			root.Trailing = tok.Leading

		case tok.Kind.IsOpen():
			d, _ := delimOf(tok.Kind)
			g := &Group{
				Meta:  Meta{Span: tok.Span, Leading: tok.Leading},
				Delim: d,
				Open:  tok.Span,
			}
			stack = append(stack, frame{group: g, kind: tok.Kind})

		case tok.Kind.IsClose():
			depth := matchingFrame(stack, tok.Kind)
			if depth < 0 {
				ok = false
				reportDelim(r, diag.SynUnexpectedCloser, tok.Span, fmt.Sprintf("unexpected closing delimiter '%s'", tok.Text), nil)
				dst := top()
				*dst = append(*dst, &Literal{Meta: Meta{Span: tok.Span, Leading: tok.Leading}, Kind: token.Invalid, Text: tok.Text})
				continue
			}
			for len(stack)-1 > depth {
				ok = false
				inner := stack[len(stack)-1].group
				reportDelim(r, diag.SynMismatchedDelimiter, tok.Span,
					fmt.Sprintf("mismatched closing delimiter '%s'", tok.Text),
					&diag.Note{Span: inner.Open, Msg: fmt.Sprintf("unclosed '%s' here", inner.Delim.Open())})
				stack = popUnclosed(stack)
				dst := top()
				*dst = append(*dst, inner)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			g := f.group
			g.Close = tok.Span
			g.CloseLeading = tok.Leading
			g.Span = g.Open.Cover(tok.Span)
			dst := top()
			*dst = append(*dst, g)

		default:
			dst := top()
			*dst = append(*dst, leaf(tok, next(tokens, i)))
		}
	}

	for len(stack) > 0 {
		ok = false
		g := stack[len(stack)-1].group
		reportDelim(r, diag.SynUnclosedDelimiter, g.Open, fmt.Sprintf("unclosed delimiter '%s'", g.Delim.Open()), nil)
		stack = popUnclosed(stack)
		dst := top()
		*dst = append(*dst, g)
	}
	return root, ok
}

func matchingFrame(stack []frame, closer token.Kind) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind.Closer() == closer {
			return i
		}
	}
	return -1
}

func popUnclosed(stack []frame) []frame {
	g := stack[len(stack)-1].group
	g.Unclosed = true
	if n := len(g.Content); n > 0 {
		g.Span = g.Open.Cover(SpanOf(g.Content[n-1]))
	}
	return stack[:len(stack)-1]
}

func next(tokens []token.Token, i int) *token.Token {
	if i+1 < len(tokens) {
		return &tokens[i+1]
	}
	return nil
}

func leaf(tok token.Token, after *token.Token) Node {
	m := Meta{Span: tok.Span, Leading: tok.Leading}
	switch tok.Kind {
	case token.Ident:
		return &Ident{Meta: m, Name: tok.Text}
	case token.Punct:
		joint := after != nil && after.Kind == token.Punct && len(after.Leading) == 0
		return &Punct{Meta: m, Char: tok.Text[0], Joint: joint}
	default:
		return &Literal{Meta: m, Kind: tok.Kind, Text: tok.Text}
	}
}

func reportDelim(r diag.Reporter, code diag.Code, sp source.Span, msg string, note *diag.Note) {
	if r == nil {
		return
	}
	var notes []diag.Note
	if note != nil {
		notes = []diag.Note{*note}
	}
	r.Report(code, diag.SevError, sp, msg, notes)
}
