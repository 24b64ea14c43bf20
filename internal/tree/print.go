package tree

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"seqgen/internal/token"
)

// Print writes s with every node's leading trivia, reproducing the source text
// for nodes read from a file.
func Print(w io.Writer, s Stream) error {
	p := printer{w: w}
	p.stream(s)
	return p.err
}

// PrintRoot writes the whole file, trailing trivia included.
func PrintRoot(w io.Writer, r *Root) error {
	p := printer{w: w}
	p.stream(r.Nodes)
	p.trivia(r.Trailing)
	return p.err
}

// Format renders s as a string without the first node's leading trivia.
func Format(s Stream) string {
	if len(s) == 0 {
		return ""
	}
	var sb strings.Builder
	p := printer{w: &sb}
	p.node(WithLeading(s[0], nil))
	p.stream(s[1:])
	return sb.String()
}

// String renders a single node like Format.
func String(n Node) string {
	return Format(Stream{n})
}

// printer separates two nodes with one space when they carry no trivia and
// their texts would lex as a single token. Source text never needs it; copies
// placed side by side by an expansion do.
type printer struct {
	w    io.Writer
	err  error
	tail string
}

func (p *printer) write(s string) {
	if p.err != nil || s == "" {
		return
	}
	p.tail = s
	_, p.err = io.WriteString(p.w, s)
}

// leaf writes the text of a token node, inserting a space if it would fuse
// with the previous token.
func (p *printer) leaf(text string, leading []token.Trivia) {
	if len(leading) == 0 && glues(p.tail, text) {
		p.write(" ")
	}
	p.write(text)
}

func glues(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev)
	first, _ := utf8.DecodeRuneInString(next)
	switch {
	case isWordRune(last) && isWordRune(first):
		return true
	case last == '/' && (first == '/' || first == '*'):
		// "//" and "/*" would open a comment
		return true
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func (p *printer) trivia(items []token.Trivia) {
	for _, t := range items {
		p.write(t.Text)
	}
}

func (p *printer) stream(s Stream) {
	for _, n := range s {
		p.node(n)
	}
}

func (p *printer) node(n Node) {
	leading := n.meta().Leading
	p.trivia(leading)
	switch n := n.(type) {
	case *Ident:
		p.leaf(n.Name, leading)
	case *Literal:
		p.leaf(n.Text, leading)
	case *Punct:
		p.leaf(string(n.Char), leading)
	case *Group:
		p.write(n.Delim.Open())
		p.stream(n.Content)
		p.trivia(n.CloseLeading)
		if !n.Unclosed {
			p.write(n.Delim.Close())
		}
	}
}
