package tree

import (
	"strconv"

	"seqgen/internal/source"
	"seqgen/internal/token"
)

// Delim is the delimiter of a Group.
type Delim uint8

const (
	Paren Delim = iota
	Bracket
	Brace
	// None groups have an implicit scope and print without delimiters.
	None
)

func (d Delim) String() string {
	switch d {
	case Paren:
		return "Paren"
	case Bracket:
		return "Bracket"
	case Brace:
		return "Brace"
	case None:
		return "None"
	}
	return "Delim(?)"
}

// Open returns the opening delimiter text ("" for None).
func (d Delim) Open() string {
	switch d {
	case Paren:
		return "("
	case Bracket:
		return "["
	case Brace:
		return "{"
	}
	return ""
}

// Close returns the closing delimiter text ("" for None).
func (d Delim) Close() string {
	switch d {
	case Paren:
		return ")"
	case Bracket:
		return "]"
	case Brace:
		return "}"
	}
	return ""
}

func delimOf(k token.Kind) (Delim, bool) {
	switch k {
	case token.LParen, token.RParen:
		return Paren, true
	case token.LBracket, token.RBracket:
		return Bracket, true
	case token.LBrace, token.RBrace:
		return Brace, true
	}
	return None, false
}

// Meta is the position information every node carries.
type Meta struct {
	Span    source.Span
	Leading []token.Trivia
}

func (m *Meta) meta() *Meta { return m }

// Node is one of *Ident, *Literal, *Punct or *Group.
type Node interface {
	meta() *Meta
}

// MetaOf returns the position information of n.
func MetaOf(n Node) *Meta { return n.meta() }

// SpanOf returns the span of n.
func SpanOf(n Node) source.Span { return n.meta().Span }

// Ident is a name with no internal structure.
type Ident struct {
	Meta
	Name string
}

// Literal is a numeric, string or character constant. Tokens the lexer could
// not classify are kept as literals of kind token.Invalid so that text survives.
type Literal struct {
	Meta
	Kind token.Kind
	Text string
}

// Punct is a single symbolic character.
type Punct struct {
	Meta
	Char byte
	// Joint is set when the next token is a Punct written with no trivia between them.
	Joint bool
}

// Group is a delimited run of nodes. Meta.Span covers both delimiters.
type Group struct {
	Meta
	Delim   Delim
	Content Stream
	Open    source.Span
	Close   source.Span
	// CloseLeading is the trivia before the closing delimiter.
	CloseLeading []token.Trivia
	// Unclosed marks a group whose closing delimiter was missing in the source.
	Unclosed bool
}

// Stream is an ordered sequence of nodes.
type Stream []Node

// NewIdent builds an identifier node.
func NewIdent(name string, sp source.Span, leading []token.Trivia) *Ident {
	return &Ident{Meta: Meta{Span: sp, Leading: leading}, Name: name}
}

// NewInt builds an unsuffixed base-10 integer literal.
func NewInt(v int, sp source.Span, leading []token.Trivia) *Literal {
	return &Literal{Meta: Meta{Span: sp, Leading: leading}, Kind: token.IntLit, Text: strconv.Itoa(v)}
}

// IsPunct reports whether n is the punctuation character ch.
func IsPunct(n Node, ch byte) bool {
	p, ok := n.(*Punct)
	return ok && p.Char == ch
}

// IsIdent reports whether n is an identifier named name.
func IsIdent(n Node, name string) bool {
	id, ok := n.(*Ident)
	return ok && id.Name == name
}

// Text returns the source form of a leaf node, or "" for groups.
func Text(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return n.Name
	case *Literal:
		return n.Text
	case *Punct:
		return string(n.Char)
	case *Group:
		return ""
	}
	return ""
}

// WithLeading returns a shallow copy of n whose leading trivia is leading.
func WithLeading(n Node, leading []token.Trivia) Node {
	switch n := n.(type) {
	case *Ident:
		c := *n
		c.Leading = leading
		return &c
	case *Literal:
		c := *n
		c.Leading = leading
		return &c
	case *Punct:
		c := *n
		c.Leading = leading
		return &c
	case *Group:
		c := *n
		c.Leading = leading
		return &c
	}
	return n
}

// Clone deep-copies n. Trivia slices are shared; they are never mutated.
func Clone(n Node) Node {
	switch n := n.(type) {
	case *Ident:
		c := *n
		return &c
	case *Literal:
		c := *n
		return &c
	case *Punct:
		c := *n
		return &c
	case *Group:
		c := *n
		c.Content = CloneStream(n.Content)
		return &c
	}
	return n
}

// CloneStream deep-copies every node of s.
func CloneStream(s Stream) Stream {
	if s == nil {
		return nil
	}
	out := make(Stream, len(s))
	for i, n := range s {
		out[i] = Clone(n)
	}
	return out
}

// Inspect visits n and its descendants depth-first; children are skipped when f returns false.
func Inspect(s Stream, f func(Node) bool) {
	for _, n := range s {
		if !f(n) {
			continue
		}
		if g, ok := n.(*Group); ok {
			Inspect(g.Content, f)
		}
	}
}

// Count returns the number of nodes in s, groups and their content included.
func Count(s Stream) int {
	n := 0
	Inspect(s, func(Node) bool {
		n++
		return true
	})
	return n
}
