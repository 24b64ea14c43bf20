package token

import "seqgen/internal/source"

// TriviaKind classifies non-significant source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	}
	return "TriviaKind(?)"
}

// Trivia is whitespace or a comment preceding a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// TriviaText concatenates the text of every trivia item.
func TriviaText(items []Trivia) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0].Text
	}
	n := 0
	for _, it := range items {
		n += len(it.Text)
	}
	buf := make([]byte, 0, n)
	for _, it := range items {
		buf = append(buf, it.Text...)
	}
	return string(buf)
}
