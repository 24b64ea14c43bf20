package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// IntLit represents an integer literal, possibly with a type suffix.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// CharLit represents a single-quoted character literal.
	CharLit

	// Punct represents a single punctuation character.
	Punct

	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	CharLit:   "CharLit",
	Punct:     "Punct",
	LParen:    "LParen",
	RParen:    "RParen",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsOpen reports whether k opens a delimited group.
func (k Kind) IsOpen() bool {
	return k == LParen || k == LBracket || k == LBrace
}

// IsClose reports whether k closes a delimited group.
func (k Kind) IsClose() bool {
	return k == RParen || k == RBracket || k == RBrace
}

// Closer returns the closing kind matching an opening delimiter, or Invalid.
func (k Kind) Closer() Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	default:
		return Invalid
	}
}
