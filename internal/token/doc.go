// Package token defines the flat lexical tokens produced by the template lexer.
// Invariants:
//   - Token.Text is the exact source text of the token (identifiers are NFC-normalised).
//   - Token.Span matches Text exactly (Start..End) for tokens read from a file.
//   - Punctuation is always one character; multi-character operators such as ".." are
//     several Punct tokens, the tree layer records whether they were written jointly.
//   - Delimiters are their own kinds and never reach the token tree as leaves.
//   - Whitespace and comments are carried as leading Trivia, so printing every token's
//     trivia followed by its text reproduces the source byte-for-byte.
//   - There are no keywords: "in" and "seq" are identifiers, recognised by position.
package token
