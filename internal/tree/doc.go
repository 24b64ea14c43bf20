// Package tree turns the flat token stream into a token tree: identifiers,
// literals, single-character punctuation and delimited groups.
//
// Nodes keep their span and leading trivia, so printing a tree built from a file
// reproduces that file byte-for-byte. Nodes created during expansion inherit the
// position of the template node they replace.
//
// Traversals switch on the concrete node type; there are exactly four of them.
package tree
