package driver

import (
	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// TokenizeResult is the flat token list of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and lexes it; the token slice always ends with EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

// TreeResult is the token tree of one file.
type TreeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Root     *tree.Root
	Balanced bool
	Bag      *diag.Bag
}

// BuildTree loads path, lexes it and pairs its delimiters.
func BuildTree(path string, maxDiagnostics int) (*TreeResult, error) {
	tr, err := Tokenize(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	root, ok := tree.Build(tr.Tokens, diag.BagReporter{Bag: tr.Bag})
	return &TreeResult{
		FileSet:  tr.FileSet,
		File:     tr.File,
		Root:     root,
		Balanced: ok,
		Bag:      tr.Bag,
	}, nil
}
