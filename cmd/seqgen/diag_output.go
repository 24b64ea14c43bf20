package main

import (
	"os"

	"github.com/spf13/cobra"

	"seqgen/internal/diag"
	"seqgen/internal/diagfmt"
	"seqgen/internal/source"
)

// reportBag prints bag to stderr and returns errDiagnostics when it holds errors.
func reportBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor(cmd, os.Stderr),
		Context:   2,
		ShowNotes: true,
	})
	if errs, _ := diagfmt.Count(bag); errs > 0 {
		return errDiagnostics{errors: errs}
	}
	return nil
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 100
	}
	return n
}
