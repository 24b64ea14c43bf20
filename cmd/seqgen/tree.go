package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seqgen/internal/driver"
	"seqgen/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree file.seq",
	Short: "Print the token tree of a template file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	result, err := driver.BuildTree(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}
	if err := tree.Dump(os.Stdout, result.Root.Nodes); err != nil {
		return err
	}
	return reportBag(cmd, result.Bag, result.FileSet)
}
