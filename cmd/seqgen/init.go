package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seqgen/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a seqgen.toml with default settings",
	Long: `Init writes a seqgen.toml manifest into dir (the current directory when omitted).
The directory is created if needed. An existing manifest is kept unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing manifest")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 && args[0] != "" {
		dir = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")
	path, err := project.WriteDefault(dir, force)
	if err != nil {
		return err
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
