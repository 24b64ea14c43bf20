package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"seqgen/internal/derive"
)

var deriveCmd = &cobra.Command{
	Use:   "derive [flags] schema.toml",
	Short: "Generate builder and String() methods from a struct schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runDerive,
}

func init() {
	deriveCmd.Flags().String("kind", "all", "what to generate (builder|string|all)")
	deriveCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
}

func runDerive(cmd *cobra.Command, args []string) error {
	kindFlag, _ := cmd.Flags().GetString("kind")
	kind, err := derive.ParseKind(kindFlag)
	if err != nil {
		return err
	}
	schema, err := derive.LoadSchema(args[0])
	if err != nil {
		return err
	}
	src, err := derive.Generate(schema, kind)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, src, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s)\n", out, kind)
	}
	return nil
}
