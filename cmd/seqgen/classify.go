package main

import (
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seqgen/internal/diag"
	"seqgen/internal/diagfmt"
	"seqgen/internal/driver"
	"seqgen/internal/seq"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] file.seq",
	Short: "Show how each invocation in a file will be expanded",
	Long: `Classify parses every seq!( ... ) call (or, with --bare, the whole file) and prints
its binder, range and repetition layout without printing the expansion.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Bool("bare", false, "treat the file as a single invocation")
}

type invocationSource struct {
	body tree.Stream
	span source.Span
}

func runClassify(cmd *cobra.Command, args []string) error {
	result, err := driver.BuildTree(args[0], maxDiagnostics(cmd))
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}
	if !result.Balanced {
		return reportBag(cmd, result.Bag, result.FileSet)
	}

	var sources []invocationSource
	if bare, _ := cmd.Flags().GetBool("bare"); bare {
		end, err := safecast.Conv[uint32](len(result.File.Content))
		if err != nil {
			return fmt.Errorf("%s is too large", result.File.Path)
		}
		sources = append(sources, invocationSource{
			body: result.Root.Nodes,
			span: source.Span{File: result.File.ID, Start: 0, End: end},
		})
	} else {
		for _, call := range seq.FindCalls(result.Root.Nodes) {
			sources = append(sources, invocationSource{body: call.Group.Content, span: call.Group.Span})
		}
	}

	width := 0
	if isTerminal(os.Stdout) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	rep := diag.BagReporter{Bag: result.Bag}
	printed := 0
	for _, src := range sources {
		res, err := seq.Run(src.body, src.span, seq.Options{})
		if err != nil {
			var d seq.Diagnosable
			if errors.As(err, &d) {
				diag.Emit(rep, d.Diagnostic())
				continue
			}
			return err
		}
		for _, d := range res.Diagnostics() {
			diag.Emit(rep, d)
		}
		if printed > 0 {
			fmt.Fprintln(os.Stdout)
		}
		if err := diagfmt.FormatClassification(os.Stdout, res, result.FileSet, width); err != nil {
			return err
		}
		printed++
	}
	if len(sources) == 0 {
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(os.Stderr, "no seq! calls in %s\n", result.File.Path)
		}
	}
	return reportBag(cmd, result.Bag, result.FileSet)
}
