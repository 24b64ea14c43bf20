package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"seqgen/internal/diag"
	"seqgen/internal/diagfmt"
	"seqgen/internal/driver"
	"seqgen/internal/project"
	"seqgen/internal/seq"
	"seqgen/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.seq|directory>",
	Short: "Expand seq! templates",
	Long: `Expand every seq!( ... ) call in a file and print the result, or expand every
template under a directory and write each output next to its template (or under --out).`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().Bool("bare", false, "treat each file as a single invocation without the seq!( ) wrapper")
	expandCmd.Flags().String("format", "text", "output format (text|json)")
	expandCmd.Flags().String("out", "", "output directory")
	expandCmd.Flags().Int("jobs", 0, "max parallel files (0=auto)")
	expandCmd.Flags().Bool("no-cache", false, "disable the expansion cache")
	expandCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
}

// fileReport is one file of `expand --format json`.
type fileReport struct {
	Path        string                    `json:"path"`
	Output      *string                   `json:"output,omitempty"`
	Cached      bool                      `json:"cached,omitempty"`
	Malformed   bool                      `json:"malformed,omitempty"`
	Stats       seq.SpliceStats           `json:"stats"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

type expandReport struct {
	Files    []fileReport `json:"files"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	started := time.Now()
	target := args[0]

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}
	startDir := target
	if !st.IsDir() {
		startDir = filepath.Dir(target)
	}
	cfg, manifest, err := project.LoadOrDefault(startDir)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	if manifest != nil {
		logger.Debug("manifest loaded", slog.String("path", manifest.Path))
	}

	opts, err := buildExpandOptions(cmd, cfg, logger)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.Expand.OutDir
	}

	var (
		fs      *source.FileSet
		results []*driver.FileResult
	)
	if st.IsDir() {
		fs, results, err = expandDirectory(cmd, target, mode, opts)
		if err != nil {
			return err
		}
		if format == "text" {
			written := driver.WriteOutputs(results, target, outDir, opts.Extension)
			if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "expanded %d of %d files\n", written, len(results))
			}
		}
	} else {
		var res *driver.FileResult
		fs, res, err = driver.ExpandFile(cmd.Context(), target, opts)
		if err != nil {
			return err
		}
		results = []*driver.FileResult{res}
		if format == "text" && !res.Failed() && !res.Malformed {
			if err := writeFileOutput(cmd.OutOrStdout(), res, outDir, opts.Extension); err != nil {
				return err
			}
		}
	}

	errs, warns := countResults(results)
	if format == "json" {
		if err := renderExpandJSON(cmd.OutOrStdout(), results, fs, opts.MaxDiagnostics, errs, warns); err != nil {
			return err
		}
	} else {
		printDiagnostics(cmd, results, fs, errs, warns)
	}

	if timingsEnabled(cmd) {
		printTimings(cmd.ErrOrStderr(), driver.MergeTimers(results), time.Since(started))
	}
	if errs > 0 {
		return errDiagnostics{errors: errs}
	}
	return nil
}

func buildExpandOptions(cmd *cobra.Command, cfg project.Config, logger *slog.Logger) (driver.Options, error) {
	opts := driver.Options{
		MaxDepth:       cfg.Expand.MaxDepth,
		MaxDiagnostics: cfg.Expand.MaxDiagnostics,
		Jobs:           cfg.Expand.Jobs,
		Extension:      cfg.Expand.Extension,
		Logger:         logger,
	}
	if bare, _ := cmd.Flags().GetBool("bare"); bare {
		opts.Mode = driver.ModeBare
	}
	if cmd.Flags().Changed("jobs") {
		jobs, _ := cmd.Flags().GetInt("jobs")
		if jobs < 0 {
			return opts, fmt.Errorf("--jobs must be >= 0, got %d", jobs)
		}
		opts.Jobs = jobs
	}
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		opts.MaxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Expand.Cache && !noCache {
		cache, err := driver.OpenDiskCache("seqgen")
		if err != nil {
			// без кэша тоже работаем
			logger.Warn("cache disabled", slog.String("error", err.Error()))
		} else {
			opts.Cache = cache
		}
	}
	return opts, nil
}

func expandDirectory(cmd *cobra.Command, dir string, mode uiMode, opts driver.Options) (*source.FileSet, []*driver.FileResult, error) {
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); quiet || mode == uiModeOff {
		return driver.ExpandDir(cmd.Context(), dir, opts)
	}
	files, err := driver.ListFiles(dir, opts.Extension)
	if err != nil {
		return nil, nil, err
	}
	if !shouldUseTUI(mode, len(files)) {
		return driver.ExpandDir(cmd.Context(), dir, opts)
	}
	return expandDirWithUI(cmd.Context(), dir, files, opts)
}

// writeFileOutput prints a single file's expansion, or writes it under outDir
// when one is configured.
func writeFileOutput(stdout io.Writer, res *driver.FileResult, outDir, ext string) error {
	if outDir == "" {
		_, err := stdout.Write(res.Output)
		return err
	}
	path, err := driver.OutputPath(res.Path, filepath.Dir(res.Path), outDir, ext)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, res.Output, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func countResults(results []*driver.FileResult) (errs, warns int) {
	bags := make([]*diag.Bag, 0, len(results))
	for _, res := range results {
		if res != nil {
			bags = append(bags, res.Bag)
		}
	}
	return diagfmt.Count(bags...)
}

func printDiagnostics(cmd *cobra.Command, results []*driver.FileResult, fs *source.FileSet, errs, warns int) {
	colored := useColor(cmd, os.Stderr)
	opts := diagfmt.PrettyOpts{
		Color:     colored,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	}
	stderr := cmd.ErrOrStderr()
	for _, res := range results {
		if res == nil || res.Bag.Len() == 0 {
			continue
		}
		res.Bag.Sort()
		diagfmt.Pretty(stderr, res.Bag, fs, opts)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet && errs+warns > 0 {
		diagfmt.Summary(stderr, errs, warns, colored)
	}
}

func renderExpandJSON(w io.Writer, results []*driver.FileResult, fs *source.FileSet, maxDiagnostics, errs, warns int) error {
	report := expandReport{Files: make([]fileReport, 0, len(results)), Errors: errs, Warnings: warns}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         diagfmt.PathModeRelative,
		Max:              maxDiagnostics,
		IncludeNotes:     true,
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		res.Bag.Sort()
		fr := fileReport{
			Path:        res.Path,
			Cached:      res.Cached,
			Malformed:   res.Malformed,
			Stats:       res.Stats,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, fs, jsonOpts),
		}
		if !res.Failed() && !res.Malformed {
			out := string(res.Output)
			fr.Output = &out
		}
		report.Files = append(report.Files, fr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
