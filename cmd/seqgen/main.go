package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seqgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "seqgen",
	Short: "Range-expansion template engine",
	Long: `seqgen expands repetition templates such as

    seq!(N in 0..3 { fn f#N() {} })

into plain source text, with diagnostics for malformed templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// main registers the subcommands and global flags and runs the root command.
// A failing command exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides seqgen.toml")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// диагностики уже напечатаны
		var diagErr errDiagnostics
		if !errors.As(err, &diagErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color against the terminal state of f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch colorFlag {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

// errDiagnostics signals that diagnostics were already printed; main only
// needs the exit status.
type errDiagnostics struct{ errors int }

func (e errDiagnostics) Error() string {
	if e.errors == 1 {
		return "1 error"
	}
	return fmt.Sprintf("%d errors", e.errors)
}
