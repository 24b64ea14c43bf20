package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"seqgen/internal/observ"
)

func timingsEnabled(cmd *cobra.Command) bool {
	on, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && on
}

// printTimings writes the phase table followed by the wall-clock time of the
// whole command.
func printTimings(out io.Writer, timer *observ.Timer, wall time.Duration) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
	fmt.Fprintf(out, "  %-12s %9.3f ms\n", "wall", toMillis(wall))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
