package seq

import (
	"context"
	"fmt"
	"log/slog"

	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

const (
	// DefaultMaxDepth bounds how many times expanded output is rescanned for calls.
	DefaultMaxDepth = 64
	// DefaultMaxRange bounds the number of values a single range may produce.
	DefaultMaxRange = 1 << 16
	// CallName is the identifier that introduces a call: seq!( ... ).
	CallName = "seq"
)

type Options struct {
	MaxDepth int
	MaxRange int
	Logger   *slog.Logger
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) maxRange() int {
	if o.MaxRange <= 0 {
		return DefaultMaxRange
	}
	return o.MaxRange
}

// Result is the outcome of one invocation.
type Result struct {
	Invocation     *Invocation
	Classification Classification
	Output         tree.Stream
	Fusion         []*FusionError
	Warnings       []diag.Diagnostic
	// Malformed is set when fusion errors were found; Output is still filled in for
	// display but must not be compiled.
	Malformed bool
}

// Run parses, classifies and expands one invocation held in s.
func Run(s tree.Stream, sp source.Span, opts Options) (*Result, error) {
	inv, err := ParseInvocation(s, sp)
	if err != nil {
		return nil, err
	}
	res := &Result{Invocation: inv}

	if inv.Reversed {
		res.Warnings = append(res.Warnings, diag.New(diag.SevWarning, diag.SeqEmptyReversedRange,
			inv.RangeSpan,
			fmt.Sprintf("range %s is reversed and expands to nothing", inv.RangeText())))
	}
	if inv.Len() > opts.maxRange() {
		return nil, syntaxErr(diag.SeqRangeTooLarge, inv.Span,
			"range of %d values exceeds the limit of %d", inv.Len(), opts.maxRange())
	}

	c, err := Classify(inv.Body)
	if err != nil {
		return nil, err
	}
	res.Classification = c

	res.Output = Expand(inv, c, func(fe *FusionError) {
		res.Fusion = append(res.Fusion, fe)
	})
	res.Malformed = len(res.Fusion) > 0

	logger := opts.Logger
	if logEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(context.Background(), slog.LevelDebug, "expanded invocation",
			slog.String("binder", inv.Binder.Name),
			slog.Int("low", inv.Low),
			slog.Int("high", inv.High),
			slog.String("mode", ModeName(c)),
			slog.Int("nodes", len(res.Output)),
			slog.Int("fusion_errors", len(res.Fusion)))
	}
	return res, nil
}

// ModeName names the expansion mode of c.
func ModeName(c Classification) string {
	switch c.(type) {
	case *FullReplicate:
		return "full"
	case *PartiallyMarked:
		return "partial"
	}
	return "unknown"
}

// Diagnostics returns every diagnostic of the result in emission order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(r.Warnings)+len(r.Fusion))
	out = append(out, r.Warnings...)
	for _, fe := range r.Fusion {
		out = append(out, fe.Diagnostic())
	}
	return out
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

func logEnabled(logger *slog.Logger, level slog.Level) bool {
	return logger != nil && logger.Enabled(context.Background(), level)
}
