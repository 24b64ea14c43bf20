package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"fortio.org/safecast"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/observ"
	"seqgen/internal/seq"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

// Mode selects how a file is read.
type Mode uint8

const (
	// ModeCalls expands every seq!( ... ) call and keeps the rest of the file.
	ModeCalls Mode = iota
	// ModeBare treats the whole file as one invocation.
	ModeBare
)

// Options configure ExpandSource, ExpandFile and ExpandDir.
type Options struct {
	Mode           Mode
	MaxDepth       int
	MaxRange       int
	MaxDiagnostics int
	// Jobs bounds directory parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Extension selects files in ExpandDir, ".seq" when empty.
	Extension string
	Cache     *DiskCache
	Progress  ProgressSink
	Logger    *slog.Logger
}

func (o Options) seqOptions() seq.Options {
	return seq.Options{MaxDepth: o.MaxDepth, MaxRange: o.MaxRange, Logger: o.Logger}
}

// FileResult is the outcome of one file.
type FileResult struct {
	Path      string
	FileID    source.FileID
	Output    []byte
	Bag       *diag.Bag
	Stats     seq.SpliceStats
	Timer     *observ.Timer
	Cached    bool
	Malformed bool
}

// Failed reports whether the file produced error diagnostics.
func (r *FileResult) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// ExpandFile loads path into a fresh FileSet and expands it.
func ExpandFile(ctx context.Context, path string, opts Options) (*source.FileSet, *FileResult, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return fs, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res, err := ExpandSource(ctx, fs, id, opts)
	return fs, res, err
}

// ExpandSource runs lex, tree, expand and print over one loaded file.
// fs is only read, so several goroutines may share it.
func ExpandSource(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := fs.Get(id)
	res := &FileResult{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
		Timer:  observ.NewTimer(),
	}
	logger := componentLogger(opts.Logger, "driver")
	started := time.Now()

	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file.Hash, opts)
		var payload CachePayload
		idx := res.Timer.Begin("cache")
		hit, err := opts.Cache.Get(key, &payload)
		res.Timer.End(idx, "")
		switch {
		case err != nil:
			if logEnabled(logger, slog.LevelWarn) {
				logger.LogAttrs(ctx, slog.LevelWarn, "cache read failed",
					slog.String("path", file.Path), slog.String("error", err.Error()))
			}
		case hit:
			res.restore(&payload)
			emit(opts.Progress, Event{File: file.Path, Stage: StagePrint, Status: StatusCached, Elapsed: time.Since(started)})
			if logEnabled(logger, slog.LevelDebug) {
				logger.LogAttrs(ctx, slog.LevelDebug, "cache hit", slog.String("path", file.Path))
			}
			return res, nil
		}
	}

	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusWorking})
	var tokens []token.Token
	res.Timer.Measure(string(StageLex), func() {
		tokens = lexer.Tokenize(file, lexer.Options{Reporter: rep})
	})

	emit(opts.Progress, Event{File: file.Path, Stage: StageTree, Status: StatusWorking})
	var root *tree.Root
	res.Timer.Measure(string(StageTree), func() {
		root, _ = tree.Build(tokens, rep)
	})

	emit(opts.Progress, Event{File: file.Path, Stage: StageExpand, Status: StatusWorking})
	idx := res.Timer.Begin(string(StageExpand))
	out := res.expand(root, file, opts, rep)
	res.Timer.End(idx, fmt.Sprintf("%d calls", res.Stats.Calls))

	emit(opts.Progress, Event{File: file.Path, Stage: StagePrint, Status: StatusWorking})
	idx = res.Timer.Begin(string(StagePrint))
	if out != nil {
		var buf bytes.Buffer
		if err := tree.PrintRoot(&buf, out); err != nil {
			res.Timer.End(idx, "")
			return nil, fmt.Errorf("failed to print %s: %w", file.Path, err)
		}
		res.Output = buf.Bytes()
	}
	res.Timer.End(idx, "")

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, toPayload(res)); err != nil && logEnabled(logger, slog.LevelWarn) {
			logger.LogAttrs(ctx, slog.LevelWarn, "cache write failed",
				slog.String("path", file.Path), slog.String("error", err.Error()))
		}
	}

	status := StatusDone
	if res.Failed() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: file.Path, Stage: StagePrint, Status: status, Elapsed: time.Since(started)})
	if logEnabled(logger, slog.LevelDebug) {
		logger.LogAttrs(ctx, slog.LevelDebug, "file expanded",
			slog.String("path", file.Path),
			slog.Int("calls", res.Stats.Calls),
			slog.Int("expanded", res.Stats.Expanded),
			slog.Int("diagnostics", res.Bag.Len()),
			slog.Int("duplicates", rep.Suppressed()),
			slog.Duration("elapsed", time.Since(started)))
	}
	return res, nil
}

// expand returns the tree to print, or nil when a bare file failed to parse.
func (res *FileResult) expand(root *tree.Root, file *source.File, opts Options, rep diag.Reporter) *tree.Root {
	seqOpts := opts.seqOptions()
	if opts.Mode != ModeBare {
		nodes, stats := seq.ExpandCalls(root.Nodes, seqOpts, rep)
		res.Stats = stats
		res.Malformed = stats.Malformed > 0
		return &tree.Root{File: root.File, Nodes: nodes, Trailing: root.Trailing}
	}

	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		diag.ReportError(rep, diag.IOLoadFileError, source.Span{File: file.ID}, "file too large").Emit()
		return nil
	}
	res.Stats.Calls = 1
	r, err := seq.Run(root.Nodes, source.Span{File: file.ID, Start: 0, End: end}, seqOpts)
	if err != nil {
		res.Stats.Failed = 1
		var d seq.Diagnosable
		if errors.As(err, &d) {
			diag.Emit(rep, d.Diagnostic())
		}
		return nil
	}
	res.Stats.Expanded = 1
	for _, d := range r.Diagnostics() {
		diag.Emit(rep, d)
	}

	nodes, inner := seq.ExpandCalls(r.Output, seqOpts, rep)
	res.Stats.Calls += inner.Calls
	res.Stats.Expanded += inner.Expanded
	res.Stats.Failed += inner.Failed
	res.Stats.Malformed = inner.Malformed
	if r.Malformed {
		res.Stats.Malformed++
	}
	res.Stats.MaxDepth = inner.MaxDepth + 1
	res.Malformed = res.Stats.Malformed > 0

	// the body's own indentation is dropped; output starts at column 1
	if len(nodes) > 0 {
		nodes[0] = tree.WithLeading(nodes[0], nil)
	}
	return &tree.Root{File: root.File, Nodes: nodes, Trailing: newlineOnly(root.Trailing)}
}

func newlineOnly(trailing []token.Trivia) []token.Trivia {
	for _, tv := range trailing {
		if tv.Kind == token.TriviaNewline {
			return []token.Trivia{{Kind: token.TriviaNewline, Text: "\n", Span: tv.Span}}
		}
	}
	return nil
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
