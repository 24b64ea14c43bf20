package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"seqgen/internal/diag"
	"seqgen/internal/observ"
	"seqgen/internal/source"
)

// DefaultExtension marks template files in directory mode.
const DefaultExtension = ".seq"

// ListFiles returns every file under dir ending in ext, sorted.
func ListFiles(dir, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// детерминированный порядок
	sort.Strings(files)
	return files, nil
}

// ExpandDir expands every template under dir in parallel. Results come back in
// ListFiles order. A file that cannot be read gets an IO diagnostic instead of
// aborting the run; only context cancellation returns an error.
func ExpandDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*FileResult, error) {
	files, err := ListFiles(dir, opts.Extension)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// FileSet не потокобезопасен: загружаем всё заранее, воркеры только читают
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			// empty placeholder so the diagnostic still resolves to a path
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  fmt.Sprintf("failed to load %s: %v", path, loadErr),
					Primary:  source.Span{File: fileIDs[i]},
				})
				results[i] = &FileResult{Path: path, FileID: fileIDs[i], Bag: bag, Timer: observ.NewTimer()}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			res, err := ExpandSource(gctx, fileSet, fileIDs[i], opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}

// OutputPath maps a template path under srcDir to its output path under outDir:
// the extension is dropped and the relative layout kept.
func OutputPath(path, srcDir, outDir, ext string) (string, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	rel, err := filepath.Rel(srcDir, path)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, ext)
	if outDir == "" {
		outDir = srcDir
	}
	return filepath.Join(outDir, rel), nil
}

// WriteOutputs writes every successful result next to its template (or under
// outDir). Write failures are added to the result's bag.
func WriteOutputs(results []*FileResult, srcDir, outDir, ext string) int {
	written := 0
	for _, res := range results {
		if res == nil || res.Failed() || res.Malformed {
			continue
		}
		target, err := OutputPath(res.Path, srcDir, outDir, ext)
		if err == nil {
			err = os.MkdirAll(filepath.Dir(target), 0o755)
		}
		if err == nil {
			err = os.WriteFile(target, res.Output, 0o600)
		}
		if err != nil {
			res.Bag.Add(diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.IOWriteFileError,
				Message:  fmt.Sprintf("failed to write output for %s: %v", res.Path, err),
				Primary:  source.Span{File: res.FileID},
			})
			continue
		}
		written++
	}
	return written
}

// MergeTimers sums the per-file timers.
func MergeTimers(results []*FileResult) *observ.Timer {
	total := observ.NewTimer()
	for _, res := range results {
		if res != nil {
			total.Merge(res.Timer)
		}
	}
	return total
}
