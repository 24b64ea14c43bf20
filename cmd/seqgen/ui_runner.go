package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"seqgen/internal/driver"
	"seqgen/internal/source"
	"seqgen/internal/ui"
)

type expandOutcome struct {
	fs      *source.FileSet
	results []*driver.FileResult
	err     error
}

// expandDirWithUI runs ExpandDir in the background and renders its events
// until the run finishes.
func expandDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options) (*source.FileSet, []*driver.FileResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.ExpandDir(ctx, dir, runOpts)
		outcomeCh <- expandOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("expanding", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	return finishUIRun(cancel, events, outcomeCh, uiErr)
}

// finishUIRun collects the outcome once the UI has exited. A run still in
// progress at that point was interrupted (ctrl+c) and is cancelled.
func finishUIRun(cancel context.CancelFunc, events <-chan driver.Event, outcomeCh <-chan expandOutcome, uiErr error) (*source.FileSet, []*driver.FileResult, error) {
	var outcome expandOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		cancel()
		// воркеры не должны блокироваться на отправке событий
		go func() {
			for range events {
			}
		}()
		outcome = <-outcomeCh
		if outcome.err == nil {
			outcome.err = context.Canceled
		}
	}
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
