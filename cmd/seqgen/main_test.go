package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqgen/internal/driver"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := readUIMode("sometimes")
	assert.Error(t, err)
	assert.True(t, shouldUseTUI(uiModeOn, 1))
	assert.False(t, shouldUseTUI(uiModeOn, 0))
	assert.False(t, shouldUseTUI(uiModeOff, 5))
	assert.False(t, shouldUseTUI(uiModeAuto, 1))
}

func TestErrDiagnostics(t *testing.T) {
	assert.Equal(t, "1 error", errDiagnostics{errors: 1}.Error())
	assert.Equal(t, "3 errors", errDiagnostics{errors: 3}.Error())
}

func expandTemp(t *testing.T, name, content string) (string, *driver.FileResult) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	_, res, err := driver.ExpandFile(context.Background(), path, driver.Options{})
	require.NoError(t, err)
	return dir, res
}

func TestWriteFileOutput(t *testing.T) {
	_, res := expandTemp(t, "gen.rs.seq", "seq!(N in 0..2 { f#N(); })\n")
	require.False(t, res.Failed())

	var stdout bytes.Buffer
	require.NoError(t, writeFileOutput(&stdout, res, "", ".seq"))
	assert.Equal(t, "f0(); f1();\n", stdout.String())

	out := t.TempDir()
	stdout.Reset()
	require.NoError(t, writeFileOutput(&stdout, res, out, ".seq"))
	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(filepath.Join(out, "gen.rs"))
	require.NoError(t, err)
	assert.Equal(t, "f0(); f1();\n", string(data))
}

func TestRenderExpandJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.seq"), []byte("seq!(N in 0..2 { # x })\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.seq"), []byte("seq!(N in 0..1 { a#N })\n"), 0o600))
	fs, results, err := driver.ExpandDir(context.Background(), dir, driver.Options{Jobs: 1})
	require.NoError(t, err)
	require.Len(t, results, 2)
	errs, warns := countResults(results)
	require.Positive(t, errs)

	var buf bytes.Buffer
	require.NoError(t, renderExpandJSON(&buf, results, fs, 0, errs, warns))

	var report expandReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Files, 2)
	assert.Equal(t, errs, report.Errors)
	assert.Nil(t, report.Files[0].Output)
	assert.True(t, report.Files[0].Malformed)
	assert.NotEmpty(t, report.Files[0].Diagnostics.Diagnostics)
	require.NotNil(t, report.Files[1].Output)
	assert.Equal(t, "a0\n", *report.Files[1].Output)
	assert.Equal(t, 1, report.Files[1].Stats.Expanded)
}

func TestFinishUIRunCancelsInterruptedRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan driver.Event)
	outcomeCh := make(chan expandOutcome, 1)
	go func() {
		<-ctx.Done()
		// an event sent after the UI is gone must not block
		events <- driver.Event{File: "late.seq", Status: driver.StatusError}
		outcomeCh <- expandOutcome{err: ctx.Err()}
		close(events)
	}()

	_, _, err := finishUIRun(cancel, events, outcomeCh, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFinishUIRunKeepsCompletedOutcome(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	outcomeCh := make(chan expandOutcome, 1)
	outcomeCh <- expandOutcome{results: []*driver.FileResult{{Path: "a.seq"}}}

	cancelled := false
	_, results, err := finishUIRun(func() { cancelled = true }, events, outcomeCh, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.False(t, cancelled)
}
