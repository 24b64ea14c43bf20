package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqgen/internal/diag"
	"seqgen/internal/token"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandFileCalls(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.seq"), "let a = seq!(N in 0..3 { x#N, }); b\n")

	_, res, err := ExpandFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "let a = x0, x1, x2,; b\n", string(res.Output))
	assert.Zero(t, res.Bag.Len())
	assert.Equal(t, 1, res.Stats.Expanded)
	assert.False(t, res.Failed())

	names := make([]string, 0, 4)
	for _, p := range res.Timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"lex", "tree", "expand", "print"}, names)
}

func TestExpandFileKeepsCopiesApart(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"seq!(N in 0..3 {N})\n":                  "0 1 2\n",
		"let v = [seq!(N in 0..3 {#(x#N)*})];\n": "let v = [x0 x1 x2];\n",
	}
	i := 0
	for input, want := range cases {
		i++
		path := writeFile(t, filepath.Join(dir, fmt.Sprintf("c%d.seq", i)), input)
		_, res, err := ExpandFile(context.Background(), path, Options{})
		require.NoError(t, err)
		assert.False(t, res.Failed())
		assert.Equal(t, want, string(res.Output), input)
	}
}

func TestExpandFileBare(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "b.seq"), "N in 0..3 {\n    fn f#N() {}\n}\n")

	_, res, err := ExpandFile(context.Background(), path, Options{Mode: ModeBare})
	require.NoError(t, err)
	assert.Equal(t, "fn f0() {}\n    fn f1() {}\n    fn f2() {}\n", string(res.Output))
	assert.Equal(t, 1, res.Stats.Calls)
	assert.Equal(t, 1, res.Stats.Expanded)
}

func TestExpandFileBareSyntaxError(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "c.seq"), "N 0..3 { x }\n")

	_, res, err := ExpandFile(context.Background(), path, Options{Mode: ModeBare})
	require.NoError(t, err)
	assert.Nil(t, res.Output)
	require.True(t, res.Failed())
	assert.Equal(t, diag.SynExpectIn, res.Bag.Items()[0].Code)
	assert.Equal(t, 1, res.Stats.Failed)
}

func TestExpandFileDedupsFusionErrors(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "d.seq"), "seq!(N in 0..4 { # x })\n")

	_, res, err := ExpandFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.True(t, res.Malformed)
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.SeqFusionNoIdentBefore, res.Bag.Items()[0].Code)
}

func TestExpandFileMissing(t *testing.T) {
	_, _, err := ExpandFile(context.Background(), filepath.Join(t.TempDir(), "nope.seq"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExpandSourceCancelled(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "e.seq"), "x\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := ExpandFile(ctx, path, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExpandDirAndWriteOutputs(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.rs.seq"), "seq!(N in 0..2 { const C#N: u8 = N; })\n")
	writeFile(t, filepath.Join(src, "sub", "b.txt.seq"), "seq!(N in 0..2 { #( v#N )* })\n")
	writeFile(t, filepath.Join(src, ".hidden", "c.seq"), "ignored\n")
	writeFile(t, filepath.Join(src, "d.txt"), "not a template\n")
	writeFile(t, filepath.Join(src, "bad.seq"), "seq!(N in 0..2 { # })\n")

	_, results, err := ExpandDir(context.Background(), src, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)

	var paths []string
	for _, r := range results {
		rel, relErr := filepath.Rel(src, r.Path)
		require.NoError(t, relErr)
		paths = append(paths, filepath.ToSlash(rel))
	}
	if diff := cmp.Diff([]string{"a.rs.seq", "bad.seq", "sub/b.txt.seq"}, paths); diff != "" {
		t.Fatalf("file order mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, results[1].Failed())

	out := t.TempDir()
	assert.Equal(t, 2, WriteOutputs(results, src, out, ""))

	got, err := os.ReadFile(filepath.Join(out, "a.rs"))
	require.NoError(t, err)
	assert.Equal(t, "const C0: u8 = 0; const C1: u8 = 1;\n", string(got))

	got, err = os.ReadFile(filepath.Join(out, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v0 v1\n", string(got))

	_, err = os.Stat(filepath.Join(out, "bad"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	total := MergeTimers(results)
	assert.NotEmpty(t, total.Report().Phases)
}

func TestExpandDirEmpty(t *testing.T) {
	fs, results, err := ExpandDir(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err)
	assert.NotNil(t, fs)
	assert.Empty(t, results)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestExpandReportsProgress(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.seq"), "seq!(N in 0..1 { N })\n")
	sink := &recordingSink{}

	_, _, err := ExpandDir(context.Background(), src, Options{Progress: sink})
	require.NoError(t, err)

	require.NotEmpty(t, sink.events)
	assert.Equal(t, StatusQueued, sink.events[0].Status)
	last := sink.events[len(sink.events)-1]
	assert.Equal(t, StatusDone, last.Status)
	assert.Equal(t, StagePrint, last.Stage)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusDone})
	assert.Equal(t, "x", (<-ch).File)
	ChannelSink{}.OnEvent(Event{})
}

func TestDiskCacheReplaysResult(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	path := writeFile(t, filepath.Join(t.TempDir(), "f.seq"), "a seq!(N in 0..2 { # x }) b\n")
	opts := Options{Cache: cache}

	_, first, err := ExpandFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.False(t, first.Cached)

	_, second, err := ExpandFile(context.Background(), path, opts)
	require.NoError(t, err)
	require.True(t, second.Cached)

	assert.Equal(t, string(first.Output), string(second.Output))
	assert.Equal(t, first.Stats, second.Stats)
	assert.True(t, second.Malformed)
	require.Equal(t, first.Bag.Len(), second.Bag.Len())
	assert.Equal(t, first.Bag.Items()[0].Primary, second.Bag.Items()[0].Primary)
	assert.Equal(t, second.FileID, second.Bag.Items()[0].Primary.File)

	require.NoError(t, cache.DropAll())
	_, third, err := ExpandFile(context.Background(), path, opts)
	require.NoError(t, err)
	assert.False(t, third.Cached)
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	var content [32]byte
	content[0] = 1
	a := cacheKey(content, Options{})
	assert.Equal(t, a, cacheKey(content, Options{Jobs: 8}))
	assert.NotEqual(t, a, cacheKey(content, Options{Mode: ModeBare}))
	assert.NotEqual(t, a, cacheKey(content, Options{MaxDepth: 3}))
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	ok, err := c.Get(Digest{}, &CachePayload{})
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, c.Put(Digest{}, &CachePayload{}))
	assert.NoError(t, c.DropAll())
}

func TestOutputPath(t *testing.T) {
	got, err := OutputPath(filepath.Join("src", "x", "y.go.seq"), "src", "out", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "x", "y.go"), got)

	got, err = OutputPath(filepath.Join("src", "z.tmpl"), "src", "", ".tmpl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "z"), got)
}

func TestTokenizeAndBuildTree(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "t.seq"), "f(x] y\n")

	tr, err := Tokenize(path, 0)
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tr.Tokens[len(tr.Tokens)-1].Kind)

	br, err := BuildTree(path, 0)
	require.NoError(t, err)
	assert.False(t, br.Balanced)
	assert.True(t, br.Bag.HasErrors())
}
