package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/seq"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dir/test.seq", []byte("N in 0..2 {\n  # x\n}\n"))

	bag := diag.NewBag(10)
	d := diag.NewError(diag.SeqFusionNoIdentBefore, source.Span{File: fileID, Start: 14, End: 15}, "no ident before '#' to concat").
		WithNote(source.Span{File: fileID, Start: 0, End: 1}, "binder")
	bag.Add(d)

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}
	got := output.Diagnostics[0]
	if got.Severity != "ERROR" || got.Code != "SEQ3001" {
		t.Errorf("severity/code = %s/%s", got.Severity, got.Code)
	}
	want := LocationJSON{File: "test.seq", StartByte: 14, EndByte: 15, StartLine: 2, StartCol: 3, EndLine: 2, EndCol: 4}
	if got.Location != want {
		t.Errorf("location = %+v, want %+v", got.Location, want)
	}
	if len(got.Notes) != 1 || got.Notes[0].Message != "binder" {
		t.Errorf("notes = %+v", got.Notes)
	}
}

func TestJSONMaxAndNoNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.seq", []byte("abc"))
	bag := diag.NewBag(0)
	for i := range 3 {
		sp := source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}
		bag.Add(diag.NewError(diag.SynExpectIn, sp, "x").WithNote(sp, "n"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 1 {
		t.Fatalf("count/dropped = %d/%d", out.Count, out.Dropped)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Errorf("notes should be omitted")
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Errorf("positions should be omitted")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.seq", []byte("x#N // c\n")))
	tokens := lexer.Tokenize(file, lexer.Options{})

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, tokens, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(pretty.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 token lines, got:\n%s", pretty.String())
	}
	if !strings.Contains(lines[3], "leading: Space, LineComment, Newline") {
		t.Errorf("EOF line should carry trailing trivia: %q", lines[3])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, tokens); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 4 || decoded[0].Text != "x" || decoded[0].Leading != nil {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestFormatClassification(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("c.seq", []byte("N in 0..=2 { a [ #( x#N )* ] b }")))
	root, _ := tree.Build(lexer.Tokenize(file, lexer.Options{}), nil)
	res, err := seq.Run(root.Nodes, source.Span{File: file.ID}, seq.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FormatClassification(&buf, res, fs, 0); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"invocation at c.seq:1:1",
		"  binder N",
		"  range 0..=2 (3 values)",
		"  mode partial",
		"  prefix a",
		"  group Bracket at c.seq:1:16",
		"    prefix (empty)",
		"    repeat x#N at c.seq:1:18",
		"    suffix (empty)",
		"  suffix b",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("classification mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}
