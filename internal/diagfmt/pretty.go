package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"seqgen/internal/diag"
	"seqgen/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", n)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)
	snippet(w, fs, d.Primary, int(opts.Context), opts, pal, pal.caret)

	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		if opts.ShowNotes {
			snippet(w, fs, n.Span, 0, opts, pal, pal.note)
		}
	}
}

func known(fs *source.FileSet, sp source.Span) bool {
	return fs != nil && int(sp.File) < fs.Len()
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if !known(fs, sp) {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, f, mode), start.Line, start.Col)
}

func lineCount(f *source.File) uint32 {
	n := uint32(len(f.LineIdx))
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}

func snippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, opts PrettyOpts, pal palette, caret *color.Color) {
	if !known(fs, sp) {
		return
	}
	f := fs.Get(sp.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	last := lineCount(f)
	if start.Line > last {
		start.Line = last
	}
	ctx := uint32(max(context, 0))
	from := uint32(1)
	if start.Line > ctx {
		from = start.Line - ctx
	}
	to := min(start.Line+ctx, last)
	gutterWidth := len(fmt.Sprint(to))

	for ln := from; ln <= to; ln++ {
		text := f.GetLine(ln)
		shown := text
		if opts.Width > 0 {
			shown = runewidth.Truncate(shown, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), shown)
		if ln != start.Line {
			continue
		}
		endCol := int(end.Col)
		if end.Line != start.Line {
			endCol = len(text) + 1
		}
		pad, mark := underline(text, int(start.Col), endCol)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), pad, caret.Sprint(mark))
	}
}

// underline returns the padding and the ^~~ mark for byte columns [startCol, endCol).
func underline(line string, startCol, endCol int) (string, string) {
	startOff := min(max(startCol-1, 0), len(line))
	endOff := min(max(endCol-1, startOff), len(line))

	var pad strings.Builder
	for _, r := range line[:startOff] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(line[startOff:endOff]), 1)
	return pad.String(), "^" + strings.Repeat("~", width-1)
}

// Count returns the number of errors and warnings across bags.
func Count(bags ...*diag.Bag) (errs, warns int) {
	for _, b := range bags {
		if b == nil {
			continue
		}
		for _, d := range b.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	return errs, warns
}

// Summary writes "N errors, M warnings" when there is anything to report.
func Summary(w io.Writer, errs, warns int, useColor bool) {
	if errs == 0 && warns == 0 {
		return
	}
	pal := newPalette(useColor)
	var parts []string
	if errs > 0 {
		parts = append(parts, pal.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, pal.warn.Sprint(plural(warns, "warning")))
	}
	fmt.Fprintf(w, "%s generated\n", strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
