package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"seqgen/internal/seq"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// FormatClassification writes an outline of one invocation: binder, range,
// expansion mode and the marked region. Long streams are cut at width runes.
func FormatClassification(w io.Writer, res *seq.Result, fs *source.FileSet, width int) error {
	o := outliner{w: w, fs: fs, width: width}
	inv := res.Invocation
	o.line(0, "invocation at %s", location(fs, inv.Binder.Span, PathModeAuto))
	o.line(1, "binder %s", inv.Binder.Name)
	o.line(1, "range %s (%d values)", inv.RangeText(), inv.Len())
	o.line(1, "mode %s", seq.ModeName(res.Classification))
	switch c := res.Classification.(type) {
	case *seq.FullReplicate:
		o.line(1, "body %s", o.text(c.Body))
	case *seq.PartiallyMarked:
		o.marked(c, 1)
	}
	if len(res.Fusion) > 0 {
		o.line(1, "fusion errors %d", len(res.Fusion))
	}
	return o.err
}

type outliner struct {
	w     io.Writer
	fs    *source.FileSet
	width int
	err   error
}

func (o *outliner) line(depth int, format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (o *outliner) text(s tree.Stream) string {
	if len(s) == 0 {
		return "(empty)"
	}
	t := strings.Join(strings.Fields(tree.Format(s)), " ")
	return truncate(t, o.width)
}

func (o *outliner) marked(pm *seq.PartiallyMarked, depth int) {
	o.line(depth, "prefix %s", o.text(pm.Prefix))
	switch r := pm.Marked.(type) {
	case *seq.Repetition:
		o.line(depth, "repeat %s at %s", o.text(r.Content), location(o.fs, r.Marker, PathModeAuto))
	case *seq.MarkedGroup:
		o.line(depth, "group %s at %s", r.Group.Delim, location(o.fs, r.Group.Span, PathModeAuto))
		o.marked(r.Inner, depth+1)
	}
	o.line(depth, "suffix %s", o.text(pm.Suffix))
}
