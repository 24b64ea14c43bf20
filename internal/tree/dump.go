package tree

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of s, one node per line, for debugging.
func Dump(w io.Writer, s Stream) error {
	d := dumper{w: w}
	d.stream(s, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) stream(s Stream, depth int) {
	for _, n := range s {
		switch n := n.(type) {
		case *Ident:
			d.line(depth, "Ident %q @%s", n.Name, n.Span)
		case *Literal:
			d.line(depth, "Literal %s %q @%s", n.Kind, n.Text, n.Span)
		case *Punct:
			joint := ""
			if n.Joint {
				joint = " joint"
			}
			d.line(depth, "Punct %q%s @%s", string(n.Char), joint, n.Span)
		case *Group:
			suffix := ""
			if n.Unclosed {
				suffix = " unclosed"
			}
			d.line(depth, "Group %s%s @%s", n.Delim, suffix, n.Span)
			d.stream(n.Content, depth+1)
		}
	}
}
