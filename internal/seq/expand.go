package seq

import (
	"seqgen/internal/tree"
)

// Expand produces the output stream of inv under classification c.
//
// FullReplicate substitutes the whole body once per value. PartiallyMarked emits
// the prefix and suffix once, verbatim, and substitutes only inside the marked
// region.
func Expand(inv *Invocation, c Classification, sink Sink) tree.Stream {
	switch c := c.(type) {
	case *FullReplicate:
		out := make(tree.Stream, 0, len(c.Body)*inv.Len())
		for v := inv.Low; v < inv.High; v++ {
			out = append(out, Substitute(c.Body, inv.Binder.Name, literal(inv, v), sink)...)
		}
		return out
	case *PartiallyMarked:
		return expandMarked(inv, c, sink)
	}
	return nil
}

func expandMarked(inv *Invocation, pm *PartiallyMarked, sink Sink) tree.Stream {
	out := tree.CloneStream(pm.Prefix)
	if out == nil {
		out = tree.Stream{}
	}
	switch r := pm.Marked.(type) {
	case *Repetition:
		for v := inv.Low; v < inv.High; v++ {
			out = append(out, Substitute(r.Content, inv.Binder.Name, literal(inv, v), sink)...)
		}
	case *MarkedGroup:
		g := *r.Group
		g.Content = expandMarked(inv, r.Inner, sink)
		out = append(out, &g)
	}
	return append(out, tree.CloneStream(pm.Suffix)...)
}

func literal(inv *Invocation, v int) tree.Node {
	return tree.NewInt(v, inv.Binder.Span, nil)
}
