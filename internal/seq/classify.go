package seq

import (
	"seqgen/internal/diag"
	"seqgen/internal/source"
	"seqgen/internal/tree"
)

// Classification is *FullReplicate or *PartiallyMarked.
type Classification interface {
	classification()
}

// FullReplicate is a body with no marker: the whole body repeats per value.
type FullReplicate struct {
	Body tree.Stream
}

// PartiallyMarked is a body split around its first marker. Prefix and Suffix
// are emitted once, Marked repeats.
type PartiallyMarked struct {
	Prefix tree.Stream
	Marked Region
	Suffix tree.Stream
}

func (*FullReplicate) classification()   {}
func (*PartiallyMarked) classification() {}

// Region is *Repetition or *MarkedGroup.
type Region interface {
	region()
}

// Repetition is a direct `#( Content )*` marker.
type Repetition struct {
	Content tree.Stream
	// Marker covers '#' through '*'.
	Marker source.Span
}

// MarkedGroup is an ordinary group whose content holds the marker. The group is
// emitted once with Inner expanded inside it.
type MarkedGroup struct {
	Group *tree.Group
	Inner *PartiallyMarked
}

func (*Repetition) region()  {}
func (*MarkedGroup) region() {}

// MarkerSpan returns the span of the direct marker the region leads to.
func MarkerSpan(r Region) source.Span {
	for {
		switch v := r.(type) {
		case *Repetition:
			return v.Marker
		case *MarkedGroup:
			r = v.Inner.Marked
		default:
			return source.Span{}
		}
	}
}

// Classify decides whether body holds a repetition marker and where. The first
// marker in declaration order wins; a second one anywhere after it is an
// *AmbiguousMarkerError. A '#' followed by a paren group but no '*' is a *SyntaxError.
func Classify(body tree.Stream) (Classification, error) {
	return classify(body)
}

func classify(s tree.Stream) (Classification, error) {
	for i, n := range s {
		if g, ok := directMarker(s, i); ok {
			if i+2 >= len(s) || !tree.IsPunct(s[i+2], '*') {
				return nil, syntaxErr(diag.SynMarkerMissingStar, tree.SpanOf(n).Cover(g.Span),
					"repetition marker '#( ... )' must be followed by '*'")
			}
			pm := &PartiallyMarked{
				Prefix: s[:i],
				Marked: &Repetition{Content: g.Content, Marker: tree.SpanOf(n).Cover(tree.SpanOf(s[i+2]))},
				Suffix: s[i+3:],
			}
			return pm, checkSuffix(pm)
		}

		g, ok := n.(*tree.Group)
		if !ok {
			continue
		}
		inner, err := classify(g.Content)
		if err != nil {
			return nil, err
		}
		if ipm, ok := inner.(*PartiallyMarked); ok {
			pm := &PartiallyMarked{
				Prefix: s[:i],
				Marked: &MarkedGroup{Group: g, Inner: ipm},
				Suffix: s[i+1:],
			}
			return pm, checkSuffix(pm)
		}
	}
	return &FullReplicate{Body: s}, nil
}

// directMarker reports whether s[i] is '#' immediately followed by a paren group.
func directMarker(s tree.Stream, i int) (*tree.Group, bool) {
	if !tree.IsPunct(s[i], '#') || i+1 >= len(s) {
		return nil, false
	}
	g, ok := s[i+1].(*tree.Group)
	if !ok || g.Delim != tree.Paren {
		return nil, false
	}
	return g, true
}

func checkSuffix(pm *PartiallyMarked) error {
	if second, ok := findMarker(pm.Suffix); ok {
		return &AmbiguousMarkerError{First: MarkerSpan(pm.Marked), Second: second}
	}
	return nil
}

// findMarker searches s and every nested group for a '#' + paren group pair.
func findMarker(s tree.Stream) (source.Span, bool) {
	for i, n := range s {
		if g, ok := directMarker(s, i); ok {
			return tree.SpanOf(n).Cover(g.Span), true
		}
		if g, ok := n.(*tree.Group); ok {
			if sp, found := findMarker(g.Content); found {
				return sp, true
			}
		}
	}
	return source.Span{}, false
}
