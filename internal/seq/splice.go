package seq

import (
	"context"
	"errors"
	"log/slog"

	"seqgen/internal/diag"
	"seqgen/internal/tree"
)

// SpliceStats counts what ExpandCalls did.
type SpliceStats struct {
	Calls     int `json:"calls"`
	Expanded  int `json:"expanded"`
	Failed    int `json:"failed"`
	Malformed int `json:"malformed"`
	MaxDepth  int `json:"max_depth"`
}

// Call is a `seq ! group` occurrence found in a stream.
type Call struct {
	Name  *tree.Ident
	Bang  *tree.Punct
	Group *tree.Group
}

// CallAt reports whether s[i:] starts with a call.
func CallAt(s tree.Stream, i int) (Call, bool) {
	if i+2 >= len(s) || !tree.IsIdent(s[i], CallName) || !tree.IsPunct(s[i+1], '!') {
		return Call{}, false
	}
	g, ok := s[i+2].(*tree.Group)
	if !ok || g.Delim == tree.None {
		return Call{}, false
	}
	return Call{Name: s[i].(*tree.Ident), Bang: s[i+1].(*tree.Punct), Group: g}, true
}

// FindCalls returns every call in s, including calls nested in groups, in source order.
// Calls inside a call's own group are not listed separately.
func FindCalls(s tree.Stream) []Call {
	var out []Call
	for i := 0; i < len(s); i++ {
		if c, ok := CallAt(s, i); ok {
			out = append(out, c)
			i += 2
			continue
		}
		if g, ok := s[i].(*tree.Group); ok {
			out = append(out, FindCalls(g.Content)...)
		}
	}
	return out
}

type splicer struct {
	opts   Options
	rep    diag.Reporter
	logger *slog.Logger
	stats  SpliceStats
}

// ExpandCalls replaces every call in s by its expansion; the rest of s is kept as is.
// Output of an expansion is scanned again for calls, up to Options.MaxDepth levels.
// A call that fails to parse or classify is reported to r and left in place.
func ExpandCalls(s tree.Stream, opts Options, r diag.Reporter) (tree.Stream, SpliceStats) {
	sp := splicer{
		rep:    r,
		logger: componentLogger(opts.Logger, "splice"),
	}
	opts.Logger = componentLogger(opts.Logger, "seq")
	sp.opts = opts
	out := sp.stream(s, 0)
	return out, sp.stats
}

func (sp *splicer) stream(s tree.Stream, depth int) tree.Stream {
	if depth > sp.stats.MaxDepth {
		sp.stats.MaxDepth = depth
	}
	out := make(tree.Stream, 0, len(s))
	for i := 0; i < len(s); i++ {
		c, ok := CallAt(s, i)
		if !ok {
			out = append(out, sp.node(s[i], depth))
			continue
		}
		i += 2
		sp.stats.Calls++

		if depth >= sp.opts.maxDepth() {
			sp.fail(&DepthError{Span: c.Name.Span.Cover(c.Group.Span), Limit: sp.opts.maxDepth()})
			out = append(out, c.Name, c.Bang, c.Group)
			continue
		}

		res, err := Run(c.Group.Content, c.Group.Span, sp.opts)
		if err != nil {
			sp.fail(err)
			out = append(out, c.Name, c.Bang, sp.node(c.Group, depth))
			continue
		}
		sp.stats.Expanded++
		if res.Malformed {
			sp.stats.Malformed++
		}
		for _, d := range res.Diagnostics() {
			diag.Emit(sp.rep, d)
		}

		expanded := sp.stream(res.Output, depth+1)
		if len(expanded) == 0 {
			// the call expands to nothing; an empty None group keeps its leading trivia
			if len(c.Name.Leading) > 0 {
				out = append(out, &tree.Group{Meta: tree.Meta{Span: c.Name.Span, Leading: c.Name.Leading}, Delim: tree.None})
			}
			continue
		}
		expanded[0] = tree.WithLeading(expanded[0], c.Name.Leading)
		out = append(out, expanded...)
	}
	return out
}

func (sp *splicer) node(n tree.Node, depth int) tree.Node {
	g, ok := n.(*tree.Group)
	if !ok {
		return n
	}
	c := *g
	c.Content = sp.stream(g.Content, depth)
	return &c
}

func (sp *splicer) fail(err error) {
	sp.stats.Failed++
	var d Diagnosable
	if errors.As(err, &d) {
		diag.Emit(sp.rep, d.Diagnostic())
	}
	if logEnabled(sp.logger, slog.LevelDebug) {
		sp.logger.LogAttrs(context.Background(), slog.LevelDebug, "call left unexpanded",
			slog.String("error", err.Error()))
	}
}
