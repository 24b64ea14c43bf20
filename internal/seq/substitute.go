package seq

import (
	"strings"

	"seqgen/internal/diag"
	"seqgen/internal/tree"
)

// Sink receives fusion errors as they are found. A nil Sink drops them.
type Sink func(*FusionError)

type subState uint8

const (
	stIdle subState = iota
	// stSawIdent: an identifier is buffered and may start a fusion.
	stSawIdent
	// stSawIdentHash: the buffered identifier was followed by '#'.
	stSawIdentHash
)

type substituter struct {
	binder string
	repl   tree.Node
	sink   Sink

	out   tree.Stream
	state subState
	ident *tree.Ident
	hash  *tree.Punct
}

// Substitute returns a copy of s where every identifier equal to binder is replaced
// by replacement and every `name # binder` is fused into one identifier
// `name<replacement>`. Groups are walked recursively. Malformed fusions go to sink
// and the tokens taking part in them are left out of the output.
func Substitute(s tree.Stream, binder string, replacement tree.Node, sink Sink) tree.Stream {
	sub := substituter{
		binder: binder,
		repl:   replacement,
		sink:   sink,
		out:    make(tree.Stream, 0, len(s)),
	}
	for _, n := range s {
		sub.step(n)
	}
	sub.finish()
	return sub.out
}

func (sub *substituter) step(n tree.Node) {
	switch n := n.(type) {
	case *tree.Group:
		sub.breakFusion()
		g := *n
		g.Content = Substitute(n.Content, sub.binder, sub.repl, sub.sink)
		sub.out = append(sub.out, &g)

	case *tree.Ident:
		switch {
		case n.Name == sub.binder && sub.state == stSawIdentHash:
			if strings.HasPrefix(tree.Text(sub.repl), "-") {
				sub.report(diag.SeqFusionNegativeValue, n, "negative value cannot be fused into an identifier", &diag.Note{Span: sub.ident.Span, Msg: "fusion starts here"})
			} else {
				sub.out = append(sub.out, sub.fuse(n))
			}
			sub.reset()
		case n.Name == sub.binder:
			sub.flush()
			sub.out = append(sub.out, tree.WithLeading(sub.replacementAt(n), n.Leading))
		case sub.state == stSawIdentHash:
			sub.report(diag.SeqFusionMismatchedIdent, n, msgMismatched, &diag.Note{Span: sub.hash.Span, Msg: "'#' here"})
			sub.reset()
		default:
			sub.flush()
			sub.ident = n
			sub.state = stSawIdent
		}

	case *tree.Punct:
		if n.Char != '#' {
			sub.breakFusion()
			sub.out = append(sub.out, tree.Clone(n))
			return
		}
		switch sub.state {
		case stSawIdent:
			sub.hash = n
			sub.state = stSawIdentHash
		default:
			// the pending fusion, if any, stays pending
			sub.report(diag.SeqFusionNoIdentBefore, n, msgNoIdentBefore, nil)
		}

	case *tree.Literal:
		sub.breakFusion()
		sub.out = append(sub.out, tree.Clone(n))
	}
}

func (sub *substituter) finish() {
	sub.breakFusion()
}

// breakFusion ends the current lookbehind before a token that cannot take part
// in a fusion.
func (sub *substituter) breakFusion() {
	switch sub.state {
	case stSawIdentHash:
		sub.report(diag.SeqFusionNoIdentAfter, sub.hash, msgNoIdentAfter, &diag.Note{Span: sub.ident.Span, Msg: "fusion starts here"})
		sub.reset()
	case stSawIdent:
		sub.flush()
	}
}

// flush emits the buffered identifier unchanged.
func (sub *substituter) flush() {
	if sub.state == stSawIdent && sub.ident != nil {
		sub.out = append(sub.out, tree.Clone(sub.ident))
	}
	sub.reset()
}

func (sub *substituter) reset() {
	sub.ident = nil
	sub.hash = nil
	sub.state = stIdle
}

func (sub *substituter) fuse(binder *tree.Ident) *tree.Ident {
	return tree.NewIdent(sub.ident.Name+tree.Text(sub.repl), sub.ident.Span.Cover(binder.Span), sub.ident.Leading)
}

// replacementAt copies the replacement onto the binder's position.
func (sub *substituter) replacementAt(binder *tree.Ident) tree.Node {
	c := tree.Clone(sub.repl)
	tree.MetaOf(c).Span = binder.Span
	return c
}

func (sub *substituter) report(code diag.Code, at tree.Node, msg string, note *diag.Note) {
	if sub.sink == nil {
		return
	}
	sub.sink(&FusionError{Code: code, Span: tree.SpanOf(at), Msg: msg, Note: note})
}
