package tree_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqgen/internal/diag"
	"seqgen/internal/lexer"
	"seqgen/internal/source"
	"seqgen/internal/token"
	"seqgen/internal/tree"
)

func build(t *testing.T, input string) (*tree.Root, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.seq", []byte(input)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: rep})
	root, ok := tree.Build(toks, rep)
	return root, bag, ok
}

// shape renders the structure without positions.
func shape(s tree.Stream) []string {
	var out []string
	for _, n := range s {
		switch n := n.(type) {
		case *tree.Ident:
			out = append(out, "I:"+n.Name)
		case *tree.Literal:
			out = append(out, "L:"+n.Text)
		case *tree.Punct:
			p := "P:" + string(n.Char)
			if n.Joint {
				p += "+"
			}
			out = append(out, p)
		case *tree.Group:
			out = append(out, n.Delim.Open()+strings.Join(shape(n.Content), " ")+n.Delim.Close())
		}
	}
	return out
}

func TestBuildNestedGroups(t *testing.T) {
	root, bag, ok := build(t, "N in 0..3 { a(b[c]) {} }")
	require.True(t, ok, "diags: %v", bag.Items())
	want := []string{"I:N", "I:in", "L:0", "P:.+", "P:.", "L:3", "{I:a (I:b [I:c]) {}}"}
	if diff := cmp.Diff(want, shape(root.Nodes)); diff != "" {
		t.Errorf("shape mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildJointPunct(t *testing.T) {
	root, _, ok := build(t, "a . . b ..= c")
	require.True(t, ok)
	want := []string{"I:a", "P:.", "P:.", "I:b", "P:.+", "P:.+", "P:=", "I:c"}
	assert.Equal(t, want, shape(root.Nodes))
}

func TestBuildRoundTrip(t *testing.T) {
	inputs := []string{
		"N in 0..3 {\n    #(\n        Variant#N,\n    )*\n}\n",
		"  // lead\nseq!(N in 0..2 { x#N })  /* tail */\n",
		"",
	}
	for _, input := range inputs {
		root, bag, ok := build(t, input)
		require.True(t, ok, "diags: %v", bag.Items())
		var sb strings.Builder
		require.NoError(t, tree.PrintRoot(&sb, root))
		assert.Equal(t, input, sb.String())
	}
}

func TestPrintSeparatesAdjacentTokens(t *testing.T) {
	sp := source.Span{}
	slash := func() tree.Node { return &tree.Punct{Char: '/'} }
	cases := []struct {
		name string
		in   tree.Stream
		want string
	}{
		{"ints", tree.Stream{tree.NewInt(0, sp, nil), tree.NewInt(1, sp, nil), tree.NewInt(2, sp, nil)}, "0 1 2"},
		{"idents", tree.Stream{tree.NewIdent("x0", sp, nil), tree.NewIdent("x1", sp, nil)}, "x0 x1"},
		{"int then ident", tree.Stream{tree.NewInt(0, sp, nil), tree.NewIdent("x", sp, nil)}, "0 x"},
		{"comment opener", tree.Stream{slash(), slash(), &tree.Punct{Char: '*'}}, "/ / *"},
		{"punct keeps joining", tree.Stream{tree.NewIdent("a", sp, nil), &tree.Punct{Char: ','}, &tree.Punct{Char: ';'}}, "a,;"},
		{"group", tree.Stream{tree.NewIdent("f", sp, nil), &tree.Group{Delim: tree.Paren, Content: tree.Stream{tree.NewInt(1, sp, nil)}}, tree.NewIdent("g", sp, nil)}, "f(1)g"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tree.Format(tc.in))
		})
	}
}

func TestBuildUnclosed(t *testing.T) {
	root, bag, ok := build(t, "a ( b")
	assert.False(t, ok)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.SynUnclosedDelimiter, bag.Items()[0].Code)
	g, isGroup := root.Nodes[1].(*tree.Group)
	require.True(t, isGroup)
	assert.True(t, g.Unclosed)

	var sb strings.Builder
	require.NoError(t, tree.PrintRoot(&sb, root))
	assert.Equal(t, "a ( b", sb.String())
}

func TestBuildUnexpectedCloser(t *testing.T) {
	root, bag, ok := build(t, "a ) b")
	assert.False(t, ok)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.SynUnexpectedCloser, bag.Items()[0].Code)
	lit, isLit := root.Nodes[1].(*tree.Literal)
	require.True(t, isLit)
	assert.Equal(t, token.Invalid, lit.Kind)
}

func TestBuildMismatched(t *testing.T) {
	root, bag, ok := build(t, "{ ( }")
	assert.False(t, ok)
	require.Equal(t, 1, bag.Len())
	d := bag.Items()[0]
	assert.Equal(t, diag.SynMismatchedDelimiter, d.Code)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, []string{"{()}"}, shape(root.Nodes))
	assert.True(t, root.Nodes[0].(*tree.Group).Content[0].(*tree.Group).Unclosed)
}

func TestFormatSkipsFirstLeading(t *testing.T) {
	root, _, _ := build(t, "   fn f ( )")
	assert.Equal(t, "fn f ( )", tree.Format(root.Nodes))
	assert.Equal(t, "", tree.Format(nil))
}

func TestCloneIsDeep(t *testing.T) {
	root, _, _ := build(t, "(a b)")
	orig := root.Nodes[0].(*tree.Group)
	cl := tree.Clone(orig).(*tree.Group)
	cl.Content[0].(*tree.Ident).Name = "z"
	assert.Equal(t, "a", orig.Content[0].(*tree.Ident).Name)
}

func TestInspectAndCount(t *testing.T) {
	root, _, _ := build(t, "a (b [c]) d")
	assert.Equal(t, 6, tree.Count(root.Nodes))
	var idents []string
	tree.Inspect(root.Nodes, func(n tree.Node) bool {
		if id, ok := n.(*tree.Ident); ok {
			idents = append(idents, id.Name)
		}
		_, isGroup := n.(*tree.Group)
		return !isGroup || tree.SpanOf(n).Start == 2
	})
	assert.Equal(t, []string{"a", "b", "d"}, idents)
}

func TestDump(t *testing.T) {
	root, _, _ := build(t, "x#(1)")
	var sb strings.Builder
	require.NoError(t, tree.Dump(&sb, root.Nodes))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], `Ident "x"`))
	assert.True(t, strings.HasPrefix(lines[1], `Punct "#"`))
	assert.True(t, strings.HasPrefix(lines[2], "Group Paren"))
	assert.True(t, strings.HasPrefix(lines[3], `  Literal IntLit "1"`))
}
