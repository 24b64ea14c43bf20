package lexer

import (
	"testing"

	"seqgen/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.seq", []byte(content))
	return fs.Get(id)
}

func TestCursorSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Errorf("peek: expected %q, got %q", want, got)
		}
		if got := cursor.Bump(); got != want {
			t.Errorf("bump: expected %q, got %q", want, got)
		}
	}
	if !cursor.EOF() {
		t.Error("expected EOF at end")
	}
	if cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Error("expected zero bytes at EOF")
	}
}

func TestCursorPeek2AndPeekAt(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != 'a' || b1 != 'b' {
		t.Errorf("expected Peek2 (a, b), got (%q, %q, %v)", b0, b1, ok)
	}
	if cursor.PeekAt(2) != 'c' || cursor.PeekAt(3) != 0 {
		t.Errorf("PeekAt mismatch")
	}
	cursor.Bump()
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Error("expected Peek2 to fail on last byte")
	}
}

func TestCursorMarkResetSpan(t *testing.T) {
	cursor := NewCursor(createFile("hello"))
	cursor.Bump()
	m := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	sp := cursor.SpanFrom(m)
	if sp.Start != 1 || sp.End != 3 {
		t.Errorf("expected span 1..3, got %v", sp)
	}
	cursor.Reset(m)
	if cursor.Off != 1 {
		t.Errorf("expected offset 1 after reset, got %d", cursor.Off)
	}
	if !cursor.Eat('e') || cursor.Eat('x') {
		t.Error("Eat mismatch")
	}
}
