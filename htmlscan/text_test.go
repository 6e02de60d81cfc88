package htmlscan

import "testing"

func TestEmitterWriteSpaceCollapses(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteText([]byte("hello"))
	e.WriteSpace()
	e.WriteSpace()
	e.WriteSpace()
	e.WriteText([]byte("world"))
	if string(e.Bytes()) != "hello world" {
		t.Fatalf("got %q", e.Bytes())
	}
}

func TestEmitterWriteSpaceAtStartIsNoop(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteSpace()
	if e.Len() != 0 {
		t.Fatalf("leading space should be dropped, got %q", e.Bytes())
	}
}

func TestEmitterWriteSpaceAfterLineBreakIsNoop(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteText([]byte("a"))
	e.WriteLineBreak()
	e.WriteSpace()
	if string(e.Bytes()) != "a\r\n" {
		t.Fatalf("got %q", e.Bytes())
	}
}

func TestEmitterWriteLineBreakIdempotentAtEnd(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteText([]byte("a"))
	e.WriteLineBreak()
	e.WriteLineBreak()
	if string(e.Bytes()) != "a\r\n" {
		t.Fatalf("double line break should not duplicate, got %q", e.Bytes())
	}
}

func TestEmitterWriteAltTextPadsWithSpaces(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteText([]byte("a"))
	e.WriteAltText("logo")
	e.WriteText([]byte("b"))
	if string(e.Bytes()) != "a logo b" {
		t.Fatalf("got %q", e.Bytes())
	}
}

func TestEmitterWriteTextDecodesEntities(t *testing.T) {
	t.Parallel()
	var e Emitter
	e.WriteText([]byte("&amp;"))
	if string(e.Bytes()) != "&" {
		t.Fatalf("got %q, want decoded ampersand", e.Bytes())
	}
}

func TestPropagateContentLengthsSumsChildren(t *testing.T) {
	t.Parallel()
	root := &TagNode{Name: ""}
	child1 := &TagNode{Name: "b", ContentLength: 3, Parent: root}
	child2 := &TagNode{Name: "i", ContentLength: 4, Parent: root}
	root.Children = []*TagNode{child1, child2}

	PropagateContentLengths(root)
	if root.ContentLength != 7 {
		t.Fatalf("root.ContentLength = %d, want 7", root.ContentLength)
	}
}

func TestPropagateContentLengthsNested(t *testing.T) {
	t.Parallel()
	root := &TagNode{Name: ""}
	mid := &TagNode{Name: "div", ContentLength: 2, Parent: root}
	leaf := &TagNode{Name: "span", ContentLength: 5, Parent: mid}
	mid.Children = []*TagNode{leaf}
	root.Children = []*TagNode{mid}

	PropagateContentLengths(root)
	if mid.ContentLength != 7 {
		t.Fatalf("mid.ContentLength = %d, want 7", mid.ContentLength)
	}
	if root.ContentLength != 7 {
		t.Fatalf("root.ContentLength = %d, want 7", root.ContentLength)
	}
}
