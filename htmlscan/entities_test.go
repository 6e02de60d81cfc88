package htmlscan

import "testing"

func TestDecodeEntitiesInPlaceShrinksBuffer(t *testing.T) {
	t.Parallel()
	buf := []byte("a&amp;b")
	n := DecodeEntitiesInPlace(buf)
	if string(buf[:n]) != "a&b" {
		t.Fatalf("decoded = %q, want a&b", buf[:n])
	}
	if n >= len(buf) {
		t.Fatalf("expected decode to shrink the buffer: n=%d len=%d", n, len(buf))
	}
}

func TestDecodeEntitiesInPlaceNoEntities(t *testing.T) {
	t.Parallel()
	buf := []byte("plain text")
	n := DecodeEntitiesInPlace(buf)
	if string(buf[:n]) != "plain text" {
		t.Fatalf("decoded = %q", buf[:n])
	}
}

func TestDecodeEntitiesIdempotent(t *testing.T) {
	t.Parallel()
	buf := []byte("a&amp;b")
	n1 := DecodeEntitiesInPlace(buf)
	once := append([]byte(nil), buf[:n1]...)
	n2 := DecodeEntitiesInPlace(buf[:n1])
	if string(buf[:n2]) != string(once) {
		t.Fatalf("decode not idempotent: %q vs %q", buf[:n2], once)
	}
}

func TestNeedsDecode(t *testing.T) {
	t.Parallel()
	if needsDecode([]byte("no entities here")) {
		t.Fatal("should not flag a run with no '&'")
	}
	if !needsDecode([]byte("has &amp; one")) {
		t.Fatal("should flag a run containing '&'")
	}
}
