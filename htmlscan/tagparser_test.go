package htmlscan

import "testing"

func TestParseTagContentBasicAttributes(t *testing.T) {
	t.Parallel()
	src := []byte(`a href="http://example.com" class="x">rest`)
	node, end := ParseTagContent(src, 0, nil)
	if node.Name != "a" {
		t.Fatalf("node.Name = %q, want a", node.Name)
	}
	if href, ok := node.Parameters.Get(ComponentHref); !ok || href != "http://example.com" {
		t.Fatalf("href = %q, ok=%v", href, ok)
	}
	if src[end] != '>' {
		t.Fatalf("end did not point at '>': %q", src[end])
	}
}

func TestParseTagContentDuplicateAttributeFirstWins(t *testing.T) {
	t.Parallel()
	src := []byte(`img src="one.png" src="two.png">`)
	node, _ := ParseTagContent(src, 0, nil)
	got, ok := node.Parameters.Get(ComponentHref)
	if !ok || got != "one.png" {
		t.Fatalf("src = %q, ok=%v, want one.png (first occurrence)", got, ok)
	}
}

func TestParseTagContentSelfClosing(t *testing.T) {
	t.Parallel()
	src := []byte(`br/>`)
	node, _ := ParseTagContent(src, 0, nil)
	if !node.Flags.Has(TagClosed) {
		t.Fatal("expected TagClosed on a self-closed tag")
	}
}

func TestParseTagContentUnquotedValue(t *testing.T) {
	t.Parallel()
	src := []byte(`img src=photo.png width=100>`)
	node, _ := ParseTagContent(src, 0, nil)
	if v, ok := node.Parameters.Get(ComponentHref); !ok || v != "photo.png" {
		t.Fatalf("src = %q, ok=%v", v, ok)
	}
	if v, ok := node.Parameters.Get(ComponentWidth); !ok || v != "100" {
		t.Fatalf("width = %q, ok=%v", v, ok)
	}
}

func TestParseTagContentNoValueAttribute(t *testing.T) {
	t.Parallel()
	src := []byte(`input disabled>`)
	node, _ := ParseTagContent(src, 0, nil)
	if node.Name != "input" {
		t.Fatalf("node.Name = %q", node.Name)
	}
}

func TestParseTagContentUnknownTag(t *testing.T) {
	t.Parallel()
	src := []byte(`frobnicate x="1">`)
	node, _ := ParseTagContent(src, 0, nil)
	if node.ID >= 0 {
		t.Fatalf("expected unknown tag id -1, got %d", node.ID)
	}
}

func TestParseTagContentQuoteDirectlyAfterNameRecovers(t *testing.T) {
	t.Parallel()
	src := []byte(`td width"100">rest`)
	node, end := ParseTagContent(src, 0, nil)
	if node.Flags.Has(TagBroken) {
		t.Fatal("expected recovery, not TagBroken, for a quote directly after the attribute name")
	}
	if v, ok := node.Parameters.Get(ComponentWidth); !ok || v != "100" {
		t.Fatalf("width = %q, ok=%v, want 100", v, ok)
	}
	if src[end] != '>' {
		t.Fatalf("end did not point at '>': %q", src[end])
	}
}

func TestParseTagContentQuoteAfterWhitespaceIsBroken(t *testing.T) {
	t.Parallel()
	src := []byte(`td width "100">rest`)
	node, _ := ParseTagContent(src, 0, nil)
	if !node.Flags.Has(TagBroken) {
		t.Fatal("expected TagBroken when a quote follows real whitespace with no '='")
	}
	if _, ok := node.Parameters.Get(ComponentWidth); ok {
		t.Fatal("expected width to be discarded, not stored, on the broken-recovery path")
	}
}

func TestParseTagContentEntityDecodedAttributeValue(t *testing.T) {
	t.Parallel()
	src := []byte(`a href="http://example.com/?a=1&amp;b=2">`)
	node, _ := ParseTagContent(src, 0, nil)
	got, _ := node.Parameters.Get(ComponentHref)
	want := "http://example.com/?a=1&b=2"
	if got != want {
		t.Fatalf("href = %q, want %q", got, want)
	}
}
