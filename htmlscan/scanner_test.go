package htmlscan

import "testing"

func TestScannerXMLProcessingInstruction(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse([]byte(`<?xml version="1.0"?><p>hi</p>`))
	if doc.Flags&FlagXML == 0 {
		t.Fatal("expected FlagXML")
	}
	want := "\r\nhi"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
}

func TestScannerDoctypeSkipped(t *testing.T) {
	t.Parallel()
	_, parsed := Parse([]byte(`<!DOCTYPE html><p>hi</p>`))
	want := "\r\nhi"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
}

func TestScannerConditionalCommentMarkersSkippedBodyKept(t *testing.T) {
	t.Parallel()
	// Each "<![...]>" marker is consumed as its own bracket-balanced SGML
	// token; the text between two markers is ordinary content, not a
	// suppressed conditional-comment body.
	_, parsed := Parse([]byte(`<![if !IE]>kept<![endif]><p>hi</p>`))
	want := "kept\r\nhi"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
}

func TestScannerBareGTInsideAngleBrackets(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte(`<>text`))
	if doc.Flags&FlagBadElements == 0 {
		t.Fatal("expected BAD_ELEMENTS for an empty '<>' token")
	}
}

func TestScannerUnterminatedCommentConsumesToEOF(t *testing.T) {
	t.Parallel()
	_, parsed := Parse([]byte(`<!--never closed`))
	if string(parsed) != "" {
		t.Fatalf("parsed = %q, want empty", parsed)
	}
}

func TestScannerEmptyInput(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse(nil)
	if len(parsed) != 0 {
		t.Fatalf("parsed = %q, want empty", parsed)
	}
	if doc.Flags != 0 {
		t.Fatalf("flags = %#x, want 0 for empty input", doc.Flags)
	}
}

func TestScannerStyleBlockParsedNotRendered(t *testing.T) {
	t.Parallel()
	doc, parsed := Process([]byte(`<style>p{color:red}</style><p>hi</p>`), &ProcessOptions{AllowCSS: true})
	if string(parsed) != "\r\nhi" {
		t.Fatalf("parsed = %q, want style body excluded from rendered text", parsed)
	}
	if doc.CSSStyle == nil {
		t.Fatal("expected CSSStyle to be populated")
	}
}

func TestProcessFindTextURLs(t *testing.T) {
	t.Parallel()
	doc, _ := Process([]byte(`visit http://evil.example/login now`), &ProcessOptions{FindTextURLs: true})
	if len(doc.PartURLs) != 1 {
		t.Fatalf("expected 1 text URL, got %d", len(doc.PartURLs))
	}
	if doc.PartURLs[0].Host != "evil.example" {
		t.Fatalf("text url host = %q", doc.PartURLs[0].Host)
	}
	if doc.PartURLs[0].Flags&URLFromText == 0 {
		t.Fatal("expected URLFromText flag")
	}
}
