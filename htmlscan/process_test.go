package htmlscan

import (
	"strings"
	"testing"
)

func TestProcessSimpleEntities(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse([]byte(`<html><body>Hello&nbsp;World</body></html>`))
	want := "Hello World"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
	if doc.Flags&(FlagBadStart|FlagBadElements) != 0 {
		t.Fatalf("unexpected baseline flags: %#x", doc.Flags)
	}
	htmlID, ok := DefaultTagTable.ByName([]byte("html"))
	if !ok {
		t.Fatal("html tag missing from default table")
	}
	if !doc.TagsSeen.Has(htmlID.ID) {
		t.Fatal("tags_seen missing html")
	}
	bodyID, _ := DefaultTagTable.ByName([]byte("body"))
	if !doc.TagsSeen.Has(bodyID.ID) {
		t.Fatal("tags_seen missing body")
	}
}

func TestProcessDisplayURLMismatch(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse([]byte(`<a href="http://evil.com">paypal.com</a>`))
	if string(parsed) != "paypal.com" {
		t.Fatalf("parsed = %q", parsed)
	}
	if len(doc.Exceptions) != 1 {
		t.Fatalf("expected 1 exception, got %d", len(doc.Exceptions))
	}
	ex := doc.Exceptions[0]
	if ex.Ref == nil || ex.Ref.Host != "evil.com" {
		t.Fatalf("exception ref host = %v, want evil.com", ex.Ref)
	}
	if ex.Ref.Flags&URLDisplayURL == 0 {
		t.Fatal("expected DisplayURL flag on the href URL")
	}
	got := string(parsed[ex.Pos : ex.Pos+ex.Len])
	if got != "paypal.com" {
		t.Fatalf("exception span = %q, want %q", got, "paypal.com")
	}
}

func TestProcessUnbalancedParagraphs(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse([]byte(`<p>A<p>B<p>C`))
	if doc.Flags&FlagUnbalanced == 0 {
		t.Fatal("expected UNBALANCED for reopened <p>")
	}
	want := "\r\nA\r\nB\r\nC"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
}

func TestProcessDataImage(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte(`<img src="data:image/png;base64,iVBORw0KGgo=">`))
	if doc.Flags&FlagHasDataURLs == 0 {
		t.Fatal("expected HAS_DATA_URLS")
	}
	if len(doc.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(doc.Images))
	}
	img := doc.Images[0]
	if img.Flags&ImageData == 0 {
		t.Fatal("expected ImageData flag")
	}
}

func TestProcessInvisibleBlock(t *testing.T) {
	t.Parallel()
	_, parsed := Parse([]byte(`<div style="display:none">secret</div>visible`))
	trimmed := strings.TrimPrefix(string(parsed), "\r\n")
	if trimmed != "visible" {
		t.Fatalf("parsed = %q, want %q", trimmed, "visible")
	}
}

func TestProcessCommentSkipped(t *testing.T) {
	t.Parallel()
	doc, parsed := Parse([]byte(`<!--<a href=x>--><b>t</b>`))
	if string(parsed) != "t" {
		t.Fatalf("parsed = %q, want %q", parsed, "t")
	}
	if len(doc.Images) != 0 {
		t.Fatalf("expected no images from commented-out tag")
	}
}

func TestProcessTooManyTags(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	for i := 0; i < 10000; i++ {
		b.WriteString("<b>")
	}
	doc, _ := Parse([]byte(b.String()))
	if doc.Flags&FlagTooManyTags == 0 {
		t.Fatal("expected TOO_MANY_TAGS")
	}
}

func TestProcessNoSpaceRuns(t *testing.T) {
	t.Parallel()
	_, parsed := Parse([]byte(`<p>A     B</p>`))
	if strings.Contains(string(parsed), "  ") {
		t.Fatalf("parsed contains a double space: %q", parsed)
	}
}

func TestProcessDuplicateAttributes(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte(`<a href="http://first.example" href="http://second.example">x</a>`))
	for _, ex := range doc.Exceptions {
		if ex.Ref != nil && ex.Ref.Host == "second.example" {
			t.Fatal("duplicate attribute: second occurrence should be dropped")
		}
	}
}

func TestProcessNoTagsRoundTrip(t *testing.T) {
	t.Parallel()
	_, parsed := Parse([]byte("hello world"))
	if string(parsed) != "hello world" {
		t.Fatalf("parsed = %q", parsed)
	}
}

func TestProcessBadStart(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte("not a tag <b>x</b>"))
	if doc.Flags&FlagBadStart == 0 {
		t.Fatal("expected BAD_START")
	}
}

func TestProcessBaseResolution(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte(`<base href="http://example.com/dir/"><a href="page.html">x</a>`))
	if doc.BaseURL == nil || doc.BaseURL.Host != "example.com" {
		t.Fatalf("base url = %v", doc.BaseURL)
	}
}

func TestContentOffsetSkipsLeadingSeparatorSpace(t *testing.T) {
	t.Parallel()
	// blockquote is a block tag but not a line-break tag, so the leading
	// separator space before "Hello" survives collapsing and arrives in
	// the same writeCollapsed call as the word itself: a regression test
	// for per-call (not per-region) leading-whitespace tracking.
	doc, parsed := Parse([]byte(`X<blockquote> Hello</blockquote>`))
	want := "X Hello"
	if string(parsed) != want {
		t.Fatalf("parsed = %q, want %q", parsed, want)
	}
	var bq *TagNode
	for _, c := range doc.Root.Children {
		if c.Name == "blockquote" {
			bq = c
		}
	}
	if bq == nil {
		t.Fatal("blockquote not found in tree")
	}
	got := string(parsed[bq.ContentOffset : bq.ContentOffset+bq.ContentLength])
	if got != "Hello" {
		t.Fatalf("blockquote content span = %q, want %q (ContentOffset=%d ContentLength=%d)", got, "Hello", bq.ContentOffset, bq.ContentLength)
	}
}

func TestPropagateContentLengths(t *testing.T) {
	t.Parallel()
	doc, _ := Parse([]byte(`<div>A<span>B</span>C</div>`))
	var div *TagNode
	for _, c := range doc.Root.Children {
		if c.Name == "div" {
			div = c
		}
	}
	if div == nil {
		t.Fatal("div not found in tree")
	}
	var total int
	for _, c := range div.Children {
		total += c.ContentLength
	}
	if div.ContentLength < total {
		t.Fatalf("parent ContentLength %d < children sum %d", div.ContentLength, total)
	}
}
