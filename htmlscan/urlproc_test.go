package htmlscan

import "testing"

func TestResolveHrefSchemeInference(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()

	u, ok := ResolveHref([]byte("www.example.com/path"), doc, HrefMode)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if u.Scheme != "http" || u.Host != "www.example.com" {
		t.Fatalf("got scheme=%q host=%q", u.Scheme, u.Host)
	}
	if u.Flags&URLSchemeless == 0 {
		t.Fatal("expected URLSchemeless flag")
	}
}

func TestResolveHrefMailto(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	u, ok := ResolveHref([]byte("user@example.com"), doc, HrefMode)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if u.Scheme != "mailto" {
		t.Fatalf("got scheme=%q, want mailto", u.Scheme)
	}
}

func TestResolveHrefExplicitScheme(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	u, ok := ResolveHref([]byte("HTTPS://Example.COM/a/b"), doc, HrefMode)
	if !ok {
		t.Fatal("expected resolution to succeed")
	}
	if u.Scheme != "https" {
		t.Fatalf("got scheme=%q", u.Scheme)
	}
	if u.Host != "example.com" {
		t.Fatalf("got host=%q, want lowercased example.com", u.Host)
	}
	if u.Flags&URLSchemeless != 0 {
		t.Fatal("explicit scheme must not be flagged schemeless")
	}
}

func TestResolveHrefRejectsDataURL(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	_, ok := ResolveHref([]byte("data:text/plain;base64,aGVsbG8="), doc, HrefMode)
	if ok {
		t.Fatal("data: URLs must not resolve as hrefs")
	}
	if doc.Flags&FlagHasDataURLs == 0 {
		t.Fatal("expected HAS_DATA_URLS to be set")
	}
}

func TestResolveHrefRejectsTLDLessSchemeless(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	_, ok := ResolveHref([]byte("localhost/path"), doc, HrefMode)
	if ok {
		t.Fatal("a schemeless, TLD-less host should be rejected")
	}
}

func TestResolveHrefObscuredFlag(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	u, ok := ResolveHref([]byte("http://example.com/\x01path"), doc, HrefMode)
	if !ok {
		t.Fatal("expected resolution to succeed despite control byte")
	}
	if u.Flags&URLObscured == 0 {
		t.Fatal("expected URLObscured flag for percent-encoded control byte")
	}
}

func TestResolveHrefAgainstBase(t *testing.T) {
	t.Parallel()
	doc := NewContentDescriptor()
	base, ok := ResolveHref([]byte("http://example.com/dir/page.html"), doc, HrefMode)
	if !ok {
		t.Fatal("base resolution failed")
	}
	doc.BaseURL = base

	rel, ok := ResolveHref([]byte("/abs/path"), doc, HrefMode)
	if !ok || rel.Host != "example.com" {
		t.Fatalf("absolute-path-relative resolution failed: %+v ok=%v", rel, ok)
	}
}

func TestParseDimension(t *testing.T) {
	t.Parallel()
	if n, ok := parseDimension("42px"); !ok || n != 42 {
		t.Fatalf("parseDimension(42px) = %d, %v", n, ok)
	}
	if _, ok := parseDimension("auto"); ok {
		t.Fatal("parseDimension(auto) should fail")
	}
}
