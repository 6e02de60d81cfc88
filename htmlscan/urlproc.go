package htmlscan

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// nonGraphicASCII reports whether b is an ASCII byte outside the printable
// range — the class of byte the original percent-encodes while copying a
// raw href into its decode buffer (spec §4.4 step 2/4).
func nonGraphicASCII(b byte) bool {
	return b < 0x20 || b == 0x7f
}

func trimASCIIWhitespace(b []byte) []byte {
	start := 0
	for start < len(b) && isASCIISpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// percentEncodeHref copies src into a new buffer, dropping ASCII
// whitespace and percent-encoding any remaining non-graphic ASCII byte.
// Returns hasBadChars = true iff any percent-encoding was actually
// performed (spec §4.4 step 4).
func percentEncodeHref(src []byte) (out []byte, hasBadChars bool) {
	out = make([]byte, 0, len(src))
	for _, b := range src {
		if isASCIISpace(b) {
			continue
		}
		if nonGraphicASCII(b) {
			out = append(out, []byte(fmt.Sprintf("%%%02X", b))...)
			hasBadChars = true
			continue
		}
		out = append(out, b)
	}
	return out, hasBadChars
}

// inferScheme implements spec §4.4 step 3: when "://" is absent and the
// href doesn't already carry a mailto:/tel:/callto: prefix, infer one from
// the shape of the href. Returns the prefix to prepend (possibly empty),
// noPrefix=true when a prefix was synthesized, and ok=false when the href
// must be rejected outright.
func inferScheme(href []byte) (prefix string, noPrefix bool, ok bool) {
	if len(href) == 0 {
		return "", false, false
	}
	lower := strings.ToLower(string(href))
	if strings.Contains(lower, "://") {
		return "", false, true
	}
	for _, p := range []string{"mailto:", "tel:", "callto:"} {
		if strings.HasPrefix(lower, p) {
			return "", false, true
		}
	}
	if strings.HasPrefix(lower, "//") {
		return "http:", true, true
	}
	// Examine the first non-alphanumeric byte.
	i := 0
	for i < len(href) && isAlnumASCII(href[i]) {
		i++
	}
	if i >= len(href) {
		return "http://", true, true
	}
	switch href[i] {
	case '@':
		// "@" seen before any scheme delimiter: user@host shorthand.
		return "mailto://", true, true
	case ':':
		if i == 0 {
			return "", false, false
		}
		return "", false, true
	default:
		if i == 0 {
			return "", false, false
		}
		return "http://", true, true
	}
}

func isAlnumASCII(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// normalizeHostAndFlags is the external "normalise_propagate_flags"
// collaborator of spec §6, implemented here with golang.org/x/net/idna:
// it ASCII/punycode-normalizes the host in place on the parsed URL so
// downstream host comparisons (base resolution, phishing checks) see a
// canonical form.
func normalizeHostAndFlags(u *url.URL) {
	host := u.Hostname()
	if host == "" {
		return
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return
	}
	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
}

// isTLDLess reports whether host has no recognizable public-suffix-based
// TLD, per spec §4.4 step 6's "reject if both schemeless and TLD-less"
// rule. golang.org/x/net/publicsuffix is the "general URL parser"
// collaborator's TLD table for this purpose.
func isTLDLess(host string) bool {
	if host == "" {
		return true
	}
	if strings.Count(host, ".") == 0 {
		return true
	}
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(host))
	if suffix == "" {
		return true
	}
	return !icann && suffix == host
}

// ResolveURLMode selects how ResolveHref interprets raw bytes: HrefMode is
// the normal <a>/<img>/<base> attribute path; TextMode is for URLs found
// by scanning rendered text (spec §6 find_multiple). Both modes apply the
// same resolution steps; TextMode additionally marks the result
// URLFromText.
type ResolveURLMode int

const (
	HrefMode ResolveURLMode = iota
	TextMode
)

// ResolveHref implements spec §4.4's URL-processing steps 1-6 plus base
// resolution. raw is the href/src attribute bytes, already entity-decoded
// by the caller (per the tag-content parser contract).
func ResolveHref(raw []byte, doc *ContentDescriptor, mode ResolveURLMode) (*ResolvedURL, bool) {
	trimmed := trimASCIIWhitespace(raw)
	if len(trimmed) == 0 {
		return nil, false
	}

	if strings.HasPrefix(strings.ToLower(string(trimmed)), "data:") {
		if doc != nil {
			doc.Flags |= FlagHasDataURLs
		}
		return nil, false
	}

	var candidate []byte
	noPrefix := false
	if doc != nil && doc.BaseURL != nil && !strings.Contains(string(trimmed), "://") {
		resolved, ok := resolveAgainstBase(doc.BaseURL, string(trimmed))
		if !ok {
			return nil, false
		}
		candidate = []byte(resolved)
	} else {
		prefix, np, ok := inferScheme(trimmed)
		if !ok {
			return nil, false
		}
		noPrefix = np
		candidate = append([]byte(prefix), trimmed...)
	}

	encoded, hasBadChars := percentEncodeHref(candidate)

	parsed, err := url.Parse(string(encoded))
	if err != nil {
		return nil, false
	}
	normalizeHostAndFlags(parsed)

	host := parsed.Hostname()
	scheme := strings.ToLower(parsed.Scheme)
	if host == "" || scheme == "" {
		return nil, false
	}

	var flags URLFlags
	if hasBadChars {
		flags |= URLObscured
	}
	if noPrefix {
		flags |= URLSchemeless
		if isTLDLess(host) {
			return nil, false
		}
	}
	if mode == TextMode {
		flags |= URLFromText
	}

	return &ResolvedURL{
		Full:   parsed.String(),
		Scheme: scheme,
		Host:   host,
		Path:   parsed.EscapedPath(),
		Flags:  flags,
	}, true
}

// resolveAgainstBase implements spec §4.4's "Base resolution" rules:
// data: rejected outright (handled by the caller before this is reached),
// "/x" (but not "//x") resolves against scheme://host, and "Otherwise" —
// which includes a "//x" href — concatenates onto base.Full with a "/"
// separator unless the base already ends in one.
func resolveAgainstBase(base *ResolvedURL, href string) (string, bool) {
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return base.Scheme + "://" + base.Host + href, true
	}
	sep := ""
	if !strings.HasSuffix(base.Full, "/") {
		sep = "/"
	}
	return base.Full + sep + href, true
}

// parseDimension reads a leading decimal integer from a width/height/size
// attribute value, as used by the <img> width/height fallback scan of
// spec §4.4 ("scan style for height/width substrings followed by a digit
// run"), by BuildImage's width/height attributes, and by parseSizesWxH.
func parseDimension(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
