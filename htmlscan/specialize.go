package htmlscan

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func (sc *Scanner) urlSet() URLSet {
	if sc.opts.URLSet != nil {
		return sc.opts.URLSet
	}
	return sc.sharedURLSet()
}

func (sc *Scanner) colorNamer() ColorNamer {
	if sc.opts.ColorNamer != nil {
		return sc.opts.ColorNamer
	}
	return DefaultColorNamer
}

func (sc *Scanner) imageInspector() ImageInspector {
	if sc.opts.ImageInspector != nil {
		return sc.opts.ImageInspector
	}
	return DefaultImageInspector
}

// sharedURLSet lazily creates a default URLSet for this Scanner when the
// caller didn't supply one, so anchors discovered across the pass share
// one set even without an explicit ProcessOptions.URLSet.
func (sc *Scanner) sharedURLSet() URLSet {
	if sc.defaultURLSet == nil {
		sc.defaultURLSet = NewURLSet()
	}
	return sc.defaultURLSet
}

// onTagOpen runs per-tag semantic processing (spec §4.4 URL tags, §4.5
// style, §4.6 line breaks) right after a non-closing token is committed
// to the tree.
func (sc *Scanner) onTagOpen(node *TagNode) {
	if LineBreakTags[node.Name] {
		sc.emit.WriteLineBreak()
	}

	if node.Flags.Has(TagBlock) {
		sc.applyBlockStyle(node)
	}

	switch node.Name {
	case "base":
		sc.specializeBase(node)
	case "a":
		sc.specializeAnchor(node)
	case "img":
		sc.specializeImage(node)
	case "link":
		sc.specializeLinkIcon(node)
	case "meta":
		sc.specializeMetaRefresh(node)
	}
}

// onTagClose runs the close-time half of specialization: popping the
// style stack and, for anchors, the displayed-vs-actual URL comparison
// (spec §4.4 "<a> specifics").
func (sc *Scanner) onTagClose(node *TagNode) {
	if node.pushedStyle {
		sc.style.Pop()
	}
	if node.Name == "a" && node.URL != nil {
		sc.checkDisplayedURL(node)
	}
}

// applyBlockStyle computes this node's Block, updating the document
// background when the node is <body>, pushing onto the style stack when
// the node set any property explicitly, and switching the scanner to
// content_ignore for the remainder of this tag's content when the
// computed style is invisible (spec §4.5 last paragraph).
func (sc *Scanner) applyBlockStyle(node *TagNode) {
	parent := sc.style.Peek()
	block, explicit := BuildBlockStyle(node, parent, sc.doc, sc.colorNamer())
	node.Block = block
	sc.doc.Blocks = append(sc.doc.Blocks, block)

	if explicit {
		sc.style.Push(block)
		node.pushedStyle = true
	}
	if !block.Visible {
		node.Flags |= TagIgnore
	}
}

func (sc *Scanner) specializeBase(node *TagNode) {
	if sc.doc.BaseURL != nil {
		return // first valid <base href> wins; later ones ignored (spec §3)
	}
	href, ok := node.Parameters.Get(ComponentHref)
	if !ok || href == "" {
		return
	}
	if u, ok := ResolveHref([]byte(href), sc.doc, HrefMode); ok {
		sc.doc.BaseURL = u
	}
}

func (sc *Scanner) specializeAnchor(node *TagNode) {
	node.hrefOffset = sc.emit.Len()
	href, ok := node.Parameters.Get(ComponentHref)
	if !ok || href == "" {
		return
	}
	u, ok := ResolveHref([]byte(href), sc.doc, HrefMode)
	if !ok {
		return
	}
	node.URL = sc.urlSet().AddOrReturn(u)
}

func (sc *Scanner) specializeImage(node *TagNode) {
	img := BuildImage(node, sc.doc, sc.urlSet(), sc.imageInspector())
	sc.doc.Images = append(sc.doc.Images, img)
	if alt, ok := node.Parameters.Get(ComponentAlt); ok && alt != "" {
		sc.emit.WriteAltText(alt)
	}
}

// specializeLinkIcon handles <link rel="icon">, treated like <img> per
// SPEC_FULL's supplemented features. Width and height come from
// BuildImage. The sizes attribute is not recognized by the tag-content
// parser, so it is never read; a class value of the form "WxH" fills in
// whichever dimension BuildImage left at zero.
func (sc *Scanner) specializeLinkIcon(node *TagNode) {
	rel, ok := node.Parameters.Get(ComponentRel)
	if !ok || !strings.EqualFold(strings.TrimSpace(rel), "icon") {
		return
	}
	img := BuildImage(node, sc.doc, sc.urlSet(), sc.imageInspector())
	if sizes, ok := node.Parameters.Get(ComponentClass); ok {
		// "sizes" isn't in the fixed ComponentKind enumeration, so the raw
		// attribute is unavailable here; this reads the class slot instead
		// and only fills dimensions BuildImage left at zero.
		if w, h, ok := parseSizesWxH(sizes); ok {
			if img.Width == 0 {
				img.Width = w
			}
			if img.Height == 0 {
				img.Height = h
			}
		}
	}
	sc.doc.Images = append(sc.doc.Images, img)
}

func parseSizesWxH(s string) (w, h int, ok bool) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	wv, ok1 := parseDimension(parts[0])
	hv, ok2 := parseDimension(parts[1])
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return wv, hv, true
}

// specializeMetaRefresh recognizes <meta http-equiv="refresh"
// content="N;url=...">, a common phishing redirect vector (SPEC_FULL
// supplemented feature). http-equiv and content are read from the
// ComponentName/ComponentAlt slots respectively — a deliberate reuse of
// two otherwise-unused-by-<meta> slots rather than widening the fixed
// ComponentKind enumeration spec §3 defines (see DESIGN.md).
func (sc *Scanner) specializeMetaRefresh(node *TagNode) {
	equiv, _ := node.Parameters.Get(ComponentName)
	if !strings.EqualFold(strings.TrimSpace(equiv), "refresh") {
		return
	}
	content, _ := node.Parameters.Get(ComponentAlt)
	idx := strings.IndexByte(content, ';')
	if idx < 0 {
		return
	}
	target := content[idx+1:]
	lower := strings.ToLower(target)
	urlIdx := strings.Index(lower, "url=")
	if urlIdx < 0 {
		return
	}
	target = strings.Trim(target[urlIdx+4:], `'" `)
	if target == "" {
		return
	}
	if u, ok := ResolveHref([]byte(target), sc.doc, HrefMode); ok {
		node.URL = sc.urlSet().AddOrReturn(u)
	}
}

// checkDisplayedURL implements spec §4.4's anchor phishing check: the
// visible text between href_offset and the close is Unicode-whitespace
// trimmed and NFC-normalized, then compared against the actual target.
// A mismatch sets DISPLAY_URL, records an Exception over the displayed
// span, and — if the displayed text itself resolves to a distinct known
// URL — promotes that URL's FromText flag to HTMLDisplayed.
func (sc *Scanner) checkDisplayedURL(node *TagNode) {
	parsed := sc.emit.Bytes()
	if node.hrefOffset > len(parsed) {
		return
	}
	visible := parsed[node.hrefOffset:]
	trimmed := trimUnicodeWhitespace(visible)
	if len(trimmed) == 0 {
		return
	}
	normalized := norm.NFC.Bytes(trimmed)

	if urlTextMatchesHost(normalized, node.URL.Host) {
		return
	}

	node.URL.Flags |= URLDisplayURL
	sc.doc.Exceptions = append([]Exception{{
		Pos:  node.hrefOffset,
		Len:  len(visible),
		Kind: ExceptionURL,
		Ref:  node.URL,
	}}, sc.doc.Exceptions...)

	if displayed, ok := ResolveHref(normalized, sc.doc, TextMode); ok {
		existing := sc.urlSet().AddOrReturn(displayed)
		if existing != node.URL {
			existing.Flags &^= URLFromText
			existing.Flags |= URLHTMLDisplayed
		}
	}
}

// urlTextMatchesHost reports whether the displayed text is plausibly
// "the same place" as host: it contains the host verbatim, or it simply
// doesn't look like a URL/host at all (plain anchor text that isn't
// trying to spoof a destination is not a mismatch).
func urlTextMatchesHost(text []byte, host string) bool {
	if host == "" {
		return true
	}
	lowerText := strings.ToLower(string(text))
	if strings.Contains(lowerText, strings.ToLower(host)) {
		return true
	}
	return !looksLikeHostOrURL(lowerText)
}

func looksLikeHostOrURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if !strings.Contains(s, ".") {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func trimUnicodeWhitespace(b []byte) []byte {
	s := strings.TrimFunc(string(b), unicode.IsSpace)
	return []byte(s)
}
