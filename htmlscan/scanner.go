package htmlscan

import "strings"

// contentMode selects how the scanner treats the byte region up to the
// next '<' (spec §4.1's content_write / content_ignore / content_style
// modes).
type contentMode int

const (
	modeWrite contentMode = iota
	modeIgnore
	modeStyle
)

// Scanner is the document-level byte state machine of spec §4.1. It owns
// the tag tree, the rendered-text emitter, the style inheritance stack,
// and the URL set, and drives every other subsystem in this package as it
// walks the input once.
type Scanner struct {
	input []byte
	pos   int

	doc   *ContentDescriptor
	emit  Emitter
	tree  *TreeBuilder
	style StyleStack

	opts           *ProcessOptions
	mode           contentMode
	styleBodyStart int
	defaultURLSet  URLSet
}

// NewScanner constructs a Scanner over input, wired to doc.
func NewScanner(input []byte, doc *ContentDescriptor, opts *ProcessOptions) *Scanner {
	if opts == nil {
		opts = &ProcessOptions{}
	}
	return &Scanner{
		input: input,
		doc:   doc,
		tree:  NewTreeBuilder(doc),
		opts:  opts,
		mode:  modeWrite,
	}
}

// Run executes the full single pass (spec §4.1).
func (sc *Scanner) Run() {
	n := len(sc.input)
	if n == 0 {
		sc.doc.Parsed = sc.emit.Bytes()
		return
	}
	if sc.input[0] != '<' {
		sc.doc.Flags |= FlagBadStart
	}
	for sc.pos < n {
		if sc.input[sc.pos] == '<' {
			sc.handleTagOpen()
			continue
		}
		sc.handleContentRun()
	}
	PropagateContentLengths(sc.doc.Root)
	sc.doc.Parsed = sc.emit.Bytes()
}

// handleContentRun consumes bytes up to the next '<' (or EOF), splitting
// on ASCII whitespace so runs collapse to a single emitted space, per
// spec §4.1's content_write/content_ignore_sp dance.
func (sc *Scanner) handleContentRun() {
	n := len(sc.input)
	start := sc.pos
	for sc.pos < n && sc.input[sc.pos] != '<' {
		sc.pos++
	}
	region := sc.input[start:sc.pos]

	_ = start
	switch sc.mode {
	case modeIgnore, modeStyle:
		return
	default:
		sc.writeCollapsed(region)
	}
}

// writeCollapsed writes region to the emitter, collapsing ASCII
// whitespace runs to single spaces and attributing each emitted
// space-or-word span to the tree builder's current content tag
// individually (not the region as a whole), so a leading separator space
// collapsed together with real text in the same call is still tracked at
// the granularity spec §9 open question 1 requires: a freshly-opened
// tag's ContentOffset skips past a lone leading space and lands on the
// first real content, even when both arrive in one writeCollapsed call.
func (sc *Scanner) writeCollapsed(region []byte) {
	tag := sc.tree.Current()

	i := 0
	for i < len(region) {
		if isASCIISpace(region[i]) {
			before := sc.emit.Len()
			sc.emit.WriteSpace()
			recordContentSpan(tag, &sc.emit, before)
			for i < len(region) && isASCIISpace(region[i]) {
				i++
			}
			continue
		}
		j := i
		for j < len(region) && !isASCIISpace(region[j]) {
			j++
		}
		before := sc.emit.Len()
		sc.emit.WriteText(region[i:j])
		recordContentSpan(tag, &sc.emit, before)
		i = j
	}
}

// handleTagOpen dispatches on the byte following '<' (spec §4.1
// tag_begin).
func (sc *Scanner) handleTagOpen() {
	n := len(sc.input)
	if sc.mode == modeStyle {
		if sc.tryCloseStyle() {
			return
		}
		// A '<' inside style content that isn't "</style...>": absorb it
		// as part of the (unrendered, externally-parsed) style body.
		sc.pos++
		return
	}

	if sc.pos+1 >= n {
		sc.pos = n
		return
	}
	next := sc.input[sc.pos+1]
	switch {
	case next == '<':
		// "<" again restarts.
		sc.pos++
		return
	case next == '!':
		sc.handleSGML()
		return
	case next == '?':
		sc.handleXML()
		return
	case next == '>':
		sc.doc.Flags |= FlagBadElements
		sc.pos += 2
		return
	case next == '/':
		sc.handleTagToken(true, sc.pos+2)
		return
	default:
		sc.handleTagToken(false, sc.pos+1)
		return
	}
}

// handleSGML implements the "<!" branch: "<![" enters a bracket-balanced
// skip, "<!--" enters the comment machine, otherwise sgml_content
// consumes to the next '>' (spec §4.1).
func (sc *Scanner) handleSGML() {
	n := len(sc.input)
	rest := sc.input[sc.pos:]
	switch {
	case len(rest) >= 4 && string(rest[:4]) == "<!--":
		sc.handleComment()
	case len(rest) >= 3 && rest[2] == '[':
		i := sc.pos + 3
		depth := 1
		for i < n && depth > 0 {
			switch sc.input[i] {
			case '[':
				depth++
			case ']':
				depth--
			}
			i++
		}
		for i < n && sc.input[i] != '>' {
			i++
		}
		if i < n {
			i++
		}
		sc.pos = i
	default:
		i := sc.pos + 2
		for i < n && sc.input[i] != '>' {
			i++
		}
		if i < n {
			i++
		}
		sc.pos = i
	}
}

// handleComment implements the "<!--" comment rule: two consecutive '-'
// followed by '>' terminates it; an initial '>' or "->" right after
// "<!--" is accepted but flags BAD_ELEMENTS.
func (sc *Scanner) handleComment() {
	n := len(sc.input)
	i := sc.pos + 4
	if i < n && sc.input[i] == '>' {
		sc.doc.Flags |= FlagBadElements
		sc.pos = i + 1
		return
	}
	if i+1 < n && sc.input[i] == '-' && sc.input[i+1] == '>' {
		sc.doc.Flags |= FlagBadElements
		sc.pos = i + 2
		return
	}
	for i < n {
		if i+2 < n && sc.input[i] == '-' && sc.input[i+1] == '-' && sc.input[i+2] == '>' {
			sc.pos = i + 3
			return
		}
		i++
	}
	sc.pos = n
}

// handleXML implements the "<?" branch: sets FlagXML and consumes to the
// next '>'.
func (sc *Scanner) handleXML() {
	sc.doc.Flags |= FlagXML
	n := len(sc.input)
	i := sc.pos + 2
	for i < n && sc.input[i] != '>' {
		i++
	}
	if i < n {
		i++
	}
	sc.pos = i
}

// tryCloseStyle checks whether the '<' at sc.pos begins a case-insensitive
// "</style" close; if so it parses the style body accumulated since the
// <style> tag was opened, hands it to the CSS subsystem if allowed, and
// resumes tag_begin at the matched close tag. Returns false if this '<'
// is not the style closer.
func (sc *Scanner) tryCloseStyle() bool {
	n := len(sc.input)
	if sc.pos+3 >= n {
		return false
	}
	if sc.input[sc.pos+1] != '/' {
		return false
	}
	tagPart := sc.input[sc.pos+2:]
	if len(tagPart) < 1 || (tagPart[0] != 's' && tagPart[0] != 'S') {
		return false
	}
	// Confirm this is specifically </style, not some other </s... tag.
	lower := strings.ToLower(string(tagPart))
	if !strings.HasPrefix(lower, "style") {
		return false
	}

	body := sc.input[sc.styleBodyStart:sc.pos]
	if sc.opts.AllowCSS {
		sheet := ParseStyleSheet(string(body))
		if sc.doc.CSSStyle == nil {
			sc.doc.CSSStyle = sheet
		} else {
			sc.doc.CSSStyle.rules = append(sc.doc.CSSStyle.rules, sheet.rules...)
		}
	}
	sc.mode = modeWrite
	sc.handleTagToken(true, sc.pos+2)
	return true
}

// handleTagToken parses one tag token (open, self-closed, or closing)
// starting right after "<" or "</", commits it to the tree, runs its
// specialization, and chooses the next content mode.
func (sc *Scanner) handleTagToken(closing bool, contentStart int) {
	node, end := ParseTagContent(sc.input, contentStart, sc.opts.TagTable)
	if closing {
		node.Flags |= TagClosing
	}
	if end < len(sc.input) {
		end++ // consume the terminating '>'
	}
	sc.pos = end

	ignore, closed := sc.tree.Accept(node)

	if !node.Flags.Has(TagClosing) && node.ID >= 0 {
		sc.onTagOpen(node)
		// onTagOpen may upgrade this node to IGNORE (an invisible block
		// style); re-derive the content mode from the possibly-updated
		// flags rather than the pre-specialization tree decision.
		ignore = ignore || node.Flags.Has(TagIgnore)
	}
	if closed != nil {
		sc.onTagClose(closed)
	}

	switch {
	case node.ID >= 0 && node.Name == "style" && !node.Flags.Has(TagClosing) && !node.Flags.Has(TagClosed):
		sc.mode = modeStyle
		sc.styleBodyStart = sc.pos
	case ignore:
		sc.mode = modeIgnore
	default:
		sc.mode = modeWrite
	}
}
