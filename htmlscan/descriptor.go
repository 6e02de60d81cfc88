// Package htmlscan implements a forgiving HTML-fragment analyzer for the
// bodies of email messages in an anti-spam pipeline. It tokenizes tags and
// text in a single streaming pass, builds a tag tree with balance recovery,
// extracts and classifies URLs and images, and emits a whitespace-collapsed
// rendered-text buffer for downstream feature extraction.
//
// Unlike a DOM-conformant parser, htmlscan never aborts on malformed input:
// every diagnostic is carried as a flag on the returned ContentDescriptor,
// and the rendered-text buffer is always populated, however degenerate the
// input.
package htmlscan

// Flags is a bitset of document-level diagnostics raised during a Process
// call. The pass always completes; flags are the only error-signalling
// channel (see package doc and spec §7).
type Flags uint32

const (
	FlagBadStart          Flags = 1 << iota // document did not start with '<'
	FlagXML                                 // an XML processing instruction was seen
	FlagBadElements                         // malformed tag, bad comment, stray '>' inside '<>'
	FlagUnknownElements                     // a tag name absent from the tag table
	FlagDuplicateElements                   // a UNIQUE tag id seen more than once
	FlagUnbalanced                          // a close tag had no matching open, or an in-place reopen occurred
	FlagTooManyTags                         // MAX_TAGS exceeded
	FlagHasDataURLs                         // a data: URL was processed
)

// MaxTags bounds the number of nodes inserted into the tag tree. Tokens
// beyond this still advance the scanner/parser state machines but are not
// added to the tree.
const MaxTags = 8192

// MaxFontSizePx is the clamp applied to every computed block font size,
// including percentage units (spec §9 open question 3).
const MaxFontSizePx = 32

// TagFlags is a bitset on a single TagNode, combining the tag kind's static
// flags (from the tag table) with per-occurrence dynamic flags set while
// processing this token.
type TagFlags uint32

const (
	// Static, from the tag table.
	TagBlock   TagFlags = 1 << iota // participates in style inheritance
	TagInline                      // never nests children
	TagEmpty                       // never nests children, implicitly self-closing
	TagHead                        // metadata tag; content is not rendered
	TagHref                        // carries a URL-bearing attribute
	TagUnique                      // at most one instance is well-formed (html, head, body, title, base)
	TagUnknown                     // absent from the tag table

	// Dynamic, set while processing this occurrence.
	TagClosing // token was </x>
	TagClosed  // self-closed <x/> or later matched by </x>
	TagBroken  // malformed tag content
	TagIgnore  // content between open and close is not rendered
	TagImage   // this node carries an Image
)

// Has reports whether all bits in mask are set.
func (f TagFlags) Has(mask TagFlags) bool { return f&mask == mask }

// ComponentKind is the fixed enumeration of HTML attributes the analyzer
// recognizes. Attribute names href, src, and action all canonicalize to
// ComponentHref. Unrecognized attributes are parsed but discarded.
type ComponentKind int

const (
	ComponentName ComponentKind = iota
	ComponentHref
	ComponentColor
	ComponentBGColor
	ComponentStyle
	ComponentClass
	ComponentWidth
	ComponentHeight
	ComponentSize
	ComponentRel
	ComponentAlt

	numComponentKinds
)

// ParamSet is a dense, fixed-size slot array keyed by ComponentKind. A
// general map is overkill for the ~11 recognized attributes; this also
// makes "first occurrence wins" a one-line check (spec §3, design notes).
type ParamSet struct {
	values [numComponentKinds]string
	set    [numComponentKinds]bool
}

// SetIfAbsent stores value under kind only if no value has been stored yet,
// implementing the "duplicate attributes keep the first occurrence" rule.
func (p *ParamSet) SetIfAbsent(kind ComponentKind, value string) {
	if p.set[kind] {
		return
	}
	p.values[kind] = value
	p.set[kind] = true
}

// Get returns the stored value for kind and whether it was ever set.
func (p *ParamSet) Get(kind ComponentKind) (string, bool) {
	return p.values[kind], p.set[kind]
}

// TagNode represents one occurrence of a start, empty, or self-closed tag.
type TagNode struct {
	ID    int // tag id from the tag table, or -1 for unknown
	Flags TagFlags
	Name  string // lowercase, entity-decoded tag name

	Parameters ParamSet

	ContentOffset int // byte offset of this tag's first emitted rendered-text byte
	ContentLength int // post-order subtree sum of rendered bytes attributable to this tag

	// Extra holds at most one of the tagged-union payloads described in
	// spec §3: a resolved URL (<a> href or <meta> refresh target),
	// an image descriptor (<img>/<link rel=icon>), or a style block.
	URL   *ResolvedURL
	Image *Image
	Block *Block

	Parent   *TagNode
	Children []*TagNode

	// hrefOffset records len(rendered text) at the moment this anchor's
	// open tag was accepted; used to slice the "visible part" for
	// phishing comparison at close. Valid only for <a> nodes.
	hrefOffset int

	// contentStarted tracks whether this node has emitted its first
	// non-whitespace-only byte yet (spec §9 open question 1).
	contentStarted bool

	// pushedStyle records whether this node's Block was pushed onto the
	// style inheritance stack, so the matching close knows to pop it.
	pushedStyle bool
}

// TagSet is a bitset over tag ids, used for ContentDescriptor.TagsSeen.
type TagSet struct {
	words []uint64
}

func (s *TagSet) Set(id int) {
	if id < 0 {
		return
	}
	w := id / 64
	for len(s.words) <= w {
		s.words = append(s.words, 0)
	}
	s.words[w] |= 1 << uint(id%64)
}

func (s *TagSet) Has(id int) bool {
	if id < 0 {
		return false
	}
	w := id / 64
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<uint(id%64)) != 0
}

// ExceptionKind identifies the type of an Exception record. URL is the only
// kind the core produces today; the field exists so downstream consumers
// that append their own exception kinds share one sorted list.
type ExceptionKind int

const (
	ExceptionURL ExceptionKind = iota
)

// Exception marks a byte span in ContentDescriptor.Parsed that a
// downstream consumer should treat specially — today, exclusively the
// anchor text span of a displayed-vs-actual URL mismatch.
type Exception struct {
	Pos  int
	Len  int
	Kind ExceptionKind
	Ref  *ResolvedURL
}

// Color is a 32-bit RGBA color. Valid distinguishes "explicitly set" from
// "inherited or default".
type Color struct {
	R, G, B, A uint8
	Valid      bool
}

// Opaque colors used as document/style defaults.
var (
	ColorWhite = Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF, Valid: true}
	ColorBlack = Color{R: 0x00, G: 0x00, B: 0x00, A: 0xFF, Valid: true}
)

// ImageFlags classifies how an Image's bytes were sourced.
type ImageFlags uint32

const (
	ImageEmbedded ImageFlags = 1 << iota // cid: reference to a message part
	ImageExternal                       // http(s) URL, inserted into the URL set
	ImageData                           // data: URL with inline base64 payload
)

// ImageMeta is the result of inspecting decoded image bytes, supplied by
// the external image subsystem (spec §6).
type ImageMeta struct {
	Type   string
	Width  int
	Height int
}

// Image describes one <img> or <link rel=icon> occurrence.
type Image struct {
	Tag           *TagNode
	Src           string
	URL           *ResolvedURL // set only when Flags&ImageExternal != 0
	Width, Height int
	Flags         ImageFlags
	EmbeddedImage *ImageMeta
}

// FontSizeUnset is the sentinel for "no explicit font-size on this block".
const FontSizeUnset = -1

// Block describes the computed style of one block-level tag occurrence.
type Block struct {
	Tag             *TagNode
	FontColor       Color
	BackgroundColor Color
	FontSize        int // pixels; FontSizeUnset if never computed
	Visible         bool
	HTMLClass       string
	Style           string // raw style="" slice, kept for diagnostics
}

// ContentDescriptor is the aggregate per-document output of Process.
type ContentDescriptor struct {
	Flags      Flags
	TagsSeen   TagSet
	Images     []*Image
	Blocks     []*Block
	BaseURL    *ResolvedURL
	BGColor    Color
	Parsed     []byte
	CSSStyle   *Stylesheet
	Exceptions []Exception

	Root     *TagNode
	TagCount int

	// PartURLs holds URLs discovered by scanning the rendered-text buffer
	// itself (spec §6 find_multiple), as opposed to Images/tag-attribute
	// URLs. Populated only when ProcessOptions.FindTextURLs is set.
	PartURLs []*ResolvedURL

	uniqueSeen map[int]bool
}

// NewContentDescriptor returns a descriptor with its defaults per spec §3:
// an opaque white background and an anonymous root tag node.
func NewContentDescriptor() *ContentDescriptor {
	return &ContentDescriptor{
		BGColor:    ColorWhite,
		Root:       &TagNode{ID: -1, Name: ""},
		uniqueSeen: make(map[int]bool),
	}
}
