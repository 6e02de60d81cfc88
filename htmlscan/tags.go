package htmlscan

import "strings"

// TagInfo is what the tag table returns for a recognized tag name: an
// integer id (stable across the package, used to index TagSet) and the
// static flags from spec §3 (BLOCK, INLINE, EMPTY, HEAD, HREF, UNIQUE).
type TagInfo struct {
	ID    int
	Flags TagFlags
}

// TagTable is the external "tag-name -> tag-id dictionary and per-tag flag
// table" collaborator of spec §1(a). The package ships a concrete default
// (DefaultTagTable) so it runs standalone, but callers may supply their own
// via ProcessOptions.TagTable.
type TagTable interface {
	ByName(lowercaseName []byte) (TagInfo, bool)
	ByID(id int) (name string, ok bool)
}

// LineBreakTags are the tags after which the emitter inserts "\r\n"
// on open/empty acceptance, unless the last emitted byte is already '\n'
// (spec §4.1, §4.6).
var LineBreakTags = map[string]bool{
	"br": true, "hr": true, "p": true, "tr": true, "div": true,
}

// UniqueTags is the concrete UNIQUE set (spec SPEC_FULL "Duplicate
// <title>/<base> enforcement"), taken from the original's tag flag table.
var UniqueTags = map[string]bool{
	"html": true, "head": true, "body": true, "title": true, "base": true,
}

type staticTagTable struct {
	byName map[string]TagInfo
	byID   map[int]string
}

// DefaultTagTable is the concrete tag-name -> id/flags dictionary used when
// ProcessOptions.TagTable is nil. It covers the tags a forgiving
// HTML-fragment analyzer for email bodies needs to reason about; anything
// absent from this table is UNKNOWN_ELEMENTS with id -1, which the scanner
// and tree builder both handle gracefully.
var DefaultTagTable = buildDefaultTagTable()

func buildDefaultTagTable() *staticTagTable {
	type def struct {
		name  string
		flags TagFlags
	}
	defs := []def{
		{"html", TagBlock | TagUnique},
		{"head", TagHead | TagUnique},
		{"body", TagBlock | TagUnique},
		{"title", TagHead | TagUnique},
		{"base", TagEmpty | TagHref | TagUnique},
		{"meta", TagEmpty | TagHead},
		{"link", TagEmpty | TagHead | TagHref},
		{"style", TagHead},
		{"script", TagHead},
		{"noscript", TagHead},

		{"div", TagBlock},
		{"p", TagBlock},
		{"span", TagInline},
		{"a", TagHref},
		{"img", TagEmpty | TagHref},
		{"br", TagEmpty},
		{"hr", TagEmpty},
		{"table", TagBlock},
		{"thead", TagBlock},
		{"tbody", TagBlock},
		{"tfoot", TagBlock},
		{"tr", TagBlock},
		{"td", TagBlock},
		{"th", TagBlock},
		{"ul", TagBlock},
		{"ol", TagBlock},
		{"li", TagBlock},
		{"dl", TagBlock},
		{"dt", TagBlock},
		{"dd", TagBlock},
		{"form", TagBlock},
		{"input", TagEmpty},
		{"textarea", TagBlock},
		{"select", TagBlock},
		{"option", TagBlock},
		{"button", TagInline},
		{"label", TagInline},
		{"b", TagInline},
		{"strong", TagInline},
		{"i", TagInline},
		{"em", TagInline},
		{"u", TagInline},
		{"s", TagInline},
		{"strike", TagInline},
		{"small", TagInline},
		{"big", TagInline},
		{"sub", TagInline},
		{"sup", TagInline},
		{"font", TagInline},
		{"center", TagBlock},
		{"blockquote", TagBlock},
		{"pre", TagBlock},
		{"code", TagInline},
		{"h1", TagBlock},
		{"h2", TagBlock},
		{"h3", TagBlock},
		{"h4", TagBlock},
		{"h5", TagBlock},
		{"h6", TagBlock},
		{"iframe", TagBlock | TagHead},
		{"object", TagBlock | TagHead},
		{"embed", TagEmpty | TagHead},
		{"area", TagEmpty | TagHref},
		{"video", TagBlock},
		{"audio", TagBlock},
		{"source", TagEmpty},
		{"track", TagEmpty},
		{"canvas", TagBlock},
		{"svg", TagBlock | TagHead},
		{"figure", TagBlock},
		{"figcaption", TagBlock},
		{"nav", TagBlock},
		{"header", TagBlock},
		{"footer", TagBlock},
		{"section", TagBlock},
		{"article", TagBlock},
		{"aside", TagBlock},
		{"main", TagBlock},
		{"wbr", TagEmpty},
		{"col", TagEmpty},
		{"colgroup", TagBlock},
		{"caption", TagBlock},
		{"address", TagBlock},
		{"fieldset", TagBlock},
		{"legend", TagInline},
		{"details", TagBlock},
		{"summary", TagInline},
		{"ruby", TagInline},
		{"rt", TagInline},
		{"rp", TagInline},
		{"data", TagInline},
		{"time", TagInline},
		{"mark", TagInline},
		{"abbr", TagInline},
		{"cite", TagInline},
		{"q", TagInline},
		{"var", TagInline},
		{"kbd", TagInline},
		{"samp", TagInline},
		{"bdi", TagInline},
		{"bdo", TagInline},
		{"ins", TagInline},
		{"del", TagInline},
		{"template", TagHead | TagBlock},
		{"param", TagEmpty | TagHead},
	}

	t := &staticTagTable{byName: make(map[string]TagInfo, len(defs)), byID: make(map[int]string, len(defs))}
	for i, d := range defs {
		t.byName[d.name] = TagInfo{ID: i, Flags: d.flags}
		t.byID[i] = d.name
	}
	return t
}

func (t *staticTagTable) ByName(lowercaseName []byte) (TagInfo, bool) {
	info, ok := t.byName[string(lowercaseName)]
	return info, ok
}

func (t *staticTagTable) ByID(id int) (string, bool) {
	name, ok := t.byID[id]
	return name, ok
}

// componentNames maps recognized attribute names (already lowercased) to
// their ComponentKind. href/src/action all canonicalize to ComponentHref.
var componentNames = map[string]ComponentKind{
	"href":            ComponentHref,
	"src":             ComponentHref,
	"action":          ComponentHref,
	"color":           ComponentColor,
	"bgcolor":         ComponentBGColor,
	"background":      ComponentBGColor,
	"style":           ComponentStyle,
	"class":           ComponentClass,
	"width":           ComponentWidth,
	"height":          ComponentHeight,
	"size":            ComponentSize,
	"rel":             ComponentRel,
	"alt":             ComponentAlt,
}

func lookupComponent(attrName []byte) (ComponentKind, bool) {
	k, ok := componentNames[strings.ToLower(string(attrName))]
	return k, ok
}
