package htmlscan

import (
	"math"
	"strconv"
	"strings"
)

// styleDecl is one "key:value" pair out of a style="" attribute.
type styleDecl struct {
	key, value string
}

// ParseDeclarations splits a style="" attribute value on ';' into
// key:value declarations (spec §4.5 "a declaration-level scanner splits
// on ';' into key:value").
func ParseDeclarations(style string) []styleDecl {
	parts := strings.Split(style, ";")
	decls := make([]styleDecl, 0, len(parts))
	for _, part := range parts {
		idx := strings.IndexByte(part, ':')
		if idx < 0 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(part[:idx]))
		v := strings.TrimSpace(part[idx+1:])
		if k == "" || v == "" {
			continue
		}
		decls = append(decls, styleDecl{key: k, value: v})
	}
	return decls
}

// fontSizeUnitFactor is the px-per-unit table of spec §4.5.
var fontSizeUnitFactor = map[string]float64{
	"px":   1,
	"em":   16,
	"rem":  16,
	"ex":   8,
	"vw":   8,
	"vmax": 8,
	"vh":   6,
	"vmin": 6,
	"pt":   96.0 / 72.0,
	"cm":   96.0 / 2.54,
	"mm":   9.6 / 2.54,
	"in":   96,
	"pc":   16,
	"%":    0.16,
}

// ParseFontSize implements spec §4.5 "Font-size parsing": a leading
// decimal number plus an optional unit suffix, converted to pixels and
// clamped to MaxFontSizePx (applied uniformly, including for "%", per §9
// open question 3). legacySize selects the HTML size="" naked-number
// rule (n<1 -> 16, else n*16) over the CSS naked-number rule (<1 -> 0,
// otherwise the 16px default, ignored).
func ParseFontSize(raw string, legacySize bool) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || raw[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw[:end], 64)
	if err != nil {
		return 0, false
	}
	unit := strings.ToLower(strings.TrimSpace(raw[end:]))

	var px float64
	switch {
	case legacySize:
		if value < 1 {
			px = 16
		} else {
			px = value * 16
		}
	case unit == "":
		if value < 1 {
			px = 0
		} else {
			px = 16
		}
	default:
		factor, ok := fontSizeUnitFactor[unit]
		if !ok {
			px = 16
		} else {
			px = value * factor
		}
	}

	n := int(math.Round(px))
	if n > MaxFontSizePx {
		n = MaxFontSizePx
	}
	if n < 0 {
		n = 0
	}
	return n, true
}

func parseOpacity(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return f, true
}

// applyStyleDeclarations applies the recognized style keys of spec §4.5
// to block, returning whether any property was actually changed, so the
// caller can decide whether to push block onto the inheritance stack.
func applyStyleDeclarations(block *Block, decls []styleDecl, namer ColorNamer, doc *ContentDescriptor, isBody bool) bool {
	changed := false
	for _, d := range decls {
		switch d.key {
		case "color", "font-color":
			if c, ok := ParseColor(d.value, namer); ok {
				block.FontColor = c
				changed = true
			}
		case "background-color", "background":
			if c, ok := ParseColor(d.value, namer); ok {
				block.BackgroundColor = c
				changed = true
				if isBody && doc != nil {
					doc.BGColor = c
				}
			}
		case "display":
			if strings.Contains(strings.ToLower(d.value), "none") {
				block.Visible = false
				changed = true
			}
		case "visibility":
			if strings.Contains(strings.ToLower(d.value), "hidden") {
				block.Visible = false
				changed = true
			}
		case "font-size":
			if px, ok := ParseFontSize(d.value, false); ok {
				block.FontSize = px
				changed = true
			}
		case "opacity":
			if f, ok := parseOpacity(d.value); ok {
				block.FontColor.A = uint8(math.Round(f * 255))
				block.FontColor.Valid = true
				changed = true
			}
		}
	}
	return changed
}

// StyleStack is a LIFO of block descriptors used for inheritance (design
// notes: "a LIFO of block descriptors rather than recursion"). Push on
// open of a block that set any property explicitly; pop on the matching
// close. A close that never matched an open leaves the stack untouched.
type StyleStack struct {
	items []*Block
}

func (s *StyleStack) Push(b *Block) { s.items = append(s.items, b) }

func (s *StyleStack) Pop() {
	if len(s.items) == 0 {
		return
	}
	s.items = s.items[:len(s.items)-1]
}

func (s *StyleStack) Peek() *Block {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// BuildBlockStyle computes the Block for a newly-accepted block tag,
// applying its color/bgcolor/size attributes and style="" declarations,
// then inheriting any property left unset from parent (or document/root
// defaults), per spec §4.5. It returns the block and whether it set any
// property explicitly (the caller uses this to decide whether to push it
// onto the StyleStack).
func BuildBlockStyle(tag *TagNode, parent *Block, doc *ContentDescriptor, namer ColorNamer) (*Block, bool) {
	b := &Block{Tag: tag, FontSize: FontSizeUnset, Visible: true}
	if cls, ok := tag.Parameters.Get(ComponentClass); ok {
		b.HTMLClass = cls
	}

	explicit := false
	isBody := tag.Name == "body"

	if colorAttr, ok := tag.Parameters.Get(ComponentColor); ok {
		if c, ok2 := ParseColor(colorAttr, namer); ok2 {
			b.FontColor = c
			explicit = true
		}
	}
	if bgAttr, ok := tag.Parameters.Get(ComponentBGColor); ok {
		if c, ok2 := ParseColor(bgAttr, namer); ok2 {
			b.BackgroundColor = c
			explicit = true
			if isBody && doc != nil {
				doc.BGColor = c
			}
		}
	}
	if sizeAttr, ok := tag.Parameters.Get(ComponentSize); ok {
		if px, ok2 := ParseFontSize(sizeAttr, true); ok2 {
			b.FontSize = px
			explicit = true
		}
	}
	if style, ok := tag.Parameters.Get(ComponentStyle); ok && style != "" {
		b.Style = style
		if applyStyleDeclarations(b, ParseDeclarations(style), namer, doc, isBody) {
			explicit = true
		}
	}

	if !b.FontColor.Valid {
		if parent != nil {
			b.FontColor = parent.FontColor
		} else {
			b.FontColor = ColorBlack
		}
	}
	if !b.BackgroundColor.Valid {
		switch {
		case parent != nil:
			b.BackgroundColor = parent.BackgroundColor
		case doc != nil:
			b.BackgroundColor = doc.BGColor
		default:
			b.BackgroundColor = ColorWhite
		}
	}
	if b.FontSize == FontSizeUnset {
		if parent != nil {
			b.FontSize = parent.FontSize
		} else {
			b.FontSize = 16
		}
	}
	if parent != nil && !parent.Visible {
		b.Visible = false
	}
	if b.FontSize < 3 || b.FontColor.A < 10 {
		b.Visible = false
	}

	return b, explicit
}
