package htmlscan

import (
	"strconv"
	"strings"
)

// ColorNamer is the external "CSS subsystem" collaborator of spec §6:
// color_from_name(bytes) -> Color?. DefaultColorNamer backs it with the
// CSS3 extended color keyword table so the package runs standalone;
// callers may substitute their own via ProcessOptions.ColorNamer.
type ColorNamer interface {
	ByName(name string) (Color, bool)
}

type staticColorNamer map[string]Color

func (m staticColorNamer) ByName(name string) (Color, bool) {
	c, ok := m[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

func rgb(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xFF, Valid: true} }

// DefaultColorNamer is the CSS3 extended color keyword table, grounded on
// the teacher's cssToHex (oms/color_utils.go), which recognizes a handful
// of names inline; the full keyword set is what a standalone analyzer
// needs since inbound email HTML commonly uses named colors.
var DefaultColorNamer ColorNamer = staticColorNamer{
	"black":                rgb(0, 0, 0),
	"white":                rgb(255, 255, 255),
	"red":                  rgb(255, 0, 0),
	"lime":                 rgb(0, 255, 0),
	"blue":                 rgb(0, 0, 255),
	"green":                rgb(0, 128, 0),
	"yellow":               rgb(255, 255, 0),
	"cyan":                 rgb(0, 255, 255),
	"aqua":                 rgb(0, 255, 255),
	"magenta":              rgb(255, 0, 255),
	"fuchsia":              rgb(255, 0, 255),
	"silver":               rgb(192, 192, 192),
	"gray":                 rgb(128, 128, 128),
	"grey":                 rgb(128, 128, 128),
	"maroon":               rgb(128, 0, 0),
	"olive":                rgb(128, 128, 0),
	"purple":               rgb(128, 0, 128),
	"teal":                 rgb(0, 128, 128),
	"navy":                 rgb(0, 0, 128),
	"orange":               rgb(255, 165, 0),
	"pink":                 rgb(255, 192, 203),
	"brown":                rgb(165, 42, 42),
	"gold":                 rgb(255, 215, 0),
	"indigo":               rgb(75, 0, 130),
	"violet":               rgb(238, 130, 238),
	"coral":                rgb(255, 127, 80),
	"salmon":               rgb(250, 128, 114),
	"khaki":                rgb(240, 230, 140),
	"orchid":               rgb(218, 112, 214),
	"tomato":               rgb(255, 99, 71),
	"turquoise":            rgb(64, 224, 208),
	"tan":                  rgb(210, 180, 140),
	"plum":                 rgb(221, 160, 221),
	"crimson":              rgb(220, 20, 60),
	"chocolate":            rgb(210, 105, 30),
	"darkred":              rgb(139, 0, 0),
	"darkgreen":            rgb(0, 100, 0),
	"darkblue":             rgb(0, 0, 139),
	"darkorange":           rgb(255, 140, 0),
	"darkgray":             rgb(169, 169, 169),
	"darkgrey":             rgb(169, 169, 169),
	"lightgray":            rgb(211, 211, 211),
	"lightgrey":            rgb(211, 211, 211),
	"lightblue":            rgb(173, 216, 230),
	"lightgreen":           rgb(144, 238, 144),
	"lightyellow":          rgb(255, 255, 224),
	"lightpink":            rgb(255, 182, 193),
	"steelblue":            rgb(70, 130, 180),
	"skyblue":              rgb(135, 206, 235),
	"slategray":            rgb(112, 128, 144),
	"slategrey":            rgb(112, 128, 144),
	"midnightblue":         rgb(25, 25, 112),
	"royalblue":            rgb(65, 105, 225),
	"cornflowerblue":       rgb(100, 149, 237),
	"aliceblue":            rgb(240, 248, 255),
	"antiquewhite":         rgb(250, 235, 215),
	"aquamarine":           rgb(127, 255, 212),
	"azure":                rgb(240, 255, 255),
	"beige":                rgb(245, 245, 220),
	"bisque":               rgb(255, 228, 196),
	"blanchedalmond":       rgb(255, 235, 205),
	"blueviolet":           rgb(138, 43, 226),
	"burlywood":            rgb(222, 184, 135),
	"cadetblue":            rgb(95, 158, 160),
	"chartreuse":           rgb(127, 255, 0),
	"cornsilk":             rgb(255, 248, 220),
	"darkcyan":             rgb(0, 139, 139),
	"darkgoldenrod":        rgb(184, 134, 11),
	"darkkhaki":            rgb(189, 183, 107),
	"darkmagenta":          rgb(139, 0, 139),
	"darkolivegreen":       rgb(85, 107, 47),
	"darkorchid":           rgb(153, 50, 204),
	"darksalmon":           rgb(233, 150, 122),
	"darkseagreen":         rgb(143, 188, 143),
	"darkslateblue":        rgb(72, 61, 139),
	"darkslategray":        rgb(47, 79, 79),
	"darkturquoise":        rgb(0, 206, 209),
	"darkviolet":           rgb(148, 0, 211),
	"deeppink":             rgb(255, 20, 147),
	"deepskyblue":          rgb(0, 191, 255),
	"dimgray":              rgb(105, 105, 105),
	"dodgerblue":           rgb(30, 144, 255),
	"firebrick":            rgb(178, 34, 34),
	"floralwhite":          rgb(255, 250, 240),
	"forestgreen":          rgb(34, 139, 34),
	"gainsboro":            rgb(220, 220, 220),
	"ghostwhite":           rgb(248, 248, 255),
	"goldenrod":            rgb(218, 165, 32),
	"greenyellow":          rgb(173, 255, 47),
	"honeydew":             rgb(240, 255, 240),
	"hotpink":              rgb(255, 105, 180),
	"indianred":            rgb(205, 92, 92),
	"ivory":                rgb(255, 255, 240),
	"lavender":             rgb(230, 230, 250),
	"lavenderblush":        rgb(255, 240, 245),
	"lawngreen":            rgb(124, 252, 0),
	"lemonchiffon":         rgb(255, 250, 205),
	"lightcoral":           rgb(240, 128, 128),
	"lightcyan":            rgb(224, 255, 255),
	"lightsalmon":          rgb(255, 160, 122),
	"lightseagreen":        rgb(32, 178, 170),
	"lightskyblue":         rgb(135, 206, 250),
	"lightslategray":       rgb(119, 136, 153),
	"lightsteelblue":       rgb(176, 196, 222),
	"limegreen":            rgb(50, 205, 50),
	"linen":                rgb(250, 240, 230),
	"mediumaquamarine":     rgb(102, 205, 170),
	"mediumblue":           rgb(0, 0, 205),
	"mediumorchid":         rgb(186, 85, 211),
	"mediumpurple":         rgb(147, 112, 219),
	"mediumseagreen":       rgb(60, 179, 113),
	"mediumslateblue":      rgb(123, 104, 238),
	"mediumspringgreen":    rgb(0, 250, 154),
	"mediumturquoise":      rgb(72, 209, 204),
	"mediumvioletred":      rgb(199, 21, 133),
	"mintcream":            rgb(245, 255, 250),
	"mistyrose":            rgb(255, 228, 225),
	"moccasin":             rgb(255, 228, 181),
	"navajowhite":          rgb(255, 222, 173),
	"oldlace":              rgb(253, 245, 230),
	"olivedrab":            rgb(107, 142, 35),
	"orangered":            rgb(255, 69, 0),
	"palegoldenrod":        rgb(238, 232, 170),
	"palegreen":            rgb(152, 251, 152),
	"paleturquoise":        rgb(175, 238, 238),
	"palevioletred":        rgb(219, 112, 147),
	"papayawhip":           rgb(255, 239, 213),
	"peachpuff":            rgb(255, 218, 185),
	"peru":                 rgb(205, 133, 63),
	"powderblue":           rgb(176, 224, 230),
	"rosybrown":            rgb(188, 143, 143),
	"saddlebrown":          rgb(139, 69, 19),
	"sandybrown":           rgb(244, 164, 96),
	"seagreen":             rgb(46, 139, 87),
	"seashell":             rgb(255, 245, 238),
	"sienna":               rgb(160, 82, 45),
	"snow":                 rgb(255, 250, 250),
	"springgreen":          rgb(0, 255, 127),
	"thistle":              rgb(216, 191, 216),
	"wheat":                rgb(245, 222, 179),
	"whitesmoke":           rgb(245, 245, 245),
	"yellowgreen":          rgb(154, 205, 50),
	"slateblue":            rgb(106, 90, 205),
	"lightgoldenrodyellow": rgb(250, 250, 210),
	"darkslategrey":        rgb(47, 79, 79),
	"dimgrey":              rgb(105, 105, 105),
	"lightslategrey":       rgb(119, 136, 153),
}

// ParseColor parses a CSS color: #RRGGBB hex (and its #RGB shorthand),
// rgb()/rgba() with comma-separated, whitespace-tolerant integer or
// percent components (opacity defaults to 255), or a name resolved via
// namer (spec §4.5 "Color parsing"). "transparent" is recognized but
// reported as not a color (ok=false), matching the teacher's treatment of it as "no color".
func ParseColor(s string, namer ColorNamer) (Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, false
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColorCSS(s)
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb(") || strings.HasPrefix(lower, "rgba(") {
		return parseRGBFunc(s)
	}
	if lower == "transparent" {
		return Color{}, false
	}
	if namer == nil {
		namer = DefaultColorNamer
	}
	if c, ok := namer.ByName(lower); ok {
		return c, true
	}
	return Color{}, false
}

func parseHexColorCSS(s string) (Color, bool) {
	hex := strings.TrimPrefix(s, "#")
	expand := func(h string) (string, bool) {
		switch len(h) {
		case 3:
			return string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}), true
		case 6, 8:
			return h[:6], true
		default:
			return "", false
		}
	}
	h6, ok := expand(hex)
	if !ok {
		return Color{}, false
	}
	r, errR := strconv.ParseUint(h6[0:2], 16, 8)
	g, errG := strconv.ParseUint(h6[2:4], 16, 8)
	b, errB := strconv.ParseUint(h6[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return Color{}, false
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF, Valid: true}, true
}

func parseRGBFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	closeIdx := strings.LastIndexByte(s, ')')
	if open < 0 || closeIdx <= open+1 {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:closeIdx], ",")
	if len(parts) < 3 {
		return Color{}, false
	}
	comp := func(v string) uint8 {
		v = strings.TrimSpace(v)
		if strings.HasSuffix(v, "%") {
			n, err := strconv.Atoi(strings.TrimSuffix(v, "%"))
			if err != nil {
				return 0
			}
			n = clampInt(n, 0, 100)
			return uint8(n * 255 / 100)
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return uint8(clampInt(n, 0, 255))
	}
	alpha := uint8(255)
	if len(parts) >= 4 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err == nil {
			alpha = uint8(clampInt(int(f*255+0.5), 0, 255))
		}
	}
	return Color{R: comp(parts[0]), G: comp(parts[1]), B: comp(parts[2]), A: alpha, Valid: true}, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
