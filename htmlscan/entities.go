package htmlscan

import "golang.org/x/net/html"

// DecodeEntitiesInPlace implements the "decode(buf) -> len" external
// collaborator of spec §1(b)/§6: it decodes HTML entities in buf and
// returns the new, possibly shorter, length. It never grows the buffer,
// matching the in-place contract the scanner and tag-content parser rely
// on (spec §4.1, design notes "in-place entity decoding").
//
// There is no stdlib or x/net API that decodes entities directly into an
// existing []byte, so this wraps golang.org/x/net/html.UnescapeString (the
// teacher's own entity decoder, via golang.org/x/net/html) and copies the
// result back over buf.
func DecodeEntitiesInPlace(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	decoded := html.UnescapeString(string(buf))
	n := copy(buf, decoded)
	return n
}

// needsDecode reports whether buf contains a byte that could start an
// entity reference, letting callers skip the decode round-trip for the
// common case of entity-free content.
func needsDecode(buf []byte) bool {
	for _, b := range buf {
		if b == '&' {
			return true
		}
	}
	return false
}
