package htmlscan

import "unicode"

// ParseTagContent implements the tag-content attribute sub-machine of
// spec §4.2. buf is the whole input; start points just past the "<" (and
// past a leading "/" for a closing token, which the caller has already
// consumed into node.Flags). It scans the tag name and attributes,
// stopping at the first unquoted '>' (or end of input), and returns the
// index of that terminator.
func ParseTagContent(buf []byte, start int, table TagTable) (node *TagNode, end int) {
	node = &TagNode{ID: -1}
	n := len(buf)
	i := start

	name, i, emptyTag := scanTagName(buf, i)
	if len(name) == 0 {
		node.Flags |= TagBroken
	} else {
		decodedLen := DecodeEntitiesInPlace(name)
		name = toLowerASCIIUTF8(name[:decodedLen])
		node.Name = string(name)
		if table == nil {
			table = DefaultTagTable
		}
		if info, ok := table.ByName(name); ok {
			node.ID = info.ID
			node.Flags |= info.Flags
		} else {
			node.ID = -1
		}
	}
	if emptyTag {
		node.Flags |= TagClosed
	}

	for i < n {
		// Skip inter-attribute whitespace.
		for i < n && isASCIISpace(buf[i]) {
			i++
		}
		if i >= n {
			break
		}
		switch buf[i] {
		case '>':
			return node, i
		case '/':
			node.Flags |= TagClosed
			i++
			continue
		}

		attrStart := i
		for i < n && isAttrNameByte(buf[i]) {
			i++
		}
		if i == attrStart {
			// Unrecognized punctuation where an attribute name was
			// expected: bail into ignore_bad_tag recovery.
			node.Flags |= TagBroken | TagBadElementsHint
			for i < n && buf[i] != '>' {
				i++
			}
			return node, i
		}
		rawName := buf[attrStart:i]
		decodedLen := DecodeEntitiesInPlace(rawName)
		kind, recognized := lookupComponent(rawName[:decodedLen])
		if !recognized && node.Name == "meta" {
			// <meta> has no other use for the name/alt slots; its
			// http-equiv and content attributes are stored there for
			// specializeMetaRefresh.
			switch string(toLowerASCIIUTF8(rawName[:decodedLen])) {
			case "http-equiv":
				kind, recognized = ComponentName, true
			case "content":
				kind, recognized = ComponentAlt, true
			}
		}

		// spaces_before_eq / parse_equal / value dispatch.
		preSpace := i
		for i < n && isASCIISpace(buf[i]) {
			i++
		}
		sawSpace := i > preSpace
		if i >= n {
			break
		}
		switch {
		case (buf[i] == '"' || buf[i] == '\'') && !sawSpace:
			// A quote immediately after the name with no intervening
			// whitespace and no '=' (e.g. `width"100"`): spec §4.2's
			// "'\"' immediately after a name" recovery — the name stands
			// as scanned, and the quoted value is parsed directly as if
			// '=' had been there.
			quote := buf[i]
			i++
			valStart := i
			for i < n && buf[i] != quote {
				i++
			}
			val := buf[valStart:i]
			if i < n {
				i++ // consume closing quote
			}
			storeComponent(node, kind, recognized, val)
		case buf[i] == '=':
			i++
			for i < n && isASCIISpace(buf[i]) {
				i++
			}
			if i >= n {
				break
			}
			switch buf[i] {
			case '"':
				i++
				valStart := i
				for i < n && buf[i] != '"' {
					i++
				}
				val := buf[valStart:i]
				if i < n {
					i++ // consume closing quote
				}
				storeComponent(node, kind, recognized, val)
			case '\'':
				i++
				valStart := i
				for i < n && buf[i] != '\'' {
					i++
				}
				val := buf[valStart:i]
				if i < n {
					i++
				}
				storeComponent(node, kind, recognized, val)
			case '>':
				storeComponent(node, kind, recognized, nil)
			default:
				valStart := i
				for i < n && !isASCIISpace(buf[i]) && buf[i] != '>' && buf[i] != '"' {
					i++
				}
				val := buf[valStart:i]
				if i < n && buf[i] == '/' && i+1 < n && buf[i+1] == '>' {
					node.Flags |= TagClosed
				}
				storeComponent(node, kind, recognized, val)
			}
		case buf[i] == '"' || buf[i] == '\'':
			// spaces_before_eq observing a quote after real whitespace
			// was skipped: malformed attribute with no '=' — mark broken
			// and recover by ignoring to the next '>' (spec §4.2).
			node.Flags |= TagBroken | TagBadElementsHint
			for i < n && buf[i] != '>' {
				i++
			}
			return node, i
		default:
			// Attribute with no value (e.g. "disabled"); nothing to
			// store (design note: the spaces_before_eq '>' case
			// silently stores nothing, preserved as-is).
		}
	}
	return node, i
}

// TagBadElementsHint is an internal-only TagFlags bit (not part of the
// public static/dynamic set) used by ParseTagContent to tell the tree
// builder "also raise FlagBadElements on the document", since the
// per-tag parser has no direct handle to ContentDescriptor.
const TagBadElementsHint TagFlags = 1 << 30

func storeComponent(node *TagNode, kind ComponentKind, recognized bool, raw []byte) {
	if !recognized {
		return
	}
	value := ""
	if len(raw) > 0 {
		decodedLen := DecodeEntitiesInPlace(raw)
		value = string(raw[:decodedLen])
	}
	node.Parameters.SetIfAbsent(kind, value)
}

// scanTagName reads the tag name starting at i: leading whitespace is
// skipped and the next byte starts the name, terminated by whitespace,
// '/', or '>'. The first name byte is not required to be a letter. A '/'
// before the first name byte (e.g. "< /x>") is skipped and marks the token
// empty/self-closing — emptyTag reports that.
func scanTagName(buf []byte, i int) (name []byte, next int, emptyTag bool) {
	n := len(buf)
	for i < n && isASCIISpace(buf[i]) {
		i++
	}
	start := i
	for i < n {
		c := buf[i]
		if isASCIISpace(c) || c == '>' {
			break
		}
		if c == '/' {
			if i == start {
				emptyTag = true
				i++
				start = i
				continue
			}
			break
		}
		i++
	}
	return buf[start:i], i, emptyTag
}

func isAttrNameByte(c byte) bool {
	if isASCIISpace(c) || c == '=' || c == '>' || c == '"' || c == '\'' {
		return false
	}
	return true
}

func toLowerASCIIUTF8(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + 32
		}
	}
	// UTF-8 aware: for any non-ASCII rune sequence, fall back to
	// unicode.ToLower on the decoded string to lowercase multi-byte
	// letters too (tag names are overwhelmingly ASCII, but the
	// entity-decoded name could contain e.g. a full-width letter).
	hasHighBit := false
	for _, c := range out {
		if c >= 0x80 {
			hasHighBit = true
			break
		}
	}
	if !hasHighBit {
		return out
	}
	return []byte(lowerRunes(string(out)))
}

func lowerRunes(s string) string {
	r := []rune(s)
	for i, c := range r {
		r[i] = unicode.ToLower(c)
	}
	return string(r)
}
