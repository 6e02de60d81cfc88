package htmlscan

// Emitter builds the rendered-text byte buffer described in spec §4.6: it
// collapses runs of ASCII whitespace to a single space, decodes entities
// in place on already-emitted spans, and inserts "\r\n" after line-break
// tags unless the buffer already ends in '\n'.
type Emitter struct {
	buf []byte
}

// Len returns the number of bytes emitted so far.
func (e *Emitter) Len() int { return len(e.buf) }

// Bytes returns the emitted buffer. Callers must not retain it across
// further writes; Scanner.Run stores this slice (without copying) in
// ContentDescriptor.Parsed once scanning completes.
func (e *Emitter) Bytes() []byte { return e.buf }

// WriteText appends raw, entity-decoding it in place first (spec's
// "decoding happens in place on the already-emitted slice and the
// running length is adjusted"). raw must not itself contain unescaped
// whitespace runs; the scanner is responsible for splitting content on
// whitespace boundaries before calling WriteText.
func (e *Emitter) WriteText(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	start := len(e.buf)
	e.buf = append(e.buf, raw...)
	if needsDecode(raw) {
		n := DecodeEntitiesInPlace(e.buf[start:])
		e.buf = e.buf[:start+n]
	}
	return len(e.buf) - start
}

// WriteSpace appends a single collapsed space for a run of ASCII
// whitespace, unless the buffer is empty or already ends in a space or a
// line terminator (spec invariant 5: no run of two or more consecutive
// spaces outside explicit \r\n separators).
func (e *Emitter) WriteSpace() int {
	if len(e.buf) == 0 {
		return 0
	}
	last := e.buf[len(e.buf)-1]
	if last == ' ' || last == '\n' || last == '\r' {
		return 0
	}
	e.buf = append(e.buf, ' ')
	return 1
}

// WriteLineBreak appends "\r\n" unless the buffer already ends in '\n'
// (spec §4.1, §4.6).
func (e *Emitter) WriteLineBreak() int {
	if len(e.buf) > 0 && e.buf[len(e.buf)-1] == '\n' {
		return 0
	}
	e.buf = append(e.buf, '\r', '\n')
	return 2
}

// WriteAltText appends alt text padded with a space on each side (spec
// §4.4 "<img> specifics", §4.6 "Wrap alt text with surrounding spaces").
func (e *Emitter) WriteAltText(alt string) int {
	if alt == "" {
		return 0
	}
	start := len(e.buf)
	e.buf = append(e.buf, ' ')
	e.WriteText([]byte(alt))
	e.buf = append(e.buf, ' ')
	return len(e.buf) - start
}

// recordContentSpan attributes the bytes emitted between before and the
// emitter's current length to tag, implementing spec §9 open question 1:
// when the first write under a freshly-opened tag is a lone collapsed
// space, it is not attributed to the tag, so ContentOffset lands on the
// first real content and the space is not counted in ContentLength.
func recordContentSpan(tag *TagNode, emit *Emitter, before int) {
	after := emit.Len()
	if tag == nil || after <= before {
		return
	}
	if !tag.contentStarted {
		if after-before == 1 && emit.buf[before] == ' ' {
			return
		}
		tag.ContentOffset = before
		tag.contentStarted = true
	}
	tag.ContentLength += after - before
}

// PropagateContentLengths walks the tag tree post-order, summing each
// node's own ContentLength into its parent's, per spec §4.3's "post-order
// walk propagates content_length upward" and invariant 1.
func PropagateContentLengths(root *TagNode) {
	if root == nil {
		return
	}
	for _, c := range root.Children {
		PropagateContentLengths(c)
		root.ContentLength += c.ContentLength
	}
}
