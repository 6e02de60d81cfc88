package htmlscan

// TreeBuilder maintains the rooted tag tree with balance recovery (spec
// §4.3). It owns the notion of "current level" — the innermost still-open
// block tag — and decides, for every accepted token, whether the scanner
// should now treat following content as ignored.
type TreeBuilder struct {
	doc           *ContentDescriptor
	current       *TagNode
	insertedCount int
}

// NewTreeBuilder returns a builder rooted at doc.Root.
func NewTreeBuilder(doc *ContentDescriptor) *TreeBuilder {
	return &TreeBuilder{doc: doc, current: doc.Root}
}

// Current returns the innermost open tag (the anonymous root if nothing
// is open).
func (tb *TreeBuilder) Current() *TagNode { return tb.current }

// Accept commits a freshly-parsed tag token to the tree. It returns
// whether content following it should be ignored by the scanner (spec
// §4.1 tag_end / §4.3), plus the tag node that was closed by this token,
// if any: for a closing token that matched an ancestor, that ancestor;
// for a token that self-closed (<x/>), the token itself; nil otherwise.
// The caller uses closed to run close-time specialization (anchor
// phishing check, style-stack pop).
func (tb *TreeBuilder) Accept(node *TagNode) (ignoreContent bool, closed *TagNode) {
	tb.doc.TagCount++

	if node.Flags&TagBadElementsHint != 0 {
		tb.doc.Flags |= FlagBadElements
		node.Flags &^= TagBadElementsHint
	}
	if node.Flags.Has(TagBroken) {
		tb.doc.Flags |= FlagBadElements
	}

	if node.ID < 0 {
		tb.doc.Flags |= FlagUnknownElements
		// Unknown tag: counted toward total but never inserted; content
		// after it is emitted normally (whatever the current level's
		// ignore state already is).
		return tb.current.Flags.Has(TagIgnore), nil
	}

	tb.doc.TagsSeen.Set(node.ID)
	if node.Flags.Has(TagUnique) {
		if tb.doc.uniqueSeen[node.ID] {
			tb.doc.Flags |= FlagDuplicateElements
		}
		tb.doc.uniqueSeen[node.ID] = true
	}

	if tb.insertedCount >= MaxTags {
		tb.doc.Flags |= FlagTooManyTags
		return tb.current.Flags.Has(TagIgnore), nil
	}

	if node.Flags.Has(TagClosing) {
		ignore, closedAnc := tb.handleClosing(node)
		return ignore, closedAnc
	}
	var ignore bool
	if node.Flags.Has(TagInline) || node.Flags.Has(TagEmpty) {
		ignore = tb.handleLeaf(node)
	} else {
		ignore = tb.handleBlock(node)
	}
	if node.Flags.Has(TagClosed) {
		closed = node
	}
	return ignore, closed
}

// handleLeaf attaches an empty/inline tag to the current level. It
// inherits IGNORE from the parent; if the parent is HEAD, unknown, or
// already IGNORE, the leaf is marked IGNORE too (spec §4.3 "Empty/inline
// tag").
func (tb *TreeBuilder) handleLeaf(node *TagNode) bool {
	if tb.current.Flags.Has(TagIgnore) || tb.current.Flags.Has(TagHead) || (tb.current != tb.doc.Root && tb.current.ID < 0) {
		node.Flags |= TagIgnore
	}
	node.Parent = tb.current
	tb.current.Children = append(tb.current.Children, node)
	tb.insertedCount++
	return tb.current.Flags.Has(TagIgnore)
}

// handleBlock commits a non-closing block tag: either a leaf (if
// self-closed) or the new current level. It detects the "reopen" case
// (parent id equals child id, e.g. <a>...<a>) and reparents to the
// grandparent, flagging UNBALANCED (spec §4.3 "Block tag").
func (tb *TreeBuilder) handleBlock(node *TagNode) bool {
	if tb.current.Flags.Has(TagIgnore) {
		node.Flags |= TagIgnore
	}

	if tb.current != tb.doc.Root && tb.current.ID == node.ID {
		tb.doc.Flags |= FlagUnbalanced
		grandparent := tb.current.Parent
		if grandparent == nil {
			grandparent = tb.doc.Root
		}
		node.Parent = grandparent
		grandparent.Children = append(grandparent.Children, node)
		tb.insertedCount++
		tb.current = node
	} else {
		node.Parent = tb.current
		tb.current.Children = append(tb.current.Children, node)
		tb.insertedCount++
		if !node.Flags.Has(TagClosed) {
			tb.current = node
		}
	}

	if tb.current == node && (node.Flags.Has(TagHead) || node.Flags.Has(TagIgnore)) {
		node.Flags |= TagIgnore
	}
	return tb.current.Flags.Has(TagIgnore)
}

// handleClosing implements the balance check: walk ancestors from the
// current level until one with the same id is found, mark it CLOSED, and
// make its parent the new current level. No match sets UNBALANCED and
// leaves the current level untouched. The closing token itself is never
// inserted into the tree.
func (tb *TreeBuilder) handleClosing(node *TagNode) (bool, *TagNode) {
	for anc := tb.current; anc != nil && anc != tb.doc.Root; anc = anc.Parent {
		if anc.ID == node.ID {
			anc.Flags |= TagClosed
			if anc.Parent != nil {
				tb.current = anc.Parent
			} else {
				tb.current = tb.doc.Root
			}
			return tb.current.Flags.Has(TagIgnore), anc
		}
	}
	tb.doc.Flags |= FlagUnbalanced
	return tb.current.Flags.Has(TagIgnore), nil
}
