package htmlscan

import (
	"regexp"
)

// ProcessOptions configures a Process call (spec §6 "process(arena,
// content_descriptor, input_bytes, exceptions_out?, url_set?,
// part_urls_out?, allow_css)"). The zero value runs with every external
// collaborator defaulted to this package's standalone implementation.
type ProcessOptions struct {
	// TagTable overrides DefaultTagTable.
	TagTable TagTable
	// ColorNamer overrides DefaultColorNamer.
	ColorNamer ColorNamer
	// ImageInspector overrides DefaultImageInspector.
	ImageInspector ImageInspector
	// URLSet overrides the package-default URLSet; when nil, Process
	// creates one for the duration of the call.
	URLSet URLSet
	// AllowCSS enables handing <style> bodies to the external CSS
	// parser; when false, <style> content is skipped unparsed (spec §4.5
	// path (b) is opt-in, matching the "allow_css" parameter).
	AllowCSS bool
	// FindTextURLs enables the post-pass rendered-text URL sweep (spec
	// §6 find_multiple), populating ContentDescriptor.PartURLs.
	FindTextURLs bool
}

// Process is the package's entry point (spec §6): a single streaming pass
// over input that tokenizes tags and text, builds the tag tree, extracts
// and classifies URLs and images, interprets inline/block styles, and
// emits rendered text. It never errors; diagnostics travel as
// ContentDescriptor.Flags. The returned []byte is ContentDescriptor.Parsed
// (also reachable from the descriptor, returned directly for the
// convenience of callers that only want the rendered text).
func Process(input []byte, opts *ProcessOptions) (*ContentDescriptor, []byte) {
	doc := NewContentDescriptor()
	if opts == nil {
		opts = &ProcessOptions{}
	}
	sc := NewScanner(input, doc, opts)
	sc.Run()

	if opts.FindTextURLs {
		doc.PartURLs = findTextURLs(doc.Parsed, doc)
	}

	return doc, doc.Parsed
}

// Parse is the thin wrapper of spec §6 ("a thin variant passes
// null/false for optional parameters"): default tag table, no CSS
// parsing, no text-URL sweep, a throwaway URL set.
func Parse(input []byte) (*ContentDescriptor, []byte) {
	return Process(input, &ProcessOptions{})
}

// bareURLPattern is a conservative matcher for http(s) URLs appearing in
// plain rendered text, used by findTextURLs to implement the
// find_multiple collaborator of spec §6 for href-less URLs (e.g. "visit
// http://evil.example/login to verify your account").
var bareURLPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`)

func findTextURLs(parsed []byte, doc *ContentDescriptor) []*ResolvedURL {
	matches := bareURLPattern.FindAll(parsed, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]*ResolvedURL, 0, len(matches))
	for _, m := range matches {
		u, ok := ResolveHref(m, doc, TextMode)
		if !ok {
			continue
		}
		out = append(out, u)
	}
	return out
}
