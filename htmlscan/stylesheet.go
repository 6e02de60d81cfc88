package htmlscan

import (
	"log"
	"strings"

	"github.com/andybalholm/cascadia"
	cssast "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// styleRule is one selector/declaration-block pair out of a parsed <style>
// body.
type styleRule struct {
	sel   cascadia.Sel
	order int
	decls map[string]string
}

// Stylesheet is the opaque CSS handle of spec §3/§6 ("css_style: opaque
// handle returned by the external CSS parser for <style> contents"). It is
// produced by ParseStyleSheet (the external CSS subsystem, spec §6
// parse_style) and can be queried per tag via ComputeFor. The scanner
// stores it in ContentDescriptor.CSSStyle but does not consult it when
// computing Block styles: only style="" and the color/bgcolor/size
// attributes affect a Block.
type Stylesheet struct {
	rules []styleRule
}

// ParseStyleSheet parses the body of a <style> element using
// douceur/parser (grammar) and cascadia (selector compilation), matching
// the teacher's css_engine.go Stylesheet construction. Parse failures are
// logged and swallowed per spec §7 ("CSS-parse failures are logged and
// swallowed"); a partially-recovered stylesheet is still returned when
// douceur manages to produce one.
func ParseStyleSheet(css string) *Stylesheet {
	sheet, err := parser.Parse(css)
	if err != nil && sheet == nil {
		log.Printf("htmlscan: error parsing <style> body: %v", err)
		return &Stylesheet{}
	}
	if err != nil {
		log.Printf("htmlscan: CSS parse recovered with errors: %v", err)
	}
	out := &Stylesheet{}
	for i, rule := range sheet.Rules {
		decls := declsToMap(rule)
		for _, selText := range splitSelectors(rule) {
			sel, err := cascadia.Parse(selText)
			if err != nil {
				continue
			}
			out.rules = append(out.rules, styleRule{sel: sel, order: i, decls: decls})
		}
	}
	return out
}

func splitSelectors(rule *cssast.Rule) []string {
	if len(rule.Selectors) > 0 {
		return rule.Selectors
	}
	return nil
}

func declsToMap(rule *cssast.Rule) map[string]string {
	m := make(map[string]string, len(rule.Declarations))
	for _, d := range rule.Declarations {
		m[strings.ToLower(d.Property)] = d.Value
	}
	return m
}

// ComputeFor returns the merged declaration set of every rule matching
// tag, in stylesheet order (later rules win on conflicting properties, a
// deliberately simplified specificity model — the analyzer only needs
// directional signal for visibility/color, not pixel-perfect CSS cascade).
func (s *Stylesheet) ComputeFor(tag *TagNode) map[string]string {
	if s == nil || len(s.rules) == 0 {
		return nil
	}
	shadow := shadowNode(tag)
	out := make(map[string]string)
	for _, r := range s.rules {
		if r.sel.Match(shadow) {
			for k, v := range r.decls {
				out[k] = v
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// shadowNode builds a minimal *html.Node ancestor chain mirroring tag's
// position in the tag tree, so cascadia's selector matcher (which expects
// golang.org/x/net/html nodes) can evaluate descendant/child/class
// selectors against it. Only Data (tag name) and a class attribute are
// populated; this is an approximation sufficient for the coarse
// visibility/color signal the style interpreter needs, not a DOM mirror.
func shadowNode(tag *TagNode) *html.Node {
	var chain []*TagNode
	for t := tag; t != nil; t = t.Parent {
		if t.Name == "" {
			continue
		}
		chain = append(chain, t)
	}
	var parent *html.Node
	var cur *html.Node
	for i := len(chain) - 1; i >= 0; i-- {
		t := chain[i]
		n := &html.Node{Type: html.ElementNode, Data: t.Name, Parent: parent}
		if cls, ok := t.Parameters.Get(ComponentClass); ok && cls != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: cls})
		}
		if parent != nil {
			parent.FirstChild = n
			parent.LastChild = n
		}
		parent = n
		cur = n
	}
	return cur
}
