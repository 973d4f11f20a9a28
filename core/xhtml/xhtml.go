// Package xhtml highlights kanji inside XHTML and XML documents.
//
// Security Notes:
//   - Parsing goes through xmlquery, which uses encoding/xml and never
//     fetches external entities.
//   - Text is re-escaped on output; markup found in text nodes is never
//     interpreted.
package xhtml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/encoding"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
)

// Segmenter splits text into category runs. *highlight.Annotator
// implements it.
type Segmenter interface {
	Runs(text string) []markup.Run
}

// SkipElements lists elements whose text is never highlighted.
var SkipElements = []string{"script", "style", "textarea", "noscript"}

var bodyExpr = xpath.MustCompile("//*[local-name()='body']")

// Document is a parsed XHTML or XML document.
type Document struct {
	root   *xmlquery.Node
	prefix string
}

// Result summarises a highlighting pass.
type Result struct {
	TextNodes int `json:"text_nodes"`
	Changed   int `json:"changed"`
	Spans     int `json:"spans"`
}

// Parse parses data. prefix is the class prefix of highlight spans; an
// empty prefix uses markup.DefaultPrefix.
func Parse(data []byte, prefix string) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XHTML: %w", err)
	}
	if prefix == "" {
		prefix = markup.DefaultPrefix
	}
	return &Document{root: root, prefix: prefix}, nil
}

// Serialize converts the document back to bytes. Whitespace in text
// nodes is written as parsed.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer
	writeNode(&buf, d.root)
	return buf.Bytes()
}

// Body returns the body element, or the document node when there is none.
func (d *Document) Body() *xmlquery.Node {
	if body := xmlquery.QuerySelector(d.root, bodyExpr); body != nil {
		return body
	}
	return d.root
}

// Highlight replaces every text node below Body with text and span nodes,
// leaving nodes untouched when no character is classified. Text inside
// SkipElements and inside existing highlight spans is not visited, so
// highlighting twice is the same as highlighting once.
func (d *Document) Highlight(s Segmenter) Result {
	var res Result
	for _, n := range d.textNodes(d.Body()) {
		res.TextNodes++
		runs := s.Runs(n.Data)
		spans := 0
		for _, r := range runs {
			if r.Category != classify.None {
				spans++
			}
		}
		if spans == 0 {
			continue
		}
		res.Changed++
		res.Spans += spans
		for _, r := range runs {
			insertBefore(n, d.runNode(r))
		}
		detach(n)
	}
	return res
}

// Undo unwraps every highlight span and merges the text nodes it leaves
// behind. It returns the number of spans removed.
func (d *Document) Undo() int {
	var spans []*xmlquery.Node
	walk(d.root, func(n *xmlquery.Node) bool {
		if d.isHighlight(n) {
			spans = append(spans, n)
			return false
		}
		return true
	})

	for _, span := range spans {
		parent := span.Parent
		for c := span.FirstChild; c != nil; {
			next := c.NextSibling
			detach(c)
			insertBefore(span, c)
			c = next
		}
		detach(span)
		mergeText(parent)
	}
	return len(spans)
}

func (d *Document) textNodes(top *xmlquery.Node) []*xmlquery.Node {
	var out []*xmlquery.Node
	walk(top, func(n *xmlquery.Node) bool {
		switch n.Type {
		case xmlquery.TextNode:
			if n.Data != "" {
				out = append(out, n)
			}
		case xmlquery.ElementNode:
			return !skipped(n) && !d.isHighlight(n)
		}
		return true
	})
	return out
}

func (d *Document) isHighlight(n *xmlquery.Node) bool {
	return n.Type == xmlquery.ElementNode &&
		strings.EqualFold(n.Data, "span") &&
		strings.HasPrefix(n.SelectAttr("class"), d.prefix)
}

func (d *Document) runNode(r markup.Run) *xmlquery.Node {
	text := &xmlquery.Node{Type: xmlquery.TextNode, Data: r.Text}
	if r.Category == classify.None {
		return text
	}
	span := &xmlquery.Node{
		Type: xmlquery.ElementNode,
		Data: "span",
		Attr: []xmlquery.Attr{{
			Name:  xml.Name{Local: "class"},
			Value: d.prefix + r.Category.Tag(),
		}},
	}
	appendChild(span, text)
	return span
}

func skipped(n *xmlquery.Node) bool {
	for _, name := range SkipElements {
		if strings.EqualFold(n.Data, name) {
			return true
		}
	}
	return false
}

// walk visits n and its descendants depth first. Children of a node are
// skipped when visit returns false.
func walk(n *xmlquery.Node, visit func(*xmlquery.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func insertBefore(ref, n *xmlquery.Node) {
	n.Parent = ref.Parent
	n.PrevSibling = ref.PrevSibling
	n.NextSibling = ref
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = n
	} else if ref.Parent != nil {
		ref.Parent.FirstChild = n
	}
	ref.PrevSibling = n
}

func appendChild(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = nil
	n.PrevSibling = parent.LastChild
	if parent.LastChild != nil {
		parent.LastChild.NextSibling = n
	} else {
		parent.FirstChild = n
	}
	parent.LastChild = n
}

func detach(n *xmlquery.Node) {
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else if n.Parent != nil {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent, n.PrevSibling, n.NextSibling = nil, nil, nil
}

func mergeText(parent *xmlquery.Node) {
	if parent == nil {
		return
	}
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == xmlquery.TextNode && next != nil && next.Type == xmlquery.TextNode {
			c.Data += next.Data
			detach(next)
			continue
		}
		c = next
	}
}

// Highlight parses data, highlights it and serialises the result.
func Highlight(data []byte, s Segmenter, prefix string) ([]byte, Result, error) {
	doc, err := Parse(data, prefix)
	if err != nil {
		return nil, Result{}, err
	}
	res := doc.Highlight(s)
	return doc.Serialize(), res, nil
}

// Undo parses data, removes highlight spans and serialises the result.
func Undo(data []byte, prefix string) ([]byte, int, error) {
	doc, err := Parse(data, prefix)
	if err != nil {
		return nil, 0, err
	}
	n := doc.Undo()
	return doc.Serialize(), n, nil
}

func writeNode(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(w, c)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		writeAttrs(w, n.Attr)
		w.WriteString("?>")

	case xmlquery.ElementNode:
		w.WriteString("<")
		writeName(w, n)
		writeAttrs(w, n.Attr)
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(w, c)
		}
		w.WriteString("</")
		writeName(w, n)
		w.WriteString(">")

	case xmlquery.TextNode:
		w.WriteString(encoding.EscapeXMLText(n.Data))

	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")

	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")

	default:
		w.WriteString(n.OutputXML(true))
	}
}

func writeName(w *bytes.Buffer, n *xmlquery.Node) {
	if n.Prefix != "" {
		w.WriteString(n.Prefix)
		w.WriteString(":")
	}
	w.WriteString(n.Data)
}

func writeAttrs(w *bytes.Buffer, attrs []xmlquery.Attr) {
	for _, a := range attrs {
		w.WriteString(" ")
		if a.Name.Space != "" {
			w.WriteString(a.Name.Space)
			w.WriteString(":")
		}
		w.WriteString(a.Name.Local)
		w.WriteString(`="`)
		w.WriteString(encoding.EscapeXMLAttr(a.Value))
		w.WriteString(`"`)
	}
}
