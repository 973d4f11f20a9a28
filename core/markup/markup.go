// Package markup wraps maximal runs of same-category characters in
// markers. Content is never altered, only wrapped.
package markup

import (
	"strings"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/encoding"
)

// DefaultPrefix is the class prefix used for highlight spans.
const DefaultPrefix = "wk_"

// Marker renders the opening and closing text around a run.
type Marker interface {
	Open(c classify.Category) string
	Close(c classify.Category) string
}

// SpanMarker wraps runs in <span class="PREFIX+TAG"> elements.
type SpanMarker struct {
	Prefix string
}

func (m SpanMarker) prefix() string {
	if m.Prefix == "" {
		return DefaultPrefix
	}
	return m.Prefix
}

// Class returns the class name used for c.
func (m SpanMarker) Class(c classify.Category) string {
	return m.prefix() + c.Tag()
}

// Open implements Marker.
func (m SpanMarker) Open(c classify.Category) string {
	return `<span class="` + m.Class(c) + `">`
}

// Close implements Marker.
func (m SpanMarker) Close(classify.Category) string {
	return "</span>"
}

// BracketMarker wraps runs as [TAG:text]. It is meant for terminals.
type BracketMarker struct{}

// Open implements Marker.
func (BracketMarker) Open(c classify.Category) string { return "[" + c.Tag() + ":" }

// Close implements Marker.
func (BracketMarker) Close(classify.Category) string { return "]" }

// Run is a maximal stretch of characters sharing one category.
type Run struct {
	Category classify.Category `json:"category"`
	Text     string            `json:"text"`
}

// Encoder turns text into marked-up text in a single left-to-right pass.
type Encoder struct {
	Marker Marker
}

// Result is the outcome of one Encode pass.
type Result struct {
	Text    string
	Markers int
}

// Changed reports whether any marker was opened, in which case Text
// differs from the input.
func (r Result) Changed() bool { return r.Markers > 0 }

// Encode wraps every maximal run whose category is not None. Characters
// are appended unmodified, so removing the markers yields text again.
// A category change closes the open marker before the next one opens,
// which means markers never span a None character.
func (e Encoder) Encode(text string, categoryOf func(rune) classify.Category) Result {
	marker := e.Marker
	if marker == nil {
		marker = SpanMarker{}
	}

	var b strings.Builder
	b.Grow(len(text))
	open := classify.None
	opened := 0

	for _, r := range text {
		c := categoryOf(r)
		if c != open {
			if open != classify.None {
				b.WriteString(marker.Close(open))
			}
			if c != classify.None {
				b.WriteString(marker.Open(c))
				opened++
			}
			open = c
		}
		b.WriteRune(r)
	}
	if open != classify.None {
		b.WriteString(marker.Close(open))
	}

	if opened == 0 {
		return Result{Text: text}
	}
	return Result{Text: b.String(), Markers: opened}
}

// Encode wraps runs using span markers with the default prefix.
func Encode(text string, categoryOf func(rune) classify.Category) string {
	return Encoder{}.Encode(text, categoryOf).Text
}

// Segment splits text into maximal runs, including None runs, in order.
// Joining the Text of every run yields text.
func Segment(text string, categoryOf func(rune) classify.Category) []Run {
	var runs []Run
	start := 0
	cur := classify.None
	for i, r := range text {
		c := categoryOf(r)
		if i == 0 {
			cur = c
			continue
		}
		if c != cur {
			runs = append(runs, Run{Category: cur, Text: text[start:i]})
			start, cur = i, c
		}
	}
	if start < len(text) {
		runs = append(runs, Run{Category: cur, Text: text[start:]})
	}
	return runs
}

// HTML renders runs as HTML: run text is escaped and every run with a
// category other than None is wrapped by m.
func HTML(runs []Run, m SpanMarker) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Category == classify.None {
			b.WriteString(encoding.EscapeHTML(r.Text))
			continue
		}
		b.WriteString(m.Open(r.Category))
		b.WriteString(encoding.EscapeHTML(r.Text))
		b.WriteString(m.Close(r.Category))
	}
	return b.String()
}

// Strip removes span markers produced with prefix from html. An opening
// tag is only recognised when it has exactly the form SpanMarker writes,
// its class names a category and a closing tag follows it.
//
// Strip does not parse HTML. Plain text that already contains literal
// marker tags cannot be told apart from markers and loses them; use
// xhtml.Undo for documents.
func Strip(html, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	var b strings.Builder
	depth := 0
	for i := 0; i < len(html); {
		if n := markerTagLen(html[i:], prefix); n > 0 && strings.Contains(html[i+n:], "</span>") {
			i += n
			depth++
			continue
		}
		if depth > 0 && strings.HasPrefix(html[i:], "</span>") {
			i += len("</span>")
			depth--
			continue
		}
		b.WriteByte(html[i])
		i++
	}
	return b.String()
}

// markerTagLen returns the length of the marker opening tag at the start
// of s, or 0 when s does not start with one.
func markerTagLen(s, prefix string) int {
	open := `<span class="` + prefix
	if !strings.HasPrefix(s, open) {
		return 0
	}
	end := strings.Index(s[len(open):], `">`)
	if end <= 0 {
		return 0
	}
	if _, err := classify.ParseTag(s[len(open) : len(open)+end]); err != nil {
		return 0
	}
	return len(open) + end + len(`">`)
}
