// Package encoding provides the escaping used when annotated text is
// embedded in HTML or XML output.
package encoding

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")
)

// EscapeXMLText escapes the entities that matter inside a text node.
// Quotes are left alone so serialized documents stay close to the input.
func EscapeXMLText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeXMLAttr escapes text for use in double-quoted attributes.
func EscapeXMLAttr(s string) string {
	return attrEscaper.Replace(s)
}

// EscapeHTML escapes & < > and " for HTML content. Run text is escaped
// this way before it is wrapped in span markers.
func EscapeHTML(s string) string {
	return attrEscaper.Replace(s)
}
