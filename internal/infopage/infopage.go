// Package infopage builds detail page URLs for kanji.
package infopage

import (
	"strings"

	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/level"
)

// Placeholder is replaced by the kanji in a page template.
const Placeholder = "$K"

// Link is the detail page of one kanji.
type Link struct {
	Kanji    string `json:"kanji"`
	URL      string `json:"url"`
	Fallback bool   `json:"fallback"`
}

// Pages holds the primary template, used for kanji the dictionary ranks,
// and the fallback template used for everything else.
type Pages struct {
	Primary  string
	Fallback string
}

// URL substitutes the first placeholder in template with k.
func URL(template string, k rune) string {
	return strings.Replace(template, Placeholder, string(k), 1)
}

// Links returns one link per distinct kanji in text, in code point order.
// lookup reports the kanji's level; anything without a rank gets the
// fallback page.
func (p Pages) Links(text string, lookup func(rune) level.Level) []Link {
	var links []Link
	for _, r := range kanji.ParseSet(text).Runes() {
		_, ranked := lookup(r).Rank()
		tmpl := p.Primary
		if !ranked {
			tmpl = p.Fallback
		}
		links = append(links, Link{Kanji: string(r), URL: URL(tmpl, r), Fallback: !ranked})
	}
	return links
}
