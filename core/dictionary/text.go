package dictionary

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
)

// textGrammar is the participle grammar for the line-oriented format:
//
//	# comment
//	1: 一二九七人
//	2: 刀土千 夕子
//
// Whitespace inside a group is ignored.
//
//nolint:govet // participle grammar tags are not standard struct tags
type textGrammar struct {
	Entries []*textEntry `parser:"@@*"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type textEntry struct {
	Rank  int      `parser:"@Int \":\""`
	Chars []string `parser:"@Text*"`
}

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Text", Pattern: `[^\s:#0-9]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var textParser = participle.MustBuild[textGrammar](
	participle.Lexer(textLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseText decodes the line-oriented dictionary format. The offset is the
// smallest rank listed; missing ranks become empty groups.
func ParseText(name string, data []byte) (*Dictionary, error) {
	parsed, err := textParser.ParseBytes(name, data)
	if err != nil {
		return nil, &errors.DictionaryFormatError{Source: name, Group: -1, Message: "invalid text dictionary", Err: err}
	}
	if len(parsed.Entries) == 0 {
		return &Dictionary{Name: name, Offset: 1}, nil
	}

	byRank := make(map[int]string, len(parsed.Entries))
	for _, e := range parsed.Entries {
		if _, dup := byRank[e.Rank]; dup {
			return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("rank %d listed twice", e.Rank))
		}
		byRank[e.Rank] = strings.Join(e.Chars, "")
	}
	return fromRanks(name, byRank)
}

// Text renders d in the line-oriented format. Empty groups are omitted.
func (d *Dictionary) Text() []byte {
	var sb strings.Builder
	if d.Name != "" {
		sb.WriteString("# ")
		sb.WriteString(d.Name)
		sb.WriteByte('\n')
	}
	for i, g := range d.Groups {
		if g == "" {
			continue
		}
		sb.WriteString(strconv.Itoa(i + d.Offset))
		sb.WriteString(": ")
		sb.WriteString(g)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}
