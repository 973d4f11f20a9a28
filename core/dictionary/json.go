package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
)

// ParseJSON decodes a dictionary from one of the accepted JSON shapes:
//
//	["一二三", "四五"]              array of strings, ranks start at 1
//	[["一","二"], ["四","五"]]      array of string arrays, ranks start at 1
//	{"3": "一二三", "4": "四五"}    object keyed by rank
//
// For the object form the offset is the smallest key and missing ranks
// become empty groups.
func ParseJSON(name string, data []byte) (*Dictionary, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.NewDictionaryFormat(name, -1, "empty input")
	}

	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, &errors.DictionaryFormatError{Source: name, Group: -1, Message: "invalid JSON array", Err: err}
		}
		d := &Dictionary{Name: name, Offset: 1, Groups: make([]string, len(raw))}
		for i, r := range raw {
			g, err := decodeGroup(r)
			if err != nil {
				return nil, errors.NewDictionaryFormat(name, i, err.Error())
			}
			d.Groups[i] = g
		}
		return d, d.Validate()

	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, &errors.DictionaryFormatError{Source: name, Group: -1, Message: "invalid JSON object", Err: err}
		}
		return fromRankMap(name, raw)
	}

	return nil, errors.NewDictionaryFormat(name, -1, "not a sequence of character groups")
}

func fromRankMap(name string, raw map[string]json.RawMessage) (*Dictionary, error) {
	if len(raw) == 0 {
		return &Dictionary{Name: name, Offset: 1}, nil
	}

	byRank := make(map[int]string, len(raw))
	for key, val := range raw {
		rank, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || rank < 0 {
			return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("key %q is not a rank", key))
		}
		if _, dup := byRank[rank]; dup {
			return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("rank %d listed twice", rank))
		}
		g, err := decodeGroup(val)
		if err != nil {
			return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("rank %d: %v", rank, err))
		}
		byRank[rank] = g
	}
	return fromRanks(name, byRank)
}

// decodeGroup accepts a string or an array of strings.
func decodeGroup(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.Join(parts, ""), nil
	}
	return "", fmt.Errorf("group is neither a string nor a list of strings")
}

// MarshalJSON encodes d as an array of strings when its ranks start at 1
// and as a rank-keyed object otherwise, so ParseJSON restores the offset.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	if d.Offset == 1 {
		groups := d.Groups
		if groups == nil {
			groups = []string{}
		}
		return json.Marshal(groups)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range d.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(strconv.Itoa(i + d.Offset))
		val, err := json.Marshal(g)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the indented JSON form of d, the format handed to users
// for manual editing.
func (d *Dictionary) JSON() ([]byte, error) {
	compact, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
