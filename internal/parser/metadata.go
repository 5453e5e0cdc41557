// Package parser extracts the leading attribute block, document identifiers,
// and cross-document references from raw Markdown text.
package parser

import (
	"math"
	"strings"

	"github.com/wsqstar/ppage/internal/models"
)

const blockDelim = "---"

// ExtractMetadata parses the key-value block at the very start of rawText.
// Malformed or missing blocks yield the all-default record; it never fails.
func ExtractMetadata(rawText string) models.Attributes {
	attrs := models.Attributes{
		Tags:        []string{},
		Links:       []string{},
		RelatedDocs: []string{},
	}

	block, ok := Block(rawText)
	if !ok {
		return attrs
	}

	for _, line := range strings.Split(block, "\n") {
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "title":
			attrs.Title = unquote(value)
		case "order":
			if n, ok := ParseInt(value); ok {
				attrs.Order = &n
			}
		case "parent":
			attrs.Parent = unquote(value)
		case "collection":
			attrs.Collection = unquote(value)
		case "date":
			attrs.Date = unquote(value)
		case "author":
			attrs.Author = unquote(value)
		case "category":
			attrs.Category = unquote(value)
		case "id":
			attrs.ID = unquote(value)
		case "pinned":
			attrs.Pinned = value == "true"
		case "sticky":
			attrs.Sticky = value == "true"
		case "priority":
			if n, ok := ParseInt(value); ok {
				attrs.Priority = n
			}
		case "tags":
			attrs.Tags = parseList(value)
		case "links":
			attrs.Links = parseList(value)
		case "relatedDocs":
			attrs.RelatedDocs = parseList(value)
		}
	}

	return attrs
}

// Body returns rawText without its leading attribute block.
func Body(rawText string) string {
	if !strings.HasPrefix(rawText, blockDelim) {
		return rawText
	}
	_, rest, ok := cutBlock(rawText)
	if !ok {
		return rawText
	}
	return strings.TrimLeft(rest, "\r\n")
}

// HeadingTitle returns the text of the first level-one heading, or "".
func HeadingTitle(rawText string) string {
	for _, line := range strings.Split(Body(rawText), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// Block returns the text between the leading "---" markers, reporting
// whether rawText starts with a complete block.
func Block(rawText string) (string, bool) {
	if !strings.HasPrefix(rawText, blockDelim) {
		return "", false
	}
	block, _, ok := cutBlock(rawText)
	return block, ok
}

// cutBlock splits "---\n<block>\n---<rest>" into block and rest. The opening
// marker may be followed by trailing whitespace before its newline.
func cutBlock(rawText string) (block, rest string, ok bool) {
	after := rawText[len(blockDelim):]
	nl := strings.IndexByte(after, '\n')
	if nl < 0 || strings.TrimSpace(after[:nl]) != "" {
		return "", "", false
	}
	body := after[nl+1:]
	if strings.HasPrefix(body, blockDelim) {
		return "", body[len(blockDelim):], true
	}
	end := strings.Index(body, "\n"+blockDelim)
	if end < 0 {
		return "", "", false
	}
	return body[:end], body[end+1+len(blockDelim):], true
}

// unquote strips at most one leading and one trailing quote character.
func unquote(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return s
}

// parseList reads the inline "[a, b, c]" form. Without a bracketed span the
// result is empty.
func parseList(value string) []string {
	out := []string{}
	open := strings.IndexByte(value, '[')
	if open < 0 {
		return out
	}
	closing := strings.LastIndexByte(value, ']')
	if closing < open {
		return out
	}
	for _, item := range strings.Split(value[open+1:closing], ",") {
		item = unquote(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseInt reads a leading, optionally signed run of decimal digits after
// optional whitespace, ignoring anything that follows. Runs too large for an
// int saturate at math.MaxInt or math.MinInt.
func ParseInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits, over := 0, 0, false
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		d := int(s[digits] - '0')
		if !over && n > (math.MaxInt-d)/10 {
			over = true
		}
		if !over {
			n = n*10 + d
		}
		digits++
	}
	switch {
	case digits == 0:
		return 0, false
	case over && neg:
		return math.MinInt, true
	case over:
		return math.MaxInt, true
	case neg:
		return -n, true
	}
	return n, true
}

// Fields splits an attribute block into key/value pairs, one per line. The
// value is everything after the first colon, trimmed, with one surrounding
// quote stripped. A repeated key keeps its last value.
func Fields(block string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		key, value, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = unquote(strings.TrimSpace(value))
	}
	return out
}
