package parser

import (
	"path"
	"regexp"
	"strings"
)

const (
	contentPrefix = "/content/"
	docAnchor     = "#doc-"
)

var (
	// Inline Markdown links and HTML href attributes, in document order.
	linkRe   = regexp.MustCompile(`\[[^\]]*\]\(\s*<?([^)\s>]+)>?[^)]*\)|href\s*=\s*["']([^"']*)["']`)
	schemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
	langRe   = regexp.MustCompile(`\.(zh|en)$`)
)

// DeriveID turns a content path into a flat document identifier:
// "/content/guide/intro.zh.md" becomes "guide-intro".
func DeriveID(p string) string {
	id := strings.TrimPrefix(p, contentPrefix)
	id = strings.TrimSuffix(id, ".md")
	id = langRe.ReplaceAllString(id, "")
	return strings.ReplaceAll(id, "/", "-")
}

// Stem returns the file name of p without its .md and language suffixes.
func Stem(p string) string {
	base := strings.TrimSuffix(path.Base(p), ".md")
	return langRe.ReplaceAllString(base, "")
}

// ExtractLinks scans rawText for references to other documents and returns
// their ids, deduplicated, in order of first appearance. It is a plain text
// scan and works on unrendered source.
func ExtractLinks(rawText string) []string {
	matches := linkRe.FindAllStringSubmatch(rawText, -1)
	seen := make(map[string]struct{}, len(matches))
	out := []string{}
	for _, m := range matches {
		target := m[1]
		if target == "" {
			target = m[2]
		}
		id, ok := ReferenceID(target)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ReferenceID classifies a link target. Internal content paths ending in .md
// and "#doc-<id>" anchors resolve to a document id; anything else, including
// absolute URLs, mailto: and plain anchors, reports false.
func ReferenceID(target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}

	if strings.HasPrefix(target, docAnchor) {
		id := target[len(docAnchor):]
		if i := strings.IndexAny(id, "?#"); i >= 0 {
			id = id[:i]
		}
		id = strings.TrimSpace(id)
		return id, id != ""
	}
	if target[0] == '#' || strings.HasPrefix(target, "//") || schemeRe.MatchString(target) {
		return "", false
	}

	p := target
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	for strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		p = p[strings.IndexByte(p, '/')+1:]
	}
	if !strings.HasPrefix(p, contentPrefix) {
		p = strings.TrimLeft(p, "/")
	}
	if !strings.HasSuffix(p, ".md") {
		return "", false
	}

	id := DeriveID(p)
	if id == "" {
		return "", false
	}
	return id, true
}
