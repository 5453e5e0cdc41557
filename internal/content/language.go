// Package content reads the content tree into raw documents: it applies the
// language filter, skips excluded folders and collects per-folder settings.
package content

import (
	"regexp"
)

var langSuffixRe = regexp.MustCompile(`\.(zh|en)\.md$`)

// Language returns the language suffix of a Markdown path ("zh" for
// "about.zh.md"), or "" when the file has none.
func Language(path string) string {
	m := langSuffixRe.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[1]
}

// BasePath strips the language suffix and the .md extension.
func BasePath(path string) string {
	if langSuffixRe.MatchString(path) {
		return langSuffixRe.ReplaceAllString(path, "")
	}
	return path[:len(path)-len(".md")]
}

// FilterByLanguage keeps one variant per logical document. For each base
// path it prefers the current language, then the unsuffixed file, then the
// fallback language, then whatever came first. Groups keep the order in
// which their first variant appeared. Every path must end in ".md".
func FilterByLanguage(paths []string, current, fallback string) []string {
	groups := make(map[string][]string)
	var order []string
	for _, p := range paths {
		base := BasePath(p)
		if _, ok := groups[base]; !ok {
			order = append(order, base)
		}
		groups[base] = append(groups[base], p)
	}

	out := make([]string, 0, len(order))
	for _, base := range order {
		out = append(out, pick(groups[base], current, fallback))
	}
	return out
}

func pick(variants []string, current, fallback string) string {
	for _, want := range []string{current, ""} {
		for _, v := range variants {
			if Language(v) == want {
				return v
			}
		}
	}
	if current != fallback {
		for _, v := range variants {
			if Language(v) == fallback {
				return v
			}
		}
	}
	return variants[0]
}
