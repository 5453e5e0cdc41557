package render

import (
	"strings"
	"testing"
)

func TestRender_InternalLinksRewritten(t *testing.T) {
	r := New()
	res, err := r.Render("---\ntitle: T\n---\nSee [intro](/content/guide/intro.zh.md) and [faq](#doc-faq).")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		`href="#doc-guide-intro"`,
		`data-doc-id="guide-intro"`,
		`href="#doc-faq"`,
		`data-doc-id="faq"`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("html missing %s: %s", want, res.HTML)
		}
	}
	if strings.Contains(res.HTML, "title: T") {
		t.Errorf("attribute block leaked into html: %s", res.HTML)
	}
}

func TestRender_ExternalLinks(t *testing.T) {
	res, err := New().Render("[site](https://example.com) [mail](mailto:me@example.com) [top](#top)")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(res.HTML, `target="_blank"`) || !strings.Contains(res.HTML, `rel="noopener noreferrer"`) {
		t.Errorf("external link not decorated: %s", res.HTML)
	}
	if strings.Count(res.HTML, `target="_blank"`) != 1 {
		t.Errorf("only http(s) links open a new tab: %s", res.HTML)
	}
	if strings.Contains(res.HTML, "data-doc-id") {
		t.Errorf("unexpected internal link: %s", res.HTML)
	}
}

func TestRender_RawHTMLSuppressed(t *testing.T) {
	res, err := New().Render("<script>alert(1)</script>\n\ntext")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(res.HTML, "<script>") {
		t.Errorf("raw html passed through: %s", res.HTML)
	}
}

func TestRender_Headings(t *testing.T) {
	res, err := New().Render("# Title\n\ntext\n\n## Second Part\n\n```\n# not a heading\n```\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(res.Headings) != 2 {
		t.Fatalf("headings = %+v", res.Headings)
	}
	if h := res.Headings[1]; h.Level != 2 || h.Text != "Second Part" || h.ID != "second-part" {
		t.Errorf("heading = %+v", h)
	}
	if !strings.Contains(res.HTML, `id="title"`) {
		t.Errorf("heading id missing: %s", res.HTML)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"short text", 1},
		{strings.Repeat("word ", 450), 2},
		{strings.Repeat("字", 800), 3},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.text); got != tt.want {
			t.Errorf("ReadingTime(len %d) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}
