package parser

import (
	"math"
	"reflect"
	"testing"
)

func TestExtractMetadata_NoBlock(t *testing.T) {
	for _, input := range []string{
		"",
		"# Just a heading\nSome text.\n",
		"---\ntitle: never closed\n",
		"text\n---\ntitle: late\n---\n",
	} {
		attrs := ExtractMetadata(input)
		if attrs.Title != "" || attrs.Order != nil || attrs.Pinned || attrs.Priority != 0 {
			t.Errorf("%q: expected defaults, got %+v", input, attrs)
		}
		if attrs.Tags == nil || len(attrs.Tags) != 0 || len(attrs.Links) != 0 || len(attrs.RelatedDocs) != 0 {
			t.Errorf("%q: expected empty sequences, got %+v", input, attrs)
		}
	}
}

func TestExtractMetadata_AllKeys(t *testing.T) {
	input := "---\n" +
		"title: \"Hello: World\"\n" +
		"order: 3\n" +
		"parent: guide-intro\n" +
		"collection: 'guide'\n" +
		"date: 2024-05-01\n" +
		"author: Ana\n" +
		"category: notes\n" +
		"id: custom-id\n" +
		"pinned: true\n" +
		"sticky: True\n" +
		"priority: -2\n" +
		"tags: [go, \"graphs\", , 'search']\n" +
		"links: []\n" +
		"relatedDocs: [a, b]\n" +
		"unknown: ignored\n" +
		"---\n# Body\n"

	attrs := ExtractMetadata(input)
	if attrs.Title != "Hello: World" {
		t.Errorf("title = %q", attrs.Title)
	}
	if attrs.Order == nil || *attrs.Order != 3 {
		t.Errorf("order = %v, want 3", attrs.Order)
	}
	if attrs.Parent != "guide-intro" || attrs.Collection != "guide" || attrs.Date != "2024-05-01" {
		t.Errorf("scalars = %+v", attrs)
	}
	if attrs.Author != "Ana" || attrs.Category != "notes" || attrs.ID != "custom-id" {
		t.Errorf("scalars = %+v", attrs)
	}
	if !attrs.Pinned {
		t.Error("pinned should be true")
	}
	if attrs.Sticky {
		t.Error("sticky accepts only the literal true")
	}
	if attrs.Priority != -2 {
		t.Errorf("priority = %d, want -2", attrs.Priority)
	}
	if !reflect.DeepEqual(attrs.Tags, []string{"go", "graphs", "search"}) {
		t.Errorf("tags = %v", attrs.Tags)
	}
	if len(attrs.Links) != 0 {
		t.Errorf("links = %v, want empty", attrs.Links)
	}
	if !reflect.DeepEqual(attrs.RelatedDocs, []string{"a", "b"}) {
		t.Errorf("relatedDocs = %v", attrs.RelatedDocs)
	}
}

func TestExtractMetadata_Numbers(t *testing.T) {
	tests := []struct {
		value    string
		order    *int
		priority int
	}{
		{"42", intPtr(42), 42},
		{"  7abc", intPtr(7), 7},
		{"+5", intPtr(5), 5},
		{"abc", nil, 0},
		{"", nil, 0},
		{"-", nil, 0},
		{"18446744073709551617", intPtr(math.MaxInt), math.MaxInt},
		{"-99999999999999999999", intPtr(math.MinInt), math.MinInt},
		{"9223372036854775807", intPtr(math.MaxInt), math.MaxInt},
	}
	for _, tt := range tests {
		attrs := ExtractMetadata("---\norder: " + tt.value + "\npriority: " + tt.value + "\n---\n")
		if !reflect.DeepEqual(attrs.Order, tt.order) {
			t.Errorf("order(%q) = %v, want %v", tt.value, attrs.Order, tt.order)
		}
		if attrs.Priority != tt.priority {
			t.Errorf("priority(%q) = %d, want %d", tt.value, attrs.Priority, tt.priority)
		}
	}
}

func TestExtractMetadata_MalformedArrays(t *testing.T) {
	attrs := ExtractMetadata("---\ntags: go, search\nlinks: [unclosed\nrelatedDocs: ]x[\n---\n")
	if len(attrs.Tags) != 0 || len(attrs.Links) != 0 || len(attrs.RelatedDocs) != 0 {
		t.Errorf("expected empty sequences, got %+v", attrs)
	}
}

func TestBodyAndHeadingTitle(t *testing.T) {
	input := "---\ntitle: T\n---\n\n# First\n## Second\n# Third\n"
	if got := Body(input); got != "# First\n## Second\n# Third\n" {
		t.Errorf("body = %q", got)
	}
	if got := HeadingTitle(input); got != "First" {
		t.Errorf("heading = %q, want First", got)
	}
	if got := HeadingTitle("no heading\n"); got != "" {
		t.Errorf("heading = %q, want empty", got)
	}
}

func TestDeriveID(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/content/guide/intro.md", "guide-intro"},
		{"/content/guide/intro.zh.md", "guide-intro"},
		{"/content/posts/2024/hello.en.md", "posts-2024-hello"},
		{"/content/about.md", "about"},
		{"notes/a.fr.md", "notes-a.fr"},
	}
	for _, tt := range tests {
		got := DeriveID(tt.path)
		if got != tt.want {
			t.Errorf("DeriveID(%q) = %q, want %q", tt.path, got, tt.want)
		}
		if again := DeriveID(tt.path); again != got {
			t.Errorf("DeriveID(%q) not stable: %q vs %q", tt.path, got, again)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/content/posts/hello.zh.md"); got != "hello" {
		t.Errorf("stem = %q, want hello", got)
	}
}

func TestExtractLinks(t *testing.T) {
	body := `See [intro](/content/guide/intro.md) and [setup](./guide/setup.zh.md#install).
Also <a href="#doc-faq">FAQ</a>, [again](/content/guide/intro.md?x=1),
[site](https://example.com/page.md), [cdn](//cdn.example.com/a.md),
[mail](mailto:me@example.com), [top](#top), [img](pic.png), <a href='#doc-'>x</a>.`

	got := ExtractLinks(body)
	want := []string{"guide-intro", "guide-setup", "faq"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("links = %v, want %v", got, want)
	}
}

func TestExtractLinks_Empty(t *testing.T) {
	if got := ExtractLinks("plain text, no links"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestReferenceID(t *testing.T) {
	tests := []struct {
		target string
		id     string
		ok     bool
	}{
		{"/content/a/b.md", "a-b", true},
		{"../notes/x.en.md", "notes-x", true},
		{"#doc-custom-id", "custom-id", true},
		{"#doc-foo?x=1", "foo", true},
		{"#doc-foo#part", "foo", true},
		{"#doc-?x=1", "", false},
		{"http://example.com/a.md", "", false},
		{"#section", "", false},
		{"readme.txt", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		id, ok := ReferenceID(tt.target)
		if id != tt.id || ok != tt.ok {
			t.Errorf("ReferenceID(%q) = (%q, %v), want (%q, %v)", tt.target, id, ok, tt.id, tt.ok)
		}
	}
}

func TestFields(t *testing.T) {
	got := Fields("title: Guide: Part 1\nenableTree: true\n\norder: '3'\ntitle: \"Guide: Part 2\"\nnocolon")
	want := map[string]string{
		"title":      "Guide: Part 2",
		"enableTree": "true",
		"order":      "3",
		"nocolon":    "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields = %v, want %v", got, want)
	}
}

func intPtr(n int) *int { return &n }
