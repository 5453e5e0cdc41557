// Package render converts document text to HTML with goldmark. Links to other
// documents are rewritten to in-page "#doc-<id>" anchors so the client can
// intercept them.
package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/wsqstar/ppage/internal/parser"
)

const (
	cjkPerMinute   = 400
	wordsPerMinute = 225
)

// Heading is one entry of a document's table of contents.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Result is a rendered document.
type Result struct {
	HTML        string    `json:"html"`
	Headings    []Heading `json:"headings"`
	ReadingTime int       `json:"readingTime"`
}

// Renderer is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer with GFM and generated heading ids. Raw HTML in the
// source is not passed through.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			gparser.WithAutoHeadingID(),
			gparser.WithASTTransformers(util.Prioritized(linkTransformer{}, 100)),
		),
	)
	return &Renderer{md: md}
}

// Render converts rawText, minus its attribute block, to HTML and collects
// its headings and estimated reading time.
func (r *Renderer) Render(rawText string) (Result, error) {
	source := []byte(parser.Body(rawText))
	doc := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	return Result{
		HTML:        buf.String(),
		Headings:    headings(doc, source),
		ReadingTime: ReadingTime(plainText(doc, source)),
	}, nil
}

type linkTransformer struct{}

func (linkTransformer) Transform(node *ast.Document, _ text.Reader, _ gparser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		if id, ok := parser.ReferenceID(dest); ok {
			link.Destination = []byte("#doc-" + id)
			link.SetAttributeString("data-doc-id", []byte(id))
			return ast.WalkContinue, nil
		}
		if strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://") {
			link.SetAttributeString("target", []byte("_blank"))
			link.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func headings(doc ast.Node, source []byte) []Heading {
	out := []Heading{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		var id string
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{Level: h.Level, Text: string(h.Text(source)), ID: id})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// plainText concatenates the visible text of doc, leaving out code.
func plainText(doc ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// ReadingTime estimates minutes to read s: Han characters at 400 per minute
// plus whitespace-separated words at 225 per minute, rounded up, at least 1.
func ReadingTime(s string) int {
	han := 0
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			han++
		}
	}
	words := len(strings.Fields(s))
	minutes := int(math.Ceil(float64(han)/cjkPerMinute + float64(words)/wordsPerMinute))
	return max(minutes, 1)
}
