// Package docs turns raw documents into enhanced documents and arranges them
// into sorted listings and a parent/child hierarchy.
package docs

import (
	"strings"

	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/parser"
)

const contentPrefix = "/content/"

// Enhance extracts the attribute block of raw and assigns its canonical id.
// The result depends only on raw, so repeated calls agree.
func Enhance(raw models.RawDocument) models.Document {
	meta := parser.ExtractMetadata(raw.RawText)

	id := meta.ID
	if id == "" {
		id = parser.DeriveID(raw.Path)
	}

	title := meta.Title
	if title == "" {
		title = parser.HeadingTitle(raw.RawText)
	}
	if title == "" {
		title = parser.Stem(raw.Path)
	}

	return models.Document{
		RawDocument: raw,
		ID:          id,
		Title:       title,
		Order:       meta.Order,
		Parent:      meta.Parent,
		Collection:  meta.Collection,
		Folder:      folderOf(raw.Path),
		Metadata:    meta,
	}
}

// EnhanceAll enhances every raw document, preserving order.
func EnhanceAll(raws []models.RawDocument) []models.Document {
	out := make([]models.Document, len(raws))
	for i, raw := range raws {
		out[i] = Enhance(raw)
	}
	return out
}

// ByID indexes docs by id. When ids collide the later document wins.
func ByID(docs []models.Document) map[string]models.Document {
	m := make(map[string]models.Document, len(docs))
	for _, d := range docs {
		m[d.ID] = d
	}
	return m
}

// folderOf returns the first directory under /content/, or "" for top-level files.
func folderOf(p string) string {
	rel, ok := strings.CutPrefix(p, contentPrefix)
	if !ok {
		return ""
	}
	folder, _, found := strings.Cut(rel, "/")
	if !found {
		return ""
	}
	return folder
}
