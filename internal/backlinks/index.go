// Package backlinks computes who-links-to-whom across a document collection
// and resolves the link set of a single document.
package backlinks

import (
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/parser"
)

// Index maps a document id to the documents that reference it.
// Every document of the collection has an entry, possibly empty.
type Index map[string][]models.Backlink

type pair struct {
	source, target string
}

// BuildIndex folds related documents, content links and parent references of
// every document into the backlink lists of their targets. Each source is
// recorded at most once per target; the first relationship kind seen wins.
// Targets outside docs are ignored.
func BuildIndex(docs []models.Document) Index {
	idx := make(Index, len(docs))
	for _, d := range docs {
		idx[d.ID] = []models.Backlink{}
	}

	seen := make(map[pair]struct{})
	add := func(src models.Document, target string, kind models.LinkType) {
		if _, ok := idx[target]; !ok {
			return
		}
		p := pair{source: src.ID, target: target}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		idx[target] = append(idx[target], models.Backlink{
			ID:    src.ID,
			Title: src.Title,
			Type:  kind,
			Path:  src.Path,
		})
	}

	for _, d := range docs {
		for _, target := range d.Metadata.RelatedDocs {
			add(d, target, models.LinkExplicit)
		}
		for _, target := range parser.ExtractLinks(d.RawText) {
			add(d, target, models.LinkContent)
		}
		if d.Parent != "" {
			add(d, d.Parent, models.LinkParent)
		}
	}
	return idx
}

// Resolve returns the outgoing and incoming links of doc. Outgoing lists
// related documents first, then content links not already listed; ids
// missing from lookup are dropped. Incoming is doc's index entry.
func Resolve(doc models.Document, idx Index, lookup map[string]models.Document) models.Links {
	outgoing := []models.Backlink{}
	seen := make(map[string]struct{})
	add := func(id string, kind models.LinkType) {
		if _, dup := seen[id]; dup {
			return
		}
		target, ok := lookup[id]
		if !ok {
			return
		}
		seen[id] = struct{}{}
		outgoing = append(outgoing, models.Backlink{
			ID:    target.ID,
			Title: target.Title,
			Type:  kind,
			Path:  target.Path,
		})
	}
	for _, id := range doc.Metadata.RelatedDocs {
		add(id, models.LinkExplicit)
	}
	for _, id := range parser.ExtractLinks(doc.RawText) {
		add(id, models.LinkContent)
	}

	incoming := []models.Backlink{}
	incoming = append(incoming, idx[doc.ID]...)

	return models.Links{Outgoing: outgoing, Incoming: incoming}
}
