package site

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/wsqstar/ppage/internal/apperr"
	"github.com/wsqstar/ppage/internal/content"
	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/render"
)

// Filter narrows a document listing.
type Filter struct {
	Sort       docs.Mode
	Collection string
	Folder     string
}

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Page is a fully rendered document with its navigation context.
type Page struct {
	Document    models.Document  `json:"document"`
	HTML        string           `json:"html"`
	Headings    []render.Heading `json:"headings"`
	ReadingTime int              `json:"readingTime"`
	Breadcrumb  []Crumb          `json:"breadcrumb"`
	Prev        *Crumb           `json:"prev,omitempty"`
	Next        *Crumb           `json:"next,omitempty"`
	Links       models.Links     `json:"links"`
}

// GraphView is a positioned neighborhood graph.
type GraphView struct {
	Center string                  `json:"center"`
	Depth  int                     `json:"depth"`
	Nodes  []models.PositionedNode `json:"nodes"`
	Edges  []models.GraphEdge      `json:"edges"`
}

// Collection summarises one collection.
type Collection struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Documents lists documents in the current snapshot.
func (s *Service) Documents(f Filter) ([]models.Document, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	list := snap.Documents
	if f.Collection != "" {
		list = docs.FilterByCollection(list, f.Collection)
	}
	if f.Folder != "" {
		list = docs.FilterByFolder(list, f.Folder)
	}
	if f.Sort != "" && f.Sort != docs.ModeOrder {
		return docs.SortLocalized(list, f.Sort, collationTag(snap.Language)), nil
	}
	return nonNilSlice(list), nil
}

// Document returns the document with the given id.
func (s *Service) Document(id string) (models.Document, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Document{}, err
	}
	d, ok := snap.ByID[id]
	if !ok {
		return models.Document{}, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// Links returns the outgoing and incoming references of a document.
func (s *Service) Links(id string) (models.Links, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Links{}, err
	}
	d, ok := snap.ByID[id]
	if !ok {
		return models.Links{}, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}
	return s.links(snap, d), nil
}

func (s *Service) links(snap *Snapshot, d models.Document) models.Links {
	links, hit := s.resolver.Resolve(snap.Version, d, snap.Index, snap.ByID)
	s.metrics.ObserveLinkCache(hit)
	return links
}

// UseDefaultDepth asks Graph for the configured default depth.
const UseDefaultDepth = -2

// Graph builds the neighborhood of id up to depth hops (graph.Unbounded for
// no limit, UseDefaultDepth or any other negative value for the configured
// default) and lays it out on a width x height canvas. Zero, negative and
// non-finite dimensions use the defaults.
func (s *Service) Graph(id string, depth int, width, height float64) (GraphView, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return GraphView{}, err
	}
	center, ok := snap.ByID[id]
	if !ok {
		return GraphView{}, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}

	if depth < 0 && depth != graph.Unbounded {
		depth = s.opts.Graph.DefaultDepth
	}
	if !usableDimension(width) {
		width = s.opts.Graph.Width
	}
	if !usableDimension(height) {
		height = s.opts.Graph.Height
	}

	resolve := func(d models.Document) models.Links { return s.links(snap, d) }
	g := graph.BuildNeighborhoodWith(resolve, center, snap.ByID, depth)
	s.metrics.ObserveGraph(len(g.Nodes))

	return GraphView{
		Center: id,
		Depth:  depth,
		Nodes:  graph.LayoutWith(s.opts.Graph.Layout, g.Nodes, g.Edges, width, height),
		Edges:  g.Edges,
	}, nil
}

func usableDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Tree returns the document hierarchy, optionally restricted to one
// collection. Parents outside the collection are treated as missing.
func (s *Service) Tree(collection string) (*models.TreeNode, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if collection == "" {
		return snap.Tree, nil
	}
	tree, issues := docs.BuildTreeLocalized(docs.FilterByCollection(snap.Documents, collection), collationTag(snap.Language))
	for _, is := range issues {
		s.logger.Debug("site: collection tree issue",
			slog.String("collection", collection),
			slog.String("kind", string(is.Kind)),
			slog.String("id", is.ID),
			slog.String("ref", is.Ref))
	}
	return tree, nil
}

// Collections lists collection names with their document counts.
func (s *Service) Collections() ([]Collection, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	groups := docs.GroupByCollection(snap.Documents)
	out := make([]Collection, 0, len(groups))
	for name, list := range groups {
		out = append(out, Collection{Name: name, Count: len(list)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Folders returns top-level folder metadata in display order.
func (s *Service) Folders() ([]content.Folder, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return nonNilSlice(snap.Folders), nil
}

// Search looks up documents by title, body or tag. Without a catalog it
// falls back to an in-memory scan of the snapshot.
func (s *Service) Search(q string, limit int) ([]index.SearchResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if s.catalog != nil {
		return s.catalog.Search(q, limit)
	}
	hits := docs.Search(snap.Documents, q)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]index.SearchResult, 0, len(hits))
	for _, d := range hits {
		out = append(out, index.SearchResult{ID: d.ID, Path: d.Path, Title: d.Title})
	}
	return out, nil
}

// Render renders a document together with its breadcrumb, neighbours within
// its folder and its links.
func (s *Service) Render(id string) (Page, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return Page{}, err
	}
	d, ok := snap.ByID[id]
	if !ok {
		return Page{}, fmt.Errorf("document %q: %w", id, apperr.ErrNotFound)
	}
	res, err := s.renderer.Render(d.RawText)
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Document:    d,
		HTML:        res.HTML,
		Headings:    nonNilSlice(res.Headings),
		ReadingTime: res.ReadingTime,
		Breadcrumb:  []Crumb{},
		Links:       s.links(snap, d),
	}
	for _, n := range docs.Breadcrumb(snap.Tree, id) {
		page.Breadcrumb = append(page.Breadcrumb, Crumb{ID: n.ID, Title: n.Title})
	}
	prev, next := docs.Adjacent(docs.FilterByFolder(snap.Documents, d.Folder), id)
	if prev != nil {
		page.Prev = &Crumb{ID: prev.ID, Title: prev.Title}
	}
	if next != nil {
		page.Next = &Crumb{ID: next.ID, Title: next.Title}
	}
	return page, nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
