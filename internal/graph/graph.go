// Package graph builds the bounded neighborhood of a document and lays it
// out on concentric rings.
package graph

import (
	"github.com/wsqstar/ppage/internal/backlinks"
	"github.com/wsqstar/ppage/internal/models"
)

// Unbounded disables the depth limit of BuildNeighborhood.
const Unbounded = -1

// DefaultDepth is the depth used when a caller expresses no preference.
const DefaultDepth = 3

// Graph is a deduplicated node and edge set. Nodes are in discovery order,
// so the center is always first.
type Graph struct {
	Nodes []models.GraphNode `json:"nodes"`
	Edges []models.GraphEdge `json:"edges"`
}

// ResolveFunc returns the link set of a document.
type ResolveFunc func(doc models.Document) models.Links

// BuildNeighborhood expands breadth-first from center through outgoing and
// incoming links. Only nodes closer than maxDepth are expanded; a negative
// maxDepth means no limit.
func BuildNeighborhood(center models.Document, idx backlinks.Index, lookup map[string]models.Document, maxDepth int) Graph {
	return BuildNeighborhoodWith(func(d models.Document) models.Links {
		return backlinks.Resolve(d, idx, lookup)
	}, center, lookup, maxDepth)
}

// BuildNeighborhoodWith is BuildNeighborhood with a caller-supplied resolver.
func BuildNeighborhoodWith(resolve ResolveFunc, center models.Document, lookup map[string]models.Document, maxDepth int) Graph {
	type entry struct {
		doc   models.Document
		depth int
	}
	type edgeKey struct {
		source, target string
	}

	g := Graph{
		Nodes: []models.GraphNode{nodeOf(center, 0, true)},
		Edges: []models.GraphEdge{},
	}
	visited := map[string]bool{center.ID: true}
	edgeSet := map[edgeKey]bool{}
	queue := []entry{{center, 0}}

	addEdge := func(e models.GraphEdge) {
		k := edgeKey{e.Source, e.Target}
		if edgeSet[k] {
			return
		}
		edgeSet[k] = true
		g.Edges = append(g.Edges, e)
	}
	discover := func(id string, depth int) {
		if visited[id] {
			return
		}
		doc, ok := lookup[id]
		if !ok {
			return
		}
		visited[id] = true
		g.Nodes = append(g.Nodes, nodeOf(doc, depth, false))
		queue = append(queue, entry{doc, depth})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth >= 0 && cur.depth >= maxDepth {
			continue
		}

		links := resolve(cur.doc)
		for _, l := range links.Outgoing {
			addEdge(models.GraphEdge{Source: cur.doc.ID, Target: l.ID, Type: l.Type, Direction: models.Outgoing})
			discover(l.ID, cur.depth+1)
		}
		for _, l := range links.Incoming {
			addEdge(models.GraphEdge{Source: l.ID, Target: cur.doc.ID, Type: l.Type, Direction: models.Incoming})
			discover(l.ID, cur.depth+1)
		}
	}
	return g
}

func nodeOf(d models.Document, depth int, center bool) models.GraphNode {
	return models.GraphNode{
		ID:         d.ID,
		Title:      d.Title,
		Depth:      depth,
		IsCenter:   center,
		Collection: d.Collection,
	}
}
