// Package models defines the domain types shared by the indexing core and its collaborators.
package models

import "time"

// RawDocument is one content unit as produced by a content source.
// Path is slash-separated and rooted at /content/.
type RawDocument struct {
	Path    string `json:"path"`
	RawText string `json:"-"`
}

// Attributes is the structured form of a document's leading key-value block.
// Empty strings and a nil Order mean "not set".
type Attributes struct {
	Title       string   `json:"title,omitempty"`
	Order       *int     `json:"order,omitempty"`
	Parent      string   `json:"parent,omitempty"`
	Collection  string   `json:"collection,omitempty"`
	Date        string   `json:"date,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category,omitempty"`
	ID          string   `json:"id,omitempty"`
	Pinned      bool     `json:"pinned"`
	Sticky      bool     `json:"sticky"`
	Priority    int      `json:"priority"`
	Links       []string `json:"links"`
	RelatedDocs []string `json:"relatedDocs"`
}

// Document is a RawDocument enriched with identity and metadata.
type Document struct {
	RawDocument
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Order      *int       `json:"order,omitempty"`
	Parent     string     `json:"parent,omitempty"`
	Collection string     `json:"collection,omitempty"`
	Folder     string     `json:"folder,omitempty"`
	Metadata   Attributes `json:"metadata"`
}

// Featured reports whether the document is pinned or sticky.
func (d Document) Featured() bool {
	return d.Metadata.Pinned || d.Metadata.Sticky
}

// TreeNode is one node of the document hierarchy.
type TreeNode struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Order    *int        `json:"order,omitempty"`
	Document *Document   `json:"document,omitempty"`
	Children []*TreeNode `json:"children"`
}

// LinkType is the relationship kind of a backlink or graph edge.
type LinkType string

// Relationship kinds.
const (
	LinkExplicit LinkType = "explicit"
	LinkContent  LinkType = "content"
	LinkParent   LinkType = "parent"
)

// Backlink is a reference between two documents. In an index entry it
// describes the source; in an outgoing list it describes the target.
type Backlink struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Type  LinkType `json:"type"`
	Path  string   `json:"path"`
}

// Links is the display-ready link set of a single document.
type Links struct {
	Outgoing []Backlink `json:"outgoing"`
	Incoming []Backlink `json:"incoming"`
}

// Direction tags a graph edge with the side it was discovered from.
type Direction string

// Edge directions.
const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// GraphNode is a node of a neighborhood graph.
type GraphNode struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Depth      int    `json:"depth"`
	IsCenter   bool   `json:"isCenter"`
	Collection string `json:"collection,omitempty"`
}

// GraphEdge is a directed edge of a neighborhood graph.
type GraphEdge struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Type      LinkType  `json:"type"`
	Direction Direction `json:"direction"`
}

// PositionedNode is a graph node with layout coordinates.
type PositionedNode struct {
	GraphNode
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FileMeta is a lightweight listing entry returned by a content source.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
