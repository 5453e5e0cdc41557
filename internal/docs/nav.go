package docs

import (
	"strings"

	"github.com/wsqstar/ppage/internal/models"
)

// DefaultCollection groups documents that declare no collection.
const DefaultCollection = "default"

// FindByID returns the node with the given id, or nil.
func FindByID(root *models.TreeNode, id string) *models.TreeNode {
	if root == nil {
		return nil
	}
	stack := []*models.TreeNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.ID == id {
			return n
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

// Breadcrumb returns the nodes from the top level down to id, excluding the
// synthetic root. It is empty when id is not in the tree.
func Breadcrumb(root *models.TreeNode, id string) []*models.TreeNode {
	if root == nil {
		return nil
	}
	var walk func(n *models.TreeNode, trail []*models.TreeNode) []*models.TreeNode
	walk = func(n *models.TreeNode, trail []*models.TreeNode) []*models.TreeNode {
		if n.ID != RootID {
			trail = append(trail, n)
		}
		if n.ID == id {
			return trail
		}
		for _, c := range n.Children {
			if found := walk(c, trail); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root, make([]*models.TreeNode, 0, 4))
}

// Adjacent returns the neighbors of id within the ordered docs.
func Adjacent(docs []models.Document, id string) (prev, next *models.Document) {
	for i := range docs {
		if docs[i].ID != id {
			continue
		}
		if i > 0 {
			p := docs[i-1]
			prev = &p
		}
		if i < len(docs)-1 {
			n := docs[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// GroupByCollection buckets docs by collection, preserving order within each.
func GroupByCollection(docs []models.Document) map[string][]models.Document {
	groups := make(map[string][]models.Document)
	for _, d := range docs {
		c := d.Collection
		if c == "" {
			c = DefaultCollection
		}
		groups[c] = append(groups[c], d)
	}
	return groups
}

// FilterByCollection keeps documents whose collection equals name. The name
// DefaultCollection also matches documents without a collection.
func FilterByCollection(docs []models.Document, name string) []models.Document {
	out := []models.Document{}
	for _, d := range docs {
		c := d.Collection
		if c == "" {
			c = DefaultCollection
		}
		if c == name {
			out = append(out, d)
		}
	}
	return out
}

// FilterByFolder keeps documents loaded from the given top-level folder.
func FilterByFolder(docs []models.Document, folder string) []models.Document {
	out := []models.Document{}
	for _, d := range docs {
		if d.Folder == folder {
			out = append(out, d)
		}
	}
	return out
}

// Search returns documents whose title, text or tags contain query,
// case-insensitively. An empty query matches everything. Results keep the
// input order.
func Search(docs []models.Document, query string) []models.Document {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return docs
	}
	out := []models.Document{}
	for _, d := range docs {
		if matches(d, q) {
			out = append(out, d)
		}
	}
	return out
}

func matches(d models.Document, q string) bool {
	if strings.Contains(strings.ToLower(d.Title), q) || strings.Contains(strings.ToLower(d.RawText), q) {
		return true
	}
	for _, tag := range d.Metadata.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
