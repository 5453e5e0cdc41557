package docs

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"

	"github.com/wsqstar/ppage/internal/models"
)

// RootID identifies the synthetic root of every tree.
const RootID = "root"

// IssueKind classifies a non-fatal problem found while assembling documents.
type IssueKind string

// Issue kinds.
const (
	IssueDanglingParent IssueKind = "dangling-parent"
	IssueParentCycle    IssueKind = "parent-cycle"
	IssueDuplicateID    IssueKind = "duplicate-id"
)

// Issue describes one problem. Ref is the declared parent for parent issues
// and the path of the superseded document for duplicate ids.
type Issue struct {
	Kind IssueKind `json:"kind"`
	ID   string    `json:"id"`
	Ref  string    `json:"ref"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Kind, i.ID, i.Ref)
}

// BuildTree arranges docs under a synthetic root by their declared parents.
// Documents whose parent is missing, or whose parent link would close a
// cycle, are placed directly under the root and reported.
func BuildTree(docs []models.Document) (*models.TreeNode, []Issue) {
	return BuildTreeLocalized(docs, language.Und)
}

// BuildTreeLocalized is BuildTree with sibling titles collated for tag.
func BuildTreeLocalized(docs []models.Document, tag language.Tag) (*models.TreeNode, []Issue) {
	root := &models.TreeNode{ID: RootID, Title: "Root", Children: []*models.TreeNode{}}
	var issues []Issue

	nodes := make(map[string]*models.TreeNode, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		doc := d
		if prev, ok := nodes[doc.ID]; ok {
			issues = append(issues, Issue{Kind: IssueDuplicateID, ID: doc.ID, Ref: prev.Document.Path})
			prev.Title, prev.Order, prev.Document = doc.Title, doc.Order, &doc
			continue
		}
		nodes[doc.ID] = &models.TreeNode{
			ID:       doc.ID,
			Title:    doc.Title,
			Order:    doc.Order,
			Document: &doc,
			Children: []*models.TreeNode{},
		}
		ids = append(ids, doc.ID)
	}

	// parentOf holds only accepted links, so it is always a forest.
	parentOf := make(map[string]string, len(ids))
	for _, id := range ids {
		node := nodes[id]
		parent := node.Document.Parent

		switch {
		case parent == "":
			root.Children = append(root.Children, node)
		case nodes[parent] == nil:
			issues = append(issues, Issue{Kind: IssueDanglingParent, ID: id, Ref: parent})
			root.Children = append(root.Children, node)
		case reaches(parentOf, parent, id):
			issues = append(issues, Issue{Kind: IssueParentCycle, ID: id, Ref: parent})
			root.Children = append(root.Children, node)
		default:
			parentOf[id] = parent
			nodes[parent].Children = append(nodes[parent].Children, node)
		}
	}

	sortChildren(root, newTitleCmp(tag))
	return root, issues
}

// reaches reports whether walking accepted parent links from start arrives at target.
func reaches(parentOf map[string]string, start, target string) bool {
	visited := make(map[string]struct{})
	for cur := start; cur != ""; cur = parentOf[cur] {
		if cur == target {
			return true
		}
		if _, seen := visited[cur]; seen {
			return false
		}
		visited[cur] = struct{}{}
	}
	return false
}

func sortChildren(root *models.TreeNode, titles func(a, b string) int) {
	stack := []*models.TreeNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		slices.SortStableFunc(n.Children, func(a, b *models.TreeNode) int {
			if c := compareRank(a.Order, b.Order); c != 0 {
				return c
			}
			return titles(a.Title, b.Title)
		})
		stack = append(stack, n.Children...)
	}
}
