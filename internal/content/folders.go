package content

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wsqstar/ppage/internal/parser"
)

// DefaultFolderOrder sorts folders without an explicit order last.
const DefaultFolderOrder = 999

// Folder describes one top-level content folder. Settings come from the
// attribute block of the folder's index.md when present.
type Folder struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Type           string `json:"type"`
	RoutePath      string `json:"routePath"`
	EnableTree     bool   `json:"enableTree"`
	ShowBreadcrumb bool   `json:"showBreadcrumb"`
	Layout         string `json:"layout"`
	Icon           string `json:"icon,omitempty"`
	Order          int    `json:"order"`
	FileCount      int    `json:"fileCount"`
	HasIndex       bool   `json:"hasIndex"`
}

func newFolder(name string) Folder {
	return Folder{
		Name:      name,
		Title:     formatFolderName(name),
		Type:      "page",
		RoutePath: "/" + name,
		Layout:    "sidebar",
		Order:     DefaultFolderOrder,
	}
}

// applyIndex overlays settings from an index.md. The block is read line by
// line, so one odd value does not discard the others. Booleans are true only
// for the literal "true"; an order of zero or junk keeps the default.
func (f *Folder) applyIndex(rawText string) {
	f.HasIndex = true
	block, ok := parser.Block(rawText)
	if !ok {
		return
	}
	for key, value := range parser.Fields(block) {
		switch key {
		case "title":
			if value != "" {
				f.Title = value
			}
		case "description":
			f.Description = value
		case "type":
			if value != "" {
				f.Type = value
			}
		case "enableTree":
			f.EnableTree = value == "true"
		case "showBreadcrumb":
			f.ShowBreadcrumb = value == "true"
		case "layout":
			if value != "" {
				f.Layout = value
			}
		case "icon":
			f.Icon = value
		case "order":
			if n, ok := parser.ParseInt(value); ok && n != 0 {
				f.Order = n
			}
		}
	}
}

// formatFolderName turns "getting-started" into "Getting Started".
func formatFolderName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size > 0 {
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}
	return strings.Join(words, " ")
}

func sortFolders(folders []Folder) {
	slices.SortStableFunc(folders, func(a, b Folder) int {
		return cmp.Compare(a.Order, b.Order)
	})
}
