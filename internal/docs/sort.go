package docs

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/wsqstar/ppage/internal/models"
)

// Mode selects a built-in ordering.
type Mode string

// Sort modes.
const (
	ModeOrder Mode = "order"
	ModeTitle Mode = "title"
	ModeDate  Mode = "date"
	ModePath  Mode = "path"
)

// Sort returns a sorted copy of docs. Titles compare with the root locale.
func Sort(docs []models.Document, mode Mode) []models.Document {
	return SortLocalized(docs, mode, language.Und)
}

// SortLocalized is Sort with titles collated for tag. An empty mode means
// ModeOrder; an unknown mode keeps the input order.
func SortLocalized(docs []models.Document, mode Mode, tag language.Tag) []models.Document {
	titles := newTitleCmp(tag)

	switch mode {
	case ModeOrder, "":
		return SortFunc(docs, func(a, b models.Document) int {
			if a.Featured() != b.Featured() {
				if a.Featured() {
					return -1
				}
				return 1
			}
			if c := cmp.Compare(b.Metadata.Priority, a.Metadata.Priority); c != 0 {
				return c
			}
			if c := compareRank(a.Order, b.Order); c != 0 {
				return c
			}
			return titles(a.Title, b.Title)
		})
	case ModeTitle:
		return SortFunc(docs, func(a, b models.Document) int {
			return titles(a.Title, b.Title)
		})
	case ModeDate:
		// Byte-wise and descending: only ISO-style dates order correctly.
		return SortFunc(docs, func(a, b models.Document) int {
			return cmp.Compare(b.Metadata.Date, a.Metadata.Date)
		})
	case ModePath:
		return SortFunc(docs, func(a, b models.Document) int {
			return cmp.Compare(a.Path, b.Path)
		})
	default:
		return slices.Clone(docs)
	}
}

// SortFunc returns a copy of docs stably sorted by compare.
func SortFunc(docs []models.Document, compare func(a, b models.Document) int) []models.Document {
	out := slices.Clone(docs)
	slices.SortStableFunc(out, compare)
	return out
}

// compareRank orders explicit ranks ascending with unset ranks last.
func compareRank(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return cmp.Compare(*a, *b)
	}
}

// newTitleCmp returns a title comparator backed by its own collator, since a
// collate.Collator must not be shared between goroutines.
func newTitleCmp(tag language.Tag) func(a, b string) int {
	c := collate.New(tag)
	return func(a, b string) int {
		return c.CompareString(a, b)
	}
}
