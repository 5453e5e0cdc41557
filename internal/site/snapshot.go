package site

import (
	"time"

	"github.com/wsqstar/ppage/internal/backlinks"
	"github.com/wsqstar/ppage/internal/content"
	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/models"
)

// Snapshot is one immutable, fully linked view of the content tree.
// Nothing in it is modified after publication.
type Snapshot struct {
	Version     uint64
	Language    string
	Fingerprint string
	LoadedAt    time.Time

	// Documents holds every loaded document in default listing order.
	Documents []models.Document
	ByID      map[string]models.Document
	Index     backlinks.Index
	Tree      *models.TreeNode
	Folders   []content.Folder
	Issues    []docs.Issue
}

func (s *Snapshot) issueCounts() map[string]int {
	counts := make(map[string]int)
	for _, is := range s.Issues {
		counts[string(is.Kind)]++
	}
	return counts
}
