package content

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wsqstar/ppage/internal/checksum"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/storage"
)

// Root is the prefix of every document path handed to the core.
const Root = "/content/"

const (
	defaultConcurrency = 8
	folderIndexBase    = "index"
)

// Options controls Load.
type Options struct {
	Language       string
	Fallback       string
	IgnoredFolders []string
	FilesFolder    string
	Concurrency    int
	Logger         *slog.Logger
}

// Result is one consistent read of the content tree.
type Result struct {
	Documents []models.RawDocument
	Folders   []Folder
	// Fingerprint changes whenever any selected file changes.
	Fingerprint string
	// Skipped lists files that could not be read.
	Skipped []string
}

// Load lists the content tree, selects one language variant per document and
// reads the selected files concurrently. Unreadable files are logged and
// skipped; only listing failures and cancellation abort the load.
func Load(ctx context.Context, store storage.Provider, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("content: list: %w", err)
	}

	checksums := make(map[string]string, len(metas))
	var candidates []string
	for _, m := range metas {
		folder := topFolder(m.Path)
		if folder != "" && (folder == opts.FilesFolder || slices.Contains(opts.IgnoredFolders, folder)) {
			continue
		}
		checksums[m.Path] = m.Checksum
		candidates = append(candidates, m.Path)
	}
	selected := FilterByLanguage(candidates, opts.Language, opts.Fallback)
	slices.Sort(selected)

	texts := make([]*string, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, rel := range selected {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := store.Read(rel)
			if err != nil {
				logger.Warn("content: read failed", slog.String("path", rel), slog.String("error", err.Error()))
				return nil
			}
			text := string(data)
			texts[i] = &text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("content: load: %w", err)
	}

	res := &Result{Documents: make([]models.RawDocument, 0, len(selected))}
	folders := make(map[string]*Folder)
	var folderOrder []string
	var fp strings.Builder

	for i, rel := range selected {
		if texts[i] == nil {
			res.Skipped = append(res.Skipped, rel)
			continue
		}
		res.Documents = append(res.Documents, models.RawDocument{Path: Root + rel, RawText: *texts[i]})
		fp.WriteString(rel)
		fp.WriteByte(0)
		fp.WriteString(checksums[rel])
		fp.WriteByte('\n')

		name := topFolder(rel)
		if name == "" {
			continue
		}
		f, ok := folders[name]
		if !ok {
			nf := newFolder(name)
			f = &nf
			folders[name] = f
			folderOrder = append(folderOrder, name)
		}
		f.FileCount++
		if BasePath(rel) == name+"/"+folderIndexBase {
			f.applyIndex(*texts[i])
		}
	}

	res.Folders = make([]Folder, 0, len(folderOrder))
	for _, name := range folderOrder {
		res.Folders = append(res.Folders, *folders[name])
	}
	sortFolders(res.Folders)
	res.Fingerprint = checksum.Sum([]byte(opts.Language + "\n" + fp.String()))
	return res, nil
}

// topFolder returns the first segment of a content-relative path, or "" for
// files at the root.
func topFolder(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	first, _, _ := strings.Cut(dir, "/")
	return first
}
