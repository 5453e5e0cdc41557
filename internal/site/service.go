// Package site owns the current content snapshot and answers queries
// against it.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/wsqstar/ppage/internal/apperr"
	"github.com/wsqstar/ppage/internal/backlinks"
	"github.com/wsqstar/ppage/internal/content"
	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/graph"
	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/metrics"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/render"
	"github.com/wsqstar/ppage/internal/storage"
)

// Options configures a Service.
type Options struct {
	Content  content.Options
	Graph    GraphOptions
	LinksTTL time.Duration
}

// GraphOptions holds neighborhood defaults.
type GraphOptions struct {
	DefaultDepth int
	Width        float64
	Height       float64
	Layout       graph.LayoutOptions
}

// ReloadHook is called after a snapshot has been published.
type ReloadHook func(snap *Snapshot)

// Service coordinates loading, linking and querying documents.
type Service struct {
	store    storage.Provider
	catalog  index.Catalog
	renderer *render.Renderer
	resolver *backlinks.Resolver
	metrics  *metrics.Metrics
	logger   *slog.Logger
	opts     Options

	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	publishMu  sync.Mutex
	hooks      []ReloadHook
}

// NewService creates a service. catalog and m may be nil.
func NewService(store storage.Provider, catalog index.Catalog, m *metrics.Metrics, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		catalog:  catalog,
		renderer: render.New(),
		resolver: backlinks.NewResolver(opts.LinksTTL),
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// OnReload registers a hook run after every published reload. Hooks must be
// registered before the first Reload.
func (s *Service) OnReload(h ReloadHook) {
	s.hooks = append(s.hooks, h)
}

// Reload reads the content tree in lang (the current language when empty)
// and publishes a new snapshot. If another reload starts before this one
// publishes, this result is discarded and ErrStale is returned. An unchanged
// tree returns the current snapshot without rebuilding.
func (s *Service) Reload(ctx context.Context, lang string) (*Snapshot, error) {
	gen := s.generation.Add(1)
	start := time.Now()

	if lang == "" {
		lang = s.opts.Content.Language
		if cur := s.current.Load(); cur != nil {
			lang = cur.Language
		}
	}

	copts := s.opts.Content
	copts.Language = lang
	copts.Logger = s.logger
	res, err := content.Load(ctx, s.store, copts)
	if err != nil {
		s.metrics.ObserveReload(metrics.ReloadError, time.Since(start))
		return nil, fmt.Errorf("site: reload: %w", err)
	}

	if cur := s.current.Load(); cur != nil && cur.Fingerprint == res.Fingerprint {
		s.metrics.ObserveReload(metrics.ReloadSame, time.Since(start))
		s.logger.Debug("site: content unchanged", slog.Uint64("version", cur.Version))
		return cur, nil
	}

	snap, loaded := s.build(gen, lang, res)

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if gen != s.generation.Load() {
		s.metrics.ObserveReload(metrics.ReloadStale, time.Since(start))
		s.logger.Info("site: discarding superseded reload", slog.Uint64("version", gen))
		return nil, apperr.ErrStale
	}
	if s.catalog != nil {
		// Load order, not listing order, so duplicate ids resolve as in ByID.
		if err := s.catalog.Rebuild(loaded); err != nil {
			s.metrics.ObserveReload(metrics.ReloadError, time.Since(start))
			return nil, fmt.Errorf("site: rebuild catalog: %w", err)
		}
	}
	s.current.Store(snap)

	for _, is := range snap.Issues {
		s.logger.Warn("site: document issue",
			slog.String("kind", string(is.Kind)),
			slog.String("id", is.ID),
			slog.String("ref", is.Ref))
	}
	for _, p := range res.Skipped {
		s.logger.Warn("site: document skipped", slog.String("path", p))
	}
	s.metrics.ObserveReload(metrics.ReloadOK, time.Since(start))
	s.metrics.SetSnapshot(len(snap.Documents), snap.issueCounts())
	s.logger.Info("site: snapshot published",
		slog.Uint64("version", snap.Version),
		slog.String("language", lang),
		slog.Int("documents", len(snap.Documents)),
		slog.Int("issues", len(snap.Issues)),
		slog.Duration("took", time.Since(start)))

	for _, h := range s.hooks {
		h(snap)
	}
	return snap, nil
}

// build links res into a snapshot. It also returns the enhanced documents in
// load order, the order in which a later duplicate id replaces an earlier one.
func (s *Service) build(version uint64, lang string, res *content.Result) (*Snapshot, []models.Document) {
	tag := collationTag(lang)
	all := docs.EnhanceAll(res.Documents)
	tree, issues := docs.BuildTreeLocalized(all, tag)

	return &Snapshot{
		Version:     version,
		Language:    lang,
		Fingerprint: res.Fingerprint,
		LoadedAt:    time.Now(),
		Documents:   docs.SortLocalized(all, docs.ModeOrder, tag),
		ByID:        docs.ByID(all),
		Index:       backlinks.BuildIndex(all),
		Tree:        tree,
		Folders:     res.Folders,
		Issues:      issues,
	}, all
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, apperr.ErrNotReady
	}
	return snap, nil
}

// IsStale reports whether err means a reload lost the race to a newer one.
func IsStale(err error) bool {
	return errors.Is(err, apperr.ErrStale)
}

func collationTag(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}
