package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wsqstar/ppage/internal/site"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// AuthEnabled controls whether Bearer token auth is enforced.
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// FilesDir is the directory served under /files.
	FilesDir string
	// Languages lists the values accepted by POST /reload?lang=.
	Languages []string
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *site.Service, opts RouterOptions) chi.Router {
	h := NewHandler(svc, opts.Languages)
	fh := NewFileHandler(opts.FilesDir)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(opts.AuthEnabled, opts.Token))

	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/{id}", h.GetDocument)
	r.Get("/documents/{id}/links", h.DocumentLinks)
	r.Get("/documents/{id}/graph", h.DocumentGraph)

	r.Get("/tree", h.Tree)
	r.Get("/collections", h.Collections)
	r.Get("/folders", h.Folders)
	r.Get("/search", h.Search)

	r.Post("/reload", h.Reload)

	r.Get("/files/{filename}", fh.ServeFile)

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}
