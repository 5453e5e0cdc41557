package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wsqstar/ppage/internal/docs"
	"github.com/wsqstar/ppage/internal/site"
)

// Handler holds API route handlers.
type Handler struct {
	svc       *site.Service
	languages []string
}

// NewHandler creates a new Handler. languages restricts POST /reload?lang=;
// empty accepts any value.
func NewHandler(svc *site.Service, languages []string) *Handler {
	return &Handler{svc: svc, languages: languages}
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List documents with optional filtering and sorting
//	@Tags			documents
//	@Produce		json
//	@Param			sort		query		string	false	"Sort mode"	Enums(order, title, date, path)
//	@Param			collection	query		string	false	"Filter by collection"
//	@Param			folder		query		string	false	"Filter by top-level folder"
//	@Success		200			{object}	DocumentListResponse
//	@Failure		400			{object}	errResponse
//	@Failure		503			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	list, err := h.svc.Documents(site.Filter{
		Sort:       docs.Mode(q.Sort),
		Collection: q.Collection,
		Folder:     q.Folder,
	})
	if err != nil {
		writeServiceError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: list, Total: len(list)})
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Get a rendered document with navigation and links
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document id"
//	@Success		200	{object}	DocumentPage
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := h.svc.Render(id)
	if err != nil {
		writeServiceError(w, "render document", err, slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// DocumentLinks handles GET /api/documents/{id}/links.
//
//	@Summary		Get outgoing links and backlinks of a document
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document id"
//	@Success		200	{object}	models.Links
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/links [get]
func (h *Handler) DocumentLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	links, err := h.svc.Links(id)
	if err != nil {
		writeServiceError(w, "resolve links", err, slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// DocumentGraph handles GET /api/documents/{id}/graph.
//
//	@Summary		Get the positioned link neighborhood of a document
//	@Tags			graph
//	@Produce		json
//	@Param			id		path		string	true	"Document id"
//	@Param			depth	query		string	false	"Hop limit, or \"all\""
//	@Param			width	query		number	false	"Canvas width"
//	@Param			height	query		number	false	"Canvas height"
//	@Success		200		{object}	GraphResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/graph [get]
func (h *Handler) DocumentGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q, err := parseGraphQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	g, err := h.svc.Graph(id, q.depth(), q.Width, q.Height)
	if err != nil {
		writeServiceError(w, "build graph", err, slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the document hierarchy
//	@Tags			navigation
//	@Produce		json
//	@Param			collection	query		string	false	"Restrict to one collection"
//	@Success		200			{object}	models.TreeNode
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.Tree(r.URL.Query().Get("collection"))
	if err != nil {
		writeServiceError(w, "build tree", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// Collections handles GET /api/collections.
//
//	@Summary		List collections with document counts
//	@Tags			navigation
//	@Produce		json
//	@Success		200	{object}	CollectionListResponse
//	@Security		BearerAuth
//	@Router			/collections [get]
func (h *Handler) Collections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.svc.Collections()
	if err != nil {
		writeServiceError(w, "list collections", err)
		return
	}
	writeJSON(w, http.StatusOK, CollectionListResponse{Collections: cols})
}

// Folders handles GET /api/folders.
//
//	@Summary		List top-level folders in display order
//	@Tags			navigation
//	@Produce		json
//	@Success		200	{array}	content.Folder
//	@Security		BearerAuth
//	@Router			/folders [get]
func (h *Handler) Folders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.Folders()
	if err != nil {
		writeServiceError(w, "list folders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"folders": folders,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Search documents by title, body or tag
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(q, limit)
	if err != nil {
		writeServiceError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Reload handles POST /api/reload.
//
//	@Summary		Reload content, optionally switching language
//	@Tags			admin
//	@Produce		json
//	@Param			lang	query		string	false	"Language to load"
//	@Success		200		{object}	ReloadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if err := validateLanguage(lang, h.languages); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	snap, err := h.svc.Reload(r.Context(), lang)
	if err != nil {
		writeServiceError(w, "reload", err, slog.String("lang", lang))
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{
		Version:   snap.Version,
		Language:  snap.Language,
		Documents: len(snap.Documents),
		Issues:    len(snap.Issues),
	})
}
