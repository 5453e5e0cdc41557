package api

import (
	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/site"
)

// DocumentListResponse wraps a document listing.
type DocumentListResponse struct {
	Documents []models.Document `json:"documents" validate:"required"`
	Total     int               `json:"total" example:"42" validate:"required"`
}

// DocumentPage is a rendered document with navigation (aliased from the domain layer).
type DocumentPage = site.Page

// GraphResponse is a positioned neighborhood graph (aliased from the domain layer).
type GraphResponse = site.GraphView

// SearchResult is a single search hit (aliased from the catalog).
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// CollectionListResponse wraps collection summaries.
type CollectionListResponse struct {
	Collections []site.Collection `json:"collections" validate:"required"`
}

// ReloadResponse describes the snapshot published by a reload.
type ReloadResponse struct {
	Version   uint64 `json:"version" example:"3" validate:"required"`
	Language  string `json:"language" example:"en" validate:"required"`
	Documents int    `json:"documents" example:"42" validate:"required"`
	Issues    int    `json:"issues" example:"0"`
}
