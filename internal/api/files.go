package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// FileHandler serves downloadable files from the content files folder.
type FileHandler struct {
	dir string
}

// NewFileHandler creates a handler serving files from dir.
func NewFileHandler(dir string) *FileHandler {
	return &FileHandler{dir: dir}
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the files dir.
func (h *FileHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.dir, cleaned)
	if !strings.HasPrefix(abs, h.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes files directory")
	}
	return abs, nil
}

// ServeFile handles GET /api/files/{filename}.
//
//	@Summary		Download a file from the files folder
//	@Tags			files
//	@Param			filename	path	string	true	"File name"
//	@Success		200			"File contents"
//	@Failure		400			"Invalid file name"
//	@Failure		404			"Not found"
//	@Security		BearerAuth
//	@Router			/files/{filename} [get]
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(abs)))
	http.ServeFile(w, r, abs)
}
