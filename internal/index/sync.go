package index

import (
	"encoding/json"
	"fmt"

	"github.com/wsqstar/ppage/internal/checksum"
	"github.com/wsqstar/ppage/internal/models"
	"github.com/wsqstar/ppage/internal/parser"
)

// Rebuild replaces the whole catalog with docs in a single transaction.
// Readers never observe a partially rebuilt catalog. Documents sharing an id
// keep the last one, matching how the rest of the snapshot resolves ids.
func (db *DB) Rebuild(docs []models.Document) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("index: clear documents: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO documents (id, path, title, collection, folder, tags, body, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path       = excluded.path,
			title      = excluded.title,
			collection = excluded.collection,
			folder     = excluded.folder,
			tags       = excluded.tags,
			body       = excluded.body,
			checksum   = excluded.checksum
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		tagsJSON, _ := json.Marshal(d.Metadata.Tags)
		_, err := stmt.Exec(
			d.ID, d.Path, d.Title, d.Collection, d.Folder,
			string(tagsJSON), parser.Body(d.RawText), checksum.Sum([]byte(d.RawText)),
		)
		if err != nil {
			return fmt.Errorf("index: insert %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}
