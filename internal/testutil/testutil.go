// Package testutil provides shared test helpers for setting up content trees and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wsqstar/ppage/internal/index"
	"github.com/wsqstar/ppage/internal/storage"
)

// TestDB creates a temporary SQLite catalog that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ppage-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContent creates a temporary content directory holding files, keyed by
// slash-separated relative path, and returns it with a storage.FS over it.
func TestContent(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		WriteFile(t, dir, rel, body)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteFile writes body to rel under dir, creating parent directories.
func WriteFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Site is a small linked content tree used across package tests.
//
//	guide/intro  -> guide/setup (explicit), posts/hello (content)
//	guide/setup  parent guide/intro
//	posts/hello  -> guide/setup (content)
//	about        no links
func Site() map[string]string {
	return map[string]string{
		"guide/index.md": "---\ntitle: User Guide\norder: 1\n---\n",
		"guide/intro.md": "---\ntitle: Introduction\norder: 1\ncollection: docs\nrelatedDocs: [guide-setup]\n---\n" +
			"# Introduction\n\nRead the [first post](/content/posts/hello.md).\n",
		"guide/setup.md": "---\ntitle: Setup\norder: 2\ncollection: docs\nparent: guide-intro\ntags: [install]\n---\n" +
			"# Setup\n\nInstall the binary.\n",
		"posts/hello.en.md": "---\ntitle: Hello\ndate: 2024-01-02\n---\n" +
			"# Hello\n\nSee [setup](../guide/setup.md) and [the site](https://example.com).\n",
		"posts/hello.zh.md": "---\ntitle: 你好\ndate: 2024-01-02\n---\n# 你好\n",
		"about.md":          "# About\n\nNothing to see.\n",
	}
}
