// Package testutil provides helpers for fixture sites and golden wire-format tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Site is a throwaway content root and data directory for one test.
type Site struct {
	// PublicDir holds the static pages
	PublicDir string

	// DataDir holds the backing orders file(s)
	DataDir string
}

// DefaultPages is the page set most handler and router tests serve.
var DefaultPages = map[string]string{
	"index.html":  "<h1>Hello</h1>",
	"health.html": "<p>ok</p>",
	"404.html":    "<h1>Not here</h1>",
	"styles.css":  "body{margin:0}",
	"app.js":      "console.log(1);",
}

// DefaultOrdersJSON is the orders fixture stored as data/orders.json.
const DefaultOrdersJSON = `[
  {"order_id": 1, "order_data": "21 Jan 2020", "order_status": "Delivered"},
  {"order_id": 2, "order_data": "2 Feb 2020", "order_status": "Pending"}
]`

// NewSite creates a site under t.TempDir() with the given pages and the
// default orders fixture.
func NewSite(t *testing.T, pages map[string]string) *Site {
	t.Helper()

	root := t.TempDir()
	site := &Site{
		PublicDir: filepath.Join(root, "public"),
		DataDir:   filepath.Join(root, "data"),
	}

	for name, content := range pages {
		WriteFile(t, filepath.Join(site.PublicDir, name), content)
	}
	WriteFile(t, filepath.Join(site.DataDir, "orders.json"), DefaultOrdersJSON)

	return site
}

// OrdersPath returns the path of the site's default orders file.
func (s *Site) OrdersPath() string {
	return filepath.Join(s.DataDir, "orders.json")
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
