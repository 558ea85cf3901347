package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDir(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		override string
		dir      string
		want     string
	}{
		{"default", "/srv/site", "", DefaultPublicDir, filepath.Join("/srv/site", "public")},
		{"absolute override", "/srv/site", "/var/www", DefaultPublicDir, "/var/www"},
		{"relative override", "/srv/site", "static", DefaultPublicDir, filepath.Join("/srv/site", "static")},
		{"unclean absolute", "/srv/site", "/var//www/", DefaultDataDir, "/var/www"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDir(tt.base, tt.override, tt.dir); got != tt.want {
				t.Errorf("ResolveDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalizePath(t *testing.T) {
	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "css", "site.css")
	if err := os.MkdirAll(filepath.Dir(testFile), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if err := os.WriteFile(testFile, []byte("body{}"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	canonical, err := CanonicalizePath(testFile, tempDir)
	if err != nil {
		t.Fatalf("CanonicalizePath failed: %v", err)
	}
	if canonical != "css/site.css" {
		t.Errorf("Expected css/site.css, got %s", canonical)
	}
}

func TestJoinRootPath(t *testing.T) {
	result := JoinRootPath("/srv/public", "css/site.css")
	expected := filepath.Join("/srv/public", "css", "site.css")
	if result != expected {
		t.Errorf("JoinRootPath: expected %s, got %s", expected, result)
	}
}

func TestIsWithinRoot(t *testing.T) {
	tempDir := t.TempDir()

	inside := filepath.Join(tempDir, "index.html")
	if err := os.WriteFile(inside, []byte("<h1/>"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !IsWithinRoot(inside, tempDir) {
		t.Error("Expected file to be within root")
	}
	if !IsWithinRoot(filepath.Join(tempDir, "missing.html"), tempDir) {
		t.Error("Expected a missing file under root to be within root")
	}
	if !IsWithinRoot(filepath.Join(tempDir, "..hidden"), tempDir) {
		t.Error("A name starting with two dots is still inside the root")
	}
	if IsWithinRoot(filepath.Join(tempDir, "..", "outside.html"), tempDir) {
		t.Error("Expected parent traversal to be outside root")
	}
	if IsWithinRoot(tempDir+"/..", tempDir) {
		t.Error("Expected the parent directory to be outside root")
	}
}

func TestIsWithinRoot_Symlink(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	secret := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(secret, []byte("nope"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(secret, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if IsWithinRoot(link, root) {
		t.Error("Expected symlink escaping the root to be outside")
	}
}
