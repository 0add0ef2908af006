// Package testutil provides shared helpers for building on-disk call
// fixtures in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteCallDir creates a call directory under root with the given artifact
// files and returns its path. Passing nil files yields a bare directory.
func WriteCallDir(t *testing.T, root, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create call dir: %v", err)
	}
	WriteFiles(t, dir, files)
	return dir
}

// WriteFiles writes each named file into dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
