// Package tempfs provides test helpers for materializing file trees in
// temporary directories.
package tempfs

import (
	"os"
	"path/filepath"
	"testing"
)

// WithTempFS creates a temporary directory populated with the given files
// (paths relative to the root, intermediate directories created as needed)
// and invokes f with its location. Cleanup is automatic.
func WithTempFS(t *testing.T, files map[string]string, f func(t *testing.T, root string)) {
	t.Helper()

	root := t.TempDir()
	for path, content := range files {
		abs := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	f(t, root)
}
