package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteSpecFile writes a spec fixture into dir and returns its path.
// The test fails immediately if the write does not succeed.
func WriteSpecFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write spec fixture %s: %v", name, err)
	}
	return path
}
