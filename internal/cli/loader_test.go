package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphspec/cyphergen/internal/testutil"
)

// ============================================================================
// Path Resolution
// ============================================================================

func TestResolveSpecPathsFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "hires.json", validSpecJSON)

	files, err := ResolveSpecPaths(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestResolveSpecPathsRejectsUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "notes.txt", "not a spec")

	_, err := ResolveSpecPaths(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeDecodeFailed, loadErr.Code)
	assert.Contains(t, err.Error(), `unsupported spec extension ".txt"`)
}

func TestResolveSpecPathsDirectory(t *testing.T) {
	specsDir := writeSpecDir(t, map[string]string{
		"b.yaml": validSpecYAML,
		"a.json": validSpecJSON,
	})

	files, err := ResolveSpecPaths(specsDir)
	require.NoError(t, err)

	// Discovery order is lexical regardless of creation order.
	assert.Equal(t, []string{
		filepath.Join(specsDir, "a.json"),
		filepath.Join(specsDir, "b.yaml"),
	}, files)
}

func TestResolveSpecPathsMissing(t *testing.T) {
	_, err := ResolveSpecPaths("/nonexistent/path")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestResolveSpecDir(t *testing.T) {
	specsDir := writeSpecDir(t, map[string]string{
		"hires.json": validSpecJSON,
	})

	files, err := ResolveSpecDir(specsDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestResolveSpecDirMissing(t *testing.T) {
	_, err := ResolveSpecDir("/nonexistent/path")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, err.Error(), "specs directory not found")
}

func TestResolveSpecDirRejectsFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "hires.json", validSpecJSON)

	_, err := ResolveSpecDir(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestResolveSpecDirEmpty(t *testing.T) {
	_, err := ResolveSpecDir(t.TempDir())
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
	assert.Contains(t, err.Error(), "no spec files found (.json, .yaml, .yml, .cue)")
}

// ============================================================================
// Single-File Loading
// ============================================================================

func TestLoadSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "hires.json", validSpecJSON)

	q, fingerprint, err := LoadSpecFile(path)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Len(t, q.Nodes, 1)
	assert.Equal(t, "c", q.Nodes[0].Alias)
	assert.Len(t, fingerprint, 64)
}

func TestLoadSpecFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "jobs.yaml", validSpecYAML)

	q, fingerprint, err := LoadSpecFile(path)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "j", q.Nodes[0].Alias)
	assert.Len(t, fingerprint, 64)
}

func TestLoadSpecFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "notes.txt", "not a spec")

	_, _, err := LoadSpecFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeDecodeFailed, loadErr.Code)
}

func TestLoadSpecFileMissing(t *testing.T) {
	_, _, err := LoadSpecFile("/nonexistent/hires.json")
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
	assert.Contains(t, err.Error(), "spec file not found")
}

func TestLoadSpecFileDecodeError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "bad.json", `{"nodes": [`)

	_, _, err := LoadSpecFile(path)
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeDecodeFailed, loadErr.Code)
	assert.Contains(t, err.Error(), "decoding query spec")
}

// ============================================================================
// Error Formatting
// ============================================================================

func TestLoadErrorFormat(t *testing.T) {
	withPath := &LoadError{Code: "E004", Path: "specs/bad.json", Message: "unsupported spec extension"}
	assert.Equal(t, "[E004] specs/bad.json: unsupported spec extension", withPath.Error())

	withoutPath := &LoadError{Code: "E001", Message: "something went wrong"}
	assert.Equal(t, "[E001] something went wrong", withoutPath.Error())
}

func TestLoadErrorCode(t *testing.T) {
	assert.Equal(t, "E003", loadErrorCode(&LoadError{Code: ErrCodeNoFiles, Message: "empty"}))

	// The code survives wrapping.
	wrapped := fmt.Errorf("resolving: %w", &LoadError{Code: ErrCodeNotFound, Message: "gone"})
	assert.Equal(t, "E005", loadErrorCode(wrapped))

	// Anything else maps to the generic code.
	assert.Equal(t, "E001", loadErrorCode(errors.New("plain")))
}
