package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/graphspec/cyphergen/internal/batch"
	"github.com/graphspec/cyphergen/internal/spec"
)

// LoadError represents a loader or IO failure, as opposed to a
// compilation failure which is reported per unit by the compiler's own
// error types.
type LoadError struct {
	Code    string
	Path    string // file or directory the failure concerns, if any
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No spec files found
	ErrCodeDecodeFailed = "E004" // Spec file could not be decoded
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeReadFailed   = "E006" // Spec file could not be read
	ErrCodeWriteFailed  = "E007" // Output write error
)

// ResolveSpecPaths expands a path argument into the spec files it names.
// A file path returns itself after an extension check; a directory is
// scanned for compilable units the same way batch discovery does it.
func ResolveSpecPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "path not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing path: %v", err)}
	}

	if !info.IsDir() {
		if _, ok := spec.FormatForPath(path); !ok {
			return nil, &LoadError{
				Code:    ErrCodeDecodeFailed,
				Path:    path,
				Message: fmt.Sprintf("unsupported spec extension %q", filepath.Ext(path)),
			}
		}
		return []string{path}, nil
	}

	return scanSpecDir(path)
}

// ResolveSpecDir is ResolveSpecPaths restricted to directories.
func ResolveSpecDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "specs directory not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: fmt.Sprintf("error accessing directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "not a directory"}
	}

	return scanSpecDir(dir)
}

func scanSpecDir(dir string) ([]string, error) {
	files, err := batch.DiscoverUnits(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Path: dir, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Path: dir, Message: "no spec files found (.json, .yaml, .yml, .cue)"}
	}
	return files, nil
}

// LoadSpecFile reads and decodes a single spec file.
// Returns the decoded spec and its fingerprint.
func LoadSpecFile(path string) (*spec.QuerySpec, string, error) {
	format, ok := spec.FormatForPath(path)
	if !ok {
		return nil, "", &LoadError{
			Code:    ErrCodeDecodeFailed,
			Path:    path,
			Message: fmt.Sprintf("unsupported spec extension %q", filepath.Ext(path)),
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", &LoadError{Code: ErrCodeNotFound, Path: path, Message: "spec file not found"}
	}
	if err != nil {
		return nil, "", &LoadError{Code: ErrCodeReadFailed, Path: path, Message: fmt.Sprintf("reading spec file: %v", err)}
	}

	q, fingerprint, err := spec.Decode(data, format, filepath.Base(path))
	if err != nil {
		return nil, "", &LoadError{Code: ErrCodeDecodeFailed, Path: path, Message: err.Error()}
	}
	return q, fingerprint, nil
}

// loadErrorCode extracts the error code from an error chain.
// Returns ErrCodeGeneric when no LoadError is present.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}
