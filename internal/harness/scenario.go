package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a compiler conformance scenario: one inline query
// spec plus the outcome the compiler must produce for it.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name under testdata/golden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the inline query spec document, in the same shape as a
	// JSON spec file.
	Spec map[string]any `yaml:"spec"`

	// Expect specifies the expected compilation outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation specifies the expected outcome of compiling a scenario.
type Expectation struct {
	// Status is SUCCESS or ERROR.
	Status string `yaml:"status"`

	// Query is the exact expected query text. Only checked when
	// non-empty; ERROR scenarios leave it out.
	Query string `yaml:"query,omitempty"`

	// Errors are substrings that must each appear in at least one
	// produced error. Subset match: extra errors do not fail the
	// scenario, missing expected ones do.
	Errors []string `yaml:"errors,omitempty"`

	// Warnings are substrings that must each appear in at least one
	// produced warning. Subset match, like Errors.
	Warnings []string `yaml:"warnings,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every .yaml scenario directly inside dir, in
// lexical name order.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Spec) == 0 {
		return fmt.Errorf("spec is required and must be non-empty")
	}

	switch s.Expect.Status {
	case StatusSuccess:
		// Query text is optional; an empty one asserts success alone.
	case StatusError:
		if len(s.Expect.Errors) == 0 {
			return fmt.Errorf("expect.errors is required for ERROR scenarios")
		}
		if s.Expect.Query != "" {
			return fmt.Errorf("expect.query is meaningless for ERROR scenarios")
		}
	case "":
		return fmt.Errorf("expect.status is required")
	default:
		return fmt.Errorf("expect.status must be %s or %s, got %q", StatusSuccess, StatusError, s.Expect.Status)
	}

	return nil
}
