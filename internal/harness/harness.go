// Package harness runs YAML-defined compiler scenarios.
//
// A scenario carries an inline query spec and the expected outcome:
// the status, the exact query text, and substrings that must appear
// among the errors or warnings. Scenarios back the conformance tests
// and the golden files under testdata/golden.
//
// Error and warning expectations are subset matches: a scenario names
// the messages it cares about and tolerates extra diagnostics, so a
// new warning does not break every scenario at once. Query text, by
// contrast, is compared exactly; the emitted Cypher is the contract.
package harness

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/graphspec/cyphergen/internal/cypher"
	"github.com/graphspec/cyphergen/internal/spec"
)

// Status values a scenario can expect.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Result is the outcome of running one scenario.
type Result struct {
	// Pass indicates the compiler produced what the scenario expects.
	Pass bool `json:"pass"`

	// Status is the compilation outcome: SUCCESS or ERROR.
	Status string `json:"status"`

	// Query is the emitted query text, empty on error.
	Query string `json:"query,omitempty"`

	// Fingerprint is the content address of the scenario's spec.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Errors are the compiler's error messages.
	Errors []string `json:"errors,omitempty"`

	// Warnings are the compiler's warnings.
	Warnings []string `json:"warnings,omitempty"`

	// Failures are expectation mismatches. Empty when Pass is true.
	Failures []string `json:"failures,omitempty"`
}

// Run compiles a scenario's spec and checks it against the scenario's
// expectations. The returned error covers harness faults only; a
// failing expectation is reported through Result.Failures, not an
// error.
func Run(scenario *Scenario) (*Result, error) {
	result := &Result{}

	// Route the document through the same wire normalization as a spec
	// file so scenario fingerprints match batch fingerprints.
	wire, err := json.Marshal(scenario.Spec)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: marshal spec: %w", scenario.Name, err)
	}
	if result.Fingerprint, err = spec.FingerprintJSON(wire); err != nil {
		return nil, fmt.Errorf("scenario %s: fingerprint: %w", scenario.Name, err)
	}

	q, err := spec.FromRaw(scenario.Spec)
	if err != nil {
		result.Status = StatusError
		result.Errors = []string{err.Error()}
	} else {
		compiled, errs := cypher.Compile(q)
		result.Warnings = compiled.Warnings
		if len(errs) > 0 {
			result.Status = StatusError
			result.Errors = make([]string, len(errs))
			for i, e := range errs {
				result.Errors[i] = e.Error()
			}
		} else {
			result.Status = StatusSuccess
			result.Query = compiled.Query
		}
	}

	evaluate(scenario, result)
	return result, nil
}

// evaluate records expectation mismatches on the result.
func evaluate(scenario *Scenario, result *Result) {
	expect := scenario.Expect

	if result.Status != expect.Status {
		result.Failures = append(result.Failures,
			fmt.Sprintf("status: got %s, want %s", result.Status, expect.Status))
	}

	if expect.Query != "" && result.Query != expect.Query {
		result.Failures = append(result.Failures,
			fmt.Sprintf("query mismatch:\n--- got ---\n%s\n--- want ---\n%s", result.Query, expect.Query))
	}

	for _, want := range expect.Errors {
		if !containsSubstring(result.Errors, want) {
			result.Failures = append(result.Failures,
				fmt.Sprintf("missing expected error %q in %v", want, result.Errors))
		}
	}

	for _, want := range expect.Warnings {
		if !containsSubstring(result.Warnings, want) {
			result.Failures = append(result.Failures,
				fmt.Sprintf("missing expected warning %q in %v", want, result.Warnings))
		}
	}

	result.Pass = len(result.Failures) == 0
}

func containsSubstring(haystack []string, want string) bool {
	for _, s := range haystack {
		if strings.Contains(s, want) {
			return true
		}
	}
	return false
}

// Snapshot renders the compilation outcome in a stable text form for
// golden comparison. The layout mirrors a batch report block: STATUS,
// warnings, then the query or the error list.
func (r *Result) Snapshot() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "STATUS: %s\n", r.Status)
	for _, warning := range r.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", warning)
	}
	if r.Status == StatusSuccess {
		fmt.Fprintf(&b, "FINGERPRINT: %s\n", r.Fingerprint)
		fmt.Fprintf(&b, "QUERY:\n%s\n", r.Query)
	} else {
		b.WriteString("ERRORS:\n")
		for _, msg := range r.Errors {
			fmt.Fprintf(&b, "  %s\n", msg)
		}
	}

	return []byte(b.String())
}
