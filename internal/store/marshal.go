package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamps are stored as RFC 3339 UTC strings so ledger rows stay
// readable in the sqlite3 shell and sort lexically in time order.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// marshalStrings serializes error and warning lists as JSON array TEXT.
// Nil and empty slices both encode as "[]" so result columns never hold
// SQL NULL.
func marshalStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

// unmarshalStrings parses a JSON array column back into a slice. An
// empty array comes back as nil so a written result compares equal to
// the one the runner produced.
func unmarshalStrings(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("unmarshal strings %q: %w", data, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
