package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	summary := &Summary{
		RunID:     "run-42",
		InputDir:  "./queries",
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Results: []FileResult{
			{
				File:        "/tmp/queries/good.json",
				Status:      StatusSuccess,
				Fingerprint: "abc123",
				Query:       "MATCH (c:Candidate)\nRETURN c",
				Warnings:    []string{`alias "z" is declared but not referenced by any relationship`},
			},
			{
				File:   "/tmp/queries/bad.json",
				Status: StatusError,
				Errors: []string{`[E106] return.fields[0]: alias "x" is not declared by any node`},
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, summary))

	want := strings.Join([]string{
		"CYPHER QUERIES",
		"Run run-42 over ./queries",
		strings.Repeat("=", 80),
		"",
		"FILE: good.json",
		"STATUS: SUCCESS",
		`WARNING: alias "z" is declared but not referenced by any relationship`,
		"FINGERPRINT: abc123",
		"QUERY:",
		"MATCH (c:Candidate)",
		"RETURN c",
		strings.Repeat("-", 60),
		"",
		"FILE: bad.json",
		"STATUS: ERROR",
		"ERRORS:",
		`  [E106] return.fields[0]: alias "x" is not declared by any node`,
		strings.Repeat("-", 60),
		"",
		"Summary: 2 file(s), 1 succeeded, 1 failed",
		"",
	}, "\n")

	assert.Equal(t, want, sb.String())
}

func TestWriteReportUsesBaseNames(t *testing.T) {
	summary := &Summary{
		RunID:    "run-1",
		InputDir: "/var/data/queries",
		Total:    1,
		Results: []FileResult{
			{File: "/var/data/queries/deep/report.json", Status: StatusError, Errors: []string{"boom"}},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, summary))

	assert.Contains(t, sb.String(), "FILE: report.json\n")
	assert.NotContains(t, sb.String(), "FILE: /var")
}

func TestWriteReportEmptyRun(t *testing.T) {
	summary := &Summary{RunID: "run-7", InputDir: "./empty"}

	var sb strings.Builder
	require.NoError(t, WriteReport(&sb, summary))

	want := strings.Join([]string{
		"CYPHER QUERIES",
		"Run run-7 over ./empty",
		strings.Repeat("=", 80),
		"",
		"Summary: 0 file(s), 0 succeeded, 0 failed",
		"",
	}, "\n")

	assert.Equal(t, want, sb.String())
}
