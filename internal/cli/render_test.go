package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphspec/cyphergen/internal/testutil"
)

func TestRenderPrintsBareQuery(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "hires.json", validSpecJSON)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	// Stdout carries nothing but the query so it can be piped into
	// cypher-shell directly.
	assert.Equal(t, "MATCH (c:Candidate)\nRETURN c\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderWarningsGoToStderr(t *testing.T) {
	// The spec declares an alias nothing references, which compiles
	// with a warning.
	specJSON := `{
  "nodes": [
    {"label": "Candidate", "alias": "c"},
    {"label": "Resume", "alias": "r"},
    {"label": "Zombie", "alias": "z"}
  ],
  "relationships": [
    {"node1": "c", "node2": "r", "type": "HAS_RESUME"}
  ],
  "return": {"fields": ["c"]}
}`
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "lonely.json", specJSON)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.NotContains(t, stdout.String(), "WARNING")
	assert.Contains(t, stderr.String(), "WARNING:")
	assert.Contains(t, stderr.String(), `"z"`)
}

func TestRenderJSONEnvelope(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "hires.json", hiringSpecJSON)

	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, path, data["file"])
	assert.Len(t, data["fingerprint"], 64)

	query, ok := data["query"].(string)
	require.True(t, ok)
	assert.Equal(t,
		"MATCH (c:Candidate)-[:HAS_RESUME]->(r:Resume)\n"+
			"OPTIONAL MATCH (r:Resume)-[:SUBMITTED_FOR]->(j:Job)\n"+
			"WHERE c.`Email` = 'alice@example.com'\n"+
			"RETURN DISTINCT c.`Email`, j.`Job Title`",
		query)
}

func TestRenderCompileFailure(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "bad.json", brokenSpecJSON)

	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed with 1 error(s)")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := stdout.String()
	assert.Contains(t, output, "✗ "+path+" failed to compile")
	assert.Contains(t, output, "[E106]")
}

func TestRenderCompileFailureJSON(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpecFile(t, dir, "bad.json", brokenSpecJSON)

	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	errs, ok := data["errors"].([]interface{})
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "[E106]")
}

func TestRenderLoadFailure(t *testing.T) {
	stdout := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"/nonexistent/hires.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot load spec")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout.String(), "Error [E005]")
}
