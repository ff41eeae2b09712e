package cli

import (
	"testing"

	"github.com/graphspec/cyphergen/internal/testutil"
)

// Shared spec fixtures for command tests. Each is a complete wire
// document in one of the accepted input syntaxes.
const (
	// validSpecJSON compiles to "MATCH (c:Candidate)\nRETURN c".
	validSpecJSON = `{
  "nodes": [{"label": "Candidate", "alias": "c"}],
  "return": {"fields": ["c"]}
}`

	// validSpecYAML compiles to "MATCH (j:Job)\nRETURN j".
	validSpecYAML = `nodes:
  - label: Job
    alias: j
return:
  fields: [j]
`

	// brokenSpecJSON references an alias no node declares, so it decodes
	// cleanly but fails compilation with E106.
	brokenSpecJSON = `{
  "nodes": [{"label": "Candidate", "alias": "c"}],
  "return": {"fields": ["x.name"]}
}`

	// hiringSpecJSON exercises a mandatory chain, an optional extension,
	// a filter, and a distinct projection.
	hiringSpecJSON = `{
  "nodes": [
    {"label": "Candidate", "alias": "c"},
    {"label": "Resume", "alias": "r"},
    {"label": "Job", "alias": "j"}
  ],
  "relationships": [
    {"node1": "c", "node2": "r", "type": "HAS_RESUME"},
    {"node1": "r", "node2": "j", "type": "SUBMITTED_FOR", "optional": true}
  ],
  "whereClause": {"field": "c.` + "`Email`" + `", "operator": "=", "value": "alice@example.com"},
  "return": {"fields": ["c.` + "`Email`" + `", "j.` + "`Job Title`" + `"], "distinct": true}
}`
)

// writeSpecDir creates a directory holding the given spec fixtures and
// returns its path.
func writeSpecDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		testutil.WriteSpecFile(t, dir, name, content)
	}
	return dir
}
