package batch

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// WriteReport writes the batch outcome as a plain-text report.
//
// The layout is one block per file in discovery order: FILE and STATUS
// lines, then the query text for successes or the error list for
// failures. Blocks are separated by a dashed rule so the report stays
// greppable and diffs stay local to the query that changed.
func WriteReport(w io.Writer, summary *Summary) error {
	var b strings.Builder

	b.WriteString("CYPHER QUERIES\n")
	fmt.Fprintf(&b, "Run %s over %s\n", summary.RunID, summary.InputDir)
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	for _, res := range summary.Results {
		fmt.Fprintf(&b, "FILE: %s\n", filepath.Base(res.File))
		fmt.Fprintf(&b, "STATUS: %s\n", res.Status)
		for _, warning := range res.Warnings {
			fmt.Fprintf(&b, "WARNING: %s\n", warning)
		}
		if res.Status == StatusSuccess {
			fmt.Fprintf(&b, "FINGERPRINT: %s\n", res.Fingerprint)
			fmt.Fprintf(&b, "QUERY:\n%s\n", res.Query)
		} else {
			b.WriteString("ERRORS:\n")
			for _, msg := range res.Errors {
				fmt.Fprintf(&b, "  %s\n", msg)
			}
		}
		b.WriteString(strings.Repeat("-", 60) + "\n\n")
	}

	fmt.Fprintf(&b, "Summary: %d file(s), %d succeeded, %d failed\n",
		summary.Total, summary.Succeeded, summary.Failed)

	_, err := io.WriteString(w, b.String())
	return err
}
