package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// This pins batch output for golden comparison and ledger assertions:
// the same input directory with the same generator produces
// byte-identical reports.
//
// Unlike batch.SequenceGenerator, which hands out a declared list of
// IDs in order and panics when it runs dry, this generator never
// exhausts. Use it when a test starts exactly one run and only cares
// that the ID is stable.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a new fixed run ID generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements batch.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
