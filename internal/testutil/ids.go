package testutil

// FixedIDGenerator generates the same session id every time.
//
// This keeps journal rows and transcripts byte-identical across runs.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for id.
// If id is empty, Generate() returns "test-session".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-session"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
