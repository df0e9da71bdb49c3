package testutil

// FixedRunTokenGenerator returns the same run token every time, so a
// runner built with it produces byte-identical reports and persisted
// records across runs.
//
// Implements engine.RunTokenGenerator.
type FixedRunTokenGenerator struct {
	token string
}

// NewFixedRunTokenGenerator creates a generator for the given token.
// An empty token defaults to "test-run-default".
func NewFixedRunTokenGenerator(token string) *FixedRunTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedRunTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedRunTokenGenerator) Generate() string {
	return g.token
}
