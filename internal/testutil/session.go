package testutil

// FixedSessionGenerator returns the same session id every time.
//
// A proof script replayed with the same FixedSessionGenerator produces
// byte-identical log output, which keeps golden comparisons stable.
//
// Unlike engine.FixedGenerator, which hands out ids in sequence and panics
// when they run out, this generator can serve any number of databases.
type FixedSessionGenerator struct {
	id string
}

// DefaultSession is the id used when a script does not name one.
const DefaultSession = "test-session-default"

// NewFixedSessionGenerator creates a generator that always returns id.
//
// The id is typically set in the proof script:
//
//	session: "proof-00000000-0000-0000-0000-000000000001"
//
// If id is empty, Generate() returns DefaultSession.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSession
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session id.
//
// Implements engine.IDGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
