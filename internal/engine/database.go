package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/syntax"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// Law names recorded in derivations for rules that were not derived.
const (
	LawIdentity = "identity"
	LawSource   = "source"
)

// Derivation records how a rule entered the database.
type Derivation struct {
	// Seq is the logical clock tick at which the rule was appended.
	Seq int64 `json:"seq"`

	// Law is the inference law that produced the rule, or LawSource /
	// LawIdentity.
	Law string `json:"law"`

	// Inputs are the handles the law consumed, as given by the caller.
	Inputs []navi.Handle `json:"-"`

	// Hash is the content hash of the normalized rule (term.Hash).
	Hash string `json:"hash"`
}

// Database is the ordered rule list plus its derivation history.
//
// INVARIANTS:
//   - rules[0] is the identity rule {0 (= 0 0)}
//   - rules[:protected] are never deleted
//   - every rule is normalized
//   - len(derivations) == len(rules)
type Database struct {
	rules       []term.Term
	derivations []Derivation
	protected   int

	clock   *Clock
	idGen   IDGenerator
	session string
	logger  *slog.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(db *Database) {
		db.logger = logger
	}
}

// WithIDGenerator sets the generator of the session id.
// Defaults to UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(db *Database) {
		db.idGen = gen
	}
}

// WithClock sets the logical clock. Used to continue numbering across
// databases, e.g. when a proof script is replayed on top of another.
func WithClock(clock *Clock) Option {
	return func(db *Database) {
		db.clock = clock
	}
}

// New creates a Database holding only the identity rule.
func New(opts ...Option) *Database {
	db := &Database{
		clock:  NewClock(0),
		idGen:  UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	db.session = db.idGen.Generate()

	if _, err := db.append(LawIdentity, nil, term.Identity()); err != nil {
		// The identity rule is closed.
		panic(err)
	}
	db.protected = len(db.rules)
	return db
}

// FromString parses src and creates a Database holding the identity rule
// followed by the parsed rules, all write-protected.
func FromString(src string, opts ...Option) (*Database, error) {
	rules, err := syntax.ParseRules(src)
	if err != nil {
		return nil, trace.Wrap(err, "parse rules")
	}
	return fromRules(rules, opts...)
}

// FromFile reads a rules file and creates a Database from it.
func FromFile(path string, opts ...Option) (*Database, error) {
	rules, err := syntax.ParseFile(path)
	if err != nil {
		return nil, trace.Wrap(err, "load database")
	}
	return fromRules(rules, opts...)
}

func fromRules(rules []term.Term, opts ...Option) (*Database, error) {
	db := New(opts...)
	for i, r := range rules {
		if _, err := db.append(LawSource, nil, r); err != nil {
			return nil, trace.Wrap(err, "rule %d", i+1)
		}
	}
	db.protected = len(db.rules)
	db.logger.Info("database loaded",
		"session", db.session,
		"rules", len(db.rules),
	)
	return db, nil
}

// append normalizes rule and appends it with its derivation record.
func (db *Database) append(law string, inputs []navi.Handle, rule term.Term) (term.Term, error) {
	norm, err := term.Normalize(rule)
	if err != nil {
		return nil, trace.Wrap(err, "cannot normalize new rule")
	}
	hash, err := term.Hash(norm)
	if err != nil {
		return nil, trace.Wrap(err, "cannot hash new rule")
	}

	d := Derivation{
		Seq:    db.clock.Tick(),
		Law:    law,
		Inputs: cloneHandles(inputs),
		Hash:   hash,
	}
	db.rules = append(db.rules, norm)
	db.derivations = append(db.derivations, d)
	return norm, nil
}

// derive runs build and appends the rule it returns. It is the single exit
// of every inference law.
func (db *Database) derive(law string, inputs []navi.Handle, build func() (term.Term, error)) (term.Term, error) {
	rule, err := build()
	if err == nil {
		rule, err = db.append(law, inputs, rule)
	}
	if err != nil {
		db.logger.Debug("law rejected",
			"session", db.session,
			"law", law,
			"inputs", handleStrings(inputs),
			"error", err,
		)
		return nil, trace.Wrap(err, "%s", law)
	}

	db.logger.Info("rule derived",
		"session", db.session,
		"law", law,
		"index", len(db.rules)-1,
		"hash", db.derivations[len(db.derivations)-1].Hash,
	)
	return rule, nil
}

// resolve resolves h against the current rules.
func (db *Database) resolve(h navi.Handle) (navi.Position, error) {
	return h.Resolve(db.rules)
}

// Len returns the number of rules, identity rule included.
func (db *Database) Len() int {
	return len(db.rules)
}

// Rule returns rule i. An out-of-range index is a programming error and
// panics; validate caller input with Len or navi.Handle.Valid first.
func (db *Database) Rule(i int) term.Term {
	if i < 0 || i >= len(db.rules) {
		panic(fmt.Sprintf("engine: rule index %d out of range [0, %d)", i, len(db.rules)))
	}
	return db.rules[i]
}

// Rules returns a copy of the rule list.
func (db *Database) Rules() []term.Term {
	out := make([]term.Term, len(db.rules))
	copy(out, db.rules)
	return out
}

// Protected returns the number of leading write-protected rules.
func (db *Database) Protected() int {
	return db.protected
}

// DeleteRule removes the derived rule i. Later rules shift down by one, so
// outstanding handles into them must be rebuilt.
func (db *Database) DeleteRule(i int) error {
	if i >= 0 && i < db.protected {
		return trace.New("rule %d is write protected", i)
	}
	if i < 0 || i >= len(db.rules) {
		return trace.New("rule %d out of range", i)
	}
	db.rules = append(db.rules[:i:i], db.rules[i+1:]...)
	db.derivations = append(db.derivations[:i:i], db.derivations[i+1:]...)
	db.logger.Info("rule deleted", "session", db.session, "index", i)
	return nil
}

// ContainsName reports whether any rule contains an atom spelled name.
func (db *Database) ContainsName(name string) bool {
	for _, r := range db.rules {
		if term.ContainsName(r, name) {
			return true
		}
	}
	return false
}

// Derivation returns the derivation record of rule i.
func (db *Database) Derivation(i int) (Derivation, error) {
	if i < 0 || i >= len(db.derivations) {
		return Derivation{}, trace.New("rule %d out of range", i)
	}
	d := db.derivations[i]
	d.Inputs = cloneHandles(d.Inputs)
	return d, nil
}

// Session returns the session id of the database.
func (db *Database) Session() string {
	return db.session
}

// Clock returns the logical clock of the database.
func (db *Database) Clock() *Clock {
	return db.clock
}

// String renders every rule, one per line.
func (db *Database) String() string {
	var b strings.Builder
	for _, r := range db.rules {
		b.WriteString(syntax.RenderRule(r))
		b.WriteByte('\n')
	}
	return b.String()
}

func cloneHandles(hs []navi.Handle) []navi.Handle {
	if len(hs) == 0 {
		return nil
	}
	out := make([]navi.Handle, len(hs))
	for i, h := range hs {
		out[i] = navi.NewHandle(h.Rule, h.Path...)
	}
	return out
}

func handleStrings(hs []navi.Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.String()
	}
	return out
}
