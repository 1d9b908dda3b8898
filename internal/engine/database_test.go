package engine

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/syntax"
	"github.com/roach88/srl/internal/term"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB creates a database from src with deterministic session id and
// no log output.
func setupTestDB(t *testing.T, src string) *Database {
	t.Helper()
	db, err := FromString(src,
		WithLogger(quietLogger()),
		WithIDGenerator(NewFixedGenerator("test-session")),
	)
	require.NoError(t, err)
	return db
}

func h(t *testing.T, s string) navi.Handle {
	t.Helper()
	handle, err := navi.ParseHandle(s)
	require.NoError(t, err)
	return handle
}

func mustTerm(t *testing.T, s string) term.Term {
	t.Helper()
	tm, err := syntax.ParseTerm(s)
	require.NoError(t, err)
	return tm
}

func rendered(t *testing.T, tm term.Term) string {
	t.Helper()
	require.NotNil(t, tm)
	return syntax.RenderRule(tm)
}

func TestNew_IdentityRule(t *testing.T) {
	db := New(WithLogger(quietLogger()))

	require.Equal(t, 1, db.Len())
	assert.Equal(t, 1, db.Protected())
	assert.Equal(t, "{0 (= 0 0)}.", syntax.RenderRule(db.Rule(0)))
}

func TestFromString_Empty(t *testing.T) {
	db := setupTestDB(t, "")
	assert.Equal(t, 1, db.Len())
	assert.Equal(t, "{0 (= 0 0)}.\n", db.String())
}

func TestFromString_NormalizesAndProtects(t *testing.T) {
	db := setupTestDB(t, "{5 (p 5)}. = x y.")

	require.Equal(t, 3, db.Len())
	assert.Equal(t, 3, db.Protected())
	assert.Equal(t, "{0 (p 0)}.", syntax.RenderRule(db.Rule(1)))
	assert.Equal(t, "{0 (= 0 0)}.\n{0 (p 0)}.\n= x y.\n", db.String())
}

func TestFromString_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		msg  string
	}{
		{"syntax", "(p x.", "parse rules"},
		{"escaping reference", "p 0.", "not in scope"},
		{"reused id", "{0 {0 p}}.", "used twice"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromString(tc.src, WithLogger(quietLogger()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.srl")
	require.NoError(t, os.WriteFile(path, []byte("= x y.\n"), 0644))

	db, err := FromFile(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())

	_, err = FromFile(filepath.Join(t.TempDir(), "missing.srl"), WithLogger(quietLogger()))
	assert.ErrorContains(t, err, "cannot read file")
}

func TestRule_PanicsOutOfRange(t *testing.T) {
	db := setupTestDB(t, "")
	assert.Panics(t, func() { db.Rule(1) })
	assert.Panics(t, func() { db.Rule(-1) })
}

func TestRules_ReturnsCopy(t *testing.T) {
	db := setupTestDB(t, "= x y.")
	rules := db.Rules()
	rules[1] = term.NewAtom("changed")
	assert.Equal(t, "= x y.", syntax.RenderRule(db.Rule(1)))
}

func TestDeleteRule(t *testing.T) {
	db := setupTestDB(t, "(= a b). p b.")

	_, err := db.EqualsSubstitution(h(t, "2/1"), h(t, "1"))
	require.NoError(t, err)
	_, err = db.AddTruthWrap(h(t, "2"))
	require.NoError(t, err)
	require.Equal(t, 5, db.Len())

	assert.ErrorContains(t, db.DeleteRule(0), "write protected")
	assert.ErrorContains(t, db.DeleteRule(2), "write protected")
	assert.ErrorContains(t, db.DeleteRule(5), "out of range")
	assert.ErrorContains(t, db.DeleteRule(-1), "out of range")

	require.NoError(t, db.DeleteRule(3))
	require.Equal(t, 4, db.Len())
	assert.Equal(t, "= 'true' (p b).", syntax.RenderRule(db.Rule(3)))

	d, err := db.Derivation(3)
	require.NoError(t, err)
	assert.Equal(t, LawAddTruth, d.Law)
}

func TestContainsName(t *testing.T) {
	db := setupTestDB(t, "p 'x'. {0 (q 0)}.")

	assert.True(t, db.ContainsName("p"))
	assert.True(t, db.ContainsName("q"))
	assert.True(t, db.ContainsName("="))
	assert.True(t, db.ContainsName("'x'"))
	assert.False(t, db.ContainsName("x"))
	assert.False(t, db.ContainsName("r"))
}

func TestDerivations(t *testing.T) {
	db := setupTestDB(t, "(= x y). {0 (p x)}.")

	_, err := db.EqualsSubstitution(h(t, "2/0/1"), h(t, "1"))
	require.NoError(t, err)

	var laws []string
	var seqs []int64
	for i := 0; i < db.Len(); i++ {
		d, err := db.Derivation(i)
		require.NoError(t, err)
		laws = append(laws, d.Law)
		seqs = append(seqs, d.Seq)
		assert.Equal(t, term.MustHash(db.Rule(i)), d.Hash)
	}
	assert.Equal(t, []string{LawIdentity, LawSource, LawSource, LawEquals}, laws)
	assert.Equal(t, []int64{1, 2, 3, 4}, seqs)

	d, err := db.Derivation(3)
	require.NoError(t, err)
	require.Len(t, d.Inputs, 2)
	assert.Equal(t, "2/0/1", d.Inputs[0].String())
	assert.Equal(t, "1", d.Inputs[1].String())

	_, err = db.Derivation(4)
	assert.Error(t, err)
}

func TestDerivations_SeqSurvivesDeletion(t *testing.T) {
	db := setupTestDB(t, "wow.")

	_, err := db.AddTruthWrap(h(t, "1"))
	require.NoError(t, err)
	require.NoError(t, db.DeleteRule(2))
	_, err = db.AddTruthWrap(h(t, "1"))
	require.NoError(t, err)

	d, err := db.Derivation(2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.Seq)
	assert.Equal(t, int64(4), db.Clock().Last())
}

func TestFailedLawLeavesDatabaseUnchanged(t *testing.T) {
	db := setupTestDB(t, "p x.")
	before := db.String()

	_, err := db.ScopeExchange(h(t, "1"))
	require.Error(t, err)

	assert.Equal(t, 2, db.Len())
	assert.Equal(t, before, db.String())
	assert.Equal(t, int64(2), db.Clock().Last())
}

func TestDatabase_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db, err := FromString("wow.",
		WithLogger(logger),
		WithIDGenerator(NewFixedGenerator("log-session")),
	)
	require.NoError(t, err)

	_, err = db.AddTruthWrap(h(t, "1"))
	require.NoError(t, err)
	_, err = db.ScopeExchange(h(t, "1"))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "database loaded")
	assert.Contains(t, out, "rule derived")
	assert.Contains(t, out, "law=add-truth")
	assert.Contains(t, out, "law rejected")
	assert.Contains(t, out, "law=scope-exchange")
	assert.Contains(t, out, "session=log-session")
}

func TestWithClock(t *testing.T) {
	db := New(WithLogger(quietLogger()), WithClock(NewClock(41)))
	d, err := db.Derivation(0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), d.Seq)
}
