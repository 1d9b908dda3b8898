package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// AddTruthWrap rewrites a boolean-position subterm x to (= 'true' x).
func (db *Database) AddTruthWrap(target navi.Handle) (term.Term, error) {
	return db.derive(LawAddTruth, []navi.Handle{target}, func() (term.Term, error) {
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		if !pos.IsBool() {
			return nil, trace.New("%s is not in a boolean position", target)
		}
		return pos.Replace(term.Equation(term.Truth(), pos.Term())), nil
	})
}

// RemoveTruthWrap rewrites (= 'true' x) to x, where target addresses x.
// The result must still be in a boolean position.
func (db *Database) RemoveTruthWrap(target navi.Handle) (term.Term, error) {
	return db.derive(LawRemoveTruth, []navi.Handle{target}, func() (term.Term, error) {
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		parent, err := pos.Parent()
		if err != nil {
			return nil, trace.Wrap(err, "%s has no enclosing equation", target)
		}
		a, b, err := term.EquationArgs(parent.Term())
		if err != nil {
			return nil, trace.Wrap(err, "parent of %s", target)
		}
		if !term.Equal(a, term.Truth()) {
			return nil, trace.New("first argument of the equation is not 'true'")
		}
		if !term.Equal(b, pos.Term()) {
			return nil, trace.New("%s is not the second argument of the equation", target)
		}

		rule := parent.Replace(pos.Term())
		check, err := navi.NewPosition(rule, parent.Path())
		if err != nil {
			return nil, err
		}
		if !check.IsBool() {
			return nil, trace.New("result at %v is not in a boolean position", parent.Path())
		}
		return rule, nil
	})
}
