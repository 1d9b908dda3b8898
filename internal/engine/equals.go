package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// EqualsSubstitution replaces the subterm at src by the other side of the
// equation at evidence.
//
//	evidence  (= a b) inside a wrapper with no existential
//	src       a subterm matching a (or b), inside that wrapper
//	result    src's rule with src replaced by b (or a)
func (db *Database) EqualsSubstitution(src, evidence navi.Handle) (term.Term, error) {
	return db.derive(LawEquals, []navi.Handle{src, evidence}, func() (term.Term, error) {
		srcPos, err := db.resolve(src)
		if err != nil {
			return nil, trace.Wrap(err, "src")
		}
		evPos, err := db.resolve(evidence)
		if err != nil {
			return nil, trace.Wrap(err, "evidence")
		}

		w, ok := WrapperOf(evPos)
		if !ok {
			return nil, trace.New("evidence %s is not inside a wrapper", evidence)
		}
		if !w.NoExistential() {
			return nil, trace.New("wrapper of evidence %s crosses an existential binder", evidence)
		}
		a, b, err := term.EquationArgs(evPos.Term())
		if err != nil {
			return nil, trace.Wrap(err, "evidence %s", evidence)
		}
		if !w.IsAround(srcPos) {
			return nil, trace.New("src %s and evidence %s are not in the same wrapper", src, evidence)
		}
		return substitute(srcPos, a, b)
	})
}

// EqualsSubstitutionInBranch is EqualsSubstitution for an equation that is
// the condition of a branch. src must lie in the same rule, inside the
// wrapper of the branch conclusion.
func (db *Database) EqualsSubstitutionInBranch(src, evidence navi.Handle) (term.Term, error) {
	return db.derive(LawEqualsBranch, []navi.Handle{src, evidence}, func() (term.Term, error) {
		srcPos, err := db.resolve(src)
		if err != nil {
			return nil, trace.Wrap(err, "src")
		}
		evPos, err := db.resolve(evidence)
		if err != nil {
			return nil, trace.Wrap(err, "evidence")
		}

		path := evPos.Path()
		if len(path) == 0 || path[len(path)-1] != 0 {
			return nil, trace.New("evidence %s is not the condition of a branch", evidence)
		}
		branch, err := evPos.Parent()
		if err != nil {
			return nil, trace.Wrap(err, "evidence %s", evidence)
		}
		if _, ok := branch.Term().(term.Branch); !ok {
			return nil, trace.New("evidence %s is not the condition of a branch", evidence)
		}
		if src.Rule != evidence.Rule {
			return nil, trace.New("src %s and evidence %s are not in the same rule", src, evidence)
		}

		conclusion, err := branch.Child(1)
		if err != nil {
			return nil, trace.Wrap(err, "evidence %s", evidence)
		}
		w, ok := WrapperOf(conclusion)
		if !ok {
			return nil, trace.New("conclusion of the branch at %s is not inside a wrapper", evidence)
		}
		if !w.IsAround(srcPos) {
			return nil, trace.New("src %s is not inside the branch conclusion", src)
		}

		a, b, err := term.EquationArgs(evPos.Term())
		if err != nil {
			return nil, trace.Wrap(err, "evidence %s", evidence)
		}
		return substitute(srcPos, a, b)
	})
}

// substitute replaces the term at pos with the side of (= a b) it does not
// match.
func substitute(pos navi.Position, a, b term.Term) (term.Term, error) {
	cur := pos.Term()
	switch {
	case term.Matches(a, cur):
		return pos.Replace(b), nil
	case term.Matches(b, cur):
		return pos.Replace(a), nil
	default:
		return nil, trace.New("term at %v occurs on neither side of the equation", pos.Path())
	}
}

// ConstantInequality rewrites (= 'x' 'y') with two distinct constants to
// 'false'.
func (db *Database) ConstantInequality(target navi.Handle) (term.Term, error) {
	return db.derive(LawInequality, []navi.Handle{target}, func() (term.Term, error) {
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		x, y, err := term.EquationArgs(pos.Term())
		if err != nil {
			return nil, err
		}
		if !term.IsConstant(x) {
			return nil, trace.New("first argument is not a constant")
		}
		if !term.IsConstant(y) {
			return nil, trace.New("second argument is not a constant")
		}
		if term.Equal(x, y) {
			return nil, trace.New("both arguments are the constant %s", x.(term.Atom).Text())
		}
		return pos.Replace(term.Falsity()), nil
	})
}
