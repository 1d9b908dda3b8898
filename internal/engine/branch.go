package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// ImplicationDerivation derives c from the two branches [=> a c] and
// [=> (= 'false' a) c]. Both must sit in the same positive wrapper free of
// existential binders.
func (db *Database) ImplicationDerivation(branch, negated navi.Handle) (term.Term, error) {
	return db.derive(LawImplication, []navi.Handle{branch, negated}, func() (term.Term, error) {
		pos, err := db.resolve(branch)
		if err != nil {
			return nil, trace.Wrap(err, "branch")
		}
		negPos, err := db.resolve(negated)
		if err != nil {
			return nil, trace.Wrap(err, "negated branch")
		}

		b, ok := pos.Term().(term.Branch)
		if !ok {
			return nil, trace.New("%s is not a branch", branch)
		}
		nb, ok := negPos.Term().(term.Branch)
		if !ok {
			return nil, trace.New("%s is not a branch", negated)
		}
		if !term.Equal(b.Conclusion, nb.Conclusion) {
			return nil, trace.New("conclusions of %s and %s differ", branch, negated)
		}
		if !term.Equal(term.Negation(b.Condition), nb.Condition) {
			return nil, trace.New("condition of %s is not the negation of the condition of %s", negated, branch)
		}

		w, ok := WrapperOf(pos)
		if !ok {
			return nil, trace.New("%s is not inside a wrapper", branch)
		}
		nw, ok := WrapperOf(negPos)
		if !ok {
			return nil, trace.New("%s is not inside a wrapper", negated)
		}
		if !w.Equal(nw) {
			return nil, trace.New("%s and %s are in different wrappers", branch, negated)
		}
		if !w.NoExistential() {
			return nil, trace.New("wrapper crosses an existential binder")
		}
		if !w.Positive() {
			return nil, trace.New("wrapper is negative")
		}
		return b.Conclusion, nil
	})
}

// CaseWrap rewrites the subterm x at target to [=> condition x]. target must
// be in a positive wrapper. condition is used as given.
func (db *Database) CaseWrap(target navi.Handle, condition term.Term) (term.Term, error) {
	return db.derive(LawCaseWrap, []navi.Handle{target}, func() (term.Term, error) {
		if condition == nil {
			return nil, trace.New("missing condition")
		}
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		w, ok := WrapperOf(pos)
		if !ok {
			return nil, trace.New("%s is not inside a wrapper", target)
		}
		if !w.Positive() {
			return nil, trace.New("wrapper of %s is not positive", target)
		}
		return pos.Replace(term.NewBranch(condition, pos.Term())), nil
	})
}
