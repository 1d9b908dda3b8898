package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// Declaration names the witness of an existential.
//
//	(= 'false' {i (= 'false' b)})   becomes   b[i := name]
//
// name must be a fresh bare atom that occurs in no rule, and target must be in a
// positive wrapper without universal binders.
func (db *Database) Declaration(target navi.Handle, name string) (term.Term, error) {
	return db.derive(LawDeclaration, []navi.Handle{target}, func() (term.Term, error) {
		atom, err := term.ParseAtom(name)
		if err != nil {
			return nil, trace.Wrap(err, "declared name")
		}
		if atom.Constant {
			return nil, trace.New("declared name %s must be a bare name, not a constant", name)
		}
		if db.ContainsName(atom.Text()) {
			return nil, trace.New("name %s already occurs in the database", atom.Text())
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
			return nil, trace.New("wrapper of %s is negative", target)
		}
		if !w.NoUniversal() {
			return nil, trace.New("wrapper of %s crosses a universal binder", target)
		}

		x, y, err := term.EquationArgs(pos.Term())
		if err != nil {
			return nil, err
		}
		if !term.Equal(x, term.Falsity()) {
			return nil, trace.New("first argument is not 'false'")
		}
		binder, ok := y.(term.Binder)
		if !ok {
			return nil, trace.New("second argument is not a binder")
		}
		a, b, err := term.EquationArgs(binder.Body)
		if err != nil {
			return nil, trace.Wrap(err, "binder body")
		}
		if !term.Equal(a, term.Falsity()) {
			return nil, trace.New("binder body is not a negation (= 'false' ...)")
		}

		return pos.Replace(term.ReplaceAll(b, term.NewRef(binder.ID), atom)), nil
	})
}
