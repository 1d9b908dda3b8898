package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// ScopeInsertion instantiates the binder at target with t: every reference
// to the binder in its body is replaced by a fresh copy of t and the binder
// itself is dropped. The binder must have a complete boolean body and sit
// in a positive wrapper.
func (db *Database) ScopeInsertion(target navi.Handle, t term.Term) (term.Term, error) {
	return db.derive(LawScopeInsertion, []navi.Handle{target}, func() (term.Term, error) {
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		binder, ok := pos.Term().(term.Binder)
		if !ok {
			return nil, trace.New("%s is not a binder", target)
		}
		body, err := pos.Child(0)
		if err != nil {
			return nil, err
		}
		if !body.IsCompleteBool() {
			return nil, trace.New("body of the binder at %s is not a complete boolean", target)
		}
		w, ok := WrapperOf(pos)
		if !ok {
			return nil, trace.New("%s is not inside a wrapper", target)
		}
		if !w.Positive() {
			return nil, trace.New("wrapper of %s is not positive", target)
		}

		norm, err := term.Normalize(t)
		if err != nil {
			return nil, trace.Wrap(err, "inserted term")
		}
		inserted, err := instantiate(binder, t, term.NextID(pos.Root()), term.NextID(norm))
		if err != nil {
			return nil, err
		}
		return pos.Replace(inserted), nil
	})
}

// instantiate walks the leaves of the binder body left to right and
// replaces each reference to the binder with t renumbered from next. Every
// copy takes width fresh ids, so the copies never share a binder id with
// each other or with the rule. Inserted copies are not searched.
func instantiate(binder term.Binder, t term.Term, next, width int) (term.Term, error) {
	pos, err := navi.NewPosition(binder.Body, nil)
	if err != nil {
		return nil, err
	}
	for {
		for {
			child, err := pos.Child(0)
			if err != nil {
				break
			}
			pos = child
		}

		if ref, ok := pos.Term().(term.Ref); ok && ref.ID == binder.ID {
			fresh, err := term.NormalizeFrom(t, next)
			if err != nil {
				return nil, trace.Wrap(err, "inserted term")
			}
			next += width
			if pos, err = navi.NewPosition(pos.Replace(fresh), pos.Path()); err != nil {
				return nil, err
			}
		}

		for {
			if pos.Depth() == 0 {
				return pos.Root(), nil
			}
			if right, err := pos.RightSibling(); err == nil {
				pos = right
				break
			}
			if pos, err = pos.Parent(); err != nil {
				return nil, err
			}
		}
	}
}

// ScopeCreation abstracts the subterms of target at paths (relative to
// target) into a new binder around target. All the subterms must match one
// another, and target must be a complete boolean in a negative wrapper. An
// empty path list creates a binder nobody refers to.
func (db *Database) ScopeCreation(target navi.Handle, paths [][]int) (term.Term, error) {
	return db.derive(LawScopeCreation, []navi.Handle{target}, func() (term.Term, error) {
		pos, err := db.resolve(target)
		if err != nil {
			return nil, err
		}
		if !pos.IsCompleteBool() {
			return nil, trace.New("%s is not a complete boolean", target)
		}
		w, ok := WrapperOf(pos)
		if !ok {
			return nil, trace.New("%s is not inside a wrapper", target)
		}
		if w.Positive() {
			return nil, trace.New("wrapper of %s is positive", target)
		}

		cell := pos.Term()
		subterms := make([]term.Term, len(paths))
		for i, p := range paths {
			sub, err := navi.NewPosition(cell, p)
			if err != nil {
				return nil, trace.Wrap(err, "path %d", i)
			}
			subterms[i] = sub.Term()
		}
		for i := 0; i+1 < len(subterms); i++ {
			if !term.Matches(subterms[i], subterms[i+1]) {
				return nil, trace.New("paths %v and %v do not address the same term", paths[i], paths[i+1])
			}
		}

		id := term.NextID(pos.Root())
		body := cell
		for _, p := range paths {
			sub, err := navi.NewPosition(body, p)
			if err != nil {
				return nil, trace.Wrap(err, "path %v", p)
			}
			body = sub.Replace(term.NewRef(id))
		}
		return pos.Replace(term.NewBinder(id, body)), nil
	})
}

// ScopeExchange swaps the binder at outer with the binder directly inside it.
func (db *Database) ScopeExchange(outer navi.Handle) (term.Term, error) {
	return db.derive(LawScopeExchange, []navi.Handle{outer}, func() (term.Term, error) {
		pos, err := db.resolve(outer)
		if err != nil {
			return nil, err
		}
		o, ok := pos.Term().(term.Binder)
		if !ok {
			return nil, trace.New("%s is not a binder", outer)
		}
		in, ok := o.Body.(term.Binder)
		if !ok {
			return nil, trace.New("body of %s is not a binder", outer)
		}
		return pos.Replace(term.NewBinder(in.ID, term.NewBinder(o.ID, in.Body))), nil
	})
}
