package engine

import (
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
)

// Wrapper describes the logical context of a position: the chain of
// binders, branch conclusions and negations between the rule root and the
// position.
type Wrapper struct {
	pos           navi.Position
	positive      bool
	noUniversal   bool
	noExistential bool
}

// WrapperOf walks from the root of pos down to pos and returns its wrapper.
// It reports false when the path leaves the wrapper grammar:
//
//   - Binder: only the body (index 0). Crossing a binder on the positive side
//     introduces a universal quantifier, on the negative side an existential.
//   - Branch: only the conclusion (index 1).
//   - Group: only the argument of a negation (= 'false' Y) (index 2), which
//     flips the polarity.
func WrapperOf(pos navi.Position) (*Wrapper, bool) {
	w := &Wrapper{pos: pos, positive: true, noUniversal: true, noExistential: true}

	cur := pos.Root()
	for _, i := range pos.Path() {
		switch v := cur.(type) {
		case term.Binder:
			if i != 0 {
				return nil, false
			}
			if w.positive {
				w.noUniversal = false
			} else {
				w.noExistential = false
			}
			cur = v.Body
		case term.Branch:
			if i != 1 {
				return nil, false
			}
			cur = v.Conclusion
		case term.Group:
			body, ok := term.NegatedBody(v)
			if !ok || i != 2 {
				return nil, false
			}
			w.positive = !w.positive
			cur = body
		default:
			return nil, false
		}
	}
	return w, true
}

// Positive reports whether the wrapped position has even negation depth.
func (w *Wrapper) Positive() bool { return w.positive }

// NoUniversal reports that no binder was crossed on the positive side.
func (w *Wrapper) NoUniversal() bool { return w.noUniversal }

// NoExistential reports that no binder was crossed on the negative side.
func (w *Wrapper) NoExistential() bool { return w.noExistential }

// Position returns the wrapped position.
func (w *Wrapper) Position() navi.Position { return w.pos }

// IsAround reports whether pos lies inside the context described by w.
//
// pos must sit at or below the wrapped position, and the two roots must
// agree along the wrapper path: at each step the current terms are identical
// once the child being descended into is blanked. pos may live in a
// different rule than the wrapper.
func (w *Wrapper) IsAround(pos navi.Position) bool {
	wpath := w.pos.Path()
	ppath := pos.Path()
	if len(ppath) < len(wpath) {
		return false
	}

	a, b := w.pos.Root(), pos.Root()
	for step, i := range wpath {
		if ppath[step] != i {
			return false
		}
		if !term.Equal(blank(a, i), blank(b, i)) {
			return false
		}
		var err error
		if a, err = term.Child(a, i); err != nil {
			return false
		}
		if b, err = term.Child(b, i); err != nil {
			return false
		}
	}
	return true
}

// Equal reports whether w and other describe the same context: the same
// path, and the same roots once each wrapped subterm is blanked.
func (w *Wrapper) Equal(other *Wrapper) bool {
	if other == nil {
		return false
	}
	p1, p2 := w.pos.Path(), other.pos.Path()
	if len(p1) != len(p2) {
		return false
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			return false
		}
	}
	return term.Equal(w.pos.Replace(term.Falsity()), other.pos.Replace(term.Falsity()))
}

// blank replaces child i of t with 'false'.
func blank(t term.Term, i int) term.Term {
	out, err := term.WithChild(t, i, term.Falsity())
	if err != nil {
		return t
	}
	return out
}
