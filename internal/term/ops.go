package term

import (
	"github.com/roach88/srl/internal/trace"
)

// Arity returns the number of children of t.
// Group: number of children; Binder: 1; Branch: 2; Atom and Ref: 0.
func Arity(t Term) int {
	switch v := t.(type) {
	case Atom, Ref:
		return 0
	case Group:
		return len(v.Children)
	case Binder:
		return 1
	case Branch:
		return 2
	default:
		panic("term: unknown term type")
	}
}

// Child returns child i of t.
func Child(t Term, i int) (Term, error) {
	if i < 0 || i >= Arity(t) {
		return nil, trace.New("child %d out of range for %s of arity %d", i, KindOf(t), Arity(t))
	}
	switch v := t.(type) {
	case Group:
		return v.Children[i], nil
	case Binder:
		return v.Body, nil
	case Branch:
		if i == 0 {
			return v.Condition, nil
		}
		return v.Conclusion, nil
	default:
		// Atom and Ref have arity 0 and were rejected above.
		panic("term: unreachable")
	}
}

// Children returns the children of t in order. The returned slice is fresh.
func Children(t Term) []Term {
	switch v := t.(type) {
	case Atom, Ref:
		return nil
	case Group:
		out := make([]Term, len(v.Children))
		copy(out, v.Children)
		return out
	case Binder:
		return []Term{v.Body}
	case Branch:
		return []Term{v.Condition, v.Conclusion}
	default:
		panic("term: unknown term type")
	}
}

// WithChild returns a copy of t whose child i is c. t is left untouched.
func WithChild(t Term, i int, c Term) (Term, error) {
	if i < 0 || i >= Arity(t) {
		return nil, trace.New("cannot replace child %d of %s with arity %d", i, KindOf(t), Arity(t))
	}
	switch v := t.(type) {
	case Group:
		children := make([]Term, len(v.Children))
		copy(children, v.Children)
		children[i] = c
		return Group{Children: children}, nil
	case Binder:
		return Binder{ID: v.ID, Body: c}, nil
	case Branch:
		if i == 0 {
			return Branch{Condition: c, Conclusion: v.Conclusion}, nil
		}
		return Branch{Condition: v.Condition, Conclusion: c}, nil
	default:
		panic("term: unreachable")
	}
}

// Equal reports whether a and b are structurally identical.
// Binder and Ref ids are compared literally; use AlphaEqual to compare
// modulo consistent renaming of binder ids.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Atom:
		y, ok := b.(Atom)
		return ok && x == y
	case Ref:
		y, ok := b.(Ref)
		return ok && x.ID == y.ID
	case Group:
		y, ok := b.(Group)
		if !ok || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !Equal(x.Children[i], y.Children[i]) {
				return false
			}
		}
		return true
	case Binder:
		y, ok := b.(Binder)
		return ok && x.ID == y.ID && Equal(x.Body, y.Body)
	case Branch:
		y, ok := b.(Branch)
		return ok && Equal(x.Condition, y.Condition) && Equal(x.Conclusion, y.Conclusion)
	case nil:
		return b == nil
	default:
		panic("term: unknown term type")
	}
}

// AlphaEqual reports whether a and b are equal after normalization.
// Terms that fail to normalize (escaping references, reused ids) are only
// alpha-equal to themselves in the structural sense.
func AlphaEqual(a, b Term) bool {
	na, errA := Normalize(a)
	nb, errB := Normalize(b)
	if errA != nil || errB != nil {
		return errA != nil && errB != nil && Equal(a, b)
	}
	return Equal(na, nb)
}

// Matches reports whether pattern stands for t.
//
// Identical terms always match. Two closed terms (both normalize on their
// own) also match when they are alpha-equivalent. Open subterms, whose
// references point at binders outside them, only match literally: their ids
// are meaningful only relative to the surrounding rule. No placeholders exist
// and nothing is bound across calls.
func Matches(pattern, t Term) bool {
	if Equal(pattern, t) {
		return true
	}
	np, err := Normalize(pattern)
	if err != nil {
		return false
	}
	nt, err := Normalize(t)
	if err != nil {
		return false
	}
	return Equal(np, nt)
}

// EquationArgs returns a and b when t is the equation (= a b).
func EquationArgs(t Term) (Term, Term, error) {
	g, ok := t.(Group)
	if !ok {
		return nil, nil, trace.New("not an equality term: %s is not a group", KindOf(t))
	}
	if len(g.Children) != 3 {
		return nil, nil, trace.New("not an equality term: group has %d children, want 3", len(g.Children))
	}
	if !Equal(g.Children[0], EqualsHead()) {
		return nil, nil, trace.New("not an equality term: head is not =")
	}
	return g.Children[1], g.Children[2], nil
}

// IsEquation reports whether t is an equation.
func IsEquation(t Term) bool {
	_, _, err := EquationArgs(t)
	return err == nil
}

// NegatedBody returns x when t is the negation pattern (= 'false' x).
func NegatedBody(t Term) (Term, bool) {
	a, b, err := EquationArgs(t)
	if err != nil || !Equal(a, Falsity()) {
		return nil, false
	}
	return b, true
}

// IsConstant reports whether t is a quoted atom.
func IsConstant(t Term) bool {
	a, ok := t.(Atom)
	return ok && a.Constant
}

// Fold accumulates over t in pre-order: a node is visited before its
// children, children left to right.
func Fold[A any](t Term, acc A, fn func(Term, A) A) A {
	acc = fn(t, acc)
	switch v := t.(type) {
	case Atom, Ref:
		return acc
	case Group:
		for _, c := range v.Children {
			acc = Fold(c, acc, fn)
		}
		return acc
	case Binder:
		return Fold(v.Body, acc, fn)
	case Branch:
		acc = Fold(v.Condition, acc, fn)
		return Fold(v.Conclusion, acc, fn)
	default:
		panic("term: unknown term type")
	}
}

// ContainsName reports whether any atom in t is spelled text.
// Constants are compared with their quotes, so "x" and "'x'" differ.
func ContainsName(t Term, text string) bool {
	return Fold(t, false, func(n Term, found bool) bool {
		if found {
			return true
		}
		a, ok := n.(Atom)
		return ok && a.Text() == text
	})
}

// ReplaceAll replaces every subterm of t structurally equal to target with
// replacement. A replaced subterm is not searched again.
func ReplaceAll(t, target, replacement Term) Term {
	if Equal(t, target) {
		return replacement
	}
	switch v := t.(type) {
	case Atom, Ref:
		return v
	case Group:
		children := make([]Term, len(v.Children))
		for i, c := range v.Children {
			children[i] = ReplaceAll(c, target, replacement)
		}
		return Group{Children: children}
	case Binder:
		return Binder{ID: v.ID, Body: ReplaceAll(v.Body, target, replacement)}
	case Branch:
		return Branch{
			Condition:  ReplaceAll(v.Condition, target, replacement),
			Conclusion: ReplaceAll(v.Conclusion, target, replacement),
		}
	default:
		panic("term: unknown term type")
	}
}

// Size returns the number of nodes in t.
func Size(t Term) int {
	return Fold(t, 0, func(_ Term, n int) int { return n + 1 })
}
