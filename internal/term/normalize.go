package term

import (
	"github.com/roach88/srl/internal/trace"
)

// scopeTable threads the binder ids seen so far through a normalization walk.
//
// Entries are never removed: a closed binder keeps its slot so that a later
// reference to it is reported as escaping rather than as unknown, and so that
// a later binder reusing the id is rejected. The table is shared across
// siblings, which means two sibling binders may not reuse a raw id either.
type scopeTable struct {
	ids  []int
	open []bool
}

func (s *scopeTable) indexOf(id int) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Normalize renumbers the binders of t canonically from 0.
// See NormalizeFrom.
func Normalize(t Term) (Term, error) {
	return NormalizeFrom(t, 0)
}

// NormalizeFrom renumbers the binders of t canonically, starting at offset.
//
// Binders get ids offset, offset+1, ... in pre-order (outer before inner,
// left before right). Each reference gets the new id of the binder it
// resolves to. The result is either a complete new term or an error; there is
// no partial output and no repair:
//   - a binder whose raw id was already used anywhere earlier in the walk fails
//   - a reference to an id never opened fails
//   - a reference to a binder that has already closed fails
func NormalizeFrom(t Term, offset int) (Term, error) {
	if offset < 0 {
		return nil, trace.New("negative normalization offset %d", offset)
	}
	table := &scopeTable{}
	return normalize(t, table, offset)
}

func normalize(t Term, table *scopeTable, offset int) (Term, error) {
	switch v := t.(type) {
	case Atom:
		return v, nil
	case Group:
		if len(v.Children) == 0 {
			return nil, trace.New("empty group")
		}
		children := make([]Term, len(v.Children))
		for i, c := range v.Children {
			n, err := normalize(c, table, offset)
			if err != nil {
				return nil, err
			}
			children[i] = n
		}
		return Group{Children: children}, nil
	case Binder:
		if table.indexOf(v.ID) >= 0 {
			return nil, trace.New("id %d used twice", v.ID)
		}
		table.ids = append(table.ids, v.ID)
		table.open = append(table.open, true)
		slot := len(table.ids) - 1
		body, err := normalize(v.Body, table, offset)
		if err != nil {
			return nil, err
		}
		table.open[slot] = false
		return Binder{ID: slot + offset, Body: body}, nil
	case Ref:
		slot := table.indexOf(v.ID)
		if slot < 0 {
			return nil, trace.New("id %d is not in scope %v", v.ID, table.ids)
		}
		if !table.open[slot] {
			return nil, trace.New("id %d is already out of scope", v.ID)
		}
		return Ref{ID: slot + offset}, nil
	case Branch:
		cond, err := normalize(v.Condition, table, offset)
		if err != nil {
			return nil, err
		}
		concl, err := normalize(v.Conclusion, table, offset)
		if err != nil {
			return nil, err
		}
		return Branch{Condition: cond, Conclusion: concl}, nil
	default:
		return nil, trace.New("unknown term type %T", t)
	}
}

// NextID returns one more than the highest raw binder id in t, or 0 when t
// has no binders. Binding a fresh binder to NextID(t) cannot collide.
func NextID(t Term) int {
	return Fold(t, 0, func(n Term, next int) int {
		if b, ok := n.(Binder); ok && b.ID+1 > next {
			return b.ID + 1
		}
		return next
	})
}

// IsClosed reports whether t normalizes on its own, i.e. every reference in
// it is bound inside it and no binder id is reused.
func IsClosed(t Term) bool {
	_, err := Normalize(t)
	return err == nil
}
