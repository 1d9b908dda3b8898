package navi

import (
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// Position is a subterm of a root term, reached by a validated path.
// Positions are values; moving around returns new positions.
type Position struct {
	root term.Term
	path []int
	node term.Term
}

// NewPosition resolves path below root.
func NewPosition(root term.Term, path []int) (Position, error) {
	if root == nil {
		return Position{}, trace.New("nil root")
	}
	node := root
	for depth, i := range path {
		child, err := term.Child(node, i)
		if err != nil {
			return Position{}, trace.Wrap(err, "path %v invalid at depth %d", path, depth)
		}
		node = child
	}
	return Position{root: root, path: clonePath(path), node: node}, nil
}

// Term returns the subterm at p.
func (p Position) Term() term.Term { return p.node }

// Root returns the root term p lives in.
func (p Position) Root() term.Term { return p.root }

// Path returns a copy of the child path from the root to p.
func (p Position) Path() []int { return clonePath(p.path) }

// Depth is the length of the path.
func (p Position) Depth() int { return len(p.path) }

// Parent returns the enclosing position.
func (p Position) Parent() (Position, error) {
	if len(p.path) == 0 {
		return Position{}, trace.New("position at the root has no parent")
	}
	return NewPosition(p.root, p.path[:len(p.path)-1])
}

// Child returns child i of p.
func (p Position) Child(i int) (Position, error) {
	child, err := term.Child(p.node, i)
	if err != nil {
		return Position{}, trace.Wrap(err, "at %v", p.path)
	}
	path := make([]int, len(p.path), len(p.path)+1)
	copy(path, p.path)
	return Position{root: p.root, path: append(path, i), node: child}, nil
}

// LeftSibling returns the previous child of the parent.
func (p Position) LeftSibling() (Position, error) {
	if len(p.path) == 0 {
		return Position{}, trace.New("position at the root has no siblings")
	}
	last := p.path[len(p.path)-1]
	if last == 0 {
		return Position{}, trace.New("position %v has no left sibling", p.path)
	}
	return p.sibling(last - 1)
}

// RightSibling returns the next child of the parent.
func (p Position) RightSibling() (Position, error) {
	if len(p.path) == 0 {
		return Position{}, trace.New("position at the root has no siblings")
	}
	return p.sibling(p.path[len(p.path)-1] + 1)
}

func (p Position) sibling(i int) (Position, error) {
	parent, err := p.Parent()
	if err != nil {
		return Position{}, err
	}
	return parent.Child(i)
}

// IsCompleteBool reports whether the subterm is a truth value on its own: an
// equation, a binder, 'true' or 'false'.
func (p Position) IsCompleteBool() bool {
	switch v := p.node.(type) {
	case term.Binder:
		return true
	case term.Atom:
		return v == term.Truth() || v == term.Falsity()
	default:
		return term.IsEquation(p.node)
	}
}

// IsBool reports whether the subterm stands in a boolean place. That holds
// for complete booleans and for anything at the root of a rule or directly
// below a binder or a branch.
func (p Position) IsBool() bool {
	if p.IsCompleteBool() {
		return true
	}
	parent, err := p.Parent()
	if err != nil {
		return true
	}
	switch parent.node.(type) {
	case term.Binder, term.Branch:
		return true
	}
	return false
}

// Replace returns a copy of the root with the subterm at p replaced by c.
// The root p was resolved against is not modified.
func (p Position) Replace(c term.Term) term.Term {
	return replaceAt(p.root, p.path, c)
}

func replaceAt(t term.Term, path []int, c term.Term) term.Term {
	if len(path) == 0 {
		return c
	}
	child, err := term.Child(t, path[0])
	if err != nil {
		// p.path was validated against p.root by NewPosition.
		panic(err)
	}
	out, err := term.WithChild(t, path[0], replaceAt(child, path[1:], c))
	if err != nil {
		panic(err)
	}
	return out
}

// Handle returns a handle for p in rule.
func (p Position) Handle(rule int) Handle {
	return Handle{Rule: rule, Path: clonePath(p.path)}
}
