// Package navi addresses positions inside the rules of a database.
//
// A Handle is plain data: a rule index plus a path of child indices. It does
// not hold on to the rule it points into, so a handle may outlive deletions
// and must be resolved again (Handle.Resolve) before use. A Position is a
// resolved handle: the root term together with a validated path.
package navi

import (
	"strconv"
	"strings"

	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// Handle identifies a subterm by rule index and child path.
type Handle struct {
	Rule int
	Path []int
}

// NewHandle returns a handle for rule with the given path. The path is copied.
func NewHandle(rule int, path ...int) Handle {
	return Handle{Rule: rule, Path: clonePath(path)}
}

// ParseHandle parses the textual form "R" or "R/i/j/...".
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Handle{}, trace.New("empty handle")
	}
	parts := strings.Split(s, "/")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Handle{}, trace.New("invalid handle %q: segment %d is not a non-negative integer", s, i)
		}
		nums[i] = n
	}
	return Handle{Rule: nums[0], Path: nums[1:]}, nil
}

// String returns the textual form of h, e.g. "2/0/1".
func (h Handle) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(h.Rule))
	for _, i := range h.Path {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

// Equal reports whether h and other address the same position.
func (h Handle) Equal(other Handle) bool {
	return h.Rule == other.Rule && pathEqual(h.Path, other.Path)
}

// Parent returns the handle one level up. The root of a rule has no parent.
func (h Handle) Parent() (Handle, error) {
	if len(h.Path) == 0 {
		return Handle{}, trace.New("handle %s has no parent", h)
	}
	return Handle{Rule: h.Rule, Path: clonePath(h.Path[:len(h.Path)-1])}, nil
}

// Child returns the handle of child i below h.
func (h Handle) Child(i int) Handle {
	path := make([]int, len(h.Path), len(h.Path)+1)
	copy(path, h.Path)
	return Handle{Rule: h.Rule, Path: append(path, i)}
}

// LeftSibling returns the handle of the previous sibling.
func (h Handle) LeftSibling() (Handle, error) {
	if len(h.Path) == 0 {
		return Handle{}, trace.New("handle %s has no siblings", h)
	}
	last := h.Path[len(h.Path)-1]
	if last == 0 {
		return Handle{}, trace.New("handle %s has no left sibling", h)
	}
	return h.withLast(last - 1), nil
}

// RightSibling returns the handle of the next sibling. Whether that sibling
// exists is only known once the handle is resolved.
func (h Handle) RightSibling() (Handle, error) {
	if len(h.Path) == 0 {
		return Handle{}, trace.New("handle %s has no siblings", h)
	}
	return h.withLast(h.Path[len(h.Path)-1] + 1), nil
}

func (h Handle) withLast(i int) Handle {
	path := clonePath(h.Path)
	path[len(path)-1] = i
	return Handle{Rule: h.Rule, Path: path}
}

// Resolve looks h up in rules.
func (h Handle) Resolve(rules []term.Term) (Position, error) {
	if h.Rule < 0 || h.Rule >= len(rules) {
		return Position{}, trace.New("rule %d out of range, database has %d rules", h.Rule, len(rules))
	}
	pos, err := NewPosition(rules[h.Rule], h.Path)
	if err != nil {
		return Position{}, trace.Wrap(err, "resolve %s", h)
	}
	return pos, nil
}

// Valid reports whether h resolves in rules.
func (h Handle) Valid(rules []term.Term) bool {
	_, err := h.Resolve(rules)
	return err == nil
}

func clonePath(path []int) []int {
	if len(path) == 0 {
		return []int{}
	}
	out := make([]int, len(path))
	copy(out, path)
	return out
}

func pathEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
