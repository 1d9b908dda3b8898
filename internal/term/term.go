package term

// Term is a sealed interface representing a node of the term tree.
// Only Atom, Group, Binder, Ref and Branch implement it.
type Term interface {
	term() // Sealed - only these types implement it
}

// Atom is an atomic symbol. Constant marks a quoted constant ('x').
// Name never contains the quotes.
type Atom struct {
	Name     string
	Constant bool
}

func (Atom) term() {}

// Text returns the surface spelling of the atom, quotes included.
func (a Atom) Text() string {
	if a.Constant {
		return "'" + a.Name + "'"
	}
	return a.Name
}

// Group is an ordered, non-empty sequence of terms.
// Children[0] is the head tag (e.g. "=" for an equation).
type Group struct {
	Children []Term
}

func (Group) term() {}

// Binder introduces the bound id ID over Body.
type Binder struct {
	ID   int
	Body Term
}

func (Binder) term() {}

// Ref references the nearest enclosing Binder with the same ID.
type Ref struct {
	ID int
}

func (Ref) term() {}

// Branch is a conditional: if Condition then Conclusion.
type Branch struct {
	Condition  Term
	Conclusion Term
}

func (Branch) term() {}

// Kind names the shape of a term, mostly for diagnostics.
type Kind string

const (
	KindAtom   Kind = "atom"
	KindGroup  Kind = "group"
	KindBinder Kind = "binder"
	KindRef    Kind = "ref"
	KindBranch Kind = "branch"
)

// KindOf returns the shape of t.
func KindOf(t Term) Kind {
	switch t.(type) {
	case Atom:
		return KindAtom
	case Group:
		return KindGroup
	case Binder:
		return KindBinder
	case Ref:
		return KindRef
	case Branch:
		return KindBranch
	default:
		panic("term: unknown term type")
	}
}

// NewAtom creates an ordinary (unquoted) atom.
func NewAtom(name string) Atom {
	return Atom{Name: name}
}

// NewConstant creates a quoted constant atom.
func NewConstant(name string) Atom {
	return Atom{Name: name, Constant: true}
}

// NewGroup creates a group from its children.
// The slice is copied so later writes by the caller cannot reach the term.
func NewGroup(children ...Term) Group {
	c := make([]Term, len(children))
	copy(c, children)
	return Group{Children: c}
}

// NewBinder creates a binder.
func NewBinder(id int, body Term) Binder {
	return Binder{ID: id, Body: body}
}

// NewRef creates a reference.
func NewRef(id int) Ref {
	return Ref{ID: id}
}

// NewBranch creates a conditional.
func NewBranch(condition, conclusion Term) Branch {
	return Branch{Condition: condition, Conclusion: conclusion}
}

// Well-known atoms.
const (
	EqualsName  = "="
	TruthName   = "true"
	FalsityName = "false"
)

// EqualsHead returns the head tag of an equation.
func EqualsHead() Atom { return NewAtom(EqualsName) }

// Truth returns the constant 'true'.
func Truth() Atom { return NewConstant(TruthName) }

// Falsity returns the constant 'false'.
func Falsity() Atom { return NewConstant(FalsityName) }

// Equation builds (= a b).
func Equation(a, b Term) Group {
	return NewGroup(EqualsHead(), a, b)
}

// Negation builds (= 'false' t), the negation pattern.
func Negation(t Term) Group {
	return Equation(Falsity(), t)
}

// Identity returns the built-in rule {0 (= 0 0)}.
func Identity() Binder {
	return NewBinder(0, Equation(NewRef(0), NewRef(0)))
}
