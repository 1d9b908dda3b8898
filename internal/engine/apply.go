package engine

import (
	"sort"

	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// Law names, as recorded in derivations and accepted by Apply.
const (
	LawEquals         = "equals"
	LawEqualsBranch   = "equals-branch"
	LawInequality     = "inequality"
	LawAddTruth       = "add-truth"
	LawRemoveTruth    = "remove-truth"
	LawScopeInsertion = "scope-insertion"
	LawScopeCreation  = "scope-creation"
	LawImplication    = "implication"
	LawScopeExchange  = "scope-exchange"
	LawCaseWrap       = "case-wrap"
	LawDeclaration    = "declaration"
)

// Step carries the arguments of one law application in generic form.
// Which fields a law reads is given by its LawInfo.
type Step struct {
	Handles []navi.Handle
	Term    term.Term
	Name    string
	Paths   [][]int
}

// LawInfo describes the arguments a law takes.
type LawInfo struct {
	Name       string
	Handles    int
	NeedsTerm  bool
	NeedsName  bool
	NeedsPaths bool
	Summary    string

	apply func(db *Database, s Step) (term.Term, error)
}

var laws = map[string]LawInfo{
	LawEquals: {
		Handles: 2, Summary: "replace src by the other side of the equation at evidence",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.EqualsSubstitution(s.Handles[0], s.Handles[1])
		},
	},
	LawEqualsBranch: {
		Handles: 2, Summary: "equals, with the equation as a branch condition",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.EqualsSubstitutionInBranch(s.Handles[0], s.Handles[1])
		},
	},
	LawInequality: {
		Handles: 1, Summary: "(= 'x' 'y') becomes 'false'",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.ConstantInequality(s.Handles[0])
		},
	},
	LawAddTruth: {
		Handles: 1, Summary: "x becomes (= 'true' x)",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.AddTruthWrap(s.Handles[0])
		},
	},
	LawRemoveTruth: {
		Handles: 1, Summary: "(= 'true' x) becomes x",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.RemoveTruthWrap(s.Handles[0])
		},
	},
	LawScopeInsertion: {
		Handles: 1, NeedsTerm: true, Summary: "instantiate a positive binder with a term",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.ScopeInsertion(s.Handles[0], s.Term)
		},
	},
	LawScopeCreation: {
		Handles: 1, NeedsPaths: true, Summary: "abstract equal subterms under a new binder",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.ScopeCreation(s.Handles[0], s.Paths)
		},
	},
	LawImplication: {
		Handles: 2, Summary: "[=> a c] and [=> (= 'false' a) c] give c",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.ImplicationDerivation(s.Handles[0], s.Handles[1])
		},
	},
	LawScopeExchange: {
		Handles: 1, Summary: "swap two nested binders",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.ScopeExchange(s.Handles[0])
		},
	},
	LawCaseWrap: {
		Handles: 1, NeedsTerm: true, Summary: "x becomes [=> condition x]",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.CaseWrap(s.Handles[0], s.Term)
		},
	},
	LawDeclaration: {
		Handles: 1, NeedsName: true, Summary: "name the witness of an existential",
		apply: func(db *Database, s Step) (term.Term, error) {
			return db.Declaration(s.Handles[0], s.Name)
		},
	},
}

// Laws returns the descriptions of all laws, sorted by name.
func Laws() []LawInfo {
	out := make([]LawInfo, 0, len(laws))
	for name, info := range laws {
		info.Name = name
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupLaw returns the description of the named law.
func LookupLaw(name string) (LawInfo, bool) {
	info, ok := laws[name]
	info.Name = name
	return info, ok
}

// Apply runs the named law with the arguments in s.
func (db *Database) Apply(law string, s Step) (term.Term, error) {
	info, ok := laws[law]
	if !ok {
		return nil, trace.New("unknown law %q", law)
	}
	if len(s.Handles) != info.Handles {
		return nil, trace.New("law %s takes %d handles, got %d", law, info.Handles, len(s.Handles))
	}
	if info.NeedsTerm && s.Term == nil {
		return nil, trace.New("law %s needs a term", law)
	}
	if info.NeedsName && s.Name == "" {
		return nil, trace.New("law %s needs a name", law)
	}
	return info.apply(db, s)
}
