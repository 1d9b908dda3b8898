// Package engine implements the SRL rule database and its inference laws.
//
// A Database is an ordered list of rules. Rule 0 is the built-in identity
// rule {0 (= 0 0)}; the rules parsed from source follow it. Together they
// are write-protected. New rules are only ever produced by an inference law:
// the law resolves its handles, checks its preconditions, builds a new rule
// and the Database normalizes and appends it. No rule is mutated in place.
//
// LAWS:
//
//	equals            substitute one side of an equation for the other
//	equals-branch     the same, with the equation as a branch condition
//	inequality        two distinct constants are not equal
//	add-truth         x becomes (= 'true' x)
//	remove-truth      (= 'true' x) becomes x
//	scope-insertion   instantiate a positive binder with a term
//	scope-creation    abstract equal subterms under a negative binder
//	implication       [=> a c] and [=> (= 'false' a) c] give c
//	scope-exchange    swap two directly nested binders
//	case-wrap         x becomes [=> c x] under a positive wrapper
//	declaration       name the witness of an existential
//
// Most laws only fire inside a wrapper (see WrapperOf): the context from the
// rule root down to the position must consist of binder bodies, branch
// conclusions and (= 'false' ·) negations, and its polarity and quantifiers
// decide which laws are sound there.
//
// Every appended rule gets a Derivation record stamped by the logical Clock.
// The engine is single-threaded and synchronous.
package engine
