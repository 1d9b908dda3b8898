// Package harness replays proof scripts against the inference engine.
//
// A proof script names a rule source and a list of law applications. Each
// step either expects a derived rule (expect) or expects the law to be
// rejected with an error containing a given text (error). After the steps,
// the script may check the final rule count and assert properties of the
// final database.
//
// Scripts are written in YAML or CUE:
//
//	name: equals-substitution
//	description: substitute x by y
//	rules: "(= x y). {0 (p x)}."
//	steps:
//	  - law: equals
//	    handles: ["2/0/1", "1"]
//	    expect: "{0 (p y)}."
//	final: 4
//
// Each script runs against a fresh database whose session id is fixed by
// the script, so logs and golden snapshots are reproducible. Expected rules
// are normalized before comparison; mismatches are reported with a diff.
//
// The harness-only step "delete" removes a derived rule by handle.
package harness
