// Package term provides the term model of the SRL kernel.
//
// This package is the foundational layer: every other internal package
// imports term; term imports nothing internal except trace. It holds the
// five-shape term variant, the structural operations on it (child access,
// copy-on-write replacement, equality, matching, substitution, folding),
// binder normalization, and the canonical encoding used for content hashes.
//
// Key design constraints:
//   - Term is a sealed interface; Atom, Group, Binder, Ref and Branch are the
//     only implementations and every operation switches over all five.
//   - Terms are values. No operation mutates its input; replacement always
//     builds a new tree. Slices inside a Group are never written after
//     construction, so subtrees may be shared freely.
//   - Binding is by numeric id, never by pointer, so no term is cyclic.
package term
