// Package ir is the typed intermediate representation of a constraint model.
//
// A model is a Module: an ordered list of boolean constraints over integer,
// set and string variables. Every expression exposes a statically derived
// description of the values it can take:
//
//   - IntExpr and BoolExpr: Domain, a superset of the possible values.
//   - SetExpr: Env (possible members), Ker (certain members) and Card.
//   - StringExpr: one domain per character position plus a Length domain.
//     Positions past the string's length hold the terminator 0.
//
// Derived descriptions are computed once when a node is built. Nodes are
// immutable and may be shared between constraints and modules.
//
// The expression kinds form closed sets. Code that switches over them
// (Children, Substitution, the analyses in pkg/analysis) panics on a kind it
// does not handle rather than silently skipping it.
//
// Variables are named, temporary (synthesized by an analysis, named tempN),
// or constant. Constants are never listed in Module.Variables and never
// renamed.
package ir
