package depsolve

import (
	"bytes"
	"fmt"
)

// DebugChecks gates the "structural invariants are unreachable" panics
// called out in spec.md §7. Off by default; a caller building a debug
// binary flips it on to get watch-invariant/decisionmap-desync panics
// that name the offending rule id and trail position, mirroring the
// teacher's scattered panic("canary - ...") sites in solver.go, but
// collected into one helper instead of repeated ad hoc panics.
var DebugChecks = false

func debugAssert(cond bool, format string, args ...interface{}) {
	if DebugChecks && !cond {
		panic(fmt.Sprintf("depsolve: invariant violated: "+format, args...))
	}
}

// traceError is implemented by failures that can render a terser,
// indentation-friendly form for trace/verbose output, alongside the
// full Error() string used for the public API.
type traceError interface {
	traceString() string
}

// badOptsFailure indicates a problem with solver construction inputs
// (bad flag, empty pool, nil collaborator): a fail-fast, no-solver-state
// case per spec.md §7 "Input errors".
type badOptsFailure string

func (e badOptsFailure) Error() string { return string(e) }

// noProviderFailure corresponds to the NOTHING_PROVIDES_DEP rule tag in
// spec.md §4.2: a requires dependency had no providers at rule-build
// time and the requiring solvable was not eligible for dontfix
// treatment.
type noProviderFailure struct {
	of  SolvableID
	dep DepID
}

func (e *noProviderFailure) Error() string {
	return fmt.Sprintf("nothing provides dependency needed by solvable %d", e.of)
}

func (e *noProviderFailure) traceString() string {
	return fmt.Sprintf("solvable %d: dep %d unresolved, no providers", e.of, e.dep)
}

// disjointConstraintFailure indicates two active dependers require
// mutually exclusive version ranges of the same name; used by problem
// reporting when explaining why a particular literal could never be
// chosen true.
type disjointConstraintFailure struct {
	name  NameID
	first SolvableID
	other SolvableID
}

func (e *disjointConstraintFailure) Error() string {
	return fmt.Sprintf("constraints on name %d from solvable %d and solvable %d have no overlap", e.name, e.first, e.other)
}

func (e *disjointConstraintFailure) traceString() string {
	return fmt.Sprintf("name %d: %d vs %d disjoint", e.name, e.first, e.other)
}

// ruleConflictFailure wraps a single conflicting Rule discovered during
// unit propagation, used to build the human-readable problem report.
type ruleConflictFailure struct {
	rule RuleID
	why  string
}

func (e *ruleConflictFailure) Error() string {
	if e.why == "" {
		return fmt.Sprintf("rule %d is unsatisfiable", e.rule)
	}
	return fmt.Sprintf("rule %d is unsatisfiable: %s", e.rule, e.why)
}

func (e *ruleConflictFailure) traceString() string {
	return fmt.Sprintf("rule %d conflicts", e.rule)
}

// multiProblemFailure aggregates several independent problems found in
// one solve() call (analyze_unsolvable continues after disabling one of
// the involved rules, so more than one problem can surface per run).
type multiProblemFailure struct {
	problems []*Problem
}

func (e *multiProblemFailure) Error() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d problem(s) prevent the job from being solved:\n", len(e.problems))
	for i, p := range e.problems {
		fmt.Fprintf(&buf, "  problem %d: %d rule(s) involved\n", i+1, len(p.Rules))
	}
	return buf.String()
}
