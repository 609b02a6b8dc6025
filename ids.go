package depsolve

// Package-wide identifier types. Everything the solver touches is
// interned to a small integer id: strings, names, relational
// dependencies, solvables, repos, and rules. Keeping each kind of id as
// its own named type (rather than a bare int32) means the compiler
// catches a RuleID handed to a function expecting a SolvableID.

// StringID addresses an interned string in the Pool's string table.
type StringID int32

// NameID addresses an interned package/capability name. Name ids share
// the same numbering space as StringID: every name is also a string,
// but not every string is registered as a name.
type NameID int32

// DepID addresses an interned relational dependency (a "reldep"): a
// plain name, a versioned relation, an arch-qualified name, or a
// structural combinator. See reldep.go.
type DepID int32

// SolvableID addresses a solvable in the Pool's solvable arena. A
// solvable's id is stable for the lifetime of the Pool and equal to its
// index in the arena.
type SolvableID int32

// RepoID addresses a Repo.
type RepoID int32

// RuleID addresses a Rule in the Solver's rule array.
type RuleID int32

const (
	// IDNull is the reserved zero id: "no such string/name/dep/solvable".
	IDNull StringID = 0
	// IDEmptyString is the interned empty string, always id 1.
	IDEmptyString StringID = 1
)

// SystemSolvable is the distinguished solvable id representing the
// running system itself (analogous to libsolv's SYSTEMSOLVABLE): a
// synthetic provider used to anchor namespace dependencies and to give
// the "installed" pseudo-package something to hang job rules off of.
const SystemSolvable SolvableID = 1

// RuleNone is the reserved "no rule" id, used as a decision reason when
// a literal was asserted directly by a job rather than propagated.
const RuleNone RuleID = 0
