package depsolve

// SolverFlags is the closed set of boolean solver flags from spec.md §6.
// All default false except where noted.
type SolverFlags struct {
	AllowDowngrade           bool
	AllowArchChange          bool
	AllowVendorChange        bool
	AllowUninstall           bool
	NoUpdateProvide          bool
	SplitProvides            bool
	IgnoreRecommended        bool
	IgnoreAlreadyRecommended bool // default true in some configurations; caller decides
	NoInfarchCheck           bool
	BestObeyPolicy           bool
	KeepOrphans              bool
	YumObsoletes             bool
	NeedUpdateProvide        bool
	ForceBest                bool
	ObsoleteUsesProvides     bool
	ObsoleteUsesColors       bool
	ImplicitObsoleteUsesColors bool
	NoInstalledObsoletes     bool
	ForbidSelfConflicts      bool
}

// JobAction is the closed set of job actions from spec.md §4.2.
type JobAction uint8

const (
	JobInstall JobAction = iota
	JobErase
	JobUpdate
	JobLock
	JobDistupgrade
	JobVerify
	JobUserInstalled
	JobDropOrphaned
	JobNoObsoletes
	JobFavor
	JobDisfavor
)

// SelectionMode is the closed set of ways a job's "what" resolves to a
// set of solvables, from spec.md §4.2.
type SelectionMode uint8

const (
	SelectSolvable SelectionMode = iota
	SelectName
	SelectProvides
	SelectOneOf
	SelectRepo
	SelectAll
)

// JobModifier is a bitmask of the SOLVER_WEAK/ESSENTIAL/CLEANDEPS/...
// job modifier bits from spec.md §4.2/§6.
type JobModifier uint32

const (
	ModWeak JobModifier = 1 << iota
	ModEssential
	ModCleandeps
	ModForceBest
	ModNoObsoletes
	ModSetEV
	ModSetArch
	ModSetVendor
	ModSetRepo
	ModTargeted
	ModNoAutoSet
)

// JobEntry is one (how, what) pair in the job queue. "What" is encoded
// as either a single SolvableID (SelectSolvable), a NameID
// (SelectName), a DepID (SelectProvides),
// a list of SolvableIDs (SelectOneOf), or a RepoID (SelectRepo);
// SelectAll ignores What entirely. Exactly one of the What* fields is
// meaningful, chosen by Selection.
type JobEntry struct {
	Action    JobAction
	Selection SelectionMode
	Modifiers JobModifier

	WhatSolvable SolvableID
	WhatName     NameID
	WhatDep      DepID
	WhatRepo     RepoID
	WhatList     []SolvableID
}

func (j JobEntry) has(m JobModifier) bool { return j.Modifiers&m != 0 }
