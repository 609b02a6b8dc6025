package depsolve

// RuleClass is the closed, ordered set of rule classes from spec.md
// §3 "Rule classes (closed set, listed in construction order...)".
type RuleClass uint8

const (
	ClassPackage RuleClass = iota
	ClassJob
	ClassInfarch
	ClassDup
	ClassUpdate
	ClassBest
	ClassYumobs
	ClassChoice
	ClassLearnt
)

func (c RuleClass) String() string {
	switch c {
	case ClassPackage:
		return "package"
	case ClassJob:
		return "job"
	case ClassInfarch:
		return "infarch"
	case ClassDup:
		return "dup"
	case ClassUpdate:
		return "update"
	case ClassBest:
		return "best"
	case ClassYumobs:
		return "yumobs"
	case ClassChoice:
		return "choice"
	case ClassLearnt:
		return "learnt"
	default:
		return "unknown"
	}
}

// RuleInfoKind tags why a rule exists, used by problem reporting and
// decision-reason introspection (spec.md §4.5/§6).
type RuleInfoKind uint8

const (
	InfoRequires RuleInfoKind = iota
	InfoConflicts
	InfoObsoletes
	InfoSameName
	InfoImplicitObsoletes
	InfoMultiversion
	InfoUpdate
	InfoFeature
	InfoInfarch
	InfoDup
	InfoBest
	InfoYumobs
	InfoChoice
	InfoJob
	InfoLearnt
)

// Rule is the central constraint object from spec.md §3: a disjunction
// of signed solvable-id literals (positive p means "install p", negative
// p means "do not install p").
//
// Binary/unary shape: Lits holds nil and P/W2 carry the (at most two)
// literals directly; W2 == 0 means P is a unit assertion. Long shape:
// Lits holds the full literal list (len > 2), P is its first literal
// and W2 is 0. This mirrors spec.md's two storage shapes while using an
// explicit per-rule slice instead of an offset into a shared buffer
// (the offset-trick is an optimization, not a contract per §9).
//
// Watch1/Watch2 name the two literals currently being watched (spec.md
// "Watched literal" — may differ from P/W2 once propagation has moved a
// watch to a different position in Lits). Next1/Next2 link this rule
// into the singly-linked watch lists for Watch1 and Watch2
// respectively. Disabled marks a rule inert without discarding its
// contents, so it can be re-enabled later (spec.md "Disabled-rule
// neutrality").
type Rule struct {
	Class RuleClass
	Info  RuleInfoKind

	P  int32 // head literal; signed solvable id
	W2 int32 // second literal for binary/unary rules (0 == unit assertion)

	Lits []int32 // full literal list for rules with more than two literals

	Watch1, Watch2 int32
	Next1, Next2   RuleID

	Disabled bool

	// Job, if this is a ClassJob rule, is the index into the job queue
	// it was derived from — the reverse map back to job index, spec.md
	// §4.2 "Unification".
	Job int

	// Weak marks rules that may be auto-disabled by conflict analysis
	// when they are the last straw in an unsat core (spec.md §4.3
	// "Weak rules"). Choice rules are always weak.
	Weak bool
}

// Literals returns every literal in the rule, in storage order.
func (r *Rule) Literals() []int32 {
	if len(r.Lits) > 0 {
		return r.Lits
	}
	if r.W2 == 0 {
		return []int32{r.P}
	}
	return []int32{r.P, r.W2}
}

// IsAssertion reports whether the rule is a unit clause (single
// literal).
func (r *Rule) IsAssertion() bool {
	return len(r.Lits) == 0 && r.W2 == 0
}

// ruleRange is a half-open [Start,End) range of rule ids owned by one
// RuleClass, per spec.md §3 "each class owns a half-open range".
type ruleRange struct {
	Start, End RuleID
}
