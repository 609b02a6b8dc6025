package depsolve

import "fmt"

// Solver is the CDCL-style constraint solver from spec.md §4.3: a
// single-threaded, cooperative engine specialized to the package
// management satisfiability problem. One Solver is built per solve;
// Rules and decision state are private to it (spec.md §5 "Rules and
// decision state are private per Solver").
type Solver struct {
	pool *Pool
	opts Options

	rules  []Rule
	ranges map[RuleClass]ruleRange

	// watches maps a literal to the id of the first rule watching it;
	// Rule.Next1/Next2 link the rest of that literal's watch list.
	// Addressed directly by signed literal (no "middle offset" trick is
	// needed in Go the way libsolv addresses a C array from its
	// midpoint — a map gives the same O(1) expected lookup without
	// requiring solvable ids to be pre-sized).
	watches map[int32]RuleID

	// decisionmap[p] encodes both whether solvable p is decided and at
	// what level, per spec.md §3: 0 undecided, +(L+1) installed at level
	// L, -(L+1) conflicted at level L (see levelOf).
	decisionmap []int32

	// trail is the append-only decisionq: signed literals in decision
	// order. trailWhy[i] is the rule that forced trail[i] (RuleNone for
	// a free policy-driven branch).
	trail    []int32
	trailWhy []RuleID

	level          int
	propagateIndex int

	// multiversion marks names permitted to have more than one
	// installed solvable simultaneously (spec.md §3 "Multiversion").
	multiversion map[NameID]bool
	// noobsoletes marks names exempted from obsoletes handling for this
	// job (SOLVER_NOOBSOLETES).
	noobsoletes map[NameID]bool

	// dupmap/dupinvolvedmap drive distupgrade rule construction, spec.md
	// §4.2 "Dup rules".
	dupmap         map[SolvableID]bool
	dupinvolvedmap map[NameID]bool

	ruleToJob map[RuleID]int

	// learntPool records, per learnt rule (keyed by the learnt rule's
	// RuleID), the chain of source rule ids resolved to produce
	// it, supporting later explanation (spec.md §4.3).
	learntPool map[RuleID][]RuleID

	problems []*Problem

	attempts int
}

// NewSolver constructs a Solver over opts.Pool, ready to have rules
// built and Solve() called. Mirrors the teacher's Prepare(params,
// sm)-then-Solve() split (solver.go in the teacher), generalized from
// "Go packages + SourceManager" to "Pool + Options".
func NewSolver(opts Options) (*Solver, error) {
	if opts.Pool == nil {
		return nil, badOptsFailure("must provide a non-nil Pool")
	}
	// rules slot 0 is an inert placeholder so that no real rule gets id
	// 0, which is RuleNone (the watch-list terminator and "free decision"
	// reason).
	s := &Solver{
		pool:           opts.Pool,
		opts:           opts,
		rules:          []Rule{{Disabled: true}},
		ranges:         map[RuleClass]ruleRange{},
		watches:        map[int32]RuleID{},
		decisionmap:    make([]int32, opts.Pool.NumSolvables()),
		multiversion:   map[NameID]bool{},
		noobsoletes:    map[NameID]bool{},
		dupmap:         map[SolvableID]bool{},
		dupinvolvedmap: map[NameID]bool{},
		ruleToJob:      map[RuleID]int{},
		learntPool:     map[RuleID][]RuleID{},
	}
	return s, nil
}

// MarkMultiversion flags name as permitting multiple coexisting
// installed solvables (SOLVER_MULTIVERSION).
func (s *Solver) MarkMultiversion(name NameID) { s.multiversion[name] = true }

// Solve builds the full rule set (§4.2) and runs the CDCL loop (§4.3)
// to completion. On success it returns a Solution with zero problems;
// on an unsatisfiable job it returns a Solution whose Problems slice is
// non-empty, never an error — per spec.md §7 "Unsatisfiable jobs: not
// an error."
func (s *Solver) Solve() (*Solution, error) {
	s.opts.Job = unifyJobs(s.opts.Job)

	if err := s.buildRules(); err != nil {
		return nil, err
	}

	s.opts.trace("solve: %d rules built across %d classes", len(s.rules), len(s.ranges))

	s.runCDCL()

	sol := &Solution{
		Decisions: append([]int32(nil), s.trail...),
		Problems:  s.problems,
	}
	if len(s.problems) == 0 {
		sol.Assignment = s.finalAssignment()
	}
	return sol, nil
}

// finalAssignment reads out every positively-decided solvable id.
func (s *Solver) finalAssignment() map[SolvableID]bool {
	out := map[SolvableID]bool{}
	for id := 1; id < len(s.decisionmap); id++ {
		if s.decisionmap[id] > 0 {
			out[SolvableID(id)] = true
		}
	}
	return out
}

// runCDCL is the top-level decide/propagate/analyze loop (spec.md §4.3
// steps: propagate to fixpoint, then branch, repeating until either
// every rule is satisfied (solved) or branching is exhausted at level 0
// (report accumulated problems and stop — analyze_unsolvable may have
// let solving continue to discover further independent problems first,
// per spec.md §4.3 "Termination").
func (s *Solver) runCDCL() {
	for {
		if conflict, ok := s.propagate(); !ok {
			if !s.resolveConflict(conflict) {
				return
			}
			continue
		}

		lit, done := s.decide()
		if done {
			return
		}
		s.level++
		s.assign(lit, RuleNone)
	}
}

// isTrue/isFalse/isUndef classify a signed literal against the current
// decisionmap.
func (s *Solver) isTrue(lit int32) bool {
	v := s.decisionmap[abs32(lit)]
	if lit > 0 {
		return v > 0
	}
	return v < 0
}

func (s *Solver) isFalse(lit int32) bool {
	v := s.decisionmap[abs32(lit)]
	if lit > 0 {
		return v < 0
	}
	return v > 0
}

func (s *Solver) isUndef(lit int32) bool {
	return s.decisionmap[abs32(lit)] == 0
}

// levelOf decodes the decision level of an already-decided variable.
// decisionmap stores sign*(level+1) rather than sign*level, so that
// level 0 (a fact asserted independent of any branch, e.g. a unit
// learnt clause) still leaves a nonzero magnitude — preserving
// decisionmap[p]==0 as the one unambiguous "still undecided" value.
func (s *Solver) levelOf(v int32) int {
	d := s.decisionmap[v]
	if d < 0 {
		d = -d
	}
	return int(d) - 1
}

// assign pushes lit onto the trail as true, with why as its reason rule
// (RuleNone for a free decision), at the current level.
func (s *Solver) assign(lit int32, why RuleID) {
	v := abs32(lit)
	encoded := int32(s.level) + 1
	if lit > 0 {
		s.decisionmap[v] = encoded
	} else {
		s.decisionmap[v] = -encoded
	}
	s.trail = append(s.trail, lit)
	s.trailWhy = append(s.trailWhy, why)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ruleByID returns a pointer to the rule for id.
func (s *Solver) ruleByID(id RuleID) *Rule {
	return &s.rules[id]
}

// addRule appends a new rule to the solver's rule array with the given
// class/info and literal set (deduplicated, self-tautologies dropped).
// Returns RuleNone if the rule is a trivial tautology (contains a
// literal and its negation) and therefore need not be stored.
func (s *Solver) addRule(class RuleClass, info RuleInfoKind, lits []int32) RuleID {
	lits = dedupeLiterals(lits)
	if lits == nil {
		return RuleNone
	}

	r := Rule{Class: class, Info: info}
	switch len(lits) {
	case 1:
		r.P = lits[0]
	case 2:
		r.P, r.W2 = lits[0], lits[1]
	default:
		r.P = lits[0]
		r.Lits = lits
	}

	id := RuleID(len(s.rules))
	s.rules = append(s.rules, r)
	s.watchRule(id)
	return id
}

func dedupeLiterals(lits []int32) []int32 {
	seen := map[int32]bool{}
	out := make([]int32, 0, len(lits))
	for _, l := range lits {
		if l == 0 || seen[l] {
			continue
		}
		if seen[-l] {
			return nil // tautology: p ∨ ¬p is always true, rule is vacuous
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// watchRule installs the initial two watches for a freshly built rule,
// preferring undecided or true literals over false ones so the watch
// invariant (spec.md §3) holds from the moment the rule is added.
func (s *Solver) watchRule(id RuleID) {
	r := s.ruleByID(id)
	lits := r.Literals()
	w1 := lits[0]
	w2 := w1
	if len(lits) > 1 {
		w2 = lits[1]
	}
	// Prefer watching literals that aren't already false, if any exist
	// further down the list (relevant when learnt rules are added mid-solve).
	if len(lits) > 2 {
		idx := []int{0, 1}
		for i := 2; i < len(lits) && (s.isFalse(lits[idx[0]]) || s.isFalse(lits[idx[1]])); i++ {
			if s.isFalse(lits[idx[0]]) && !s.isFalse(lits[i]) {
				idx[0] = i
			} else if s.isFalse(lits[idx[1]]) && !s.isFalse(lits[i]) {
				idx[1] = i
			}
		}
		w1, w2 = lits[idx[0]], lits[idx[1]]
	}

	r.Watch1, r.Watch2 = w1, w2
	r.Next1 = s.watches[w1]
	s.watches[w1] = id
	if w2 != w1 {
		r.Next2 = s.watches[w2]
		s.watches[w2] = id
	}
}

// litString renders a literal for diagnostics as +/-solvable-id.
func litString(p *Pool, lit int32) string {
	if lit < 0 {
		return fmt.Sprintf("-%s", p.errString(SolvableID(-lit)))
	}
	return fmt.Sprintf("+%s", p.errString(SolvableID(lit)))
}

// Attempts returns the number of conflicts handled by resolveConflict
// over the course of this solve (level-0 conflicts included), analogous
// to the teacher's Solver.attempts.
func (s *Solver) Attempts() int { return s.attempts }
