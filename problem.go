package depsolve

// Problem is one independent unsatisfiable core discovered during
// solving, per spec.md §4.5: the set of rules whose simultaneous
// satisfaction is impossible, as collected by analyzeUnsolvable.
type Problem struct {
	id    RuleID
	Rules []RuleID
}

// ID returns the 1-based problem number, stable for the lifetime of
// one Solve() call, used to correlate with Solution.Problems.
func (p *Problem) ID() int { return int(p.id) }

// Solution is the top-level result of a Solve() call. Problems is
// non-empty exactly when the job was unsatisfiable; Assignment and
// Decisions are only meaningful when Problems is empty (spec.md §7
// "Unsatisfiable jobs: not an error").
type Solution struct {
	Decisions  []int32
	Problems   []*Problem
	Assignment map[SolvableID]bool
}

// ProblemSolution is one user-applicable fix for a Problem — spec.md
// §4.5 "Solutions: job-modifier conversions a caller could apply to
// make the job satisfiable": dropping a job entry entirely, or
// retrying it with a relaxed modifier (allow downgrade/arch
// change/vendor change, or force a distupgrade).
type ProblemSolution struct {
	Job         int
	Description string
	DropJob     bool
	Relax       JobModifier
}

// RuleInfo is the decision-reason introspection record from spec.md
// §4.5/§6: which rule, what kind of rule it is, and the solvables/dep
// involved, suitable for rendering a human explanation of why a
// package is (or isn't) part of the solution.
type RuleInfo struct {
	Rule   RuleID
	Class  RuleClass
	Kind   RuleInfoKind
	Source SolvableID
	Target SolvableID
	Dep    DepID
}

// RuleInfo decodes rule id into a reportable record. Binary/unit rules
// expose Source as the literal that drives the rule (the requiring or
// conflicting solvable) and Target as the other side when there is
// exactly one; long rules leave Target zero since there may be many.
func (s *Solver) RuleInfo(id RuleID) RuleInfo {
	r := s.ruleByID(id)
	info := RuleInfo{Rule: id, Class: r.Class, Kind: r.Info}
	lits := r.Literals()
	if len(lits) > 0 {
		info.Source = SolvableID(abs32(lits[0]))
	}
	if len(lits) == 2 {
		info.Target = SolvableID(abs32(lits[1]))
	}
	return info
}

// ProblemRuleInfo is an alias for RuleInfo kept for API parity with
// libsolv's solver_problemruleinfo, which is a thin wrapper around the
// same lookup solver_ruleinfo performs (spec.md §9 Open Question 2 — see
// DESIGN.md).
func (s *Solver) ProblemRuleInfo(id RuleID) RuleInfo { return s.RuleInfo(id) }

// FindProblemRule picks the single most useful representative rule
// from a Problem for short-form reporting, preferring the rule that
// most directly *explains* the conflict — a requires or conflicts rule
// — over the job rule that merely started the chain, per spec.md §4.5
// "solver_findproblemrule: preferring assertion requires > jobassert
// requires > installed-involved requires > other requires > conflicts >
// update > job." Job rules are the least preferred representative: they
// say what the caller wanted, not why it failed. All requires-shaped
// package rules share the top rank (see rulePriority): assertion,
// jobassert and installed-involved requires are not told apart, and
// among equally ranked rules the earliest in p.Rules wins.
func (s *Solver) FindProblemRule(p *Problem) RuleID {
	best := p.Rules[0]
	bestRule := s.ruleByID(best)
	for _, rid := range p.Rules[1:] {
		r := s.ruleByID(rid)
		if rulePriority(r) < rulePriority(bestRule) {
			best, bestRule = rid, r
		}
	}
	return best
}

// rulePriority ranks a rule by how directly it explains a conflict,
// lowest first: a requires-shaped package rule is the clearest
// explanation, a job rule (what the caller asked for, not why it broke)
// the least useful representative.
func rulePriority(r *Rule) int {
	switch r.Class {
	case ClassPackage:
		switch r.Info {
		case InfoConflicts, InfoObsoletes:
			return 1
		default: // InfoRequires, InfoSameName, InfoImplicitObsoletes, InfoMultiversion
			return 0
		}
	case ClassInfarch:
		return 2
	case ClassDup:
		return 3
	case ClassUpdate, ClassBest:
		return 4
	case ClassYumobs, ClassChoice:
		return 5
	case ClassLearnt:
		return 6
	case ClassJob:
		return 7
	default:
		return 8
	}
}

// Solutions proposes, for each job-derived rule implicated in p, a way
// to relax that job so the overall set becomes satisfiable — spec.md
// §4.5 "create_solutions / prepare_solutions". The result is advisory:
// callers still need to retry Solve() with an adjusted job list to
// confirm a proposed relaxation actually works.
func (s *Solver) Solutions(p *Problem) []ProblemSolution {
	var out []ProblemSolution
	seenJob := map[int]bool{}
	for _, rid := range p.Rules {
		r := s.ruleByID(rid)
		switch r.Class {
		case ClassJob:
			idx, ok := s.ruleToJob[rid]
			if !ok || seenJob[idx] {
				continue
			}
			seenJob[idx] = true
			out = append(out, ProblemSolution{Job: idx, Description: "do not ask for this job", DropJob: true})
		case ClassUpdate, ClassBest:
			idx, ok := s.ruleToJob[rid]
			if !ok {
				idx = -1
			}
			out = append(out, ProblemSolution{Job: idx, Description: "allow downgrade/arch/vendor change", Relax: ModNoAutoSet})
		}
	}
	return out
}
