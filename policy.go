package depsolve

import "sort"

// decide implements the branching step of spec.md §4.3: scan job rules
// first, then keep still-undecided installed solvables that nothing
// superseded (decideKeepInstalled), then the package, infarch, dup,
// update, best, yumobs and choice classes in that order, for the first
// enabled, unsatisfied rule, and return the best remaining candidate
// literal per policy ordering (the caller assigns it at a fresh decision
// level). When no such rule is left it falls through to a
// weak-dependency (recommends) pass before declaring the run solved.
func (s *Solver) decide() (int32, bool) {
	if lit, found := s.decideFromRange(s.ranges[ClassJob]); found {
		return lit, false
	}

	// spec.md §4.3 step 2: before considering any other rule class, pin
	// down installed packages whose same-name replacement wasn't chosen.
	// A weak update rule like "(kernel-1 ∨ kernel-2)" is already satisfied
	// once kernel-2 is installed, so the generic unsatisfied-rule scan
	// below never touches kernel-1 — left at decisionmap==0 it would read
	// as "removed" to finalAssignment/BuildTransaction even though nothing
	// ever decided to remove it.
	if lit, ok := s.decideKeepInstalled(); ok {
		return lit, false
	}

	for _, class := range []RuleClass{ClassPackage, ClassInfarch, ClassDup, ClassUpdate, ClassBest, ClassYumobs, ClassChoice} {
		rg := s.ranges[class]
		if lit, found := s.decideFromRange(rg); found {
			return lit, false
		}
	}

	if lit, ok := s.decideWeak(); ok {
		return lit, false
	}
	return 0, true
}

// decideFromRange scans [rg.Start,rg.End) for the first enabled,
// unsatisfied rule with an undecided literal to branch on.
func (s *Solver) decideFromRange(rg ruleRange) (int32, bool) {
	for id := rg.Start; id < rg.End; id++ {
		r := s.ruleByID(id)
		if r.Disabled || s.ruleSatisfied(r) {
			continue
		}
		lit := s.pickLiteral(r)
		if lit == 0 {
			continue
		}
		return lit, true
	}
	return 0, false
}

// decideKeepInstalled scans the installed repo for a solvable that is
// still undecided and, unless its name is multiversion (where siblings
// are meant to coexist, so one being accepted says nothing about
// another), has no other already-accepted (decisionmap>0) provider of
// the same name — i.e. nothing has superseded it — and branches it
// installed. This is spec.md §4.3 step 2's "keep installed" half of
// policy.selectAndInstall: a package with a legal replacement chosen
// instead is left for the replacement's own rules to settle, but a
// package nothing replaced must be explicitly kept, never left at
// decisionmap==0.
func (s *Solver) decideKeepInstalled() (int32, bool) {
	p := s.pool
	instRepo, ok := p.InstalledRepo()
	if !ok {
		return 0, false
	}
	r := p.RepoByID(instRepo)
	for id := r.Start; id < r.End; id++ {
		if s.decisionmap[id] != 0 {
			continue
		}
		sv := p.Solvable(id)
		superseded := false
		if !s.multiversion[sv.Name] {
			for _, c := range p.whatProvidesName(sv.Name) {
				if c != id && s.decisionmap[c] > 0 {
					superseded = true
					break
				}
			}
		}
		if superseded {
			continue
		}
		return int32(id), true
	}
	return 0, false
}

// ruleSatisfied reports whether any literal of r is currently true.
func (s *Solver) ruleSatisfied(r *Rule) bool {
	for _, l := range r.Literals() {
		if s.isTrue(l) {
			return true
		}
	}
	return false
}

// pickLiteral chooses the best undecided literal in r to branch on
// positively, ordering candidates by orderCandidates. Returns 0 if r has
// no undecided literal left (already satisfied or fully falsified, which
// the caller treats as "skip" since ruleSatisfied/propagate handle those
// cases respectively).
func (s *Solver) pickLiteral(r *Rule) int32 {
	var undecided []int32
	for _, l := range r.Literals() {
		if s.isUndef(l) {
			undecided = append(undecided, l)
		}
	}
	if len(undecided) == 0 {
		return 0
	}

	cands := make([]SolvableID, 0, len(undecided))
	byID := map[SolvableID]int32{}
	for _, l := range undecided {
		if l > 0 {
			cands = append(cands, SolvableID(l))
			byID[SolvableID(l)] = l
		}
	}
	if len(cands) == 0 {
		// Every undecided literal is negative (a "do not install" option,
		// e.g. a conflict rule's tail); take the first, deterministically.
		return undecided[0]
	}

	s.orderCandidates(cands)
	return byID[cands[0]]
}

// orderCandidates sorts cands in place, most preferred first, per
// spec.md §4.4: repo priority, then architecture score (scored arches
// before unscored ones), then EVR (descending — newest first), then name
// as a final deterministic tiebreak. Vendor is not compared.
func (s *Solver) orderCandidates(cands []SolvableID) {
	p := s.pool
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := p.Solvable(cands[i]), p.Solvable(cands[j])

		if a.Repo != b.Repo {
			pa, pb := p.RepoByID(a.Repo).Priority, p.RepoByID(b.Repo).Priority
			if pa != pb {
				return pa > pb
			}
		}

		sa, oka := p.ArchScore(a.Arch)
		sb, okb := p.ArchScore(b.Arch)
		if oka && okb && sa != sb {
			return sa < sb
		}
		if oka != okb {
			return oka
		}

		if c := CompareEVR(a.EVR, b.EVR); c != 0 {
			return c > 0
		}

		return p.Name(a.Name) < p.Name(b.Name)
	})
}

// Illegal-candidate bitmask returned by policyIsIllegal, spec.md §4.4
// "policy_is_illegal(): classifies why a candidate is blocked."
const (
	IllegalDowngrade    uint8 = 1 << iota
	IllegalArchChange
	IllegalVendorChange
)

// policyIsIllegal classifies why candidate may not replace installed
// under the given flags, returning 0 when the replacement is allowed.
// More than one bit may be set.
func policyIsIllegal(p *Pool, flags SolverFlags, installed, candidate SolvableID) uint8 {
	is, cs := p.Solvable(installed), p.Solvable(candidate)
	var reasons uint8

	if !flags.AllowDowngrade && CompareEVR(cs.EVR, is.EVR) < 0 {
		reasons |= IllegalDowngrade
	}
	if !flags.AllowArchChange && is.Arch != cs.Arch {
		if p.lockStepArch || !flags.ImplicitObsoleteUsesColorsOK() {
			reasons |= IllegalArchChange
		}
	}
	if !flags.AllowVendorChange && !p.SameVendorClass(is.Vendor, cs.Vendor) {
		reasons |= IllegalVendorChange
	}
	return reasons
}

// ImplicitObsoleteUsesColorsOK reports whether arch lock-stepping should
// be treated as satisfied absent an explicit arch-change allowance; it
// exists purely to keep policyIsIllegal's condition readable.
func (f SolverFlags) ImplicitObsoleteUsesColorsOK() bool {
	return !f.ImplicitObsoleteUsesColors
}

// filterUnwanted reports whether name is exempt from the same-name
// uniqueness constraint (spec.md §4.2 "same-name implicit obsoletes"),
// in which case callers must skip emitting the pairwise same-name
// conflict rule for its candidates.
func (s *Solver) filterUnwanted(name NameID) bool {
	return s.multiversion[name]
}

// decideWeak scans installed (true) solvables' Recommends lists for an
// optional dependency that is not yet satisfied and still has an
// undecided candidate, and branches positively on the best one — spec.md
// §4.3's weak-dependency pass, run only once every hard rule is
// satisfied.
func (s *Solver) decideWeak() (int32, bool) {
	if s.opts.Flags.IgnoreRecommended {
		return 0, false
	}
	for id := 1; id < len(s.decisionmap); id++ {
		if s.decisionmap[id] <= 0 {
			continue
		}
		sv := s.pool.Solvable(SolvableID(id))
		for _, dep := range sv.Recommends {
			cands := s.pool.WhatProvides(dep)
			satisfied := false
			var undecided []SolvableID
			for _, c := range cands {
				if s.decisionmap[c] > 0 {
					satisfied = true
					break
				}
				if s.decisionmap[c] == 0 {
					undecided = append(undecided, c)
				}
			}
			if satisfied || len(undecided) == 0 {
				continue
			}
			s.orderCandidates(undecided)
			return int32(undecided[0]), true
		}
	}
	return 0, false
}
