package depsolve

import "sort"

// buildRules constructs every rule class in the closed, ordered set
// from spec.md §3, advancing s.ranges as each class is emitted. This is
// the single entry point solver.Solve() calls before running the CDCL
// loop.
func (s *Solver) buildRules() error {
	s.prescanJobs()

	start := RuleID(len(s.rules))
	s.addPackageRules()
	s.ranges[ClassPackage] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	if err := s.addJobRules(); err != nil {
		return err
	}
	s.ranges[ClassJob] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addInfarchRules()
	s.ranges[ClassInfarch] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addDupRules()
	s.ranges[ClassDup] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addUpdateRules()
	s.ranges[ClassUpdate] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addBestRules()
	s.ranges[ClassBest] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addYumobsRules()
	s.ranges[ClassYumobs] = ruleRange{start, RuleID(len(s.rules))}

	start = RuleID(len(s.rules))
	s.addChoiceRules()
	s.ranges[ClassChoice] = ruleRange{start, RuleID(len(s.rules))}

	// ClassLearnt starts empty and grows during solving.
	s.ranges[ClassLearnt] = ruleRange{RuleID(len(s.rules)), RuleID(len(s.rules))}

	s.unifyRules()
	return nil
}

// unifyRules implements spec.md §4.2 "Unification": within each class,
// rules are compared by their (sorted) literal set and duplicates are
// merged, the surviving copy's Weak marker updated by bit-and (a rule
// only stays weak if every occurrence agreed it was weak). Duplicates
// arise e.g. when A conflicts with B and B also conflicts with A, or
// when an obsoletes rule repeats a same-name pair; any class may produce
// duplicates, so all of them are unified.
//
// Duplicates are disabled rather than physically removed: every other
// structure built alongside rule construction (watch lists, ruleToJob,
// class ranges) addresses rules by a stable RuleID, and
// spec.md §3's "Disabled-rule neutrality" already guarantees a disabled
// rule is inert, so disabling gets the same effect as deletion without
// invalidating any id.
func (s *Solver) unifyRules() {
	for _, rg := range s.ranges {
		seen := map[string]RuleID{}
		for id := rg.Start; id < rg.End; id++ {
			r := s.ruleByID(id)
			if r.Disabled {
				continue
			}
			key := canonicalLiteralKey(r.Literals())
			first, ok := seen[key]
			if !ok {
				seen[key] = id
				continue
			}
			fr := s.ruleByID(first)
			fr.Weak = fr.Weak && r.Weak
			r.Disabled = true
		}
	}
}

// canonicalLiteralKey renders lits as a sorted byte key so two rules
// carrying the same literal set in a different order compare equal.
func canonicalLiteralKey(lits []int32) string {
	sorted := append([]int32(nil), lits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, 0, 4*len(sorted))
	for _, l := range sorted {
		b = appendInt32(b, l)
	}
	return string(b)
}

// addPackageRules is the BFS from spec.md §4.2 "Package rules": starting
// from every installed solvable plus every solvable any job could touch,
// walk requires/conflicts/obsoletes/same-name, emitting one rule per
// dependency and enqueuing newly discovered providers, until the
// reachable set stops growing.
func (s *Solver) addPackageRules() {
	p := s.pool
	reachable := map[SolvableID]bool{}
	var queue []SolvableID

	enqueue := func(id SolvableID) {
		if id == 0 || reachable[id] {
			return
		}
		reachable[id] = true
		queue = append(queue, id)
	}

	if instRepo, ok := p.InstalledRepo(); ok {
		r := p.RepoByID(instRepo)
		for id := r.Start; id < r.End; id++ {
			enqueue(id)
		}
	}
	for _, j := range s.opts.Job {
		for _, id := range s.jobTargets(j) {
			enqueue(id)
		}
	}

	byName := map[NameID][]SolvableID{}
	for i := 1; i < p.NumSolvables(); i++ {
		sv := p.Solvable(SolvableID(i))
		byName[sv.Name] = append(byName[sv.Name], SolvableID(i))
	}

	for qi := 0; qi < len(queue); qi++ {
		id := queue[qi]
		sv := p.Solvable(id)

		for _, dep := range sv.Requires {
			cands := p.WhatProvides(dep)
			if len(cands) == 0 {
				// Nothing satisfies this requires: id can never be
				// installed. Emit a unit assertion forbidding it, rather
				// than a vacuous rule — libsolv's SOLVER_RULE_PKG_NOTHING_
				// PROVIDES_DEP has exactly this shape.
				s.addRule(ClassPackage, InfoRequires, []int32{-int32(id)})
				continue
			}
			lits := make([]int32, 0, len(cands)+1)
			lits = append(lits, -int32(id))
			for _, c := range cands {
				lits = append(lits, int32(c))
				enqueue(c)
			}
			s.addRule(ClassPackage, InfoRequires, lits)
		}

		for _, dep := range sv.Conflicts {
			for _, c := range p.WhatProvides(dep) {
				if c == id {
					continue
				}
				s.addRule(ClassPackage, InfoConflicts, []int32{-int32(id), -int32(c)})
				enqueue(c)
			}
		}

		for _, dep := range sv.Obsoletes {
			if s.noobsoletes[s.depName(dep)] {
				continue
			}
			for _, c := range p.WhatProvides(dep) {
				if c == id {
					continue
				}
				s.addRule(ClassPackage, InfoObsoletes, []int32{-int32(id), -int32(c)})
				enqueue(c)
			}
		}

		// spec.md §4.2 "Implicit obsoletes (same name)": emitted for every
		// distinct same-name pair "unless the name is in the multiversion
		// set" — a multiversion name gets no same-name rule at all, since
		// its whole point is letting siblings coexist; it must never be
		// forced to install one of them.
		if !s.filterUnwanted(sv.Name) {
			for _, other := range byName[sv.Name] {
				if other <= id {
					continue
				}
				s.addRule(ClassPackage, InfoSameName, []int32{-int32(id), -int32(other)})
			}
		}
	}
}

// depName extracts the leading name a (possibly versioned) dep refers
// to, for noobsoletes lookups.
func (s *Solver) depName(dep DepID) NameID {
	if n, ok := s.pool.DepAsName(dep); ok {
		return n
	}
	return s.pool.Reldep(dep).Name
}
