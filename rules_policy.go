package depsolve

// addInfarchRules forbids keeping two different-architecture solvables
// of the same name installed together when their architectures are
// mutually incompatible (neither noarch), per spec.md §4.2 "Infarch
// rules". Skipped entirely when SolverFlags.NoInfarchCheck is set.
func (s *Solver) addInfarchRules() {
	if s.opts.Flags.NoInfarchCheck {
		return
	}
	p := s.pool
	byName := map[NameID][]SolvableID{}
	for i := 1; i < p.NumSolvables(); i++ {
		sv := p.Solvable(SolvableID(i))
		byName[sv.Name] = append(byName[sv.Name], SolvableID(i))
	}
	for _, group := range byName {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := p.Solvable(group[i]), p.Solvable(group[j])
				if a.Arch == b.Arch {
					continue
				}
				sa, oka := p.ArchScore(a.Arch)
				sb, okb := p.ArchScore(b.Arch)
				if !oka || !okb || sa == sb {
					continue
				}
				s.addRule(ClassInfarch, InfoInfarch, []int32{-int32(group[i]), -int32(group[j])})
			}
		}
	}
}

// addDupRules restricts every name touched by a JobDistupgrade job to
// its single best candidate from the target selection, per spec.md
// §4.2 "Dup rules". s.dupinvolvedmap is populated here so later update
// rules can skip names already governed by a dup rule.
func (s *Solver) addDupRules() {
	p := s.pool
	for _, j := range s.opts.Job {
		if j.Action != JobDistupgrade {
			continue
		}
		targets := s.jobTargets(j)
		byName := map[NameID][]SolvableID{}
		for _, t := range targets {
			n := p.Solvable(t).Name
			byName[n] = append(byName[n], t)
		}
		for name, group := range byName {
			s.dupinvolvedmap[name] = true

			// At least one candidate from the target selection must end up
			// installed: distupgrade is a mandate, not a suggestion.
			lits := make([]int32, 0, len(group))
			for _, g := range group {
				lits = append(lits, int32(g))
			}
			s.addRule(ClassDup, InfoDup, lits)

			if len(group) < 2 {
				continue
			}
			s.orderCandidates(group)
			best := group[0]
			for _, other := range group[1:] {
				s.addRule(ClassDup, InfoDup, []int32{int32(best), -int32(other)})
				s.dupmap[other] = true
			}
		}
	}
}

// addUpdateRules emits one weak "stay-or-upgrade" rule per installed
// solvable whose name isn't already governed by a dup rule and that no
// JobErase entry targets (an erase job would otherwise contradict the
// solvable's own stay rule whenever it has no replacement): either it
// remains installed, or one of its policy-legal replacement candidates
// is installed instead (spec.md §4.2 "Update/Feature rules"). The rule
// is weak so conflict analysis may disable it (drop the update) rather
// than fail the whole job when no legal replacement exists and keeping
// the original is also impossible.
func (s *Solver) addUpdateRules() {
	p := s.pool
	instRepo, ok := p.InstalledRepo()
	if !ok {
		return
	}
	erased := map[SolvableID]bool{}
	for _, j := range s.opts.Job {
		if j.Action == JobErase {
			for _, t := range s.jobTargets(j) {
				erased[t] = true
			}
		}
	}
	r := p.RepoByID(instRepo)
	for id := r.Start; id < r.End; id++ {
		sv := p.Solvable(id)
		if s.dupinvolvedmap[sv.Name] || erased[id] {
			continue
		}
		cands := p.whatProvidesName(sv.Name)
		lits := []int32{int32(id)}
		for _, c := range cands {
			if c == id {
				continue
			}
			if policyIsIllegal(p, s.opts.Flags, id, c) != 0 && !s.opts.Flags.ForceBest {
				continue
			}
			lits = append(lits, int32(c))
		}
		rid := s.addRule(ClassUpdate, InfoUpdate, lits)
		if rid != RuleNone {
			s.ruleByID(rid).Weak = true
		}
	}
}

// addBestRules, when SolverFlags.ForceBest is set globally, adds for
// every name with several solvables weak rules that exclude each
// candidate but the single best-ordered one, per spec.md §4.2 "Best
// rules". Only the global flag is consulted: a job's ModForceBest
// modifier does not cause best rules to be added.
func (s *Solver) addBestRules() {
	if !s.opts.Flags.ForceBest {
		return
	}
	p := s.pool
	byName := map[NameID][]SolvableID{}
	for i := 1; i < p.NumSolvables(); i++ {
		sv := p.Solvable(SolvableID(i))
		byName[sv.Name] = append(byName[sv.Name], SolvableID(i))
	}
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		cands := append([]SolvableID(nil), group...)
		s.orderCandidates(cands)
		best := cands[0]
		for _, other := range cands[1:] {
			rid := s.addRule(ClassBest, InfoBest, []int32{int32(best), -int32(other)})
			if rid != RuleNone {
				s.ruleByID(rid).Weak = true
			}
		}
	}
}

// addYumobsRules groups the installed solvables (of any name) that are
// all obsoleted by one replacement candidate into a single multi-obsolete
// rule, per spec.md §4.2 "Yumobs rules" — only active under
// SolverFlags.YumObsoletes.
func (s *Solver) addYumobsRules() {
	if !s.opts.Flags.YumObsoletes {
		return
	}
	p := s.pool
	instRepo, ok := p.InstalledRepo()
	if !ok {
		return
	}
	r := p.RepoByID(instRepo)

	_ = r
	obsoletedBy := map[SolvableID][]SolvableID{} // candidate -> installed solvables it obsoletes
	for cand := 1; cand < p.NumSolvables(); cand++ {
		sv := p.Solvable(SolvableID(cand))
		if sv.Repo == instRepo {
			continue
		}
		for _, dep := range sv.Obsoletes {
			for _, old := range p.WhatProvides(dep) {
				if p.Solvable(old).Repo != instRepo {
					continue
				}
				obsoletedBy[SolvableID(cand)] = append(obsoletedBy[SolvableID(cand)], old)
			}
		}
	}
	for cand, group := range obsoletedBy {
		if len(group) < 2 {
			continue
		}
		lits := make([]int32, 0, len(group)+1)
		lits = append(lits, int32(cand))
		for _, g := range group {
			lits = append(lits, int32(g))
		}
		s.addRule(ClassYumobs, InfoYumobs, lits)
	}
}

// addChoiceRules narrows a package requires with multiple providers
// toward the already-installed one, when exactly one candidate among
// several is currently installed, so the decision heuristic doesn't
// need to explore the full provider set on every propagation — spec.md
// §4.2 "Choice rules", always weak so this is purely advisory.
func (s *Solver) addChoiceRules() {
	p := s.pool
	instRepo, ok := p.InstalledRepo()
	if !ok {
		return
	}
	seen := map[string]bool{}
	for i := 1; i < p.NumSolvables(); i++ {
		sv := p.Solvable(SolvableID(i))
		for _, dep := range sv.Requires {
			cands := p.WhatProvides(dep)
			if len(cands) < 2 {
				continue
			}
			key := depChoiceKey(dep, cands)
			if seen[key] {
				continue
			}
			seen[key] = true

			var installed SolvableID
			ninstalled := 0
			for _, c := range cands {
				if p.Solvable(c).Repo == instRepo {
					installed = c
					ninstalled++
				}
			}
			if ninstalled != 1 {
				continue
			}
			lits := make([]int32, 0, len(cands))
			lits = append(lits, int32(installed))
			for _, c := range cands {
				if c != installed {
					lits = append(lits, -int32(c))
				}
			}
			rid := s.addRule(ClassChoice, InfoChoice, lits)
			if rid != RuleNone {
				s.ruleByID(rid).Weak = true
			}
		}
	}
}

func depChoiceKey(dep DepID, cands []SolvableID) string {
	b := make([]byte, 0, 4+4*len(cands))
	b = appendInt32(b, int32(dep))
	for _, c := range cands {
		b = appendInt32(b, int32(c))
	}
	return string(b)
}

func appendInt32(b []byte, v int32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
