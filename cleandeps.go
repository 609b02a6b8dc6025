package depsolve

// CleanDeps implements spec.md §4.6: given the final install set from a
// solved Solution plus the job list that produced it, remove any
// solvable that is installed only because it was pulled in as a
// dependency of something an explicit job (tagged ModCleandeps) is now
// erasing, and that nothing else still wants.
//
// This runs as a pass after Solve() rather than inside the CDCL loop
// itself, matching spec.md's framing of cleandeps as reachability
// bookkeeping layered on top of a completed solution, not a constraint
// the solver needs to satisfy while deciding.
func (s *Solver) CleanDeps(sol *Solution) map[SolvableID]bool {
	if len(sol.Problems) > 0 {
		return sol.Assignment
	}
	if !s.anyCleandeps() {
		return sol.Assignment
	}

	roots := s.keepRoots(sol.Assignment)
	kept := s.reachableClosure(roots, sol.Assignment)
	kept = s.correctMistakes(kept, sol.Assignment)

	out := make(map[SolvableID]bool, len(kept))
	for id := range kept {
		out[id] = true
	}
	return out
}

func (s *Solver) anyCleandeps() bool {
	for _, j := range s.opts.Job {
		if j.has(ModCleandeps) {
			return true
		}
	}
	return false
}

// keepRoots collects every installed solvable that must stay installed
// for a reason other than "something else requires it": explicit
// install/update jobs, anything flagged user-installed, and anything
// installed that is not reachable only through a cleandeps-erase
// target.
func (s *Solver) keepRoots(assignment map[SolvableID]bool) map[SolvableID]bool {
	roots := map[SolvableID]bool{}
	cleandepsTargets := map[SolvableID]bool{}

	for _, j := range s.opts.Job {
		targets := s.jobTargets(j)
		switch j.Action {
		case JobInstall, JobUpdate, JobUserInstalled, JobFavor:
			for _, t := range targets {
				if assignment[t] {
					roots[t] = true
				}
			}
		case JobErase, JobDropOrphaned:
			if j.has(ModCleandeps) {
				for _, t := range targets {
					cleandepsTargets[t] = true
				}
			}
		}
	}

	for id := range assignment {
		if cleandepsTargets[id] {
			continue
		}
		if !s.pulledInOnlyBy(id, cleandepsTargets, assignment) {
			roots[id] = true
		}
	}
	return roots
}

// pulledInOnlyBy reports whether id is wanted by at least one cleandeps
// erase target and by no other currently assigned solvable — meaning id
// has no independent reason to stay installed. A solvable that no erase
// target wants is never reported, even if nothing else wants it. Per spec.md
// §4.6 the remove pass considers Requires, Recommends, and Supplements
// edges (only the add-back pass restricts itself to Requires+
// Recommends), so a package kept alive solely by a recommendation or a
// supplements match is also treated as having an independent reason.
func (s *Solver) pulledInOnlyBy(id SolvableID, erasing map[SolvableID]bool, assignment map[SolvableID]bool) bool {
	p := s.pool
	anyRequirer := false
	for other := range assignment {
		if other == id || erasing[other] {
			continue
		}
		sv := p.Solvable(other)
		for _, deps := range [][]DepID{sv.Requires, sv.Recommends, sv.Supplements} {
			for _, dep := range deps {
				if p.MatchNEVR(id, dep) || containsSolvable(p.WhatProvides(dep), id) {
					anyRequirer = true
				}
			}
		}
	}
	wantedByErased := false
	for e := range erasing {
		sv := p.Solvable(e)
		for _, deps := range [][]DepID{sv.Requires, sv.Recommends, sv.Supplements} {
			for _, dep := range deps {
				if p.MatchNEVR(id, dep) || containsSolvable(p.WhatProvides(dep), id) {
					wantedByErased = true
				}
			}
		}
	}
	return !anyRequirer && wantedByErased
}

func containsSolvable(list []SolvableID, id SolvableID) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}

// reachableClosure computes the add-back pass: starting from roots,
// follow Requires and Recommends edges forward through assignment until
// no new solvable is reachable, per spec.md §4.6 "add-back pass:
// starting from remaining installed packages, re-add anything they
// require/recommend that is still available... Supplements are
// included in the remove pass but not in the add-back pass."
func (s *Solver) reachableClosure(roots map[SolvableID]bool, assignment map[SolvableID]bool) map[SolvableID]bool {
	p := s.pool
	closure := map[SolvableID]bool{}
	var queue []SolvableID
	for id := range roots {
		if !closure[id] {
			closure[id] = true
			queue = append(queue, id)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		sv := p.Solvable(queue[qi])
		for _, deps := range [][]DepID{sv.Requires, sv.Recommends} {
			for _, dep := range deps {
				for _, c := range p.WhatProvides(dep) {
					if !assignment[c] || closure[c] {
						continue
					}
					closure[c] = true
					queue = append(queue, c)
				}
			}
		}
	}
	return closure
}

// correctMistakes implements spec.md §4.6's "mistake" correction: the
// remove pass judges reachability using only requires/recommends/
// supplements *as seen from each candidate requirer*, so a package that
// is only relevant because it supplements something the rest of the
// pass decided to keep can't be recognized until the kept set is
// otherwise settled. Any dropped package recommended by, or
// supplementing, something still kept is pulled back in and the
// add-back closure is recomputed, repeating until nothing new is
// pulled back.
func (s *Solver) correctMistakes(kept, assignment map[SolvableID]bool) map[SolvableID]bool {
	for {
		var pulled []SolvableID
		for id := range assignment {
			if kept[id] {
				continue
			}
			if s.recommendedByKept(id, kept) || s.supplementsKept(id, kept) {
				pulled = append(pulled, id)
			}
		}
		if len(pulled) == 0 {
			return kept
		}
		roots := make(map[SolvableID]bool, len(kept)+len(pulled))
		for id := range kept {
			roots[id] = true
		}
		for _, id := range pulled {
			roots[id] = true
		}
		kept = s.reachableClosure(roots, assignment)
	}
}

// recommendedByKept reports whether some already-kept solvable
// recommends id.
func (s *Solver) recommendedByKept(id SolvableID, kept map[SolvableID]bool) bool {
	p := s.pool
	for other := range kept {
		sv := p.Solvable(other)
		for _, dep := range sv.Recommends {
			if p.MatchNEVR(id, dep) || containsSolvable(p.WhatProvides(dep), id) {
				return true
			}
		}
	}
	return false
}

// supplementsKept reports whether id's own Supplements dependencies
// match some already-kept solvable — the "or supplementing" half of the
// mistake-correction predicate.
func (s *Solver) supplementsKept(id SolvableID, kept map[SolvableID]bool) bool {
	p := s.pool
	for _, dep := range p.Solvable(id).Supplements {
		for _, c := range p.WhatProvides(dep) {
			if kept[c] {
				return true
			}
		}
	}
	return false
}
