package depsolve

import "sort"

// jobTargets resolves a JobEntry's selection to the concrete solvable
// ids it addresses, without regard to the job's action — used both by
// the package-rule BFS seed set and by addJobRules itself.
func (s *Solver) jobTargets(j JobEntry) []SolvableID {
	p := s.pool
	switch j.Selection {
	case SelectSolvable:
		return []SolvableID{j.WhatSolvable}
	case SelectName:
		return p.whatProvidesName(j.WhatName)
	case SelectProvides:
		return p.WhatProvides(j.WhatDep)
	case SelectOneOf:
		return append([]SolvableID(nil), j.WhatList...)
	case SelectRepo:
		r := p.RepoByID(j.WhatRepo)
		out := make([]SolvableID, 0, r.End-r.Start)
		for id := r.Start; id < r.End; id++ {
			out = append(out, id)
		}
		return out
	case SelectAll:
		return p.allSolvables()
	default:
		return nil
	}
}

// prescanJobs populates solver-wide maps that addPackageRules must see
// before it starts walking the BFS, per spec.md §4.2 "Job rules": a
// SOLVER_NOOBSOLETES job suppresses obsolete-rule emission for the
// names it targets, which only works if s.noobsoletes is already
// populated by the time addPackageRules runs — addJobRules itself runs
// after addPackageRules in buildRules, so it is too late to do this.
func (s *Solver) prescanJobs() {
	for _, j := range s.opts.Job {
		if j.Action != JobNoObsoletes {
			continue
		}
		for _, t := range s.jobTargets(j) {
			s.noobsoletes[s.pool.Solvable(t).Name] = true
		}
	}
}

// addJobRules translates each entry in s.opts.Job into one or more
// ClassJob rules, per spec.md §4.2 "Job rules": one literal set per
// action/selection pair, installs as an at-least-one disjunction over
// the resolved targets, erase/lock as a conjunction of negative unit
// assertions. The reverse ruleToJob map is populated so problem
// reporting can point back at the offending job entry (spec.md §4.2
// "Unification").
func (s *Solver) addJobRules() error {
	for idx, j := range s.opts.Job {
		targets := s.jobTargets(j)
		if len(targets) == 0 && j.Selection != SelectAll {
			if j.Action == JobInstall {
				return &noProviderFailure{dep: j.WhatDep}
			}
			continue
		}

		switch j.Action {
		case JobUpdate, JobDistupgrade:
			// An update/distupgrade job mandates the single best-ordered
			// candidate among its targets, not merely "any of them" — per
			// spec.md §4.2, a plain SELECT over an installed name still
			// needs to pick a direction, and "stay put" is already covered
			// by the weak update rule in rules_policy.go.
			best := append([]SolvableID(nil), targets...)
			s.orderCandidates(best)
			id := s.addRule(ClassJob, InfoJob, []int32{int32(best[0])})
			if id != RuleNone {
				s.ruleByID(id).Job = idx
				s.ruleByID(id).Weak = j.has(ModWeak)
				s.ruleToJob[id] = idx
			}

		case JobInstall, JobVerify, JobUserInstalled, JobFavor:
			lits := make([]int32, 0, len(targets))
			for _, t := range targets {
				lits = append(lits, int32(t))
			}
			id := s.addRule(ClassJob, InfoJob, lits)
			if id != RuleNone {
				s.ruleByID(id).Job = idx
				s.ruleByID(id).Weak = j.has(ModWeak)
				s.ruleToJob[id] = idx
			}

		case JobErase, JobLock, JobDropOrphaned, JobDisfavor:
			for _, t := range targets {
				id := s.addRule(ClassJob, InfoJob, []int32{-int32(t)})
				if id != RuleNone {
					s.ruleByID(id).Job = idx
					s.ruleToJob[id] = idx
				}
			}

		case JobNoObsoletes:
			// s.noobsoletes is populated by prescanJobs before
			// addPackageRules runs (spec.md §4.2); nothing left to do here.
		}
	}
	return nil
}

// unifyJobs sorts and dedupes a job list and merges modifier bits for
// entries that resolve to the same action/selection/target, per spec.md
// §4.2 "Unification: duplicate job entries collapse, weak/essential
// bits OR together."
func unifyJobs(jobs []JobEntry) []JobEntry {
	type key struct {
		action JobAction
		sel    SelectionMode
		sv     SolvableID
		name   NameID
		dep    DepID
		repo   RepoID
		list   string
	}
	merged := map[key]*JobEntry{}
	order := []key{}

	for _, j := range jobs {
		list := make([]byte, 0, 4*len(j.WhatList))
		for _, id := range j.WhatList {
			list = appendInt32(list, int32(id))
		}
		k := key{j.Action, j.Selection, j.WhatSolvable, j.WhatName, j.WhatDep, j.WhatRepo, string(list)}
		if existing, ok := merged[k]; ok {
			existing.Modifiers |= j.Modifiers
			continue
		}
		cp := j
		merged[k] = &cp
		order = append(order, k)
	}

	out := make([]JobEntry, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Selection < out[j].Selection
	})
	return out
}
