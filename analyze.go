package depsolve

import "sort"

// propagate runs unit propagation to a fixpoint from the current
// propagateIndex, per spec.md §4.3 "Unit propagation: watched literals,
// standard two-watch scheme." On conflict it returns the violated rule
// id and ok=false without rolling back any state — that is
// resolveConflict's job.
func (s *Solver) propagate() (RuleID, bool) {
	for s.propagateIndex < len(s.trail) {
		lit := s.trail[s.propagateIndex]
		s.propagateIndex++

		// Any rule watching ¬lit may now be unit or violated, since lit
		// just became true.
		falsified := -lit
		id := s.watches[falsified]
		var prevLink *int32
		_ = prevLink

		for id != RuleNone {
			r := s.ruleByID(id)
			next := s.nextWatch(r, falsified)

			if r.Disabled {
				id = next
				continue
			}

			if !s.fixWatch(id, falsified) {
				return id, false
			}
			id = next
		}
	}
	return RuleNone, true
}

// nextWatch returns the next rule in the watch list for literal lit
// after r.
func (s *Solver) nextWatch(r *Rule, lit int32) RuleID {
	if r.Watch1 == lit {
		return r.Next1
	}
	return r.Next2
}

// fixWatch re-examines the rule watched on the just-falsified literal
// falsified. It tries to move the watch to a non-false literal; if none
// exists it checks the other watched literal: if true, the rule is
// already satisfied; if undef, that literal is implied true (unit
// propagation, spec.md §3); if false, the rule is violated and
// fixWatch returns false. The rule's position in falsified's watch
// list is left untouched either way — the caller already captured
// `next` before calling this — but when the watch moves, the rule is
// spliced out of falsified's list and into the new literal's list.
func (s *Solver) fixWatch(id RuleID, falsified int32) bool {
	r := s.ruleByID(id)
	other := r.Watch1
	if other == falsified {
		other = r.Watch2
	}

	lits := r.Literals()
	for _, cand := range lits {
		if cand == falsified || cand == other {
			continue
		}
		if !s.isFalse(cand) {
			s.moveWatch(id, falsified, cand)
			return true
		}
	}

	if s.isTrue(other) {
		return true
	}
	if s.isUndef(other) {
		s.assign(other, id)
		return true
	}
	return false
}

// moveWatch unlinks rule id from lit's watch list and relinks it onto
// to's watch list, updating Watch1/Watch2 accordingly.
func (s *Solver) moveWatch(id RuleID, lit, to int32) {
	r := s.ruleByID(id)
	s.unlinkWatch(id, lit)
	if r.Watch1 == lit {
		r.Watch1 = to
	} else {
		r.Watch2 = to
	}
	if r.Watch1 == to {
		r.Next1 = s.watches[to]
	} else {
		r.Next2 = s.watches[to]
	}
	s.watches[to] = id
}

// unlinkWatch removes id from lit's watch list (a short linear walk,
// since watch lists stay small in practice).
func (s *Solver) unlinkWatch(id RuleID, lit int32) {
	cur := s.watches[lit]
	if cur == id {
		r := s.ruleByID(id)
		if r.Watch1 == lit {
			s.watches[lit] = r.Next1
		} else {
			s.watches[lit] = r.Next2
		}
		return
	}
	for cur != RuleNone {
		r := s.ruleByID(cur)
		var next *RuleID
		if r.Watch1 == lit {
			next = &r.Next1
		} else {
			next = &r.Next2
		}
		if *next == id {
			nr := s.ruleByID(id)
			if nr.Watch1 == lit {
				*next = nr.Next1
			} else {
				*next = nr.Next2
			}
			return
		}
		cur = *next
	}
}

// resolveConflict performs 1-UIP conflict analysis on conflict and
// either learns a new rule and backjumps (returning true, so the CDCL
// loop continues), or — when the conflict is already at level 0 —
// records a Problem and tries to recover by disabling the first
// implicated rule (in collection order) that is weak, a job rule or a
// choice rule, so solving can continue to discover further
// independent problems (spec.md §4.3 "Weak rules", §4.5). It returns
// false only when no more progress is possible and the solver must
// stop.
func (s *Solver) resolveConflict(conflict RuleID) bool {
	s.attempts++

	if s.level == 0 {
		return s.analyzeUnsolvable(conflict)
	}

	learntLits, chain, backLevel := s.analyze(conflict)

	s.undoToLevel(backLevel)

	if len(learntLits) == 0 {
		// Resolution bottomed out with nothing left: a genuine level-0
		// contradiction reached through propagation alone.
		return s.analyzeUnsolvable(conflict)
	}

	id := s.addRule(ClassLearnt, InfoLearnt, learntLits)
	if id == RuleNone {
		return false
	}
	s.learntPool[id] = chain

	uip := s.uipLiteral(learntLits)

	if len(learntLits) == 1 {
		// A unit learnt clause is a global fact, not a new branch: assert
		// it at level 0 rather than opening a fresh decision level, or the
		// next occurrence of the same underlying contradiction would keep
		// re-deriving and re-asserting it forever instead of ever being
		// recognized as a level-0 conflict.
		s.level = 0
		if s.isFalse(uip) {
			return s.analyzeUnsolvable(id)
		}
		s.assign(uip, id)
		return true
	}

	s.level = backLevel + 1
	s.assign(uip, id)
	return true
}

// analyze walks the trail backward from conflict, resolving the
// working clause against each falsified literal's reason rule until
// exactly one literal at the conflict's original decision level
// remains (the "first unique implication point"). Returns the learnt
// clause, the chain of rule ids resolved (for explanation), and the
// level to backjump to (the second-highest level among the clause's
// remaining literals, or 0).
func (s *Solver) analyze(conflict RuleID) ([]int32, []RuleID, int) {
	confLevel := s.level
	working := map[int32]bool{}
	for _, l := range s.ruleByID(conflict).Literals() {
		working[l] = true
	}
	chain := []RuleID{conflict}

	trailPos := len(s.trail) - 1
	for {
		atConfLevel := 0
		var lastAtConf int32
		for lit := range working {
			if s.levelOf(abs32(lit)) == confLevel {
				atConfLevel++
				lastAtConf = lit
			}
		}
		if atConfLevel <= 1 {
			break
		}

		for trailPos >= 0 && !working[-s.trail[trailPos]] {
			trailPos--
		}
		if trailPos < 0 {
			break
		}

		resolveLit := -s.trail[trailPos]
		why := s.trailWhy[trailPos]
		trailPos--
		if why == RuleNone {
			// A free decision can't be resolved away; treat it as part
			// of the learnt clause and keep scanning for another.
			continue
		}
		delete(working, resolveLit)
		chain = append(chain, why)
		for _, l := range s.ruleByID(why).Literals() {
			if l == s.trail[trailPos+1] {
				continue
			}
			working[l] = true
		}
		_ = lastAtConf
	}

	lits := make([]int32, 0, len(working))
	for l := range working {
		lits = append(lits, l)
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })

	backLevel := 0
	for _, l := range lits {
		lvl := s.levelOf(abs32(l))
		if lvl != confLevel && lvl > backLevel {
			backLevel = lvl
		}
	}
	return lits, chain, backLevel
}

// uipLiteral returns the single literal in a freshly learnt clause that
// belongs to the post-backjump frontier — the one asserted by the
// learnt rule once its other literals are false again. It is called
// after the backjump, when the UIP's variable is the one literal of the
// clause left undecided; without such a literal it falls back to the
// literal with the highest decision level.
func (s *Solver) uipLiteral(lits []int32) int32 {
	for _, l := range lits {
		if s.isUndef(l) {
			return l
		}
	}
	best := lits[0]
	bestLevel := -1
	for _, l := range lits {
		lvl := s.levelOf(abs32(l))
		if lvl > bestLevel {
			bestLevel = lvl
			best = l
		}
	}
	return best
}

// undoToLevel pops every trail entry decided at a level above target,
// per spec.md §4.3 "non-chronological backjump: undo straight to that
// level, not one level at a time."
func (s *Solver) undoToLevel(target int) {
	for len(s.trail) > 0 {
		lit := s.trail[len(s.trail)-1]
		if s.levelOf(abs32(lit)) <= target {
			break
		}
		s.decisionmap[abs32(lit)] = 0
		s.trail = s.trail[:len(s.trail)-1]
		s.trailWhy = s.trailWhy[:len(s.trailWhy)-1]
	}
	if s.propagateIndex > len(s.trail) {
		s.propagateIndex = len(s.trail)
	}
}

// analyzeUnsolvable handles a conflict discovered at decision level 0:
// every literal in the rule is already false with no free decision to
// retract. It records a Problem naming the implicated job/weak rules
// and, if at least one enabled weak, job or choice rule is found among
// them, disables the first such rule in collection order and signals
// the caller to keep solving (spec.md §4.5 "A
// disabled job/weak rule lets the run continue to discover independent
// problems"). It returns false only when there is truly nothing left
// to relax.
func (s *Solver) analyzeUnsolvable(conflict RuleID) bool {
	involved := s.collectInvolvedRules(conflict)

	p := &Problem{
		id:    RuleID(len(s.problems) + 1),
		Rules: involved,
	}
	s.problems = append(s.problems, p)

	for _, rid := range involved {
		r := s.ruleByID(rid)
		if r.Disabled {
			continue
		}
		if r.Weak || r.Class == ClassJob || r.Class == ClassChoice {
			r.Disabled = true
			s.resetForRetry()
			return true
		}
	}

	return false
}

// collectInvolvedRules walks backward from conflict across falsified
// reason rules, gathering every rule id referenced, for problem
// reporting.
func (s *Solver) collectInvolvedRules(conflict RuleID) []RuleID {
	seen := map[RuleID]bool{conflict: true}
	order := []RuleID{conflict}
	queue := []int32{}
	queue = append(queue, s.ruleByID(conflict).Literals()...)

	for i := 0; i < len(s.trail); i++ {
		lit := s.trail[i]
		why := s.trailWhy[i]
		if why == RuleNone || seen[why] {
			continue
		}
		for _, q := range queue {
			if q == -lit {
				seen[why] = true
				order = append(order, why)
				queue = append(queue, s.ruleByID(why).Literals()...)
				break
			}
		}
	}
	return order
}

// resetForRetry clears all decision state so the CDCL loop starts a
// fresh run after a rule has been disabled mid-solve.
func (s *Solver) resetForRetry() {
	for i := range s.decisionmap {
		s.decisionmap[i] = 0
	}
	s.trail = s.trail[:0]
	s.trailWhy = s.trailWhy[:0]
	s.level = 0
	s.propagateIndex = 0
}
