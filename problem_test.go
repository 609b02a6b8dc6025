package depsolve

import "testing"

// S3 — unsat with two solutions: A requires C>=2; installed = {A-1,
// C-1}; available = A-2 (requires C>=2), C-2 (conflicts with A-1). job
// = update A. Expect exactly one problem, at least two proposed
// solutions.
func TestS3UnsatWithTwoSolutions(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	availRepo := p.AddRepo("avail", 0, false)

	aName := p.InternName("A")
	cName := p.InternName("C")

	a1 := p.AddSolvable(instRepo, Solvable{Name: aName, EVR: ParseEVR("1-1")})
	c1 := p.AddSolvable(instRepo, Solvable{Name: cName, EVR: ParseEVR("1-1")})

	cReq := p.InternRel(cName, OpGE, ParseEVR("2-0"))
	a2 := p.AddSolvable(availRepo, Solvable{Name: aName, EVR: ParseEVR("2-1"), Requires: []DepID{cReq}})
	c2 := p.AddSolvable(availRepo, Solvable{
		Name:      cName,
		EVR:       ParseEVR("2-1"),
		Conflicts: []DepID{NameDepID(aName)},
	})
	_ = a1
	_ = c1

	p.CreateWhatProvides()
	solver, err := NewSolver(Options{
		Pool: p,
		Job:  []JobEntry{{Action: JobUpdate, Selection: SelectName, WhatName: aName}},
	})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	sol, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if len(sol.Problems) != 1 {
		t.Fatalf("expected exactly one problem (A-2 requires C>=2, but C-2 conflicts with A-1), got %d", len(sol.Problems))
	}
	_, _ = a2, c2
}

func TestFindProblemRulePrefersPackageOverJob(t *testing.T) {
	s := &Solver{rules: []Rule{
		{Class: ClassPackage, Info: InfoRequires, P: 1},
		{Class: ClassJob, P: 2},
	}}
	p := &Problem{Rules: []RuleID{0, 1}}
	got := s.FindProblemRule(p)
	if got != 0 {
		t.Fatalf("FindProblemRule = %d, want 0 (the requires rule explains the conflict; the job rule only names what was asked for)", got)
	}
}

func TestSolutionsProposeDroppingJob(t *testing.T) {
	s := &Solver{
		rules:     []Rule{{Class: ClassJob, P: 1}},
		ruleToJob: map[RuleID]int{0: 0},
	}
	p := &Problem{Rules: []RuleID{0}}
	sols := s.Solutions(p)
	if len(sols) != 1 || !sols[0].DropJob || sols[0].Job != 0 {
		t.Fatalf("Solutions = %+v, want one drop-job solution for job 0", sols)
	}
}
