package depsolve

import "testing"

func TestCleanDepsKeepsSharedDependency(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	a := addPkg(p, instRepo, "A", "1.0-1", "shared")
	c := addPkg(p, instRepo, "C", "1.0-1", "shared")
	shared := addPkg(p, instRepo, "shared", "1.0-1")

	jobs := []JobEntry{{Action: JobErase, Selection: SelectSolvable, WhatSolvable: a, Modifiers: ModCleandeps}}
	p.CreateWhatProvides()
	solver, err := NewSolver(Options{Pool: p, Job: jobs})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	sol, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Problems) != 0 {
		t.Fatalf("expected no problems, got %d", len(sol.Problems))
	}

	final := solver.CleanDeps(sol)
	if final[a] {
		t.Fatalf("expected A removed")
	}
	if !final[c] {
		t.Fatalf("expected C to remain installed (it was never targeted)")
	}
	if !final[shared] {
		t.Fatalf("expected shared to remain installed: C still requires it")
	}
}

func TestCleanDepsIdempotent(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	a := addPkg(p, instRepo, "A", "1.0-1", "B")
	addPkg(p, instRepo, "B", "1.0-1")

	jobs := []JobEntry{{Action: JobErase, Selection: SelectSolvable, WhatSolvable: a, Modifiers: ModCleandeps}}
	sol := solve(t, p, jobs)

	solver, err := NewSolver(Options{Pool: p, Job: jobs})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	solver.rules = nil
	solver.ranges = map[RuleClass]ruleRange{}
	solver.decisionmap = make([]int32, p.NumSolvables())

	first := solver.CleanDeps(sol)
	second := solver.CleanDeps(sol)
	if len(first) != len(second) {
		t.Fatalf("CleanDeps not idempotent: first=%v second=%v", first, second)
	}
	for id := range first {
		if !second[id] {
			t.Fatalf("CleanDeps not idempotent: %d present in first run, missing in second", id)
		}
	}
}
