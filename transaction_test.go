package depsolve

import "testing"

func TestClassifyReplacementKinds(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("r", 0, false)
	name := p.InternName("foo")

	older := p.AddSolvable(repo, Solvable{Name: name, EVR: ParseEVR("1-1")})
	newer := p.AddSolvable(repo, Solvable{Name: name, EVR: ParseEVR("2-1")})
	sameEVRdiffArch := p.AddSolvable(repo, Solvable{Name: name, EVR: ParseEVR("1-1"), Arch: p.InternString("i686")})

	if got := classifyReplacement(p, older, newer).Kind; got != StepUpgrade {
		t.Errorf("older->newer classified as %s, want upgrade", got)
	}
	if got := classifyReplacement(p, newer, older).Kind; got != StepDowngrade {
		t.Errorf("newer->older classified as %s, want downgrade", got)
	}
	if got := classifyReplacement(p, older, older).Kind; got != StepReinstall {
		t.Errorf("same solvable classified as %s, want reinstall", got)
	}
	if got := classifyReplacement(p, older, sameEVRdiffArch).Kind; got != StepChange {
		t.Errorf("same evr, different arch classified as %s, want change", got)
	}
}

func TestBuildTransactionSimpleInstall(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("repo", 0, false)
	a := addPkg(p, repo, "A", "1.0-1", "B")
	b := addPkg(p, repo, "B", "1.0-1")

	sol := solve(t, p, []JobEntry{{Action: JobInstall, Selection: SelectSolvable, WhatSolvable: a}})

	solver, err := NewSolver(Options{Pool: p})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	tx, err := solver.BuildTransaction(sol)
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}

	if len(tx.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d: %+v", len(tx.Steps), tx.Steps)
	}

	// B must come before A since A requires B.
	bPos, aPos := -1, -1
	for i, st := range tx.Steps {
		if st.Kind != StepInstall {
			t.Fatalf("step %d has unexpected kind %s", i, st.Kind)
		}
		if st.To == b {
			bPos = i
		}
		if st.To == a {
			aPos = i
		}
	}
	if bPos == -1 || aPos == -1 {
		t.Fatalf("expected both A and B installs in transaction, got %+v", tx.Steps)
	}
	if bPos > aPos {
		t.Fatalf("expected B installed before A (A requires B), got B at %d, A at %d", bPos, aPos)
	}
}

func TestBuildTransactionRejectsUnsolvedProblems(t *testing.T) {
	solver := &Solver{}
	_, err := solver.BuildTransaction(&Solution{Problems: []*Problem{{}}})
	if err == nil {
		t.Fatalf("expected BuildTransaction to reject a Solution with problems")
	}
}
