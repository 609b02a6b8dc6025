package depsolve

import (
	"bytes"
	"strings"
	"testing"
)

const sampleTestcase = `
# a minimal fixture: A requires B, both in one repo
repo available 0 0
pkg A 1.0-1 x86_64 vendor
requires B
pkg B 1.0-1 x86_64 vendor

job install name A
`

func TestParseTestcaseBasic(t *testing.T) {
	tc, err := ParseTestcase(strings.NewReader(sampleTestcase))
	if err != nil {
		t.Fatalf("ParseTestcase: %v", err)
	}
	if len(tc.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(tc.Jobs))
	}
	if tc.Jobs[0].Action != JobInstall || tc.Jobs[0].Selection != SelectName {
		t.Fatalf("unexpected job: %+v", tc.Jobs[0])
	}

	aName := tc.Pool.InternName("A")
	ids := tc.Pool.whatProvidesName(aName)
	if len(ids) != 1 {
		t.Fatalf("expected exactly one A solvable, got %d", len(ids))
	}
	sv := tc.Pool.Solvable(ids[0])
	if len(sv.Requires) != 1 {
		t.Fatalf("expected A to require exactly one dep, got %d", len(sv.Requires))
	}
}

func TestParseTestcaseRejectsDepBeforePkg(t *testing.T) {
	bad := "repo r 0 0\nrequires B\n"
	if _, err := ParseTestcase(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for requires line before any pkg")
	}
}

func TestParseTestcaseRejectsUnknownCommand(t *testing.T) {
	bad := "repo r 0 0\nbogus foo\n"
	if _, err := ParseTestcase(strings.NewReader(bad)); err == nil {
		t.Fatalf("expected error for unknown command")
	}
}

func TestWriteResultEmitsOneLinePerStep(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("r", 0, false)
	a := addPkg(p, repo, "A", "1.0-1", "B")
	addPkg(p, repo, "B", "1.0-1")

	sol := solve(t, p, []JobEntry{{Action: JobInstall, Selection: SelectSolvable, WhatSolvable: a}})
	solver, err := NewSolver(Options{Pool: p})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	tx, err := solver.BuildTransaction(sol)
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteResult(&buf, p, tx); err != nil {
		t.Fatalf("WriteResult: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "result install ") {
		t.Fatalf("expected an install result line, got:\n%s", out)
	}
	if strings.Count(out, "\n") != len(tx.Steps) {
		t.Fatalf("expected %d result lines, got:\n%s", len(tx.Steps), out)
	}
}
