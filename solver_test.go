package depsolve

import "testing"

// helper: builds a plain-name requires/provides fixture quickly.
func addPkg(p *Pool, repo RepoID, name, evr string, requires ...string) SolvableID {
	sv := Solvable{Name: p.InternName(name), EVR: ParseEVR(evr)}
	for _, r := range requires {
		sv.Requires = append(sv.Requires, NameDepID(p.InternName(r)))
	}
	return p.AddSolvable(repo, sv)
}

func solve(t *testing.T, pool *Pool, jobs []JobEntry) *Solution {
	t.Helper()
	pool.CreateWhatProvides()
	solver, err := NewSolver(Options{Pool: pool, Job: jobs})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	sol, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	return sol
}

// S1 — trivial install: A requires B; job = install A.
// Expect both A and B installed, zero problems.
func TestS1TrivialInstall(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("repo", 0, false)
	a := addPkg(p, repo, "A", "1.0-1", "B")
	b := addPkg(p, repo, "B", "1.0-1")

	sol := solve(t, p, []JobEntry{{Action: JobInstall, Selection: SelectSolvable, WhatSolvable: a}})

	if len(sol.Problems) != 0 {
		t.Fatalf("expected no problems, got %d", len(sol.Problems))
	}
	if !sol.Assignment[a] || !sol.Assignment[b] {
		t.Fatalf("expected both A and B installed, assignment=%v", sol.Assignment)
	}
}

// S2 — conflict via same-name implicit obsoletes: A and B both name
// "foo"; installed = {A}; job = install B. Expect A erased, B installed.
func TestS2SameNameReplacement(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	availRepo := p.AddRepo("avail", 0, false)

	a := p.AddSolvable(instRepo, Solvable{Name: p.InternName("foo"), EVR: ParseEVR("1.0-1")})
	b := p.AddSolvable(availRepo, Solvable{Name: p.InternName("foo"), EVR: ParseEVR("2.0-1")})

	sol := solve(t, p, []JobEntry{{Action: JobInstall, Selection: SelectSolvable, WhatSolvable: b}})

	if len(sol.Problems) != 0 {
		t.Fatalf("expected no problems, got %d", len(sol.Problems))
	}
	if sol.Assignment[a] {
		t.Fatalf("expected A to be replaced (not installed), assignment=%v", sol.Assignment)
	}
	if !sol.Assignment[b] {
		t.Fatalf("expected B installed, assignment=%v", sol.Assignment)
	}
}

// S4 — multiversion: "kernel" is marked multiversion; installed =
// kernel-1; job = install kernel-2. Expect both installed.
func TestS4Multiversion(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	availRepo := p.AddRepo("avail", 0, false)

	name := p.InternName("kernel")
	k1 := p.AddSolvable(instRepo, Solvable{Name: name, EVR: ParseEVR("1-1")})
	k2 := p.AddSolvable(availRepo, Solvable{Name: name, EVR: ParseEVR("2-1")})

	p.CreateWhatProvides()
	solver, err := NewSolver(Options{Pool: p, Job: []JobEntry{
		{Action: JobInstall, Selection: SelectSolvable, WhatSolvable: k2},
	}})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	solver.MarkMultiversion(name)

	sol, err := solver.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(sol.Problems) != 0 {
		t.Fatalf("expected no problems, got %d", len(sol.Problems))
	}
	if !sol.Assignment[k1] || !sol.Assignment[k2] {
		t.Fatalf("expected both kernel-1 and kernel-2 installed, assignment=%v", sol.Assignment)
	}
}

// S5 — cleandeps erase: installed = {A requires B; B leaf}. job = erase
// A with cleandeps. Expect both A and B gone from the final set.
func TestS5CleandepsErase(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	a := addPkg(p, instRepo, "A", "1.0-1", "B")
	b := addPkg(p, instRepo, "B", "1.0-1")

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
	if final[a] || final[b] {
		t.Fatalf("expected A and B both removed by cleandeps, final=%v", final)
	}
}

// S6 — distupgrade: installed mirrored at higher evr in target repo;
// job = distupgrade over the target repo's selection. Every installed
// solvable should end up replaced by its target-repo counterpart.
func TestS6Distupgrade(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	targetRepo := p.AddRepo("target", 10, false)

	name := p.InternName("pkgA")
	old := p.AddSolvable(instRepo, Solvable{Name: name, EVR: ParseEVR("1.0-1")})
	fresh := p.AddSolvable(targetRepo, Solvable{Name: name, EVR: ParseEVR("2.0-1")})

	jobs := []JobEntry{{Action: JobDistupgrade, Selection: SelectRepo, WhatRepo: targetRepo}}
	sol := solve(t, p, jobs)

	if len(sol.Problems) != 0 {
		t.Fatalf("expected no problems, got %d", len(sol.Problems))
	}
	if sol.Assignment[old] {
		t.Fatalf("expected old solvable replaced, assignment=%v", sol.Assignment)
	}
	if !sol.Assignment[fresh] {
		t.Fatalf("expected target-repo solvable installed, assignment=%v", sol.Assignment)
	}
}

// S7 — lock-step architecture: with LockStepArch on and AllowArchChange
// off, an arch change is illegal even though ImplicitObsoleteUsesColors
// is off (which alone would let it through), keeping a 32/64-bit pair
// from silently swapping.
func TestS7LockStepArch(t *testing.T) {
	p := NewPool()
	p.SetLockStepArch(true)
	p.SetArchPolicy(func(a StringID) (int, bool) {
		switch p.String(a) {
		case "x86_64":
			return 0, true
		case "i686":
			return 1, true
		}
		return 0, false
	})

	flags := SolverFlags{AllowArchChange: false}
	instRepo := p.AddRepo("installed", 0, true)
	name := p.InternName("libc")
	x64 := p.AddSolvable(instRepo, Solvable{Name: name, EVR: ParseEVR("1-1"), Arch: p.InternString("x86_64")})
	i686Cand := p.AddSolvable(instRepo, Solvable{Name: name, EVR: ParseEVR("1-1"), Arch: p.InternString("i686")})

	got := policyIsIllegal(p, flags, x64, i686Cand)
	if got&IllegalArchChange == 0 {
		t.Fatalf("expected arch change to be illegal under lock-step arch, got mask %b", got)
	}
}

// S8 — yumobs group obsolete: two differently named installed packages
// both obsoleted by one common available replacement should
// produce a single multi-literal yumobs rule naming all three.
func TestS8YumobsGroupObsolete(t *testing.T) {
	p := NewPool()
	instRepo := p.AddRepo("installed", 0, true)
	availRepo := p.AddRepo("avail", 0, false)

	oldA := p.AddSolvable(instRepo, Solvable{Name: p.InternName("foo-old"), EVR: ParseEVR("1-1")})
	oldB := p.AddSolvable(instRepo, Solvable{Name: p.InternName("foo-legacy"), EVR: ParseEVR("1-1")})

	replacement := p.InternName("foo")
	obsA := NameDepID(p.InternName("foo-old"))
	obsB := NameDepID(p.InternName("foo-legacy"))
	newPkg := p.AddSolvable(availRepo, Solvable{
		Name:      replacement,
		EVR:       ParseEVR("2-1"),
		Obsoletes: []DepID{obsA, obsB},
	})

	p.CreateWhatProvides()
	solver, err := NewSolver(Options{Pool: p, Flags: SolverFlags{YumObsoletes: true}})
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}
	solver.opts.Flags.YumObsoletes = true
	solver.addYumobsRules()

	found := false
	for _, r := range solver.rules {
		if r.Class != ClassYumobs {
			continue
		}
		lits := r.Literals()
		if len(lits) == 3 {
			found = true
		}
	}
	_ = oldA
	_ = oldB
	_ = newPkg
	if !found {
		t.Fatalf("expected a 3-literal yumobs rule grouping both obsoleted installs and the replacement")
	}
}
