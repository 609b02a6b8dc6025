package depsolve

import "testing"

func TestPoolInternStringIdempotent(t *testing.T) {
	p := NewPool()
	a := p.InternString("libfoo")
	b := p.InternString("libfoo")
	if a != b {
		t.Fatalf("interning the same string twice produced different ids: %d vs %d", a, b)
	}
	if p.String(a) != "libfoo" {
		t.Fatalf("String(%d) = %q, want %q", a, p.String(a), "libfoo")
	}
}

func TestPoolReldepPlainNameDegenerates(t *testing.T) {
	p := NewPool()
	name := p.InternName("bash")
	dep := NameDepID(name)

	r := p.Reldep(dep)
	if !r.IsPlain() {
		t.Fatalf("Reldep(%d) = %+v, want a plain name", dep, r)
	}
	if r.Name != name {
		t.Fatalf("Reldep(%d).Name = %d, want %d", dep, r.Name, name)
	}
}

func TestPoolInternRelDedupes(t *testing.T) {
	p := NewPool()
	name := p.InternName("bash")
	evr := ParseEVR("4.4-1")
	a := p.InternRel(name, OpGE, evr)
	b := p.InternRel(name, OpGE, evr)
	if a != b {
		t.Fatalf("identical reldeps interned to different ids: %d vs %d", a, b)
	}
}

func TestCreateWhatProvidesFindsOwnNameAndExplicitProvides(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("repo", 0, false)

	bashName := p.InternName("bash")
	shName := p.InternName("sh")
	shDep := NameDepID(shName)

	bash := p.AddSolvable(repo, Solvable{
		Name:     bashName,
		EVR:      ParseEVR("4.4-1"),
		Provides: []DepID{shDep},
	})
	p.CreateWhatProvides()

	byOwnName := p.WhatProvides(NameDepID(bashName))
	if len(byOwnName) != 1 || byOwnName[0] != bash {
		t.Fatalf("WhatProvides(bash) = %v, want [%d]", byOwnName, bash)
	}

	byProvides := p.WhatProvides(shDep)
	if len(byProvides) != 1 || byProvides[0] != bash {
		t.Fatalf("WhatProvides(sh) = %v, want [%d]", byProvides, bash)
	}
}

func TestWhatProvidesVersionedFiltersByEVR(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("repo", 0, false)
	name := p.InternName("libfoo")

	old := p.AddSolvable(repo, Solvable{Name: name, EVR: ParseEVR("1.0-1")})
	newer := p.AddSolvable(repo, Solvable{Name: name, EVR: ParseEVR("2.0-1")})
	p.CreateWhatProvides()

	dep := p.InternRel(name, OpGE, ParseEVR("2.0-0"))
	got := p.WhatProvides(dep)
	if len(got) != 1 || got[0] != newer {
		t.Fatalf("WhatProvides(libfoo >= 2.0-0) = %v, want [%d] (old=%d excluded)", got, newer, old)
	}
}

func TestArchRadixFileProvides(t *testing.T) {
	p := NewPool()
	repo := p.AddRepo("repo", 0, false)
	owner := p.AddSolvable(repo, Solvable{Name: p.InternName("coreutils")})
	p.AddFileProvides(map[SolvableID][]string{owner: {"/usr/bin/ls"}})

	got := p.WhatProvidesFile("/usr/bin/ls")
	if len(got) != 1 || got[0] != owner {
		t.Fatalf("WhatProvidesFile(/usr/bin/ls) = %v, want [%d]", got, owner)
	}
	if got := p.WhatProvidesFile("/usr/bin/nope"); got != nil {
		t.Fatalf("WhatProvidesFile(/usr/bin/nope) = %v, want nil", got)
	}
}
