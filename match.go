package depsolve

import "strings"

// MatchNEVR is the single source of truth for whether a solvable
// satisfies a given dependency, per spec.md §4.1 "the single source of
// truth for whether a given solvable satisfies a given versioned/arch
// dep, including architecture-qualified names." It evaluates boolean
// and namespace combinators recursively and compares each leaf against
// the solvable's own name, arch and evr only; explicit Provides entries
// are not consulted here (ProvidesMatch covers those).
func (p *Pool) MatchNEVR(s SolvableID, dep DepID) bool {
	r := p.Reldep(dep)
	sv := p.Solvable(s)

	switch r.Comb {
	case CombNone:
		// fall through to leaf matching below
	case CombAnd:
		return p.MatchNEVR(s, r.Left) && p.MatchNEVR(s, r.Right)
	case CombOr, CombWith:
		return p.MatchNEVR(s, r.Left) || p.MatchNEVR(s, r.Right)
	case CombUnless:
		return p.MatchNEVR(s, r.Left) && !p.MatchNEVR(s, r.Right)
	case CombCond:
		// "Left COND Right": Left implies Right; true unless Left holds
		// without Right.
		return !p.MatchNEVR(s, r.Left) || p.MatchNEVR(s, r.Right)
	case CombElse:
		if p.MatchNEVR(s, r.Left) {
			return true
		}
		return p.MatchNEVR(s, r.Right)
	case CombNamespace:
		if p.namespaceCB == nil {
			return false
		}
		return p.namespaceCB(p, s, NameID(r.Left), r.Right) != 0
	}

	if sv.Name != r.Name {
		return false
	}
	if r.Arch != 0 && sv.Arch != r.Arch {
		return false
	}
	if r.Op == OpAny {
		return true
	}
	return r.Op.Satisfies(sv.EVR, r.EVR)
}

// ProvidesMatch reports whether solvable s provides dep, scanning its
// provides list through MatchNEVR. A solvable always implicitly
// provides its own name=evr even with an empty provides list (rpm/dpkg
// convention); this is modeled by checking the solvable's own identity
// first, then its explicit Provides entries.
func (p *Pool) ProvidesMatch(s SolvableID, dep DepID) bool {
	if p.MatchNEVR(s, dep) {
		return true
	}
	sv := p.Solvable(s)
	for _, pd := range sv.Provides {
		if p.matchProvideEntry(s, pd, dep) {
			return true
		}
	}
	return false
}

// matchProvideEntry checks one explicit Provides entry (itself a
// plain-or-versioned dep naming a capability, not necessarily the
// solvable's own name) against the requested dep.
func (p *Pool) matchProvideEntry(s SolvableID, provided, dep DepID) bool {
	pr := p.Reldep(provided)
	dr := p.Reldep(dep)
	if pr.Name != dr.Name {
		return false
	}
	if dr.Arch != 0 {
		if pr.Arch != dr.Arch && p.Solvable(s).Arch != dr.Arch {
			return false
		}
	}
	if dr.Op == OpAny {
		return true
	}
	if pr.Op == OpAny {
		// A bare "Provides: foo" (no version) only satisfies an unversioned
		// requires on foo.
		return false
	}
	return dr.Op.Satisfies(pr.EVR, dr.EVR)
}

// CreateWhatProvides (re)builds the name→providers index after repo
// changes, per spec.md §4.1 "create_whatprovides() ... runs in
// O(total provides)". Must be called after loading is complete and
// before any WhatProvides/Requires lookups.
func (p *Pool) CreateWhatProvides() {
	p.whatprovidesdata = p.whatprovidesdata[:0]
	p.whatprovides = map[NameID]provRange{}
	p.relProvides = map[DepID]provRange{}

	byName := map[NameID][]SolvableID{}
	for i := 1; i < len(p.solvables); i++ {
		s := SolvableID(i)
		sv := &p.solvables[i]
		byName[sv.Name] = append(byName[sv.Name], s)
		for _, pd := range sv.Provides {
			n, ok := p.DepAsName(pd)
			if !ok {
				n = p.Reldep(pd).Name
			}
			byName[n] = append(byName[n], s)
		}
	}

	for name, list := range byName {
		offset := len(p.whatprovidesdata)
		seen := make(map[SolvableID]bool, len(list))
		n := 0
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			p.whatprovidesdata = append(p.whatprovidesdata, s)
			n++
		}
		p.whatprovides[name] = provRange{offset: offset, length: n}
	}
}

// WhatProvides returns the solvables providing dep, per spec.md §4.1.
// For a plain name, returns the precomputed list directly. For a
// versioned/arch/structural dep, lazily computes and caches the
// filtered subset.
func (p *Pool) WhatProvides(dep DepID) []SolvableID {
	r := p.Reldep(dep)
	if r.IsPlain() {
		return p.whatProvidesName(r.Name)
	}

	if rg, ok := p.relProvides[dep]; ok {
		return p.sliceFromData(rg)
	}

	candidates := p.whatProvidesName(r.Name)
	if r.Comb != CombNone {
		// Structural combinators can reference names on either side;
		// fall back to scanning the whole arena for correctness, since
		// there is no single anchoring name to index by.
		candidates = p.allSolvables()
	}

	offset := len(p.whatprovidesdata)
	n := 0
	for _, s := range candidates {
		if p.MatchNEVR(s, dep) {
			p.whatprovidesdata = append(p.whatprovidesdata, s)
			n++
		}
	}
	rg := provRange{offset: offset, length: n}
	p.relProvides[dep] = rg
	return p.sliceFromData(rg)
}

func (p *Pool) whatProvidesName(n NameID) []SolvableID {
	rg, ok := p.whatprovides[n]
	if !ok {
		return nil
	}
	return p.sliceFromData(rg)
}

func (p *Pool) sliceFromData(rg provRange) []SolvableID {
	if rg.length == 0 {
		return nil
	}
	return p.whatprovidesdata[rg.offset : rg.offset+rg.length]
}

func (p *Pool) allSolvables() []SolvableID {
	out := make([]SolvableID, 0, len(p.solvables)-1)
	for i := 1; i < len(p.solvables); i++ {
		out = append(out, SolvableID(i))
	}
	return out
}

// DeduceFilePath reports whether s looks like an absolute filesystem
// path rather than a package/capability name (spec.md §3's "file
// provides" mechanism triggers requires of this shape).
func DeduceFilePath(s string) bool {
	return strings.HasPrefix(s, "/")
}
