package depsolve

import "fmt"

// Solvable is a package record: name, evr, arch, vendor, owning repo,
// and the eight dependency lists from spec.md §3. Each list is stored as
// a slice of DepIDs; a complex (AND/OR/...) entry stays one combinator
// DepID that WhatProvides resolves as a whole through MatchNEVR. No
// CNF/DNF normalization into leaf entries is done.
type Solvable struct {
	Name   NameID
	EVR    EVR
	Arch   StringID
	Vendor StringID
	Repo   RepoID

	Provides    []DepID
	Requires    []DepID
	Conflicts   []DepID
	Obsoletes   []DepID
	Recommends  []DepID
	Suggests    []DepID
	Supplements []DepID
	Enhances    []DepID
}

// Repo is an append-only contiguous id range within the Pool's solvable
// arena, per spec.md §3.
type Repo struct {
	Name       string
	Start, End SolvableID // half-open [Start, End)
	Priority   int
	Installed  bool
}

// ArchScorer maps an interned architecture string to a comparable
// score; lower is "better" (preferred), matching libsolv's id2arch
// convention referenced in spec.md §4.1.
type ArchScorer func(arch StringID) (score int, ok bool)

// NamespaceCallback evaluates an external predicate dependency (e.g.
// language(de), modalias(...)) against a candidate solvable, returning
// a DepID it resolves to, or 0 if unsatisfied.
type NamespaceCallback func(p *Pool, solvable SolvableID, namespace NameID, arg DepID) DepID

// Pool owns every interned id, the solvable arena, repos, and the
// whatprovides index — the single arena-of-vectors-plus-int-handles
// structure spec.md §9 calls for to break the Solvable→Repo→Pool→
// Solvables reference cycle. No field here is ever nil-checked by
// callers; every lookup is total (spec.md §4.1 "Failure: all lookups
// are total").
type Pool struct {
	strings    []string
	stringIdx  map[string]StringID
	reldeps    []Reldep
	reldepIdx  map[Reldep]DepID

	solvables []Solvable
	repos     []Repo

	// whatprovidesdata is the single shared id array (not zero-terminated)
	// backing every name's provider list plus every cached reldep
	// provider subset (spec.md §9's "whatprovidesdata pool"). Each name
	// or cached reldep holds an (offset, length) pair into it rather
	// than owning a private slice, for cache locality.
	whatprovidesdata []SolvableID
	whatprovides     map[NameID]provRange
	relProvides      map[DepID]provRange

	fileProvides *radixFileIndex

	archScore    ArchScorer
	vendorClass  map[StringID]int
	namespaceCB  NamespaceCallback

	lockStepArch bool
}

type provRange struct {
	offset, length int
}

// NewPool constructs an empty Pool with the interning tables primed so
// id 0 is NULL and id 1 is the empty string, per spec.md §3.
func NewPool() *Pool {
	p := &Pool{
		strings:     []string{"", ""},
		stringIdx:   map[string]StringID{"": 1},
		reldepIdx:   map[Reldep]DepID{},
		whatprovides: map[NameID]provRange{},
		relProvides: map[DepID]provRange{},
		vendorClass: map[StringID]int{},
	}
	// Reserve SystemSolvable (id 1) as a synthetic anchor solvable so
	// namespace dependencies and job rules always have something to
	// point at, even before any repo is loaded.
	p.solvables = append(p.solvables, Solvable{}, Solvable{Name: p.InternString("system")})
	return p
}

// InternString idempotently interns s, returning its StringID.
func (p *Pool) InternString(s string) StringID {
	if id, ok := p.stringIdx[s]; ok {
		return id
	}
	id := StringID(len(p.strings))
	p.strings = append(p.strings, s)
	p.stringIdx[s] = id
	return id
}

// String returns the string for id. Returns "" for id 0.
func (p *Pool) String(id StringID) string {
	if int(id) <= 0 || int(id) >= len(p.strings) {
		return ""
	}
	return p.strings[id]
}

// InternName interns s as a name. Names share the string table (a name
// is a string that's also been given meaning as a dependency subject).
func (p *Pool) InternName(s string) NameID {
	return NameID(p.InternString(s))
}

// Name returns the string for a NameID.
func (p *Pool) Name(id NameID) string {
	return p.String(StringID(id))
}

// InternRel idempotently interns a plain-name relational dependency.
func (p *Pool) InternRel(name NameID, op Op, evr EVR) DepID {
	return p.internReldep(Reldep{Name: name, Op: op, EVR: evr})
}

// InternArchRel interns a "name.arch" dependency.
func (p *Pool) InternArchRel(name NameID, arch StringID) DepID {
	return p.internReldep(Reldep{Name: name, Arch: arch})
}

// InternCombinator interns a structural combinator over two child
// dependencies (AND/OR/WITH/COND/UNLESS/ELSE/NAMESPACE).
func (p *Pool) InternCombinator(comb Combinator, left, right DepID) DepID {
	return p.internReldep(Reldep{Comb: comb, Left: left, Right: right})
}

func (p *Pool) internReldep(r Reldep) DepID {
	if id, ok := p.reldepIdx[r]; ok {
		return id
	}
	p.reldeps = append(p.reldeps, r)
	id := DepID(len(p.reldeps))
	p.reldepIdx[r] = id
	return id
}

// Reldep returns the Reldep for a DepID. A DepID that is also a plain
// NameID (no relation ever interned for it) returns a Reldep with
// Comb==CombNone, Op==OpAny, Name==NameID(id) — the "plain name" case
// from spec.md §3(a). This lets plain names and true reldeps share the
// same DepID space without a separate tag bit, matching the intent
// (not the bit-packing mechanism) of §9's reldep/name dichotomy note.
func (p *Pool) Reldep(id DepID) Reldep {
	if int(id) <= 0 {
		return Reldep{}
	}
	if int(id) <= len(p.reldeps) {
		return p.reldeps[id-1]
	}
	return Reldep{Name: NameID(id)}
}

// DepAsName returns the plain NameID a DepID resolves to when it is, or
// degenerates to, a plain name relation (no op, no arch, no combinator).
// ok is false for versioned/arch/structural deps.
func (p *Pool) DepAsName(id DepID) (NameID, bool) {
	r := p.Reldep(id)
	if r.IsPlain() {
		return r.Name, true
	}
	return 0, false
}

// NameDepID returns the DepID a plain name is addressed by. Plain names
// never need a Reldep entry: the NameID doubles as its own DepID.
func NameDepID(n NameID) DepID { return DepID(n) }

// AddRepo creates a new named repo starting at the current end of the
// solvable arena. Repos are append-only and contiguous, per spec.md §3.
func (p *Pool) AddRepo(name string, priority int, installed bool) RepoID {
	start := SolvableID(len(p.solvables))
	p.repos = append(p.repos, Repo{Name: name, Start: start, End: start, Priority: priority, Installed: installed})
	return RepoID(len(p.repos) - 1)
}

// RepoByID returns the Repo for id.
func (p *Pool) RepoByID(id RepoID) *Repo {
	return &p.repos[id]
}

// AddSolvable appends a new solvable to repo and returns its id. The
// repo's End is advanced to keep the [Start,End) range contiguous.
func (p *Pool) AddSolvable(repo RepoID, s Solvable) SolvableID {
	s.Repo = repo
	id := SolvableID(len(p.solvables))
	p.solvables = append(p.solvables, s)
	p.repos[repo].End = id + 1
	return id
}

// Solvable returns the Solvable record for id.
func (p *Pool) Solvable(id SolvableID) *Solvable {
	return &p.solvables[id]
}

// NumSolvables returns the size of the solvable arena, including the
// reserved NULL and SystemSolvable slots.
func (p *Pool) NumSolvables() int {
	return len(p.solvables)
}

// InstalledRepo returns the repo marked installed, if any.
func (p *Pool) InstalledRepo() (RepoID, bool) {
	for i, r := range p.repos {
		if r.Installed {
			return RepoID(i), true
		}
	}
	return 0, false
}

// SetArchPolicy registers the architecture-score policy hook.
func (p *Pool) SetArchPolicy(scorer ArchScorer) { p.archScore = scorer }

// ArchScore scores arch; ok is false for an arch with no registered
// score (treated as worst-possible by callers).
func (p *Pool) ArchScore(arch StringID) (int, bool) {
	if p.archScore == nil {
		return 0, false
	}
	return p.archScore(arch)
}

// SetVendorClasses registers an equivalence-class id per vendor string;
// two vendors may replace each other iff they share a class.
func (p *Pool) SetVendorClasses(classes map[string]int) {
	m := make(map[StringID]int, len(classes))
	for v, c := range classes {
		m[p.InternString(v)] = c
	}
	p.vendorClass = m
}

// SameVendorClass reports whether a and b are the same vendor or are in
// the same vendor equivalence class. Two distinct vendors are never the
// same class when either of them has no registered class.
func (p *Pool) SameVendorClass(a, b StringID) bool {
	if a == b {
		return true
	}
	ca, oka := p.vendorClass[a]
	cb, okb := p.vendorClass[b]
	if !oka || !okb {
		return false
	}
	return ca == cb
}

// SetNamespaceCallback registers the namespace-dependency evaluator.
func (p *Pool) SetNamespaceCallback(cb NamespaceCallback) { p.namespaceCB = cb }

// SetLockStepArch toggles architecture lock-stepping under
// implicitobsoleteusescolors (spec.md §9 Open Question 3 — see
// DESIGN.md for the resolution).
func (p *Pool) SetLockStepArch(on bool) { p.lockStepArch = on }

// LockStepArch reports whether architecture lock-stepping is active.
func (p *Pool) LockStepArch() bool { return p.lockStepArch }

func (p *Pool) errString(s SolvableID) string {
	sv := p.Solvable(s)
	return fmt.Sprintf("%s-%s.%s", p.Name(sv.Name), sv.EVR, p.String(sv.Arch))
}
