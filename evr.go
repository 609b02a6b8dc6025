package depsolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
)

// EVR is a package version in epoch:version-release form, the
// rpm/dpkg-style version triple spec.md §3 calls out as a "primitive
// service" whose implementation isn't the design's focus. Rather than
// hand-rolling a segment-by-segment comparator, the version and release
// fields are each parsed as a semver.Version (coercing non-semver
// segments the same permissive way Masterminds/semver already does for
// the teacher's own Constraint/Version machinery), and epoch breaks
// ties first.
type EVR struct {
	Epoch   int
	Version string
	Release string

	version *semver.Version
	release *semver.Version
}

// ParseEVR parses "[epoch:]version[-release]" into an EVR. An empty
// input produces the zero EVR, which compares less than everything
// else (used for solvables that carry no meaningful version, such as
// virtual/meta packages).
func ParseEVR(s string) EVR {
	var e EVR
	rest := s

	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		if n, err := strconv.Atoi(rest[:idx]); err == nil {
			e.Epoch = n
			rest = rest[idx+1:]
		}
	}

	if idx := strings.LastIndexByte(rest, '-'); idx >= 0 {
		e.Version = rest[:idx]
		e.Release = rest[idx+1:]
	} else {
		e.Version = rest
	}

	e.version = coerceSemver(e.Version)
	e.release = coerceSemver(e.Release)
	return e
}

// coerceSemver turns an arbitrary dotted version string into something
// semver.NewVersion will accept, padding missing segments with zero the
// way rpm/dpkg version segments routinely omit a patch level.
func coerceSemver(s string) *semver.Version {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	// Strip anything past the first three numeric-ish segments; semver
	// chokes on rpm's free-form trailing qualifiers (e.g. "1.2.3.el8").
	candidate := strings.Join(parts[:3], ".")
	v, err := semver.NewVersion(candidate)
	if err != nil {
		return nil
	}
	return v
}

// String renders the EVR back to canonical [epoch:]version[-release]
// form.
func (e EVR) String() string {
	var b strings.Builder
	if e.Epoch != 0 {
		fmt.Fprintf(&b, "%d:", e.Epoch)
	}
	b.WriteString(e.Version)
	if e.Release != "" {
		b.WriteByte('-')
		b.WriteString(e.Release)
	}
	return b.String()
}

// CompareEVR implements the standard three-way rpm/dpkg EVR comparison:
// epoch first, then version, then release. Returns -1, 0, or 1.
func CompareEVR(a, b EVR) int {
	if a.Epoch != b.Epoch {
		if a.Epoch < b.Epoch {
			return -1
		}
		return 1
	}
	if c := compareSegment(a.version, b.version, a.Version, b.Version); c != 0 {
		return c
	}
	return compareSegment(a.release, b.release, a.Release, b.Release)
}

func compareSegment(av, bv *semver.Version, araw, braw string) int {
	switch {
	case av != nil && bv != nil:
		return av.Compare(bv)
	case araw == braw:
		return 0
	case araw < braw:
		return -1
	default:
		return 1
	}
}

// Op is a relational comparison operator usable in a Reldep.
type Op uint8

const (
	OpAny Op = iota
	OpLT
	OpLE
	OpEQ
	OpGE
	OpGT
	OpNE
)

func (o Op) String() string {
	switch o {
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpEQ:
		return "="
	case OpGE:
		return ">="
	case OpGT:
		return ">"
	case OpNE:
		return "!="
	default:
		return ""
	}
}

// Satisfies reports whether comparing a candidate EVR against a
// required EVR with op holds, i.e. "candidate OP required".
func (o Op) Satisfies(candidate, required EVR) bool {
	c := CompareEVR(candidate, required)
	switch o {
	case OpLT:
		return c < 0
	case OpLE:
		return c <= 0
	case OpEQ:
		return c == 0
	case OpGE:
		return c >= 0
	case OpGT:
		return c > 0
	case OpNE:
		return c != 0
	default:
		return true
	}
}
