package depsolve

// Combinator is the closed set of structural combinators a Reldep can
// carry, per spec.md §3. Plain/versioned/arch relations use CombNone;
// the rest build up complex dependency expressions, which MatchNEVR
// evaluates recursively; they are not normalized to CNF/DNF.
type Combinator uint8

const (
	CombNone Combinator = iota
	CombAnd
	CombOr
	CombWith
	CombCond
	CombUnless
	CombElse
	CombNamespace
)

// Reldep is the tagged union described in spec.md §3: a plain name, a
// versioned relation, an arch-qualified name, or a structural
// combinator over two child dependencies. Using an explicit
// discriminant (Comb) rather than an interface keeps this a closed sum,
// per the "tagged variants...never virtual dispatch" guidance in §9 —
// a reimplementation may use the sign-of-id trick libsolv does, but the
// discriminant is the contract, not the encoding.
type Reldep struct {
	// Comb is CombNone for a plain/versioned/arch relation, or one of
	// the structural combinators.
	Comb Combinator

	// Name is the subject name for a plain/versioned/arch relation.
	Name NameID
	// Op and EVR apply when Op != OpAny: "Name OP EVR".
	Op  Op
	EVR EVR
	// Arch, if non-zero, qualifies Name as "Name.Arch".
	Arch StringID

	// Left and Right are child dependency ids for combinators. For
	// CombNamespace, Left is the namespace name and Right is the
	// evaluated argument (e.g. language(de) encodes de as Right).
	Left  DepID
	Right DepID
}

// IsPlain reports whether this Reldep is a simple name lookup with no
// version, arch, or structural qualification.
func (r Reldep) IsPlain() bool {
	return r.Comb == CombNone && r.Op == OpAny && r.Arch == 0
}

// IsStructural reports whether this Reldep is a combinator over other
// dependencies rather than a leaf name/version/arch relation.
func (r Reldep) IsStructural() bool {
	return r.Comb != CombNone
}
