package rdf

// ResourceID is a dense, monotonically-assigned resource identity. Retired
// ids (merge losers) are never reused; representative() forwards them to
// their survivor.
type ResourceID uint32

// Sign distinguishes an asserted-present triple from an asserted-absent
// one. Both polarities may be derived (spec §3).
type Sign uint8

const (
	Positive Sign = iota
	Negative
)

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

// TypeVariant discriminates the three literal shapes a lexical value may
// carry (spec §3, §6).
type TypeVariant uint8

const (
	TypePlain TypeVariant = iota
	TypeLanguage
	TypeDatatypeIRI
)

// Triple is an ordered (subject, predicate, object) of resource ids.
type Triple struct {
	Subject   ResourceID
	Predicate ResourceID
	Object    ResourceID
}

// SignedTriple is a Triple tagged with its polarity.
type SignedTriple struct {
	Sign Sign
	Triple
}

// CauseKind discriminates how a fact came to exist.
type CauseKind uint8

const (
	CauseStated CauseKind = iota
	CauseInferred
	CauseMerged
)

// Cause justifies a fact: Stated carries an input-line id, Inferred a
// rule-instance id, Merged a predecessor-fact id.
type Cause struct {
	Kind  CauseKind
	Value uint32
}

// Fact pairs a signed triple with its justification.
type Fact struct {
	SignedTriple
	Cause Cause
}

// literalKey identifies a literal's initial (pre-merge) identity: distinct
// (lex, variant, typeRef) triples yield distinct initial resources (spec
// §4.2) even though they may later be merged by rule.
type literalKey struct {
	lex     uint32 // heap/vocab id of the lexical value
	variant TypeVariant
	typeRef uint32 // heap/vocab id of the datatype IRI or language tag, 0 if TypePlain
}

// blankKey scopes a blank node identifier to the input document that
// declared it (spec §4.2, supplemented per SPEC_FULL.md §12: "the same
// (docID, localID) pair always yields the same resource within one
// saturation run, distinct docs never collide").
type blankKey struct {
	docID   uint32
	localID uint32
}
