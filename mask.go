package fennecs

// AnyOfGroup is a set of StreamTypes an archetype satisfies by carrying a matching column for
// at least one of them, not necessarily all.
type AnyOfGroup []StreamType

// Mask is a Query's compiled filter: every stream type in with must have at least one matching
// column in a candidate archetype, no stream type in without may have any matching column, and
// every group in anyOf must have at least one of its StreamTypes matched.
type Mask struct {
	with    []StreamType
	without []StreamType
	anyOf   []AnyOfGroup
}

// NewMask builds a Mask requiring every one of with, excluding every one of without, and
// requiring at least one match from each group in anyOf.
func NewMask(with, without []StreamType, anyOf ...AnyOfGroup) Mask {
	return Mask{
		with:    append([]StreamType(nil), with...),
		without: append([]StreamType(nil), without...),
		anyOf:   append([]AnyOfGroup(nil), anyOf...),
	}
}

// MatchesArchetype reports whether sig satisfies the mask.
func (m Mask) MatchesArchetype(sig Signature) bool {
	for _, st := range m.with {
		if len(sig.MatchingColumns(st.Type, st.Match)) == 0 {
			return false
		}
	}
	for _, st := range m.without {
		if len(sig.MatchingColumns(st.Type, st.Match)) > 0 {
			return false
		}
	}
	for _, group := range m.anyOf {
		satisfied := false
		for _, st := range group {
			if len(sig.MatchingColumns(st.Type, st.Match)) > 0 {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
