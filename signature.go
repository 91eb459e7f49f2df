package fennecs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kelindar/bitmap"
)

// Signature is the unordered, de-duplicated set of TypeExpressions an archetype carries. It is
// the identity of an archetype: two archetypes with the same Signature must not exist in
// a World. Signature stores its TypeExpressions in a canonical order (assigned once, by
// World.signatureOf) purely so equal sets always produce an equal cache key; the order carries
// no semantic meaning to callers.
type Signature struct {
	exprs    []TypeExpression
	typeBits bitmap.Bitmap // bit per TypeId, set regardless of target; a superset pre-filter
	key      string        // canonical cache key for the archetype index
}

// Len returns the number of TypeExpressions in the signature.
func (s Signature) Len() int { return len(s.exprs) }

// Exprs returns the signature's TypeExpressions. The returned slice must not be mutated.
func (s Signature) Exprs() []TypeExpression { return s.exprs }

// Contains reports whether the signature carries the exact TypeExpression te.
func (s Signature) Contains(te TypeExpression) bool {
	for _, e := range s.exprs {
		if e.Equal(te) {
			return true
		}
	}
	return false
}

// ContainsType reports whether the signature carries any column of type id, of any target.
func (s Signature) ContainsType(id TypeId) bool {
	return s.typeBits.Contains(uint32(id))
}

// MatchingColumns returns every TypeExpression in the signature that satisfies (id, m), in
// signature order. A non-wildcard Match returns at most one expression; a wildcard Match may
// return several, which the cross-join enumerates as a cartesian product with the other
// stream positions.
func (s Signature) MatchingColumns(id TypeId, m Match) []TypeExpression {
	if !s.ContainsType(id) {
		return nil
	}
	var out []TypeExpression
	for _, e := range s.exprs {
		if e.Matches(id, m) {
			out = append(out, e)
		}
	}
	return out
}

// exprKey returns a stable identifier for the given sorted TypeExpression, used to build the
// canonical map key for a Signature. Entity/Object targets are distinguished by the
// caller-supplied secondary ordinal (see World.signatureOf).
func exprKey(te TypeExpression, ordinal uint64) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(te.Type), 10))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(int(te.Target.Kind())))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(ordinal, 10))
	return b.String()
}

// buildSignature sorts exprs into canonical order (by the caller-supplied ordinal function,
// which resolves an Entity/Object target to a stable per-world integer) and derives the
// bitmap and cache key. It is the sole constructor of Signature; callers go through
// World.signatureOf so the ordinal function always agrees with the world's object registry.
func buildSignature(exprs []TypeExpression, ordinal func(Target) uint64) Signature {
	sorted := make([]TypeExpression, len(exprs))
	copy(sorted, exprs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type < sorted[j].Type
		}
		if sorted[i].Target.Kind() != sorted[j].Target.Kind() {
			return sorted[i].Target.Kind() < sorted[j].Target.Kind()
		}
		return ordinal(sorted[i].Target) < ordinal(sorted[j].Target)
	})

	var bits bitmap.Bitmap
	keys := make([]string, len(sorted))
	for i, e := range sorted {
		bits.Set(uint32(e.Type))
		keys[i] = exprKey(e, ordinal(e.Target))
	}

	return Signature{
		exprs:    sorted,
		typeBits: bits,
		key:      strings.Join(keys, "|"),
	}
}
