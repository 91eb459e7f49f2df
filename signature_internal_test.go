package fennecs

import "testing"

func TestBuildSignatureOrderIndependent(t *testing.T) {
	ordinal := func(t Target) uint64 { return 0 }
	a := buildSignature([]TypeExpression{Plain(2), Plain(1), Plain(3)}, ordinal)
	b := buildSignature([]TypeExpression{Plain(3), Plain(1), Plain(2)}, ordinal)
	if a.key != b.key {
		t.Fatalf("keys differ: %q vs %q", a.key, b.key)
	}
	if !a.ContainsType(1) || !a.ContainsType(2) || !a.ContainsType(3) {
		t.Fatalf("signature missing an expected type: %+v", a.exprs)
	}
}

func TestSignatureMatchingColumnsWildcard(t *testing.T) {
	e1 := NewEntityId(1, 0)
	e2 := NewEntityId(2, 0)
	ordinal := func(t Target) uint64 {
		if t.Kind() == TargetKindEntity {
			return uint64(t.Entity())
		}
		return 0
	}
	sig := buildSignature([]TypeExpression{
		Relation(5, e1),
		Relation(5, e2),
		Plain(9),
	}, ordinal)

	all := sig.MatchingColumns(5, MatchAnyEntityTarget())
	if len(all) != 2 {
		t.Fatalf("MatchingColumns(AnyEntity) = %d, want 2", len(all))
	}
	one := sig.MatchingColumns(5, MatchTarget(EntityTarget(e1)))
	if len(one) != 1 || !one[0].Target.Equal(EntityTarget(e1)) {
		t.Fatalf("MatchingColumns(specific) = %+v", one)
	}
	none := sig.MatchingColumns(5, MatchPlain())
	if len(none) != 0 {
		t.Fatalf("MatchingColumns(Plain) on relation-only type = %+v, want none", none)
	}
}
