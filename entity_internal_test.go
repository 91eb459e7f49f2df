package fennecs

import "testing"

func TestEntityIdPacksIndexAndGeneration(t *testing.T) {
	e := NewEntityId(42, 7)
	if e.Index() != 42 {
		t.Fatalf("Index() = %d, want 42", e.Index())
	}
	if e.Generation() != 7 {
		t.Fatalf("Generation() = %d, want 7", e.Generation())
	}
}

func TestEntityIdOrdersByIndexThenGeneration(t *testing.T) {
	a := NewEntityId(1, 9)
	b := NewEntityId(2, 0)
	if !(a < b) {
		t.Fatalf("expected index 1 to sort before index 2 regardless of generation")
	}
	c := NewEntityId(5, 1)
	d := NewEntityId(5, 2)
	if !(c < d) {
		t.Fatalf("expected same-index entities to order by generation")
	}
}

func TestTargetEqual(t *testing.T) {
	e := NewEntityId(1, 0)
	if !EntityTarget(e).Equal(EntityTarget(e)) {
		t.Fatalf("identical entity targets should be equal")
	}
	if EntityTarget(e).Equal(PlainTarget()) {
		t.Fatalf("entity and plain targets should differ")
	}
	if !ObjectTarget("a").Equal(ObjectTarget("a")) {
		t.Fatalf("identical object targets should be equal")
	}
	if ObjectTarget("a").Equal(ObjectTarget("b")) {
		t.Fatalf("distinct object targets should differ")
	}
}
