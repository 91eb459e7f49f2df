package fennecs

import "testing"

type wPosition struct{ X, Y float64 }
type wVelocity struct{ X, Y float64 }

func TestWorldDespawnBumpsGenerationAndRecyclesIndex(t *testing.T) {
	w := NewWorld(0)
	posID := RegisterComponent[wPosition]()

	e := w.Spawn(ComponentValue{Expr: Plain(posID), Value: wPosition{X: 1}})
	if !w.IsAlive(e) {
		t.Fatalf("freshly spawned entity should be alive")
	}
	if err := w.Despawn(e); err != nil {
		t.Fatalf("despawn: %v", err)
	}
	if w.IsAlive(e) {
		t.Fatalf("despawned entity should not be alive")
	}

	e2 := w.Spawn(ComponentValue{Expr: Plain(posID), Value: wPosition{X: 2}})
	if e2.Index() != e.Index() {
		t.Fatalf("expected index reuse: got %d, want %d", e2.Index(), e.Index())
	}
	if e2.Generation() != e.Generation()+1 {
		t.Fatalf("expected generation bump: got %d, want %d", e2.Generation(), e.Generation()+1)
	}
	if w.IsAlive(e) {
		t.Fatalf("stale id must not read as alive after index reuse")
	}
	if !w.IsAlive(e2) {
		t.Fatalf("recycled id should be alive")
	}
}

func TestWorldAddComponentMigratesArchetype(t *testing.T) {
	w := NewWorld(0)
	posID := RegisterComponent[wPosition]()
	velID := RegisterComponent[wVelocity]()

	e := w.Spawn(ComponentValue{Expr: Plain(posID), Value: wPosition{X: 1, Y: 2}})
	if has, _ := w.HasComponent(e, Plain(velID)); has {
		t.Fatalf("entity should not have velocity yet")
	}

	if err := w.AddComponent(e, Plain(velID), wVelocity{X: 3, Y: 4}); err != nil {
		t.Fatalf("add component: %v", err)
	}
	if has, _ := w.HasComponent(e, Plain(velID)); !has {
		t.Fatalf("entity should have velocity after add")
	}
	pv, err := w.GetComponent(e, Plain(posID))
	if err != nil || pv.(wPosition) != (wPosition{X: 1, Y: 2}) {
		t.Fatalf("position should survive migration unchanged, got %+v, err %v", pv, err)
	}

	if err := w.RemoveComponent(e, Plain(posID)); err != nil {
		t.Fatalf("remove component: %v", err)
	}
	if _, err := w.GetComponent(e, Plain(posID)); err != ErrComponentNotFound {
		t.Fatalf("err = %v, want ErrComponentNotFound", err)
	}
	if has, _ := w.HasComponent(e, Plain(velID)); !has {
		t.Fatalf("velocity should survive the position removal")
	}
}

func TestWorldTransitionEdgesAreCached(t *testing.T) {
	w := NewWorld(0)
	posID := RegisterComponent[wPosition]()
	velID := RegisterComponent[wVelocity]()

	e1 := w.Spawn(ComponentValue{Expr: Plain(posID), Value: wPosition{}})
	e2 := w.Spawn(ComponentValue{Expr: Plain(posID), Value: wPosition{}})

	if err := w.AddComponent(e1, Plain(velID), wVelocity{}); err != nil {
		t.Fatalf("add e1: %v", err)
	}
	versionAfterFirst := w.ArchetypeVersion()
	if err := w.AddComponent(e2, Plain(velID), wVelocity{}); err != nil {
		t.Fatalf("add e2: %v", err)
	}
	if w.ArchetypeVersion() != versionAfterFirst {
		t.Fatalf("second identical transition should reuse the cached archetype, not create a new one")
	}
}

func TestWorldGetOrCreateComponent(t *testing.T) {
	w := NewWorld(0)
	posID := RegisterComponent[wPosition]()
	e := w.Spawn()

	v, err := GetOrCreateComponent[wPosition](w, e, MatchPlain())
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if v != (wPosition{}) {
		t.Fatalf("expected zero value, got %+v", v)
	}
	if err := w.AddComponent(e, Plain(posID), wPosition{X: 9}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v2, err := GetOrCreateComponent[wPosition](w, e, MatchPlain())
	if err != nil || v2.X != 9 {
		t.Fatalf("expected existing value preserved, got %+v, err %v", v2, err)
	}
}

func TestWorldGetOrCreateComponentRejectsWildcardWhenAbsent(t *testing.T) {
	w := NewWorld(0)
	e := w.Spawn()

	_, err := GetOrCreateComponent[wPosition](w, e, MatchAnyTarget())
	if err != ErrInvalidMatch {
		t.Fatalf("err = %v, want ErrInvalidMatch", err)
	}
	if has, _ := w.HasComponent(e, PlainOf[wPosition]()); has {
		t.Fatalf("rejected get-or-create must not have created a column")
	}
}
