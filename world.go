package fennecs

import (
	"sync"
	"sync/atomic"

	"github.com/PennyMew/fennecs/internal/assert"
)

// entityRecord is the entity directory's per-index slot: which archetype and row currently
// hold the entity's data, and the generation that must match an EntityId for it to be
// considered alive.
type entityRecord struct {
	archetype  *Archetype
	row        int
	generation uint32
	alive      bool
}

// ComponentValue pairs a TypeExpression with the value to store there, for Spawn.
type ComponentValue struct {
	Expr  TypeExpression
	Value any
}

// World is the entity directory, archetype index, and archetype transition graph: the
// structural core of the ECS. Structural mutation (Spawn, Despawn, AddComponent,
// RemoveComponent) takes an exclusive lock; iteration (Query.For/Raw/Job) takes a shared one,
// following a single-writer/many-reader discipline.
type World struct {
	mu sync.RWMutex

	// iterDepth counts in-flight iterations across all goroutines. Structural mutation checks
	// it before attempting mu.Lock so a callback that tries to mutate from inside its own
	// iteration fails fast with ErrStructuralMutationDuringIteration instead of deadlocking on
	// the non-reentrant RWMutex. As a side effect, a mutation from an unrelated goroutine that
	// merely races against an in-flight iteration is also rejected rather than queued, a
	// conservative trade documented in DESIGN.md.
	iterDepth int32

	entities []entityRecord
	freeList []uint32

	archetypes       []*Archetype
	byKey            map[string]*Archetype
	archetypeVersion uint64

	objectOrdinals    map[ObjectId]uint64
	nextObjectOrdinal uint64

	empty *Archetype
}

// NewWorld returns an empty World, already holding the zero-component archetype every entity
// without components belongs to. initialCapacity preallocates the entity directory; 0 is a
// valid hint and just means "grow from empty".
func NewWorld(initialCapacity int) *World {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	w := &World{
		entities:       make([]entityRecord, 0, initialCapacity),
		byKey:          make(map[string]*Archetype),
		objectOrdinals: make(map[ObjectId]uint64),
	}
	w.empty = w.archetypeFor(w.signatureOf(nil))
	return w
}

// Archetypes returns every archetype the world has ever created. The slice must not be
// mutated; it may grow between calls as new signatures are seen.
func (w *World) Archetypes() []*Archetype { return w.archetypes }

// ArchetypeVersion increases every time a new archetype is created, letting a Query cheaply
// tell whether its cached archetype list might be stale.
func (w *World) ArchetypeVersion() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.archetypeVersionLocked()
}

// archetypeVersionLocked reads the archetype version without acquiring mu; callers that
// already hold mu (Query, iterating under beginIteration) use this instead of the recursive
// RLock ArchetypeVersion would otherwise take.
func (w *World) archetypeVersionLocked() uint64 { return w.archetypeVersion }

func (w *World) ordinal(t Target) uint64 {
	switch t.Kind() {
	case TargetKindEntity:
		return uint64(t.Entity())
	case TargetKindObject:
		return w.objectOrdinal(t.Object())
	default:
		return 0
	}
}

// objectOrdinal assigns a stable, monotonically increasing integer to each distinct ObjectId
// seen, the first time it is seen, so Signature ordering does not depend on ObjectId's
// underlying type having a meaningful "<" (it may be a pointer, a string, anything comparable).
func (w *World) objectOrdinal(o ObjectId) uint64 {
	if id, ok := w.objectOrdinals[o]; ok {
		return id
	}
	id := w.nextObjectOrdinal
	w.nextObjectOrdinal++
	w.objectOrdinals[o] = id
	return id
}

func (w *World) signatureOf(exprs []TypeExpression) Signature {
	return buildSignature(exprs, w.ordinal)
}

func (w *World) archetypeFor(sig Signature) *Archetype {
	if a, ok := w.byKey[sig.key]; ok {
		return a
	}
	a := newArchetype(archetypeId(len(w.archetypes)), sig)
	w.archetypes = append(w.archetypes, a)
	w.byKey[sig.key] = a
	w.archetypeVersion++
	currentLogger().Debug().Uint32("archetype", uint32(a.id)).Int("components", sig.Len()).
		Msg("fennecs: archetype created")
	return a
}

func (w *World) transitionAdd(src *Archetype, expr TypeExpression) *Archetype {
	if id, ok := src.addEdge[expr]; ok {
		return w.archetypes[id]
	}
	exprs := append(append([]TypeExpression(nil), src.sig.Exprs()...), expr)
	dst := w.archetypeFor(w.signatureOf(exprs))
	src.addEdge[expr] = dst.id
	dst.removeEdge[expr] = src.id
	return dst
}

func (w *World) transitionRemove(src *Archetype, expr TypeExpression) *Archetype {
	if id, ok := src.removeEdge[expr]; ok {
		return w.archetypes[id]
	}
	exprs := make([]TypeExpression, 0, src.sig.Len())
	for _, e := range src.sig.Exprs() {
		if !e.Equal(expr) {
			exprs = append(exprs, e)
		}
	}
	dst := w.archetypeFor(w.signatureOf(exprs))
	src.removeEdge[expr] = dst.id
	dst.addEdge[expr] = src.id
	return dst
}

func (w *World) checkAlive(e EntityId) (entityRecord, error) {
	idx := e.Index()
	if int(idx) >= len(w.entities) {
		return entityRecord{}, ErrEntityNotAlive
	}
	rec := w.entities[idx]
	if !rec.alive || rec.generation != e.Generation() {
		return entityRecord{}, ErrEntityNotAlive
	}
	return rec, nil
}

// beginMutation returns ErrStructuralMutationDuringIteration if an iteration is in flight,
// otherwise takes the exclusive structural lock.
func (w *World) beginMutation() error {
	if atomic.LoadInt32(&w.iterDepth) > 0 {
		currentLogger().Warn().Msg("fennecs: structural mutation rejected during iteration")
		return ErrStructuralMutationDuringIteration
	}
	w.mu.Lock()
	return nil
}

func (w *World) endMutation() { w.mu.Unlock() }

// beginIteration marks an iteration in flight and takes the shared structural lock. Every
// Query iteration variant (For, Raw, Job, Blit) must pair this with endIteration.
func (w *World) beginIteration() {
	atomic.AddInt32(&w.iterDepth, 1)
	w.mu.RLock()
}

func (w *World) endIteration() {
	w.mu.RUnlock()
	atomic.AddInt32(&w.iterDepth, -1)
}

// Spawn creates a new entity with the given component values and returns its EntityId. An
// entity with no values still gets a directory slot in the empty archetype.
func (w *World) Spawn(values ...ComponentValue) EntityId {
	if err := w.beginMutation(); err != nil {
		// Spawn during iteration is a programmer error the caller cannot recover a value
		// from; panicking here, rather than an (EntityId, error) signature every caller must
		// check, treats it as an invariant violation rather than a normal failure mode.
		panic(err)
	}
	defer w.endMutation()

	exprs := make([]TypeExpression, len(values))
	for i, cv := range values {
		exprs[i] = cv.Expr
	}
	arch := w.archetypeFor(w.signatureOf(exprs))

	var index uint32
	var gen uint32
	if n := len(w.freeList); n > 0 {
		index = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		gen = w.entities[index].generation
	} else {
		index = uint32(len(w.entities))
		w.entities = append(w.entities, entityRecord{})
	}
	id := NewEntityId(index, gen)
	row := arch.AddRow(id)
	for _, cv := range values {
		col, ok := arch.Column(cv.Expr)
		assert.That(ok, "fennecs: spawn built an archetype missing its own column %v", cv.Expr)
		if err := col.Store(row, cv.Value); err != nil {
			panic(err)
		}
	}
	w.entities[index] = entityRecord{archetype: arch, row: row, generation: gen, alive: true}
	return id
}

// Despawn removes e from the world, freeing its directory slot for reuse under a bumped
// generation.
func (w *World) Despawn(e EntityId) error {
	if err := w.beginMutation(); err != nil {
		return err
	}
	defer w.endMutation()

	rec, err := w.checkAlive(e)
	if err != nil {
		return err
	}
	if survivor, had := rec.archetype.RemoveRow(rec.row); had {
		w.entities[survivor.Index()].row = rec.row
	}
	idx := e.Index()
	w.entities[idx] = entityRecord{generation: rec.generation + 1, alive: false}
	w.freeList = append(w.freeList, idx)
	return nil
}

// IsAlive reports whether e still refers to a live entity at its recorded generation.
func (w *World) IsAlive(e EntityId) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, err := w.checkAlive(e)
	return err == nil
}

// AddComponent adds or overwrites the value at expr on e, migrating it to a new archetype if
// it did not already carry that column.
func (w *World) AddComponent(e EntityId, expr TypeExpression, value any) error {
	if err := w.beginMutation(); err != nil {
		return err
	}
	defer w.endMutation()

	rec, err := w.checkAlive(e)
	if err != nil {
		return err
	}
	src := rec.archetype
	if src.sig.Contains(expr) {
		col, _ := src.Column(expr)
		return col.Store(rec.row, value)
	}

	dst := w.transitionAdd(src, expr)
	newRow, survivor, had := src.MigrateRow(rec.row, dst)
	if had {
		w.entities[survivor.Index()].row = rec.row
	}
	w.entities[e.Index()] = entityRecord{archetype: dst, row: newRow, generation: e.Generation(), alive: true}
	col, ok := dst.Column(expr)
	assert.That(ok, "fennecs: add-transition archetype missing its own column %v", expr)
	return col.Store(newRow, value)
}

// RemoveComponent removes the column at expr from e, migrating it to a new archetype. A no-op
// if e does not carry that column.
func (w *World) RemoveComponent(e EntityId, expr TypeExpression) error {
	if err := w.beginMutation(); err != nil {
		return err
	}
	defer w.endMutation()

	rec, err := w.checkAlive(e)
	if err != nil {
		return err
	}
	src := rec.archetype
	if !src.sig.Contains(expr) {
		return nil
	}

	dst := w.transitionRemove(src, expr)
	newRow, survivor, had := src.MigrateRow(rec.row, dst)
	if had {
		w.entities[survivor.Index()].row = rec.row
	}
	w.entities[e.Index()] = entityRecord{archetype: dst, row: newRow, generation: e.Generation(), alive: true}
	return nil
}

// HasComponent reports whether e's archetype carries the exact column expr.
func (w *World) HasComponent(e EntityId, expr TypeExpression) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, err := w.checkAlive(e)
	if err != nil {
		return false, err
	}
	return rec.archetype.sig.Contains(expr), nil
}

// HasComponentMatch reports whether e's archetype carries at least one column matching (id, m).
// Unlike HasComponent, m may be a wildcard: HasComponentMatch(e, likesID, MatchAnyEntityTarget())
// asks whether e has any Likes relation at all, the question an exact TypeExpression can't ask.
func (w *World) HasComponentMatch(e EntityId, id TypeId, m Match) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, err := w.checkAlive(e)
	if err != nil {
		return false, err
	}
	return len(rec.archetype.MatchingColumns(id, m)) > 0, nil
}

// GetComponent returns e's boxed value at expr, or ErrComponentNotFound if it carries no such
// column.
func (w *World) GetComponent(e EntityId, expr TypeExpression) (any, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, err := w.checkAlive(e)
	if err != nil {
		return nil, err
	}
	col, ok := rec.archetype.Column(expr)
	if !ok {
		return nil, ErrComponentNotFound
	}
	return col.Get(rec.row), nil
}

// GetComponentMatch returns e's boxed value at the first column matching (id, m), or
// ErrComponentNotFound if none does. m may be a wildcard; when more than one column matches,
// the one returned is whichever MatchingColumns lists first (signature order).
func (w *World) GetComponentMatch(e EntityId, id TypeId, m Match) (any, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, err := w.checkAlive(e)
	if err != nil {
		return nil, err
	}
	cols := rec.archetype.MatchingColumns(id, m)
	if len(cols) == 0 {
		return nil, ErrComponentNotFound
	}
	col, _ := rec.archetype.Column(cols[0])
	return col.Get(rec.row), nil
}

// GetSignature returns e's archetype signature: the full set of columns it currently carries.
func (w *World) GetSignature(e EntityId) (Signature, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, err := w.checkAlive(e)
	if err != nil {
		return Signature{}, err
	}
	return rec.archetype.Signature(), nil
}

// WorldGuard is a scoped handle on the World's exclusive structural lock, returned by
// World.Lock. Unlock releases it; callers typically defer that immediately after acquiring.
type WorldGuard struct {
	w *World
}

// Lock takes the World's exclusive structural lock for a batch of mutations spanning more than
// one call, returning a guard whose Unlock releases it. Like Spawn/AddComponent/RemoveComponent,
// it fails fast with ErrStructuralMutationDuringIteration rather than blocking if a Query
// iteration is currently in flight on this World.
func (w *World) Lock() (*WorldGuard, error) {
	if err := w.beginMutation(); err != nil {
		return nil, err
	}
	return &WorldGuard{w: w}, nil
}

// Unlock releases the exclusive lock taken by Lock.
func (g *WorldGuard) Unlock() { g.w.endMutation() }

// GetOrCreateComponent returns e's existing value matching (id, m), or creates one at the
// target m resolves to if e has no matching column. Creating a column requires a specific
// target: a wildcard m with no existing match fails with ErrInvalidMatch, since there is no
// single target to create the column at.
func (w *World) GetOrCreateComponent(e EntityId, id TypeId, m Match, zero func() any) (any, error) {
	if err := w.beginMutation(); err != nil {
		return nil, err
	}
	defer w.endMutation()

	rec, err := w.checkAlive(e)
	if err != nil {
		return nil, err
	}
	if cols := rec.archetype.MatchingColumns(id, m); len(cols) > 0 {
		col, _ := rec.archetype.Column(cols[0])
		return col.Get(rec.row), nil
	}

	target, ok := targetForCreate(m)
	if !ok {
		return nil, ErrInvalidMatch
	}
	expr := TypeExpression{Type: id, Target: target}

	src := rec.archetype
	dst := w.transitionAdd(src, expr)
	newRow, survivor, had := src.MigrateRow(rec.row, dst)
	if had {
		w.entities[survivor.Index()].row = rec.row
	}
	w.entities[e.Index()] = entityRecord{archetype: dst, row: newRow, generation: e.Generation(), alive: true}
	value := zero()
	col, ok := dst.Column(expr)
	assert.That(ok, "fennecs: add-transition archetype missing its own column %v", expr)
	if err := col.Store(newRow, value); err != nil {
		return nil, err
	}
	return value, nil
}

// targetForCreate resolves the concrete Target a new column should be created at for m, or
// reports false if m is a wildcard with no single well-defined target (AnyEntity, AnyObject,
// Any). Only MatchPlain and an exact MatchTarget name a target a column can actually be
// created at.
func targetForCreate(m Match) (Target, bool) {
	switch m.Kind() {
	case MatchKindPlain:
		return PlainTarget(), true
	case MatchKindSpecific:
		return m.Target(), true
	default:
		return Target{}, false
	}
}
