package fennecs

import "runtime"

// PlainOf returns the TypeExpression for a plain component of type T, registering T on first
// use. This, and the sibling helpers below, are the generic bridge between the untyped,
// TypeId-keyed core and ergonomic call sites. The reflection they rely on (RegisterComponent)
// lives entirely outside the core's own package-private storage/archetype/world machinery.
func PlainOf[T any]() TypeExpression { return Plain(TypeIDOf[T]()) }

// RelationOf returns the TypeExpression for a component of type T relating to entity e.
func RelationOf[T any](e EntityId) TypeExpression { return Relation(TypeIDOf[T](), e) }

// LinkOf returns the TypeExpression for a component of type T linking to external object o.
func LinkOf[T any](o ObjectId) TypeExpression { return Link(TypeIDOf[T](), o) }

// AddComponent sets e's value at expr to value, migrating archetypes if needed.
func AddComponent[T any](w *World, e EntityId, expr TypeExpression, value T) error {
	return w.AddComponent(e, expr, value)
}

// RemoveComponent removes e's column at expr.
func RemoveComponent[T any](w *World, e EntityId, expr TypeExpression) error {
	return w.RemoveComponent(e, expr)
}

// GetComponent returns e's typed value at expr.
func GetComponent[T any](w *World, e EntityId, expr TypeExpression) (T, error) {
	v, err := w.GetComponent(e, expr)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrTypeMismatch
	}
	return t, nil
}

// HasComponent reports whether e carries the exact column expr.
func HasComponent(w *World, e EntityId, expr TypeExpression) (bool, error) {
	return w.HasComponent(e, expr)
}

// HasComponentMatch reports whether e carries any column of type T matching m. Unlike
// HasComponent, m may be a wildcard: HasComponentMatch[Likes](w, e, MatchAnyEntityTarget())
// asks whether e likes anything at all.
func HasComponentMatch[T any](w *World, e EntityId, m Match) (bool, error) {
	return w.HasComponentMatch(e, TypeIDOf[T](), m)
}

// GetComponentMatch returns e's typed value at the first column of type T matching m, or
// ErrComponentNotFound if none does. m may be a wildcard.
func GetComponentMatch[T any](w *World, e EntityId, m Match) (T, error) {
	v, err := w.GetComponentMatch(e, TypeIDOf[T](), m)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, ErrTypeMismatch
	}
	return t, nil
}

// GetOrCreateComponent returns e's existing value matching (TypeIDOf[T](), m), or adds T's
// zero value if absent. m must resolve to a specific target (MatchPlain or MatchTarget) to
// create a column; a wildcard m with no existing match fails with ErrInvalidMatch.
func GetOrCreateComponent[T any](w *World, e EntityId, m Match) (T, error) {
	v, err := w.GetOrCreateComponent(e, TypeIDOf[T](), m, func() any { var zero T; return zero })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Query1 is a typed single-stream Query: every row yields its entity and one A value.
type Query1[A any] struct{ q *Query }

// NewQuery1 compiles a Query1 over w, matching m1 for A. without lists StreamTypes an
// archetype must not satisfy.
func NewQuery1[A any](w *World, m1 Match, without ...StreamType) *Query1[A] {
	st := StreamType{Type: TypeIDOf[A](), Match: m1}
	return &Query1[A]{q: NewQuery(w, []StreamType{st}, without)}
}

// Query returns the untyped Query underlying this typed view, for Warmup/Count/Raw.
func (q *Query1[A]) Query() *Query { return q.q }

// For visits every matching row, giving action a pointer into A's live storage so it can read
// or mutate the component in place. The pointer must not be retained past the call.
func (q *Query1[A]) For(action func(e EntityId, a *A)) {
	q.q.For(func(e EntityId, values []any) { action(e, values[0].(*A)) })
}

// ForWithUniform is For, additionally passing uniform to every call.
func (q *Query1[A]) ForWithUniform(action func(e EntityId, a *A, uniform any), uniform any) {
	q.q.ForWithUniform(func(e EntityId, values []any, u any) { action(e, values[0].(*A), u) }, uniform)
}

// Job visits every matching row in parallel across runtime.GOMAXPROCS(0) workers, giving
// action a pointer into A's live storage for that row. Two workers never touch the same row,
// so writes through the pointer never race.
func (q *Query1[A]) Job(action func(e EntityId, a *A)) error {
	return q.q.JobWithConcurrency(func(e EntityId, values []any) {
		action(e, values[0].(*A))
	}, runtime.GOMAXPROCS(0))
}

// JobWithUniform is Job, additionally passing uniform to every call.
func (q *Query1[A]) JobWithUniform(action func(e EntityId, a *A, uniform any), uniform any) error {
	return q.q.JobWithConcurrencyAndUniform(func(e EntityId, values []any, u any) {
		action(e, values[0].(*A), u)
	}, runtime.GOMAXPROCS(0), uniform)
}

// Blit overwrites every matching row's A value with a.
func (q *Query1[A]) Blit(a A) error { return q.q.Blit(0, a) }

// Query2 is a typed two-stream Query: every row yields its entity, an A value, and a B value.
type Query2[A, B any] struct{ q *Query }

// NewQuery2 compiles a Query2 over w, matching m1 for A and m2 for B.
func NewQuery2[A, B any](w *World, m1, m2 Match, without ...StreamType) *Query2[A, B] {
	sts := []StreamType{
		{Type: TypeIDOf[A](), Match: m1},
		{Type: TypeIDOf[B](), Match: m2},
	}
	return &Query2[A, B]{q: NewQuery(w, sts, without)}
}

func (q *Query2[A, B]) Query() *Query { return q.q }

// For visits every matching row, giving action pointers into A and B's live storage.
func (q *Query2[A, B]) For(action func(e EntityId, a *A, b *B)) {
	q.q.For(func(e EntityId, values []any) { action(e, values[0].(*A), values[1].(*B)) })
}

// ForWithUniform is For, additionally passing uniform to every call.
func (q *Query2[A, B]) ForWithUniform(action func(e EntityId, a *A, b *B, uniform any), uniform any) {
	q.q.ForWithUniform(func(e EntityId, values []any, u any) {
		action(e, values[0].(*A), values[1].(*B), u)
	}, uniform)
}

func (q *Query2[A, B]) Job(action func(e EntityId, a *A, b *B)) error {
	return q.q.JobWithConcurrency(func(e EntityId, values []any) {
		action(e, values[0].(*A), values[1].(*B))
	}, runtime.GOMAXPROCS(0))
}

// JobWithUniform is Job, additionally passing uniform to every call.
func (q *Query2[A, B]) JobWithUniform(action func(e EntityId, a *A, b *B, uniform any), uniform any) error {
	return q.q.JobWithConcurrencyAndUniform(func(e EntityId, values []any, u any) {
		action(e, values[0].(*A), values[1].(*B), u)
	}, runtime.GOMAXPROCS(0), uniform)
}

// Query3 is a typed three-stream Query.
type Query3[A, B, C any] struct{ q *Query }

// NewQuery3 compiles a Query3 over w, matching m1/m2/m3 for A/B/C respectively.
func NewQuery3[A, B, C any](w *World, m1, m2, m3 Match, without ...StreamType) *Query3[A, B, C] {
	sts := []StreamType{
		{Type: TypeIDOf[A](), Match: m1},
		{Type: TypeIDOf[B](), Match: m2},
		{Type: TypeIDOf[C](), Match: m3},
	}
	return &Query3[A, B, C]{q: NewQuery(w, sts, without)}
}

func (q *Query3[A, B, C]) Query() *Query { return q.q }

// For visits every matching row, giving action pointers into A, B, and C's live storage.
func (q *Query3[A, B, C]) For(action func(e EntityId, a *A, b *B, c *C)) {
	q.q.For(func(e EntityId, values []any) {
		action(e, values[0].(*A), values[1].(*B), values[2].(*C))
	})
}

// ForWithUniform is For, additionally passing uniform to every call.
func (q *Query3[A, B, C]) ForWithUniform(action func(e EntityId, a *A, b *B, c *C, uniform any), uniform any) {
	q.q.ForWithUniform(func(e EntityId, values []any, u any) {
		action(e, values[0].(*A), values[1].(*B), values[2].(*C), u)
	}, uniform)
}

func (q *Query3[A, B, C]) Job(action func(e EntityId, a *A, b *B, c *C)) error {
	return q.q.JobWithConcurrency(func(e EntityId, values []any) {
		action(e, values[0].(*A), values[1].(*B), values[2].(*C))
	}, runtime.GOMAXPROCS(0))
}

// JobWithUniform is Job, additionally passing uniform to every call.
func (q *Query3[A, B, C]) JobWithUniform(action func(e EntityId, a *A, b *B, c *C, uniform any), uniform any) error {
	return q.q.JobWithConcurrencyAndUniform(func(e EntityId, values []any, u any) {
		action(e, values[0].(*A), values[1].(*B), values[2].(*C), u)
	}, runtime.GOMAXPROCS(0), uniform)
}
