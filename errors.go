package fennecs

import "github.com/rotisserie/eris"

// Sentinel errors for the failure kinds documented in the core's error handling design.
// Call sites return these sentinels unwrapped, so callers can compare against them with == or
// eris.Is.
var (
	// ErrEntityNotAlive is returned for any operation on a stale or never-spawned EntityId.
	ErrEntityNotAlive = eris.New("fennecs: entity is not alive")

	// ErrComponentNotFound is returned by a get on an entity whose archetype has no
	// matching column.
	ErrComponentNotFound = eris.New("fennecs: component not found")

	// ErrColumnMissing is returned by Blit when a matched archetype lacks the exact
	// (type, target) column being written.
	ErrColumnMissing = eris.New("fennecs: blit target column missing from archetype")

	// ErrTypeMismatch is returned when type-erased storage is called with a value whose
	// runtime type does not match the column's element type.
	ErrTypeMismatch = eris.New("fennecs: value type does not match storage element type")

	// ErrInvalidMatch is returned when a wildcard Match is passed to a mutating operation
	// that requires a specific target.
	ErrInvalidMatch = eris.New("fennecs: wildcard match not allowed in mutating operation")

	// ErrStructuralMutationDuringIteration is returned when a structural mutation is
	// attempted while the world's structural lock is held for reading (i.e. from inside a
	// Query iteration callback).
	ErrStructuralMutationDuringIteration = eris.New("fennecs: structural mutation attempted during iteration")
)
