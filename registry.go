package fennecs

import (
	"reflect"
	"sync"
)

// Component is implemented by any Go type usable as component data. It carries no methods and
// restricts nothing; RegisterComponent and the other generic helpers take a plain T any. It
// exists as a named marker to give future collaborators (serializers, editors) a marker to hang reflection off of, per the
// core's own boundary: "reflection-based type registration... is out of scope for the core,
// specified only via the interfaces it exposes."
type Component any

// registry is the reflection-based collaborator that assigns a stable TypeId to each distinct
// Go type used as component data, and remembers how to build a fresh column for it. The core
// (Storage, Archetype, World, Query) never imports "reflect" itself; every TypeId it handles
// was minted here first, mirroring how Argus's componentManager sits beside, not inside, its
// archetype implementation.
type registry struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]TypeId
	names   []string
	factory []func() Storage
}

var globalRegistry = &registry{byType: make(map[reflect.Type]TypeId)}

// RegisterComponent assigns (or returns the existing) TypeId for T, identified by its Go
// reflect.Type. Safe to call repeatedly and concurrently; registration is idempotent.
func RegisterComponent[T any]() TypeId {
	return globalRegistry.idFor(reflect.TypeOf((*T)(nil)).Elem(), newStorageFactory[T]())
}

// TypeIDOf returns the TypeId for T, registering it on first use.
func TypeIDOf[T any]() TypeId {
	return RegisterComponent[T]()
}

// TypeName returns the registered display name (its Go type's String()) for id, or "" if id
// was never registered through this package.
func TypeName(id TypeId) string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	if int(id) >= len(globalRegistry.names) {
		return ""
	}
	return globalRegistry.names[id]
}

func (r *registry) idFor(rt reflect.Type, factory func() Storage) TypeId {
	r.mu.RLock()
	if id, ok := r.byType[rt]; ok {
		r.mu.RUnlock()
		return id
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byType[rt]; ok {
		return id
	}
	id := TypeId(len(r.factory))
	r.byType[rt] = id
	r.factory = append(r.factory, factory)
	r.names = append(r.names, rt.String())
	return id
}

// newColumn builds a fresh, empty Storage for the given, already-registered TypeId.
func newColumn(id TypeId) Storage {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return globalRegistry.factory[id]()
}
