package fennecs

import "fmt"

// TypeId is an opaque, small, comparable identifier for a component's data type. The core
// never inspects how a TypeId was minted; RegisterComponent (registry.go) is the reflection-
// based collaborator that assigns one per Go type.
type TypeId uint32

// TypeExpression is the full key of a column: a component type paired with the target that
// selects which relation/link instance of that type a column holds.
type TypeExpression struct {
	Type   TypeId
	Target Target
}

// Plain builds the TypeExpression for a plain (non-relational) component of type id.
func Plain(id TypeId) TypeExpression {
	return TypeExpression{Type: id, Target: PlainTarget()}
}

// Relation builds the TypeExpression for a component of type id relating to entity e.
func Relation(id TypeId, e EntityId) TypeExpression {
	return TypeExpression{Type: id, Target: EntityTarget(e)}
}

// Link builds the TypeExpression for a component of type id linking to external object o.
func Link(id TypeId, o ObjectId) TypeExpression {
	return TypeExpression{Type: id, Target: ObjectTarget(o)}
}

// Equal reports whether two TypeExpressions denote the exact same column key.
func (te TypeExpression) Equal(o TypeExpression) bool {
	return te.Type == o.Type && te.Target.Equal(o.Target)
}

func (te TypeExpression) String() string {
	return fmt.Sprintf("Type(%d)@%s", te.Type, te.Target)
}

// MatchKind discriminates the five predicate shapes a Match can carry.
type MatchKind uint8

const (
	// MatchKindPlain matches only the plain target of a type.
	MatchKindPlain MatchKind = iota
	// MatchKindSpecific matches one exact target (an Entity(id) or Object(id)) of a type.
	MatchKindSpecific
	// MatchKindAnyEntity matches any Entity(_) target of a type.
	MatchKindAnyEntity
	// MatchKindAnyObject matches any Object(_) target of a type.
	MatchKindAnyObject
	// MatchKindAny matches every target of a type, wildcard across Plain/Entity/Object.
	MatchKindAny
)

// IsWildcard reports whether m can match more than one column of the same type in a single
// archetype (and therefore participates in the cross-join).
func (m MatchKind) IsWildcard() bool {
	return m == MatchKindAnyEntity || m == MatchKindAnyObject || m == MatchKindAny
}

// Match is a predicate over Target, used both to declare a Query's stream types and to test
// has_component. Construct with MatchPlain, MatchTarget, MatchAnyEntityTarget,
// MatchAnyObjectTarget, or MatchAnyTarget.
type Match struct {
	kind   MatchKind
	target Target // only meaningful when kind == MatchKindSpecific
}

// MatchPlain returns the predicate that accepts only a Plain target.
func MatchPlain() Match { return Match{kind: MatchKindPlain} }

// MatchTarget returns the predicate that accepts only the exact given target.
func MatchTarget(t Target) Match { return Match{kind: MatchKindSpecific, target: t} }

// MatchAnyEntityTarget returns the wildcard predicate that accepts any Entity(_) target.
func MatchAnyEntityTarget() Match { return Match{kind: MatchKindAnyEntity} }

// MatchAnyObjectTarget returns the wildcard predicate that accepts any Object(_) target.
func MatchAnyObjectTarget() Match { return Match{kind: MatchKindAnyObject} }

// MatchAnyTarget returns the wildcard predicate that accepts every target.
func MatchAnyTarget() Match { return Match{kind: MatchKindAny} }

// Kind reports which predicate shape this Match is.
func (m Match) Kind() MatchKind { return m.kind }

// Target returns the exact target this predicate was built with. Only meaningful when
// Kind() == MatchKindSpecific.
func (m Match) Target() Target { return m.target }

// Accepts reports whether target satisfies this predicate.
func (m Match) Accepts(target Target) bool {
	switch m.kind {
	case MatchKindPlain:
		return target.Kind() == TargetKindPlain
	case MatchKindSpecific:
		return target.Equal(m.target)
	case MatchKindAnyEntity:
		return target.Kind() == TargetKindEntity
	case MatchKindAnyObject:
		return target.Kind() == TargetKindObject
	case MatchKindAny:
		return true
	default:
		return false
	}
}

// Matches reports whether this TypeExpression satisfies (id, m): the type ids agree and the
// expression's target is accepted by m.
func (te TypeExpression) Matches(id TypeId, m Match) bool {
	return te.Type == id && m.Accepts(te.Target)
}

// StreamType is a TypeExpression's type plus a Match, declared by a Query to describe what a
// stream position receives during iteration. A wildcard StreamType may bind to several
// columns of one archetype; the cross-join enumerates every such combination.
type StreamType struct {
	Type  TypeId
	Match Match
}
