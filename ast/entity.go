package ast

import "strings"

// EntityKind is the kind of a countable entity. Each kind has its own
// numbering sequence.
type EntityKind uint8

// Entity kinds, in the order used for iteration.
const (
	Figure EntityKind = iota
	Table
	Equation
	Algorithm
	KindCount // number of entity kinds
)

var kindNames = [KindCount]string{"figure", "table", "equation", "algorithm"}
var kindPrefixes = [KindCount]string{"fig", "tbl", "eq", "alg"}

func (k EntityKind) String() string {
	if k >= KindCount {
		return "unknown"
	}
	return kindNames[k]
}

// IDPrefix returns the identifier prefix of entities of kind k, e.g. "fig:".
func (k EntityKind) IDPrefix() string {
	if k >= KindCount {
		return ""
	}
	return kindPrefixes[k] + ":"
}

// Identifier returns the node identifier for an entity of kind k labeled
// label. An empty label yields the bare prefix.
func (k EntityKind) Identifier(label string) string {
	return k.IDPrefix() + label
}

// KindByName returns the entity kind for a name such as "figure" or "tbl".
func KindByName(name string) (EntityKind, bool) {
	for k := Figure; k < KindCount; k++ {
		if name == kindNames[k] || name == kindPrefixes[k] {
			return k, true
		}
	}
	return KindCount, false
}

// SplitIdentifier splits a kind-qualified identifier like "fig:intro" into
// kind and label. The label may be empty ("fig:").
func SplitIdentifier(id string) (EntityKind, string, bool) {
	prefix, label, found := strings.Cut(id, ":")
	if !found {
		return KindCount, "", false
	}
	for k := Figure; k < KindCount; k++ {
		if prefix == kindPrefixes[k] {
			return k, label, true
		}
	}
	return KindCount, "", false
}
