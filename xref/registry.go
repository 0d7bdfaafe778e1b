/*
Package xref numbers countable entities and resolves references to them.

Numbering and resolution share one forward walk over the document, in
document order. Every figure, table, equation and algorithm increments
the counter of its kind and registers its label. A reference token
"@fig:intro" is replaced by "Figure 3" only if fig:intro has been
registered at the point the token is met; references to entities further
down the document stay untouched and are reported as unresolved.

All state is held in a Resolver, which lives for exactly one render.
*/
package xref

import (
	"github.com/npillmayer/refpipe/ast"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'refpipe.xref'.
func tracer() tracing.Trace {
	return tracing.Select("refpipe.xref")
}

// Registry holds the counters and the label maps of one render, one per
// entity kind. The zero value is not usable, call NewRegistry.
type Registry struct {
	counters [ast.KindCount]int
	labels   [ast.KindCount]map[string]int
	order    [ast.KindCount][]string
}

// NewRegistry creates an empty registry with all counters at 0.
func NewRegistry() *Registry {
	r := &Registry{}
	for k := range r.labels {
		r.labels[k] = make(map[string]int)
	}
	return r
}

// Next increments the counter of kind k and returns the new value.
func (r *Registry) Next(k ast.EntityKind) int {
	r.counters[k]++
	return r.counters[k]
}

// Count returns the number of entities of kind k seen so far.
func (r *Registry) Count(k ast.EntityKind) int {
	return r.counters[k]
}

// Register assigns number n to label. Empty labels are never registered.
// A label keeps the number of its first definition; Register returns false
// for a duplicate.
func (r *Registry) Register(k ast.EntityKind, label string, n int) bool {
	if label == "" {
		return false
	}
	if prev, dup := r.labels[k][label]; dup {
		tracer().Infof("duplicate label %s, keeping number %d", k.Identifier(label), prev)
		return false
	}
	r.labels[k][label] = n
	r.order[k] = append(r.order[k], label)
	return true
}

// Lookup returns the number registered for label.
func (r *Registry) Lookup(k ast.EntityKind, label string) (int, bool) {
	n, ok := r.labels[k][label]
	return n, ok
}

// Labels returns the labels of kind k in order of first definition.
func (r *Registry) Labels(k ast.EntityKind) []string {
	return append([]string(nil), r.order[k]...)
}
