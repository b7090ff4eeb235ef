// Package scope defines the lazily evaluated result sets search strategies produce.
package scope

import (
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
)

// Scope is either a *Query over one entity kind or a Merged set of precomputed buckets.
type Scope interface {
	Kind() element.Kind
	isScope()
}

// Query is an unexecuted, collection-bound query over a single entity kind.
type Query struct {
	kind         element.Kind
	collectionID int64
	joins        []predicate.Join
	where        []predicate.Expr
	ids          []int64
	restricted   bool
	order        Order
	none         bool
}

// NewQuery starts a query over every record of kind in the collection.
func NewQuery(kind element.Kind, collectionID int64) *Query {
	return &Query{kind: kind, collectionID: collectionID}
}

// None returns a query that matches nothing.
func None(kind element.Kind) *Query {
	return &Query{kind: kind, none: true}
}

func (*Query) isScope() {}

// Kind returns the entity kind.
func (q *Query) Kind() element.Kind { return q.kind }

// CollectionID returns the collection the query is bound to.
func (q *Query) CollectionID() int64 { return q.collectionID }

// Joins returns the joins in insertion order, one per table.
func (q *Query) Joins() []predicate.Join { return q.joins }

// Where returns the conditions, combined with AND.
func (q *Query) Where() []predicate.Expr { return q.where }

// IDs returns the explicit id restriction. ok is false when the query is unrestricted.
func (q *Query) IDs() (ids []int64, ok bool) { return q.ids, q.restricted }

// Order returns the requested ordering.
func (q *Query) Order() Order { return q.order }

// IsNone reports whether the query matches nothing.
func (q *Query) IsNone() bool { return q.none }

func (q *Query) clone() *Query {
	c := *q
	c.joins = append([]predicate.Join(nil), q.joins...)
	c.where = append([]predicate.Expr(nil), q.where...)
	return &c
}

// Join adds a join unless the table is already joined.
func (q *Query) Join(j predicate.Join) *Query {
	for _, existing := range q.joins {
		if existing.Table == j.Table {
			return q
		}
	}
	c := q.clone()
	c.joins = append(c.joins, j)
	return c
}

// HasJoin reports whether table is joined.
func (q *Query) HasJoin(table predicate.Table) bool {
	for _, j := range q.joins {
		if j.Table == table {
			return true
		}
	}
	return false
}

// Filter narrows the query. Empty expressions are ignored.
func (q *Query) Filter(e predicate.Expr) *Query {
	if e.IsEmpty() {
		return q
	}
	c := q.clone()
	c.where = append(c.where, e)
	return c
}

// Restrict narrows the query to ids. Repeated restrictions intersect.
func (q *Query) Restrict(ids []int64) *Query {
	c := q.clone()
	if !c.restricted {
		c.ids = append([]int64(nil), ids...)
		c.restricted = true
		return c
	}
	keep := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	var out []int64
	for _, id := range c.ids {
		if _, ok := keep[id]; ok {
			out = append(out, id)
		}
	}
	c.ids = out
	return c
}

// OrderBy replaces the ordering.
func (q *Query) OrderBy(o Order) *Query {
	c := q.clone()
	c.order = o
	return c
}

// Merged holds the precomputed buckets of a full text search.
type Merged struct {
	Samples []int64
	// MoleculeSamples are samples matched through their molecule document.
	MoleculeSamples []int64
	Reactions       []int64
	Wellplates      []int64
	Screens         []int64
	Elements        []int64
}

func (Merged) isScope() {}

// Kind reports samples, the primary kind of a full text search.
func (Merged) Kind() element.Kind { return element.Samples }

// IDsOf returns the precomputed ids of kind.
func (m Merged) IDsOf(kind element.Kind) []int64 {
	switch kind {
	case element.Samples:
		return m.Samples
	case element.Molecules:
		return m.MoleculeSamples
	case element.Reactions:
		return m.Reactions
	case element.Wellplates:
		return m.Wellplates
	case element.Screens:
		return m.Screens
	case element.Elements:
		return m.Elements
	}
	return nil
}
