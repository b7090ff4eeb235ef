// Package detail holds the per-collection detail level gates.
package detail

import "github.com/kailas-cloud/chemsearch/internal/domain/element"

// MaxLevel is granted on every kind to the collection owner.
const MaxLevel = 10

// Levels is the detail level context of one request. It is derived once from the viewer's
// collection permission and passed explicitly to every scope builder.
type Levels struct {
	Sample    int
	Reaction  int
	Wellplate int
	Screen    int
}

// Owner returns the levels of a collection owner.
func Owner() Levels {
	return Levels{Sample: MaxLevel, Reaction: MaxLevel, Wellplate: MaxLevel, Screen: MaxLevel}
}

// Of returns the level for a kind. Kinds without a gate report MaxLevel.
func (l Levels) Of(kind element.Kind) int {
	switch kind {
	case element.Samples, element.Molecules:
		return l.Sample
	case element.Reactions:
		return l.Reaction
	case element.Wellplates:
		return l.Wellplate
	case element.Screens:
		return l.Screen
	}
	return MaxLevel
}

// Allows reports whether the level of kind reaches need.
func (l Levels) Allows(kind element.Kind, need int) bool {
	return l.Of(kind) >= need
}

// Clamp bounds every level to [-1, MaxLevel]. -1 hides even the level 0 fields.
func (l Levels) Clamp() Levels {
	c := func(v int) int {
		switch {
		case v < -1:
			return -1
		case v > MaxLevel:
			return MaxLevel
		}
		return v
	}
	return Levels{Sample: c(l.Sample), Reaction: c(l.Reaction), Wellplate: c(l.Wellplate), Screen: c(l.Screen)}
}

// Grant is the outcome of access resolution: the collection actually searched and the
// levels that apply to it.
type Grant struct {
	CollectionID int64
	Levels       Levels
	// ViewerID is 0 for anonymous viewers.
	ViewerID int64
}
