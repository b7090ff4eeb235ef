package element

import (
	"fmt"
	"strings"
)

// Kind is an entity kind that owns a result bucket.
type Kind string

// Entity kinds.
const (
	Samples    Kind = "samples"
	Reactions  Kind = "reactions"
	Wellplates Kind = "wellplates"
	Screens    Kind = "screens"
	// Elements are generic elements; their buckets are split per klass.
	Elements Kind = "elements"
	// Molecules only appear in the public envelope.
	Molecules Kind = "molecules"
)

// Buckets lists the fixed bucket kinds in envelope order.
var Buckets = []Kind{Samples, Reactions, Wellplates, Screens}

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	switch k {
	case Samples, Reactions, Wellplates, Screens, Elements, Molecules:
		return true
	}
	return false
}

// Table returns the storage table of the kind.
func (k Kind) Table() string { return string(k) }

// Type is the polymorphic type name used by link tables (collections_elements, publications).
func (k Kind) Type() string {
	switch k {
	case Samples:
		return "Sample"
	case Reactions:
		return "Reaction"
	case Wellplates:
		return "Wellplate"
	case Screens:
		return "Screen"
	case Elements:
		return "Element"
	case Molecules:
		return "Molecule"
	}
	return ""
}

// KindFromType maps a polymorphic type name back to its kind.
func KindFromType(t string) (Kind, bool) {
	for _, k := range []Kind{Samples, Reactions, Wellplates, Screens, Elements, Molecules} {
		if k.Type() == t {
			return k, true
		}
	}
	return "", false
}

// ElementType is the selection element type filter.
type ElementType string

// Element type constants.
const (
	TypeAll        ElementType = "all"
	TypeSamples    ElementType = "samples"
	TypeReactions  ElementType = "reactions"
	TypeWellplates ElementType = "wellplates"
	TypeScreens    ElementType = "screens"
	TypeElements   ElementType = "elements"
)

// ParseElementType accepts the capitalized and lower case spellings. Empty means all.
func ParseElementType(s string) (ElementType, error) {
	if s == "" {
		return TypeAll, nil
	}
	// "elements" is only accepted lower case
	if s == "Elements" {
		return "", fmt.Errorf("unknown element type %q", s)
	}
	t := ElementType(strings.ToLower(s))
	switch t {
	case TypeAll, TypeSamples, TypeReactions, TypeWellplates, TypeScreens, TypeElements:
		return t, nil
	}
	return "", fmt.Errorf("unknown element type %q", s)
}
