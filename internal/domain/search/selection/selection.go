// Package selection holds the search selection value object and the filter normalizer.
package selection

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/method"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/pubcode"
)

// DefaultThreshold is the Tanimoto threshold used when the selection carries none.
const DefaultThreshold = 0.7

// SearchType selects similarity or substructure matching.
type SearchType string

// Structure search types.
const (
	Similar      SearchType = "similar"
	Substructure SearchType = "sub"
)

// Structure is the structure search payload.
type Structure struct {
	Molfile   string
	Type      SearchType
	Threshold float64
}

// Field references the column an advanced clause filters on.
type Field struct {
	Table  string
	Column string
	ExtKey string
	Opt    string
}

// AdvancedClause is one (link, match, field, value) condition.
type AdvancedClause struct {
	Link  predicate.Link
	Match predicate.Match
	Field Field
	Value string
}

// Params carries the raw selection fields.
type Params struct {
	ElementType     string
	Method          string
	Name            string
	Molfile         string
	SearchType      string
	Threshold       *float64
	PageSize        int
	StructureSearch bool
	Clauses         []RawClause
	Generic         GenericQuery
}

// RawClause is an advanced clause before validation.
type RawClause struct {
	Link  string
	Match string
	Field Field
	Value string
}

// Selection is an immutable search selection.
type Selection struct {
	elementType     element.ElementType
	method          method.Method
	name            string
	structure       Structure
	pageSize        int
	structureSearch bool
	clauses         []AdvancedClause
	generic         GenericQuery
}

// New validates a raw selection. Out-of-enum values fail with ErrInvalidSelection.
func New(p Params) (Selection, error) {
	et, err := element.ParseElementType(p.ElementType)
	if err != nil {
		return Selection{}, domain.NewSelectionError("elementType", err.Error())
	}

	st := SearchType(p.SearchType)
	switch st {
	case "", Similar, Substructure:
	default:
		return Selection{}, domain.NewSelectionError("search_type", fmt.Sprintf("unsupported value %q", p.SearchType))
	}

	threshold := DefaultThreshold
	if p.Threshold != nil {
		threshold = *p.Threshold
		if threshold <= 0 || threshold > 1 {
			return Selection{}, domain.NewSelectionError("tanimoto_threshold", "must be in (0, 1]")
		}
	}

	if p.PageSize < 0 {
		return Selection{}, domain.NewSelectionError("page_size", "must not be negative")
	}

	clauses := make([]AdvancedClause, 0, len(p.Clauses))
	for i, rc := range p.Clauses {
		link, err := predicate.ParseLink(rc.Link)
		if err != nil {
			return Selection{}, domain.NewSelectionError(fmt.Sprintf("advanced_params[%d].link", i), err.Error())
		}
		m, err := predicate.ParseMatch(rc.Match)
		if err != nil {
			return Selection{}, domain.NewSelectionError(fmt.Sprintf("advanced_params[%d].match", i), err.Error())
		}
		clauses = append(clauses, AdvancedClause{Link: link, Match: m, Field: rc.Field, Value: rc.Value})
	}

	return Selection{
		elementType: et,
		method:      method.Method(p.Method),
		name:        p.Name,
		structure: Structure{
			Molfile:   p.Molfile,
			Type:      st,
			Threshold: threshold,
		},
		pageSize:        p.PageSize,
		structureSearch: p.StructureSearch,
		clauses:         clauses,
		generic:         p.Generic,
	}, nil
}

// ElementType returns the element type filter.
func (s *Selection) ElementType() element.ElementType { return s.elementType }

// Method returns the declared search method.
func (s *Selection) Method() method.Method { return s.method }

// Name returns the free text term.
func (s *Selection) Name() string { return s.name }

// Structure returns the structure search payload.
func (s *Selection) Structure() Structure { return s.structure }

// PageSize returns the client page size hint.
func (s *Selection) PageSize() int { return s.pageSize }

// StructureSearch reports the client structure search flag.
func (s *Selection) StructureSearch() bool { return s.structureSearch }

// Clauses returns the advanced clauses in request order.
func (s *Selection) Clauses() []AdvancedClause { return s.clauses }

// Generic returns the generic element property query.
func (s *Selection) Generic() GenericQuery { return s.generic }

// Resolved is the normalized method and its argument.
type Resolved struct {
	Method method.Method
	Arg    string
}

// Resolve picks the effective method. A publication code in the term forces the chemotion
// id lookup. ok is false when the request is a no-op: a method that needs an argument
// without a non-blank term.
func (s *Selection) Resolve() (Resolved, bool) {
	m := s.method
	if m.NeedsArgument() && strings.TrimSpace(s.name) == "" {
		return Resolved{}, false
	}
	if pubcode.Mentions(s.name) {
		m = method.ChemotionID
	}
	return Resolved{Method: m, Arg: s.name}, true
}

// SplitValues tokenizes a clause value on commas and line breaks, trimming whitespace and
// dropping empty tokens.
func SplitValues(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		// trims \r of \r\n as well
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
