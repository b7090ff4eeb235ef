package scope

import (
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/search/formula"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
)

// OrderKind names an ordering rule.
type OrderKind int

// Ordering rules.
const (
	// Natural keeps the storage order (ascending id).
	Natural OrderKind = iota
	UpdatedDesc
	// AsTyped ranks rows by the position of their key in the typed value list.
	AsTyped
	// CarbonCount ranks samples by the carbon count of their sum formula, then the formula.
	CarbonCount
	// ByIDs ranks rows by an explicit id list.
	ByIDs
)

// Order is an ordering rule with its parameters.
type Order struct {
	Kind OrderKind
	// Key is the column whose text AsTyped looks up.
	Key predicate.Column
	// Values is the comma joined value list for AsTyped.
	Values string
	// Ranks is the id list for ByIDs.
	Ranks []int64
}

// OrderUpdatedDesc orders most recently updated first.
func OrderUpdatedDesc() Order { return Order{Kind: UpdatedDesc} }

// OrderAsTyped orders by the position of key inside the typed values.
func OrderAsTyped(key predicate.Column, values []string) Order {
	return Order{Kind: AsTyped, Key: key, Values: strings.Join(values, ",")}
}

// OrderCarbonCount orders by carbon count then sum formula.
func OrderCarbonCount() Order { return Order{Kind: CarbonCount} }

// OrderByIDs orders by the position in ids.
func OrderByIDs(ids []int64) Order { return Order{Kind: ByIDs, Ranks: ids} }

// NeedsKey reports whether rows must carry the key column text.
func (o Order) NeedsKey() bool { return o.Kind == AsTyped }

// NeedsFormula reports whether rows must carry the molecule sum formula.
func (o Order) NeedsFormula() bool { return o.Kind == CarbonCount }

// Row is the minimal projection a query returns for ordering.
type Row struct {
	ID        int64
	UpdatedAt time.Time
	Key       string
	Formula   string
}

// Sort orders rows and returns their ids without duplicates, keeping the first occurrence.
// Rows are expected in ascending id order; every rule is stable.
func Sort(rows []Row, o Order) []int64 {
	sorted := append([]Row(nil), rows...)
	switch o.Kind {
	case UpdatedDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
		})
	case AsTyped:
		list := "," + o.Values + ","
		pos := func(r Row) int { return strings.Index(list, ","+r.Key+",") + 1 }
		sort.SliceStable(sorted, func(i, j int) bool {
			return pos(sorted[i]) < pos(sorted[j])
		})
	case CarbonCount:
		sort.SliceStable(sorted, func(i, j int) bool {
			ci, cj := formula.CarbonCount(sorted[i].Formula), formula.CarbonCount(sorted[j].Formula)
			if ci != cj {
				return ci < cj
			}
			return sorted[i].Formula < sorted[j].Formula
		})
	case ByIDs:
		rank := make(map[int64]int, len(o.Ranks))
		for i, id := range o.Ranks {
			if _, dup := rank[id]; !dup {
				rank[id] = i
			}
		}
		at := func(r Row) int {
			if p, ok := rank[r.ID]; ok {
				return p
			}
			return len(o.Ranks)
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return at(sorted[i]) < at(sorted[j])
		})
	}
	return Dedupe(idsOf(sorted))
}

func idsOf(rows []Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// Dedupe drops repeated ids, keeping the first occurrence.
func Dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
