package scope

import (
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
)

func TestQuery_Immutable(t *testing.T) {
	base := NewQuery(element.Samples, 7)
	j, _ := predicate.JoinFor(predicate.Residues, "")
	joined := base.Join(j).Join(j)

	if len(base.Joins()) != 0 {
		t.Error("base query must not change")
	}
	if len(joined.Joins()) != 1 {
		t.Errorf("duplicate table must be joined once, got %d", len(joined.Joins()))
	}
	if !joined.HasJoin(predicate.Residues) {
		t.Error("HasJoin(residues) = false")
	}
	if f := base.Filter(predicate.Expr{}); len(f.Where()) != 0 {
		t.Error("empty filter must be ignored")
	}
}

func TestQuery_Restrict(t *testing.T) {
	q := NewQuery(element.Reactions, 1)
	if _, ok := q.IDs(); ok {
		t.Fatal("new query must be unrestricted")
	}
	q = q.Restrict([]int64{1, 2, 3}).Restrict([]int64{3, 2, 9})
	ids, ok := q.IDs()
	if !ok || !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Errorf("IDs() = %v, %v", ids, ok)
	}
	if ids, _ := NewQuery(element.Samples, 1).Restrict(nil).IDs(); len(ids) != 0 {
		t.Errorf("empty restriction = %v", ids)
	}
}

func TestMerged_IDsOf(t *testing.T) {
	m := Merged{Samples: []int64{1}, MoleculeSamples: []int64{2}, Reactions: []int64{3}}
	if m.Kind() != element.Samples {
		t.Errorf("Kind() = %q", m.Kind())
	}
	if got := m.IDsOf(element.Molecules); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("IDsOf(molecules) = %v", got)
	}
	if got := m.IDsOf(element.Screens); got != nil {
		t.Errorf("IDsOf(screens) = %v", got)
	}
}

func TestSort_UpdatedDesc(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := []Row{
		{ID: 1, UpdatedAt: now.Add(-time.Hour)},
		{ID: 2, UpdatedAt: now},
		{ID: 3, UpdatedAt: now.Add(-time.Hour)},
	}
	if got := Sort(rows, OrderUpdatedDesc()); !reflect.DeepEqual(got, []int64{2, 1, 3}) {
		t.Errorf("Sort = %v", got)
	}
}

func TestSort_AsTyped(t *testing.T) {
	col := predicate.NewColumn(predicate.Samples, "name")
	rows := []Row{
		{ID: 1, Key: "gamma"},
		{ID: 2, Key: "alpha"},
		{ID: 3, Key: "unlisted"},
		{ID: 4, Key: "beta"},
	}
	got := Sort(rows, OrderAsTyped(col, []string{"alpha", "beta", "gamma"}))
	// absent keys rank 0 and come first
	if want := []int64{3, 2, 4, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_CarbonCount(t *testing.T) {
	rows := []Row{
		{ID: 1, Formula: "C10H22"},
		{ID: 2, Formula: "C2H6O"},
		{ID: 3, Formula: "C2H4O2"},
	}
	got := Sort(rows, OrderCarbonCount())
	if want := []int64{3, 2, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSort_ByIDsDedupe(t *testing.T) {
	rows := []Row{{ID: 1}, {ID: 2}, {ID: 2}, {ID: 3}}
	got := Sort(rows, OrderByIDs([]int64{3, 1, 2}))
	if want := []int64{3, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}
