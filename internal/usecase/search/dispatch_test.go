package search

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/method"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

func whereSQL(q *scope.Query) string {
	parts := make([]string, 0, len(q.Where()))
	for _, e := range q.Where() {
		parts = append(parts, e.SQL)
	}
	return strings.Join(parts, " AND ")
}

func clause(table, column, value string) selection.AdvancedClause {
	return selection.AdvancedClause{
		Match: predicate.ILike,
		Field: selection.Field{Table: table, Column: column},
		Value: value,
	}
}

func TestAdvanced_DropsUnlistedClauses(t *testing.T) {
	q := advanced(t.Context(), 1, detail.Owner(), []selection.AdvancedClause{
		clause("users", "email", "a@b"),
		clause("samples", "name", "water"),
	})
	if q.IsNone() {
		t.Fatal("valid clause must survive")
	}
	sql := whereSQL(q)
	if strings.Contains(sql, "users") || !strings.Contains(sql, "samples.name") {
		t.Errorf("where = %s", sql)
	}
}

func TestAdvanced_AllDroppedIsEmpty(t *testing.T) {
	q := advanced(t.Context(), 1, detail.Owner(), []selection.AdvancedClause{
		clause("users", "email", "a@b"),
		clause("samples", "name", " , \n"),
	})
	if !q.IsNone() {
		t.Errorf("expected empty scope, where = %s", whereSQL(q))
	}
}

func TestAdvanced_LevelGate(t *testing.T) {
	clauses := []selection.AdvancedClause{
		clause("samples", "name", "water"),
		clause("samples", "external_label", "EXT"),
	}
	q := advanced(t.Context(), 1, detail.Levels{}, clauses)
	sql := whereSQL(q)
	if strings.Contains(sql, "samples.name") || !strings.Contains(sql, "samples.external_label") {
		t.Errorf("level 0 where = %s", sql)
	}
}

func TestAdvanced_JoinsOnce(t *testing.T) {
	ext := func(c selection.AdvancedClause) selection.AdvancedClause {
		c.Field.ExtKey = "molecule_id"
		c.Link = predicate.Or
		return c
	}
	q := advanced(t.Context(), 1, detail.Owner(), []selection.AdvancedClause{
		ext(clause("molecules", "iupac_name", "ethanol")),
		ext(clause("molecules", "inchikey", "KEY")),
	})
	if len(q.Joins()) != 1 || !q.HasJoin(predicate.Molecules) {
		t.Errorf("joins = %+v", q.Joins())
	}
	if q.Order().Kind != scope.AsTyped {
		t.Errorf("order = %+v", q.Order())
	}
}

func TestFieldScope_SampleNameLevel(t *testing.T) {
	f, _ := method.SampleName.Field()

	if q := fieldScope(1, detail.Levels{}, f, "water"); !q.IsNone() {
		t.Error("sample_name must be empty at level 0")
	}
	q := fieldScope(1, detail.Levels{Sample: 1}, f, "water")
	if q.IsNone() || !strings.Contains(whereSQL(q), "ILIKE") {
		t.Errorf("level 1 where = %s", whereSQL(q))
	}
}

func TestFieldScope_InChIKeyExact(t *testing.T) {
	f, _ := method.InChIKey.Field()
	q := fieldScope(1, detail.Owner(), f, "KEY")
	if !q.HasJoin(predicate.Molecules) {
		t.Error("inchikey must join molecules")
	}
	if w := q.Where(); len(w) != 1 || !strings.HasSuffix(w[0].SQL, "= ?") || w[0].Args[0] != "KEY" {
		t.Errorf("where = %+v", w)
	}
}

func TestApplyOrder(t *testing.T) {
	samples := scope.NewQuery(element.Samples, 1)
	reactions := scope.NewQuery(element.Reactions, 1)

	tests := []struct {
		name string
		sc   scope.Scope
		m    method.Method
		sort bool
		want scope.OrderKind
	}{
		{"no molecule sort", samples, method.SampleName, false, scope.Natural},
		{"samples by carbon count", samples, method.SampleName, true, scope.CarbonCount},
		{"advanced most recent", samples.OrderBy(scope.OrderAsTyped(predicate.NewColumn(predicate.Samples, "name"), nil)),
			method.Advanced, true, scope.UpdatedDesc},
		{"reactions untouched", reactions, method.ReactionName, true, scope.Natural},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := applyOrder(tc.sc, tc.m, tc.sort).(*scope.Query)
			if got.Order().Kind != tc.want {
				t.Errorf("order = %v, want %v", got.Order().Kind, tc.want)
			}
		})
	}
}

func TestDispatch_PolymerTypeGate(t *testing.T) {
	f := newFixture()
	svc := f.service(CompoundOpenData{})
	sel, _ := selection.New(selection.Params{Method: "polymer_type", Name: "linear"})
	r := selection.Resolved{Method: method.PolymerType, Arg: "linear"}

	sc, err := svc.dispatch(t.Context(), detail.Grant{CollectionID: 1}, r, &sel)
	if err != nil {
		t.Fatal(err)
	}
	if q := sc.(*scope.Query); !q.IsNone() {
		t.Error("polymer_type must be empty at level 0")
	}

	sc, err = svc.dispatch(t.Context(), detail.Grant{CollectionID: 1, Levels: detail.Owner()}, r, &sel)
	if err != nil {
		t.Fatal(err)
	}
	if q := sc.(*scope.Query); !q.HasJoin(predicate.Residues) {
		t.Error("polymer_type must join residues")
	}
}

func TestDispatch_SubstringMergesMolecules(t *testing.T) {
	f := newFixture()
	f.scopes.matchFn = func(context.Context, string) (map[string][]int64, error) {
		return map[string][]int64{"Sample": {1, 2}, "Molecule": {30}}, nil
	}
	f.scopes.idsFn = func(_ context.Context, q *scope.Query) ([]int64, error) {
		if ids, ok := q.IDs(); ok {
			return ids[:1], nil
		}
		return []int64{9}, nil
	}
	sel, _ := selection.New(selection.Params{Method: "substring", Name: "eth"})
	r := selection.Resolved{Method: method.Substring, Arg: "eth"}

	sc, err := f.service(CompoundOpenData{}).dispatch(t.Context(), detail.Grant{CollectionID: 1, Levels: detail.Owner()}, r, &sel)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := sc.(scope.Merged)
	if !ok {
		t.Fatalf("scope = %T", sc)
	}
	if len(m.Samples) != 1 || m.Samples[0] != 1 || len(m.MoleculeSamples) != 1 || m.MoleculeSamples[0] != 9 {
		t.Errorf("merged = %+v", m)
	}
}

func TestDispatch_ElementShortLabelUnknownKlass(t *testing.T) {
	f := newFixture()
	sel, _ := selection.New(selection.Params{Method: "element_short_label_Cell", Name: "C-1"})
	r := selection.Resolved{Method: "element_short_label_Cell", Arg: "C-1"}

	sc, err := f.service(CompoundOpenData{}).dispatch(t.Context(), detail.Grant{CollectionID: 1}, r, &sel)
	if err != nil {
		t.Fatal(err)
	}
	if q := sc.(*scope.Query); !q.IsNone() || q.Kind() != element.Elements {
		t.Errorf("scope = %+v", q)
	}
}
