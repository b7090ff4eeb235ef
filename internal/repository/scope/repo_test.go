package scope

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	domscope "github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	g, err := postgres.OpenDryRun()
	if err != nil {
		t.Fatalf("OpenDryRun: %v", err)
	}
	return g
}

func toSQL(t *testing.T, q *domscope.Query) string {
	t.Helper()
	g := dryRun(t)
	var buildErr error
	sql := g.ToSQL(func(tx *gorm.DB) *gorm.DB {
		built, err := build(tx, q)
		if err != nil {
			buildErr = err
			return tx
		}
		var dtos []rowDTO
		return built.Find(&dtos)
	})
	if buildErr != nil {
		t.Fatalf("build: %v", buildErr)
	}
	return sql
}

func assertContains(t *testing.T, sql string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(sql, p) {
			t.Errorf("sql missing %q:\n%s", p, sql)
		}
	}
}

func TestBuild_CollectionBound(t *testing.T) {
	sql := toSQL(t, domscope.NewQuery(element.Reactions, 42))
	assertContains(t, sql,
		"INNER JOIN collections_reactions ON collections_reactions.reaction_id = reactions.id",
		"collections_reactions.collection_id = 42",
		"reactions.deleted_at IS NULL",
		"ORDER BY reactions.id ASC",
	)
}

func TestBuild_ParameterizedFilter(t *testing.T) {
	col := predicate.NewColumn(predicate.Samples, "name")
	q := domscope.NewQuery(element.Samples, 1).
		Filter(predicate.Contains(col, "'; DROP TABLE samples; --")).
		Restrict([]int64{5, 6})
	sql := toSQL(t, q)
	// the literal only appears as a quoted bind value
	assertContains(t, sql, "samples.name ILIKE '%''; DROP TABLE samples; --%'", "samples.id IN (5,6)")
}

func TestBuild_JoinsAndOrderColumns(t *testing.T) {
	key, _ := predicate.Lookup("samples", "xref", "cas")
	j, _ := predicate.JoinFor(predicate.Residues, "")
	q := domscope.NewQuery(element.Samples, 1).
		Join(j).
		OrderBy(domscope.OrderAsTyped(key, []string{"50-00-0"}))
	assertContains(t, toSQL(t, q),
		"INNER JOIN residues ON residues.sample_id = samples.id",
		"(samples.xref -> 'cas' ->> 'value') AS sort_key",
	)

	q = domscope.NewQuery(element.Samples, 1).OrderBy(domscope.OrderCarbonCount())
	assertContains(t, toSQL(t, q),
		"INNER JOIN molecules ON samples.molecule_id = molecules.id",
		"molecules.sum_formular AS formula",
	)
}

func TestBuild_UnknownKind(t *testing.T) {
	if _, err := build(dryRun(t), domscope.NewQuery(element.Molecules, 1)); err == nil {
		t.Error("molecules have no collection link")
	}
}

func TestMatchDocuments_SQL(t *testing.T) {
	g := dryRun(t)
	sql := g.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var dtos []documentDTO
		return matchDocuments(tx, "50%").Find(&dtos)
	})
	assertContains(t, sql, `FROM "pg_search_documents"`, `content ILIKE '%50\%%'`)
}
