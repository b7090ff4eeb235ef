package scope

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	domscope "github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

// store is the consumer interface for scope execution (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

var moleculesJoin = predicate.Join{
	Table: predicate.Molecules,
	On:    "samples.molecule_id = molecules.id",
}

// Repo executes lazy scopes against PostgreSQL.
type Repo struct {
	store store
}

// New creates a scope repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// IDs runs q and returns its ids in the query's order, without duplicates.
func (r *Repo) IDs(ctx context.Context, q *domscope.Query) ([]int64, error) {
	if q.IsNone() {
		return nil, nil
	}
	if ids, ok := q.IDs(); ok && len(ids) == 0 {
		return nil, nil
	}
	tx, err := build(r.store.Conn(ctx), q)
	if err != nil {
		return nil, err
	}
	var dtos []rowDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	return domscope.Sort(toRows(dtos), q.Order()), nil
}

func build(tx *gorm.DB, q *domscope.Query) (*gorm.DB, error) {
	kind := q.Kind()
	l, ok := links[kind]
	if !ok {
		return nil, fmt.Errorf("no collection link for %q", kind)
	}
	table := kind.Table()

	cols := []string{table + ".id AS id", table + ".updated_at AS updated_at"}
	o := q.Order()
	if o.NeedsKey() {
		cols = append(cols, o.Key.Text()+" AS sort_key")
	}
	if o.NeedsFormula() && kind == element.Samples {
		q = q.Join(moleculesJoin)
		cols = append(cols, "molecules.sum_formular AS formula")
	}

	tx = tx.Table(table).
		Select(strings.Join(cols, ", ")).
		Joins("INNER JOIN "+l.table+" ON "+l.table+"."+l.fk+" = "+table+".id").
		Where(l.table+".collection_id = ?", q.CollectionID()).
		Where(l.table + ".deleted_at IS NULL").
		Where(table + ".deleted_at IS NULL")
	for _, j := range q.Joins() {
		tx = tx.Joins(j.SQL())
	}
	for _, e := range q.Where() {
		tx = tx.Where(e.SQL, e.Args...)
	}
	if ids, ok := q.IDs(); ok {
		tx = tx.Where(table+".id IN ?", ids)
	}
	return tx.Order(table + ".id ASC"), nil
}

// MatchDocuments returns the records whose search document contains term, grouped by
// searchable type (Sample, Molecule, Reaction, ...).
func (r *Repo) MatchDocuments(ctx context.Context, term string) (map[string][]int64, error) {
	var dtos []documentDTO
	err := matchDocuments(r.store.Conn(ctx), term).Find(&dtos).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make(map[string][]int64)
	for _, d := range dtos {
		out[d.SearchableType] = append(out[d.SearchableType], d.SearchableID)
	}
	return out, nil
}

func matchDocuments(tx *gorm.DB, term string) *gorm.DB {
	return tx.Table("pg_search_documents").
		Select("searchable_type, searchable_id").
		Where("content ILIKE ?", predicate.Wrap(predicate.EscapeLike(term))).
		Order("searchable_type, searchable_id")
}
