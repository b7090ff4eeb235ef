package klass

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	"github.com/kailas-cloud/chemsearch/internal/domain"
	domrec "github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// store is the consumer interface for element klasses (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

// Repo reads generic element klasses.
type Repo struct {
	store store
}

// New creates a klass repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type klassDTO struct {
	ID    int64
	Name  string
	Label *string
}

func (d klassDTO) toRecord() domrec.ElementKlass {
	k := domrec.ElementKlass{ID: d.ID, Name: d.Name}
	if d.Label != nil {
		k.Label = *d.Label
	}
	return k
}

// Active lists the active generic klasses by id.
func (r *Repo) Active(ctx context.Context) ([]domrec.ElementKlass, error) {
	var dtos []klassDTO
	if err := activeQuery(r.store.Conn(ctx)).Find(&dtos).Error; err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	out := make([]domrec.ElementKlass, len(dtos))
	for i, d := range dtos {
		out[i] = d.toRecord()
	}
	return out, nil
}

// ByName returns the klass called name, or domain.ErrNotFound.
func (r *Repo) ByName(ctx context.Context, name string) (domrec.ElementKlass, error) {
	var d klassDTO
	err := activeQuery(r.store.Conn(ctx)).Where("name = ?", name).Take(&d).Error
	if err != nil {
		err = postgres.Translate(db.OpSelect, err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domrec.ElementKlass{}, domain.ErrNotFound
		}
		return domrec.ElementKlass{}, err
	}
	return d.toRecord(), nil
}

func activeQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("element_klasses").
		Select("id, name, label").
		Where("is_active = ? AND is_generic = ? AND deleted_at IS NULL", true, true).
		Order("id")
}

// SplitByKlass groups element ids by klass id, keeping the order of ids.
func (r *Repo) SplitByKlass(ctx context.Context, ids []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64)
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID             int64
		ElementKlassID int64
	}
	err := r.store.Conn(ctx).Table("elements").
		Select("id, element_klass_id").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, postgres.Translate(db.OpSelect, err)
	}
	klassOf := make(map[int64]int64, len(rows))
	for _, row := range rows {
		klassOf[row.ID] = row.ElementKlassID
	}
	for _, id := range ids {
		if k, ok := klassOf[id]; ok {
			out[k] = append(out[k], id)
		}
	}
	return out, nil
}
