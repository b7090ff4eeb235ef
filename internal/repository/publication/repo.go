package publication

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	"github.com/kailas-cloud/chemsearch/internal/domain"
	domrec "github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// store is the consumer interface for publications (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

// Repo reads repository publications.
type Repo struct {
	store store
}

// New creates a publication repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type publicationDTO struct {
	ID          int64
	ElementType string
	ElementID   int64
	Ancestry    *string
}

// ByID returns a live publication. Missing publications are domain.ErrNotFound.
func (r *Repo) ByID(ctx context.Context, id int64) (domrec.Publication, error) {
	var d publicationDTO
	err := byIDQuery(r.store.Conn(ctx), id).Take(&d).Error
	if err != nil {
		err = postgres.Translate(db.OpSelect, err)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domrec.Publication{}, domain.ErrNotFound
		}
		return domrec.Publication{}, err
	}
	return domrec.Publication{
		ID:          d.ID,
		ElementType: d.ElementType,
		ElementID:   d.ElementID,
		ParentID:    parentOf(d.Ancestry),
	}, nil
}

func byIDQuery(tx *gorm.DB, id int64) *gorm.DB {
	return tx.Table("publications").
		Select("id, element_type, element_id, ancestry").
		Where("id = ? AND deleted_at IS NULL", id)
}

// parentOf reads the direct parent from a materialized path such as "12/40".
func parentOf(ancestry *string) *int64 {
	if ancestry == nil || *ancestry == "" {
		return nil
	}
	path := *ancestry
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
