package collection

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/db/postgres"
	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	domrec "github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// store is the consumer interface for collections (ISP).
type store interface {
	Conn(ctx context.Context) *gorm.DB
}

// Repo reads collection permissions.
type Repo struct {
	store store
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

type collectionDTO struct {
	ID                   int64
	UserID               int64
	SharedByID           *int64
	IsShared             bool
	SampleDetailLevel    int
	ReactionDetailLevel  int
	WellplateDetailLevel int
	ScreenDetailLevel    int
}

type syncShareDTO struct {
	ID                   int64
	CollectionID         int64
	UserID               int64
	SampleDetailLevel    int
	ReactionDetailLevel  int
	WellplateDetailLevel int
	ScreenDetailLevel    int
}

// Owned returns collection id as seen by userID: a collection the user owns or a share
// row addressed to the user. Anything else is domain.ErrNotFound.
func (r *Repo) Owned(ctx context.Context, userID, id int64) (domrec.Collection, error) {
	var d collectionDTO
	if err := ownedQuery(r.store.Conn(ctx), userID, id).Take(&d).Error; err != nil {
		return domrec.Collection{}, notFound(err)
	}
	c := domrec.Collection{
		ID:       d.ID,
		UserID:   d.UserID,
		IsShared: d.IsShared,
		Levels: detail.Levels{
			Sample:    d.SampleDetailLevel,
			Reaction:  d.ReactionDetailLevel,
			Wellplate: d.WellplateDetailLevel,
			Screen:    d.ScreenDetailLevel,
		},
	}
	if d.SharedByID != nil {
		c.SharedByID = *d.SharedByID
	}
	return c, nil
}

func ownedQuery(tx *gorm.DB, userID, id int64) *gorm.DB {
	return tx.Table("collections").
		Select("id, user_id, shared_by_id, is_shared, sample_detail_level, " +
			"reaction_detail_level, wellplate_detail_level, screen_detail_level").
		Where("id = ? AND user_id = ? AND deleted_at IS NULL", id, userID)
}

// SyncShare returns sync share id of userID.
func (r *Repo) SyncShare(ctx context.Context, userID, id int64) (domrec.SyncShare, error) {
	var d syncShareDTO
	if err := syncShareQuery(r.store.Conn(ctx), userID, id).Take(&d).Error; err != nil {
		return domrec.SyncShare{}, notFound(err)
	}
	return domrec.SyncShare{
		ID:           d.ID,
		CollectionID: d.CollectionID,
		UserID:       d.UserID,
		Levels: detail.Levels{
			Sample:    d.SampleDetailLevel,
			Reaction:  d.ReactionDetailLevel,
			Wellplate: d.WellplateDetailLevel,
			Screen:    d.ScreenDetailLevel,
		},
	}, nil
}

func syncShareQuery(tx *gorm.DB, userID, id int64) *gorm.DB {
	return tx.Table("sync_collections_users").
		Select("sync_collections_users.id, sync_collections_users.collection_id, " +
			"sync_collections_users.user_id, sync_collections_users.sample_detail_level, " +
			"sync_collections_users.reaction_detail_level, sync_collections_users.wellplate_detail_level, " +
			"sync_collections_users.screen_detail_level").
		Joins("INNER JOIN collections ON collections.id = sync_collections_users.collection_id").
		Where("sync_collections_users.id = ? AND sync_collections_users.user_id = ?", id, userID).
		Where("collections.deleted_at IS NULL")
}

func notFound(err error) error {
	err = postgres.Translate(db.OpSelect, err)
	if errors.Is(err, db.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
