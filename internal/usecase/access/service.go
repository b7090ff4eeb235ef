package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
)

// Public describes the collection anonymous viewers may search.
type Public struct {
	// CollectionID is 0 when no public collection is configured.
	CollectionID int64
	Levels       detail.Levels
}

// Service resolves the collection and detail levels a viewer searches with.
type Service struct {
	colls  CollectionReader
	public Public
}

// New creates an access resolver.
func New(colls CollectionReader, public Public) *Service {
	return &Service{colls: colls, public: public}
}

// Resolve maps (viewer, collection id, sync flag) to a grant. Missing and forbidden
// collections both yield domain.ErrCollectionNotFound.
func (s *Service) Resolve(ctx context.Context, viewerID, collectionID int64, isSync bool) (detail.Grant, error) {
	if viewerID == 0 {
		if !isSync && s.isPublic(collectionID) {
			return s.publicGrant(viewerID), nil
		}
		return detail.Grant{}, domain.ErrCollectionNotFound
	}

	if isSync {
		share, err := s.colls.SyncShare(ctx, viewerID, collectionID)
		if err != nil {
			return detail.Grant{}, notAccessible(err)
		}
		return detail.Grant{
			CollectionID: share.CollectionID,
			Levels:       share.Levels.Clamp(),
			ViewerID:     viewerID,
		}, nil
	}

	col, err := s.colls.Owned(ctx, viewerID, collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && s.isPublic(collectionID) {
			return s.publicGrant(viewerID), nil
		}
		return detail.Grant{}, notAccessible(err)
	}
	levels := detail.Owner()
	if col.IsShared {
		levels = col.Levels.Clamp()
	}
	return detail.Grant{CollectionID: col.ID, Levels: levels, ViewerID: viewerID}, nil
}

func (s *Service) isPublic(collectionID int64) bool {
	return s.public.CollectionID != 0 && collectionID == s.public.CollectionID
}

func (s *Service) publicGrant(viewerID int64) detail.Grant {
	return detail.Grant{
		CollectionID: s.public.CollectionID,
		Levels:       s.public.Levels.Clamp(),
		ViewerID:     viewerID,
	}
}

func notAccessible(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrCollectionNotFound
	}
	return fmt.Errorf("read collection: %w", err)
}
