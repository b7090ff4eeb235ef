package access

import (
	"context"

	"github.com/kailas-cloud/chemsearch/internal/domain/record"
)

// CollectionReader reads the viewer's collection permissions.
type CollectionReader interface {
	// Owned returns a collection owned by, or shared to, userID.
	Owned(ctx context.Context, userID, id int64) (record.Collection, error)
	// SyncShare returns a sync share row addressed to userID.
	SyncShare(ctx context.Context, userID, id int64) (record.SyncShare, error)
}
