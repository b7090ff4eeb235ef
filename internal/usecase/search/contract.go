package search

import (
	"context"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/record"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

// AccessResolver maps the viewer and requested collection to a grant.
type AccessResolver interface {
	Resolve(ctx context.Context, viewerID, collectionID int64, isSync bool) (detail.Grant, error)
}

// ScopeRunner executes lazy scopes.
type ScopeRunner interface {
	IDs(ctx context.Context, q *scope.Query) ([]int64, error)
	// MatchDocuments returns full text hits grouped by searchable type.
	MatchDocuments(ctx context.Context, term string) (map[string][]int64, error)
}

// RecordReader loads one page of records, in the order of the given ids.
type RecordReader interface {
	Samples(ctx context.Context, ids []int64) ([]record.Sample, error)
	Reactions(ctx context.Context, ids []int64) ([]record.Reaction, error)
	Wellplates(ctx context.Context, ids []int64) ([]record.Wellplate, error)
	Screens(ctx context.Context, ids []int64) ([]record.Screen, error)
	Elements(ctx context.Context, ids []int64) ([]record.Element, error)
	MoleculeIDs(ctx context.Context, sampleIDs []int64) ([]int64, error)
	GuestMolecules(ctx context.Context, sampleIDs, moleculeIDs []int64) ([]record.GuestMolecule, error)
}

// PublicationReader looks up repository publications.
type PublicationReader interface {
	ByID(ctx context.Context, id int64) (record.Publication, error)
}

// KlassReader reads generic element klasses.
type KlassReader interface {
	Active(ctx context.Context) ([]record.ElementKlass, error)
	ByName(ctx context.Context, name string) (record.ElementKlass, error)
	SplitByKlass(ctx context.Context, ids []int64) (map[int64][]int64, error)
}

// FingerprintReader reads stored sample fingerprints.
type FingerprintReader interface {
	Candidates(ctx context.Context, collectionID int64, lo, hi int) ([]fingerprint.Candidate, error)
}

// XvialCounter reads compound registry counts by InChIKey.
type XvialCounter interface {
	Counts(ctx context.Context, inchikeys []string) (map[string]int64, error)
}

// Standardizer canonicalizes structures.
type Standardizer = domain.Standardizer
