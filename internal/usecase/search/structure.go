package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/method"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

// structureSampleIDs returns the collection's samples matching the structure, best match
// first for similarity searches. Below the structure detail level nothing matches.
func (s *Service) structureSampleIDs(ctx context.Context, grant detail.Grant, st selection.Structure) ([]int64, error) {
	if !grant.Levels.Allows(element.Samples, method.StructureMinLevel) {
		return nil, nil
	}
	if strings.TrimSpace(st.Molfile) == "" {
		return nil, nil
	}

	std, err := s.standardizer.Standardize(ctx, st.Molfile)
	if err != nil {
		return nil, fmt.Errorf("standardize molfile: %w", err)
	}
	q := std.Fingerprint

	if st.Type == selection.Similar {
		lo, hi := fingerprint.Window(q.Bits(), st.Threshold)
		cands, err := s.fingerprints.Candidates(ctx, grant.CollectionID, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("load fingerprints: %w", err)
		}
		scored := fingerprint.Similar(q, cands, st.Threshold)
		ids := make([]int64, len(scored))
		for i, sc := range scored {
			ids[i] = sc.SampleID
		}
		return ids, nil
	}

	// a superstructure has at least the query's bits
	cands, err := s.fingerprints.Candidates(ctx, grant.CollectionID, q.Bits(), fingerprint.Words*64)
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	return fingerprint.Substructure(q, cands), nil
}

// structureScope is the samples scope of a structure search, in match order.
func (s *Service) structureScope(ctx context.Context, grant detail.Grant, st selection.Structure) (scope.Scope, error) {
	ids, err := s.structureSampleIDs(ctx, grant, st)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return scope.None(element.Samples), nil
	}
	return scope.NewQuery(element.Samples, grant.CollectionID).
		Restrict(ids).
		OrderBy(scope.OrderByIDs(ids)), nil
}

// structureFor is the primary scope of a structure search on an entity endpoint: the
// matched samples, or the reactions, wellplates or screens holding them.
func (s *Service) structureFor(
	ctx context.Context, grant detail.Grant, ep request.Endpoint, st selection.Structure,
) (scope.Scope, error) {
	if ep == request.EndpointSamples {
		return s.structureScope(ctx, grant, st)
	}

	ids, err := s.structureSampleIDs(ctx, grant, st)
	if err != nil {
		return nil, err
	}
	cid := grant.CollectionID
	switch ep {
	case request.EndpointReactions:
		return reactionsOfSamples(cid, ids), nil
	case request.EndpointWellplates:
		return wellplatesOfSamples(cid, ids), nil
	case request.EndpointScreens:
		return screensOfSamples(cid, ids), nil
	}
	return scope.None(element.Samples), nil
}
