package search

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/method"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/metrics"
)

// CompoundOpenData configures the compound registry counts shown to anonymous viewers.
type CompoundOpenData struct {
	Enabled bool
	// AllowedUsers may see registry counts.
	AllowedUsers []int64
}

// Deps are the collaborators of the search service.
type Deps struct {
	Access       AccessResolver
	Scopes       ScopeRunner
	Records      RecordReader
	Publications PublicationReader
	Klasses      KlassReader
	Fingerprints FingerprintReader
	Standardizer Standardizer
	Xvials       XvialCounter
}

// Service runs structured multi-entity searches.
type Service struct {
	access       AccessResolver
	scopes       ScopeRunner
	records      RecordReader
	publications PublicationReader
	klasses      KlassReader
	fingerprints FingerprintReader
	standardizer Standardizer
	xvials       XvialCounter
	compound     CompoundOpenData
}

// New creates a search service.
func New(d Deps, compound CompoundOpenData) *Service {
	return &Service{
		access:       d.Access,
		scopes:       d.Scopes,
		records:      d.Records,
		publications: d.Publications,
		klasses:      d.Klasses,
		fingerprints: d.Fingerprints,
		standardizer: d.Standardizer,
		xvials:       d.Xvials,
		compound:     compound,
	}
}

// Search runs req end to end. A nil envelope without error means the selection is a
// no-op: nothing to search for.
func (s *Service) Search(ctx context.Context, req *request.Request) (env *result.Envelope, err error) {
	defer func() {
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
		case env == nil:
			outcome = "noop"
		}
		metrics.SearchRequestsTotal.WithLabelValues(
			string(req.Endpoint()), methodLabel(req.Selection().Method()), outcome,
		).Inc()
	}()

	start := time.Now()
	grant, err := s.access.Resolve(ctx, req.ViewerID(), req.CollectionID(), req.IsSync())
	observeStage("access", start)
	if err != nil {
		return nil, fmt.Errorf("resolve access: %w", err)
	}

	start = time.Now()
	sc, err := s.primary(ctx, grant, req)
	observeStage("dispatch", start)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, nil
	}

	start = time.Now()
	buckets, err := s.expand(ctx, grant.CollectionID, sc)
	observeStage("expand", start)
	if err != nil {
		return nil, fmt.Errorf("expand scope: %w", err)
	}

	start = time.Now()
	env, err = s.paginate(ctx, grant, req, buckets)
	observeStage("paginate", start)
	if err != nil {
		return nil, fmt.Errorf("paginate: %w", err)
	}
	return env, nil
}

// primary builds the primary scope of the endpoint. nil means no-op.
func (s *Service) primary(ctx context.Context, grant detail.Grant, req *request.Request) (scope.Scope, error) {
	sel := req.Selection()

	switch req.Endpoint() {
	case request.EndpointElements:
		return genericScope(grant.CollectionID, sel.Generic()), nil
	case request.EndpointSamples, request.EndpointReactions, request.EndpointWellplates, request.EndpointScreens:
		if sel.Method() == method.Structure {
			return s.structureFor(ctx, grant, req.Endpoint(), sel.Structure())
		}
	}

	resolved, ok := sel.Resolve()
	if !ok {
		return nil, nil
	}
	sc, err := s.dispatch(ctx, grant, resolved, sel)
	if err != nil || sc == nil {
		return nil, err
	}
	return applyOrder(sc, resolved.Method, req.MoleculeSort()), nil
}

func observeStage(stage string, start time.Time) {
	metrics.SearchStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// methodLabel bounds the method label to the known catalogue.
func methodLabel(m method.Method) string {
	if _, ok := m.Field(); ok {
		return string(m)
	}
	if _, ok := m.ElementKlass(); ok {
		return method.ElementShortLabelPrefix + "*"
	}
	switch m {
	case method.PolymerType, method.Substring, method.Structure, method.Advanced,
		method.Elements, method.ChemotionID:
		return string(m)
	case "":
		return "none"
	}
	return "other"
}
