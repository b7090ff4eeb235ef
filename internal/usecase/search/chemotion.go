package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/pubcode"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/logger"
)

// chemotionID resolves a publication code. Malformed codes and failed lookups yield an
// empty scope.
func (s *Service) chemotionID(ctx context.Context, cid int64, arg string) (scope.Scope, error) {
	code, ok := pubcode.Parse(arg)
	if !ok {
		return scope.None(element.Samples), nil
	}

	switch code.Prefix {
	case pubcode.Sample:
		return published(element.Samples, cid, code.ID), nil
	case pubcode.Reaction:
		return published(element.Reactions, cid, code.ID), nil
	}

	// derived records resolve to the element of their parent publication
	pub, err := s.publications.ByID(ctx, code.ID)
	if err != nil {
		return lookupFailed(ctx, code, err)
	}
	if pub.ParentID == nil {
		return scope.None(element.Samples), nil
	}
	parent, err := s.publications.ByID(ctx, *pub.ParentID)
	if err != nil {
		return lookupFailed(ctx, code, err)
	}
	kind, ok := element.KindFromType(parent.ElementType)
	if !ok || (kind != element.Samples && kind != element.Reactions) {
		return scope.None(element.Samples), nil
	}
	return published(kind, cid, parent.ID), nil
}

func lookupFailed(ctx context.Context, code pubcode.Code, err error) (scope.Scope, error) {
	if errors.Is(err, domain.ErrNotFound) {
		logger.FromContext(ctx).Debug("Publication not found", zap.String("code", code.String()))
		return scope.None(element.Samples), nil
	}
	return nil, fmt.Errorf("find publication %s: %w", code, err)
}

// published restricts kind to the element of publication pubID.
func published(kind element.Kind, cid, pubID int64) *scope.Query {
	return scope.NewQuery(kind, cid).Filter(predicate.Raw(
		kind.Table()+".id IN (SELECT element_id FROM publications WHERE publications.id = ? "+
			"AND publications.element_type = ? AND publications.deleted_at IS NULL)",
		pubID, kind.Type(),
	))
}
