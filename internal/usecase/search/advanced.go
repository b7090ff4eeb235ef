package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
	"github.com/kailas-cloud/chemsearch/internal/logger"
)

// advanced builds the multi clause samples scope. Clauses on columns outside the
// whitelist, below the detail level, without values or with an unknown join are dropped
// silently. Without a surviving clause the scope is empty. Rows are ordered by the
// position of their value in the first surviving clause.
func advanced(ctx context.Context, cid int64, levels detail.Levels, clauses []selection.AdvancedClause) *scope.Query {
	log := logger.FromContext(ctx)
	q := scope.NewQuery(element.Samples, cid)

	var chain predicate.Chain
	var orderBy *scope.Order
	for i, c := range clauses {
		col, ok := predicate.Lookup(c.Field.Table, c.Field.Column, c.Field.Opt)
		if !ok {
			log.Debug("Advanced clause dropped: not whitelisted", zap.Int("clause", i))
			continue
		}
		if !clauseVisible(levels, col) {
			log.Debug("Advanced clause dropped: below detail level", zap.Int("clause", i))
			continue
		}
		values := selection.SplitValues(c.Value)
		if len(values) == 0 {
			continue
		}
		if col.Table() != predicate.Samples {
			j, ok := predicate.JoinFor(col.Table(), c.Field.ExtKey)
			if !ok {
				log.Debug("Advanced clause dropped: no join", zap.Int("clause", i))
				continue
			}
			q = q.Join(j)
		}

		tokens := make([]predicate.Expr, len(values))
		for k, v := range values {
			if c.Match.IsPattern() {
				v = predicate.Wrap(predicate.EscapeLike(v))
			}
			tokens[k] = predicate.Compare(col, c.Match, v)
		}
		chain.Append(c.Link, predicate.AnyOf(tokens))

		if orderBy == nil {
			o := scope.OrderAsTyped(col, values)
			orderBy = &o
		}
	}

	if chain.Len() == 0 {
		return scope.None(element.Samples)
	}
	return q.Filter(chain.Expr()).OrderBy(*orderBy)
}

// clauseVisible applies the per table policy: sample columns need sample level 1 except
// the external label, every other whitelisted table is unrestricted.
func clauseVisible(levels detail.Levels, col predicate.Column) bool {
	if col.Table() != predicate.Samples {
		return true
	}
	return col.Name() == "external_label" || levels.Allows(element.Samples, 1)
}
