package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

// Buckets holds the ordered id list of every entity kind.
type Buckets struct {
	Samples    []int64
	Reactions  []int64
	Wellplates []int64
	Screens    []int64
	Elements   []int64
}

// expand runs the primary scope and derives the related kinds. Only samples and
// reactions expand into each other; other primary kinds fill their own bucket.
func (s *Service) expand(ctx context.Context, cid int64, sc scope.Scope) (Buckets, error) {
	switch v := sc.(type) {
	case scope.Merged:
		samples := scope.Dedupe(append(append([]int64(nil), v.Samples...), v.MoleculeSamples...))
		linked, err := s.scopes.IDs(ctx, reactionsOfSamples(cid, samples))
		if err != nil {
			return Buckets{}, fmt.Errorf("reactions of samples: %w", err)
		}
		return Buckets{
			Samples:    samples,
			Reactions:  scope.Dedupe(append(append([]int64(nil), v.Reactions...), linked...)),
			Wellplates: v.Wellplates,
			Screens:    v.Screens,
			Elements:   v.Elements,
		}, nil
	case *scope.Query:
		return s.expandQuery(ctx, cid, v)
	}
	return Buckets{}, fmt.Errorf("unsupported scope %T", sc)
}

func (s *Service) expandQuery(ctx context.Context, cid int64, q *scope.Query) (Buckets, error) {
	ids, err := s.scopes.IDs(ctx, q)
	if err != nil {
		return Buckets{}, fmt.Errorf("run %s scope: %w", q.Kind(), err)
	}

	var b Buckets
	switch q.Kind() {
	case element.Samples:
		b.Samples = ids
		if b.Reactions, err = s.scopes.IDs(ctx, reactionsOfSamples(cid, ids)); err != nil {
			return Buckets{}, fmt.Errorf("reactions of samples: %w", err)
		}
	case element.Reactions:
		b.Reactions = ids
		if b.Samples, err = s.scopes.IDs(ctx, samplesOfReactions(cid, ids)); err != nil {
			return Buckets{}, fmt.Errorf("samples of reactions: %w", err)
		}
	case element.Wellplates:
		b.Wellplates = ids
	case element.Screens:
		b.Screens = ids
	case element.Elements:
		b.Elements = ids
	}
	return b, nil
}
