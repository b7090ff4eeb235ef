package search

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/record"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/page"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/view"
	"github.com/kailas-cloud/chemsearch/internal/metrics"
)

// Guest envelope keys.
const (
	PublicMoleculesKey = "publicMolecules"
	PublicReactionsKey = "publicReactions"
)

type namedBucket struct {
	key    string
	bucket result.Bucket
}

// paginate builds every bucket of the envelope concurrently.
func (s *Service) paginate(ctx context.Context, grant detail.Grant, req *request.Request, b Buckets) (*result.Envelope, error) {
	if req.IsPublic() {
		return s.paginatePublic(ctx, grant, req, b)
	}

	klasses, err := s.klasses.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("load element klasses: %w", err)
	}
	byKlass := map[int64][]int64{}
	if len(b.Elements) > 0 {
		if byKlass, err = s.klasses.SplitByKlass(ctx, b.Elements); err != nil {
			return nil, fmt.Errorf("split elements by klass: %w", err)
		}
	}

	pageNo, perPage := req.Page(), req.PerPage()
	lv := grant.Levels
	out := make([]namedBucket, 4+len(klasses))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out[0].key = string(element.Samples)
		out[0].bucket, err = bucketOf(gctx, b.Samples, pageNo, perPage, s.records.Samples,
			func(r record.Sample) any { return view.Sample(r, lv.Sample) })
		return err
	})
	g.Go(func() (err error) {
		out[1].key = string(element.Reactions)
		out[1].bucket, err = bucketOf(gctx, b.Reactions, pageNo, perPage, s.records.Reactions,
			func(r record.Reaction) any { return view.Reaction(r, lv.Reaction) })
		return err
	})
	g.Go(func() (err error) {
		out[2].key = string(element.Wellplates)
		out[2].bucket, err = bucketOf(gctx, b.Wellplates, pageNo, perPage, s.records.Wellplates,
			func(r record.Wellplate) any { return view.Wellplate(r, lv.Wellplate) })
		return err
	})
	g.Go(func() (err error) {
		out[3].key = string(element.Screens)
		out[3].bucket, err = bucketOf(gctx, b.Screens, pageNo, perPage, s.records.Screens, view.Screen)
		return err
	})
	for i, k := range klasses {
		slot := &out[4+i]
		ids := byKlass[k.ID]
		g.Go(func() (err error) {
			slot.key = k.Name + "s"
			slot.bucket, err = bucketOf(gctx, ids, pageNo, perPage, s.records.Elements, view.Element)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	env := result.NewEnvelope()
	for _, nb := range out {
		metrics.SearchBucketElements.WithLabelValues(bucketLabel(nb.key)).Observe(float64(nb.bucket.TotalElements()))
		env.Set(nb.key, nb.bucket)
	}
	return env, nil
}

// paginatePublic builds the guest envelope: molecules of the matched samples and the
// matched reactions.
func (s *Service) paginatePublic(ctx context.Context, grant detail.Grant, req *request.Request, b Buckets) (*result.Envelope, error) {
	pageNo, perPage := req.Page(), req.PerPage()
	var molecules, reactions result.Bucket

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		molecules, err = s.moleculesBucket(gctx, grant.ViewerID, b.Samples, pageNo, perPage)
		return err
	})
	g.Go(func() (err error) {
		reactions, err = bucketOf(gctx, b.Reactions, pageNo, perPage, s.records.Reactions, view.GuestReaction)
		if err != nil {
			return err
		}
		reactions = result.NewPublicBucket(string(element.Reactions), reactions.Elements(), b.Reactions, pageNo, perPage)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.SearchBucketElements.WithLabelValues(string(element.Molecules)).Observe(float64(molecules.TotalElements()))
	metrics.SearchBucketElements.WithLabelValues(string(element.Reactions)).Observe(float64(reactions.TotalElements()))

	env := result.NewEnvelope()
	env.Set(PublicMoleculesKey, molecules)
	env.Set(PublicReactionsKey, reactions)
	return env, nil
}

func (s *Service) moleculesBucket(ctx context.Context, viewerID int64, sampleIDs []int64, pageNo, perPage int) (result.Bucket, error) {
	var molIDs []int64
	if len(sampleIDs) > 0 {
		var err error
		if molIDs, err = s.records.MoleculeIDs(ctx, sampleIDs); err != nil {
			return result.Bucket{}, fmt.Errorf("molecules of samples: %w", err)
		}
	}

	var items []any
	if ids := page.Window(molIDs, pageNo, perPage); len(ids) > 0 {
		mols, err := s.records.GuestMolecules(ctx, sampleIDs, ids)
		if err != nil {
			return result.Bucket{}, fmt.Errorf("load molecules: %w", err)
		}
		if err := s.annotateXvial(ctx, viewerID, mols); err != nil {
			return result.Bucket{}, err
		}
		items = make([]any, len(mols))
		for i, m := range mols {
			items[i] = view.GuestMolecule(m)
		}
	}
	return result.NewPublicBucket(string(element.Molecules), items, molIDs, pageNo, perPage), nil
}

// annotateXvial sets the compound registry count of every molecule.
func (s *Service) annotateXvial(ctx context.Context, viewerID int64, mols []record.GuestMolecule) error {
	if !s.compound.Enabled || s.xvials == nil {
		setXvialCom(mols, record.XvialNotConfigured)
		return nil
	}
	if viewerID == 0 || !slices.Contains(s.compound.AllowedUsers, viewerID) {
		setXvialCom(mols, record.XvialNotAuthorized)
		return nil
	}

	keys := make([]string, len(mols))
	for i, m := range mols {
		keys[i] = m.InChIKey
	}
	counts, err := s.xvials.Counts(ctx, keys)
	if err != nil {
		return fmt.Errorf("compound registry counts: %w", err)
	}
	for i := range mols {
		mols[i].XvialCom = counts[mols[i].InChIKey]
	}
	return nil
}

func setXvialCom(mols []record.GuestMolecule, v int64) {
	for i := range mols {
		mols[i].XvialCom = v
	}
}

// bucketOf pages ids, fetches the current page and renders it in list order.
func bucketOf[T any](
	ctx context.Context,
	ids []int64,
	pageNo, perPage int,
	fetch func(context.Context, []int64) ([]T, error),
	render func(T) any,
) (result.Bucket, error) {
	window := page.Window(ids, pageNo, perPage)
	if len(window) == 0 {
		return result.NewBucket(nil, ids, pageNo, perPage), nil
	}
	recs, err := fetch(ctx, window)
	if err != nil {
		return result.Bucket{}, err
	}
	items := make([]any, len(recs))
	for i, r := range recs {
		items[i] = render(r)
	}
	return result.NewBucket(items, ids, pageNo, perPage), nil
}

// bucketLabel keeps klass bucket names out of the metric label space.
func bucketLabel(key string) string {
	switch element.Kind(key) {
	case element.Samples, element.Reactions, element.Wellplates, element.Screens:
		return key
	}
	return string(element.Elements)
}
