package search

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/record"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

// --- Mocks ---

type mockAccess struct {
	resolveFn func(ctx context.Context, viewerID, collectionID int64, isSync bool) (detail.Grant, error)
}

func (m *mockAccess) Resolve(ctx context.Context, viewerID, collectionID int64, isSync bool) (detail.Grant, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, viewerID, collectionID, isSync)
	}
	return detail.Grant{CollectionID: collectionID, Levels: detail.Owner(), ViewerID: viewerID}, nil
}

type mockScopes struct {
	idsFn   func(ctx context.Context, q *scope.Query) ([]int64, error)
	matchFn func(ctx context.Context, term string) (map[string][]int64, error)
	queries []*scope.Query
}

// IDs defaults to the restricted id list, or nothing for an open query.
func (m *mockScopes) IDs(ctx context.Context, q *scope.Query) ([]int64, error) {
	m.queries = append(m.queries, q)
	if q.IsNone() {
		return nil, nil
	}
	if m.idsFn != nil {
		return m.idsFn(ctx, q)
	}
	ids, _ := q.IDs()
	return ids, nil
}

func (m *mockScopes) MatchDocuments(ctx context.Context, term string) (map[string][]int64, error) {
	if m.matchFn != nil {
		return m.matchFn(ctx, term)
	}
	return map[string][]int64{}, nil
}

type mockRecords struct {
	sampleCalls [][]int64
	guestFn     func(ctx context.Context, sampleIDs, moleculeIDs []int64) ([]record.GuestMolecule, error)
	moleculesFn func(ctx context.Context, sampleIDs []int64) ([]int64, error)
}

func (m *mockRecords) Samples(_ context.Context, ids []int64) ([]record.Sample, error) {
	m.sampleCalls = append(m.sampleCalls, ids)
	out := make([]record.Sample, len(ids))
	for i, id := range ids {
		out[i] = record.Sample{ID: id}
	}
	return out, nil
}

func (m *mockRecords) Reactions(_ context.Context, ids []int64) ([]record.Reaction, error) {
	out := make([]record.Reaction, len(ids))
	for i, id := range ids {
		out[i] = record.Reaction{ID: id}
	}
	return out, nil
}

func (m *mockRecords) Wellplates(_ context.Context, ids []int64) ([]record.Wellplate, error) {
	out := make([]record.Wellplate, len(ids))
	for i, id := range ids {
		out[i] = record.Wellplate{ID: id}
	}
	return out, nil
}

func (m *mockRecords) Screens(_ context.Context, ids []int64) ([]record.Screen, error) {
	out := make([]record.Screen, len(ids))
	for i, id := range ids {
		out[i] = record.Screen{ID: id}
	}
	return out, nil
}

func (m *mockRecords) Elements(_ context.Context, ids []int64) ([]record.Element, error) {
	out := make([]record.Element, len(ids))
	for i, id := range ids {
		out[i] = record.Element{ID: id}
	}
	return out, nil
}

func (m *mockRecords) MoleculeIDs(ctx context.Context, sampleIDs []int64) ([]int64, error) {
	if m.moleculesFn != nil {
		return m.moleculesFn(ctx, sampleIDs)
	}
	return nil, nil
}

func (m *mockRecords) GuestMolecules(ctx context.Context, sampleIDs, moleculeIDs []int64) ([]record.GuestMolecule, error) {
	if m.guestFn != nil {
		return m.guestFn(ctx, sampleIDs, moleculeIDs)
	}
	return nil, nil
}

type mockPublications struct {
	byIDFn func(ctx context.Context, id int64) (record.Publication, error)
}

func (m *mockPublications) ByID(ctx context.Context, id int64) (record.Publication, error) {
	if m.byIDFn != nil {
		return m.byIDFn(ctx, id)
	}
	return record.Publication{}, domain.ErrNotFound
}

type mockKlasses struct {
	active []record.ElementKlass
	split  map[int64][]int64
}

func (m *mockKlasses) Active(context.Context) ([]record.ElementKlass, error) { return m.active, nil }

func (m *mockKlasses) ByName(_ context.Context, name string) (record.ElementKlass, error) {
	for _, k := range m.active {
		if k.Name == name {
			return k, nil
		}
	}
	return record.ElementKlass{}, domain.ErrNotFound
}

func (m *mockKlasses) SplitByKlass(context.Context, []int64) (map[int64][]int64, error) {
	return m.split, nil
}

type mockFingerprints struct {
	candidates []fingerprint.Candidate
}

func (m *mockFingerprints) Candidates(context.Context, int64, int, int) ([]fingerprint.Candidate, error) {
	return m.candidates, nil
}

type mockStandardizer struct {
	fp fingerprint.Fingerprint
}

func (m *mockStandardizer) Standardize(_ context.Context, molfile string) (domain.Standardized, error) {
	return domain.Standardized{Molfile: molfile, Fingerprint: m.fp}, nil
}

type mockXvials struct {
	counts map[string]int64
}

func (m *mockXvials) Counts(context.Context, []string) (map[string]int64, error) { return m.counts, nil }

// --- Helpers ---

type fixture struct {
	access  *mockAccess
	scopes  *mockScopes
	records *mockRecords
	fps     *mockFingerprints
	std     *mockStandardizer
	klasses *mockKlasses
	xvials  *mockXvials
	pubs    *mockPublications
}

func newFixture() *fixture {
	return &fixture{
		access:  &mockAccess{},
		scopes:  &mockScopes{},
		records: &mockRecords{},
		fps:     &mockFingerprints{},
		std:     &mockStandardizer{},
		klasses: &mockKlasses{},
		xvials:  &mockXvials{},
		pubs:    &mockPublications{},
	}
}

func (f *fixture) service(compound CompoundOpenData) *Service {
	return New(Deps{
		Access:       f.access,
		Scopes:       f.scopes,
		Records:      f.records,
		Publications: f.pubs,
		Klasses:      f.klasses,
		Fingerprints: f.fps,
		Standardizer: f.std,
		Xvials:       f.xvials,
	}, compound)
}

func newRequest(t *testing.T, ep request.Endpoint, sp selection.Params, rp request.Params) *request.Request {
	t.Helper()
	sel, err := selection.New(sp)
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	rp.Endpoint = ep
	rp.Selection = sel
	if rp.CollectionID == "" {
		rp.CollectionID = "1"
	}
	req, err := request.New(rp)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &req
}

func bucket(t *testing.T, env *result.Envelope, key string) result.Bucket {
	t.Helper()
	if env == nil {
		t.Fatal("envelope is nil")
	}
	b, ok := env.Get(key)
	if !ok {
		t.Fatalf("bucket %q missing, keys %v", key, env.Keys())
	}
	return b
}

// --- Tests ---

func TestSearch_NoOp(t *testing.T) {
	f := newFixture()
	req := newRequest(t, request.EndpointAll, selection.Params{Method: "sample_name", Name: "  "}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env != nil {
		t.Errorf("expected nil envelope, got %v", env.Keys())
	}
}

func TestSearch_UnknownMethodIsNoOp(t *testing.T) {
	f := newFixture()
	req := newRequest(t, request.EndpointAll, selection.Params{Method: "telepathy", Name: "x"}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil || env != nil {
		t.Errorf("Search() = %v, %v; want nil, nil", env, err)
	}
}

func TestSearch_AccessError(t *testing.T) {
	f := newFixture()
	f.access.resolveFn = func(context.Context, int64, int64, bool) (detail.Grant, error) {
		return detail.Grant{}, domain.ErrCollectionNotFound
	}
	req := newRequest(t, request.EndpointAll, selection.Params{Method: "sample_name", Name: "x"}, request.Params{})

	_, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestSearch_UnknownPublicationPrefix(t *testing.T) {
	f := newFixture()
	req := newRequest(t, request.EndpointAll, selection.Params{Method: "chemotion_id", Name: "CRX-5"}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, k := range element.Buckets {
		if b := bucket(t, env, string(k)); b.TotalElements() != 0 {
			t.Errorf("%s: %d elements", k, b.TotalElements())
		}
	}
}

func TestSearch_Pagination(t *testing.T) {
	f := newFixture()
	all := make([]int64, 15)
	for i := range all {
		all[i] = int64(i + 1)
	}
	f.scopes.idsFn = func(_ context.Context, q *scope.Query) ([]int64, error) {
		if q.Kind() == element.Samples {
			return all, nil
		}
		return nil, nil
	}
	req := newRequest(t, request.EndpointAll,
		selection.Params{Method: "sample_external_label", Name: "EXT"},
		request.Params{Page: 2, PerPage: 7})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := bucket(t, env, "samples")
	if b.TotalElements() != 15 || b.Pages() != 3 || b.Page() != 2 || b.PerPage() != 7 {
		t.Errorf("bucket = total %d pages %d page %d per %d", b.TotalElements(), b.Pages(), b.Page(), b.PerPage())
	}
	if len(f.records.sampleCalls) != 1 || !slices.Equal(f.records.sampleCalls[0], []int64{8, 9, 10, 11, 12, 13, 14}) {
		t.Errorf("fetched %v", f.records.sampleCalls)
	}
	if len(b.Elements()) != 7 {
		t.Errorf("elements = %d", len(b.Elements()))
	}
}

// bits sets the first n bits of a fingerprint.
func bits(n int) fingerprint.Fingerprint {
	var fp fingerprint.Fingerprint
	for i := range n {
		fp[i/64] |= 1 << (i % 64)
	}
	return fp
}

func TestSearch_SimilarStructure(t *testing.T) {
	f := newFixture()
	f.std.fp = bits(10)
	f.fps.candidates = []fingerprint.Candidate{
		{SampleID: 4, Fingerprint: bits(4)}, // 0.4
		{SampleID: 7, Fingerprint: bits(9)}, // 0.9
	}
	threshold := 0.5
	req := newRequest(t, request.EndpointSamples, selection.Params{
		Method:     "structure",
		Molfile:    "mol",
		SearchType: "similar",
		Threshold:  &threshold,
	}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sb := bucket(t, env, "samples")
	if got := sb.IDs(); !slices.Equal(got, []int64{7}) {
		t.Errorf("sample ids = %v, want [7]", got)
	}
}

func TestSearch_SubstructureIsDefault(t *testing.T) {
	f := newFixture()
	f.std.fp = bits(3)
	f.fps.candidates = []fingerprint.Candidate{
		{SampleID: 5, Fingerprint: bits(2)},
		{SampleID: 6, Fingerprint: bits(8)},
		{SampleID: 8, Fingerprint: bits(3)},
	}
	req := newRequest(t, request.EndpointSamples, selection.Params{Method: "structure", Molfile: "mol"}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := bucket(t, env, "samples"); !slices.Equal(b.IDs(), []int64{6, 8}) {
		t.Errorf("sample ids = %v, want [6 8]", b.IDs())
	}
}

func TestSearch_StructureOnReactions(t *testing.T) {
	f := newFixture()
	f.std.fp = bits(3)
	f.fps.candidates = []fingerprint.Candidate{{SampleID: 6, Fingerprint: bits(8)}}
	req := newRequest(t, request.EndpointReactions, selection.Params{Method: "structure", Molfile: "mol"}, request.Params{})

	if _, err := f.service(CompoundOpenData{}).Search(t.Context(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.scopes.queries) == 0 {
		t.Fatal("no scope was run")
	}
	q := f.scopes.queries[0]
	if q.Kind() != element.Reactions || !hasFilter(q, "reactions_samples.sample_id IN ?", []int64{6}) {
		t.Errorf("first query = %s %+v", q.Kind(), q.Where())
	}
}

func TestSearch_StructureBelowLevel(t *testing.T) {
	f := newFixture()
	f.access.resolveFn = func(_ context.Context, _, cid int64, _ bool) (detail.Grant, error) {
		return detail.Grant{CollectionID: cid}, nil
	}
	f.fps.candidates = []fingerprint.Candidate{{SampleID: 1, Fingerprint: bits(3)}}
	req := newRequest(t, request.EndpointSamples, selection.Params{Method: "structure", Molfile: "mol"}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := bucket(t, env, "samples"); b.TotalElements() != 0 {
		t.Errorf("level 0 viewer matched %v", b.IDs())
	}
}

func TestSearch_KlassBuckets(t *testing.T) {
	f := newFixture()
	f.klasses.active = []record.ElementKlass{{ID: 1, Name: "Cell"}, {ID: 2, Name: "Device"}}
	f.klasses.split = map[int64][]int64{1: {5, 6}}
	f.scopes.idsFn = func(_ context.Context, q *scope.Query) ([]int64, error) {
		if q.Kind() == element.Elements {
			return []int64{5, 6}, nil
		}
		return nil, nil
	}
	req := newRequest(t, request.EndpointElements, selection.Params{
		Generic: selection.GenericQuery{KlassName: "Cell"},
	}, request.Params{})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := bucket(t, env, "Cells"); !slices.Equal(b.IDs(), []int64{5, 6}) {
		t.Errorf("Cells = %v", b.IDs())
	}
	if b := bucket(t, env, "Devices"); b.TotalElements() != 0 {
		t.Errorf("Devices = %v", b.IDs())
	}
}

func TestSearch_PublicMolecules(t *testing.T) {
	f := newFixture()
	f.scopes.idsFn = func(_ context.Context, q *scope.Query) ([]int64, error) {
		if q.Kind() == element.Samples {
			return []int64{1, 2}, nil
		}
		return nil, nil
	}
	f.records.moleculesFn = func(context.Context, []int64) ([]int64, error) { return []int64{30}, nil }
	f.records.guestFn = func(_ context.Context, _, ids []int64) ([]record.GuestMolecule, error) {
		return []record.GuestMolecule{{Molecule: record.Molecule{ID: ids[0], InChIKey: "KEY"}, XvialCount: 1}}, nil
	}
	req := newRequest(t, request.EndpointAll,
		selection.Params{Method: "sample_external_label", Name: "EXT"},
		request.Params{IsPublic: true})

	env, err := f.service(CompoundOpenData{}).Search(t.Context(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(env.Keys(), []string{PublicMoleculesKey, PublicReactionsKey}) {
		t.Errorf("keys = %v", env.Keys())
	}
	b := bucket(t, env, PublicMoleculesKey)
	if !slices.Equal(b.IDs(), []int64{30}) || len(b.Elements()) != 1 {
		t.Errorf("molecules = %v", b.IDs())
	}
}

func TestAnnotateXvial(t *testing.T) {
	tests := []struct {
		name     string
		compound CompoundOpenData
		viewer   int64
		want     int64
	}{
		{"not configured", CompoundOpenData{}, 5, record.XvialNotConfigured},
		{"not allowed", CompoundOpenData{Enabled: true, AllowedUsers: []int64{9}}, 5, record.XvialNotAuthorized},
		{"anonymous", CompoundOpenData{Enabled: true, AllowedUsers: []int64{9}}, 0, record.XvialNotAuthorized},
		{"allowed", CompoundOpenData{Enabled: true, AllowedUsers: []int64{5}}, 5, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.xvials.counts = map[string]int64{"KEY": 3}
			mols := []record.GuestMolecule{{Molecule: record.Molecule{InChIKey: "KEY"}}}

			if err := f.service(tc.compound).annotateXvial(t.Context(), tc.viewer, mols); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mols[0].XvialCom != tc.want {
				t.Errorf("xvial_com = %d, want %d", mols[0].XvialCom, tc.want)
			}
		})
	}
}

func TestExpand_Merged(t *testing.T) {
	f := newFixture()
	f.scopes.idsFn = func(_ context.Context, q *scope.Query) ([]int64, error) {
		if q.Kind() == element.Reactions {
			return []int64{20, 21}, nil
		}
		return nil, nil
	}
	b, err := f.service(CompoundOpenData{}).expand(t.Context(), 1, scope.Merged{
		Samples:         []int64{1, 2},
		MoleculeSamples: []int64{2, 3},
		Reactions:       []int64{21, 22},
		Wellplates:      []int64{40},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(b.Samples, []int64{1, 2, 3}) {
		t.Errorf("samples = %v", b.Samples)
	}
	if !slices.Equal(b.Reactions, []int64{21, 22, 20}) {
		t.Errorf("reactions = %v", b.Reactions)
	}
	if !slices.Equal(b.Wellplates, []int64{40}) {
		t.Errorf("wellplates = %v", b.Wellplates)
	}
}

func TestExpand_WellplatesStayAlone(t *testing.T) {
	f := newFixture()
	q := scope.NewQuery(element.Wellplates, 1).Restrict([]int64{3})

	b, err := f.service(CompoundOpenData{}).expand(t.Context(), 1, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(b.Wellplates, []int64{3}) || b.Samples != nil || b.Reactions != nil {
		t.Errorf("buckets = %+v", b)
	}
	if len(f.scopes.queries) != 1 {
		t.Errorf("ran %d queries, want 1", len(f.scopes.queries))
	}
}
