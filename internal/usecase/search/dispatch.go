package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/detail"
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/method"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
	"github.com/kailas-cloud/chemsearch/internal/logger"
)

var moleculesJoin = predicate.Join{
	Table: predicate.Molecules,
	On:    "samples.molecule_id = molecules.id",
}

// dispatch maps a resolved method to its scope. Insufficient detail levels yield an empty
// scope, never an error. An unknown method yields nil (no-op).
func (s *Service) dispatch(
	ctx context.Context, grant detail.Grant, r selection.Resolved, sel *selection.Selection,
) (scope.Scope, error) {
	cid := grant.CollectionID
	levels := grant.Levels

	if f, ok := r.Method.Field(); ok {
		return fieldScope(cid, levels, f, r.Arg), nil
	}
	if klass, ok := r.Method.ElementKlass(); ok {
		return s.elementShortLabel(ctx, cid, klass, r.Arg)
	}

	switch r.Method {
	case method.PolymerType:
		if !levels.Allows(element.Samples, method.PolymerTypeMinLevel) {
			return denied(ctx, r.Method, element.Samples), nil
		}
		residues, _ := predicate.JoinFor(predicate.Residues, "")
		return scope.NewQuery(element.Samples, cid).
			Join(residues).
			Filter(predicate.Raw("residues.custom_info ->> 'polymer_type' ILIKE ?",
				predicate.Wrap(predicate.EscapeLike(r.Arg)))).
			OrderBy(scope.OrderUpdatedDesc()), nil
	case method.Substring:
		if !levels.Allows(element.Samples, method.SubstringMinLevel) {
			logger.FromContext(ctx).Debug("Substring search below detail level")
			return scope.Merged{}, nil
		}
		return s.substring(ctx, cid, r.Arg)
	case method.Structure:
		return s.structureScope(ctx, grant, sel.Structure())
	case method.Advanced:
		return advanced(ctx, cid, levels, sel.Clauses()), nil
	case method.Elements:
		return genericScope(cid, sel.Generic()), nil
	case method.ChemotionID:
		return s.chemotionID(ctx, cid, r.Arg)
	}

	logger.FromContext(ctx).Debug("Unknown search method", zap.String("method", string(r.Method)))
	return nil, nil
}

// fieldScope matches one column exactly or by substring.
func fieldScope(cid int64, levels detail.Levels, f method.FieldMatch, arg string) *scope.Query {
	if f.MinSampleLevel != method.NoGate && !levels.Allows(element.Samples, f.MinSampleLevel) {
		return scope.None(f.Kind)
	}
	q := scope.NewQuery(f.Kind, cid)
	if f.ViaMolecule {
		q = q.Join(moleculesJoin)
	}
	if f.Exact {
		q = q.Filter(predicate.Compare(f.Column, predicate.Eq, arg))
	} else {
		q = q.Filter(predicate.Contains(f.Column, arg))
	}
	if f.Kind == element.Samples {
		q = q.OrderBy(scope.OrderUpdatedDesc())
	}
	return q
}

func denied(ctx context.Context, m method.Method, kind element.Kind) *scope.Query {
	logger.FromContext(ctx).Debug("Search method below detail level", zap.String("method", string(m)))
	return scope.None(kind)
}

// elementShortLabel matches generic elements of one klass by short label.
func (s *Service) elementShortLabel(ctx context.Context, cid int64, klassName, arg string) (scope.Scope, error) {
	klass, err := s.klasses.ByName(ctx, klassName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return scope.None(element.Elements), nil
		}
		return nil, fmt.Errorf("find element klass: %w", err)
	}
	return scope.NewQuery(element.Elements, cid).
		Filter(predicate.Raw("elements.element_klass_id = ?", klass.ID)).
		Filter(predicate.Raw("elements.short_label ILIKE ?", predicate.Wrap(predicate.EscapeLike(arg)))), nil
}

// substring runs the full text search and binds every hit bucket to the collection.
func (s *Service) substring(ctx context.Context, cid int64, term string) (scope.Scope, error) {
	docs, err := s.scopes.MatchDocuments(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("match documents: %w", err)
	}

	bind := func(kind element.Kind) ([]int64, error) {
		ids := docs[kind.Type()]
		if len(ids) == 0 {
			return nil, nil
		}
		return s.scopes.IDs(ctx, scope.NewQuery(kind, cid).Restrict(ids))
	}

	var m scope.Merged
	kinds := []struct {
		kind element.Kind
		dst  *[]int64
	}{
		{element.Samples, &m.Samples},
		{element.Reactions, &m.Reactions},
		{element.Wellplates, &m.Wellplates},
		{element.Screens, &m.Screens},
		{element.Elements, &m.Elements},
	}
	for _, k := range kinds {
		ids, err := bind(k.kind)
		if err != nil {
			return nil, fmt.Errorf("bind %s hits: %w", k.kind, err)
		}
		*k.dst = ids
	}

	if mols := docs[element.Molecules.Type()]; len(mols) > 0 {
		q := scope.NewQuery(element.Samples, cid).Filter(predicate.In("samples.molecule_id", mols))
		ids, err := s.scopes.IDs(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("bind molecule hits: %w", err)
		}
		m.MoleculeSamples = ids
	}
	return m, nil
}

// applyOrder applies the ordering precedence: as typed for advanced searches, most recent
// first for advanced searches sorted by molecule, carbon count for every other search
// sorted by molecule.
func applyOrder(sc scope.Scope, m method.Method, moleculeSort bool) scope.Scope {
	q, ok := sc.(*scope.Query)
	if !ok || !moleculeSort {
		return sc
	}
	if m == method.Advanced {
		return q.OrderBy(scope.OrderUpdatedDesc())
	}
	if q.Kind() != element.Samples {
		return q
	}
	return q.OrderBy(scope.OrderCarbonCount())
}
