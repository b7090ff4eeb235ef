package search

import (
	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

// Association paths between entity kinds. An empty source set yields an empty scope.

func reactionsOfSamples(cid int64, sampleIDs []int64) *scope.Query {
	if len(sampleIDs) == 0 {
		return scope.None(element.Reactions)
	}
	return scope.NewQuery(element.Reactions, cid).Filter(predicate.Raw(
		"reactions.id IN (SELECT reaction_id FROM reactions_samples "+
			"WHERE reactions_samples.sample_id IN ? AND reactions_samples.deleted_at IS NULL)",
		sampleIDs,
	))
}

func samplesOfReactions(cid int64, reactionIDs []int64) *scope.Query {
	if len(reactionIDs) == 0 {
		return scope.None(element.Samples)
	}
	return scope.NewQuery(element.Samples, cid).Filter(predicate.Raw(
		"samples.id IN (SELECT sample_id FROM reactions_samples "+
			"WHERE reactions_samples.reaction_id IN ? AND reactions_samples.deleted_at IS NULL)",
		reactionIDs,
	))
}

func wellplatesOfSamples(cid int64, sampleIDs []int64) *scope.Query {
	if len(sampleIDs) == 0 {
		return scope.None(element.Wellplates)
	}
	return scope.NewQuery(element.Wellplates, cid).Filter(predicate.Raw(
		"wellplates.id IN (SELECT wellplate_id FROM wells "+
			"WHERE wells.sample_id IN ? AND wells.deleted_at IS NULL)",
		sampleIDs,
	))
}

func screensOfSamples(cid int64, sampleIDs []int64) *scope.Query {
	if len(sampleIDs) == 0 {
		return scope.None(element.Screens)
	}
	return scope.NewQuery(element.Screens, cid).Filter(predicate.Raw(
		"screens.id IN (SELECT screens_wellplates.screen_id FROM screens_wellplates "+
			"INNER JOIN wells ON wells.wellplate_id = screens_wellplates.wellplate_id "+
			"WHERE wells.sample_id IN ? AND wells.deleted_at IS NULL "+
			"AND screens_wellplates.deleted_at IS NULL)",
		sampleIDs,
	))
}
