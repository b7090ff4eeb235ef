package search

import (
	"encoding/json"

	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/predicate"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

// genericScope builds the generic element scope of one klass: name and short label substring
// filters first, then one property containment per populated field.
func genericScope(cid int64, g selection.GenericQuery) *scope.Query {
	q := scope.NewQuery(element.Elements, cid).
		Filter(predicate.Raw(
			"elements.element_klass_id IN (SELECT id FROM element_klasses WHERE name = ?)", g.KlassName))
	if g.Name != "" {
		q = q.Filter(predicate.Raw("elements.name LIKE ?", predicate.Wrap(predicate.EscapeLike(g.Name))))
	}
	if g.ShortLabel != "" {
		q = q.Filter(predicate.Raw("elements.short_label LIKE ?", predicate.Wrap(predicate.EscapeLike(g.ShortLabel))))
	}
	for _, doc := range g.Containments() {
		b, err := json.Marshal(doc)
		if err != nil {
			// values come from decoded JSON and always re-encode
			continue
		}
		q = q.Filter(predicate.Raw("elements.properties @> ?::jsonb", string(b)))
	}
	return q
}
