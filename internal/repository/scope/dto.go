package scope

import (
	"database/sql"
	"time"

	"github.com/kailas-cloud/chemsearch/internal/domain/element"
	domscope "github.com/kailas-cloud/chemsearch/internal/domain/search/scope"
)

// rowDTO is the ordering projection of one record.
type rowDTO struct {
	ID        int64
	UpdatedAt time.Time
	SortKey   sql.NullString
	Formula   sql.NullString
}

func toRows(dtos []rowDTO) []domscope.Row {
	rows := make([]domscope.Row, len(dtos))
	for i, d := range dtos {
		rows[i] = domscope.Row{
			ID:        d.ID,
			UpdatedAt: d.UpdatedAt,
			Key:       d.SortKey.String,
			Formula:   d.Formula.String,
		}
	}
	return rows
}

// documentDTO is a full text search hit.
type documentDTO struct {
	SearchableType string
	SearchableID   int64
}

// link is the collection membership table of a kind.
type link struct {
	table string
	fk    string
}

var links = map[element.Kind]link{
	element.Samples:    {"collections_samples", "sample_id"},
	element.Reactions:  {"collections_reactions", "reaction_id"},
	element.Wellplates: {"collections_wellplates", "wellplate_id"},
	element.Screens:    {"collections_screens", "screen_id"},
	element.Elements:   {"collections_elements", "element_id"},
}
