package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/request"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/selection"
)

// SearchRequest is the body of POST /search/{endpoint}.
type SearchRequest struct {
	Page         int              `json:"page"`
	Selection    SelectionRequest `json:"selection"`
	CollectionID flexString       `json:"collection_id"`
	IsSync       bool             `json:"is_sync"`
	MoleculeSort bool             `json:"molecule_sort"`
	PerPage      int              `json:"per_page"`
	IsPublic     bool             `json:"is_public"`
}

// SelectionRequest describes what to search for.
type SelectionRequest struct {
	SearchByMethod    string            `json:"search_by_method"`
	ElementType       string            `json:"elementType"`
	Molfile           string            `json:"molfile"`
	SearchType        string            `json:"search_type"`
	TanimotoThreshold *float64          `json:"tanimoto_threshold"`
	PageSize          int               `json:"page_size"`
	StructureSearch   bool              `json:"structure_search"`
	Name              string            `json:"name"`
	AdvancedParams    []AdvancedParam   `json:"advanced_params"`
	GenericElName     string            `json:"genericElName"`
	SearchName        string            `json:"searchName"`
	SearchShowLabel   string            `json:"searchShowLabel"`
	SearchProperties  *SearchProperties `json:"searchProperties"`
}

// AdvancedParam is one clause of an advanced search.
type AdvancedParam struct {
	Link  string        `json:"link"`
	Match string        `json:"match"`
	Field AdvancedField `json:"field"`
	Value string        `json:"value"`
}

// AdvancedField names the filtered column.
type AdvancedField struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	ExtKey string `json:"ext_key"`
	Opt    string `json:"opt"`
}

// SearchProperties carries generic element property filters per layer.
type SearchProperties struct {
	Layers map[string]PropertyLayer `json:"layers"`
}

// PropertyLayer lists the fields of one property layer.
type PropertyLayer struct {
	Fields []PropertyFieldRequest `json:"fields"`
}

// PropertyFieldRequest is one property field filter.
type PropertyFieldRequest struct {
	Field     string            `json:"field"`
	Type      string            `json:"type"`
	Value     any               `json:"value"`
	SubFields []SubFieldRequest `json:"sub_fields"`
}

// SubFieldRequest is one part of an input-group field.
type SubFieldRequest struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// toRequest validates the body into a search request.
func (b *SearchRequest) toRequest(ep SearchEndpoint, viewerID int64) (request.Request, error) {
	endpoint, err := request.ParseEndpoint(string(ep))
	if err != nil {
		return request.Request{}, err
	}
	sel, err := selection.New(b.Selection.toParams())
	if err != nil {
		return request.Request{}, err
	}
	return request.New(request.Params{
		Endpoint:     endpoint,
		Selection:    sel,
		CollectionID: string(b.CollectionID),
		IsSync:       b.IsSync,
		MoleculeSort: b.MoleculeSort,
		Page:         b.Page,
		PerPage:      b.PerPage,
		IsPublic:     b.IsPublic,
		ViewerID:     viewerID,
	})
}

func (s *SelectionRequest) toParams() selection.Params {
	clauses := make([]selection.RawClause, len(s.AdvancedParams))
	for i, p := range s.AdvancedParams {
		clauses[i] = selection.RawClause{
			Link:  p.Link,
			Match: p.Match,
			Field: selection.Field{
				Table:  p.Field.Table,
				Column: p.Field.Column,
				ExtKey: p.Field.ExtKey,
				Opt:    p.Field.Opt,
			},
			Value: p.Value,
		}
	}

	return selection.Params{
		ElementType:     s.ElementType,
		Method:          s.SearchByMethod,
		Name:            s.Name,
		Molfile:         s.Molfile,
		SearchType:      s.SearchType,
		Threshold:       s.TanimotoThreshold,
		PageSize:        s.PageSize,
		StructureSearch: s.StructureSearch,
		Clauses:         clauses,
		Generic: selection.GenericQuery{
			KlassName:  s.GenericElName,
			Name:       s.SearchName,
			ShortLabel: s.SearchShowLabel,
			Layers:     s.SearchProperties.layers(),
		},
	}
}

func (p *SearchProperties) layers() map[string][]selection.PropertyField {
	if p == nil || len(p.Layers) == 0 {
		return nil
	}
	out := make(map[string][]selection.PropertyField, len(p.Layers))
	for key, layer := range p.Layers {
		fields := make([]selection.PropertyField, len(layer.Fields))
		for i, f := range layer.Fields {
			subs := make([]selection.SubField, len(f.SubFields))
			for k, sf := range f.SubFields {
				subs[k] = selection.SubField{ID: sf.ID, Value: sf.Value}
			}
			fields[i] = selection.PropertyField{Field: f.Field, Type: f.Type, Value: f.Value, SubFields: subs}
		}
		out[key] = fields
	}
	return out
}

// selectionMessage renders a validation failure for the client.
func selectionMessage(err error) string {
	var se *domain.SelectionError
	if errors.As(err, &se) {
		return se.Field + ": " + se.Reason
	}
	return domain.ErrInvalidSelection.Error()
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
