package selection

import (
	"fmt"
	"sort"
)

// Property field types that keep their native JSON value.
const (
	TypeCheckbox      = "checkbox"
	TypeInteger       = "integer"
	TypeSystemDefined = "system-defined"
	TypeInputGroup    = "input-group"
)

// SubField is one part of an input-group field.
type SubField struct {
	ID    string
	Value any
}

// PropertyField is one field of a property layer filter.
type PropertyField struct {
	Field     string
	Type      string
	Value     any
	SubFields []SubField
}

// GenericQuery filters generic elements of one klass.
type GenericQuery struct {
	KlassName  string
	Name       string
	ShortLabel string
	// Layers maps a layer key to its field filters.
	Layers map[string][]PropertyField
}

// Containments returns one JSON containment document per populated field. Layers are
// visited in key order. Every document must be contained in the element properties.
func (g GenericQuery) Containments() []map[string]any {
	keys := make([]string, 0, len(g.Layers))
	for k := range g.Layers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []map[string]any
	for _, lk := range keys {
		for _, f := range g.Layers[lk] {
			entry, ok := fieldEntry(f)
			if !ok {
				continue
			}
			out = append(out, map[string]any{
				lk: map[string]any{"fields": []any{entry}},
			})
		}
	}
	return out
}

func fieldEntry(f PropertyField) (map[string]any, bool) {
	switch f.Type {
	case TypeInputGroup:
		var subs []any
		for _, sf := range f.SubFields {
			if !isPresent(sf.Value) {
				continue
			}
			subs = append(subs, map[string]any{"id": sf.ID, "value": sf.Value})
		}
		if len(subs) == 0 {
			return nil, false
		}
		return map[string]any{"field": f.Field, "sub_fields": subs}, true
	case TypeCheckbox, TypeInteger, TypeSystemDefined:
		if !isPresent(f.Value) {
			return nil, false
		}
		return map[string]any{"field": f.Field, "value": f.Value}, true
	default:
		if !isPresent(f.Value) {
			return nil, false
		}
		return map[string]any{"field": f.Field, "value": fmt.Sprint(f.Value)}, true
	}
}

// isPresent treats nil, false, blank strings and empty collections as absent.
func isPresent(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		for _, r := range x {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return true
			}
		}
		return false
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	}
	return true
}
