// Package result assembles the multi-bucket search response.
package result

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/chemsearch/internal/domain/search/page"
)

// ItemsKey is the default key of a bucket's serialized elements.
const ItemsKey = "elements"

// Bucket is one paginated entity kind of the response.
type Bucket struct {
	itemsKey      string
	elements      []any
	totalElements int
	page          int
	pages         int
	perPage       int
	ids           []int64
	withPages     bool
}

// NewBucket creates a bucket over the full id list. elements are the serialized records of
// the current page, in the same order as their ids appear in the list.
func NewBucket(elements []any, ids []int64, pageNo, perPage int) Bucket {
	if elements == nil {
		elements = []any{}
	}
	if ids == nil {
		ids = []int64{}
	}
	return Bucket{
		itemsKey:      ItemsKey,
		elements:      elements,
		totalElements: len(ids),
		page:          pageNo,
		pages:         page.Pages(len(ids), perPage),
		perPage:       perPage,
		ids:           ids,
		withPages:     true,
	}
}

// NewPublicBucket creates a guest bucket: items live under itemsKey and no page count is
// reported.
func NewPublicBucket(itemsKey string, elements []any, ids []int64, pageNo, perPage int) Bucket {
	b := NewBucket(elements, ids, pageNo, perPage)
	b.itemsKey = itemsKey
	b.withPages = false
	return b
}

// Elements returns the serialized records of the current page.
func (b Bucket) Elements() []any { return b.elements }

// TotalElements returns the size of the full id list.
func (b Bucket) TotalElements() int { return b.totalElements }

// Page returns the 1-based page number.
func (b Bucket) Page() int { return b.page }

// Pages returns ceil(total / perPage).
func (b Bucket) Pages() int { return b.pages }

// PerPage returns the page size.
func (b Bucket) PerPage() int { return b.perPage }

// IDs returns the full ordered id list.
func (b Bucket) IDs() []int64 { return b.ids }

// MarshalJSON writes the bucket with a stable key order.
func (b Bucket) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	fields := []field{
		{b.itemsKey, b.elements},
		{"totalElements", b.totalElements},
		{"page", b.page},
	}
	if b.withPages {
		fields = append(fields, field{"pages", b.pages})
	}
	fields = append(fields, field{"perPage", b.perPage}, field{"ids", b.ids})
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, f.key, f.val); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type field struct {
	key string
	val any
}

// Envelope maps bucket names to buckets and keeps insertion order.
type Envelope struct {
	keys    []string
	buckets map[string]Bucket
}

// NewEnvelope creates an empty envelope.
func NewEnvelope() *Envelope {
	return &Envelope{buckets: make(map[string]Bucket)}
}

// Set adds or replaces a bucket. A new key is appended at the end.
func (e *Envelope) Set(key string, b Bucket) {
	if _, ok := e.buckets[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.buckets[key] = b
}

// Get returns the bucket stored under key.
func (e *Envelope) Get(key string) (Bucket, bool) {
	b, ok := e.buckets[key]
	return b, ok
}

// Keys returns the bucket names in insertion order.
func (e *Envelope) Keys() []string { return e.keys }

// MarshalJSON writes the buckets in insertion order.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, k, e.buckets[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, val any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("marshal key %q: %w", key, err)
	}
	v, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
