package result

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

type item struct {
	ID int64 `json:"id"`
}

func TestNewBucket(t *testing.T) {
	ids := make([]int64, 15)
	for i := range ids {
		ids[i] = int64(100 - i)
	}
	b := NewBucket([]any{item{ID: 93}}, ids, 2, 7)
	if b.TotalElements() != 15 || b.Pages() != 3 || b.Page() != 2 || b.PerPage() != 7 {
		t.Errorf("bucket = %+v", b)
	}
}

func TestNewBucket_Empty(t *testing.T) {
	data, err := json.Marshal(NewBucket(nil, nil, 1, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"elements":[],"totalElements":0,"page":1,"pages":0,"perPage":7,"ids":[]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestPublicBucket_JSON(t *testing.T) {
	data, err := json.Marshal(NewPublicBucket("molecules", []any{item{ID: 4}}, []int64{4}, 1, 7))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"molecules":[{"id":4}],"totalElements":1,"page":1,"perPage":7,"ids":[4]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestEnvelope_KeyOrder(t *testing.T) {
	e := NewEnvelope()
	for _, k := range []string{"samples", "reactions", "wellplates", "screens", "Cells"} {
		e.Set(k, NewBucket(nil, nil, 1, 7))
	}
	e.Set("reactions", NewBucket(nil, []int64{1}, 1, 7))

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	last := -1
	for _, k := range e.Keys() {
		at := strings.Index(s, `"`+k+`":`)
		if at <= last {
			t.Fatalf("key %q out of order in %s", k, s)
		}
		last = at
	}
	if b, _ := e.Get("reactions"); b.TotalElements() != 1 {
		t.Error("Set must replace an existing bucket")
	}
}

func TestEnvelope_RoundTripPreservesIDOrder(t *testing.T) {
	ids := []int64{42, 7, 19, 3}
	els := make([]any, len(ids))
	for i, id := range ids {
		els[i] = item{ID: id}
	}
	e := NewEnvelope()
	e.Set("samples", NewBucket(els, ids, 1, 7))

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]struct {
		Elements []item `json:"elements"`
		IDs      []int64 `json:"ids"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	got := decoded["samples"]
	if !reflect.DeepEqual(got.IDs, ids) {
		t.Errorf("ids = %v, want %v", got.IDs, ids)
	}
	for i, el := range got.Elements {
		if el.ID != got.IDs[i] {
			t.Errorf("element %d id = %d, ids[%d] = %d", i, el.ID, i, got.IDs[i])
		}
	}
}

func TestBucket_GettersOnReturnedValue(t *testing.T) {
	env := NewEnvelope()
	env.Set("samples", NewBucket([]any{1}, []int64{4, 5}, 1, 1))
	get := func() Bucket {
		b, _ := env.Get("samples")
		return b
	}
	if got := get().IDs(); !reflect.DeepEqual(got, []int64{4, 5}) {
		t.Errorf("IDs() = %v", got)
	}
	if get().Pages() != 2 || get().TotalElements() != 2 {
		t.Errorf("pages = %d total = %d", get().Pages(), get().TotalElements())
	}
}
