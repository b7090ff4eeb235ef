package page

import (
	"reflect"
	"testing"
)

func seq(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestWindow(t *testing.T) {
	ids := seq(15)
	tests := []struct {
		page, perPage int
		want          []int64
	}{
		{1, 7, []int64{1, 2, 3, 4, 5, 6, 7}},
		{2, 7, []int64{8, 9, 10, 11, 12, 13, 14}},
		{3, 7, []int64{15}},
		{4, 7, nil},
		{0, 7, []int64{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tc := range tests {
		if got := Window(ids, tc.page, tc.perPage); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Window(page=%d) = %v, want %v", tc.page, got, tc.want)
		}
	}
}

func TestPages(t *testing.T) {
	if got := Pages(15, 7); got != 3 {
		t.Errorf("Pages(15, 7) = %d", got)
	}
	if got := Pages(14, 7); got != 2 {
		t.Errorf("Pages(14, 7) = %d", got)
	}
	if got := Pages(0, 7); got != 0 {
		t.Errorf("Pages(0, 7) = %d", got)
	}
}
