package pubcode

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		prefix Prefix
		id     int64
	}{
		{"CRS-123", true, Sample, 123},
		{"CRR-5", true, Reaction, 5},
		{"CRD-77", true, Derived, 77},
		{"CRX-5", false, "", 0},
		{"CRS-5-1", false, "", 0},
		{"xCRS-5", false, "", 0},
		{"CRS-", false, "", 0},
		{"CRS-0", false, "", 0},
		{"", false, "", 0},
	}
	for _, tc := range tests {
		c, ok := Parse(tc.in)
		if ok != tc.ok {
			t.Errorf("Parse(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (c.Prefix != tc.prefix || c.ID != tc.id) {
			t.Errorf("Parse(%q) = %+v", tc.in, c)
		}
	}
}

func TestMentions(t *testing.T) {
	if !Mentions("see CRR-12 for details") {
		t.Error("expected mention")
	}
	if Mentions("CRX-12") {
		t.Error("CRX is not a publication prefix")
	}
}

func TestString(t *testing.T) {
	if got := (Code{Prefix: Sample, ID: 9}).String(); got != "CRS-9" {
		t.Errorf("String() = %q", got)
	}
}
