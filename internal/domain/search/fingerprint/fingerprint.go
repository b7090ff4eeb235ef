// Package fingerprint implements 1024 bit structure fingerprints and their comparison.
package fingerprint

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strconv"
)

// Words is the number of 64 bit words of a fingerprint.
const Words = 16

// Fingerprint is a 1024 bit structure fingerprint.
type Fingerprint [Words]uint64

// ParseHex reads a fingerprint from its 16 hex encoded words.
func ParseHex(words []string) (Fingerprint, error) {
	var fp Fingerprint
	if len(words) != Words {
		return fp, fmt.Errorf("fingerprint has %d words, want %d", len(words), Words)
	}
	for i, w := range words {
		v, err := strconv.ParseUint(w, 16, 64)
		if err != nil {
			return fp, fmt.Errorf("fingerprint word %d: %w", i, err)
		}
		fp[i] = v
	}
	return fp, nil
}

// Bits returns the number of set bits.
func (f Fingerprint) Bits() int {
	n := 0
	for _, w := range f {
		n += bits.OnesCount64(w)
	}
	return n
}

// Tanimoto returns |a∧b| / |a∨b|. Two empty fingerprints score 0.
func Tanimoto(a, b Fingerprint) float64 {
	var and, or int
	for i := range a {
		and += bits.OnesCount64(a[i] & b[i])
		or += bits.OnesCount64(a[i] | b[i])
	}
	if or == 0 {
		return 0
	}
	return float64(and) / float64(or)
}

// Contains reports whether every bit of sub is set in super, the screening condition for
// a substructure match.
func Contains(super, sub Fingerprint) bool {
	for i := range super {
		if super[i]&sub[i] != sub[i] {
			return false
		}
	}
	return true
}

// Window returns the bit count range a candidate needs to possibly reach threshold
// against a query with n set bits. The bounds are widened by windowSlack so candidates
// scoring exactly threshold stay inside despite float rounding.
func Window(n int, threshold float64) (lo, hi int) {
	if threshold <= 0 {
		return 0, Words * 64
	}
	lo = int(math.Ceil(float64(n)*threshold - windowSlack))
	hi = int(math.Floor(float64(n)/threshold + windowSlack))
	if lo < 0 {
		lo = 0
	}
	if hi > Words*64 {
		hi = Words * 64
	}
	return lo, hi
}

const windowSlack = 1e-9

// Candidate is a stored fingerprint of a sample.
type Candidate struct {
	SampleID    int64
	Fingerprint Fingerprint
}

// Scored is a candidate with its similarity to the query.
type Scored struct {
	SampleID int64
	Score    float64
}

// Similar keeps candidates scoring at least threshold, best first. Ties keep ascending
// sample id.
func Similar(q Fingerprint, candidates []Candidate, threshold float64) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		s := Tanimoto(q, c.Fingerprint)
		if s >= threshold {
			out = append(out, Scored{SampleID: c.SampleID, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].SampleID < out[j].SampleID
	})
	return out
}

// Substructure keeps candidates whose fingerprint contains the query, in candidate order.
func Substructure(q Fingerprint, candidates []Candidate) []int64 {
	var out []int64
	for _, c := range candidates {
		if Contains(c.Fingerprint, q) {
			out = append(out, c.SampleID)
		}
	}
	return out
}
