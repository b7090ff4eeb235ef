package xref

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/chemsearch/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "xvial:"

// store is the consumer interface for compound registry counts (ISP).
type store interface {
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}

// Store reads compound registry vial counts keyed by InChIKey.
// The registry sync job writes chemsearch:xvial:{inchikey} = count.
type Store struct {
	store store
}

// New creates a compound registry store.
func New(s store) *Store {
	return &Store{store: s}
}

// Counts returns the registry count per InChIKey in one round trip.
// Keys without an entry count 0; blank InChIKeys are skipped.
func (s *Store) Counts(ctx context.Context, inchikeys []string) (map[string]int64, error) {
	keys := make([]string, 0, len(inchikeys))
	wanted := make([]string, 0, len(inchikeys))
	seen := make(map[string]struct{}, len(inchikeys))
	for _, ik := range inchikeys {
		if ik == "" {
			continue
		}
		if _, dup := seen[ik]; dup {
			continue
		}
		seen[ik] = struct{}{}
		keys = append(keys, keyPrefix+ik)
		wanted = append(wanted, ik)
	}
	out := make(map[string]int64, len(wanted))
	if len(keys) == 0 {
		return out, nil
	}

	values, err := s.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("xvial MGET: %w", err)
	}
	for i, ik := range wanted {
		if i >= len(values) || values[i] == nil {
			out[ik] = 0
			continue
		}
		n, err := strconv.ParseInt(string(values[i]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("xvial %s parse: %w", ik, err)
		}
		out[ik] = n
	}
	return out, nil
}
