package domain

import (
	"context"

	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
)

// KeyPrefix namespaces every key this service writes to the key-value store.
const KeyPrefix = "chemsearch:"

// Standardized is a canonical structure and its fingerprint.
type Standardized struct {
	Molfile     string
	Fingerprint fingerprint.Fingerprint
}

// Standardizer canonicalizes a structure description.
type Standardizer interface {
	Standardize(ctx context.Context, molfile string) (Standardized, error)
}
