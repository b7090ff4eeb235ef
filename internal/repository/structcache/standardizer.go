package structcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/db"
	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
)

var cacheKeyPrefix = domain.KeyPrefix + "structure:"

const fingerprintBytes = fingerprint.Words * 8

// store is the consumer interface for the structure cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedStandardizer caches standardized structures in a key-value store.
type CachedStandardizer struct {
	inner      domain.Standardizer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Standardizer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedStandardizer {
	return &CachedStandardizer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Standardize returns a cached result or calls the inner standardizer.
// Cache failures never fail the call.
func (c *CachedStandardizer) Standardize(ctx context.Context, molfile string) (domain.Standardized, error) {
	key := c.cacheKey(molfile)

	if s, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return s, nil
	}

	c.incCache("miss")

	s, err := c.inner.Standardize(ctx, molfile)
	if err != nil {
		return domain.Standardized{}, fmt.Errorf("standardize structure: %w", err)
	}

	c.putToCache(ctx, key, s)
	return s, nil
}

func (c *CachedStandardizer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedStandardizer) cacheKey(molfile string) string {
	h := sha256.Sum256([]byte(molfile))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedStandardizer) getFromCache(ctx context.Context, key string) (domain.Standardized, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached structure", zap.String("key", key), zap.Error(err))
		}
		return domain.Standardized{}, false
	}
	if len(data) == 0 {
		return domain.Standardized{}, false
	}

	s, err := decode(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached structure", zap.String("key", key), zap.Error(err))
		return domain.Standardized{}, false
	}
	return s, true
}

func (c *CachedStandardizer) putToCache(ctx context.Context, key string, s domain.Standardized) {
	if err := c.store.SetWithTTL(ctx, key, encode(s), c.ttl); err != nil {
		c.logger.Warn("Failed to cache structure", zap.String("key", key), zap.Error(err))
	}
}

// encode writes the fingerprint words little endian followed by the molfile.
func encode(s domain.Standardized) []byte {
	buf := make([]byte, fingerprintBytes+len(s.Molfile))
	for i, w := range s.Fingerprint {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	copy(buf[fingerprintBytes:], s.Molfile)
	return buf
}

func decode(data []byte) (domain.Standardized, error) {
	if len(data) < fingerprintBytes {
		return domain.Standardized{}, fmt.Errorf("invalid structure cache data: len=%d", len(data))
	}
	var s domain.Standardized
	for i := range s.Fingerprint {
		s.Fingerprint[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	s.Molfile = string(data[fingerprintBytes:])
	return s, nil
}
