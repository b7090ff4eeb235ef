// Package structure is the client of the structure standardization service.
package structure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/chemsearch/internal/domain"
	"github.com/kailas-cloud/chemsearch/internal/domain/search/fingerprint"
	"github.com/kailas-cloud/chemsearch/internal/metrics"
)

// maxErrorBody bounds how much of an error response is kept for the log.
const maxErrorBody = 1 << 10

// Client standardizes molfiles over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *zap.Logger
}

// Config holds the standardization service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a standardization service client.
func NewClient(cfg *Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

type standardizeRequest struct {
	Molfile string `json:"molfile"`
}

type standardizeResponse struct {
	Molfile     string   `json:"molfile"`
	Fingerprint []string `json:"fingerprint"`
}

// Standardize implements domain.Standardizer.
func (c *Client) Standardize(ctx context.Context, molfile string) (domain.Standardized, error) {
	body, err := json.Marshal(standardizeRequest{Molfile: molfile})
	if err != nil {
		return domain.Standardized{}, fmt.Errorf("encode request: %w", err)
	}

	start := time.Now()
	std, err := c.standardize(ctx, body)
	if err != nil {
		metrics.StructureRequestsTotal.WithLabelValues("error").Inc()
		return domain.Standardized{}, err
	}
	metrics.StructureRequestsTotal.WithLabelValues("success").Inc()
	metrics.StructureRequestDuration.Observe(time.Since(start).Seconds())
	return std, nil
}

func (c *Client) standardize(ctx context.Context, body []byte) (domain.Standardized, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/standardize", bytes.NewReader(body))
	if err != nil {
		return domain.Standardized{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Standardized{}, fmt.Errorf("standardize request failed: %w", domain.ErrStructureServiceUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Structure service error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(detail)),
		)
		return domain.Standardized{}, fmt.Errorf("structure service status %d: %w",
			resp.StatusCode, domain.ErrStructureServiceUnavailable)
	}

	var out standardizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Standardized{}, fmt.Errorf("decode response: %v: %w", err, domain.ErrStructureServiceUnavailable)
	}
	fp, err := fingerprint.ParseHex(out.Fingerprint)
	if err != nil {
		return domain.Standardized{}, fmt.Errorf("%v: %w", err, domain.ErrStructureServiceUnavailable)
	}
	return domain.Standardized{Molfile: out.Molfile, Fingerprint: fp}, nil
}

// HealthCheck probes GET {url}/health.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("structure health: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("structure health status %d", resp.StatusCode)
	}
	return nil
}
