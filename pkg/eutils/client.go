// Package eutils provides a rate-limited client for the NCBI E-utilities
// API (esearch/efetch against the pubmed database).
package eutils

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jameela786/pubmed-papers/internal/model"
	"github.com/jameela786/pubmed-papers/internal/resilience"
)

// NCBI allows 3 requests per second without an API key and 10 with one.
const (
	defaultRequestsPerSecond = 3
	keyedRequestsPerSecond   = 10
)

// Client defines the E-utilities operations used by the retrieval layer.
type Client interface {
	// Search submits a query and returns the server-reported count, the
	// retrieved PMIDs, and the history session handle when one was issued.
	Search(ctx context.Context, query string, maxResults int) (model.SearchResult, error)
	// FetchByIDs retrieves full records for an explicit PMID list in one call.
	FetchByIDs(ctx context.Context, pmids []string) ([]model.Paper, error)
	// FetchBatch retrieves one page of records from a history session.
	FetchBatch(ctx context.Context, webEnv, queryKey string, retstart, retmax int) ([]model.Paper, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithRetryConfig overrides the retry behavior (for testing).
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL string
	id      Identity
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates an E-utilities client. Supplying an API key raises the
// request rate from 3/s to 10/s, per NCBI policy.
func NewClient(id Identity, opts ...Option) Client {
	rps := rate.Limit(defaultRequestsPerSecond)
	if id.APIKey != "" {
		rps = keyedRequestsPerSecond
	}
	if id.Tool == "" {
		id.Tool = "get-papers-list"
	}
	c := &httpClient{
		baseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		id:      id,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// Burst 1 enforces the full 1/rps interval between requests.
		limiter: rate.NewLimiter(rps, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a throttled GET with retry on transient failures. The
// limiter is waited on inside the retry loop so backoff sleeps never bypass
// the request-rate budget.
func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	cfg := c.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.RetryLogger("eutils", "get")
	}

	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "eutils: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrap(err, "eutils: create request")
		}
		req.Header.Set("User-Agent", c.userAgent())

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, resilience.NewTransientError(err, 0)
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, resilience.NewTransientError(eris.Wrap(err, "eutils: read body"), resp.StatusCode)
		}

		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("eutils: status %d from %s", resp.StatusCode, reqURL), resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("eutils: unexpected status %d from %s", resp.StatusCode, reqURL)
		}

		return data, nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "eutils: request failed after %d attempts", cfg.MaxAttempts)
	}
	return body, nil
}

func (c *httpClient) userAgent() string {
	email := c.id.Email
	if email == "" {
		email = "unknown@example.com"
	}
	return c.id.Tool + "/1.0 (mailto:" + email + ")"
}

func (c *httpClient) Search(ctx context.Context, query string, maxResults int) (model.SearchResult, error) {
	reqURL := SearchURL(c.baseURL, c.id, query, maxResults, 0)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return model.SearchResult{}, eris.Wrap(err, "eutils: search")
	}

	result, err := parseSearchResult(body)
	if err != nil {
		return model.SearchResult{}, eris.Wrap(err, "eutils: search")
	}
	result.Query = query

	zap.L().Info("search complete",
		zap.String("query", query),
		zap.Int("total_results", result.TotalResults),
		zap.Int("ids_retrieved", len(result.PubmedIDs)),
	)
	return result, nil
}

func (c *httpClient) FetchByIDs(ctx context.Context, pmids []string) ([]model.Paper, error) {
	reqURL := FetchByIDsURL(c.baseURL, c.id, pmids)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "eutils: fetch by ids")
	}
	return ParsePapers(body), nil
}

func (c *httpClient) FetchBatch(ctx context.Context, webEnv, queryKey string, retstart, retmax int) ([]model.Paper, error) {
	reqURL := FetchHistoryURL(c.baseURL, c.id, webEnv, queryKey, retmax, retstart)

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, eris.Wrap(err, "eutils: fetch batch")
	}
	return ParsePapers(body), nil
}
