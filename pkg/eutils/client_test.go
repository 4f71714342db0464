package eutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameela786/pubmed-papers/internal/resilience"
)

const searchResponseXML = `<?xml version="1.0"?>
<eSearchResult>
  <Count>42</Count>
  <QueryKey>1</QueryKey>
  <WebEnv>MCID_test</WebEnv>
  <IdList><Id>11</Id><Id>22</Id></IdList>
</eSearchResult>`

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestSearch(t *testing.T) {
	var gotURL atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		w.Write([]byte(searchResponseXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Identity{Tool: "test-tool", Email: "a@b.org"},
		WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	result, err := c.Search(context.Background(), "crispr therapeutics", 100)
	require.NoError(t, err)

	assert.Equal(t, "crispr therapeutics", result.Query)
	assert.Equal(t, 42, result.TotalResults)
	assert.Equal(t, []string{"11", "22"}, result.PubmedIDs)
	assert.Equal(t, "MCID_test", result.WebEnv)
	assert.Equal(t, "1", result.QueryKey)

	url, _ := gotURL.Load().(string)
	assert.Contains(t, url, "esearch.fcgi")
	assert.Contains(t, url, "usehistory=y")
}

func TestGet_RetriesOn500(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(searchResponseXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Identity{}, WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	result, err := c.Search(context.Background(), "q", 10)
	require.NoError(t, err)
	assert.Equal(t, 42, result.TotalResults)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Identity{}, WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	_, err := c.Search(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_NoRetryOn404(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Identity{}, WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	_, err := c.Search(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchByIDs(t *testing.T) {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet,
		`=~^https://eutils\.ncbi\.nlm\.nih\.gov/entrez/eutils/efetch\.fcgi`,
		httpmock.NewStringResponder(http.StatusOK, minimalArticleXML))

	c := NewClient(Identity{Tool: "t"}, WithHTTPClient(hc), WithRetryConfig(fastRetry()))

	papers, err := c.FetchByIDs(context.Background(), []string{"12345678"})
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "12345678", papers[0].PubmedID)
}

func TestFetchBatch(t *testing.T) {
	var gotURL atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL.Store(r.URL.String())
		w.Write([]byte(minimalArticleXML)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Identity{}, WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	papers, err := c.FetchBatch(context.Background(), "MCID_test", "1", 200, 100)
	require.NoError(t, err)
	require.Len(t, papers, 1)

	url, _ := gotURL.Load().(string)
	assert.Contains(t, url, "WebEnv=MCID_test")
	assert.Contains(t, url, "retstart=200")
	assert.Contains(t, url, "retmax=100")
}

func TestRateLimiting_MinimumInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchResponseXML)) //nolint:errcheck
	}))
	defer srv.Close()

	// No API key: 3 requests per second, so 3 requests need >= 2/3s.
	c := NewClient(Identity{}, WithBaseURL(srv.URL), WithRetryConfig(fastRetry()))

	start := time.Now()
	for range 3 {
		_, err := c.Search(context.Background(), "q", 1)
		require.NoError(t, err)
	}
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 600*time.Millisecond,
		"three throttled requests finished too quickly: %v", elapsed)
}

func TestNewClient_KeyedRate(t *testing.T) {
	c := NewClient(Identity{APIKey: "k"}).(*httpClient)
	assert.InDelta(t, float64(keyedRequestsPerSecond), float64(c.limiter.Limit()), 0.001)

	c = NewClient(Identity{}).(*httpClient)
	assert.InDelta(t, float64(defaultRequestsPerSecond), float64(c.limiter.Limit()), 0.001)
}
