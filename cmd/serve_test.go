package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameela786/pubmed-papers/internal/classifier"
	"github.com/jameela786/pubmed-papers/internal/model"
	"github.com/jameela786/pubmed-papers/internal/retrieval"
)

type fakeEutilsClient struct {
	searchErr error
	fetchErr  error
	result    model.SearchResult
	papers    []model.Paper
}

func (f *fakeEutilsClient) Search(_ context.Context, query string, _ int) (model.SearchResult, error) {
	if f.searchErr != nil {
		return model.SearchResult{}, f.searchErr
	}
	r := f.result
	r.Query = query
	return r, nil
}

func (f *fakeEutilsClient) FetchByIDs(_ context.Context, _ []string) ([]model.Paper, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.papers, nil
}

func (f *fakeEutilsClient) FetchBatch(_ context.Context, _, _ string, _, _ int) ([]model.Paper, error) {
	return f.papers, nil
}

func newTestMux(fake *fakeEutilsClient) *http.ServeMux {
	ret := retrieval.New(fake)
	cls := classifier.NewDefault()
	return newServeMux(ret, cls, 100)
}

func TestServe_Health(t *testing.T) {
	mux := newTestMux(&fakeEutilsClient{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServe_Search_InvalidBody(t *testing.T) {
	mux := newTestMux(&fakeEutilsClient{})

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_Search_MissingQuery(t *testing.T) {
	mux := newTestMux(&fakeEutilsClient{})

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"max_results":5}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")
}

func TestServe_Search_FiltersToIndustryPapers(t *testing.T) {
	fake := &fakeEutilsClient{
		result: model.SearchResult{TotalResults: 2, PubmedIDs: []string{"1", "2"}},
		papers: []model.Paper{
			{
				PubmedID: "1",
				Title:    "Industry paper",
				Authors: []model.Author{
					{FirstName: "Alice", LastName: "Chen", Affiliation: "Pfizer Inc, New York, NY"},
				},
			},
			{
				PubmedID: "2",
				Title:    "Academic paper",
				Authors: []model.Author{
					{FirstName: "Bob", LastName: "Smith", Affiliation: "Harvard University, Boston"},
				},
			},
		},
	}
	mux := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query":"cancer","max_results":10}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query        string        `json:"query"`
		TotalResults int           `json:"total_results"`
		Retrieved    int           `json:"retrieved"`
		Papers       []model.Paper `json:"papers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "cancer", body.Query)
	assert.Equal(t, 2, body.TotalResults)
	assert.Equal(t, 2, body.Retrieved)
	require.Len(t, body.Papers, 1)
	assert.Equal(t, "1", body.Papers[0].PubmedID)
}

func TestServe_Search_FailedSearchIsEmpty(t *testing.T) {
	// A failed search degrades to an empty result set, not an error.
	fake := &fakeEutilsClient{searchErr: assert.AnError}
	mux := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query":"cancer"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalResults int `json:"total_results"`
		Retrieved    int `json:"retrieved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.TotalResults)
	assert.Zero(t, body.Retrieved)
}

func TestServe_Search_FetchFailure(t *testing.T) {
	fake := &fakeEutilsClient{
		result:   model.SearchResult{TotalResults: 1, PubmedIDs: []string{"1"}},
		fetchErr: assert.AnError,
	}
	mux := newTestMux(fake)

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query":"cancer"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
