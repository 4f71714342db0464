// Package retrieval composes search and paginated fetch against the
// E-utilities client into a single best-effort operation.
package retrieval

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jameela786/pubmed-papers/internal/model"
	"github.com/jameela786/pubmed-papers/pkg/eutils"
)

// smallSetThreshold is the largest result set fetched by explicit PMID list.
// The history server is unreliable for tiny result sets (the session handle
// may not be indexed yet when the fetch arrives), and a single direct
// request is cheaper anyway.
const smallSetThreshold = 50

// defaultBatchSize is the page size for history-based fetches.
const defaultBatchSize = 100

// ErrMissingSession indicates a large result set whose search response
// carried no usable WebEnv/QueryKey pair.
var ErrMissingSession = eris.New("retrieval: search result missing WebEnv/query_key session handle")

// Retriever orchestrates search-and-fetch operations.
type Retriever struct {
	client    eutils.Client
	batchSize int
}

// Option configures the Retriever.
type Option func(*Retriever)

// WithBatchSize overrides the history-fetch page size (default 100).
func WithBatchSize(n int) Option {
	return func(r *Retriever) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// New creates a Retriever on top of the given client.
func New(client eutils.Client, opts ...Option) *Retriever {
	r := &Retriever{
		client:    client,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search submits the query requesting history retention. Failures are
// downgraded to an empty zero-count result so that callers always receive a
// usable value; the degraded state is visible as TotalResults == 0.
func (r *Retriever) Search(ctx context.Context, query string, maxResults int) model.SearchResult {
	result, err := r.client.Search(ctx, query, maxResults)
	if err != nil {
		zap.L().Error("search failed, returning empty result",
			zap.String("query", query),
			zap.Error(err),
		)
		return model.SearchResult{Query: query}
	}
	return result
}

// SearchAndFetch runs the full retrieval: search, cap enforcement, strategy
// selection, and batched fetch.
func (r *Retriever) SearchAndFetch(ctx context.Context, query string, maxResults int) model.RetrievalResponse {
	search := r.Search(ctx, query, maxResults)

	if search.TotalResults == 0 {
		return model.RetrievalResponse{Success: true}
	}

	// Enforce the client-requested cap on what gets fetched. TotalResults
	// stays as reported by the server.
	if len(search.PubmedIDs) > maxResults {
		zap.L().Info("limiting fetch to requested maximum",
			zap.Int("available", len(search.PubmedIDs)),
			zap.Int("max_results", maxResults),
		)
		search.PubmedIDs = search.PubmedIDs[:maxResults]
	}

	return r.fetch(ctx, search)
}

// fetch retrieves full records for the IDs in search, choosing the fetch
// strategy by result-set size.
func (r *Retriever) fetch(ctx context.Context, search model.SearchResult) model.RetrievalResponse {
	total := len(search.PubmedIDs)
	if total == 0 {
		return model.RetrievalResponse{Success: true}
	}

	zap.L().Info("fetching papers",
		zap.Int("count", total),
		zap.Int("batch_size", r.batchSize),
	)

	if total <= smallSetThreshold {
		return r.fetchDirect(ctx, search.PubmedIDs)
	}
	return r.fetchBatched(ctx, search)
}

// fetchDirect pulls every record in one request by explicit PMID list.
func (r *Retriever) fetchDirect(ctx context.Context, pmids []string) model.RetrievalResponse {
	papers, err := r.client.FetchByIDs(ctx, pmids)
	if err != nil {
		zap.L().Error("direct fetch failed", zap.Error(err))
		return model.RetrievalResponse{
			Success:      false,
			ErrorMessage: fmt.Sprintf("failed to fetch papers: %v", err),
			TotalCount:   len(pmids),
		}
	}
	return model.RetrievalResponse{
		Success:        true,
		Papers:         papers,
		TotalCount:     len(pmids),
		RetrievedCount: len(papers),
	}
}

// fetchBatched pages through the history session. A failed batch is logged
// and skipped; its records are simply absent from the aggregate.
func (r *Retriever) fetchBatched(ctx context.Context, search model.SearchResult) model.RetrievalResponse {
	total := len(search.PubmedIDs)

	if !search.HasSession() {
		return model.RetrievalResponse{
			Success:      false,
			ErrorMessage: ErrMissingSession.Error(),
			TotalCount:   total,
		}
	}

	var papers []model.Paper
	for start := 0; start < total; start += r.batchSize {
		size := min(r.batchSize, total-start)

		batch, err := r.client.FetchBatch(ctx, search.WebEnv, search.QueryKey, start, size)
		if err != nil {
			zap.L().Error("batch fetch failed, skipping batch",
				zap.Int("retstart", start),
				zap.Int("retmax", size),
				zap.Error(err),
			)
			continue
		}

		zap.L().Debug("batch fetched",
			zap.Int("retstart", start),
			zap.Int("papers", len(batch)),
		)
		papers = append(papers, batch...)
	}

	return model.RetrievalResponse{
		Success:        true,
		Papers:         papers,
		TotalCount:     total,
		RetrievedCount: len(papers),
	}
}
