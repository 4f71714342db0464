package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jameela786/pubmed-papers/internal/classifier"
	"github.com/jameela786/pubmed-papers/internal/export"
	"github.com/jameela786/pubmed-papers/internal/retrieval"
	"github.com/jameela786/pubmed-papers/pkg/eutils"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for search requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		vocab, err := loadVocab()
		if err != nil {
			return err
		}

		client := eutils.NewClient(
			eutils.Identity{Tool: cfg.PubMed.Tool, Email: cfg.PubMed.Email, APIKey: cfg.PubMed.APIKey},
			eutils.WithBaseURL(cfg.PubMed.BaseURL),
			eutils.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		)
		ret := retrieval.New(client, retrieval.WithBatchSize(cfg.Fetch.BatchSize))
		cls := classifier.New(vocab)

		mux := newServeMux(ret, cls, cfg.Fetch.MaxResults)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newServeMux(ret *retrieval.Retriever, cls *classifier.Classifier, defaultMax int) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query      string `json:"query"`
			MaxResults int    `json:"max_results"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Query == "" {
			http.Error(w, `{"error":"query is required"}`, http.StatusBadRequest)
			return
		}

		maxResults := req.MaxResults
		if maxResults <= 0 {
			maxResults = defaultMax
		}

		resp := ret.SearchAndFetch(r.Context(), req.Query, maxResults)
		if !resp.Success {
			zap.L().Error("search request failed",
				zap.String("query", req.Query),
				zap.String("error", resp.ErrorMessage),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": resp.ErrorMessage})
			return
		}

		papers := cls.ClassifyPapers(resp.Papers)
		filtered := export.Filter(papers)

		zap.L().Info("search request complete",
			zap.String("query", req.Query),
			zap.Int("retrieved", resp.RetrievedCount),
			zap.Int("exported", len(filtered)),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"query":         req.Query,
			"total_results": resp.TotalCount,
			"retrieved":     resp.RetrievedCount,
			"papers":        filtered,
		})
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
