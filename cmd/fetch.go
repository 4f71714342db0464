package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jameela786/pubmed-papers/internal/classifier"
	"github.com/jameela786/pubmed-papers/internal/export"
	"github.com/jameela786/pubmed-papers/internal/model"
	"github.com/jameela786/pubmed-papers/internal/retrieval"
	"github.com/jameela786/pubmed-papers/internal/store"
	"github.com/jameela786/pubmed-papers/pkg/eutils"
)

var (
	fetchFile       string
	fetchMaxResults int
	fetchEmail      string
	fetchAPIKey     string
	fetchBatchSize  int
	fetchVocab      string
	fetchStats      bool
	fetchSave       bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <query>",
	Short: "Search PubMed and export papers with industry authors",
	Long:  "Runs a PubMed search, fetches the matching records, flags non-academic authors by affiliation, and writes the filtered papers as CSV (or XLSX when the filename ends in .xlsx).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		email := fetchEmail
		if email == "" {
			email = cfg.PubMed.Email
		}
		apiKey := fetchAPIKey
		if apiKey == "" {
			apiKey = cfg.PubMed.APIKey
		}
		maxResults := fetchMaxResults
		if maxResults <= 0 {
			maxResults = cfg.Fetch.MaxResults
		}
		batchSize := fetchBatchSize
		if batchSize <= 0 {
			batchSize = cfg.Fetch.BatchSize
		}

		vocab, err := loadVocab()
		if err != nil {
			return err
		}

		client := eutils.NewClient(
			eutils.Identity{Tool: cfg.PubMed.Tool, Email: email, APIKey: apiKey},
			eutils.WithBaseURL(cfg.PubMed.BaseURL),
			eutils.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		)
		ret := retrieval.New(client, retrieval.WithBatchSize(batchSize))

		var st store.Store
		var runID string
		if fetchSave {
			st, err = initStore()
			if err != nil {
				return eris.Wrap(err, "fetch: open store")
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "fetch: migrate store")
			}

			run, err := st.CreateRun(ctx, query)
			if err != nil {
				return eris.Wrap(err, "fetch: create run")
			}
			runID = run.ID
		}

		resp := ret.SearchAndFetch(ctx, query, maxResults)
		if !resp.Success {
			if st != nil {
				_ = st.FailRun(ctx, runID, resp.ErrorMessage)
			}
			return eris.Errorf("fetch: %s", resp.ErrorMessage)
		}

		cls := classifier.New(vocab)
		papers := cls.ClassifyPapers(resp.Papers)
		stats := export.ComputeStats(papers)

		zap.L().Info("retrieval complete",
			zap.Int("total_results", resp.TotalCount),
			zap.Int("retrieved", resp.RetrievedCount),
			zap.Int("exported", stats.PapersWithPharmaAuthors),
		)

		if st != nil {
			if err := st.SavePapers(ctx, runID, papers); err != nil {
				return eris.Wrap(err, "fetch: save papers")
			}
			result := &model.RunResult{
				TotalResults:     resp.TotalCount,
				PapersRetrieved:  resp.RetrievedCount,
				PapersExported:   stats.PapersWithPharmaAuthors,
				NonAcademicCount: stats.UniqueNonAcademic,
				UniqueCompanies:  stats.Companies,
			}
			if err := st.CompleteRun(ctx, runID, result); err != nil {
				return eris.Wrap(err, "fetch: complete run")
			}
		}

		if fetchFile != "" {
			if err := export.Save(papers, fetchFile); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Results saved to %s\n", fetchFile)
		} else {
			if err := export.WriteCSV(os.Stdout, papers); err != nil {
				return err
			}
		}

		if fetchStats {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			if err := enc.Encode(stats); err != nil {
				return eris.Wrap(err, "fetch: encode stats")
			}
		}

		return nil
	},
}

func loadVocab() (classifier.Vocabulary, error) {
	path := fetchVocab
	if path == "" {
		path = cfg.Fetch.VocabFile
	}
	if path == "" {
		return classifier.DefaultVocabulary(), nil
	}
	vocab, err := classifier.LoadVocabulary(path)
	if err != nil {
		return classifier.Vocabulary{}, eris.Wrapf(err, "fetch: load vocabulary %s", path)
	}
	return vocab, nil
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFile, "file", "f", "", "output filename (.csv or .xlsx; default stdout)")
	fetchCmd.Flags().IntVar(&fetchMaxResults, "max-results", 0, "maximum number of papers to retrieve (default from config)")
	fetchCmd.Flags().StringVar(&fetchEmail, "email", "", "contact email sent to NCBI")
	fetchCmd.Flags().StringVar(&fetchAPIKey, "api-key", "", "NCBI API key (raises rate limit to 10 req/s)")
	fetchCmd.Flags().IntVar(&fetchBatchSize, "batch-size", 0, "records per fetch batch (default from config)")
	fetchCmd.Flags().StringVar(&fetchVocab, "vocab", "", "YAML file overriding the classifier vocabulary")
	fetchCmd.Flags().BoolVar(&fetchStats, "stats", false, "print classification statistics to stderr")
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "persist the run and its papers to the history store")
	rootCmd.AddCommand(fetchCmd)
}
