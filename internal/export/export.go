// Package export serializes classified papers into tabular form. Only
// papers with at least one non-academic author are exported.
package export

import (
	"sort"
	"strings"

	"github.com/jameela786/pubmed-papers/internal/model"
)

// Columns is the fixed header of the tabular output.
var Columns = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// Filter returns the papers with at least one non-academic author,
// preserving order.
func Filter(papers []model.Paper) []model.Paper {
	var out []model.Paper
	for _, p := range papers {
		if len(p.NonAcademicAuthors()) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Row flattens one paper into the fixed column set.
func Row(p model.Paper) []string {
	var names []string
	for _, a := range p.NonAcademicAuthors() {
		if name := a.DisplayName(); name != "" {
			names = append(names, name)
		}
	}

	date := ""
	if p.PublicationDate != nil {
		date = p.PublicationDate.Format("2006-01-02")
	}

	return []string{
		p.PubmedID,
		p.Title,
		date,
		strings.Join(names, "; "),
		strings.Join(p.CompanyAffiliations(), "; "),
		p.CorrespondingAuthorEmail(),
	}
}

// Stats summarizes an export over the full retrieved set.
type Stats struct {
	TotalPapers             int      `json:"total_papers_retrieved"`
	PapersWithPharmaAuthors int      `json:"papers_with_pharma_authors"`
	UniqueCompanies         int      `json:"unique_companies"`
	UniqueNonAcademic       int      `json:"unique_non_academic_authors"`
	Companies               []string `json:"companies"`
	FilterRate              float64  `json:"filter_rate"`
}

// ComputeStats derives export statistics from all retrieved papers.
func ComputeStats(papers []model.Paper) Stats {
	filtered := Filter(papers)

	companies := make(map[string]struct{})
	authors := make(map[string]struct{})
	for _, p := range filtered {
		for _, c := range p.CompanyAffiliations() {
			companies[c] = struct{}{}
		}
		for _, a := range p.NonAcademicAuthors() {
			name := strings.TrimSpace(a.FirstName + " " + a.LastName)
			authors[name] = struct{}{}
		}
	}

	stats := Stats{
		TotalPapers:             len(papers),
		PapersWithPharmaAuthors: len(filtered),
		UniqueCompanies:         len(companies),
		UniqueNonAcademic:       len(authors),
	}
	for c := range companies {
		stats.Companies = append(stats.Companies, c)
	}
	sort.Strings(stats.Companies)
	if len(papers) > 0 {
		stats.FilterRate = float64(len(filtered)) / float64(len(papers))
	}
	return stats
}
