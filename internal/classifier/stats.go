package classifier

import (
	"sort"

	"github.com/jameela786/pubmed-papers/internal/model"
)

// AuthorStats summarizes the classification of a set of authors.
type AuthorStats struct {
	TotalAuthors       int      `json:"total_authors"`
	NonAcademicAuthors int      `json:"non_academic_authors"`
	WithCompanies      int      `json:"authors_with_companies"`
	Companies          []string `json:"companies"`
}

// Stats computes classification counters over already-classified authors.
// It is a read-only reduction with no side effects.
func Stats(authors []model.Author) AuthorStats {
	stats := AuthorStats{TotalAuthors: len(authors)}

	unique := make(map[string]struct{})
	for _, a := range authors {
		if a.IsNonAcademic {
			stats.NonAcademicAuthors++
		}
		if len(a.CompanyAffiliations) > 0 {
			stats.WithCompanies++
		}
		for _, c := range a.CompanyAffiliations {
			unique[c] = struct{}{}
		}
	}

	stats.Companies = make([]string, 0, len(unique))
	for c := range unique {
		stats.Companies = append(stats.Companies, c)
	}
	sort.Strings(stats.Companies)

	return stats
}
