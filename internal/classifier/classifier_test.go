package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameela786/pubmed-papers/internal/model"
)

func classify(affiliation string) model.Author {
	return NewDefault().Classify(model.Author{LastName: "Doe", Affiliation: affiliation})
}

func TestClassify_UniversityIsAcademic(t *testing.T) {
	tests := []string{
		"University of Oxford, Oxford, UK",
		"UNIVERSITY OF CALIFORNIA, San Diego",
		"Dept of Biology, university of somewhere",
	}
	for _, affiliation := range tests {
		t.Run(affiliation, func(t *testing.T) {
			a := classify(affiliation)
			assert.False(t, a.IsNonAcademic)
			assert.Empty(t, a.CompanyAffiliations)
		})
	}
}

func TestClassify_AcademicSignals(t *testing.T) {
	tests := []struct {
		name        string
		affiliation string
	}{
		{"hospital keyword", "Massachusetts General Hospital, Boston"},
		{"structural pattern", "Dept of Chemistry, Some Place"},
		{"edu email", "Some Lane 5, Cityville. contact: jdoe@cityville.edu"},
		{"ac domain email", "Postbox 7, j.doe@bristol.ac.uk"},
		{"government keyword", "Federal Agency for Widgets"},
		{"foundation keyword", "Wellcome Foundation, London"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := classify(tt.affiliation)
			assert.False(t, a.IsNonAcademic)
		})
	}
}

func TestClassify_MissingAffiliationDefaultsAcademic(t *testing.T) {
	a := NewDefault().Classify(model.Author{LastName: "Doe"})
	assert.False(t, a.IsNonAcademic)
	assert.Empty(t, a.CompanyAffiliations)
}

func TestClassify_KnownCompanyTitleCased(t *testing.T) {
	a := classify("Pfizer Inc, New York, NY, USA")
	require.True(t, a.IsNonAcademic)
	assert.Contains(t, a.CompanyAffiliations, "Pfizer")
}

func TestClassify_KnownCompanyMultiWord(t *testing.T) {
	a := classify("bristol myers squibb, Princeton, NJ")
	require.True(t, a.IsNonAcademic)
	assert.Contains(t, a.CompanyAffiliations, "Bristol Myers Squibb")
}

func TestClassify_HeuristicExtraction(t *testing.T) {
	a := classify("Zenith Therapeutics Inc, San Francisco, CA")
	require.True(t, a.IsNonAcademic)
	require.NotEmpty(t, a.CompanyAffiliations)
	assert.Equal(t, "Zenith Therapeutics", a.CompanyAffiliations[0])
}

func TestClassify_ShortCandidateRejected(t *testing.T) {
	// "Zx" trims to fewer than four characters and is discarded.
	a := classify("Zx Inc, pharmaceutical research")
	require.True(t, a.IsNonAcademic)
	for _, c := range a.CompanyAffiliations {
		assert.Greater(t, len(c), minCompanyNameLen)
	}
}

func TestClassify_NoPharmaKeywordNoHeuristic(t *testing.T) {
	// Non-academic but without a pharma/biotech keyword: no heuristic
	// extraction is attempted.
	a := classify("Quantum Wrench Holdings, Denver")
	require.True(t, a.IsNonAcademic)
	assert.Empty(t, a.CompanyAffiliations)
}

func TestClassify_HeuristicDedupedAgainstKnown(t *testing.T) {
	a := classify("moderna inc, vaccines division, Cambridge MA")
	require.True(t, a.IsNonAcademic)

	seen := make(map[string]int)
	for _, c := range a.CompanyAffiliations {
		seen[c]++
	}
	assert.Equal(t, 1, seen["Moderna"])
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewDefault()
	first := c.Classify(model.Author{LastName: "Doe", Affiliation: "Acme Biotech GmbH, Berlin"})
	second := c.Classify(first)
	assert.Equal(t, first, second)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	authors := []model.Author{
		{LastName: "A", Affiliation: "University of Oslo"},
		{LastName: "B", Affiliation: "Pfizer Inc, New York"},
		{LastName: "C"},
	}
	out := NewDefault().ClassifyAll(authors)
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].LastName)
	assert.False(t, out[0].IsNonAcademic)
	assert.True(t, out[1].IsNonAcademic)
	assert.False(t, out[2].IsNonAcademic)
}

func TestClassifyPaper(t *testing.T) {
	paper := model.Paper{
		PubmedID: "1",
		Authors: []model.Author{
			{LastName: "A", Affiliation: "Gilead Sciences, pharmaceutical division, Foster City"},
		},
	}
	out := NewDefault().ClassifyPaper(paper)
	require.Len(t, out.NonAcademicAuthors(), 1)
	assert.NotEmpty(t, out.CompanyAffiliations())
}

func TestStats(t *testing.T) {
	c := NewDefault()
	authors := c.ClassifyAll([]model.Author{
		{LastName: "A", Affiliation: "University of Oslo"},
		{LastName: "B", Affiliation: "Pfizer Inc, New York"},
		{LastName: "C", Affiliation: "Novartis Pharmaceuticals Corp, Basel"},
		{LastName: "D"},
	})

	stats := Stats(authors)
	assert.Equal(t, 4, stats.TotalAuthors)
	assert.Equal(t, 2, stats.NonAcademicAuthors)
	assert.Equal(t, 2, stats.WithCompanies)
	assert.Contains(t, stats.Companies, "Pfizer")
	assert.Contains(t, stats.Companies, "Novartis")
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil)
	assert.Zero(t, stats.TotalAuthors)
	assert.Empty(t, stats.Companies)
}
