// Package classifier applies keyword and pattern heuristics to author
// affiliation strings, flagging non-academic authors and extracting
// candidate company names. The heuristics are best-effort and explicitly
// approximate.
package classifier

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jameela786/pubmed-papers/internal/model"
)

// academicEmailPattern matches .edu addresses and national academic domains
// (.ac.uk, .ac.jp, ...).
var academicEmailPattern = regexp.MustCompile(`\S+@\S+\.edu|\S+@\S+\.ac\.\w+`)

// academicPatterns are structural phrasings that identify an academic
// affiliation even when no single keyword does.
var academicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(dept|department)\s+of\b`),
	regexp.MustCompile(`\b(division|div)\s+of\b`),
	regexp.MustCompile(`\b(center|centre)\s+for\b`),
	regexp.MustCompile(`\b(school|college)\s+of\b`),
	regexp.MustCompile(`\buniversity\s+of\b`),
	regexp.MustCompile(`\b(research|medical)\s+(center|centre)\b`),
	regexp.MustCompile(`\b(teaching|university)\s+hospital\b`),
	regexp.MustCompile(`\bmedical\s+school\b`),
}

var edgeTrimPattern = regexp.MustCompile(`^\W+|\W+$`)

// minCompanyNameLen rejects extraction candidates that are too short to be
// a plausible company name after trimming.
const minCompanyNameLen = 3

// extractStrategy is one attempt at pulling a company name out of a
// lowercased affiliation string. Strategies are tried in order; the first
// hit wins.
type extractStrategy struct {
	name     string
	patterns []*regexp.Regexp
}

// Classifier classifies authors by affiliation. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	vocab      Vocabulary
	strategies []extractStrategy
	titleCaser cases.Caser
}

// New creates a Classifier with the given vocabulary.
func New(vocab Vocabulary) *Classifier {
	c := &Classifier{
		vocab:      vocab,
		titleCaser: cases.Title(language.English),
	}

	// Suffix capture: the word run before a legal-entity marker, bounded by
	// comma/semicolon/period.
	suffixPatterns := make([]*regexp.Regexp, 0, len(vocab.CompanySuffixes))
	for _, suffix := range vocab.CompanySuffixes {
		suffixPatterns = append(suffixPatterns,
			regexp.MustCompile(`([^,;.]+?)\s+`+regexp.QuoteMeta(suffix)))
	}

	c.strategies = []extractStrategy{
		{name: "legal-suffix", patterns: suffixPatterns},
		{name: "entity-abbrev", patterns: []*regexp.Regexp{
			regexp.MustCompile(`([^,;.]+?)\s+(?:inc\.?|corp\.?|ltd\.?|llc\.?|plc\.?)`),
		}},
		{name: "domain-keyword", patterns: []*regexp.Regexp{
			regexp.MustCompile(`([^,;.]+?)\s+(?:pharmaceutical|pharma|biotech|biotechnology)`),
			regexp.MustCompile(`([^,;.]+?)\s+(?:therapeutics|bioscience|life sciences)`),
		}},
	}

	return c
}

// NewDefault creates a Classifier with the built-in vocabulary.
func NewDefault() *Classifier {
	return New(DefaultVocabulary())
}

// Classify returns the author with classification fields populated. It is a
// pure function of the affiliation text: classifying an already-classified
// author yields the same result, and an author without affiliation is
// returned unchanged (academic by default).
func (c *Classifier) Classify(author model.Author) model.Author {
	if author.Affiliation == "" {
		author.IsNonAcademic = false
		author.CompanyAffiliations = nil
		return author
	}

	lower := strings.ToLower(author.Affiliation)

	author.IsNonAcademic = !c.isAcademic(lower)
	if author.IsNonAcademic {
		author.CompanyAffiliations = c.extractCompanies(lower)
	} else {
		author.CompanyAffiliations = nil
	}
	return author
}

// ClassifyAll classifies every author in a paper, preserving order.
func (c *Classifier) ClassifyAll(authors []model.Author) []model.Author {
	out := make([]model.Author, len(authors))
	for i, a := range authors {
		out[i] = c.Classify(a)
	}
	return out
}

// ClassifyPaper returns the paper with all authors classified.
func (c *Classifier) ClassifyPaper(paper model.Paper) model.Paper {
	paper.Authors = c.ClassifyAll(paper.Authors)
	return paper
}

// ClassifyPapers classifies the authors of every paper.
func (c *Classifier) ClassifyPapers(papers []model.Paper) []model.Paper {
	out := make([]model.Paper, len(papers))
	for i, p := range papers {
		out[i] = c.ClassifyPaper(p)
	}
	return out
}

// isAcademic applies the keyword, email-domain, and structural-pattern
// tests to a lowercased affiliation.
func (c *Classifier) isAcademic(affiliation string) bool {
	for _, keyword := range c.vocab.AcademicKeywords {
		if strings.Contains(affiliation, keyword) {
			return true
		}
	}
	if academicEmailPattern.MatchString(affiliation) {
		return true
	}
	for _, pattern := range academicPatterns {
		if pattern.MatchString(affiliation) {
			return true
		}
	}
	return false
}

// extractCompanies returns the company names found in a lowercased
// non-academic affiliation: known companies first, then at most one
// heuristic candidate when a pharma/biotech keyword is present.
func (c *Classifier) extractCompanies(affiliation string) []string {
	var companies []string
	for _, known := range c.vocab.KnownCompanies {
		if strings.Contains(affiliation, known) {
			companies = append(companies, c.titleCaser.String(known))
		}
	}

	if !c.hasPharmaKeyword(affiliation) {
		return companies
	}

	candidate, ok := c.extractCandidate(affiliation)
	if !ok {
		return companies
	}
	for _, existing := range companies {
		if strings.EqualFold(existing, candidate) {
			return companies
		}
	}
	return append(companies, c.titleCaser.String(candidate))
}

func (c *Classifier) hasPharmaKeyword(affiliation string) bool {
	for _, keyword := range c.vocab.PharmaKeywords {
		if strings.Contains(affiliation, keyword) {
			return true
		}
	}
	return false
}

// extractCandidate runs the strategy chain over the affiliation and returns
// the first acceptable candidate.
func (c *Classifier) extractCandidate(affiliation string) (string, bool) {
	for _, strategy := range c.strategies {
		for _, pattern := range strategy.patterns {
			m := pattern.FindStringSubmatch(affiliation)
			if m == nil {
				continue
			}
			name := edgeTrimPattern.ReplaceAllString(strings.TrimSpace(m[1]), "")
			if len(name) > minCompanyNameLen {
				return name, true
			}
		}
	}
	return "", false
}
