// Package model defines the core data types shared across the retrieval,
// classification, and export layers.
package model

import (
	"strings"
	"time"
)

// Author represents a single paper author with affiliation and
// classification data. Name and affiliation fields are set by the parser;
// IsNonAcademic and CompanyAffiliations are populated by the classifier.
type Author struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name"`
	Initials    string `json:"initials,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Email       string `json:"email,omitempty"`

	// IsCorresponding is never inferred by the parser; it defaults to false
	// and stays false unless a future detection pass sets it.
	IsCorresponding bool `json:"is_corresponding"`

	IsNonAcademic       bool     `json:"is_non_academic"`
	CompanyAffiliations []string `json:"company_affiliations,omitempty"`
}

// DisplayName returns "First Last", falling back to initials when the
// forename is missing, matching the export column format.
func (a Author) DisplayName() string {
	var parts []string
	if a.FirstName != "" {
		parts = append(parts, a.FirstName)
	}
	if a.LastName != "" {
		parts = append(parts, a.LastName)
	}
	if a.Initials != "" && a.FirstName == "" {
		parts = append(parts, a.Initials)
	}
	return strings.Join(parts, " ")
}

// Journal holds bibliographic journal metadata. Every field is optional.
type Journal struct {
	Title  string `json:"title,omitempty"`
	ISSN   string `json:"issn,omitempty"`
	Volume string `json:"volume,omitempty"`
	Issue  string `json:"issue,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// Paper is a single bibliographic record as parsed from an efetch response.
// Author order is preserved as received from the server.
type Paper struct {
	PubmedID string  `json:"pubmed_id"`
	Title    string  `json:"title"`
	// PublicationDate is nil when the record carries no usable year. A
	// missing month or day defaults to 1 (documented approximation).
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Authors         []Author   `json:"authors"`
	Journal         Journal    `json:"journal"`
	Abstract        string     `json:"abstract,omitempty"`
	DOI             string     `json:"doi,omitempty"`
	PMCID           string     `json:"pmc_id,omitempty"`
}

// NonAcademicAuthors returns the authors classified as non-academic.
func (p Paper) NonAcademicAuthors() []Author {
	var out []Author
	for _, a := range p.Authors {
		if a.IsNonAcademic {
			out = append(out, a)
		}
	}
	return out
}

// CompanyAffiliations returns the deduplicated company names across all
// authors, in first-seen order.
func (p Paper) CompanyAffiliations() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range p.Authors {
		for _, c := range a.CompanyAffiliations {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// CorrespondingAuthorEmail returns the email of the first author flagged as
// corresponding, or "" when none is flagged (the common case, since the
// parser never sets the flag).
func (p Paper) CorrespondingAuthorEmail() string {
	for _, a := range p.Authors {
		if a.IsCorresponding && a.Email != "" {
			return a.Email
		}
	}
	return ""
}

// SearchResult holds the outcome of an esearch call. WebEnv and QueryKey are
// present only when the server issued a history session for the query.
type SearchResult struct {
	Query        string   `json:"query"`
	TotalResults int      `json:"total_results"`
	PubmedIDs    []string `json:"pubmed_ids"`
	WebEnv       string   `json:"web_env,omitempty"`
	QueryKey     string   `json:"query_key,omitempty"`
}

// HasSession reports whether the search produced a usable history handle.
func (r SearchResult) HasSession() bool {
	return r.WebEnv != "" && r.QueryKey != ""
}

// RetrievalResponse summarizes a search-and-fetch operation.
// Success == false implies an empty Papers slice, and RetrievedCount is
// always <= TotalCount.
type RetrievalResponse struct {
	Success        bool    `json:"success"`
	Papers         []Paper `json:"papers"`
	ErrorMessage   string  `json:"error_message,omitempty"`
	TotalCount     int     `json:"total_count"`
	RetrievedCount int     `json:"retrieved_count"`
}
