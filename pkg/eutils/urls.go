package eutils

import (
	"net/url"
	"strconv"
	"strings"
)

// Identity carries the optional NCBI identification parameters attached to
// every request.
type Identity struct {
	Tool   string
	Email  string
	APIKey string
}

func (id Identity) apply(params url.Values) {
	if id.Tool != "" {
		params.Set("tool", id.Tool)
	}
	if id.Email != "" {
		params.Set("email", id.Email)
	}
	if id.APIKey != "" {
		params.Set("api_key", id.APIKey)
	}
}

// SearchURL builds an esearch request URL. History retention is always
// requested so that large result sets can be paged without resubmitting the
// query.
func SearchURL(base string, id Identity, term string, retmax, retstart int) string {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retstart", strconv.Itoa(retstart))
	params.Set("usehistory", "y")
	id.apply(params)
	return base + "/esearch.fcgi?" + params.Encode()
}

// FetchHistoryURL builds an efetch request URL paging through a previously
// executed search via its WebEnv/QueryKey session handle.
func FetchHistoryURL(base string, id Identity, webEnv, queryKey string, retmax, retstart int) string {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("WebEnv", webEnv)
	params.Set("query_key", queryKey)
	params.Set("retmax", strconv.Itoa(retmax))
	params.Set("retstart", strconv.Itoa(retstart))
	params.Set("retmode", "xml")
	id.apply(params)
	return base + "/efetch.fcgi?" + params.Encode()
}

// FetchByIDsURL builds an efetch request URL addressing records directly by
// PMID, bypassing the history server.
func FetchByIDsURL(base string, id Identity, pmids []string) string {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")
	id.apply(params)
	return base + "/efetch.fcgi?" + params.Encode()
}
