package eutils

import (
	"bytes"
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jameela786/pubmed-papers/internal/model"
)

var emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// decodeXML unmarshals into v with charset handling for non-UTF-8 responses.
func decodeXML(data []byte, v any) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "eutils: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}
	return decoder.Decode(v)
}

// -- esearch --

type esearchResult struct {
	Count    int      `xml:"Count"`
	WebEnv   string   `xml:"WebEnv"`
	QueryKey string   `xml:"QueryKey"`
	IDs      []string `xml:"IdList>Id"`
}

func parseSearchResult(data []byte) (model.SearchResult, error) {
	var raw esearchResult
	if err := decodeXML(data, &raw); err != nil {
		return model.SearchResult{}, eris.Wrap(err, "parse esearch response")
	}
	return model.SearchResult{
		TotalResults: raw.Count,
		PubmedIDs:    raw.IDs,
		WebEnv:       raw.WebEnv,
		QueryKey:     raw.QueryKey,
	}, nil
}

// -- efetch --

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID          string     `xml:"PMID"`
	DateCompleted *dateParts `xml:"DateCompleted"`
	DateCreated   *dateParts `xml:"DateCreated"`
	OtherIDs      []otherID  `xml:"OtherID"`
	Article       articleXML `xml:"Article"`
}

type articleXML struct {
	Title        string        `xml:"ArticleTitle"`
	Abstract     abstractXML   `xml:"Abstract"`
	Journal      journalXML    `xml:"Journal"`
	Pagination   paginationXML `xml:"Pagination"`
	AuthorList   authorListXML `xml:"AuthorList"`
	ELocationIDs []eLocationID `xml:"ELocationID"`
}

type abstractXML struct {
	Texts []string `xml:"AbstractText"`
}

type journalXML struct {
	Title string          `xml:"Title"`
	ISSN  string          `xml:"ISSN"`
	Issue journalIssueXML `xml:"JournalIssue"`
}

type journalIssueXML struct {
	Volume  string     `xml:"Volume"`
	Issue   string     `xml:"Issue"`
	PubDate *dateParts `xml:"PubDate"`
}

type paginationXML struct {
	MedlinePgn string `xml:"MedlinePgn"`
}

type authorListXML struct {
	Authors []authorXML `xml:"Author"`
}

type authorXML struct {
	LastName     string   `xml:"LastName"`
	ForeName     string   `xml:"ForeName"`
	Initials     string   `xml:"Initials"`
	Affiliations []string `xml:"AffiliationInfo>Affiliation"`
}

type eLocationID struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

type otherID struct {
	Source string `xml:"Source,attr"`
	Value  string `xml:",chardata"`
}

type dateParts struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

// ParsePapers converts an efetch XML response into Paper records. It never
// fails: a malformed document yields an empty list and individual records
// that lack the minimal structure (a PMID) are dropped, both logged.
func ParsePapers(data []byte) []model.Paper {
	var set pubmedArticleSet
	if err := decodeXML(data, &set); err != nil {
		zap.L().Error("efetch response not parsable, skipping document", zap.Error(err))
		return nil
	}

	papers := make([]model.Paper, 0, len(set.Articles))
	for _, article := range set.Articles {
		paper, ok := convertArticle(article)
		if !ok {
			zap.L().Warn("dropping record without PMID")
			continue
		}
		papers = append(papers, paper)
	}
	return papers
}

func convertArticle(raw pubmedArticle) (model.Paper, bool) {
	cit := raw.Citation
	pmid := strings.TrimSpace(cit.PMID)
	if pmid == "" {
		return model.Paper{}, false
	}

	art := cit.Article

	paper := model.Paper{
		PubmedID:        pmid,
		Title:           strings.TrimSpace(art.Title),
		PublicationDate: convertDate(cit),
		Authors:         convertAuthors(art.AuthorList.Authors),
		Journal: model.Journal{
			Title:  strings.TrimSpace(art.Journal.Title),
			ISSN:   strings.TrimSpace(art.Journal.ISSN),
			Volume: strings.TrimSpace(art.Journal.Issue.Volume),
			Issue:  strings.TrimSpace(art.Journal.Issue.Issue),
			Pages:  strings.TrimSpace(art.Pagination.MedlinePgn),
		},
		DOI:   findDOI(art.ELocationIDs),
		PMCID: findPMCID(cit.OtherIDs),
	}

	// First available abstract text node; absence means no abstract.
	for _, text := range art.Abstract.Texts {
		if t := strings.TrimSpace(text); t != "" {
			paper.Abstract = t
			break
		}
	}

	return paper, true
}

// convertDate resolves the publication date with DateCompleted taking
// precedence over DateCreated, then the journal issue PubDate. A record
// without a numeric year has no date; a missing month or day defaults to 1.
func convertDate(cit medlineCitation) *time.Time {
	parts := cit.DateCompleted
	if parts == nil {
		parts = cit.DateCreated
	}
	if parts == nil {
		parts = cit.Article.Journal.Issue.PubDate
	}
	if parts == nil {
		return nil
	}

	year, err := strconv.Atoi(strings.TrimSpace(parts.Year))
	if err != nil || year == 0 {
		return nil
	}
	month, day := 1, 1
	if m := strings.TrimSpace(parts.Month); m != "" {
		month, err = strconv.Atoi(m)
		if err != nil {
			return nil
		}
	}
	if d := strings.TrimSpace(parts.Day); d != "" {
		day, err = strconv.Atoi(d)
		if err != nil {
			return nil
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

func convertAuthors(raw []authorXML) []model.Author {
	authors := make([]model.Author, 0, len(raw))
	for _, a := range raw {
		author := model.Author{
			FirstName: strings.TrimSpace(a.ForeName),
			LastName:  strings.TrimSpace(a.LastName),
			Initials:  strings.TrimSpace(a.Initials),
		}
		if len(a.Affiliations) > 0 {
			author.Affiliation = strings.TrimSpace(a.Affiliations[0])
			author.Email = emailPattern.FindString(author.Affiliation)
		}
		authors = append(authors, author)
	}
	return authors
}

func findDOI(locations []eLocationID) string {
	for _, loc := range locations {
		if strings.EqualFold(loc.Type, "doi") {
			return strings.TrimSpace(loc.Value)
		}
	}
	return ""
}

// findPMCID recognizes a PMC identifier only when the NLM-sourced OtherID
// carries the literal "PMC" prefix.
func findPMCID(ids []otherID) string {
	for _, id := range ids {
		val := strings.TrimSpace(id.Value)
		if id.Source == "NLM" && strings.HasPrefix(val, "PMC") {
			return val
		}
	}
	return ""
}
