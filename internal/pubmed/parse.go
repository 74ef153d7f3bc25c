// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/k3a/html2text"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// NoTitle replaces a missing or empty ArticleTitle.
const NoTitle = "No title available"

// ParseOutput holds the papers parsed from one efetch response and the
// per-record errors of the articles that were dropped.
type ParseOutput struct {
	Papers  []types.Paper
	Dropped []error
}

// ParseArticleSet reads an efetch PubmedArticleSet document. Each
// PubmedArticle is parsed on its own; a record that fails is dropped and its
// error recorded in Dropped. The returned error is non-nil only when the
// document itself is not a readable PubmedArticleSet.
func ParseArticleSet(r io.Reader, c *classify.Classifier) (ParseOutput, error) {
	var out ParseOutput
	dec := xml.NewDecoder(r)

	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, types.NewError(types.KindParse, "efetch document", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "PubmedArticleSet" {
				return out, types.NewError(types.KindParse, "efetch document",
					fmt.Errorf("unexpected root element <%s>", start.Name.Local))
			}
			sawRoot = true
			continue
		}
		if start.Name.Local != "PubmedArticle" {
			// PubmedBookArticle, DeleteCitation and friends carry no journal article.
			if err := dec.Skip(); err != nil {
				return out, types.NewError(types.KindParse, "efetch document", err)
			}
			continue
		}

		var raw pubmedArticle
		if err := dec.DecodeElement(&raw, &start); err != nil {
			return out, types.NewError(types.KindParse, "efetch document", err)
		}
		p, err := parseArticle(&raw, c)
		if err != nil {
			out.Dropped = append(out.Dropped, err)
			continue
		}
		out.Papers = append(out.Papers, p)
	}

	if !sawRoot {
		return out, types.NewError(types.KindParse, "efetch document", errors.New("empty document"))
	}
	return out, nil
}

// ParseRecord parses a single <PubmedArticle> element.
func ParseRecord(data []byte, c *classify.Classifier) (types.Paper, error) {
	var raw pubmedArticle
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return types.Paper{}, types.NewError(types.KindParse, "record", err)
	}
	return parseArticle(&raw, c)
}

func parseArticle(raw *pubmedArticle, c *classify.Classifier) (types.Paper, error) {
	mc := raw.MedlineCitation
	if mc == nil {
		return types.Paper{}, parseErr("", errors.New("missing MedlineCitation"))
	}
	pmid := strings.TrimSpace(mc.PMID)
	if pmid == "" {
		return types.Paper{}, parseErr("", errors.New("missing PMID"))
	}
	art := mc.Article
	if art == nil {
		return types.Paper{}, parseErr(pmid, errors.New("missing Article"))
	}

	date, err := parsePubDate(art.Journal.JournalIssue.PubDate)
	if err != nil {
		return types.Paper{}, parseErr(pmid, err)
	}

	title := NoTitle
	if art.ArticleTitle != nil {
		if t := markupToText(art.ArticleTitle.Inner); t != "" {
			title = t
		}
	}

	p := types.Paper{
		PubMedID:        pmid,
		Title:           title,
		PublicationDate: date,
	}
	for _, ra := range art.AuthorList.Authors {
		if a, ok := parseAuthor(ra, c); ok {
			p.Authors = append(p.Authors, a)
		}
	}
	return p, nil
}

// parseAuthor returns false for authors without a LastName (collective
// names, malformed entries); they are skipped.
func parseAuthor(ra rawAuthor, c *classify.Classifier) (types.Author, bool) {
	last := strings.TrimSpace(ra.LastName)
	if last == "" {
		return types.Author{}, false
	}
	name := last
	if fore := strings.TrimSpace(ra.ForeName); fore != "" {
		name = fore + " " + last
	}

	var aff string
	if len(ra.AffiliationInfo) > 0 {
		aff = affiliationText(ra.AffiliationInfo[0].Affiliation.Inner)
	}

	return types.Author{
		Name:          name,
		Affiliation:   aff,
		IsNonAcademic: c.IsNonAcademic(aff),
		Email:         classify.ExtractEmail(aff),
	}, true
}

// parsePubDate builds the date from Year, Month and Day. Month and Day
// default to 1; Year is required. Month may be a number or an English
// month name or abbreviation, as PubMed writes it.
func parsePubDate(d rawPubDate) (time.Time, error) {
	yearText := strings.TrimSpace(d.Year)
	if yearText == "" {
		return time.Time{}, errors.New("missing publication year")
	}
	year, err := strconv.Atoi(yearText)
	if err != nil || year <= 0 {
		return time.Time{}, fmt.Errorf("invalid publication year %q", yearText)
	}

	month, err := parseMonth(d.Month)
	if err != nil {
		return time.Time{}, err
	}

	day := 1
	if dayText := strings.TrimSpace(d.Day); dayText != "" {
		day, err = strconv.Atoi(dayText)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid publication day %q", dayText)
		}
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid publication date %d-%d-%d", year, month, day)
	}
	return t, nil
}

func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.January, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid publication month %q", s)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid publication month %q", s)
}

// markupToText turns the inner XML of a text element into plain text with
// runs of whitespace collapsed to single spaces. Titles and affiliations may
// carry inline markup (<i>, <sup>) and escaped entities.
func markupToText(inner string) string {
	if strings.ContainsAny(inner, "<&") {
		inner = html2text.HTML2Text(inner)
	}
	return strings.Join(strings.Fields(inner), " ")
}

// affiliationMarks matches superscript and subscript elements, which in
// affiliations hold footnote markers rather than text.
var affiliationMarks = regexp.MustCompile(`(?is)<(sup|sub)\b[^>]*>.*?</(sup|sub)>`)

// affiliationText is markupToText with footnote markers removed.
func affiliationText(inner string) string {
	return markupToText(affiliationMarks.ReplaceAllString(inner, " "))
}

func parseErr(pmid string, err error) error {
	op := "record"
	if pmid != "" {
		op = "record " + pmid
	}
	return types.NewError(types.KindParse, op, err)
}

// efetch PubmedArticle XML structures. Only the fields the report uses are
// mapped.
type pubmedArticle struct {
	MedlineCitation *rawCitation `xml:"MedlineCitation"`
}

type rawCitation struct {
	PMID    string      `xml:"PMID"`
	Article *rawArticle `xml:"Article"`
}

type rawArticle struct {
	Journal      rawJournal    `xml:"Journal"`
	ArticleTitle *rawMarkup    `xml:"ArticleTitle"`
	AuthorList   rawAuthorList `xml:"AuthorList"`
}

type rawJournal struct {
	JournalIssue struct {
		PubDate rawPubDate `xml:"PubDate"`
	} `xml:"JournalIssue"`
}

type rawPubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

type rawAuthorList struct {
	Authors []rawAuthor `xml:"Author"`
}

type rawAuthor struct {
	LastName        string               `xml:"LastName"`
	ForeName        string               `xml:"ForeName"`
	AffiliationInfo []rawAffiliationInfo `xml:"AffiliationInfo"`
}

type rawAffiliationInfo struct {
	Affiliation rawMarkup `xml:"Affiliation"`
}

type rawMarkup struct {
	Inner string `xml:",innerxml"`
}
