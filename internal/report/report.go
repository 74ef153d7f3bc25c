// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report selects papers with commercial co-authors and renders them
// as a six-column table (CSV, JSON, or YAML).
package report

import (
	"fmt"
	"strings"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// NotAvailable fills empty report fields.
const NotAvailable = "N/A"

// Columns is the report header, in output order.
var Columns = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

const listSep = "; "

// Format selects the report encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use csv, json, or yaml", s)
	}
}

// FilterNonAcademic keeps the papers that list at least one company
// affiliation, in their original order.
func FilterNonAcademic(papers []types.Paper) []types.Paper {
	var out []types.Paper
	for _, p := range papers {
		if len(p.CompanyAffiliations()) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Row renders p as the six report fields, in Columns order.
func Row(p types.Paper) []string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = NotAvailable
	}
	date := NotAvailable
	if p.HasPublicationDate() {
		date = p.PublicationDate.Format("2006-01-02")
	}
	email := p.CorrespondingAuthorEmail()
	if email == "" {
		email = NotAvailable
	}
	return []string{
		p.PubMedID,
		title,
		date,
		joinOrNA(p.NonAcademicAuthors()),
		joinOrNA(p.CompanyAffiliations()),
		email,
	}
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return NotAvailable
	}
	return strings.Join(items, listSep)
}
