// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the get-papers-list
// pipeline: the parsed article model, stage configuration, and the error
// kinds that decide whether a failure aborts the run.
package types

import "time"

// Author is one entry of an article's author list as parsed from PubMed.
type Author struct {
	// Name is "ForeName LastName", or LastName alone when no fore name is given.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the trimmed first affiliation text; empty when absent.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// IsNonAcademic reports whether Affiliation was classified as a
	// commercial (pharma/biotech) organization.
	IsNonAcademic bool `json:"is_non_academic" yaml:"is_non_academic"`

	// Email is the first address found in the affiliation text.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Paper holds the metadata of one PubMed article.
type Paper struct {
	// PubMedID is the PMID of the article.
	PubMedID string `json:"pubmed_id" yaml:"pubmed_id"`

	// Title is the article title with inline markup removed.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is the journal issue date. The zero value means the
	// record carried no usable date.
	PublicationDate time.Time `json:"publication_date" yaml:"publication_date"`

	// Authors lists the article authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`
}

// HasPublicationDate reports whether the paper carries a publication date.
func (p Paper) HasPublicationDate() bool {
	return !p.PublicationDate.IsZero()
}

// NonAcademicAuthors returns the non-academic authors in author order,
// formatted as "Name (Affiliation)" or just "Name" when no affiliation is known.
func (p Paper) NonAcademicAuthors() []string {
	var names []string
	for _, a := range p.Authors {
		if !a.IsNonAcademic {
			continue
		}
		if a.Affiliation != "" {
			names = append(names, a.Name+" ("+a.Affiliation+")")
		} else {
			names = append(names, a.Name)
		}
	}
	return names
}

// CompanyAffiliations returns the distinct affiliations of non-academic
// authors, in first-seen order.
func (p Paper) CompanyAffiliations() []string {
	seen := make(map[string]bool)
	var affs []string
	for _, a := range p.Authors {
		if !a.IsNonAcademic || a.Affiliation == "" || seen[a.Affiliation] {
			continue
		}
		seen[a.Affiliation] = true
		affs = append(affs, a.Affiliation)
	}
	return affs
}

// CorrespondingAuthorEmail returns the first non-empty author email in
// author order, or "" when no author has one.
func (p Paper) CorrespondingAuthorEmail() string {
	for _, a := range p.Authors {
		if a.Email != "" {
			return a.Email
		}
	}
	return ""
}
