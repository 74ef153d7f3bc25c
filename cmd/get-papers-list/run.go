// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/internal/pubmed"
	"github.com/pdiddy/get-papers-list/internal/report"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

// resolveConfig assembles the run configuration from every layered source.
func (a *app) resolveConfig() types.RunConfig {
	return types.RunConfig{
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   a.v.GetDuration("http.timeout"),
				UserAgent: a.v.GetString("http.user_agent"),
			},
			BaseURL:   a.v.GetString("pubmed.base_url"),
			Email:     a.v.GetString("pubmed.email"),
			APIKey:    a.v.GetString("pubmed.api_key"),
			Tool:      a.v.GetString("pubmed.tool"),
			BatchSize: a.v.GetInt("pubmed.batch_size"),
		},
		Classifier: types.ClassifierConfig{
			RulesFile: a.v.GetString("classifier.rules_file"),
		},
		Report: types.ReportConfig{
			Output: a.v.GetString("report.output"),
			Format: a.v.GetString("report.format"),
		},
	}
}

func loadClassifier(cfg types.ClassifierConfig) (*classify.Classifier, error) {
	if cfg.RulesFile == "" {
		return classify.Default(), nil
	}
	rules, err := classify.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return classify.New(rules), nil
}

// run executes search, fetch, filter, and report for the query in args[0].
func (a *app) run(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query is empty")
	}
	maxResults, _ := cmd.Flags().GetInt("max")
	if maxResults < 1 {
		return fmt.Errorf("--max must be at least 1, got %d", maxResults)
	}

	cfg := a.resolveConfig()
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	classifier, err := loadClassifier(cfg.Classifier)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client := pubmed.NewClient(cfg.PubMed, httputil.NewClient(cfg.PubMed.HTTPConfig), classifier, a.log)

	a.log.WithField("query", query).Debug("searching PubMed")
	ids, err := client.Search(ctx, query, maxResults)
	if err != nil {
		return fmt.Errorf("searching PubMed: %w", err)
	}
	if len(ids) == 0 {
		a.log.Info("no papers found")
	}

	papers, err := client.Fetch(ctx, ids)
	if err != nil {
		return fmt.Errorf("fetching papers: %w", err)
	}

	selected := report.FilterNonAcademic(papers)
	a.log.WithFields(logrus.Fields{
		"fetched":  len(papers),
		"selected": len(selected),
	}).Info("filtered papers with company affiliations")

	if err := report.Write(selected, cfg.Report.Output, format, a.stdout); err != nil {
		return err
	}
	if cfg.Report.Output != "" {
		a.log.WithField("file", cfg.Report.Output).Info("report written")
	}
	return nil
}
