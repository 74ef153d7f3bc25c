// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed searches PubMed through the NCBI E-utilities and parses the
// returned article records into types.Paper values.
package pubmed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/get-papers-list/internal/classify"
	"github.com/pdiddy/get-papers-list/internal/httputil"
	"github.com/pdiddy/get-papers-list/pkg/types"
)

const (
	// DefaultBaseURL is the E-utilities root.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

	// DefaultBatchSize keeps efetch URLs under the service's length limit.
	DefaultBatchSize = 100

	// DefaultMaxResults is the esearch retmax used when none is given.
	DefaultMaxResults = 100

	database = "pubmed"
)

// Client talks to the esearch and efetch endpoints. Requests are issued one
// at a time.
type Client struct {
	doer       httputil.Doer
	cfg        types.PubMedConfig
	classifier *classify.Classifier
	log        *logrus.Entry
}

// NewClient returns a client for cfg. A nil classifier uses the default
// keyword rules; a nil log discards output.
func NewClient(cfg types.PubMedConfig, doer httputil.Doer, c *classify.Classifier, log *logrus.Entry) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if c == nil {
		c = classify.Default()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Client{
		doer:       doer,
		cfg:        cfg,
		classifier: c,
		log:        log.WithField("component", "pubmed"),
	}
}

// Search runs query against esearch and returns up to maxResults PMIDs in
// the order the service ranks them.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	params := c.baseParams()
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	c.log.WithFields(logrus.Fields{"query": query, "retmax": maxResults}).Debug("searching")

	body, err := httputil.Get(ctx, c.doer, c.cfg.BaseURL+"esearch.fcgi", params, c.cfg.UserAgent, "esearch")
	if err != nil {
		return nil, err
	}

	var esr esearchResponse
	if err := json.Unmarshal(body, &esr); err != nil {
		return nil, types.NewError(types.KindService, "esearch", fmt.Errorf("decoding response: %w", err))
	}
	if msg := strings.TrimSpace(esr.Result.Error); msg != "" {
		return nil, types.NewError(types.KindService, "esearch", errors.New(msg))
	}

	c.log.WithFields(logrus.Fields{"count": esr.Result.Count, "returned": len(esr.Result.IDList)}).Info("search complete")
	return esr.Result.IDList, nil
}

// Fetch retrieves the records for ids in batches of the configured size and
// returns the parsed papers in batch order. Records that fail to parse are
// dropped. A failed batch aborts the remaining ones.
func (c *Client) Fetch(ctx context.Context, ids []string) ([]types.Paper, error) {
	batches := Batches(ids, c.cfg.BatchSize)
	var papers []types.Paper
	for i, batch := range batches {
		c.log.WithFields(logrus.Fields{"batch": i + 1, "batches": len(batches), "ids": len(batch)}).Info("fetching records")

		out, err := c.fetchBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
		}
		for _, dropped := range out.Dropped {
			c.log.WithError(dropped).Debug("skipping record")
		}
		papers = append(papers, out.Papers...)
	}
	return papers, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []string) (ParseOutput, error) {
	params := c.baseParams()
	params.Set("id", strings.Join(ids, ","))
	params.Set("retmode", "xml")

	body, err := httputil.Get(ctx, c.doer, c.cfg.BaseURL+"efetch.fcgi", params, c.cfg.UserAgent, "efetch")
	if err != nil {
		return ParseOutput{}, err
	}

	out, err := ParseArticleSet(bytes.NewReader(body), c.classifier)
	if err != nil {
		// The service answered 200 with something that is not an article set.
		return ParseOutput{}, types.NewError(types.KindService, "efetch", err)
	}
	return out, nil
}

// baseParams returns the parameters sent with every request.
func (c *Client) baseParams() url.Values {
	params := url.Values{"db": {database}}
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}
	if c.cfg.Tool != "" {
		params.Set("tool", c.cfg.Tool)
	}
	return params
}

// Batches splits ids into consecutive slices of at most size elements.
func Batches(ids []string, size int) [][]string {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
	Error  string   `json:"ERROR"`
}
