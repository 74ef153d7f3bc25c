// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/encoding/json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

// Record is one report row keyed by column name, used by the JSON and YAML
// encodings. Field order follows Columns.
type Record struct {
	PubmedID                 string `json:"PubmedID" yaml:"PubmedID"`
	Title                    string `json:"Title" yaml:"Title"`
	PublicationDate          string `json:"Publication Date" yaml:"Publication Date"`
	NonAcademicAuthors       string `json:"Non-academic Author(s)" yaml:"Non-academic Author(s)"`
	CompanyAffiliations      string `json:"Company Affiliation(s)" yaml:"Company Affiliation(s)"`
	CorrespondingAuthorEmail string `json:"Corresponding Author Email" yaml:"Corresponding Author Email"`
}

func toRecord(row []string) Record {
	return Record{
		PubmedID:                 row[0],
		Title:                    row[1],
		PublicationDate:          row[2],
		NonAcademicAuthors:       row[3],
		CompanyAffiliations:      row[4],
		CorrespondingAuthorEmail: row[5],
	}
}

// RenderCSV writes the header and one row per paper to w.
func RenderCSV(papers []types.Paper, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range papers {
		if err := cw.Write(Row(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderJSON writes the rows as an indented JSON array of records.
func RenderJSON(papers []types.Paper, w io.Writer) error {
	records := make([]Record, 0, len(papers))
	for _, p := range papers {
		records = append(records, toRecord(Row(p)))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// RenderYAML writes the rows as a YAML list of records.
func RenderYAML(papers []types.Paper, w io.Writer) error {
	records := make([]Record, 0, len(papers))
	for _, p := range papers {
		records = append(records, toRecord(Row(p)))
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(records); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Render writes papers to w in format.
func Render(papers []types.Paper, format Format, w io.Writer) error {
	switch format {
	case FormatCSV, "":
		return RenderCSV(papers, w)
	case FormatJSON:
		return RenderJSON(papers, w)
	case FormatYAML:
		return RenderYAML(papers, w)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// ReadCSV parses a CSV report back into rows, without the header. The
// header must match Columns.
func ReadCSV(r io.Reader) ([][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading report: missing header")
	}
	if !slices.Equal(records[0], Columns) {
		return nil, fmt.Errorf("reading report: unexpected header %q", records[0])
	}
	return records[1:], nil
}

// Write renders papers to dest, or to stdout when dest is empty. An existing
// file is overwritten; a dest ending in ".gz" is gzip-compressed. Failures
// are KindOutput errors.
func Write(papers []types.Paper, dest string, format Format, stdout io.Writer) error {
	if dest == "" {
		bw := bufio.NewWriter(stdout)
		if err := Render(papers, format, bw); err != nil {
			return types.NewError(types.KindOutput, "writing report", err)
		}
		return types.NewError(types.KindOutput, "writing report", bw.Flush())
	}

	f, err := os.Create(dest)
	if err != nil {
		return types.NewError(types.KindOutput, "creating report", err)
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(dest, ".gz") {
		zw = gzip.NewWriter(f)
		w = zw
	}
	bw := bufio.NewWriter(w)

	if err := Render(papers, format, bw); err != nil {
		f.Close()
		return types.NewError(types.KindOutput, "writing "+dest, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return types.NewError(types.KindOutput, "writing "+dest, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return types.NewError(types.KindOutput, "compressing "+dest, err)
		}
	}
	return types.NewError(types.KindOutput, "closing "+dest, f.Close())
}
