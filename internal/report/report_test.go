// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/get-papers-list/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPapers() []types.Paper {
	return []types.Paper{
		{
			PubMedID:        "1",
			Title:           "  Pharma paper, with \"quotes\"  ",
			PublicationDate: date(2023, time.January, 1),
			Authors: []types.Author{
				{Name: "Jane Doe", Affiliation: "Pfizer Inc, NY", IsNonAcademic: true, Email: "jane@pfizer.com"},
				{Name: "Smith", Affiliation: "Yale University"},
				{Name: "Min Kim", Affiliation: "Novartis R&D; Basel", IsNonAcademic: true},
			},
		},
		{
			PubMedID:        "2",
			Title:           "Academic only",
			PublicationDate: date(2022, time.June, 30),
			Authors: []types.Author{
				{Name: "Ann Lee", Affiliation: "Harvard University", Email: "ann@harvard.edu"},
			},
		},
		{
			PubMedID: "3",
			Title:    "",
			Authors: []types.Author{
				{Name: "Bo Roe", Affiliation: "Genentech Biotech", IsNonAcademic: true},
				{Name: "Cy Poe", Affiliation: "Genentech Biotech", IsNonAcademic: true},
			},
		},
		{
			PubMedID: "4",
			Title:    "Non-academic author without affiliation",
			Authors:  []types.Author{{Name: "Orphan", IsNonAcademic: true}},
		},
	}
}

// --- Filter ---

func TestFilterNonAcademic(t *testing.T) {
	got := FilterNonAcademic(testPapers())
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].PubMedID)
	assert.Equal(t, "3", got[1].PubMedID)
}

func TestFilterNonAcademicIdempotent(t *testing.T) {
	once := FilterNonAcademic(testPapers())
	twice := FilterNonAcademic(once)
	assert.Equal(t, once, twice)
}

func TestFilterNonAcademicEmpty(t *testing.T) {
	assert.Empty(t, FilterNonAcademic(nil))
}

// --- Row ---

func TestRow(t *testing.T) {
	papers := testPapers()

	assert.Equal(t, []string{
		"1",
		`Pharma paper, with "quotes"`,
		"2023-01-01",
		"Jane Doe (Pfizer Inc, NY); Min Kim (Novartis R&D; Basel)",
		"Pfizer Inc, NY; Novartis R&D; Basel",
		"jane@pfizer.com",
	}, Row(papers[0]))

	assert.Equal(t, []string{
		"2", "Academic only", "2022-06-30", "N/A", "N/A", "ann@harvard.edu",
	}, Row(papers[1]))

	assert.Equal(t, []string{
		"3", "N/A", "N/A", "Bo Roe (Genentech Biotech); Cy Poe (Genentech Biotech)", "Genentech Biotech", "N/A",
	}, Row(papers[2]))
}

// --- Render ---

func TestRenderCSVRoundTrip(t *testing.T) {
	papers := FilterNonAcademic(testPapers())

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(papers, &buf))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "PubmedID,Title,Publication Date,Non-academic Author(s),Company Affiliation(s),Corresponding Author Email", lines[0])

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, len(papers))
	for i, p := range papers {
		assert.Equal(t, Row(p), rows[i])
	}
}

func TestRenderCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCSV(nil, &buf))
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(FilterNonAcademic(testPapers()), &buf))

	var records []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0]["PubmedID"])
	assert.Equal(t, "2023-01-01", records[0]["Publication Date"])
	assert.Equal(t, "N/A", records[1]["Corresponding Author Email"])
	assert.Len(t, records[0], len(Columns))
}

func TestRenderJSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(nil, &buf))
	assert.JSONEq(t, "[]", buf.String())
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(FilterNonAcademic(testPapers()), &buf))

	var records []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Genentech Biotech", records[1].CompanyAffiliations)
	assert.Equal(t, "N/A", records[1].Title)
}

func TestRenderYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRenderYAMLWriteFailure(t *testing.T) {
	err := RenderYAML(FilterNonAcademic(testPapers()), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSVRejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")

	_, err = ReadCSV(strings.NewReader(""))
	require.Error(t, err)
}

// --- Write ---

func TestWriteStdout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(FilterNonAcademic(testPapers()), "", FormatCSV, &buf))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644))

	require.NoError(t, Write(FilterNonAcademic(testPapers()), path, FormatCSV, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriteGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	require.NoError(t, Write(FilterNonAcademic(testPapers()), path, FormatCSV, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	rows, err := ReadCSV(zr)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriteUnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	err := Write(testPapers(), path, FormatCSV, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrOutput))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteStdoutFailure(t *testing.T) {
	err := Write(testPapers(), "", FormatCSV, failingWriter{})
	require.Error(t, err)
	assert.Equal(t, types.KindOutput, types.KindOf(err))
}
