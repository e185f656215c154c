package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetExportURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://docs.google.com/spreadsheets/d/abc123",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=0",
		},
		{
			"https://docs.google.com/spreadsheets/d/abc123/edit?gid=42",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=42",
		},
		{
			"https://docs.google.com/spreadsheets/d/abc123/edit#gid=7",
			"https://docs.google.com/spreadsheets/d/abc123/export?format=csv&gid=7",
		},
	}
	for _, tt := range tests {
		got, err := SheetExportURL(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestSheetExportURL_NoID(t *testing.T) {
	_, err := SheetExportURL("https://docs.google.com/spreadsheets/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spreadsheet id")
}

func TestSheetExporter_Export(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/d/abc/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Write([]byte("Game,Rating\nHalo,Recommended\n"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "sheet.csv")
	n, err := NewSheetExporter(newTestFetcher()).Export(context.Background(), srv.URL+"/spreadsheets/d/abc/edit", out)
	require.NoError(t, err)
	assert.Equal(t, int64(29), n)
	assert.Equal(t, "Game,Rating\nHalo,Recommended\n", readFile(t, out))
}

const publishedPage = `<html><body>
<div>intro</div>
<table>
  <thead><tr><th>Game</th><th>Rating</th></tr></thead>
  <tbody>
    <tr><td>Halo</td><td><b>Recommended</b></td></tr>
    <tr><td>Myst,  the <br>Original</td><td>Neutral</td></tr>
  </tbody>
</table>
<table><tr><td>second table</td></tr></table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	rows, err := ParseHTMLTable(strings.NewReader(publishedPage))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Game", "Rating"},
		{"Halo", "Recommended"},
		{"Myst, the Original", "Neutral"},
	}, rows)
}

func TestParseHTMLTable_NoTable(t *testing.T) {
	_, err := ParseHTMLTable(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table")

	_, err = ParseHTMLTable(strings.NewReader("<table></table>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestSheetExporter_ScrapeHTMLTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(publishedPage))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "table.csv")
	n, err := NewSheetExporter(newTestFetcher()).ScrapeHTMLTable(context.Background(), srv.URL, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Game,Rating\nHalo,Recommended\n\"Myst, the Original\",Neutral\n", readFile(t, out))
}
