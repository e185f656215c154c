//go:build !integration

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(context.Background())
	return cmd
}

func TestExtractSheet(t *testing.T) {
	c, _ := setTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/d/sheet-id/export", r.URL.Path)
		_, _ = w.Write([]byte("Game,Rating\nHalo,Recommended\n"))
	}))
	defer srv.Close()

	require.NoError(t, extractSheet(testCmd(), srv.URL+"/spreadsheets/d/sheet-id/edit?gid=0", c.Paths.RawSource, false))

	data, err := os.ReadFile(c.Paths.RawSource)
	require.NoError(t, err)
	assert.Equal(t, "Game,Rating\nHalo,Recommended\n", string(data))
}

func TestExtractSheet_HTML(t *testing.T) {
	c, _ := setTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<table><tr><th>Game</th></tr><tr><td>Halo</td></tr></table>`))
	}))
	defer srv.Close()

	require.NoError(t, extractSheet(testCmd(), srv.URL+"/pubhtml", c.Paths.RawSource, true))

	rows := readCSVFile(t, c.Paths.RawSource)
	assert.Equal(t, [][]string{{"Game"}, {"Halo"}}, rows)
}

func TestExtractSheetCmd_MissingURL(t *testing.T) {
	setTestConfig(t)

	err := extractSheetCmd.RunE(extractSheetCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet url is required")
}

func TestExtractRAWG(t *testing.T) {
	c, _ := setTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"results":[
			{"name":"Halo","released":"2001-11-15","rating":4.4,"metacritic":97},
			{"name":"Unrated","released":"2001-01-01","rating":0,"metacritic":null}
		]}`))
	}))
	defer srv.Close()

	c.RAWG.Key = "test-key"
	c.RAWG.BaseURL = srv.URL

	require.NoError(t, extractRAWG(testCmd(), c.Paths.RawRatings))

	rows := readCSVFile(t, c.Paths.RawRatings)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "RAWG Rating", "Release Year", "Metacritic Rating"}, rows[0])
	assert.Equal(t, "Halo", rows[1][0])
}

func TestExtractRAWG_MissingKey(t *testing.T) {
	c, _ := setTestConfig(t)

	err := extractRAWG(testCmd(), c.Paths.RawRatings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rawg.key is required")
	assert.NoFileExists(t, c.Paths.RawRatings)
}

func TestExtractSales(t *testing.T) {
	c, _ := setTestConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(salesCSV))
	}))
	defer srv.Close()

	require.NoError(t, extractSales(testCmd(), srv.URL+"/vgsales.csv", "vgsales.csv", c.Paths.Sales))

	data, err := os.ReadFile(c.Paths.Sales)
	require.NoError(t, err)
	assert.Equal(t, salesCSV, string(data))
}

func TestExtractSalesCmd_MissingURL(t *testing.T) {
	setTestConfig(t)

	err := extractSalesCmd.RunE(extractSalesCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sales url is required")
}
