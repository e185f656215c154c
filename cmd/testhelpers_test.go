//go:build !integration

package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/gamejoin/internal/config"
)

const (
	rawCuratedCSV = "This list was put together by the Woke Content Detector Steam group with assistance from members of RPGHQ.," +
		"ðŸ‘‰," +
		"Steam Group Link: https://steamcommunity.com/groups/Woke_Content_Detector," +
		"Curator Link: https://store.steampowered.com/curator/44927664-Woke-Content-Detector/," +
		"ðŸ‘ˆ," +
		"\"If you would like to support our work, please join our Steam group and follow our curator. Thank you!\"\n" +
		"Game,Release Year,Developer,Publisher,Rating,Review\n" +
		"Assassinâ€™s Creed,2007,Ubisoft Montreal,Ubisoft,Recommended,Solid.\n" +
		"Unknown Game,2020,Nobody,Nobody,Neutral,\n" +
		"Assassinâ€™s Creed,2007,Ubisoft Montreal,Ubisoft,Recommended,Solid.\n"
	rawRatingsCSV = ",Name,RAWG Rating,Release Year,Metacritic Rating\n" +
		"0,Assassin's Creed,4.1,2007-11-13,81\n" +
		"1,Assassin's Creed,4.1,2007-11-13,81\n"
	salesCSV = "Rank,Name,Platform,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n" +
		"1,Assassin Creed,PS3,1.5,1.0,0.2,0.5,3.2\n" +
		"2,Call of Duty,X360,3.0,2.0,0.1,1.0,6.1\n"
)

// setTestConfig installs a Config whose paths live in a temp dir and restores
// the previous one when the test ends.
func setTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	old := cfg
	t.Cleanup(func() { cfg = old })

	cfg = &config.Config{
		Match: config.MatchConfig{Threshold: 80, MinScore: 60, Scorer: "ratio", Workers: 2},
		Paths: config.PathsConfig{
			Source:     filepath.Join(dir, "clean_source.csv"),
			Sales:      filepath.Join(dir, "sales.csv"),
			Ratings:    filepath.Join(dir, "clean_ratings.csv"),
			Output:     filepath.Join(dir, "combined.csv"),
			RawSource:  filepath.Join(dir, "raw_source.csv"),
			RawRatings: filepath.Join(dir, "raw_ratings.csv"),
		},
		RAWG:   config.RAWGConfig{MaxPages: 1, SamplePages: 1, PageSize: 40, Seed: 7},
		Server: config.ServerConfig{Port: 8080},
		Log:    config.LogConfig{Level: "info", Format: "json"},
	}
	return cfg, dir
}

// writeRawInputs writes the extracted curated, ratings and sales files.
func writeRawInputs(t *testing.T, c *config.Config) {
	t.Helper()
	require.NoError(t, os.WriteFile(c.Paths.RawSource, []byte(rawCuratedCSV), 0o644))
	require.NoError(t, os.WriteFile(c.Paths.RawRatings, []byte(rawRatingsCSV), 0o644))
	require.NoError(t, os.WriteFile(c.Paths.Sales, []byte(salesCSV), 0o644))
}

func useSQLiteStore(c *config.Config, dir string) {
	c.Store.Driver = "sqlite"
	c.Store.DatabaseURL = filepath.Join(dir, "runs.db")
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
