package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Match.Threshold = 80
	cfg.Match.MinScore = 60
	cfg.Match.Scorer = "ratio"
	cfg.Paths = PathsConfig{
		Source:  "source.csv",
		Sales:   "sales.csv",
		Ratings: "ratings.csv",
		Output:  "out.csv",
	}
	cfg.Extract.SheetURL = DefaultSheetURL
	cfg.RAWG = RAWGConfig{MaxPages: 50, SamplePages: 10, PageSize: 40}
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateMatch_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("match"))
}

func TestValidateMatch_ThresholdRange(t *testing.T) {
	cfg := validDefaults()
	cfg.Match.Threshold = 101
	cfg.Match.MinScore = -1

	err := cfg.Validate("match")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config: validation failed")
	assert.Contains(t, err.Error(), "match.threshold must be between 0 and 100")
	assert.Contains(t, err.Error(), "match.min_score must be between 0 and 100")
}

func TestValidateMatch_UnknownScorer(t *testing.T) {
	cfg := validDefaults()
	cfg.Match.Scorer = "soundex"

	err := cfg.Validate("match")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "match.scorer")
}

func TestValidateMatch_MissingPath(t *testing.T) {
	cfg := validDefaults()
	cfg.Paths.Sales = ""

	err := cfg.Validate("match")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "paths.sales is required")
}

func TestValidateMatch_MissingPathsInStableOrder(t *testing.T) {
	cfg := validDefaults()
	cfg.Paths = PathsConfig{}

	want := "paths.source is required; paths.sales is required; paths.ratings is required; paths.output is required"
	for range 5 {
		err := cfg.Validate("match")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateMatch_NegativeWorkers(t *testing.T) {
	cfg := validDefaults()
	cfg.Match.Workers = -1

	err := cfg.Validate("match")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "match.workers must be >= 0")
}

func TestValidateRAWG(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("rawg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rawg.key is required")

	cfg.RAWG.Key = "k"
	assert.NoError(t, cfg.Validate("rawg"))

	cfg.RAWG.PageSize = 41
	err = cfg.Validate("rawg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rawg.page_size must be between 1 and 40")

	cfg.RAWG.PageSize = 40
	cfg.RAWG.MaxFailures = -1
	err = cfg.Validate("rawg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rawg.max_failures must be >= 0")
}

func TestValidateExtract_MissingSheet(t *testing.T) {
	cfg := validDefaults()
	cfg.Extract.SheetURL = ""

	err := cfg.Validate("extract")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "extract.sheet_url is required")
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateStore(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("store")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver is required")

	cfg.Store.Driver = "sqlite"
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "postgres"
	err = cfg.Validate("store")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required for postgres")

	cfg.Store.DatabaseURL = "postgres://localhost/gamejoin"
	assert.NoError(t, cfg.Validate("store"))

	cfg.Store.Driver = "mysql"
	err = cfg.Validate("match")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
