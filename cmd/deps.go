package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/clean"
	"github.com/sells-group/gamejoin/internal/fetcher"
	"github.com/sells-group/gamejoin/internal/linkage"
	"github.com/sells-group/gamejoin/internal/match"
	"github.com/sells-group/gamejoin/internal/store"
)

// defaultSQLitePath is used when the sqlite driver has no database_url.
const defaultSQLitePath = "gamejoin.db"

// initStore opens the run history store. It returns a nil Store when no
// driver is configured.
func initStore(ctx context.Context) (store.Store, error) {
	if cfg.Store.Driver == "" {
		return nil, nil
	}
	dsn := cfg.Store.DatabaseURL
	if dsn == "" && cfg.Store.Driver == store.DriverSQLite {
		dsn = defaultSQLitePath
	}
	st, err := store.Open(ctx, cfg.Store.Driver, dsn, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	return st, nil
}

// initMatcher builds the row matcher from the match.* settings.
func initMatcher() (*linkage.Matcher, error) {
	scorer, err := match.ScorerByName(cfg.Match.Scorer)
	if err != nil {
		return nil, err
	}
	if cfg.Match.Normalize {
		scorer = match.Normalized(scorer)
	}
	th := linkage.Thresholds{MinScore: cfg.Match.MinScore, Accept: cfg.Match.Threshold}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return linkage.NewMatcher(scorer, th, linkage.NewZapObserver(zap.L()), cfg.Match.Workers), nil
}

func initFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
}

// loadProfile resolves a cleaning profile by name, consulting clean.profile
// when it is set.
func loadProfile(name string) (clean.Profile, error) {
	var set *clean.ProfileSet
	if cfg.Clean.Profile != "" {
		s, err := clean.LoadProfiles(cfg.Clean.Profile)
		if err != nil {
			return clean.Profile{}, err
		}
		set = s
	}
	return set.Get(name)
}

func linkageInputs() linkage.Inputs {
	return linkage.Inputs{
		SourcePath:  cfg.Paths.Source,
		SalesPath:   cfg.Paths.Sales,
		RatingsPath: cfg.Paths.Ratings,
		OutputPath:  cfg.Paths.Output,
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
