package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings a command mode depends on. Mode is one of
// "match", "extract", "rawg", "serve" or "store".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "match":
		errs = append(errs, c.validateMatch()...)
		errs = append(errs, c.validatePaths()...)
		errs = append(errs, c.validateStore()...)
	case "extract":
		if c.Extract.SheetURL == "" {
			errs = append(errs, "extract.sheet_url is required")
		}
	case "rawg":
		errs = append(errs, c.validateRAWG()...)
	case "serve":
		errs = append(errs, c.validateMatch()...)
		errs = append(errs, c.validateStore()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "store":
		if c.Store.Driver == "" {
			errs = append(errs, "store.driver is required")
		}
		errs = append(errs, c.validateStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateMatch() []string {
	var errs []string
	m := c.Match
	if m.Threshold < 0 || m.Threshold > 100 {
		errs = append(errs, fmt.Sprintf("match.threshold must be between 0 and 100, got %g", m.Threshold))
	}
	if m.MinScore < 0 || m.MinScore > 100 {
		errs = append(errs, fmt.Sprintf("match.min_score must be between 0 and 100, got %g", m.MinScore))
	}
	switch m.Scorer {
	case "", "ratio", "jaro_winkler":
	default:
		errs = append(errs, fmt.Sprintf("match.scorer must be ratio or jaro_winkler, got %q", m.Scorer))
	}
	if m.Workers < 0 {
		errs = append(errs, "match.workers must be >= 0")
	}
	return errs
}

func (c *Config) validatePaths() []string {
	var errs []string
	for _, p := range []struct{ key, val string }{
		{"paths.source", c.Paths.Source},
		{"paths.sales", c.Paths.Sales},
		{"paths.ratings", c.Paths.Ratings},
		{"paths.output", c.Paths.Output},
	} {
		if p.val == "" {
			errs = append(errs, p.key+" is required")
		}
	}
	return errs
}

func (c *Config) validateRAWG() []string {
	var errs []string
	r := c.RAWG
	if r.Key == "" {
		errs = append(errs, "rawg.key is required (GAMEJOIN_RAWG_KEY)")
	}
	if r.MaxPages < 1 {
		errs = append(errs, "rawg.max_pages must be >= 1")
	}
	if r.SamplePages < 1 {
		errs = append(errs, "rawg.sample_pages must be >= 1")
	}
	if r.PageSize < 1 || r.PageSize > 40 {
		errs = append(errs, "rawg.page_size must be between 1 and 40")
	}
	if r.MaxFailures < 0 {
		errs = append(errs, "rawg.max_failures must be >= 0")
	}
	return errs
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "", "sqlite":
		return nil
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for postgres"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver)}
	}
}
