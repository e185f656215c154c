package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"math/rand/v2"
	"net/url"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/fetcher"
	"github.com/sells-group/gamejoin/internal/resilience"
	"github.com/sells-group/gamejoin/internal/table"
)

// RAWGConfig configures the RAWG sampler.
type RAWGConfig struct {
	Key         string
	BaseURL     string
	MaxPages    int
	SamplePages int
	PageSize    int
	// Seed fixes page and ordering selection. Zero picks a random seed.
	Seed uint64
	// MaxFailures is the run of consecutive transient page failures after
	// which the sample ends early.
	MaxFailures int
}

// DefaultRAWGBaseURL is the public RAWG API root.
const DefaultRAWGBaseURL = "https://api.rawg.io/api"

// orderings are the sort orders a sampled page may use; "" is the API default.
var orderings = []string{"", "rating", "-rating", "-released", "released"}

// RAWGGame is the subset of a RAWG game the pipeline keeps.
type RAWGGame struct {
	Name       string  `json:"name"`
	Released   string  `json:"released"`
	Rating     float64 `json:"rating"`
	Metacritic *int    `json:"metacritic"`
}

type rawgPage struct {
	Count   int        `json:"count"`
	Results []RAWGGame `json:"results"`
}

// Keep reports whether g has a release date, a positive rating and a positive
// Metacritic score.
func (g RAWGGame) Keep() bool {
	return g.Released != "" && g.Released != "N/A" &&
		g.Rating > 0 &&
		g.Metacritic != nil && *g.Metacritic > 0
}

// RAWGClient samples games from the RAWG API.
type RAWGClient struct {
	fetcher fetcher.Fetcher
	cfg     RAWGConfig
	rng     *rand.Rand
	breaker *resilience.Breaker
}

// NewRAWGClient creates a RAWGClient, filling unset config with defaults.
func NewRAWGClient(f fetcher.Fetcher, cfg RAWGConfig) *RAWGClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRAWGBaseURL
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 50
	}
	if cfg.SamplePages <= 0 {
		cfg.SamplePages = 10
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 40
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RAWGClient{
		fetcher: f,
		cfg:     cfg,
		rng:     rand.New(rand.NewPCG(seed, seed)),
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			MaxFailures: cfg.MaxFailures,
			OnStateChange: func(from, to resilience.State) {
				zap.L().Warn("extract: rawg breaker state changed",
					zap.Stringer("from", from), zap.Stringer("to", to))
			},
		}),
	}
}

// samplePages picks min(SamplePages, MaxPages) distinct pages from
// 1..MaxPages in random order.
func (c *RAWGClient) samplePages() []int {
	k := min(c.cfg.SamplePages, c.cfg.MaxPages)
	perm := c.rng.Perm(c.cfg.MaxPages)[:k]
	pages := make([]int, k)
	for i, p := range perm {
		pages[i] = p + 1
	}
	return pages
}

func (c *RAWGClient) pageURL(page int, ordering string) string {
	q := url.Values{}
	q.Set("key", c.cfg.Key)
	q.Set("page_size", strconv.Itoa(c.cfg.PageSize))
	q.Set("page", strconv.Itoa(page))
	if ordering != "" {
		q.Set("ordering", ordering)
	}
	return c.cfg.BaseURL + "/games?" + q.Encode()
}

// FetchSample fetches the sampled pages and returns the games that pass Keep.
// A page that fails is skipped with a warning. An empty page, or MaxFailures
// transient failures in a row, ends the sample.
func (c *RAWGClient) FetchSample(ctx context.Context) ([]RAWGGame, error) {
	if c.cfg.Key == "" {
		return nil, eris.New("extract: rawg api key is not set")
	}

	log := zap.L().With(zap.String("source", "rawg"))
	pages := c.samplePages()
	log.Info("extract: fetching rawg pages", zap.Ints("pages", pages))

	var games []RAWGGame
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "extract: rawg sample")
		}

		ordering := orderings[c.rng.IntN(len(orderings))]
		results, err := resilience.Call(ctx, c.breaker, func(ctx context.Context) ([]RAWGGame, error) {
			return c.fetchPage(ctx, page, ordering)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "extract: rawg sample")
			}
			if errors.Is(err, resilience.ErrOpen) {
				log.Warn("extract: rawg unavailable, ending sample early",
					zap.Int("page", page), zap.Int("kept", len(games)))
				break
			}
			log.Warn("extract: rawg page failed, skipping", zap.Int("page", page), zap.Error(err))
			continue
		}
		if len(results) == 0 {
			log.Info("extract: rawg page empty, stopping", zap.Int("page", page))
			break
		}

		kept := 0
		for _, g := range results {
			if !g.Keep() {
				log.Debug("extract: excluding game",
					zap.String("name", g.Name),
					zap.String("released", g.Released),
					zap.Float64("rating", g.Rating),
				)
				continue
			}
			games = append(games, g)
			kept++
		}
		log.Info("extract: rawg page fetched",
			zap.Int("page", page),
			zap.String("ordering", ordering),
			zap.Int("results", len(results)),
			zap.Int("kept", kept),
		)
	}

	return games, nil
}

func (c *RAWGClient) fetchPage(ctx context.Context, page int, ordering string) ([]RAWGGame, error) {
	body, err := c.fetcher.Download(ctx, c.pageURL(page, ordering))
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	p, err := fetcher.DecodeJSONObject[rawgPage](body)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: decode rawg page %d", page)
	}
	return p.Results, nil
}

// RatingsRow is one row of the extracted ratings table.
type RatingsRow struct {
	Name             string  `csv:"Name"`
	RAWGRating       float64 `csv:"RAWG Rating"`
	ReleaseYear      string  `csv:"Release Year"`
	MetacriticRating int     `csv:"Metacritic Rating"`
}

// RatingsColumns is the header of the extracted ratings table.
var RatingsColumns = []string{table.ColName, table.ColRAWGRating, table.ColReleaseYear, table.ColMetacriticRating}

// WriteRatingsCSV writes games to path as the raw ratings table.
func WriteRatingsCSV(path string, games []RAWGGame) error {
	rows := make([]RatingsRow, 0, len(games))
	for _, g := range games {
		row := RatingsRow{Name: g.Name, RAWGRating: g.Rating, ReleaseYear: g.Released}
		if g.Metacritic != nil {
			row.MetacriticRating = *g.Metacritic
		}
		rows = append(rows, row)
	}

	return table.WriteAtomic(path, func(w *csv.Writer) error {
		if err := w.Write(RatingsColumns); err != nil {
			return eris.Wrap(err, "extract: write ratings header")
		}
		if len(rows) == 0 {
			return nil
		}
		enc := csvutil.NewEncoder(w)
		enc.AutoHeader = false
		return eris.Wrap(enc.Encode(rows), "extract: encode ratings")
	})
}
