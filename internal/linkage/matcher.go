package linkage

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/gamejoin/internal/match"
	"github.com/sells-group/gamejoin/internal/model"
)

// Thresholds holds the two independent score floors. MinScore is the floor
// the best-match search applies; Accept is the floor a found match must also
// clear before its fields are copied.
type Thresholds struct {
	MinScore float64
	Accept   float64
}

// DefaultThresholds returns MinScore 60 and Accept 80.
func DefaultThresholds() Thresholds {
	return Thresholds{MinScore: 60, Accept: 80}
}

// Validate checks both floors lie within the score range.
func (t Thresholds) Validate() error {
	if t.MinScore < 0 || t.MinScore > match.MaxScore {
		return eris.Errorf("linkage: min score %v out of range [0, %v]", t.MinScore, match.MaxScore)
	}
	if t.Accept < 0 || t.Accept > match.MaxScore {
		return eris.Errorf("linkage: accept threshold %v out of range [0, %v]", t.Accept, match.MaxScore)
	}
	return nil
}

// Outcome is the full result of matching one source row.
type Outcome struct {
	Record model.CombinedRecord
	// Sales and Ratings hold the best candidate above MinScore, or
	// match.NoMatch.
	Sales           match.Result
	Ratings         match.Result
	SalesAccepted   bool
	RatingsAccepted bool
}

// Stats counts accepted matches over a join.
type Stats struct {
	Rows           int `json:"rows"`
	SalesMatches   int `json:"sales_matches"`
	RatingsMatches int `json:"ratings_matches"`
}

// Matcher matches source rows against the sales and ratings tables.
type Matcher struct {
	Scorer     match.Scorer
	Thresholds Thresholds
	Observer   Observer
	// Workers bounds the goroutines used by Process. Zero or less means
	// runtime.NumCPU().
	Workers int
}

// NewMatcher creates a Matcher. A nil scorer means match.Ratio and a nil
// observer discards events.
func NewMatcher(scorer match.Scorer, th Thresholds, obs Observer, workers int) *Matcher {
	if scorer == nil {
		scorer = match.Ratio
	}
	if obs == nil {
		obs = Nop{}
	}
	return &Matcher{Scorer: scorer, Thresholds: th, Observer: obs, Workers: workers}
}

// MatchRow builds the combined record for src.
func (m *Matcher) MatchRow(src model.SourceRecord, sales *SalesTable, ratings *RatingsTable) model.CombinedRecord {
	return m.Explain(src, sales, ratings).Record
}

// Explain matches src and reports the scores behind the combined record.
func (m *Matcher) Explain(src model.SourceRecord, sales *SalesTable, ratings *RatingsTable) Outcome {
	out := Outcome{Record: model.FromSource(src)}

	var salesRow model.SalesRecord
	out.Sales, salesRow, out.SalesAccepted = resolve(m, TableSales, src.Game, sales)
	if out.SalesAccepted {
		out.Record = out.Record.WithSales(salesRow)
	}

	var ratingsRow model.RatingsRecord
	out.Ratings, ratingsRow, out.RatingsAccepted = resolve(m, TableRatings, src.Game, ratings)
	if out.RatingsAccepted {
		out.Record = out.Record.WithRatings(ratingsRow)
	}

	return out
}

// resolve finds the best candidate for game in t and returns the row to copy
// when the match is accepted.
func resolve[R any](m *Matcher, table, game string, t *Table[R]) (match.Result, R, bool) {
	var zero R
	best := match.Best(m.Scorer, game, t.Names())
	found := best.AtLeast(m.Thresholds.MinScore)
	if !found.Found || found.Score < m.Thresholds.Accept {
		m.Observer.NoMatch(table, game, best)
		return found, zero, false
	}
	row, ok := t.Lookup(found.Name)
	if !ok {
		m.Observer.NoMatch(table, game, best)
		return found, zero, false
	}
	m.Observer.Matched(table, game, found)
	return found, row, true
}

// Process matches every source row and returns the combined records in
// source order. Rows are matched concurrently; each worker writes only its
// own slot. A panic while matching a row fails the whole run.
func (m *Matcher) Process(ctx context.Context, source []model.SourceRecord, sales *SalesTable, ratings *RatingsTable) ([]model.CombinedRecord, Stats, error) {
	if err := m.Thresholds.Validate(); err != nil {
		return nil, Stats{}, err
	}

	workers := m.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	records := make([]model.CombinedRecord, len(source))
	salesHit := make([]bool, len(source))
	ratingsHit := make([]bool, len(source))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, src := range source {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = eris.Errorf("linkage: row %d (%q) panicked: %v", i, src.Game, r)
				}
			}()
			if err := gCtx.Err(); err != nil {
				return err
			}
			m.Observer.RowStarted(i, src.Game)
			out := m.Explain(src, sales, ratings)
			records[i] = out.Record
			salesHit[i] = out.SalesAccepted
			ratingsHit[i] = out.RatingsAccepted
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Stats{}, eris.Wrap(err, "linkage: process")
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, eris.Wrap(err, "linkage: process")
	}

	stats := Stats{Rows: len(records)}
	for i := range records {
		if salesHit[i] {
			stats.SalesMatches++
		}
		if ratingsHit[i] {
			stats.RatingsMatches++
		}
	}
	return records, stats, nil
}
