package linkage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/gamejoin/internal/model"
	"github.com/sells-group/gamejoin/internal/table"
)

// Inputs names the three cleaned tables and the output file of a run.
type Inputs struct {
	SourcePath  string
	SalesPath   string
	RatingsPath string
	OutputPath  string
}

// RunSaver persists a finished run. store.Store satisfies it.
type RunSaver interface {
	SaveRun(ctx context.Context, run model.Run, records []model.CombinedRecord) error
}

// Driver runs a full join: load, match, write, and optionally persist.
type Driver struct {
	matcher *Matcher
	saver   RunSaver
	now     func() time.Time
}

// NewDriver creates a Driver. saver may be nil.
func NewDriver(m *Matcher, saver RunSaver) *Driver {
	return &Driver{matcher: m, saver: saver, now: time.Now}
}

// Tables holds the loaded inputs of a run.
type Tables struct {
	Source  []model.SourceRecord
	Sales   *SalesTable
	Ratings *RatingsTable
}

// Load reads the input tables concurrently. An empty SourcePath loads only
// the sales and ratings tables. Any failure is returned and nothing else is
// read.
func Load(ctx context.Context, in Inputs) (*Tables, error) {
	var (
		source  []model.SourceRecord
		sales   []model.SalesRecord
		ratings []model.RatingsRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	if in.SourcePath != "" {
		g.Go(func() error {
			var err error
			source, err = table.LoadSource(gCtx, in.SourcePath)
			return err
		})
	}
	g.Go(func() error {
		var err error
		sales, err = table.LoadSales(gCtx, in.SalesPath)
		return err
	})
	g.Go(func() error {
		var err error
		ratings, err = table.LoadRatings(gCtx, in.RatingsPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Tables{
		Source:  source,
		Sales:   NewSalesTable(sales),
		Ratings: NewRatingsTable(ratings),
	}, nil
}

// Run loads the inputs, matches every source row and writes the combined
// table to in.OutputPath. A load or match failure writes nothing.
func (d *Driver) Run(ctx context.Context, in Inputs) (*model.Run, error) {
	tables, err := Load(ctx, in)
	if err != nil {
		return nil, eris.Wrap(err, "linkage: load inputs")
	}

	records, stats, err := d.matcher.Process(ctx, tables.Source, tables.Sales, tables.Ratings)
	if err != nil {
		return nil, err
	}

	if err := table.WriteCombined(in.OutputPath, records); err != nil {
		return nil, eris.Wrap(err, "linkage: write output")
	}

	run := &model.Run{
		ID:             uuid.NewString(),
		Status:         model.RunStatusComplete,
		Rows:           stats.Rows,
		SalesMatches:   stats.SalesMatches,
		RatingsMatches: stats.RatingsMatches,
		Threshold:      d.matcher.Thresholds.Accept,
		MinScore:       d.matcher.Thresholds.MinScore,
		Output:         in.OutputPath,
		CreatedAt:      d.now().UTC(),
	}

	if d.saver != nil {
		if err := d.saver.SaveRun(ctx, *run, records); err != nil {
			return run, eris.Wrapf(err, "linkage: save run %s", run.ID)
		}
	}

	return run, nil
}
