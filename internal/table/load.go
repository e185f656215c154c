package table

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/model"
)

// Column names of the cleaned input tables.
const (
	ColGame        = "Game"
	ColReleaseYear = "Release Year"
	ColDeveloper   = "Developer"
	ColPublisher   = "Publisher"
	ColRating      = "Rating"
	ColReview      = "Review"

	ColName        = "Name"
	ColNASales     = "NA_Sales"
	ColEUSales     = "EU_Sales"
	ColJPSales     = "JP_Sales"
	ColOtherSales  = "Other_Sales"
	ColGlobalSales = "Global_Sales"

	ColRAWGRating       = "RAWG Rating"
	ColMetacriticRating = "Metacritic Rating"
)

// LoadSource reads the cleaned curated table. Game is required; any other
// curated column that is absent from the header becomes model.NotAvailable.
func LoadSource(ctx context.Context, path string) ([]model.SourceRecord, error) {
	t, err := readRaw(ctx, ResourceSource, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColGame); err != nil {
		return nil, err
	}

	text := func(row []string, col string) model.Text {
		if !t.has(col) {
			return model.NotAvailable
		}
		return model.Text(t.cell(row, col))
	}

	out := make([]model.SourceRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.SourceRecord{
			Game:        t.cell(row, ColGame),
			ReleaseYear: text(row, ColReleaseYear),
			Developer:   text(row, ColDeveloper),
			Publisher:   text(row, ColPublisher),
			Rating:      text(row, ColRating),
			Review:      text(row, ColReview),
		})
	}
	return out, nil
}

// LoadSales reads the sales table. Name is required; missing sales columns
// and unparseable cells load as model.Missing.
func LoadSales(ctx context.Context, path string) ([]model.SalesRecord, error) {
	t, err := readRaw(ctx, ResourceSales, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColName); err != nil {
		return nil, err
	}

	p := newMeasureParser(t)
	out := make([]model.SalesRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.SalesRecord{
			Name:        t.cell(row, ColName),
			NASales:     p.parse(row, ColNASales),
			EUSales:     p.parse(row, ColEUSales),
			JPSales:     p.parse(row, ColJPSales),
			OtherSales:  p.parse(row, ColOtherSales),
			GlobalSales: p.parse(row, ColGlobalSales),
		})
	}
	p.report()
	return out, nil
}

// LoadRatings reads the cleaned ratings table. Name is required.
func LoadRatings(ctx context.Context, path string) ([]model.RatingsRecord, error) {
	t, err := readRaw(ctx, ResourceRatings, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(ColName); err != nil {
		return nil, err
	}

	p := newMeasureParser(t)
	out := make([]model.RatingsRecord, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, model.RatingsRecord{
			Name:             t.cell(row, ColName),
			RawRating:        p.parse(row, ColRAWGRating),
			MetacriticRating: p.parse(row, ColMetacriticRating),
		})
	}
	p.report()
	return out, nil
}

// measureParser parses numeric cells and counts the ones it had to drop.
type measureParser struct {
	t       *raw
	invalid map[string]int
}

func newMeasureParser(t *raw) *measureParser {
	return &measureParser{t: t, invalid: make(map[string]int)}
}

func (p *measureParser) parse(row []string, col string) model.Measure {
	m, err := model.ParseMeasure(p.t.cell(row, col))
	if err != nil {
		p.invalid[col]++
		return model.Missing
	}
	return m
}

func (p *measureParser) report() {
	for col, n := range p.invalid {
		zap.L().Warn("table: unparseable numeric cells loaded as missing",
			zap.String("resource", p.t.resource),
			zap.String("column", col),
			zap.Int("cells", n),
		)
	}
}
