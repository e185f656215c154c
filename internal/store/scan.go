package store

import (
	"database/sql"

	"github.com/sells-group/gamejoin/internal/model"
)

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var (
		r      model.Run
		status string
	)
	if err := row.Scan(&r.ID, &status, &r.Rows, &r.SalesMatches, &r.RatingsMatches,
		&r.Threshold, &r.MinScore, &r.Output, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Status = model.RunStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

// scanRecord reads one combined_games row selected in combinedColumns order.
func scanRecord(row scannable) (model.CombinedRecord, error) {
	var (
		c                                     model.CombinedRecord
		year, dev, pub, rating, review        string
		rawg, meta, na, eu, jp, other, global sql.NullFloat64
	)
	err := row.Scan(&c.Name, &year, &dev, &pub, &rating, &review,
		&rawg, &meta, &na, &eu, &jp, &other, &global)
	if err != nil {
		return c, err
	}
	c.ReleaseYear = model.Text(year)
	c.Developer = model.Text(dev)
	c.Publisher = model.Text(pub)
	c.WCDRating = model.Text(rating)
	c.WCDReview = model.Text(review)
	c.RAWGRating = measure(rawg)
	c.MetacriticRating = measure(meta)
	c.NASales = measure(na)
	c.EUSales = measure(eu)
	c.JPSales = measure(jp)
	c.OtherSales = measure(other)
	c.GlobalSales = measure(global)
	return c, nil
}

func measure(n sql.NullFloat64) model.Measure {
	if !n.Valid {
		return model.Missing
	}
	return model.Some(n.Float64)
}

// recordArgs flattens c into column values; missing measures become NULL.
func recordArgs(c model.CombinedRecord) []any {
	return []any{
		c.Name,
		string(c.ReleaseYear),
		string(c.Developer),
		string(c.Publisher),
		string(c.WCDRating),
		string(c.WCDReview),
		c.RAWGRating.Ptr(),
		c.MetacriticRating.Ptr(),
		c.NASales.Ptr(),
		c.EUSales.Ptr(),
		c.JPSales.Ptr(),
		c.OtherSales.Ptr(),
		c.GlobalSales.Ptr(),
	}
}
