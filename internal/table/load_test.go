package table

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gamejoin/internal/model"
)

func TestLoadSource(t *testing.T) {
	path := writeTestFile(t, "curated.csv",
		",Game,Release Year,Developer,Publisher,Rating,Review\n"+
			"0,Assassin's Creed,2007,Ubisoft Montreal,Ubisoft,Recommended,\"Good, mostly.\"\n"+
			"1,Halo,2001,Bungie,Microsoft,Recommended,\n")

	recs, err := LoadSource(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Assassin's Creed", recs[0].Game)
	assert.Equal(t, model.Text("2007"), recs[0].ReleaseYear)
	assert.Equal(t, model.Text("Ubisoft"), recs[0].Publisher)
	assert.Equal(t, model.Text("Good, mostly."), recs[0].Review)
	assert.Equal(t, model.Text(""), recs[1].Review, "empty cell stays empty")
}

func TestLoadSource_MissingColumnsAreNotAvailable(t *testing.T) {
	path := writeTestFile(t, "curated.csv", "Game,Rating\nHalo,Recommended\n")

	recs, err := LoadSource(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.NotAvailable, recs[0].ReleaseYear)
	assert.Equal(t, model.NotAvailable, recs[0].Developer)
	assert.Equal(t, model.NotAvailable, recs[0].Review)
	assert.Equal(t, model.Text("Recommended"), recs[0].Rating)
}

func TestLoadSource_BOMAndPaddedHeaders(t *testing.T) {
	path := writeTestFile(t, "curated.csv", "\xEF\xBB\xBF Game , Developer\nHalo,Bungie\n")

	recs, err := LoadSource(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Halo", recs[0].Game)
	assert.Equal(t, model.Text("Bungie"), recs[0].Developer)
}

func TestLoadSource_DuplicatesKept(t *testing.T) {
	path := writeTestFile(t, "curated.csv", "Game\nHalo\nHalo\nHalo\n")

	recs, err := LoadSource(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestLoad_MissingResource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")

	_, err := LoadSource(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingResource))
	assert.Contains(t, err.Error(), "nope.csv")

	_, err = LoadSales(context.Background(), missing)
	assert.True(t, errors.Is(err, ErrMissingResource))

	_, err = LoadRatings(context.Background(), missing)
	assert.True(t, errors.Is(err, ErrMissingResource))
}

func TestLoad_EmptyResource(t *testing.T) {
	for name, content := range map[string]string{
		"zero_bytes":  "",
		"header_only": "Name,NA_Sales\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := writeTestFile(t, "sales.csv", content)
			_, err := LoadSales(context.Background(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyResource))
		})
	}
}

func TestLoad_MalformedColumn(t *testing.T) {
	path := writeTestFile(t, "ratings.csv", "Title,RAWG Rating\nHalo,4.4\n")

	_, err := LoadRatings(context.Background(), path)
	require.Error(t, err)

	var mce *MalformedColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, ResourceRatings, mce.Resource)
	assert.Equal(t, ColName, mce.Column)

	srcPath := writeTestFile(t, "curated.csv", "Name\nHalo\n")
	_, err = LoadSource(context.Background(), srcPath)
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, ColGame, mce.Column)
}

func TestLoadSales(t *testing.T) {
	path := writeTestFile(t, "sales.csv",
		"Rank,Name,Platform,NA_Sales,EU_Sales,JP_Sales,Other_Sales,Global_Sales\n"+
			"1,Assassin Creed,X360,1.5,1.0,0.2,0.5,3.2\n"+
			"2,Battlefield,PS3,2.0,,0.3,bogus,4.5\n")

	recs, err := LoadSales(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Assassin Creed", recs[0].Name)
	assert.Equal(t, model.Some(1.5), recs[0].NASales)
	assert.Equal(t, model.Some(3.2), recs[0].GlobalSales)

	assert.Equal(t, model.Missing, recs[1].EUSales)
	assert.Equal(t, model.Missing, recs[1].OtherSales)
	assert.Equal(t, model.Some(0.3), recs[1].JPSales)
}

func TestLoadRatings(t *testing.T) {
	path := writeTestFile(t, "ratings.csv",
		"Name,RAWG Rating,Release Year,Metacritic Rating\n"+
			"Assassin Creed,88,2007-11-13,85\n"+
			"Short Row\n")

	recs, err := LoadRatings(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, model.Some(88), recs[0].RawRating)
	assert.Equal(t, model.Some(85), recs[0].MetacriticRating)
	assert.Equal(t, "Short Row", recs[1].Name)
	assert.Equal(t, model.Missing, recs[1].RawRating)
}

func TestLoad_ContextCancelled(t *testing.T) {
	path := writeTestFile(t, "curated.csv", "Game\nHalo\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadSource(ctx, path)
	require.Error(t, err)
}
