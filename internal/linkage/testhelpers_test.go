package linkage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/gamejoin/internal/match"
	"github.com/sells-group/gamejoin/internal/model"
)

type event struct {
	kind  string
	table string
	game  string
	res   match.Result
}

// recordingObserver collects events for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []event
	rows   int
}

func (o *recordingObserver) RowStarted(int, string) {
	o.mu.Lock()
	o.rows++
	o.mu.Unlock()
}

func (o *recordingObserver) Matched(table, game string, res match.Result) {
	o.mu.Lock()
	o.events = append(o.events, event{kind: "matched", table: table, game: game, res: res})
	o.mu.Unlock()
}

func (o *recordingObserver) NoMatch(table, game string, nearest match.Result) {
	o.mu.Lock()
	o.events = append(o.events, event{kind: "nomatch", table: table, game: game, res: nearest})
	o.mu.Unlock()
}

func (o *recordingObserver) find(kind, table string) []event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []event
	for _, e := range o.events {
		if e.kind == kind && e.table == table {
			out = append(out, e)
		}
	}
	return out
}

func source(game string) model.SourceRecord {
	return model.SourceRecord{
		Game:        game,
		ReleaseYear: "2007",
		Developer:   "Ubisoft Montreal",
		Publisher:   "Ubisoft",
		Rating:      "Recommended",
		Review:      "Fine.",
	}
}

func salesRow(name string, na, eu, jp, other, global float64) model.SalesRecord {
	return model.SalesRecord{
		Name:        name,
		NASales:     model.Some(na),
		EUSales:     model.Some(eu),
		JPSales:     model.Some(jp),
		OtherSales:  model.Some(other),
		GlobalSales: model.Some(global),
	}
}

func ratingsRow(name string, rawg, meta float64) model.RatingsRecord {
	return model.RatingsRecord{Name: name, RawRating: model.Some(rawg), MetacriticRating: model.Some(meta)}
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
