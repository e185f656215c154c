package linkage

import (
	"go.uber.org/zap"

	"github.com/sells-group/gamejoin/internal/match"
)

// Target tables a source row is matched against.
const (
	TableSales   = "sales"
	TableRatings = "ratings"
)

// Observer receives matching events. Implementations must be safe for
// concurrent use; Process calls them from several goroutines.
type Observer interface {
	RowStarted(index int, game string)
	Matched(table, game string, result match.Result)
	// NoMatch reports a rejected row. nearest is the best candidate that was
	// suppressed by a threshold, or match.NoMatch when the table is empty.
	NoMatch(table, game string, nearest match.Result)
}

// Nop discards every event.
type Nop struct{}

func (Nop) RowStarted(int, string)               {}
func (Nop) Matched(string, string, match.Result) {}
func (Nop) NoMatch(string, string, match.Result) {}

// ZapObserver logs matching events to a zap logger.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver returns an Observer backed by log.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

func (o *ZapObserver) RowStarted(index int, game string) {
	o.log.Debug("linkage: processing row", zap.Int("row", index), zap.String("game", game))
}

func (o *ZapObserver) Matched(table, game string, result match.Result) {
	o.log.Debug("linkage: match found",
		zap.String("table", table),
		zap.String("game", game),
		zap.String("candidate", result.Name),
		zap.Float64("score", result.Score),
	)
}

func (o *ZapObserver) NoMatch(table, game string, nearest match.Result) {
	fields := []zap.Field{zap.String("table", table), zap.String("game", game)}
	if nearest.Found {
		fields = append(fields,
			zap.String("nearest", nearest.Name),
			zap.Float64("score", nearest.Score),
		)
	}
	o.log.Warn("linkage: no match found", fields...)
}
