package linkage

import "github.com/sells-group/gamejoin/internal/model"

// Table is a read-only target table with its candidate names extracted once.
// It is shared across goroutines during a join and never modified.
type Table[R any] struct {
	rows  []R
	names []string
	first map[string]int
}

// NewTable indexes rows by the name returned from key.
func NewTable[R any](rows []R, key func(R) string) *Table[R] {
	t := &Table[R]{
		rows:  rows,
		names: make([]string, len(rows)),
		first: make(map[string]int, len(rows)),
	}
	for i, r := range rows {
		name := key(r)
		t.names[i] = name
		if _, ok := t.first[name]; !ok {
			t.first[name] = i
		}
	}
	return t
}

// Names returns the candidate list in row order. Callers must not modify it.
func (t *Table[R]) Names() []string {
	if t == nil {
		return nil
	}
	return t.names
}

// Len returns the number of rows.
func (t *Table[R]) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Lookup returns the first row whose name equals name exactly.
func (t *Table[R]) Lookup(name string) (R, bool) {
	var zero R
	if t == nil {
		return zero, false
	}
	i, ok := t.first[name]
	if !ok {
		return zero, false
	}
	return t.rows[i], true
}

type (
	SalesTable   = Table[model.SalesRecord]
	RatingsTable = Table[model.RatingsRecord]
)

// NewSalesTable indexes sales rows by Name.
func NewSalesTable(rows []model.SalesRecord) *SalesTable {
	return NewTable(rows, func(r model.SalesRecord) string { return r.Name })
}

// NewRatingsTable indexes ratings rows by Name.
func NewRatingsTable(rows []model.RatingsRecord) *RatingsTable {
	return NewTable(rows, func(r model.RatingsRecord) string { return r.Name })
}
