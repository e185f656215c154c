package model

import (
	"database/sql/driver"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Measure is a numeric field that may be absent. The zero value is Missing.
// A missing number is never written as NotAvailable and never reads as 0.
type Measure struct {
	Float64 float64
	Valid   bool
}

// Missing is the absent Measure.
var Missing = Measure{}

// Some returns a present Measure holding v.
func Some(v float64) Measure {
	return Measure{Float64: v, Valid: true}
}

// ParseMeasure parses a numeric cell. Empty cells and the usual null spellings
// (NaN, N/A, null, None) yield Missing without error.
func ParseMeasure(s string) (Measure, error) {
	s = strings.TrimSpace(s)
	if isNullCell(s) {
		return Missing, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing, eris.Wrapf(err, "model: parse measure %q", s)
	}
	return Some(v), nil
}

func isNullCell(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "n/a", "na", "null", "none":
		return true
	}
	return false
}

// Ptr returns nil for Missing, otherwise a pointer to the value.
func (m Measure) Ptr() *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Float64
	return &v
}

// String formats the value in its shortest form, or "" when missing.
func (m Measure) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Float64, 'f', -1, 64)
}

// MarshalCSV implements csvutil.Marshaler. Missing values become empty fields.
func (m Measure) MarshalCSV() ([]byte, error) {
	return []byte(m.String()), nil
}

// MarshalJSON encodes Missing as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Float64)
}

// UnmarshalJSON accepts a number or null.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "model: unmarshal measure")
	}
	*m = Some(v)
	return nil
}

// Value implements driver.Valuer so stores write SQL NULL for Missing.
func (m Measure) Value() (driver.Value, error) {
	if !m.Valid {
		return nil, nil
	}
	return m.Float64, nil
}
