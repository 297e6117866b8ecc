package observation

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	IDColumn   = "id"
)

// Date is a day-granular timestamp that round-trips through CSV as
// YYYY-MM-DD instead of RFC3339.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalCSV() (string, error) {
	return d.Format(DateLayout), nil
}

func (d *Date) UnmarshalCSV(raw string) error {
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", raw, err)
	}
	d.Time = parsed
	return nil
}

// Observation is one long-format record. A nil Value marks a missing
// measurement and is never coerced to zero.
type Observation struct {
	CellID string   `csv:"id"`
	Date   Date     `csv:"date"`
	Value  *float64 `csv:"value"`
}
