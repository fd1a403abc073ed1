package transform

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/movie-collector/internal/table"
)

// Calendar feature columns.
const (
	ColDay       = "day"
	ColMonth     = "month"
	ColYear      = "year"
	ColDayOfWeek = "day_of_week"
)

// DateLayout is how parsed release dates are written back.
const DateLayout = "2006-01-02"

var releaseDateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseReleaseDate parses a release date value. Nulls, non-strings, and
// unparseable strings report false.
func ParseReleaseDate(v table.Value) (time.Time, bool) {
	s, ok := v.AsString()
	if !ok || v.Kind() != table.KindString {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range releaseDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// DeriveDatetime normalizes release_date and appends day, month, year, and
// day_of_week. Rows whose date cannot be parsed get nulls in all five columns.
func DeriveDatetime(t *table.Table) (*table.Table, error) {
	dates, ok := t.Column(ColReleaseDate)
	if !ok {
		return nil, eris.Errorf("transform: missing column %q", ColReleaseDate)
	}

	n := len(dates)
	release := make([]table.Value, n)
	day := make([]table.Value, n)
	month := make([]table.Value, n)
	year := make([]table.Value, n)
	weekday := make([]table.Value, n)

	for i, v := range dates {
		ts, ok := ParseReleaseDate(v)
		if !ok {
			continue // zero Values are null
		}
		release[i] = table.String(ts.Format(DateLayout))
		day[i] = table.Int(int64(ts.Day()))
		month[i] = table.Int(int64(ts.Month()))
		year[i] = table.Int(int64(ts.Year()))
		weekday[i] = table.String(ts.Weekday().String())
	}

	out := t.Clone()
	for _, c := range []struct {
		name string
		vals []table.Value
	}{
		{ColReleaseDate, release},
		{ColDay, day},
		{ColMonth, month},
		{ColYear, year},
		{ColDayOfWeek, weekday},
	} {
		if err := setOrAdd(out, c.name, c.vals); err != nil {
			return nil, eris.Wrapf(err, "transform: set %s", c.name)
		}
	}
	return out, nil
}

func setOrAdd(t *table.Table, name string, vals []table.Value) error {
	if t.Has(name) {
		return t.SetColumn(name, vals)
	}
	return t.AddColumn(name, vals)
}
