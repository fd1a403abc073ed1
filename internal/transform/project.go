// Package transform derives the prepared dataset from the raw catalog table.
// Every operation returns a new table and leaves its input untouched.
package transform

import (
	"github.com/sells-group/movie-collector/internal/table"
)

// Canonical column names.
const (
	ColID            = "id"
	ColIMDbID        = "imdb_id"
	ColOriginalTitle = "original_title"
	ColReleaseDate   = "release_date"
	ColRuntime       = "runtime"
	ColRevenue       = "revenue"
	ColGenres        = "genres"
)

// Columns is the canonical projection, in output order.
var Columns = []string{
	ColID,
	ColIMDbID,
	ColOriginalTitle,
	ColReleaseDate,
	ColRuntime,
	ColRevenue,
	ColGenres,
}

// Project keeps exactly the canonical columns in canonical order.
// Canonical columns missing from t are all-null in the result.
func Project(t *table.Table) *table.Table {
	return t.Select(Columns...)
}

// DropNulls removes every row that holds a null in any column.
func DropNulls(t *table.Table) *table.Table {
	return t.Filter(func(row []table.Value) bool {
		for _, v := range row {
			if v.IsNull() {
				return false
			}
		}
		return true
	})
}
