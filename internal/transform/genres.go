package transform

import (
	"slices"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/movie-collector/internal/table"
)

// ColGenreCount holds the number of genres set for a row.
const ColGenreCount = "qtd_genres"

// ExplodeGenres drops null-bearing rows, then replaces the genres column with
// one 0/1 indicator column per distinct lowercase genre name found anywhere in
// the table (sorted by name) followed by qtd_genres.
func ExplodeGenres(t *table.Table) (*table.Table, error) {
	if !t.Has(ColGenres) {
		return nil, eris.Errorf("transform: missing column %q", ColGenres)
	}

	clean := DropNulls(t)
	genres, _ := clean.Column(ColGenres)

	lower := cases.Lower(language.Und)
	perRow := make([]map[string]bool, len(genres))
	all := make(map[string]bool)
	for i, v := range genres {
		perRow[i] = make(map[string]bool)
		for _, name := range table.Names(v) {
			folded := lower.String(name)
			perRow[i][folded] = true
			all[folded] = true
		}
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	slices.Sort(names)

	var keep []string
	for _, c := range clean.Columns() {
		if c != ColGenres {
			keep = append(keep, c)
		}
	}
	for _, name := range append(slices.Clone(names), ColGenreCount) {
		if slices.Contains(keep, name) {
			return nil, eris.Errorf("transform: genre column %q overlaps an existing column", name)
		}
	}
	if all[ColGenreCount] {
		return nil, eris.Errorf("transform: genre column %q overlaps the genre count", ColGenreCount)
	}

	out := clean.Select(keep...)
	counts := make([]int64, clean.Len())
	for _, name := range names {
		vals := make([]table.Value, clean.Len())
		for i := range vals {
			if perRow[i][name] {
				vals[i] = table.Int(1)
				counts[i]++
			} else {
				vals[i] = table.Int(0)
			}
		}
		if err := out.AddColumn(name, vals); err != nil {
			return nil, eris.Wrap(err, "transform: add genre column")
		}
	}

	countVals := make([]table.Value, len(counts))
	for i, n := range counts {
		countVals[i] = table.Int(n)
	}
	if err := out.AddColumn(ColGenreCount, countVals); err != nil {
		return nil, eris.Wrap(err, "transform: add genre count")
	}
	return out, nil
}
