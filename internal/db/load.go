package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/movie-collector/internal/table"
)

// PostgreSQL column types chosen by ColumnType.
const (
	TypeBigint = "BIGINT"
	TypeDouble = "DOUBLE PRECISION"
	TypeBool   = "BOOLEAN"
	TypeJSONB  = "JSONB"
	TypeText   = "TEXT"
)

// ColumnType picks a PostgreSQL type for a column from the kinds of its
// non-null values. Mixed int/float widens to DOUBLE PRECISION; any other
// mix, or an all-null column, is TEXT.
func ColumnType(vals []table.Value) string {
	seen := map[table.Kind]bool{}
	for _, v := range vals {
		if !v.IsNull() {
			seen[v.Kind()] = true
		}
	}
	switch {
	case len(seen) == 1 && seen[table.KindInt]:
		return TypeBigint
	case len(seen) == 1 && seen[table.KindFloat],
		len(seen) == 2 && seen[table.KindInt] && seen[table.KindFloat]:
		return TypeDouble
	case len(seen) == 1 && seen[table.KindBool]:
		return TypeBool
	case len(seen) == 1 && seen[table.KindJSON]:
		return TypeJSONB
	default:
		return TypeText
	}
}

// CreateTableSQL renders a CREATE TABLE statement for t.
func CreateTableSQL(schema, name string, t *table.Table) string {
	defs := make([]string, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		vals, _ := t.Column(col)
		defs = append(defs, fmt.Sprintf("%s %s", pgx.Identifier{col}.Sanitize(), ColumnType(vals)))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", identifier(schema, name).Sanitize(), strings.Join(defs, ", "))
}

// LoadTable replaces schema.name with the contents of t inside one
// transaction: DROP TABLE IF EXISTS, CREATE TABLE, then COPY.
// It returns the number of rows copied.
func LoadTable(ctx context.Context, pool Pool, schema, name string, t *table.Table) (int64, error) {
	if len(t.Columns()) == 0 {
		return 0, eris.Errorf("db: load %s: table has no columns", qualified(schema, name))
	}

	types := make([]string, len(t.Columns()))
	for j, col := range t.Columns() {
		vals, _ := t.Column(col)
		types[j] = ColumnType(vals)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: load: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", identifier(schema, name).Sanitize())
	if _, err := tx.Exec(ctx, dropSQL); err != nil {
		return 0, eris.Wrapf(err, "db: load: drop %s", qualified(schema, name))
	}
	if _, err := tx.Exec(ctx, CreateTableSQL(schema, name, t)); err != nil {
		return 0, eris.Wrapf(err, "db: load: create %s", qualified(schema, name))
	}

	n, err := CopyFrom(ctx, tx, schema, name, t.Columns(), copyRows(t, types))
	if err != nil {
		return 0, eris.Wrap(err, "db: load")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: load: commit tx")
	}

	zap.L().Info("table loaded",
		zap.String("table", qualified(schema, name)),
		zap.Int64("rows", n),
	)
	return n, nil
}

// copyRows converts table rows to COPY values matching the column types.
func copyRows(t *table.Table, types []string) [][]any {
	rows := make([][]any, t.Len())
	for i := range t.Len() {
		src := t.Row(i)
		row := make([]any, len(src))
		for j, v := range src {
			row[j] = copyValue(v, types[j])
		}
		rows[i] = row
	}
	return rows
}

func copyValue(v table.Value, typ string) any {
	if v.IsNull() {
		return nil
	}
	switch typ {
	case TypeDouble:
		f, _ := v.AsFloat()
		return f
	case TypeText:
		return v.Text()
	default:
		return v.Any()
	}
}
