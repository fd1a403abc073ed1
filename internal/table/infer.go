package table

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// FromStrings builds a table from text cells, inferring one kind per column:
// all integers → Int, all numbers → Float, all True/False → Bool, else String.
// Empty cells are null and do not take part in inference.
func FromStrings(header []string, rows [][]string) (*Table, error) {
	t := New(header...)
	if len(t.columns) != len(header) {
		return nil, eris.New("table: duplicate column names in header")
	}

	kinds := make([]Kind, len(header))
	for j := range header {
		kinds[j] = inferKind(rows, j)
	}

	for i, rec := range rows {
		if len(rec) > len(header) {
			return nil, eris.Errorf("table: row %d has %d fields, header has %d", i+1, len(rec), len(header))
		}
		row := make([]Value, len(header))
		for j := range rec {
			row[j] = parseAs(rec[j], kinds[j])
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func inferKind(rows [][]string, j int) Kind {
	isInt, isFloat, isBool := true, true, true
	seen := false
	for _, rec := range rows {
		if j >= len(rec) || rec[j] == "" {
			continue
		}
		seen = true
		s := rec[j]
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool && s != "True" && s != "False" {
			isBool = false
		}
		if !isInt && !isFloat && !isBool {
			return KindString
		}
	}
	switch {
	case !seen:
		return KindNull
	case isInt:
		return KindInt
	case isFloat:
		return KindFloat
	case isBool:
		return KindBool
	default:
		return KindString
	}
}

func parseAs(s string, k Kind) Value {
	if s == "" {
		return Null()
	}
	switch k {
	case KindInt:
		i, _ := strconv.ParseInt(s, 10, 64)
		return Int(i)
	case KindFloat:
		f, _ := strconv.ParseFloat(s, 64)
		return Float(f)
	case KindBool:
		return Bool(s == "True")
	default:
		return String(s)
	}
}
