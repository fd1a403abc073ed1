package table

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// DecodeRecord decodes a single JSON object into a Record, keeping the key
// order of the document. Nested arrays and objects are kept as raw JSON.
func DecodeRecord(body []byte) (Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, eris.New("json: invalid document")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, eris.Errorf("json: expected object, got %s", doc.Type)
	}

	var rec Record
	seen := make(map[string]int)
	doc.ForEach(func(key, val gjson.Result) bool {
		v := valueOf(val)
		if i, dup := seen[key.String()]; dup {
			rec[i].Value = v // last duplicate key wins, as encoding/json does
			return true
		}
		seen[key.String()] = len(rec)
		rec = append(rec, Field{Name: key.String(), Value: v})
		return true
	})
	return rec, nil
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
				return Int(i)
			}
		}
		return Float(r.Num)
	case gjson.JSON:
		return JSON(r.Raw)
	default:
		return Null()
	}
}

// Names extracts the string "name" field of each object in a JSON array value.
// String values holding JSON text, as read back from CSV, are accepted too.
// Non-array values, non-object elements, and missing or empty names yield nothing.
func Names(v Value) []string {
	raw, ok := v.AsString()
	if !ok || !gjson.Valid(raw) {
		return nil
	}
	arr := gjson.Parse(raw)
	if !arr.IsArray() {
		return nil
	}
	var names []string
	arr.ForEach(func(_, el gjson.Result) bool {
		n := el.Get("name")
		if el.IsObject() && n.Type == gjson.String && n.Str != "" {
			names = append(names, n.Str)
		}
		return true
	})
	return names
}
