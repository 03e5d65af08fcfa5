package fileio

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// internal bookkeeping keys from exported datasets; they must not survive a
// re-import as regular columns.
var jsonDropKeys = map[string]struct{}{
	"id": {}, "created_at": {}, "updated_at": {},
}

// readJSON reads an exported order dump: a JSON array of flat objects.
// Values may be strings, numbers or booleans; everything is stringified since
// normalization downstream works on raw strings anyway.
func readJSON(r io.Reader) ([]map[string]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json: expected an array of objects: %w", err)
	}

	out := make([]map[string]string, 0, len(raw))
	for _, obj := range raw {
		m := make(map[string]string, len(obj))
		for k, v := range obj {
			if _, drop := jsonDropKeys[k]; drop {
				continue
			}
			m[k] = stringify(v)
		}
		if len(m) > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
