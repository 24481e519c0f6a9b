package listing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/go-faster/errors"
)

// Row is one opaque record with a key that is stable across re-renders of the same data.
type Row struct {
	Key  string
	Data map[string]any
}

// Field renders a top-level field as text; missing and null fields are empty.
func (r Row) Field(name string) string {
	switch v := r.Data[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

type FetchResult struct {
	Items      []Row
	TotalPages int
}

// Project maps a listing response body into a FetchResult. Missing or null items yield an empty
// result and a missing or negative totalPages yields 0.
func Project(body []byte, itemsKey string) (FetchResult, error) {
	result := FetchResult{Items: []Row{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	var envelope map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return result, errors.Wrap(err, "decode listing response")
	}

	if raw, ok := envelope["totalPages"]; ok {
		result.TotalPages = parseTotalPages(raw)
	}

	raw, ok := envelope[itemsKey]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return result, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return result, errors.Wrapf(err, "decode %q", itemsKey)
	}

	seen := make(map[string]int, len(items))
	for _, item := range items {
		data := map[string]any{}
		d := json.NewDecoder(bytes.NewReader(item))
		d.UseNumber()
		var v any
		if err := d.Decode(&v); err != nil {
			return result, errors.Wrapf(err, "decode %q item", itemsKey)
		}
		if obj, ok := v.(map[string]any); ok {
			data = obj
		} else {
			data["value"] = v
		}

		key := identityKey(data)
		if key == "" {
			key = contentKey(data)
		}
		result.Items = append(result.Items, Row{Key: uniqueKey(seen, key), Data: data})
	}
	return result, nil
}

func parseTotalPages(raw json.RawMessage) int {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(max(i, 0))
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

// uniqueKey suffixes duplicates with #n, skipping suffixes that a real key already took.
// seen holds every emitted key and, per base key, the next suffix to try.
func uniqueKey(seen map[string]int, key string) string {
	n, taken := seen[key]
	if !taken {
		seen[key] = 1
		return key
	}
	for n = max(n, 1); ; n++ {
		candidate := fmt.Sprintf("%s#%d", key, n)
		if _, ok := seen[candidate]; !ok {
			seen[key] = n + 1
			seen[candidate] = 1
			return candidate
		}
	}
}

func identityKey(data map[string]any) string {
	for _, field := range []string{"id", "key"} {
		switch v := data[field].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// contentKey hashes the canonical JSON of the row; encoding/json sorts map keys.
func contentKey(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		b = []byte(fmt.Sprint(data))
	}
	sum := sha256.Sum256(b)
	return "row-" + hex.EncodeToString(sum[:8])
}
