// internal/catalog/raw.go
package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawProductRecord is a catalog record as fetched from the hosted data
// service. Field shapes are not trusted: images may be a JSON array, a
// JSON-encoded string or an array of {url} objects, colors/sizes may be
// JSON-encoded strings, price may be a number or a numeric string. Each
// loose field is resolved exactly once, here, so nothing downstream ever
// shape-checks again.
type RawProductRecord struct {
	ID          FlexString      `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Price       json.RawMessage `json:"price"`
	OldPrice    json.RawMessage `json:"old_price"`
	Images      json.RawMessage `json:"images"`
	Image       string          `json:"image"`
	ImageURL    string          `json:"image_url"`
	Colors      json.RawMessage `json:"colors"`
	Sizes       json.RawMessage `json:"sizes"`
	Stock       json.RawMessage `json:"stock"`
}

// FlexString accepts a JSON string or number and canonicalizes to a string.
// Product identifiers arrive both ways.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	// Anything else degrades to the raw token rather than failing the record.
	*f = FlexString(strings.Trim(trimmed, `"`))
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// decodeNumber coerces a loose JSON value to a finite non-negative float.
// Numbers pass through, numeric strings are parsed, everything else is 0.
func decodeNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		n = parsed
	}

	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0
	}
	return n
}

// decodeStringList handles the three shapes a colors/sizes field shows up
// in: a native array, a JSON-encoded string holding an array, or absent.
// Unparsable input yields an empty list.
func decodeStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var values []interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(encoded), &values); err != nil {
			return nil
		}
	}

	return stringElements(values)
}

// decodeImageList resolves the images field: native array (strings or {url}
// objects), or a JSON-encoded string holding such an array. The second
// return reports whether the field held anything parsable at all, so the
// caller can fall back to the single-image columns.
func decodeImageList(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var values []interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, false
		}
		if err := json.Unmarshal([]byte(encoded), &values); err != nil {
			return nil, false
		}
	}

	return imageElements(values), true
}

func stringElements(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func imageElements(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch img := v.(type) {
		case string:
			if img != "" {
				out = append(out, img)
			}
		case map[string]interface{}:
			if url, ok := img["url"].(string); ok && url != "" {
				out = append(out, url)
			}
		}
	}
	return out
}
