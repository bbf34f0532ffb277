// Package flexjson holds JSON scalar types for provider payloads that are
// not consistent about how they encode numbers.
package flexjson

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Number keeps the raw text of a JSON number or string so parsing can be
// deferred to a boundary that knows the right default. Null and absent
// values leave it empty.
type Number string

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	// Anything else (numbers, booleans, objects) is kept verbatim and will
	// fail to parse later instead of failing the whole payload here.
	*n = Number(data)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	if _, ok := n.Float64(); ok {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// Float64 parses the value. ok is false when it is empty, not numeric, or
// not finite ("NaN", "Inf" and "Infinity" parse but cannot be encoded).
func (n Number) Float64() (float64, bool) {
	if n == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int parses the value as an integer, accepting integral floats like "12.0".
func (n Number) Int() (int, bool) {
	f, ok := n.Float64()
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
