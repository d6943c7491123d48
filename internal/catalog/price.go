package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price is the price as supplied by a caller. The browsing front end posts
// form values, so both JSON numbers and numeric strings are accepted; the
// value is only interpreted during validation.
type Price struct {
	raw string
	set bool
}

// PriceOf returns a Price holding f.
func PriceOf(f float64) Price {
	return Price{raw: strconv.FormatFloat(f, 'f', -1, 64), set: true}
}

// Float reports the numeric value and whether it is a finite number.
func (p Price) Float() (float64, bool) {
	if !p.set || p.raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(p.raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*p = Price{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price{raw: strings.TrimSpace(s), set: true}
		return nil
	}
	*p = Price{raw: string(data), set: true}
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if f, ok := p.Float(); ok {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	if !p.set {
		return []byte("null"), nil
	}
	return json.Marshal(p.raw)
}
