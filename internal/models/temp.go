package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Temp is a temperature exactly as the weather service reported it. The
// service sends text (sometimes with JMA quality marks), numbers, or null.
type Temp string

// Value parses the temperature. Absent or non-numeric values report false.
func (t Temp) Value() (float64, bool) {
	s := strings.TrimSpace(string(t))
	// JMA marks estimated or incomplete values with a trailing ")" or "]".
	s = strings.TrimRight(s, ")]*# ")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Valid reports whether the temperature is numeric.
func (t Temp) Valid() bool {
	_, ok := t.Value()
	return ok
}

func (t *Temp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Temp(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("temperature: unexpected JSON value %s", data)
	}
	*t = Temp(data)
	return nil
}

func (t Temp) MarshalJSON() ([]byte, error) {
	if t == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}
