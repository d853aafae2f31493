package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexFloat — число, которое фронт может прислать как number, как строку
// с точкой или как строку с запятой ("12,5"). Нечисловое и нефинитное
// (NaN, Inf) трактуется как отсутствующее значение, а не как ошибка.
type FlexFloat struct {
	Float64 float64
	Valid   bool
}

func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Float64: v, Valid: true}
}

func (f *FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Float64, f.Valid = 0, false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return nil
		}
	}

	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	f.Float64, f.Valid = v, true
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Float64)
}
