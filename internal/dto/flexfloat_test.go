package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	testCases := []struct {
		name  string
		json  string
		valid bool
		value float64
	}{
		{"число", `12.5`, true, 12.5},
		{"целое", `7`, true, 7},
		{"строка с точкой", `"12.5"`, true, 12.5},
		{"строка с запятой", `"12,5"`, true, 12.5},
		{"строка с пробелами", `" 3,14 "`, true, 3.14},
		{"отрицательное", `"-0,5"`, true, -0.5},
		{"null", `null`, false, 0},
		{"пустая строка", `""`, false, 0},
		{"мусор", `"abc"`, false, 0},
		{"NaN строкой", `"NaN"`, false, 0},
		{"Inf строкой", `"Inf"`, false, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexFloat
			// распарсить можно всё: нечисло — это "не прислано", а не 400
			require.NoError(t, json.Unmarshal([]byte(tc.json), &f))
			assert.Equal(t, tc.valid, f.Valid)
			if tc.valid {
				assert.InDelta(t, tc.value, f.Float64, 1e-9)
			}
		})
	}
}

func TestFlexFloatInStruct(t *testing.T) {
	var in struct {
		Price  FlexFloat `json:"price"`
		Markup FlexFloat `json:"markup"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": "100,50"}`), &in))

	assert.True(t, in.Price.Valid)
	assert.InDelta(t, 100.5, in.Price.Float64, 1e-9)
	assert.False(t, in.Markup.Valid, "непересланное поле остаётся пустым")
	assert.Nil(t, in.Markup.Ptr())
}

func TestFlexFloatMarshal(t *testing.T) {
	b, err := json.Marshal(NewFlexFloat(2.5))
	require.NoError(t, err)
	assert.Equal(t, `2.5`, string(b))

	b, err = json.Marshal(FlexFloat{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}
