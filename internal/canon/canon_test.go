package canon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"bool", true, `true`},
		{"int", 42, `42`},
		{"negative int64", int64(-7), `-7`},
		{"uint8", uint8(255), `255`},
		{"integral float", 112.0, `112`},
		{"fraction", 1.5, `1.5`},
		{"tiny float", 1e-7, `1e-07`},
		{"zero float", 0.0, `0`},
		{"string", "hello", `"hello"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"escapes", "q\"b\\n\n\x01", `"q\"b\\n\n\u0001"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
		{"slice", []any{1, "a", nil}, `[1,"a",null]`},
		{"nil slice", []string(nil), `[]`},
		{"map sorted", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"nested", map[string]any{"x": []any{map[string]any{"k": false}}}, `{"x":[{"k":false}]}`},
		{"typed map", map[string]int{"z": 1, "y": 2}, `{"y":2,"z":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshal_ShortestFloat(t *testing.T) {
	price, rate := 100.0, 1.1
	got, err := Marshal(float64(price*rate) + 2)
	require.NoError(t, err)
	assert.Equal(t, "112.00000000000001", string(got))
}

func TestMarshal_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single U+00E9.
	got, err := Marshal("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshal_UTF16KeyOrder(t *testing.T) {
	// U+FB01 sorts before U+1F600 in UTF-8 but after it in UTF-16
	// (U+1F600 encodes as the surrogate pair D83D DE00).
	got, err := Marshal(map[string]any{"\U0001F600": 1, "ﬁ": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"ﬁ\":2}", string(got))
}

func TestMarshal_Unsupported(t *testing.T) {
	for _, in := range []any{
		func() {},
		make(chan int),
		map[int]string{1: "a"},
		math.NaN(),
		math.Inf(1),
		[]any{func() {}},
	} {
		_, err := Marshal(in)
		assert.Error(t, err, "%T", in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, `[1,2]`, String([]int{1, 2}))
	assert.Equal(t, "<map[1:a]>", String(map[int]string{1: "a"}))
}
