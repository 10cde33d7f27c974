package rtdb

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	falsy := []any{nil, false, "", float64(0), math.NaN(), json.Number("0"), 0, int64(0)}
	for _, v := range falsy {
		require.False(t, Truthy(v), "%#v", v)
	}

	truthy := []any{true, "x", float64(123), json.Number("1.5"), 7, map[string]any{}, []any{}}
	for _, v := range truthy {
		require.True(t, Truthy(v), "%#v", v)
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		in   any
		want string
		ok   bool
	}{
		{in: "shipped", want: "shipped", ok: true},
		{in: float64(123), want: "123", ok: true},
		{in: 1.5, want: "1.5", ok: true},
		{in: float64(1700000000123), want: "1700000000123", ok: true},
		{in: json.Number("42"), want: "42", ok: true},
		{in: true, want: "true", ok: true},
		{in: 9, want: "9", ok: true},
		{in: nil, want: "", ok: false},
		{in: map[string]any{"a": 1}, want: "", ok: false},
		{in: []any{"a"}, want: "", ok: false},
	}

	for _, tc := range cases {
		got, ok := Text(tc.in)
		require.Equal(t, tc.ok, ok, "%#v", tc.in)
		require.Equal(t, tc.want, got, "%#v", tc.in)
	}
}

func TestObject(t *testing.T) {
	require.Nil(t, Object(nil))
	require.Nil(t, Object("text"))
	require.Nil(t, Object([]any{1}))
	require.Equal(t, map[string]any{"k": "v"}, Object(map[string]any{"k": "v"}))
}
