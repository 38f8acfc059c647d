package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPercentage(t *testing.T) {
	tests := []struct {
		completed, total int
		want             string
	}{
		{0, 0, "0.00"},
		{0, 3, "0.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{3, 3, "100.00"},
		{1, 8, "12.50"},
		{5, 3, "100.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPercentage(tt.completed, tt.total).String(), "%d/%d", tt.completed, tt.total)
	}
}

func TestPercentageMonotonic(t *testing.T) {
	for total := 1; total <= 50; total++ {
		prev := int64(-1)
		for k := 0; k <= total; k++ {
			p := NewPercentage(k, total)
			assert.Greater(t, int64(p), prev)
			assert.InDelta(t, float64(k)/float64(total)*100, p.Float64(), 0.0051)
			assert.Equal(t, k == total, p == PercentageFull)
			prev = int64(p)
		}
	}
}

func TestPercentageScan(t *testing.T) {
	var p Percentage

	require.NoError(t, p.Scan([]byte("33.33")))
	assert.Equal(t, Percentage(3333), p)

	require.NoError(t, p.Scan("100.00"))
	assert.Equal(t, PercentageFull, p)

	require.NoError(t, p.Scan(nil))
	assert.Equal(t, PercentageZero, p)

	assert.Error(t, p.Scan([]byte("abc")))
	assert.Error(t, p.Scan(true))
}

func TestPercentageJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		P Percentage `json:"p"`
	}{P: 6667})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":66.67}`, string(data))

	var out struct {
		P Percentage `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"p":12.5}`), &out))
	assert.Equal(t, Percentage(1250), out.P)
}

func TestPercentageValue(t *testing.T) {
	v, err := Percentage(5).Value()
	require.NoError(t, err)
	assert.Equal(t, "0.05", v)
}
