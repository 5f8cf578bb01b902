package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	tests := []struct {
		base, pct, gst, total string
	}{
		{"100.00", "18", "18.00", "118.00"},
		{"150.00", "18", "27.00", "177.00"},
		{"99.99", "5", "5.00", "104.99"},
		{"10.01", "12.5", "1.25", "11.26"},
		{"0.10", "5", "0.01", "0.11"},
		{"250.00", "0", "0", "250.00"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"@"+tt.pct, func(t *testing.T) {
			gst, total := Line(decimal.RequireFromString(tt.base), decimal.RequireFromString(tt.pct))
			require.True(t, gst.Equal(decimal.RequireFromString(tt.gst)), "gst %s", gst)
			require.True(t, total.Equal(decimal.RequireFromString(tt.total)), "total %s", total)
		})
	}
}

func TestSum(t *testing.T) {
	got := Sum([]decimal.Decimal{
		decimal.RequireFromString("118.00"),
		decimal.RequireFromString("0.11"),
		decimal.RequireFromString("104.99"),
	})
	require.True(t, got.Equal(decimal.RequireFromString("223.10")))
	require.True(t, Sum(nil).IsZero())
}
