package points

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCalculator(t *testing.T) {
	t.Run("rate 3", func(t *testing.T) {
		calc := NewCalculator(decimal.NewFromInt(3))

		tests := []struct {
			name     string
			amount   string
			expected int64
		}{
			{"integer amount", "10", 30},
			{"amount with cents", "10.00", 30},
			{"cents rounded down", "5.99", 17},
			{"truncate toward zero", "0.33", 0},
			{"zero", "0", 0},
			{"zero with cents", "0.00", 0},
			{"negative amount", "-10.00", 0},
			{"unparseable amount", "ten dollars", 0},
			{"empty amount", "", 0},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				require.Equal(t, tt.expected, calc.Points(tt.amount))
			})
		}
	})

	t.Run("fractional rate", func(t *testing.T) {
		rate, err := decimal.NewFromString("0.5")
		require.NoError(t, err)
		calc := NewCalculator(rate)

		require.Equal(t, int64(5), calc.Points("10.00"))
		require.Equal(t, int64(0), calc.Points("1.99"), "0.995 points should truncate to zero")
	})

	t.Run("deterministic", func(t *testing.T) {
		calc := NewCalculator(decimal.NewFromInt(3))

		first := calc.Points("123.45")
		for range 10 {
			require.Equal(t, first, calc.Points("123.45"))
		}
	})
}
