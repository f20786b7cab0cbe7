package points

import (
	"github.com/shopspring/decimal"
)

// Calculator converts monetary amounts to integer point awards with
// a fixed points-per-currency-unit rate. Pure: no state besides the rate.
type Calculator struct {
	rate decimal.Decimal
}

func NewCalculator(rate decimal.Decimal) Calculator {
	return Calculator{rate: rate}
}

// Points returns trunc(amount * rate)
// Unparseable or negative amounts award zero points rather than failing:
// a broken total on an otherwise valid purchase should not reject the event
func (c Calculator) Points(amount string) int64 {
	d, err := decimal.NewFromString(amount)
	if err != nil || d.IsNegative() {
		return 0
	}

	return d.Mul(c.rate).IntPart()
}
