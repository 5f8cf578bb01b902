// Package pricing holds the GST arithmetic applied to every order line.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line returns the GST amount and the line total for one unit at base price.
// The GST amount is rounded half away from zero to two places.
func Line(base, gstPercent decimal.Decimal) (gst, total decimal.Decimal) {
	gst = base.Mul(gstPercent).Div(hundred).Round(2)
	total = base.Add(gst)
	return gst, total
}

// Sum adds line totals in order.
func Sum(totals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return sum
}
