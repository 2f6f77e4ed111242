package aggregate

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// NetRevenue computes the owner's contractual cut of one row's gross figure:
// gross × share/100. It runs once per row at the share resolved for the
// batch; net is never re-derived from stored gross figures later.
func NetRevenue(gross, sharePercent decimal.Decimal) decimal.Decimal {
	return gross.Mul(sharePercent).Div(hundred)
}
