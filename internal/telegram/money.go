package telegram

import "github.com/shopspring/decimal"

// USD renders integer cents as a dollar string. Money stays in minor units
// everywhere else; this is display only.
func USD(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2) + " USD"
}
