package domain

import "github.com/shopspring/decimal"

// MinorUnits is the number of decimal places every stored and rendered amount is rounded to.
const MinorUnits = 2

var (
	perThousand = decimal.NewFromInt(1000)
	hundred     = decimal.NewFromInt(100)
)

// Charge is the price of quantity units of a service priced per 1000 units.
func Charge(quantity int, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(rate).Div(perThousand).Round(MinorUnits)
}

// CommissionAmount is percent of charge, rounded like any other amount.
func CommissionAmount(charge, percent decimal.Decimal) decimal.Decimal {
	return charge.Mul(percent).Div(hundred).Round(MinorUnits)
}

// Refund returns the part of charge that corresponds to the undelivered remains.
func Refund(charge decimal.Decimal, quantity, remains int) decimal.Decimal {
	if quantity <= 0 || remains <= 0 {
		return decimal.Zero
	}
	if remains >= quantity {
		return charge
	}
	return charge.Mul(decimal.NewFromInt(int64(remains))).
		Div(decimal.NewFromInt(int64(quantity))).
		Round(MinorUnits)
}

func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MinorUnits)
}
