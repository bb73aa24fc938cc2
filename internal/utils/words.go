package utils

import (
	"fmt"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// AmountInWords renders an amount the way it is written on a cheque memo,
// e.g. "four thousand eight hundred fifty and 00/100".
func AmountInWords(amount decimal.Decimal) string {
	amount = RoundCents(amount.Abs())
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()
	return fmt.Sprintf("%s and %02d/100", num2words.Convert(int(whole)), cents)
}
