package utils

import (
	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundCents rounds to two decimal places, half away from zero. Amounts in the
// ledger are positive, so this is round-half-up at the cent.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculateFees derives the fee split for a cheque:
//
//	customer_fee                  = amount * customerPct / 100
//	net_payable_to_customer       = amount - customer_fee
//	vendor_fee                    = amount * vendorPct / 100
//	amount_to_receive_from_vendor = amount - vendor_fee
//	profit                        = customer_fee - vendor_fee
//
// The amount is rounded to the cent first and each fee is rounded to the cent,
// so fee + net always equals the amount exactly. Profit is negative when the
// vendor rate exceeds the customer rate.
func CalculateFees(amount, customerPct, vendorPct decimal.Decimal) (domain.FeeBreakdown, error) {
	amount = RoundCents(amount)
	if !amount.IsPositive() {
		return domain.FeeBreakdown{}, domain.NewValidationError("cheque amount must be positive")
	}
	if customerPct.IsNegative() {
		return domain.FeeBreakdown{}, domain.NewValidationError("customer fee percentage cannot be negative")
	}
	if vendorPct.IsNegative() {
		return domain.FeeBreakdown{}, domain.NewValidationError("vendor fee percentage cannot be negative")
	}

	customerFee := RoundCents(amount.Mul(customerPct).Div(hundred))
	vendorFee := RoundCents(amount.Mul(vendorPct).Div(hundred))

	return domain.FeeBreakdown{
		CustomerFee:               customerFee,
		NetPayableToCustomer:      amount.Sub(customerFee),
		VendorFee:                 vendorFee,
		AmountToReceiveFromVendor: amount.Sub(vendorFee),
		Profit:                    customerFee.Sub(vendorFee),
	}, nil
}
