package utils

import (
	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// Outstanding is an open amount on one transaction, as seen by an allocator.
type Outstanding struct {
	TransactionID int32
	Amount        decimal.Decimal
}

// AllocateFIFO spreads amount over open items in the given order (oldest first)
// without exceeding any item's outstanding amount. It returns the allocations
// and whatever could not be placed.
func AllocateFIFO(amount decimal.Decimal, open []Outstanding) ([]domain.Allocation, decimal.Decimal) {
	remaining := RoundCents(amount)
	var allocs []domain.Allocation
	for _, o := range open {
		if !remaining.IsPositive() {
			break
		}
		if !o.Amount.IsPositive() {
			continue
		}
		share := decimal.Min(remaining, o.Amount)
		allocs = append(allocs, domain.Allocation{TransactionID: o.TransactionID, Amount: share})
		remaining = remaining.Sub(share)
	}
	return allocs, remaining
}

// OpenAmounts lists what is still outstanding on each transaction for a payment kind.
func OpenAmounts(txs []domain.Transaction, kind domain.PaymentKind) []Outstanding {
	out := make([]Outstanding, 0, len(txs))
	for i := range txs {
		amt := txs[i].Outstanding(kind)
		if amt.IsPositive() {
			out = append(out, Outstanding{TransactionID: txs[i].ID, Amount: amt})
		}
	}
	return out
}
