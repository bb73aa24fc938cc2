package utils

import (
	"sort"

	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// EmptySummary is the all-zero summary.
func EmptySummary() domain.Summary {
	return domain.Summary{
		TotalChequeAmount:    decimal.Zero,
		TotalCustomerFees:    decimal.Zero,
		TotalVendorFees:      decimal.Zero,
		TotalProfit:          decimal.Zero,
		TotalProfitWithdrawn: decimal.Zero,
		OutstandingBalance:   decimal.Zero,
	}
}

// BuildSummary aggregates business totals. The outstanding balance only
// counts vendor receivables that are still positive.
func BuildSummary(txs []domain.Transaction) domain.Summary {
	s := EmptySummary()
	for i := range txs {
		tx := &txs[i]
		s.TransactionCount++
		switch tx.Status {
		case domain.TransactionStatusPending:
			s.PendingCount++
		case domain.TransactionStatusCompleted:
			s.CompletedCount++
		case domain.TransactionStatusBounced:
			s.BouncedCount++
		}
		s.TotalChequeAmount = s.TotalChequeAmount.Add(tx.ChequeAmount)
		s.TotalCustomerFees = s.TotalCustomerFees.Add(tx.CustomerFee)
		s.TotalVendorFees = s.TotalVendorFees.Add(tx.VendorFee)
		s.TotalProfit = s.TotalProfit.Add(tx.Profit)
		s.TotalProfitWithdrawn = s.TotalProfitWithdrawn.Add(tx.ProfitWithdrawn)
		if open := tx.OutstandingFromVendor(); open.IsPositive() {
			s.OutstandingBalance = s.OutstandingBalance.Add(open)
		}
	}
	return s
}

// Rollup groups transactions into calendar buckets, oldest first.
func Rollup(txs []domain.Transaction, period domain.Period) ([]domain.PeriodBucket, error) {
	if !period.Valid() {
		return nil, domain.NewValidationError("invalid period %q", period)
	}
	buckets := make(map[string]*domain.PeriodBucket)
	for i := range txs {
		tx := &txs[i]
		key := PeriodKey(tx.Date, period)
		b, ok := buckets[key]
		if !ok {
			b = &domain.PeriodBucket{
				Key:          key,
				Start:        PeriodStart(tx.Date, period),
				ChequeAmount: decimal.Zero,
				Profit:       decimal.Zero,
			}
			buckets[key] = b
		}
		b.TransactionCount++
		b.ChequeAmount = b.ChequeAmount.Add(tx.ChequeAmount)
		b.Profit = b.Profit.Add(tx.Profit)
	}

	out := make([]domain.PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
