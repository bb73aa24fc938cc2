package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validTransaction() Transaction {
	t := Transaction{
		Date:                  time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		CustomerID:            1,
		VendorID:              "V01",
		ChequeNumber:          "000123",
		ChequeAmount:          dec("4850.00"),
		CustomerFeePercentage: dec("2"),
		VendorFeePercentage:   dec("1"),
		Status:                TransactionStatusPending,
	}
	t.ApplyFees(FeeBreakdown{
		CustomerFee:               dec("97.00"),
		NetPayableToCustomer:      dec("4753.00"),
		VendorFee:                 dec("48.50"),
		AmountToReceiveFromVendor: dec("4801.50"),
		Profit:                    dec("48.50"),
	})
	return t
}

func TestTransaction_Validate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tx := validTransaction()
		assert.NoError(t, tx.Validate())
	})

	t.Run("Largest storable amount", func(t *testing.T) {
		tx := validTransaction()
		tx.ChequeAmount = MaxAmount
		tx.PaidToCustomer = decimal.Zero
		tx.ReceivedFromVendor = decimal.Zero
		tx.ProfitWithdrawn = decimal.Zero
		assert.NoError(t, tx.Validate())
	})

	cases := map[string]func(tx *Transaction){
		"zero date":         func(tx *Transaction) { tx.Date = time.Time{} },
		"no customer":       func(tx *Transaction) { tx.CustomerID = 0 },
		"no vendor":         func(tx *Transaction) { tx.VendorID = " " },
		"no cheque number":  func(tx *Transaction) { tx.ChequeNumber = "" },
		"zero amount":       func(tx *Transaction) { tx.ChequeAmount = decimal.Zero },
		"negative pct":      func(tx *Transaction) { tx.CustomerFeePercentage = dec("-1") },
		"pct over 100":      func(tx *Transaction) { tx.VendorFeePercentage = dec("100.01") },
		"pct sub cent":      func(tx *Transaction) { tx.CustomerFeePercentage = dec("2.125") },
		"amount too large":  func(tx *Transaction) { tx.ChequeAmount = dec("1000000000000") },
		"amount sub cent":   func(tx *Transaction) { tx.ChequeAmount = dec("4850.005") },
		"bad status":        func(tx *Transaction) { tx.Status = "lost" },
		"overpaid customer": func(tx *Transaction) { tx.PaidToCustomer = dec("4753.01") },
		"overpaid vendor":   func(tx *Transaction) { tx.ReceivedFromVendor = dec("4801.51") },
		"negative paid":     func(tx *Transaction) { tx.PaidToCustomer = dec("-0.01") },
		"over withdrawn":    func(tx *Transaction) { tx.ProfitWithdrawn = dec("48.51") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tx := validTransaction()
			mutate(&tx)
			err := tx.Validate()
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestTransaction_Outstanding(t *testing.T) {
	tx := validTransaction()
	tx.PaidToCustomer = dec("753")
	tx.ReceivedFromVendor = dec("4801.50")
	tx.ProfitWithdrawn = dec("8.50")

	assert.True(t, dec("4000").Equal(tx.Outstanding(PaymentToCustomer)))
	assert.True(t, tx.Outstanding(PaymentFromVendor).IsZero())
	assert.True(t, dec("40").Equal(tx.Outstanding(PaymentProfitWithdrawal)))

	tx.Profit = dec("-10")
	assert.True(t, tx.WithdrawableProfit().IsZero())
}

func TestTransactionFilter_Normalize(t *testing.T) {
	f := TransactionFilter{Page: 0, PageSize: 10000}
	f.Normalize()
	assert.Equal(t, int32(1), f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)

	f = TransactionFilter{}
	f.Normalize()
	assert.Equal(t, DefaultPageSize, f.PageSize)
}

func TestTransactionFilter_Validate(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := TransactionFilter{DateFrom: &from, DateTo: &to}
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f = TransactionFilter{Status: "weird"}
	assert.ErrorIs(t, f.Validate(), ErrValidation)

	f = TransactionFilter{Status: TransactionStatusBounced}
	assert.NoError(t, f.Validate())
}
