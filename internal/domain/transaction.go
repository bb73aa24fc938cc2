package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest money value the ledger columns hold (NUMERIC(14,2)).
var MaxAmount = decimal.RequireFromString("999999999999.99")

func validateAmount(field string, v decimal.Decimal) error {
	if v.GreaterThan(MaxAmount) {
		return NewValidationError("%s exceeds %s", field, MaxAmount.StringFixed(2))
	}
	if !v.Equal(v.Round(2)) {
		return NewValidationError("%s allows at most 2 decimal places", field)
	}
	return nil
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusBounced   TransactionStatus = "bounced"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusBounced:
		return true
	}
	return false
}

// PaymentKind selects which running total a payment moves.
type PaymentKind string

const (
	PaymentToCustomer       PaymentKind = "customer"
	PaymentFromVendor       PaymentKind = "vendor"
	PaymentProfitWithdrawal PaymentKind = "profit"
)

func (k PaymentKind) Valid() bool {
	switch k {
	case PaymentToCustomer, PaymentFromVendor, PaymentProfitWithdrawal:
		return true
	}
	return false
}

// FeeBreakdown holds the amounts derived from a cheque amount and the two fee rates.
type FeeBreakdown struct {
	CustomerFee               decimal.Decimal `json:"customer_fee"`
	NetPayableToCustomer      decimal.Decimal `json:"net_payable_to_customer"`
	VendorFee                 decimal.Decimal `json:"vendor_fee"`
	AmountToReceiveFromVendor decimal.Decimal `json:"amount_to_receive_from_vendor"`
	Profit                    decimal.Decimal `json:"profit"`
}

type Transaction struct {
	ID                        int32             `json:"id"`
	Date                      time.Time         `json:"date"`
	CustomerID                int32             `json:"customer_id"`
	CustomerName              string            `json:"customer_name,omitempty"`
	VendorID                  string            `json:"vendor_id"`
	VendorName                string            `json:"vendor_name,omitempty"`
	ChequeNumber              string            `json:"cheque_number"`
	ChequeAmount              decimal.Decimal   `json:"cheque_amount"`
	CustomerFeePercentage     decimal.Decimal   `json:"customer_fee_percentage"`
	VendorFeePercentage       decimal.Decimal   `json:"vendor_fee_percentage"`
	CustomerFee               decimal.Decimal   `json:"customer_fee"`
	NetPayableToCustomer      decimal.Decimal   `json:"net_payable_to_customer"`
	VendorFee                 decimal.Decimal   `json:"vendor_fee"`
	AmountToReceiveFromVendor decimal.Decimal   `json:"amount_to_receive_from_vendor"`
	Profit                    decimal.Decimal   `json:"profit"`
	Status                    TransactionStatus `json:"status"`
	PaidToCustomer            decimal.Decimal   `json:"paid_to_customer"`
	ReceivedFromVendor        decimal.Decimal   `json:"received_from_vendor"`
	ProfitWithdrawn           decimal.Decimal   `json:"profit_withdrawn"`
	Notes                     string            `json:"notes"`
	AmountInWords             string            `json:"amount_in_words,omitempty"`
	CreatedOn                 time.Time         `json:"created_on"`
	UpdatedOn                 time.Time         `json:"updated_on"`
}

// ApplyFees copies derived amounts onto the transaction. Derived fields are
// never edited any other way.
func (t *Transaction) ApplyFees(f FeeBreakdown) {
	t.CustomerFee = f.CustomerFee
	t.NetPayableToCustomer = f.NetPayableToCustomer
	t.VendorFee = f.VendorFee
	t.AmountToReceiveFromVendor = f.AmountToReceiveFromVendor
	t.Profit = f.Profit
}

func (t *Transaction) OutstandingToCustomer() decimal.Decimal {
	return t.NetPayableToCustomer.Sub(t.PaidToCustomer)
}

func (t *Transaction) OutstandingFromVendor() decimal.Decimal {
	return t.AmountToReceiveFromVendor.Sub(t.ReceivedFromVendor)
}

// WithdrawableProfit is what is left of a positive profit after withdrawals.
// Loss-making transactions have nothing to withdraw.
func (t *Transaction) WithdrawableProfit() decimal.Decimal {
	if !t.Profit.IsPositive() {
		return decimal.Zero
	}
	return t.Profit.Sub(t.ProfitWithdrawn)
}

// Outstanding returns the remaining amount for the running total a payment kind moves.
func (t *Transaction) Outstanding(kind PaymentKind) decimal.Decimal {
	switch kind {
	case PaymentToCustomer:
		return t.OutstandingToCustomer()
	case PaymentFromVendor:
		return t.OutstandingFromVendor()
	case PaymentProfitWithdrawal:
		return t.WithdrawableProfit()
	}
	return decimal.Zero
}

// HasPayments reports whether any running total has moved. Deposits are
// allocated against these totals, so such a transaction cannot be removed.
func (t *Transaction) HasPayments() bool {
	return t.PaidToCustomer.IsPositive() || t.ReceivedFromVendor.IsPositive() || t.ProfitWithdrawn.IsPositive()
}

func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return NewValidationError("date is required")
	}
	if t.CustomerID <= 0 {
		return NewValidationError("customer is required")
	}
	if strings.TrimSpace(t.VendorID) == "" {
		return NewValidationError("vendor is required")
	}
	num := strings.TrimSpace(t.ChequeNumber)
	if num == "" {
		return NewValidationError("cheque number is required")
	}
	if len(num) > 50 {
		return NewValidationError("cheque number too long (max 50 characters)")
	}
	if !t.ChequeAmount.IsPositive() {
		return NewValidationError("cheque amount must be positive")
	}
	if err := validateAmount("cheque amount", t.ChequeAmount); err != nil {
		return err
	}
	if err := ValidateFeePercentage(t.CustomerFeePercentage); err != nil {
		return err
	}
	if err := ValidateFeePercentage(t.VendorFeePercentage); err != nil {
		return err
	}
	if !t.Status.Valid() {
		return NewValidationError("invalid status %q", t.Status)
	}
	if t.PaidToCustomer.IsNegative() || t.ReceivedFromVendor.IsNegative() || t.ProfitWithdrawn.IsNegative() {
		return NewValidationError("running totals cannot be negative")
	}
	if t.PaidToCustomer.GreaterThan(t.NetPayableToCustomer) {
		return NewValidationError("paid to customer exceeds net payable")
	}
	if t.ReceivedFromVendor.GreaterThan(t.AmountToReceiveFromVendor) {
		return NewValidationError("received from vendor exceeds receivable")
	}
	if t.ProfitWithdrawn.IsPositive() && t.ProfitWithdrawn.GreaterThan(t.Profit) {
		return NewValidationError("profit withdrawn exceeds profit")
	}
	return nil
}

type TransactionFilter struct {
	CustomerID   int32
	VendorID     string
	Status       TransactionStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	ChequeNumber string
	Page         int32
	PageSize     int32
}

const (
	DefaultPageSize int32 = 50
	MaxPageSize     int32 = 500
)

// Normalize clamps paging to sane values.
func (f *TransactionFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f *TransactionFilter) Validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return NewValidationError("invalid status %q", f.Status)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return NewValidationError("date_to is before date_from")
	}
	return nil
}
