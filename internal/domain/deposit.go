package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerDeposit is money paid out to a customer against their open transactions.
type CustomerDeposit struct {
	ID              int32           `json:"id"`
	CustomerID      int32           `json:"customer_id"`
	Amount          decimal.Decimal `json:"amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	Date            time.Time       `json:"date"`
	FullyAllocated  bool            `json:"fully_allocated"`
	Note            string          `json:"note"`
	CreatedOn       time.Time       `json:"created_on"`
}

// VendorPayment is money received from a vendor against their open transactions.
type VendorPayment struct {
	ID              int32           `json:"id"`
	VendorID        string          `json:"vendor_id"`
	Amount          decimal.Decimal `json:"amount"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	Date            time.Time       `json:"date"`
	FullyAllocated  bool            `json:"fully_allocated"`
	Note            string          `json:"note"`
	CreatedOn       time.Time       `json:"created_on"`
}

// Allocation is the share of a deposit applied to one transaction.
type Allocation struct {
	TransactionID int32           `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

func (d *CustomerDeposit) Validate() error {
	if d.CustomerID <= 0 {
		return NewValidationError("customer is required")
	}
	return validateDeposit(d.Amount, d.Date, d.Note)
}

func (d *CustomerDeposit) Unallocated() decimal.Decimal {
	return d.Amount.Sub(d.AllocatedAmount)
}

func (p *VendorPayment) Validate() error {
	if strings.TrimSpace(p.VendorID) == "" {
		return NewValidationError("vendor is required")
	}
	return validateDeposit(p.Amount, p.Date, p.Note)
}

func (p *VendorPayment) Unallocated() decimal.Decimal {
	return p.Amount.Sub(p.AllocatedAmount)
}

func validateDeposit(amount decimal.Decimal, date time.Time, note string) error {
	if !amount.IsPositive() {
		return NewValidationError("amount must be positive")
	}
	if err := validateAmount("amount", amount); err != nil {
		return err
	}
	if date.IsZero() {
		return NewValidationError("date is required")
	}
	if len(note) > 500 {
		return NewValidationError("note too long (max 500 characters)")
	}
	return nil
}

// SumAllocations totals a set of allocations.
func SumAllocations(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}
