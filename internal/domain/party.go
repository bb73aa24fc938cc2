package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	maxFeePercentage = decimal.NewFromInt(100)
	vendorCodeRe     = regexp.MustCompile(`^[A-Za-z0-9]{1,10}$`)
)

type Customer struct {
	ID            int32           `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}

// Vendor IDs are short codes chosen by the operator, e.g. "V01".
type Vendor struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	CreatedOn     time.Time       `json:"created_on"`
	UpdatedOn     time.Time       `json:"updated_on"`
}

func (c *Customer) Validate() error {
	if err := validatePartyName(c.Name); err != nil {
		return err
	}
	return ValidateFeePercentage(c.FeePercentage)
}

func (v *Vendor) Validate() error {
	if !vendorCodeRe.MatchString(v.ID) {
		return NewValidationError("vendor id must be 1-10 letters or digits")
	}
	if err := validatePartyName(v.Name); err != nil {
		return err
	}
	return ValidateFeePercentage(v.FeePercentage)
}

// ValidateFeePercentage accepts rates in the closed range [0, 100] with at
// most two decimal places, the precision the ledger stores.
func ValidateFeePercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(maxFeePercentage) {
		return NewValidationError("fee percentage must be between 0 and 100")
	}
	if !p.Equal(p.Round(2)) {
		return NewValidationError("fee percentage allows at most 2 decimal places")
	}
	return nil
}

func validatePartyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name is required")
	}
	if len(name) > 120 {
		return NewValidationError("name too long (max 120 characters)")
	}
	return nil
}
