package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type transactionService struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
}

func NewTransactionService(txRepo repository.TransactionRepository, customerRepo repository.CustomerRepository, vendorRepo repository.VendorRepository) TransactionService {
	return &transactionService{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.CreateTransaction", "customerID", in.CustomerID, "vendorID", in.VendorID)

	if err := validateInput(in); err != nil {
		return nil, err
	}
	customer, vendor, err := s.resolveParties(ctx, in.CustomerID, in.VendorID)
	if err != nil {
		return nil, err
	}

	t := &domain.Transaction{
		Date:                  in.Date,
		CustomerID:            customer.ID,
		CustomerName:          customer.Name,
		VendorID:              vendor.ID,
		VendorName:            vendor.Name,
		ChequeNumber:          strings.TrimSpace(in.ChequeNumber),
		ChequeAmount:          utils.RoundCents(in.ChequeAmount),
		CustomerFeePercentage: pick(in.CustomerFeePercentage, customer.FeePercentage),
		VendorFeePercentage:   pick(in.VendorFeePercentage, vendor.FeePercentage),
		Status:                in.Status,
		PaidToCustomer:        decimal.Zero,
		ReceivedFromVendor:    decimal.Zero,
		ProfitWithdrawn:       decimal.Zero,
		Notes:                 strings.TrimSpace(in.Notes),
	}
	if t.Status == "" {
		t.Status = domain.TransactionStatusPending
	}
	if err := applyFees(t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.txRepo.Create(ctx, t); err != nil {
		logger.ExitMethodWithError("transactionService.CreateTransaction", err)
		return nil, err
	}
	t.AmountInWords = utils.AmountInWords(t.ChequeAmount)

	logger.ExitMethod("transactionService.CreateTransaction", "transactionID", t.ID, "profit", t.Profit)
	return t, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id int32) (*domain.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.AmountInWords = utils.AmountInWords(t.ChequeAmount)
	return t, nil
}

// UpdateTransaction replaces the editable fields and recomputes every derived
// amount. A fee rate not supplied keeps the transaction's current rate unless
// the party changed, in which case the new party's rate applies. Payments
// already recorded must still fit under the recomputed amounts.
func (s *transactionService) UpdateTransaction(ctx context.Context, id int32, in TransactionInput) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.UpdateTransaction", "transactionID", id)

	if err := validateInput(in); err != nil {
		return nil, err
	}
	existing, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, vendor, err := s.resolveParties(ctx, in.CustomerID, in.VendorID)
	if err != nil {
		return nil, err
	}

	t := *existing
	t.Date = in.Date
	t.CustomerID = customer.ID
	t.CustomerName = customer.Name
	t.VendorID = vendor.ID
	t.VendorName = vendor.Name
	t.ChequeNumber = strings.TrimSpace(in.ChequeNumber)
	t.ChequeAmount = utils.RoundCents(in.ChequeAmount)
	t.Notes = strings.TrimSpace(in.Notes)
	if in.Status != "" {
		t.Status = in.Status
	}

	switch {
	case in.CustomerFeePercentage != nil:
		t.CustomerFeePercentage = *in.CustomerFeePercentage
	case customer.ID != existing.CustomerID:
		t.CustomerFeePercentage = customer.FeePercentage
	}
	switch {
	case in.VendorFeePercentage != nil:
		t.VendorFeePercentage = *in.VendorFeePercentage
	case vendor.ID != existing.VendorID:
		t.VendorFeePercentage = vendor.FeePercentage
	}

	if err := applyFees(&t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.txRepo.Update(ctx, &t); err != nil {
		logger.ExitMethodWithError("transactionService.UpdateTransaction", err, "transactionID", id)
		return nil, err
	}
	t.AmountInWords = utils.AmountInWords(t.ChequeAmount)

	if !t.Profit.Equal(existing.Profit) {
		logger.InfoContext(ctx, "Transaction fees recalculated", "transactionID", id,
			"oldProfit", existing.Profit.StringFixed(2), "newProfit", t.Profit.StringFixed(2))
	}
	logger.ExitMethod("transactionService.UpdateTransaction", "transactionID", id)
	return &t, nil
}

func (s *transactionService) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid status %q", status)
	}
	if err := s.txRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Transaction status changed", "transactionID", id, "status", status)
	return s.GetTransaction(ctx, id)
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id int32) error {
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.HasPayments() {
		logger.WarnContext(ctx, "Refusing to delete transaction with recorded payments", "transactionID", id,
			"paidToCustomer", t.PaidToCustomer.StringFixed(2), "receivedFromVendor", t.ReceivedFromVendor.StringFixed(2),
			"profitWithdrawn", t.ProfitWithdrawn.StringFixed(2))
		return domain.ErrTransactionHasPayments
	}
	if err := s.txRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Transaction deleted", "transactionID", id)
	return nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	return s.txRepo.List(ctx, filter)
}

func (s *transactionService) Calculate(ctx context.Context, in TransactionInput) (*domain.FeeBreakdown, error) {
	customerPct, vendorPct := in.CustomerFeePercentage, in.VendorFeePercentage
	if customerPct == nil {
		if in.CustomerID <= 0 {
			return nil, domain.NewValidationError("customer or customer fee percentage is required")
		}
		c, err := s.customerRepo.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, partyLookupError(err, "customer %d does not exist", in.CustomerID)
		}
		customerPct = &c.FeePercentage
	}
	if vendorPct == nil {
		if strings.TrimSpace(in.VendorID) == "" {
			return nil, domain.NewValidationError("vendor or vendor fee percentage is required")
		}
		v, err := s.vendorRepo.GetByID(ctx, in.VendorID)
		if err != nil {
			return nil, partyLookupError(err, "vendor %q does not exist", in.VendorID)
		}
		vendorPct = &v.FeePercentage
	}
	if err := domain.ValidateFeePercentage(*customerPct); err != nil {
		return nil, err
	}
	if err := domain.ValidateFeePercentage(*vendorPct); err != nil {
		return nil, err
	}
	f, err := utils.CalculateFees(in.ChequeAmount, *customerPct, *vendorPct)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *transactionService) RecordCustomerPayment(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.recordPayment(ctx, id, domain.PaymentToCustomer, amount)
}

func (s *transactionService) RecordVendorReceipt(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.recordPayment(ctx, id, domain.PaymentFromVendor, amount)
}

func (s *transactionService) RecordProfitWithdrawal(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.recordPayment(ctx, id, domain.PaymentProfitWithdrawal, amount)
}

// recordPayment moves one running total forward. The repository enforces the
// cap atomically; the pre-check here only produces a friendlier message.
func (s *transactionService) recordPayment(ctx context.Context, id int32, kind domain.PaymentKind, amount decimal.Decimal) (*domain.Transaction, error) {
	amount = utils.RoundCents(amount)
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("payment amount must be positive")
	}
	t, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if open := t.Outstanding(kind); amount.GreaterThan(open) {
		return nil, fmt.Errorf("%w (%s outstanding)", domain.ErrExceedsOutstanding, open.StringFixed(2))
	}
	if err := s.txRepo.RecordPayment(ctx, id, kind, amount); err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Payment recorded", "transactionID", id, "kind", kind, "amount", amount.StringFixed(2))
	return s.GetTransaction(ctx, id)
}

func (s *transactionService) resolveParties(ctx context.Context, customerID int32, vendorID string) (*domain.Customer, *domain.Vendor, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, nil, partyLookupError(err, "customer %d does not exist", customerID)
	}
	vendor, err := s.vendorRepo.GetByID(ctx, strings.TrimSpace(vendorID))
	if err != nil {
		return nil, nil, partyLookupError(err, "vendor %q does not exist", vendorID)
	}
	return customer, vendor, nil
}

// partyLookupError reports a missing referenced party as bad input rather
// than a missing resource.
func partyLookupError(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(format, args...)
	}
	return err
}

func validateInput(in TransactionInput) error {
	if in.Date.IsZero() {
		return domain.NewValidationError("date is required")
	}
	if in.CustomerID <= 0 {
		return domain.NewValidationError("customer is required")
	}
	if strings.TrimSpace(in.VendorID) == "" {
		return domain.NewValidationError("vendor is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return domain.NewValidationError("invalid status %q", in.Status)
	}
	return nil
}

func applyFees(t *domain.Transaction) error {
	f, err := utils.CalculateFees(t.ChequeAmount, t.CustomerFeePercentage, t.VendorFeePercentage)
	if err != nil {
		return err
	}
	t.ApplyFees(f)
	return nil
}

func pick(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}
