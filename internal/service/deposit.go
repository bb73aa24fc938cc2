package service

import (
	"context"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/utils"
)

type depositService struct {
	depositRepo  repository.DepositRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
}

func NewDepositService(depositRepo repository.DepositRepository, customerRepo repository.CustomerRepository, vendorRepo repository.VendorRepository) DepositService {
	return &depositService{
		depositRepo:  depositRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
	}
}

// RecordCustomerDeposit stores money paid out to a customer and applies it to
// their open transactions, oldest first. Anything left over stays on the
// deposit as unallocated credit.
func (s *depositService) RecordCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error) {
	d.Amount = utils.RoundCents(d.Amount)
	d.Note = strings.TrimSpace(d.Note)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.GetByID(ctx, d.CustomerID); err != nil {
		return nil, partyLookupError(err, "customer %d does not exist", d.CustomerID)
	}

	allocs, err := s.depositRepo.CreateCustomerDeposit(ctx, d)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Customer deposit recorded", "depositID", d.ID, "customerID", d.CustomerID,
		"amount", d.Amount.StringFixed(2), "allocated", d.AllocatedAmount.StringFixed(2), "transactions", len(allocs))
	return allocs, nil
}

func (s *depositService) AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error) {
	d, allocs, err := s.depositRepo.AllocateCustomerDeposit(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logger.InfoContext(ctx, "Customer deposit reallocated", "depositID", id, "transactions", len(allocs))
	return d, allocs, nil
}

func (s *depositService) GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error) {
	return s.depositRepo.GetCustomerDeposit(ctx, id)
}

func (s *depositService) ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error) {
	return s.depositRepo.ListCustomerDeposits(ctx, customerID)
}

func (s *depositService) DeleteCustomerDeposit(ctx context.Context, id int32) error {
	return s.depositRepo.DeleteCustomerDeposit(ctx, id)
}

// RecordVendorPayment stores money received from a vendor and applies it to
// the vendor's open receivables, oldest first.
func (s *depositService) RecordVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error) {
	p.Amount = utils.RoundCents(p.Amount)
	p.VendorID = strings.TrimSpace(p.VendorID)
	p.Note = strings.TrimSpace(p.Note)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.vendorRepo.GetByID(ctx, p.VendorID); err != nil {
		return nil, partyLookupError(err, "vendor %q does not exist", p.VendorID)
	}

	allocs, err := s.depositRepo.CreateVendorPayment(ctx, p)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Vendor payment recorded", "paymentID", p.ID, "vendorID", p.VendorID,
		"amount", p.Amount.StringFixed(2), "allocated", p.AllocatedAmount.StringFixed(2), "transactions", len(allocs))
	return allocs, nil
}

func (s *depositService) AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error) {
	p, allocs, err := s.depositRepo.AllocateVendorPayment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	logger.InfoContext(ctx, "Vendor payment reallocated", "paymentID", id, "transactions", len(allocs))
	return p, allocs, nil
}

func (s *depositService) GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error) {
	return s.depositRepo.GetVendorPayment(ctx, id)
}

func (s *depositService) ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error) {
	return s.depositRepo.ListVendorPayments(ctx, strings.TrimSpace(vendorID))
}

func (s *depositService) DeleteVendorPayment(ctx context.Context, id int32) error {
	return s.depositRepo.DeleteVendorPayment(ctx, id)
}
