package service

import (
	"context"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type vendorService struct {
	vendorRepo repository.VendorRepository
	txRepo     repository.TransactionRepository
}

func NewVendorService(vendorRepo repository.VendorRepository, txRepo repository.TransactionRepository) VendorService {
	return &vendorService{
		vendorRepo: vendorRepo,
		txRepo:     txRepo,
	}
}

func (s *vendorService) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	v.ID = strings.TrimSpace(v.ID)
	normalizeContact(&v.Name, &v.Phone, &v.Email, &v.Address)
	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.vendorRepo.Create(ctx, v); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Vendor created", "vendorID", v.ID, "name", v.Name)
	return nil
}

func (s *vendorService) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.vendorRepo.GetByID(ctx, id)
}

func (s *vendorService) ListVendors(ctx context.Context, search string) ([]domain.Vendor, error) {
	return s.vendorRepo.List(ctx, strings.TrimSpace(search))
}

func (s *vendorService) UpdateVendor(ctx context.Context, v *domain.Vendor) error {
	v.ID = strings.TrimSpace(v.ID)
	normalizeContact(&v.Name, &v.Phone, &v.Email, &v.Address)
	if err := v.Validate(); err != nil {
		return err
	}
	return s.vendorRepo.Update(ctx, v)
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	if _, err := s.vendorRepo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.txRepo.CountByVendor(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.WarnContext(ctx, "Refusing to delete vendor with transactions", "vendorID", id, "transactions", n)
		return domain.ErrPartyHasTransactions
	}
	if err := s.vendorRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Vendor deleted", "vendorID", id)
	return nil
}
