package service

import (
	"context"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	txRepo       repository.TransactionRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository, txRepo repository.TransactionRepository) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		txRepo:       txRepo,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	normalizeContact(&c.Name, &c.Phone, &c.Email, &c.Address)
	if err := c.Validate(); err != nil {
		return err
	}
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Customer created", "customerID", c.ID, "name", c.Name)
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	return s.customerRepo.List(ctx, strings.TrimSpace(search))
}

// UpdateCustomer changes contact details and the default fee rate. Existing
// transactions keep the rate they were created with.
func (s *customerService) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	normalizeContact(&c.Name, &c.Phone, &c.Email, &c.Address)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.customerRepo.Update(ctx, c)
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int32) error {
	if _, err := s.customerRepo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.txRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.WarnContext(ctx, "Refusing to delete customer with transactions", "customerID", id, "transactions", n)
		return domain.ErrPartyHasTransactions
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Customer deleted", "customerID", id)
	return nil
}

func normalizeContact(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
