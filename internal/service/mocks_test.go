package service

import (
	"context"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/security"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) List(ctx context.Context, search string) ([]domain.Customer, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVendorRepo
type MockVendorRepo struct {
	mock.Mock
}

func (m *MockVendorRepo) Create(ctx context.Context, v *domain.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVendorRepo) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}
func (m *MockVendorRepo) List(ctx context.Context, search string) ([]domain.Vendor, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}
func (m *MockVendorRepo) Update(ctx context.Context, v *domain.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVendorRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) Update(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockTransactionRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransactionRepo) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) ListAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) CountByCustomer(ctx context.Context, customerID int32) (int32, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) CountByVendor(ctx context.Context, vendorID string) (int32, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) RecordPayment(ctx context.Context, id int32, kind domain.PaymentKind, amount decimal.Decimal) error {
	args := m.Called(ctx, id, kind, amount)
	return args.Error(0)
}

// MockDepositRepo
type MockDepositRepo struct {
	mock.Mock
}

func (m *MockDepositRepo) CreateCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}
func (m *MockDepositRepo) AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.CustomerDeposit), args.Get(1).([]domain.Allocation), args.Error(2)
}
func (m *MockDepositRepo) GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDeposit), args.Error(1)
}
func (m *MockDepositRepo) ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerDeposit), args.Error(1)
}
func (m *MockDepositRepo) DeleteCustomerDeposit(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDepositRepo) CreateVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}
func (m *MockDepositRepo) AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.VendorPayment), args.Get(1).([]domain.Allocation), args.Error(2)
}
func (m *MockDepositRepo) GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorPayment), args.Error(1)
}
func (m *MockDepositRepo) ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VendorPayment), args.Error(1)
}
func (m *MockDepositRepo) DeleteVendorPayment(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

// MockRevocationStore
type MockRevocationStore struct {
	mock.Mock
}

func (m *MockRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}
func (m *MockRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocationStore) RevokeUserSessions(ctx context.Context, userID int32, cutoff security.UserCutoff, ttl time.Duration) error {
	args := m.Called(ctx, userID, cutoff, ttl)
	return args.Error(0)
}
func (m *MockRevocationStore) UserCutoff(ctx context.Context, userID int32) (security.UserCutoff, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(security.UserCutoff), args.Error(1)
}

var _ security.RevocationStore = (*MockRevocationStore)(nil)
