package http

import (
	"context"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/security"
	"cheque-ledger-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*domain.User, string, *security.UserClaims, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", nil, args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Get(2).(*security.UserClaims), args.Error(3)
}
func (m *MockAuthService) Logout(ctx context.Context, claims *security.UserClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*security.UserClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
func (m *MockAuthService) CurrentUser(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ChangePassword(ctx context.Context, claims *security.UserClaims, currentPassword, newPassword string) error {
	args := m.Called(ctx, claims, currentPassword, newPassword)
	return args.Error(0)
}
func (m *MockAuthService) EnsureBootstrapSuperuser(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

// MockCustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerService) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}
func (m *MockCustomerService) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerService) DeleteCustomer(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionService
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) tx(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, in service.TransactionInput) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, in))
}
func (m *MockTransactionService) GetTransaction(ctx context.Context, id int32) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id))
}
func (m *MockTransactionService) UpdateTransaction(ctx context.Context, id int32, in service.TransactionInput) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id, in))
}
func (m *MockTransactionService) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id, status))
}
func (m *MockTransactionService) DeleteTransaction(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTransactionService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionService) Calculate(ctx context.Context, in service.TransactionInput) (*domain.FeeBreakdown, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeBreakdown), args.Error(1)
}
func (m *MockTransactionService) RecordCustomerPayment(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id, amount))
}
func (m *MockTransactionService) RecordVendorReceipt(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id, amount))
}
func (m *MockTransactionService) RecordProfitWithdrawal(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error) {
	return m.tx(m.Called(ctx, id, amount))
}

// MockDepositService
type MockDepositService struct {
	mock.Mock
}

func (m *MockDepositService) RecordCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}
func (m *MockDepositService) AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.CustomerDeposit), args.Get(1).([]domain.Allocation), args.Error(2)
}
func (m *MockDepositService) GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerDeposit), args.Error(1)
}
func (m *MockDepositService) ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.CustomerDeposit), args.Error(1)
}
func (m *MockDepositService) DeleteCustomerDeposit(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDepositService) RecordVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}
func (m *MockDepositService) AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.VendorPayment), args.Get(1).([]domain.Allocation), args.Error(2)
}
func (m *MockDepositService) GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorPayment), args.Error(1)
}
func (m *MockDepositService) ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).([]domain.VendorPayment), args.Error(1)
}
func (m *MockDepositService) DeleteVendorPayment(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, filter domain.TransactionFilter) domain.ReportResult[domain.Summary] {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.ReportResult[domain.Summary])
}
func (m *MockReportService) Rollup(ctx context.Context, period domain.Period, filter domain.TransactionFilter) (domain.ReportResult[[]domain.PeriodBucket], error) {
	args := m.Called(ctx, period, filter)
	return args.Get(0).(domain.ReportResult[[]domain.PeriodBucket]), args.Error(1)
}
func (m *MockReportService) CustomerBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportResult[[]domain.PartyBalance])
}
func (m *MockReportService) VendorBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportResult[[]domain.PartyBalance])
}
func (m *MockReportService) CustomerBalance(ctx context.Context, customerID int32) (domain.ReportResult[domain.PartyBalance], error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(domain.ReportResult[domain.PartyBalance]), args.Error(1)
}
func (m *MockReportService) VendorBalance(ctx context.Context, vendorID string) (domain.ReportResult[domain.PartyBalance], error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(domain.ReportResult[domain.PartyBalance]), args.Error(1)
}
func (m *MockReportService) ExportTransactions(ctx context.Context, filter domain.TransactionFilter) ([]byte, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserService) GetUser(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) CreateUser(ctx context.Context, actor service.Actor, u *domain.User, password string) error {
	args := m.Called(ctx, actor, u, password)
	return args.Error(0)
}
func (m *MockUserService) UpdateUser(ctx context.Context, actor service.Actor, id int32, upd service.UserUpdate) (*domain.User, error) {
	args := m.Called(ctx, actor, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) ResetPassword(ctx context.Context, actor service.Actor, id int32, password string) error {
	args := m.Called(ctx, actor, id, password)
	return args.Error(0)
}
func (m *MockUserService) DeleteUser(ctx context.Context, actor service.Actor, id int32) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
