package service

import (
	"context"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/security"

	"github.com/shopspring/decimal"
)

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	UserID int32
	Role   domain.UserRole
}

// TransactionInput is the caller-editable part of a transaction. Nil fee
// percentages fall back to the party's configured rate.
type TransactionInput struct {
	Date                  time.Time
	CustomerID            int32
	VendorID              string
	ChequeNumber          string
	ChequeAmount          decimal.Decimal
	CustomerFeePercentage *decimal.Decimal
	VendorFeePercentage   *decimal.Decimal
	Status                domain.TransactionStatus
	Notes                 string
}

// UserUpdate carries the optional fields of a user edit.
type UserUpdate struct {
	Email  *string
	Role   *domain.UserRole
	Active *bool
}

// DailyDigest is the content of the morning summary email.
type DailyDigest struct {
	Date            time.Time
	Summary         domain.Summary
	CustomerBalance []domain.PartyBalance
	VendorBalance   []domain.PartyBalance
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) error
	GetCustomer(ctx context.Context, id int32) (*domain.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, c *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int32) error
}

type VendorService interface {
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	GetVendor(ctx context.Context, id string) (*domain.Vendor, error)
	ListVendors(ctx context.Context, search string) ([]domain.Vendor, error)
	UpdateVendor(ctx context.Context, v *domain.Vendor) error
	DeleteVendor(ctx context.Context, id string) error
}

type TransactionService interface {
	CreateTransaction(ctx context.Context, in TransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id int32) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id int32, in TransactionInput) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id int32) error
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error)
	// Calculate previews the fee split for an input without saving anything.
	Calculate(ctx context.Context, in TransactionInput) (*domain.FeeBreakdown, error)

	RecordCustomerPayment(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error)
	RecordVendorReceipt(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error)
	RecordProfitWithdrawal(ctx context.Context, id int32, amount decimal.Decimal) (*domain.Transaction, error)
}

type DepositService interface {
	RecordCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error)
	AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error)
	GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error)
	ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error)
	DeleteCustomerDeposit(ctx context.Context, id int32) error

	RecordVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error)
	AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error)
	GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error)
	ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error)
	DeleteVendorPayment(ctx context.Context, id int32) error
}

// ReportService reads never fail because the data source is down: they
// return zero data marked unavailable. Errors are reserved for bad input and
// missing parties.
type ReportService interface {
	Summary(ctx context.Context, filter domain.TransactionFilter) domain.ReportResult[domain.Summary]
	Rollup(ctx context.Context, period domain.Period, filter domain.TransactionFilter) (domain.ReportResult[[]domain.PeriodBucket], error)
	CustomerBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance]
	VendorBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance]
	CustomerBalance(ctx context.Context, customerID int32) (domain.ReportResult[domain.PartyBalance], error)
	VendorBalance(ctx context.Context, vendorID string) (domain.ReportResult[domain.PartyBalance], error)
	ExportTransactions(ctx context.Context, filter domain.TransactionFilter) ([]byte, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.User, string, *security.UserClaims, error)
	Logout(ctx context.Context, claims *security.UserClaims) error
	// Authenticate validates a session token and returns claims refreshed
	// with the user's current role.
	Authenticate(ctx context.Context, token string) (*security.UserClaims, error)
	CurrentUser(ctx context.Context, userID int32) (*domain.User, error)
	ChangePassword(ctx context.Context, claims *security.UserClaims, currentPassword, newPassword string) error
	EnsureBootstrapSuperuser(ctx context.Context, username, password string) (bool, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int32) (*domain.User, error)
	CreateUser(ctx context.Context, actor Actor, u *domain.User, password string) error
	UpdateUser(ctx context.Context, actor Actor, id int32, upd UserUpdate) (*domain.User, error)
	ResetPassword(ctx context.Context, actor Actor, id int32, password string) error
	DeleteUser(ctx context.Context, actor Actor, id int32) error
}

type EmailService interface {
	SendDailyDigest(ctx context.Context, digest *DailyDigest) error
}
