package repository

import (
	"context"
	"time"

	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	// List returns customers ordered by name; search matches name, phone or email.
	List(ctx context.Context, search string) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int32) error
}

type VendorRepository interface {
	Create(ctx context.Context, v *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	List(ctx context.Context, search string) ([]domain.Vendor, error)
	Update(ctx context.Context, v *domain.Vendor) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	Update(ctx context.Context, t *domain.Transaction) error
	UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error
	Delete(ctx context.Context, id int32) error

	// List applies the filter's paging and returns the total match count.
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error)
	// ListAll ignores paging. Used by reports and exports.
	ListAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	CountByCustomer(ctx context.Context, customerID int32) (int32, error)
	CountByVendor(ctx context.Context, vendorID string) (int32, error)

	// RecordPayment adds amount to the running total selected by kind. It fails
	// with domain.ErrExceedsOutstanding when the total would pass its cap.
	RecordPayment(ctx context.Context, id int32, kind domain.PaymentKind, amount decimal.Decimal) error
}

type DepositRepository interface {
	// CreateCustomerDeposit inserts the deposit and allocates it oldest-first
	// over the customer's open transactions in one database transaction.
	CreateCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error)
	AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error)
	GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error)
	ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error)
	DeleteCustomerDeposit(ctx context.Context, id int32) error

	CreateVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error)
	AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error)
	GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error)
	ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error)
	DeleteVendorPayment(ctx context.Context, id int32) error
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id int32, passwordHash string) error
	Delete(ctx context.Context, id int32) error
	Count(ctx context.Context) (int32, error)
}

type SnapshotRepository interface {
	// Upsert replaces any snapshot already stored for the same date and party.
	Upsert(ctx context.Context, snapshots []domain.BalanceSnapshot) error
	ListByDate(ctx context.Context, date time.Time) ([]domain.BalanceSnapshot, error)
}
