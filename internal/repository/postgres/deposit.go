package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type depositRepository struct {
	db *sql.DB
}

func NewDepositRepository(db *sql.DB) repository.DepositRepository {
	return &depositRepository{db: db}
}

// allocationTarget describes how deposits of one side are applied to
// transactions. Bounced cheques never receive allocations.
type allocationTarget struct {
	depositTable string
	partyColumn  string
	totalColumn  string
	limitColumn  string
}

var (
	customerAllocation = allocationTarget{
		depositTable: "customer_deposits",
		partyColumn:  "customer_id",
		totalColumn:  "paid_to_customer",
		limitColumn:  "net_payable_to_customer",
	}
	vendorAllocation = allocationTarget{
		depositTable: "vendor_payments",
		partyColumn:  "vendor_id",
		totalColumn:  "received_from_vendor",
		limitColumn:  "amount_to_receive_from_vendor",
	}
)

// apply spreads up to amount over the party's open transactions, oldest
// first, and records the allocated total on the deposit row. Rows are locked
// for the rest of the surrounding transaction.
func (a allocationTarget) apply(ctx context.Context, tx *sql.Tx, depositID int32, partyID any, amount decimal.Decimal) ([]domain.Allocation, error) {
	openQuery := fmt.Sprintf(`SELECT id, %[2]s - %[1]s FROM transactions
	              WHERE %[3]s = $1 AND status <> 'bounced' AND %[2]s - %[1]s > 0
	              ORDER BY txn_date, id FOR UPDATE`, a.totalColumn, a.limitColumn, a.partyColumn)
	rows, err := tx.QueryContext(ctx, openQuery, partyID)
	if err != nil {
		return nil, err
	}
	var open []utils.Outstanding
	for rows.Next() {
		var o utils.Outstanding
		if err := rows.Scan(&o.TransactionID, &o.Amount); err != nil {
			rows.Close()
			return nil, err
		}
		open = append(open, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	allocs, _ := utils.AllocateFIFO(amount, open)
	if len(allocs) == 0 {
		return allocs, nil
	}

	now := time.Now().UTC()
	bump := fmt.Sprintf(`UPDATE transactions SET %[1]s = %[1]s + $1, updated_on = $2 WHERE id = $3`, a.totalColumn)
	for _, al := range allocs {
		if _, err := tx.ExecContext(ctx, bump, al.Amount, now, al.TransactionID); err != nil {
			return nil, err
		}
	}

	mark := fmt.Sprintf(`UPDATE %s SET allocated_amount = allocated_amount + $1,
	          fully_allocated = (allocated_amount + $1 >= amount) WHERE id = $2`, a.depositTable)
	if _, err := tx.ExecContext(ctx, mark, domain.SumAllocations(allocs), depositID); err != nil {
		return nil, err
	}
	return allocs, nil
}

// remove deletes a deposit that has nothing allocated yet.
func (a allocationTarget) remove(ctx context.Context, db *sql.DB, id int32) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND allocated_amount = 0`, a.depositTable), id)
	if err != nil {
		return translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, a.depositTable)
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return translateError(err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrDepositAllocated
}

const customerDepositColumns = `id, customer_id, amount, allocated_amount, deposit_date, fully_allocated, COALESCE(note, ''), created_on`

func scanCustomerDeposit(row interface{ Scan(...any) error }, d *domain.CustomerDeposit) error {
	return row.Scan(&d.ID, &d.CustomerID, &d.Amount, &d.AllocatedAmount, &d.Date, &d.FullyAllocated, &d.Note, &d.CreatedOn)
}

func (r *depositRepository) CreateCustomerDeposit(ctx context.Context, d *domain.CustomerDeposit) ([]domain.Allocation, error) {
	logger.EnterMethod("depositRepository.CreateCustomerDeposit", "customerID", d.CustomerID, "amount", d.Amount)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	d.CreatedOn = time.Now().UTC()
	d.AllocatedAmount = decimal.Zero
	d.FullyAllocated = false
	query := `INSERT INTO customer_deposits (customer_id, amount, allocated_amount, deposit_date, fully_allocated, note, created_on)
	          VALUES ($1, $2, 0, $3, FALSE, $4, $5) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, d.CustomerID, d.Amount, d.Date, d.Note, d.CreatedOn).Scan(&d.ID); err != nil {
		logger.ExitMethodWithError("depositRepository.CreateCustomerDeposit", err)
		return nil, translateError(err)
	}

	allocs, err := customerAllocation.apply(ctx, tx, d.ID, d.CustomerID, d.Amount)
	if err != nil {
		logger.ExitMethodWithError("depositRepository.CreateCustomerDeposit", err, "depositID", d.ID)
		return nil, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	d.AllocatedAmount = domain.SumAllocations(allocs)
	d.FullyAllocated = d.AllocatedAmount.GreaterThanOrEqual(d.Amount)
	logger.ExitMethod("depositRepository.CreateCustomerDeposit", "depositID", d.ID, "allocations", len(allocs))
	return allocs, nil
}

func (r *depositRepository) AllocateCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, []domain.Allocation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	d := &domain.CustomerDeposit{}
	lock := `SELECT ` + customerDepositColumns + ` FROM customer_deposits WHERE id = $1 FOR UPDATE`
	if err := scanCustomerDeposit(tx.QueryRowContext(ctx, lock, id), d); err != nil {
		return nil, nil, translateError(err)
	}

	allocs, err := customerAllocation.apply(ctx, tx, d.ID, d.CustomerID, d.Unallocated())
	if err != nil {
		return nil, nil, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	d.AllocatedAmount = d.AllocatedAmount.Add(domain.SumAllocations(allocs))
	d.FullyAllocated = d.AllocatedAmount.GreaterThanOrEqual(d.Amount)
	return d, allocs, nil
}

func (r *depositRepository) GetCustomerDeposit(ctx context.Context, id int32) (*domain.CustomerDeposit, error) {
	d := &domain.CustomerDeposit{}
	query := `SELECT ` + customerDepositColumns + ` FROM customer_deposits WHERE id = $1`
	if err := scanCustomerDeposit(r.db.QueryRowContext(ctx, query, id), d); err != nil {
		return nil, translateError(err)
	}
	return d, nil
}

// ListCustomerDeposits returns every deposit when customerID is 0.
func (r *depositRepository) ListCustomerDeposits(ctx context.Context, customerID int32) ([]domain.CustomerDeposit, error) {
	query := `SELECT ` + customerDepositColumns + ` FROM customer_deposits
	          WHERE $1::int = 0 OR customer_id = $1 ORDER BY deposit_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	deposits := []domain.CustomerDeposit{}
	for rows.Next() {
		var d domain.CustomerDeposit
		if err := scanCustomerDeposit(rows, &d); err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

func (r *depositRepository) DeleteCustomerDeposit(ctx context.Context, id int32) error {
	return customerAllocation.remove(ctx, r.db, id)
}

const vendorPaymentColumns = `id, vendor_id, amount, allocated_amount, payment_date, fully_allocated, COALESCE(note, ''), created_on`

func scanVendorPayment(row interface{ Scan(...any) error }, p *domain.VendorPayment) error {
	return row.Scan(&p.ID, &p.VendorID, &p.Amount, &p.AllocatedAmount, &p.Date, &p.FullyAllocated, &p.Note, &p.CreatedOn)
}

func (r *depositRepository) CreateVendorPayment(ctx context.Context, p *domain.VendorPayment) ([]domain.Allocation, error) {
	logger.EnterMethod("depositRepository.CreateVendorPayment", "vendorID", p.VendorID, "amount", p.Amount)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	p.CreatedOn = time.Now().UTC()
	p.AllocatedAmount = decimal.Zero
	p.FullyAllocated = false
	query := `INSERT INTO vendor_payments (vendor_id, amount, allocated_amount, payment_date, fully_allocated, note, created_on)
	          VALUES ($1, $2, 0, $3, FALSE, $4, $5) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, p.VendorID, p.Amount, p.Date, p.Note, p.CreatedOn).Scan(&p.ID); err != nil {
		logger.ExitMethodWithError("depositRepository.CreateVendorPayment", err)
		return nil, translateError(err)
	}

	allocs, err := vendorAllocation.apply(ctx, tx, p.ID, p.VendorID, p.Amount)
	if err != nil {
		logger.ExitMethodWithError("depositRepository.CreateVendorPayment", err, "paymentID", p.ID)
		return nil, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	p.AllocatedAmount = domain.SumAllocations(allocs)
	p.FullyAllocated = p.AllocatedAmount.GreaterThanOrEqual(p.Amount)
	logger.ExitMethod("depositRepository.CreateVendorPayment", "paymentID", p.ID, "allocations", len(allocs))
	return allocs, nil
}

func (r *depositRepository) AllocateVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, []domain.Allocation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	p := &domain.VendorPayment{}
	lock := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE id = $1 FOR UPDATE`
	if err := scanVendorPayment(tx.QueryRowContext(ctx, lock, id), p); err != nil {
		return nil, nil, translateError(err)
	}

	allocs, err := vendorAllocation.apply(ctx, tx, p.ID, p.VendorID, p.Unallocated())
	if err != nil {
		return nil, nil, translateError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	p.AllocatedAmount = p.AllocatedAmount.Add(domain.SumAllocations(allocs))
	p.FullyAllocated = p.AllocatedAmount.GreaterThanOrEqual(p.Amount)
	return p, allocs, nil
}

func (r *depositRepository) GetVendorPayment(ctx context.Context, id int32) (*domain.VendorPayment, error) {
	p := &domain.VendorPayment{}
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE id = $1`
	if err := scanVendorPayment(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, translateError(err)
	}
	return p, nil
}

// ListVendorPayments returns every payment when vendorID is empty.
func (r *depositRepository) ListVendorPayments(ctx context.Context, vendorID string) ([]domain.VendorPayment, error) {
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments
	          WHERE $1::text = '' OR vendor_id = $1 ORDER BY payment_date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	payments := []domain.VendorPayment{}
	for rows.Next() {
		var p domain.VendorPayment
		if err := scanVendorPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *depositRepository) DeleteVendorPayment(ctx context.Context, id int32) error {
	return vendorAllocation.remove(ctx, r.db, id)
}
