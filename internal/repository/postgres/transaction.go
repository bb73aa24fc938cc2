package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionSelect = `SELECT t.id, t.txn_date, t.customer_id, c.name, t.vendor_id, v.name, t.cheque_number,
	t.cheque_amount, t.customer_fee_percentage, t.vendor_fee_percentage, t.customer_fee, t.net_payable_to_customer,
	t.vendor_fee, t.amount_to_receive_from_vendor, t.profit, t.status, t.paid_to_customer, t.received_from_vendor,
	t.profit_withdrawn, COALESCE(t.notes, ''), t.created_on, t.updated_on
	FROM transactions t
	JOIN customers c ON c.id = t.customer_id
	JOIN vendors v ON v.id = t.vendor_id`

func scanTransaction(row interface{ Scan(...any) error }, t *domain.Transaction) error {
	return row.Scan(
		&t.ID, &t.Date, &t.CustomerID, &t.CustomerName, &t.VendorID, &t.VendorName, &t.ChequeNumber,
		&t.ChequeAmount, &t.CustomerFeePercentage, &t.VendorFeePercentage, &t.CustomerFee, &t.NetPayableToCustomer,
		&t.VendorFee, &t.AmountToReceiveFromVendor, &t.Profit, &t.Status, &t.PaidToCustomer, &t.ReceivedFromVendor,
		&t.ProfitWithdrawn, &t.Notes, &t.CreatedOn, &t.UpdatedOn,
	)
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	logger.EnterMethod("transactionRepository.Create", "customerID", t.CustomerID, "vendorID", t.VendorID)

	query := `INSERT INTO transactions (txn_date, customer_id, vendor_id, cheque_number, cheque_amount,
	              customer_fee_percentage, vendor_fee_percentage, customer_fee, net_payable_to_customer, vendor_fee,
	              amount_to_receive_from_vendor, profit, status, paid_to_customer, received_from_vendor, profit_withdrawn,
	              notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19) RETURNING id`
	now := time.Now().UTC()
	t.CreatedOn = now
	t.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query,
		t.Date, t.CustomerID, t.VendorID, t.ChequeNumber, t.ChequeAmount,
		t.CustomerFeePercentage, t.VendorFeePercentage, t.CustomerFee, t.NetPayableToCustomer, t.VendorFee,
		t.AmountToReceiveFromVendor, t.Profit, string(t.Status), t.PaidToCustomer, t.ReceivedFromVendor, t.ProfitWithdrawn,
		t.Notes, t.CreatedOn, t.UpdatedOn,
	).Scan(&t.ID)
	if err != nil {
		logger.ExitMethodWithError("transactionRepository.Create", err)
		return translateError(err)
	}

	logger.ExitMethod("transactionRepository.Create", "transactionID", t.ID)
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	if err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = $1`, id), t); err != nil {
		return nil, translateError(err)
	}
	return t, nil
}

// Update rewrites the editable and derived columns. Running totals are only
// moved by RecordPayment and deposit allocation.
func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	query := `UPDATE transactions SET txn_date=$1, customer_id=$2, vendor_id=$3, cheque_number=$4, cheque_amount=$5,
	              customer_fee_percentage=$6, vendor_fee_percentage=$7, customer_fee=$8, net_payable_to_customer=$9,
	              vendor_fee=$10, amount_to_receive_from_vendor=$11, profit=$12, status=$13, notes=$14, updated_on=$15
	          WHERE id=$16`
	t.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		t.Date, t.CustomerID, t.VendorID, t.ChequeNumber, t.ChequeAmount,
		t.CustomerFeePercentage, t.VendorFeePercentage, t.CustomerFee, t.NetPayableToCustomer,
		t.VendorFee, t.AmountToReceiveFromVendor, t.Profit, string(t.Status), t.Notes, t.UpdatedOn,
		t.ID,
	)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, status domain.TransactionStatus) error {
	query := `UPDATE transactions SET status=$1, updated_on=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

// Delete removes a transaction whose running totals are all still zero. The
// guard lives in the statement so a payment recorded after the caller's read
// still blocks the delete.
func (r *transactionRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1
	    AND paid_to_customer = 0 AND received_from_vendor = 0 AND profit_withdrawn = 0`, id)
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
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return translateError(err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrTransactionHasPayments
}

// transactionWhere builds the WHERE clause for a filter. Placeholders are
// numbered from 1.
func transactionWhere(f domain.TransactionFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CustomerID > 0 {
		add("t.customer_id = $%d", f.CustomerID)
	}
	if f.VendorID != "" {
		add("t.vendor_id = $%d", f.VendorID)
	}
	if f.Status != "" {
		add("t.status = $%d", string(f.Status))
	}
	if f.DateFrom != nil {
		add("t.txn_date >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("t.txn_date <= $%d", *f.DateTo)
	}
	if f.ChequeNumber != "" {
		add("t.cheque_number ILIKE $%d", "%"+f.ChequeNumber+"%")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int32, error) {
	filter.Normalize()
	where, args := transactionWhere(filter)

	var count int32
	countQuery := `SELECT count(*) FROM transactions t` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, translateError(err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := transactionSelect + where +
		fmt.Sprintf(` ORDER BY t.txn_date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.PageSize, offset)

	txs, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *transactionRepository) ListAll(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	where, args := transactionWhere(filter)
	return r.query(ctx, transactionSelect+where+` ORDER BY t.txn_date, t.id`, args...)
}

func (r *transactionRepository) query(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	logger.DatabaseCall("transactions.select", query)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("transactions.select", 0, err)
		return nil, translateError(err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("transactions.select", int64(len(txs)), nil)
	return txs, nil
}

func (r *transactionRepository) CountByCustomer(ctx context.Context, customerID int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE customer_id = $1`, customerID).Scan(&n)
	return n, translateError(err)
}

func (r *transactionRepository) CountByVendor(ctx context.Context, vendorID string) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE vendor_id = $1`, vendorID).Scan(&n)
	return n, translateError(err)
}

// paymentColumns maps a payment kind to the running total it moves and the
// cap that total may not pass.
var paymentColumns = map[domain.PaymentKind]struct{ total, limit string }{
	domain.PaymentToCustomer:       {"paid_to_customer", "net_payable_to_customer"},
	domain.PaymentFromVendor:       {"received_from_vendor", "amount_to_receive_from_vendor"},
	domain.PaymentProfitWithdrawal: {"profit_withdrawn", "GREATEST(profit, 0)"},
}

func (r *transactionRepository) RecordPayment(ctx context.Context, id int32, kind domain.PaymentKind, amount decimal.Decimal) error {
	cols, ok := paymentColumns[kind]
	if !ok {
		return domain.NewValidationError("invalid payment kind %q", kind)
	}
	logger.EnterMethod("transactionRepository.RecordPayment", "transactionID", id, "kind", kind, "amount", amount)

	query := fmt.Sprintf(`UPDATE transactions SET %[1]s = %[1]s + $1, updated_on = $2
	          WHERE id = $3 AND %[1]s + $1 >= 0 AND %[1]s + $1 <= %[2]s`, cols.total, cols.limit)
	res, err := r.db.ExecContext(ctx, query, amount, time.Now().UTC(), id)
	if err != nil {
		logger.ExitMethodWithError("transactionRepository.RecordPayment", err, "transactionID", id)
		return translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
			return translateError(err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrExceedsOutstanding
	}

	logger.ExitMethod("transactionRepository.RecordPayment", "transactionID", id)
	return nil
}
