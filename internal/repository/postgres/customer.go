package postgres

import (
	"context"
	"database/sql"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''), fee_percentage, created_on, updated_on`

func scanCustomer(row interface{ Scan(...any) error }, c *domain.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.FeePercentage, &c.CreatedOn, &c.UpdatedOn)
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, phone, email, address, fee_percentage, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now
	logger.DatabaseCall("customers.insert", query, "name", c.Name)
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.FeePercentage, c.CreatedOn, c.UpdatedOn).Scan(&c.ID)
	logger.DatabaseResult("customers.insert", 1, err, "customerID", c.ID)
	return translateError(err)
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	if err := scanCustomer(r.db.QueryRowContext(ctx, query, id), c); err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (r *customerRepository) List(ctx context.Context, search string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
	          WHERE $1::text = '' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
	          ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, phone=$2, email=$3, address=$4, fee_percentage=$5, updated_on=$6 WHERE id=$7`
	c.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Email, c.Address, c.FeePercentage, c.UpdatedOn, c.ID)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *customerRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM customers WHERE id = $1`
	logger.DatabaseCall("customers.delete", query, "customerID", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("customers.delete", 0, err, "customerID", id)
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}
