package postgres

import (
	"context"
	"database/sql"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type vendorRepository struct {
	db *sql.DB
}

func NewVendorRepository(db *sql.DB) repository.VendorRepository {
	return &vendorRepository{db: db}
}

const vendorColumns = `id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''), fee_percentage, created_on, updated_on`

func scanVendor(row interface{ Scan(...any) error }, v *domain.Vendor) error {
	return row.Scan(&v.ID, &v.Name, &v.Phone, &v.Email, &v.Address, &v.FeePercentage, &v.CreatedOn, &v.UpdatedOn)
}

// Create stores a vendor under its caller-chosen code.
func (r *vendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	query := `INSERT INTO vendors (id, name, phone, email, address, fee_percentage, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	now := time.Now().UTC()
	v.CreatedOn = now
	v.UpdatedOn = now
	logger.DatabaseCall("vendors.insert", query, "vendorID", v.ID)
	_, err := r.db.ExecContext(ctx, query, v.ID, v.Name, v.Phone, v.Email, v.Address, v.FeePercentage, v.CreatedOn, v.UpdatedOn)
	logger.DatabaseResult("vendors.insert", 1, err, "vendorID", v.ID)
	return translateError(err)
}

func (r *vendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	v := &domain.Vendor{}
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`
	if err := scanVendor(r.db.QueryRowContext(ctx, query, id), v); err != nil {
		return nil, translateError(err)
	}
	return v, nil
}

func (r *vendorRepository) List(ctx context.Context, search string) ([]domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors
	          WHERE $1::text = '' OR id ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'
	          ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query, search)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		var v domain.Vendor
		if err := scanVendor(rows, &v); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *vendorRepository) Update(ctx context.Context, v *domain.Vendor) error {
	query := `UPDATE vendors SET name=$1, phone=$2, email=$3, address=$4, fee_percentage=$5, updated_on=$6 WHERE id=$7`
	v.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, v.Name, v.Phone, v.Email, v.Address, v.FeePercentage, v.UpdatedOn, v.ID)
	if err != nil {
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}

func (r *vendorRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM vendors WHERE id = $1`
	logger.DatabaseCall("vendors.delete", query, "vendorID", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("vendors.delete", 0, err, "vendorID", id)
		return translateError(err)
	}
	return rowsAffectedOrNotFound(res)
}
