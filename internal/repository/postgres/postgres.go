package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.CustomerRepository
	repository.VendorRepository
	repository.TransactionRepository
	repository.DepositRepository
	repository.UserRepository
	repository.SnapshotRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		CustomerRepository:    NewCustomerRepository(db),
		VendorRepository:      NewVendorRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		DepositRepository:     NewDepositRepository(db),
		UserRepository:        NewUserRepository(db),
		SnapshotRepository:    NewSnapshotRepository(db),
	}
}

// Ping reports whether the database is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Postgres error codes we map to domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNumericOutOfRange   = "22003"
)

// translateError maps driver errors onto domain sentinels so callers never
// need to know about database/sql or lib/pq.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s already exists", domain.ErrConflict, constraintSubject(pqErr))
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: referenced record is missing or still in use", domain.ErrConflict)
		case pqCheckViolation:
			return domain.NewValidationError("value out of range (%s)", pqErr.Constraint)
		case pqNumericOutOfRange:
			return domain.NewValidationError("numeric value out of range")
		}
	}
	return err
}

func constraintSubject(e *pq.Error) string {
	if e.Constraint != "" {
		return e.Constraint
	}
	return "record"
}

// rowsAffectedOrNotFound turns an UPDATE/DELETE that touched nothing into ErrNotFound.
func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
