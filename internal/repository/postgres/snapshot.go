package postgres

import (
	"context"
	"database/sql"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
)

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Upsert(ctx context.Context, snapshots []domain.BalanceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	logger.EnterMethod("snapshotRepository.Upsert", "count", len(snapshots))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO balance_snapshots (snapshot_date, party_kind, party_id, total_owed, total_paid, balance)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (snapshot_date, party_kind, party_id)
	          DO UPDATE SET total_owed = EXCLUDED.total_owed, total_paid = EXCLUDED.total_paid, balance = EXCLUDED.balance`)
	if err != nil {
		return translateError(err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		if _, err := stmt.ExecContext(ctx, s.SnapshotDate, string(s.PartyKind), s.PartyID, s.TotalOwed, s.TotalPaid, s.Balance); err != nil {
			logger.ExitMethodWithError("snapshotRepository.Upsert", err, "partyID", s.PartyID)
			return translateError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.ExitMethod("snapshotRepository.Upsert", "count", len(snapshots))
	return nil
}

func (r *snapshotRepository) ListByDate(ctx context.Context, date time.Time) ([]domain.BalanceSnapshot, error) {
	query := `SELECT id, snapshot_date, party_kind, party_id, total_owed, total_paid, balance
	          FROM balance_snapshots WHERE snapshot_date = $1 ORDER BY party_kind, party_id`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	snapshots := []domain.BalanceSnapshot{}
	for rows.Next() {
		var s domain.BalanceSnapshot
		if err := rows.Scan(&s.ID, &s.SnapshotDate, &s.PartyKind, &s.PartyID, &s.TotalOwed, &s.TotalPaid, &s.Balance); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
