package jobs

import (
	"context"
	"fmt"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
)

// TakeBalanceSnapshots stores every party's balance for today. Re-running on
// the same day overwrites that day's rows.
func (jr *JobRunner) TakeBalanceSnapshots() {
	jr.runWithRecovery("TakeBalanceSnapshots", jr.takeBalanceSnapshots)
}

func (jr *JobRunner) takeBalanceSnapshots(ctx context.Context) error {
	day := jr.today()

	customers := jr.reports.CustomerBalances(ctx)
	if !customers.Available {
		return unavailableError("customer balances", customers.Reason)
	}
	vendors := jr.reports.VendorBalances(ctx)
	if !vendors.Available {
		return unavailableError("vendor balances", vendors.Reason)
	}

	snapshots := make([]domain.BalanceSnapshot, 0, len(customers.Data)+len(vendors.Data))
	snapshots = appendSnapshots(snapshots, day, customers.Data)
	snapshots = appendSnapshots(snapshots, day, vendors.Data)

	if err := jr.snapshots.Upsert(ctx, snapshots); err != nil {
		return fmt.Errorf("store snapshots: %w", err)
	}

	logger.Info("Balance snapshots stored",
		"date", day.Format("2006-01-02"),
		"customers", len(customers.Data),
		"vendors", len(vendors.Data))
	return nil
}

func appendSnapshots(dst []domain.BalanceSnapshot, day time.Time, balances []domain.PartyBalance) []domain.BalanceSnapshot {
	for _, b := range balances {
		dst = append(dst, domain.BalanceSnapshot{
			SnapshotDate: day,
			PartyKind:    b.PartyKind,
			PartyID:      b.PartyID,
			TotalOwed:    b.TotalOwed,
			TotalPaid:    b.TotalPaid,
			Balance:      b.Balance,
		})
	}
	return dst
}
