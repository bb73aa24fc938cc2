package jobs

import (
	"context"
	"fmt"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/service"
)

// SendDailyDigest emails yesterday's activity and the current open balances.
func (jr *JobRunner) SendDailyDigest() {
	jr.runWithRecovery("SendDailyDigest", jr.sendDailyDigest)
}

func (jr *JobRunner) sendDailyDigest(ctx context.Context) error {
	day := jr.today().AddDate(0, 0, -1)
	filter := domain.TransactionFilter{DateFrom: &day, DateTo: &day}

	summary := jr.reports.Summary(ctx, filter)
	if !summary.Available {
		return unavailableError("summary", summary.Reason)
	}
	customers := jr.reports.CustomerBalances(ctx)
	if !customers.Available {
		return unavailableError("customer balances", customers.Reason)
	}
	vendors := jr.reports.VendorBalances(ctx)
	if !vendors.Available {
		return unavailableError("vendor balances", vendors.Reason)
	}

	digest := &service.DailyDigest{
		Date:            day,
		Summary:         summary.Data,
		CustomerBalance: customers.Data,
		VendorBalance:   vendors.Data,
	}
	if err := jr.email.SendDailyDigest(ctx, digest); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}

	logger.Info("Daily digest sent",
		"date", day.Format("2006-01-02"),
		"transactions", summary.Data.TransactionCount,
		"profit", summary.Data.TotalProfit.StringFixed(2))
	return nil
}
