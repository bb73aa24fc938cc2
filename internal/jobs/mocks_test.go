package jobs

import (
	"context"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Summary(ctx context.Context, filter domain.TransactionFilter) domain.ReportResult[domain.Summary] {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.ReportResult[domain.Summary])
}

func (m *MockReportService) Rollup(ctx context.Context, period domain.Period, filter domain.TransactionFilter) (domain.ReportResult[[]domain.PeriodBucket], error) {
	args := m.Called(ctx, period, filter)
	return args.Get(0).(domain.ReportResult[[]domain.PeriodBucket]), args.Error(1)
}

func (m *MockReportService) CustomerBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportResult[[]domain.PartyBalance])
}

func (m *MockReportService) VendorBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	args := m.Called(ctx)
	return args.Get(0).(domain.ReportResult[[]domain.PartyBalance])
}

func (m *MockReportService) CustomerBalance(ctx context.Context, customerID int32) (domain.ReportResult[domain.PartyBalance], error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(domain.ReportResult[domain.PartyBalance]), args.Error(1)
}

func (m *MockReportService) VendorBalance(ctx context.Context, vendorID string) (domain.ReportResult[domain.PartyBalance], error) {
	args := m.Called(ctx, vendorID)
	return args.Get(0).(domain.ReportResult[domain.PartyBalance]), args.Error(1)
}

func (m *MockReportService) ExportTransactions(ctx context.Context, filter domain.TransactionFilter) ([]byte, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDailyDigest(ctx context.Context, digest *service.DailyDigest) error {
	args := m.Called(ctx, digest)
	return args.Error(0)
}

type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) Upsert(ctx context.Context, snapshots []domain.BalanceSnapshot) error {
	args := m.Called(ctx, snapshots)
	return args.Error(0)
}

func (m *MockSnapshotRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.BalanceSnapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceSnapshot), args.Error(1)
}
