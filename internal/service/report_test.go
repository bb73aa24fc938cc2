package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"cheque-ledger-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportFixture struct {
	txRepo       *MockTransactionRepo
	customerRepo *MockCustomerRepo
	vendorRepo   *MockVendorRepo
	depositRepo  *MockDepositRepo
	svc          ReportService
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		txRepo:       new(MockTransactionRepo),
		customerRepo: new(MockCustomerRepo),
		vendorRepo:   new(MockVendorRepo),
		depositRepo:  new(MockDepositRepo),
	}
	f.svc = NewReportService(f.txRepo, f.customerRepo, f.vendorRepo, f.depositRepo)
	return f
}

func balanceTransactions() []domain.Transaction {
	a := *storedTransaction()
	a.ID, a.NetPayableToCustomer, a.PaidToCustomer = 1, dec("100.00"), dec("100.00")
	b := *storedTransaction()
	b.ID, b.NetPayableToCustomer, b.PaidToCustomer = 2, dec("200.00"), dec("0")
	b.Date = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	return []domain.Transaction{a, b}
}

var errDBDown = errors.New("connection refused")

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("available", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{}).Return(balanceTransactions(), nil).Once()

		res := f.svc.Summary(ctx, domain.TransactionFilter{})
		assert.True(t, res.Available)
		assert.Equal(t, 2, res.Data.TransactionCount)
		assert.Equal(t, "97.00", res.Data.TotalProfit.StringFixed(2))
	})

	t.Run("degrades to zero on failure", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{}).Return(nil, errDBDown).Once()

		res := f.svc.Summary(ctx, domain.TransactionFilter{})
		assert.False(t, res.Available)
		assert.Equal(t, reportUnavailableReason, res.Reason)
		assert.Equal(t, 0, res.Data.TransactionCount)
		assert.True(t, res.Data.TotalProfit.IsZero())
	})
}

func TestReportService_Rollup(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid period", func(t *testing.T) {
		f := newReportFixture()
		_, err := f.svc.Rollup(ctx, "yearly", domain.TransactionFilter{})
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.txRepo.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything)
	})

	t.Run("weekly", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{}).Return(balanceTransactions(), nil).Once()

		res, err := f.svc.Rollup(ctx, domain.PeriodWeekly, domain.TransactionFilter{})
		require.NoError(t, err)
		require.True(t, res.Available)
		require.Len(t, res.Data, 2)
		assert.Equal(t, "2025-W11", res.Data[0].Key)
		assert.Equal(t, "2025-W12", res.Data[1].Key)
	})

	t.Run("degrades to empty list", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{}).Return(nil, errDBDown).Once()

		res, err := f.svc.Rollup(ctx, domain.PeriodMonthly, domain.TransactionFilter{})
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})
}

func TestReportService_CustomerBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("balance is owed minus paid", func(t *testing.T) {
		f := newReportFixture()
		f.customerRepo.On("List", mock.Anything, "").Return([]domain.Customer{*acme, *beta}, nil).Once()
		f.txRepo.On("ListAll", mock.Anything, domain.TransactionFilter{}).Return(balanceTransactions(), nil).Once()
		f.depositRepo.On("ListCustomerDeposits", mock.Anything, int32(0)).Return([]domain.CustomerDeposit{
			{ID: 1, CustomerID: 1, Amount: dec("150"), AllocatedAmount: dec("100")},
		}, nil).Once()

		res := f.svc.CustomerBalances(ctx)
		require.True(t, res.Available)
		require.Len(t, res.Data, 2)
		assert.Equal(t, "Acme", res.Data[0].PartyName)
		assert.Equal(t, "300.00", res.Data[0].TotalOwed.StringFixed(2))
		assert.Equal(t, "200.00", res.Data[0].Balance.StringFixed(2))
		assert.Equal(t, "50.00", res.Data[0].UnallocatedCredit.StringFixed(2))
		assert.Equal(t, "Beta", res.Data[1].PartyName)
		assert.True(t, res.Data[1].Balance.IsZero())
	})

	t.Run("any source failing degrades", func(t *testing.T) {
		f := newReportFixture()
		f.customerRepo.On("List", mock.Anything, "").Return([]domain.Customer{*acme}, nil).Maybe()
		f.txRepo.On("ListAll", mock.Anything, domain.TransactionFilter{}).Return(nil, errDBDown).Once()
		f.depositRepo.On("ListCustomerDeposits", mock.Anything, int32(0)).Return([]domain.CustomerDeposit{}, nil).Maybe()

		res := f.svc.CustomerBalances(ctx)
		assert.False(t, res.Available)
		assert.NotNil(t, res.Data)
		assert.Empty(t, res.Data)
	})
}

func TestReportService_VendorBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("single vendor", func(t *testing.T) {
		f := newReportFixture()
		txs := balanceTransactions()
		txs[0].ReceivedFromVendor = dec("4801.50")
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()
		f.txRepo.On("ListAll", mock.Anything, domain.TransactionFilter{VendorID: "V01"}).Return(txs, nil).Once()
		f.depositRepo.On("ListVendorPayments", mock.Anything, "V01").Return([]domain.VendorPayment{}, nil).Once()

		res, err := f.svc.VendorBalance(ctx, "V01")
		require.NoError(t, err)
		require.True(t, res.Available)
		assert.Equal(t, "9603.00", res.Data.TotalOwed.StringFixed(2))
		assert.Equal(t, "4801.50", res.Data.Balance.StringFixed(2))
		assert.Equal(t, 2, res.Data.TransactionCount)
	})

	t.Run("unknown vendor is an error", func(t *testing.T) {
		f := newReportFixture()
		f.vendorRepo.On("GetByID", ctx, "NOPE").Return(nil, domain.ErrNotFound).Once()

		_, err := f.svc.VendorBalance(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("lookup failure degrades", func(t *testing.T) {
		f := newReportFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(nil, errDBDown).Once()

		res, err := f.svc.CustomerBalance(ctx, 1)
		require.NoError(t, err)
		assert.False(t, res.Available)
		assert.Equal(t, "1", res.Data.PartyID)
		assert.True(t, res.Data.Balance.IsZero())
	})
}

func TestReportService_ExportTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("workbook", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{Status: domain.TransactionStatusPending}).Return(balanceTransactions(), nil).Once()

		data, err := f.svc.ExportTransactions(ctx, domain.TransactionFilter{Status: domain.TransactionStatusPending})
		require.NoError(t, err)

		wb, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer wb.Close()

		header, err := wb.GetCellValue(transactionsSheet, "A1")
		require.NoError(t, err)
		assert.Equal(t, "ID", header)
		rows, err := wb.GetRows(transactionsSheet)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, "000123", rows[1][4])
		assert.Equal(t, "pending", rows[1][5])

		count, err := wb.GetCellValue(summarySheet, "B1")
		require.NoError(t, err)
		assert.Equal(t, "2", count)
	})

	t.Run("failure is returned", func(t *testing.T) {
		f := newReportFixture()
		f.txRepo.On("ListAll", ctx, domain.TransactionFilter{}).Return(nil, errDBDown).Once()

		_, err := f.svc.ExportTransactions(ctx, domain.TransactionFilter{})
		assert.ErrorIs(t, err, errDBDown)
	})
}
