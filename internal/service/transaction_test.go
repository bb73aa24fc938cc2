package service

import (
	"context"
	"testing"
	"time"

	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txFixture struct {
	txRepo       *MockTransactionRepo
	customerRepo *MockCustomerRepo
	vendorRepo   *MockVendorRepo
	svc          TransactionService
}

func newTxFixture() *txFixture {
	f := &txFixture{
		txRepo:       new(MockTransactionRepo),
		customerRepo: new(MockCustomerRepo),
		vendorRepo:   new(MockVendorRepo),
	}
	f.svc = NewTransactionService(f.txRepo, f.customerRepo, f.vendorRepo)
	return f
}

var (
	acme      = &domain.Customer{ID: 1, Name: "Acme", FeePercentage: decimal.RequireFromString("2")}
	beta      = &domain.Customer{ID: 2, Name: "Beta", FeePercentage: decimal.RequireFromString("3")}
	northside = &domain.Vendor{ID: "V01", Name: "Northside", FeePercentage: decimal.RequireFromString("1")}
)

func storedTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:                        10,
		Date:                      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CustomerID:                1,
		CustomerName:              "Acme",
		VendorID:                  "V01",
		ChequeNumber:              "000123",
		ChequeAmount:              dec("4850.00"),
		CustomerFeePercentage:     dec("2"),
		VendorFeePercentage:       dec("1"),
		CustomerFee:               dec("97.00"),
		NetPayableToCustomer:      dec("4753.00"),
		VendorFee:                 dec("48.50"),
		AmountToReceiveFromVendor: dec("4801.50"),
		Profit:                    dec("48.50"),
		Status:                    domain.TransactionStatusPending,
		PaidToCustomer:            dec("0"),
		ReceivedFromVendor:        dec("0"),
		ProfitWithdrawn:           dec("0"),
	}
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	input := TransactionInput{
		Date:         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CustomerID:   1,
		VendorID:     "V01",
		ChequeNumber: " 000123 ",
		ChequeAmount: dec("4850.00"),
	}

	t.Run("uses party rates", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()
		f.txRepo.On("Create", ctx, mock.AnythingOfType("*domain.Transaction")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Transaction).ID = 10
		}).Return(nil).Once()

		tx, err := f.svc.CreateTransaction(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int32(10), tx.ID)
		assert.Equal(t, "000123", tx.ChequeNumber)
		assert.Equal(t, domain.TransactionStatusPending, tx.Status)
		assert.Equal(t, "97.00", tx.CustomerFee.StringFixed(2))
		assert.Equal(t, "4753.00", tx.NetPayableToCustomer.StringFixed(2))
		assert.Equal(t, "48.50", tx.VendorFee.StringFixed(2))
		assert.Equal(t, "4801.50", tx.AmountToReceiveFromVendor.StringFixed(2))
		assert.Equal(t, "48.50", tx.Profit.StringFixed(2))
		assert.NotEmpty(t, tx.AmountInWords)
		f.txRepo.AssertExpectations(t)
	})

	t.Run("override wins over party rate", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()
		f.txRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		in := input
		pct := dec("0.5")
		in.VendorFeePercentage = &pct
		tx, err := f.svc.CreateTransaction(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "24.25", tx.VendorFee.StringFixed(2))
		assert.Equal(t, "72.75", tx.Profit.StringFixed(2))
	})

	t.Run("override with sub-cent rate rejected", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()

		in := input
		pct := dec("2.125")
		in.CustomerFeePercentage = &pct
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown vendor is a validation error", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(nil, domain.ErrNotFound).Once()

		_, err := f.svc.CreateTransaction(ctx, input)
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.txRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()

		in := input
		in.ChequeAmount = dec("0")
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("missing customer", func(t *testing.T) {
		f := newTxFixture()
		in := input
		in.CustomerID = 0
		_, err := f.svc.CreateTransaction(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTransactionService_UpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("amount change recomputes with stored rates", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		// the party's rate moved since creation; the transaction keeps its own
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(&domain.Customer{ID: 1, Name: "Acme", FeePercentage: dec("5")}, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()
		f.txRepo.On("Update", ctx, mock.Anything).Return(nil).Once()

		tx, err := f.svc.UpdateTransaction(ctx, 10, TransactionInput{
			Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CustomerID: 1, VendorID: "V01",
			ChequeNumber: "000123", ChequeAmount: dec("1000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "20.00", tx.CustomerFee.StringFixed(2))
		assert.Equal(t, "980.00", tx.NetPayableToCustomer.StringFixed(2))
		assert.Equal(t, "990.00", tx.AmountToReceiveFromVendor.StringFixed(2))
		assert.Equal(t, "10.00", tx.Profit.StringFixed(2))
	})

	t.Run("customer change picks up new rate", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		f.customerRepo.On("GetByID", ctx, int32(2)).Return(beta, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()
		f.txRepo.On("Update", ctx, mock.MatchedBy(func(tx *domain.Transaction) bool {
			return tx.CustomerID == 2 && tx.CustomerFeePercentage.Equal(dec("3"))
		})).Return(nil).Once()

		tx, err := f.svc.UpdateTransaction(ctx, 10, TransactionInput{
			Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CustomerID: 2, VendorID: "V01",
			ChequeNumber: "000123", ChequeAmount: dec("4850.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "145.50", tx.CustomerFee.StringFixed(2))
		assert.Equal(t, "4704.50", tx.NetPayableToCustomer.StringFixed(2))
		f.txRepo.AssertExpectations(t)
	})

	t.Run("cannot shrink below recorded payments", func(t *testing.T) {
		f := newTxFixture()
		stored := storedTransaction()
		stored.PaidToCustomer = dec("4000")
		f.txRepo.On("GetByID", ctx, int32(10)).Return(stored, nil).Once()
		f.customerRepo.On("GetByID", ctx, int32(1)).Return(acme, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()

		_, err := f.svc.UpdateTransaction(ctx, 10, TransactionInput{
			Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), CustomerID: 1, VendorID: "V01",
			ChequeNumber: "000123", ChequeAmount: dec("1000"),
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.txRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("no payments", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		f.txRepo.On("Delete", ctx, int32(10)).Return(nil).Once()

		require.NoError(t, f.svc.DeleteTransaction(ctx, 10))
		f.txRepo.AssertExpectations(t)
	})

	for name, mutate := range map[string]func(tx *domain.Transaction){
		"paid to customer":     func(tx *domain.Transaction) { tx.PaidToCustomer = dec("100") },
		"received from vendor": func(tx *domain.Transaction) { tx.ReceivedFromVendor = dec("0.01") },
		"profit withdrawn":     func(tx *domain.Transaction) { tx.ProfitWithdrawn = dec("10") },
	} {
		t.Run("refused when "+name, func(t *testing.T) {
			f := newTxFixture()
			stored := storedTransaction()
			mutate(stored)
			f.txRepo.On("GetByID", ctx, int32(10)).Return(stored, nil).Once()

			err := f.svc.DeleteTransaction(ctx, 10)
			assert.ErrorIs(t, err, domain.ErrTransactionHasPayments)
			assert.ErrorIs(t, err, domain.ErrConflict)
			f.txRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}

	t.Run("payment recorded after read", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		f.txRepo.On("Delete", ctx, int32(10)).Return(domain.ErrTransactionHasPayments).Once()

		assert.ErrorIs(t, f.svc.DeleteTransaction(ctx, 10), domain.ErrConflict)
	})

	t.Run("not found", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(99)).Return(nil, domain.ErrNotFound).Once()

		assert.ErrorIs(t, f.svc.DeleteTransaction(ctx, 99), domain.ErrNotFound)
		f.txRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransactionService_RecordPayments(t *testing.T) {
	ctx := context.Background()

	t.Run("customer payment", func(t *testing.T) {
		f := newTxFixture()
		after := storedTransaction()
		after.PaidToCustomer = dec("1000.00")
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		f.txRepo.On("RecordPayment", ctx, int32(10), domain.PaymentToCustomer, mock.MatchedBy(func(a decimal.Decimal) bool {
			return a.Equal(dec("1000"))
		})).Return(nil).Once()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(after, nil).Once()

		tx, err := f.svc.RecordCustomerPayment(ctx, 10, dec("1000"))
		require.NoError(t, err)
		assert.Equal(t, "3753.00", tx.OutstandingToCustomer().StringFixed(2))
		f.txRepo.AssertExpectations(t)
	})

	t.Run("vendor receipt over outstanding", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()

		_, err := f.svc.RecordVendorReceipt(ctx, 10, dec("4801.51"))
		assert.ErrorIs(t, err, domain.ErrExceedsOutstanding)
		assert.Contains(t, err.Error(), "4801.50 outstanding")
		f.txRepo.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("profit withdrawal on a loss", func(t *testing.T) {
		f := newTxFixture()
		loss := storedTransaction()
		loss.Profit = dec("-10.00")
		f.txRepo.On("GetByID", ctx, int32(10)).Return(loss, nil).Once()

		_, err := f.svc.RecordProfitWithdrawal(ctx, 10, dec("1"))
		assert.ErrorIs(t, err, domain.ErrExceedsOutstanding)
	})

	t.Run("zero amount", func(t *testing.T) {
		f := newTxFixture()
		_, err := f.svc.RecordCustomerPayment(ctx, 10, dec("0.001"))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("concurrent cap hit in repository", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(storedTransaction(), nil).Once()
		f.txRepo.On("RecordPayment", ctx, int32(10), domain.PaymentFromVendor, mock.Anything).Return(domain.ErrExceedsOutstanding).Once()

		_, err := f.svc.RecordVendorReceipt(ctx, 10, dec("100"))
		assert.ErrorIs(t, err, domain.ErrExceedsOutstanding)
	})
}

func TestTransactionService_Calculate(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit rates need no lookup", func(t *testing.T) {
		f := newTxFixture()
		cf, vf := dec("2"), dec("1")
		got, err := f.svc.Calculate(ctx, TransactionInput{ChequeAmount: dec("4850"), CustomerFeePercentage: &cf, VendorFeePercentage: &vf})
		require.NoError(t, err)
		assert.Equal(t, "48.50", got.Profit.StringFixed(2))
	})

	t.Run("rates from parties", func(t *testing.T) {
		f := newTxFixture()
		f.customerRepo.On("GetByID", ctx, int32(2)).Return(beta, nil).Once()
		f.vendorRepo.On("GetByID", ctx, "V01").Return(northside, nil).Once()

		got, err := f.svc.Calculate(ctx, TransactionInput{ChequeAmount: dec("100"), CustomerID: 2, VendorID: "V01"})
		require.NoError(t, err)
		assert.Equal(t, "3.00", got.CustomerFee.StringFixed(2))
		assert.Equal(t, "2.00", got.Profit.StringFixed(2))
	})

	t.Run("rate out of range", func(t *testing.T) {
		f := newTxFixture()
		cf, vf := dec("101"), dec("1")
		_, err := f.svc.Calculate(ctx, TransactionInput{ChequeAmount: dec("100"), CustomerFeePercentage: &cf, VendorFeePercentage: &vf})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTransactionService_ListAndStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("list normalizes paging", func(t *testing.T) {
		f := newTxFixture()
		f.txRepo.On("List", ctx, domain.TransactionFilter{Page: 1, PageSize: domain.DefaultPageSize}).
			Return([]domain.Transaction{*storedTransaction()}, int32(1), nil).Once()

		txs, total, err := f.svc.ListTransactions(ctx, domain.TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, txs, 1)
		assert.Equal(t, int32(1), total)
	})

	t.Run("invalid status", func(t *testing.T) {
		f := newTxFixture()
		_, err := f.svc.UpdateStatus(ctx, 10, "cleared")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("mark bounced", func(t *testing.T) {
		f := newTxFixture()
		bounced := storedTransaction()
		bounced.Status = domain.TransactionStatusBounced
		f.txRepo.On("UpdateStatus", ctx, int32(10), domain.TransactionStatusBounced).Return(nil).Once()
		f.txRepo.On("GetByID", ctx, int32(10)).Return(bounced, nil).Once()

		tx, err := f.svc.UpdateStatus(ctx, 10, domain.TransactionStatusBounced)
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusBounced, tx.Status)
	})
}
