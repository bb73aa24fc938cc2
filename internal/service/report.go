package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const reportUnavailableReason = "data source unavailable"

type reportService struct {
	txRepo       repository.TransactionRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	depositRepo  repository.DepositRepository
}

func NewReportService(txRepo repository.TransactionRepository, customerRepo repository.CustomerRepository, vendorRepo repository.VendorRepository, depositRepo repository.DepositRepository) ReportService {
	return &reportService{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		depositRepo:  depositRepo,
	}
}

func unavailable[T any](ctx context.Context, report string, zero T, err error) domain.ReportResult[T] {
	logger.ErrorContext(ctx, "Report degraded to empty result", "report", report, "error", err)
	return domain.ReportUnavailable(zero, reportUnavailableReason)
}

func (s *reportService) Summary(ctx context.Context, filter domain.TransactionFilter) domain.ReportResult[domain.Summary] {
	txs, err := s.txRepo.ListAll(ctx, filter)
	if err != nil {
		return unavailable(ctx, "summary", utils.EmptySummary(), err)
	}
	return domain.ReportAvailable(utils.BuildSummary(txs))
}

func (s *reportService) Rollup(ctx context.Context, period domain.Period, filter domain.TransactionFilter) (domain.ReportResult[[]domain.PeriodBucket], error) {
	if !period.Valid() {
		return domain.ReportResult[[]domain.PeriodBucket]{}, domain.NewValidationError("period must be daily, weekly or monthly")
	}
	txs, err := s.txRepo.ListAll(ctx, filter)
	if err != nil {
		return unavailable(ctx, "rollup", []domain.PeriodBucket{}, err), nil
	}
	buckets, err := utils.Rollup(txs, period)
	if err != nil {
		return domain.ReportResult[[]domain.PeriodBucket]{}, err
	}
	return domain.ReportAvailable(buckets), nil
}

func (s *reportService) CustomerBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	var (
		customers []domain.Customer
		txs       []domain.Transaction
		deposits  []domain.CustomerDeposit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customers, err = s.customerRepo.List(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		txs, err = s.txRepo.ListAll(gctx, domain.TransactionFilter{})
		return err
	})
	g.Go(func() (err error) {
		deposits, err = s.depositRepo.ListCustomerDeposits(gctx, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return unavailable(ctx, "customer_balances", []domain.PartyBalance{}, err)
	}
	return domain.ReportAvailable(utils.CustomerBalances(customers, txs, utils.CustomerCredits(deposits)))
}

func (s *reportService) VendorBalances(ctx context.Context) domain.ReportResult[[]domain.PartyBalance] {
	var (
		vendors  []domain.Vendor
		txs      []domain.Transaction
		payments []domain.VendorPayment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vendors, err = s.vendorRepo.List(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		txs, err = s.txRepo.ListAll(gctx, domain.TransactionFilter{})
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.depositRepo.ListVendorPayments(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return unavailable(ctx, "vendor_balances", []domain.PartyBalance{}, err)
	}
	return domain.ReportAvailable(utils.VendorBalances(vendors, txs, utils.VendorCredits(payments)))
}

func zeroBalance(kind domain.PartyKind, id, name string) domain.PartyBalance {
	return domain.PartyBalance{
		PartyKind:         kind,
		PartyID:           id,
		PartyName:         name,
		TotalOwed:         decimal.Zero,
		TotalPaid:         decimal.Zero,
		Balance:           decimal.Zero,
		UnallocatedCredit: decimal.Zero,
	}
}

func (s *reportService) CustomerBalance(ctx context.Context, customerID int32) (domain.ReportResult[domain.PartyBalance], error) {
	zero := zeroBalance(domain.PartyKindCustomer, strconv.Itoa(int(customerID)), "")
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ReportResult[domain.PartyBalance]{}, err
	}
	if err != nil {
		return unavailable(ctx, "customer_balance", zero, err), nil
	}
	zero.PartyName = customer.Name

	var (
		txs      []domain.Transaction
		deposits []domain.CustomerDeposit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.txRepo.ListAll(gctx, domain.TransactionFilter{CustomerID: customerID})
		return err
	})
	g.Go(func() (err error) {
		deposits, err = s.depositRepo.ListCustomerDeposits(gctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return unavailable(ctx, "customer_balance", zero, err), nil
	}

	balances := utils.CustomerBalances([]domain.Customer{*customer}, txs, utils.CustomerCredits(deposits))
	return domain.ReportAvailable(balances[0]), nil
}

func (s *reportService) VendorBalance(ctx context.Context, vendorID string) (domain.ReportResult[domain.PartyBalance], error) {
	zero := zeroBalance(domain.PartyKindVendor, vendorID, "")
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ReportResult[domain.PartyBalance]{}, err
	}
	if err != nil {
		return unavailable(ctx, "vendor_balance", zero, err), nil
	}
	zero.PartyName = vendor.Name

	var (
		txs      []domain.Transaction
		payments []domain.VendorPayment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.txRepo.ListAll(gctx, domain.TransactionFilter{VendorID: vendorID})
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.depositRepo.ListVendorPayments(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return unavailable(ctx, "vendor_balance", zero, err), nil
	}

	balances := utils.VendorBalances([]domain.Vendor{*vendor}, txs, utils.VendorCredits(payments))
	return domain.ReportAvailable(balances[0]), nil
}

var exportHeaders = []string{
	"ID", "Date", "Customer", "Vendor", "Cheque No.", "Status",
	"Cheque Amount", "Customer Fee %", "Customer Fee", "Net Payable to Customer",
	"Vendor Fee %", "Vendor Fee", "Receivable from Vendor", "Profit",
	"Paid to Customer", "Received from Vendor", "Profit Withdrawn", "Notes",
}

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// ExportTransactions renders the filtered transactions and their summary as
// an xlsx workbook. Unlike the report reads this fails loudly: a download
// cannot be rendered half empty.
func (s *reportService) ExportTransactions(ctx context.Context, filter domain.TransactionFilter) ([]byte, error) {
	txs, err := s.txRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, err
	}
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(transactionsSheet, cell, header)
	}

	money := func(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }
	for i := range txs {
		t := &txs[i]
		row := []any{
			t.ID, t.Date.Format("2006-01-02"), t.CustomerName, t.VendorID, t.ChequeNumber, string(t.Status),
			money(t.ChequeAmount), t.CustomerFeePercentage.InexactFloat64(), money(t.CustomerFee), money(t.NetPayableToCustomer),
			t.VendorFeePercentage.InexactFloat64(), money(t.VendorFee), money(t.AmountToReceiveFromVendor), money(t.Profit),
			money(t.PaidToCustomer), money(t.ReceivedFromVendor), money(t.ProfitWithdrawn), t.Notes,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(transactionsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	for _, cols := range []string{"G", "I:J", "L:Q"} {
		if err := f.SetColStyle(transactionsSheet, cols, moneyStyle); err != nil {
			return nil, err
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(transactionsSheet, 1, 1, headerStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	sum := utils.BuildSummary(txs)
	summaryRows := [][]any{
		{"Transactions", sum.TransactionCount},
		{"Pending", sum.PendingCount},
		{"Completed", sum.CompletedCount},
		{"Bounced", sum.BouncedCount},
		{"Total Cheque Amount", money(sum.TotalChequeAmount)},
		{"Total Customer Fees", money(sum.TotalCustomerFees)},
		{"Total Vendor Fees", money(sum.TotalVendorFees)},
		{"Total Profit", money(sum.TotalProfit)},
		{"Profit Withdrawn", money(sum.TotalProfitWithdrawn)},
		{"Outstanding from Vendors", money(sum.OutstandingBalance)},
	}
	for i, r := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	logger.InfoContext(ctx, "Transactions exported", "rows", len(txs), "bytes", buf.Len())
	return buf.Bytes(), nil
}
