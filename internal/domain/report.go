package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TransactionCount     int             `json:"transaction_count"`
	PendingCount         int             `json:"pending_count"`
	CompletedCount       int             `json:"completed_count"`
	BouncedCount         int             `json:"bounced_count"`
	TotalChequeAmount    decimal.Decimal `json:"total_cheque_amount"`
	TotalCustomerFees    decimal.Decimal `json:"total_customer_fees"`
	TotalVendorFees      decimal.Decimal `json:"total_vendor_fees"`
	TotalProfit          decimal.Decimal `json:"total_profit"`
	TotalProfitWithdrawn decimal.Decimal `json:"total_profit_withdrawn"`
	OutstandingBalance   decimal.Decimal `json:"outstanding_balance"`
}

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

type PeriodBucket struct {
	Key              string          `json:"key"`
	Start            time.Time       `json:"start"`
	TransactionCount int             `json:"transaction_count"`
	ChequeAmount     decimal.Decimal `json:"cheque_amount"`
	Profit           decimal.Decimal `json:"profit"`
}

type PartyKind string

const (
	PartyKindCustomer PartyKind = "customer"
	PartyKindVendor   PartyKind = "vendor"
)

// PartyBalance is what is still owed to a customer, or still receivable from a vendor.
type PartyBalance struct {
	PartyKind         PartyKind       `json:"party_kind"`
	PartyID           string          `json:"party_id"`
	PartyName         string          `json:"party_name"`
	TransactionCount  int             `json:"transaction_count"`
	TotalOwed         decimal.Decimal `json:"total_owed"`
	TotalPaid         decimal.Decimal `json:"total_paid"`
	Balance           decimal.Decimal `json:"balance"`
	UnallocatedCredit decimal.Decimal `json:"unallocated_credit"`
}

type BalanceSnapshot struct {
	ID           int32           `json:"id"`
	SnapshotDate time.Time       `json:"snapshot_date"`
	PartyKind    PartyKind       `json:"party_kind"`
	PartyID      string          `json:"party_id"`
	TotalOwed    decimal.Decimal `json:"total_owed"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Balance      decimal.Decimal `json:"balance"`
}

// ReportResult carries report data together with whether the data source
// answered. Unavailable results still hold zero data so a dashboard can render.
type ReportResult[T any] struct {
	Data      T      `json:"data"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func ReportAvailable[T any](data T) ReportResult[T] {
	return ReportResult[T]{Data: data, Available: true}
}

func ReportUnavailable[T any](zero T, reason string) ReportResult[T] {
	return ReportResult[T]{Data: zero, Available: false, Reason: reason}
}
