package utils

import (
	"sort"
	"strconv"

	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// CustomerBalances computes, per customer, total_owed = Σ net_payable_to_customer,
// total_paid = Σ paid_to_customer and balance = owed - paid. Every listed
// customer appears, even with no transactions. credits maps customer id to
// deposit money not yet allocated to any transaction.
func CustomerBalances(customers []domain.Customer, txs []domain.Transaction, credits map[string]decimal.Decimal) []domain.PartyBalance {
	acc := newBalanceAccumulator(domain.PartyKindCustomer)
	for _, c := range customers {
		acc.touch(strconv.Itoa(int(c.ID)), c.Name)
	}
	for i := range txs {
		tx := &txs[i]
		acc.add(strconv.Itoa(int(tx.CustomerID)), tx.CustomerName, tx.NetPayableToCustomer, tx.PaidToCustomer)
	}
	return acc.result(credits)
}

// VendorBalances is the receivable side: Σ amount_to_receive_from_vendor
// against Σ received_from_vendor.
func VendorBalances(vendors []domain.Vendor, txs []domain.Transaction, credits map[string]decimal.Decimal) []domain.PartyBalance {
	acc := newBalanceAccumulator(domain.PartyKindVendor)
	for _, v := range vendors {
		acc.touch(v.ID, v.Name)
	}
	for i := range txs {
		tx := &txs[i]
		acc.add(tx.VendorID, tx.VendorName, tx.AmountToReceiveFromVendor, tx.ReceivedFromVendor)
	}
	return acc.result(credits)
}

type balanceAccumulator struct {
	kind     domain.PartyKind
	balances map[string]*domain.PartyBalance
}

func newBalanceAccumulator(kind domain.PartyKind) *balanceAccumulator {
	return &balanceAccumulator{kind: kind, balances: make(map[string]*domain.PartyBalance)}
}

func (a *balanceAccumulator) touch(id, name string) *domain.PartyBalance {
	b, ok := a.balances[id]
	if !ok {
		b = &domain.PartyBalance{
			PartyKind:         a.kind,
			PartyID:           id,
			PartyName:         name,
			TotalOwed:         decimal.Zero,
			TotalPaid:         decimal.Zero,
			Balance:           decimal.Zero,
			UnallocatedCredit: decimal.Zero,
		}
		a.balances[id] = b
	}
	if b.PartyName == "" {
		b.PartyName = name
	}
	return b
}

func (a *balanceAccumulator) add(id, name string, owed, paid decimal.Decimal) {
	b := a.touch(id, name)
	b.TransactionCount++
	b.TotalOwed = b.TotalOwed.Add(owed)
	b.TotalPaid = b.TotalPaid.Add(paid)
}

func (a *balanceAccumulator) result(credits map[string]decimal.Decimal) []domain.PartyBalance {
	out := make([]domain.PartyBalance, 0, len(a.balances))
	for id, b := range a.balances {
		b.Balance = b.TotalOwed.Sub(b.TotalPaid)
		if c, ok := credits[id]; ok {
			b.UnallocatedCredit = c
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PartyName != out[j].PartyName {
			return out[i].PartyName < out[j].PartyName
		}
		return out[i].PartyID < out[j].PartyID
	})
	return out
}

// CustomerCredits sums unallocated deposit money per customer id.
func CustomerCredits(deposits []domain.CustomerDeposit) map[string]decimal.Decimal {
	credits := make(map[string]decimal.Decimal)
	for i := range deposits {
		if un := deposits[i].Unallocated(); un.IsPositive() {
			id := strconv.Itoa(int(deposits[i].CustomerID))
			credits[id] = credits[id].Add(un)
		}
	}
	return credits
}

// VendorCredits sums unallocated vendor payment money per vendor id.
func VendorCredits(payments []domain.VendorPayment) map[string]decimal.Decimal {
	credits := make(map[string]decimal.Decimal)
	for i := range payments {
		if un := payments[i].Unallocated(); un.IsPositive() {
			credits[payments[i].VendorID] = credits[payments[i].VendorID].Add(un)
		}
	}
	return credits
}
