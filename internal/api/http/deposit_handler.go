package http

import (
	"net/http"
	"strings"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type depositRequest struct {
	CustomerID int32           `json:"customer_id,omitempty"`
	VendorID   string          `json:"vendor_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Note       string          `json:"note"`
}

type customerDepositResponse struct {
	Deposit     *domain.CustomerDeposit `json:"deposit"`
	Allocations []domain.Allocation     `json:"allocations"`
}

type vendorPaymentResponse struct {
	Payment     *domain.VendorPayment `json:"payment"`
	Allocations []domain.Allocation   `json:"allocations"`
}

func nonNil(allocs []domain.Allocation) []domain.Allocation {
	if allocs == nil {
		return []domain.Allocation{}
	}
	return allocs
}

func (h *handler) listCustomerDeposits(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryInt32(r, "customer_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	deposits, err := h.svc.Deposits.ListCustomerDeposits(r.Context(), customerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits)
}

func (h *handler) createCustomerDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d := &domain.CustomerDeposit{CustomerID: req.CustomerID, Amount: req.Amount, Date: date, Note: req.Note}
	allocs, err := h.svc.Deposits.RecordCustomerDeposit(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customerDepositResponse{Deposit: d, Allocations: nonNil(allocs)})
}

func (h *handler) getCustomerDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.svc.Deposits.GetCustomerDeposit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handler) deleteCustomerDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Deposits.DeleteCustomerDeposit(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) allocateCustomerDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, allocs, err := h.svc.Deposits.AllocateCustomerDeposit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerDepositResponse{Deposit: d, Allocations: nonNil(allocs)})
}

func (h *handler) listVendorPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.svc.Deposits.ListVendorPayments(r.Context(), strings.TrimSpace(r.URL.Query().Get("vendor_id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *handler) createVendorPayment(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := &domain.VendorPayment{VendorID: req.VendorID, Amount: req.Amount, Date: date, Note: req.Note}
	allocs, err := h.svc.Deposits.RecordVendorPayment(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendorPaymentResponse{Payment: p, Allocations: nonNil(allocs)})
}

func (h *handler) getVendorPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Deposits.GetVendorPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) deleteVendorPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Deposits.DeleteVendorPayment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) allocateVendorPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, allocs, err := h.svc.Deposits.AllocateVendorPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendorPaymentResponse{Payment: p, Allocations: nonNil(allocs)})
}
