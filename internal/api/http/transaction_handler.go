package http

import (
	"net/http"
	"strings"
	"time"

	"cheque-ledger-backend/internal/domain"
	"cheque-ledger-backend/internal/service"
	"cheque-ledger-backend/internal/utils"

	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Date                  string                   `json:"date"`
	CustomerID            int32                    `json:"customer_id"`
	VendorID              string                   `json:"vendor_id"`
	ChequeNumber          string                   `json:"cheque_number"`
	ChequeAmount          decimal.Decimal          `json:"cheque_amount"`
	CustomerFeePercentage *decimal.Decimal         `json:"customer_fee_percentage,omitempty"`
	VendorFeePercentage   *decimal.Decimal         `json:"vendor_fee_percentage,omitempty"`
	Status                domain.TransactionStatus `json:"status,omitempty"`
	Notes                 string                   `json:"notes"`
}

func (req transactionRequest) input(requireDate bool) (service.TransactionInput, error) {
	in := service.TransactionInput{
		CustomerID:            req.CustomerID,
		VendorID:              req.VendorID,
		ChequeNumber:          req.ChequeNumber,
		ChequeAmount:          req.ChequeAmount,
		CustomerFeePercentage: req.CustomerFeePercentage,
		VendorFeePercentage:   req.VendorFeePercentage,
		Status:                req.Status,
		Notes:                 req.Notes,
	}
	if req.Date == "" && !requireDate {
		return in, nil
	}
	d, err := utils.ParseDate(req.Date)
	if err != nil {
		return in, err
	}
	in.Date = d
	return in, nil
}

type transactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Total        int32                `json:"total"`
	Page         int32                `json:"page"`
	PageSize     int32                `json:"page_size"`
}

type statusRequest struct {
	Status domain.TransactionStatus `json:"status"`
}

type paymentRequest struct {
	Kind   domain.PaymentKind `json:"kind"`
	Amount decimal.Decimal    `json:"amount"`
}

// parseFilter reads transaction filters from the query string.
func parseFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	var f domain.TransactionFilter
	var err error
	if f.CustomerID, err = queryInt32(r, "customer_id"); err != nil {
		return f, err
	}
	if f.Page, err = queryInt32(r, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt32(r, "page_size"); err != nil {
		return f, err
	}
	f.VendorID = strings.TrimSpace(q.Get("vendor_id"))
	f.Status = domain.TransactionStatus(q.Get("status"))
	f.ChequeNumber = strings.TrimSpace(q.Get("cheque_number"))
	if f.DateFrom, err = queryDate(r, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = queryDate(r, "date_to"); err != nil {
		return f, err
	}
	return f, f.Validate()
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter.Normalize()
	txs, total, err := h.svc.Transactions.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactionPage{Transactions: txs, Total: total, Page: filter.Page, PageSize: filter.PageSize})
}

func (h *handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input(true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.svc.Transactions.CreateTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input(false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fees, err := h.svc.Transactions.Calculate(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fees)
}

func (h *handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.svc.Transactions.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input(true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.svc.Transactions.UpdateTransaction(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Transactions.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.svc.Transactions.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var tx *domain.Transaction
	switch req.Kind {
	case domain.PaymentToCustomer:
		tx, err = h.svc.Transactions.RecordCustomerPayment(r.Context(), id, req.Amount)
	case domain.PaymentFromVendor:
		tx, err = h.svc.Transactions.RecordVendorReceipt(r.Context(), id, req.Amount)
	case domain.PaymentProfitWithdrawal:
		tx, err = h.svc.Transactions.RecordProfitWithdrawal(r.Context(), id, req.Amount)
	default:
		err = domain.NewValidationError("kind must be customer, vendor or profit")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}
