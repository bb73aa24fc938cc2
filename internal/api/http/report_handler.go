package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"cheque-ledger-backend/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Report reads answer 200 even when the data source is down; the body's
// "available" flag tells the dashboard the figures are placeholders.

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Reports.Summary(r.Context(), filter))
}

func (h *handler) rollup(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	period := domain.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = domain.PeriodDaily
	}
	res, err := h.svc.Reports.Rollup(r.Context(), period, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) customerBalances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reports.CustomerBalances(r.Context()))
}

func (h *handler) vendorBalances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reports.VendorBalances(r.Context()))
}

func (h *handler) exportTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.svc.Reports.ExportTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
