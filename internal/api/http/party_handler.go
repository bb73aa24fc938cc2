package http

import (
	"net/http"

	"cheque-ledger-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type partyRequest struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
}

func (req partyRequest) customer(id int32) *domain.Customer {
	return &domain.Customer{
		ID:            id,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		FeePercentage: req.FeePercentage,
	}
}

func (req partyRequest) vendor(id string) *domain.Vendor {
	return &domain.Vendor{
		ID:            id,
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		FeePercentage: req.FeePercentage,
	}
}

func (h *handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers.ListCustomers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := req.customer(0)
	if err := h.svc.Customers.CreateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := req.customer(id)
	if err := h.svc.Customers.UpdateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Customers.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) customerBalance(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.Reports.CustomerBalance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.svc.Vendors.ListVendors(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := req.vendor(req.ID)
	if err := h.svc.Vendors.CreateVendor(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *handler) getVendor(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Vendors.GetVendor(r.Context(), pathString(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) updateVendor(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	// the code in the path wins; vendor codes are not renamed
	v := req.vendor(pathString(r, "id"))
	if err := h.svc.Vendors.UpdateVendor(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) deleteVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Vendors.DeleteVendor(r.Context(), pathString(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) vendorBalance(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Reports.VendorBalance(r.Context(), pathString(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
