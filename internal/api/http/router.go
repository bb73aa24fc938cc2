package http

import (
	"context"
	"net/http"

	"cheque-ledger-backend/internal/config"
	"cheque-ledger-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services are the use cases the REST surface exposes.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Customers    service.CustomerService
	Vendors      service.VendorService
	Transactions service.TransactionService
	Deposits     service.DepositService
	Reports      service.ReportService
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	CookieName     string
	CookieSecure   bool
	AllowedOrigins []string
	// Metrics is optional; nil disables the middleware and the endpoint.
	Metrics     *Metrics
	MetricsPath string
	DB          Pinger
}

type handler struct {
	svc  Services
	opts Options
}

func NewRouter(svc Services, opts Options) *mux.Router {
	if opts.CookieName == "" {
		opts.CookieName = "ledger_session"
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	h := &handler{svc: svc, opts: opts}
	auth := &authenticator{auth: svc.Auth, cookieName: opts.CookieName}

	r := mux.NewRouter()
	r.Use(requestLogger, recoverer, cors(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.middleware)
		r.Handle(opts.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}
	r.NotFoundHandler = requestLogger(http.HandlerFunc(h.notFound))

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.readyz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	// preflight requests carry no credentials
	// a method matcher here would turn every unknown /api path into a 405
	api.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	api.HandleFunc("/auth/login", h.login).Methods(http.MethodPost)

	pr := api.NewRoute().Subrouter()
	pr.Use(auth.middleware)

	pr.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	pr.HandleFunc("/auth/me", h.me).Methods(http.MethodGet)
	pr.HandleFunc("/auth/password", h.changePassword).Methods(http.MethodPost)

	// customers
	pr.HandleFunc("/customers", authorize(config.ActionCustomerRead, h.listCustomers)).Methods(http.MethodGet)
	pr.HandleFunc("/customers", authorize(config.ActionCustomerWrite, h.createCustomer)).Methods(http.MethodPost)
	pr.HandleFunc("/customers/{id}", authorize(config.ActionCustomerRead, h.getCustomer)).Methods(http.MethodGet)
	pr.HandleFunc("/customers/{id}", authorize(config.ActionCustomerWrite, h.updateCustomer)).Methods(http.MethodPut)
	pr.HandleFunc("/customers/{id}", authorize(config.ActionCustomerDelete, h.deleteCustomer)).Methods(http.MethodDelete)
	pr.HandleFunc("/customers/{id}/balance", authorize(config.ActionReportRead, h.customerBalance)).Methods(http.MethodGet)

	// vendors
	pr.HandleFunc("/vendors", authorize(config.ActionVendorRead, h.listVendors)).Methods(http.MethodGet)
	pr.HandleFunc("/vendors", authorize(config.ActionVendorWrite, h.createVendor)).Methods(http.MethodPost)
	pr.HandleFunc("/vendors/{id}", authorize(config.ActionVendorRead, h.getVendor)).Methods(http.MethodGet)
	pr.HandleFunc("/vendors/{id}", authorize(config.ActionVendorWrite, h.updateVendor)).Methods(http.MethodPut)
	pr.HandleFunc("/vendors/{id}", authorize(config.ActionVendorDelete, h.deleteVendor)).Methods(http.MethodDelete)
	pr.HandleFunc("/vendors/{id}/balance", authorize(config.ActionReportRead, h.vendorBalance)).Methods(http.MethodGet)

	// transactions
	pr.HandleFunc("/transactions", authorize(config.ActionTransactionRead, h.listTransactions)).Methods(http.MethodGet)
	pr.HandleFunc("/transactions", authorize(config.ActionTransactionWrite, h.createTransaction)).Methods(http.MethodPost)
	pr.HandleFunc("/transactions/calculate", authorize(config.ActionTransactionRead, h.calculate)).Methods(http.MethodPost)
	pr.HandleFunc("/transactions/{id:[0-9]+}", authorize(config.ActionTransactionRead, h.getTransaction)).Methods(http.MethodGet)
	pr.HandleFunc("/transactions/{id:[0-9]+}", authorize(config.ActionTransactionWrite, h.updateTransaction)).Methods(http.MethodPut)
	pr.HandleFunc("/transactions/{id:[0-9]+}", authorize(config.ActionTransactionDelete, h.deleteTransaction)).Methods(http.MethodDelete)
	pr.HandleFunc("/transactions/{id:[0-9]+}/status", authorize(config.ActionTransactionWrite, h.updateStatus)).Methods(http.MethodPatch)
	pr.HandleFunc("/transactions/{id:[0-9]+}/payments", authorize(config.ActionPaymentWrite, h.recordPayment)).Methods(http.MethodPost)

	// deposits
	pr.HandleFunc("/deposits/customers", authorize(config.ActionDepositRead, h.listCustomerDeposits)).Methods(http.MethodGet)
	pr.HandleFunc("/deposits/customers", authorize(config.ActionDepositWrite, h.createCustomerDeposit)).Methods(http.MethodPost)
	pr.HandleFunc("/deposits/customers/{id}", authorize(config.ActionDepositRead, h.getCustomerDeposit)).Methods(http.MethodGet)
	pr.HandleFunc("/deposits/customers/{id}", authorize(config.ActionDepositDelete, h.deleteCustomerDeposit)).Methods(http.MethodDelete)
	pr.HandleFunc("/deposits/customers/{id}/allocate", authorize(config.ActionDepositWrite, h.allocateCustomerDeposit)).Methods(http.MethodPost)
	pr.HandleFunc("/deposits/vendors", authorize(config.ActionDepositRead, h.listVendorPayments)).Methods(http.MethodGet)
	pr.HandleFunc("/deposits/vendors", authorize(config.ActionDepositWrite, h.createVendorPayment)).Methods(http.MethodPost)
	pr.HandleFunc("/deposits/vendors/{id}", authorize(config.ActionDepositRead, h.getVendorPayment)).Methods(http.MethodGet)
	pr.HandleFunc("/deposits/vendors/{id}", authorize(config.ActionDepositDelete, h.deleteVendorPayment)).Methods(http.MethodDelete)
	pr.HandleFunc("/deposits/vendors/{id}/allocate", authorize(config.ActionDepositWrite, h.allocateVendorPayment)).Methods(http.MethodPost)

	// reports
	pr.HandleFunc("/reports/summary", authorize(config.ActionReportRead, h.summary)).Methods(http.MethodGet)
	pr.HandleFunc("/reports/rollup", authorize(config.ActionReportRead, h.rollup)).Methods(http.MethodGet)
	pr.HandleFunc("/reports/balances/customers", authorize(config.ActionReportRead, h.customerBalances)).Methods(http.MethodGet)
	pr.HandleFunc("/reports/balances/vendors", authorize(config.ActionReportRead, h.vendorBalances)).Methods(http.MethodGet)
	pr.HandleFunc("/reports/transactions/export", authorize(config.ActionReportExport, h.exportTransactions)).Methods(http.MethodGet)

	// users
	pr.HandleFunc("/users", authorize(config.ActionUserManage, h.listUsers)).Methods(http.MethodGet)
	pr.HandleFunc("/users", authorize(config.ActionUserManage, h.createUser)).Methods(http.MethodPost)
	pr.HandleFunc("/users/{id}", authorize(config.ActionUserManage, h.getUser)).Methods(http.MethodGet)
	pr.HandleFunc("/users/{id}", authorize(config.ActionUserManage, h.updateUser)).Methods(http.MethodPut)
	pr.HandleFunc("/users/{id}", authorize(config.ActionUserManage, h.deleteUser)).Methods(http.MethodDelete)
	pr.HandleFunc("/users/{id}/password", authorize(config.ActionUserManage, h.resetPassword)).Methods(http.MethodPost)

	return r
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found", RequestID: RequestIDFromContext(r.Context())})
}
