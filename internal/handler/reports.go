package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// ReportStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportStore interface {
	GetDailySales(ctx context.Context, arg database.DateRangeParams) ([]database.GetDailySalesRow, error)
	GetPaymentSummary(ctx context.Context, arg database.DateRangeParams) ([]database.GetPaymentSummaryRow, error)
	GetExpenseSummary(ctx context.Context, arg database.DateRangeParams) (database.GetExpenseSummaryRow, error)
	ListOutstandingCustomers(ctx context.Context) ([]database.ListOutstandingCustomersRow, error)
}

// ReportHandler handles back-office report endpoints.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterRoutes registers report endpoints on the given Chi router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-sales", h.DailySales)
	r.Get("/payment-summary", h.PaymentSummary)
	r.Get("/expense-summary", h.ExpenseSummary)
	r.Get("/outstanding", h.OutstandingCustomers)
}

// --- Response types ---

type dailySalesRow struct {
	Day           string `json:"day"`
	OrderCount    int64  `json:"order_count"`
	GrossSales    string `json:"gross_sales"`
	TotalDiscount string `json:"total_discount"`
	NetSales      string `json:"net_sales"`
}

type paymentSummaryRow struct {
	PaymentMethodID   uuid.UUID `json:"payment_method_id"`
	PaymentMethodName string    `json:"payment_method_name"`
	TransactionCount  int64     `json:"transaction_count"`
	TotalAmount       string    `json:"total_amount"`
}

type expenseSummaryResponse struct {
	UtilityTotal  string `json:"utility_total"`
	PurchaseTotal string `json:"purchase_total"`
	SalaryTotal   string `json:"salary_total"`
	OtherTotal    string `json:"other_total"`
	GrandTotal    string `json:"grand_total"`
}

type outstandingCustomerRow struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	Outstanding  string    `json:"outstanding"`
}

// --- Handlers ---

// DailySales handles GET /reports/daily-sales: per-day order counts and
// sales totals over the range, cancelled orders excluded.
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	params, ok := reportRange(w, r)
	if !ok {
		return
	}

	rows, err := h.store.GetDailySales(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: daily sales report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dailySalesRow, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesRow{
			Day:           row.Day.Format("2006-01-02"),
			OrderCount:    row.OrderCount,
			GrossSales:    numericToString(row.GrossSales),
			TotalDiscount: numericToString(row.TotalDiscount),
			NetSales:      numericToString(row.NetSales),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// PaymentSummary handles GET /reports/payment-summary: takings per
// payment method over the range.
func (h *ReportHandler) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	params, ok := reportRange(w, r)
	if !ok {
		return
	}

	rows, err := h.store.GetPaymentSummary(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: payment summary report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]paymentSummaryRow, len(rows))
	for i, row := range rows {
		resp[i] = paymentSummaryRow{
			PaymentMethodID:   row.PaymentMethodID,
			PaymentMethodName: row.PaymentMethodName,
			TransactionCount:  row.TransactionCount,
			TotalAmount:       numericToString(row.TotalAmount),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExpenseSummary handles GET /reports/expense-summary: utility bills,
// raw material purchases, salaries, and other expenses over the range.
func (h *ReportHandler) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	params, ok := reportRange(w, r)
	if !ok {
		return
	}

	row, err := h.store.GetExpenseSummary(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: expense summary report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	grand := decimal.Zero
	for _, n := range []string{
		numericToString(row.UtilityTotal),
		numericToString(row.PurchaseTotal),
		numericToString(row.SalaryTotal),
		numericToString(row.OtherTotal),
	} {
		d, err := decimal.NewFromString(n)
		if err == nil {
			grand = grand.Add(d)
		}
	}

	writeJSON(w, http.StatusOK, expenseSummaryResponse{
		UtilityTotal:  numericToString(row.UtilityTotal),
		PurchaseTotal: numericToString(row.PurchaseTotal),
		SalaryTotal:   numericToString(row.SalaryTotal),
		OtherTotal:    numericToString(row.OtherTotal),
		GrandTotal:    grand.StringFixed(2),
	})
}

// OutstandingCustomers handles GET /reports/outstanding:
// customers carrying a positive due balance.
func (h *ReportHandler) OutstandingCustomers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListOutstandingCustomers(r.Context())
	if err != nil {
		log.Printf("ERROR: outstanding customers report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]outstandingCustomerRow, len(rows))
	for i, row := range rows {
		resp[i] = outstandingCustomerRow{
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			Phone:        row.Phone,
			Outstanding:  numericToString(row.Outstanding),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// reportRange reads start_date / end_date query params; both optional.
func reportRange(w http.ResponseWriter, r *http.Request) (database.DateRangeParams, bool) {
	start, end, ok := parseDateRange(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return database.DateRangeParams{}, false
	}
	return database.DateRangeParams{StartDate: start, EndDate: end}, true
}
