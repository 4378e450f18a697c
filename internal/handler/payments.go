package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/service"
)

// PaymentServicer defines the service methods needed by payment handlers.
type PaymentServicer interface {
	AddPayment(ctx context.Context, orderID uuid.UUID, req service.PaymentRequest) (*service.OrderResult, error)
	DeletePayment(ctx context.Context, orderID, paymentID uuid.UUID) (*service.OrderResult, error)
}

// PaymentStore defines the database methods needed by payment handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type PaymentStore interface {
	ListPaymentMethods(ctx context.Context, activeOnly bool) ([]database.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, name string) (database.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, arg database.UpdatePaymentMethodParams) (database.PaymentMethod, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
}

// PaymentHandler handles payment method and order payment endpoints.
type PaymentHandler struct {
	svc      PaymentServicer
	store    PaymentStore
	notifier Notifier
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc PaymentServicer, store PaymentStore, notifier Notifier) *PaymentHandler {
	return &PaymentHandler{svc: svc, store: store, notifier: notifier}
}

// RegisterMethodRoutes registers payment method endpoints.
func (h *PaymentHandler) RegisterMethodRoutes(r chi.Router) {
	r.Get("/", h.ListMethods)
	r.Post("/", h.CreateMethod)
	r.Patch("/{id}", h.UpdateMethod)
}

// RegisterOrderRoutes registers payment endpoints nested under an order.
// Expected mount point: /orders/{id}/payments
func (h *PaymentHandler) RegisterOrderRoutes(r chi.Router) {
	r.Get("/", h.ListByOrder)
	r.Post("/", h.Add)
	r.Delete("/{pid}", h.Delete)
}

// --- Request / Response types ---

type createMethodRequest struct {
	Name string `json:"name"`
}

type updateMethodRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

type methodResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type addPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	Amount          string `json:"amount"`
	ReferenceNo     string `json:"reference_no"`
}

// addPaymentResponse returns the new payment together with the order's
// refreshed totals so the till can update without a second round trip.
type addPaymentResponse struct {
	Payment orderPaymentResponse `json:"payment"`
	Order   orderResponse        `json:"order"`
}

// --- Payment method handlers ---

// ListMethods handles GET /payment-methods.
func (h *PaymentHandler) ListMethods(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	methods, err := h.store.ListPaymentMethods(r.Context(), activeOnly)
	if err != nil {
		log.Printf("ERROR: list payment methods: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]methodResponse, len(methods))
	for i, m := range methods {
		resp[i] = toMethodResponse(m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateMethod handles POST /payment-methods.
func (h *PaymentHandler) CreateMethod(w http.ResponseWriter, r *http.Request) {
	var req createMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	method, err := h.store.CreatePaymentMethod(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: create payment method: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toMethodResponse(method))
}

// UpdateMethod handles PATCH /payment-methods/{id}. Deactivation keeps
// historical payments intact while blocking new ones.
func (h *PaymentHandler) UpdateMethod(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment method ID"})
		return
	}

	var req updateMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	current, err := h.store.GetPaymentMethod(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "payment method not found"})
			return
		}
		log.Printf("ERROR: get payment method: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.store.UpdatePaymentMethod(r.Context(), database.UpdatePaymentMethodParams{
		ID:       id,
		Name:     name,
		IsActive: isActive,
	})
	if err != nil {
		log.Printf("ERROR: update payment method: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toMethodResponse(updated))
}

// --- Order payment handlers ---

// ListByOrder handles GET /orders/{id}/payments.
func (h *PaymentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	payments, err := h.store.ListPaymentsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderPaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = dbPaymentToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /orders/{id}/payments. The service recalculates the
// order's paid/due totals in the same transaction.
func (h *PaymentHandler) Add(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.PaymentMethodID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "payment_method_id is required"})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount is required"})
		return
	}

	result, err := h.svc.AddPayment(r.Context(), orderID, service.PaymentRequest{
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount,
		ReferenceNo:     req.ReferenceNo,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrOrderCancelled):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case isValidationError(err):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: add payment: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	orderResp := dbOrderToResponse(result.Order)
	h.notifier.Broadcast("order.paid", orderResp)

	writeJSON(w, http.StatusCreated, addPaymentResponse{
		Payment: dbPaymentToResponse(result.Payments[0]),
		Order:   orderResp,
	})
}

// Delete handles DELETE /orders/{id}/payments/{pid}.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}
	paymentID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	result, err := h.svc.DeletePayment(r.Context(), orderID, paymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		case errors.Is(err, service.ErrPaymentNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "payment not found"})
		default:
			log.Printf("ERROR: delete payment: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	orderResp := dbOrderToResponse(result.Order)
	h.notifier.Broadcast("order.paid", orderResp)
	writeJSON(w, http.StatusOK, orderResp)
}

func toMethodResponse(m database.PaymentMethod) methodResponse {
	return methodResponse{
		ID:        m.ID,
		Name:      m.Name,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}
