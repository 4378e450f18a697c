package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/enum"
	"github.com/ruchira-pos/api/internal/receipt"
	"github.com/ruchira-pos/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, req service.UpdateOrderRequest) (*service.OrderResult, error)
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []service.OrderItemRequest) (*service.OrderResult, error)
	RecalcTotals(ctx context.Context, orderID uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	GetPaymentMethod(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error)
}

// Notifier broadcasts order events to connected clients.
// Satisfied by *ws.Hub.
type Notifier interface {
	Broadcast(event string, payload interface{})
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc       OrderServicer
	store     OrderStore
	notifier  Notifier
	storeName string
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, notifier Notifier, storeName string) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, notifier: notifier, storeName: storeName}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}/items", h.ReplaceItems)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/receipt", h.Receipt)
	r.Get("/{id}/kitchen-ticket", h.KitchenTicket)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerID    string                   `json:"customer_id"`
	Source        string                   `json:"source"`
	DiscountType  string                   `json:"discount_type"`
	DiscountValue string                   `json:"discount_value"`
	TaxAmount     string                   `json:"tax_amount"`
	Notes         string                   `json:"notes"`
	Items         []createOrderItemRequest `json:"items"`
	Payments      []createPaymentRequest   `json:"payments"`
}

type createOrderItemRequest struct {
	ProductID     string `json:"product_id"`
	Qty           string `json:"qty"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
}

type createPaymentRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
	Amount          string `json:"amount"`
	ReferenceNo     string `json:"reference_no"`
}

type updateOrderRequest struct {
	CustomerID    string `json:"customer_id"`
	Source        string `json:"source"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	TaxAmount     string `json:"tax_amount"`
	Notes         string `json:"notes"`
}

type replaceItemsRequest struct {
	Items []createOrderItemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderNo        string              `json:"order_no"`
	CustomerID     *string             `json:"customer_id"`
	Source         string              `json:"source"`
	Status         string              `json:"status"`
	Subtotal       string              `json:"subtotal"`
	DiscountType   *string             `json:"discount_type"`
	DiscountValue  *string             `json:"discount_value"`
	DiscountAmount string              `json:"discount_amount"`
	TaxAmount      string              `json:"tax_amount"`
	GrandTotal     string              `json:"grand_total"`
	PaidTotal      string              `json:"paid_total"`
	DueTotal       string              `json:"due_total"`
	PaymentStatus  string              `json:"payment_status"`
	Notes          *string             `json:"notes"`
	OrderedAt      time.Time           `json:"ordered_at"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Items          []orderItemResponse `json:"items,omitempty"`
}

type orderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Qty            string    `json:"qty"`
	UnitPrice      string    `json:"unit_price"`
	DiscountType   *string   `json:"discount_type"`
	DiscountValue  *string   `json:"discount_value"`
	DiscountAmount string    `json:"discount_amount"`
	LineTotal      string    `json:"line_total"`
}

type orderPaymentResponse struct {
	ID              uuid.UUID `json:"id"`
	OrderID         uuid.UUID `json:"order_id"`
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	Amount          string    `json:"amount"`
	ReferenceNo     *string   `json:"reference_no"`
	PaidAt          time.Time `json:"paid_at"`
}

// orderDetailResponse extends orderResponse with payments for the GET detail endpoint.
type orderDetailResponse struct {
	orderResponse
	Payments []orderPaymentResponse `json:"payments"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "product_id is required"),
			})
			return
		}
		if item.Qty == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "qty is required"),
			})
			return
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerID:    req.CustomerID,
		Source:        req.Source,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		TaxAmount:     req.TaxAmount,
		Notes:         req.Notes,
		Items:         toServiceItems(req.Items),
		Payments:      toServicePayments(req.Payments),
	})
	if err != nil {
		h.writeServiceError(w, "create order", err)
		return
	}

	resp := dbOrderToResponse(result.Order)
	resp.Items = make([]orderItemResponse, len(result.Items))
	for i, item := range result.Items {
		resp.Items[i] = dbOrderItemToResponse(item)
	}

	h.notifier.Broadcast("order.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		if !isValidOrderStatus(s) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("source"); s != "" {
		params.Source = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("customer_id"); s != "" {
		cid, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
			return
		}
		params.CustomerID = pgtype.UUID{Bytes: cid, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Timestamptz{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Timestamptz{Time: t.Add(24 * time.Hour), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	payments, err := h.store.ListPaymentsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dbOrderToResponse(order)
	resp.Items = make([]orderItemResponse, len(items))
	for i, item := range items {
		resp.Items[i] = dbOrderItemToResponse(item)
	}

	paymentResps := make([]orderPaymentResponse, len(payments))
	for i, p := range payments {
		paymentResps[i] = dbPaymentToResponse(p)
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		orderResponse: resp,
		Payments:      paymentResps,
	})
}

// Update handles PATCH /orders/{id}: order header fields. Omitted
// fields keep their stored values; totals are recalculated by the
// service inside the same transaction.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := h.svc.UpdateOrder(r.Context(), orderID, service.UpdateOrderRequest{
		CustomerID:    req.CustomerID,
		Source:        req.Source,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		TaxAmount:     req.TaxAmount,
		Notes:         req.Notes,
	})
	if err != nil {
		h.writeServiceError(w, "update order", err)
		return
	}

	resp := dbOrderToResponse(result.Order)
	h.notifier.Broadcast("order.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// ReplaceItems handles PUT /orders/{id}/items: swaps the item set and
// recalculates totals.
func (h *OrderHandler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req replaceItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	result, err := h.svc.ReplaceItems(r.Context(), orderID, toServiceItems(req.Items))
	if err != nil {
		h.writeServiceError(w, "replace order items", err)
		return
	}

	resp := dbOrderToResponse(result.Order)
	resp.Items = make([]orderItemResponse, len(result.Items))
	for i, item := range result.Items {
		resp.Items[i] = dbOrderItemToResponse(item)
	}

	h.notifier.Broadcast("order.updated", resp)
	writeJSON(w, http.StatusOK, resp)
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}
	if !isValidOrderStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for status update: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := validateStatusTransition(current.Status, req.Status); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	// Conditional update: only flips if the status is still what we read.
	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		ID:         orderID,
		Status:     req.Status,
		FromStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dbOrderToResponse(updated)
	h.notifier.Broadcast("order.status_changed", resp)
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /orders/{id}. Items and payments cascade.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Receipt handles GET /orders/{id}/receipt: plain-text customer receipt.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	data, status, err := h.receiptData(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, receipt.Customer(*data))
}

// KitchenTicket handles GET /orders/{id}/kitchen-ticket: item list for
// the kitchen, no money fields.
func (h *OrderHandler) KitchenTicket(w http.ResponseWriter, r *http.Request) {
	data, status, err := h.receiptData(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, receipt.KitchenTicket(*data))
}

// receiptData assembles the receipt inputs from the order, its items
// (resolving product names), and its payments (resolving method names).
func (h *OrderHandler) receiptData(ctx context.Context, idStr string) (*receipt.Data, int, error) {
	orderID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid order ID")
	}

	order, err := h.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, http.StatusNotFound, errors.New("order not found")
		}
		log.Printf("ERROR: get order for receipt: %v", err)
		return nil, http.StatusInternalServerError, errors.New("internal server error")
	}

	items, err := h.store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		log.Printf("ERROR: list order items for receipt: %v", err)
		return nil, http.StatusInternalServerError, errors.New("internal server error")
	}

	payments, err := h.store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		log.Printf("ERROR: list payments for receipt: %v", err)
		return nil, http.StatusInternalServerError, errors.New("internal server error")
	}

	data := receipt.Data{
		StoreName:      h.storeName,
		OrderNo:        order.OrderNo,
		Source:         order.Source,
		OrderedAt:      order.OrderedAt,
		Subtotal:       numericToString(order.Subtotal),
		DiscountAmount: numericToString(order.DiscountAmount),
		TaxAmount:      numericToString(order.TaxAmount),
		GrandTotal:     numericToString(order.GrandTotal),
		PaidTotal:      numericToString(order.PaidTotal),
		DueTotal:       numericToString(order.DueTotal),
	}
	if order.Notes.Valid {
		data.Notes = order.Notes.String
	}

	for _, item := range items {
		product, err := h.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			log.Printf("ERROR: get product for receipt: %v", err)
			return nil, http.StatusInternalServerError, errors.New("internal server error")
		}
		data.Items = append(data.Items, receipt.Item{
			Name:      product.Name,
			Qty:       numericToString3(item.Qty),
			UnitPrice: numericToString(item.UnitPrice),
			LineTotal: numericToString(item.LineTotal),
		})
	}

	for _, p := range payments {
		method, err := h.store.GetPaymentMethod(ctx, p.PaymentMethodID)
		if err != nil {
			log.Printf("ERROR: get payment method for receipt: %v", err)
			return nil, http.StatusInternalServerError, errors.New("internal server error")
		}
		data.Payments = append(data.Payments, receipt.Payment{
			Method: method.Name,
			Amount: numericToString(p.Amount),
		})
	}

	return &data, http.StatusOK, nil
}

// --- Helpers ---

func formatItemError(idx int, msg string) string {
	return "items[" + strconv.Itoa(idx) + "]: " + msg
}

func toServiceItems(items []createOrderItemRequest) []service.OrderItemRequest {
	out := make([]service.OrderItemRequest, len(items))
	for i, item := range items {
		out[i] = service.OrderItemRequest{
			ProductID:     item.ProductID,
			Qty:           item.Qty,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
		}
	}
	return out
}

func toServicePayments(payments []createPaymentRequest) []service.PaymentRequest {
	out := make([]service.PaymentRequest, len(payments))
	for i, p := range payments {
		out[i] = service.PaymentRequest{
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			ReferenceNo:     p.ReferenceNo,
		}
	}
	return out
}

// writeServiceError maps known service errors to HTTP status codes.
func (h *OrderHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, service.ErrOrderCancelled):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidSource) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidProductID) ||
		errors.Is(err, service.ErrProductNotFound) ||
		errors.Is(err, service.ErrProductInactive) ||
		errors.Is(err, service.ErrInvalidDiscount) ||
		errors.Is(err, service.ErrInvalidDiscountValue) ||
		errors.Is(err, service.ErrNegativeDiscount) ||
		errors.Is(err, service.ErrInvalidTaxAmount) ||
		errors.Is(err, service.ErrInvalidCustomerID) ||
		errors.Is(err, service.ErrCustomerNotFound) ||
		errors.Is(err, service.ErrInvalidPaymentMethodID) ||
		errors.Is(err, service.ErrMethodNotFound) ||
		errors.Is(err, service.ErrMethodInactive) ||
		errors.Is(err, service.ErrInvalidPaymentAmount)
}

func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending,
		enum.OrderStatusCompleted,
		enum.OrderStatusCancelled:
		return true
	}
	return false
}

// allowedTransitions defines valid status transitions.
// Completed and cancelled are terminal.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending: {enum.OrderStatusCompleted, enum.OrderStatusCancelled},
}

func validateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}

func dbOrderToResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID,
		OrderNo:        o.OrderNo,
		Source:         o.Source,
		Status:         o.Status,
		Subtotal:       numericToString(o.Subtotal),
		DiscountAmount: numericToString(o.DiscountAmount),
		TaxAmount:      numericToString(o.TaxAmount),
		GrandTotal:     numericToString(o.GrandTotal),
		PaidTotal:      numericToString(o.PaidTotal),
		DueTotal:       numericToString(o.DueTotal),
		PaymentStatus:  service.PaymentStatus(o),
		OrderedAt:      o.OrderedAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.CustomerID.Valid {
		s := uuid.UUID(o.CustomerID.Bytes).String()
		resp.CustomerID = &s
	}
	if o.DiscountType.Valid {
		resp.DiscountType = &o.DiscountType.String
	}
	if o.DiscountValue.Valid {
		s := numericToString(o.DiscountValue)
		resp.DiscountValue = &s
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	return resp
}

func dbOrderItemToResponse(item database.OrderItem) orderItemResponse {
	resp := orderItemResponse{
		ID:             item.ID,
		ProductID:      item.ProductID,
		Qty:            numericToString3(item.Qty),
		UnitPrice:      numericToString(item.UnitPrice),
		DiscountAmount: numericToString(item.DiscountAmount),
		LineTotal:      numericToString(item.LineTotal),
	}
	if item.DiscountType.Valid {
		resp.DiscountType = &item.DiscountType.String
	}
	if item.DiscountValue.Valid {
		s := numericToString(item.DiscountValue)
		resp.DiscountValue = &s
	}
	return resp
}

func dbPaymentToResponse(p database.Payment) orderPaymentResponse {
	resp := orderPaymentResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		PaymentMethodID: p.PaymentMethodID,
		Amount:          numericToString(p.Amount),
		PaidAt:          p.PaidAt,
	}
	if p.ReferenceNo.Valid {
		resp.ReferenceNo = &p.ReferenceNo.String
	}
	return resp
}
