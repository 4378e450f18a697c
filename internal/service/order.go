package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/enum"
	"github.com/ruchira-pos/api/internal/ledger"
	"github.com/shopspring/decimal"
)

const maxOrderNoRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems             = errors.New("items are required")
	ErrInvalidSource          = errors.New("invalid source")
	ErrInvalidQuantity        = errors.New("qty must be > 0")
	ErrInvalidProductID       = errors.New("invalid product_id")
	ErrProductNotFound        = errors.New("product not found")
	ErrProductInactive        = errors.New("product is inactive")
	ErrInvalidDiscount        = errors.New("invalid discount_type")
	ErrInvalidDiscountValue   = errors.New("invalid discount_value")
	ErrNegativeDiscount       = errors.New("discount_value must not be negative")
	ErrInvalidTaxAmount       = errors.New("invalid tax_amount")
	ErrInvalidCustomerID      = errors.New("invalid customer_id")
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrInvalidPaymentMethodID = errors.New("invalid payment_method_id")
	ErrMethodNotFound         = errors.New("payment method not found")
	ErrMethodInactive         = errors.New("payment method is inactive")
	ErrInvalidPaymentAmount   = errors.New("amount must be positive")
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderCancelled         = errors.New("order is cancelled")
	ErrPaymentNotFound        = errors.New("payment not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order service needs.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderSequence(ctx context.Context, prefix string) (int32, error)
	GetProductForOrder(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error)
	GetPaymentMethod(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	GetPrimaryCustomerAddress(ctx context.Context, customerID uuid.UUID) (database.CustomerAddress, error)

	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderDetails(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error)
	UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
	UpdateOrderPaymentTotals(ctx context.Context, arg database.UpdateOrderPaymentTotalsParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error)

	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) error

	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	DeletePayment(ctx context.Context, arg database.DeletePaymentParams) (int64, error)

	GetCustomerOutstandingBalance(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), so the
// service can run its store methods inside its own transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// OrderService owns every mutation path that touches order money fields.
// Each mutation recalculates the owning order's totals explicitly inside
// the same transaction; nothing here relies on implicit triggers.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, now: time.Now}
}

// --- Requests / results ---

// CreateOrderRequest is the validated input for creating an order.
// Money fields arrive as strings and are parsed into decimals here.
type CreateOrderRequest struct {
	CustomerID    string
	Source        string
	DiscountType  string
	DiscountValue string
	TaxAmount     string
	Notes         string
	Items         []OrderItemRequest
	Payments      []PaymentRequest
}

// OrderItemRequest is a single line in the order. Qty may carry up to 3
// decimal places for fractional units.
type OrderItemRequest struct {
	ProductID     string
	Qty           string
	DiscountType  string
	DiscountValue string
}

// PaymentRequest is a settlement entered together with the order.
type PaymentRequest struct {
	PaymentMethodID string
	Amount          string
	ReferenceNo     string
}

// UpdateOrderRequest carries the mutable order header fields.
type UpdateOrderRequest struct {
	CustomerID    string
	Source        string
	DiscountType  string
	DiscountValue string
	TaxAmount     string
	Notes         string
}

// OrderResult is an order together with its children.
type OrderResult struct {
	Order    database.Order
	Items    []database.OrderItem
	Payments []database.Payment
}

// PaymentStatus derives the PAID / PARTIAL / DUE label for an order row.
func PaymentStatus(o database.Order) string {
	return ledger.PaymentStatus(numericToDecimal(o.PaidTotal), numericToDecimal(o.DueTotal))
}

// --- Create ---

// CreateOrder validates, prices, and creates an order with its items and
// any upfront payments in a single transaction. Retries on order_no
// unique conflicts (concurrent transactions can draw the same sequence).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	source := req.Source
	if source == "" {
		source = enum.OrderSourceStore
	}
	if source != enum.OrderSourceOnline && source != enum.OrderSourceStore {
		return nil, ErrInvalidSource
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNoRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req, source)
		if err == nil {
			return result, nil
		}
		if isOrderNoConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNoConflict checks for a unique constraint violation on order_no
// (pgconn error code 23505).
func isOrderNoConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_no_key"
	}
	return false
}

// preparedItem holds one priced line ready for insertion.
type preparedItem struct {
	params database.CreateOrderItemParams
	line   ledger.LineResult
}

func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest, source string) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Generate order number: ORD-YYYYMMDD-NNNN ---
	prefix := "ORD-" + s.now().Format("20060102")
	seq, err := store.GetNextOrderSequence(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("next order sequence: %w", err)
	}
	orderNo := fmt.Sprintf("%s-%04d", prefix, seq)

	// --- Resolve customer and preferred address ---
	customerID := pgtype.UUID{}
	addressID := pgtype.UUID{}
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, ErrInvalidCustomerID
		}
		if _, err := store.GetCustomer(ctx, cid); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("get customer: %w", err)
		}
		customerID = pgtype.UUID{Bytes: cid, Valid: true}

		if addr, err := store.GetPrimaryCustomerAddress(ctx, cid); err == nil {
			addressID = pgtype.UUID{Bytes: addr.ID, Valid: true}
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get customer address: %w", err)
		}
	}

	// --- Price items ---
	items, lineTotals, err := s.prepareItems(ctx, store, req.Items)
	if err != nil {
		return nil, err
	}

	// --- Parse order-level discount and tax ---
	discountType, discountValue, discountDec, err := parseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return nil, err
	}

	taxAmount := decimal.Zero
	if req.TaxAmount != "" {
		taxAmount, err = decimal.NewFromString(req.TaxAmount)
		if err != nil || taxAmount.IsNegative() {
			return nil, ErrInvalidTaxAmount
		}
	}

	// --- Parse upfront payments ---
	type preparedPayment struct {
		methodID    uuid.UUID
		amount      decimal.Decimal
		referenceNo pgtype.Text
	}
	var payments []preparedPayment
	paidTotal := decimal.Zero
	for i, p := range req.Payments {
		mid, err := uuid.Parse(p.PaymentMethodID)
		if err != nil {
			return nil, fmt.Errorf("payments[%d]: %w", i, ErrInvalidPaymentMethodID)
		}
		method, err := store.GetPaymentMethod(ctx, mid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("payments[%d]: %w", i, ErrMethodNotFound)
			}
			return nil, fmt.Errorf("payments[%d]: get payment method: %w", i, err)
		}
		if !method.IsActive {
			return nil, fmt.Errorf("payments[%d]: %w", i, ErrMethodInactive)
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("payments[%d]: %w", i, ErrInvalidPaymentAmount)
		}
		referenceNo := pgtype.Text{}
		if p.ReferenceNo != "" {
			referenceNo = pgtype.Text{String: p.ReferenceNo, Valid: true}
		}
		payments = append(payments, preparedPayment{methodID: mid, amount: amount, referenceNo: referenceNo})
		paidTotal = paidTotal.Add(amount)
	}

	// --- Derive totals ---
	totals := ledger.Order(lineTotals, discountType.String, discountDec, taxAmount, paidTotal)

	notes := pgtype.Text{}
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNo:           orderNo,
		CustomerID:        customerID,
		CustomerAddressID: addressID,
		Source:            source,
		Status:            enum.OrderStatusPending,
		Subtotal:          decimalToNumeric(totals.Subtotal),
		DiscountType:      discountType,
		DiscountValue:     discountValue,
		DiscountAmount:    decimalToNumeric(totals.DiscountAmount),
		TaxAmount:         decimalToNumeric(taxAmount),
		GrandTotal:        decimalToNumeric(totals.GrandTotal),
		PaidTotal:         decimalToNumeric(totals.PaidTotal),
		DueTotal:          decimalToNumeric(totals.DueTotal),
		Notes:             notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var insertedItems []database.OrderItem
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		insertedItems = append(insertedItems, item)
	}

	var insertedPayments []database.Payment
	for _, pp := range payments {
		payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
			OrderID:         order.ID,
			PaymentMethodID: pp.methodID,
			Amount:          decimalToNumeric(pp.amount),
			ReferenceNo:     pp.referenceNo,
		})
		if err != nil {
			return nil, fmt.Errorf("create payment: %w", err)
		}
		insertedPayments = append(insertedPayments, payment)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: order, Items: insertedItems, Payments: insertedPayments}, nil
}

// prepareItems validates and prices the requested lines. Unit prices come
// from the catalog's current sale price; each line's discount amount and
// line total are computed synchronously before anything persists.
func (s *OrderService) prepareItems(ctx context.Context, store OrderStore, reqItems []OrderItemRequest) ([]preparedItem, []decimal.Decimal, error) {
	var items []preparedItem
	var lineTotals []decimal.Decimal

	for i, item := range reqItems {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}
		qty, err := decimal.NewFromString(item.Qty)
		if err != nil || qty.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		// Fractional units carry at most 3 decimal places.
		qty = qty.Round(3)

		product, err := store.GetProductForOrder(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, fmt.Errorf("items[%d]: %w", i, ErrProductNotFound)
			}
			return nil, nil, fmt.Errorf("items[%d]: get product: %w", i, err)
		}
		if !product.IsActive {
			return nil, nil, fmt.Errorf("items[%d]: %w", i, ErrProductInactive)
		}
		unitPrice := numericToDecimal(product.SalePrice)

		discountType, discountValue, discountDec, err := parseDiscount(item.DiscountType, item.DiscountValue)
		if err != nil {
			return nil, nil, fmt.Errorf("items[%d]: %w", i, err)
		}

		line := ledger.Line(qty, unitPrice, discountType.String, discountDec)
		lineTotals = append(lineTotals, line.LineTotal)

		items = append(items, preparedItem{
			params: database.CreateOrderItemParams{
				ProductID:      productID,
				Qty:            decimalToNumeric3(qty),
				UnitPrice:      decimalToNumeric(unitPrice),
				DiscountType:   discountType,
				DiscountValue:  discountValue,
				DiscountAmount: decimalToNumeric(line.DiscountAmount),
				LineTotal:      decimalToNumeric(line.LineTotal),
			},
			line: line,
		})
	}
	return items, lineTotals, nil
}

// parseDiscount validates a discount type/value pair from request input.
// Negative values are rejected here; bound clamping (fixed > base,
// percent > 100) is the ledger's job.
func parseDiscount(discountType, discountValue string) (pgtype.Text, pgtype.Numeric, decimal.Decimal, error) {
	if discountType == "" {
		return pgtype.Text{}, pgtype.Numeric{}, decimal.Zero, nil
	}
	if discountType != enum.DiscountTypeFixed && discountType != enum.DiscountTypePercent {
		return pgtype.Text{}, pgtype.Numeric{}, decimal.Zero, ErrInvalidDiscount
	}
	dv, err := decimal.NewFromString(discountValue)
	if err != nil {
		return pgtype.Text{}, pgtype.Numeric{}, decimal.Zero, ErrInvalidDiscountValue
	}
	if dv.IsNegative() {
		return pgtype.Text{}, pgtype.Numeric{}, decimal.Zero, ErrNegativeDiscount
	}
	return pgtype.Text{String: discountType, Valid: true}, decimalToNumeric(dv), dv, nil
}

// --- Mutations on existing orders ---

// ReplaceItems swaps the order's item set for the given lines and
// recalculates totals, all in one transaction.
func (s *OrderService) ReplaceItems(ctx context.Context, orderID uuid.UUID, reqItems []OrderItemRequest) (*OrderResult, error) {
	if len(reqItems) == 0 {
		return nil, ErrEmptyItems
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, _, err := s.prepareItems(ctx, store, reqItems)
	if err != nil {
		return nil, err
	}

	if err := store.DeleteOrderItemsByOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("delete order items: %w", err)
	}

	var insertedItems []database.OrderItem
	for _, pi := range items {
		pi.params.OrderID = orderID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		insertedItems = append(insertedItems, item)
	}

	updated, err := s.recalcTotals(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: updated, Items: insertedItems}, nil
}

// UpdateOrder patches the order header (customer, source, order-level
// discount, tax, notes) and recalculates totals in one transaction.
// Fields omitted from the request keep their stored values, so a partial
// patch cannot drop a discount or tax and silently move the totals.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, req UpdateOrderRequest) (*OrderResult, error) {
	if req.Source != "" && req.Source != enum.OrderSourceOnline && req.Source != enum.OrderSourceStore {
		return nil, ErrInvalidSource
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	current, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	source := current.Source
	if req.Source != "" {
		source = req.Source
	}

	discountType := current.DiscountType
	discountValue := current.DiscountValue
	if req.DiscountType != "" {
		discountType, discountValue, _, err = parseDiscount(req.DiscountType, req.DiscountValue)
		if err != nil {
			return nil, err
		}
	}

	taxAmount := current.TaxAmount
	if req.TaxAmount != "" {
		ta, err := decimal.NewFromString(req.TaxAmount)
		if err != nil || ta.IsNegative() {
			return nil, ErrInvalidTaxAmount
		}
		taxAmount = decimalToNumeric(ta)
	}

	customerID := current.CustomerID
	if req.CustomerID != "" {
		cid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, ErrInvalidCustomerID
		}
		if _, err := store.GetCustomer(ctx, cid); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrCustomerNotFound
			}
			return nil, fmt.Errorf("get customer: %w", err)
		}
		customerID = pgtype.UUID{Bytes: cid, Valid: true}
	}

	notes := current.Notes
	if req.Notes != "" {
		notes = pgtype.Text{String: req.Notes, Valid: true}
	}

	order, err := store.UpdateOrderDetails(ctx, database.UpdateOrderDetailsParams{
		ID:            orderID,
		CustomerID:    customerID,
		Source:        source,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		TaxAmount:     taxAmount,
		Notes:         notes,
	})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	updated, err := s.recalcTotals(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: updated}, nil
}

// AddPayment records a settlement against the order and recalculates
// paid/due totals in the same transaction. Overpayment is allowed; due
// floors at zero. Cancelled orders reject new payments.
func (s *OrderService) AddPayment(ctx context.Context, orderID uuid.UUID, req PaymentRequest) (*OrderResult, error) {
	mid, err := uuid.Parse(req.PaymentMethodID)
	if err != nil {
		return nil, ErrInvalidPaymentMethodID
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPaymentAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, ErrOrderCancelled
	}

	method, err := store.GetPaymentMethod(ctx, mid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMethodNotFound
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	if !method.IsActive {
		return nil, ErrMethodInactive
	}

	referenceNo := pgtype.Text{}
	if req.ReferenceNo != "" {
		referenceNo = pgtype.Text{String: req.ReferenceNo, Valid: true}
	}

	payment, err := store.CreatePayment(ctx, database.CreatePaymentParams{
		OrderID:         orderID,
		PaymentMethodID: mid,
		Amount:          decimalToNumeric(amount),
		ReferenceNo:     referenceNo,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	updated, err := s.recalcPayments(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: updated, Payments: []database.Payment{payment}}, nil
}

// DeletePayment removes a settlement and recalculates paid/due totals in
// the same transaction.
func (s *OrderService) DeletePayment(ctx context.Context, orderID, paymentID uuid.UUID) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	deleted, err := store.DeletePayment(ctx, database.DeletePaymentParams{ID: paymentID, OrderID: orderID})
	if err != nil {
		return nil, fmt.Errorf("delete payment: %w", err)
	}
	if deleted == 0 {
		return nil, ErrPaymentNotFound
	}

	updated, err := s.recalcPayments(ctx, store, order)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: updated}, nil
}

// --- Recalculation ---

// RecalcTotals re-derives the order's five money fields from current
// child rows inside its own transaction. Idempotent: unchanged children
// yield identical totals.
func (s *OrderService) RecalcTotals(ctx context.Context, orderID uuid.UUID) (database.Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}

	updated, err := s.recalcTotals(ctx, store, order)
	if err != nil {
		return database.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

// recalcTotals runs inside the caller's transaction: subtotal from item
// line totals, order discount on the subtotal, tax, then payments.
// All five fields persist in a single UPDATE.
func (s *OrderService) recalcTotals(ctx context.Context, store OrderStore, order database.Order) (database.Order, error) {
	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, fmt.Errorf("list order items: %w", err)
	}
	lineTotals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		lineTotals[i] = numericToDecimal(it.LineTotal)
	}

	paid, err := store.SumPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, fmt.Errorf("sum payments: %w", err)
	}

	totals := ledger.Order(
		lineTotals,
		order.DiscountType.String,
		numericToDecimal(order.DiscountValue),
		numericToDecimal(order.TaxAmount),
		numericToDecimal(paid),
	)

	updated, err := store.UpdateOrderTotals(ctx, database.UpdateOrderTotalsParams{
		ID:             order.ID,
		Subtotal:       decimalToNumeric(totals.Subtotal),
		DiscountAmount: decimalToNumeric(totals.DiscountAmount),
		GrandTotal:     decimalToNumeric(totals.GrandTotal),
		PaidTotal:      decimalToNumeric(totals.PaidTotal),
		DueTotal:       decimalToNumeric(totals.DueTotal),
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("update order totals: %w", err)
	}
	return updated, nil
}

// recalcPayments re-derives paid/due from the current payment rows
// without touching subtotal or grand total.
func (s *OrderService) recalcPayments(ctx context.Context, store OrderStore, order database.Order) (database.Order, error) {
	paid, err := store.SumPaymentsByOrder(ctx, order.ID)
	if err != nil {
		return database.Order{}, fmt.Errorf("sum payments: %w", err)
	}
	paidDec := numericToDecimal(paid)
	due := ledger.Due(numericToDecimal(order.GrandTotal), paidDec)

	updated, err := store.UpdateOrderPaymentTotals(ctx, database.UpdateOrderPaymentTotalsParams{
		ID:        order.ID,
		PaidTotal: decimalToNumeric(paidDec),
		DueTotal:  decimalToNumeric(due),
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("update payment totals: %w", err)
	}
	return updated, nil
}

// --- Reads ---

// CustomerOutstandingBalance sums due_total across the customer's
// non-cancelled orders. Recomputed on every call.
func (s *OrderService) CustomerOutstandingBalance(ctx context.Context, store OrderStore, customerID uuid.UUID) (decimal.Decimal, error) {
	total, err := store.GetCustomerOutstandingBalance(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("outstanding balance: %w", err)
	}
	return numericToDecimal(total).Round(2), nil
}

// DeleteOrder removes the order; items and payments cascade with it.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	deleted, err := store.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if deleted == 0 {
		return ErrOrderNotFound
	}
	return tx.Commit(ctx)
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

// decimalToNumeric3 keeps 3 decimal places, used for quantities.
func decimalToNumeric3(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(3))
	return n
}
