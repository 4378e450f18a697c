package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const orderColumns = `id, order_no, customer_id, customer_address_id, source, status,
	subtotal, discount_type, discount_value, discount_amount, tax_amount,
	grand_total, paid_total, due_total, notes, ordered_at, created_at, updated_at`

func scanOrder(s scanner) (Order, error) {
	var o Order
	err := s.Scan(
		&o.ID, &o.OrderNo, &o.CustomerID, &o.CustomerAddressID, &o.Source, &o.Status,
		&o.Subtotal, &o.DiscountType, &o.DiscountValue, &o.DiscountAmount, &o.TaxAmount,
		&o.GrandTotal, &o.PaidTotal, &o.DueTotal, &o.Notes, &o.OrderedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// GetNextOrderSequence returns the next per-day sequence number for the
// given order number prefix (e.g. "ORD-20260831").
func (q *Queries) GetNextOrderSequence(ctx context.Context, prefix string) (int32, error) {
	const sql = `
		SELECT COALESCE(MAX(split_part(order_no, '-', 3)::int), 0) + 1
		FROM orders
		WHERE order_no LIKE $1 || '-%'
	`
	var next int32
	err := q.db.QueryRow(ctx, sql, prefix).Scan(&next)
	return next, err
}

type CreateOrderParams struct {
	OrderNo           string
	CustomerID        pgtype.UUID
	CustomerAddressID pgtype.UUID
	Source            string
	Status            string
	Subtotal          pgtype.Numeric
	DiscountType      pgtype.Text
	DiscountValue     pgtype.Numeric
	DiscountAmount    pgtype.Numeric
	TaxAmount         pgtype.Numeric
	GrandTotal        pgtype.Numeric
	PaidTotal         pgtype.Numeric
	DueTotal          pgtype.Numeric
	Notes             pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	const sql = `
		INSERT INTO orders (
			order_no, customer_id, customer_address_id, source, status,
			subtotal, discount_type, discount_value, discount_amount, tax_amount,
			grand_total, paid_total, due_total, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql,
		arg.OrderNo, arg.CustomerID, arg.CustomerAddressID, arg.Source, arg.Status,
		arg.Subtotal, arg.DiscountType, arg.DiscountValue, arg.DiscountAmount, arg.TaxAmount,
		arg.GrandTotal, arg.PaidTotal, arg.DueTotal, arg.Notes,
	))
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(q.db.QueryRow(ctx, sql, id))
}

// GetOrderForUpdate locks the order row so concurrent mutations of the
// same order serialize on their recalculation.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	const sql = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR NO KEY UPDATE`
	return scanOrder(q.db.QueryRow(ctx, sql, id))
}

type ListOrdersParams struct {
	Status     pgtype.Text
	Source     pgtype.Text
	CustomerID pgtype.UUID
	StartDate  pgtype.Timestamptz
	EndDate    pgtype.Timestamptz
	Limit      int32
	Offset     int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	const sql = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR source = $2)
		  AND ($3::uuid IS NULL OR customer_id = $3)
		  AND ($4::timestamptz IS NULL OR ordered_at >= $4)
		  AND ($5::timestamptz IS NULL OR ordered_at < $5 + INTERVAL '1 day')
		ORDER BY ordered_at DESC
		LIMIT $6 OFFSET $7
	`
	rows, err := q.db.Query(ctx, sql,
		arg.Status, arg.Source, arg.CustomerID, arg.StartDate, arg.EndDate,
		arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	Status     string
	FromStatus string
}

// UpdateOrderStatus transitions the order only when it is still in
// FromStatus; returns pgx.ErrNoRows when the status moved underneath us.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	const sql = `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.Status, arg.FromStatus))
}

type UpdateOrderDetailsParams struct {
	ID            uuid.UUID
	CustomerID    pgtype.UUID
	Source        string
	DiscountType  pgtype.Text
	DiscountValue pgtype.Numeric
	TaxAmount     pgtype.Numeric
	Notes         pgtype.Text
}

// UpdateOrderDetails writes the mutable order header fields. Totals are
// not touched here; callers recalculate afterwards in the same tx.
func (q *Queries) UpdateOrderDetails(ctx context.Context, arg UpdateOrderDetailsParams) (Order, error) {
	const sql = `
		UPDATE orders
		SET customer_id = $2, source = $3, discount_type = $4, discount_value = $5,
		    tax_amount = $6, notes = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql,
		arg.ID, arg.CustomerID, arg.Source, arg.DiscountType, arg.DiscountValue,
		arg.TaxAmount, arg.Notes,
	))
}

type UpdateOrderTotalsParams struct {
	ID             uuid.UUID
	Subtotal       pgtype.Numeric
	DiscountAmount pgtype.Numeric
	GrandTotal     pgtype.Numeric
	PaidTotal      pgtype.Numeric
	DueTotal       pgtype.Numeric
}

// UpdateOrderTotals persists all five derived money fields in one
// statement so partial totals are never observable.
func (q *Queries) UpdateOrderTotals(ctx context.Context, arg UpdateOrderTotalsParams) (Order, error) {
	const sql = `
		UPDATE orders
		SET subtotal = $2, discount_amount = $3, grand_total = $4,
		    paid_total = $5, due_total = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql,
		arg.ID, arg.Subtotal, arg.DiscountAmount, arg.GrandTotal,
		arg.PaidTotal, arg.DueTotal,
	))
}

type UpdateOrderPaymentTotalsParams struct {
	ID        uuid.UUID
	PaidTotal pgtype.Numeric
	DueTotal  pgtype.Numeric
}

func (q *Queries) UpdateOrderPaymentTotals(ctx context.Context, arg UpdateOrderPaymentTotalsParams) (Order, error) {
	const sql = `
		UPDATE orders
		SET paid_total = $2, due_total = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + orderColumns
	return scanOrder(q.db.QueryRow(ctx, sql, arg.ID, arg.PaidTotal, arg.DueTotal))
}

// DeleteOrder removes the order; items and payments cascade.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	const sql = `DELETE FROM orders WHERE id = $1`
	tag, err := q.db.Exec(ctx, sql, id)
	return tag.RowsAffected(), err
}

// --- Order items ---

const orderItemColumns = `id, order_id, product_id, qty, unit_price,
	discount_type, discount_value, discount_amount, line_total, created_at, updated_at`

func scanOrderItem(s scanner) (OrderItem, error) {
	var it OrderItem
	err := s.Scan(
		&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.UnitPrice,
		&it.DiscountType, &it.DiscountValue, &it.DiscountAmount, &it.LineTotal,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

type CreateOrderItemParams struct {
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Qty            pgtype.Numeric
	UnitPrice      pgtype.Numeric
	DiscountType   pgtype.Text
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	LineTotal      pgtype.Numeric
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	const sql = `
		INSERT INTO order_items (
			order_id, product_id, qty, unit_price,
			discount_type, discount_value, discount_amount, line_total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + orderItemColumns
	return scanOrderItem(q.db.QueryRow(ctx, sql,
		arg.OrderID, arg.ProductID, arg.Qty, arg.UnitPrice,
		arg.DiscountType, arg.DiscountValue, arg.DiscountAmount, arg.LineTotal,
	))
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	const sql = `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`
	rows, err := q.db.Query(ctx, sql, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) error {
	const sql = `DELETE FROM order_items WHERE order_id = $1`
	_, err := q.db.Exec(ctx, sql, orderID)
	return err
}
