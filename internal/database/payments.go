package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Payment methods ---

const paymentMethodColumns = `id, name, is_active, created_at, updated_at`

func scanPaymentMethod(s scanner) (PaymentMethod, error) {
	var pm PaymentMethod
	err := s.Scan(&pm.ID, &pm.Name, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt)
	return pm, err
}

func (q *Queries) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]PaymentMethod, error) {
	const sql = `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE NOT $1::bool OR is_active
		ORDER BY name
	`
	rows, err := q.db.Query(ctx, sql, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []PaymentMethod
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, pm)
	}
	return methods, rows.Err()
}

func (q *Queries) GetPaymentMethod(ctx context.Context, id uuid.UUID) (PaymentMethod, error) {
	const sql = `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id = $1`
	return scanPaymentMethod(q.db.QueryRow(ctx, sql, id))
}

func (q *Queries) CreatePaymentMethod(ctx context.Context, name string) (PaymentMethod, error) {
	const sql = `INSERT INTO payment_methods (name) VALUES ($1) RETURNING ` + paymentMethodColumns
	return scanPaymentMethod(q.db.QueryRow(ctx, sql, name))
}

type UpdatePaymentMethodParams struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

func (q *Queries) UpdatePaymentMethod(ctx context.Context, arg UpdatePaymentMethodParams) (PaymentMethod, error) {
	const sql = `
		UPDATE payment_methods
		SET name = $2, is_active = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + paymentMethodColumns
	return scanPaymentMethod(q.db.QueryRow(ctx, sql, arg.ID, arg.Name, arg.IsActive))
}

// --- Payments ---

const paymentColumns = `id, order_id, payment_method_id, amount, reference_no, paid_at, created_at, updated_at`

func scanPayment(s scanner) (Payment, error) {
	var p Payment
	err := s.Scan(
		&p.ID, &p.OrderID, &p.PaymentMethodID, &p.Amount, &p.ReferenceNo,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type CreatePaymentParams struct {
	OrderID         uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          pgtype.Numeric
	ReferenceNo     pgtype.Text
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	const sql = `
		INSERT INTO payments (order_id, payment_method_id, amount, reference_no)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + paymentColumns
	return scanPayment(q.db.QueryRow(ctx, sql,
		arg.OrderID, arg.PaymentMethodID, arg.Amount, arg.ReferenceNo,
	))
}

func (q *Queries) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error) {
	const sql = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 ORDER BY paid_at`
	rows, err := q.db.Query(ctx, sql, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (q *Queries) SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	const sql = `SELECT COALESCE(SUM(amount), 0.00) FROM payments WHERE order_id = $1`
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sql, orderID).Scan(&total)
	return total, err
}

type DeletePaymentParams struct {
	ID      uuid.UUID
	OrderID uuid.UUID
}

func (q *Queries) DeletePayment(ctx context.Context, arg DeletePaymentParams) (int64, error) {
	const sql = `DELETE FROM payments WHERE id = $1 AND order_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.OrderID)
	return tag.RowsAffected(), err
}
