package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"time"
)

type DateRangeParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

type GetDailySalesRow struct {
	Day           time.Time
	OrderCount    int64
	GrossSales    pgtype.Numeric
	TotalDiscount pgtype.Numeric
	NetSales      pgtype.Numeric
}

// GetDailySales aggregates completed and pending (non-cancelled) orders
// per day over the given range.
func (q *Queries) GetDailySales(ctx context.Context, arg DateRangeParams) ([]GetDailySalesRow, error) {
	const sql = `
		SELECT date_trunc('day', ordered_at)::date AS day,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(subtotal), 0.00) AS gross_sales,
		       COALESCE(SUM(discount_amount), 0.00) AS total_discount,
		       COALESCE(SUM(grand_total), 0.00) AS net_sales
		FROM orders
		WHERE status <> 'cancelled'
		  AND ($1::date IS NULL OR ordered_at >= $1)
		  AND ($2::date IS NULL OR ordered_at < $2 + INTERVAL '1 day')
		GROUP BY 1
		ORDER BY 1
	`
	rows, err := q.db.Query(ctx, sql, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GetDailySalesRow
	for rows.Next() {
		var r GetDailySalesRow
		if err := rows.Scan(&r.Day, &r.OrderCount, &r.GrossSales, &r.TotalDiscount, &r.NetSales); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type GetPaymentSummaryRow struct {
	PaymentMethodID   uuid.UUID
	PaymentMethodName string
	TransactionCount  int64
	TotalAmount       pgtype.Numeric
}

func (q *Queries) GetPaymentSummary(ctx context.Context, arg DateRangeParams) ([]GetPaymentSummaryRow, error) {
	const sql = `
		SELECT pm.id, pm.name,
		       COUNT(p.id) AS transaction_count,
		       COALESCE(SUM(p.amount), 0.00) AS total_amount
		FROM payments p
		JOIN payment_methods pm ON pm.id = p.payment_method_id
		WHERE ($1::date IS NULL OR p.paid_at >= $1)
		  AND ($2::date IS NULL OR p.paid_at < $2 + INTERVAL '1 day')
		GROUP BY pm.id, pm.name
		ORDER BY total_amount DESC
	`
	rows, err := q.db.Query(ctx, sql, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GetPaymentSummaryRow
	for rows.Next() {
		var r GetPaymentSummaryRow
		if err := rows.Scan(&r.PaymentMethodID, &r.PaymentMethodName, &r.TransactionCount, &r.TotalAmount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type GetExpenseSummaryRow struct {
	UtilityTotal  pgtype.Numeric
	PurchaseTotal pgtype.Numeric
	SalaryTotal   pgtype.Numeric
	OtherTotal    pgtype.Numeric
}

func (q *Queries) GetExpenseSummary(ctx context.Context, arg DateRangeParams) (GetExpenseSummaryRow, error) {
	const sql = `
		SELECT
			(SELECT COALESCE(SUM(amount), 0.00) FROM utility_bills
			 WHERE ($1::date IS NULL OR bill_date >= $1) AND ($2::date IS NULL OR bill_date <= $2)),
			(SELECT COALESCE(SUM(quantity * unit_price), 0.00) FROM raw_material_purchases
			 WHERE ($1::date IS NULL OR purchase_date >= $1) AND ($2::date IS NULL OR purchase_date <= $2)),
			(SELECT COALESCE(SUM(amount), 0.00) FROM staff_salary_payments
			 WHERE ($1::date IS NULL OR pay_date >= $1) AND ($2::date IS NULL OR pay_date <= $2)),
			(SELECT COALESCE(SUM(amount), 0.00) FROM other_expenses
			 WHERE ($1::date IS NULL OR expense_date >= $1) AND ($2::date IS NULL OR expense_date <= $2))
	`
	var r GetExpenseSummaryRow
	err := q.db.QueryRow(ctx, sql, arg.StartDate, arg.EndDate).
		Scan(&r.UtilityTotal, &r.PurchaseTotal, &r.SalaryTotal, &r.OtherTotal)
	return r, err
}

type ListOutstandingCustomersRow struct {
	CustomerID   uuid.UUID
	CustomerName string
	Phone        string
	Outstanding  pgtype.Numeric
}

// ListOutstandingCustomers returns customers carrying a positive due
// balance across their non-cancelled orders.
func (q *Queries) ListOutstandingCustomers(ctx context.Context) ([]ListOutstandingCustomersRow, error) {
	const sql = `
		SELECT c.id, c.name, c.phone, SUM(o.due_total) AS outstanding
		FROM customers c
		JOIN orders o ON o.customer_id = c.id AND o.status <> 'cancelled'
		GROUP BY c.id, c.name, c.phone
		HAVING SUM(o.due_total) > 0
		ORDER BY outstanding DESC
	`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListOutstandingCustomersRow
	for rows.Next() {
		var r ListOutstandingCustomersRow
		if err := rows.Scan(&r.CustomerID, &r.CustomerName, &r.Phone, &r.Outstanding); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
