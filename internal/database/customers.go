package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, name, phone, created_at, updated_at`

func scanCustomer(s scanner) (Customer, error) {
	var c Customer
	err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

type ListCustomersParams struct {
	Search pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	const sql = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE $1::text IS NULL OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, sql, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	const sql = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(q.db.QueryRow(ctx, sql, id))
}

type CreateCustomerParams struct {
	Name  string
	Phone string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	const sql = `INSERT INTO customers (name, phone) VALUES ($1, $2) RETURNING ` + customerColumns
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.Name, arg.Phone))
}

type UpdateCustomerParams struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	const sql = `
		UPDATE customers
		SET name = $2, phone = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + customerColumns
	return scanCustomer(q.db.QueryRow(ctx, sql, arg.ID, arg.Name, arg.Phone))
}

func (q *Queries) DeleteCustomer(ctx context.Context, id uuid.UUID) (int64, error) {
	const sql = `DELETE FROM customers WHERE id = $1`
	tag, err := q.db.Exec(ctx, sql, id)
	return tag.RowsAffected(), err
}

// GetCustomerOutstandingBalance sums due_total over the customer's
// non-cancelled orders. Computed on demand, never cached.
func (q *Queries) GetCustomerOutstandingBalance(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error) {
	const sql = `
		SELECT COALESCE(SUM(due_total), 0.00)
		FROM orders
		WHERE customer_id = $1 AND status <> 'cancelled'
	`
	var total pgtype.Numeric
	err := q.db.QueryRow(ctx, sql, customerID).Scan(&total)
	return total, err
}

// --- Customer addresses ---

const customerAddressColumns = `id, customer_id, address_line, is_primary, created_at, updated_at`

func scanCustomerAddress(s scanner) (CustomerAddress, error) {
	var a CustomerAddress
	err := s.Scan(&a.ID, &a.CustomerID, &a.AddressLine, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (q *Queries) ListCustomerAddresses(ctx context.Context, customerID uuid.UUID) ([]CustomerAddress, error) {
	const sql = `
		SELECT ` + customerAddressColumns + `
		FROM customer_addresses
		WHERE customer_id = $1
		ORDER BY is_primary DESC, created_at DESC
	`
	rows, err := q.db.Query(ctx, sql, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []CustomerAddress
	for rows.Next() {
		a, err := scanCustomerAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// GetPrimaryCustomerAddress returns the customer's preferred address:
// the primary one, falling back to the most recent.
func (q *Queries) GetPrimaryCustomerAddress(ctx context.Context, customerID uuid.UUID) (CustomerAddress, error) {
	const sql = `
		SELECT ` + customerAddressColumns + `
		FROM customer_addresses
		WHERE customer_id = $1
		ORDER BY is_primary DESC, created_at DESC
		LIMIT 1
	`
	return scanCustomerAddress(q.db.QueryRow(ctx, sql, customerID))
}

type CreateCustomerAddressParams struct {
	CustomerID  uuid.UUID
	AddressLine string
	IsPrimary   bool
}

func (q *Queries) CreateCustomerAddress(ctx context.Context, arg CreateCustomerAddressParams) (CustomerAddress, error) {
	const sql = `
		INSERT INTO customer_addresses (customer_id, address_line, is_primary)
		VALUES ($1, $2, $3)
		RETURNING ` + customerAddressColumns
	return scanCustomerAddress(q.db.QueryRow(ctx, sql, arg.CustomerID, arg.AddressLine, arg.IsPrimary))
}

type DeleteCustomerAddressParams struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
}

func (q *Queries) DeleteCustomerAddress(ctx context.Context, arg DeleteCustomerAddressParams) (int64, error) {
	const sql = `DELETE FROM customer_addresses WHERE id = $1 AND customer_id = $2`
	tag, err := q.db.Exec(ctx, sql, arg.ID, arg.CustomerID)
	return tag.RowsAffected(), err
}
