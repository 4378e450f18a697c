package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Categories ---

const categoryColumns = `id, name, parent_id, is_active, created_at, updated_at`

func scanCategory(s scanner) (Category, error) {
	var c Category
	err := s.Scan(&c.ID, &c.Name, &c.ParentID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	const sql = `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE NOT $1::bool OR is_active
		ORDER BY name
	`
	rows, err := q.db.Query(ctx, sql, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	const sql = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(q.db.QueryRow(ctx, sql, id))
}

type CreateCategoryParams struct {
	Name     string
	ParentID pgtype.UUID
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	const sql = `INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING ` + categoryColumns
	return scanCategory(q.db.QueryRow(ctx, sql, arg.Name, arg.ParentID))
}

type UpdateCategoryParams struct {
	ID       uuid.UUID
	Name     string
	ParentID pgtype.UUID
	IsActive bool
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	const sql = `
		UPDATE categories
		SET name = $2, parent_id = $3, is_active = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + categoryColumns
	return scanCategory(q.db.QueryRow(ctx, sql, arg.ID, arg.Name, arg.ParentID, arg.IsActive))
}

// --- Products ---

const productColumns = `id, category_id, name, sku, sale_price, cost_price, is_active, created_at, updated_at`

func scanProduct(s scanner) (Product, error) {
	var p Product
	err := s.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Sku, &p.SalePrice, &p.CostPrice,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type ListProductsParams struct {
	CategoryID pgtype.UUID
	ActiveOnly bool
	Limit      int32
	Offset     int32
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	const sql = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1::uuid IS NULL OR category_id = $1)
		  AND (NOT $2::bool OR is_active)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`
	rows, err := q.db.Query(ctx, sql, arg.CategoryID, arg.ActiveOnly, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type SearchProductsParams struct {
	Query  string
	Limit  int32
	Offset int32
}

// SearchProducts is the POS lookup: active products matched by name or
// SKU substring, case-insensitive.
func (q *Queries) SearchProducts(ctx context.Context, arg SearchProductsParams) ([]Product, error) {
	const sql = `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := q.db.Query(ctx, sql, arg.Query, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	const sql = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(q.db.QueryRow(ctx, sql, id))
}

type GetProductForOrderRow struct {
	ID        uuid.UUID
	Name      string
	SalePrice pgtype.Numeric
	IsActive  bool
}

// GetProductForOrder fetches just what order entry needs: identity and
// the current sale price.
func (q *Queries) GetProductForOrder(ctx context.Context, id uuid.UUID) (GetProductForOrderRow, error) {
	const sql = `SELECT id, name, sale_price, is_active FROM products WHERE id = $1`
	var row GetProductForOrderRow
	err := q.db.QueryRow(ctx, sql, id).Scan(&row.ID, &row.Name, &row.SalePrice, &row.IsActive)
	return row, err
}

type CreateProductParams struct {
	CategoryID uuid.UUID
	Name       string
	Sku        pgtype.Text
	SalePrice  pgtype.Numeric
	CostPrice  pgtype.Numeric
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	const sql = `
		INSERT INTO products (category_id, name, sku, sale_price, cost_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns
	return scanProduct(q.db.QueryRow(ctx, sql,
		arg.CategoryID, arg.Name, arg.Sku, arg.SalePrice, arg.CostPrice,
	))
}

type UpdateProductParams struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Sku        pgtype.Text
	SalePrice  pgtype.Numeric
	CostPrice  pgtype.Numeric
	IsActive   bool
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	const sql = `
		UPDATE products
		SET category_id = $2, name = $3, sku = $4, sale_price = $5,
		    cost_price = $6, is_active = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	return scanProduct(q.db.QueryRow(ctx, sql,
		arg.ID, arg.CategoryID, arg.Name, arg.Sku, arg.SalePrice,
		arg.CostPrice, arg.IsActive,
	))
}

// DeactivateProduct soft-deletes; order items keep their reference.
func (q *Queries) DeactivateProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	const sql = `UPDATE products SET is_active = false, updated_at = now() WHERE id = $1`
	tag, err := q.db.Exec(ctx, sql, id)
	return tag.RowsAffected(), err
}
