package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Utility types & bills ---

const utilityTypeColumns = `id, name, created_at, updated_at`

func scanUtilityType(s scanner) (UtilityType, error) {
	var u UtilityType
	err := s.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (q *Queries) ListUtilityTypes(ctx context.Context) ([]UtilityType, error) {
	const sql = `SELECT ` + utilityTypeColumns + ` FROM utility_types ORDER BY name`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []UtilityType
	for rows.Next() {
		u, err := scanUtilityType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, u)
	}
	return types, rows.Err()
}

func (q *Queries) CreateUtilityType(ctx context.Context, name string) (UtilityType, error) {
	const sql = `INSERT INTO utility_types (name) VALUES ($1) RETURNING ` + utilityTypeColumns
	return scanUtilityType(q.db.QueryRow(ctx, sql, name))
}

const utilityBillColumns = `id, utility_type_id, amount, bill_date, note, created_at, updated_at`

func scanUtilityBill(s scanner) (UtilityBill, error) {
	var b UtilityBill
	err := s.Scan(&b.ID, &b.UtilityTypeID, &b.Amount, &b.BillDate, &b.Note, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

type CreateUtilityBillParams struct {
	UtilityTypeID uuid.UUID
	Amount        pgtype.Numeric
	BillDate      pgtype.Date
	Note          pgtype.Text
}

func (q *Queries) CreateUtilityBill(ctx context.Context, arg CreateUtilityBillParams) (UtilityBill, error) {
	const sql = `
		INSERT INTO utility_bills (utility_type_id, amount, bill_date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + utilityBillColumns
	return scanUtilityBill(q.db.QueryRow(ctx, sql,
		arg.UtilityTypeID, arg.Amount, arg.BillDate, arg.Note,
	))
}

type ListUtilityBillsParams struct {
	UtilityTypeID pgtype.UUID
	StartDate     pgtype.Date
	EndDate       pgtype.Date
	Limit         int32
	Offset        int32
}

func (q *Queries) ListUtilityBills(ctx context.Context, arg ListUtilityBillsParams) ([]UtilityBill, error) {
	const sql = `
		SELECT ` + utilityBillColumns + `
		FROM utility_bills
		WHERE ($1::uuid IS NULL OR utility_type_id = $1)
		  AND ($2::date IS NULL OR bill_date >= $2)
		  AND ($3::date IS NULL OR bill_date <= $3)
		ORDER BY bill_date DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := q.db.Query(ctx, sql, arg.UtilityTypeID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []UtilityBill
	for rows.Next() {
		b, err := scanUtilityBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (q *Queries) DeleteUtilityBill(ctx context.Context, id uuid.UUID) (int64, error) {
	const sql = `DELETE FROM utility_bills WHERE id = $1`
	tag, err := q.db.Exec(ctx, sql, id)
	return tag.RowsAffected(), err
}

// --- Units & raw materials ---

const unitColumns = `id, name, symbol, created_at, updated_at`

func scanUnit(s scanner) (Unit, error) {
	var u Unit
	err := s.Scan(&u.ID, &u.Name, &u.Symbol, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (q *Queries) ListUnits(ctx context.Context) ([]Unit, error) {
	const sql = `SELECT ` + unitColumns + ` FROM units ORDER BY name`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

type CreateUnitParams struct {
	Name   string
	Symbol pgtype.Text
}

func (q *Queries) CreateUnit(ctx context.Context, arg CreateUnitParams) (Unit, error) {
	const sql = `INSERT INTO units (name, symbol) VALUES ($1, $2) RETURNING ` + unitColumns
	return scanUnit(q.db.QueryRow(ctx, sql, arg.Name, arg.Symbol))
}

const rawMaterialColumns = `id, name, default_unit_id, created_at, updated_at`

func scanRawMaterial(s scanner) (RawMaterial, error) {
	var m RawMaterial
	err := s.Scan(&m.ID, &m.Name, &m.DefaultUnitID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (q *Queries) ListRawMaterials(ctx context.Context) ([]RawMaterial, error) {
	const sql = `SELECT ` + rawMaterialColumns + ` FROM raw_materials ORDER BY name`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []RawMaterial
	for rows.Next() {
		m, err := scanRawMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

type CreateRawMaterialParams struct {
	Name          string
	DefaultUnitID uuid.UUID
}

func (q *Queries) CreateRawMaterial(ctx context.Context, arg CreateRawMaterialParams) (RawMaterial, error) {
	const sql = `INSERT INTO raw_materials (name, default_unit_id) VALUES ($1, $2) RETURNING ` + rawMaterialColumns
	return scanRawMaterial(q.db.QueryRow(ctx, sql, arg.Name, arg.DefaultUnitID))
}

const purchaseColumns = `id, material_id, unit_id, quantity, unit_price, purchase_date, vendor, note, created_at, updated_at`

func scanPurchase(s scanner) (RawMaterialPurchase, error) {
	var p RawMaterialPurchase
	err := s.Scan(
		&p.ID, &p.MaterialID, &p.UnitID, &p.Quantity, &p.UnitPrice,
		&p.PurchaseDate, &p.Vendor, &p.Note, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type CreatePurchaseParams struct {
	MaterialID   uuid.UUID
	UnitID       uuid.UUID
	Quantity     pgtype.Numeric
	UnitPrice    pgtype.Numeric
	PurchaseDate pgtype.Date
	Vendor       pgtype.Text
	Note         pgtype.Text
}

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (RawMaterialPurchase, error) {
	const sql = `
		INSERT INTO raw_material_purchases (material_id, unit_id, quantity, unit_price, purchase_date, vendor, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + purchaseColumns
	return scanPurchase(q.db.QueryRow(ctx, sql,
		arg.MaterialID, arg.UnitID, arg.Quantity, arg.UnitPrice,
		arg.PurchaseDate, arg.Vendor, arg.Note,
	))
}

type ListPurchasesParams struct {
	MaterialID pgtype.UUID
	StartDate  pgtype.Date
	EndDate    pgtype.Date
	Limit      int32
	Offset     int32
}

func (q *Queries) ListPurchases(ctx context.Context, arg ListPurchasesParams) ([]RawMaterialPurchase, error) {
	const sql = `
		SELECT ` + purchaseColumns + `
		FROM raw_material_purchases
		WHERE ($1::uuid IS NULL OR material_id = $1)
		  AND ($2::date IS NULL OR purchase_date >= $2)
		  AND ($3::date IS NULL OR purchase_date <= $3)
		ORDER BY purchase_date DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := q.db.Query(ctx, sql, arg.MaterialID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []RawMaterialPurchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// --- Other expenses ---

const otherExpenseColumns = `id, title, amount, expense_date, note, created_at, updated_at`

func scanOtherExpense(s scanner) (OtherExpense, error) {
	var e OtherExpense
	err := s.Scan(&e.ID, &e.Title, &e.Amount, &e.ExpenseDate, &e.Note, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type CreateOtherExpenseParams struct {
	Title       string
	Amount      pgtype.Numeric
	ExpenseDate pgtype.Date
	Note        pgtype.Text
}

func (q *Queries) CreateOtherExpense(ctx context.Context, arg CreateOtherExpenseParams) (OtherExpense, error) {
	const sql = `
		INSERT INTO other_expenses (title, amount, expense_date, note)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + otherExpenseColumns
	return scanOtherExpense(q.db.QueryRow(ctx, sql,
		arg.Title, arg.Amount, arg.ExpenseDate, arg.Note,
	))
}

type ListOtherExpensesParams struct {
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOtherExpenses(ctx context.Context, arg ListOtherExpensesParams) ([]OtherExpense, error) {
	const sql = `
		SELECT ` + otherExpenseColumns + `
		FROM other_expenses
		WHERE ($1::date IS NULL OR expense_date >= $1)
		  AND ($2::date IS NULL OR expense_date <= $2)
		ORDER BY expense_date DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := q.db.Query(ctx, sql, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []OtherExpense
	for rows.Next() {
		e, err := scanOtherExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (q *Queries) DeleteOtherExpense(ctx context.Context, id uuid.UUID) (int64, error) {
	const sql = `DELETE FROM other_expenses WHERE id = $1`
	tag, err := q.db.Exec(ctx, sql, id)
	return tag.RowsAffected(), err
}
