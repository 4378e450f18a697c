package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Staff roles ---

const staffRoleColumns = `id, name, created_at, updated_at`

func scanStaffRole(s scanner) (StaffRole, error) {
	var r StaffRole
	err := s.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (q *Queries) ListStaffRoles(ctx context.Context) ([]StaffRole, error) {
	const sql = `SELECT ` + staffRoleColumns + ` FROM staff_roles ORDER BY name`
	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []StaffRole
	for rows.Next() {
		r, err := scanStaffRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (q *Queries) CreateStaffRole(ctx context.Context, name string) (StaffRole, error) {
	const sql = `INSERT INTO staff_roles (name) VALUES ($1) RETURNING ` + staffRoleColumns
	return scanStaffRole(q.db.QueryRow(ctx, sql, name))
}

// --- Staff ---

const staffColumns = `id, name, phone, role_id, monthly_salary, is_active, joined_at, created_at, updated_at`

func scanStaff(s scanner) (Staff, error) {
	var st Staff
	err := s.Scan(
		&st.ID, &st.Name, &st.Phone, &st.RoleID, &st.MonthlySalary,
		&st.IsActive, &st.JoinedAt, &st.CreatedAt, &st.UpdatedAt,
	)
	return st, err
}

func (q *Queries) ListStaff(ctx context.Context, activeOnly bool) ([]Staff, error) {
	const sql = `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE NOT $1::bool OR is_active
		ORDER BY name
	`
	rows, err := q.db.Query(ctx, sql, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, st)
	}
	return members, rows.Err()
}

func (q *Queries) GetStaff(ctx context.Context, id uuid.UUID) (Staff, error) {
	const sql = `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	return scanStaff(q.db.QueryRow(ctx, sql, id))
}

type CreateStaffParams struct {
	Name          string
	Phone         pgtype.Text
	RoleID        uuid.UUID
	MonthlySalary pgtype.Numeric
	JoinedAt      pgtype.Date
}

func (q *Queries) CreateStaff(ctx context.Context, arg CreateStaffParams) (Staff, error) {
	const sql = `
		INSERT INTO staff (name, phone, role_id, monthly_salary, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + staffColumns
	return scanStaff(q.db.QueryRow(ctx, sql,
		arg.Name, arg.Phone, arg.RoleID, arg.MonthlySalary, arg.JoinedAt,
	))
}

type UpdateStaffParams struct {
	ID            uuid.UUID
	Name          string
	Phone         pgtype.Text
	RoleID        uuid.UUID
	MonthlySalary pgtype.Numeric
	IsActive      bool
	JoinedAt      pgtype.Date
}

func (q *Queries) UpdateStaff(ctx context.Context, arg UpdateStaffParams) (Staff, error) {
	const sql = `
		UPDATE staff
		SET name = $2, phone = $3, role_id = $4, monthly_salary = $5,
		    is_active = $6, joined_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + staffColumns
	return scanStaff(q.db.QueryRow(ctx, sql,
		arg.ID, arg.Name, arg.Phone, arg.RoleID, arg.MonthlySalary,
		arg.IsActive, arg.JoinedAt,
	))
}

// --- Salary payments ---

const salaryPaymentColumns = `id, staff_id, amount, pay_date, month, note, created_at, updated_at`

func scanSalaryPayment(s scanner) (StaffSalaryPayment, error) {
	var p StaffSalaryPayment
	err := s.Scan(
		&p.ID, &p.StaffID, &p.Amount, &p.PayDate, &p.Month, &p.Note,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type CreateSalaryPaymentParams struct {
	StaffID uuid.UUID
	Amount  pgtype.Numeric
	PayDate pgtype.Date
	Month   pgtype.Date
	Note    pgtype.Text
}

func (q *Queries) CreateSalaryPayment(ctx context.Context, arg CreateSalaryPaymentParams) (StaffSalaryPayment, error) {
	const sql = `
		INSERT INTO staff_salary_payments (staff_id, amount, pay_date, month, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + salaryPaymentColumns
	return scanSalaryPayment(q.db.QueryRow(ctx, sql,
		arg.StaffID, arg.Amount, arg.PayDate, arg.Month, arg.Note,
	))
}

type ListSalaryPaymentsParams struct {
	StaffID   pgtype.UUID
	StartDate pgtype.Date
	EndDate   pgtype.Date
	Limit     int32
	Offset    int32
}

func (q *Queries) ListSalaryPayments(ctx context.Context, arg ListSalaryPaymentsParams) ([]StaffSalaryPayment, error) {
	const sql = `
		SELECT ` + salaryPaymentColumns + `
		FROM staff_salary_payments
		WHERE ($1::uuid IS NULL OR staff_id = $1)
		  AND ($2::date IS NULL OR pay_date >= $2)
		  AND ($3::date IS NULL OR pay_date <= $3)
		ORDER BY pay_date DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := q.db.Query(ctx, sql, arg.StaffID, arg.StartDate, arg.EndDate, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []StaffSalaryPayment
	for rows.Next() {
		p, err := scanSalaryPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
