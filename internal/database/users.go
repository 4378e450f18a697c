package database

import (
	"context"

	"github.com/google/uuid"
)

const userColumns = `id, email, hashed_password, full_name, role, is_active, created_at, updated_at`

func scanUser(s scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID, &u.Email, &u.HashedPassword, &u.FullName, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const sql = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	return scanUser(q.db.QueryRow(ctx, sql, email))
}

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	const sql = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, sql, id))
}
