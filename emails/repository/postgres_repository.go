// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/internal/database/postgres"
)

// postgresDirectoryRepository implements DirectoryRepository using raw SQL queries
type postgresDirectoryRepository struct {
	client *postgres.Client
}

// NewPostgresDirectoryRepository creates a new PostgreSQL repository for the
// user directory
func NewPostgresDirectoryRepository(client *postgres.Client) DirectoryRepository {
	return &postgresDirectoryRepository{client: client}
}

const residentsQuery = `
	SELECT r.email, r.full_name
	FROM residents r
	JOIN users u ON r.user_id = u.user_id
	WHERE u.status = 'active' AND u.user_type = 'resident'
`

const staffQuery = `
	SELECT s.email, s.full_name
	FROM staff s
	JOIN users u ON s.user_id = u.user_id
	WHERE u.status = 'active' AND u.user_type = 'staff'
`

// directoryRow matches the SELECT column list. Both columns are nullable in
// practice (legacy rows), so decode defensively.
type directoryRow struct {
	Email    sql.NullString `db:"email"`
	FullName sql.NullString `db:"full_name"`
}

func (r *postgresDirectoryRepository) ListResidents(ctx context.Context) ([]DirectoryEntry, error) {
	return r.list(ctx, residentsQuery, models.RoleResident)
}

func (r *postgresDirectoryRepository) ListStaff(ctx context.Context) ([]DirectoryEntry, error) {
	return r.list(ctx, staffQuery, models.RoleStaff)
}

// ListAll returns the union of active residents and staff. Two queries
// rather than a SQL UNION so each entry keeps its role.
func (r *postgresDirectoryRepository) ListAll(ctx context.Context) ([]DirectoryEntry, error) {
	residents, err := r.ListResidents(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := r.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	return append(residents, staff...), nil
}

func (r *postgresDirectoryRepository) list(ctx context.Context, query string, role models.Role) ([]DirectoryEntry, error) {
	var rows []directoryRow
	if err := sqlx.SelectContext(ctx, r.client.DB(), &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query %s directory: %w", role, err)
	}

	entries := make([]DirectoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, DirectoryEntry{
			Email:    row.Email.String,
			FullName: row.FullName.String,
			Role:     role,
		})
	}
	return entries, nil
}
