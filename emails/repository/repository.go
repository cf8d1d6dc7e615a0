// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/ireserve/email-api/emails/models"
)

// DirectoryEntry is one row from the user directory, before validation.
// Email may be empty or malformed for bad rows; the resolver decides what
// to do with them.
type DirectoryEntry struct {
	Email    string
	FullName string
	Role     models.Role
}

// DirectoryRepository defines the directory-store operations the resolver
// needs. Rows come from the residents and staff tables joined with users;
// only active users are returned.
type DirectoryRepository interface {
	// ListResidents returns all active residents.
	ListResidents(ctx context.Context) ([]DirectoryEntry, error)

	// ListStaff returns all active staff members.
	ListStaff(ctx context.Context) ([]DirectoryEntry, error)

	// ListAll returns the union of active residents and staff.
	ListAll(ctx context.Context) ([]DirectoryEntry, error)
}
