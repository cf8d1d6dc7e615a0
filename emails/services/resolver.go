// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/emails/repository"
	"github.com/ireserve/email-api/emails/validation"
	"github.com/ireserve/email-api/internal/pkg/log"
)

// AudienceResolver turns an audience into a deduplicated, validated
// recipient list.
type AudienceResolver interface {
	// Resolve returns the recipients for an audience, in directory order.
	// An empty category is not an error. It fails only when the address of
	// an individual audience is malformed or the directory store cannot be
	// queried; individually bad directory rows are skipped with a warning.
	Resolve(ctx context.Context, audience models.Audience) ([]models.Recipient, error)
}

// audienceResolver implements the AudienceResolver interface
type audienceResolver struct {
	directoryRepo repository.DirectoryRepository
}

// NewAudienceResolver creates a new instance of the audience resolver
func NewAudienceResolver(directoryRepo repository.DirectoryRepository) AudienceResolver {
	return &audienceResolver{directoryRepo: directoryRepo}
}

func (r *audienceResolver) Resolve(ctx context.Context, audience models.Audience) ([]models.Recipient, error) {
	if audience.IsIndividual() {
		// Validate syntax only; no directory lookup for explicit addresses.
		if err := validation.ValidateEmail(audience.Address()); err != nil {
			return nil, fmt.Errorf("%w: %v", emailErrors.ErrInvalidAddress, err)
		}
		return []models.Recipient{{Address: audience.Address()}}, nil
	}

	entries, err := r.listCategory(ctx, audience.Category())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", emailErrors.ErrResolution, err)
	}

	// Dedupe case-insensitively on the full address; first-seen entry wins,
	// including its display name.
	seen := make(map[string]struct{}, len(entries))
	recipients := make([]models.Recipient, 0, len(entries))
	for _, entry := range entries {
		if err := validation.ValidateEmail(entry.Email); err != nil {
			log.WarnWithContext(ctx, "skipping directory row with bad address %q: %v", entry.Email, err)
			continue
		}
		key := validation.NormalizeEmail(entry.Email)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		recipients = append(recipients, models.Recipient{
			Address:     entry.Email,
			DisplayName: entry.FullName,
			Role:        entry.Role,
		})
	}

	return recipients, nil
}

func (r *audienceResolver) listCategory(ctx context.Context, kind models.CategoryKind) ([]repository.DirectoryEntry, error) {
	switch kind {
	case models.CategoryAll:
		return r.directoryRepo.ListAll(ctx)
	case models.CategoryResidents:
		return r.directoryRepo.ListResidents(ctx)
	case models.CategoryStaff:
		return r.directoryRepo.ListStaff(ctx)
	default:
		return nil, fmt.Errorf("unknown category kind %d", kind)
	}
}
