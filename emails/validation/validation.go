// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/ireserve/email-api/emails/models"
)

// Email validation regex pattern (RFC 5322 compliant)
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const maxEmailLength = 254

// ValidateEmail checks address syntax. It combines net/mail parsing with a
// stricter regex because net/mail accepts forms (unquoted display names,
// missing TLDs) that SMTP servers routinely reject.
func ValidateEmail(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("email address is required")
	}
	if len(address) > maxEmailLength {
		return fmt.Errorf("email address exceeds %d characters", maxEmailLength)
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("malformed email address: %w", err)
	}
	// ParseAddress tolerates "Name <addr>" forms; require a bare address.
	if parsed.Address != address {
		return fmt.Errorf("email address must not include a display name")
	}
	if !emailRegex.MatchString(address) {
		return fmt.Errorf("email address has invalid syntax")
	}
	// Dotless domains pass RFC parsing but are rejected by every relay we
	// deliver through.
	domain := address[strings.LastIndex(address, "@")+1:]
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("email domain %q is not fully qualified", domain)
	}
	return nil
}

// NormalizeEmail lowercases an address for case-insensitive comparison of
// the local and domain parts.
func NormalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// ValidateSendRequest validates an individual send request.
func ValidateSendRequest(req *models.SendEmailRequest) error {
	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("client_name is required")
	}
	if err := ValidateEmail(req.ClientEmail); err != nil {
		return fmt.Errorf("client_email: %w", err)
	}
	if err := ValidateEmail(req.RecipientEmail); err != nil {
		return fmt.Errorf("recipient_email: %w", err)
	}
	for _, cc := range req.Cc {
		if err := ValidateEmail(cc); err != nil {
			return fmt.Errorf("cc %q: %w", cc, err)
		}
	}
	return validateContent(req.Subject, req.Message)
}

// ValidateBroadcastRequest validates a broadcast request and returns the
// parsed category.
func ValidateBroadcastRequest(req *models.BroadcastRequest) (models.CategoryKind, error) {
	kind, ok := models.ParseCategoryKind(req.RecipientType)
	if !ok {
		return 0, fmt.Errorf("recipient_type must be one of ALL, RESIDENTS, STAFF")
	}
	if err := validateContent(req.Subject, req.Message); err != nil {
		return 0, err
	}
	return kind, nil
}

func validateContent(subject, message string) error {
	if strings.TrimSpace(subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}
