// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ireserve/email-api/emails/models"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.co.za",
		"user+tag@example.com",
	}
	for _, address := range valid {
		assert.NoError(t, ValidateEmail(address), address)
	}

	invalid := []string{
		"",
		"not-an-address",
		"missing@domain",
		"@example.com",
		"two@@example.com",
		"Name <user@example.com>",
		"user@ example.com",
	}
	for _, address := range invalid {
		assert.Error(t, ValidateEmail(address), address)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}

func TestValidateSendRequest(t *testing.T) {
	base := func() models.SendEmailRequest {
		return models.SendEmailRequest{
			ClientName:     "John Doe",
			ClientEmail:    "client@example.com",
			RecipientEmail: "recipient@example.com",
			Subject:        "Important Message",
			Message:        "Hello, this is my message",
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		req := base()
		assert.NoError(t, ValidateSendRequest(&req))
	})

	t.Run("missing fields fail", func(t *testing.T) {
		for _, mutate := range []func(*models.SendEmailRequest){
			func(r *models.SendEmailRequest) { r.ClientName = "" },
			func(r *models.SendEmailRequest) { r.ClientEmail = "nope" },
			func(r *models.SendEmailRequest) { r.RecipientEmail = "" },
			func(r *models.SendEmailRequest) { r.Subject = " " },
			func(r *models.SendEmailRequest) { r.Message = "" },
		} {
			req := base()
			mutate(&req)
			assert.Error(t, ValidateSendRequest(&req))
		}
	})

	t.Run("bad cc address fails", func(t *testing.T) {
		req := base()
		req.Cc = []string{"fine@example.com", "broken"}
		assert.Error(t, ValidateSendRequest(&req))
	})
}

func TestValidateBroadcastRequest(t *testing.T) {
	t.Run("valid categories parse", func(t *testing.T) {
		for name, want := range map[string]models.CategoryKind{
			"ALL":       models.CategoryAll,
			"RESIDENTS": models.CategoryResidents,
			"STAFF":     models.CategoryStaff,
		} {
			kind, err := ValidateBroadcastRequest(&models.BroadcastRequest{
				Subject:       "Update",
				Message:       "Body",
				RecipientType: name,
			})
			assert.NoError(t, err)
			assert.Equal(t, want, kind)
		}
	})

	t.Run("unknown category fails", func(t *testing.T) {
		_, err := ValidateBroadcastRequest(&models.BroadcastRequest{
			Subject:       "Update",
			Message:       "Body",
			RecipientType: "EVERYONE",
		})
		assert.Error(t, err)
	})

	t.Run("empty subject fails", func(t *testing.T) {
		_, err := ValidateBroadcastRequest(&models.BroadcastRequest{
			Message:       "Body",
			RecipientType: "ALL",
		})
		assert.Error(t, err)
	})
}
