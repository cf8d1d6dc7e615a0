// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
)

func TestRenderer_Render(t *testing.T) {
	renderer := NewRenderer()
	recipient := models.Recipient{
		Address:     "pat@example.com",
		DisplayName: "Pat Resident",
		Role:        models.RoleResident,
	}

	t.Run("substitutes personalization fields into the body", func(t *testing.T) {
		tmpl := models.MessageTemplate{
			Subject:  "Pool maintenance",
			BodyHTML: "Hello {{.DisplayName}}, the pool closes Friday.",
		}

		msg, err := renderer.Render(tmpl, recipient)

		assert.NoError(t, err)
		assert.Equal(t, "Pool maintenance", msg.Subject)
		assert.Contains(t, msg.BodyHTML, "Hello Pat Resident, the pool closes Friday.")
		assert.Contains(t, msg.BodyHTML, "iReserve System Notification")
		assert.Contains(t, msg.BodyHTML, "Dear Pat Resident,")
	})

	t.Run("body can reference the subject", func(t *testing.T) {
		tmpl := models.MessageTemplate{
			Subject:  "Court resurfacing",
			BodyHTML: "Reminder about {{.Subject}}: courts reopen Monday.",
		}

		msg, err := renderer.Render(tmpl, recipient)

		assert.NoError(t, err)
		assert.Contains(t, msg.BodyHTML, "Reminder about Court resurfacing: courts reopen Monday.")
	})

	t.Run("missing display name falls back to User", func(t *testing.T) {
		tmpl := models.MessageTemplate{Subject: "Hi", BodyHTML: "Plain message."}
		anon := models.Recipient{Address: "anon@example.com"}

		msg, err := renderer.Render(tmpl, anon)

		assert.NoError(t, err)
		assert.Contains(t, msg.BodyHTML, "Dear User,")
	})

	t.Run("unknown field fails that recipient with TemplateError", func(t *testing.T) {
		tmpl := models.MessageTemplate{
			Subject:  "Hi",
			BodyHTML: "Hello {{.FavoriteColor}}!",
		}

		_, err := renderer.Render(tmpl, recipient)

		assert.ErrorIs(t, err, emailErrors.ErrTemplate)
	})

	t.Run("individual layout carries the sender name", func(t *testing.T) {
		tmpl := models.MessageTemplate{
			Subject:    "Booking question",
			BodyHTML:   "Is court 2 free on Sunday?",
			Layout:     models.LayoutIndividual,
			SenderName: "iReserve System",
		}

		msg, err := renderer.Render(tmpl, recipient)

		assert.NoError(t, err)
		assert.Contains(t, msg.BodyHTML, "Message from iReserve System")
		assert.Contains(t, msg.BodyHTML, "Is court 2 free on Sunday?")
	})

	t.Run("rendering is idempotent", func(t *testing.T) {
		tmpl := models.MessageTemplate{
			Subject:  "Hi",
			BodyHTML: "Hello {{.DisplayName}}.",
		}

		first, err1 := renderer.Render(tmpl, recipient)
		second, err2 := renderer.Render(tmpl, recipient)

		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Equal(t, first, second)
	})
}
