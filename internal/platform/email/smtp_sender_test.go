package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSMTPSender(t *testing.T) {
	t.Run("requires host and port", func(t *testing.T) {
		_, err := NewSMTPSender("", 465, "user", "pass")
		assert.Error(t, err)

		_, err = NewSMTPSender("mail.example.com", 0, "user", "pass")
		assert.Error(t, err)
	})

	t.Run("valid config", func(t *testing.T) {
		sender, err := NewSMTPSender("mail.example.com", 465, "user", "pass")
		assert.NoError(t, err)
		assert.NotNil(t, sender)
	})
}

func TestBuildRFC822(t *testing.T) {
	t.Run("full headers", func(t *testing.T) {
		raw := string(buildRFC822(Message{
			From:     "noreply@ireserve.example",
			FromName: "iReserve System",
			To:       "user@example.com",
			ReplyTo:  "client@example.com",
			Cc:       []string{"cc1@example.com", "cc2@example.com"},
			Subject:  "Hello",
			Body:     "<p>Hi</p>",
		}))

		assert.Contains(t, raw, "From: iReserve System <noreply@ireserve.example>\r\n")
		assert.Contains(t, raw, "To: user@example.com\r\n")
		assert.Contains(t, raw, "Reply-To: client@example.com\r\n")
		assert.Contains(t, raw, "Cc: cc1@example.com, cc2@example.com\r\n")
		assert.Contains(t, raw, "Subject: Hello\r\n")
		assert.Contains(t, raw, "Content-Type: text/html")
		assert.Contains(t, raw, "<p>Hi</p>")
	})

	t.Run("optional headers omitted", func(t *testing.T) {
		raw := string(buildRFC822(Message{
			From:    "noreply@ireserve.example",
			To:      "user@example.com",
			Subject: "Hello",
			Body:    "<p>Hi</p>",
		}))

		assert.Contains(t, raw, "From: noreply@ireserve.example\r\n")
		assert.NotContains(t, raw, "Reply-To:")
		assert.NotContains(t, raw, "Cc:")
	})
}
