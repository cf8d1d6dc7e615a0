// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"fmt"
	"html/template"
	"strings"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
)

// Renderer produces the final subject and HTML body for one recipient.
// Rendering is pure: no I/O, no shared mutable state, identical output for
// identical input, so it is safe to call concurrently and retry.
type Renderer interface {
	Render(tmpl models.MessageTemplate, recipient models.Recipient) (models.RenderedMessage, error)
}

// htmlRenderer implements the Renderer interface
type htmlRenderer struct{}

// NewRenderer creates a new HTML message renderer
func NewRenderer() Renderer {
	return &htmlRenderer{}
}

// broadcastLayout is the iReserve notification wrapper for category sends.
var broadcastLayout = template.Must(template.New("broadcast").Parse(`<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; }
        .container { max-width: 600px; margin: auto; padding: 20px; }
        .header { background-color: #2563eb; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #ffffff; }
        .footer { margin-top: 20px; font-size: 0.8em; color: #666; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>iReserve System Notification</h2>
        </div>
        <div class="content">
            <p>Dear {{.Greeting}},</p>
            <p>{{.Message}}</p>
            <p>Best regards,<br>The iReserve Team</p>
        </div>
        <div class="footer">
            <p>&copy; 2025 iReserve Community Sports Facility System</p>
        </div>
    </div>
</body>
</html>`))

// individualLayout is the person-to-person wrapper for single sends.
var individualLayout = template.Must(template.New("individual").Parse(`<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2E8B57; color: white; padding: 10px; text-align: center; }
        .content { padding: 20px; }
        .footer { margin-top: 20px; font-size: 0.8em; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Message from {{.SenderName}}</h2>
        </div>
        <div class="content">
            <hr>
            <p>{{.Message}}</p>
        </div>
        <div class="footer">
            <p>This email was sent via the iReserve Community Sports Facility System</p>
        </div>
    </div>
</body>
</html>`))

func (r *htmlRenderer) Render(tmpl models.MessageTemplate, recipient models.Recipient) (models.RenderedMessage, error) {
	body, err := r.renderBody(tmpl, recipient)
	if err != nil {
		return models.RenderedMessage{}, fmt.Errorf("%w for %s: %v", emailErrors.ErrTemplate, recipient.Address, err)
	}

	layout := broadcastLayout
	data := map[string]interface{}{
		// The message content is author-supplied HTML; it must not be
		// re-escaped by the layout.
		"Message":  template.HTML(body),
		"Greeting": greeting(recipient),
	}
	if tmpl.Layout == models.LayoutIndividual {
		layout = individualLayout
		data["SenderName"] = senderName(tmpl)
	}

	var out strings.Builder
	if err := layout.Execute(&out, data); err != nil {
		return models.RenderedMessage{}, fmt.Errorf("%w for %s: %v", emailErrors.ErrTemplate, recipient.Address, err)
	}

	return models.RenderedMessage{
		Subject:  tmpl.Subject,
		BodyHTML: out.String(),
	}, nil
}

// renderBody substitutes personalization fields into the author's message.
// An unknown field fails this recipient only.
func (r *htmlRenderer) renderBody(tmpl models.MessageTemplate, recipient models.Recipient) (string, error) {
	t, err := template.New("body").Option("missingkey=error").Parse(tmpl.BodyHTML)
	if err != nil {
		return "", fmt.Errorf("parse body: %w", err)
	}

	fields := map[string]string{
		"DisplayName": greeting(recipient),
		"Address":     recipient.Address,
		"Subject":     tmpl.Subject,
	}

	var out strings.Builder
	if err := t.Execute(&out, fields); err != nil {
		return "", fmt.Errorf("execute body: %w", err)
	}
	return out.String(), nil
}

func greeting(recipient models.Recipient) string {
	if name := strings.TrimSpace(recipient.DisplayName); name != "" {
		return name
	}
	return "User"
}

func senderName(tmpl models.MessageTemplate) string {
	if name := strings.TrimSpace(tmpl.SenderName); name != "" {
		return name
	}
	return "iReserve System"
}
