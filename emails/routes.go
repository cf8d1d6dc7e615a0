// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package emails

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ireserve/email-api/emails/handlers"
	"github.com/ireserve/email-api/internal/middleware/ratelimit"
)

// EmailsHandlers holds all the handlers this router needs
type EmailsHandlers struct {
	EmailHandler *handlers.EmailHandler
}

// RegisterRoutes is the single entry point for setting up email routes
func RegisterRoutes(app *fiber.App, h *EmailsHandlers) {
	group := app.Group("/emails")

	group.Post("/send", ratelimit.New(ratelimit.Config{
		EndpointType: ratelimit.EndpointSend,
	}), h.EmailHandler.Send)

	group.Post("/broadcast", ratelimit.New(ratelimit.Config{
		EndpointType: ratelimit.EndpointBroadcast,
	}), h.EmailHandler.Broadcast)

	group.Get("/recipients", h.EmailHandler.Recipients)
}
