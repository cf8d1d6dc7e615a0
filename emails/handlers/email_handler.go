// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/emails/services"
	"github.com/ireserve/email-api/emails/validation"
	"github.com/ireserve/email-api/internal/pkg/log"
)

// EmailHandler handles all email-related HTTP requests
type EmailHandler struct {
	dispatchService services.DispatchService
	requestTimeout  time.Duration
	queryDecoder    *schema.Decoder
}

// NewEmailHandler creates a new EmailHandler with injected dependencies.
// requestTimeout bounds a whole dispatch; zero disables the bound.
func NewEmailHandler(dispatchService services.DispatchService, requestTimeout time.Duration) *EmailHandler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &EmailHandler{
		dispatchService: dispatchService,
		requestTimeout:  requestTimeout,
		queryDecoder:    decoder,
	}
}

// requestContext derives the context a dispatch runs under: the request's
// user context (request ID included) bounded by the request timeout, so the
// pool fails unscheduled sends instead of retrying past the caller.
func (h *EmailHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.requestTimeout > 0 {
		return context.WithTimeout(c.UserContext(), h.requestTimeout)
	}
	return context.WithCancel(c.UserContext())
}

// Send handles an individual email send
// Endpoint: POST /emails/send
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	var req models.SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return emailErrors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if err := validation.ValidateSendRequest(&req); err != nil {
		return emailErrors.HandleValidationError(c, err.Error())
	}

	audience := models.IndividualAudience(req.RecipientEmail)
	tmpl := models.MessageTemplate{
		Subject:    req.Subject,
		BodyHTML:   req.Message,
		Layout:     models.LayoutIndividual,
		ReplyTo:    req.ClientEmail,
		Cc:         req.Cc,
		SenderName: "iReserve System",
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.dispatchService.Dispatch(ctx, audience, tmpl)
	if err != nil {
		return emailErrors.HandleServiceError(c, err)
	}

	// Single-recipient contract: a failed send is a failed request.
	if result.Failed > 0 {
		outcome := result.Outcomes[0]
		log.ErrorWithContext(ctx, "individual send to %s failed: %v", req.RecipientEmail, outcome.Err)
		return c.Status(http.StatusInternalServerError).JSON(emailErrors.ErrorResponse{
			Code:    emailErrors.CodeSendFailed,
			Message: "Failed to send email",
			Details: outcome.Err.Error(),
		})
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Email sent successfully",
	})
}

// Broadcast handles a category broadcast
// Endpoint: POST /emails/broadcast
func (h *EmailHandler) Broadcast(c *fiber.Ctx) error {
	var req models.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return emailErrors.HandleInvalidRequestError(c, "Invalid request body")
	}

	kind, err := validation.ValidateBroadcastRequest(&req)
	if err != nil {
		return emailErrors.HandleValidationError(c, err.Error())
	}

	tmpl := models.MessageTemplate{
		Subject:  req.Subject,
		BodyHTML: req.Message,
		Layout:   models.LayoutBroadcast,
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.dispatchService.Dispatch(ctx, models.CategoryAudience(kind), tmpl)
	if err != nil {
		return emailErrors.HandleServiceError(c, err)
	}

	// Partial failure is still a completed broadcast; detail travels in
	// the per-recipient results.
	return c.Status(http.StatusOK).JSON(buildBroadcastResponse(result))
}

// Recipients previews the resolved recipients of a category without sending
// Endpoint: GET /emails/recipients?category=STAFF
func (h *EmailHandler) Recipients(c *fiber.Ctx) error {
	values := make(url.Values)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})

	var query models.RecipientsQuery
	if err := h.queryDecoder.Decode(&query, values); err != nil {
		return emailErrors.HandleValidationError(c, "category query parameter is required")
	}

	kind, ok := models.ParseCategoryKind(query.Category)
	if !ok {
		return emailErrors.HandleValidationError(c, "category must be one of ALL, RESIDENTS, STAFF")
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	recipients, err := h.dispatchService.Preview(ctx, models.CategoryAudience(kind))
	if err != nil {
		return emailErrors.HandleServiceError(c, err)
	}

	emails := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		emails = append(emails, recipient.Address)
	}

	return c.Status(http.StatusOK).JSON(models.RecipientsResponse{
		Category: kind.String(),
		Total:    len(recipients),
		Emails:   emails,
	})
}

func buildBroadcastResponse(result *models.DispatchResult) models.BroadcastResponse {
	results := make([]models.OutcomeResponse, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		item := models.OutcomeResponse{
			Email:    outcome.Recipient.Address,
			Status:   outcome.Status.String(),
			Attempts: outcome.Attempts,
		}
		if outcome.Err != nil {
			item.Error = outcome.Err.Error()
		}
		results = append(results, item)
	}

	return models.BroadcastResponse{
		Status: "success",
		Message: fmt.Sprintf("Broadcast complete. %d/%d emails sent successfully.",
			result.Sent, result.Total),
		Total:   result.Total,
		Sent:    result.Sent,
		Failed:  result.Failed,
		Results: results,
	}
}
