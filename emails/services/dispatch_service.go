// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"time"

	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/emails/validation"
	"github.com/ireserve/email-api/internal/pkg/log"
)

// DispatchService coordinates one dispatch: resolve the audience, render a
// message per recipient, deliver over the pool, aggregate outcomes.
type DispatchService interface {
	// Dispatch fails only when resolution itself fails (no recipient was
	// reached). After resolution it always returns a DispatchResult, with
	// failures reported per recipient.
	Dispatch(ctx context.Context, audience models.Audience, tmpl models.MessageTemplate) (*models.DispatchResult, error)

	// Preview resolves an audience without sending anything.
	Preview(ctx context.Context, audience models.Audience) ([]models.Recipient, error)
}

// dispatchService implements the DispatchService interface
type dispatchService struct {
	resolver AudienceResolver
	renderer Renderer
	pool     DeliveryPool
}

// NewDispatchService creates a new instance of the dispatch service
func NewDispatchService(resolver AudienceResolver, renderer Renderer, pool DeliveryPool) DispatchService {
	return &dispatchService{
		resolver: resolver,
		renderer: renderer,
		pool:     pool,
	}
}

func (s *dispatchService) Dispatch(ctx context.Context, audience models.Audience, tmpl models.MessageTemplate) (*models.DispatchResult, error) {
	started := time.Now()

	recipients, err := s.resolver.Resolve(ctx, audience)
	if err != nil {
		return nil, err
	}

	result := &models.DispatchResult{Total: len(recipients)}
	if len(recipients) == 0 {
		// An empty category is a valid, empty dispatch; no SMTP session
		// is opened.
		result.Elapsed = time.Since(started)
		return result, nil
	}

	// Render per recipient. A rendering failure is a terminal outcome for
	// that recipient and never reaches the pool.
	jobs := make([]DeliveryJob, 0, len(recipients))
	failed := make(map[string]models.DeliveryOutcome)
	for _, recipient := range recipients {
		key := validation.NormalizeEmail(recipient.Address)
		msg, renderErr := s.renderer.Render(tmpl, recipient)
		if renderErr != nil {
			log.WarnWithContext(ctx, "rendering failed for %s: %v", recipient.Address, renderErr)
			failed[key] = models.DeliveryOutcome{
				Recipient: recipient,
				Status:    models.StatusFailed,
				Err:       renderErr,
				Attempts:  0,
			}
			continue
		}
		jobs = append(jobs, DeliveryJob{
			Recipient: recipient,
			Message:   msg,
			ReplyTo:   tmpl.ReplyTo,
			Cc:        tmpl.Cc,
		})
	}

	delivered := s.pool.Deliver(ctx, jobs)

	// The pool returns outcomes in completion order; reconcile by address
	// back into the resolved order.
	byAddress := make(map[string]models.DeliveryOutcome, len(delivered))
	for _, outcome := range delivered {
		byAddress[validation.NormalizeEmail(outcome.Recipient.Address)] = outcome
	}

	result.Outcomes = make([]models.DeliveryOutcome, 0, len(recipients))
	for _, recipient := range recipients {
		key := validation.NormalizeEmail(recipient.Address)
		if outcome, ok := failed[key]; ok {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}
		if outcome, ok := byAddress[key]; ok {
			result.Outcomes = append(result.Outcomes, outcome)
		}
	}

	for _, outcome := range result.Outcomes {
		if outcome.Status == models.StatusSent {
			result.Sent++
		} else {
			result.Failed++
		}
	}
	result.Elapsed = time.Since(started)

	log.InfoWithContext(ctx, "dispatch complete: %d/%d sent, %d failed in %s",
		result.Sent, result.Total, result.Failed, result.Elapsed.Round(time.Millisecond))

	return result, nil
}

func (s *dispatchService) Preview(ctx context.Context, audience models.Audience) ([]models.Recipient, error) {
	return s.resolver.Resolve(ctx, audience)
}
