// Copyright (c) 2025 iReserve
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	emailErrors "github.com/ireserve/email-api/emails/errors"
	"github.com/ireserve/email-api/emails/models"
	"github.com/ireserve/email-api/internal/pkg/log"
	platformemail "github.com/ireserve/email-api/internal/platform/email"
)

// DeliveryJob is one rendered message bound for one recipient.
type DeliveryJob struct {
	Recipient models.Recipient
	Message   models.RenderedMessage
	ReplyTo   string
	Cc        []string
}

// PoolConfig holds the delivery pool knobs.
type PoolConfig struct {
	// Workers bounds the number of concurrent SMTP sessions.
	Workers int
	// MaxAttempts bounds retries per recipient; transient failures are
	// retried up to this total, permanent failures never are.
	MaxAttempts int
	// RetryBackoff is the first retry delay; it doubles per attempt.
	RetryBackoff time.Duration
	// RatePerSecond caps sends against the SMTP server. Zero or negative
	// disables the cap.
	RatePerSecond float64
	// SendTimeout bounds a single SMTP transaction. Zero disables it; the
	// request deadline still applies either way.
	SendTimeout time.Duration

	FromEmail string
	FromName  string
}

// DeliveryPool fans rendered messages out over a bounded set of SMTP
// workers and collects one outcome per recipient.
type DeliveryPool interface {
	// Deliver sends every job and returns exactly one outcome per job, in
	// no particular order. Once the context deadline fires, in-flight
	// sends finish but unscheduled jobs are failed with a timeout error.
	Deliver(ctx context.Context, jobs []DeliveryJob) []models.DeliveryOutcome
}

// deliveryPool implements the DeliveryPool interface
type deliveryPool struct {
	sender  platformemail.Sender
	cfg     PoolConfig
	limiter *rate.Limiter
}

// NewDeliveryPool creates a new delivery pool over the given sender.
func NewDeliveryPool(sender platformemail.Sender, cfg PoolConfig) DeliveryPool {
	if cfg.Workers < 1 {
		cfg.Workers = 5
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &deliveryPool{
		sender:  sender,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, cfg.Workers),
	}
}

func (p *deliveryPool) Deliver(ctx context.Context, jobs []DeliveryJob) []models.DeliveryOutcome {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan DeliveryJob, len(jobs))
	outcomeCh := make(chan models.DeliveryOutcome, len(jobs))

	workers := p.cfg.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				outcomeCh <- p.process(ctx, job)
			}
		}()
	}

	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	outcomes := make([]models.DeliveryOutcome, 0, len(jobs))
	for outcome := range outcomeCh {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// process sends one job, retrying transient failures with exponential
// backoff. Jobs picked up after the deadline are failed without a send.
func (p *deliveryPool) process(ctx context.Context, job DeliveryJob) models.DeliveryOutcome {
	if ctx.Err() != nil {
		return models.DeliveryOutcome{
			Recipient: job.Recipient,
			Status:    models.StatusFailed,
			Err:       fmt.Errorf("%w: send was never scheduled", emailErrors.ErrTimeout),
			Attempts:  0,
		}
	}

	msg := platformemail.Message{
		From:     p.cfg.FromEmail,
		FromName: p.cfg.FromName,
		To:       job.Recipient.Address,
		ReplyTo:  job.ReplyTo,
		Cc:       job.Cc,
		Subject:  job.Message.Subject,
		Body:     job.Message.BodyHTML,
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			// Deadline fired while throttled. If nothing was sent yet
			// this recipient was never attempted.
			if attempts == 0 {
				return models.DeliveryOutcome{
					Recipient: job.Recipient,
					Status:    models.StatusFailed,
					Err:       fmt.Errorf("%w: send was never scheduled", emailErrors.ErrTimeout),
					Attempts:  0,
				}
			}
			break
		}

		attempts = attempt
		err := p.send(ctx, msg)
		if err == nil {
			return models.DeliveryOutcome{
				Recipient: job.Recipient,
				Status:    models.StatusSent,
				Attempts:  attempt,
			}
		}
		lastErr = err

		if platformemail.IsPermanent(err) {
			return models.DeliveryOutcome{
				Recipient: job.Recipient,
				Status:    models.StatusFailed,
				Err:       fmt.Errorf("%w: %v", emailErrors.ErrPermanentDelivery, err),
				Attempts:  attempt,
			}
		}

		log.WarnWithContext(ctx, "transient failure sending to %s (attempt %d/%d): %v",
			job.Recipient.Address, attempt, p.cfg.MaxAttempts, err)

		if attempt == p.cfg.MaxAttempts {
			break
		}
		if !p.backoff(ctx, attempt) {
			break
		}
	}

	return models.DeliveryOutcome{
		Recipient: job.Recipient,
		Status:    models.StatusFailed,
		Err:       fmt.Errorf("%w: %v", emailErrors.ErrTransientDelivery, lastErr),
		Attempts:  attempts,
	}
}

// send runs one SMTP transaction under the per-send timeout, if any.
func (p *deliveryPool) send(ctx context.Context, msg platformemail.Message) error {
	if p.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.SendTimeout)
		defer cancel()
	}
	return p.sender.Send(ctx, msg)
}

// backoff sleeps for the attempt's retry delay (doubling per attempt).
// Returns false when the context expired first, in which case no further
// attempt is made.
func (p *deliveryPool) backoff(ctx context.Context, attempt int) bool {
	delay := p.cfg.RetryBackoff << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
