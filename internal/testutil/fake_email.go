package testutil

import (
	"context"
	"sync"
	"time"

	platformemail "github.com/ireserve/email-api/internal/platform/email"
)

// FakeEmailSender captures emails in memory for tests. Failures can be
// scripted per address: each Send to that address consumes the next error
// in its script, then sends succeed.
type FakeEmailSender struct {
	mu       sync.Mutex
	Sent     []platformemail.Message
	SentAt   []time.Time
	scripts  map[string][]error
	attempts map[string]int

	// Latency, when set, makes every Send block for the duration or until
	// the context expires, whichever comes first.
	Latency time.Duration
}

func NewFakeEmailSender() *FakeEmailSender {
	return &FakeEmailSender{
		Sent:     make([]platformemail.Message, 0),
		scripts:  make(map[string][]error),
		attempts: make(map[string]int),
	}
}

// FailWith scripts the next sends to an address to return the given errors
// in order.
func (f *FakeEmailSender) FailWith(address string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[address] = append(f.scripts[address], errs...)
}

func (f *FakeEmailSender) Send(ctx context.Context, msg platformemail.Message) error {
	if f.Latency > 0 {
		timer := time.NewTimer(f.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts[msg.To]++
	if script := f.scripts[msg.To]; len(script) > 0 {
		err := script[0]
		f.scripts[msg.To] = script[1:]
		return err
	}

	f.Sent = append(f.Sent, msg)
	f.SentAt = append(f.SentAt, time.Now())
	return nil
}

// SentTo returns the messages delivered to an address.
func (f *FakeEmailSender) SentTo(address string) []platformemail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []platformemail.Message
	for _, msg := range f.Sent {
		if msg.To == address {
			out = append(out, msg)
		}
	}
	return out
}

// AttemptsTo returns how many Send calls an address received, failures
// included.
func (f *FakeEmailSender) AttemptsTo(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[address]
}

// SentCount returns how many messages were delivered.
func (f *FakeEmailSender) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// LastSent returns the most recently delivered message.
func (f *FakeEmailSender) LastSent() *platformemail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return nil
	}
	return &f.Sent[len(f.Sent)-1]
}

func (f *FakeEmailSender) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = f.Sent[:0]
	f.SentAt = f.SentAt[:0]
	f.scripts = make(map[string][]error)
	f.attempts = make(map[string]int)
}
