package worker

// email_worker.go
// Renders the invoice (HTML body + PDF attachment) and delivers it over SMTP.
// Sends go through the SMTP circuit breaker and are retried 3 times with
// exponential backoff; after that the job lands in dlq:jobs:email.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invoicegen/internal/dto"
	"invoicegen/internal/infra"
	"invoicegen/internal/render"

	"github.com/rs/zerolog/log"
)

const EmailMaxAttempts = 3

// EmailJobPayload is the job body sent to QueueEmail.
type EmailJobPayload struct {
	To      string             `json:"to"`
	Subject string             `json:"subject"`
	Invoice dto.InvoicePayload `json:"invoice"`
}

// Sender delivers one rendered invoice. *infra.Mailer implements it.
type Sender interface {
	SendInvoice(to, subject, htmlBody string, pdf []byte, filename string) error
}

type EmailWorker struct {
	sender    Sender
	breaker   *infra.CircuitBreaker
	doc       render.Document
	retryBase time.Duration
}

func NewEmailWorker(sender Sender, breaker *infra.CircuitBreaker, doc render.Document) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker, doc: doc, retryBase: time.Second}
}

// Process renders once and retries only the SMTP send.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.To == "" {
		return errors.New("email_worker: empty recipient")
	}

	inv, err := payload.Invoice.ToInvoice()
	if err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	body, err := render.HTML(inv)
	if err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	pdf, err := w.doc.Render(inv)
	if err != nil {
		return fmt.Errorf("email_worker: %w", err)
	}
	filename := render.PDFFilename(inv.InvoiceNumber)

	attempts := 0
	err = withRetry(ctx, EmailMaxAttempts, w.retryBase, func(attempt int) error {
		attempts = attempt + 1
		err := w.breaker.Execute(func() error {
			return w.sender.SendInvoice(payload.To, payload.Subject, body, pdf, filename)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempts).
				Str("to", payload.To).
				Str("invoice", inv.InvoiceNumber).
				Msg("email_worker: send attempt failed")
		}
		return err
	})
	if err != nil {
		return &AttemptsError{Attempts: attempts, Err: fmt.Errorf("email_worker: send: %w", err)}
	}

	log.Info().Str("to", payload.To).Str("invoice", inv.InvoiceNumber).Msg("email_worker: invoice sent")
	return nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule with base 1s: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * base
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
