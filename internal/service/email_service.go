package service

import (
	"context"
	"errors"
	"fmt"

	"invoicegen/internal/dto"
	"invoicegen/internal/worker"
)

// ErrQueueUnavailable is returned when the server runs without Redis.
var ErrQueueUnavailable = errors.New("email delivery is not available")

// EmailQueue is the part of worker.Dispatcher the service needs.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) (string, error)
}

type EmailService interface {
	Enqueue(ctx context.Context, req dto.EmailInvoiceRequest) (*dto.EmailQueuedResponse, error)
}

type emailService struct {
	queue EmailQueue
}

// NewEmailService accepts a nil queue; Enqueue then reports ErrQueueUnavailable.
func NewEmailService(queue EmailQueue) EmailService {
	return &emailService{queue: queue}
}

func (s *emailService) Enqueue(ctx context.Context, req dto.EmailInvoiceRequest) (*dto.EmailQueuedResponse, error) {
	if s.queue == nil {
		return nil, ErrQueueUnavailable
	}
	// reject a bad tax variant now rather than in the worker
	if _, err := req.Invoice.ToInvoice(); err != nil {
		return nil, err
	}

	subject := req.Subject
	if subject == "" {
		subject = "Invoice " + req.Invoice.InvoiceNumber
		if name := req.Invoice.YourCompany.Name; name != "" {
			subject += " from " + name
		}
	}
	id, err := s.queue.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      req.To,
		Subject: subject,
		Invoice: req.Invoice,
	})
	if err != nil {
		return nil, fmt.Errorf("email: enqueue: %w", err)
	}
	return &dto.EmailQueuedResponse{JobID: id, Status: "queued"}, nil
}
