package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobTypeEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt string          `json:"enqueued_at"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.Cmdable
}

func NewDispatcher(rdb redis.Cmdable) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an invoice email job and returns its id.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) (string, error) {
	return d.enqueue(ctx, QueueEmail, JobTypeEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("worker: marshal payload: %w", err)
	}
	job := Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    data,
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("worker: marshal job: %w", err)
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return "", fmt.Errorf("worker: enqueue %s: %w", queue, err)
	}
	return job.ID, nil
}

// Handler processes one job payload. A returned error moves the job to the
// dead-letter list; handlers retry internally before giving up.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// AttemptsError lets a handler report how many attempts it made before failing.
type AttemptsError struct {
	Attempts int
	Err      error
}

func (e *AttemptsError) Error() string { return e.Err.Error() }
func (e *AttemptsError) Unwrap() error { return e.Err }

// Pool runs a fixed number of goroutines blocked on BRPOP.
type Pool struct {
	rdb      redis.Cmdable
	size     int
	handlers map[string]Handler
	queues   []string
	dlq      func(ctx context.Context, e DLQEntry)
	wg       sync.WaitGroup
}

func NewPool(rdb redis.Cmdable, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{rdb: rdb, size: size, handlers: map[string]Handler{}}
	p.dlq = func(ctx context.Context, e DLQEntry) { SendToDLQ(ctx, rdb, e) }
	return p
}

// Handle registers h for jobs of jobType arriving on queue.
func (p *Pool) Handle(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until the job in flight on each worker has finished.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Int("workers", p.size).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}
		// waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		p.dlq(ctx, newDLQEntry(queue, "", quoted, "malformed job: "+err.Error(), 0))
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler for job type")
		p.dlq(ctx, newDLQEntry(queue, job.Type, job.Payload, "no handler", 0))
		return
	}

	// a panicking handler must not take the pool down with it
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job_id", job.ID).Str("type", job.Type).Interface("panic", r).Msg("job panicked")
			p.dlq(ctx, newDLQEntry(queue, job.Type, job.Payload, fmt.Sprintf("panic: %v", r), 1))
		}
	}()

	start := time.Now()
	if err := h.Process(ctx, job.Payload); err != nil {
		attempts := 1
		var ae *AttemptsError
		if errors.As(err, &ae) {
			attempts = ae.Attempts
		}
		log.Error().Err(err).Str("job_id", job.ID).Str("type", job.Type).Int("attempts", attempts).Msg("job failed")
		p.dlq(ctx, newDLQEntry(queue, job.Type, job.Payload, err.Error(), attempts))
		return
	}
	log.Info().Str("job_id", job.ID).Str("type", job.Type).Dur("took", time.Since(start)).Msg("job done")
}
