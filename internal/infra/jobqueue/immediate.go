package jobqueue

import (
	"context"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
)

// Handler executes a delivered job.
type Handler func(ctx context.Context, name string, payload map[string]any)

// HandlerQueue is a job queue whose consumer is attached after construction.
type HandlerQueue interface {
	analysisjob.JobQueue
	SetHandler(handler Handler)
	Close()
}

// ImmediateQueue runs the handler on a goroutine for every enqueued job.
type ImmediateQueue struct {
	handler Handler
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue() *ImmediateQueue {
	return &ImmediateQueue{}
}

// SetHandler replaces the handler used for queued jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.handler = handler
}

// Enqueue detaches the job from the caller's cancellation and runs it.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload any) error {
	typed, ok := payload.(map[string]any)
	if !ok {
		typed = map[string]any{}
	}
	if q.handler == nil {
		return errNoHandler
	}
	go q.handler(context.WithoutCancel(ctx), name, typed)
	return nil
}

// Close is a no-op; running jobs finish on their own.
func (q *ImmediateQueue) Close() {}

var _ HandlerQueue = (*ImmediateQueue)(nil)
