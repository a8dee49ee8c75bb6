package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
	"github.com/yanqian/glow-advisor/internal/infra/config"
	"github.com/yanqian/glow-advisor/internal/infra/jobqueue"
)

func TestAppRunAttachesWorkerAndShutsDown(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}
	queue := &recordingQueue{}
	model := &stubWarmer{}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Server{Addr: cfg.HTTP.Address}, model, queue, stubJobs{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))

	require.NotNil(t, queue.handler.Load())
	require.True(t, queue.closed.Load())
}

type stubWarmer struct{}

func (stubWarmer) Warmup(ctx context.Context) error { return ctx.Err() }

type recordingQueue struct {
	handler atomic.Pointer[jobqueue.Handler]
	closed  atomic.Bool
}

func (q *recordingQueue) Enqueue(ctx context.Context, name string, payload any) error { return nil }

func (q *recordingQueue) SetHandler(handler jobqueue.Handler) { q.handler.Store(&handler) }

func (q *recordingQueue) Close() { q.closed.Store(true) }

type stubJobs struct{}

func (stubJobs) Submit(ctx context.Context, req analysisjob.SubmitRequest) (analysisjob.Job, error) {
	return analysisjob.Job{}, nil
}

func (stubJobs) Get(ctx context.Context, id string) (analysisjob.Job, error) {
	return analysisjob.Job{}, nil
}

func (stubJobs) Handle(ctx context.Context, name string, payload map[string]any) {}
