package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/glow-advisor/internal/infra/config"
)

// Recommendation requests are small JSON documents; anything larger is not
// worth buffering for a replay.
const retryBodyLimit = 1 << 20

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// withRetry replays idempotent POSTs (recommendation ranking) when the
// handler answers with a transient upstream status. Paths that create state
// are listed in cfg.Exclude and pass straight through.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || excludedFromRetry(r.URL.Path, cfg.Exclude) {
			handler.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		var rec *replayRecorder
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 && !sleepCtx(r, retryDelay(cfg.BaseBackoff, attempt)) {
				break
			}
			rec = newReplayRecorder()
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))

			handler.ServeHTTP(rec, replay)
			if !transientStatus(rec.status) {
				break
			}
			if attempt < cfg.MaxAttempts {
				logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", rec.status, "attempt", attempt)
			}
		}
		rec.flushTo(w)
	})
}

// retryDelay doubles the base backoff for each attempt after the second.
func retryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 2 {
		return 0
	}
	return base << (attempt - 2)
}

// sleepCtx waits for d and reports false if the client went away first.
func sleepCtx(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return r.Context().Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-r.Context().Done():
		return false
	case <-t.C:
		return true
	}
}

// transientStatus reports statuses that a replay can plausibly fix: an
// inference outage or a busy queue. A 500 means a bug and is not repeated.
func transientStatus(status int) bool {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// excludedFromRetry matches an excluded path and everything below it.
func excludedFromRetry(path string, exclude []string) bool {
	for _, prefix := range exclude {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// replayRecorder holds one attempt's response until the retry loop decides
// to keep it.
type replayRecorder struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newReplayRecorder() *replayRecorder {
	return &replayRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *replayRecorder) Header() http.Header { return r.header }

func (r *replayRecorder) WriteHeader(status int) {
	if r.wrote {
		return
	}
	r.status = status
	r.wrote = true
}

func (r *replayRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.body.Write(b)
}

func (r *replayRecorder) Flush() {}

func (r *replayRecorder) flushTo(w http.ResponseWriter) {
	if r == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	dst := w.Header()
	for k, values := range r.header {
		dst[k] = append([]string(nil), values...)
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
