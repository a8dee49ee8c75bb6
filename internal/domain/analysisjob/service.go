package analysisjob

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/glow-advisor/internal/domain/analysis"
	"github.com/yanqian/glow-advisor/internal/domain/skincare"
	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
	"github.com/yanqian/glow-advisor/pkg/metrics"
	"github.com/yanqian/glow-advisor/pkg/util"
)

// Config controls worker execution.
type Config struct {
	Timeout time.Duration
}

// Service submits analysis jobs and reports their progress.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Job, error)
	Get(ctx context.Context, id string) (Job, error)
	Handle(ctx context.Context, name string, payload map[string]any)
}

type service struct {
	cfg      Config
	analyzer analysis.Service
	profiles Profiles
	store    Store
	queue    JobQueue
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService constructs the job service.
func NewService(cfg Config, analyzer analysis.Service, profiles Profiles, store Store, queue JobQueue, logger *slog.Logger) Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &service{
		cfg:      cfg,
		analyzer: analyzer,
		profiles: profiles,
		store:    store,
		queue:    queue,
		logger:   logger.With("component", "analysisjob.service"),
		now:      util.NowUTC,
		newID:    uuid.NewString,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (Job, error) {
	imageRef := strings.TrimSpace(req.ImageRef)
	if imageRef == "" {
		return Job{}, apperrors.Wrap("invalid_input", "image reference cannot be empty", nil)
	}
	profileID := strings.TrimSpace(req.ProfileID)
	if profileID != "" {
		if _, err := s.profiles.Get(ctx, profileID); err != nil {
			return Job{}, err
		}
	}

	if s.queue == nil {
		return Job{}, apperrors.Wrap("queue_error", "analysis worker is not configured", nil)
	}

	now := s.now()
	job := Job{
		ID:        s.newID(),
		Status:    StatusPending,
		ProfileID: profileID,
		ImageRef:  imageRef,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, job); err != nil {
		return Job{}, apperrors.Wrap("storage_error", "failed to store analysis job", err)
	}
	if err := s.queue.Enqueue(ctx, JobName, map[string]any{"job_id": job.ID}); err != nil {
		s.logger.Warn("enqueue analysis job failed", "job_id", job.ID, "error", err)
		queueErr := apperrors.Wrap("queue_error", "failed to enqueue analysis job", err)
		s.finish(ctx, job, StatusFailed, nil, queueErr)
		return Job{}, queueErr
	}
	s.logger.Info("analysis job submitted", "job_id", job.ID, "profile_id", profileID)
	return job, nil
}

func (s *service) Get(ctx context.Context, id string) (Job, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Job{}, apperrors.Wrap("invalid_input", "job id cannot be empty", nil)
	}
	job, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Job{}, apperrors.Wrap("storage_error", "failed to load analysis job", err)
	}
	if !ok {
		return Job{}, apperrors.Wrap("not_found", "analysis job not found", nil)
	}
	return job, nil
}

// Handle runs one delivered job. Redelivered jobs that already finished are
// skipped.
func (s *service) Handle(ctx context.Context, name string, payload map[string]any) {
	if name != JobName {
		s.logger.Warn("unknown job delivered", "name", name)
		return
	}
	jobID, _ := payload["job_id"].(string)
	job, ok, err := s.store.Get(ctx, jobID)
	if err != nil || !ok {
		s.logger.Warn("analysis job missing", "job_id", jobID, "error", err)
		return
	}
	if job.Status.Done() {
		return
	}

	job.Status = StatusRunning
	job.UpdatedAt = s.now()
	if err := s.store.Save(ctx, job); err != nil {
		s.logger.Warn("mark job running failed", "job_id", job.ID, "error", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var profile *skincare.UserProfile
	if job.ProfileID != "" {
		p, err := s.profiles.Get(runCtx, job.ProfileID)
		if err != nil {
			s.finish(ctx, job, StatusFailed, nil, err)
			return
		}
		profile = &p
	}

	result, err := s.analyzer.AnalyzeSkin(runCtx, job.ImageRef, profile)
	if err != nil {
		s.finish(ctx, job, StatusFailed, nil, err)
		return
	}
	if profile != nil {
		if err := s.profiles.RecordAnalysis(runCtx, profile.ID, result); err != nil {
			s.logger.Warn("record analysis history failed", "job_id", job.ID, "profile_id", profile.ID, "error", err)
		}
	}
	s.finish(ctx, job, StatusCompleted, &result, nil)
}

func (s *service) finish(ctx context.Context, job Job, status Status, result *skincare.SkinAnalysisResult, cause error) {
	job.Status = status
	job.Result = result
	job.UpdatedAt = s.now()
	if cause != nil {
		job.ErrorCode = apperrors.Code(cause)
		if job.ErrorCode == "" {
			job.ErrorCode = "analysis_unavailable"
		}
		job.Error = cause.Error()
	}
	if err := s.store.Save(ctx, job); err != nil {
		s.logger.Error("persist job outcome failed", "job_id", job.ID, "status", status, "error", err)
	}
	metrics.JobsProcessed.WithLabelValues(string(status)).Inc()
	s.logger.Info("analysis job finished", "job_id", job.ID, "status", status, "error_code", job.ErrorCode)
}
