package analysisjob

import (
	"context"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

// JobName identifies analysis work on the queue.
const JobName = "analyze_skin"

// Status tracks a job through the worker.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Done reports whether the job reached a final state.
func (s Status) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one asynchronous analysis request.
type Job struct {
	ID        string                       `json:"id"`
	Status    Status                       `json:"status"`
	ProfileID string                       `json:"profileId,omitempty"`
	ImageRef  string                       `json:"imageRef"`
	Result    *skincare.SkinAnalysisResult `json:"result,omitempty"`
	ErrorCode string                       `json:"errorCode,omitempty"`
	Error     string                       `json:"error,omitempty"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
}

// SubmitRequest carries the inputs of a new job.
type SubmitRequest struct {
	ImageRef  string `json:"imageRef"`
	ProfileID string `json:"profileId"`
}

// Store persists job state between submission and polling.
type Store interface {
	Save(ctx context.Context, job Job) error
	Get(ctx context.Context, id string) (Job, bool, error)
}

// JobQueue delivers work to the background worker.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// Profiles is the subset of the profile service used by the worker.
type Profiles interface {
	Get(ctx context.Context, id string) (skincare.UserProfile, error)
	RecordAnalysis(ctx context.Context, profileID string, result skincare.SkinAnalysisResult) error
}
