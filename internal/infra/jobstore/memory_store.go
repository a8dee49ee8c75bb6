package jobstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
)

type jobRecord struct {
	job       analysisjob.Job
	expiresAt time.Time
}

// MemoryStore keeps job state in process memory for a bounded time.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]jobRecord
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore constructs a store; ttl <= 0 keeps jobs forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		jobs: make(map[string]jobRecord),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Save inserts or replaces a job and refreshes its expiry.
func (s *MemoryStore) Save(_ context.Context, job analysisjob.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.jobs[job.ID] = jobRecord{job: job, expiresAt: exp}
	return nil
}

// Get returns a live job.
func (s *MemoryStore) Get(_ context.Context, id string) (analysisjob.Job, bool, error) {
	s.mu.RLock()
	record, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return analysisjob.Job{}, false, nil
	}
	if !record.expiresAt.IsZero() && record.expiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		return analysisjob.Job{}, false, nil
	}
	return record.job, true, nil
}

var _ analysisjob.Store = (*MemoryStore)(nil)
