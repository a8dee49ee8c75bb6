package jobstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
)

// ValkeyStore persists jobs as JSON strings with an expiry.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a Valkey-backed job store.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "glow:job"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Save(ctx context.Context, job analysisjob.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(job.ID)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl >= time.Second {
		cmd = builder.Ex(s.ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (analysisjob.Job, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return analysisjob.Job{}, false, nil
		}
		return analysisjob.Job{}, false, err
	}
	var job analysisjob.Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return analysisjob.Job{}, false, err
	}
	return job, true, nil
}

func (s *ValkeyStore) key(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

var _ analysisjob.Store = (*ValkeyStore)(nil)
