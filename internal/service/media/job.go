package media

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/cache"
	"picbook/internal/pkg/id"
)

// JobStatus 异步任务状态
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobKind 任务类型
type JobKind string

const (
	JobKindParagraphAudio JobKind = "paragraph_audio"
	JobKindParagraphVideo JobKind = "paragraph_video"
)

// Job 异步媒体任务
type Job struct {
	ID        string          `json:"job_id"`
	Kind      JobKind         `json:"kind"`
	Status    JobStatus       `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Done 任务是否已结束（完成或失败）
func (j *Job) Done() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// JobStore 任务状态存储
type JobStore interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, jobID string) (*Job, error)
}

// RedisJobStore 基于 Redis 的任务存储，任务状态 24 小时后过期
type RedisJobStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisJobStore 创建 Redis 任务存储
func NewRedisJobStore(c *cache.RedisCache) *RedisJobStore {
	return &RedisJobStore{cache: c, ttl: cache.MediaJobTTL}
}

// Save 保存任务
func (s *RedisJobStore) Save(ctx context.Context, job *Job) error {
	return s.cache.Set(ctx, cache.MediaJobKey(job.ID), job, s.ttl)
}

// Get 获取任务
func (s *RedisJobStore) Get(ctx context.Context, jobID string) (*Job, error) {
	var job Job
	if err := s.cache.Get(ctx, cache.MediaJobKey(jobID), &job); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// JobRunner 在后台执行媒体任务并记录状态
type JobRunner struct {
	store   JobStore
	timeout time.Duration
	now     func() time.Time
}

// NewJobRunner 创建任务执行器，timeout<=0 表示不限时
func NewJobRunner(store JobStore, timeout time.Duration) *JobRunner {
	return &JobRunner{store: store, timeout: timeout, now: time.Now}
}

// Submit 提交任务，立即返回 pending 状态的任务
// run 在后台 goroutine 中执行，使用独立的 context（不随 HTTP 请求取消）
func (r *JobRunner) Submit(ctx context.Context, kind JobKind, run func(ctx context.Context) (any, error)) (*Job, error) {
	now := r.now()
	job := &Job{
		ID:        id.New(),
		Kind:      kind,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.store.Save(ctx, job); err != nil {
		return nil, err
	}

	snapshot := *job
	go r.execute(&snapshot, run)

	return job, nil
}

func (r *JobRunner) execute(job *Job, run func(ctx context.Context) (any, error)) {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger := log.With().Str("job_id", job.ID).Str("kind", string(job.Kind)).Logger()

	job.Status = JobStatusProcessing
	job.UpdatedAt = r.now()
	if err := r.store.Save(ctx, job); err != nil {
		logger.Warn().Err(err).Msg("更新任务状态失败")
	}

	result, err := run(ctx)
	if err == nil {
		job.Result, err = json.Marshal(result)
	}

	if err != nil {
		job.Status = JobStatusFailed
		job.Error = err.Error()
		logger.Error().Err(err).Msg("媒体任务失败")
	} else {
		job.Status = JobStatusCompleted
		logger.Info().Msg("媒体任务完成")
	}
	job.UpdatedAt = r.now()

	if err := r.store.Save(context.Background(), job); err != nil {
		logger.Error().Err(err).Msg("保存任务结果失败")
	}
}

// Get 查询任务
func (r *JobRunner) Get(ctx context.Context, jobID string) (*Job, error) {
	return r.store.Get(ctx, jobID)
}
