package story

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	model "picbook/internal/model/story"
	"picbook/internal/pkg/cache"
	"picbook/internal/pkg/storytools"
	storyrepo "picbook/internal/repository/story"
)

type mockLLM struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.generateFunc(ctx, prompt)
}

type mockImages struct {
	generateFunc func(ctx context.Context, req storytools.ImageRequest) ([]byte, error)
	requests     []storytools.ImageRequest
}

func (m *mockImages) GenerateImage(ctx context.Context, req storytools.ImageRequest) ([]byte, error) {
	m.requests = append(m.requests, req)
	return m.generateFunc(ctx, req)
}

// memoryRepo 内存故事仓库
type memoryRepo struct {
	mu      sync.Mutex
	stories map[string]*model.Story
	finds   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stories: map[string]*model.Story{}}
}

func (r *memoryRepo) get(id string) (*model.Story, error) {
	s, ok := r.stories[id]
	if !ok || s.DeletedAt != nil {
		return nil, storyrepo.ErrStoryNotFound
	}
	return s, nil
}

func (r *memoryRepo) Create(ctx context.Context, s *model.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories[s.ID] = s
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	return r.get(id)
}

func (r *memoryRepo) List(ctx context.Context, offset, limit int64) ([]*model.Story, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Story
	for _, s := range r.stories {
		if s.DeletedAt == nil {
			out = append(out, s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	now := s.CreatedAt
	s.DeletedAt = &now
	return nil
}

func (r *memoryRepo) SetImageDescriptions(ctx context.Context, id string, style model.ArtStyle, descriptions []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.ArtStyle = style
	s.ImageDescriptions = descriptions
	return nil
}

func (r *memoryRepo) AppendImages(ctx context.Context, id string, images []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.Images = append(s.Images, images...)
	return nil
}

func (r *memoryRepo) AppendSpeeches(ctx context.Context, id string, speeches []model.SpeechRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.Speeches = append(s.Speeches, speeches...)
	return nil
}

func (r *memoryRepo) AppendVideo(ctx context.Context, id string, video model.VideoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.get(id)
	if err != nil {
		return err
	}
	s.Videos = append(s.Videos, video)
	return nil
}

// memoryCache 以 JSON 保存的内存缓存，行为与 RedisCache 一致
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	c.ttls[key] = expiration
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}
