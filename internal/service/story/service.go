package story

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"picbook/internal/config"
	model "picbook/internal/model/story"
	"picbook/internal/pkg/cache"
	"picbook/internal/pkg/id"
	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storytools"
	storyrepo "picbook/internal/repository/story"
)

// Service 故事服务接口
type Service interface {
	// GenerateStory 生成故事文本和人物设定
	GenerateStory(ctx context.Context, req *StoryRequest) (*StoryResult, error)

	// GenerateImageDescriptions 生成封面和每一页的英文图片描述
	GenerateImageDescriptions(ctx context.Context, req *ImageDescriptionRequest) (*ImageDescriptionResult, error)

	// GenerateImages 根据描述生成图片，单张失败时对应位置为空字符串
	GenerateImages(ctx context.Context, req *ImageRequest) ([]string, error)

	// AspectRatios 支持的图片比例
	AspectRatios() []AspectRatio

	// ImageModels 可选的图片模型
	ImageModels() []config.ImageModelConfig

	GetStory(ctx context.Context, storyID string) (*model.Story, error)
	ListStories(ctx context.Context, offset, limit int64) ([]*model.Story, int64, error)
	DeleteStory(ctx context.Context, storyID string) error

	// AttachSpeeches 把段落音频记录到故事（storyID 为空或未配置存储时忽略）
	AttachSpeeches(ctx context.Context, storyID string, speeches []model.SpeechRecord)

	// AttachVideo 把视频记录到故事（storyID 为空或未配置存储时忽略）
	AttachVideo(ctx context.Context, storyID string, video model.VideoRecord)
}

// StoryRequest 故事生成请求
type StoryRequest struct {
	Theme     string          `json:"theme"`
	StoryType model.StoryType `json:"story_type"`
	AgeRange  model.AgeRange  `json:"age_range"`
	Language  model.Language  `json:"language"`
	WordCount int             `json:"word_count"`
	Pages     int             `json:"pages"`
}

// StoryResult 故事生成结果
type StoryResult struct {
	StoryID    string            `json:"story_id,omitempty"`
	Title      string            `json:"title"`
	Paragraphs []string          `json:"paragraphs"`
	Characters []model.Character `json:"characters"`
}

// ImageDescriptionRequest 图片描述请求
type ImageDescriptionRequest struct {
	Theme      string            `json:"theme"`
	Paragraphs []string          `json:"paragraphs"`
	Style      model.ArtStyle    `json:"style,omitempty"`
	AgeRange   model.AgeRange    `json:"age_range,omitempty"`
	Characters []model.Character `json:"characters,omitempty"`
	StoryID    string            `json:"story_id,omitempty"`
}

// ImageDescriptionResult 图片描述结果
type ImageDescriptionResult struct {
	CoverDescription string   `json:"cover_description"`
	Descriptions     []string `json:"descriptions"`
}

// Cache 故事读缓存，*cache.RedisCache 满足该接口
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Options 服务选项
type Options struct {
	ImageModels []config.ImageModelConfig
	DefaultSeed int64
	Cache       Cache // 可为 nil，只在配置了 repo 时生效
}

type service struct {
	llm     storytools.LLMProvider
	images  storytools.ImageProvider
	storage storage.Storage
	repo    storyrepo.StoryRepository // 可为 nil
	cache   Cache                     // 可为 nil
	models  []config.ImageModelConfig
	seed    int64
	now     func() time.Time
}

// defaultImageModels 未配置模型列表时使用
var defaultImageModels = []config.ImageModelConfig{
	{Name: "FLUX-1-schnell", Value: "black-forest-labs/FLUX-1-schnell", Description: "FLUX Schnell", Default: true},
	{Name: "FLUX-1-dev", Value: "black-forest-labs/FLUX-1-dev", Description: "FLUX Dev"},
}

// NewService 创建故事服务
// repo 为 nil 时不落库，故事查询接口返回 ErrPersistenceUnavailable
func NewService(
	llm storytools.LLMProvider,
	images storytools.ImageProvider,
	store storage.Storage,
	repo storyrepo.StoryRepository,
	opts Options,
) Service {
	models := opts.ImageModels
	if len(models) == 0 {
		models = defaultImageModels
	}
	seed := opts.DefaultSeed
	if seed == 0 {
		seed = 1
	}
	return &service{
		llm:     llm,
		images:  images,
		storage: store,
		repo:    repo,
		cache:   opts.Cache,
		models:  models,
		seed:    seed,
		now:     time.Now,
	}
}

func (r *StoryRequest) validate() error {
	r.Theme = strings.TrimSpace(r.Theme)
	switch {
	case r.Theme == "":
		return invalidf("theme is required")
	case !r.StoryType.IsValid():
		return invalidf("unsupported story_type %q", r.StoryType)
	case !r.AgeRange.IsValid():
		return invalidf("unsupported age_range %q", r.AgeRange)
	case !r.Language.IsValid():
		return invalidf("unsupported language %q", r.Language)
	case r.WordCount <= 100 || r.WordCount >= 10000:
		return invalidf("word_count must be between 101 and 9999")
	case r.Pages <= 1 || r.Pages >= 30:
		return invalidf("pages must be between 2 and 29")
	}
	return nil
}

func (s *service) GenerateStory(ctx context.Context, req *StoryRequest) (*StoryResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, fmt.Errorf("llm provider is not configured")
	}

	raw, err := s.llm.Generate(ctx, buildStoryPrompt(req))
	if err != nil {
		return nil, &StoryGenerationError{Reason: "llm call failed", Err: err}
	}

	payload, err := parseStory(raw, req.Pages)
	if err != nil {
		log.Error().Err(err).Str("theme", req.Theme).Int("pages", req.Pages).Msg("故事解析失败")
		return nil, err
	}

	result := &StoryResult{
		Title:      payload.Title,
		Paragraphs: make([]string, 0, len(payload.Chapters)),
		Characters: payload.Characters,
	}
	for _, ch := range payload.Chapters {
		result.Paragraphs = append(result.Paragraphs, strings.TrimSpace(ch.Content))
	}

	log.Info().
		Str("title", result.Title).
		Int("pages", len(result.Paragraphs)).
		Strs("characters", characterSummary(result.Characters)).
		Msg("故事生成完成")

	if s.repo != nil {
		doc := &model.Story{
			ID:         id.New(),
			Theme:      req.Theme,
			StoryType:  req.StoryType,
			AgeRange:   req.AgeRange,
			Language:   req.Language,
			WordCount:  req.WordCount,
			Pages:      req.Pages,
			Title:      result.Title,
			Paragraphs: result.Paragraphs,
			Characters: result.Characters,
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			log.Warn().Err(err).Msg("保存故事失败")
		} else {
			result.StoryID = doc.ID
		}
	}

	return result, nil
}

func (s *service) GenerateImageDescriptions(ctx context.Context, req *ImageDescriptionRequest) (*ImageDescriptionResult, error) {
	if len(req.Paragraphs) == 0 {
		return nil, invalidf("paragraphs is required")
	}
	if req.Style == "" {
		req.Style = model.DefaultArtStyle
	}
	if !req.Style.IsValid() {
		return nil, invalidf("unsupported style %q", req.Style)
	}
	if req.AgeRange == "" {
		req.AgeRange = model.DefaultAgeRange
	}
	if !req.AgeRange.IsValid() {
		return nil, invalidf("unsupported age_range %q", req.AgeRange)
	}
	if s.llm == nil {
		return nil, fmt.Errorf("llm provider is not configured")
	}

	raw, err := s.llm.Generate(ctx, buildImagePrompt(req))
	if err != nil {
		return nil, &StoryGenerationError{Reason: "llm call failed", Err: err}
	}

	prompts, err := parseImagePrompts(raw, len(req.Paragraphs)+1)
	if err != nil {
		log.Error().Err(err).Str("theme", req.Theme).Msg("图片描述解析失败")
		return nil, err
	}

	if s.repo != nil && req.StoryID != "" {
		if err := s.repo.SetImageDescriptions(ctx, req.StoryID, req.Style, prompts); err != nil {
			log.Warn().Err(err).Str("story_id", req.StoryID).Msg("保存图片描述失败")
		}
		s.invalidate(ctx, req.StoryID)
	}

	return &ImageDescriptionResult{
		CoverDescription: prompts[0],
		Descriptions:     prompts[1:],
	}, nil
}

func (s *service) GetStory(ctx context.Context, storyID string) (*model.Story, error) {
	if s.repo == nil {
		return nil, ErrPersistenceUnavailable
	}

	if s.cache != nil {
		var cached model.Story
		err := s.cache.Get(ctx, cache.StoryCacheKey(storyID), &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Str("story_id", storyID).Msg("读取故事缓存失败")
		}
	}

	doc, err := s.repo.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.StoryCacheKey(storyID), doc, cache.StoryCacheTTL); err != nil {
			log.Warn().Err(err).Str("story_id", storyID).Msg("写入故事缓存失败")
		}
	}
	return doc, nil
}

func (s *service) ListStories(ctx context.Context, offset, limit int64) ([]*model.Story, int64, error) {
	if s.repo == nil {
		return nil, 0, ErrPersistenceUnavailable
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *service) DeleteStory(ctx context.Context, storyID string) error {
	if s.repo == nil {
		return ErrPersistenceUnavailable
	}
	if err := s.repo.Delete(ctx, storyID); err != nil {
		return err
	}
	s.invalidate(ctx, storyID)
	return nil
}

func (s *service) AttachSpeeches(ctx context.Context, storyID string, speeches []model.SpeechRecord) {
	if s.repo == nil || storyID == "" || len(speeches) == 0 {
		return
	}
	if err := s.repo.AppendSpeeches(ctx, storyID, speeches); err != nil {
		logAttachError(err, storyID, "speeches")
	}
	s.invalidate(ctx, storyID)
}

func (s *service) AttachVideo(ctx context.Context, storyID string, video model.VideoRecord) {
	if s.repo == nil || storyID == "" {
		return
	}
	if err := s.repo.AppendVideo(ctx, storyID, video); err != nil {
		logAttachError(err, storyID, "video")
	}
	s.invalidate(ctx, storyID)
}

func logAttachError(err error, storyID, what string) {
	event := log.Warn()
	if errors.Is(err, storyrepo.ErrStoryNotFound) {
		event = log.Info()
	}
	event.Err(err).Str("story_id", storyID).Str("artifact", what).Msg("记录故事产物失败")
}

// invalidate 故事文档变更后删除缓存
func (s *service) invalidate(ctx context.Context, storyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.StoryCacheKey(storyID)); err != nil {
		log.Warn().Err(err).Str("story_id", storyID).Msg("删除故事缓存失败")
	}
}
