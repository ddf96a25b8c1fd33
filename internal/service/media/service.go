package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storytools"
)

// Service 媒体服务接口
type Service interface {
	// GenerateParagraphMedia 为标题和每个段落生成音频和字幕
	GenerateParagraphMedia(ctx context.Context, req *ParagraphAudioRequest) ([]ParagraphMedia, error)

	// CreateParagraphVideo 合成段落视频
	CreateParagraphVideo(ctx context.Context, req *VideoRequest) (*VideoResult, error)

	// GenerateSpeech 合成一段语音并发布，返回访问 URL
	GenerateSpeech(ctx context.Context, text, emotion string) (string, error)

	// SubmitParagraphMedia 异步生成段落音频
	SubmitParagraphMedia(ctx context.Context, req *ParagraphAudioRequest) (*Job, error)

	// SubmitParagraphVideo 异步合成段落视频
	SubmitParagraphVideo(ctx context.Context, req *VideoRequest) (*Job, error)

	// GetJob 查询异步任务
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// ParagraphAudioRequest 段落音频请求
type ParagraphAudioRequest struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
	Emotion    string   `json:"emotion,omitempty"`
}

type service struct {
	speech    storytools.SpeechSynthesizer
	store     storage.Storage
	assembler *Assembler
	composer  *Composer
	jobs      *JobRunner
}

// NewService 创建媒体服务
// jobs 为 nil 时异步接口返回 ErrJobsUnavailable
func NewService(tool MediaTool, speech storytools.SpeechSynthesizer, store storage.Storage, scratch *Scratch, jobs *JobRunner, opts ...ServiceOption) Service {
	s := &service{
		speech:    speech,
		store:     store,
		assembler: NewAssembler(speech, NewAudioMerger(tool), store, scratch),
		composer:  NewComposer(tool, store, scratch),
		jobs:      jobs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServiceOption 媒体服务选项
type ServiceOption func(*service)

// WithLocalInputs 允许视频合成直接读取本机文件，见 Composer.AllowLocalInputs
func WithLocalInputs(roots ...string) ServiceOption {
	return func(s *service) {
		s.composer.AllowLocalInputs(roots...)
	}
}

func (s *service) GenerateParagraphMedia(ctx context.Context, req *ParagraphAudioRequest) ([]ParagraphMedia, error) {
	if len(req.Paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}
	return s.assembler.Assemble(ctx, req.Title, req.Paragraphs, req.Emotion), nil
}

func (s *service) CreateParagraphVideo(ctx context.Context, req *VideoRequest) (*VideoResult, error) {
	return s.composer.CreateParagraphVideo(ctx, req)
}

func (s *service) GenerateSpeech(ctx context.Context, text, emotion string) (string, error) {
	path, err := s.speech.Synthesize(ctx, text, emotion)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	url, err := storage.UploadFile(ctx, s.store, storage.ObjectKey(storage.CategorySpeech, filepath.Base(path)), path)
	if err != nil {
		return "", fmt.Errorf("save speech: %w", err)
	}
	return url, nil
}

func (s *service) SubmitParagraphMedia(ctx context.Context, req *ParagraphAudioRequest) (*Job, error) {
	if s.jobs == nil {
		return nil, ErrJobsUnavailable
	}
	if len(req.Paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}
	payload := *req
	return s.jobs.Submit(ctx, JobKindParagraphAudio, func(ctx context.Context) (any, error) {
		return s.GenerateParagraphMedia(ctx, &payload)
	})
}

func (s *service) SubmitParagraphVideo(ctx context.Context, req *VideoRequest) (*Job, error) {
	if s.jobs == nil {
		return nil, ErrJobsUnavailable
	}
	// 参数错误同步返回，不创建任务
	if err := ValidateVideoRequest(req); err != nil {
		return nil, err
	}
	payload := *req
	return s.jobs.Submit(ctx, JobKindParagraphVideo, func(ctx context.Context) (any, error) {
		return s.composer.CreateParagraphVideo(ctx, &payload)
	})
}

func (s *service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	if s.jobs == nil {
		return nil, ErrJobsUnavailable
	}
	return s.jobs.Get(ctx, jobID)
}
