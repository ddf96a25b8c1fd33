package story

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"picbook/internal/config"
	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storytools"
)

// AspectRatio 图片比例及对应尺寸
type AspectRatio struct {
	Ratio  string `json:"ratio"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

var aspectRatios = []AspectRatio{
	{"1:1", 1024, 1024},
	{"4:3", 1024, 768},
	{"3:2", 1024, 683},
	{"16:9", 1024, 576},
	{"9:16", 576, 1024},
	{"5:4", 1024, 819},
	{"2:3", 683, 1024},
	{"21:9", 1024, 439},
	{"3:4", 768, 1024},
}

// LookupAspectRatio 查找图片比例
func LookupAspectRatio(ratio string) (AspectRatio, bool) {
	for _, ar := range aspectRatios {
		if ar.Ratio == ratio {
			return ar, true
		}
	}
	return AspectRatio{}, false
}

// ImageRequest 图片生成请求
type ImageRequest struct {
	Title        string   `json:"title"`
	Descriptions []string `json:"descriptions"`
	AspectRatio  string   `json:"aspect_ratio"`
	ImageModel   string   `json:"image_model,omitempty"`
	Seed         *int64   `json:"seed,omitempty"`
	Index        *int     `json:"index,omitempty"` // 从 1 开始，只重新生成这一张
	StoryID      string   `json:"story_id,omitempty"`
}

func (s *service) AspectRatios() []AspectRatio {
	return append([]AspectRatio(nil), aspectRatios...)
}

func (s *service) ImageModels() []config.ImageModelConfig {
	return append([]config.ImageModelConfig(nil), s.models...)
}

// resolveModel 按名称或模型值匹配，找不到时使用默认模型
func (s *service) resolveModel(name string) config.ImageModelConfig {
	if name != "" {
		for _, m := range s.models {
			if m.Name == name || m.Value == name {
				return m
			}
		}
	}
	cfg := config.ImageConfig{Models: s.models}
	return cfg.DefaultImageModel()
}

func (s *service) GenerateImages(ctx context.Context, req *ImageRequest) ([]string, error) {
	if len(req.Descriptions) == 0 {
		return nil, invalidf("descriptions is required")
	}
	ar, ok := LookupAspectRatio(req.AspectRatio)
	if !ok {
		return nil, invalidf("不支持的图片比例: %s", req.AspectRatio)
	}
	if req.Index != nil && (*req.Index < 1 || *req.Index > len(req.Descriptions)) {
		return nil, invalidf("index must be between 1 and %d", len(req.Descriptions))
	}
	if s.images == nil {
		return nil, fmt.Errorf("image provider is not configured")
	}

	m := s.resolveModel(req.ImageModel)
	modelValue := m.Value
	if modelValue == "" {
		modelValue = m.Name
	}
	seed := s.seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	// 指定 index 时只生成该描述，文件序号与整批生成时一致
	type target struct {
		number      int
		description string
	}
	targets := make([]target, 0, len(req.Descriptions))
	if req.Index != nil {
		targets = append(targets, target{*req.Index - 1, req.Descriptions[*req.Index-1]})
	} else {
		for i, d := range req.Descriptions {
			targets = append(targets, target{i, d})
		}
	}

	log.Info().
		Str("model", modelValue).
		Str("aspect_ratio", ar.Ratio).
		Int64("seed", seed).
		Int("count", len(targets)).
		Msg("开始生成图片")

	paths := make([]string, 0, len(targets))
	for _, t := range targets {
		filename := storytools.ImageFilename(req.Title, s.now().Unix(), t.number)
		url, err := s.generateOne(ctx, storytools.ImageRequest{
			Prompt: t.description,
			Width:  ar.Width,
			Height: ar.Height,
			Model:  modelValue,
			Seed:   seed,
		}, filename)
		if err != nil {
			log.Error().Err(err).Int("index", t.number).Msg("图片生成失败")
			paths = append(paths, "")
			continue
		}
		paths = append(paths, url)
	}

	if s.repo != nil && req.StoryID != "" {
		if err := s.repo.AppendImages(ctx, req.StoryID, paths); err != nil {
			logAttachError(err, req.StoryID, "images")
		}
		s.invalidate(ctx, req.StoryID)
	}

	return paths, nil
}

func (s *service) generateOne(ctx context.Context, req storytools.ImageRequest, filename string) (string, error) {
	data, err := s.images.GenerateImage(ctx, req)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	key := storage.ObjectKey(storage.CategoryImages, filename)
	url, err := s.storage.Upload(ctx, key, bytes.NewReader(data), storage.ContentType(filename))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	log.Info().Str("path", url).Int("bytes", len(data)).Msg("图片已保存")
	return url, nil
}
