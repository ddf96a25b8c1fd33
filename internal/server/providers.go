package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"picbook/internal/ai/component"
	"picbook/internal/config"
	"picbook/internal/pkg/ark"
	"picbook/internal/pkg/ffmpeg"
	"picbook/internal/pkg/imagegen"
	"picbook/internal/pkg/storytools"
	"picbook/internal/pkg/storytools/providers"
	"picbook/internal/pkg/tts"
	"picbook/internal/service/media"
)

// NewLLMProvider 按 ai.client 创建文本生成提供者
//   - eino（默认）: 通过 eino ChatModel（openai / azure / ark）
//   - ark_sdk: 直接使用火山引擎 SDK
func NewLLMProvider(ctx context.Context, cfg *config.AIConfig) (storytools.LLMProvider, error) {
	switch cfg.Client {
	case "", "eino":
		chatModel, err := component.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create chat model: %w", err)
		}
		return providers.NewEinoProvider(chatModel), nil
	case "ark_sdk":
		client, err := ark.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		return providers.NewArkProvider(client), nil
	default:
		return nil, fmt.Errorf("unsupported ai client: %s", cfg.Client)
	}
}

// NewImageProvider 按 image.provider 创建图片生成提供者
func NewImageProvider(cfg *config.ImageConfig) (storytools.ImageProvider, error) {
	switch cfg.Provider {
	case "", "deepinfra":
		client, err := imagegen.NewClient(imagegen.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return providers.NewOpenAIImageProvider(client), nil
	case "ark":
		client, err := ark.NewImageClient(&ark.ImageConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.DefaultImageModel().Value,
		})
		if err != nil {
			return nil, err
		}
		return providers.NewArkImageProvider(client), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}

// NewSpeechSynthesizer 创建语音合成器，音频先落在 speechDir，发布后删除
func NewSpeechSynthesizer(cfg *config.TTSConfig, speechDir string) (storytools.SpeechSynthesizer, error) {
	client, err := tts.NewClient(tts.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Voice:   cfg.Voice,
		Format:  cfg.Format,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return providers.NewSpeechProvider(client, speechDir), nil
}

// NewMediaTool 创建 ffmpeg 客户端
func NewMediaTool(cfg *config.MediaConfig) media.MediaTool {
	return ffmpeg.NewClient(cfg.FFmpegPath, cfg.FFprobePath)
}

// NewScratch 创建任务临时目录管理器
func NewScratch(cfg *config.MediaConfig) *media.Scratch {
	return media.NewScratch(cfg.TempRoot, cfg.KeepTemp)
}

// speechDir TTS 暂存目录，未配置时放在临时目录根下
func speechDir(cfg *config.MediaConfig) string {
	if cfg.SpeechDir != "" {
		return cfg.SpeechDir
	}
	return filepath.Join(cfg.TempRoot, "speech")
}

// ensureDirs 启动时创建媒体相关目录
func ensureDirs(cfg *config.MediaConfig) error {
	for _, dir := range []string{cfg.TempRoot, speechDir(cfg)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	log.Debug().Str("temp_root", cfg.TempRoot).Str("speech_dir", speechDir(cfg)).Msg("media directories ready")
	return nil
}
