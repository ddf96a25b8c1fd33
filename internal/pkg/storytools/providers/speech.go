package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"picbook/internal/pkg/id"
)

// SpeechClient 合成语音的客户端（tts.Client 实现）
type SpeechClient interface {
	Synthesize(ctx context.Context, text, emotion string) ([]byte, error)
	Format() string
}

// SpeechProvider 把 TTS 返回的音频写入本地目录
// 实现了 storytools.SpeechSynthesizer 接口
type SpeechProvider struct {
	client SpeechClient
	dir    string
}

// NewSpeechProvider 创建语音合成提供者
//
// Args:
//   - client: TTS 客户端
//   - dir: 音频输出目录（不存在时自动创建）
func NewSpeechProvider(client SpeechClient, dir string) *SpeechProvider {
	return &SpeechProvider{client: client, dir: dir}
}

// Synthesize 合成语音并保存为 speech-<unix>-<id>.<ext>，返回文件路径
func (p *SpeechProvider) Synthesize(ctx context.Context, text, emotion string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("TTS client is required")
	}

	data, err := p.client.Synthesize(ctx, text, emotion)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create speech dir: %w", err)
	}

	// 同一秒内多次合成需要区分文件名
	name := fmt.Sprintf("speech-%d-%s.%s", time.Now().Unix(), id.Short(), p.client.Format())
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write speech file: %w", err)
	}
	return path, nil
}
