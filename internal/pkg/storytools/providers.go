package storytools

import (
	"context"
)

// LLMProvider 定义了调用大模型的接口
// 具体的「如何调用大模型」由调用方通过实现此接口注入，方便单测和替换实现
type LLMProvider interface {
	// Generate 根据提示词生成文本
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer 语音合成接口
// 一次调用生成一个音频文件，不重试；返回本地音频文件路径
type SpeechSynthesizer interface {
	// Synthesize 按情感合成语音
	//
	// Args:
	//   - ctx: 上下文
	//   - text: 要朗读的文本
	//   - emotion: happy, sad, excited, calm, curious（未知值按 happy 处理）
	//
	// Returns:
	//   - path: 生成的音频文件路径
	//   - err: 错误信息
	Synthesize(ctx context.Context, text, emotion string) (string, error)
}

// ImageRequest 图片生成参数
type ImageRequest struct {
	Prompt string
	Width  int
	Height int
	Model  string
	Seed   int64
}

// ImageProvider 图片生成提供者接口
type ImageProvider interface {
	// GenerateImage 生成一张图片，返回图片二进制数据
	GenerateImage(ctx context.Context, req ImageRequest) ([]byte, error)
}
