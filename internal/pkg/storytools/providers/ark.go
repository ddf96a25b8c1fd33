package providers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/ark"
	"picbook/internal/pkg/storytools"
)

// ArkProvider 直接使用 volcengine-go-sdk 的 LLM 提供者
// 实现了 storytools.LLMProvider 接口
type ArkProvider struct {
	client *ark.Client
}

// NewArkProvider 创建 Ark LLM 提供者
func NewArkProvider(client *ark.Client) *ArkProvider {
	return &ArkProvider{client: client}
}

// Generate 根据提示词生成文本
func (p *ArkProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("ark client is required")
	}
	return p.client.Chat(ctx, []ark.Message{{Role: "user", Content: prompt}})
}

// ArkImageProvider Ark 图片生成提供者
// Ark 接口不支持固定 seed，请求中的 seed 仅记录日志
type ArkImageProvider struct {
	client *ark.ImageClient
}

// NewArkImageProvider 创建 Ark 图片生成提供者
func NewArkImageProvider(client *ark.ImageClient) *ArkImageProvider {
	return &ArkImageProvider{client: client}
}

// GenerateImage 生成图片
func (p *ArkImageProvider) GenerateImage(ctx context.Context, req storytools.ImageRequest) ([]byte, error) {
	size := fmt.Sprintf("%dx%d", req.Width, req.Height)
	data, err := p.client.GenerateImage(ctx, req.Prompt, size, req.Model)
	if err != nil {
		return nil, fmt.Errorf("Ark generate image: %w", err)
	}

	log.Info().
		Str("size", size).
		Int64("seed", req.Seed).
		Int("bytes", len(data)).
		Msg("Ark 图片生成成功")
	return data, nil
}
