package providers

import (
	"context"
	"fmt"

	"picbook/internal/pkg/imagegen"
	"picbook/internal/pkg/storytools"
)

// OpenAIImageProvider OpenAI 兼容接口的图片生成提供者（DeepInfra FLUX）
type OpenAIImageProvider struct {
	client *imagegen.Client
}

// NewOpenAIImageProvider 创建图片生成提供者
func NewOpenAIImageProvider(client *imagegen.Client) *OpenAIImageProvider {
	return &OpenAIImageProvider{client: client}
}

// GenerateImage 生成图片
func (p *OpenAIImageProvider) GenerateImage(ctx context.Context, req storytools.ImageRequest) ([]byte, error) {
	return p.client.Generate(ctx, imagegen.GenerateRequest{
		Prompt: req.Prompt,
		Size:   fmt.Sprintf("%dx%d", req.Width, req.Height),
		Model:  req.Model,
		N:      1,
		Seed:   req.Seed,
	})
}
