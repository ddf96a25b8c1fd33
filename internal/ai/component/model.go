package component

import (
	"context"
	"fmt"

	arkext "github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"picbook/internal/config"
)

// NewChatModel 创建 ChatModel
// 支持多种 Provider: openai, azure, ark
func NewChatModel(ctx context.Context, cfg *config.AIConfig) (model.ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai.api_key is required")
	}

	switch cfg.Provider {
	case "openai", "":
		return newOpenAIChatModel(ctx, cfg, false)
	case "azure":
		return newOpenAIChatModel(ctx, cfg, true)
	case "ark":
		return newArkChatModel(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// newOpenAIChatModel 创建 OpenAI / Azure OpenAI ChatModel
// BaseURL 可指向任意 OpenAI 兼容服务（例如 Gemini 的 OpenAI 兼容端点）
func newOpenAIChatModel(ctx context.Context, cfg *config.AIConfig, byAzure bool) (model.ChatModel, error) {
	modelCfg := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		ByAzure: byAzure,
	}

	temp, maxTokens, topP := options(cfg.Options)
	modelCfg.Temperature = temp
	modelCfg.MaxTokens = maxTokens
	modelCfg.TopP = topP

	return openai.NewChatModel(ctx, modelCfg)
}

// newArkChatModel 创建 Ark ChatModel（使用 eino-ext 模块）
func newArkChatModel(ctx context.Context, cfg *config.AIConfig) (model.ChatModel, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "doubao-seed-1-6-flash-250615"
	}

	modelCfg := &arkext.ChatModelConfig{
		Model:   modelName,
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	}

	temp, maxTokens, topP := options(cfg.Options)
	modelCfg.Temperature = temp
	modelCfg.MaxTokens = maxTokens
	modelCfg.TopP = topP

	return arkext.NewChatModel(ctx, modelCfg)
}

// options 未设置（<=0）的参数返回 nil，交给服务端默认值
func options(o config.AIOptionsConfig) (temp *float32, maxTokens *int, topP *float32) {
	if o.Temperature > 0 {
		t := float32(o.Temperature)
		temp = &t
	}
	if o.MaxTokens > 0 {
		m := o.MaxTokens
		maxTokens = &m
	}
	if o.TopP > 0 {
		p := float32(o.TopP)
		topP = &p
	}
	return temp, maxTokens, topP
}
