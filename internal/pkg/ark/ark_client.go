package ark

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"picbook/internal/config"
)

const (
	defaultBaseURL   = "https://ark.cn-beijing.volces.com/api/v3"
	defaultChatModel = "doubao-seed-1-6-flash-250615"
)

// Client Ark 对话客户端
// 直接调用 volcengine-go-sdk 的 arkruntime，ai.client=ark_sdk 时使用
type Client struct {
	client      *arkruntime.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewClient 创建 Ark 客户端（使用官方 SDK）
func NewClient(cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Ark API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultChatModel
	}

	c := &Client{
		client:      arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL)),
		model:       modelName,
		maxTokens:   cfg.Options.MaxTokens,
		temperature: float32(cfg.Options.Temperature),
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 8 * 1024
	}
	return c, nil
}

// Message 消息结构
type Message struct {
	Role    string `json:"role"`    // user, assistant, system
	Content string `json:"content"` // 消息内容
}

// Chat 发送对话请求，返回第一条回复内容
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	input := &model.ChatCompletionRequest{
		Model:     c.model,
		Messages:  convertMessages(messages),
		MaxTokens: c.maxTokens,
	}
	if c.temperature > 0 {
		input.Temperature = c.temperature
	}

	output, err := c.client.CreateChatCompletion(ctx, input)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("failed to call Ark ChatCompletion API")
		return "", fmt.Errorf("Ark API call failed: %w", err)
	}

	if len(output.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	msg := output.Choices[0].Message
	if msg.Content == nil || msg.Content.StringValue == nil {
		return "", fmt.Errorf("empty content in response")
	}

	log.Debug().
		Str("model", c.model).
		Int("prompt_tokens", output.Usage.PromptTokens).
		Int("completion_tokens", output.Usage.CompletionTokens).
		Msg("Ark 对话完成")

	return *msg.Content.StringValue, nil
}

// convertMessages 转换消息格式
func convertMessages(messages []Message) []*model.ChatCompletionMessage {
	result := make([]*model.ChatCompletionMessage, len(messages))
	for i := range messages {
		content := messages[i].Content
		result[i] = &model.ChatCompletionMessage{
			Role:    messages[i].Role,
			Content: &model.ChatCompletionMessageContent{StringValue: &content},
		}
	}
	return result
}
