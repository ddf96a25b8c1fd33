package chain

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

// storySystemPrompt 绘本创作助手的系统提示
const storySystemPrompt = "You are a children's picture-book author and illustrator assistant. " +
	"Always answer with a single valid JSON object and nothing else."

// StoryChain 绘本生成链
// 工作流: 系统提示 + 用户提示 -> ChatModel -> JSON 文本
type StoryChain struct {
	chatModel model.BaseChatModel
}

// NewStoryChain 创建绘本生成链
func NewStoryChain(chatModel model.BaseChatModel) *StoryChain {
	return &StoryChain{chatModel: chatModel}
}

// Run 执行生成，返回模型输出的原始文本
func (c *StoryChain) Run(ctx context.Context, prompt string) (string, error) {
	if c.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	messages := []*schema.Message{
		schema.SystemMessage(storySystemPrompt),
		schema.UserMessage(prompt),
	}

	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp.Content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}

	if resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		log.Debug().
			Int("prompt_tokens", resp.ResponseMeta.Usage.PromptTokens).
			Int("completion_tokens", resp.ResponseMeta.Usage.CompletionTokens).
			Msg("story chain completed")
	}

	return resp.Content, nil
}
