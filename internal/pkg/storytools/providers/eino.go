package providers

import (
	"context"

	"github.com/cloudwego/eino/components/model"

	"picbook/internal/ai/chain"
)

// EinoProvider Eino 封装的 LLM 提供者（默认使用）
// 实现了 storytools.LLMProvider 接口
type EinoProvider struct {
	chain *chain.StoryChain
}

// NewEinoProvider 创建基于 Eino 的 LLM 提供者
//
// Args:
//   - chatModel: 通过 ai/component.NewChatModel 创建的 ChatModel 实例
func NewEinoProvider(chatModel model.BaseChatModel) *EinoProvider {
	return &EinoProvider{
		chain: chain.NewStoryChain(chatModel),
	}
}

// Generate 根据提示词生成文本
func (p *EinoProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.chain.Run(ctx, prompt)
}
