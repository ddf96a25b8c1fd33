package story

import (
	"fmt"
	"strings"

	model "picbook/internal/model/story"
)

const storyPromptTemplate = `用户输入内容：%s
========================================
# 角色
你是一位杰出的儿童绘本故事创作者，专为%s儿童创作充满想象力、寓教于乐的%s故事。

# 技能
## 技能 1: 生成创意故事
- 依据用户输入的内容，创作一个 %d 字左右的儿童故事，使用%s写作。
- 故事分为恰好 %d 个章节，每个章节对应绘本的一页。
- 严格保留经典故事中的人物名称和角色，不得更改。
- 选用简单直接的词汇，避免复杂句子结构，方便小朋友理解。
- 在故事中合理穿插对话，适当增加人物的情感描写和幽默情节。
- 结尾给出温馨的总结，并附上鼓励小朋友的话语。

## 技能 2：人物设定与描述
- 为故事创建2-4个主要人物，包括至少一个主角和适当的配角。
- 每个人物必须具有独特的外观特征，便于在图片中一致地呈现。
- 为每个角色设定明确的性格特点和年龄段。

# 输出格式
只返回一个 JSON 对象，不要包含其它文字：
{
  "title": "故事总标题",
  "chapters": [
    {"title": "第一章标题", "content": "第一章内容"}
  ],
  "characters": [
    {"name": "小明", "role": "主角", "appearance": "黑色短发，圆脸，总是穿红色T恤和蓝色短裤", "traits": ["好奇", "勇敢"], "age": "小学生"}
  ]
}
chapters 数组必须恰好包含 %d 个元素。`

// buildStoryPrompt 故事生成提示词
func buildStoryPrompt(req *StoryRequest) string {
	return fmt.Sprintf(storyPromptTemplate,
		req.Theme,
		req.AgeRange,
		req.StoryType,
		req.WordCount,
		req.Language,
		req.Pages,
		req.Pages,
	)
}

// buildImagePrompt 图片描述提示词：一个封面加每段一个内页
func buildImagePrompt(req *ImageDescriptionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "根据以下绘本故事生成图片描述（必须用英文）。\n主题：%s\n适读年龄：%s\n\n", req.Theme, req.AgeRange)

	if len(req.Characters) > 0 {
		b.WriteString("故事人物设定：\n")
		for _, c := range req.Characters {
			fmt.Fprintf(&b, "- %s：%s，外观：%s，特点：%s，年龄：%s\n",
				c.Name, c.Role, c.Appearance, strings.Join(c.Traits, ", "), c.Age)
		}
		b.WriteString("\n")
	}

	b.WriteString("故事段落：\n")
	for i, p := range req.Paragraphs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}

	fmt.Fprintf(&b, `
要求：
1. 保持%s风格
2. 第一个描述是封面，需突出故事主题；之后每个段落一个描述，连贯展示故事发展
3. 包含场景细节和角色特征，确保角色特征与上述人物设定一致
4. 每个描述必须是一个完整的英文句子
5. 必须恰好生成 %d 个描述

只返回一个 JSON 对象：{"image_prompt": ["cover description", "page 1 description", ...]}`,
		req.Style, len(req.Paragraphs)+1)

	return b.String()
}

// characterSummary 供日志使用
func characterSummary(chars []model.Character) []string {
	names := make([]string, 0, len(chars))
	for _, c := range chars {
		names = append(names, c.Name)
	}
	return names
}
