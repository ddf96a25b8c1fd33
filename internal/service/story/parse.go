package story

import (
	"encoding/json"
	"fmt"
	"strings"

	model "picbook/internal/model/story"
)

type chapterPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type storyPayload struct {
	Title      string            `json:"title"`
	Chapters   []chapterPayload  `json:"chapters"`
	Characters []model.Character `json:"characters"`
}

type imagePromptPayload struct {
	ImagePrompt []string `json:"image_prompt"`
}

// stripCodeFence 去掉模型输出外层的 ```json ... ``` 包裹
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseStory 解析故事 JSON 并校验章节数
func parseStory(raw string, pages int) (*storyPayload, error) {
	var p storyPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &p); err != nil {
		return nil, &StoryGenerationError{Reason: "invalid story json", Raw: raw, Err: err}
	}
	if len(p.Chapters) != pages {
		return nil, &StoryGenerationError{
			Reason: fmt.Sprintf("expected %d chapters, got %d", pages, len(p.Chapters)),
			Raw:    raw,
		}
	}
	for i, ch := range p.Chapters {
		if strings.TrimSpace(ch.Content) == "" {
			return nil, &StoryGenerationError{Reason: fmt.Sprintf("chapter %d is empty", i+1), Raw: raw}
		}
	}
	if p.Characters == nil {
		p.Characters = []model.Character{}
	}
	return &p, nil
}

// parseImagePrompts 解析图片描述并校验数量
func parseImagePrompts(raw string, want int) ([]string, error) {
	var p imagePromptPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &p); err != nil {
		return nil, &StoryGenerationError{Reason: "invalid image prompt json", Raw: raw, Err: err}
	}
	if len(p.ImagePrompt) != want {
		return nil, &StoryGenerationError{
			Reason: fmt.Sprintf("expected %d image prompts, got %d", want, len(p.ImagePrompt)),
			Raw:    raw,
		}
	}
	return p.ImagePrompt, nil
}
