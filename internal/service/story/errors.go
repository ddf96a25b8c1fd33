package story

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest 请求参数超出允许范围
	ErrInvalidRequest = errors.New("invalid request")
	// ErrPersistenceUnavailable 未配置 MongoDB
	ErrPersistenceUnavailable = errors.New("故事存储不可用（未配置 MongoDB）")
)

// StoryGenerationError 大模型输出无法解析，或章节数与请求不符
type StoryGenerationError struct {
	Reason string
	Raw    string // 模型原始输出，便于排查
	Err    error
}

func (e *StoryGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("story generation failed: %s: %v", e.Reason, e.Err)
	}
	return "story generation failed: " + e.Reason
}

func (e *StoryGenerationError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
