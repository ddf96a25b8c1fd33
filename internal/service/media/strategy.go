package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/ffmpeg"
)

// Strategy 一个处理策略
type Strategy struct {
	Name string
	Run  func(ctx context.Context) error
}

// Attempt 一次策略尝试的结果
type Attempt struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error,omitempty"`
	err      error
}

// Err 返回尝试的错误，成功时为 nil
func (a Attempt) Err() error {
	return a.err
}

// RunStrategies 按顺序尝试策略，直到某个成功
// 已失败的策略不会重试；全部失败时返回包装了 ErrAllStrategiesFailed 的错误
//
// Returns:
//   - attempts: 每次尝试的结果，最后一项成功时即为生效的策略
//   - err: 全部失败时的错误
func RunStrategies(ctx context.Context, unit string, strategies []Strategy) ([]Attempt, error) {
	attempts := make([]Attempt, 0, len(strategies))

	var lastErr error
	for _, s := range strategies {
		err := s.Run(ctx)
		if err == nil {
			attempts = append(attempts, Attempt{Strategy: s.Name})
			if len(attempts) > 1 {
				log.Info().Str("unit", unit).Str("strategy", s.Name).Int("attempt", len(attempts)).Msg("降级策略成功")
			}
			return attempts, nil
		}

		attempts = append(attempts, Attempt{Strategy: s.Name, Error: err.Error(), err: err})
		lastErr = err

		event := log.Warn().Err(err).Str("unit", unit).Str("strategy", s.Name)
		var cmdErr *ffmpeg.CommandError
		if errors.As(err, &cmdErr) {
			event = event.Str("stderr", cmdErr.Stderr)
		}
		event.Msg("策略执行失败，尝试下一个")
	}

	if lastErr == nil {
		return attempts, fmt.Errorf("%s: %w", unit, ErrAllStrategiesFailed)
	}
	return attempts, fmt.Errorf("%s: %w: %w", unit, ErrAllStrategiesFailed, lastErr)
}
