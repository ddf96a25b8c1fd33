package media

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/ffmpeg"
)

const (
	// CoverHoldSeconds 封面片段在音频结束后额外停留的时长
	CoverHoldSeconds = 2.0
	// SafetyMarginSeconds 片段尾部留白，避免最后一句字幕被截断
	SafetyMarginSeconds = 0.5
	// DefaultFadeSeconds 默认淡入淡出时长
	DefaultFadeSeconds = 0.5
	// DefaultTransitionSeconds 默认转场时长
	DefaultTransitionSeconds = 1.0
)

// SegmentInput 渲染一个片段所需的本地文件
type SegmentInput struct {
	ImagePath          string
	AudioPath          string
	SubtitlePath       string
	OutputPath         string
	IsCover            bool
	TransitionDuration float64
	FadeDuration       float64
}

// Segment 渲染完成的片段
type Segment struct {
	Path          string
	AudioDuration float64
	Duration      float64 // 含封面停留和尾部留白
}

// SegmentRenderer 视频片段渲染
type SegmentRenderer struct {
	tool MediaTool
}

// NewSegmentRenderer 创建片段渲染器
func NewSegmentRenderer(tool MediaTool) *SegmentRenderer {
	return &SegmentRenderer{tool: tool}
}

// Render 把一张图片、一段音频和对应字幕渲染为视频片段
// 片段时长 = 音频时长 + 封面停留（仅封面） + 尾部留白
func (r *SegmentRenderer) Render(ctx context.Context, in SegmentInput) (*Segment, error) {
	audioDuration, err := r.tool.ProbeDuration(ctx, in.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("probe audio %s: %w", in.AudioPath, err)
	}

	hold := 0.0
	if in.IsCover {
		hold = CoverHoldSeconds
	}

	seg := ffmpeg.StillSegment{
		ImagePath:    in.ImagePath,
		AudioPath:    in.AudioPath,
		SubtitlePath: in.SubtitlePath,
		OutputPath:   in.OutputPath,
		Duration:     audioDuration + hold,
		FadeDuration: in.FadeDuration,
		Tail:         SafetyMarginSeconds,
	}

	log.Debug().
		Str("image", in.ImagePath).
		Float64("audio_duration", audioDuration).
		Bool("cover", in.IsCover).
		Float64("transition", in.TransitionDuration).
		Msg("渲染视频片段")

	if err := r.tool.RenderStillSegment(ctx, seg); err != nil {
		return nil, err
	}

	return &Segment{
		Path:          in.OutputPath,
		AudioDuration: audioDuration,
		Duration:      seg.Duration + seg.Tail,
	}, nil
}
