package media

import (
	"context"

	"picbook/internal/pkg/ffmpeg"
)

// MediaTool 流水线用到的 ffmpeg 能力（*ffmpeg.Client 实现）
type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (float64, error)
	GetVideoInfo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	ConcatDemuxer(ctx context.Context, manifestPath, outputPath string, encode *ffmpeg.EncodeOptions) error
	ConcatAudioFilter(ctx context.Context, inputs []string, outputPath string) error
	RenderStillSegment(ctx context.Context, seg ffmpeg.StillSegment) error
}

var _ MediaTool = (*ffmpeg.Client)(nil)
