package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"picbook/internal/pkg/ffmpeg"
)

// 视频拼接策略名
const (
	StrategyStreamCopy = "stream_copy"
	StrategyReencode   = "reencode"
)

// VideoConcatenator 视频片段拼接
type VideoConcatenator struct {
	tool MediaTool
}

// NewVideoConcatenator 创建视频拼接器
func NewVideoConcatenator(tool MediaTool) *VideoConcatenator {
	return &VideoConcatenator{tool: tool}
}

// ConcatResult 拼接结果
type ConcatResult struct {
	OutputPath string    `json:"output_path"`
	Strategy   string    `json:"strategy"`
	Attempts   []Attempt `json:"attempts"`
	Size       int64     `json:"size"`
}

// Concat 按顺序拼接视频片段
// 先直接复制码流，失败后以 libx264/aac 统一重新编码；输出文件必须存在且非空
func (v *VideoConcatenator) Concat(ctx context.Context, segments []string, outputPath string) (*ConcatResult, error) {
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}

	manifest := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	if err := ffmpeg.WriteConcatManifest(manifest, segments); err != nil {
		return nil, fmt.Errorf("无法合并视频: %w", err)
	}

	strategies := []Strategy{
		{
			Name: StrategyStreamCopy,
			Run: func(ctx context.Context) error {
				return v.tool.ConcatDemuxer(ctx, manifest, outputPath, nil)
			},
		},
		{
			Name: StrategyReencode,
			Run: func(ctx context.Context) error {
				encode := ffmpeg.DefaultReencode
				return v.tool.ConcatDemuxer(ctx, manifest, outputPath, &encode)
			},
		},
	}

	attempts, err := RunStrategies(ctx, "video_concat:"+filepath.Base(outputPath), strategies)
	if err != nil {
		return nil, fmt.Errorf("无法合并视频: %w", err)
	}

	fi, err := os.Stat(outputPath)
	if err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("无法合并视频: %w", ErrEmptyOutput)
	}

	return &ConcatResult{
		OutputPath: outputPath,
		Strategy:   attempts[len(attempts)-1].Strategy,
		Attempts:   attempts,
		Size:       fi.Size(),
	}, nil
}
