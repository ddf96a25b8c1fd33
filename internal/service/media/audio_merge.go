package media

import (
	"context"
	"path/filepath"
	"strings"

	"picbook/internal/pkg/ffmpeg"
)

// 音频合并策略名
const (
	StrategyConcatDemuxer = "concat_demuxer"
	StrategyConcatFilter  = "concat_filter"
	StrategyCopyFirst     = "copy_first"
)

// AudioMerger 句子音频合并
type AudioMerger struct {
	tool MediaTool
}

// NewAudioMerger 创建音频合并器
func NewAudioMerger(tool MediaTool) *AudioMerger {
	return &AudioMerger{tool: tool}
}

// MergeResult 合并结果
type MergeResult struct {
	OutputPath string    `json:"output_path"`
	Strategy   string    `json:"strategy"`
	Attempts   []Attempt `json:"attempts"`
}

// Merge 按顺序把句子音频合并为一个文件
//
// 依次尝试：concat demuxer 复制码流 -> concat 滤镜重新编码 -> 只保留第一个片段。
// 无论成功与否，句子片段和清单文件都会被删除。
func (m *AudioMerger) Merge(ctx context.Context, clips []string, outputPath string) (*MergeResult, error) {
	if len(clips) == 0 {
		return nil, ErrNoAudioClips
	}

	manifest := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_list.txt"
	defer func() {
		removeFiles(clips...)
		removeFiles(manifest)
	}()

	strategies := []Strategy{
		{
			Name: StrategyConcatDemuxer,
			Run: func(ctx context.Context) error {
				if err := ffmpeg.WriteConcatManifest(manifest, clips); err != nil {
					return err
				}
				return m.tool.ConcatDemuxer(ctx, manifest, outputPath, nil)
			},
		},
		{
			Name: StrategyConcatFilter,
			Run: func(ctx context.Context) error {
				return m.tool.ConcatAudioFilter(ctx, clips, outputPath)
			},
		},
		{
			// 最后的兜底：段落只剩第一句的音频，但流水线不中断
			Name: StrategyCopyFirst,
			Run: func(ctx context.Context) error {
				return copyFile(clips[0], outputPath)
			},
		},
	}

	attempts, err := RunStrategies(ctx, "audio_merge:"+filepath.Base(outputPath), strategies)
	if err != nil {
		return nil, err
	}
	return &MergeResult{
		OutputPath: outputPath,
		Strategy:   attempts[len(attempts)-1].Strategy,
		Attempts:   attempts,
	}, nil
}
