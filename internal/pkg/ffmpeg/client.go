package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client FFmpeg 客户端
// 用于封装 FFmpeg / FFprobe 命令调用
type Client struct {
	ffmpegPath  string // FFmpeg 可执行文件路径（默认: ffmpeg）
	ffprobePath string // FFprobe 可执行文件路径（默认: ffprobe）
	runner      Runner
}

// Option 客户端选项
type Option func(*Client)

// WithRunner 替换命令执行器
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// NewClient 创建 FFmpeg 客户端
// 路径为空时依次读取环境变量 FFMPEG_PATH / FFPROBE_PATH，最后使用 PATH 中的命令
func NewClient(ffmpegPath, ffprobePath string, opts ...Option) *Client {
	if ffmpegPath == "" {
		ffmpegPath = os.Getenv("FFMPEG_PATH")
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	if ffprobePath == "" {
		ffprobePath = os.Getenv("FFPROBE_PATH")
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	c := &Client{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      ExecRunner{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VideoInfo 视频信息
type VideoInfo struct {
	Width    int     // 宽度
	Height   int     // 高度
	FPS      float64 // 帧率
	Duration float64 // 时长（秒）
}

type probeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (c *Client) probe(ctx context.Context, path string, args ...string) (*probeOutput, error) {
	args = append([]string{"-v", "error"}, args...)
	args = append(args, "-of", "json", path)

	out, err := c.runner.Run(ctx, c.ffprobePath, args...)
	if err != nil {
		return nil, err
	}

	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return &po, nil
}

// ProbeDuration 获取媒体文件真实时长（秒）
// ffprobe -v error -show_entries format=duration -of json file
func (c *Client) ProbeDuration(ctx context.Context, path string) (float64, error) {
	po, err := c.probe(ctx, path, "-show_entries", "format=duration")
	if err != nil {
		return 0, err
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(po.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q for %s", po.Format.Duration, path)
	}
	return d, nil
}

// GetVideoInfo 获取视频信息
func (c *Client) GetVideoInfo(ctx context.Context, videoPath string) (*VideoInfo, error) {
	po, err := c.probe(ctx, videoPath,
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
	)
	if err != nil {
		return nil, err
	}

	var info VideoInfo
	if len(po.Streams) > 0 {
		info.Width = po.Streams[0].Width
		info.Height = po.Streams[0].Height

		// r_frame_rate 格式: "30000/1001"
		var num, den int
		if _, err := fmt.Sscanf(po.Streams[0].RFrameRate, "%d/%d", &num, &den); err == nil && den > 0 {
			info.FPS = float64(num) / float64(den)
		}
	}
	if po.Format.Duration != "" {
		info.Duration, _ = strconv.ParseFloat(po.Format.Duration, 64)
	}

	return &info, nil
}

// EncodeOptions 重新编码参数
type EncodeOptions struct {
	VideoCodec string
	AudioCodec string
	Preset     string
	CRF        int
}

// DefaultReencode 拼接失败时使用的统一编码参数
var DefaultReencode = EncodeOptions{
	VideoCodec: "libx264",
	AudioCodec: "aac",
	Preset:     "medium",
	CRF:        23,
}

// ConcatDemuxer 使用 concat demuxer 按清单文件拼接
// encode 为 nil 时直接复制码流（要求各文件编码参数一致）
func (c *Client) ConcatDemuxer(ctx context.Context, manifestPath, outputPath string, encode *EncodeOptions) error {
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", manifestPath}
	if encode == nil {
		args = append(args, "-c", "copy")
	} else {
		args = append(args,
			"-c:v", encode.VideoCodec,
			"-c:a", encode.AudioCodec,
			"-preset", encode.Preset,
			"-crf", strconv.Itoa(encode.CRF),
		)
	}
	args = append(args, outputPath)

	if _, err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return err
	}

	log.Debug().
		Str("manifest", manifestPath).
		Str("output", outputPath).
		Bool("stream_copy", encode == nil).
		Msg("concat demuxer 拼接成功")
	return nil
}

// ConcatAudioFilter 使用 concat 滤镜拼接音频（逐个作为输入，重新编码）
func (c *Client) ConcatAudioFilter(ctx context.Context, inputs []string, outputPath string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no audio inputs")
	}

	args := []string{"-y"}
	var graph strings.Builder
	for i, in := range inputs {
		args = append(args, "-i", in)
		fmt.Fprintf(&graph, "[%d:0]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=0:a=1[out]", len(inputs))

	args = append(args, "-filter_complex", graph.String(), "-map", "[out]", outputPath)

	if _, err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return err
	}

	log.Debug().Int("inputs", len(inputs)).Str("output", outputPath).Msg("concat filter 音频拼接成功")
	return nil
}

// StillSegment 静态图片 + 音频 + 字幕 合成视频片段的参数
type StillSegment struct {
	ImagePath    string
	AudioPath    string
	SubtitlePath string  // 为空时不烧录字幕
	OutputPath   string
	Duration     float64 // 画面有效时长（音频时长 + 额外停留）
	FadeDuration float64 // 淡入淡出时长，<=0 时不加淡入淡出
	Tail         float64 // 尾部留白，字幕收尾用，不参与淡出计算
}

// RenderStillSegment 将静态图片、音频和字幕合成为一个视频片段
// 淡出在 Duration 处结束；音频用静音补齐到 Duration+Tail，保证音画等长
func (c *Client) RenderStillSegment(ctx context.Context, seg StillSegment) error {
	if seg.Duration <= 0 {
		return fmt.Errorf("invalid segment duration: %.3f", seg.Duration)
	}

	total := seg.Duration + seg.Tail

	filters := []string{"scale=trunc(iw/2)*2:trunc(ih/2)*2"}
	if seg.FadeDuration > 0 {
		fadeOutStart := seg.Duration - seg.FadeDuration
		if fadeOutStart < 0 {
			fadeOutStart = 0
		}
		filters = append(filters,
			fmt.Sprintf("fade=t=in:st=0:d=%s", formatSeconds(seg.FadeDuration)),
			fmt.Sprintf("fade=t=out:st=%s:d=%s", formatSeconds(fadeOutStart), formatSeconds(seg.FadeDuration)),
		)
	}
	if seg.SubtitlePath != "" {
		filters = append(filters, fmt.Sprintf("subtitles='%s'", EscapeFilterPath(seg.SubtitlePath)))
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-i", seg.ImagePath,
		"-i", seg.AudioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-pix_fmt", "yuv420p",
		"-vf", strings.Join(filters, ","),
		"-af", fmt.Sprintf("apad=whole_dur=%s", formatSeconds(total)),
		"-t", formatSeconds(total),
		seg.OutputPath,
	}

	if _, err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return err
	}

	log.Info().
		Str("image", seg.ImagePath).
		Str("audio", seg.AudioPath).
		Str("output", seg.OutputPath).
		Float64("duration", total).
		Msg("视频片段渲染成功")
	return nil
}

// EscapeFilterPath 转义滤镜参数中的文件路径
func EscapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	r := strings.NewReplacer(`'`, `\'`, `:`, `\:`)
	return r.Replace(p)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
