package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storytools"
)

// VideoRequest 段落视频合成请求
// ImagePaths[0] 为封面，之后每张图片对应一个段落；三个列表按下标一一对应
type VideoRequest struct {
	ImagePaths         []string `json:"image_paths"`
	AudioPaths         []string `json:"audio_paths"`
	SubtitlePaths      []string `json:"subtitle_paths"`
	OutputFilename     string   `json:"output_filename,omitempty"`
	TransitionDuration *float64 `json:"transition_duration,omitempty"`
	FadeDuration       *float64 `json:"fade_duration,omitempty"`
}

// VideoResult 合成结果
type VideoResult struct {
	VideoPath string  `json:"video_path"`
	Filename  string  `json:"filename"`
	Duration  float64 `json:"duration"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Size      int64   `json:"size"`
	Strategy  string  `json:"concat_strategy"`
}

// ValidateVideoRequest 校验请求
// 在调用任何外部工具之前执行
func ValidateVideoRequest(req *VideoRequest) error {
	if len(req.ImagePaths) < 2 {
		return ErrNotEnoughImages
	}
	if len(req.AudioPaths) != len(req.ImagePaths) {
		return fmt.Errorf("%w: %d images, %d audios", ErrAudioCountMismatch, len(req.ImagePaths), len(req.AudioPaths))
	}
	if len(req.SubtitlePaths) != len(req.AudioPaths) {
		return fmt.Errorf("%w: %d audios, %d subtitles", ErrSubtitleCountMismatch, len(req.AudioPaths), len(req.SubtitlePaths))
	}
	if (req.FadeDuration != nil && *req.FadeDuration < 0) ||
		(req.TransitionDuration != nil && *req.TransitionDuration < 0) {
		return ErrInvalidDuration
	}
	return nil
}

// Composer 段落视频合成：渲染每个片段后拼接，发布到存储
type Composer struct {
	tool     MediaTool
	renderer *SegmentRenderer
	concat   *VideoConcatenator
	store    storage.Storage
	scratch  *Scratch
	now      func() time.Time

	// 本地路径输入默认关闭，只接受已发布的产物 URL
	localInputs bool
	localRoots  []string
}

// NewComposer 创建视频合成器
func NewComposer(tool MediaTool, store storage.Storage, scratch *Scratch) *Composer {
	return &Composer{
		tool:     tool,
		renderer: NewSegmentRenderer(tool),
		concat:   NewVideoConcatenator(tool),
		store:    store,
		scratch:  scratch,
		now:      time.Now,
	}
}

// AllowLocalInputs 允许输入直接引用本机文件
// roots 非空时路径必须位于其中某个目录下；为空时不限制（仅供命令行使用）
func (c *Composer) AllowLocalInputs(roots ...string) {
	c.localInputs = true
	c.localRoots = c.localRoots[:0]
	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil {
			c.localRoots = append(c.localRoots, resolveSymlinks(abs))
		}
	}
}

// CreateParagraphVideo 合成段落视频
// 每个任务使用独立的临时目录，结束后清理（调试模式下保留）
func (c *Composer) CreateParagraphVideo(ctx context.Context, req *VideoRequest) (*VideoResult, error) {
	if err := ValidateVideoRequest(req); err != nil {
		return nil, err
	}

	fade := DefaultFadeSeconds
	if req.FadeDuration != nil {
		fade = *req.FadeDuration
	}
	transition := DefaultTransitionSeconds
	if req.TransitionDuration != nil {
		transition = *req.TransitionDuration
	}

	now := c.now().Unix()
	filename := storytools.VideoFilename(req.OutputFilename, now)

	area, err := c.scratch.Acquire(fmt.Sprintf("video_%d", now))
	if err != nil {
		return nil, err
	}
	defer area.Release()

	log.Info().
		Int("segments", len(req.ImagePaths)).
		Str("filename", filename).
		Str("work_dir", area.Dir).
		Msg("开始合成段落视频")

	segments := make([]string, 0, len(req.ImagePaths))
	for i := range req.ImagePaths {
		in, err := c.materializeSegment(ctx, area, req, i)
		if err != nil {
			return nil, err
		}
		in.OutputPath = area.Path(fmt.Sprintf("segment_%d.mp4", i))
		in.IsCover = i == 0
		in.FadeDuration = fade
		in.TransitionDuration = transition

		seg, err := c.renderer.Render(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("render segment %d: %w", i, err)
		}
		segments = append(segments, seg.Path)
	}

	output := area.Path(filename)
	concat, err := c.concat.Concat(ctx, segments, output)
	if err != nil {
		return nil, err
	}

	result := &VideoResult{
		Filename: filename,
		Size:     concat.Size,
		Strategy: concat.Strategy,
	}
	if info, err := c.tool.GetVideoInfo(ctx, output); err != nil {
		log.Warn().Err(err).Str("output", output).Msg("读取视频信息失败")
	} else {
		result.Duration = info.Duration
		result.Width = info.Width
		result.Height = info.Height
	}

	url, err := storage.UploadFile(ctx, c.store, storage.ObjectKey(storage.CategoryVideos, filename), output)
	if err != nil {
		return nil, fmt.Errorf("save video: %w", err)
	}
	result.VideoPath = url

	log.Info().
		Str("video", url).
		Float64("size_mb", float64(concat.Size)/1024/1024).
		Float64("duration", result.Duration).
		Str("strategy", concat.Strategy).
		Msg("段落视频合成完成")

	return result, nil
}

func (c *Composer) materializeSegment(ctx context.Context, area *Area, req *VideoRequest, i int) (SegmentInput, error) {
	var (
		in  SegmentInput
		err error
	)
	if in.ImagePath, err = c.materialize(ctx, area, req.ImagePaths[i], fmt.Sprintf("image_%d", i)); err != nil {
		return in, err
	}
	if in.AudioPath, err = c.materialize(ctx, area, req.AudioPaths[i], fmt.Sprintf("audio_%d", i)); err != nil {
		return in, err
	}
	if in.SubtitlePath, err = c.materialize(ctx, area, req.SubtitlePaths[i], fmt.Sprintf("subtitle_%d", i)); err != nil {
		return in, err
	}
	return in, nil
}

// materialize 把输入引用解析成本地文件
// 已发布的产物 URL 从存储下载到任务目录；开启本地输入时，允许范围内的本地路径直接使用
func (c *Composer) materialize(ctx context.Context, area *Area, ref, name string) (string, error) {
	if key, ok := c.store.KeyFromURL(ref); ok {
		dst := area.Path("inputs", name+filepath.Ext(key))
		if err := storage.DownloadToFile(ctx, c.store, key, dst); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInputNotFound, ref, err)
		}
		return dst, nil
	}

	if !c.localInputs {
		return "", fmt.Errorf("%w: %s", ErrLocalInputNotAllowed, ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, ref)
	}
	abs = resolveSymlinks(abs)
	if !c.withinLocalRoots(abs) {
		return "", fmt.Errorf("%w: %s", ErrLocalInputNotAllowed, ref)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, ref)
	}
	return abs, nil
}

func (c *Composer) withinLocalRoots(path string) bool {
	if len(c.localRoots) == 0 {
		return true
	}
	for _, root := range c.localRoots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

// resolveSymlinks 解析符号链接；文件不存在时只解析所在目录
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(path)); err == nil {
		return filepath.Join(dir, filepath.Base(path))
	}
	return path
}
