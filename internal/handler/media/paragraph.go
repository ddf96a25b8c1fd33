package media

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	model "picbook/internal/model/story"
	httputil "picbook/internal/pkg/http"
	"picbook/internal/service/media"
)

// ParagraphAudioRequest 段落音频请求
type ParagraphAudioRequest struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs" binding:"required,min=1"`
	Emotion    string   `json:"emotion,omitempty"`
	StoryID    string   `json:"story_id,omitempty"`
	Async      bool     `json:"async,omitempty"`
}

// ParagraphAudioResponseData 段落音频结果，列表按标题、段落顺序排列
type ParagraphAudioResponseData struct {
	AudioPaths    []string               `json:"audio_paths"`
	SubtitlePaths []string               `json:"subtitle_paths"`
	ParagraphIDs  []string               `json:"paragraph_ids"`
	Paragraphs    []media.ParagraphMedia `json:"paragraphs"`
}

// ParagraphVideoRequest 段落视频请求
type ParagraphVideoRequest struct {
	media.VideoRequest
	StoryID string `json:"story_id,omitempty"`
	Async   bool   `json:"async,omitempty"`
}

// GenerateParagraphAudio 生成段落音频
// @Summary      生成段落音频和字幕
// @Description  标题作为第一段，每段逐句合成语音并估算字幕时间轴，合并为一个音频文件。单个段落失败不影响其它段落。async=true 时返回任务ID。
// @Tags         语音生成
// @Accept       json
// @Produce      json
// @Param        request  body      ParagraphAudioRequest  true  "段落参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Success      202      {object}  map[string]interface{}  "任务已提交"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      503      {object}  ErrorResponse  "异步任务不可用"
// @Router       /api/v1/speech/generate_paragraph_audio [post]
func (h *Handler) GenerateParagraphAudio(c *gin.Context) {
	var req ParagraphAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	mreq := &media.ParagraphAudioRequest{Title: req.Title, Paragraphs: req.Paragraphs, Emotion: req.Emotion}
	ctx := c.Request.Context()

	if req.Async {
		job, err := h.mediaService.SubmitParagraphMedia(ctx, mreq)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		httputil.Accepted(c, "段落音频任务已提交", job)
		return
	}

	results, err := h.mediaService.GenerateParagraphMedia(ctx, mreq)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.attachSpeeches(ctx, req.StoryID, results)
	httputil.Success(c, "段落音频生成完成", toParagraphAudioData(results))
}

// GenerateParagraphVideo 合成段落视频
// @Summary      合成段落视频
// @Description  第一张图片为封面，每张图片与对应的音频、字幕渲染为一个片段后拼接。图片少于两张或数量不一致时返回 400。async=true 时返回任务ID。
// @Tags         视频生成
// @Accept       json
// @Produce      json
// @Param        request  body      ParagraphVideoRequest  true  "视频参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"视频合成成功\", \"data\": {\"video_path\": \"/static/videos/...\"}}"
// @Success      202      {object}  map[string]interface{}  "任务已提交"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "视频合成失败"
// @Router       /api/v1/speech/generate_paragraph_video [post]
func (h *Handler) GenerateParagraphVideo(c *gin.Context) {
	var req ParagraphVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	ctx := c.Request.Context()

	if req.Async {
		job, err := h.mediaService.SubmitParagraphVideo(ctx, &req.VideoRequest)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		httputil.Accepted(c, "视频合成任务已提交", job)
		return
	}

	result, err := h.mediaService.CreateParagraphVideo(ctx, &req.VideoRequest)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.storyService != nil {
		h.storyService.AttachVideo(ctx, req.StoryID, model.VideoRecord{
			VideoPath: result.VideoPath,
			Duration:  result.Duration,
			Width:     result.Width,
			Height:    result.Height,
			CreatedAt: time.Now(),
		})
	}

	httputil.Success(c, "视频合成成功", result)
}

// GetJob 查询异步任务
// @Summary      查询异步任务
// @Tags         语音生成
// @Produce      json
// @Param        job_id  path      string  true  "任务ID"
// @Success      200     {object}  map[string]interface{}  "成功响应"
// @Failure      404     {object}  ErrorResponse  "任务不存在"
// @Router       /api/v1/speech/jobs/{job_id} [get]
func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.mediaService.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, "ok", job)
}

func (h *Handler) attachSpeeches(ctx context.Context, storyID string, results []media.ParagraphMedia) {
	if h.storyService == nil || storyID == "" {
		return
	}
	now := time.Now()
	records := make([]model.SpeechRecord, 0, len(results))
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		records = append(records, model.SpeechRecord{
			ParagraphID:  r.ParagraphID,
			AudioPath:    r.AudioPath,
			SubtitlePath: r.SubtitlePath,
			CreatedAt:    now,
		})
	}
	h.storyService.AttachSpeeches(ctx, storyID, records)
}

func toParagraphAudioData(results []media.ParagraphMedia) ParagraphAudioResponseData {
	data := ParagraphAudioResponseData{
		AudioPaths:    make([]string, 0, len(results)),
		SubtitlePaths: make([]string, 0, len(results)),
		ParagraphIDs:  make([]string, 0, len(results)),
		Paragraphs:    results,
	}
	for _, r := range results {
		data.AudioPaths = append(data.AudioPaths, r.AudioPath)
		data.SubtitlePaths = append(data.SubtitlePaths, r.SubtitlePath)
		data.ParagraphIDs = append(data.ParagraphIDs, r.ParagraphID)
	}
	return data
}
