package media

import (
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/tts"
)

// GenerateSpeechRequest 语音生成请求
type GenerateSpeechRequest struct {
	Text    string `json:"text" binding:"required"`
	Emotion string `json:"emotion,omitempty"` // 默认 happy
}

// GenerateSpeech 生成语音
// @Summary      生成语音
// @Description  按情感合成一段语音，返回 /static/speech/ 下的访问路径
// @Tags         语音生成
// @Accept       json
// @Produce      json
// @Param        request  body      GenerateSpeechRequest  true  "语音参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"语音生成成功\", \"data\": {\"speech_path\": \"/static/speech/...\"}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      500      {object}  ErrorResponse  "服务器内部错误"
// @Router       /api/v1/speech/generate [post]
func (h *Handler) GenerateSpeech(c *gin.Context) {
	var req GenerateSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	url, err := h.mediaService.GenerateSpeech(c.Request.Context(), req.Text, req.Emotion)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	httputil.Success(c, "语音生成成功", gin.H{"speech_path": url})
}

// DownloadSpeech 下载语音文件
// @Summary      下载语音文件
// @Tags         语音生成
// @Produce      audio/mpeg
// @Param        filename  path  string  true  "文件名"
// @Success      200
// @Failure      404  {object}  ErrorResponse  "文件不存在"
// @Router       /api/v1/speech/download/{filename} [get]
func (h *Handler) DownloadSpeech(c *gin.Context) {
	filename := path.Base(c.Param("filename"))
	if filename == "." || filename == "/" {
		httputil.BadRequest(c, errors.New("invalid filename"))
		return
	}

	key := storage.ObjectKey(storage.CategorySpeech, filename)
	ctx := c.Request.Context()

	exists, err := h.storage.Exists(ctx, key)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !exists {
		httputil.Error(c, http.StatusNotFound, 40402, "文件不存在", nil)
		return
	}

	rc, err := h.storage.Download(ctx, key)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", storage.ContentType(filename))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// ListEmotions 情感列表
// @Summary      情感列表
// @Tags         语音生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/speech/emotions [get]
func (h *Handler) ListEmotions(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{"emotions": tts.Emotions()})
}
