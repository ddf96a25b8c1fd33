package media

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/pkg/storage"
	"picbook/internal/service/media"
	"picbook/internal/service/story"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 语音和视频处理器
type Handler struct {
	mediaService media.Service
	storyService story.Service // 用于把产物记录到故事，可为 nil
	storage      storage.Storage

	watchInterval time.Duration // WatchJob 轮询任务状态的间隔
}

// NewHandler 创建语音和视频处理器
func NewHandler(mediaService media.Service, storyService story.Service, store storage.Storage) *Handler {
	return &Handler{
		mediaService: mediaService,
		storyService: storyService,
		storage:      store,

		watchInterval: time.Second,
	}
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case media.IsValidationError(err):
		httputil.BadRequest(c, err)
	case errors.Is(err, media.ErrJobNotFound):
		httputil.Error(c, http.StatusNotFound, 40401, "任务不存在", err)
	case errors.Is(err, media.ErrJobsUnavailable):
		httputil.Error(c, http.StatusServiceUnavailable, 50301, "异步任务不可用", err)
	case errors.Is(err, media.ErrAllStrategiesFailed), errors.Is(err, media.ErrEmptyOutput):
		httputil.Error(c, http.StatusInternalServerError, 50002, "媒体处理失败", err)
	default:
		httputil.Error(c, http.StatusInternalServerError, 50001, "服务器内部错误", err)
	}
}
