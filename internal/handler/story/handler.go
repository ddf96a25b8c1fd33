package story

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	httputil "picbook/internal/pkg/http"
	storyrepo "picbook/internal/repository/story"
	"picbook/internal/service/story"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// Handler 故事处理器
// 故事文本、图片描述、图片生成和故事查询接口都通过这个结构体访问 Service
type Handler struct {
	storyService story.Service
}

// NewHandler 创建故事处理器
func NewHandler(storyService story.Service) *Handler {
	return &Handler{storyService: storyService}
}

// writeServiceError 按错误类型映射 HTTP 状态码和错误码
func writeServiceError(c *gin.Context, err error) {
	var genErr *story.StoryGenerationError
	switch {
	case errors.Is(err, story.ErrInvalidRequest):
		httputil.BadRequest(c, err)
	case errors.Is(err, storyrepo.ErrStoryNotFound):
		httputil.Error(c, http.StatusNotFound, 40401, "故事不存在", err)
	case errors.Is(err, story.ErrPersistenceUnavailable):
		httputil.Error(c, http.StatusServiceUnavailable, 50301, "故事存储不可用", err)
	case errors.As(err, &genErr):
		log.Debug().Str("raw", genErr.Raw).Msg("模型原始输出")
		httputil.Error(c, http.StatusBadGateway, 50201, "故事生成失败", err)
	default:
		httputil.Error(c, http.StatusInternalServerError, 50001, "服务器内部错误", err)
	}
}
