package story

import (
	"github.com/gin-gonic/gin"

	model "picbook/internal/model/story"
	httputil "picbook/internal/pkg/http"
)

// ListArtStyles 插画风格列表
// @Summary      插画风格列表
// @Tags         故事生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/story/art-styles [get]
func (h *Handler) ListArtStyles(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{
		"styles":  model.ArtStyles(),
		"default": model.DefaultArtStyle,
	})
}

// ListStoryTypes 故事类型列表
// @Summary      故事类型列表
// @Tags         故事生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/story/story-types [get]
func (h *Handler) ListStoryTypes(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{"story_types": model.StoryTypes()})
}

// ListAgeRanges 年龄段列表
// @Summary      年龄段列表
// @Tags         故事生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/story/age-ranges [get]
func (h *Handler) ListAgeRanges(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{
		"age_ranges": model.AgeRanges(),
		"languages":  model.Languages(),
	})
}
