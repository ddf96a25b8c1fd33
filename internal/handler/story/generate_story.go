package story

import (
	"github.com/gin-gonic/gin"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/service/story"
)

// GenerateStory 生成故事
// @Summary      生成儿童故事
// @Description  根据主题、类型、年龄段、语言、字数和页数生成故事段落和人物设定。配置了 MongoDB 时故事会被保存并返回 story_id。
// @Tags         故事生成
// @Accept       json
// @Produce      json
// @Param        request  body      story.StoryRequest  true  "故事参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"  "{\"code\": 0, \"message\": \"故事生成成功\", \"data\": {\"title\": \"...\", \"paragraphs\": [\"...\"], \"characters\": []}}"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "模型输出无法解析"
// @Router       /api/v1/story/generate-story [post]
func (h *Handler) GenerateStory(c *gin.Context) {
	var req story.StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	result, err := h.storyService.GenerateStory(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	httputil.Success(c, "故事生成成功", result)
}

// GenerateImageDescriptions 生成图片描述
// @Summary      生成图片描述
// @Description  为封面和每个段落生成英文图片描述，描述中保持人物外观和插画风格一致
// @Tags         故事生成
// @Accept       json
// @Produce      json
// @Param        request  body      story.ImageDescriptionRequest  true  "描述参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Failure      502      {object}  ErrorResponse  "模型输出无法解析"
// @Router       /api/v1/story/generate-image-descriptions [post]
func (h *Handler) GenerateImageDescriptions(c *gin.Context) {
	var req story.ImageDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	result, err := h.storyService.GenerateImageDescriptions(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	httputil.Success(c, "图片描述生成成功", result)
}
