package story

import (
	"github.com/gin-gonic/gin"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/service/story"
)

// GenerateImagesResponseData 图片生成结果
type GenerateImagesResponseData struct {
	ImagePaths []string `json:"image_paths"` // 失败的位置为空字符串
	Failed     int      `json:"failed"`
}

// GenerateImages 根据描述生成图片
// @Summary      根据描述生成图片
// @Description  按图片比例和模型为每个描述生成一张图片，单张失败时对应位置返回空字符串。指定 index 时只重新生成该描述。
// @Tags         图片生成
// @Accept       json
// @Produce      json
// @Param        request  body      story.ImageRequest  true  "图片参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/image/generate-images-from-prompts [post]
func (h *Handler) GenerateImages(c *gin.Context) {
	var req story.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}

	paths, err := h.storyService.GenerateImages(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	failed := 0
	for _, p := range paths {
		if p == "" {
			failed++
		}
	}
	httputil.Success(c, "图片生成完成", GenerateImagesResponseData{ImagePaths: paths, Failed: failed})
}

// ListAspectRatios 图片比例列表
// @Summary      图片比例列表
// @Tags         图片生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/image/aspect-ratios [get]
func (h *Handler) ListAspectRatios(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{"aspect_ratios": h.storyService.AspectRatios()})
}

// ListImageModels 图片模型列表
// @Summary      图片模型列表
// @Tags         图片生成
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Router       /api/v1/image/image-models [get]
func (h *Handler) ListImageModels(c *gin.Context) {
	httputil.Success(c, "ok", gin.H{"models": h.storyService.ImageModels()})
}
