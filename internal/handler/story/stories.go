package story

import (
	"time"

	"github.com/gin-gonic/gin"

	model "picbook/internal/model/story"
	httputil "picbook/internal/pkg/http"
)

// ListStoriesRequest 分页参数
type ListStoriesRequest struct {
	Offset int64 `form:"offset" binding:"min=0"`
	Limit  int64 `form:"limit" binding:"min=0,max=100"`
}

// StoryInfo 故事列表项 DTO
type StoryInfo struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Theme     string          `json:"theme"`
	StoryType model.StoryType `json:"story_type"`
	Pages     int             `json:"pages"`
	Images    int             `json:"images"`
	CreatedAt string          `json:"created_at"`
}

func toStoryInfo(s *model.Story) StoryInfo {
	return StoryInfo{
		ID:        s.ID,
		Title:     s.Title,
		Theme:     s.Theme,
		StoryType: s.StoryType,
		Pages:     len(s.Paragraphs),
		Images:    len(s.Images),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// ListStories 故事列表
// @Summary      故事列表
// @Tags         故事管理
// @Produce      json
// @Param        offset  query     int  false  "偏移量"
// @Param        limit   query     int  false  "数量（默认 20，最大 100）"
// @Success      200     {object}  map[string]interface{}  "成功响应"
// @Failure      503     {object}  ErrorResponse  "未配置 MongoDB"
// @Router       /api/v1/stories [get]
func (h *Handler) ListStories(c *gin.Context) {
	var req ListStoriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	stories, total, err := h.storyService.ListStories(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	items := make([]StoryInfo, 0, len(stories))
	for _, s := range stories {
		items = append(items, toStoryInfo(s))
	}
	httputil.Success(c, "ok", gin.H{"stories": items, "total": total})
}

// GetStory 故事详情
// @Summary      故事详情
// @Tags         故事管理
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id} [get]
func (h *Handler) GetStory(c *gin.Context) {
	s, err := h.storyService.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, "ok", s)
}

// DeleteStory 删除故事（软删除）
// @Summary      删除故事
// @Tags         故事管理
// @Produce      json
// @Param        id   path      string  true  "故事ID"
// @Success      200  {object}  map[string]interface{}  "成功响应"
// @Failure      404  {object}  ErrorResponse  "故事不存在"
// @Router       /api/v1/stories/{id} [delete]
func (h *Handler) DeleteStory(c *gin.Context) {
	if err := h.storyService.DeleteStory(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	httputil.Success(c, "故事已删除", nil)
}
