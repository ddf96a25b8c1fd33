package story

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	httputil "picbook/internal/pkg/http"
	"picbook/internal/pkg/storytools"
)

// SplitTextRequest 文本拆分请求
type SplitTextRequest struct {
	Text           string `json:"text" binding:"required"`
	UseNewline     *bool  `json:"use_newline,omitempty"`     // 默认 true
	UsePunctuation *bool  `json:"use_punctuation,omitempty"` // 默认 true
}

// SplitTextResponseData 文本拆分结果
type SplitTextResponseData struct {
	Sentences []string             `json:"sentences"`
	Captions  []storytools.Caption `json:"captions"` // 按估算时长排出的字幕时间轴
}

// SplitText 拆分文本
// @Summary      拆分文本
// @Description  按换行和句末标点（。！？）拆分文本，并给出按估算朗读时长排列的字幕时间轴
// @Tags         故事生成
// @Accept       json
// @Produce      json
// @Param        request  body      SplitTextRequest  true  "拆分参数"
// @Success      200      {object}  map[string]interface{}  "成功响应"
// @Failure      400      {object}  ErrorResponse  "请求参数错误"
// @Router       /api/v1/story/split-text [post]
func (h *Handler) SplitText(c *gin.Context) {
	var req SplitTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		httputil.BadRequest(c, errors.New("text is required"))
		return
	}

	byNewline := req.UseNewline == nil || *req.UseNewline
	byPunctuation := req.UsePunctuation == nil || *req.UsePunctuation

	sentences := storytools.SplitText(req.Text, byNewline, byPunctuation)
	httputil.Success(c, "ok", SplitTextResponseData{
		Sentences: sentences,
		Captions:  storytools.BuildTimeline(sentences, nil),
	})
}
