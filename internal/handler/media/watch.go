package media

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"picbook/internal/service/media"
)

const watchWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchJob 通过 WebSocket 推送任务状态
// @Summary      订阅异步任务状态
// @Description  升级为 WebSocket 连接，任务状态变化时推送完整的任务 JSON，任务结束后服务端正常关闭连接
// @Tags         语音生成
// @Param        job_id  path  string  true  "任务ID"
// @Success      101
// @Failure      404  {object}  ErrorResponse  "任务不存在"
// @Router       /api/v1/speech/jobs/{job_id}/watch [get]
func (h *Handler) WatchJob(c *gin.Context) {
	jobID := c.Param("job_id")
	ctx := c.Request.Context()

	// 升级前先确认任务存在，失败时还能返回普通的 JSON 错误
	job, err := h.mediaService.GetJob(ctx, jobID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// 客户端不会发消息，读循环只用来感知断开
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.watchInterval)
	defer ticker.Stop()

	var sent *media.Job
	for {
		if sent == nil || job.Status != sent.Status || !job.UpdatedAt.Equal(sent.UpdatedAt) {
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
			if err := conn.WriteJSON(job); err != nil {
				log.Debug().Err(err).Str("job_id", jobID).Msg("websocket write failed")
				return
			}
			sent = job
		}

		if job.Done() {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(job.Status))
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(watchWriteTimeout))
			return
		}

		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		next, err := h.mediaService.GetJob(ctx, jobID)
		if err != nil {
			log.Warn().Err(err).Str("job_id", jobID).Msg("failed to poll job")
			msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "job unavailable")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(watchWriteTimeout))
			return
		}
		job = next
	}
}
