package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"picbook/internal/service/media"
)

func TestHandler_WatchJob(t *testing.T) {
	Convey("GET /speech/jobs/:job_id/watch", t, func() {
		gin.SetMode(gin.TestMode)

		var polls atomic.Int32
		svc := &mockMediaService{}
		svc.getJobFunc = func(ctx context.Context, id string) (*media.Job, error) {
			if id == "missing" {
				return nil, media.ErrJobNotFound
			}
			n := polls.Add(1)
			job := &media.Job{ID: id, Status: media.JobStatusProcessing, UpdatedAt: time.Unix(1700000000, 0)}
			if n >= 3 {
				job.Status = media.JobStatusCompleted
				job.UpdatedAt = time.Unix(1700000010, 0)
			}
			return job, nil
		}

		h := NewHandler(svc, nil, nil)
		h.watchInterval = 10 * time.Millisecond
		r := gin.New()
		r.GET("/speech/jobs/:job_id/watch", h.WatchJob)
		ts := httptest.NewServer(r)
		defer ts.Close()
		wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

		Convey("状态变化时推送，结束后正常关闭", func() {
			conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/speech/jobs/job-1/watch", nil)
			So(err, ShouldBeNil)
			defer conn.Close()

			var first, second media.Job
			So(conn.ReadJSON(&first), ShouldBeNil)
			So(first.Status, ShouldEqual, media.JobStatusProcessing)

			// 第二次轮询状态未变，不会重复推送
			So(conn.ReadJSON(&second), ShouldBeNil)
			So(second.Status, ShouldEqual, media.JobStatusCompleted)

			_, _, err = conn.ReadMessage()
			So(websocket.IsCloseError(err, websocket.CloseNormalClosure), ShouldBeTrue)
		})

		Convey("任务不存在时不升级，返回 404", func() {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/speech/jobs/missing/watch", nil)
			So(err, ShouldNotBeNil)
			So(resp, ShouldNotBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}
