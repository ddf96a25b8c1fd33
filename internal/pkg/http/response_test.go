package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	Convey("统一响应格式", t, func() {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Convey("Success", func() {
			Success(c, "ok", gin.H{"n": 1})
			So(w.Code, ShouldEqual, http.StatusOK)
			var resp SuccessResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 0)
			So(resp.Message, ShouldEqual, "ok")
		})

		Convey("BadRequest 带 detail", func() {
			BadRequest(c, errors.New("text is required"))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			var resp ErrorResponse
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp.Code, ShouldEqual, 40001)
			So(resp.Detail, ShouldEqual, "text is required")
		})

		Convey("Error 没有 detail", func() {
			Error(c, http.StatusServiceUnavailable, 50301, "unavailable", nil)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldNotContainSubstring, "detail")
		})
	})
}
