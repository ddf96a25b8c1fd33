package oss

import (
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOSSStorage_URL(t *testing.T) {
	Convey("OSS URL 与 key 互相转换", t, func() {
		Convey("带前缀", func() {
			s, err := NewOSSStorage(Config{Endpoint: "https://oss-cn-hangzhou.aliyuncs.com", Bucket: "books", Prefix: "/prod/"})
			So(err, ShouldBeNil)

			url := s.URL("videos/v.mp4")
			So(url, ShouldEqual, "https://books.oss-cn-hangzhou.aliyuncs.com/prod/videos/v.mp4")

			key, ok := s.KeyFromURL(url)
			So(ok, ShouldBeTrue)
			So(key, ShouldEqual, "videos/v.mp4")
		})

		Convey("不带前缀", func() {
			s, err := NewOSSStorage(Config{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "books"})
			So(err, ShouldBeNil)
			So(s.URL("/audio/a.mp3"), ShouldEqual, "https://books.oss-cn-hangzhou.aliyuncs.com/audio/a.mp3")
		})

		Convey("其它域名的 URL 不属于本存储", func() {
			s, _ := NewOSSStorage(Config{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Bucket: "books"})
			_, ok := s.KeyFromURL("/static/audio/a.mp3")
			So(ok, ShouldBeFalse)
		})

		Convey("缺少 bucket", func() {
			_, err := NewOSSStorage(Config{Endpoint: "oss-cn-hangzhou.aliyuncs.com"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFileInfoFromHeader(t *testing.T) {
	Convey("解析对象元信息", t, func() {
		h := http.Header{}
		h.Set("Content-Length", "2048")
		h.Set("ETag", `"abc"`)
		h.Set("Last-Modified", "Mon, 02 Jan 2006 15:04:05 GMT")

		info := fileInfoFromHeader("videos/v.mp4", h)
		So(info.Size, ShouldEqual, int64(2048))
		So(info.ETag, ShouldEqual, "abc")
		So(info.ContentType, ShouldEqual, "video/mp4")
		So(info.LastModified.Year(), ShouldEqual, 2006)
	})
}
