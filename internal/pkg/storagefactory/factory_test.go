package storagefactory

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"picbook/internal/config"
	"picbook/internal/pkg/storage"
)

func TestNewStorage(t *testing.T) {
	Convey("NewStorage 根据配置创建存储", t, func() {
		ctx := context.Background()

		Convey("缺少 local 配置", func() {
			_, err := NewStorage(ctx, &config.StorageConfig{Type: "local"})
			So(err, ShouldNotBeNil)
		})

		Convey("缺少 OSS 配置", func() {
			_, err := NewStorage(ctx, &config.StorageConfig{Type: "oss"})
			So(err, ShouldNotBeNil)
		})

		Convey("不支持的存储类型", func() {
			_, err := NewStorage(ctx, &config.StorageConfig{Type: "s3"})
			So(err, ShouldNotBeNil)
		})

		Convey("本地存储：上传后按 /static/<category>/<name> 访问", func() {
			base := t.TempDir()
			s, err := NewStorage(ctx, &config.StorageConfig{
				Type:  "local",
				Local: &config.LocalConfig{BasePath: base},
			})
			So(err, ShouldBeNil)
			So(s.GetStorageType(), ShouldEqual, string(storage.StorageTypeLocal))

			key := storage.ObjectKey(storage.CategorySubtitles, "paragraph_1_1700000000.srt")
			url, err := s.Upload(ctx, key, bytes.NewReader([]byte("1\n")), storage.ContentType(key))
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "/static/subtitles/paragraph_1_1700000000.srt")

			_, err = os.Stat(filepath.Join(base, "subtitles", "paragraph_1_1700000000.srt"))
			So(err, ShouldBeNil)

			gotKey, ok := s.KeyFromURL(url)
			So(ok, ShouldBeTrue)
			So(gotKey, ShouldEqual, key)

			_, ok = s.KeyFromURL("https://cdn.example.com/x.png")
			So(ok, ShouldBeFalse)

			rc, err := s.Download(ctx, key)
			So(err, ShouldBeNil)
			data, _ := io.ReadAll(rc)
			rc.Close()
			So(string(data), ShouldEqual, "1\n")

			info, err := s.GetFileInfo(ctx, key)
			So(err, ShouldBeNil)
			So(info.Size, ShouldEqual, int64(2))
			So(info.ContentType, ShouldEqual, "application/x-subrip")

			So(s.Delete(ctx, key), ShouldBeNil)
			exists, err := s.Exists(ctx, key)
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("本地存储：key 不能逃出根目录", func() {
			base := t.TempDir()
			s, err := NewStorage(ctx, &config.StorageConfig{
				Type:  "local",
				Local: &config.LocalConfig{BasePath: base, BaseURL: "/static/"},
			})
			So(err, ShouldBeNil)

			_, err = s.Upload(ctx, "../../escape.txt", bytes.NewReader([]byte("x")), "text/plain")
			So(err, ShouldBeNil)
			_, err = os.Stat(filepath.Join(base, "escape.txt"))
			So(err, ShouldBeNil)
		})

		Convey("UploadFile / DownloadToFile", func() {
			base := t.TempDir()
			s, _ := NewStorage(ctx, &config.StorageConfig{Type: "local", Local: &config.LocalConfig{BasePath: base}})

			src := filepath.Join(t.TempDir(), "clip.mp3")
			So(os.WriteFile(src, []byte("audio"), 0o644), ShouldBeNil)

			url, err := storage.UploadFile(ctx, s, "audio/clip.mp3", src)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "/static/audio/clip.mp3")

			dst := filepath.Join(t.TempDir(), "nested", "copy.mp3")
			So(storage.DownloadToFile(ctx, s, "audio/clip.mp3", dst), ShouldBeNil)
			data, _ := os.ReadFile(dst)
			So(string(data), ShouldEqual, "audio")
		})
	})
}
