package cmd

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeManifest(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "story.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	Convey("loadManifest", t, func() {
		Convey("解析清单并按清单目录解析相对路径", func() {
			path := writeManifest(t, `
title: 小兔的冒险
emotion: sad
cover: images/cover.png
pages:
  - text: 小兔出发了。
    image: images/p1.png
  - text: 小兔回家了。
    image: /abs/p2.png
`)
			m, err := loadManifest(path)
			So(err, ShouldBeNil)
			dir := filepath.Dir(path)

			So(m.Title, ShouldEqual, "小兔的冒险")
			So(m.Emotion, ShouldEqual, "sad")
			So(m.paragraphs(), ShouldResemble, []string{"小兔出发了。", "小兔回家了。"})
			So(m.images(), ShouldResemble, []string{
				filepath.Join(dir, "images/cover.png"),
				filepath.Join(dir, "images/p1.png"),
				"/abs/p2.png",
			})
		})

		Convey("缺少封面", func() {
			_, err := loadManifest(writeManifest(t, "title: x\npages:\n  - text: a\n    image: a.png\n"))
			So(err, ShouldNotBeNil)
		})

		Convey("页面缺少图片", func() {
			_, err := loadManifest(writeManifest(t, "cover: c.png\npages:\n  - text: a\n"))
			So(err.Error(), ShouldContainSubstring, "page 1")
		})

		Convey("YAML 格式错误", func() {
			_, err := loadManifest(writeManifest(t, "pages: [unclosed"))
			So(err, ShouldNotBeNil)
		})

		Convey("文件不存在", func() {
			_, err := loadManifest(filepath.Join(t.TempDir(), "none.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}
