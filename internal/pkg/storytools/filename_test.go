package storytools

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilenames(t *testing.T) {
	Convey("文件名辅助函数", t, func() {
		Convey("SanitizeTitle 去除非法字符并截断", func() {
			So(SanitizeTitle(`小猫/历险:记?`), ShouldEqual, "小猫历险记")
			long := strings.Repeat("长", 60)
			So([]rune(SanitizeTitle(long)), ShouldHaveLength, 50)
		})

		Convey("ParagraphID", func() {
			So(ParagraphID(1, 1700000000), ShouldEqual, "paragraph_1_1700000000")
		})

		Convey("ImageFilename", func() {
			So(ImageFilename(`森林"冒险"`, 1700000000, 2), ShouldEqual, "森林冒险_1700000000_2.png")
		})

		Convey("VideoFilename", func() {
			So(VideoFilename("", 42), ShouldEqual, "video_42.mp4")
			So(VideoFilename("string", 42), ShouldEqual, "video_42.mp4")
			So(VideoFilename("story", 42), ShouldEqual, "story.mp4")
			So(VideoFilename("story.MP4", 42), ShouldEqual, "story.MP4")
			So(VideoFilename("../x", 42), ShouldEqual, ".._x.mp4")
		})
	})
}
