package story

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnums(t *testing.T) {
	Convey("故事枚举", t, func() {
		Convey("插画风格共 24 种，默认童书插画风格", func() {
			So(ArtStyles(), ShouldHaveLength, 24)
			So(DefaultArtStyle.IsValid(), ShouldBeTrue)
			So(ArtStyle("油画风格").IsValid(), ShouldBeFalse)
		})

		Convey("故事类型、年龄段和语言", func() {
			So(StoryTypes(), ShouldHaveLength, 8)
			So(StoryType("冒险").IsValid(), ShouldBeTrue)
			So(StoryType("恐怖").IsValid(), ShouldBeFalse)
			So(AgeRange("3-8岁").IsValid(), ShouldBeTrue)
			So(AgeRange("3-6岁").IsValid(), ShouldBeFalse)
			So(Language("英文").IsValid(), ShouldBeTrue)
			So(Language("日文").IsValid(), ShouldBeFalse)
		})
	})
}
