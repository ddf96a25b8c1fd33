package mongodb

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"picbook/internal/config"
	"picbook/internal/model/story"
)

func TestNew(t *testing.T) {
	Convey("mongodb.New", t, func() {
		Convey("未配置 URI 时直接返回错误", func() {
			_, err := New(&config.MongoConfig{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestModels(t *testing.T) {
	Convey("Story 实现 Model 接口", t, func() {
		var m Model = &story.Story{}
		So(m.Collection(), ShouldEqual, "stories")
	})
}
