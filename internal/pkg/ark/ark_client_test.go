package ark

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"picbook/internal/config"
)

func TestNewClient(t *testing.T) {
	Convey("Ark 客户端创建", t, func() {
		Convey("缺少 API Key", func() {
			_, err := NewClient(&config.AIConfig{})
			So(err, ShouldNotBeNil)

			_, err = NewImageClient(&ImageConfig{})
			So(err, ShouldNotBeNil)
		})

		Convey("使用默认模型和参数", func() {
			c, err := NewClient(&config.AIConfig{APIKey: "k"})
			So(err, ShouldBeNil)
			So(c.model, ShouldEqual, defaultChatModel)
			So(c.maxTokens, ShouldEqual, 8*1024)

			ic, err := NewImageClient(&ImageConfig{APIKey: "k"})
			So(err, ShouldBeNil)
			So(ic.model, ShouldEqual, defaultImageModel)
		})

		Convey("消息转换保留各自内容", func() {
			msgs := convertMessages([]Message{{Role: "system", Content: "a"}, {Role: "user", Content: "b"}})
			So(msgs, ShouldHaveLength, 2)
			So(*msgs[0].Content.StringValue, ShouldEqual, "a")
			So(*msgs[1].Content.StringValue, ShouldEqual, "b")
			So(msgs[1].Role, ShouldEqual, "user")
		})
	})
}
