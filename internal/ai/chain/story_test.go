package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeChatModel 用于测试的 ChatModel
type fakeChatModel struct {
	got   []*schema.Message
	reply *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestStoryChain_Run(t *testing.T) {
	Convey("StoryChain.Run", t, func() {
		ctx := context.Background()

		Convey("携带系统提示并返回模型输出", func() {
			fake := &fakeChatModel{reply: schema.AssistantMessage(`{"title":"t"}`, nil)}
			out, err := NewStoryChain(fake).Run(ctx, "写一个故事")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, `{"title":"t"}`)
			So(fake.got, ShouldHaveLength, 2)
			So(fake.got[0].Role, ShouldEqual, schema.System)
			So(fake.got[1].Content, ShouldEqual, "写一个故事")
		})

		Convey("模型报错", func() {
			fake := &fakeChatModel{err: errors.New("quota exceeded")}
			_, err := NewStoryChain(fake).Run(ctx, "x")
			So(err.Error(), ShouldContainSubstring, "quota exceeded")
		})

		Convey("空回复", func() {
			fake := &fakeChatModel{reply: schema.AssistantMessage("", nil)}
			_, err := NewStoryChain(fake).Run(ctx, "x")
			So(err, ShouldNotBeNil)
		})

		Convey("未注入模型", func() {
			_, err := NewStoryChain(nil).Run(ctx, "x")
			So(err, ShouldNotBeNil)
		})
	})
}
