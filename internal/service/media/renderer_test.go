package media

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSegmentRenderer_Render(t *testing.T) {
	Convey("SegmentRenderer.Render", t, func() {
		ctx := context.Background()
		tool := &fakeTool{durations: map[string]float64{"a.mp3": 4.0}}
		r := NewSegmentRenderer(tool)
		out := t.TempDir() + "/segment_0.mp4"

		Convey("封面额外停留 2 秒，所有片段有 0.5 秒尾部留白", func() {
			seg, err := r.Render(ctx, SegmentInput{
				ImagePath: "cover.png", AudioPath: "a.mp3", SubtitlePath: "a.srt",
				OutputPath: out, IsCover: true, FadeDuration: 0.5,
			})
			So(err, ShouldBeNil)
			So(seg.AudioDuration, ShouldEqual, 4.0)
			So(seg.Duration, ShouldAlmostEqual, 6.5, 0.0001)

			So(tool.rendered, ShouldHaveLength, 1)
			So(tool.rendered[0].Duration, ShouldAlmostEqual, 6.0, 0.0001)
			So(tool.rendered[0].Tail, ShouldEqual, SafetyMarginSeconds)
			So(tool.rendered[0].SubtitlePath, ShouldEqual, "a.srt")
		})

		Convey("普通片段不额外停留", func() {
			seg, err := r.Render(ctx, SegmentInput{ImagePath: "p.png", AudioPath: "a.mp3", OutputPath: out})
			So(err, ShouldBeNil)
			So(seg.Duration, ShouldAlmostEqual, 4.5, 0.0001)
			So(tool.rendered[0].Duration, ShouldAlmostEqual, 4.0, 0.0001)
		})

		Convey("渲染失败直接返回错误", func() {
			tool.renderErr = commandErr("No such filter: 'subtitles'")
			_, err := r.Render(ctx, SegmentInput{ImagePath: "p.png", AudioPath: "a.mp3", OutputPath: out})
			So(err, ShouldNotBeNil)
			So(tool.Calls(), ShouldResemble, []string{"probe", "render"})
		})

		Convey("探测失败时不渲染", func() {
			probeFail := &probeFailTool{fakeTool: tool}
			_, err := NewSegmentRenderer(probeFail).Render(ctx, SegmentInput{AudioPath: "a.mp3", OutputPath: out})
			So(err, ShouldNotBeNil)
			So(tool.Calls(), ShouldBeEmpty)
		})
	})
}

type probeFailTool struct {
	*fakeTool
}

func (p *probeFailTool) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return 0, errors.New("no such file")
}
