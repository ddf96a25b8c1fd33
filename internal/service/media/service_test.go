package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestService(t *testing.T) {
	Convey("media.Service", t, func() {
		ctx := context.Background()
		store := newTestStorage(t)
		speechDir := t.TempDir()
		tool := &fakeTool{}
		jobs := newMemoryJobStore()
		scratch := NewScratch(filepath.Join(t.TempDir(), "scratch"), false)

		svc := NewService(tool, &fakeSpeech{dir: speechDir}, store, scratch, NewJobRunner(jobs, 0))
		svc.(*service).assembler.now = fixedNow

		Convey("GenerateParagraphMedia 要求至少一个段落", func() {
			_, err := svc.GenerateParagraphMedia(ctx, &ParagraphAudioRequest{Title: "标题"})
			So(errors.Is(err, ErrNoParagraphs), ShouldBeTrue)
		})

		Convey("GenerateParagraphMedia 返回标题加段落", func() {
			res, err := svc.GenerateParagraphMedia(ctx, &ParagraphAudioRequest{Title: "标题", Paragraphs: []string{"第一段。", "第二段。"}})
			So(err, ShouldBeNil)
			So(res, ShouldHaveLength, 3)
		})

		Convey("GenerateSpeech 发布语音并删除本地文件", func() {
			url, err := svc.GenerateSpeech(ctx, "你好。", "sad")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "/static/speech/speech_1.mp3")

			data, err := os.ReadFile(filepath.Join(store.BasePath(), "speech", "speech_1.mp3"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "sad:你好。")

			entries, _ := os.ReadDir(speechDir)
			So(entries, ShouldBeEmpty)
		})

		Convey("SubmitParagraphVideo 同步返回参数错误", func() {
			_, err := svc.SubmitParagraphVideo(ctx, &VideoRequest{ImagePaths: []string{"a"}})
			So(errors.Is(err, ErrNotEnoughImages), ShouldBeTrue)
			So(jobs.jobs, ShouldBeEmpty)
		})

		Convey("SubmitParagraphMedia 异步完成", func() {
			job, err := svc.SubmitParagraphMedia(ctx, &ParagraphAudioRequest{Title: "标题", Paragraphs: []string{"正文。"}})
			So(err, ShouldBeNil)
			done := waitJob(jobs, job.ID)
			So(done.Status, ShouldEqual, JobStatusCompleted)

			got, err := svc.GetJob(ctx, job.ID)
			So(err, ShouldBeNil)
			So(got.Kind, ShouldEqual, JobKindParagraphAudio)
		})

		Convey("未配置任务存储时异步接口不可用", func() {
			noJobs := NewService(tool, &fakeSpeech{dir: speechDir}, store, scratch, nil)
			_, err := noJobs.SubmitParagraphMedia(ctx, &ParagraphAudioRequest{Paragraphs: []string{"x"}})
			So(errors.Is(err, ErrJobsUnavailable), ShouldBeTrue)
			_, err = noJobs.GetJob(ctx, "x")
			So(errors.Is(err, ErrJobsUnavailable), ShouldBeTrue)
		})
	})
}
