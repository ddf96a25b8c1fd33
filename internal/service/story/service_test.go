package story

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	model "picbook/internal/model/story"
	"picbook/internal/pkg/cache"
	"picbook/internal/pkg/storage/local"
	"picbook/internal/pkg/storytools"
)

const twoChapterStory = "```json\n" + `{
  "title": "小猫的冒险",
  "chapters": [
    {"title": "出发", "content": "小猫背上书包出发了。"},
    {"title": "回家", "content": "小猫开心地回到了家。"}
  ],
  "characters": [
    {"name": "咪咪", "role": "主角", "appearance": "白色的毛，蓝色眼睛", "traits": ["勇敢"], "age": "小孩"}
  ]
}` + "\n```"

func validStoryRequest() *StoryRequest {
	return &StoryRequest{
		Theme:     "小猫去冒险",
		StoryType: model.StoryTypeAdventure,
		AgeRange:  model.AgeRangeChild,
		Language:  model.LanguageChinese,
		WordCount: 500,
		Pages:     2,
	}
}

func TestService_GenerateStory(t *testing.T) {
	Convey("GenerateStory", t, func() {
		ctx := context.Background()
		llm := &mockLLM{generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return twoChapterStory, nil
		}}
		repo := newMemoryRepo()
		svc := NewService(llm, nil, nil, repo, Options{})

		Convey("解析章节和人物并落库", func() {
			res, err := svc.GenerateStory(ctx, validStoryRequest())
			So(err, ShouldBeNil)
			So(res.Title, ShouldEqual, "小猫的冒险")
			So(res.Paragraphs, ShouldResemble, []string{"小猫背上书包出发了。", "小猫开心地回到了家。"})
			So(res.Characters, ShouldHaveLength, 1)
			So(res.Characters[0].Appearance, ShouldEqual, "白色的毛，蓝色眼睛")
			So(res.StoryID, ShouldNotBeEmpty)

			saved, err := svc.GetStory(ctx, res.StoryID)
			So(err, ShouldBeNil)
			So(saved.Pages, ShouldEqual, 2)

			So(llm.prompts[0], ShouldContainSubstring, "小猫去冒险")
			So(llm.prompts[0], ShouldContainSubstring, "恰好 2 个章节")
		})

		Convey("章节数不符时返回 StoryGenerationError", func() {
			req := validStoryRequest()
			req.Pages = 3
			_, err := svc.GenerateStory(ctx, req)
			var genErr *StoryGenerationError
			So(errors.As(err, &genErr), ShouldBeTrue)
			So(genErr.Reason, ShouldContainSubstring, "expected 3 chapters, got 2")
		})

		Convey("无法解析的输出", func() {
			llm.generateFunc = func(ctx context.Context, prompt string) (string, error) {
				return "从前有一只小猫……", nil
			}
			_, err := svc.GenerateStory(ctx, validStoryRequest())
			var genErr *StoryGenerationError
			So(errors.As(err, &genErr), ShouldBeTrue)
			So(genErr.Raw, ShouldEqual, "从前有一只小猫……")
		})

		Convey("大模型调用失败", func() {
			upstream := errors.New("quota exceeded")
			llm.generateFunc = func(ctx context.Context, prompt string) (string, error) { return "", upstream }
			_, err := svc.GenerateStory(ctx, validStoryRequest())
			So(errors.Is(err, upstream), ShouldBeTrue)
		})

		Convey("参数范围校验", func() {
			cases := []func(r *StoryRequest){
				func(r *StoryRequest) { r.WordCount = 100 },
				func(r *StoryRequest) { r.WordCount = 10000 },
				func(r *StoryRequest) { r.Pages = 1 },
				func(r *StoryRequest) { r.Pages = 30 },
				func(r *StoryRequest) { r.StoryType = "恐怖" },
				func(r *StoryRequest) { r.Language = "日文" },
				func(r *StoryRequest) { r.Theme = "  " },
			}
			for _, mutate := range cases {
				req := validStoryRequest()
				mutate(req)
				_, err := svc.GenerateStory(ctx, req)
				So(errors.Is(err, ErrInvalidRequest), ShouldBeTrue)
			}
			So(llm.prompts, ShouldBeEmpty)
		})

		Convey("未配置仓库时不落库", func() {
			noRepo := NewService(llm, nil, nil, nil, Options{})
			res, err := noRepo.GenerateStory(ctx, validStoryRequest())
			So(err, ShouldBeNil)
			So(res.StoryID, ShouldBeEmpty)

			_, err = noRepo.GetStory(ctx, "x")
			So(errors.Is(err, ErrPersistenceUnavailable), ShouldBeTrue)
		})
	})
}

func TestService_GenerateImageDescriptions(t *testing.T) {
	Convey("GenerateImageDescriptions", t, func() {
		ctx := context.Background()
		llm := &mockLLM{generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return `{"image_prompt": ["cover", "page one", "page two"]}`, nil
		}}
		svc := NewService(llm, nil, nil, nil, Options{})
		req := &ImageDescriptionRequest{
			Theme:      "小猫",
			Paragraphs: []string{"第一段", "第二段"},
			Characters: []model.Character{{Name: "咪咪", Role: "主角", Appearance: "白色的毛", Traits: []string{"勇敢", "善良"}, Age: "小孩"}},
		}

		Convey("返回封面加每段一个描述，默认童书插画风格", func() {
			res, err := svc.GenerateImageDescriptions(ctx, req)
			So(err, ShouldBeNil)
			So(res.CoverDescription, ShouldEqual, "cover")
			So(res.Descriptions, ShouldResemble, []string{"page one", "page two"})

			prompt := llm.prompts[0]
			So(prompt, ShouldContainSubstring, "童书插画风格")
			So(prompt, ShouldContainSubstring, "外观：白色的毛")
			So(prompt, ShouldContainSubstring, "勇敢, 善良")
			So(prompt, ShouldContainSubstring, "恰好生成 3 个描述")
		})

		Convey("数量不符时失败", func() {
			req.Paragraphs = []string{"只有一段"}
			_, err := svc.GenerateImageDescriptions(ctx, req)
			var genErr *StoryGenerationError
			So(errors.As(err, &genErr), ShouldBeTrue)
		})

		Convey("未知风格", func() {
			req.Style = "油画风格"
			_, err := svc.GenerateImageDescriptions(ctx, req)
			So(errors.Is(err, ErrInvalidRequest), ShouldBeTrue)
		})

		Convey("段落为空", func() {
			_, err := svc.GenerateImageDescriptions(ctx, &ImageDescriptionRequest{Theme: "x"})
			So(errors.Is(err, ErrInvalidRequest), ShouldBeTrue)
		})
	})
}

func TestService_GenerateImages(t *testing.T) {
	Convey("GenerateImages", t, func() {
		ctx := context.Background()
		store, err := local.NewLocalStorage(filepath.Join(t.TempDir(), "static"), "/static")
		So(err, ShouldBeNil)

		images := &mockImages{generateFunc: func(ctx context.Context, req storytools.ImageRequest) ([]byte, error) {
			if strings.Contains(req.Prompt, "fail") {
				return nil, errors.New("upstream 500")
			}
			return []byte("png-bytes"), nil
		}}
		repo := newMemoryRepo()
		So(repo.Create(ctx, &model.Story{ID: "s1"}), ShouldBeNil)

		svc := NewService(nil, images, store, repo, Options{})
		svc.(*service).now = func() time.Time { return time.Unix(1700000000, 0) }

		Convey("按比例生成并保存，单张失败返回空字符串", func() {
			paths, err := svc.GenerateImages(ctx, &ImageRequest{
				Title:        `小猫:冒险?`,
				Descriptions: []string{"cover", "fail here", "page two"},
				AspectRatio:  "16:9",
				StoryID:      "s1",
			})
			So(err, ShouldBeNil)
			So(paths, ShouldResemble, []string{
				"/static/images/小猫冒险_1700000000_0.png",
				"",
				"/static/images/小猫冒险_1700000000_2.png",
			})

			So(images.requests[0].Width, ShouldEqual, 1024)
			So(images.requests[0].Height, ShouldEqual, 576)
			So(images.requests[0].Model, ShouldEqual, "black-forest-labs/FLUX-1-schnell")
			So(images.requests[0].Seed, ShouldEqual, int64(1))

			data, err := os.ReadFile(filepath.Join(store.BasePath(), "images", "小猫冒险_1700000000_0.png"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "png-bytes")

			saved, _ := repo.FindByID(ctx, "s1")
			So(saved.Images, ShouldHaveLength, 3)
		})

		Convey("指定 index 只重新生成一张，序号与整批一致", func() {
			index := 2
			seed := int64(42)
			paths, err := svc.GenerateImages(ctx, &ImageRequest{
				Title:        "t",
				Descriptions: []string{"a", "b", "c"},
				AspectRatio:  "1:1",
				ImageModel:   "FLUX-1-dev",
				Seed:         &seed,
				Index:        &index,
			})
			So(err, ShouldBeNil)
			So(paths, ShouldResemble, []string{"/static/images/t_1700000000_1.png"})
			So(images.requests, ShouldHaveLength, 1)
			So(images.requests[0].Prompt, ShouldEqual, "b")
			So(images.requests[0].Seed, ShouldEqual, int64(42))
			So(images.requests[0].Model, ShouldEqual, "black-forest-labs/FLUX-1-dev")
		})

		Convey("未知模型回退到默认模型", func() {
			_, err := svc.GenerateImages(ctx, &ImageRequest{Title: "t", Descriptions: []string{"a"}, AspectRatio: "1:1", ImageModel: "dall-e"})
			So(err, ShouldBeNil)
			So(images.requests[0].Model, ShouldEqual, "black-forest-labs/FLUX-1-schnell")
		})

		Convey("不支持的比例和越界的 index", func() {
			_, err := svc.GenerateImages(ctx, &ImageRequest{Descriptions: []string{"a"}, AspectRatio: "7:5"})
			So(errors.Is(err, ErrInvalidRequest), ShouldBeTrue)

			index := 3
			_, err = svc.GenerateImages(ctx, &ImageRequest{Descriptions: []string{"a"}, AspectRatio: "1:1", Index: &index})
			So(errors.Is(err, ErrInvalidRequest), ShouldBeTrue)
			So(images.requests, ShouldBeEmpty)
		})

		Convey("比例列表", func() {
			So(svc.AspectRatios(), ShouldHaveLength, 9)
			ar, ok := LookupAspectRatio("3:2")
			So(ok, ShouldBeTrue)
			So(ar.Height, ShouldEqual, 683)
		})
	})
}

func TestService_Attach(t *testing.T) {
	Convey("AttachSpeeches / AttachVideo", t, func() {
		ctx := context.Background()
		repo := newMemoryRepo()
		So(repo.Create(ctx, &model.Story{ID: "s1"}), ShouldBeNil)
		svc := NewService(nil, nil, nil, repo, Options{})

		svc.AttachSpeeches(ctx, "s1", []model.SpeechRecord{{ParagraphID: "paragraph_0_1"}})
		svc.AttachVideo(ctx, "s1", model.VideoRecord{VideoPath: "/static/videos/a.mp4"})
		svc.AttachVideo(ctx, "", model.VideoRecord{VideoPath: "ignored"})
		svc.AttachVideo(ctx, "missing", model.VideoRecord{VideoPath: "ignored"})

		saved, err := svc.GetStory(ctx, "s1")
		So(err, ShouldBeNil)
		So(saved.Speeches, ShouldHaveLength, 1)
		So(saved.Videos, ShouldHaveLength, 1)

		So(svc.DeleteStory(ctx, "s1"), ShouldBeNil)
		_, err = svc.GetStory(ctx, "s1")
		So(err, ShouldNotBeNil)
	})
}

func TestService_StoryCache(t *testing.T) {
	Convey("GetStory 读缓存", t, func() {
		ctx := context.Background()
		repo := newMemoryRepo()
		So(repo.Create(ctx, &model.Story{ID: "s1", Title: "小猫"}), ShouldBeNil)
		c := newMemoryCache()
		svc := NewService(nil, nil, nil, repo, Options{Cache: c})
		key := cache.StoryCacheKey("s1")

		Convey("第一次读库并写入缓存，第二次命中缓存", func() {
			first, err := svc.GetStory(ctx, "s1")
			So(err, ShouldBeNil)
			So(first.Title, ShouldEqual, "小猫")
			So(c.has(key), ShouldBeTrue)
			So(c.ttls[key], ShouldEqual, cache.StoryCacheTTL)

			second, err := svc.GetStory(ctx, "s1")
			So(err, ShouldBeNil)
			So(second.Title, ShouldEqual, "小猫")
			So(repo.finds, ShouldEqual, 1)
		})

		Convey("追加产物后缓存失效，读到最新文档", func() {
			_, err := svc.GetStory(ctx, "s1")
			So(err, ShouldBeNil)

			svc.AttachVideo(ctx, "s1", model.VideoRecord{VideoPath: "/static/videos/a.mp4"})
			So(c.has(key), ShouldBeFalse)

			saved, err := svc.GetStory(ctx, "s1")
			So(err, ShouldBeNil)
			So(saved.Videos, ShouldHaveLength, 1)
			So(repo.finds, ShouldEqual, 2)
		})

		Convey("删除后缓存失效，不再返回已删除的故事", func() {
			_, err := svc.GetStory(ctx, "s1")
			So(err, ShouldBeNil)

			So(svc.DeleteStory(ctx, "s1"), ShouldBeNil)
			So(c.has(key), ShouldBeFalse)

			_, err = svc.GetStory(ctx, "s1")
			So(err, ShouldNotBeNil)
		})

		Convey("不存在的故事不写缓存", func() {
			_, err := svc.GetStory(ctx, "missing")
			So(err, ShouldNotBeNil)
			So(c.has(cache.StoryCacheKey("missing")), ShouldBeFalse)
		})
	})
}
