package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, Mode: "release"},
		Storage: StorageConfig{Type: "local"},
		Media:   MediaConfig{TempRoot: "/tmp/picbook"},
	}
}

func TestConfig_Validate(t *testing.T) {
	Convey("Config.Validate", t, func() {
		Convey("合法配置通过校验", func() {
			So(validConfig().Validate(), ShouldBeNil)
		})

		Convey("端口越界", func() {
			cfg := validConfig()
			cfg.Server.Port = 70000
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知运行模式", func() {
			cfg := validConfig()
			cfg.Server.Mode = "prod"
			So(cfg.Validate(), ShouldNotBeNil)
		})

		Convey("未知存储类型", func() {
			cfg := validConfig()
			cfg.Storage.Type = "s3"
			So(cfg.Validate().Error(), ShouldContainSubstring, "storage type")
		})

		Convey("未知图片 provider", func() {
			cfg := validConfig()
			cfg.Image.Provider = "midjourney"
			So(cfg.Validate().Error(), ShouldContainSubstring, "image provider")
		})

		Convey("缺少临时目录", func() {
			cfg := validConfig()
			cfg.Media.TempRoot = ""
			So(cfg.Validate(), ShouldNotBeNil)
		})
	})
}

func TestImageConfig_DefaultImageModel(t *testing.T) {
	Convey("DefaultImageModel", t, func() {
		Convey("优先返回标记为 default 的模型", func() {
			cfg := &ImageConfig{Models: []ImageModelConfig{
				{Name: "FLUX-1-dev", Value: "black-forest-labs/FLUX-1-dev"},
				{Name: "FLUX-1-schnell", Value: "black-forest-labs/FLUX-1-schnell", Default: true},
			}}
			So(cfg.DefaultImageModel().Name, ShouldEqual, "FLUX-1-schnell")
		})

		Convey("没有 default 时返回第一个", func() {
			cfg := &ImageConfig{Models: []ImageModelConfig{{Name: "a"}, {Name: "b"}}}
			So(cfg.DefaultImageModel().Name, ShouldEqual, "a")
		})

		Convey("未配置模型时返回空值", func() {
			cfg := &ImageConfig{}
			So(cfg.DefaultImageModel().Name, ShouldBeEmpty)
		})
	})
}
