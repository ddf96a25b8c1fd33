package config

import (
	"errors"
	"fmt"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	Log     LogConfig     `mapstructure:"log"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
	Media   MediaConfig   `mapstructure:"media"`
	TTS     TTSConfig     `mapstructure:"tts"`
	Image   ImageConfig   `mapstructure:"image"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig AI 服务配置
type AIConfig struct {
	Client   string          `mapstructure:"client"` // eino（默认）, ark_sdk
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径（静态文件根目录）
	BaseURL  string `mapstructure:"base_url"`  // 基础URL（默认 /static）
}

// OSSConfig 阿里云OSS配置
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`          // OSS端点
	Bucket          string `mapstructure:"bucket"`            // Bucket名称
	AccessKeyID     string `mapstructure:"access_key_id"`     // AccessKey ID
	AccessKeySecret string `mapstructure:"access_key_secret"` // AccessKey Secret
	Prefix          string `mapstructure:"prefix"`            // 对象 key 前缀（可选）
}

// MediaConfig 媒体流水线配置
type MediaConfig struct {
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`  // ffmpeg 可执行文件
	FFprobePath string        `mapstructure:"ffprobe_path"` // ffprobe 可执行文件
	TempRoot    string        `mapstructure:"temp_root"`    // 临时工作目录根
	SpeechDir   string        `mapstructure:"speech_dir"`   // TTS 输出的暂存目录
	KeepTemp    bool          `mapstructure:"keep_temp"`    // 保留任务临时目录（排查问题用）
	JobTimeout  time.Duration `mapstructure:"job_timeout"`  // 异步任务超时
	InputRoots  []string      `mapstructure:"input_roots"`  // 允许接口直接引用的本地目录，为空时只接受产物 URL
}

// TTSConfig 语音合成配置（OpenAI 兼容的 audio/speech 接口）
type TTSConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Voice   string        `mapstructure:"voice"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ImageConfig 图片生成配置
type ImageConfig struct {
	Provider    string             `mapstructure:"provider"` // deepinfra, ark
	BaseURL     string             `mapstructure:"base_url"`
	APIKey      string             `mapstructure:"api_key"`
	Models      []ImageModelConfig `mapstructure:"models"`
	DefaultSeed int64              `mapstructure:"default_seed"`
	Timeout     time.Duration      `mapstructure:"timeout"`
}

// ImageModelConfig 可选的图片模型
type ImageModelConfig struct {
	Name        string `mapstructure:"name" json:"name"`
	Value       string `mapstructure:"value" json:"value"`
	Description string `mapstructure:"description" json:"description"`
	Default     bool   `mapstructure:"default" json:"default"`
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Storage.Type {
	case "local", "oss":
	default:
		return fmt.Errorf("invalid storage type: %q", c.Storage.Type)
	}

	switch c.Image.Provider {
	case "", "deepinfra", "ark":
	default:
		return fmt.Errorf("invalid image provider: %q", c.Image.Provider)
	}

	if c.Media.TempRoot == "" {
		return errors.New("media.temp_root is required")
	}

	return nil
}

// DefaultImageModel 返回默认图片模型，未配置时返回空值
func (c *ImageConfig) DefaultImageModel() ImageModelConfig {
	for _, m := range c.Models {
		if m.Default {
			return m
		}
	}
	if len(c.Models) > 0 {
		return c.Models[0]
	}
	return ImageModelConfig{}
}
