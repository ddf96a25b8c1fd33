package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"picbook/internal/config"
	"picbook/internal/pkg/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "picbook",
	Short: "Picbook - illustrated children's story generator",
	Long: `Picbook generates illustrated children's stories: story text and characters
from an LLM, illustrations from an image model, narration and subtitles from TTS,
and a narrated slideshow video rendered with ffmpeg.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./configs/config.yaml)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.picbook")
	}

	// 环境变量设置
	viper.SetEnvPrefix("PICBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 设置默认值
	setDefaults()

	// 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			fmt.Fprintln(os.Stderr, "No config file found, using defaults and environment variables")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	// 反序列化到结构体
	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to unmarshal config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	log.Debug().Str("config_file", viper.ConfigFileUsed()).Msg("configuration loaded")
}

func setDefaults() {
	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", "30s")
	// 视频合成同步请求可能持续数分钟
	viper.SetDefault("server.write_timeout", "10m")

	// AI
	viper.SetDefault("ai.client", "eino")
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.options.temperature", 0.7)
	viper.SetDefault("ai.options.max_tokens", 4096)
	viper.SetDefault("ai.options.top_p", 1.0)

	// Log
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.time_format", "RFC3339")

	// MongoDB / Redis 默认不启用
	viper.SetDefault("mongo.database", "picbook")
	viper.SetDefault("mongo.max_pool_size", 100)
	viper.SetDefault("mongo.min_pool_size", 10)
	viper.SetDefault("redis.db", 0)

	// Storage
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local.base_path", "./static")
	viper.SetDefault("storage.local.base_url", "/static")

	// Media
	viper.SetDefault("media.ffmpeg_path", "ffmpeg")
	viper.SetDefault("media.ffprobe_path", "ffprobe")
	viper.SetDefault("media.temp_root", "./temp")
	viper.SetDefault("media.keep_temp", false)
	viper.SetDefault("media.job_timeout", "30m")

	// TTS
	viper.SetDefault("tts.base_url", "https://api.siliconflow.cn/v1")
	viper.SetDefault("tts.model", "FunAudioLLM/CosyVoice2-0.5B")
	viper.SetDefault("tts.voice", "fishaudio/fish-speech-1.5:claire")
	viper.SetDefault("tts.format", "mp3")
	viper.SetDefault("tts.timeout", "60s")

	// Image
	viper.SetDefault("image.provider", "deepinfra")
	viper.SetDefault("image.base_url", "https://api.deepinfra.com/v1/openai")
	viper.SetDefault("image.default_seed", 1)
	viper.SetDefault("image.timeout", "300s")
}

// GetConfig returns the global configuration
func GetConfig() *config.Config {
	return cfg
}
