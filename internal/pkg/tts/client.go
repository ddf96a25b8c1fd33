package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://api.siliconflow.cn/v1"
	defaultModel   = "FunAudioLLM/CosyVoice2-0.5B"
	defaultVoice   = "fishaudio/fish-speech-1.5:claire"
	defaultFormat  = "mp3"
)

// Config TTS 配置
type Config struct {
	BaseURL string        // OpenAI 兼容接口地址，默认: https://api.siliconflow.cn/v1
	APIKey  string        // API Key（必需）
	Model   string        // 模型，默认: FunAudioLLM/CosyVoice2-0.5B
	Voice   string        // 音色，默认: fishaudio/fish-speech-1.5:claire
	Format  string        // 输出格式，默认: mp3
	Timeout time.Duration // 请求超时，默认: 60s
}

// ConfigFromEnv 从环境变量创建 TTS 配置
// 支持的环境变量：
//   - SILICONFLOW_API_KEY: API Key（必需）
//   - TTS_BASE_URL: 接口地址（可选）
//   - TTS_MODEL: 模型（可选）
//   - TTS_VOICE: 音色（可选）
func ConfigFromEnv() Config {
	return Config{
		BaseURL: os.Getenv("TTS_BASE_URL"),
		APIKey:  os.Getenv("SILICONFLOW_API_KEY"),
		Model:   os.Getenv("TTS_MODEL"),
		Voice:   os.Getenv("TTS_VOICE"),
	}
}

// Client TTS 客户端封装
// 调用 OpenAI 兼容的 audio/speech 接口（SiliconFlow CosyVoice）
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	voice      string
	format     string
	httpClient *http.Client
}

// NewClient 创建 TTS 客户端
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("TTS api key is required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		model:   config.Model,
		voice:   config.Voice,
		format:  config.Format,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.model == "" {
		c.model = defaultModel
	}
	if c.voice == "" {
		c.voice = defaultVoice
	}
	if c.format == "" {
		c.format = defaultFormat
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c.httpClient = &http.Client{Timeout: timeout}

	return c, nil
}

// Format 输出音频格式（文件扩展名）
func (c *Client) Format() string {
	return c.format
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize 合成语音，返回音频二进制数据
func (c *Client) Synthesize(ctx context.Context, text, emotion string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is empty")
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.model,
		Voice:          c.voice,
		Input:          BuildInput(text, emotion),
		ResponseFormat: c.format,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read TTS response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS API error: status %d: %s", resp.StatusCode, truncate(string(data), 512))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("TTS API returned empty audio")
	}

	log.Debug().
		Str("emotion", string(NormalizeEmotion(emotion))).
		Int("text_len", len([]rune(text))).
		Int("size", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("TTS 合成成功")

	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
