package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
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
	defaultBaseURL = "https://api.deepinfra.com/v1/openai"
	defaultTimeout = 300 * time.Second
)

// Config 图片生成配置
type Config struct {
	BaseURL string        // OpenAI 兼容接口地址，默认: https://api.deepinfra.com/v1/openai
	APIKey  string        // API Key（必需）
	Timeout time.Duration // 请求超时，默认 300s
}

// ConfigFromEnv 从环境变量创建配置
// 支持的环境变量：
//   - DEEPINFRA_API_KEY: API Key（必需）
//   - DEEPINFRA_BASE_URL: 接口地址（可选）
func ConfigFromEnv() Config {
	return Config{
		BaseURL: os.Getenv("DEEPINFRA_BASE_URL"),
		APIKey:  os.Getenv("DEEPINFRA_API_KEY"),
	}
}

// Client OpenAI 兼容的图片生成客户端（DeepInfra FLUX 等）
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 创建图片生成客户端
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("image api key is required")
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GenerateRequest 图片生成请求
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size"` // 例如 1024x576
	Model  string `json:"model"`
	N      int    `json:"n"`
	Seed   int64  `json:"seed"`
}

type generateResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate 生成一张图片，返回解码后的图片数据
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]byte, error) {
	if req.N == 0 {
		req.N = 1
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, fmt.Errorf("image API error: status %d: %s", resp.StatusCode, msg)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse image response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no b64_json in response data")
	}

	imageData, err := base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	log.Debug().
		Str("model", req.Model).
		Str("size", req.Size).
		Int64("seed", req.Seed).
		Int("bytes", len(imageData)).
		Dur("elapsed", time.Since(start)).
		Msg("图片生成成功")

	return imageData, nil
}
