// Package llm provides a client for OpenAI-compatible chat completion APIs (OpenRouter).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"feedback-assist-go/internal/config"
	"feedback-assist-go/pkg/log"

	"github.com/tidwall/gjson"
)

// Client defines the interface for an LLM client.
type Client interface {
	// Complete 发送一次非流式的 chat completion 请求，返回 choices[0].message.content。
	Complete(ctx context.Context, messages []Message, gen *GenerationParams) (string, error)
}

type openRouterClient struct {
	cfg    config.LLMConfig
	client *http.Client
}

// NewClient creates a new LLM client. 单次调用超时由 cfg.Timeout 限定，不做重试。
func NewClient(cfg config.LLMConfig) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &openRouterClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Message 表示一条角色消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat 对应 OpenAI 的 response_format 参数
type ResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      *int            `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// GenerationParams 控制生成行为
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	// JSONObject 要求服务端以 json_object 形式约束输出（需模型支持）
	JSONObject bool
}

const (
	maxResponseBytes  = 1 << 20
	maxErrorBodyBytes = 200
)

// StatusError 表示接口返回了非 2xx 状态码。
// Body 只保留响应体的前 maxErrorBodyBytes 字节，Error() 不包含响应体。
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat api returned non-2xx status: %d", e.StatusCode)
}

func (c *openRouterClient) Complete(ctx context.Context, messages []Message, gen *GenerationParams) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}
	// 传参优先，其次使用配置中的非零值
	if gen != nil {
		reqBody.Temperature = gen.Temperature
		reqBody.MaxTokens = gen.MaxTokens
		if gen.JSONObject {
			reqBody.ResponseFormat = &ResponseFormat{Type: "json_object"}
		}
	}
	if reqBody.Temperature == nil && c.cfg.Generation.Temperature != 0 {
		t := c.cfg.Generation.Temperature
		reqBody.Temperature = &t
	}
	if reqBody.MaxTokens == nil && c.cfg.Generation.MaxTokens != 0 {
		m := c.cfg.Generation.MaxTokens
		reqBody.MaxTokens = &m
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	// OpenRouter 用于应用归属统计的请求头
	req.Header.Set("HTTP-Referer", c.cfg.Referrer)
	req.Header.Set("X-Title", c.cfg.AppTitle)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat api: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := bodyBytes
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		log.Warnw("chat api returned non-2xx status", "statusCode", resp.StatusCode, "body", string(snippet))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if !gjson.ValidBytes(bodyBytes) {
		return "", fmt.Errorf("chat api returned invalid json (%d bytes)", len(bodyBytes))
	}
	content := gjson.GetBytes(bodyBytes, "choices.0.message.content")
	if content.Type != gjson.String {
		return "", fmt.Errorf("chat api response has no choices[0].message.content")
	}
	return content.String(), nil
}
