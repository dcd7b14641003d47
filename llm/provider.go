package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/BaSui01/genesis/types"
)

// GenerateRequest 一次文本生成调用的参数
type GenerateRequest struct {
	Model       string        `json:"model"`
	Prompt      string        `json:"prompt"`
	Temperature float32       `json:"temperature,omitempty"`
	Timeout     time.Duration `json:"-"` // 覆盖 Provider 默认超时（可选）
}

// GenerateResponse 一次文本生成调用的结果
type GenerateResponse struct {
	Provider string        `json:"provider"`
	Model    string        `json:"model"`
	Text     string        `json:"text"`
	Duration time.Duration `json:"duration"`

	// Token 统计（上游提供时才有值）
	PromptTokens int `json:"prompt_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

// Model 上游可用模型的描述
type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// HealthStatus Provider 健康状态
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
}

// Provider 统一的文本生成后端接口
// 实现方负责超时控制与错误归一化（返回 *types.Error）
type Provider interface {
	// Name 返回 Provider 标识（如 "ollama"）
	Name() string

	// Generate 执行一次非流式文本生成
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// ListModels 列出上游可用模型
	ListModels(ctx context.Context) ([]Model, error)

	// HealthCheck 探测上游可达性
	HealthCheck(ctx context.Context) (*HealthStatus, error)
}

// MapHTTPError 将上游 HTTP 状态码映射为统一错误
// 对齐可重试性：429/5xx 可重试，4xx 不可重试
func MapHTTPError(status int, message, provider string) *types.Error {
	switch {
	case status == http.StatusNotFound:
		return types.NewError(types.ErrModelNotFound, message).
			WithHTTPStatus(http.StatusNotFound).
			WithProvider(provider)
	case status == http.StatusTooManyRequests:
		return types.NewError(types.ErrRateLimited, message).
			WithHTTPStatus(http.StatusTooManyRequests).
			WithRetryable(true).
			WithProvider(provider)
	case status == http.StatusServiceUnavailable:
		return types.NewError(types.ErrProviderUnavailable, message).
			WithHTTPStatus(http.StatusServiceUnavailable).
			WithRetryable(true).
			WithProvider(provider)
	case status >= 500:
		return types.NewError(types.ErrUpstreamError, message).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(provider)
	default:
		return types.NewError(types.ErrUpstreamError, message).
			WithHTTPStatus(status).
			WithProvider(provider)
	}
}
