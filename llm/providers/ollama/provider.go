// =============================================================================
// Genesis Ollama Provider
// =============================================================================
// Adapter for the native Ollama HTTP API. Uses /api/generate for single-shot
// non-streaming completions and /api/tags for model discovery and health.
// =============================================================================

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BaSui01/genesis/internal/tlsutil"
	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
)

// ProviderName is the identifier used in configuration and error reporting.
const ProviderName = "ollama"

// DefaultTimeout bounds a single generate call when the request does not
// carry its own deadline. Local models on modest hardware can be slow.
const DefaultTimeout = 60 * time.Second

// Config holds the configuration for the Ollama provider.
type Config struct {
	// BaseURL is the Ollama server address (e.g. "http://localhost:11434").
	BaseURL string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// PreferredModels is the ordered candidate list for ResolveModel.
	PreferredModels []string

	// Temperature is the default sampling temperature for generate calls.
	Temperature float64

	// Timeout is the per-call HTTP timeout. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// Provider implements llm.Provider against a local Ollama server.
type Provider struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New creates a new Ollama provider with the given config.
func New(cfg Config, logger *zap.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		cfg:    cfg,
		client: tlsutil.SecureHTTPClient(cfg.Timeout),
		logger: logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// endpoint builds the full URL for a given path.
func (p *Provider) endpoint(path string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(p.cfg.BaseURL, "/"), path)
}

// generateRequest is the native /api/generate request body.
type generateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

// generateResponse is the native /api/generate response body.
type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// tagsResponse is the native /api/tags response body.
type tagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		ModifiedAt time.Time `json:"modified_at"`
	} `json:"models"`
}

// Generate performs a single non-streaming completion.
func (p *Provider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.cfg.DefaultModel
	}
	if model == "" {
		return nil, types.NewError(types.ErrModelNotFound, "no model configured").
			WithProvider(ProviderName).WithHTTPStatus(http.StatusNotFound)
	}

	temperature := float64(req.Temperature)
	if temperature == 0 {
		temperature = p.cfg.Temperature
	}

	// 请求级超时优先于客户端级超时
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body := generateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: &generateOptions{Temperature: temperature},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/api/generate"), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, llm.MapHTTPError(resp.StatusCode, readErrorMessage(resp.Body), ProviderName)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, fmt.Sprintf("invalid response body: %v", err)).
			WithProvider(ProviderName).WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}

	p.logger.Debug("ollama generate completed",
		zap.String("model", model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("output_tokens", genResp.EvalCount))

	return &llm.GenerateResponse{
		Provider:     ProviderName,
		Model:        genResp.Model,
		Text:         genResp.Response,
		Duration:     time.Since(start),
		PromptTokens: genResp.PromptEvalCount,
		OutputTokens: genResp.EvalCount,
	}, nil
}

// ListModels returns the models currently pulled on the Ollama server.
func (p *Provider) ListModels(ctx context.Context) ([]llm.Model, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/api/tags"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, p.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, llm.MapHTTPError(resp.StatusCode, readErrorMessage(resp.Body), ProviderName)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, fmt.Sprintf("invalid tags body: %v", err)).
			WithProvider(ProviderName).WithHTTPStatus(http.StatusBadGateway).WithRetryable(true)
	}

	models := make([]llm.Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, llm.Model{
			Name:       m.Name,
			Size:       m.Size,
			ModifiedAt: m.ModifiedAt,
		})
	}
	return models, nil
}

// ResolveModel picks the first preferred model that is actually pulled on the
// server. If none of the preferred models is available, the first available
// model wins; an empty server is an error.
func (p *Provider) ResolveModel(ctx context.Context) (string, error) {
	models, err := p.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(models) == 0 {
		return "", types.NewError(types.ErrModelNotFound, "ollama server has no models pulled").
			WithProvider(ProviderName).WithHTTPStatus(http.StatusNotFound)
	}

	available := make(map[string]bool, len(models))
	for _, m := range models {
		available[m.Name] = true
	}
	for _, candidate := range p.cfg.PreferredModels {
		if available[candidate] {
			return candidate, nil
		}
	}

	p.logger.Warn("no preferred model available, using first pulled model",
		zap.Strings("preferred", p.cfg.PreferredModels),
		zap.String("fallback", models[0].Name))
	return models[0].Name, nil
}

// HealthCheck verifies the Ollama server is reachable.
func (p *Provider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/api/tags"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			fmt.Errorf("ollama health check failed: status=%d msg=%s", resp.StatusCode, readErrorMessage(resp.Body))
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

// transportError normalizes connection-level failures to typed errors.
func (p *Provider) transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.ErrUpstreamTimeout, err.Error()).
			WithProvider(ProviderName).WithHTTPStatus(http.StatusGatewayTimeout).WithRetryable(true).WithCause(err)
	}
	return types.NewError(types.ErrProviderUnavailable, err.Error()).
		WithProvider(ProviderName).WithHTTPStatus(http.StatusServiceUnavailable).WithRetryable(true).WithCause(err)
}

// readErrorMessage extracts the error field from an Ollama error body.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "unknown error"
	}
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return strings.TrimSpace(string(raw))
}
