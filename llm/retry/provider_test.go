package retry

import (
	"context"
	"testing"

	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyProvider 前 failures 次 Generate 返回可重试错误, 之后成功
type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) Name() string { return "flaky" }

func (p *flakyProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, types.NewError(types.ErrProviderUnavailable, "connection refused").WithRetryable(true)
	}
	return &llm.GenerateResponse{Provider: "flaky", Model: req.Model, Text: "ok"}, nil
}

func (p *flakyProvider) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{Name: "m1"}}, nil
}

func (p *flakyProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return &llm.HealthStatus{Healthy: true}, nil
}

func TestWrapProvider_RetriesGenerate(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	p := WrapProvider(inner, fastPolicy(3), zap.NewNop())

	resp, err := p.Generate(context.Background(), &llm.GenerateRequest{Model: "m1", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 3, inner.calls)
}

func TestWrapProvider_NonRetryableStops(t *testing.T) {
	inner := &failingProvider{err: types.NewError(types.ErrInvalidRequest, "bad prompt")}
	p := WrapProvider(inner, fastPolicy(3), zap.NewNop())

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{Model: "m1", Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestWrapProvider_PassThrough(t *testing.T) {
	inner := &flakyProvider{}
	p := WrapProvider(inner, fastPolicy(1), zap.NewNop())

	assert.Equal(t, "flaky", p.Name())

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 1)

	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

// failingProvider 始终返回同一个错误
type failingProvider struct {
	err   error
	calls int
}

func (p *failingProvider) Name() string { return "failing" }

func (p *failingProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	p.calls++
	return nil, p.err
}

func (p *failingProvider) ListModels(ctx context.Context) ([]llm.Model, error) {
	return nil, p.err
}

func (p *failingProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return nil, p.err
}
