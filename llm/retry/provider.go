package retry

import (
	"context"

	"github.com/BaSui01/genesis/llm"
	"go.uber.org/zap"
)

// retryingProvider 包装一个 Provider, 对 Generate 调用应用重试策略.
// ListModels 和 HealthCheck 是轻量探测, 不重试
type retryingProvider struct {
	inner   llm.Provider
	retryer Retryer
}

// WrapProvider 返回带重试的 Provider.
// policy 为 nil 时使用 DefaultRetryPolicy
func WrapProvider(inner llm.Provider, policy *RetryPolicy, logger *zap.Logger) llm.Provider {
	return &retryingProvider{
		inner:   inner,
		retryer: NewBackoffRetryer(policy, logger),
	}
}

func (p *retryingProvider) Name() string {
	return p.inner.Name()
}

func (p *retryingProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	var resp *llm.GenerateResponse
	err := p.retryer.Do(ctx, func() error {
		var callErr error
		resp, callErr = p.inner.Generate(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (p *retryingProvider) ListModels(ctx context.Context) ([]llm.Model, error) {
	return p.inner.ListModels(ctx)
}

func (p *retryingProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return p.inner.HealthCheck(ctx)
}
