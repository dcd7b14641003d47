package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:         srv.URL,
		DefaultModel:    "llama3.1:8b",
		PreferredModels: []string{"qwen2.5-coder:1.5b-base", "llama3.1:8b"},
		Temperature:     0.1,
	}, nil)
}

func TestGenerate_Success(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3.1:8b", body.Model)
		assert.Equal(t, "hello", body.Prompt)
		assert.False(t, body.Stream)
		require.NotNil(t, body.Options)
		assert.InDelta(t, 0.1, body.Options.Temperature, 1e-9)

		json.NewEncoder(w).Encode(generateResponse{
			Model:           "llama3.1:8b",
			Response:        "world",
			Done:            true,
			PromptEvalCount: 3,
			EvalCount:       7,
		})
	})

	resp, err := p.Generate(context.Background(), &llm.GenerateRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "world", resp.Text)
	assert.Equal(t, ProviderName, resp.Provider)
	assert.Equal(t, 3, resp.PromptTokens)
	assert.Equal(t, 7, resp.OutputTokens)
}

func TestGenerate_RequestTemperatureOverridesDefault(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Options)
		assert.InDelta(t, 0.7, body.Options.Temperature, 1e-6)

		json.NewEncoder(w).Encode(generateResponse{Model: "llama3.1:8b", Response: "ok", Done: true})
	})

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{Prompt: "hello", Temperature: 0.7})
	require.NoError(t, err)
}

func TestGenerate_ModelNotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "model 'nope' not found"})
	})

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{Model: "nope", Prompt: "hello"})
	require.Error(t, err)
	assert.Equal(t, types.ErrModelNotFound, types.GetErrorCode(err))
}

func TestGenerate_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	p := New(Config{BaseURL: srv.URL, DefaultModel: "llama3.1:8b"}, nil)

	_, err := p.Generate(context.Background(), &llm.GenerateRequest{Prompt: "hello"})
	require.Error(t, err)
	assert.Equal(t, types.ErrProviderUnavailable, types.GetErrorCode(err))
	assert.True(t, types.IsRetryable(err))
}

func TestListModels(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"phi3:mini","size":2300000000},{"name":"llama3.1:8b","size":4700000000}]}`))
	})

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "phi3:mini", models[0].Name)
	assert.Equal(t, int64(4700000000), models[1].Size)
}

func TestResolveModel_Preferred(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"phi3:mini"},{"name":"llama3.1:8b"}]}`))
	})

	model, err := p.ResolveModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "llama3.1:8b", model)
}

func TestResolveModel_FallsBackToFirstAvailable(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"mistral:7b"},{"name":"gemma:2b"}]}`))
	})

	model, err := p.ResolveModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mistral:7b", model)
}

func TestResolveModel_EmptyServer(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	})

	_, err := p.ResolveModel(context.Background())
	require.Error(t, err)
	assert.Equal(t, types.ErrModelNotFound, types.GetErrorCode(err))
}

func TestHealthCheck(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	})

	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Greater(t, status.Latency.Nanoseconds(), int64(0))
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	status, err := p.HealthCheck(context.Background())
	require.Error(t, err)
	assert.False(t, status.Healthy)
}
