package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BaSui01/genesis/api/handlers"
	"github.com/BaSui01/genesis/config"
	"github.com/BaSui01/genesis/internal/metrics"
	"github.com/BaSui01/genesis/internal/server"
	"github.com/BaSui01/genesis/internal/telemetry"
	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/llm/providers/ollama"
	"github.com/BaSui01/genesis/llm/retry"
	"github.com/BaSui01/genesis/manifest"
	"github.com/BaSui01/genesis/pipeline"
	"github.com/BaSui01/genesis/validate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// =============================================================================
// 🖥️ Server 结构
// =============================================================================

// Server 是 Genesis 的主服务器
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	// 服务器管理器
	httpManager    *server.Manager
	metricsManager *server.Manager

	// Handlers
	rootHandler     *handlers.RootHandler
	healthHandler   *handlers.HealthHandler
	generateHandler *handlers.GenerateHandler

	// 生成管线依赖
	provider      llm.Provider
	manifestStore manifest.Store

	// 指标收集器
	metricsCollector *metrics.Collector

	// 遥测
	otelProviders *telemetry.Providers

	// Rate limiter 生命周期管理
	rateLimiterCancel context.CancelFunc
}

// NewServer 创建新的服务器实例
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
	}
}

// =============================================================================
// 🚀 启动流程
// =============================================================================

// Start 启动所有服务
func (s *Server) Start() error {
	// 1. 初始化指标收集器
	s.metricsCollector = metrics.NewCollector("genesis", prometheus.DefaultRegisterer, s.logger)

	// 2. 初始化生成管线和 Handlers
	if err := s.initPipeline(); err != nil {
		return fmt.Errorf("failed to init pipeline: %w", err)
	}

	// 3. 启动 HTTP 服务器
	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	// 4. 启动 Metrics 服务器
	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("All servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)

	return nil
}

// =============================================================================
// 🔧 初始化方法
// =============================================================================

// initPipeline 组装生成管线并初始化所有 handlers
func (s *Server) initPipeline() error {
	// 模型后端
	ollamaProvider := ollama.New(ollama.Config{
		BaseURL:         s.cfg.LLM.BaseURL,
		DefaultModel:    s.cfg.LLM.Model,
		PreferredModels: s.cfg.LLM.PreferredModels,
		Temperature:     float64(s.cfg.LLM.Temperature),
		Timeout:         s.cfg.LLM.Timeout,
	}, s.logger)

	s.provider = ollamaProvider
	if s.cfg.LLM.MaxRetries > 0 {
		policy := retry.DefaultRetryPolicy()
		policy.MaxRetries = s.cfg.LLM.MaxRetries
		s.provider = retry.WrapProvider(ollamaProvider, policy, s.logger)
	}
	s.provider = &instrumentedProvider{Provider: s.provider, collector: s.metricsCollector}

	// 启动时按上游可用性解析模型, 失败不阻塞启动
	model := s.cfg.LLM.Model
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if resolved, err := ollamaProvider.ResolveModel(ctx); err != nil {
		s.logger.Warn("model resolution failed, using configured model",
			zap.String("model", model),
			zap.Error(err))
	} else {
		model = resolved
		s.logger.Info("model resolved", zap.String("model", model))
	}
	cancel()

	// 文件写入器
	writer, err := pipeline.NewWriter(s.cfg.Generator.OutputDir, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create project writer: %w", err)
	}

	// 清单存储
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := manifest.NewStore(storeCtx, s.cfg.Manifest, s.logger)
	storeCancel()
	if err != nil {
		return fmt.Errorf("failed to create manifest store: %w", err)
	}
	s.manifestStore = store

	// 生成器选项
	opts := []pipeline.GeneratorOption{
		pipeline.WithManifestStore(store, s.cfg.Manifest.Driver),
		pipeline.WithMetrics(s.metricsCollector),
	}

	// 语法校验器（可选）
	if s.cfg.Validator.Enabled {
		validator := validate.NewValidator(validate.Config{
			NodeBin:        s.cfg.Validator.NodeBin,
			ScriptPath:     s.cfg.Validator.ScriptPath,
			Timeout:        s.cfg.Validator.Timeout,
			MaxConcurrency: s.cfg.Validator.MaxConcurrency,
		}, s.logger)
		opts = append(opts, pipeline.WithValidator(validator))
		s.logger.Info("syntax validator enabled",
			zap.String("script", s.cfg.Validator.ScriptPath))
	}

	generator := pipeline.NewGenerator(
		pipeline.NewNamer(s.provider, model, s.cfg.Generator.NameMaxLength, s.logger),
		pipeline.NewSynthesizer(s.provider, model, s.logger),
		writer,
		s.logger,
		opts...,
	)

	// Handlers
	s.rootHandler = handlers.NewRootHandler(Version, s.cfg.Generator.OutputDir, s.logger)
	s.generateHandler = handlers.NewGenerateHandler(generator, s.logger)

	s.healthHandler = handlers.NewHealthHandler(s.logger)
	s.healthHandler.SetServiceInfo("ollama", s.cfg.LLM.BaseURL)
	s.healthHandler.SetServiceInfo("model", model)
	s.healthHandler.SetServiceInfo("manifest_driver", s.cfg.Manifest.Driver)
	s.healthHandler.SetServiceInfo("tree_sitter", s.cfg.Validator.Enabled)

	// 就绪检查: 清单存储和模型后端
	s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("manifest_store", store.Ping))
	s.healthHandler.RegisterCheck(handlers.NewPingHealthCheck("ollama", func(ctx context.Context) error {
		_, err := s.provider.HealthCheck(ctx)
		return err
	}))

	s.logger.Info("Pipeline initialized",
		zap.String("output_dir", s.cfg.Generator.OutputDir),
		zap.String("manifest_driver", s.cfg.Manifest.Driver),
	)
	return nil
}

// instrumentedProvider 在每次模型调用后记录 LLM 指标
type instrumentedProvider struct {
	llm.Provider
	collector *metrics.Collector
}

func (p *instrumentedProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	start := time.Now()
	resp, err := p.Provider.Generate(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	var promptTokens, completionTokens int
	if resp != nil {
		promptTokens = resp.PromptTokens
		completionTokens = resp.OutputTokens
	}
	p.collector.RecordLLMRequest(p.Provider.Name(), req.Model, status, time.Since(start), promptTokens, completionTokens)

	return resp, err
}

// =============================================================================
// 🌐 HTTP 服务器
// =============================================================================

// startHTTPServer 启动 HTTP 服务器
func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	// ========================================
	// 服务元信息
	// ========================================
	mux.HandleFunc("/", s.rootHandler.HandleRoot)

	// ========================================
	// 健康检查端点
	// ========================================
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/readyz", s.healthHandler.HandleReady)

	// 版本信息端点
	mux.HandleFunc("/version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	// ========================================
	// 项目生成端点
	// ========================================
	mux.HandleFunc("/run", s.generateHandler.HandleRun)

	// ========================================
	// 构建中间件链
	// ========================================
	rateLimiterCtx, rateLimiterCancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = rateLimiterCancel
	mws := []Middleware{
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		CORS(s.cfg.Server.CORSAllowedOrigins),
		RateLimiter(rateLimiterCtx, float64(s.cfg.Server.RateLimitRPS), s.cfg.Server.RateLimitBurst, s.logger),
		MetricsMiddleware(s.metricsCollector),
	}
	if s.cfg.Telemetry.Enabled {
		mws = append(mws, OTelTracing())
	}
	handler := Chain(mux, mws...)

	// ========================================
	// 使用 internal/server.Manager
	// ========================================
	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20, // 1 MB
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.httpManager = server.NewManager(handler, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.httpManager.Start(); err != nil {
		return err
	}

	s.logger.Info("HTTP server started", zap.Int("port", s.cfg.Server.HTTPPort))
	return nil
}

// =============================================================================
// 📊 Metrics 服务器
// =============================================================================

// startMetricsServer 启动 Metrics 服务器
func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}

	s.metricsManager = server.NewManager(mux, serverConfig, s.logger)

	// 启动服务器（非阻塞）
	if err := s.metricsManager.Start(); err != nil {
		return err
	}

	s.logger.Info("Metrics server started", zap.Int("port", s.cfg.Server.MetricsPort))
	return nil
}

// =============================================================================
// 🛑 关闭流程
// =============================================================================

// WaitForShutdown 等待关闭信号并优雅关闭
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}

	s.Shutdown()
}

// Shutdown 优雅关闭所有服务
func (s *Server) Shutdown() {
	s.logger.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 0. 停止 rate limiter 清理 goroutine
	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	// 1. 关闭 HTTP 服务器
	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	// 2. 关闭 Metrics 服务器
	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	// 3. 关闭清单存储
	if s.manifestStore != nil {
		if err := s.manifestStore.Close(); err != nil {
			s.logger.Error("Manifest store close error", zap.Error(err))
		}
	}

	// 4. 关闭遥测
	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("Telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("Graceful shutdown completed")
}
