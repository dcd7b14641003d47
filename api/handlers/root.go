package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// =============================================================================
// 🌐 根路径 Handler
// =============================================================================

// RootHandler 服务元信息处理器
type RootHandler struct {
	version   string
	outputDir string
	logger    *zap.Logger
}

// NewRootHandler 创建根路径处理器
func NewRootHandler(version, outputDir string, logger *zap.Logger) *RootHandler {
	return &RootHandler{
		version:   version,
		outputDir: outputDir,
		logger:    logger,
	}
}

// HandleRoot 处理 GET / 请求, 返回服务元信息与端点索引
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	WriteSuccessMessage(w, "Genesis is running", map[string]any{
		"version":     h.version,
		"genesis_dir": h.outputDir,
		"endpoints": map[string]string{
			"health":   "/health",
			"generate": "/run",
		},
	})
}
