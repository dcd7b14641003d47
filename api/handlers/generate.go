package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/BaSui01/genesis/api"
	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🚀 项目生成 Handler
// =============================================================================

// ProjectGenerator 生成流程的最小接口, 便于 handler 单测
type ProjectGenerator interface {
	Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error)
}

// GenerateHandler 项目生成处理器
type GenerateHandler struct {
	generator ProjectGenerator
	logger    *zap.Logger
}

// NewGenerateHandler 创建项目生成处理器
func NewGenerateHandler(generator ProjectGenerator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		logger:    logger.With(zap.String("handler", "generate")),
	}
}

// HandleRun 处理 POST /run 请求.
// 空提示词返回 400 且无任何副作用; 写盘失败等硬错误返回 5xx
func (h *GenerateHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, http.StatusMethodNotAllowed, types.ErrInvalidRequest,
			"method not allowed", h.logger)
		return
	}

	if !ValidateContentType(w, r, h.logger) {
		return
	}

	var req api.RunRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	genReq := &types.GenerationRequest{
		Prompt:  req.Prompt,
		Backend: req.Backend,
	}

	result, err := h.generator.Generate(r.Context(), genReq)
	if err != nil {
		var typed *types.Error
		if errors.As(err, &typed) {
			WriteError(w, typed, h.logger)
			return
		}
		WriteErrorMessage(w, http.StatusInternalServerError, types.ErrInternalError,
			"project generation failed: "+err.Error(), h.logger)
		return
	}

	WriteSuccessMessage(w, "Project generated successfully", api.RunData{
		ProjectID:   result.ProjectID,
		ProjectName: result.ProjectName,
		Files:       result.Files,
		Output:      result.Output,
		ProjectPath: result.ProjectPath,
	})
}
