// =============================================================================
// Genesis Generation Pipeline
// =============================================================================
// Orchestrates a single project generation: naming, file synthesis, disk
// write, manifest persistence and advisory syntax validation. The disk
// write is the only hard failure point; manifest and validation are
// best-effort.
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/BaSui01/genesis/internal/metrics"
	"github.com/BaSui01/genesis/manifest"
	"github.com/BaSui01/genesis/types"
	"github.com/BaSui01/genesis/validate"
	"go.uber.org/zap"
)

// Generator 项目生成器, 串联完整生成流程
type Generator struct {
	namer       *Namer
	synthesizer *Synthesizer
	writer      *Writer
	store       manifest.Store
	validator   *validate.Validator
	collector   *metrics.Collector

	manifestDriver string
	logger         *zap.Logger
	now            func() time.Time
}

// GeneratorOption 生成器可选依赖
type GeneratorOption func(*Generator)

// WithManifestStore 挂接清单存储, 保存失败只告警
func WithManifestStore(store manifest.Store, driver string) GeneratorOption {
	return func(g *Generator) {
		g.store = store
		g.manifestDriver = driver
	}
}

// WithValidator 挂接语法校验器, 校验结果仅记录不拦截
func WithValidator(v *validate.Validator) GeneratorOption {
	return func(g *Generator) { g.validator = v }
}

// WithMetrics 挂接指标收集器
func WithMetrics(c *metrics.Collector) GeneratorOption {
	return func(g *Generator) { g.collector = c }
}

// NewGenerator 创建项目生成器
func NewGenerator(namer *Namer, synthesizer *Synthesizer, writer *Writer, logger *zap.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Generator{
		namer:       namer,
		synthesizer: synthesizer,
		writer:      writer,
		logger:      logger.With(zap.String("component", "generator")),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate 执行一次项目生成.
// 空提示词与写盘失败返回错误, 其余环节都有兜底
func (g *Generator) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	start := g.now()

	req.Normalize()
	if req.Prompt == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "prompt is required")
	}

	projectID := start.Format(timestampLayout)
	g.logger.Info("starting project generation",
		zap.String("project_id", projectID),
		zap.String("prompt_preview", truncate(req.Prompt, 100)))

	projectName := g.namer.Resolve(ctx, req.Prompt)
	g.logger.Info("resolved project name", zap.String("name", projectName))

	files, fallbackReason := g.synthesizer.Synthesize(ctx, req.Prompt, projectName)

	projectPath, err := g.writer.Write(projectName, files)
	if err != nil {
		g.recordGeneration(req.Backend, metrics.OutcomeError, start, 0)
		return nil, err
	}

	result := &types.GenerationResult{
		ProjectID:   projectID,
		ProjectName: projectName,
		Files:       files,
		Output: fmt.Sprintf("Successfully generated %d files in project '%s' at: %s",
			len(files), projectName, projectPath),
		ProjectPath: projectPath,
	}

	g.saveManifest(ctx, projectID, req, result, fallbackReason)
	g.validateFiles(ctx, projectID, files)

	outcome := metrics.OutcomeSuccess
	if fallbackReason != "" {
		outcome = metrics.OutcomeFallback
	}
	g.recordGeneration(req.Backend, outcome, start, len(files))

	g.logger.Info("project generated",
		zap.String("project_id", projectID),
		zap.String("name", projectName),
		zap.Int("files", len(files)),
		zap.String("path", projectPath),
		zap.Bool("fallback", fallbackReason != ""))

	return result, nil
}

// saveManifest 尽力保存清单, 失败不影响生成结果
func (g *Generator) saveManifest(ctx context.Context, projectID string, req *types.GenerationRequest, result *types.GenerationResult, fallbackReason string) {
	if g.store == nil {
		return
	}

	m := &types.ProjectManifest{
		ProjectID:      projectID,
		Prompt:         req.Prompt,
		Backend:        req.Backend,
		GeneratedAt:    g.now().UTC(),
		Files:          result.Files,
		Output:         result.Output,
		ProjectPath:    result.ProjectPath,
		FallbackReason: fallbackReason,
	}

	err := g.store.Save(ctx, m)
	if g.collector != nil {
		g.collector.RecordManifestWrite(g.manifestDriver, err)
	}
	if err != nil {
		g.logger.Error("failed to save project manifest",
			zap.String("project_id", projectID),
			zap.Error(err))
		return
	}
	g.logger.Info("saved project manifest", zap.String("project_id", projectID))
}

// validateFiles 尽力做语法校验, 结果只记录
func (g *Generator) validateFiles(ctx context.Context, projectID string, files []types.GeneratedFile) {
	if g.validator == nil {
		return
	}

	for _, r := range g.validator.ValidateFiles(ctx, files) {
		result := "valid"
		if !r.Valid {
			result = "invalid"
		}
		if g.collector != nil {
			g.collector.RecordValidation(r.Language, result)
		}
		if !r.Valid {
			g.logger.Warn("generated file failed validation",
				zap.String("project_id", projectID),
				zap.String("file", r.FileName),
				zap.Strings("errors", r.Errors))
		}
	}
}

func (g *Generator) recordGeneration(backend, outcome string, start time.Time, filesWritten int) {
	if g.collector == nil {
		return
	}
	g.collector.RecordGeneration(backend, outcome, g.now().Sub(start), filesWritten)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
