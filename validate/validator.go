// =============================================================================
// Genesis Tree-sitter Syntax Validation
// =============================================================================
// Shells out to a Node.js tree-sitter script to syntax-check generated
// source files. Validation is advisory: results are reported back to the
// caller but never block project generation.
// =============================================================================

package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result 单个文件的校验结果
type Result struct {
	FileName string   `json:"file_name,omitempty"`
	Language string   `json:"language"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Config 校验器配置
type Config struct {
	// NodeBin Node.js 可执行文件
	NodeBin string

	// ScriptPath tree-sitter 校验脚本路径
	ScriptPath string

	// Timeout 单个文件的校验超时
	Timeout time.Duration

	// MaxConcurrency 批量校验的最大并发
	MaxConcurrency int
}

// Validator 通过 Node.js 子进程执行 tree-sitter 语法校验
type Validator struct {
	cfg    Config
	logger *zap.Logger
}

// NewValidator 创建校验器
func NewValidator(cfg Config, logger *zap.Logger) *Validator {
	if cfg.NodeBin == "" {
		cfg.NodeBin = "node"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{cfg: cfg, logger: logger}
}

// ValidateCode 校验一段源码
// 子进程失败、超时或输出损坏都归一为 valid=false 的结果, 不返回错误
func (v *Validator) ValidateCode(ctx context.Context, language, code string) Result {
	runCtx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, v.cfg.NodeBin, v.cfg.ScriptPath, language, code)
	cmd.Dir = filepath.Dir(v.cfg.ScriptPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return Result{
				Language: language,
				Valid:    false,
				Errors:   []string{"validation timeout"},
			}
		}
		v.logger.Error("validation process failed",
			zap.String("language", language),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
			zap.Error(err))
		return Result{
			Language: language,
			Valid:    false,
			Errors:   []string{fmt.Sprintf("validation process failed: %s", strings.TrimSpace(stderr.String()))},
		}
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return Result{
			Language: language,
			Valid:    false,
			Errors:   []string{fmt.Sprintf("invalid validation output: %v", err)},
		}
	}
	if result.Language == "" {
		result.Language = language
	}
	return result
}

// ValidateFiles 批量校验生成的文件, 并发执行但结果顺序与输入一致.
// 不支持的语言直接跳过, 返回的切片只含实际校验过的文件.
func (v *Validator) ValidateFiles(ctx context.Context, files []types.GeneratedFile) []Result {
	type indexed struct {
		idx  int
		file types.GeneratedFile
	}

	candidates := make([]indexed, 0, len(files))
	for i, f := range files {
		if Supported(languageFor(f)) {
			candidates = append(candidates, indexed{idx: i, file: f})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	results := make([]Result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.MaxConcurrency)

	for i, c := range candidates {
		g.Go(func() error {
			r := v.ValidateCode(gctx, languageFor(c.file), c.file.Content)
			r.FileName = c.file.Name
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// languageFor 选定文件的校验语言: 优先用声明的 language, 否则按扩展名推断
func languageFor(f types.GeneratedFile) string {
	lang := strings.ToLower(strings.TrimSpace(f.Language))
	if lang != "" && lang != "text" {
		return lang
	}
	return DetectLanguage(f.Name)
}

// DetectLanguage 按文件扩展名推断语言
func DetectLanguage(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	default:
		return ""
	}
}

// Supported 报告语言是否有对应的 tree-sitter 语法
func Supported(language string) bool {
	switch language {
	case "javascript", "typescript":
		return true
	default:
		return false
	}
}
