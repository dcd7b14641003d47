package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
)

// Synthesizer 让模型产出项目文件清单.
// 模型输出必须是 JSON 数组, 解析失败或产出为空时回退到基础骨架.
type Synthesizer struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewSynthesizer 创建文件合成器
func NewSynthesizer(provider llm.Provider, model string, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// Synthesize 为项目生成文件集合.
// 返回的 fallbackReason 非空表示走了回退骨架
func (s *Synthesizer) Synthesize(ctx context.Context, prompt, projectName string) (files []types.GeneratedFile, fallbackReason string) {
	resp, err := s.provider.Generate(ctx, &llm.GenerateRequest{
		Model:  s.model,
		Prompt: structurePrompt(prompt, projectName),
	})
	if err != nil {
		s.logger.Error("failed to generate project structure", zap.Error(err))
		return FallbackFiles(prompt, err.Error()), err.Error()
	}

	parsed, err := ParseFileList(resp.Text)
	if err != nil {
		s.logger.Error("failed to parse model file list",
			zap.Error(err),
			zap.Int("response_len", len(resp.Text)))
		reason := "LLM structure generation failed"
		return FallbackFiles(prompt, reason), reason
	}
	return parsed, ""
}

// ParseFileList 解析模型返回的文件清单.
// 容忍 ```json 代码围栏, 丢弃缺少 name 或 content 的条目,
// language 缺省为 "text". 解析失败或过滤后为空都算错误.
func ParseFileList(raw string) ([]types.GeneratedFile, error) {
	text := StripCodeFence(raw)

	var entries []struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, err
	}

	files := make([]types.GeneratedFile, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.Content == "" {
			continue
		}
		lang := e.Language
		if lang == "" {
			lang = "text"
		}
		files = append(files, types.GeneratedFile{
			Name:     e.Name,
			Content:  e.Content,
			Language: lang,
		})
	}
	if len(files) == 0 {
		return nil, errEmptyFileList
	}
	return files, nil
}

var errEmptyFileList = errors.New("model returned no usable file entries")

// StripCodeFence 去掉包裹 JSON 的 markdown 代码围栏
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}
