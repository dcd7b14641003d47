package pipeline

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/BaSui01/genesis/llm"
	"go.uber.org/zap"
)

// timestampLayout 同时用作项目 ID 与兜底名称的时间戳格式
const timestampLayout = "20060102_150405"

// Namer 让模型为项目起名, 任何失败都回退到时间戳名称
type Namer struct {
	provider  llm.Provider
	model     string
	maxLength int
	logger    *zap.Logger
	now       func() time.Time
}

// NewNamer 创建命名器
func NewNamer(provider llm.Provider, model string, maxLength int, logger *zap.Logger) *Namer {
	if maxLength <= 0 {
		maxLength = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Namer{
		provider:  provider,
		model:     model,
		maxLength: maxLength,
		logger:    logger,
		now:       time.Now,
	}
}

// Resolve 根据提示词生成项目名. 永不失败:
// 模型出错、名称清洗后为空或超长时, 返回 "project-<时间戳>"
func (n *Namer) Resolve(ctx context.Context, prompt string) string {
	resp, err := n.provider.Generate(ctx, &llm.GenerateRequest{
		Model:  n.model,
		Prompt: namePrompt(prompt),
	})
	if err != nil {
		n.logger.Error("failed to generate project name", zap.Error(err))
		return n.fallbackName()
	}

	name := SanitizeName(resp.Text)
	if name == "" || len(name) > n.maxLength {
		n.logger.Warn("model returned unusable project name",
			zap.String("raw", strings.TrimSpace(resp.Text)))
		return n.fallbackName()
	}
	return name
}

func (n *Namer) fallbackName() string {
	return "project-" + n.now().Format(timestampLayout)
}

// SanitizeName 清洗模型返回的项目名:
// 小写化, 空格和下划线换成连字符, 去掉其余非字母数字字符, 去首尾连字符
func SanitizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")

	var b strings.Builder
	for _, r := range name {
		if r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
