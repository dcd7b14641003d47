package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/BaSui01/genesis/llm"
	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
)

// stubProvider 按提示词类型返回预设响应的测试替身.
// 命名提示词与结构提示词通过内容区分.
type stubProvider struct {
	nameText      string
	nameErr       error
	structureText string
	structureErr  error
	calls         []string
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, req *llm.GenerateRequest) (*llm.GenerateResponse, error) {
	if strings.Contains(req.Prompt, "suggest a short, descriptive project name") {
		p.calls = append(p.calls, "name")
		if p.nameErr != nil {
			return nil, p.nameErr
		}
		return &llm.GenerateResponse{Provider: "stub", Text: p.nameText}, nil
	}
	p.calls = append(p.calls, "structure")
	if p.structureErr != nil {
		return nil, p.structureErr
	}
	return &llm.GenerateResponse{Provider: "stub", Text: p.structureText}, nil
}

func (p *stubProvider) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{Name: "stub-model"}}, nil
}

func (p *stubProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	return &llm.HealthStatus{Healthy: true}, nil
}

var _ llm.Provider = (*stubProvider)(nil)

func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 12, 30, 45, 0, time.UTC)
}

func testNamer(p llm.Provider) *Namer {
	n := NewNamer(p, "stub-model", 20, zap.NewNop())
	n.now = fixedNow
	return n
}

var validStructureJSON = `[
  {"name": "package.json", "content": "{}", "language": "json"},
  {"name": "src/index.js", "content": "console.log('hi')", "language": "javascript"},
  {"name": "README.md", "content": "# App"}
]`

func filesByName(files []types.GeneratedFile) map[string]types.GeneratedFile {
	m := make(map[string]types.GeneratedFile, len(files))
	for _, f := range files {
		m[f.Name] = f
	}
	return m
}
