package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BaSui01/genesis/types"
	"go.uber.org/zap"
)

// Writer 将生成的文件落盘到输出根目录下的项目目录
type Writer struct {
	root   string
	logger *zap.Logger
}

// NewWriter 创建写盘器, 确保输出根目录存在
func NewWriter(root string, logger *zap.Logger) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("output root is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root %s: %w", root, err)
	}
	return &Writer{root: root, logger: logger}, nil
}

// Root 返回输出根目录
func (w *Writer) Root() string { return w.root }

// Write 将整组文件写入 <root>/<projectName>/.
// 文件名必须是项目目录内的相对路径, 越界路径整组拒绝.
// 任何写入失败都是硬错误, 已写入的文件不回滚.
func (w *Writer) Write(projectName string, files []types.GeneratedFile) (string, error) {
	if projectName == "" {
		return "", types.NewError(types.ErrFilesystemError, "project name is required")
	}

	projectPath := filepath.Join(w.root, projectName)

	// 先整组校验路径, 再动盘
	for _, f := range files {
		if err := checkContained(f.Name); err != nil {
			return "", types.NewError(types.ErrFilesystemError,
				fmt.Sprintf("unsafe file path %q: %v", f.Name, err))
		}
	}

	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return "", types.NewError(types.ErrFilesystemError,
			fmt.Sprintf("failed to create project directory: %v", err)).WithCause(err)
	}

	w.logger.Info("creating project", zap.String("path", projectPath))

	for _, f := range files {
		filePath := filepath.Join(projectPath, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return "", types.NewError(types.ErrFilesystemError,
				fmt.Sprintf("failed to create directory for %s: %v", f.Name, err)).WithCause(err)
		}
		if err := os.WriteFile(filePath, []byte(f.Content), 0644); err != nil {
			return "", types.NewError(types.ErrFilesystemError,
				fmt.Sprintf("failed to write %s: %v", f.Name, err)).WithCause(err)
		}
		w.logger.Debug("created file", zap.String("path", filePath))
	}

	return projectPath, nil
}

// checkContained 拒绝绝对路径和 ".." 越界的文件名
func checkContained(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	slashed := filepath.ToSlash(name)
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("absolute path")
	}
	cleaned := filepath.Clean(filepath.FromSlash(slashed))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes project directory")
	}
	return nil
}
