package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BaSui01/genesis/types"
)

const manifestSuffix = "_manifest.json"

// FileStore 是基于文件的清单存储.
// 每份清单一个 "<project_id>_manifest.json" 文件, 适合单节点部署.
type FileStore struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// NewFileStore 创建文件清单存储器
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("manifest dir is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create manifest directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save 将清单写入磁盘
func (s *FileStore) Save(ctx context.Context, m *types.ProjectManifest) error {
	if m == nil || m.ProjectID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	// 原子写: 写入临时文件后重命名
	path := s.path(m.ProjectID)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return os.Rename(tempPath, path)
}

// Get 按项目 ID 读取清单
func (s *FileStore) Get(ctx context.Context, projectID string) (*types.ProjectManifest, error) {
	if projectID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	data, err := os.ReadFile(s.path(projectID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m types.ProjectManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", projectID, err)
	}
	return &m, nil
}

// List 读取目录下全部清单, 按生成时间升序
func (s *FileStore) List(ctx context.Context) ([]*types.ProjectManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest directory: %w", err)
	}

	result := make([]*types.ProjectManifest, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), manifestSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", entry.Name(), err)
		}
		var m types.ProjectManifest
		if err := json.Unmarshal(data, &m); err != nil {
			// 跳过损坏的清单文件, 不让单个坏文件拖垮整个列表
			continue
		}
		result = append(result, &m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].GeneratedAt.Before(result[j].GeneratedAt)
	})
	return result, nil
}

// Ping 检查存储目录可用
func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("manifest directory unavailable: %w", err)
	}
	return nil
}

// Close 关闭存储
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) path(projectID string) string {
	return filepath.Join(s.dir, projectID+manifestSuffix)
}

var _ Store = (*FileStore)(nil)
