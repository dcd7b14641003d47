package manifest

import (
	"context"
	"errors"

	"github.com/BaSui01/genesis/types"
)

// 存储层哨兵错误
var (
	ErrNotFound     = errors.New("manifest not found")
	ErrStoreClosed  = errors.New("manifest store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// Store 是项目清单的持久化接口.
// 生成流程在写盘成功后尽力保存清单, 保存失败不影响生成结果.
type Store interface {
	// Save 持久化一份项目清单, 以 ProjectID 为键, 重复保存覆盖旧值
	Save(ctx context.Context, m *types.ProjectManifest) error

	// Get 按项目 ID 获取清单, 不存在时返回 ErrNotFound
	Get(ctx context.Context, projectID string) (*types.ProjectManifest, error)

	// List 返回全部清单, 按 GeneratedAt 升序排列
	List(ctx context.Context) ([]*types.ProjectManifest, error)

	// Ping 检查存储是否可用
	Ping(ctx context.Context) error

	// Close 释放资源, 幂等
	Close() error
}
