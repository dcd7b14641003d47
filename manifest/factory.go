package manifest

import (
	"context"
	"fmt"

	"github.com/BaSui01/genesis/config"
	"go.uber.org/zap"
)

// NewStore 按配置的 driver 创建清单存储器.
// 支持 "file" 与 "mongo" 两种驱动.
func NewStore(ctx context.Context, cfg config.ManifestConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "mongo":
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.URI,
			Database:   cfg.Database,
			Collection: cfg.Collection,
			Timeout:    cfg.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown manifest driver: %q", cfg.Driver)
	}
}
