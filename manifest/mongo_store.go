package manifest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BaSui01/genesis/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// MongoStore 是基于 MongoDB 的清单存储.
// 以 project_id 为唯一键, 重复保存走 upsert.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
	logger     *zap.Logger
	mu         sync.RWMutex
	closed     bool
}

// MongoConfig MongoDB 存储配置
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// NewMongoStore 连接 MongoDB 并创建清单存储器
func NewMongoStore(ctx context.Context, cfg MongoConfig, logger *zap.Logger) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = "genesis"
	}
	if cfg.Collection == "" {
		cfg.Collection = "projects"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	// project_id 唯一索引, 建索引失败只告警不阻塞启动
	idxCtx, idxCancel := context.WithTimeout(ctx, cfg.Timeout)
	defer idxCancel()
	_, err = collection.Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Warn("failed to create manifest index", zap.Error(err))
	}

	logger.Info("mongodb manifest store connected",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection))

	return &MongoStore{
		client:     client,
		collection: collection,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

// Save 持久化清单, 以 project_id 为键 upsert
func (s *MongoStore) Save(ctx context.Context, m *types.ProjectManifest) error {
	if m == nil || m.ProjectID == "" {
		return ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.collection.ReplaceOne(opCtx,
		bson.D{{Key: "project_id", Value: m.ProjectID}},
		m,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}

// Get 按项目 ID 读取清单
func (s *MongoStore) Get(ctx context.Context, projectID string) (*types.ProjectManifest, error) {
	if projectID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var m types.ProjectManifest
	err := s.collection.FindOne(opCtx, bson.D{{Key: "project_id", Value: projectID}}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest: %w", err)
	}
	return &m, nil
}

// List 返回全部清单, 按生成时间升序
func (s *MongoStore) List(ctx context.Context) ([]*types.ProjectManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cursor, err := s.collection.Find(opCtx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "generated_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	defer cursor.Close(opCtx)

	result := make([]*types.ProjectManifest, 0)
	if err := cursor.All(opCtx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode manifests: %w", err)
	}
	return result, nil
}

// Ping 检查 MongoDB 连接
func (s *MongoStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(opCtx, readpref.Primary())
}

// Close 断开 MongoDB 连接, 幂等
func (s *MongoStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
