package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	"picbook/internal/model/story"
)

// Model 需要维护索引的文档模型
type Model interface {
	Collection() string
	EnsureIndexes(ctx context.Context, db *mongo.Database) error
}

// models 启动时建索引的模型列表
func models() []Model {
	return []Model{
		&story.Story{},
	}
}

// EnsureIndexes 为所有模型创建索引，应用启动时调用
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, m := range models() {
		if err := m.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", m.Collection(), err)
		}
		log.Debug().Str("collection", m.Collection()).Msg("indexes ensured")
	}
	return nil
}
