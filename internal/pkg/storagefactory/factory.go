package storagefactory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"picbook/internal/config"
	"picbook/internal/pkg/storage"
	"picbook/internal/pkg/storage/local"
	"picbook/internal/pkg/storage/oss"
)

// DefaultBaseURL 本地存储的默认访问前缀
const DefaultBaseURL = "/static"

// NewStorage 根据 storage.type 创建产物存储
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Storage, error) {
	switch storage.StorageType(cfg.Type) {
	case storage.StorageTypeLocal:
		if cfg.Local == nil || cfg.Local.BasePath == "" {
			return nil, errors.New("storage.local.base_path is required")
		}
		baseURL := cfg.Local.BaseURL
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
		s, err := local.NewLocalStorage(cfg.Local.BasePath, baseURL)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("base_path", cfg.Local.BasePath).Str("base_url", baseURL).Msg("local storage")
		return s, nil
	case storage.StorageTypeOSS:
		if cfg.OSS == nil {
			return nil, errors.New("storage.oss config is required")
		}
		s, err := oss.NewOSSStorage(oss.Config{
			Endpoint:        cfg.OSS.Endpoint,
			Bucket:          cfg.OSS.Bucket,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			Prefix:          cfg.OSS.Prefix,
		})
		if err != nil {
			return nil, err
		}
		log.Debug().Str("bucket", cfg.OSS.Bucket).Str("prefix", cfg.OSS.Prefix).Msg("oss storage")
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
