package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"picbook/internal/pkg/storage"
)

// Config OSS 存储配置
type Config struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	Prefix          string // 对象 key 前缀，多个环境共用一个 bucket 时区分目录
}

// OSSStorage 阿里云OSS存储
// 产物 key 为 <prefix>/<category>/<filename>，URL 为 https://<bucket>.<endpoint>/<完整 key>
type OSSStorage struct {
	bucket  *oss.Bucket
	prefix  string
	baseURL string
}

// NewOSSStorage 创建阿里云OSS存储
func NewOSSStorage(cfg Config) (*OSSStorage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("oss endpoint and bucket are required")
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	host := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	return &OSSStorage{
		bucket:  bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: fmt.Sprintf("https://%s.%s", cfg.Bucket, strings.TrimSuffix(host, "/")),
	}, nil
}

// objectKey 加上前缀后的 OSS 对象名
func (s *OSSStorage) objectKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *OSSStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	err := s.bucket.PutObject(s.objectKey(key), data, oss.ContentType(contentType), oss.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *OSSStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(s.objectKey(key), oss.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	return body, nil
}

func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(s.objectKey(key), oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *OSSStorage) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := s.bucket.IsObjectExist(s.objectKey(key), oss.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return exists, nil
}

// GetFileInfo 读取对象元信息（视频合成后用来记录文件大小）
func (s *OSSStorage) GetFileInfo(ctx context.Context, key string) (*storage.FileInfo, error) {
	props, err := s.bucket.GetObjectDetailedMeta(s.objectKey(key), oss.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	return fileInfoFromHeader(key, props), nil
}

func fileInfoFromHeader(key string, h http.Header) *storage.FileInfo {
	info := &storage.FileInfo{
		Key:         key,
		ContentType: h.Get("Content-Type"),
		ETag:        strings.Trim(h.Get("ETag"), `"`),
	}
	if info.ContentType == "" {
		info.ContentType = storage.ContentType(key)
	}
	if n, err := strconv.ParseInt(h.Get("Content-Length"), 10, 64); err == nil {
		info.Size = n
	}
	if t, err := time.Parse(http.TimeFormat, h.Get("Last-Modified")); err == nil {
		info.LastModified = t
	}
	return info
}

// URL 返回对象的公网访问URL
func (s *OSSStorage) URL(key string) string {
	return s.baseURL + "/" + s.objectKey(key)
}

// KeyFromURL 从对象URL中取出不含前缀的 key
func (s *OSSStorage) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if s.prefix != "" {
		prefix += s.prefix + "/"
	}
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}

func (s *OSSStorage) GetStorageType() string {
	return string(storage.StorageTypeOSS)
}
