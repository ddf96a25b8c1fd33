package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Storage 存储接口
// 流水线产物（图片、音频、字幕、视频）统一通过此接口发布
type Storage interface {
	// Upload 上传文件，返回访问URL
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)

	// Download 下载文件
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(ctx context.Context, key string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// GetFileInfo 获取文件信息
	GetFileInfo(ctx context.Context, key string) (*FileInfo, error)

	// URL 返回 key 对应的访问URL
	URL(key string) string

	// KeyFromURL 从访问URL反解出 key，不属于本存储时返回 false
	KeyFromURL(url string) (string, bool)

	// GetStorageType 获取存储类型
	GetStorageType() string
}

// FileInfo 文件信息
type FileInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// StorageType 存储类型
type StorageType string

const (
	StorageTypeLocal StorageType = "local" // 本地文件系统
	StorageTypeOSS   StorageType = "oss"   // 阿里云OSS
)

// 产物分类，对应 URL 中的 /static/<category>/<filename>
const (
	CategoryImages    = "images"
	CategorySpeech    = "speech"
	CategoryAudio     = "audio"
	CategorySubtitles = "subtitles"
	CategoryVideos    = "videos"
)

// ObjectKey 生成对象 key: <category>/<filename>
func ObjectKey(category, filename string) string {
	return path.Join(category, filename)
}

// UploadFile 上传本地文件
func UploadFile(ctx context.Context, s Storage, key, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	return s.Upload(ctx, key, f, ContentType(key))
}

// DownloadToFile 下载对象到本地文件
func DownloadToFile(ctx context.Context, s Storage, key, dst string) error {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// ContentType 根据文件扩展名获取Content-Type
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	contentTypes := map[string]string{
		".txt":  "text/plain",
		".json": "application/json",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
		".mp4":  "video/mp4",
		".mp3":  "audio/mpeg",
		".wav":  "audio/wav",
		".srt":  "application/x-subrip",
	}

	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
