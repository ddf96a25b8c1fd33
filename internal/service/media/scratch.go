package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Scratch 临时工作区管理
// 每个段落、每个视频任务各自申请独立目录，目录名带随机后缀，并发任务之间互不冲突
type Scratch struct {
	root string
	keep bool
}

// NewScratch 创建临时工作区管理器
// keep 为 true（或环境变量 DEBUG_MODE=1）时，Release 不删除目录，便于排查
func NewScratch(root string, keep bool) *Scratch {
	if root == "" {
		root = os.TempDir()
	}
	return &Scratch{
		root: root,
		keep: keep || os.Getenv("DEBUG_MODE") == "1",
	}
}

// Area 一个临时目录
type Area struct {
	Dir  string
	keep bool
}

// Acquire 申请临时目录 <root>/<prefix>_<随机>
func (s *Scratch) Acquire(prefix string) (*Area, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch root: %w", err)
	}
	dir, err := os.MkdirTemp(s.root, prefix+"_*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &Area{Dir: dir, keep: s.keep}, nil
}

// Path 返回目录内的文件路径
func (a *Area) Path(elem ...string) string {
	return filepath.Join(append([]string{a.Dir}, elem...)...)
}

// Release 释放临时目录
func (a *Area) Release() {
	if a.keep {
		log.Info().Str("dir", a.Dir).Msg("调试模式，保留临时目录")
		return
	}
	if err := os.RemoveAll(a.Dir); err != nil {
		log.Warn().Err(err).Str("dir", a.Dir).Msg("清理临时目录失败")
	}
}

// copyFile 复制文件内容
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// removeFiles 删除文件，忽略不存在的文件
func removeFiles(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", p).Msg("删除临时文件失败")
		}
	}
}
