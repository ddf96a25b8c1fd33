package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxStderrBytes 错误信息中保留的 stderr 尾部长度
const maxStderrBytes = 2048

// Runner 外部命令执行器
// 默认使用 exec 调用；单测中替换为假实现，避免依赖本机安装 ffmpeg
type Runner interface {
	// Run 执行命令，返回 stdout；失败时返回 *CommandError
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunnerFunc 函数形式的 Runner
type RunnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Run 实现 Runner 接口
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// ExecRunner 基于 os/exec 的执行器
type ExecRunner struct{}

// Run 执行命令并捕获 stdout/stderr
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &CommandError{
			Tool:   filepath.Base(name),
			Args:   args,
			Stderr: tail(stderr.String(), maxStderrBytes),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// CommandError 外部命令执行失败
type CommandError struct {
	Tool   string   // ffmpeg / ffprobe
	Args   []string // 命令参数
	Stderr string   // stderr 尾部（诊断信息）
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
