package storytools

import (
	"fmt"
	"strings"
)

const maxTitleRunes = 50

// SanitizeTitle 清理标题中不能出现在文件名里的字符，并截断到 50 个字符
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/*?:"<>|`, r) {
			return -1
		}
		return r
	}, title)

	runes := []rune(cleaned)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return string(runes)
}

// ParagraphID 段落标识 paragraph_<n>_<unix>，n 从 1 开始（1 为标题）
func ParagraphID(n int, unix int64) string {
	return fmt.Sprintf("paragraph_%d_%d", n, unix)
}

// ImageFilename 图片文件名 <标题>_<unix>_<序号>.png
func ImageFilename(title string, unix int64, index int) string {
	return fmt.Sprintf("%s_%d_%d.png", SanitizeTitle(title), unix, index)
}

// VideoFilename 规范化视频输出文件名
// 空名称或占位值 "string" 使用 video_<unix>.mp4，并保证 .mp4 后缀
func VideoFilename(name string, unix int64) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "string" {
		return fmt.Sprintf("video_%d.mp4", unix)
	}
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	if !strings.HasSuffix(strings.ToLower(name), ".mp4") {
		name += ".mp4"
	}
	return name
}
