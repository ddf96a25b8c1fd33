package storytools

import (
	"fmt"
	"strings"
)

// Caption 一条字幕（文本 + 起止时间，单位秒）
type Caption struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// BuildTimeline 按估算时长为句子生成连续的字幕时间轴
// 每条字幕的开始时间等于上一条的结束时间，从 0 开始
func BuildTimeline(sentences []string, estimate func(string) float64) []Caption {
	if estimate == nil {
		estimate = EstimateDuration
	}

	captions := make([]Caption, 0, len(sentences))
	clock := 0.0
	for _, s := range sentences {
		d := estimate(s)
		captions = append(captions, Caption{Text: s, Start: clock, End: clock + d})
		clock += d
	}
	return captions
}

// FormatSRTTimestamp 格式化 SRT 时间戳 HH:MM:SS,000
// 估算时长没有亚秒精度，毫秒部分固定为 000
func FormatSRTTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d,000", h, m, s)
}

// BuildSRT 生成 SRT 字幕内容（UTF-8）
func BuildSRT(captions []Caption) string {
	var b strings.Builder
	for i, c := range captions {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatSRTTimestamp(c.Start),
			FormatSRTTimestamp(c.End),
			c.Text,
		)
	}
	return b.String()
}
