package storytools

import (
	"strings"
)

// sentenceTerminators 句末标点，切分时保留在所属句子末尾
var sentenceTerminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
}

// SplitText 将文本切分为句子
//
// Args:
//   - text: 原始文本
//   - byNewline: 是否在换行处切分（换行符本身被丢弃）
//   - byPunctuation: 是否在句末标点（。！？）之后切分
//
// 两个开关都关闭时，返回去除首尾空白后的整段文本。
// 切分结果均去除首尾空白，空句子被丢弃；没有正文的句末标点被丢弃。
func SplitText(text string, byNewline, byPunctuation bool) []string {
	if !byNewline && !byPunctuation {
		return []string{strings.TrimSpace(text)}
	}

	sentences := make([]string, 0)
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	for _, r := range text {
		if byNewline && r == '\n' {
			flush()
			continue
		}
		if byPunctuation && sentenceTerminators[r] {
			// 没有正文的句末标点直接丢弃
			if strings.TrimSpace(current.String()) == "" {
				current.Reset()
				continue
			}
			current.WriteRune(r)
			flush()
			continue
		}
		current.WriteRune(r)
	}
	flush()

	return sentences
}
